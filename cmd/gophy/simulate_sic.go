package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sdrphy/gophy/internal/rxlog"
	"github.com/sdrphy/gophy/internal/sim"
	"github.com/spf13/pflag"
)

func runSimulateSIC(argv []string) error {
	fs := pflag.NewFlagSet("simulate-sic", pflag.ExitOnError)

	configFile := fs.String("config", "", "optional YAML sweep config; overrides the flags below when set")
	protocolHigh := fs.String("protocol-high", "ble", "protocol of the stronger signal: ble or 802154")
	protocolLow := fs.String("protocol-low", "802154", "protocol of the weaker signal: ble or 802154")
	bleRate := fs.Float64("ble-rate", 1e6, "BLE air rate when either leg is ble: 1e6 or 2e6")
	payloadLenHigh := fs.Int("payload-len-high", 20, "payload length in bytes for the stronger signal")
	payloadLenLow := fs.Int("payload-len-low", 20, "payload length in bytes for the weaker signal")
	numTrials := fs.Int("num-trials", 100, "trials per (power, SNR) cell")
	samplingRate := fs.Float64("sampling-rate", 8_000_000, "sampling rate in Hz")
	lowPowers := fs.Float64Slice("low-powers-db", []float64{-20, -15, -10, -5, 0}, "sweep of weaker-signal power levels in dB relative to the stronger signal")
	snrLows := fs.Float64Slice("snr-lows-db", []float64{0, 5, 10, 15, 20}, "sweep of weaker-signal SNR levels in dB")
	highPowerDB := fs.Float64("high-power-db", 0, "stronger-signal power level in dB")
	seed := fs.Int64("seed", 1, "sweep RNG base seed")
	outDir := fs.StringP("out-dir", "o", ".", "directory to write the result archive JSON into")
	debug := fs.BoolP("debug", "d", false, "enable debug logging")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Run the Monte-Carlo SIC packet-delivery-rate sweep.\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n\tgophy simulate-sic --protocol-high {ble|802154} --protocol-low {ble|802154} [flags]\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(argv); err != nil {
		return err
	}
	rxlog.SetLevel(*debug)

	var cfg sim.Config
	if *configFile != "" {
		loaded, err := sim.LoadConfigYAML(*configFile)
		if err != nil {
			return fmt.Errorf("simulate-sic: %w", err)
		}
		cfg = loaded
	} else {
		cfg = sim.Config{
			SamplingRateHz: *samplingRate,
			ProtocolHigh:   sim.Protocol(*protocolHigh),
			ProtocolLow:    sim.Protocol(*protocolLow),
			BLERateHigh:    sim.BLERate(*bleRate),
			BLERateLow:     sim.BLERate(*bleRate),
			HighPowerDB:    *highPowerDB,
			LowPowersDB:    *lowPowers,
			SNRLowsDB:      *snrLows,
			CoarseFreqRange: sim.Range{
				Lo: -100_000, Hi: 100_000,
			},
			CoarseFreqStep: 1_000,
			FineWindowHz:   2_000,
			FineStepHz:     100,
			PayloadLenHigh: *payloadLenHigh,
			PayloadLenLow:  *payloadLenLow,
			ADCBits:        12,
			ADCVmax:        1.0,
			PadSamp:        256,
			NumTrials:      *numTrials,
			Seed:           *seed,
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("simulate-sic: %w", err)
	}

	rxlog.Info("simulate-sic: starting sweep",
		"protocol_high", cfg.ProtocolHigh, "protocol_low", cfg.ProtocolLow,
		"cells", len(cfg.LowPowersDB)*len(cfg.SNRLowsDB), "trials", cfg.NumTrials)

	pdr, err := sim.RunSweep(cfg)
	if err != nil {
		return fmt.Errorf("simulate-sic: %w", err)
	}

	archive := sim.NewArchive(cfg, pdr)
	raw, err := json.MarshalIndent(archive, "", "  ")
	if err != nil {
		return fmt.Errorf("simulate-sic: %w", err)
	}

	outPath := *outDir + "/" + sim.ArchiveName(cfg)
	if err := os.WriteFile(outPath, raw, 0o644); err != nil {
		return fmt.Errorf("simulate-sic: %w", err)
	}
	rxlog.Info("simulate-sic: wrote archive", "path", outPath)
	return nil
}
