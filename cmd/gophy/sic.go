package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/sdrphy/gophy/internal/ble"
	"github.com/sdrphy/gophy/internal/dsss154"
	"github.com/sdrphy/gophy/internal/iq"
	"github.com/sdrphy/gophy/internal/iqfile"
	"github.com/sdrphy/gophy/internal/rxlog"
	"github.com/sdrphy/gophy/internal/sic"
	"github.com/spf13/pflag"
)

func runSIC(argv []string) error {
	fs := pflag.NewFlagSet("sic", pflag.ExitOnError)

	file := fs.StringP("file", "f", "", "path to the composite (mixed) IQ recording")
	sampleRate := fs.Float64P("fs", "s", 8_000_000, "sampling rate in Hz")
	affected := fs.String("affected", "ble", "protocol of the stronger signal: ble or 802154")
	interference := fs.String("interference", "802154", "protocol of the weaker signal: ble or 802154")
	coarseLo := fs.Float64("coarse-lo-hz", -100_000, "coarse frequency-search lower bound")
	coarseHi := fs.Float64("coarse-hi-hz", 100_000, "coarse frequency-search upper bound")
	coarseStep := fs.Float64("coarse-step-hz", 1_000, "coarse frequency-search step")
	fineWindow := fs.Float64("fine-window-hz", 2_000, "fine frequency-search half-width around the coarse peak, 0 disables the fine pass")
	fineStep := fs.Float64("fine-step-hz", 100, "fine frequency-search step")
	debug := fs.BoolP("debug", "d", false, "enable debug logging")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Run successive interference cancellation on a composite IQ recording.\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n\tgophy sic --file PATH --fs HZ --affected {ble|802154} --interference {ble|802154}\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(argv); err != nil {
		return err
	}
	rxlog.SetLevel(*debug)

	if *file == "" {
		fs.Usage()
		return fmt.Errorf("sic: --file is required")
	}

	strongEP, err := endpointFor(*affected, *sampleRate)
	if err != nil {
		return fmt.Errorf("sic: --affected: %w", err)
	}
	weakEP, err := endpointFor(*interference, *sampleRate)
	if err != nil {
		return fmt.Errorf("sic: --interference: %w", err)
	}

	f, err := os.Open(*file)
	if err != nil {
		return fmt.Errorf("sic: %w", err)
	}
	defer f.Close()

	samples, err := iqfile.ReadComplex64(f)
	if err != nil {
		return fmt.Errorf("sic: %w", err)
	}
	composite := iq.New(*sampleRate, samples)

	grid := sic.FrequencyGrid{
		CoarseLo: *coarseLo, CoarseHi: *coarseHi, CoarseStep: *coarseStep,
		FineHalfWidth: *fineWindow, FineStep: *fineStep,
	}
	result := sic.Run(*sampleRate, composite, strongEP, weakEP, grid)

	if result.Strong == nil && result.Weak == nil {
		return fmt.Errorf("sic: pipeline did not decode either signal")
	}
	if result.Strong != nil {
		fmt.Printf("strong: crc_ok=%v payload=%s\n", result.Strong.CRCOK, hex.EncodeToString(result.Strong.Payload))
	}
	if result.Weak != nil {
		fmt.Printf("weak: crc_ok=%v payload=%s\n", result.Weak.CRCOK, hex.EncodeToString(result.Weak.Payload))
	}
	fmt.Printf("params: freq_hz=%.1f amplitude=%.4f phase_rad=%.4f lag_samp=%d\n",
		result.Params.FreqHz, result.Params.Amplitude, result.Params.PhaseRad, result.Params.LagSamp)
	return nil
}

func endpointFor(proto string, fs float64) (sic.Endpoint, error) {
	switch proto {
	case "ble":
		return sic.BLEEndpoint{
			RX:   ble.NewReceiver(ble.ReceiverConfig{Fs: fs, Rate: ble.Rate1M, BaseAddress: 0x8E89BED6, Threshold: 4}),
			TX:   ble.ModulatorConfig{Fs: fs, Rate: ble.Rate1M},
			Base: 0x8E89BED6,
			Seed: ble.DefaultWhiteningSeed,
		}, nil
	case "802154":
		return sic.DSSS154Endpoint{
			RX:         dsss154.NewReceiver(dsss154.ReceiverConfig{Fs: fs, ChipRate: 2_000_000, CRCIncluded: true}),
			TX:         dsss154.ModulatorConfig{Fs: fs, ChipRate: 2_000_000},
			IncludeCRC: true,
		}, nil
	}
	return nil, fmt.Errorf("unknown protocol %q, want ble or 802154", proto)
}
