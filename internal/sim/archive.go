package sim

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Archive is the named-fields result container described in spec §6.
type Archive struct {
	HighPowerDB float64                `json:"high_power_db"`
	LowPowersDB []float64              `json:"low_powers_db"`
	SNRLowsDB   []float64              `json:"snr_lows_db"`
	NumTrials   int                    `json:"num_trials"`
	PDR         PDRTensor              `json:"pdr"`
	Cfg         map[string]interface{} `json:"cfg"`
}

// NewArchive packages a sweep result alongside the config that produced
// it.
func NewArchive(c Config, pdr PDRTensor) Archive {
	return Archive{
		HighPowerDB: c.HighPowerDB,
		LowPowersDB: c.LowPowersDB,
		SNRLowsDB:   c.SNRLowsDB,
		NumTrials:   c.NumTrials,
		PDR:         pdr,
		Cfg:         cfgToMap(c),
	}
}

func cfgToMap(c Config) map[string]interface{} {
	raw, _ := yaml.Marshal(c)
	var m map[string]interface{}
	_ = yaml.Unmarshal(raw, &m)
	return m
}

// ArchiveName builds the naming convention from spec §6:
// {proto_high}-{payloadB}_{proto_low}-{payloadB}_{Msps}Msps_{N}trials.json
func ArchiveName(c Config) string {
	high := protoTag(c.ProtocolHigh, c.BLERateHigh)
	low := protoTag(c.ProtocolLow, c.BLERateLow)
	msps := c.SamplingRateHz / 1_000_000
	return fmt.Sprintf("%s-%d_%s-%d_%gMsps_%dtrials.json",
		high, c.PayloadLenHigh, low, c.PayloadLenLow, msps, c.NumTrials)
}

func protoTag(p Protocol, rate BLERate) string {
	if p == ProtoBLE {
		if rate == BLERate2M {
			return "BLE2Mbps"
		}
		return "BLE1Mbps"
	}
	return "802154"
}

// LoadConfigYAML reads a sweep Config from a YAML file, the way the
// simulator CLI subcommand lets a sweep be scripted instead of passed as
// a long flag line.
func LoadConfigYAML(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("sim: reading config: %w", err)
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return Config{}, fmt.Errorf("sim: parsing config: %w", err)
	}
	return c, nil
}
