package sim

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func baseConfig() Config {
	fixedFreq := 0.0
	fixedPhase := 0.0
	return Config{
		SamplingRateHz:  8_000_000,
		ProtocolHigh:    ProtoBLE,
		ProtocolLow:     ProtoBLE,
		BLERateHigh:     BLERate1M,
		BLERateLow:      BLERate1M,
		HighPowerDB:     0,
		LowPowersDB:     []float64{-10, -3},
		SNRLowsDB:       []float64{20},
		CoarseFreqRange: Range{Lo: -5000, Hi: 5000},
		CoarseFreqStep:  1000,
		PayloadLenHigh:  8,
		PayloadLenLow:   8,
		FreqRangeHz:     Range{},
		PhaseRangeRad:   Range{},
		FixedFreqHz:     &fixedFreq,
		FixedPhase:      &fixedPhase,
		ShiftRange:      Range{},
		ADCBits:         12,
		ADCVmax:         1.0,
		PadSamp:         64,
		NumTrials:       4,
		Seed:            1234,
	}
}

func TestConfigValidateRejectsBadRate(t *testing.T) {
	c := baseConfig()
	c.SamplingRateHz = 8_000_001
	err := c.Validate()
	require.Error(t, err)
}

func TestConfigValidateRejectsUnknownProtocol(t *testing.T) {
	c := baseConfig()
	c.ProtocolHigh = "nonsense"
	err := c.Validate()
	require.Error(t, err)
}

func TestRunSweepProducesDeterministicPDR(t *testing.T) {
	c := baseConfig()

	pdr1, err := RunSweep(c)
	require.NoError(t, err)
	pdr2, err := RunSweep(c)
	require.NoError(t, err)

	assert.Equal(t, pdr1, pdr2, "same seed must reproduce identical PDR tensor")
}

// TestRunSweepMonotonic checks the qualitative shape from spec S6: PDR at
// a higher low-power level should never be noticeably worse than at a
// lower one, for the strong signal which should decode regardless.
func TestRunSweepMonotonic(t *testing.T) {
	c := baseConfig()
	c.NumTrials = 8

	pdr, err := RunSweep(c)
	require.NoError(t, err)

	for s := range c.SNRLowsDB {
		assert.GreaterOrEqual(t, pdr[0][1][s], pdr[0][0][s]-0.5,
			"high-signal PDR should not collapse as interferer power rises")
	}
}

func TestArchiveNameFormat(t *testing.T) {
	c := baseConfig()
	name := ArchiveName(c)
	assert.Contains(t, name, "BLE1Mbps-8_BLE1Mbps-8_8Msps_4trials.json")
}

func TestArchiveJSONRoundTrip(t *testing.T) {
	c := baseConfig()
	pdr, err := RunSweep(c)
	require.NoError(t, err)

	arc := NewArchive(c, pdr)
	raw, err := json.Marshal(arc)
	require.NoError(t, err)

	var out Archive
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, arc.PDR, out.PDR)
	assert.Equal(t, arc.NumTrials, out.NumTrials)
	assert.Equal(t, arc.LowPowersDB, out.LowPowersDB)
}

func TestLoadConfigYAMLRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/sweep.yaml"

	c := baseConfig()
	yamlBytes, err := yaml.Marshal(c)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, yamlBytes, 0o644))

	loaded, err := LoadConfigYAML(path)
	require.NoError(t, err)
	assert.Equal(t, c.SamplingRateHz, loaded.SamplingRateHz)
	assert.Equal(t, c.ProtocolHigh, loaded.ProtocolHigh)
	assert.Equal(t, c.LowPowersDB, loaded.LowPowersDB)
}
