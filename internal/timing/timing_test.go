package timing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecoverOutputLengthNearInputOverSPS(t *testing.T) {
	sps := 10.0
	n := 2000
	soft := make([]float64, n)
	for i := range soft {
		sym := i / int(sps)
		if sym%2 == 0 {
			soft[i] = 1
		} else {
			soft[i] = -1
		}
	}

	out := Recover(DefaultConfig(sps, ModMuellerAndMuller), soft)
	want := n / int(sps)
	assert.InDelta(t, want, len(out), 2)
}

func TestRecoverNeverPanicsOnShortInput(t *testing.T) {
	assert.NotPanics(t, func() {
		Recover(DefaultConfig(10, Gardner), make([]float64, 3))
	})
}

func TestAllTEDsProduceFiniteOutput(t *testing.T) {
	sps := 8.0
	n := 800
	soft := make([]float64, n)
	for i := range soft {
		if (i/int(sps))%2 == 0 {
			soft[i] = 1
		} else {
			soft[i] = -1
		}
	}

	teds := []TED{
		MuellerAndMuller, ModMuellerAndMuller, ZeroCrossing, Gardner, EarlyLate,
		DAndreaMengaliGenMSK, MengaliDAndreaGMSK, SignalTimesSlopeML, SignumTimesSlopeML,
	}
	for _, ted := range teds {
		out := Recover(DefaultConfig(sps, ted), soft)
		for _, v := range out {
			assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
		}
	}
}

// TestLoopFilterProportionalTermUnclamped checks that the proportional
// term keeps moving the clock period even when MaxDeviation clamps the
// rate term to zero range: otherwise a default (zero) MaxDeviation would
// freeze the loop at nominal SPS and it would never track a timing
// offset (the defect this test guards against).
func TestLoopFilterProportionalTermUnclamped(t *testing.T) {
	lf := NewLoopFilter(4.5e-3, 1.0, 1.0)
	w := lf.Update(1.0, 10.0, 1e-9) // maxDev effectively zero range
	assert.NotEqual(t, 10.0, w, "proportional term must still move the period despite a near-zero rate clamp")
}

// TestResolveConfigFallsBackPerField checks that a receiver's partially
// zero-valued symbol-sync parameters each fall back independently to
// DefaultConfig's values.
func TestResolveConfigFallsBackPerField(t *testing.T) {
	cfg := ResolveConfig(8, Gardner, TEDUnset, 0, 0, 0, 0)
	want := DefaultConfig(8, Gardner)
	assert.Equal(t, want, cfg)

	cfg2 := ResolveConfig(8, Gardner, ZeroCrossing, 1e-2, 0, 0, 0)
	assert.Equal(t, ZeroCrossing, cfg2.TED)
	assert.Equal(t, 1e-2, cfg2.LoopBW)
	assert.Equal(t, 1.0, cfg2.Damping) // falls back
}
