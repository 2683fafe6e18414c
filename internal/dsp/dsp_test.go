package dsp

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDesignLowpassUnityDCGain(t *testing.T) {
	taps := DesignLowpass(0.1, 63, WindowHamming)
	require.Len(t, taps, 63)

	var sum float64
	for _, v := range taps {
		sum += v
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestNtapsForTransitionIsOdd(t *testing.T) {
	n := NtapsForTransition(1_000_000, 100_000)
	assert.Equal(t, 1, n%2)
}

func TestApplyRealValidShrinksByTapsMinusOne(t *testing.T) {
	x := make([]float64, 100)
	h := make([]float64, 9)
	out := ApplyReal(x, h, ModeValid)
	assert.Len(t, out, 100-9+1)
}

func TestApplyRealSamePreservesLength(t *testing.T) {
	x := make([]float64, 100)
	h := make([]float64, 9)
	out := ApplyReal(x, h, ModeSame)
	assert.Len(t, out, 100)
}

func TestFreqDiscriminatorConstantToneIsDC(t *testing.T) {
	fs := 1_000_000.0
	deltaF := 250_000.0
	n := 200
	x := make([]complex64, n)
	w := 2 * math.Pi * deltaF / fs
	for i := range x {
		s, c := math.Sincos(w * float64(i))
		x[i] = complex(float32(c), float32(s))
	}
	out := FreqDiscriminator(x, fs, deltaF)
	require.Len(t, out, n-1)
	for _, v := range out[5:] {
		assert.InDelta(t, 1.0, v, 0.05)
	}
}

func TestSinglePoleTracksDC(t *testing.T) {
	x := make([]float64, 20000)
	for i := range x {
		x[i] = 3.0
	}
	out := TrackAndRemove(x, 1.6e-4)
	// After converging, the DC offset should be almost entirely removed.
	assert.InDelta(t, 0, out[len(out)-1], 0.05)
}

func TestFractionalDelayPreservesLength(t *testing.T) {
	x := make([]complex64, 500)
	for i := range x {
		x[i] = complex(float32(math.Sin(float64(i)*0.1)), 0)
	}
	out := FractionalDelay(x, 3.5)
	assert.Len(t, out, len(x))
}

func TestAddComplexNoiseMatchesRequestedSNR(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	n := 20000
	sig := make([]complex64, n)
	for i := range sig {
		sig[i] = complex(1, 0)
	}
	n0 := NoisePowerForSNR(sig, 10)
	noisy := AddComplexNoise(rng, sig, n0)

	var noisePower float64
	for i, v := range noisy {
		d := v - sig[i]
		noisePower += magSq(d)
	}
	noisePower /= float64(n)
	assert.InDelta(t, n0, noisePower, n0*0.2)
}
