package dsp

import (
	"math"
	"math/rand"
)

// AddComplexNoise returns a copy of x with complex AWGN added, where n0 is
// the total noise power: I and Q each get variance n0/2.
func AddComplexNoise(rng *rand.Rand, x []complex64, n0 float64) []complex64 {
	sigma := math.Sqrt(n0 / 2)
	out := make([]complex64, len(x))
	for i, v := range x {
		ni := float32(rng.NormFloat64() * sigma)
		nq := float32(rng.NormFloat64() * sigma)
		out[i] = v + complex(ni, nq)
	}
	return out
}

// AddRealNoise returns a copy of x with real AWGN of variance n0 added.
func AddRealNoise(rng *rand.Rand, x []float64, n0 float64) []float64 {
	sigma := math.Sqrt(n0)
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = v + rng.NormFloat64()*sigma
	}
	return out
}

// NoisePowerForSNR computes the N0 to add to x so that the SNR over the
// signal-present span matches snrDB, relative to the mean signal power in
// that span.
func NoisePowerForSNR(x []complex64, snrDB float64) float64 {
	if len(x) == 0 {
		return 0
	}
	// Only non-zero samples count as signal-present, so zero padding does
	// not dilute the mean.
	sigPower := 0.0
	active := 0
	for _, v := range x {
		if p := magSq(v); p > 0 {
			sigPower += p
			active++
		}
	}
	if active == 0 {
		return 0
	}
	sigPower /= float64(active)

	snrLinear := math.Pow(10, snrDB/10)
	return sigPower / snrLinear
}
