package sim

import "math"

// QuantizeADC simulates a symmetric linear ADC with 2^bits-1 levels
// clipped to +-vmax.
func QuantizeADC(x []complex64, bits int, vmax float64) []complex64 {
	levels := float64(uint64(1)<<uint(bits)) - 1
	step := 2 * vmax / levels

	out := make([]complex64, len(x))
	for i, v := range x {
		re := clip(float64(real(v)), vmax)
		im := clip(float64(imag(v)), vmax)
		out[i] = complex(float32(quantizeOne(re, step)), float32(quantizeOne(im, step)))
	}
	return out
}

func clip(v, vmax float64) float64 {
	if v > vmax {
		return vmax
	}
	if v < -vmax {
		return -vmax
	}
	return v
}

func quantizeOne(v, step float64) float64 {
	return math.Round(v/step) * step
}
