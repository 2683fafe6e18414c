package dsp

import "math"

// Squelch zeroes samples whose (optionally IIR-smoothed) magnitude falls
// below thresholdDB relative to the stream's peak magnitude.
func Squelch(x []complex64, thresholdDB float64, smoothAlpha float64) []complex64 {
	mags := make([]float64, len(x))
	peak := 0.0
	for i, v := range x {
		m := float64(magnitude(v))
		mags[i] = m
		if m > peak {
			peak = m
		}
	}
	if smoothAlpha > 0 {
		mags = smooth(mags, smoothAlpha)
	}
	if peak == 0 {
		return append([]complex64(nil), x...)
	}

	thresholdLinear := peak * math.Pow(10, thresholdDB/20)
	out := make([]complex64, len(x))
	for i, v := range x {
		if mags[i] >= thresholdLinear {
			out[i] = v
		}
	}
	return out
}

func smooth(x []float64, alpha float64) []float64 {
	out := make([]float64, len(x))
	p := NewSinglePole(alpha)
	for i, v := range x {
		out[i] = p.Step(v)
	}
	return out
}

func magnitude(c complex64) float32 {
	r, i := real(c), imag(c)
	return float32(math.Sqrt(float64(r*r + i*i)))
}
