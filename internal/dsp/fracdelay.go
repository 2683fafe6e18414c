package dsp

import "math"

// FractionalDelayTaps is the default odd tap count for the shifted-sinc
// fractional-delay kernel.
const FractionalDelayTaps = 21

// FractionalDelay delays x by d = floor(d) + frac samples. It generates a
// shifted-sinc kernel whose peak sits frac samples after its centre tap,
// convolves, compensates the
// convolution's own group delay, then applies the remaining integer shift
// with zero padding. The returned stream is the same length as x.
func FractionalDelay(x []complex64, d float64) []complex64 {
	intPart := int(math.Floor(d))
	frac := d - float64(intPart)

	taps := shiftedSincKernel(frac, FractionalDelayTaps)
	shaped := ApplyComplexReal(x, taps, ModeFull)

	// Compensate the kernel's own (taps-1)/2 group delay.
	groupDelay := (FractionalDelayTaps - 1) / 2
	aligned := shaped[groupDelay : groupDelay+len(x)]

	return shiftInteger(aligned, intPart)
}

func shiftedSincKernel(frac float64, ntaps int) []float64 {
	taps := make([]float64, ntaps)
	center := 0.5 * float64(ntaps-1)
	for j := 0; j < ntaps; j++ {
		t := float64(j) - center - frac
		if t == 0 {
			taps[j] = 1
		} else {
			taps[j] = math.Sin(math.Pi*t) / (math.Pi * t)
		}
		taps[j] *= shape(WindowHamming, ntaps, j)
	}
	var gain float64
	for _, t := range taps {
		gain += t
	}
	if gain != 0 {
		for j := range taps {
			taps[j] /= gain
		}
	}
	return taps
}

func shiftInteger(x []complex64, n int) []complex64 {
	out := make([]complex64, len(x))
	if n == 0 {
		copy(out, x)
		return out
	}
	if n > 0 {
		if n < len(x) {
			copy(out[n:], x[:len(x)-n])
		}
		return out
	}
	n = -n
	if n < len(x) {
		copy(out[:len(x)-n], x[n:])
	}
	return out
}
