package dsp

import "math"

// FreqDiscriminator is the instantaneous-frequency (quadrature)
// demodulator: out[n] = (angle(x[n]) - angle(x[n-1])) * gain, with phase
// unwrapped across the +-pi boundary. gain = fs / (2*pi*deltaF) so a
// nominal mark/space deviation maps to +-1. Output is one sample shorter
// than the input.
func FreqDiscriminator(x []complex64, fs, deltaF float64) []float64 {
	if len(x) < 2 {
		return nil
	}
	gain := fs / (2 * math.Pi * deltaF)
	out := make([]float64, len(x)-1)
	prevPhase := math.Atan2(float64(imag(x[0])), float64(real(x[0])))
	for n := 1; n < len(x); n++ {
		phase := math.Atan2(float64(imag(x[n])), float64(real(x[n])))
		d := phase - prevPhase
		// Unwrap into (-pi, pi].
		for d > math.Pi {
			d -= 2 * math.Pi
		}
		for d <= -math.Pi {
			d += 2 * math.Pi
		}
		out[n-1] = d * gain
		prevPhase = phase
	}
	return out
}

// BandPassDiscriminator filters x with complex-modulated copies of a
// lowpass kernel centred at +deltaF and -deltaF, takes the magnitude
// squared of each, and returns their normalised difference. Unlike
// FreqDiscriminator it needs no phase unwrapping and is more robust to
// phase noise. The difference is normalised by its own peak absolute value
// over x.
func BandPassDiscriminator(x []complex64, fs, deltaF float64, lowpass []float64) []float64 {
	upper := modulate(x, fs, deltaF)
	lower := modulate(x, fs, -deltaF)

	upperFiltered := ApplyComplexReal(upper, lowpass, ModeSame)
	lowerFiltered := ApplyComplexReal(lower, lowpass, ModeSame)

	diff := make([]float64, len(x))
	peak := 0.0
	for n := range x {
		u := magSq(upperFiltered[n])
		l := magSq(lowerFiltered[n])
		diff[n] = u - l
		if a := math.Abs(diff[n]); a > peak {
			peak = a
		}
	}
	if peak == 0 {
		return diff
	}
	for n := range diff {
		diff[n] /= peak
	}
	return diff
}

func modulate(x []complex64, fs, f float64) []complex64 {
	out := make([]complex64, len(x))
	w := 2 * math.Pi * f / fs
	for n, v := range x {
		s, c := math.Sincos(w * float64(n))
		rot := complex(float32(c), float32(s))
		out[n] = v * rot
	}
	return out
}

func magSq(c complex64) float64 {
	r, i := float64(real(c)), float64(imag(c))
	return r*r + i*i
}
