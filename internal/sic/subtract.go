package sic

import "math"

// Subtract rotates template by exp(j*(2*pi*f*t/fs + phase))*amplitude,
// aligns it at the estimated lag (zero-padding as needed), and subtracts
// it from affected. The result is the same length as affected.
func Subtract(fs float64, affected []complex64, template []complex64, p Params) []complex64 {
	rotated := rotate(template, fs, p.FreqHz, p.PhaseRad)
	for i := range rotated {
		rotated[i] = complex(float32(float64(real(rotated[i]))*p.Amplitude), float32(float64(imag(rotated[i]))*p.Amplitude))
	}

	aligned := shiftAndPad(rotated, p.LagSamp, len(affected))

	out := make([]complex64, len(affected))
	for i := range affected {
		out[i] = affected[i] - aligned[i]
	}
	return out
}

// shiftAndPad places src starting at sample index lag within a buffer of
// length n (zero elsewhere), truncating whatever falls outside [0,n).
func shiftAndPad(src []complex64, lag, n int) []complex64 {
	out := make([]complex64, n)
	for i, v := range src {
		j := i + lag
		if j < 0 || j >= n {
			continue
		}
		out[j] = v
	}
	return out
}

// ResidualNorm returns the L2 norm of a stream, used by callers that want
// to confirm cancellation quality against the quantified invariant in the
// spec (residual correlation magnitude after subtraction).
func ResidualNorm(x []complex64) float64 {
	var e float64
	for _, v := range x {
		e += magSq(v)
	}
	return math.Sqrt(e)
}
