package dsp

import "math"

// FIRMode selects how much of the convolution overlap is returned, matching
// the usual "valid/same/full" convolution vocabulary.
type FIRMode int

const (
	ModeValid FIRMode = iota
	ModeSame
	ModeFull
)

// DesignLowpass builds a windowed-sinc lowpass kernel. ntaps is forced odd
// by the caller via NtapsForTransition; fc is a fraction of the sample
// rate (fc = cutoff/fs).
func DesignLowpass(fc float64, ntaps int, w Window) []float64 {
	taps := make([]float64, ntaps)
	center := 0.5 * float64(ntaps-1)

	for j := 0; j < ntaps; j++ {
		var sinc float64
		d := float64(j) - center
		if d == 0 {
			sinc = 2 * fc
		} else {
			sinc = math.Sin(2*math.Pi*fc*d) / (math.Pi * d)
		}
		taps[j] = sinc * shape(w, ntaps, j)
	}

	var gain float64
	for _, t := range taps {
		gain += t
	}
	for j := range taps {
		taps[j] /= gain
	}
	return taps
}

// NtapsForTransition picks an odd tap count for a given transition width,
// per the spec's ceil(4*Nyquist/transition)|1 rule.
func NtapsForTransition(fs, transition float64) int {
	n := int(math.Ceil(4 * (fs / 2) / transition))
	return n | 1
}

// ApplyReal convolves a real signal with a real kernel.
func ApplyReal(x, taps []float64, mode FIRMode) []float64 {
	return convolveReal(x, taps, mode)
}

func convolveReal(x, h []float64, mode FIRMode) []float64 {
	n, m := len(x), len(h)
	if n == 0 || m == 0 {
		return nil
	}
	full := make([]float64, n+m-1)
	for i, xv := range x {
		if xv == 0 {
			continue
		}
		for j, hv := range h {
			full[i+j] += xv * hv
		}
	}
	return trimReal(full, n, m, mode)
}

func trimReal(full []float64, n, m int, mode FIRMode) []float64 {
	switch mode {
	case ModeFull:
		return full
	case ModeSame:
		start := (m - 1) / 2
		return full[start : start+n]
	default: // ModeValid
		if n < m {
			return nil
		}
		return full[m-1 : n]
	}
}

// ApplyComplex convolves a complex signal with a complex kernel using full
// complex multiplication, as required for IQ matched filtering.
func ApplyComplex(x []complex64, h []complex64, mode FIRMode) []complex64 {
	n, m := len(x), len(h)
	if n == 0 || m == 0 {
		return nil
	}
	full := make([]complex64, n+m-1)
	for i, xv := range x {
		if xv == 0 {
			continue
		}
		for j, hv := range h {
			full[i+j] += xv * hv
		}
	}
	switch mode {
	case ModeFull:
		return full
	case ModeSame:
		start := (m - 1) / 2
		return full[start : start+n]
	default:
		if n < m {
			return nil
		}
		return full[m-1 : n]
	}
}

// ApplyComplexReal convolves a complex signal with a real kernel, which is
// the common case for matched filtering an IQ stream.
func ApplyComplexReal(x []complex64, h []float64, mode FIRMode) []complex64 {
	ch := make([]complex64, len(h))
	for i, v := range h {
		ch[i] = complex(float32(v), 0)
	}
	return ApplyComplex(x, ch, mode)
}

// StreamingFilter holds a tail of ntaps-1 history samples so real-time
// callers can filter chunk-by-chunk without discontinuities at chunk
// boundaries.
type StreamingFilter struct {
	Taps    []float64
	history []complex64
}

// NewStreamingFilter constructs a filter primed with a zero history.
func NewStreamingFilter(taps []float64) *StreamingFilter {
	return &StreamingFilter{Taps: taps, history: make([]complex64, len(taps)-1)}
}

// Apply filters one chunk, carrying state forward to the next call.
func (f *StreamingFilter) Apply(x []complex64) []complex64 {
	buf := make([]complex64, len(f.history)+len(x))
	copy(buf, f.history)
	copy(buf[len(f.history):], x)

	out := ApplyComplexReal(buf, f.Taps, ModeValid)

	if len(buf) >= len(f.Taps)-1 {
		f.history = append([]complex64(nil), buf[len(buf)-(len(f.Taps)-1):]...)
	}
	return out
}
