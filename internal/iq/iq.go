// Package iq defines the complex baseband sample stream that flows through
// every stage of the PHY pipeline: modulators produce it, filters and
// demodulators consume and produce it, and the SIC engine operates on pairs
// of it.
package iq

// Stream is a finite, ordered sequence of complex baseband samples tagged
// with the sample rate they were captured or synthesised at. A Stream has
// no implicit time origin; sample index 0 is simply "the first sample
// given to us".
type Stream struct {
	Fs      float64 // samples per second
	Samples []complex64
}

// New wraps samples with a sample rate.
func New(fs float64, samples []complex64) Stream {
	return Stream{Fs: fs, Samples: samples}
}

// Len reports the number of samples.
func (s Stream) Len() int { return len(s.Samples) }

// Clone returns a deep copy; streams are never mutated in place by
// pipeline stages, so callers that need to accumulate (e.g. SIC subtract)
// must clone first.
func (s Stream) Clone() Stream {
	out := make([]complex64, len(s.Samples))
	copy(out, s.Samples)
	return Stream{Fs: s.Fs, Samples: out}
}

// Slice returns the half-open range [lo, hi), clamped to the stream bounds.
func (s Stream) Slice(lo, hi int) Stream {
	if lo < 0 {
		lo = 0
	}
	if hi > len(s.Samples) {
		hi = len(s.Samples)
	}
	if lo >= hi {
		return Stream{Fs: s.Fs}
	}
	return Stream{Fs: s.Fs, Samples: s.Samples[lo:hi]}
}

// ZeroPad returns a copy padded with front zero samples at the front and
// back at the back.
func ZeroPad(s Stream, front, back int) Stream {
	out := make([]complex64, front+len(s.Samples)+back)
	copy(out[front:], s.Samples)
	return Stream{Fs: s.Fs, Samples: out}
}

// Energy returns sum |x[n]|^2.
func Energy(x []complex64) float64 {
	var e float64
	for _, v := range x {
		r, i := float64(real(v)), float64(imag(v))
		e += r*r + i*i
	}
	return e
}
