package dsp

// SinglePole is the one-pole IIR tracker used as a DC remover on the
// discriminator output: y[n] = a*x[n] + (1-a)*y[n-1].
type SinglePole struct {
	Alpha float64
	y     float64
	init  bool
}

// NewSinglePole builds a tracker with the given smoothing coefficient.
// alpha ~= 1.6e-4 is the spec's recommended DC-tracker constant.
func NewSinglePole(alpha float64) *SinglePole {
	return &SinglePole{Alpha: alpha}
}

// Step feeds one sample and returns the current smoothed value.
func (s *SinglePole) Step(x float64) float64 {
	if !s.init {
		s.y = x
		s.init = true
		return s.y
	}
	s.y = s.Alpha*x + (1-s.Alpha)*s.y
	return s.y
}

// Value returns the current tracked value without advancing state.
func (s *SinglePole) Value() float64 { return s.y }

// TrackAndRemove applies the tracker across x and subtracts the running
// estimate from each sample, as the BLE/802.15.4 discriminators do to
// remove residual frequency offset before symbol slicing.
func TrackAndRemove(x []float64, alpha float64) []float64 {
	out := make([]float64, len(x))
	p := NewSinglePole(alpha)
	for i, v := range x {
		dc := p.Step(v)
		out[i] = v - dc
	}
	return out
}
