package timing

import "math"

// LoopFilter computes alpha/beta from loop bandwidth (normalised
// frequency), damping, and TED gain, then integrates the TED error each
// symbol into a proportional + integral correction of the clock period.
//
// Only the integral (rate) term is clamped by MaxDeviation; the
// proportional term always advances phase by the full alpha*err, the same
// way GNU Radio's clock_tracking_loop only clamps d_rate_f while leaving
// d_alpha*error unclamped. Clamping the combined correction instead would
// flatten the proportional term to zero whenever MaxDeviation is left at
// its default of 0, which would stop the loop from tracking any timing
// offset at all.
type LoopFilter struct {
	alpha, beta float64
	rate        float64
}

// NewLoopFilter derives the standard second-order PLL coefficients.
func NewLoopFilter(bw, damping, tedGain float64) *LoopFilter {
	theta := bw / (damping + 1/(4*damping))
	d := 1 + 2*damping*theta + theta*theta
	alpha := (4 * damping * theta / d) / tedGain
	beta := (4 * theta * theta / d) / tedGain
	return &LoopFilter{alpha: alpha, beta: beta}
}

// Update feeds one symbol's TED error and returns the next clock period
// (samples per symbol) to advance by. nominal is Config.SPS; maxDev is
// Config.MaxDeviation, a fractional bound on the rate term only (<= 0
// means unbounded).
func (f *LoopFilter) Update(err, nominal, maxDev float64) float64 {
	f.rate += f.beta * err
	if maxDev > 0 {
		lo, hi := -nominal*maxDev, nominal*maxDev
		if f.rate < lo {
			f.rate = lo
		}
		if f.rate > hi {
			f.rate = hi
		}
	}
	return nominal + f.rate + f.alpha*err
}

// Config bundles the recovery loop's tunable parameters.
type Config struct {
	SPS          float64 // nominal samples per symbol (or per chip)
	TED          TED
	LoopBW       float64 // normalised loop bandwidth
	Damping      float64
	TEDGain      float64
	MaxDeviation float64 // fractional bound on the rate term only; <= 0 = unbounded
}

// DefaultConfig returns the spec's recommended defaults: loop bandwidth
// 4.5e-3, damping 1.0, TED gain 1.0, unbounded rate term (max deviation 0
// means "no clamp", not "no correction" -- see LoopFilter.Update).
func DefaultConfig(sps float64, ted TED) Config {
	return Config{SPS: sps, TED: ted, LoopBW: 4.5e-3, Damping: 1.0, TEDGain: 1.0, MaxDeviation: 0}
}

// ResolveConfig builds a Config from a receiver's (possibly partially
// zero-valued) symbol-sync parameters, falling back to DefaultConfig's
// values field-by-field so a caller only has to set what it wants to
// override (spec §4.5: symbol-sync parameters are part of receiver
// configuration).
func ResolveConfig(sps float64, fallbackTED, ted TED, loopBW, damping, tedGain, maxDev float64) Config {
	cfg := DefaultConfig(sps, fallbackTED)
	if ted != TEDUnset {
		cfg.TED = ted
	}
	if loopBW != 0 {
		cfg.LoopBW = loopBW
	}
	if damping != 0 {
		cfg.Damping = damping
	}
	if tedGain != 0 {
		cfg.TEDGain = tedGain
	}
	cfg.MaxDeviation = maxDev
	return cfg
}

// Recover runs the closed-loop interpolating resampler over a real-valued
// soft stream sampled at Config.SPS samples per symbol, producing one
// interpolated output value per symbol using an 8-tap MMSE-style
// interpolator. It never emits a symbol without enough trailing samples to
// interpolate; a stream that ends mid-symbol is simply truncated.
func Recover(cfg Config, soft []float64) []float64 {
	ef := errorFuncFor(cfg.TED)
	lf := NewLoopFilter(cfg.LoopBW, cfg.Damping, cfg.TEDGain)

	const halfTap = 4
	w := cfg.SPS
	mu := 0.0

	var out []float64
	var prevSym, midSym, currSym float64
	haveSym := false

	pos := halfTap + 0.0 // leave room for interpolator history at the start
	for pos+halfTap < float64(len(soft)) {
		sample := interpolate(soft, pos, mu)

		nextSym := sample
		if haveSym {
			e := ef(prevSym, midSym, currSym, nextSym)
			w = lf.Update(e, cfg.SPS, cfg.MaxDeviation)
			out = append(out, currSym)
		}

		prevSym, currSym = currSym, nextSym
		midSym = midpoint(soft, pos+w/2, mu)
		haveSym = true

		pos += w
	}
	return out
}

// interpolate reads an 8-tap windowed-sinc interpolated value at real
// position pos+mu.
func interpolate(x []float64, pos, mu float64) float64 {
	base := int(math.Floor(pos))
	frac := pos - float64(base) + mu
	var acc float64
	const taps = 8
	for k := -taps / 2; k < taps/2; k++ {
		idx := base + k
		if idx < 0 || idx >= len(x) {
			continue
		}
		t := frac - float64(k)
		acc += x[idx] * sincWindowed(t, taps)
	}
	return acc
}

func midpoint(x []float64, pos, mu float64) float64 {
	return interpolate(x, pos, mu)
}

func sincWindowed(t float64, taps int) float64 {
	var s float64
	if t == 0 {
		s = 1
	} else {
		s = math.Sin(math.Pi*t) / (math.Pi * t)
	}
	// Hann taper across the interpolator span to limit ringing.
	w := 0.5 - 0.5*math.Cos(2*math.Pi*(t+float64(taps)/2)/float64(taps))
	if w < 0 {
		w = 0
	}
	return s * w
}
