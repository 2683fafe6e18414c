// Package sic implements Successive Interference Cancellation: estimating
// the complex-exponential parameters (frequency, phase, amplitude, sample
// shift) that best explain an interfering signal embedded in a composite,
// subtracting the reconstructed interferer, and orchestrating the
// decode-resynthesise-subtract-decode pipeline.
package sic

import "math"

// Params is the estimated complex-exponential and time-shift relating a
// template (candidate interference) signal to its presence in an affected
// composite stream.
type Params struct {
	FreqHz    float64
	Amplitude float64
	PhaseRad  float64
	LagSamp   int
}

// FrequencyGrid describes a (possibly two-stage) frequency search.
type FrequencyGrid struct {
	CoarseLo, CoarseHi, CoarseStep float64
	FineHalfWidth, FineStep        float64 // 0 disables the fine pass
}

// FindInterferenceParameters rotates template by each candidate frequency,
// cross-correlates (full mode, normalised by template energy) against
// affected, and returns the parameters of the global correlation peak.
func FindInterferenceParameters(fs float64, affected, template []complex64, grid FrequencyGrid) Params {
	best := searchFreqRange(fs, affected, template, grid.CoarseLo, grid.CoarseHi, grid.CoarseStep)

	if grid.FineStep > 0 {
		fine := searchFreqRange(fs, affected, template,
			best.FreqHz-grid.FineHalfWidth, best.FreqHz+grid.FineHalfWidth, grid.FineStep)
		if fine.Amplitude > best.Amplitude {
			best = fine
		}
	}
	return best
}

func searchFreqRange(fs float64, affected, template []complex64, lo, hi, step float64) Params {
	var best Params
	if step <= 0 {
		step = 1
	}
	energy := templateEnergy(template)
	if energy == 0 {
		return best
	}

	for f := lo; f <= hi; f += step {
		rotated := rotate(template, fs, f, 0)
		corr := fullCorrelate(affected, rotated)

		peakIdx, peakMag, peakPhase := peakOf(corr)
		amp := peakMag / energy

		if amp > best.Amplitude {
			best = Params{
				FreqHz:    f,
				Amplitude: amp,
				PhaseRad:  peakPhase,
				LagSamp:   peakIdx - (len(template) - 1),
			}
		}
	}
	return best
}

// templateEnergy returns sum|template[n]|^2. At a correctly-aligned peak,
// fullCorrelate's magnitude is approximately amplitude * this sum, so
// dividing by the sum (not its square root) recovers the amplitude
// estimate directly.
func templateEnergy(template []complex64) float64 {
	var e float64
	for _, v := range template {
		e += magSq(v)
	}
	return e
}

// rotate multiplies template by exp(j*(2*pi*f*t/fs + phase)).
func rotate(template []complex64, fs, f, phase float64) []complex64 {
	out := make([]complex64, len(template))
	w := 2 * math.Pi * f / fs
	for n, v := range template {
		ang := w*float64(n) + phase
		s, c := math.Sincos(ang)
		rot := complex(float32(c), float32(s))
		out[n] = v * rot
	}
	return out
}

// fullCorrelate computes the full cross-correlation of affected against
// template: corr[k] = sum_n affected[n] * conj(template[n-k+len(template)-1]).
// Equivalently, full convolution of affected with the time-reversed
// conjugate of template.
func fullCorrelate(affected, template []complex64) []complex64 {
	rev := make([]complex64, len(template))
	for i, v := range template {
		c := complex(real(v), -imag(v))
		rev[len(template)-1-i] = c
	}

	n, m := len(affected), len(rev)
	if n == 0 || m == 0 {
		return nil
	}
	out := make([]complex64, n+m-1)
	for i, xv := range affected {
		if xv == 0 {
			continue
		}
		for j, hv := range rev {
			out[i+j] += xv * hv
		}
	}
	return out
}

func peakOf(x []complex64) (idx int, mag, phase float64) {
	for i, v := range x {
		m := math.Sqrt(magSq(v))
		if m > mag {
			mag = m
			idx = i
			phase = math.Atan2(float64(imag(v)), float64(real(v)))
		}
	}
	return
}

func magSq(c complex64) float64 {
	r, i := float64(real(c)), float64(imag(c))
	return r*r + i*i
}
