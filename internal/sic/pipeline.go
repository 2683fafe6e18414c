package sic

import (
	"github.com/sdrphy/gophy/internal/iq"
	"github.com/sdrphy/gophy/internal/rxlog"
)

// Result is the outcome of running the full SIC pipeline once.
type Result struct {
	Strong   *Candidate // nil if the stronger signal wasn't decodable at all
	Weak     *Candidate // nil if the weaker signal wasn't decodable after cancellation
	Params   Params
	Residual iq.Stream
}

// Run executes the full pipeline (spec §4.7): demodulate the stronger
// receiver on the composite; if anything decodes (CRC pass or fail),
// resynthesise it, estimate SIC parameters against the composite, and
// subtract; then demodulate the weaker receiver on the residual. If the
// stronger signal isn't decodable at all, the pipeline falls through to
// attempting the weaker receiver directly on the unprocessed composite
// (spec §7 SIC failure handling).
func Run(fs float64, composite iq.Stream, strongRX, weakRX Endpoint, grid FrequencyGrid) Result {
	strongCandidates := strongRX.Demodulate(composite)
	if len(strongCandidates) == 0 {
		rxlog.Debug("sic: stronger signal not decodable, attempting weaker directly")
		weak := weakRX.Demodulate(composite)
		return Result{Weak: firstOrNil(weak), Residual: composite}
	}

	strong := strongCandidates[0]
	resynth, err := strongRX.Resynthesize(strong.Payload)
	if err != nil {
		rxlog.Warn("sic: resynthesis failed, falling back to weaker on composite", "err", err)
		weak := weakRX.Demodulate(composite)
		return Result{Strong: &strong, Weak: firstOrNil(weak), Residual: composite}
	}

	resynth = alignLength(resynth, len(composite.Samples))
	params := FindInterferenceParameters(fs, composite.Samples, resynth.Samples, grid)
	residual := iq.New(fs, Subtract(fs, composite.Samples, resynth.Samples, params))

	weak := weakRX.Demodulate(residual)

	return Result{
		Strong:   &strong,
		Weak:     firstOrNil(weak),
		Params:   params,
		Residual: residual,
	}
}

func firstOrNil(c []Candidate) *Candidate {
	if len(c) == 0 {
		return nil
	}
	return &c[0]
}

func alignLength(s iq.Stream, n int) iq.Stream {
	if len(s.Samples) == n {
		return s
	}
	out := make([]complex64, n)
	copy(out, s.Samples)
	return iq.New(s.Fs, out)
}
