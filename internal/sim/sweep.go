package sim

import (
	"math/rand"
	"runtime"
	"sync/atomic"

	"github.com/sdrphy/gophy/internal/rxlog"
	"golang.org/x/sync/errgroup"
)

// PDRTensor holds packet delivery rate indexed [signal][powerIdx][snrIdx],
// signal 0 = high power, 1 = low power.
type PDRTensor [2][][]float64

// RunSweep runs Config.NumTrials independent trials at every
// (LowPowersDB x SNRLowsDB) cell, in parallel, and returns the resulting
// PDR tensor. Each trial owns a private *rand.Rand seeded deterministically
// from Config.Seed plus its cell/trial indices, so a sweep is
// reproducible and trials never share mutable state (spec §5).
func RunSweep(c Config) (PDRTensor, error) {
	if err := c.Validate(); err != nil {
		return PDRTensor{}, err
	}

	P, S := len(c.LowPowersDB), len(c.SNRLowsDB)
	successes := [2][][]int64{}
	for sig := 0; sig < 2; sig++ {
		successes[sig] = make([][]int64, P)
		for p := range successes[sig] {
			successes[sig][p] = make([]int64, S)
		}
	}

	var progress atomic.Int64
	total := P * S * c.NumTrials

	g := new(errgroup.Group)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for p := 0; p < P; p++ {
		for s := 0; s < S; s++ {
			p, s := p, s
			lowPowerDB := c.LowPowersDB[p]
			snrLowDB := c.SNRLowsDB[s]

			for trial := 0; trial < c.NumTrials; trial++ {
				trial := trial
				g.Go(func() error {
					seed := cellSeed(c.Seed, p, s, trial)
					rng := rand.New(rand.NewSource(seed))

					outcome, err := RunTrial(rng, c, lowPowerDB, snrLowDB)
					if err != nil {
						// A trial failure is a decode failure, not a fatal
						// error: it's simply counted against PDR.
						rxlog.Warn("sim: trial failed", "err", err, "power_idx", p, "snr_idx", s)
						progress.Add(1)
						return nil
					}
					if outcome.SuccessHigh {
						atomic.AddInt64(&successes[0][p][s], 1)
					}
					if outcome.SuccessLow {
						atomic.AddInt64(&successes[1][p][s], 1)
					}
					n := progress.Add(1)
					if n%int64(max(1, total/20)) == 0 {
						rxlog.Info("sim: sweep progress", "done", n, "total", total)
					}
					return nil
				})
			}
		}
	}
	if err := g.Wait(); err != nil {
		return PDRTensor{}, err
	}

	var pdr PDRTensor
	for sig := 0; sig < 2; sig++ {
		pdr[sig] = make([][]float64, P)
		for p := 0; p < P; p++ {
			pdr[sig][p] = make([]float64, S)
			for s := 0; s < S; s++ {
				pdr[sig][p][s] = float64(successes[sig][p][s]) / float64(c.NumTrials)
			}
		}
	}
	return pdr, nil
}

// cellSeed derives a deterministic per-trial seed from a sweep-level base
// seed and the cell/trial indices, so trials never share an RNG.
func cellSeed(base int64, p, s, trial int) int64 {
	h := uint64(base)
	h = h*1000003 + uint64(p)
	h = h*1000003 + uint64(s)
	h = h*1000003 + uint64(trial)
	return int64(h)
}
