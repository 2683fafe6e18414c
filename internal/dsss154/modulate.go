package dsss154

import (
	"math"

	"github.com/sdrphy/gophy/internal/iq"
)

// ModulatorConfig configures the O-QPSK half-sine synthesiser.
type ModulatorConfig struct {
	Fs       float64
	ChipRate float64 // nominal 2e6 chips/sec
	PadFront int
	PadBack  int
}

// Modulate synthesises IQ from a sequence of 32-chip symbols: even-indexed
// chips go to I, odd-indexed to Q, each chip is upsampled and half-sine
// shaped, and Q is delayed by one chip period (half a symbol) for the
// offset in O-QPSK.
func Modulate(cfg ModulatorConfig, chipSymbols []uint32) iq.Stream {
	spsChip := int(cfg.Fs / cfg.ChipRate)
	spsSym := 2 * spsChip

	chipStream := ChipSymbolsToChipStream(chipSymbols)

	var iChips, qChips []float64
	for idx, c := range chipStream {
		v := -1.0
		if c != 0 {
			v = 1.0
		}
		if idx%2 == 0 {
			iChips = append(iChips, v)
		} else {
			qChips = append(qChips, v)
		}
	}

	iSignal := halfSineShape(iChips, spsChip, spsSym)
	qSignal := halfSineShape(qChips, spsChip, spsSym)

	// Delay Q by one chip's worth of samples (half a symbol) for offset-QPSK.
	qDelayed := make([]float64, len(qSignal)+spsChip)
	copy(qDelayed[spsChip:], qSignal)

	n := len(iSignal)
	if len(qDelayed) < n {
		n = len(qDelayed)
	}
	samples := make([]complex64, n)
	for i := 0; i < n; i++ {
		samples[i] = complex(float32(iSignal[i]), float32(qDelayed[i]))
	}

	samples = append(make([]complex64, cfg.PadFront), samples...)
	samples = append(samples, make([]complex64, cfg.PadBack)...)

	return iq.New(cfg.Fs, samples)
}

// halfSineShape upsamples each +-1 chip to spsChip samples and convolves
// with a half-sine pulse sin(pi*n/spsSym) spanning spsSym samples.
func halfSineShape(chips []float64, spsChip, spsSym int) []float64 {
	upsampled := make([]float64, len(chips)*spsChip)
	for i, c := range chips {
		upsampled[i*spsChip] = c
	}

	pulse := make([]float64, spsSym+1)
	for n := 0; n <= spsSym; n++ {
		pulse[n] = math.Sin(math.Pi * float64(n) / float64(spsSym))
	}

	return convolveFull(upsampled, pulse)
}

func convolveFull(x, h []float64) []float64 {
	if len(x) == 0 || len(h) == 0 {
		return nil
	}
	out := make([]float64, len(x)+len(h)-1)
	for i, xv := range x {
		if xv == 0 {
			continue
		}
		for j, hv := range h {
			out[i+j] += xv * hv
		}
	}
	return out
}

// ModulatePacket is the TX-side convenience path: frame, chip-encode,
// modulate.
func ModulatePacket(cfg ModulatorConfig, p Packet) (iq.Stream, error) {
	frame, err := FrameBytes(p)
	if err != nil {
		return iq.Stream{}, err
	}
	symbols := BytesToChipSymbols(frame)
	return Modulate(cfg, symbols), nil
}
