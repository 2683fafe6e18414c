package ble

import (
	"math"

	"github.com/sdrphy/gophy/internal/dsp"
	"github.com/sdrphy/gophy/internal/iq"
)

// ModulatorConfig configures the GFSK synthesiser.
type ModulatorConfig struct {
	Fs       float64
	Rate     Rate
	PadFront int
	PadBack  int
}

// gaussianKernel builds the Gaussian-windowed, BT=0.5 shaping filter
// convolved with a rectangular window of length sps, which is the GFSK
// "Gaussian-then-integrator" pulse the BLE PHY specifies.
func gaussianKernel(sps int) []float64 {
	const bt = 0.5
	n := sps
	gauss := make([]float64, n)
	// Standard Gaussian filter impulse response parameterised by BT.
	alpha := math.Sqrt(math.Ln2/2) / bt
	center := 0.5 * float64(n-1)
	for i := 0; i < n; i++ {
		t := (float64(i) - center) / float64(sps)
		gauss[i] = math.Exp(-2 * math.Pi * math.Pi * alpha * alpha * t * t)
	}
	rect := make([]float64, sps)
	for i := range rect {
		rect[i] = 1
	}
	shaped := dsp.ApplyReal(gauss, rect, dsp.ModeFull)

	var gain float64
	for _, v := range shaped {
		gain += v
	}
	for i := range shaped {
		shaped[i] /= gain
	}
	return shaped
}

// Modulate synthesises IQ for a bit sequence (LSB-first on air, one byte
// per bit with value 0 or 1).
func Modulate(cfg ModulatorConfig, dataBits []byte) iq.Stream {
	sps := int(cfg.Fs / float64(cfg.Rate))
	deltaF := float64(cfg.Rate) * 0.25

	// 1. Expand bits to +-1 impulses at k*sps, zero elsewhere.
	impulses := make([]float64, len(dataBits)*sps)
	for k, b := range dataBits {
		v := -1.0
		if b != 0 {
			v = 1.0
		}
		impulses[k*sps] = v
	}

	// 2. Gaussian-then-rect pulse shape.
	kernel := gaussianKernel(sps)
	shaped := dsp.ApplyReal(impulses, kernel, dsp.ModeSame)

	// 3. FM: integrate (cumulative sum, prepend 0), scale to phase
	// increments, emit exp(j*phase).
	phaseInc := 2 * math.Pi * deltaF / cfg.Fs
	samples := make([]complex64, len(shaped))
	var phase float64
	for i, v := range shaped {
		phase += v * phaseInc
		s, c := math.Sincos(phase)
		samples[i] = complex(float32(c), float32(s))
	}

	samples = append(make([]complex64, cfg.PadFront), samples...)
	samples = append(samples, make([]complex64, cfg.PadBack)...)

	return iq.New(cfg.Fs, samples)
}

// ModulatePacket is the TX-side convenience path: frame, whiten, modulate.
func ModulatePacket(cfg ModulatorConfig, p Packet, whiteningSeed byte) (iq.Stream, error) {
	frame, err := FrameBytes(p)
	if err != nil {
		return iq.Stream{}, err
	}
	onAir := WhitenOnAir(frame, whiteningSeed)

	dataBits := bitsLSBFirst(onAir)
	return Modulate(cfg, dataBits), nil
}

func bitsLSBFirst(data []byte) []byte {
	out := make([]byte, len(data)*8)
	for i, b := range data {
		for bit := 0; bit < 8; bit++ {
			out[i*8+bit] = (b >> uint(bit)) & 1
		}
	}
	return out
}
