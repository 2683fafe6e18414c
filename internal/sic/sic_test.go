package sic

import (
	"math"
	"testing"

	"github.com/sdrphy/gophy/internal/ble"
	"github.com/sdrphy/gophy/internal/iq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubtractRemovesExactInterferenceS5(t *testing.T) {
	fs := 1_000_000.0
	n := 1000
	freq := 5000.0

	high := make([]complex64, n)
	for i := range high {
		s, c := math.Sincos(2 * math.Pi * freq * float64(i) / fs)
		high[i] = complex(float32(c), float32(s))
	}

	cfg := ble.ModulatorConfig{Fs: fs, Rate: ble.Rate1M}
	lowStream, err := ble.ModulatePacket(cfg, ble.Packet{BaseAddress: 0x12345678, Payload: []byte{1, 2, 3}}, ble.DefaultWhiteningSeed)
	require.NoError(t, err)

	low := alignLength(lowStream, n).Samples

	mix := make([]complex64, n)
	for i := range mix {
		mix[i] = complex64(complex(0.9, 0))*high[i] + complex64(complex(0.1, 0))*low[i]
	}

	template := make([]complex64, n)
	for i := range template {
		template[i] = 1
	}

	grid := FrequencyGrid{CoarseLo: -10000, CoarseHi: 10000, CoarseStep: 100}
	params := FindInterferenceParameters(fs, mix, template, grid)

	assert.InDelta(t, freq, params.FreqHz, 100)
	assert.InDelta(t, 0.9, params.Amplitude, 0.9*0.05)
	assert.Equal(t, 0, params.LagSamp)

	residual := Subtract(fs, mix, template, params)

	var corr complex128
	for i, v := range residual {
		corr += complex128(v) * complex128(complex(real(high[i]), -imag(high[i])))
	}
	mag := math.Hypot(real(corr), imag(corr)) / float64(n)
	assert.Less(t, mag, 0.01)
}

func TestPipelineFallsBackWhenStrongUndecodable(t *testing.T) {
	fs := 8_000_000.0
	noise := make([]complex64, 2000)
	composite := iq.New(fs, noise)

	cfg := ble.ModulatorConfig{Fs: fs, Rate: ble.Rate1M}
	strongRX := BLEEndpoint{
		RX:   ble.NewReceiver(ble.ReceiverConfig{Fs: fs, Rate: ble.Rate1M, BaseAddress: 0x1, Threshold: 4}),
		TX:   cfg,
		Base: 0x1,
		Seed: ble.DefaultWhiteningSeed,
	}
	weakRX := strongRX

	result := Run(fs, composite, strongRX, weakRX, FrequencyGrid{CoarseLo: -1000, CoarseHi: 1000, CoarseStep: 500})
	assert.Nil(t, result.Strong)
}
