package sim

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/sdrphy/gophy/internal/ble"
	"github.com/sdrphy/gophy/internal/dsp"
	"github.com/sdrphy/gophy/internal/dsss154"
	"github.com/sdrphy/gophy/internal/iq"
	"github.com/sdrphy/gophy/internal/sic"
)

func randomPayload(rng *rand.Rand, n int) []byte {
	out := make([]byte, n)
	rng.Read(out)
	return out
}

func pickFreq(rng *rand.Rand, c Config) float64 {
	if c.FixedFreqHz != nil {
		return *c.FixedFreqHz
	}
	return uniform(rng, c.FreqRangeHz)
}

func pickPhase(rng *rand.Rand, c Config) float64 {
	if c.FixedPhase != nil {
		return *c.FixedPhase
	}
	if c.PhaseRangeRad.Lo == 0 && c.PhaseRangeRad.Hi == 0 {
		return uniform(rng, Range{Lo: 0, Hi: 2 * math.Pi})
	}
	return uniform(rng, c.PhaseRangeRad)
}

func uniform(rng *rand.Rand, r Range) float64 {
	if r.Hi <= r.Lo {
		return r.Lo
	}
	return r.Lo + rng.Float64()*(r.Hi-r.Lo)
}

// synthesizeLeg builds an endpoint and an IQ stream for one sweep leg
// (the "high" or the "low" signal).
func synthesizeLeg(rng *rand.Rand, c Config, fs float64, proto Protocol, bleRate BLERate, payloadLen int, amplitude float64) (sic.Endpoint, iq.Stream, error) {
	freq := pickFreq(rng, c)
	phase := pickPhase(rng, c)
	shift := uniform(rng, c.ShiftRange)

	switch proto {
	case ProtoBLE:
		payload := randomPayload(rng, payloadLen)
		base := rng.Uint32()
		modCfg := ble.ModulatorConfig{Fs: fs, Rate: ble.Rate(bleRate)}
		stream, err := ble.ModulatePacket(modCfg, ble.Packet{BaseAddress: base, Payload: payload}, ble.DefaultWhiteningSeed)
		if err != nil {
			return nil, iq.Stream{}, err
		}
		stream = applyCarrierAndAmplitude(stream, fs, freq, phase, amplitude)
		stream.Samples = dsp.FractionalDelay(stream.Samples, shift)

		ep := sic.BLEEndpoint{
			RX:   ble.NewReceiver(ble.ReceiverConfig{Fs: fs, Rate: ble.Rate(bleRate), BaseAddress: base, Threshold: 4}),
			TX:   modCfg,
			Base: base,
			Seed: ble.DefaultWhiteningSeed,
		}
		return ep, stream, nil

	case ProtoDSSS154:
		payload := randomPayload(rng, payloadLen)
		modCfg := dsss154.ModulatorConfig{Fs: fs, ChipRate: 2_000_000}
		stream, err := dsss154.ModulatePacket(modCfg, dsss154.Packet{Payload: payload, IncludeCRC: true})
		if err != nil {
			return nil, iq.Stream{}, err
		}
		stream = applyCarrierAndAmplitude(stream, fs, freq, phase, amplitude)
		stream.Samples = dsp.FractionalDelay(stream.Samples, shift)

		ep := sic.DSSS154Endpoint{
			RX:         dsss154.NewReceiver(dsss154.ReceiverConfig{Fs: fs, ChipRate: 2_000_000, CRCIncluded: true}),
			TX:         modCfg,
			IncludeCRC: true,
		}
		return ep, stream, nil
	}
	return nil, iq.Stream{}, fmt.Errorf("sim: unknown protocol %q", proto)
}

func applyCarrierAndAmplitude(s iq.Stream, fs, freq, phase, amplitude float64) iq.Stream {
	out := make([]complex64, len(s.Samples))
	w := 2 * math.Pi * freq / fs
	for n, v := range s.Samples {
		a, b := math.Sincos(w*float64(n) + phase)
		rot := complex(float32(b)*float32(amplitude), float32(a)*float32(amplitude))
		out[n] = v * rot
	}
	return iq.New(fs, out)
}

// TrialOutcome is the per-trial result: whether the high- and low-power
// signals were each decoded with a passing CRC.
type TrialOutcome struct {
	SuccessHigh bool
	SuccessLow  bool
}

// RunTrial executes one Monte-Carlo trial at the given low-power level and
// SNR, per spec §4.8's 8-step single-trial procedure.
func RunTrial(rng *rand.Rand, c Config, lowPowerDB, snrLowDB float64) (TrialOutcome, error) {
	fs := c.SamplingRateHz
	highAmp := math.Pow(10, c.HighPowerDB/20)
	lowAmp := math.Pow(10, lowPowerDB/20)

	highEP, highStream, err := synthesizeLeg(rng, c, fs, c.ProtocolHigh, c.BLERateHigh, c.PayloadLenHigh, highAmp)
	if err != nil {
		return TrialOutcome{}, err
	}
	lowEP, lowStream, err := synthesizeLeg(rng, c, fs, c.ProtocolLow, c.BLERateLow, c.PayloadLenLow, lowAmp)
	if err != nil {
		return TrialOutcome{}, err
	}

	n := len(highStream.Samples)
	if len(lowStream.Samples) > n {
		n = len(lowStream.Samples)
	}
	n += c.PadSamp
	high := padTo(highStream.Samples, n)
	low := padTo(lowStream.Samples, n)

	mix := make([]complex64, n)
	for i := range mix {
		mix[i] = high[i] + low[i]
	}

	n0 := dsp.NoisePowerForSNR(low, snrLowDB)
	mix = dsp.AddComplexNoise(rng, mix, n0)
	mix = QuantizeADC(mix, c.ADCBits, c.ADCVmax)

	grid := sic.FrequencyGrid{
		CoarseLo: c.CoarseFreqRange.Lo, CoarseHi: c.CoarseFreqRange.Hi, CoarseStep: c.CoarseFreqStep,
		FineHalfWidth: c.FineWindowHz, FineStep: c.FineStepHz,
	}
	result := sic.Run(fs, iq.New(fs, mix), highEP, lowEP, grid)

	var outcome TrialOutcome
	if result.Strong != nil {
		outcome.SuccessHigh = result.Strong.CRCOK
	}
	if result.Weak != nil {
		outcome.SuccessLow = result.Weak.CRCOK
	}
	return outcome, nil
}

func padTo(x []complex64, n int) []complex64 {
	if len(x) >= n {
		return x[:n]
	}
	out := make([]complex64, n)
	copy(out, x)
	return out
}
