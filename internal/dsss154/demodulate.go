package dsss154

import (
	"math"

	"github.com/sdrphy/gophy/internal/bits"
	"github.com/sdrphy/gophy/internal/dsp"
	"github.com/sdrphy/gophy/internal/iq"
	"github.com/sdrphy/gophy/internal/timing"
)

// Discriminator selects which soft-decision front end the receiver uses.
type Discriminator int

const (
	DiscriminatorFrequency Discriminator = iota
	DiscriminatorBandPass
)

// ReceiverConfig configures a 802.15.4 receiver instance.
type ReceiverConfig struct {
	Fs                float64
	ChipRate          float64
	Disc              Discriminator
	PreambleThreshold int // default 12
	LengthThreshold   int // default 10
	CRCIncluded       bool

	// Symbol-timing recovery parameters (spec §4.5); zero values fall
	// back to timing.DefaultConfig's recommended defaults.
	TED          timing.TED
	LoopBW       float64
	Damping      float64
	TEDGain      float64
	MaxDeviation float64
}

// Receiver is the 802.15.4 PHY receiver (matched filter -> discriminator
// -> symbol sync -> chip slicer -> preamble search -> DSSS decode).
type Receiver struct {
	cfg         ReceiverConfig
	matchedTaps []float64
	spsChip     int
}

// NewReceiver builds a receiver, pre-computing its half-sine matched
// filter over 2*spsChip taps.
func NewReceiver(cfg ReceiverConfig) *Receiver {
	spsChip := int(cfg.Fs / cfg.ChipRate)
	if cfg.PreambleThreshold == 0 {
		cfg.PreambleThreshold = 12
	}
	if cfg.LengthThreshold == 0 {
		cfg.LengthThreshold = 10
	}

	spsSym := 2 * spsChip
	taps := make([]float64, spsSym)
	var gain float64
	for n := 0; n < spsSym; n++ {
		taps[n] = math.Sin(math.Pi * float64(n) / float64(spsSym))
		gain += taps[n]
	}
	for n := range taps {
		taps[n] /= gain
	}

	return &Receiver{cfg: cfg, matchedTaps: taps, spsChip: spsChip}
}

// Demodulate runs matched filter, discriminator, symbol sync (at
// spsChip), and chip slicer, returning hard chip decisions.
func (r *Receiver) Demodulate(s iq.Stream) []byte {
	filtered := dsp.ApplyComplexReal(s.Samples, r.matchedTaps, dsp.ModeSame)

	const deltaF = 500_000.0
	var soft []float64
	switch r.cfg.Disc {
	case DiscriminatorBandPass:
		lp := dsp.DesignLowpass(0.2/float64(r.spsChip), 31, dsp.WindowHamming)
		soft = dsp.BandPassDiscriminator(filtered, s.Fs, deltaF, lp)
	default:
		soft = dsp.FreqDiscriminator(filtered, s.Fs, deltaF)
		soft = dsp.TrackAndRemove(soft, 1.6e-4)
	}

	tcfg := timing.ResolveConfig(float64(r.spsChip), timing.Gardner, r.cfg.TED,
		r.cfg.LoopBW, r.cfg.Damping, r.cfg.TEDGain, r.cfg.MaxDeviation)
	chips := timing.Recover(tcfg, soft)

	hard := make([]byte, len(chips))
	for i, v := range chips {
		if v >= 0 {
			hard[i] = 1
		}
	}
	return hard
}

// preambleCode builds the access code for {0,0,0,0,0xA7} expressed as
// chips: the four zero preamble bytes plus the SFD byte, chip-mapped.
func (r *Receiver) preambleCode() bits.AccessCode {
	frameHead := append(append([]byte{}, PreambleBytes[:]...), SFD)
	symbols := BytesToChipSymbols(frameHead)
	stream := ChipSymbolsToChipStream(symbols)

	code := bits.AccessCode{Len: len(stream), Reduce: true}
	for _, c := range stream {
		code.Int = (code.Int << 1) | uint64(c)
	}
	return code
}

// ProcessPHYPacket runs preamble search, length-nibble decode, and
// payload decode over a hard chip-decision stream.
func (r *Receiver) ProcessPHYPacket(chips []byte) []Record {
	code := r.preambleCode()
	hits := bits.Correlate(chips, code, r.cfg.PreambleThreshold)

	var out []Record
	for _, pos := range hits {
		rec, ok := r.decodeAt(chips, pos)
		if !ok {
			continue
		}
		rec.PositionInStream = uint64(pos)
		out = append(out, rec)
	}
	return out
}

func (r *Receiver) decodeAt(chips []byte, pos int) (Record, bool) {
	if pos+64 > len(chips) {
		return Record{}, false
	}
	length, ok := decodeByte(chips[pos:pos+64], r.cfg.LengthThreshold)
	if !ok || int(length) > 127 {
		return Record{}, false // length > 127 rejected; decode miss on failure
	}

	payloadChips := int(length) * 64
	if pos+64+payloadChips > len(chips) {
		return Record{}, false // truncated buffer: discard silently
	}

	psdu := make([]byte, length)
	for i := 0; i < int(length); i++ {
		window := chips[pos+64+i*64 : pos+64+(i+1)*64]
		b, ok := decodeByte(window, 32) // unconditional (closest match) for payload
		if !ok {
			return Record{}, false
		}
		psdu[i] = b
	}

	rec := ParsePSDU(psdu, r.cfg.CRCIncluded)
	return rec, true
}

// decodeByte decodes a 64-chip window (two 32-chip nibble symbols, LSB
// nibble first) into a byte.
func decodeByte(window []byte, threshold int) (byte, bool) {
	lo := chipsToUint32(window[:32])
	hi := chipsToUint32(window[32:])

	loNibble, _, ok1 := bits.DecodeChips(lo, threshold)
	hiNibble, _, ok2 := bits.DecodeChips(hi, threshold)
	if !ok1 || !ok2 {
		return 0, false
	}
	return loNibble | (hiNibble << 4), true
}

func chipsToUint32(chips []byte) uint32 {
	var v uint32
	for _, c := range chips {
		v = (v << 1) | uint32(c&1)
	}
	return v
}

// DemodulateToPacket runs the full RX chain: IQ to chip decisions to
// decoded packets.
func (r *Receiver) DemodulateToPacket(s iq.Stream) []Record {
	return r.ProcessPHYPacket(r.Demodulate(s))
}
