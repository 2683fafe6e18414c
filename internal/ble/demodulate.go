package ble

import (
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

// ReceiverConfig configures a BLE receiver instance. Matched-filter taps
// are cached at construction so repeated Demodulate calls don't rebuild
// them.
type ReceiverConfig struct {
	Fs            float64
	Rate          Rate
	Disc          Discriminator
	BaseAddress   uint32 // used to build the access-code preamble pattern
	Threshold     int    // max bit mismatches in the 48-bit access-code search
	WhiteningSeed byte   // 0 selects DefaultWhiteningSeed

	// Symbol-timing recovery parameters (spec §4.5); zero values fall
	// back to timing.DefaultConfig's recommended defaults.
	TED          timing.TED
	LoopBW       float64
	Damping      float64
	TEDGain      float64
	MaxDeviation float64
}

// Receiver is the BLE PHY receiver (matched filter -> discriminator ->
// symbol sync -> slicer -> preamble search -> framer).
type Receiver struct {
	cfg         ReceiverConfig
	matchedTaps []float64
	sps         int
}

// NewReceiver builds a receiver, pre-computing its matched filter.
func NewReceiver(cfg ReceiverConfig) *Receiver {
	sps := int(cfg.Fs / float64(cfg.Rate))
	if cfg.Threshold == 0 {
		cfg.Threshold = 4
	}
	if cfg.WhiteningSeed == 0 {
		cfg.WhiteningSeed = DefaultWhiteningSeed
	}
	return &Receiver{
		cfg:         cfg,
		matchedTaps: gaussianKernel(sps),
		sps:         sps,
	}
}

// Demodulate runs the matched filter, discriminator, symbol sync and
// slicer, returning hard decision bits (0/1 per symbol).
func (r *Receiver) Demodulate(s iq.Stream) []byte {
	filtered := dsp.ApplyComplexReal(s.Samples, r.matchedTaps, dsp.ModeSame)

	var soft []float64
	deltaF := float64(r.cfg.Rate) * 0.25
	switch r.cfg.Disc {
	case DiscriminatorBandPass:
		lp := dsp.DesignLowpass(0.2/float64(r.sps), 31, dsp.WindowHamming)
		soft = dsp.BandPassDiscriminator(filtered, s.Fs, deltaF, lp)
	default:
		soft = dsp.FreqDiscriminator(filtered, s.Fs, deltaF)
		soft = dsp.TrackAndRemove(soft, 1.6e-4)
	}

	tcfg := timing.ResolveConfig(float64(r.sps), timing.ModMuellerAndMuller, r.cfg.TED,
		r.cfg.LoopBW, r.cfg.Damping, r.cfg.TEDGain, r.cfg.MaxDeviation)
	symbols := timing.Recover(tcfg, soft)

	hard := make([]byte, len(symbols))
	for i, v := range symbols {
		if v >= 0 {
			hard[i] = 1
		}
	}
	return hard
}

// accessCode builds the 48-bit access code: preamble byte, base address
// (LE), and the unwhitened 0x00 prefix byte that follows it, expressed
// LSB-first as the PHY transmits.
func (r *Receiver) accessCode() bits.AccessCode {
	frame := []byte{
		preambleByte(r.cfg.BaseAddress),
		byte(r.cfg.BaseAddress), byte(r.cfg.BaseAddress >> 8),
		byte(r.cfg.BaseAddress >> 16), byte(r.cfg.BaseAddress >> 24),
		0x00,
	}
	bitstream := bitsLSBFirst(frame)
	var code bits.AccessCode
	code.Len = len(bitstream)
	for _, b := range bitstream {
		code.Int = (code.Int << 1) | uint64(b)
	}
	return code
}

// ProcessPHYPacket runs preamble search and header/payload/CRC extraction
// over hard-decision bits, returning every decoded record found.
func (r *Receiver) ProcessPHYPacket(decisions []byte) []Record {
	code := r.accessCode()
	hits := bits.Correlate(decisions, code, r.cfg.Threshold)

	var out []Record
	for _, pos := range hits {
		// pos is just past the access code; ParseOnAir wants the bits from
		// the base address on, which begins after the 8 preamble bits.
		start := pos - code.Len + 8
		if start < 0 {
			continue
		}
		rec, err := ParseOnAir(decisionsToBytes(decisions[start:]), r.cfg.WhiteningSeed)
		if err != nil {
			continue // truncated or malformed candidate: discard silently
		}
		rec.PositionInStream = uint64(pos)
		out = append(out, rec)
	}
	return out
}

// decisionsToBytes packs a bitstream (one bit per byte, LSB-first on air)
// back into bytes for the byte-oriented framer. Truncated trailing bits
// are dropped, matching "truncate at end of stream" behaviour.
func decisionsToBytes(decisions []byte) []byte {
	n := (len(decisions) / 8) * 8
	packed, _ := bits.PackBitsToU8(decisions[:n])
	return packed
}

// DemodulateToPacket runs the full RX chain: IQ to hard decisions to
// decoded packets.
func (r *Receiver) DemodulateToPacket(s iq.Stream) []Record {
	return r.ProcessPHYPacket(r.Demodulate(s))
}
