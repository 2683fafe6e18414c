// Package ble implements the Bluetooth Low Energy GFSK PHY: framing,
// whitening, CRC, modulation and demodulation at 1 and 2 Mb/s.
package ble

import (
	"fmt"

	"github.com/sdrphy/gophy/internal/bits"
)

// Rate is the BLE air data rate.
type Rate int

const (
	Rate1M Rate = 1_000_000
	Rate2M Rate = 2_000_000
)

// Packet is a decoded (or to-be-encoded) BLE PHY packet.
type Packet struct {
	BaseAddress uint32 // little-endian on air
	Payload     []byte
}

// Record is the receiver's decoded-packet output (spec §3).
type Record struct {
	Payload          []byte
	Length           byte
	CRCOK            bool
	PositionInStream uint64
}

var crc24 = bits.NewBLECRC()

// preambleByte returns 0x55 if the base address's LSB is 1, else 0xAA --
// the spec's chosen (latest) convention.
func preambleByte(baseAddress uint32) byte {
	if baseAddress&1 == 1 {
		return 0x55
	}
	return 0xAA
}

// FrameBytes builds the on-air byte sequence before whitening:
// Preamble(1) Base(4,LE) Prefix(1=0) S0(1=0) Length(1) PDU(n) CRC(3).
func FrameBytes(p Packet) ([]byte, error) {
	if len(p.Payload) > 255 {
		return nil, fmt.Errorf("ble: payload length %d exceeds 255", len(p.Payload))
	}

	frame := make([]byte, 0, 8+len(p.Payload)+3)
	frame = append(frame, preambleByte(p.BaseAddress))
	frame = append(frame,
		byte(p.BaseAddress),
		byte(p.BaseAddress>>8),
		byte(p.BaseAddress>>16),
		byte(p.BaseAddress>>24),
	)
	frame = append(frame, 0x00, 0x00, byte(len(p.Payload)))
	frame = append(frame, p.Payload...)

	crcInput := frame[6:] // S0, Length, PDU
	frame = append(frame, crc24.Compute(crcInput)...)
	return frame, nil
}

// WhitenOnAir whitens S0 through CRC inclusive (bytes 6 and onward of the
// unwhitened frame), leaving the preamble, base address and prefix byte
// untouched, and returns the full on-air byte sequence.
func WhitenOnAir(unwhitened []byte, seed byte) []byte {
	out := make([]byte, len(unwhitened))
	copy(out, unwhitened[:6])
	whitened, _ := bits.Whiten(unwhitened[6:], seed)
	copy(out[6:], whitened)
	return out
}

// DefaultWhiteningSeed is the spec's test-vector seed (0x01); real BLE
// channels seed from (channel_index<<1)|1 but the core PHY is
// channel-agnostic here.
const DefaultWhiteningSeed byte = 0x01

// ParseOnAir dewhitens and CRC-checks an on-air frame (preamble already
// consumed by the caller). buf starts at the base address; the unwhitened
// prefix byte follows it, then S0.
func ParseOnAir(buf []byte, seed byte) (Record, error) {
	if len(buf) < 7 {
		return Record{}, fmt.Errorf("ble: buffer too short for header")
	}
	w := bits.NewWhitener(seed)
	header := w.Bytes(buf[5:7]) // S0, Length
	length := header[1]
	if int(length) > 255 {
		return Record{}, fmt.Errorf("ble: length %d exceeds 255", length)
	}

	need := 7 + int(length) + 3
	if len(buf) < need {
		return Record{}, fmt.Errorf("ble: truncated packet, need %d have %d", need, len(buf))
	}

	// The LFSR continues from the state left by the header, as whitening
	// a payload does in a single streaming pass.
	rest := w.Bytes(buf[7:need])
	payload := rest[:length]
	gotCRC := rest[length:]
	wantCRC := crc24.Compute(append(append([]byte{}, header...), payload...))

	ok := true
	for i := range wantCRC {
		if wantCRC[i] != gotCRC[i] {
			ok = false
			break
		}
	}

	return Record{Payload: append([]byte{}, payload...), Length: length, CRCOK: ok}, nil
}
