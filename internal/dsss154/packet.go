// Package dsss154 implements the IEEE 802.15.4 O-QPSK/DSSS PHY at
// 2 Mchip/s: framing, chip mapping, CRC, modulation and demodulation.
package dsss154

import (
	"fmt"

	"github.com/sdrphy/gophy/internal/bits"
)

// Packet is a decoded (or to-be-encoded) 802.15.4 PHY packet.
type Packet struct {
	Payload    []byte // PSDU, CRC not included
	IncludeCRC bool
}

// Record is the receiver's decoded-packet output.
type Record struct {
	Payload          []byte
	Length           byte
	CRCOK            *bool // nil when CRC checking wasn't requested
	PositionInStream uint64
}

var crc16 = bits.NewDSSS154CRC()

// SFD is the 802.15.4 start-of-frame delimiter byte.
const SFD byte = 0xA7

// PreambleBytes are the 4 zero preamble bytes preceding the SFD.
var PreambleBytes = [4]byte{0x00, 0x00, 0x00, 0x00}

// FrameBytes builds Preamble ++ SFD ++ Length ++ PSDU[++CRC].
func FrameBytes(p Packet) ([]byte, error) {
	if len(p.Payload) > 127 {
		return nil, fmt.Errorf("dsss154: payload length %d exceeds 127", len(p.Payload))
	}

	psdu := append([]byte{}, p.Payload...)
	if p.IncludeCRC {
		psdu = append(psdu, crc16.Compute(p.Payload)...)
	}
	if len(psdu) > 127 {
		return nil, fmt.Errorf("dsss154: PSDU length %d exceeds 127", len(psdu))
	}

	frame := make([]byte, 0, 4+1+1+len(psdu))
	frame = append(frame, PreambleBytes[:]...)
	frame = append(frame, SFD, byte(len(psdu)))
	frame = append(frame, psdu...)
	return frame, nil
}

// ParsePSDU splits a decoded PSDU into payload and CRC check result. If
// crcIncluded is false, CRCOK is nil (spec: CRC check is optional).
func ParsePSDU(psdu []byte, crcIncluded bool) Record {
	if !crcIncluded {
		return Record{Payload: psdu, Length: byte(len(psdu))}
	}
	if len(psdu) < 2 {
		ok := false
		return Record{Payload: psdu, Length: byte(len(psdu)), CRCOK: &ok}
	}
	payload := psdu[:len(psdu)-2]
	ok := crc16.CheckAppended(psdu)
	return Record{Payload: payload, Length: byte(len(psdu)), CRCOK: &ok}
}
