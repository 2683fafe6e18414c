package bits

import "math/bits"

// ChipMapping is the IEEE 802.15.4 16-entry nibble-to-32-chip DSSS table.
// Each successive entry is a 4-bit rotation of its predecessor; the MSB and
// LSB of each pattern depend on the differential relation with neighbouring
// symbols, so the chip decoder masks them out with ChipDecodeMask.
var ChipMapping = [16]uint32{
	0xD9C3522E, // 0
	0xED9C3522, // 1
	0x2ED9C352, // 2
	0x22ED9C35, // 3
	0x522ED9C3, // 4
	0x3522ED9C, // 5
	0xC3522ED9, // 6
	0x9C3522ED, // 7
	0x8C96077B, // 8
	0xB8C96077, // 9
	0x7B8C9607, // A
	0x77B8C960, // B
	0x077B8C96, // C
	0x6077B8C9, // D
	0x96077B8C, // E
	0xC96077B8, // F
}

// ChipDecodeMask ignores the MSB and LSB of each 32-chip pattern, which are
// differential-encoded boundary bits shared with neighbouring symbols.
const ChipDecodeMask uint32 = 0x7FFFFFFE

// EncodeNibble returns the 32-chip pattern for a nibble in [0,15].
func EncodeNibble(nibble byte) uint32 {
	return ChipMapping[nibble&0x0F]
}

// EncodeByteToChips expands one byte into its two 32-chip symbols, LSB
// nibble emitted first per the spec.
func EncodeByteToChips(b byte) (lo, hi uint32) {
	return EncodeNibble(b & 0x0F), EncodeNibble((b >> 4) & 0x0F)
}

// DecodeChips finds the nibble whose pattern has the smallest Hamming
// distance (under ChipDecodeMask) to the received 32-bit window, returning
// (nibble, distance, ok) where ok is false if distance exceeds threshold.
func DecodeChips(window uint32, threshold int) (nibble byte, distance int, ok bool) {
	best := byte(0)
	bestDist := 33
	for i, pattern := range ChipMapping {
		d := bits.OnesCount32((window ^ pattern) & ChipDecodeMask)
		if d < bestDist {
			bestDist = d
			best = byte(i)
		}
	}
	return best, bestDist, bestDist <= threshold
}
