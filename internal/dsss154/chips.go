package dsss154

import "github.com/sdrphy/gophy/internal/bits"

// BytesToChipSymbols expands each byte into its two 32-chip symbols, LSB
// nibble first per the spec.
func BytesToChipSymbols(data []byte) []uint32 {
	out := make([]uint32, 0, len(data)*2)
	for _, b := range data {
		lo, hi := bits.EncodeByteToChips(b)
		out = append(out, lo, hi)
	}
	return out
}

// ChipSymbolsToChipStream expands 32-chip symbols into an individual-chip
// bitstream (MSB first within each 32-bit pattern, matching transmission
// order of the pattern constants).
func ChipSymbolsToChipStream(symbols []uint32) []byte {
	out := make([]byte, 0, len(symbols)*32)
	for _, sym := range symbols {
		for b := 31; b >= 0; b-- {
			out = append(out, byte((sym>>uint(b))&1))
		}
	}
	return out
}
