// Package iqfile reads and writes the raw IQ blob format: interleaved
// little-endian f32 [I0, Q0, I1, Q1, ...] pairs, no header.
package iqfile

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// ReadComplex64 reads every interleaved I/Q pair from r.
func ReadComplex64(r io.Reader) ([]complex64, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("iqfile: read: %w", err)
	}
	if len(raw)%8 != 0 {
		return nil, fmt.Errorf("iqfile: length %d is not a multiple of 8 bytes", len(raw))
	}

	n := len(raw) / 8
	out := make([]complex64, n)
	for i := 0; i < n; i++ {
		re := math.Float32frombits(binary.LittleEndian.Uint32(raw[i*8:]))
		im := math.Float32frombits(binary.LittleEndian.Uint32(raw[i*8+4:]))
		out[i] = complex(re, im)
	}
	return out, nil
}

// WriteComplex64 writes samples as interleaved little-endian f32 pairs.
func WriteComplex64(w io.Writer, samples []complex64) error {
	buf := make([]byte, len(samples)*8)
	for i, s := range samples {
		binary.LittleEndian.PutUint32(buf[i*8:], math.Float32bits(real(s)))
		binary.LittleEndian.PutUint32(buf[i*8+4:], math.Float32bits(imag(s)))
	}
	_, err := w.Write(buf)
	if err != nil {
		return fmt.Errorf("iqfile: write: %w", err)
	}
	return nil
}
