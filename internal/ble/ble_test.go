package ble

import (
	"testing"

	"github.com/sdrphy/gophy/internal/iq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestFrameBytesS1(t *testing.T) {
	p := Packet{BaseAddress: 0x12345678, Payload: []byte{0x01, 0x02, 0x03}}
	frame, err := FrameBytes(p)
	require.NoError(t, err)

	prefix := frame[:11] // preamble..PDU
	assert.Equal(t, byte(0xAA), prefix[0])
	assert.Equal(t, []byte{0x78, 0x56, 0x34, 0x12}, prefix[1:5])
	assert.Equal(t, byte(0x00), prefix[5])
	assert.Equal(t, byte(0x00), prefix[6])
	assert.Equal(t, []byte{0x03, 0x01, 0x02, 0x03}, prefix[7:11])

	crcInput := []byte{0x00, 0x03, 0x01, 0x02, 0x03}
	want := crc24.Compute(crcInput)
	assert.Equal(t, want, frame[11:14])
}

func TestFrameAndParseRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		payload := rapid.SliceOfN(rapid.Byte(), 0, 255).Draw(t, "payload")
		baseAddr := rapid.Uint32().Draw(t, "addr")

		frame, err := FrameBytes(Packet{BaseAddress: baseAddr, Payload: payload})
		require.NoError(t, err)

		onAir := WhitenOnAir(frame, DefaultWhiteningSeed)
		rec, err := ParseOnAir(onAir[1:], DefaultWhiteningSeed) // drop preamble byte
		require.NoError(t, err)

		assert.Equal(t, payload, rec.Payload)
		assert.True(t, rec.CRCOK)
	})
}

func TestEmptyPayloadRoundTrip(t *testing.T) {
	frame, err := FrameBytes(Packet{BaseAddress: 0xAABBCCDD, Payload: nil})
	require.NoError(t, err)
	onAir := WhitenOnAir(frame, DefaultWhiteningSeed)
	rec, err := ParseOnAir(onAir[1:], DefaultWhiteningSeed)
	require.NoError(t, err)
	assert.Empty(t, rec.Payload)
	assert.True(t, rec.CRCOK)
}

func TestModulateDemodulateRoundTrip(t *testing.T) {
	cfg := ModulatorConfig{Fs: 8_000_000, Rate: Rate1M}
	payload := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	baseAddr := uint32(0x8E89BED6)

	txStream, err := ModulatePacket(cfg, Packet{BaseAddress: baseAddr, Payload: payload}, DefaultWhiteningSeed)
	require.NoError(t, err)

	rxCfg := ReceiverConfig{
		Fs: cfg.Fs, Rate: cfg.Rate, BaseAddress: baseAddr,
		Threshold: 4, WhiteningSeed: DefaultWhiteningSeed,
	}
	rx := NewReceiver(rxCfg)
	records := rx.DemodulateToPacket(txStream)

	require.NotEmpty(t, records)
	found := false
	for _, rec := range records {
		if rec.CRCOK && string(rec.Payload) == string(payload) {
			found = true
		}
	}
	assert.True(t, found)
}

func TestTruncatedIQYieldsNoPackets(t *testing.T) {
	cfg := ModulatorConfig{Fs: 8_000_000, Rate: Rate1M}
	txStream, err := ModulatePacket(cfg, Packet{BaseAddress: 0x12345678, Payload: []byte{1, 2, 3, 4, 5}}, DefaultWhiteningSeed)
	require.NoError(t, err)

	truncated := txStream
	truncated.Samples = truncated.Samples[:len(truncated.Samples)/3]

	rx := NewReceiver(ReceiverConfig{Fs: cfg.Fs, Rate: cfg.Rate, BaseAddress: 0x12345678, Threshold: 4})
	records := rx.DemodulateToPacket(truncated)
	assert.Empty(t, records)
}

func TestAllZeroIQYieldsNoPackets(t *testing.T) {
	s := make([]complex64, 10000)
	rx := NewReceiver(ReceiverConfig{Fs: 8_000_000, Rate: Rate1M, BaseAddress: 0x12345678, Threshold: 4})
	records := rx.DemodulateToPacket(iq.New(8_000_000, s))
	assert.Empty(t, records)
}
