package sic

import (
	"github.com/sdrphy/gophy/internal/ble"
	"github.com/sdrphy/gophy/internal/dsss154"
	"github.com/sdrphy/gophy/internal/iq"
)

// Candidate is a protocol-agnostic view of a decoded packet, used by the
// pipeline to decide whether a demodulation attempt produced anything to
// resynthesise, regardless of which concrete protocol produced it.
type Candidate struct {
	Payload []byte
	CRCOK   bool
}

// Endpoint is the small tagged-union interface standing in for the
// source's Receiver/Transmitter class hierarchy (spec Design Notes):
// exactly two concrete implementations, BLEEndpoint and DSSS154Endpoint,
// selected by the caller -- no runtime reflection, no dynamic registry.
type Endpoint interface {
	Demodulate(s iq.Stream) []Candidate
	Resynthesize(payload []byte) (iq.Stream, error)
}

// BLEEndpoint adapts a BLE receiver/modulator pair to Endpoint.
type BLEEndpoint struct {
	RX   *ble.Receiver
	TX   ble.ModulatorConfig
	Base uint32
	Seed byte
}

func (e BLEEndpoint) Demodulate(s iq.Stream) []Candidate {
	recs := e.RX.DemodulateToPacket(s)
	out := make([]Candidate, len(recs))
	for i, r := range recs {
		out[i] = Candidate{Payload: r.Payload, CRCOK: r.CRCOK}
	}
	return out
}

func (e BLEEndpoint) Resynthesize(payload []byte) (iq.Stream, error) {
	return ble.ModulatePacket(e.TX, ble.Packet{BaseAddress: e.Base, Payload: payload}, e.Seed)
}

// DSSS154Endpoint adapts a 802.15.4 receiver/modulator pair to Endpoint.
type DSSS154Endpoint struct {
	RX         *dsss154.Receiver
	TX         dsss154.ModulatorConfig
	IncludeCRC bool
}

func (e DSSS154Endpoint) Demodulate(s iq.Stream) []Candidate {
	recs := e.RX.DemodulateToPacket(s)
	out := make([]Candidate, len(recs))
	for i, r := range recs {
		ok := r.CRCOK != nil && *r.CRCOK
		out[i] = Candidate{Payload: r.Payload, CRCOK: ok}
	}
	return out
}

func (e DSSS154Endpoint) Resynthesize(payload []byte) (iq.Stream, error) {
	return dsss154.ModulatePacket(e.TX, dsss154.Packet{Payload: payload, IncludeCRC: e.IncludeCRC})
}
