package rtp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPacketRoundTrip(t *testing.T) {
	pkt := Packet{
		Header: Header{
			Version:        2,
			PayloadType:    96,
			SequenceNumber: 1000,
			Timestamp:      90000,
			SSRC:           0x12345678,
			CSRC:           []uint32{1, 2},
		},
		Payload: []byte{0xAA, 0xBB, 0xCC},
	}

	buf, err := pkt.Marshal()
	require.NoError(t, err)
	assert.Equal(t, pkt.MarshalSize(), len(buf))

	var parsed Packet
	require.NoError(t, parsed.Unmarshal(buf))
	assert.Equal(t, pkt.Header, parsed.Header)
	assert.Equal(t, pkt.Payload, parsed.Payload)
}

func TestPacketUnmarshalEmpty(t *testing.T) {
	var p Packet
	assert.Error(t, p.Unmarshal(nil))
}

func TestPacketSetPayloadRefusesOverwrite(t *testing.T) {
	p := Packet{Payload: []byte{1}}
	err := p.SetPayload([]byte{2})
	assert.ErrorIs(t, err, errPayloadAlreadySet)
}

func TestPacketSetPayloadCopies(t *testing.T) {
	src := []byte{1, 2, 3}
	var p Packet
	require.NoError(t, p.SetPayload(src))
	src[0] = 99
	assert.Equal(t, byte(1), p.Payload[0])
}

func TestPacketCloneIsDeep(t *testing.T) {
	p := Packet{Header: Header{SSRC: 1}, Payload: []byte{1, 2}}
	clone := p.Clone()
	clone.Payload[0] = 99
	clone.SSRC = 2

	assert.Equal(t, byte(1), p.Payload[0])
	assert.Equal(t, uint32(1), p.SSRC)
}

func TestPacketStringDoesNotPanic(t *testing.T) {
	p := Packet{}
	assert.NotPanics(t, func() { _ = p.String() })
}
