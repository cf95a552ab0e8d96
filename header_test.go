package rtp

import (
	"bytes"
	"testing"

	"github.com/flowmedia/rtpcore/rtprand"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderMarshalConcreteScenario(t *testing.T) {
	// spec.md §8 concrete scenario 1.
	h := Header{
		Version:        2,
		PayloadType:    96,
		SequenceNumber: 0x1234,
		Timestamp:      0xDEADBEEF,
		SSRC:           0xCAFEBABE,
		Marker:         true,
	}

	buf, err := h.Marshal()
	require.NoError(t, err)
	require.Len(t, buf, 12)

	assert.Equal(t, byte(0x80), buf[0])
	assert.Equal(t, byte(0xE0), buf[1])
	assert.Equal(t, []byte{0x12, 0x34, 0xDE, 0xAD, 0xBE, 0xEF, 0xCA, 0xFE, 0xBA, 0xBE}, buf[2:12])
}

func TestHeaderRoundTripBasic(t *testing.T) {
	h := Header{
		Version:        2,
		PayloadType:    96,
		Marker:         true,
		SequenceNumber: 27023,
		Timestamp:      3653407706,
		SSRC:           476325762,
	}

	buf, err := h.Marshal()
	require.NoError(t, err)

	var parsed Header
	n, err := parsed.Unmarshal(buf)
	require.NoError(t, err)
	assert.Equal(t, len(buf), n)
	assert.Equal(t, h, parsed)
}

func TestHeaderRoundTripWithCSRCAndExtension(t *testing.T) {
	h := Header{
		Version:        2,
		PayloadType:    100,
		SequenceNumber: 42,
		Timestamp:      12345,
		SSRC:           0x11223344,
		CSRC:           []uint32{1, 2, 3},
	}
	h.SetExtension(0xBEEF, []uint32{0x01020304, 0x05060708})

	buf, err := h.Marshal()
	require.NoError(t, err)
	assert.Equal(t, h.MarshalSize(), len(buf))

	var parsed Header
	n, err := parsed.Unmarshal(buf)
	require.NoError(t, err)
	assert.Equal(t, len(buf), n)
	assert.Equal(t, h, parsed)
}

func TestHeaderCSRCTruncatedToThreeBitsOnWire(t *testing.T) {
	h := Header{Version: 2, PayloadType: 10}
	for i := uint32(0); i < 9; i++ {
		require.NoError(t, h.AddCSRC(i))
	}
	assert.Equal(t, 9, len(h.CSRC))

	buf, err := h.Marshal()
	require.NoError(t, err)
	// Only the low 3 bits of the CC nibble are on the wire: 9 & 7 == 1.
	assert.Equal(t, byte(1), buf[0]&0x0f)

	var parsed Header
	_, err = parsed.Unmarshal(buf)
	require.NoError(t, err)
	assert.Equal(t, 1, len(parsed.CSRC))
}

func TestHeaderUnmarshalTooShort(t *testing.T) {
	var h Header
	_, err := h.Unmarshal([]byte{0x80, 0x60})
	assert.Error(t, err)
}

func TestHeaderUnmarshalRejectsWrongVersion(t *testing.T) {
	buf := make([]byte, 12)
	buf[0] = 0x00 // version 0
	buf[1] = 96
	var h Header
	_, err := h.Unmarshal(buf)
	assert.Error(t, err)
}

func TestCSRCOps(t *testing.T) {
	h := Header{}
	require.NoError(t, h.AddCSRC(1))
	require.NoError(t, h.AddCSRC(2))
	require.Error(t, h.AddCSRC(1)) // duplicate

	assert.Equal(t, 1, h.FindCSRC(2))
	assert.Equal(t, -1, h.FindCSRC(99))

	require.NoError(t, h.RemoveCSRC(1))
	assert.Equal(t, []uint32{2}, h.CSRC)

	// Removing absent value is a no-op.
	require.NoError(t, h.RemoveCSRC(123))
	assert.Equal(t, []uint32{2}, h.CSRC)
}

func TestCSRCAddRemoveRestoresPriorState(t *testing.T) {
	h := Header{CSRC: []uint32{10, 20, 30}}
	require.NoError(t, h.AddCSRC(40))
	require.NoError(t, h.RemoveCSRC(40))
	assert.Equal(t, []uint32{10, 20, 30}, h.CSRC)
}

func TestSetExtensionReplacesAndClear(t *testing.T) {
	h := Header{}
	h.SetExtension(1, []uint32{1, 2})
	h.SetExtension(2, []uint32{3})
	require.NotNil(t, h.Extension)
	assert.Equal(t, uint16(2), h.Extension.ID)
	assert.Equal(t, []uint32{3}, h.Extension.Words)

	h.ClearExtension()
	assert.Nil(t, h.Extension)
}

func TestHeaderInitSeedsFromRNG(t *testing.T) {
	rng := rtprand.Fixed(0.5, 0xAABBCCDD)
	var h Header
	h.Init(96, rng)

	assert.Equal(t, uint8(2), h.Version)
	assert.Equal(t, uint8(96), h.PayloadType)
	assert.Equal(t, uint16(0xCCDD), h.SequenceNumber)
	assert.Equal(t, uint32(0xAABBCCDD), h.Timestamp)
	assert.Equal(t, uint32(0xAABBCCDD), h.SSRC)
}

func TestHeaderCloneIsDeep(t *testing.T) {
	h := Header{CSRC: []uint32{1, 2}}
	h.SetExtension(5, []uint32{9})

	clone := h.Clone()
	clone.CSRC[0] = 999
	clone.Extension.Words[0] = 999

	assert.Equal(t, uint32(1), h.CSRC[0])
	assert.Equal(t, uint32(9), h.Extension.Words[0])
}

func TestHeaderMarshalTooSmallBuffer(t *testing.T) {
	h := Header{Version: 2, PayloadType: 1}
	buf := make([]byte, 4)
	_, err := h.MarshalTo(buf)
	assert.Error(t, err)
}

func TestHeaderMarshalUnmarshalFuzzLike(t *testing.T) {
	rng := rtprand.NewMathSource()
	for i := 0; i < 50; i++ {
		h := Header{}
		h.Init(uint8(1+i%126), rng)
		for j := 0; j < i%5; j++ {
			_ = h.AddCSRC(rng.Uint32())
		}
		if i%2 == 0 {
			h.SetExtension(uint16(i), []uint32{rng.Uint32()})
		}

		buf, err := h.Marshal()
		require.NoError(t, err)

		var parsed Header
		n, err := parsed.Unmarshal(buf)
		require.NoError(t, err)
		require.Equal(t, len(buf), n)
		require.True(t, bytes.Equal(mustMarshal(t, parsed), buf))
	}
}

func mustMarshal(t *testing.T, h Header) []byte {
	t.Helper()
	buf, err := h.Marshal()
	require.NoError(t, err)

	return buf
}
