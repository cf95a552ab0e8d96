package rtcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceDescriptionOneChunkCNAME(t *testing.T) {
	var sd SourceDescription
	chunk, err := sd.AddChunk(0xcafebabe)
	require.NoError(t, err)
	require.NotNil(t, chunk)

	require.NoError(t, sd.SetItem(0xcafebabe, SDESCNAME, []byte("alice@example.com")))

	buf, err := sd.Marshal()
	require.NoError(t, err)
	assert.Equal(t, 0, len(buf)%4, "sdes packet must be a whole number of words")

	var got SourceDescription
	require.NoError(t, got.Unmarshal(buf))
	require.Len(t, got.Chunks, 1)
	assert.Equal(t, uint32(0xcafebabe), got.Chunks[0].Source)

	data, ok := got.GetItem(0xcafebabe, SDESCNAME)
	require.True(t, ok)
	assert.Equal(t, "alice@example.com", string(data))
}

func TestSourceDescriptionChunkSizeAlwaysPads(t *testing.T) {
	// 4 (ssrc) + 2+4 (item header+data) = 10 bytes raw; the encoder must
	// round up to 12, never leaving the chunk unterminated.
	c := SDESChunk{Source: 1, Items: []SDESItem{{Type: SDESCNAME, Data: []byte("abcd")}}}
	assert.Equal(t, 12, c.size())

	// Exactly word-aligned raw size (4 + 2+2 = 8) must still grow by a
	// full word so a null terminator byte is always present.
	aligned := SDESChunk{Source: 1, Items: []SDESItem{{Type: SDESCNAME, Data: []byte("ab")}}}
	assert.Equal(t, 12, aligned.size())
}

func TestSourceDescriptionSetItemReplacesExisting(t *testing.T) {
	var sd SourceDescription
	_, err := sd.AddChunk(1)
	require.NoError(t, err)

	require.NoError(t, sd.SetItem(1, SDESTool, []byte("v1")))
	require.NoError(t, sd.SetItem(1, SDESTool, []byte("v2")))

	data, ok := sd.GetItem(1, SDESTool)
	require.True(t, ok)
	assert.Equal(t, "v2", string(data))
}

func TestSourceDescriptionClearItem(t *testing.T) {
	var sd SourceDescription
	_, err := sd.AddChunk(1)
	require.NoError(t, err)
	require.NoError(t, sd.SetItem(1, SDESNote, []byte("n")))

	require.NoError(t, sd.ClearItem(1, SDESNote))
	_, ok := sd.GetItem(1, SDESNote)
	assert.False(t, ok)
}

func TestSourceDescriptionAddChunkRejectsDuplicate(t *testing.T) {
	var sd SourceDescription
	_, err := sd.AddChunk(1)
	require.NoError(t, err)

	_, err = sd.AddChunk(1)
	assert.ErrorIs(t, err, errDuplicateReport)
}

func TestSourceDescriptionAddChunkCapsAt31(t *testing.T) {
	var sd SourceDescription
	for i := uint32(0); i < MaxCount; i++ {
		_, err := sd.AddChunk(i)
		require.NoError(t, err)
	}

	_, err := sd.AddChunk(999)
	assert.ErrorIs(t, err, errTooManyChunks)
}

func TestSourceDescriptionUnmarshalRejectsDuplicateItemType(t *testing.T) {
	// Hand-build a chunk with the CNAME type appearing twice.
	buf := []byte{
		0x00, 0x00, 0x00, 0x01, // ssrc
		1, 1, 'a', // CNAME "a"
		1, 1, 'b', // CNAME "b" again
		0, 0, 0, // terminator + pad
	}
	full := make([]byte, 4+len(buf))
	hdr := Header{Version: 2, Count: 1, Type: TypeSourceDescription, Length: uint16(len(full)/4 - 1)}
	hb, err := hdr.Marshal()
	require.NoError(t, err)
	copy(full, hb)
	copy(full[4:], buf)

	var sd SourceDescription
	err = sd.Unmarshal(full)
	assert.ErrorIs(t, err, errDuplicateItem)
}

func TestSourceDescriptionRemoveChunk(t *testing.T) {
	var sd SourceDescription
	_, err := sd.AddChunk(1)
	require.NoError(t, err)
	_, err = sd.AddChunk(2)
	require.NoError(t, err)

	sd.RemoveChunk(1)
	assert.Len(t, sd.Chunks, 1)
	assert.Equal(t, uint32(2), sd.Chunks[0].Source)
}
