package rtcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFIRTwoItemsRoundTrip(t *testing.T) {
	items := []FIRItem{
		{SSRC: 0x01020304, SequenceNumber: 1},
		{SSRC: 0x05060708, SequenceNumber: 2},
	}

	var f Feedback
	require.NoError(t, f.SetFIRItems(items))

	buf, err := f.Marshal(TypePayloadSpecificFeedback, FormatFIR)
	require.NoError(t, err)

	var got Feedback
	pt, fmtVal, err := got.Unmarshal(buf)
	require.NoError(t, err)
	assert.Equal(t, TypePayloadSpecificFeedback, pt)
	assert.Equal(t, uint8(FormatFIR), fmtVal)

	count, err := got.FIRItemCount()
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	item0, err := got.FIRItemAt(0)
	require.NoError(t, err)
	assert.Equal(t, items[0], item0)

	found, ok, err := got.FindFIRItem(0x05060708)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, items[1], found)
}

func TestFIRItemCountRejectsOddLength(t *testing.T) {
	f := Feedback{FCI: make([]byte, firItemLength+4)}
	_, err := f.FIRItemCount()
	assert.ErrorIs(t, err, errOddFIRLength)
}

func TestFIRItemAtRejectsOutOfRange(t *testing.T) {
	var f Feedback
	require.NoError(t, f.SetFIRItems([]FIRItem{{SSRC: 1}}))

	_, err := f.FIRItemAt(1)
	assert.ErrorIs(t, err, errPacketTooShort)
}

func TestFIRFindItemNotFound(t *testing.T) {
	var f Feedback
	require.NoError(t, f.SetFIRItems([]FIRItem{{SSRC: 1}}))

	_, ok, err := f.FindFIRItem(999)
	require.NoError(t, err)
	assert.False(t, ok)
}
