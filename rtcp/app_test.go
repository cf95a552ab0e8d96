package rtcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplicationRoundTrip(t *testing.T) {
	app := Application{SSRC: 0x11223344, Name: 0x464c4f57} // "FLOW"
	require.NoError(t, app.SetData([]byte("hello!!!")))    // 8 bytes, already aligned

	buf, err := app.Marshal(5)
	require.NoError(t, err)
	assert.Equal(t, 0, len(buf)%4)

	var got Application
	subtype, err := got.Unmarshal(buf)
	require.NoError(t, err)
	assert.Equal(t, uint8(5), subtype)
	assert.Equal(t, app, got)
}

func TestApplicationSizePadsToFourBytes(t *testing.T) {
	app := Application{Data: []byte{1, 2, 3}}
	assert.Equal(t, appFixedLength+4, app.Size())

	aligned := Application{Data: []byte{1, 2, 3, 4}}
	assert.Equal(t, appFixedLength+4, aligned.Size())
}

func TestApplicationSetDataRefusesOverwrite(t *testing.T) {
	var app Application
	require.NoError(t, app.SetData([]byte{1, 2, 3, 4}))
	assert.ErrorIs(t, app.SetData([]byte{5, 6, 7, 8}), errDataAlreadySet)
}

func TestApplicationClearData(t *testing.T) {
	var app Application
	require.NoError(t, app.SetData([]byte{1, 2, 3, 4}))
	app.ClearData()
	assert.Nil(t, app.Data)
	require.NoError(t, app.SetData([]byte{5, 6, 7, 8}))
}

func TestApplicationNoData(t *testing.T) {
	app := Application{SSRC: 1, Name: 2}
	buf, err := app.Marshal(0)
	require.NoError(t, err)
	assert.Len(t, buf, appFixedLength)

	var got Application
	_, err = got.Unmarshal(buf)
	require.NoError(t, err)
	assert.Nil(t, got.Data)
}
