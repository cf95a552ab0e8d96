package rtcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSenderReportRoundTrip(t *testing.T) {
	sr := SenderReport{
		SSRC:         0xdeadbeef,
		NTPSeconds:   3824567890,
		NTPFraction:  12345,
		RTPTimestamp: 90000,
		PacketCount:  42,
		ByteCount:    50000,
		Reports: []ReportBlock{
			{SSRC: 1, HighestSeq: 10},
		},
	}

	buf, err := sr.Marshal()
	require.NoError(t, err)

	var got SenderReport
	require.NoError(t, got.Unmarshal(buf))
	assert.Equal(t, sr, got)
}

func TestSenderReportAddReportCapsAt31(t *testing.T) {
	var sr SenderReport
	for i := uint32(0); i < MaxCount; i++ {
		require.NoError(t, sr.AddReport(ReportBlock{SSRC: i}))
	}

	assert.ErrorIs(t, sr.AddReport(ReportBlock{SSRC: 999}), errTooManyReports)
}

func TestSenderReportFindReport(t *testing.T) {
	var sr SenderReport
	require.NoError(t, sr.AddReport(ReportBlock{SSRC: 5, Jitter: 10}))

	found := sr.FindReport(5)
	require.NotNil(t, found)
	assert.Equal(t, uint32(10), found.Jitter)

	assert.Nil(t, sr.FindReport(6))
}

func TestSenderReportUnmarshalRejectsShortFixedPart(t *testing.T) {
	buf := make([]byte, srFixedLength-1)
	buf[0] = 0x80 // version 2, no padding, count 0
	buf[1] = uint8(TypeSenderReport)

	var sr SenderReport
	err := sr.Unmarshal(buf)
	assert.ErrorIs(t, err, errPacketTooShort)
}
