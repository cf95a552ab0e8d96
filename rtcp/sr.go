package rtcp

import (
	"github.com/flowmedia/rtpcore/internal/wire"
	"github.com/pkg/errors"
)

// SenderReport is an RTCP SR packet (RFC 3550 §6.4.1): sender information
// plus zero or more reception reports, sent by participants that are
// actively sending RTP data.
type SenderReport struct {
	SSRC             uint32
	NTPSeconds       uint32
	NTPFraction      uint32
	RTPTimestamp     uint32
	PacketCount      uint32
	ByteCount        uint32
	Reports          []ReportBlock
	ProfileExtension []byte
}

const srFixedLength = 28 // header (4) + SSRC (4) + sender info (20)

// Size returns the number of bytes Marshal will produce.
func (s SenderReport) Size() int {
	return srFixedLength + len(s.Reports)*ReportBlockLength + len(s.ProfileExtension)
}

func (s SenderReport) header() Header {
	return Header{
		Version: 2,
		Count:   uint8(len(s.Reports)),
		Type:    TypeSenderReport,
		Length:  uint16(s.Size()/4 - 1),
	}
}

// Marshal encodes the packet.
func (s SenderReport) Marshal() ([]byte, error) {
	if len(s.Reports) > MaxCount {
		return nil, errors.Wrapf(errTooManyReports, "%d reports", len(s.Reports))
	}

	buf := make([]byte, s.Size())
	hdr, err := s.header().Marshal()
	if err != nil {
		return nil, err
	}
	copy(buf, hdr)

	wire.PutUint32(buf[4:], s.SSRC)
	wire.PutUint32(buf[8:], s.NTPSeconds)
	wire.PutUint32(buf[12:], s.NTPFraction)
	wire.PutUint32(buf[16:], s.RTPTimestamp)
	wire.PutUint32(buf[20:], s.PacketCount)
	wire.PutUint32(buf[24:], s.ByteCount)

	offset := srFixedLength
	for i := range s.Reports {
		if _, err := s.Reports[i].MarshalTo(buf[offset:]); err != nil {
			return nil, err
		}
		offset += ReportBlockLength
	}

	copy(buf[offset:], s.ProfileExtension)

	return buf, nil
}

// Unmarshal decodes an SR packet from buf.
func (s *SenderReport) Unmarshal(buf []byte) error {
	var hdr Header
	pt, err := hdr.Unmarshal(buf)
	if err != nil {
		return err
	}
	if pt != TypeSenderReport {
		return errors.Wrapf(errWrongPacketType, "got %s", pt)
	}

	if len(buf) < srFixedLength {
		return errors.Wrapf(errPacketTooShort, "%d < %d", len(buf), srFixedLength)
	}

	s.SSRC = wire.Uint32(buf[4:])
	s.NTPSeconds = wire.Uint32(buf[8:])
	s.NTPFraction = wire.Uint32(buf[12:])
	s.RTPTimestamp = wire.Uint32(buf[16:])
	s.PacketCount = wire.Uint32(buf[20:])
	s.ByteCount = wire.Uint32(buf[24:])

	offset := srFixedLength
	s.Reports = nil
	if hdr.Count > 0 {
		s.Reports = make([]ReportBlock, hdr.Count)
		for i := 0; i < int(hdr.Count); i++ {
			if err := s.Reports[i].Unmarshal(buf[offset:]); err != nil {
				return err
			}
			offset += ReportBlockLength
		}
	}

	total := (int(hdr.Length) + 1) * 4
	if total < offset {
		return errors.Wrapf(errPacketTooShort, "declared length %d shorter than reports consumed %d", total, offset)
	}
	if len(buf) < total {
		return errors.Wrapf(errPacketTooShort, "%d < %d", len(buf), total)
	}

	extLen := total - offset
	s.ProfileExtension = nil
	if extLen > 0 {
		s.ProfileExtension = append([]byte(nil), buf[offset:total]...)
	}

	return nil
}

// FindReport returns a pointer to the report block for ssrc, or nil.
func (s *SenderReport) FindReport(ssrc uint32) *ReportBlock {
	for i := range s.Reports {
		if s.Reports[i].SSRC == ssrc {
			return &s.Reports[i]
		}
	}

	return nil
}

// AddReport appends report, refusing a duplicate SSRC and capping the
// report count at the RFC-valid 31.
func (s *SenderReport) AddReport(report ReportBlock) error {
	if s.FindReport(report.SSRC) != nil {
		Logger.Warnf("rtcp: rejected duplicate report ssrc=%d", report.SSRC)

		return errors.Wrapf(errDuplicateReport, "ssrc=%d", report.SSRC)
	}
	if len(s.Reports) >= MaxCount {
		Logger.Warnf("rtcp: report list full at %d entries", MaxCount)

		return errors.Wrapf(errTooManyReports, "max %d", MaxCount)
	}

	s.Reports = append(s.Reports, report)

	return nil
}

// RemoveReport removes the report block for ssrc, preserving the order of
// the remaining entries. Removing an absent ssrc is a no-op.
func (s *SenderReport) RemoveReport(ssrc uint32) error {
	for i := range s.Reports {
		if s.Reports[i].SSRC == ssrc {
			s.Reports = append(s.Reports[:i], s.Reports[i+1:]...)

			return nil
		}
	}

	return nil
}

// SetProfileExtension sets the profile-specific extension, refusing to
// overwrite an existing one and requiring a 4-byte-aligned size.
func (s *SenderReport) SetProfileExtension(data []byte) error {
	if s.ProfileExtension != nil {
		return errExtensionAlreadySet
	}
	if len(data)%4 != 0 {
		return errors.Wrapf(errExtensionNotMult4, "size=%d", len(data))
	}

	s.ProfileExtension = append([]byte(nil), data...)

	return nil
}

// ClearProfileExtension removes the profile extension, if any.
func (s *SenderReport) ClearProfileExtension() {
	s.ProfileExtension = nil
}
