package rtcp

import (
	"github.com/flowmedia/rtpcore/internal/wire"
	"github.com/pkg/errors"
)

// ReceiverReport is an RTCP RR packet (RFC 3550 §6.4.2): reception reports
// from a participant that has not sent any RTP data since its last report.
type ReceiverReport struct {
	SSRC              uint32
	Reports           []ReportBlock
	ProfileExtension  []byte
}

const rrFixedLength = 8 // header (4) + SSRC (4)

// Size returns the number of bytes Marshal will produce.
func (r ReceiverReport) Size() int {
	return rrFixedLength + len(r.Reports)*ReportBlockLength + len(r.ProfileExtension)
}

func (r ReceiverReport) header() Header {
	return Header{
		Version: 2,
		Count:   uint8(len(r.Reports)),
		Type:    TypeReceiverReport,
		Length:  uint16(r.Size()/4 - 1),
	}
}

// Marshal encodes the packet.
func (r ReceiverReport) Marshal() ([]byte, error) {
	if len(r.Reports) > MaxCount {
		return nil, errors.Wrapf(errTooManyReports, "%d reports", len(r.Reports))
	}

	buf := make([]byte, r.Size())
	hdr, err := r.header().Marshal()
	if err != nil {
		return nil, err
	}
	copy(buf, hdr)

	wire.PutUint32(buf[4:], r.SSRC)

	offset := rrFixedLength
	for i := range r.Reports {
		if _, err := r.Reports[i].MarshalTo(buf[offset:]); err != nil {
			return nil, err
		}
		offset += ReportBlockLength
	}

	copy(buf[offset:], r.ProfileExtension)

	return buf, nil
}

// Unmarshal decodes an RR packet from buf.
func (r *ReceiverReport) Unmarshal(buf []byte) error {
	var hdr Header
	pt, err := hdr.Unmarshal(buf)
	if err != nil {
		return err
	}
	if pt != TypeReceiverReport {
		return errors.Wrapf(errWrongPacketType, "got %s", pt)
	}

	if len(buf) < rrFixedLength {
		return errors.Wrapf(errPacketTooShort, "%d < %d", len(buf), rrFixedLength)
	}
	r.SSRC = wire.Uint32(buf[4:])

	offset := rrFixedLength
	r.Reports = nil
	if hdr.Count > 0 {
		r.Reports = make([]ReportBlock, hdr.Count)
		for i := 0; i < int(hdr.Count); i++ {
			if err := r.Reports[i].Unmarshal(buf[offset:]); err != nil {
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
	r.ProfileExtension = nil
	if extLen > 0 {
		r.ProfileExtension = append([]byte(nil), buf[offset:total]...)
	}

	return nil
}

// FindReport returns a pointer to the report block for ssrc, or nil.
func (r *ReceiverReport) FindReport(ssrc uint32) *ReportBlock {
	for i := range r.Reports {
		if r.Reports[i].SSRC == ssrc {
			return &r.Reports[i]
		}
	}

	return nil
}

// AddReport appends report, refusing a duplicate SSRC and capping the
// report count at the RFC-valid 31.
func (r *ReceiverReport) AddReport(report ReportBlock) error {
	if r.FindReport(report.SSRC) != nil {
		Logger.Warnf("rtcp: rejected duplicate report ssrc=%d", report.SSRC)

		return errors.Wrapf(errDuplicateReport, "ssrc=%d", report.SSRC)
	}
	if len(r.Reports) >= MaxCount {
		Logger.Warnf("rtcp: report list full at %d entries", MaxCount)

		return errors.Wrapf(errTooManyReports, "max %d", MaxCount)
	}

	r.Reports = append(r.Reports, report)

	return nil
}

// RemoveReport removes the report block for ssrc, preserving the order of
// the remaining entries. Removing an absent ssrc is a no-op.
func (r *ReceiverReport) RemoveReport(ssrc uint32) error {
	for i := range r.Reports {
		if r.Reports[i].SSRC == ssrc {
			r.Reports = append(r.Reports[:i], r.Reports[i+1:]...)

			return nil
		}
	}

	return nil
}

// SetProfileExtension sets the profile-specific extension, refusing to
// overwrite an existing one and requiring a 4-byte-aligned size.
func (r *ReceiverReport) SetProfileExtension(data []byte) error {
	if r.ProfileExtension != nil {
		return errExtensionAlreadySet
	}
	if len(data)%4 != 0 {
		return errors.Wrapf(errExtensionNotMult4, "size=%d", len(data))
	}

	r.ProfileExtension = append([]byte(nil), data...)

	return nil
}

// ClearProfileExtension removes the profile extension, if any.
func (r *ReceiverReport) ClearProfileExtension() {
	r.ProfileExtension = nil
}
