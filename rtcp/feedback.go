package rtcp

import (
	"github.com/flowmedia/rtpcore/internal/wire"
	"github.com/pkg/errors"
)

// feedbackFixedLength is the header (4) + sender SSRC (4) + media SSRC (4).
const feedbackFixedLength = 12

// Feedback is an RTCP transport-layer or payload-specific feedback packet
// (RFC 4585 §6): a sender/media SSRC pair plus an opaque Feedback Control
// Information blob whose shape depends on the packet's type and FMT. NACK,
// PLI and FIR build their specific FCI layouts on top of this type.
type Feedback struct {
	SenderSSRC uint32
	MediaSSRC  uint32
	FCI        []byte
}

// Size returns the number of bytes Marshal will produce.
func (f Feedback) Size() int {
	return feedbackFixedLength + len(f.FCI)
}

func (f Feedback) header(pt PacketType, fmt uint8) Header {
	return Header{
		Version: 2,
		Count:   fmt,
		Type:    pt,
		Length:  uint16(f.Size()/4 - 1),
	}
}

// Marshal encodes the packet as pt (RTPFB or PSFB) with the given FMT
// subtype.
func (f Feedback) Marshal(pt PacketType, fmt uint8) ([]byte, error) {
	if pt != TypeTransportSpecificFeedback && pt != TypePayloadSpecificFeedback {
		return nil, errors.Wrapf(errUnknownPacketType, "%s is not a feedback type", pt)
	}
	if fmt > MaxCount {
		return nil, errors.Wrapf(errTooManyReports, "fmt %d", fmt)
	}
	if len(f.FCI)%4 != 0 {
		return nil, errors.Wrapf(errExtensionNotMult4, "fci size=%d", len(f.FCI))
	}

	buf := make([]byte, f.Size())
	hdr, err := f.header(pt, fmt).Marshal()
	if err != nil {
		return nil, err
	}
	copy(buf, hdr)

	wire.PutUint32(buf[4:], f.SenderSSRC)
	wire.PutUint32(buf[8:], f.MediaSSRC)
	copy(buf[feedbackFixedLength:], f.FCI)

	return buf, nil
}

// Unmarshal decodes a feedback packet from buf, returning the packet type
// and FMT subtype found in the header.
func (f *Feedback) Unmarshal(buf []byte) (PacketType, uint8, error) {
	var hdr Header
	pt, err := hdr.Unmarshal(buf)
	if err != nil {
		return 0, 0, err
	}
	if pt != TypeTransportSpecificFeedback && pt != TypePayloadSpecificFeedback {
		return pt, 0, errors.Wrapf(errWrongPacketType, "got %s", pt)
	}

	if len(buf) < feedbackFixedLength {
		return pt, 0, errors.Wrapf(errPacketTooShort, "%d < %d", len(buf), feedbackFixedLength)
	}

	total := (int(hdr.Length) + 1) * 4
	if total < feedbackFixedLength {
		return pt, 0, errors.Wrapf(errPacketTooShort, "declared length %d shorter than fixed part", total)
	}
	if len(buf) < total {
		return pt, 0, errors.Wrapf(errPacketTooShort, "%d < %d", len(buf), total)
	}

	f.SenderSSRC = wire.Uint32(buf[4:])
	f.MediaSSRC = wire.Uint32(buf[8:])

	f.FCI = nil
	if total > feedbackFixedLength {
		f.FCI = append([]byte(nil), buf[feedbackFixedLength:total]...)
	}

	return pt, hdr.Count, nil
}

// SetFCI sets the feedback control information, refusing to overwrite an
// existing payload. data must be a multiple of 4 bytes.
func (f *Feedback) SetFCI(data []byte) error {
	if f.FCI != nil {
		Logger.Warnf("rtcp: rejected fci overwrite, %d bytes already set", len(f.FCI))

		return errDataAlreadySet
	}
	if len(data)%4 != 0 {
		return errors.Wrapf(errExtensionNotMult4, "size=%d", len(data))
	}

	f.FCI = append([]byte(nil), data...)

	return nil
}

// ClearFCI removes the feedback control information, if any.
func (f *Feedback) ClearFCI() {
	f.FCI = nil
}
