package rtcp

import "github.com/pkg/errors"

// Packet is implemented by SenderReport, ReceiverReport and
// SourceDescription. Application and Feedback take extra Marshal
// arguments (subtype, packet type and FMT) and do not implement it.
type Packet interface {
	Marshal() ([]byte, error)
	Size() int
}

// PeekType returns the packet type of the RTCP packet starting at buf
// without allocating or otherwise decoding it. Callers use this to pick a
// concrete type before calling its Unmarshal.
func PeekType(buf []byte) (PacketType, error) {
	if len(buf) < HeaderLength {
		return 0, errors.Wrapf(errHeaderTooShort, "%d < %d", len(buf), HeaderLength)
	}

	return PacketType(buf[1]), nil
}

// Unmarshal decodes the single RTCP packet at the start of buf, returning
// it as one of *SenderReport, *ReceiverReport, *SourceDescription,
// *Application, or *Feedback. Goodbye (BYE) and unrecognized types return
// errUnknownPacketType, since this package does not model BYE as a typed
// packet.
func Unmarshal(buf []byte) (interface{}, error) {
	pt, err := PeekType(buf)
	if err != nil {
		return nil, err
	}

	switch pt {
	case TypeSenderReport:
		var p SenderReport
		if err := p.Unmarshal(buf); err != nil {
			return nil, err
		}

		return &p, nil

	case TypeReceiverReport:
		var p ReceiverReport
		if err := p.Unmarshal(buf); err != nil {
			return nil, err
		}

		return &p, nil

	case TypeSourceDescription:
		var p SourceDescription
		if err := p.Unmarshal(buf); err != nil {
			return nil, err
		}

		return &p, nil

	case TypeApplicationDefined:
		var p Application
		if _, err := p.Unmarshal(buf); err != nil {
			return nil, err
		}

		return &p, nil

	case TypeTransportSpecificFeedback, TypePayloadSpecificFeedback:
		var p Feedback
		if _, _, err := p.Unmarshal(buf); err != nil {
			return nil, err
		}

		return &p, nil

	default:
		return nil, errors.Wrapf(errUnknownPacketType, "pt=%d", uint8(pt))
	}
}

// NextPacket returns the byte length of the single RTCP packet at the
// start of buf, for splitting a compound RTCP packet (RFC 3550 §6.1) into
// its constituents without a full decode.
func NextPacket(buf []byte) (int, error) {
	if len(buf) < HeaderLength {
		return 0, errors.Wrapf(errHeaderTooShort, "%d < %d", len(buf), HeaderLength)
	}

	length := uint16(buf[2])<<8 | uint16(buf[3])
	total := (int(length) + 1) * 4
	if len(buf) < total {
		return 0, errors.Wrapf(errPacketTooShort, "%d < %d", len(buf), total)
	}

	return total, nil
}
