package rtcp

import (
	"github.com/flowmedia/rtpcore/internal/wire"
	"github.com/pkg/errors"
)

// PacketType identifies the kind of RTCP packet a Header describes.
type PacketType uint8

// RTCP packet types registered with IANA (RFC 3550 §12.1, RFC 4585 §6).
const (
	TypeSenderReport              PacketType = 200
	TypeReceiverReport            PacketType = 201
	TypeSourceDescription         PacketType = 202
	TypeGoodbye                   PacketType = 203
	TypeApplicationDefined        PacketType = 204
	TypeTransportSpecificFeedback PacketType = 205
	TypePayloadSpecificFeedback   PacketType = 206
)

func (t PacketType) String() string {
	switch t {
	case TypeSenderReport:
		return "SR"
	case TypeReceiverReport:
		return "RR"
	case TypeSourceDescription:
		return "SDES"
	case TypeGoodbye:
		return "BYE"
	case TypeApplicationDefined:
		return "APP"
	case TypeTransportSpecificFeedback:
		return "RTPFB"
	case TypePayloadSpecificFeedback:
		return "PSFB"
	default:
		return "unknown"
	}
}

// Well-known FMT/subtype values carried in Header.Count for feedback
// packets (RFC 4585 §6.1, §6.2, §6.3).
const (
	FormatTLN  = 1 // RTPFB NACK (Transport Layer Nack)
	FormatPLI  = 1 // PSFB Picture Loss Indication
	FormatFIR  = 4 // PSFB Full Intra Request
)

const (
	// HeaderLength is the size in bytes of the common RTCP header.
	HeaderLength = 4

	versionShift = 6
	versionMask  = 0x3
	paddingShift = 5
	paddingMask  = 0x1
	countMask    = 0x1f

	// MaxCount is the largest value the 5-bit count/FMT/subtype field can
	// carry on the wire.
	MaxCount = 31
)

// Header is the 4-byte preamble shared by every RTCP packet type.
type Header struct {
	Version uint8
	Padding bool
	// Count carries the report count (SR/RR), source count (SDES), APP
	// subtype, or feedback FMT depending on Type.
	Count uint8
	Type  PacketType
	// Length is the packet length in 32-bit words, minus one, including
	// this header.
	Length uint16
}

// Marshal encodes the header.
func (h Header) Marshal() ([]byte, error) {
	if h.Count > MaxCount {
		return nil, errors.Wrapf(errTooManyReports, "count %d", h.Count)
	}

	buf := make([]byte, HeaderLength)
	buf[0] = (h.Version << versionShift) | h.Count&countMask
	if h.Padding {
		buf[0] |= 1 << paddingShift
	}
	buf[1] = uint8(h.Type)
	wire.PutUint16(buf[2:], h.Length)

	return buf, nil
}

// Unmarshal decodes the header, returning the packet type found so callers
// can dispatch without re-reading buf[1] themselves.
func (h *Header) Unmarshal(buf []byte) (PacketType, error) {
	if len(buf) < HeaderLength {
		return 0, errors.Wrapf(errHeaderTooShort, "%d < %d", len(buf), HeaderLength)
	}

	h.Version = buf[0] >> versionShift & versionMask
	h.Padding = (buf[0] >> paddingShift & paddingMask) > 0
	h.Count = buf[0] & countMask
	h.Type = PacketType(buf[1])
	h.Length = wire.Uint16(buf[2:])

	if h.Version != 2 {
		return h.Type, errors.Wrapf(errInvalidVersion, "got %d", h.Version)
	}

	return h.Type, nil
}
