// Package rtp implements the wire-level encoding and decoding of RTP data
// packets (RFC 3550 §5). It is the CORE of a larger RTP/RTCP stack:
// network I/O, payload codecs, and session orchestration live outside this
// module and are expected to drive it.
package rtp

import (
	"fmt"

	"github.com/flowmedia/rtpcore/internal/wire"
	"github.com/flowmedia/rtpcore/rtprand"
)

const (
	headerFixedSize = 12

	versionShift = 6
	versionMask  = 0x3
	paddingShift = 5
	paddingMask  = 0x1
	extShift     = 4
	extMask      = 0x1

	// csrcCountMask truncates the on-wire CC field to 3 bits instead of
	// the 4 the wire format reserves. This mirrors a discrepancy present
	// in the reference implementation this package is modeled on: its
	// serializer and parser both mask the CSRC count with `& 7`. RFC 3550
	// allows up to 15 contributing sources; with this mask only the
	// first len(CSRC)&7 entries are placed on the wire (9 entries put 1
	// on the wire, 8 entries put none). Header.CSRC may still hold up
	// to MaxCSRC entries in memory (see AddCSRC); only the wire
	// representation is capped.
	csrcCountMask = 0x7

	markerShift = 7
	markerMask  = 0x1
	ptMask      = 0x7f

	seqOffset  = 2
	tsOffset   = 4
	ssrcOffset = 8
	csrcOffset = 12

	csrcEntrySize = 4

	// MaxCSRC is the largest number of contributing sources AddCSRC will
	// accept, matching the reference implementation's 8-bit in-memory
	// counter cap (it predates any wire-width consideration).
	MaxCSRC = 255
)

// HeaderExtension is the RTP profile-defined header extension (RFC 3550
// §5.3.1): a 16-bit profile-specific identifier followed by a 16-bit word
// count and that many 32-bit words. The core treats the contents as opaque;
// interpreting specific extension profiles (e.g. RFC 8285 one-/two-byte
// extensions) is outside this module's scope.
type HeaderExtension struct {
	ID    uint16
	Words []uint32
}

// clone returns a deep copy of e, or nil if e is nil.
func (e *HeaderExtension) clone() *HeaderExtension {
	if e == nil {
		return nil
	}
	out := &HeaderExtension{ID: e.ID}
	if e.Words != nil {
		out.Words = append([]uint32(nil), e.Words...)
	}

	return out
}

// Header represents the fixed and optional portions of an RTP packet
// header (RFC 3550 §5.1).
//
//	0                   1                   2                   3
//	0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1
//	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
//	|V=2|P|X|  CC   |M|     PT      |       sequence number        |
//	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
//	|                           timestamp                          |
//	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
//	|           synchronization source (SSRC) identifier           |
//	+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+
//	|            contributing source (CSRC) identifiers            |
//	|                             ....                              |
//	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
type Header struct {
	Version        uint8
	Padding        bool
	Marker         bool
	PayloadType    uint8
	SequenceNumber uint16
	Timestamp      uint32
	SSRC           uint32
	CSRC           []uint32
	Extension      *HeaderExtension
}

// Init sets PayloadType to pt, seeds SequenceNumber, Timestamp and SSRC
// using values drawn from rng, and sets Version to 2. Existing
// CSRC/Extension data is left untouched.
func (h *Header) Init(pt uint8, rng rtprand.Source) {
	h.Version = 2
	h.PayloadType = pt
	h.SequenceNumber = uint16(rng.Uint32())
	h.Timestamp = rng.Uint32()
	h.SSRC = rng.Uint32()
}

// wireCSRCCount is the number of CSRC entries that actually make it onto
// the wire given the 3-bit truncation documented on csrcCountMask.
func (h Header) wireCSRCCount() int {
	n := len(h.CSRC) & csrcCountMask

	return n
}

// MarshalSize returns the number of bytes Marshal/MarshalTo will produce.
func (h Header) MarshalSize() int {
	size := headerFixedSize + h.wireCSRCCount()*csrcEntrySize
	if h.Extension != nil {
		size += 4 + 4*len(h.Extension.Words)
	}

	return size
}

// Marshal serializes the header into a freshly allocated buffer.
func (h Header) Marshal() ([]byte, error) {
	buf := make([]byte, h.MarshalSize())
	n, err := h.MarshalTo(buf)
	if err != nil {
		return nil, err
	}

	return buf[:n], nil
}

// MarshalTo serializes the header into buf, which must be at least
// MarshalSize() bytes. It clears buf[:MarshalSize()] before writing, per
// the reference implementation's behavior of zeroing the destination
// before filling in fields.
func (h Header) MarshalTo(buf []byte) (int, error) {
	size := h.MarshalSize()
	if len(buf) < size {
		return 0, fmt.Errorf("%w: %d < %d", errTooSmall, len(buf), size)
	}

	for i := 0; i < size; i++ {
		buf[i] = 0
	}

	buf[0] = h.Version << versionShift
	if h.Padding {
		buf[0] |= 1 << paddingShift
	}
	if h.Extension != nil {
		buf[0] |= 1 << extShift
	}
	buf[0] |= uint8(h.wireCSRCCount()) & csrcCountMask

	buf[1] = h.PayloadType & ptMask
	if h.Marker {
		buf[1] |= 1 << markerShift
	}

	wire.PutUint16(buf[seqOffset:], h.SequenceNumber)
	wire.PutUint32(buf[tsOffset:], h.Timestamp)
	wire.PutUint32(buf[ssrcOffset:], h.SSRC)

	n := csrcOffset
	for i := 0; i < h.wireCSRCCount(); i++ {
		wire.PutUint32(buf[n:], h.CSRC[i])
		n += csrcEntrySize
	}

	if h.Extension != nil {
		if len(h.Extension.Words) > 0xffff {
			return 0, fmt.Errorf("%w: %d", errExtensionWordCountTooLarge, len(h.Extension.Words))
		}
		wire.PutUint16(buf[n:], h.Extension.ID)
		wire.PutUint16(buf[n+2:], uint16(len(h.Extension.Words)))
		n += 4
		for _, w := range h.Extension.Words {
			wire.PutUint32(buf[n:], w)
			n += 4
		}
	}

	return n, nil
}

// Unmarshal parses buf into h, returning the number of bytes consumed.
func (h *Header) Unmarshal(buf []byte) (int, error) {
	if len(buf) < headerFixedSize {
		return 0, fmt.Errorf("%w: %d < %d", errHeaderSizeInsufficient, len(buf), headerFixedSize)
	}

	h.Version = buf[0] >> versionShift & versionMask
	h.Padding = (buf[0] >> paddingShift & paddingMask) > 0
	hasExtension := (buf[0] >> extShift & extMask) > 0
	cc := int(buf[0] & csrcCountMask)

	h.Marker = (buf[1] >> markerShift & markerMask) > 0
	h.PayloadType = buf[1] & ptMask

	if h.Version != 2 || h.PayloadType == 0 {
		return 0, fmt.Errorf("%w: version=%d pt=%d", errHeaderSizeInsufficient, h.Version, h.PayloadType)
	}

	n := csrcOffset + cc*csrcEntrySize
	if len(buf) < n {
		return n, fmt.Errorf("%w: %d < %d", errHeaderSizeInsufficient, len(buf), n)
	}

	h.SequenceNumber = wire.Uint16(buf[seqOffset:])
	h.Timestamp = wire.Uint32(buf[tsOffset:])
	h.SSRC = wire.Uint32(buf[ssrcOffset:])

	if cc > 0 {
		h.CSRC = make([]uint32, cc)
		for i := 0; i < cc; i++ {
			h.CSRC[i] = wire.Uint32(buf[csrcOffset+i*csrcEntrySize:])
		}
	} else {
		h.CSRC = nil
	}

	h.Extension = nil
	if hasExtension {
		if len(buf) < n+4 {
			return n, fmt.Errorf("%w: %d < %d", errHeaderSizeInsufficientForExtension, len(buf), n+4)
		}
		id := wire.Uint16(buf[n:])
		count := int(wire.Uint16(buf[n+2:]))
		n += 4

		end := n + count*4
		if len(buf) < end {
			return n, fmt.Errorf("%w: %d < %d", errHeaderSizeInsufficientForExtension, len(buf), end)
		}

		words := make([]uint32, count)
		for i := 0; i < count; i++ {
			words[i] = wire.Uint32(buf[n+i*4:])
		}
		h.Extension = &HeaderExtension{ID: id, Words: words}
		n = end
	}

	return n, nil
}

// Clone returns a deep copy of h; CSRC and Extension data are not shared
// with the original.
func (h Header) Clone() Header {
	clone := h
	if h.CSRC != nil {
		clone.CSRC = append([]uint32(nil), h.CSRC...)
	}
	clone.Extension = h.Extension.clone()

	return clone
}

// FindCSRC returns the index of csrc in h.CSRC, or -1 if not present.
func (h *Header) FindCSRC(csrc uint32) int {
	for i, v := range h.CSRC {
		if v == csrc {
			return i
		}
	}

	return -1
}

// AddCSRC appends csrc to the CSRC list. It rejects a duplicate value and
// refuses to grow the list past MaxCSRC entries, matching the reference
// implementation's in-memory cap. Note that only the first len(CSRC)&7
// entries are placed on the wire; see csrcCountMask.
func (h *Header) AddCSRC(csrc uint32) error {
	if h.FindCSRC(csrc) != -1 {
		Logger.Warnf("rtp: rejected duplicate csrc %d", csrc)

		return fmt.Errorf("%w: %d", errCSRCDuplicate, csrc)
	}
	if len(h.CSRC) >= MaxCSRC {
		Logger.Warnf("rtp: csrc list full at %d entries", MaxCSRC)

		return fmt.Errorf("%w: max %d", errCSRCCapacity, MaxCSRC)
	}

	h.CSRC = append(h.CSRC, csrc)

	return nil
}

// RemoveCSRC removes csrc from the list if present, preserving the
// insertion order of the remaining entries. Removing an absent value is a
// no-op that returns nil.
func (h *Header) RemoveCSRC(csrc uint32) error {
	idx := h.FindCSRC(csrc)
	if idx == -1 {
		return nil
	}

	h.CSRC = append(h.CSRC[:idx], h.CSRC[idx+1:]...)

	return nil
}

// SetExtension replaces any existing profile extension with one carrying
// id and a copy of words.
func (h *Header) SetExtension(id uint16, words []uint32) {
	h.Extension = &HeaderExtension{ID: id, Words: append([]uint32(nil), words...)}
}

// ClearExtension removes the profile extension, if any.
func (h *Header) ClearExtension() {
	h.Extension = nil
}
