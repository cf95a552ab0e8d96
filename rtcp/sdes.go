package rtcp

import (
	"github.com/flowmedia/rtpcore/internal/wire"
	"github.com/pkg/errors"
)

// SDESType identifies the kind of text carried by an SDESItem (RFC 3550
// §6.5).
type SDESType uint8

const (
	SDESEnd   SDESType = 0
	SDESCNAME SDESType = 1
	SDESName  SDESType = 2
	SDESEmail SDESType = 3
	SDESPhone SDESType = 4
	SDESLoc   SDESType = 5
	SDESTool  SDESType = 6
	SDESNote  SDESType = 7
	SDESPriv  SDESType = 8
)

// SDESItem is a single {type, data} entry within a chunk. Data must fit in
// a byte (255-byte max per RFC 3550 §6.5).
type SDESItem struct {
	Type SDESType
	Data []byte
}

func (it SDESItem) size() int {
	return 2 + len(it.Data)
}

// SDESChunk carries the zero or more SDES items describing a single
// source, keyed by SSRC/CSRC. At most one item per type is permitted.
type SDESChunk struct {
	Source uint32
	Items  []SDESItem
}

func (c SDESChunk) findItem(t SDESType) int {
	for i := range c.Items {
		if c.Items[i].Type == t {
			return i
		}
	}

	return -1
}

// rawSize is the chunk's size before the terminating null byte and
// alignment padding are added: 4 (source) plus 2+len(data) per item.
func (c SDESChunk) rawSize() int {
	size := 4
	for _, it := range c.Items {
		size += it.size()
	}

	return size
}

// size is the chunk's size on the wire, rounded up to the next 4-byte
// boundary past rawSize. The rounding always consumes between 1 and 4
// bytes beyond rawSize, which is what guarantees a null terminator byte
// is always present even when the items alone are already word-aligned.
func (c SDESChunk) size() int {
	raw := c.rawSize()
	pad := 4 - raw%4
	if pad == 0 {
		pad = 4
	}

	return raw + pad
}

func (c SDESChunk) marshalTo(buf []byte) (int, error) {
	total := c.size()
	if len(buf) < total {
		return 0, errors.Wrapf(errPacketTooShort, "%d < %d", len(buf), total)
	}

	wire.PutUint32(buf, c.Source)
	offset := 4
	for _, it := range c.Items {
		buf[offset] = uint8(it.Type)
		buf[offset+1] = uint8(len(it.Data))
		copy(buf[offset+2:], it.Data)
		offset += it.size()
	}

	for offset < total {
		buf[offset] = 0
		offset++
	}

	return total, nil
}

func (c *SDESChunk) unmarshal(buf []byte) (int, error) {
	if len(buf) < 4 {
		return 0, errors.Wrapf(errPacketTooShort, "%d < 4", len(buf))
	}

	c.Source = wire.Uint32(buf)
	c.Items = nil

	offset := 4
	for {
		if offset >= len(buf) {
			return 0, errors.Wrap(errPacketTooShort, "sdes chunk missing terminator")
		}

		t := buf[offset]
		if t == 0 {
			offset++
			break
		}

		if offset+1 >= len(buf) {
			return 0, errors.Wrap(errPacketTooShort, "sdes item header truncated")
		}
		length := int(buf[offset+1])
		if offset+2+length > len(buf) {
			return 0, errors.Wrap(errPacketTooShort, "sdes item data truncated")
		}

		typ := SDESType(t)
		if idx := c.findItem(typ); idx >= 0 {
			Logger.Warnf("rtcp: rejected duplicate sdes item type=%d", typ)

			return 0, errors.Wrapf(errDuplicateItem, "type %d", typ)
		}

		c.Items = append(c.Items, SDESItem{
			Type: typ,
			Data: append([]byte(nil), buf[offset+2:offset+2+length]...),
		})
		offset += 2 + length
	}

	// Round up to the next 4-byte boundary, as the encoder always does.
	if rem := offset % 4; rem != 0 {
		offset += 4 - rem
	}
	if offset > len(buf) {
		return 0, errors.Wrap(errPacketTooShort, "sdes chunk padding truncated")
	}

	return offset, nil
}

// SourceDescription is an RTCP SDES packet (RFC 3550 §6.5): textual
// descriptions of the sources contributing to a session, organized as one
// chunk per source.
type SourceDescription struct {
	Chunks []SDESChunk
}

// Size returns the number of bytes Marshal will produce.
func (s SourceDescription) Size() int {
	size := HeaderLength
	for _, c := range s.Chunks {
		size += c.size()
	}

	return size
}

func (s SourceDescription) header() Header {
	return Header{
		Version: 2,
		Count:   uint8(len(s.Chunks)),
		Type:    TypeSourceDescription,
		Length:  uint16(s.Size()/4 - 1),
	}
}

// Marshal encodes the packet.
func (s SourceDescription) Marshal() ([]byte, error) {
	if len(s.Chunks) > MaxCount {
		return nil, errors.Wrapf(errTooManyChunks, "%d chunks", len(s.Chunks))
	}

	buf := make([]byte, s.Size())
	hdr, err := s.header().Marshal()
	if err != nil {
		return nil, err
	}
	copy(buf, hdr)

	offset := HeaderLength
	for i := range s.Chunks {
		n, err := s.Chunks[i].marshalTo(buf[offset:])
		if err != nil {
			return nil, err
		}
		offset += n
	}

	return buf, nil
}

// Unmarshal decodes an SDES packet from buf.
func (s *SourceDescription) Unmarshal(buf []byte) error {
	var hdr Header
	pt, err := hdr.Unmarshal(buf)
	if err != nil {
		return err
	}
	if pt != TypeSourceDescription {
		return errors.Wrapf(errWrongPacketType, "got %s", pt)
	}

	total := (int(hdr.Length) + 1) * 4
	if len(buf) < total {
		return errors.Wrapf(errPacketTooShort, "%d < %d", len(buf), total)
	}

	s.Chunks = nil
	offset := HeaderLength
	for i := 0; i < int(hdr.Count); i++ {
		var c SDESChunk
		n, err := c.unmarshal(buf[offset:total])
		if err != nil {
			return err
		}
		s.Chunks = append(s.Chunks, c)
		offset += n
	}

	return nil
}

// FindChunk returns a pointer to the chunk for source, or nil.
func (s *SourceDescription) FindChunk(source uint32) *SDESChunk {
	for i := range s.Chunks {
		if s.Chunks[i].Source == source {
			return &s.Chunks[i]
		}
	}

	return nil
}

// AddChunk appends an empty chunk for source, refusing a duplicate source
// and capping the chunk count at 31.
func (s *SourceDescription) AddChunk(source uint32) (*SDESChunk, error) {
	if s.FindChunk(source) != nil {
		Logger.Warnf("rtcp: rejected duplicate sdes chunk source=%d", source)

		return nil, errors.Wrapf(errDuplicateReport, "source=%d", source)
	}
	if len(s.Chunks) >= MaxCount {
		Logger.Warnf("rtcp: sdes chunk list full at %d entries", MaxCount)

		return nil, errors.Wrapf(errTooManyChunks, "max %d", MaxCount)
	}

	s.Chunks = append(s.Chunks, SDESChunk{Source: source})

	return &s.Chunks[len(s.Chunks)-1], nil
}

// RemoveChunk removes the chunk for source, if any.
func (s *SourceDescription) RemoveChunk(source uint32) {
	for i := range s.Chunks {
		if s.Chunks[i].Source == source {
			s.Chunks = append(s.Chunks[:i], s.Chunks[i+1:]...)

			return
		}
	}
}

// GetItem returns the data for the item of type t in source's chunk, and
// whether it was found.
func (s *SourceDescription) GetItem(source uint32, t SDESType) ([]byte, bool) {
	c := s.FindChunk(source)
	if c == nil {
		return nil, false
	}

	idx := c.findItem(t)
	if idx < 0 {
		return nil, false
	}

	return c.Items[idx].Data, true
}

// SetItem replaces the item of type t in source's chunk with data,
// creating the item if absent. The chunk must already exist.
func (s *SourceDescription) SetItem(source uint32, t SDESType, data []byte) error {
	if t == SDESEnd {
		return errors.Wrap(errUnknownPacketType, "cannot set the SDES end marker as an item")
	}

	c := s.FindChunk(source)
	if c == nil {
		return errors.Wrapf(errWrongPacketType, "no chunk for source=%d", source)
	}

	cp := append([]byte(nil), data...)
	if idx := c.findItem(t); idx >= 0 {
		c.Items[idx].Data = cp

		return nil
	}

	c.Items = append(c.Items, SDESItem{Type: t, Data: cp})

	return nil
}

// ClearItem removes the item of type t from source's chunk, if present.
func (s *SourceDescription) ClearItem(source uint32, t SDESType) error {
	if t == SDESEnd {
		return errors.Wrap(errUnknownPacketType, "cannot clear the SDES end marker")
	}

	c := s.FindChunk(source)
	if c == nil {
		return nil
	}

	if idx := c.findItem(t); idx >= 0 {
		c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
	}

	return nil
}
