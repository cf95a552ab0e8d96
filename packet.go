package rtp

import "fmt"

// Packet is an RTP packet: a Header plus an opaque Payload. The Payload is
// exclusively owned by the Packet; Unmarshal copies it out of the source
// buffer rather than aliasing it.
type Packet struct {
	Header
	Payload []byte
}

// MarshalSize returns the number of bytes Marshal/MarshalTo will produce.
func (p Packet) MarshalSize() int {
	return p.Header.MarshalSize() + len(p.Payload)
}

// Marshal serializes the header and payload into a freshly allocated
// buffer.
func (p Packet) Marshal() ([]byte, error) {
	buf := make([]byte, p.MarshalSize())
	n, err := p.MarshalTo(buf)
	if err != nil {
		return nil, err
	}

	return buf[:n], nil
}

// MarshalTo serializes the packet into buf.
func (p Packet) MarshalTo(buf []byte) (int, error) {
	n, err := p.Header.MarshalTo(buf)
	if err != nil {
		return 0, err
	}

	end := n + len(p.Payload)
	if end > len(buf) {
		return 0, fmt.Errorf("%w: %d < %d", errTooSmall, len(buf), end)
	}
	copy(buf[n:end], p.Payload)

	return end, nil
}

// Unmarshal parses buf into p. The header is parsed first; any bytes
// remaining after the header become the payload, copied into a
// freshly-owned slice.
func (p *Packet) Unmarshal(buf []byte) error {
	n, err := p.Header.Unmarshal(buf)
	if err != nil {
		return err
	}

	if len(buf) < n {
		return fmt.Errorf("%w: %d < %d", errTooSmall, len(buf), n)
	}

	p.Payload = append([]byte(nil), buf[n:]...)

	return nil
}

// SetPayload assigns the packet's payload, refusing to overwrite any
// existing non-nil one (an empty non-nil slice counts as set). Callers
// must set Payload to nil first.
func (p *Packet) SetPayload(payload []byte) error {
	if p.Payload != nil {
		Logger.Warnf("rtp: rejected payload overwrite, %d bytes already set", len(p.Payload))

		return errPayloadAlreadySet
	}

	p.Payload = append([]byte(nil), payload...)

	return nil
}

// Clone returns a deep copy of p.
func (p Packet) Clone() *Packet {
	clone := &Packet{Header: p.Header.Clone()}
	if p.Payload != nil {
		clone.Payload = append([]byte(nil), p.Payload...)
	}

	return clone
}

// String renders the packet for debugging.
func (p Packet) String() string {
	out := "RTP PACKET:\n"
	out += fmt.Sprintf("\tVersion: %v\n", p.Version)
	out += fmt.Sprintf("\tMarker: %v\n", p.Marker)
	out += fmt.Sprintf("\tPayload Type: %d\n", p.PayloadType)
	out += fmt.Sprintf("\tSequence Number: %d\n", p.SequenceNumber)
	out += fmt.Sprintf("\tTimestamp: %d\n", p.Timestamp)
	out += fmt.Sprintf("\tSSRC: %d (%x)\n", p.SSRC, p.SSRC)
	out += fmt.Sprintf("\tPayload Length: %d\n", len(p.Payload))

	return out
}
