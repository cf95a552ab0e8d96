package rtcp

import (
	"github.com/flowmedia/rtpcore/internal/wire"
	"github.com/pkg/errors"
)

// nackFCILength is the size of a single NACK FCI entry: PID (16 bits) plus
// BLP bitmask (16 bits) (RFC 4585 §6.2.1).
const nackFCILength = 4

// SetNACK encodes a single transport-layer NACK entry as the packet's FCI:
// pid is the sequence number of the first lost packet, and blp is a
// bitmask where bit i (0-indexed) set means pid+i+1 is also lost.
func (f *Feedback) SetNACK(pid, blp uint16) error {
	buf := make([]byte, nackFCILength)
	wire.PutUint16(buf, pid)
	wire.PutUint16(buf[2:], blp)

	return f.SetFCI(buf)
}

// NACK decodes the packet's FCI as a single NACK entry.
func (f Feedback) NACK() (pid, blp uint16, err error) {
	if len(f.FCI) < nackFCILength {
		return 0, 0, errors.Wrapf(errPacketTooShort, "fci %d < %d", len(f.FCI), nackFCILength)
	}

	return wire.Uint16(f.FCI), wire.Uint16(f.FCI[2:]), nil
}
