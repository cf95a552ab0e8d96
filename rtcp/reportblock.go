package rtcp

import (
	"github.com/flowmedia/rtpcore/internal/wire"
	"github.com/pkg/errors"
)

// ReportBlockLength is the fixed size of a reception report block on the
// wire (RFC 3550 §6.4.1).
const ReportBlockLength = 24

// ReportBlock is a single SR/RR reception report (RFC 3550 §6.4.1).
type ReportBlock struct {
	SSRC uint32
	// Fraction is the loss fraction over the last reporting interval,
	// stored in its 8-bit fixed-point wire encoding (floor(256*p)). Use
	// SetFraction/GetFraction for the float convenience form.
	Fraction    uint8
	Lost        int32 // signed 24-bit on the wire: [-8388608, 8388607]
	HighestSeq  uint32
	Jitter      uint32
	LastSR      uint32
	DelayLastSR uint32
}

// SetFraction stores p (a fraction in [0,1]) as floor(256*p), clamped to
// 0xFF. Values outside [0,1] are a precondition violation.
func (r *ReportBlock) SetFraction(p float64) error {
	if p < 0 || p > 1 {
		return errors.Wrapf(errFractionOutOfRange, "p=%v", p)
	}

	v := int(p * 256)
	if v > 0xff {
		v = 0xff
	}
	r.Fraction = uint8(v)

	return nil
}

// GetFraction returns the loss fraction as a float in [0,1).
func (r ReportBlock) GetFraction() float64 {
	return float64(r.Fraction) / 256.0
}

// Marshal encodes the report block into a freshly allocated 24-byte
// buffer.
func (r ReportBlock) Marshal() ([]byte, error) {
	buf := make([]byte, ReportBlockLength)
	if _, err := r.MarshalTo(buf); err != nil {
		return nil, err
	}

	return buf, nil
}

// MarshalTo encodes the report block into buf, which must be at least
// ReportBlockLength bytes.
func (r ReportBlock) MarshalTo(buf []byte) (int, error) {
	if len(buf) < ReportBlockLength {
		return 0, errors.Wrapf(errPacketTooShort, "%d < %d", len(buf), ReportBlockLength)
	}

	wire.PutUint32(buf[0:], r.SSRC)
	buf[4] = r.Fraction
	wire.PutInt24(buf[5:], r.Lost)
	wire.PutUint32(buf[8:], r.HighestSeq)
	wire.PutUint32(buf[12:], r.Jitter)
	wire.PutUint32(buf[16:], r.LastSR)
	wire.PutUint32(buf[20:], r.DelayLastSR)

	return ReportBlockLength, nil
}

// Unmarshal decodes a report block from buf, which must be at least
// ReportBlockLength bytes.
func (r *ReportBlock) Unmarshal(buf []byte) error {
	if len(buf) < ReportBlockLength {
		return errors.Wrapf(errPacketTooShort, "%d < %d", len(buf), ReportBlockLength)
	}

	r.SSRC = wire.Uint32(buf[0:])
	r.Fraction = buf[4]
	r.Lost = wire.Int24(buf[5:])
	r.HighestSeq = wire.Uint32(buf[8:])
	r.Jitter = wire.Uint32(buf[12:])
	r.LastSR = wire.Uint32(buf[16:])
	r.DelayLastSR = wire.Uint32(buf[20:])

	return nil
}
