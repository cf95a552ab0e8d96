package rtcp

import (
	"github.com/flowmedia/rtpcore/internal/wire"
	"github.com/pkg/errors"
)

// appFixedLength is the header (4) + SSRC (4) + name (4).
const appFixedLength = 12

// Application is an RTCP APP packet (RFC 3550 §6.7): an application-defined
// extension carrying an arbitrary, application-interpreted payload.
type Application struct {
	SSRC uint32
	// Name is a four-character ASCII identifier chosen by the application,
	// packed big-endian the same as any other 32-bit field.
	Name uint32
	Data []byte
}

// Size returns the number of bytes Marshal will produce: the 12-byte fixed
// part plus Data rounded up to the next 4-byte multiple.
func (a Application) Size() int {
	size := appFixedLength + len(a.Data)
	if rem := size % 4; rem != 0 {
		size += 4 - rem
	}

	return size
}

func (a Application) header(subtype uint8) Header {
	return Header{
		Version: 2,
		Count:   subtype,
		Type:    TypeApplicationDefined,
		Length:  uint16(a.Size()/4 - 1),
	}
}

// Marshal encodes the packet with the given 5-bit subtype.
func (a Application) Marshal(subtype uint8) ([]byte, error) {
	if subtype > MaxCount {
		return nil, errors.Wrapf(errTooManyReports, "subtype %d", subtype)
	}

	buf := make([]byte, a.Size())
	hdr, err := a.header(subtype).Marshal()
	if err != nil {
		return nil, err
	}
	copy(buf, hdr)

	wire.PutUint32(buf[4:], a.SSRC)
	wire.PutUint32(buf[8:], a.Name)
	copy(buf[appFixedLength:], a.Data)

	return buf, nil
}

// Unmarshal decodes an APP packet from buf, returning the subtype carried
// in the header.
func (a *Application) Unmarshal(buf []byte) (uint8, error) {
	var hdr Header
	pt, err := hdr.Unmarshal(buf)
	if err != nil {
		return 0, err
	}
	if pt != TypeApplicationDefined {
		return 0, errors.Wrapf(errWrongPacketType, "got %s", pt)
	}

	if len(buf) < appFixedLength {
		return 0, errors.Wrapf(errPacketTooShort, "%d < %d", len(buf), appFixedLength)
	}

	total := (int(hdr.Length) + 1) * 4
	if total < appFixedLength {
		return 0, errors.Wrapf(errPacketTooShort, "declared length %d shorter than fixed part", total)
	}
	if len(buf) < total {
		return 0, errors.Wrapf(errPacketTooShort, "%d < %d", len(buf), total)
	}

	a.SSRC = wire.Uint32(buf[4:])
	a.Name = wire.Uint32(buf[8:])

	a.Data = nil
	if total > appFixedLength {
		a.Data = append([]byte(nil), buf[appFixedLength:total]...)
	}

	return hdr.Count, nil
}

// SetData sets the application payload, refusing to overwrite existing
// data.
func (a *Application) SetData(data []byte) error {
	if a.Data != nil {
		Logger.Warnf("rtcp: rejected app data overwrite, %d bytes already set", len(a.Data))

		return errDataAlreadySet
	}

	a.Data = append([]byte(nil), data...)

	return nil
}

// ClearData removes the application payload, if any.
func (a *Application) ClearData() {
	a.Data = nil
}
