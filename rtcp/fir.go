package rtcp

import (
	"github.com/flowmedia/rtpcore/internal/wire"
	"github.com/pkg/errors"
)

// firItemLength is the size of a single FIR item: SSRC (4) + sequence
// number (1) + reserved (3, 24 bits) (RFC 4585 §6.3.3.2).
const firItemLength = 8

// FIRItem identifies one source targeted by a Full Intra Request.
type FIRItem struct {
	SSRC           uint32
	SequenceNumber uint8
	Reserved       uint32 // 24 bits on the wire
}

// SetFIRItems encodes items as the packet's FCI. Like SetFCI it refuses to
// overwrite, so this fails with errDataAlreadySet if FCI is already set.
func (f *Feedback) SetFIRItems(items []FIRItem) error {
	buf := make([]byte, len(items)*firItemLength)
	for i, it := range items {
		pos := i * firItemLength
		wire.PutUint32(buf[pos:], it.SSRC)
		buf[pos+4] = it.SequenceNumber
		wire.PutUint24(buf[pos+5:], it.Reserved)
	}

	return f.SetFCI(buf)
}

// FIRItemCount returns the number of FIR items encoded in the packet's
// FCI, rejecting an FCI whose length is not a whole multiple of
// firItemLength.
func (f Feedback) FIRItemCount() (int, error) {
	if len(f.FCI)%firItemLength != 0 {
		return 0, errors.Wrapf(errOddFIRLength, "fci size=%d", len(f.FCI))
	}

	return len(f.FCI) / firItemLength, nil
}

// FIRItemAt returns the FIR item at idx.
func (f Feedback) FIRItemAt(idx int) (FIRItem, error) {
	count, err := f.FIRItemCount()
	if err != nil {
		return FIRItem{}, err
	}
	if idx < 0 || idx >= count {
		return FIRItem{}, errors.Wrapf(errPacketTooShort, "index %d out of range [0,%d)", idx, count)
	}

	pos := idx * firItemLength
	return FIRItem{
		SSRC:           wire.Uint32(f.FCI[pos:]),
		SequenceNumber: f.FCI[pos+4],
		Reserved:       wire.Uint24(f.FCI[pos+5:]),
	}, nil
}

// FindFIRItem returns the FIR item addressing ssrc, and whether it was
// found.
func (f Feedback) FindFIRItem(ssrc uint32) (FIRItem, bool, error) {
	count, err := f.FIRItemCount()
	if err != nil {
		return FIRItem{}, false, err
	}

	for i := 0; i < count; i++ {
		item, err := f.FIRItemAt(i)
		if err != nil {
			return FIRItem{}, false, err
		}
		if item.SSRC == ssrc {
			return item, true, nil
		}
	}

	return FIRItem{}, false, nil
}
