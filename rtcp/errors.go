// Package rtcp implements the wire-level encoding and decoding of RTCP
// control packets (RFC 3550 §6, RFC 4585 §6): Sender Report, Receiver
// Report, Source Description, Application-defined, and transport/
// payload-specific Feedback messages.
package rtcp

import (
	"github.com/flowmedia/rtpcore/rtplog"
	"github.com/pkg/errors"
)

// Sentinel errors, in the github.com/pkg/errors style used by the
// pion/rtcp-lineage reference code this package is modeled on.
var (
	errHeaderTooShort     = errors.New("rtcp: header too short")
	errInvalidVersion     = errors.New("rtcp: invalid version")
	errWrongPacketType    = errors.New("rtcp: wrong packet type")
	errPacketTooShort     = errors.New("rtcp: packet too short")
	errTooManyReports     = errors.New("rtcp: too many reports, max 31")
	errTooManyChunks      = errors.New("rtcp: too many chunks, max 31")
	errTooManyItems       = errors.New("rtcp: too many items, max 255")
	errDuplicateReport    = errors.New("rtcp: duplicate report SSRC")
	errDuplicateItem      = errors.New("rtcp: duplicate item type in chunk")
	errExtensionNotMult4  = errors.New("rtcp: extension size must be a multiple of 4")
	errExtensionAlreadySet = errors.New("rtcp: extension already set, clear first")
	errDataAlreadySet     = errors.New("rtcp: data already set, clear first")
	errFractionOutOfRange = errors.New("rtcp: fraction lost out of range [0,1]")
	errOddFIRLength       = errors.New("rtcp: FIR length is not a whole number of items")
	errUnknownPacketType  = errors.New("rtcp: unknown packet type")
)

// Logger receives Warn-level lines when a mutation is rejected (duplicate
// report/chunk/item, capacity exceeded, data already set). It defaults to
// a no-op logger; call sites use it without a nil check, so it must hold a
// non-nil value.
var Logger rtplog.LeveledLogger = rtplog.NopLogger{}
