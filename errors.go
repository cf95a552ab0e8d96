package rtp

import (
	"errors"

	"github.com/flowmedia/rtpcore/rtplog"
)

// Sentinel errors returned by Header/Packet Marshal and Unmarshal. Wrapped
// with fmt.Errorf("%w: ...", sentinel) where extra context (sizes, ids)
// helps debugging.
var (
	errHeaderSizeInsufficient             = errors.New("rtp: header size insufficient")
	errHeaderSizeInsufficientForExtension = errors.New("rtp: header size insufficient for extension")
	errTooSmall                           = errors.New("rtp: buffer too small")
	errInvalidPadding                     = errors.New("rtp: invalid padding")
	errCSRCDuplicate                      = errors.New("rtp: csrc already present")
	errCSRCCapacity                       = errors.New("rtp: csrc list full")
	errExtensionAlreadySet                = errors.New("rtp: extension already set, clear first")
	errExtensionWordCountTooLarge         = errors.New("rtp: extension word count exceeds 16 bits")
	errPayloadAlreadySet                  = errors.New("rtp: payload already set, clear first")
)

// Logger receives Warn-level lines when a mutation is rejected (duplicate
// CSRC, CSRC list full, payload already set). It defaults to a no-op
// logger; call sites use it without a nil check, so it must hold a
// non-nil value. Assign it once at program start if diagnostics are wanted.
var Logger rtplog.LeveledLogger = rtplog.NopLogger{}
