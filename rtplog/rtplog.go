// Package rtplog defines the minimal leveled-logging contract used by
// the rtp and rtcp packages for side-channel diagnostics on rejected
// mutations. It mirrors the LeveledLogger shape
// from github.com/pion/logging so callers already wiring a pion-style
// logger factory through their stack can reuse it here without an adapter.
//
// No log call ever affects control flow: every exported operation in this
// module returns its result through ordinary return values. OrNop turns a
// nil LeveledLogger into a NopLogger.
package rtplog

// LeveledLogger is satisfied by github.com/pion/logging.LeveledLogger.
type LeveledLogger interface {
	Trace(msg string)
	Tracef(format string, args ...interface{})
	Debug(msg string)
	Debugf(format string, args ...interface{})
	Warn(msg string)
	Warnf(format string, args ...interface{})
	Error(msg string)
	Errorf(format string, args ...interface{})
}

// NopLogger discards everything. It is the zero-value-safe default used
// whenever a caller does not supply a LeveledLogger.
type NopLogger struct{}

func (NopLogger) Trace(string)                    {}
func (NopLogger) Tracef(string, ...interface{})   {}
func (NopLogger) Debug(string)                    {}
func (NopLogger) Debugf(string, ...interface{})   {}
func (NopLogger) Warn(string)                     {}
func (NopLogger) Warnf(string, ...interface{})    {}
func (NopLogger) Error(string)                    {}
func (NopLogger) Errorf(string, ...interface{})   {}

// OrNop returns l unchanged when non-nil, else a NopLogger. Use this at the
// top of any method that accepts an optional *LeveledLogger field so the
// rest of the method can call the logger unconditionally.
func OrNop(l LeveledLogger) LeveledLogger {
	if l == nil {
		return NopLogger{}
	}

	return l
}
