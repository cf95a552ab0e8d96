// Package rtprand provides the RNG abstraction consumed by the RTCP
// transmission-interval calculator and by Header.Init. The core never reads
// a process-wide random source directly; every caller of a randomized
// operation supplies a Source explicitly, so tests can inject a
// deterministic one.
package rtprand

import "github.com/pion/randutil"

// Source produces the random values the core needs: a uniform float in
// [0,1) for the RTCP interval jitter term, and 32-bit integers for seeding
// sequence numbers, timestamps and SSRCs on Header.Init.
type Source interface {
	Float64() float64
	Uint32() uint32
}

// mathSource wraps pion/randutil's non-cryptographic generator. It is not
// suitable for anything security sensitive, which matches RTP's own
// requirement (RFC 3550 only asks for unpredictability against accidental
// collision, not an adversary).
type mathSource struct {
	gen randutil.MathRandomGenerator
}

// NewMathSource returns a Source backed by pion/randutil's math/rand
// generator. This is the default used by examples and tests that don't
// need determinism.
func NewMathSource() Source {
	return &mathSource{gen: randutil.NewMathRandomGenerator()}
}

func (s *mathSource) Float64() float64 {
	return s.gen.Float64()
}

func (s *mathSource) Uint32() uint32 {
	return s.gen.Uint32()
}

// Fixed returns a deterministic Source useful for tests: Float64 always
// returns f, Uint32 always returns u.
func Fixed(f float64, u uint32) Source {
	return fixedSource{f: f, u: u}
}

type fixedSource struct {
	f float64
	u uint32
}

func (s fixedSource) Float64() float64 { return s.f }
func (s fixedSource) Uint32() uint32   { return s.u }
