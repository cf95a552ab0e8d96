// Package rtpstats implements the receiver-side per-source state machine
// (RFC 3550 §A.1, §A.3, §A.8): extended sequence number validity, loss
// accounting, and interarrival jitter estimation, plus the deterministic
// RTCP transmission-interval calculator (§A.7).
package rtpstats

import "github.com/flowmedia/rtpcore/internal/wire"

// Tunable validity-check constants (RFC 3550 §A.1). Exported so a program
// can override them at init time for a non-standard deployment, the Go
// analogue of the source's compile-time #define overrides.
var (
	MaxDropout    uint16 = 3000
	MaxMisorder   uint16 = 100
	MinSequential uint32 = 2
)

// SeqMod is one past the largest 16-bit sequence number: the modulus RTP
// sequence number arithmetic wraps at.
const SeqMod = 1 << 16

// SeqResult is the outcome of validating one arriving sequence number
// against RFC 3550 §A.1.
type SeqResult int

const (
	// SeqValid means the packet is valid and Source's state now reflects
	// it.
	SeqValid SeqResult = 0
	// SeqProbation means the source has not yet observed MinSequential
	// consecutive packets; the caller should still process the packet
	// but not yet trust the source's loss/jitter statistics.
	SeqProbation SeqResult = -1
	// SeqInvalid means seq represents an implausible jump; the caller
	// should count it but drop the packet.
	SeqInvalid SeqResult = -2
)

// Source holds the per-SSRC receiver state RFC 3550 §6.4.1 feeds into a
// reception report: validated sequence-number bookkeeping, cumulative and
// interval loss, and the running jitter estimate.
type Source struct {
	ID      uint32
	MaxSeq  uint16
	Cycles  uint32
	BaseSeq uint32
	BadSeq  uint32

	Probation uint32

	Received      uint32
	ExpectedPrior uint32
	ReceivedPrior uint32

	Transit int32
	Jitter  float64

	Fraction uint8
	Lost     int32
}

// NewSource constructs a Source in the initial "awaiting validation" state
// for id starting at seq.
func NewSource(id uint32, seq uint16) *Source {
	s := &Source{}
	s.Init(id, seq)

	return s
}

// Init (re)establishes s as a fresh source, putting it on probation: the
// first MinSequential packets must arrive in strict sequence before
// UpdateSeq starts returning 0.
func (s *Source) Init(id uint32, seq uint16) {
	s.ID = id
	s.BaseSeq = uint32(seq)
	s.MaxSeq = seq - 1
	s.BadSeq = SeqMod + 1 // an impossible sequence number, forces the restart path
	s.Cycles = 0
	s.Received = 0
	s.ReceivedPrior = 0
	s.ExpectedPrior = 0
	s.Probation = MinSequential
	s.Jitter = 0
	s.Transit = 0
	s.Fraction = 0
	s.Lost = 0
}

// ResetSeq discards accumulated cycle/loss bookkeeping and restarts
// tracking from seq, without touching jitter or probation.
func (s *Source) ResetSeq(seq uint16) {
	s.MaxSeq = seq
	s.Cycles = 0
	s.BaseSeq = uint32(seq)
	s.BadSeq = SeqMod + 1
	s.Received = 0
	s.ReceivedPrior = 0
	s.ExpectedPrior = 0
}

// UpdateSeq validates an arriving sequence number against RFC 3550 §A.1.
// It returns 0 when the packet is valid and the source's state has been
// updated to reflect it, -1 when the source is still on probation (not
// enough sequential packets observed yet), and -2 when seq represents an
// implausible jump the caller should treat as invalid and drop.
func (s *Source) UpdateSeq(seq uint16) SeqResult {
	// seq - s.MaxSeq wraps mod 2^16 in uint16 arithmetic, which is exactly
	// the modular delta RFC 3550 §A.1 wants; widen afterward for the
	// comparisons below since MaxDropout/MaxMisorder arithmetic can exceed
	// what fits in a uint16.
	udelta := uint32(seq - s.MaxSeq)

	if s.Probation > 0 {
		if seq == s.MaxSeq+1 {
			s.Probation--
			s.MaxSeq = seq
			if s.Probation == 0 {
				s.ResetSeq(seq)
				s.Received++

				return SeqValid
			}
		} else {
			s.Probation = MinSequential - 1
			s.MaxSeq = seq
		}

		return SeqProbation
	} else if udelta < uint32(MaxDropout) {
		if seq < s.MaxSeq {
			s.Cycles += SeqMod
		}
		s.MaxSeq = seq
	} else if udelta <= SeqMod-uint32(MaxMisorder) {
		if seq == uint16(s.BadSeq) {
			s.ResetSeq(seq)
		} else {
			s.BadSeq = uint32(seq+1) & (SeqMod - 1)

			return SeqInvalid
		}
	}
	// else: duplicate or misordered packet within the accepted window;
	// counted as received but does not move max_seq.

	s.Received++

	return SeqValid
}

// ExtendedSeq returns the 32-bit logical sequence number accounting for
// 16-bit wraps: cycles + max_seq.
func (s *Source) ExtendedSeq() uint32 {
	return s.Cycles + uint32(s.MaxSeq)
}

// UpdateLost recomputes cumulative and fractional loss from the packets
// expected and received since the last call (RFC 3550 §A.3). Call this at
// most once per reporting interval, immediately before building a report
// block.
func (s *Source) UpdateLost() {
	extended := s.ExtendedSeq()
	expected := extended - s.BaseSeq + 1

	lost := int64(expected) - int64(s.Received)
	s.Lost = wire.SaturateInt24(lost)

	expectedInterval := expected - s.ExpectedPrior
	receivedInterval := s.Received - s.ReceivedPrior
	lostInterval := int32(expectedInterval) - int32(receivedInterval)

	if expectedInterval == 0 || lostInterval <= 0 {
		s.Fraction = 0
	} else {
		s.Fraction = uint8((int64(lostInterval) << 8) / int64(expectedInterval))
	}

	s.ExpectedPrior = expected
	s.ReceivedPrior = s.Received
}

// UpdateJitter folds one more interarrival sample into the running jitter
// estimate (RFC 3550 §A.8). ts is the RTP timestamp from the arriving
// packet; arrival is the local reception time expressed in the same
// clock-rate units.
func (s *Source) UpdateJitter(ts, arrival uint32) {
	transit := int32(arrival) - int32(ts)
	d := transit - s.Transit
	if d < 0 {
		d = -d
	}
	s.Transit = transit
	s.Jitter += (float64(d) - s.Jitter) / 16
}
