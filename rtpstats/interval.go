package rtpstats

import "github.com/flowmedia/rtpcore/rtprand"

// Minimum average time between RTCP packets from this site, in seconds.
// This time prevents reports from clumping when sessions are small, and
// keeps the report interval from shrinking to nothing during a transient
// outage (RFC 3550 §A.7).
const rtcpMinTime = 5.0

// Fraction of the RTCP bandwidth shared among active senders. Chosen so
// that a typical session with one or two senders computes a report time
// close to the minimum, so receiver reports aren't needlessly slowed.
const (
	senderBandwidthFraction = 0.25
	receiverBandwidthFraction = 1 - senderBandwidthFraction
)

// compensation corrects for "timer reconsideration" converging to a value
// below the intended average: e - 1.5.
const compensation = 2.718281828459045 - 1.5

// IntervalParams bundles the inputs to Interval (RFC 3550 §A.7).
type IntervalParams struct {
	// Members is the current estimate of the number of session members.
	Members int
	// Senders is the current estimate of the number of session members
	// that are actively sending RTP data.
	Senders int
	// RTCPBandwidth is the target total RTCP bandwidth for the session,
	// in bits/second, shared across all members.
	RTCPBandwidth float64
	// WeSent is true if this participant has sent RTP data since its
	// second-most-recent RTCP report.
	WeSent bool
	// AvgRTCPSize is the running average compound RTCP packet size, in
	// octets, including lower-layer transport/network headers.
	AvgRTCPSize float64
	// Initial is true before this participant has sent its first RTCP
	// packet, halving the minimum interval for quicker startup feedback.
	Initial bool
}

// Interval computes the deterministic RTCP transmission interval, in
// seconds, for the given session state (RFC 3550 §A.7). rng supplies the
// randomization that spreads reports from different participants apart;
// it is caller-supplied so this function has no hidden process-wide
// randomness.
func Interval(p IntervalParams, rng rtprand.Source) float64 {
	minTime := rtcpMinTime
	if p.Initial {
		minTime /= 2
	}

	bw := p.RTCPBandwidth
	n := p.Members
	if float64(p.Senders) <= float64(p.Members)*senderBandwidthFraction {
		if p.WeSent {
			bw *= senderBandwidthFraction
			n = p.Senders
		} else {
			bw *= receiverBandwidthFraction
			n -= p.Senders
		}
	}

	t := p.AvgRTCPSize * float64(n) / bw
	if t < minTime {
		t = minTime
	}

	t *= rng.Float64() + 0.5
	t /= compensation

	return t
}
