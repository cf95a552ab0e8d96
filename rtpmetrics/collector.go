// Package rtpmetrics exposes rtpstats.Source state as Prometheus metrics.
// It is pure instrumentation: Collect only reads Source fields and never
// mutates protocol state.
package rtpmetrics

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/flowmedia/rtpcore/rtpstats"
)

var (
	receivedDesc = prometheus.NewDesc(
		"rtp_source_packets_received_total",
		"Packets validated as received for this source.",
		[]string{"ssrc"}, nil,
	)
	lostDesc = prometheus.NewDesc(
		"rtp_source_packets_lost",
		"Cumulative packets lost for this source, signed per RFC 3550 §6.4.1.",
		[]string{"ssrc"}, nil,
	)
	fractionLostDesc = prometheus.NewDesc(
		"rtp_source_fraction_lost",
		"Fraction of packets lost since the last report, in [0,1].",
		[]string{"ssrc"}, nil,
	)
	jitterDesc = prometheus.NewDesc(
		"rtp_source_jitter",
		"Running interarrival jitter estimate, in timestamp units.",
		[]string{"ssrc"}, nil,
	)
	probationDesc = prometheus.NewDesc(
		"rtp_source_probation",
		"1 while the source is still on probation, 0 once validated.",
		[]string{"ssrc"}, nil,
	)
)

// Registry is a prometheus.Collector over a set of rtpstats.Source values
// keyed by SSRC. Callers register/remove sources as they appear and
// disappear from a session; Collect reads their current field values each
// time the registry is scraped.
type Registry struct {
	mu      sync.RWMutex
	sources map[uint32]*rtpstats.Source
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{sources: make(map[uint32]*rtpstats.Source)}
}

// Track adds or replaces the Source tracked for its ID.
func (r *Registry) Track(s *rtpstats.Source) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sources[s.ID] = s
}

// Untrack stops reporting metrics for ssrc.
func (r *Registry) Untrack(ssrc uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sources, ssrc)
}

// Describe implements prometheus.Collector.
func (r *Registry) Describe(ch chan<- *prometheus.Desc) {
	ch <- receivedDesc
	ch <- lostDesc
	ch <- fractionLostDesc
	ch <- jitterDesc
	ch <- probationDesc
}

// Collect implements prometheus.Collector, emitting one sample per metric
// per tracked source.
func (r *Registry) Collect(ch chan<- prometheus.Metric) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for ssrc, s := range r.sources {
		label := ssrcLabel(ssrc)

		ch <- prometheus.MustNewConstMetric(receivedDesc, prometheus.CounterValue, float64(s.Received), label)
		ch <- prometheus.MustNewConstMetric(lostDesc, prometheus.GaugeValue, float64(s.Lost), label)
		ch <- prometheus.MustNewConstMetric(fractionLostDesc, prometheus.GaugeValue, float64(s.Fraction)/256, label)
		ch <- prometheus.MustNewConstMetric(jitterDesc, prometheus.GaugeValue, s.Jitter, label)

		probation := 0.0
		if s.Probation > 0 {
			probation = 1.0
		}
		ch <- prometheus.MustNewConstMetric(probationDesc, prometheus.GaugeValue, probation, label)
	}
}

func ssrcLabel(ssrc uint32) string {
	return fmt.Sprintf("%08x", ssrc)
}
