// Package metrics exposes Prometheus instrumentation for scraping and aggregation.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Extraction outcomes.
const (
	OutcomeLoaded      = "loaded"
	OutcomeNoData      = "no_data"
	OutcomeUnavailable = "unavailable"
)

// Recorder receives service-level events. Nop discards them.
type Recorder interface {
	Extraction(outcome string, found int)
	WindowChanged(window int)
	Aggregated()
	ActiveSessions(n int)
}

// Metrics implements Recorder on top of Prometheus collectors.
type Metrics struct {
	extractions    *prometheus.CounterVec
	scoresFound    prometheus.Histogram
	windowChanges  *prometheus.CounterVec
	aggregations   prometheus.Counter
	activeSessions prometheus.Gauge
}

var _ Recorder = (*Metrics)(nil)

// New registers all collectors with reg. Pass a fresh prometheus.NewRegistry()
// in tests to avoid duplicate registration panics.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		extractions: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "bestofn",
				Name:      "extractions_total",
				Help:      "Page extractions by outcome.",
			},
			[]string{"outcome"},
		),
		scoresFound: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "bestofn",
				Name:      "scores_found",
				Help:      "Quiz percentages found per successful extraction.",
				Buckets:   []float64{1, 3, 5, 7, 10, 15, 25, 50, 100},
			},
		),
		windowChanges: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "bestofn",
				Name:      "window_changes_total",
				Help:      "Selection window changes by chosen window.",
			},
			[]string{"window"},
		),
		aggregations: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: "bestofn",
				Name:      "aggregations_total",
				Help:      "Best-of-N aggregations computed.",
			},
		),
		activeSessions: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "bestofn",
				Name:      "active_sessions",
				Help:      "Sessions currently held in memory.",
			},
		),
	}
}

func (m *Metrics) Extraction(outcome string, found int) {
	m.extractions.WithLabelValues(outcome).Inc()
	if outcome == OutcomeLoaded {
		m.scoresFound.Observe(float64(found))
	}
}

func (m *Metrics) WindowChanged(window int) {
	m.windowChanges.WithLabelValues(windowLabel(window)).Inc()
}

func (m *Metrics) Aggregated() { m.aggregations.Inc() }

func (m *Metrics) ActiveSessions(n int) { m.activeSessions.Set(float64(n)) }

// windowLabel bounds label cardinality: any window is legal, but only
// small ones get their own series.
func windowLabel(window int) string {
	if window > 10 {
		return "other"
	}
	return strconv.Itoa(window)
}

// Nop is a Recorder that drops every event.
type Nop struct{}

func (Nop) Extraction(string, int) {}
func (Nop) WindowChanged(int)      {}
func (Nop) Aggregated()            {}
func (Nop) ActiveSessions(int)     {}
