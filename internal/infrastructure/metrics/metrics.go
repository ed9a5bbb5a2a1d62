// Package metrics exposes analysis telemetry through a private Prometheus
// registry and keeps an in-process decision tally for the stats endpoint.
package metrics

import (
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/0xcro3dile/claimcheck-go/internal/domain/entities"
)

const namespace = "claimcheck"

// Stats summarises the decisions made since the process started.
type Stats struct {
	TotalAnalyses  int     `json:"total_analyses"`
	ApprovedClaims int     `json:"approved_claims"`
	PartialClaims  int     `json:"partial_claims"`
	RejectedClaims int     `json:"rejected_claims"`
	UnknownClaims  int     `json:"unknown_claims"`
	ApprovalRate   float64 `json:"approval_rate"`
}

// Metrics implements ports.AnalysisObserver.
type Metrics struct {
	registry  *prometheus.Registry
	analyses  *prometheus.CounterVec
	segmented prometheus.Counter
	duration  prometheus.Histogram

	mu    sync.Mutex
	tally map[entities.Decision]int
	total int
}

// New creates the collectors on a fresh registry. withRuntime also registers
// the Go and process collectors.
func New(withRuntime bool) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Completed claim analyses by decision and reasoner.",
		}, []string{"decision", "reasoner"}),
		segmented: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "clauses_segmented_total",
			Help:      "Clauses produced by document segmentation.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Wall time of one claim analysis, reasoner call included.",
			Buckets:   []float64{.005, .01, .05, .1, .5, 1, 2.5, 5, 10, 30, 60},
		}),
		tally: make(map[entities.Decision]int),
	}

	m.registry.MustRegister(m.analyses, m.segmented, m.duration)
	if withRuntime {
		m.registry.MustRegister(
			prometheus.NewGoCollector(),
			prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{Namespace: namespace}),
		)
	}
	return m
}

// ObserveSegmentation implements ports.AnalysisObserver.
func (m *Metrics) ObserveSegmentation(clauses int) {
	m.segmented.Add(float64(clauses))
}

// ObserveAnalysis implements ports.AnalysisObserver.
func (m *Metrics) ObserveAnalysis(decision entities.Decision, reasoner string, took time.Duration) {
	m.analyses.WithLabelValues(string(decision), reasoner).Inc()
	m.duration.Observe(took.Seconds())

	m.mu.Lock()
	m.tally[decision]++
	m.total++
	m.mu.Unlock()
}

// Stats returns the decision tally. Partial decisions count as approvals.
func (m *Metrics) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Stats{
		TotalAnalyses:  m.total,
		ApprovedClaims: m.tally[entities.DecisionYes],
		PartialClaims:  m.tally[entities.DecisionPartial],
		RejectedClaims: m.tally[entities.DecisionNo],
		UnknownClaims:  m.tally[entities.DecisionUnknown],
	}
	if s.TotalAnalyses > 0 {
		rate := float64(s.ApprovedClaims+s.PartialClaims) / float64(s.TotalAnalyses) * 100
		s.ApprovalRate = math.Round(rate*10) / 10
	}
	return s
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
