// Package telemetry exports search statistics as Prometheus metrics.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/gitrdm/gokanprop/pkg/cp"
)

const (
	metricsNamespace = "cp"
	searchSubsystem  = "search"
)

// SearchMetrics holds the collectors shared by every observed search. All
// series are labelled by model name.
//
// Thread Safety: safe for concurrent use; each Observer is confined to the
// search goroutine it is attached to.
type SearchMetrics struct {
	Nodes        *prometheus.CounterVec
	Failures     *prometheus.CounterVec
	Solutions    *prometheus.CounterVec
	Propagations *prometheus.CounterVec
	Duration     *prometheus.HistogramVec
	MaxDepth     *prometheus.GaugeVec
	Running      *prometheus.GaugeVec
}

// NewSearchMetrics registers the collectors on reg. Pass
// prometheus.DefaultRegisterer to expose them on promhttp.Handler.
func NewSearchMetrics(reg prometheus.Registerer) *SearchMetrics {
	f := promauto.With(reg)
	return &SearchMetrics{
		Nodes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: searchSubsystem,
			Name:      "nodes_total",
			Help:      "Search nodes explored",
		}, []string{"model"}),
		Failures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: searchSubsystem,
			Name:      "failures_total",
			Help:      "Search nodes that failed",
		}, []string{"model"}),
		Solutions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: searchSubsystem,
			Name:      "solutions_total",
			Help:      "Solutions found",
		}, []string{"model"}),
		Propagations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "engine",
			Name:      "propagations_total",
			Help:      "Constraint propagations run by the fixpoint loop",
		}, []string{"model"}),
		Duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: searchSubsystem,
			Name:      "duration_seconds",
			Help:      "Wall time of finished searches",
			Buckets:   []float64{0.0001, 0.001, 0.01, 0.1, 1, 10, 60},
		}, []string{"model", "completed"}),
		MaxDepth: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: searchSubsystem,
			Name:      "max_depth",
			Help:      "Deepest choice point of the last search",
		}, []string{"model"}),
		Running: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: searchSubsystem,
			Name:      "running",
			Help:      "Searches in progress",
		}, []string{"model"}),
	}
}

// Observer returns a search observer feeding the collectors under model.
// The running gauge is raised now and lowered when the search finishes.
func (m *SearchMetrics) Observer(model string) cp.SearchObserver {
	m.Running.WithLabelValues(model).Inc()
	return &observer{
		nodes:     m.Nodes.WithLabelValues(model),
		failures:  m.Failures.WithLabelValues(model),
		solutions: m.Solutions.WithLabelValues(model),
		m:         m,
		model:     model,
	}
}

// RecordEngine adds the propagation count of a solver.
func (m *SearchMetrics) RecordEngine(model string, st cp.EngineStats) {
	m.Propagations.WithLabelValues(model).Add(float64(st.Propagations))
}

type observer struct {
	nodes, failures, solutions prometheus.Counter
	m                          *SearchMetrics
	model                      string
}

func (o *observer) NodeExplored(int) { o.nodes.Inc() }

func (o *observer) FailureFound(int) { o.failures.Inc() }

func (o *observer) SolutionFound(cp.SearchStatistics) { o.solutions.Inc() }

func (o *observer) SearchFinished(st cp.SearchStatistics) {
	completed := "false"
	if st.Completed {
		completed = "true"
	}
	o.m.Duration.WithLabelValues(o.model, completed).Observe(st.Elapsed.Seconds())
	o.m.MaxDepth.WithLabelValues(o.model).Set(float64(st.MaxDepth))
	o.m.Running.WithLabelValues(o.model).Dec()
}
