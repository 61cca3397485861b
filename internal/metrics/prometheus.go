package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector implements Collector backed by Prometheus.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	locationFallbacks prometheus.Counter
	assignments       *prometheus.CounterVec
	reassignments     *prometheus.CounterVec
	searchPasses      prometheus.Histogram
	searchSwaps       prometheus.Histogram
	requestDuration   *prometheus.HistogramVec
}

var _ Collector = (*PrometheusCollector)(nil)

// NewPrometheus creates a Prometheus-backed collector. A nil reg uses prometheus.DefaultRegisterer;
// an empty namespace defaults to "seating".
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "seating"
	}
	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.locationFallbacks = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "geo",
			Name:      "location_fallbacks_total",
			Help:      "Locations that resolved to the default coordinate.",
		})

		p.assignments = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "assigner",
			Name:      "assignments_total",
			Help:      "Incremental table assignments by outcome (first,existing,new_table).",
		}, []string{"outcome"})

		p.reassignments = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "reoptimizer",
			Name:      "reassignments_total",
			Help:      "Global reassignments by result (applied,insufficient_guests,constraint_violation).",
		}, []string{"result"})

		p.searchPasses = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "reoptimizer",
			Name:      "search_passes",
			Help:      "Local search passes per reassignment.",
			Buckets:   []float64{1, 2, 3, 5, 10, 25, 50, 100},
		})

		p.searchSwaps = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "reoptimizer",
			Name:      "accepted_swaps",
			Help:      "Accepted swaps per reassignment.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10), // 1 .. 512
		})

		p.requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method, route pattern and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"})

		p.reg.MustRegister(p.locationFallbacks)
		p.reg.MustRegister(p.assignments)
		p.reg.MustRegister(p.reassignments)
		p.reg.MustRegister(p.searchPasses)
		p.reg.MustRegister(p.searchSwaps)
		p.reg.MustRegister(p.requestDuration)
	})
}

// RecordLocationFallback counts a location resolved to the default coordinate.
func (p *PrometheusCollector) RecordLocationFallback() {
	p.ensureRegistered()
	p.locationFallbacks.Inc()
}

// RecordAssignment counts an incremental assignment outcome.
func (p *PrometheusCollector) RecordAssignment(outcome string) {
	p.ensureRegistered()
	p.assignments.WithLabelValues(outcome).Inc()
}

// RecordReassignment counts a reassignment result. Search statistics are only observed for applied runs.
func (p *PrometheusCollector) RecordReassignment(result string, passes, swaps int) {
	p.ensureRegistered()
	p.reassignments.WithLabelValues(result).Inc()
	if result != ResultApplied {
		return
	}
	p.searchPasses.Observe(float64(passes))
	p.searchSwaps.Observe(float64(swaps))
}

// ObserveRequest records one served HTTP request.
func (p *PrometheusCollector) ObserveRequest(method, route string, status int, duration time.Duration) {
	p.ensureRegistered()
	p.requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(duration.Seconds())
}
