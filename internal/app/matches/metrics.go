package matches

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/isail-maritime/crew-rotation-api/internal/matching"
)

// Metrics records match set runs and the predicate outcome of every evaluated pair.
// A nil *Metrics records nothing.
type Metrics struct {
	runs        *prometheus.CounterVec
	evaluations *prometheus.CounterVec
	results     *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		runs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crew_match_runs_total",
				Help: "match set computations, by direction",
			},
			[]string{"direction"},
		),
		evaluations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crew_match_evaluations_total",
				Help: "evaluated ship/land pairs, by outcome and first failing predicate",
			},
			[]string{"outcome", "predicate"},
		),
		results: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crew_match_results_total",
				Help: "matches returned to callers, by direction",
			},
			[]string{"direction"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "crew_match_run_duration_seconds",
				Help:    "time spent building one match set",
				Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
			},
			[]string{"direction"},
		),
	}
}

// ObserveVerdict implements matching.Observer.
func (m *Metrics) ObserveVerdict(v matching.Verdict) {
	if m == nil {
		return
	}
	if v.Matched {
		m.evaluations.WithLabelValues("match", "none").Inc()
		return
	}
	m.evaluations.WithLabelValues("no_match", string(v.Failed)).Inc()
}

func (m *Metrics) observeRun(direction Direction, results int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(string(direction)).Inc()
	m.results.WithLabelValues(string(direction)).Add(float64(results))
	m.duration.WithLabelValues(string(direction)).Observe(elapsed.Seconds())
}
