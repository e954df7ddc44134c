package observability

import (
	"strconv"
	"time"

	"github.com/aretw0/mutagraph/pkg/domain"
	"github.com/aretw0/mutagraph/pkg/mutation"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "mutagraph"

// Metrics records generation outcomes as Prometheus collectors.
type Metrics struct {
	generations *prometheus.CounterVec
	failures    prometheus.Counter
	duration    prometheus.Histogram
	mutations   *prometheus.CounterVec
	rejections  *prometheus.CounterVec
	attempts    prometheus.Histogram
}

var _ mutation.Observer = (*Metrics)(nil)

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		generations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "generations_total",
				Help:      "Total number of generated graphs, by final state",
			},
			[]string{"open"},
		),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generation_failures_total",
			Help:      "Total number of generations aborted by a fatal error",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "Duration of successful generations",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
		mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "mutations_applied_total",
				Help:      "Total number of applied mutations, by operator",
			},
			[]string{"operator"},
		),
		rejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "mutations_rejected_total",
				Help:      "Total number of retried mutation attempts, by operator and error kind",
			},
			[]string{"operator", "kind"},
		),
		attempts: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "mutation_attempts",
			Help:      "Attempts needed to apply one mutation",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
	}
	reg.MustRegister(m.generations, m.failures, m.duration, m.mutations, m.rejections, m.attempts)
	return m
}

func (m *Metrics) Applied(op mutation.Operator, attempts int) {
	m.mutations.WithLabelValues(op.String()).Inc()
	m.attempts.Observe(float64(attempts))
}

func (m *Metrics) Rejected(op mutation.Operator, kind domain.ErrorKind) {
	m.rejections.WithLabelValues(op.String(), kind.String()).Inc()
}

// Generated records a successful generation.
func (m *Metrics) Generated(size int, open bool, elapsed time.Duration) {
	m.generations.WithLabelValues(strconv.FormatBool(open)).Inc()
	m.duration.Observe(elapsed.Seconds())
}

// Failed records an aborted generation.
func (m *Metrics) Failed() {
	m.failures.Inc()
}
