package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSuccess     = "success"
	OutcomeConflict    = "conflict"
	OutcomeRejected    = "rejected"
	OutcomeRateLimited = "rate_limited"
	OutcomeError       = "error"
)

// Metrics agrupa los contadores del servicio de autenticacion.
// Un *Metrics nil es valido y no registra nada.
type Metrics struct {
	AuthAttempts *prometheus.CounterVec
	HashDuration prometheus.Histogram
}

// New crea y registra las metricas en reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		AuthAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "logitrace_auth_attempts_total",
				Help: "Total number of register and login attempts by outcome",
			},
			[]string{"operation", "outcome"},
		),
		HashDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "logitrace_password_hash_seconds",
				Help:    "Time spent hashing passwords",
				Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5},
			},
		),
	}
	reg.MustRegister(m.AuthAttempts, m.HashDuration)
	return m
}

func (m *Metrics) RecordRegister(outcome string) {
	if m == nil {
		return
	}
	m.AuthAttempts.WithLabelValues("register", outcome).Inc()
}

func (m *Metrics) RecordLogin(outcome string) {
	if m == nil {
		return
	}
	m.AuthAttempts.WithLabelValues("login", outcome).Inc()
}

func (m *Metrics) ObserveHash(d time.Duration) {
	if m == nil {
		return
	}
	m.HashDuration.Observe(d.Seconds())
}
