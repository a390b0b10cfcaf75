package waitlist

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeCreated   = "created"
	outcomeInvalid   = "invalid"
	outcomeDuplicate = "duplicate"
	outcomeFailed    = "failed"
)

// Metrics is optional; a nil *Metrics records nothing.
type Metrics struct {
	signupsTotal        *prometheus.CounterVec
	lookupFailuresTotal *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return nil
	}

	m := &Metrics{
		signupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "waitlist_signups_total",
				Help: "Signup attempts by outcome.",
			},
			[]string{"outcome"},
		),
		lookupFailuresTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "waitlist_standing_lookup_failures_total",
				Help: "Rank or count lookups that failed after a successful signup.",
			},
			[]string{"lookup"},
		),
	}

	reg.MustRegister(m.signupsTotal, m.lookupFailuresTotal)
	return m
}

func (m *Metrics) observeSignup(outcome string) {
	if m == nil {
		return
	}
	m.signupsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) observeLookupFailure(lookup string) {
	if m == nil {
		return
	}
	m.lookupFailuresTotal.WithLabelValues(lookup).Inc()
}
