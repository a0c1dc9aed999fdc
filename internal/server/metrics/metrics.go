// Package metrics exposes the authentication counters scraped on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for credential checks.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeConflict = "conflict"
	OutcomeError    = "error"
)

// Credential operations.
const (
	OpRegister = "register"
	OpLogin    = "login"
)

// Metrics holds the auth counters. A nil *Metrics records nothing.
type Metrics struct {
	gate        *prometheus.CounterVec
	credentials *prometheus.CounterVec
}

// New creates the counters and registers them with reg.
// Panics if registration fails (following prometheus convention).
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		gate: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "blogkeeper_auth_gate_total",
				Help: "Requests passing through the authentication gate, by final state",
			},
			[]string{"state"},
		),
		credentials: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "blogkeeper_credential_checks_total",
				Help: "Register and login attempts, by outcome",
			},
			[]string{"op", "outcome"},
		),
	}
	reg.MustRegister(m.gate, m.credentials)
	return m
}

// ObserveGate counts one request ending in state.
func (m *Metrics) ObserveGate(state string) {
	if m == nil {
		return
	}
	m.gate.WithLabelValues(state).Inc()
}

// ObserveCredential counts one register or login attempt.
func (m *Metrics) ObserveCredential(op, outcome string) {
	if m == nil {
		return
	}
	m.credentials.WithLabelValues(op, outcome).Inc()
}

// GateCounter returns the counter for state.
func (m *Metrics) GateCounter(state string) prometheus.Counter {
	return m.gate.WithLabelValues(state)
}

// CredentialCounter returns the counter for op and outcome.
func (m *Metrics) CredentialCounter(op, outcome string) prometheus.Counter {
	return m.credentials.WithLabelValues(op, outcome)
}
