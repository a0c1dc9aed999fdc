package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveGate("authenticated")
	m.ObserveGate("authenticated")
	m.ObserveGate("no_header")
	m.ObserveCredential(OpLogin, OutcomeRejected)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.GateCounter("authenticated")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.gate.WithLabelValues("no_header")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.credentials.WithLabelValues(OpLogin, OutcomeRejected)))
	assert.Equal(t, 2, testutil.CollectAndCount(m.gate))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveGate("authenticated")
		m.ObserveCredential(OpRegister, OutcomeSuccess)
	})
}

func TestNew_DoubleRegisterPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}
