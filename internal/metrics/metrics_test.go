package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_RecordsOutcomes(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RecordRegister(OutcomeSuccess)
	m.RecordRegister(OutcomeConflict)
	m.RecordLogin(OutcomeRejected)
	m.RecordLogin(OutcomeRejected)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuthAttempts.WithLabelValues("register", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuthAttempts.WithLabelValues("register", OutcomeConflict)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.AuthAttempts.WithLabelValues("login", OutcomeRejected)))
}

func TestMetrics_ObserveHash(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveHash(50 * time.Millisecond)

	assert.Equal(t, 1, testutil.CollectAndCount(m.HashDuration))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRegister(OutcomeSuccess)
		m.RecordLogin(OutcomeError)
		m.ObserveHash(time.Second)
	})
}
