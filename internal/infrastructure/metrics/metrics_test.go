package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithRegistererRegistersMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()

	m := NewWithRegisterer(registry)

	require.NotNil(t, m.TrustEntries)
	require.NotNil(t, m.PayrollProcessed)
	require.NotNil(t, m.AuthAttempts)

	m.TrustEntries.WithLabelValues("Deposit").Inc()
	m.TrustInsufficientFunds.Inc()

	families, err := registry.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.TrustEntries.WithLabelValues("Deposit")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.TrustInsufficientFunds))
}

func TestNewWithRegistererIsolatedRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		NewWithRegisterer(prometheus.NewRegistry())
		NewWithRegisterer(prometheus.NewRegistry())
	})
}
