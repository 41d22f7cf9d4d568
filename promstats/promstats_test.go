package promstats

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	memopt "github.com/romanmarkunas-com/0010-memory-optimization"
)

func TestCollectorRecordsOperations(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	c, err := New(reg)
	require.NoError(t, err)

	s, err := memopt.New(memopt.WithMetricsCollector(c))
	require.NoError(t, err)
	defer s.Close()

	key, err := s.Insert(memopt.Order{ID: 1, User: []byte("ABC123")})
	require.NoError(t, err)
	_, err = s.Insert(memopt.Order{ID: 1, User: []byte("ABC123")})
	require.Error(t, err)

	_, _ = s.Lookup(1)
	_, _ = s.Lookup(2)
	require.NoError(t, s.Delete(key))

	assert.Equal(t, 3, testutil.CollectAndCount(c.opLatency))
	assert.InDelta(t, 1, testutil.ToFloat64(c.lookups.WithLabelValues("hit")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.lookups.WithLabelValues("miss")), 0)

	c.Observe(s.Stats())
	assert.InDelta(t, 0, testutil.ToFloat64(c.records), 0)
	assert.Positive(t, testutil.ToFloat64(c.memoryPeak))
}

func TestCollectorObserve(t *testing.T) {
	c, err := New(prometheus.NewRegistry())
	require.NoError(t, err)

	c.Observe(memopt.Stats{Records: 3, Users: 2, PooledValues: 7, Slabs: 1, MemoryUsed: 4096})

	assert.InDelta(t, 3, testutil.ToFloat64(c.records), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(c.users), 0)
	assert.InDelta(t, 7, testutil.ToFloat64(c.pooledValues), 0)
	assert.InDelta(t, 4096, testutil.ToFloat64(c.memoryUsed), 0)
}

func TestNewRejectsDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)

	_, err = New(reg)
	require.Error(t, err)
}
