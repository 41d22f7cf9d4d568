package memopt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderDefaults(t *testing.T) {
	s, err := NewBuilder().Build()
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, DefaultConfig().SlabSizeBytes/RecordSize, s.Stats().SlotsPerSlab)
	assert.Zero(t, s.Stats().MemoryLimit)
}

func TestBuilderIsImmutable(t *testing.T) {
	base := NewBuilder().SlabSize(1024)
	limited := base.MemoryLimit(1 << 20)

	assert.Zero(t, applyOptions(base.Options()).memoryLimit)
	assert.Equal(t, int64(1<<20), applyOptions(limited.Options()).memoryLimit)
	assert.Equal(t, 1024, applyOptions(limited.Options()).slabSize)
}

func TestBuilderFullOptions(t *testing.T) {
	m := &BasicMetricsCollector{}
	s := NewBuilder().
		MemoryLimit(8 << 20).
		InitialPoolCapacity(128).
		SlabSize(4096).
		OffHeap().
		Hasher(HasherPolynomial).
		CompactPostCodes().
		Logger(NoopLogger()).
		Metrics(m).
		MustBuild()
	defer s.Close()

	_, err := s.Insert(testOrder(1, "ABC123"))
	require.NoError(t, err)

	st := s.Stats()
	assert.Equal(t, 128, st.PoolCapacity)
	assert.Equal(t, 4096/RecordSize, st.SlotsPerSlab)
	assert.Equal(t, int64(8<<20), st.MemoryLimit)
	assert.Equal(t, int64(1), m.GetStats().InsertCount)
}

func TestBuilderMustBuildPanics(t *testing.T) {
	assert.Panics(t, func() { NewBuilder().SlabSize(RecordSize - 1).MustBuild() })
}
