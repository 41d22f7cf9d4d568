package memopt

import (
	"github.com/romanmarkunas-com/0010-memory-optimization/internal/hash"
	"github.com/romanmarkunas-com/0010-memory-optimization/internal/pool"
	"github.com/romanmarkunas-com/0010-memory-optimization/internal/slab"
)

// Hasher selects the hash function used to place pooled values.
type Hasher int

const (
	// HasherXXHash uses xxhash (default).
	HasherXXHash Hasher = iota
	// HasherCRC32C uses hardware accelerated CRC32-Castagnoli.
	HasherCRC32C
	// HasherPolynomial uses the 31-multiplier array hash. It collides
	// easily and is mainly useful in tests.
	HasherPolynomial
)

func (h Hasher) fn() hash.Func {
	switch h {
	case HasherCRC32C:
		return hash.CRC32C
	case HasherPolynomial:
		return hash.Polynomial
	default:
		return hash.XXHash
	}
}

type options struct {
	metricsCollector    MetricsCollector
	logger              *Logger
	memoryLimit         int64
	initialPoolCapacity int
	slabSize            int
	offHeap             bool
	hasher              Hasher
	compactPostCodes    bool
}

// Option configures a Store.
type Option func(*options)

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &memopt.BasicMetricsCollector{}
//	s, _ := memopt.New(memopt.WithMetricsCollector(metrics))
//	// ... use s ...
//	stats := metrics.GetStats()
//	fmt.Printf("Inserts: %d, Avg latency: %dns\n", stats.InsertCount, stats.InsertAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithMemoryLimit caps the bytes held by pool tables, pooled values and
// slabs. Operations that would exceed it fail with ErrCapacityExhausted.
// Zero means unlimited.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.memoryLimit = bytes
	}
}

// WithInitialPoolCapacity sets the initial number of pool slots.
func WithInitialPoolCapacity(n int) Option {
	return func(o *options) {
		o.initialPoolCapacity = n
	}
}

// WithSlabSize sets the size of each record slab in bytes.
func WithSlabSize(bytes int) Option {
	return func(o *options) {
		o.slabSize = bytes
	}
}

// WithOffHeap stores record slabs in anonymous memory mappings outside the
// Go heap.
func WithOffHeap(enabled bool) Option {
	return func(o *options) {
		o.offHeap = enabled
	}
}

// WithHasher selects the pool hash function.
func WithHasher(h Hasher) Option {
	return func(o *options) {
		o.hasher = h
	}
}

// WithCompactPostCodes packs upper-case alphanumeric post codes into six
// bits per character before interning them.
func WithCompactPostCodes(enabled bool) Option {
	return func(o *options) {
		o.compactPostCodes = enabled
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector:    NoopMetricsCollector{},
		logger:              NoopLogger(),
		initialPoolCapacity: pool.DefaultInitialCapacity,
		slabSize:            slab.DefaultSlabSize,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
