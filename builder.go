package memopt

// NewBuilder creates a Store builder with default settings.
//
// The builder is immutable - each method returns a new builder with the updated configuration.
// This prevents accidental state sharing between differently configured stores.
//
// Example:
//
//	s, err := memopt.NewBuilder().
//	    MemoryLimit(512 << 20).
//	    SlabSize(64 << 10).
//	    OffHeap().
//	    CompactPostCodes().
//	    Build()
func NewBuilder() StoreBuilder {
	return StoreBuilder{}
}

// StoreBuilder is an immutable fluent builder for Stores.
type StoreBuilder struct {
	memoryLimit         int64
	initialPoolCapacity int
	slabSize            int
	offHeap             bool
	hasher              Hasher
	compactPostCodes    bool
	logger              *Logger
	metrics             MetricsCollector
}

// MemoryLimit caps the bytes held by the pool and the slabs.
// Default: 0 (unlimited).
func (b StoreBuilder) MemoryLimit(bytes int64) StoreBuilder {
	b.memoryLimit = bytes
	return b
}

// InitialPoolCapacity sets the initial number of pool slots.
// Default: 1024.
func (b StoreBuilder) InitialPoolCapacity(n int) StoreBuilder {
	b.initialPoolCapacity = n
	return b
}

// SlabSize sets the size of each record slab in bytes.
// Default: 16 KiB.
func (b StoreBuilder) SlabSize(bytes int) StoreBuilder {
	b.slabSize = bytes
	return b
}

// OffHeap stores record slabs in anonymous memory mappings.
func (b StoreBuilder) OffHeap() StoreBuilder {
	b.offHeap = true
	return b
}

// Hasher selects the pool hash function.
func (b StoreBuilder) Hasher(h Hasher) StoreBuilder {
	b.hasher = h
	return b
}

// CompactPostCodes packs post codes into six bits per character.
func (b StoreBuilder) CompactPostCodes() StoreBuilder {
	b.compactPostCodes = true
	return b
}

// Logger sets the structured logger for operation tracing.
func (b StoreBuilder) Logger(l *Logger) StoreBuilder {
	b.logger = l
	return b
}

// Metrics sets the metrics collector for monitoring.
func (b StoreBuilder) Metrics(mc MetricsCollector) StoreBuilder {
	b.metrics = mc
	return b
}

// Options returns the builder configuration as Options.
func (b StoreBuilder) Options() []Option {
	opts := []Option{
		WithMemoryLimit(b.memoryLimit),
		WithOffHeap(b.offHeap),
		WithHasher(b.hasher),
		WithCompactPostCodes(b.compactPostCodes),
	}
	if b.initialPoolCapacity > 0 {
		opts = append(opts, WithInitialPoolCapacity(b.initialPoolCapacity))
	}
	if b.slabSize > 0 {
		opts = append(opts, WithSlabSize(b.slabSize))
	}
	if b.logger != nil {
		opts = append(opts, WithLogger(b.logger))
	}
	if b.metrics != nil {
		opts = append(opts, WithMetricsCollector(b.metrics))
	}
	return opts
}

// Build creates the Store.
func (b StoreBuilder) Build() (*Store, error) {
	return New(b.Options()...)
}

// MustBuild creates the Store, panicking on error.
func (b StoreBuilder) MustBuild() *Store {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}
