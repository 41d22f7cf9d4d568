package slab

import (
	"log/slog"

	"github.com/romanmarkunas-com/0010-memory-optimization/internal/resource"
)

// DefaultSlabSize is the size of one slab in bytes.
const DefaultSlabSize = 16 * 1024

// Option configures an Allocator.
type Option func(*options)

type options struct {
	slabSize int
	offHeap  bool
	rc       *resource.Controller
	logger   *slog.Logger
}

func defaultOptions() options {
	return options{
		slabSize: DefaultSlabSize,
		logger:   slog.New(slog.DiscardHandler),
	}
}

// WithSlabSize sets the slab size in bytes. Slack smaller than one slot at
// the end of a slab is left unused.
func WithSlabSize(bytes int) Option {
	return func(o *options) {
		if bytes > 0 {
			o.slabSize = bytes
		}
	}
}

// WithOffHeap backs slabs with anonymous memory mappings.
func WithOffHeap(enabled bool) Option {
	return func(o *options) {
		o.offHeap = enabled
	}
}

// WithResourceController charges slab memory to rc.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.rc = rc
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
