package pool

import (
	"go.uber.org/zap"

	"github.com/funny-falcon/slotpool/sysalloc"
)

type config struct {
	alloc   sysalloc.Allocator
	indexed bool
	debug   bool
	log     *zap.Logger
}

type Option func(*config)

// WithAllocator sets where the arena buffer comes from. The default is
// sysalloc.Default.
func WithAllocator(a sysalloc.Allocator) Option {
	return func(c *config) {
		c.alloc = a
	}
}

// WithIndexedLinks stores values in a []T and free-list links beside it.
func WithIndexedLinks() Option {
	return func(c *config) {
		c.indexed = true
	}
}

// WithDebug tracks live slots to report double frees and leaks at Close.
func WithDebug() Option {
	return func(c *config) {
		c.debug = true
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.log = l
		}
	}
}
