package pool

import (
	"errors"
	"fmt"
	"unsafe"

	"go.uber.org/zap"

	"github.com/funny-falcon/slotpool/align"
	"github.com/funny-falcon/slotpool/bitmap"
	"github.com/funny-falcon/slotpool/sysalloc"
)

// Releaser is implemented by element types that hold something to let go
// of when their slot is freed.
type Releaser interface {
	Release()
}

// Pool is a fixed number of slots for values of type T.
// A Pool must not be copied; live values and handles refer back to it.
type Pool[T any] struct {
	noCopy noCopy

	lay    layout
	cap    int
	store  store[T]
	live   *bitmap.Bitmap
	log    *zap.Logger
	closed bool
}

func New[T any](capacity int, opts ...Option) (*Pool[T], error) {
	cfg := config{alloc: sysalloc.Default, log: zap.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if capacity < 0 {
		return nil, ErrCapacity
	}
	lay := layoutOf[T]()
	if lay.size == 0 {
		return nil, fmt.Errorf("%w: %s", ErrZeroSize, lay.name)
	}

	p := &Pool[T]{
		lay: lay,
		cap: capacity,
		log: cfg.log.With(zap.String("elem", lay.name), zap.Int("capacity", capacity)),
	}
	if cfg.indexed {
		st, err := newIndexed[T](capacity)
		if err != nil {
			return nil, err
		}
		p.store = st
	} else {
		if lay.align < align.PtrAlign {
			return nil, fmt.Errorf("%w: %s aligned to %d", ErrUnderAligned, lay.name, lay.align)
		}
		if lay.pointers {
			return nil, fmt.Errorf("%w: %s", ErrPointerElem, lay.name)
		}
		st, err := newArena[T](capacity, lay, cfg.alloc)
		if err != nil {
			return nil, err
		}
		p.store = st
	}
	if cfg.debug {
		p.live = bitmap.New(capacity)
	}

	p.log.Debug("pool created",
		zap.String("layout", p.store.name()),
		zap.Uintptr("stride", lay.stride),
		zap.Uintptr("alignment", lay.align),
		zap.Bool("debug", cfg.debug),
	)
	return p, nil
}

// Allocate takes a free slot, zeroes it and runs init on it. A nil init
// leaves the zero value. If init fails or panics, the slot is returned to
// the free list before the failure propagates.
func (p *Pool[T]) Allocate(init func(*T) error) (*T, error) {
	if p.closed {
		return nil, ErrClosed
	}
	ptr, slot := p.store.pop()
	if ptr == nil {
		return nil, ErrExhausted
	}
	if err := p.construct(ptr, slot, init); err != nil {
		return nil, err
	}
	p.markLive(slot)
	return ptr, nil
}

func (p *Pool[T]) construct(ptr *T, slot int, init func(*T) error) (err error) {
	var zero T
	*ptr = zero
	if init == nil {
		return nil
	}
	done := false
	defer func() {
		if !done {
			*ptr = zero
			p.store.push(ptr, slot)
		}
	}()
	if err = init(ptr); err != nil {
		return fmt.Errorf("%w: %w", ErrConstruct, err)
	}
	done = true
	return nil
}

// AllocateValue copies v into a free slot.
func (p *Pool[T]) AllocateValue(v T) (*T, error) {
	if p.closed {
		return nil, ErrClosed
	}
	ptr, slot := p.store.pop()
	if ptr == nil {
		return nil, ErrExhausted
	}
	*ptr = v
	p.markLive(slot)
	return ptr, nil
}

// AllocateSmart is Allocate with the result owned by a handle. On failure
// the handle is nil, which is a valid empty handle.
func (p *Pool[T]) AllocateSmart(init func(*T) error) (*Handle[T], error) {
	ptr, err := p.Allocate(init)
	if err != nil {
		return nil, err
	}
	return &Handle[T]{pool: p, ptr: ptr}, nil
}

// Free returns ptr's slot to the pool. Freeing nil does nothing.
//
// The value must not be used afterwards. Freeing the same value twice is
// only detected with WithDebug; without it the free list is corrupted.
func (p *Pool[T]) Free(ptr *T) error {
	if ptr == nil {
		return nil
	}
	if p.closed {
		return ErrClosed
	}
	slot, ok := p.store.slot(ptr)
	if !ok {
		p.log.Warn("free of foreign pointer", zap.Uintptr("addr", uintptr(unsafe.Pointer(ptr))))
		return ErrForeign
	}
	if p.live != nil && !p.live.Has(slot) {
		p.log.Warn("double free", zap.Int("slot", slot))
		return fmt.Errorf("%w: slot %d", ErrDoubleFree, slot)
	}
	if r, ok := any(ptr).(Releaser); ok {
		r.Release()
	}
	if p.live != nil {
		p.live.Unset(slot)
	}
	var zero T
	*ptr = zero
	p.store.push(ptr, slot)
	return nil
}

func (p *Pool[T]) markLive(slot int) {
	if p.live != nil {
		p.live.Set(slot)
	}
}

// Owns reports whether ptr points at one of the pool's slots, live or not.
func (p *Pool[T]) Owns(ptr *T) bool {
	if p.closed {
		return false
	}
	_, ok := p.store.slot(ptr)
	return ok
}

func (p *Pool[T]) Cap() int {
	return p.cap
}

// Available walks the free list, so it costs O(free slots).
func (p *Pool[T]) Available() int {
	if p.closed {
		return 0
	}
	return p.store.available()
}

// LiveSlots lists the indexes of live slots. It needs WithDebug and
// returns nil otherwise.
func (p *Pool[T]) LiveSlots() []int {
	if p.live == nil {
		return nil
	}
	return p.live.Array(0)
}

// Close releases the slot buffer. Values that are still live are not
// released and must not be used afterwards.
func (p *Pool[T]) Close() error {
	if p.closed {
		return ErrClosed
	}
	var errs []error
	if p.live != nil && p.live.Count() > 0 {
		n := p.live.Count()
		p.log.Warn("pool closed with live slots",
			zap.Uint32("live", n),
			zap.Ints("slots", p.live.Array(16)),
		)
		errs = append(errs, fmt.Errorf("%w: %d", ErrLiveSlots, n))
		p.live.Reset()
	}
	if err := p.store.release(); err != nil {
		errs = append(errs, err)
	}
	p.closed = true
	p.log.Debug("pool closed")
	return errors.Join(errs...)
}

type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
