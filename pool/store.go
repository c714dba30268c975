package pool

import (
	"fmt"
	"unsafe"

	"github.com/funny-falcon/slotpool/align"
	"github.com/funny-falcon/slotpool/freelist"
	"github.com/funny-falcon/slotpool/sysalloc"
)

// store owns slot memory and the free list threaded through it.
type store[T any] interface {
	name() string
	pop() (*T, int)
	push(ptr *T, slot int)
	slot(ptr *T) (int, bool)
	available() int
	release() error
}

const maxInt = int(^uint(0) >> 1)

type arena[T any] struct {
	buf       []byte
	list      *freelist.List
	alloc     sysalloc.Allocator
	alignment int
}

func newArena[T any](capacity int, lay layout, alloc sysalloc.Allocator) (*arena[T], error) {
	a := &arena[T]{alloc: alloc, alignment: int(max(lay.align, align.PtrAlign))}
	if capacity > 0 {
		if uintptr(capacity) > uintptr(maxInt)/lay.stride {
			return nil, fmt.Errorf("%w: %d x %d bytes overflows", ErrCapacity, capacity, lay.stride)
		}
		buf, err := alloc.Alloc(capacity*int(lay.stride), a.alignment)
		if err != nil {
			return nil, fmt.Errorf("%w: %d x %d bytes: %w", ErrBuffer, capacity, lay.stride, err)
		}
		a.buf = buf
	}
	list, err := freelist.New(a.buf, lay.stride, uintptr(a.alignment), capacity)
	if err != nil {
		a.release()
		return nil, err
	}
	a.list = list
	return a, nil
}

func (a *arena[T]) name() string { return "arena" }

func (a *arena[T]) pop() (*T, int) {
	p := a.list.Pop()
	if p == nil {
		return nil, -1
	}
	slot, _ := a.list.Slot(p)
	return (*T)(p), slot
}

func (a *arena[T]) push(ptr *T, _ int) {
	a.list.Push(unsafe.Pointer(ptr))
}

func (a *arena[T]) slot(ptr *T) (int, bool) {
	return a.list.Slot(unsafe.Pointer(ptr))
}

func (a *arena[T]) available() int {
	return a.list.Count()
}

func (a *arena[T]) release() error {
	if a.buf == nil {
		return nil
	}
	buf := a.buf
	a.buf = nil
	return a.alloc.Free(buf, a.alignment)
}

type indexed[T any] struct {
	items []T
	list  *freelist.Indexed
}

func newIndexed[T any](capacity int) (*indexed[T], error) {
	list, err := freelist.NewIndexed(capacity)
	if err != nil {
		return nil, err
	}
	return &indexed[T]{items: make([]T, capacity), list: list}, nil
}

func (s *indexed[T]) name() string { return "indexed" }

func (s *indexed[T]) pop() (*T, int) {
	i := s.list.Pop()
	if i < 0 {
		return nil, -1
	}
	return &s.items[i], i
}

func (s *indexed[T]) push(_ *T, slot int) {
	s.list.Push(slot)
}

func (s *indexed[T]) slot(ptr *T) (int, bool) {
	if len(s.items) == 0 || ptr == nil {
		return 0, false
	}
	base := uintptr(unsafe.Pointer(&s.items[0]))
	addr := uintptr(unsafe.Pointer(ptr))
	size := unsafe.Sizeof(s.items[0])
	if addr < base || (addr-base)%size != 0 || (addr-base)/size >= uintptr(len(s.items)) {
		return 0, false
	}
	return int((addr - base) / size), true
}

func (s *indexed[T]) available() int {
	return s.list.Count()
}

func (s *indexed[T]) release() error {
	s.items = nil
	return nil
}
