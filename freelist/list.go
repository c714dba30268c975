// Package freelist keeps fixed-stride slots in a LIFO stack.
//
// List is intrusive: a free slot stores the link to the next free slot in
// its first machine word, so the list needs no memory besides its head.
// Indexed keeps the links in a separate array instead, for element types
// whose slots cannot host a link word.
//
// Neither list is safe for concurrent use.
package freelist

import (
	"errors"
	"unsafe"

	"github.com/funny-falcon/slotpool/align"
)

var (
	ErrAlignment    = errors.New("freelist: alignment must be a power of two")
	ErrUnderAligned = errors.New("freelist: slot alignment is below pointer alignment")
	ErrStride       = errors.New("freelist: stride must hold a link word and keep slots aligned")
	ErrShortBuffer  = errors.New("freelist: buffer is too small for capacity")
	ErrCapacity     = errors.New("freelist: capacity must not be negative")
)

// List links are offset+1 from base; 0 means empty.
type List struct {
	base   unsafe.Pointer
	stride uintptr
	cap    int
	head   uintptr
}

func New(buf []byte, stride, alignment uintptr, capacity int) (*List, error) {
	switch {
	case capacity < 0:
		return nil, ErrCapacity
	case !align.IsPow2(alignment):
		return nil, ErrAlignment
	case alignment < align.PtrAlign:
		return nil, ErrUnderAligned
	case stride < align.PtrSize || stride%alignment != 0:
		return nil, ErrStride
	}
	l := &List{stride: stride, cap: capacity}
	if capacity == 0 {
		return l, nil
	}
	if len(buf) == 0 {
		return nil, ErrShortBuffer
	}
	start := unsafe.Pointer(unsafe.SliceData(buf))
	l.base = align.UpPtr(start, alignment)
	lead := uintptr(l.base) - uintptr(start)
	if uintptr(len(buf)) < lead || (uintptr(len(buf))-lead)/stride < uintptr(capacity) {
		return nil, ErrShortBuffer
	}
	for i := 0; i < capacity-1; i++ {
		*align.Word(l.At(i)) = uintptr(i+1)*stride + 1
	}
	*align.Word(l.At(capacity - 1)) = 0
	l.head = 1
	return l, nil
}

func (l *List) At(i int) unsafe.Pointer {
	return unsafe.Add(l.base, uintptr(i)*l.stride)
}

func (l *List) Pop() unsafe.Pointer {
	if l.head == 0 {
		return nil
	}
	p := unsafe.Add(l.base, l.head-1)
	l.head = *align.Word(p)
	return p
}

// Push makes p the head. p must be a slot of this list that is not
// already free; its first word is overwritten.
func (l *List) Push(p unsafe.Pointer) {
	*align.Word(p) = l.head
	l.head = uintptr(p) - uintptr(l.base) + 1
}

// Slot returns the index of the slot starting at p, or false if p is
// outside the list or not at a slot boundary.
func (l *List) Slot(p unsafe.Pointer) (int, bool) {
	if l.cap == 0 || p == nil {
		return 0, false
	}
	off := uintptr(p) - uintptr(l.base)
	if uintptr(p) < uintptr(l.base) || off%l.stride != 0 || off/l.stride >= uintptr(l.cap) {
		return 0, false
	}
	return int(off / l.stride), true
}

func (l *List) Cap() int {
	return l.cap
}

func (l *List) Stride() uintptr {
	return l.stride
}

func (l *List) Empty() bool {
	return l.head == 0
}

// Count walks the list. It is O(free slots) and meant for diagnostics.
func (l *List) Count() int {
	n := 0
	for next := l.head; next != 0 && n <= l.cap; n++ {
		next = *align.Word(unsafe.Add(l.base, next-1))
	}
	return n
}
