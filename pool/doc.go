// Package pool provides Pool, a fixed-capacity pool of values of one type.
//
// # Overview
//
// A Pool is created once with a capacity and never grows. Every slot is
// either free, linked into the pool's free list, or live, holding a value
// handed out by Allocate. Allocation and release are O(1) and never block:
// an exhausted pool reports ErrExhausted and leaves it to the caller to
// fall back, wait or fail.
//
//	p, err := pool.New[Order](1024)
//	if err != nil {
//	    return err
//	}
//	defer p.Close()
//
//	o, err := p.Allocate(func(o *Order) error {
//	    return o.Parse(msg)
//	})
//	if errors.Is(err, pool.ErrExhausted) {
//	    // back off
//	}
//	...
//	p.Free(o)
//
// # Layouts
//
// The default arena layout keeps values in one raw buffer obtained from a
// sysalloc.Allocator (an anonymous mapping on linux and darwin). Free slots
// hold the free-list link in their first word, so the element type must be
// aligned at least like a pointer and must not contain Go pointers: the
// garbage collector does not look inside the buffer. New rejects other types
// with ErrUnderAligned or ErrPointerElem.
//
// WithIndexedLinks switches to a GC-visible []T with the links kept in a
// parallel index array, which accepts any element type with a non-zero size.
//
// # Construction
//
// Allocate zeroes the slot and runs the initializer on it in place. If the
// initializer returns an error or panics, the slot goes back to the free list
// before the failure reaches the caller, so a failed Allocate leaves the pool
// exactly as it was.
//
// # Handles
//
// AllocateSmart wraps the value in a *Handle bound to the pool. Release frees
// the value exactly once, Move hands the obligation to a new handle. A nil
// handle is empty and all its methods are no-ops.
//
//	h, err := p.AllocateSmart(nil)
//	if err != nil {
//	    return err
//	}
//	defer h.Release()
//
// # Contract
//
// Pools are not safe for concurrent use. Callers lock around a shared pool
// or give every goroutine its own.
//
// The pool must outlive all of its live values and handles. Close releases
// the buffer unconditionally and does not run Release on values that were
// never freed. Freeing a pointer that did not come from the pool is always
// reported (ErrForeign); double frees and values still live at Close are only
// detected with WithDebug, which keeps a liveness bitmap.
package pool
