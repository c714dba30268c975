package pool

// Handle owns one live value and frees it on Release. Handles are passed
// by pointer and must not be copied; Move transfers ownership explicitly.
// A nil *Handle is empty.
type Handle[T any] struct {
	noCopy noCopy

	pool *Pool[T]
	ptr  *T
}

func (h *Handle[T]) Get() *T {
	if h == nil {
		return nil
	}
	return h.ptr
}

func (h *Handle[T]) Empty() bool {
	return h == nil || h.ptr == nil
}

// Release frees the value. Only the first call does anything.
func (h *Handle[T]) Release() error {
	if h.Empty() {
		return nil
	}
	p, ptr := h.pool, h.ptr
	h.pool, h.ptr = nil, nil
	return p.Free(ptr)
}

// Move returns a handle that takes over the value and leaves h empty.
func (h *Handle[T]) Move() *Handle[T] {
	if h.Empty() {
		return nil
	}
	n := &Handle[T]{pool: h.pool, ptr: h.ptr}
	h.pool, h.ptr = nil, nil
	return n
}

// Detach gives up ownership without freeing. The caller becomes
// responsible for passing the value to Pool.Free.
func (h *Handle[T]) Detach() *T {
	if h.Empty() {
		return nil
	}
	ptr := h.ptr
	h.pool, h.ptr = nil, nil
	return ptr
}
