package pool

import "errors"

// Handles collects handles to release together. A nil *Handles ignores
// Add and releases nothing.
type Handles[T any] struct {
	R []*Handle[T]
}

func (r *Handles[T]) Add(h *Handle[T]) {
	if r == nil || h.Empty() {
		return
	}
	r.R = append(r.R, h)
}

func (r *Handles[T]) Len() int {
	if r == nil {
		return 0
	}
	return len(r.R)
}

func (r *Handles[T]) Release() error {
	if r == nil {
		return nil
	}
	var errs []error
	for _, h := range r.R {
		if err := h.Release(); err != nil {
			errs = append(errs, err)
		}
	}
	clear(r.R)
	r.R = r.R[:0]
	return errors.Join(errs...)
}
