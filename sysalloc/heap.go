package sysalloc

// Heap allocates from the Go heap. Memory is reclaimed by the garbage
// collector once the last reference to the buffer is dropped.
type Heap struct{}

func (Heap) Alloc(size, alignment int) ([]byte, error) {
	if err := check(size, alignment); err != nil {
		return nil, err
	}
	if size == 0 {
		return nil, nil
	}
	raw := make([]byte, size+alignment-1)
	return trim(raw, size, alignment), nil
}

func (Heap) Free(buf []byte, alignment int) error {
	return check(len(buf), alignment)
}
