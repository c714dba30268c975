//go:build linux || darwin

package sysalloc

import (
	"fmt"
	"sync"

	"golang.org/x/sys/unix"
)

var Default Allocator = &Mmap{}

// Mmap serves every buffer from its own anonymous private mapping. Alignment
// up to the page size comes for free; larger alignment is over-mapped.
type Mmap struct {
	sync.Mutex
	regions map[uintptr][]byte
}

func (m *Mmap) Alloc(size, alignment int) ([]byte, error) {
	if err := check(size, alignment); err != nil {
		return nil, err
	}
	if size == 0 {
		return nil, nil
	}
	page := unix.Getpagesize()
	ln := (size + page - 1) &^ (page - 1)
	if alignment > page {
		ln += alignment
	}
	region, err := unix.Mmap(-1, 0, ln, unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("sysalloc: mmap %d bytes: %w", ln, err)
	}
	buf := trim(region, size, alignment)

	m.Lock()
	defer m.Unlock()
	if m.regions == nil {
		m.regions = make(map[uintptr][]byte)
	}
	m.regions[addr(buf)] = region
	return buf, nil
}

func (m *Mmap) Free(buf []byte, alignment int) error {
	if err := check(len(buf), alignment); err != nil {
		return err
	}
	if len(buf) == 0 {
		return nil
	}
	m.Lock()
	region, ok := m.regions[addr(buf)]
	delete(m.regions, addr(buf))
	m.Unlock()
	if !ok {
		return ErrUnknown
	}
	if err := unix.Munmap(region); err != nil {
		return fmt.Errorf("sysalloc: munmap: %w", err)
	}
	return nil
}

// Mapped reports how many regions are currently mapped.
func (m *Mmap) Mapped() int {
	m.Lock()
	defer m.Unlock()
	return len(m.regions)
}
