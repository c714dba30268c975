// Package sysalloc hands out raw, aligned byte buffers for slot storage.
//
// Buffers returned by an Allocator are not scanned by the garbage collector
// for pointers, so only pointer-free data may be kept in them.
package sysalloc

import (
	"errors"
	"unsafe"

	"github.com/funny-falcon/slotpool/align"
)

var (
	ErrAlignment = errors.New("sysalloc: alignment must be a power of two")
	ErrSize      = errors.New("sysalloc: size must not be negative")
	ErrUnknown   = errors.New("sysalloc: buffer was not allocated here")
)

type Allocator interface {
	// Alloc returns size bytes whose first byte is aligned to alignment.
	Alloc(size, alignment int) ([]byte, error)
	// Free gives back a buffer returned by Alloc with the same alignment.
	Free(buf []byte, alignment int) error
}

func check(size, alignment int) error {
	if size < 0 {
		return ErrSize
	}
	if alignment <= 0 || !align.IsPow2(uintptr(alignment)) {
		return ErrAlignment
	}
	return nil
}

// trim cuts size bytes out of raw starting at the first aligned address.
func trim(raw []byte, size, alignment int) []byte {
	base := unsafe.Pointer(unsafe.SliceData(raw))
	lead := int(uintptr(align.UpPtr(base, uintptr(alignment))) - uintptr(base))
	return raw[lead : lead+size : lead+size]
}

func addr(buf []byte) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(buf)))
}
