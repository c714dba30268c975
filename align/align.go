// Package align is address arithmetic for slot layout.
package align

import "unsafe"

const (
	PtrSize  = unsafe.Sizeof(uintptr(0))
	PtrAlign = unsafe.Alignof(uintptr(0))
)

func IsPow2(n uintptr) bool {
	return n != 0 && n&(n-1) == 0
}

func Advance(addr, n uintptr) uintptr {
	return addr + n
}

// Up rounds addr up to alignment. A non power of two alignment is a
// programming error and panics.
func Up(addr, alignment uintptr) uintptr {
	if !IsPow2(alignment) {
		panic("align: alignment must be a power of two")
	}
	return (addr + alignment - 1) &^ (alignment - 1)
}

func UpOffset(addr, alignment, offset uintptr) uintptr {
	return Up(Advance(addr, offset), alignment)
}

func AdvancePtr(p unsafe.Pointer, n uintptr) unsafe.Pointer {
	return unsafe.Add(p, n)
}

// UpPtr is Up for pointers. The result is derived from p, so it stays
// valid for as long as the memory behind p does.
func UpPtr(p unsafe.Pointer, alignment uintptr) unsafe.Pointer {
	addr := uintptr(p)
	return unsafe.Add(p, Up(addr, alignment)-addr)
}

func UpOffsetPtr(p unsafe.Pointer, alignment, offset uintptr) unsafe.Pointer {
	return UpPtr(AdvancePtr(p, offset), alignment)
}

func Aligned(p unsafe.Pointer, alignment uintptr) bool {
	return uintptr(p)&(alignment-1) == 0
}

func Word(p unsafe.Pointer) *uintptr {
	return (*uintptr)(p)
}
