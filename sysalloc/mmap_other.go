//go:build !(linux || darwin)

package sysalloc

var Default Allocator = Heap{}
