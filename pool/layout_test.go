package pool

import (
	"reflect"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

type flat struct {
	a int64
	b [3]float64
	c struct{ d, e uint32 }
}

type withString struct {
	a int64
	s string
}

func TestHasPointers(t *testing.T) {
	cases := []struct {
		v    interface{}
		want bool
	}{
		{int64(0), false},
		{uintptr(0), false},
		{flat{}, false},
		{[0]*int{}, false},
		{[2]*int{}, true},
		{withString{}, true},
		{[]int{}, true},
		{map[int]int{}, true},
		{unsafe.Pointer(nil), true},
		{func() {}, true},
		{make(chan int), true},
	}
	for _, c := range cases {
		rt := reflect.TypeOf(c.v)
		assert.Equal(t, c.want, hasPointers(rt), rt.String())
	}
}

func TestLayoutOf(t *testing.T) {
	lay := layoutOf[flat]()
	assert.Equal(t, "pool.flat", lay.name)
	assert.Equal(t, unsafe.Sizeof(flat{}), lay.size)
	assert.Equal(t, unsafe.Alignof(flat{}), lay.align)
	assert.Equal(t, lay.size, lay.stride)
	assert.False(t, lay.pointers)

	lay = layoutOf[error]()
	assert.Equal(t, "error", lay.name)
	assert.True(t, lay.pointers)
}
