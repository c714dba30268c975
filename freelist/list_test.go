package freelist_test

import (
	"math/rand"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funny-falcon/slotpool/align"
	"github.com/funny-falcon/slotpool/freelist"
)

type node struct {
	value int64
	extra [2]uint64
}

const (
	stride    = unsafe.Sizeof(node{})
	alignment = unsafe.Alignof(node{})
)

func newList(t *testing.T, n int) (*freelist.List, []byte) {
	t.Helper()
	buf := make([]byte, uintptr(n)*stride+alignment)
	l, err := freelist.New(buf, stride, alignment, n)
	require.NoError(t, err)
	return l, buf
}

func TestList_empty(t *testing.T) {
	l, _ := newList(t, 1)
	p := l.Pop()
	require.NotNil(t, p)
	require.Nil(t, l.Pop())
	require.True(t, l.Empty())
	l.Push(p)
	require.Equal(t, p, l.Pop())
}

func TestList_zeroCapacity(t *testing.T) {
	l, err := freelist.New(nil, stride, alignment, 0)
	require.NoError(t, err)
	assert.Nil(t, l.Pop())
	assert.Equal(t, 0, l.Count())
	_, ok := l.Slot(unsafe.Pointer(&node{}))
	assert.False(t, ok)
}

func TestList_layout(t *testing.T) {
	const n = 10
	l, buf := newList(t, n)
	lo := uintptr(unsafe.Pointer(&buf[0]))
	hi := lo + uintptr(len(buf))
	for i := 0; i < n; i++ {
		p := l.Pop()
		require.NotNil(t, p)
		require.Equal(t, l.At(i), p, "first pop order follows the buffer")
		require.True(t, align.Aligned(p, alignment))
		require.GreaterOrEqual(t, uintptr(p), lo)
		require.LessOrEqual(t, uintptr(p)+stride, hi)
		ix, ok := l.Slot(p)
		require.True(t, ok)
		require.Equal(t, i, ix)
	}
	require.Nil(t, l.Pop())
}

func TestList_lifo(t *testing.T) {
	const n = 10
	l, _ := newList(t, n)
	popped := make([]unsafe.Pointer, 0, n)
	for i := 0; i < n; i++ {
		p := l.Pop()
		require.NotNil(t, p)
		popped = append(popped, p)
	}
	require.Nil(t, l.Pop())
	for _, p := range popped {
		l.Push(p)
	}
	require.Equal(t, n, l.Count())
	for i := 0; i < n; i++ {
		require.Equal(t, popped[n-1-i], l.Pop())
	}
}

func TestList_stress(t *testing.T) {
	const n = 10000
	l, _ := newList(t, n)
	rng := rand.New(rand.NewSource(1))
	popped := make([]unsafe.Pointer, 0, n)
	for round := 0; round < 4; round++ {
		for p := l.Pop(); p != nil; p = l.Pop() {
			popped = append(popped, p)
		}
		require.Len(t, popped, n)
		require.Equal(t, 0, l.Count())
		rng.Shuffle(len(popped), func(i, j int) {
			popped[i], popped[j] = popped[j], popped[i]
		})
		seen := make(map[unsafe.Pointer]bool, n)
		for _, p := range popped {
			require.False(t, seen[p], "slot surfaced twice")
			seen[p] = true
			l.Push(p)
		}
		popped = popped[:0]
		require.Equal(t, n, l.Count())
	}
}

func TestList_misalignedBuffer(t *testing.T) {
	const n = 7
	raw := make([]byte, n*int(stride)+int(alignment)+3)
	buf := raw[3:]
	l, err := freelist.New(buf, stride, alignment, n)
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		p := l.Pop()
		require.NotNil(t, p)
		require.True(t, align.Aligned(p, alignment))
	}
	require.Nil(t, l.Pop())
}

func TestList_slot(t *testing.T) {
	l, _ := newList(t, 4)
	_, ok := l.Slot(unsafe.Add(l.At(1), 1))
	assert.False(t, ok)
	_, ok = l.Slot(l.At(4))
	assert.False(t, ok)
	_, ok = l.Slot(nil)
	assert.False(t, ok)
	var other node
	_, ok = l.Slot(unsafe.Pointer(&other))
	assert.False(t, ok)
	ix, ok := l.Slot(l.At(3))
	assert.True(t, ok)
	assert.Equal(t, 3, ix)
}

func TestNew_validation(t *testing.T) {
	buf := make([]byte, 1024)
	_, err := freelist.New(buf, stride, alignment, -1)
	require.ErrorIs(t, err, freelist.ErrCapacity)
	_, err = freelist.New(buf, 24, 12, 4)
	require.ErrorIs(t, err, freelist.ErrAlignment)
	_, err = freelist.New(buf, 8, 2, 4)
	require.ErrorIs(t, err, freelist.ErrUnderAligned)
	_, err = freelist.New(buf, align.PtrSize+align.PtrSize/2, align.PtrAlign, 4)
	require.ErrorIs(t, err, freelist.ErrStride)
	_, err = freelist.New(buf[:40], stride, alignment, 100)
	require.ErrorIs(t, err, freelist.ErrShortBuffer)
	_, err = freelist.New(nil, stride, alignment, 1)
	require.ErrorIs(t, err, freelist.ErrShortBuffer)
}
