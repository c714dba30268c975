// Package bitmap is a growable two level bitmap used to track live slots.
package bitmap

import "math/bits"

// Bitmap keeps one bit per id in L3 and one bit per non-empty L3 word in L2,
// so loops skip empty regions a word of L2 at a time.
type Bitmap struct {
	Size uint32
	L2   []uint32
	L3   []uint32
}

func New(n int) *Bitmap {
	bm := &Bitmap{}
	if n > 0 {
		bm.grow(n - 1)
	}
	return bm
}

func (bm *Bitmap) grow(ix int) {
	words := ix/32 + 1
	if words <= len(bm.L3) {
		return
	}
	l3 := make([]uint32, words)
	copy(l3, bm.L3)
	l2 := make([]uint32, (words+31)/32)
	copy(l2, bm.L2)
	bm.L3, bm.L2 = l3, l2
}

func (bm *Bitmap) Set(ix int) bool {
	bm.grow(ix)
	if Set(bm.L3, ix) {
		bm.Size++
		Set(bm.L2, ix/32)
		return true
	}
	return false
}

func (bm *Bitmap) Unset(ix int) bool {
	if ix/32 >= len(bm.L3) {
		return false
	}
	if Unset(bm.L3, ix) {
		bm.Size--
		if bm.L3[ix/32] == 0 {
			Unset(bm.L2, ix/32)
		}
		return true
	}
	return false
}

func (bm *Bitmap) Has(ix int) bool {
	if ix < 0 || ix/32 >= len(bm.L3) {
		return false
	}
	return Has(bm.L3, ix)
}

func (bm *Bitmap) Count() uint32 {
	return bm.Size
}

func (bm *Bitmap) Reset() {
	clear(bm.L2)
	clear(bm.L3)
	bm.Size = 0
}

// Loop calls f for every set id in ascending order until f returns false.
func (bm *Bitmap) Loop(f func(ix int) bool) {
	for l2ix, l2v := range bm.L2 {
		for l2v != 0 {
			l3ix := l2ix*32 + bits.TrailingZeros32(l2v)
			l2v &= l2v - 1
			l3v := bm.L3[l3ix]
			for l3v != 0 {
				ix := l3ix*32 + bits.TrailingZeros32(l3v)
				l3v &= l3v - 1
				if !f(ix) {
					return
				}
			}
		}
	}
}

// Array returns up to limit set ids, all of them when limit <= 0.
func (bm *Bitmap) Array(limit int) []int {
	res := make([]int, 0, bm.Size)
	bm.Loop(func(ix int) bool {
		res = append(res, ix)
		return limit <= 0 || len(res) < limit
	})
	return res
}
