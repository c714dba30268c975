package freelist

// Indexed is the LIFO free list with links kept outside the slots.
type Indexed struct {
	next []int32
	head int32
}

const none = -1

func NewIndexed(capacity int) (*Indexed, error) {
	if capacity < 0 || capacity > 1<<31-1 {
		return nil, ErrCapacity
	}
	l := &Indexed{next: make([]int32, capacity), head: none}
	if capacity == 0 {
		return l, nil
	}
	for i := range l.next {
		l.next[i] = int32(i + 1)
	}
	l.next[capacity-1] = none
	l.head = 0
	return l, nil
}

// Pop returns the head slot or -1 when the list is empty.
func (l *Indexed) Pop() int {
	head := l.head
	if head != none {
		l.head = l.next[head]
	}
	return int(head)
}

func (l *Indexed) Push(i int) {
	l.next[i] = l.head
	l.head = int32(i)
}

func (l *Indexed) Cap() int {
	return len(l.next)
}

func (l *Indexed) Empty() bool {
	return l.head == none
}

func (l *Indexed) Count() int {
	n := 0
	for i := l.head; i != none && n <= len(l.next); n++ {
		i = l.next[i]
	}
	return n
}
