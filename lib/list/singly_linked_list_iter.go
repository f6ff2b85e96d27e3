package list

import "iter"

// Iter is a forward, read only, exact size cursor over a list.
// It borrows the list: mutating the list while iterating makes the
// next step panic with ErrStaleNodeRef once it reaches a released node.
// Once exhausted it keeps returning false.
type Iter[T any] struct {
	next      nodeRef[T]
	remaining int64
}

func (it *Iter[T]) Next() (v T, ok bool) {
	if it == nil || it.remaining <= 0 {
		return v, false
	}
	n := it.next.node()
	it.next = n.next
	it.remaining--
	return n.elem, true
}

// Len returns the number of values left.
func (it *Iter[T]) Len() int64 {
	if it == nil {
		return 0
	}
	return it.remaining
}

func (it *Iter[T]) IsEmpty() bool {
	return it.Len() == 0
}

// IterMut is Iter yielding pointers to the values in place.
type IterMut[T any] struct {
	next      nodeRef[T]
	remaining int64
}

func (it *IterMut[T]) Next() (*T, bool) {
	if it == nil || it.remaining <= 0 {
		return nil, false
	}
	n := it.next.node()
	it.next = n.next
	it.remaining--
	return &n.elem, true
}

func (it *IterMut[T]) Len() int64 {
	if it == nil {
		return 0
	}
	return it.remaining
}

func (it *IterMut[T]) IsEmpty() bool {
	return it.Len() == 0
}

// IntoIter drains the list it was created from.
type IntoIter[T any] struct {
	list SinglyLinkedList[T]
}

func (it *IntoIter[T]) Next() (T, bool) {
	return it.list.PopFront()
}

func (it *IntoIter[T]) Len() int64 {
	return it.list.Len()
}

func (it *IntoIter[T]) IsEmpty() bool {
	return it.list.IsEmpty()
}

func (l *singlyLinkedList[T]) Iter() *Iter[T] {
	return &Iter[T]{
		next:      l.head,
		remaining: l.len,
	}
}

func (l *singlyLinkedList[T]) IterMut() *IterMut[T] {
	return &IterMut[T]{
		next:      l.head,
		remaining: l.len,
	}
}

func (l *singlyLinkedList[T]) IntoIter() *IntoIter[T] {
	return &IntoIter[T]{list: l}
}

func (l *singlyLinkedList[T]) All() iter.Seq2[int64, T] {
	return func(yield func(int64, T) bool) {
		it := l.Iter()
		for i := int64(0); ; i++ {
			v, ok := it.Next()
			if !ok || !yield(i, v) {
				return
			}
		}
	}
}

func (l *singlyLinkedList[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		it := l.Iter()
		for v, ok := it.Next(); ok; v, ok = it.Next() {
			if !yield(v) {
				return
			}
		}
	}
}
