package queue

import (
	"github.com/benz9527/xcollections/lib/list"
)

var _ Queue[struct{}] = (*linkedQueue[struct{}])(nil)

// linkedQueue pushes at the list back and pops at the front, both O(1).
type linkedQueue[E any] struct {
	l list.SinglyLinkedList[E]
}

func NewLinkedQueue[E any](opts ...list.NodeArenaOption) Queue[E] {
	return &linkedQueue[E]{
		l: list.NewSinglyLinkedList[E](opts...),
	}
}

func (q *linkedQueue[E]) Len() int64     { return q.l.Len() }
func (q *linkedQueue[E]) IsEmpty() bool  { return q.l.IsEmpty() }
func (q *linkedQueue[E]) Push(v E)       { q.l.PushBack(v) }
func (q *linkedQueue[E]) Pop() (E, bool) { return q.l.PopFront() }
func (q *linkedQueue[E]) Top() (E, bool) { return q.l.Front() }
func (q *linkedQueue[E]) TopMut() *E     { return q.l.FrontMut() }
