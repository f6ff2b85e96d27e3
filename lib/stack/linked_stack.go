package stack

import (
	"github.com/benz9527/xcollections/lib/list"
)

var _ Stack[struct{}] = (*linkedStack[struct{}])(nil)

// linkedStack pushes and pops at the list front, both O(1).
type linkedStack[T any] struct {
	l list.SinglyLinkedList[T]
}

func NewLinkedStack[T any](opts ...list.NodeArenaOption) Stack[T] {
	return &linkedStack[T]{
		l: list.NewSinglyLinkedList[T](opts...),
	}
}

func (s *linkedStack[T]) Len() int64     { return s.l.Len() }
func (s *linkedStack[T]) IsEmpty() bool  { return s.l.IsEmpty() }
func (s *linkedStack[T]) Push(v T)       { s.l.PushFront(v) }
func (s *linkedStack[T]) Pop() (T, bool) { return s.l.PopFront() }
func (s *linkedStack[T]) Top() (T, bool) { return s.l.Front() }
func (s *linkedStack[T]) TopMut() *T     { return s.l.FrontMut() }
