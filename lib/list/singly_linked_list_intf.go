package list

import (
	"errors"
	"iter"
)

// Note that the singly linked list is not thread safe.
// Lists sharing a NodeArena must be confined to the same goroutine.
// A list shares the arenas of the lists it was split from or spliced
// with, since spliced nodes stay in the arena that allocated them.

var (
	ErrSplitOffOutOfBounds = errors.New("[singly-linked-list] split off index out of bounds")
	ErrStaleNodeRef        = errors.New("[singly-linked-list] stale node reference")
	ErrArenaExhausted      = errors.New("[node-arena] slot indices exhausted")
)

// SinglyLinkedList is a forward only linked list with O(1) insertion
// at both ends, O(1) splicing and O(at) splitting.
// Values are returned together with a presence flag. An empty list is
// not an error.
type SinglyLinkedList[T any] interface {
	Len() int64
	IsEmpty() bool
	// Front returns the first value or false if the list is empty.
	Front() (T, bool)
	// FrontMut returns a pointer to the first value or nil if the list is empty.
	// The pointer is valid until the value is removed from the list.
	FrontMut() *T
	// Back returns the last value or false if the list is empty.
	Back() (T, bool)
	// BackMut returns a pointer to the last value or nil if the list is empty.
	BackMut() *T
	PushFront(v T)
	PopFront() (T, bool)
	PushBack(v T)
	// PopBack removes the last value. It walks the whole list, O(n).
	PopBack() (T, bool)
	// Append moves all values of other to the back of l, leaving other empty.
	// The nodes are relinked in O(1), not copied.
	Append(other SinglyLinkedList[T])
	// Prepend moves all values of other to the front of l, leaving other empty.
	Prepend(other SinglyLinkedList[T])
	// SplitOff keeps [0, at) in l and returns a new list holding [at, Len()).
	// It panics if at is out of [0, Len()].
	SplitOff(at int64) SinglyLinkedList[T]
	// Extend pushes the values to the back of l in order.
	Extend(values ...T)
	ExtendSeq(seq iter.Seq[T])
	// Clear releases every node back to the arena.
	Clear()
	Iter() *Iter[T]
	IterMut() *IterMut[T]
	// IntoIter consumes l, each step pops the front value.
	IntoIter() *IntoIter[T]
	All() iter.Seq2[int64, T]
	Values() iter.Seq[T]
	// Foreach traverses the list l and executes function fn for each value.
	// If fn returns an error, the traversal stops and returns the error.
	Foreach(fn func(idx int64, v T) error) error
	// Clone copies the values by assignment into an independent list.
	Clone() SinglyLinkedList[T]
	// CloneFrom makes l equal to src, reusing the nodes l already holds.
	CloneFrom(src SinglyLinkedList[T])
	String() string
}
