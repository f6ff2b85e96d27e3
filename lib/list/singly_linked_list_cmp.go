package list

import (
	"github.com/benz9527/xcollections/lib/infra"
)

// Equal reports whether a and b hold equal values in the same order.
// Lists of different lengths are never equal.
func Equal[T comparable](a, b SinglyLinkedList[T]) bool {
	return EqualFunc(a, b, func(i, j T) bool {
		return i == j
	})
}

func EqualFunc[T, U any](a SinglyLinkedList[T], b SinglyLinkedList[U], eq func(i T, j U) bool) bool {
	if a.Len() != b.Len() {
		return false
	}
	ai, bi := a.Iter(), b.Iter()
	for {
		i, ok := ai.Next()
		if !ok {
			return true
		}
		j, _ := bi.Next()
		if !eq(i, j) {
			return false
		}
	}
}

// Compare orders a and b lexicographically by their values.
// A list is less than every longer list it is a prefix of.
func Compare[T infra.OrderedKey](a, b SinglyLinkedList[T]) int {
	return CompareFunc(a, b, infra.CompareOrderedKey[T])
}

func CompareFunc[T, U any](a SinglyLinkedList[T], b SinglyLinkedList[U], cmp func(i T, j U) int) int {
	ai, bi := a.Iter(), b.Iter()
	for {
		i, iok := ai.Next()
		j, jok := bi.Next()
		switch {
		case !iok && !jok:
			return 0
		case !iok:
			return -1
		case !jok:
			return 1
		}
		if res := cmp(i, j); res != 0 {
			return res
		}
	}
}

// CloneFunc copies l into an independent list, fn produces the copy of
// each value. Use it when T holds pointers that must not be shared.
func CloneFunc[T any](l SinglyLinkedList[T], fn func(v T) T) SinglyLinkedList[T] {
	var opts []NodeArenaOption
	if src, ok := l.(*singlyLinkedList[T]); ok && src != nil {
		opts = append(opts, WithNodeArenaChunkSize(src.arena.chunkSize))
	}
	c := NewSinglyLinkedList[T](opts...)
	for v := range l.Values() {
		c.PushBack(fn(v))
	}
	return c
}

func ToSlice[T any](l SinglyLinkedList[T]) []T {
	res := make([]T, 0, l.Len())
	for v := range l.Values() {
		res = append(res, v)
	}
	return res
}
