package list

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEqual(t *testing.T) {
	testcases := []struct {
		name     string
		a, b     []int
		expected bool
	}{
		{"both empty", []int{}, []int{}, true},
		{"same", []int{1, 2, 3}, []int{1, 2, 3}, true},
		{"len mismatch", []int{1, 2}, []int{1, 2, 3}, false},
		{"value mismatch", []int{1, 2, 4}, []int{1, 2, 3}, false},
		{"order mismatch", []int{3, 2, 1}, []int{1, 2, 3}, false},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			a, b := NewSinglyLinkedListFrom(tc.a...), NewSinglyLinkedListFrom(tc.b...)
			require.Equal(t, tc.expected, Equal(a, b))
			require.Equal(t, tc.expected, Equal(b, a))
		})
	}
}

func TestEqualFunc(t *testing.T) {
	a := NewSinglyLinkedListFrom(1, 2, 3)
	b := NewSinglyLinkedListFrom("1", "2", "3")
	require.True(t, EqualFunc(a, b, func(i int, j string) bool {
		return strconv.Itoa(i) == j
	}))
	b.PushBack("4")
	require.False(t, EqualFunc(a, b, func(i int, j string) bool {
		t.Fatal("must short circuit on length")
		return false
	}))
}

func TestCompare(t *testing.T) {
	testcases := []struct {
		name     string
		a, b     []int
		expected int
	}{
		{"both empty", []int{}, []int{}, 0},
		{"equal", []int{1, 2, 3}, []int{1, 2, 3}, 0},
		{"prefix is less", []int{1, 2}, []int{1, 2, 3}, -1},
		{"empty is less", []int{}, []int{0}, -1},
		{"first diff decides", []int{1, 3}, []int{1, 2, 9}, 1},
		{"first diff decides less", []int{0, 9, 9}, []int{1}, -1},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			a, b := NewSinglyLinkedListFrom(tc.a...), NewSinglyLinkedListFrom(tc.b...)
			require.Equal(t, tc.expected, Compare(a, b))
			require.Equal(t, -tc.expected, Compare(b, a))
		})
	}

	require.Equal(t, -1, Compare(
		NewSinglyLinkedListFrom("abc", "a"),
		NewSinglyLinkedListFrom("abc", "b"),
	))
}

func TestClone(t *testing.T) {
	l := NewSinglyLinkedListFrom(1, 2, 3)
	c := l.Clone()
	requireValues(t, []int{1, 2, 3}, c)
	require.True(t, Equal(l, c))

	*c.FrontMut() = 100
	c.PushBack(4)
	requireValues(t, []int{1, 2, 3}, l)
	requireValues(t, []int{100, 2, 3, 4}, c)
	require.False(t, Equal(l, c))
	require.NotSame(t,
		l.(*singlyLinkedList[int]).arena,
		c.(*singlyLinkedList[int]).arena,
	)

	requireValues(t, []int{}, NewSinglyLinkedList[int]().Clone())
}

func TestCloneFunc(t *testing.T) {
	type box struct{ v int }
	l := NewSinglyLinkedListFrom(&box{1}, &box{2})
	c := CloneFunc(l, func(b *box) *box {
		return &box{b.v}
	})
	(*c.FrontMut()).v = 10
	v, _ := l.Front()
	require.Equal(t, 1, v.v)

	shallow := l.Clone()
	(*shallow.FrontMut()).v = 10
	v, _ = l.Front()
	require.Equal(t, 10, v.v)
}

func TestCloneFunc_KeepsChunkSize(t *testing.T) {
	l := NewSinglyLinkedList[int](WithNodeArenaChunkSize(3))
	l.Extend(1, 2, 3, 4)
	c := CloneFunc(l, func(v int) int { return v * 2 })
	requireValues(t, []int{2, 4, 6, 8}, c)
	require.Equal(t, uint32(3), arenaOf(c).chunkSize)
	require.Equal(t, arenaOf(l.Clone()).chunkSize, arenaOf(c).chunkSize)
	require.Equal(t, int64(6), arenaOf(c).Cap())
}

func TestCloneFrom(t *testing.T) {
	testcases := []struct {
		name     string
		dst, src []int
	}{
		{"dst longer", []int{9, 9, 9, 9, 9}, []int{1, 2}},
		{"dst shorter", []int{9}, []int{1, 2, 3, 4}},
		{"same len", []int{9, 9, 9}, []int{1, 2, 3}},
		{"dst empty", []int{}, []int{1, 2}},
		{"src empty", []int{9, 9}, []int{}},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			dst, src := NewSinglyLinkedListFrom(tc.dst...), NewSinglyLinkedListFrom(tc.src...)
			arena := dst.(*singlyLinkedList[int]).arena
			dst.CloneFrom(src)
			requireValues(t, tc.src, dst)
			requireValues(t, tc.src, src)
			require.Equal(t, int64(len(tc.src)), arena.Len())
			require.True(t, Equal(src, dst))
		})
	}

	t.Log("reuses the common prefix in place")
	dst := NewSinglyLinkedListFrom(9, 9, 9)
	front := dst.FrontMut()
	dst.CloneFrom(NewSinglyLinkedListFrom(1, 2))
	require.Equal(t, 1, *front)
	require.Same(t, front, dst.FrontMut())

	t.Log("clone from itself and nil")
	dst.CloneFrom(dst)
	requireValues(t, []int{1, 2}, dst)
	dst.CloneFrom(nil)
	requireValues(t, []int{}, dst)
}
