package list

import (
	"fmt"
	"iter"
	"strings"

	"github.com/benz9527/xcollections/lib/infra"
)

var _ SinglyLinkedList[struct{}] = (*singlyLinkedList[struct{}])(nil) // Type check assertion

// The head link owns the first node and every node's next link owns
// its successor. The tail is a lookup only reference to the last node.
// Links carry their node's arena, so after a splice the chain may span
// several arenas. The list's own arena only serves new nodes.
//
//	head                      tail
//	 |                         |
//	 v                         v
//	+---+     +---+     +---+ +---+
//	| 0 |---->| 1 |---->|...|>|n-1|---> nil
//	+---+     +---+     +---+ +---+
//
// Invariants:
//  1. len == 0 <=> head is nil <=> tail is nil.
//  2. len >= 1, tail is reached from head by len-1 next links and its next is nil.
//  3. len == 1, head == tail.
type singlyLinkedList[T any] struct {
	arena *NodeArena[T]
	head  nodeRef[T]
	tail  nodeRef[T]
	len   int64
}

// NewSinglyLinkedList creates an empty list with its own arena.
func NewSinglyLinkedList[T any](opts ...NodeArenaOption) SinglyLinkedList[T] {
	return NewSinglyLinkedListIn[T](NewNodeArena[T](opts...))
}

// NewSinglyLinkedListIn creates an empty list allocating from arena.
func NewSinglyLinkedListIn[T any](arena *NodeArena[T]) SinglyLinkedList[T] {
	if arena == nil {
		arena = NewNodeArena[T]()
	}
	return &singlyLinkedList[T]{arena: arena}
}

// NewSinglyLinkedListFrom creates a list holding values in order.
func NewSinglyLinkedListFrom[T any](values ...T) SinglyLinkedList[T] {
	l := NewSinglyLinkedList[T]()
	l.Extend(values...)
	return l
}

// Collect creates a list holding the values yielded by seq in order.
func Collect[T any](seq iter.Seq[T]) SinglyLinkedList[T] {
	l := NewSinglyLinkedList[T]()
	l.ExtendSeq(seq)
	return l
}

func (l *singlyLinkedList[T]) reset() {
	l.head, l.tail, l.len = nodeRef[T]{}, nodeRef[T]{}, 0
}

func (l *singlyLinkedList[T]) mustResolveTail() *arenaNode[T] {
	if l.len <= 0 {
		panic(infra.WrapErrorStackWithMessage(ErrStaleNodeRef, "[singly-linked-list] resolve tail of empty list"))
	}
	return l.tail.node()
}

// walk follows steps next links from the head.
func (l *singlyLinkedList[T]) walk(steps int64) (nodeRef[T], *arenaNode[T]) {
	ref := l.head
	n := ref.node()
	for ; steps > 0; steps-- {
		ref = n.next
		n = ref.node()
	}
	return ref, n
}

func (l *singlyLinkedList[T]) Len() int64 {
	return l.len
}

func (l *singlyLinkedList[T]) IsEmpty() bool {
	return l.len == 0
}

func (l *singlyLinkedList[T]) Front() (v T, ok bool) {
	if l.len == 0 {
		return v, false
	}
	return l.head.node().elem, true
}

func (l *singlyLinkedList[T]) FrontMut() *T {
	if l.len == 0 {
		return nil
	}
	return &l.head.node().elem
}

func (l *singlyLinkedList[T]) Back() (v T, ok bool) {
	if l.len == 0 {
		return v, false
	}
	return l.mustResolveTail().elem, true
}

func (l *singlyLinkedList[T]) BackMut() *T {
	if l.len == 0 {
		return nil
	}
	return &l.mustResolveTail().elem
}

func (l *singlyLinkedList[T]) PushFront(v T) {
	ref, n := l.arena.allocate(v)
	n.next = l.head
	l.head = ref
	if l.len == 0 {
		l.tail = ref
	}
	l.len++
}

func (l *singlyLinkedList[T]) PopFront() (v T, ok bool) {
	if l.len == 0 {
		return v, false
	}
	head := l.head
	l.head = head.node().next
	l.len--
	if l.len == 0 {
		// The only node is gone, the tail must not outlive it.
		l.tail = nodeRef[T]{}
	}
	return head.release(), true
}

func (l *singlyLinkedList[T]) PushBack(v T) {
	ref, _ := l.arena.allocate(v)
	if l.len == 0 {
		l.head, l.tail = ref, ref
		l.len++
		return
	}
	// Attach to the last node before moving the tail.
	l.mustResolveTail().next = ref
	l.tail = ref
	l.len++
}

func (l *singlyLinkedList[T]) PopBack() (v T, ok bool) {
	if l.len == 0 {
		return v, false
	}
	if l.len == 1 {
		head := l.head
		l.reset()
		return head.release(), true
	}

	prevRef, prev := l.walk(l.len - 2)
	last := prev.next
	if last != l.tail {
		panic(infra.WrapErrorStackWithMessage(ErrStaleNodeRef, "[singly-linked-list] tail is not the last node"))
	}
	prev.next = nodeRef[T]{}
	l.tail = prevRef
	l.len--
	return last.release(), true
}

// migrate moves the values of a foreign SinglyLinkedList implementation
// into a new list in l's arena.
func (l *singlyLinkedList[T]) migrate(other SinglyLinkedList[T]) *singlyLinkedList[T] {
	dst := &singlyLinkedList[T]{arena: l.arena}
	for other.Len() > 0 {
		v, _ := other.PopFront()
		dst.PushBack(v)
	}
	return dst
}

// spliceable returns other's chain if it can be relinked in O(1),
// whatever arena its nodes live in.
func (l *singlyLinkedList[T]) spliceable(other SinglyLinkedList[T]) (*singlyLinkedList[T], bool) {
	o, ok := other.(*singlyLinkedList[T])
	if !ok || o == nil {
		return nil, false
	}
	return o, true
}

func (l *singlyLinkedList[T]) Append(other SinglyLinkedList[T]) {
	if other == nil || other.Len() == 0 {
		return
	}
	o, ok := l.spliceable(other)
	if ok && o == l {
		// avoid self splice
		return
	} else if !ok {
		o = l.migrate(other)
	}

	if l.len == 0 {
		l.head, l.tail, l.len = o.head, o.tail, o.len
	} else {
		l.mustResolveTail().next = o.head
		l.tail = o.tail
		l.len += o.len
	}
	o.reset()
}

func (l *singlyLinkedList[T]) Prepend(other SinglyLinkedList[T]) {
	if other == nil || other.Len() == 0 {
		return
	}
	o, ok := l.spliceable(other)
	if ok && o == l {
		return
	} else if !ok {
		o = l.migrate(other)
	}

	if l.len == 0 {
		l.head, l.tail, l.len = o.head, o.tail, o.len
	} else {
		o.mustResolveTail().next = l.head
		l.head = o.head
		l.len += o.len
	}
	o.reset()
}

func (l *singlyLinkedList[T]) SplitOff(at int64) SinglyLinkedList[T] {
	if at < 0 || at > l.len {
		panic(infra.WrapErrorStackWithMessage(
			ErrSplitOffOutOfBounds,
			fmt.Sprintf("[singly-linked-list] split off at %d, len %d", at, l.len),
		))
	}

	second := &singlyLinkedList[T]{arena: l.arena}
	switch at {
	case 0:
		second.head, second.tail, second.len = l.head, l.tail, l.len
		l.reset()
		return second
	case l.len:
		return second
	default:
	}

	prevRef, prev := l.walk(at - 1)
	second.head, second.tail, second.len = prev.next, l.tail, l.len-at
	prev.next = nodeRef[T]{}
	l.tail = prevRef
	l.len = at
	return second
}

func (l *singlyLinkedList[T]) Extend(values ...T) {
	for _, v := range values {
		l.PushBack(v)
	}
}

func (l *singlyLinkedList[T]) ExtendSeq(seq iter.Seq[T]) {
	if seq == nil {
		return
	}
	for v := range seq {
		l.PushBack(v)
	}
}

// Clear releases the nodes one by one from the head. No recursion, so
// a long chain never grows the call stack. An arena left without live
// nodes drops its chunks.
func (l *singlyLinkedList[T]) Clear() {
	ref := l.head
	for !ref.isNil() {
		next := ref.node().next
		arena := ref.arena
		ref.release()
		if arena.inUse == 0 {
			arena.shrink()
		}
		ref = next
	}
	l.reset()
}

func (l *singlyLinkedList[T]) Foreach(fn func(idx int64, v T) error) error {
	if fn == nil {
		return nil
	}
	for i, it := int64(0), l.Iter(); ; i++ {
		v, ok := it.Next()
		if !ok {
			return nil
		}
		if err := fn(i, v); err != nil {
			return err
		}
	}
}

func (l *singlyLinkedList[T]) Clone() SinglyLinkedList[T] {
	c := &singlyLinkedList[T]{
		arena: NewNodeArena[T](WithNodeArenaChunkSize(l.arena.chunkSize)),
	}
	for v := range l.Values() {
		c.PushBack(v)
	}
	return c
}

func (l *singlyLinkedList[T]) CloneFrom(src SinglyLinkedList[T]) {
	if src == nil {
		l.Clear()
		return
	}
	if o, ok := src.(*singlyLinkedList[T]); ok && o == l {
		return
	}
	if l.len > src.Len() {
		l.SplitOff(src.Len()).Clear()
	}
	srcIt := src.Iter()
	for dstIt := l.IterMut(); ; {
		dst, ok := dstIt.Next()
		if !ok {
			break
		}
		*dst, _ = srcIt.Next()
	}
	for v, ok := srcIt.Next(); ok; v, ok = srcIt.Next() {
		l.PushBack(v)
	}
}

func (l *singlyLinkedList[T]) String() string {
	builder := strings.Builder{}
	_, _ = builder.WriteString("[")
	for i, v := range l.All() {
		if i > 0 {
			_, _ = builder.WriteString(" ")
		}
		_, _ = fmt.Fprint(&builder, v)
	}
	_, _ = builder.WriteString("]")
	return builder.String()
}
