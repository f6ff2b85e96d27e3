package list

import (
	"math"

	"github.com/benz9527/xcollections/lib/infra"
)

const (
	defaultNodeArenaChunkSize  = 256
	defaultNodeArenaRecycleCap = 64
)

// nodeRef addresses a slot in the arena that owns it, so a chain may
// run through nodes of several arenas. The index 0 is reserved as the
// nil reference. gen must match the slot's generation, otherwise the
// slot has been released after the reference was taken.
type nodeRef[T any] struct {
	arena *NodeArena[T]
	idx   uint32
	gen   uint32
}

func (ref nodeRef[T]) isNil() bool {
	return ref.arena == nil || ref.idx == 0
}

// node resolves ref in its own arena. A nil ref resolves to nil.
func (ref nodeRef[T]) node() *arenaNode[T] {
	if ref.isNil() {
		return nil
	}
	return ref.arena.resolve(ref)
}

// release returns the slot to its own arena.
func (ref nodeRef[T]) release() T {
	if ref.isNil() {
		panic(infra.WrapErrorStack(ErrStaleNodeRef))
	}
	return ref.arena.release(ref)
}

type arenaNode[T any] struct {
	next  nodeRef[T] // owning link
	gen   uint32
	inUse bool
	elem  T
}

// NodeArena stores list nodes in fixed size chunks and hands out
// indices instead of pointers. A chunk is never reallocated, so the
// address of a node's value is stable while the node is alive.
// Released slots are recycled before new chunks are grown. The chunks
// are dropped only by a Clear that leaves no node alive.
type NodeArena[T any] struct {
	chunks     [][]arenaNode[T]
	recycled   []uint32
	chunkSize  uint32
	recycleCap uint32
	next       uint32 // next never used slot index
	inUse      int64
	// Fresh slots start at genBase. It is raised above every generation
	// handed out so far whenever the chunks are dropped.
	genBase uint32
	maxGen  uint32
}

type nodeArenaOptions struct {
	chunkSize  uint32
	recycleCap uint32
}

type NodeArenaOption func(*nodeArenaOptions)

// WithNodeArenaChunkSize sets how many nodes are allocated at once.
func WithNodeArenaChunkSize(size uint32) NodeArenaOption {
	return func(opts *nodeArenaOptions) {
		if size > 0 {
			opts.chunkSize = size
		}
	}
}

func WithNodeArenaRecycleCap(cap uint32) NodeArenaOption {
	return func(opts *nodeArenaOptions) {
		opts.recycleCap = cap
	}
}

func NewNodeArena[T any](opts ...NodeArenaOption) *NodeArena[T] {
	o := &nodeArenaOptions{
		chunkSize:  defaultNodeArenaChunkSize,
		recycleCap: defaultNodeArenaRecycleCap,
	}
	for _, opt := range opts {
		opt(o)
	}
	return &NodeArena[T]{
		chunks:     make([][]arenaNode[T], 0, 8),
		recycled:   make([]uint32, 0, o.recycleCap),
		chunkSize:  o.chunkSize,
		recycleCap: o.recycleCap,
		next:       1, // non-zero index
	}
}

// Len returns the number of live nodes.
func (arena *NodeArena[T]) Len() int64 {
	return arena.inUse
}

// Cap returns the number of slots the arena has grown.
func (arena *NodeArena[T]) Cap() int64 {
	return int64(len(arena.chunks)) * int64(arena.chunkSize)
}

// Recycled returns the number of released slots waiting for reuse.
func (arena *NodeArena[T]) Recycled() int {
	return len(arena.recycled)
}

func (arena *NodeArena[T]) slot(idx uint32) *arenaNode[T] {
	return &arena.chunks[idx/arena.chunkSize][idx%arena.chunkSize]
}

func (arena *NodeArena[T]) allocate(v T) (nodeRef[T], *arenaNode[T]) {
	var idx uint32
	if rl := len(arena.recycled); rl > 0 {
		idx = arena.recycled[rl-1]
		arena.recycled = arena.recycled[:rl-1]
	} else {
		if arena.next == math.MaxUint32 {
			panic(infra.WrapErrorStack(ErrArenaExhausted))
		}
		idx = arena.next
		arena.next++
		if /* grow */ int(idx/arena.chunkSize) >= len(arena.chunks) {
			arena.chunks = append(arena.chunks, make([]arenaNode[T], arena.chunkSize))
		}
		arena.slot(idx).gen = arena.genBase
	}
	n := arena.slot(idx)
	n.inUse = true
	n.next = nodeRef[T]{}
	n.elem = v
	arena.inUse++
	return nodeRef[T]{arena: arena, idx: idx, gen: n.gen}, n
}

// resolve returns the node behind ref. A nil ref resolves to nil.
// Resolving a released or foreign slot is an invariant violation.
func (arena *NodeArena[T]) resolve(ref nodeRef[T]) *arenaNode[T] {
	if ref.isNil() {
		return nil
	}
	if ref.arena != arena || ref.idx >= arena.next {
		panic(infra.WrapErrorStack(ErrStaleNodeRef))
	}
	n := arena.slot(ref.idx)
	if !n.inUse || n.gen != ref.gen {
		panic(infra.WrapErrorStack(ErrStaleNodeRef))
	}
	return n
}

// release frees the slot and returns the value it held. The slot's
// generation is bumped so that every outstanding ref to it goes stale.
func (arena *NodeArena[T]) release(ref nodeRef[T]) T {
	n := arena.resolve(ref)
	if n == nil {
		panic(infra.WrapErrorStack(ErrStaleNodeRef))
	}
	v := n.elem
	var zero T
	n.elem = zero // avoid memory leaks
	n.next = nodeRef[T]{}
	n.inUse = false
	n.gen++
	arena.maxGen = max(arena.maxGen, n.gen)
	arena.recycled = append(arena.recycled, ref.idx)
	arena.inUse--
	return v
}

// shrink drops every chunk once no node is alive, so a torn down list
// gives its memory back to the GC. Refs taken before stay stale: their
// index is past next, or their generation is below genBase once the
// slots are grown again.
func (arena *NodeArena[T]) shrink() bool {
	if arena.inUse != 0 || len(arena.chunks) == 0 {
		return false
	}
	arena.chunks = make([][]arenaNode[T], 0, 8)
	arena.recycled = make([]uint32, 0, arena.recycleCap)
	arena.next = 1
	arena.genBase = arena.maxGen + 1
	arena.maxGen = arena.genBase
	return true
}
