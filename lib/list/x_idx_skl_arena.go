package list

import (
	"math"
)

// The head sentinel always occupies slot 0. No node links back to the
// head, so a successor slot of 0 means "no successor" and a predecessor
// slot of 0 means "preceded by the head".
const xIdxSklHeadSlot uint32 = 0

// xIdxSklIndex is one forward link of a node at a single level.
type xIdxSklIndex struct {
	succ uint32 // successor slot at this level.
	// Number of level-0 nodes covered by the link. For a link without
	// successor it is the distance from the source rank to the list length.
	span int
}

// xIdxSklNode is an arena resident node.
// A node with len(indices) == 0 is a recycled (free) slot.
type xIdxSklNode[T any] struct {
	indices []xIdxSklIndex
	pred    uint32 // level-0 predecessor, works for the backward iteration.
	elem    T
}

func (node *xIdxSklNode[T]) level() int32 {
	return int32(len(node.indices))
}

// xIdxSklArena stores nodes in a growable slice and hands out slot numbers
// instead of pointers. Slot numbers stay valid across growth, pointers into
// nodes do not. Never keep a *xIdxSklNode across allocate().
type xIdxSklArena[T any] struct {
	nodes    []xIdxSklNode[T]
	recycled []uint32
}

func newXIdxSklArena[T any](capacity int) *xIdxSklArena[T] {
	if capacity < 0 {
		capacity = 0
	}
	arena := &xIdxSklArena[T]{
		nodes:    make([]xIdxSklNode[T], 1, capacity+1),
		recycled: make([]uint32, 0, 16),
	}
	arena.nodes[xIdxSklHeadSlot].indices = make([]xIdxSklIndex, xIdxSklMaxLevel)
	return arena
}

func (arena *xIdxSklArena[T]) head() *xIdxSklNode[T] {
	return &arena.nodes[xIdxSklHeadSlot]
}

func (arena *xIdxSklArena[T]) node(slot uint32) *xIdxSklNode[T] {
	return &arena.nodes[slot]
}

// allocate reserves a slot for a node with lvl levels, reusing a recycled
// slot (and its indices backing array) when one is available.
func (arena *xIdxSklArena[T]) allocate(lvl int32, elem T) uint32 {
	var slot uint32
	if n := len(arena.recycled); n > 0 {
		slot = arena.recycled[n-1]
		arena.recycled = arena.recycled[:n-1]
	} else {
		if uint64(len(arena.nodes)) > math.MaxUint32 {
			panic(ErrXIdxSklIsFull)
		}
		arena.nodes = append(arena.nodes, xIdxSklNode[T]{})
		slot = uint32(len(arena.nodes) - 1)
	}

	node := &arena.nodes[slot]
	if cap(node.indices) >= int(lvl) {
		node.indices = node.indices[:lvl]
		clear(node.indices)
	} else {
		node.indices = make([]xIdxSklIndex, lvl)
	}
	node.pred = xIdxSklHeadSlot
	node.elem = elem
	return slot
}

// recycle frees the slot. The element is zeroed to drop its references.
func (arena *xIdxSklArena[T]) recycle(slot uint32) {
	node := &arena.nodes[slot]
	node.elem = *new(T)
	node.pred = xIdxSklHeadSlot
	node.indices = node.indices[:0]
	arena.recycled = append(arena.recycled, slot)
}

// live returns the number of allocated (non-free) data slots.
func (arena *xIdxSklArena[T]) live() int {
	return len(arena.nodes) - 1 - len(arena.recycled)
}

// reset drops every data node and keeps the backing arrays.
func (arena *xIdxSklArena[T]) reset() {
	clear(arena.nodes[1:])
	arena.nodes = arena.nodes[:1]
	arena.recycled = arena.recycled[:0]
	clear(arena.head().indices)
}
