package list

import (
	"errors"
	"fmt"
	randv2 "math/rand/v2"
)

// References:
// https://www.cl.cam.ac.uk/teaching/0506/Algorithms/skiplists.pdf
// https://github.com/antirez/disque/blob/master/src/skiplist.c
// zskiplist (span and rank): https://github.com/redis/redis/blob/unstable/src/t_zset.c
// https://github.com/addrummond/iskiplist
//
// Indexed skip list. Every link carries the number of level-0 nodes it
// covers (span), the head is rank 0 and the element at index i is rank i+1.
// Accumulating spans during the descent turns the key search of a classic
// skip list into a rank search.
//
// level 2: head --3--> C --------------2--------------> nil
// level 1: head --1--> A --2--> C --------2-------> E --0--> nil
// level 0: head --1--> A --1--> B --1--> C --1--> D --1--> E --0--> nil
// rank:    0           1        2        3        4        5

const (
	xIdxSklMaxLevel    = 32                         // level 0 is the data node level.
	XIdxSklMaxSize     = 1<<(xIdxSklMaxLevel-1) - 1 // 2^31 - 1 elements
	xIdxSklProbability = 0.25                       // P = 1/4, a node has 1/4 probability to have one more level
)

var (
	ErrXIdxSklIndexOutOfRange        = errors.New("[x-idx-skl] index out of range")
	ErrXIdxSklPopFromEmpty           = errors.New("[x-idx-skl] pop from empty list")
	ErrXIdxSklIsEmpty                = errors.New("[x-idx-skl] there is no element")
	ErrXIdxSklIsFull                 = errors.New("[x-idx-skl] is full")
	ErrXIdxSklInvalidOption          = errors.New("[x-idx-skl] invalid option")
	ErrXIdxSklConcurrentModification = errors.New("[x-idx-skl] list mutated during iteration")
)

type xIdxSklOptions struct {
	probability     float64
	expectedMaxSize int64
	capacity        int
	seeded          bool
	seed1, seed2    uint64
}

func defaultXIdxSklOptions() xIdxSklOptions {
	return xIdxSklOptions{
		probability:     xIdxSklProbability,
		expectedMaxSize: XIdxSklMaxSize,
	}
}

type XIdxSklOption func(*xIdxSklOptions) error

// WithXIdxSklProbability sets the probability of a node getting one more level.
// Conventionally 1/4 or 1/2.
func WithXIdxSklProbability(p float64) XIdxSklOption {
	return func(opts *xIdxSklOptions) error {
		if p <= 0 || p >= 1 {
			return fmt.Errorf("%w: probability %v not in (0, 1)", ErrXIdxSklInvalidOption, p)
		}
		opts.probability = p
		return nil
	}
}

// WithXIdxSklExpectedMaxSize caps the node level by the expected maximum
// number of elements.
func WithXIdxSklExpectedMaxSize(n int64) XIdxSklOption {
	return func(opts *xIdxSklOptions) error {
		if n <= 0 || n > XIdxSklMaxSize {
			return fmt.Errorf("%w: expected max size %d not in [1, %d]", ErrXIdxSklInvalidOption, n, XIdxSklMaxSize)
		}
		opts.expectedMaxSize = n
		return nil
	}
}

// WithXIdxSklCapacity pre-allocates the node arena.
func WithXIdxSklCapacity(n int) XIdxSklOption {
	return func(opts *xIdxSklOptions) error {
		if n < 0 {
			return fmt.Errorf("%w: negative capacity %d", ErrXIdxSklInvalidOption, n)
		}
		opts.capacity = n
		return nil
	}
}

// WithXIdxSklRandSeed makes the level draws deterministic.
func WithXIdxSklRandSeed(seed1, seed2 uint64) XIdxSklOption {
	return func(opts *xIdxSklOptions) error {
		opts.seeded = true
		opts.seed1, opts.seed2 = seed1, seed2
		return nil
	}
}

var _ IndexedList[struct{}] = (*XIdxSkl[struct{}])(nil)

// XIdxSkl is an indexed skip list.
// The zero value is an empty list ready to use.
// It is not thread safe.
// @field arena Node storage. Slot 0 is the head sentinel.
// The head.indices[0].succ is the first data node of skip-list.
// From head.indices[1], all of them are cache used to implement binary search.
// @field tail The last data node slot, 0 if the list is empty.
type XIdxSkl[T any] struct {
	arena    *xIdxSklArena[T]
	rand     *randv2.Rand
	opts     xIdxSklOptions
	nodeLen  int    // skip-list's node count.
	mods     uint64 // structural modification counter, checked by iterators.
	tail     uint32
	levels   int32 // skip-list's max height value inside the indices.
	maxLevel int32
}

// NewXIdxSkl creates an empty indexed skip list.
// It never fails without options.
func NewXIdxSkl[T any](opts ...XIdxSklOption) (*XIdxSkl[T], error) {
	o := defaultXIdxSklOptions()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&o); err != nil {
			return nil, err
		}
	}
	skl := &XIdxSkl[T]{}
	skl.init(o)
	return skl, nil
}

func (skl *XIdxSkl[T]) init(opts xIdxSklOptions) {
	skl.opts = opts
	skl.arena = newXIdxSklArena[T](opts.capacity)
	skl.rand = newXIdxSklRand(opts.seeded, opts.seed1, opts.seed2)
	skl.maxLevel = int32(maxLevels(opts.expectedMaxSize, opts.probability))
	skl.levels = 1
	skl.nodeLen = 0
	skl.tail = xIdxSklHeadSlot
}

func (skl *XIdxSkl[T]) lazyInit() {
	if skl.arena == nil {
		skl.init(defaultXIdxSklOptions())
	}
}

func (skl *XIdxSkl[T]) Len() int {
	return skl.nodeLen
}

func (skl *XIdxSkl[T]) Levels() int32 {
	if skl.levels <= 0 {
		return 1
	}
	return skl.levels
}

// findSlot returns the slot of the node at idx. idx must be in range.
func (skl *XIdxSkl[T]) findSlot(idx int) uint32 {
	if idx == skl.nodeLen-1 {
		return skl.tail
	}
	var (
		nodes     = skl.arena.nodes
		x         = xIdxSklHeadSlot
		traversed = 0
		rank      = idx + 1
	)
	for /* vertical */ i := skl.levels - 1; i >= 0; i-- {
		for /* horizontal */ {
			next := nodes[x].indices[i]
			if next.succ == xIdxSklHeadSlot || traversed+next.span > rank {
				break
			}
			traversed += next.span
			x = next.succ
		}
		if traversed == rank {
			return x
		}
	}
	return x
}

// findPredecessors fills aux with the per-level predecessors of the
// position idx and rank with their ranks. Levels above skl.levels are
// left untouched.
func (skl *XIdxSkl[T]) findPredecessors(
	idx int,
	aux *[xIdxSklMaxLevel]uint32,
	rank *[xIdxSklMaxLevel]int,
) {
	nodes := skl.arena.nodes
	x := xIdxSklHeadSlot
	for /* vertical */ i := skl.levels - 1; i >= 0; i-- {
		if i+1 < skl.levels {
			rank[i] = rank[i+1]
		} else {
			rank[i] = 0
		}
		for /* horizontal */ {
			next := nodes[x].indices[i]
			if next.succ == xIdxSklHeadSlot || rank[i]+next.span > idx {
				break
			}
			rank[i] += next.span
			x = next.succ
		}
		aux[i] = x
	}
}

// raiseLevels makes room for a node of lvl levels. The new head links
// span the whole list.
func (skl *XIdxSkl[T]) raiseLevels(
	lvl int32,
	aux *[xIdxSklMaxLevel]uint32,
	rank *[xIdxSklMaxLevel]int,
) {
	if lvl <= skl.levels {
		return
	}
	head := skl.arena.head()
	for i := skl.levels; i < lvl; i++ {
		rank[i] = 0
		aux[i] = xIdxSklHeadSlot
		head.indices[i] = xIdxSklIndex{succ: xIdxSklHeadSlot, span: skl.nodeLen}
	}
	skl.levels = lvl
}

func (skl *XIdxSkl[T]) insert(idx int, v T) {
	var (
		aux  [xIdxSklMaxLevel]uint32
		rank [xIdxSklMaxLevel]int
	)
	skl.findPredecessors(idx, &aux, &rank)

	lvl := randomLevel(skl.rand, skl.opts.probability, skl.maxLevel)
	skl.raiseLevels(lvl, &aux, &rank)

	slot := skl.arena.allocate(lvl, v)
	nodes := skl.arena.nodes // reload, the allocation may grow the arena.
	node := &nodes[slot]
	for i := int32(0); i < lvl; i++ {
		//      +------+       +------+      +------+
		// ...  | pred |------>|  new |----->| succ | ...
		//      +------+       +------+      +------+
		pred := &nodes[aux[i]].indices[i]
		node.indices[i].succ = pred.succ
		node.indices[i].span = pred.span - (rank[0] - rank[i])
		pred.succ = slot
		pred.span = rank[0] - rank[i] + 1
	}
	for /* untouched levels cover one more node */ i := lvl; i < skl.levels; i++ {
		nodes[aux[i]].indices[i].span++
	}

	node.pred = aux[0]
	if next := node.indices[0].succ; next != xIdxSklHeadSlot {
		nodes[next].pred = slot
	} else {
		skl.tail = slot
	}
	skl.nodeLen++
	skl.mods++
}

// remove unlinks the node at idx. idx must be in range.
func (skl *XIdxSkl[T]) remove(idx int) T {
	var (
		aux  [xIdxSklMaxLevel]uint32
		rank [xIdxSklMaxLevel]int
	)
	skl.findPredecessors(idx, &aux, &rank)

	nodes := skl.arena.nodes
	slot := nodes[aux[0]].indices[0].succ
	node := &nodes[slot]
	for i := int32(0); i < skl.levels; i++ {
		pred := &nodes[aux[i]].indices[i]
		if pred.succ == slot {
			pred.span += node.indices[i].span - 1
			pred.succ = node.indices[i].succ
		} else {
			pred.span--
		}
	}
	if /* unlink */ next := node.indices[0].succ; next != xIdxSklHeadSlot {
		nodes[next].pred = node.pred
	} else {
		skl.tail = node.pred
	}
	for /* reduce levels */ skl.levels > 1 && nodes[xIdxSklHeadSlot].indices[skl.levels-1].succ == xIdxSklHeadSlot {
		skl.levels--
	}

	elem := node.elem
	skl.arena.recycle(slot)
	skl.nodeLen--
	skl.mods++
	return elem
}

// appendAll links values after the current tail in one pass.
// The per-level tails are tracked during the pass, so the cost is
// O(log n) for the first descent plus O(1) expected per value.
func (skl *XIdxSkl[T]) appendAll(values []T) {
	if len(values) <= 0 {
		return
	}
	skl.lazyInit()

	var (
		aux  [xIdxSklMaxLevel]uint32
		rank [xIdxSklMaxLevel]int
	)
	skl.findPredecessors(skl.nodeLen, &aux, &rank)
	for _, v := range values {
		lvl := randomLevel(skl.rand, skl.opts.probability, skl.maxLevel)
		skl.raiseLevels(lvl, &aux, &rank)
		slot := skl.arena.allocate(lvl, v)
		nodes := skl.arena.nodes
		r := skl.nodeLen + 1
		for i := int32(0); i < lvl; i++ {
			nodes[aux[i]].indices[i] = xIdxSklIndex{succ: slot, span: r - rank[i]}
			aux[i], rank[i] = slot, r
		}
		nodes[slot].pred = skl.tail
		skl.tail = slot
		skl.nodeLen++
	}
	nodes := skl.arena.nodes
	for /* tail links */ i := int32(0); i < skl.levels; i++ {
		nodes[aux[i]].indices[i] = xIdxSklIndex{succ: xIdxSklHeadSlot, span: skl.nodeLen - rank[i]}
	}
	skl.mods++
}

func (skl *XIdxSkl[T]) Get(idx int) (T, error) {
	if idx < 0 || idx >= skl.nodeLen {
		return *new(T), ErrXIdxSklIndexOutOfRange
	}
	return skl.arena.node(skl.findSlot(idx)).elem, nil
}

func (skl *XIdxSkl[T]) Set(idx int, v T) (T, error) {
	if idx < 0 || idx >= skl.nodeLen {
		return *new(T), ErrXIdxSklIndexOutOfRange
	}
	node := skl.arena.node(skl.findSlot(idx))
	old := node.elem
	node.elem = v
	return old, nil
}

func (skl *XIdxSkl[T]) Update(idx int, fn func(v *T)) error {
	if idx < 0 || idx >= skl.nodeLen {
		return ErrXIdxSklIndexOutOfRange
	}
	if fn == nil {
		return nil
	}
	fn(&skl.arena.node(skl.findSlot(idx)).elem)
	return nil
}

func (skl *XIdxSkl[T]) Front() (T, error) {
	if skl.nodeLen <= 0 {
		return *new(T), ErrXIdxSklIsEmpty
	}
	return skl.arena.node(skl.arena.head().indices[0].succ).elem, nil
}

func (skl *XIdxSkl[T]) Back() (T, error) {
	if skl.nodeLen <= 0 {
		return *new(T), ErrXIdxSklIsEmpty
	}
	return skl.arena.node(skl.tail).elem, nil
}

// Insert inserts v at idx, clamping idx into [0, Len()].
func (skl *XIdxSkl[T]) Insert(idx int, v T) {
	skl.lazyInit()
	if idx < 0 {
		idx = 0
	} else if idx > skl.nodeLen {
		idx = skl.nodeLen
	}
	skl.insert(idx, v)
}

func (skl *XIdxSkl[T]) PushFront(v T) {
	skl.lazyInit()
	skl.insert(0, v)
}

func (skl *XIdxSkl[T]) PushBack(v T) {
	skl.lazyInit()
	skl.insert(skl.nodeLen, v)
}

func (skl *XIdxSkl[T]) Remove(idx int) (T, error) {
	if idx < 0 || idx >= skl.nodeLen {
		return *new(T), ErrXIdxSklIndexOutOfRange
	}
	return skl.remove(idx), nil
}

// PopFront is the generic remove at index 0. All predecessors are the
// head, so it costs O(levels).
func (skl *XIdxSkl[T]) PopFront() (T, error) {
	if skl.nodeLen <= 0 {
		return *new(T), ErrXIdxSklPopFromEmpty
	}
	return skl.remove(0), nil
}

// PopBack is the generic remove at index Len()-1, O(log n) expected.
func (skl *XIdxSkl[T]) PopBack() (T, error) {
	if skl.nodeLen <= 0 {
		return *new(T), ErrXIdxSklPopFromEmpty
	}
	return skl.remove(skl.nodeLen - 1), nil
}

func (skl *XIdxSkl[T]) Clear() {
	if skl.arena == nil {
		skl.lazyInit()
		return
	}
	skl.arena.reset()
	skl.levels = 1
	skl.nodeLen = 0
	skl.tail = xIdxSklHeadSlot
	skl.mods++
}
