package list

import (
	"fmt"

	"github.com/RoaringBitmap/roaring"
	"go.uber.org/multierr"

	"github.com/benz9527/vectorish/lib/infra"
)

// Validate walks every level and reports all structural violations
// combined into one infra.ErrorStack, nil if the list is consistent.
// It costs O(n * levels) and only serves tests and debugging.
func (skl *XIdxSkl[T]) Validate() error {
	if skl.arena == nil {
		if skl.nodeLen != 0 || skl.tail != xIdxSklHeadSlot {
			return infra.NewErrorStack("[x-idx-skl] uninitialized list is not empty")
		}
		return nil
	}

	var merr error
	violate := func(format string, args ...any) {
		merr = multierr.Append(merr, fmt.Errorf("[x-idx-skl] "+format, args...))
	}

	nodes := skl.arena.nodes
	if skl.levels < 1 || skl.levels > skl.maxLevel {
		violate("levels %d not in [1, %d]", skl.levels, skl.maxLevel)
		return infra.WrapErrorStackWithMessage(merr, "invalid indexed skip list")
	}

	// Level 0, ranks and backward links.
	ranks := make(map[uint32]int, skl.nodeLen)
	live := roaring.New()
	pred, rank := xIdxSklHeadSlot, 0
	for x := nodes[xIdxSklHeadSlot].indices[0].succ; x != xIdxSklHeadSlot; x = nodes[x].indices[0].succ {
		if int(x) >= len(nodes) {
			violate("level 0 link to slot %d out of arena", x)
			break
		}
		if live.Contains(x) {
			violate("level 0 cycle at slot %d", x)
			break
		}
		live.Add(x)
		rank++
		ranks[x] = rank
		node := &nodes[x]
		if node.level() <= 0 {
			violate("slot %d is linked but recycled", x)
			break
		}
		if node.level() > skl.levels {
			violate("slot %d level %d higher than list levels %d", x, node.level(), skl.levels)
		}
		if node.pred != pred {
			violate("slot %d backward link %d, expected %d", x, node.pred, pred)
		}
		pred = x
	}
	if rank != skl.nodeLen {
		violate("level 0 holds %d nodes, length is %d", rank, skl.nodeLen)
	}
	if pred != skl.tail {
		violate("tail slot %d, last level 0 node is %d", skl.tail, pred)
	}
	if n := skl.arena.live(); n != skl.nodeLen {
		violate("arena holds %d live slots, length is %d", n, skl.nodeLen)
	}
	for _, slot := range skl.arena.recycled {
		if live.Contains(slot) {
			violate("recycled slot %d is still linked", slot)
		}
	}

	// Higher levels are nested subsets of the level below and the spans
	// agree with the level 0 ranks.
	below := live
	for i := int32(0); i < skl.levels; i++ {
		current := roaring.New()
		x, r := xIdxSklHeadSlot, 0
		for {
			link := nodes[x].indices[i]
			if link.succ == xIdxSklHeadSlot {
				if link.span != skl.nodeLen-r {
					violate("level %d nil link from slot %d span %d, expected %d", i, x, link.span, skl.nodeLen-r)
				}
				break
			}
			if !below.Contains(link.succ) {
				violate("level %d links slot %d missing from the level below", i, link.succ)
				break
			}
			if current.Contains(link.succ) {
				violate("level %d cycle at slot %d", i, link.succ)
				break
			}
			current.Add(link.succ)
			if link.span != ranks[link.succ]-r {
				violate("level %d link %d->%d span %d, expected %d", i, x, link.succ, link.span, ranks[link.succ]-r)
			}
			x, r = link.succ, ranks[link.succ]
		}
		// Every node tall enough has to show up at this level.
		it := live.Iterator()
		for it.HasNext() {
			slot := it.Next()
			if nodes[slot].level() > i && !current.Contains(slot) {
				violate("slot %d of level %d is not linked at level %d", slot, nodes[slot].level(), i)
			}
		}
		below = current
	}
	if skl.levels > 1 && nodes[xIdxSklHeadSlot].indices[skl.levels-1].succ == xIdxSklHeadSlot {
		violate("top level %d is empty", skl.levels-1)
	}

	if merr != nil {
		return infra.WrapErrorStackWithMessage(merr, "invalid indexed skip list")
	}
	return nil
}
