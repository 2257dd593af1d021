package bench

import (
	"fmt"
	randv2 "math/rand/v2"

	"github.com/samber/lo"
)

// workloadRand derives the operation stream of a case from the seed, the
// workload and the size only, so every implementation replays the same
// operations and ends with the same checksum.
func workloadRand(seed uint64, w Workload, size int) *randv2.Rand {
	return randv2.New(randv2.NewPCG(seed, uint64(lo.IndexOf(AllWorkloads, w)+1)<<32|uint64(size)))
}

// runWorkload applies ops operations of w to c.
// The checksum is the sum of every returned element plus the final length.
func runWorkload(c container, w Workload, ops int, r *randv2.Rand) (int64, error) {
	var (
		checksum int64
		next     = int64(c.Len())
	)
	removeAt := func(idx int) error {
		v, err := c.Remove(idx)
		checksum += v
		return err
	}
	// Drained containers are refilled, so long runs keep the workload shape.
	refill := func() bool {
		if c.Len() > 0 {
			return false
		}
		c.PushBack(next)
		next++
		return true
	}
	for i := 0; i < ops; i++ {
		var err error
		switch w {
		case WorkloadPushBack:
			c.PushBack(next)
			next++
		case WorkloadPushFront:
			c.PushFront(next)
			next++
		case WorkloadInsertRandom:
			c.Insert(r.IntN(c.Len()+1), next)
			next++
		case WorkloadRemoveRandom:
			if !refill() {
				err = removeAt(r.IntN(c.Len()))
			}
		case WorkloadGetRandom:
			if !refill() {
				var v int64
				v, err = c.Get(r.IntN(c.Len()))
				checksum += v
			}
		case WorkloadPopFront:
			if !refill() {
				var v int64
				v, err = c.PopFront()
				checksum += v
			}
		case WorkloadMixed:
			switch op := r.IntN(4); {
			case op == 0:
				c.Insert(r.IntN(c.Len()+1), next)
				next++
			case op == 1 && c.Len() > 0:
				err = removeAt(r.IntN(c.Len()))
			case op == 2 && c.Len() > 0:
				var v int64
				v, err = c.Get(r.IntN(c.Len()))
				checksum += v
			default:
				c.PushBack(next)
				next++
			}
		default:
			return 0, fmt.Errorf("%w: unknown workload %q", ErrInvalidConfig, w)
		}
		if err != nil {
			return 0, fmt.Errorf("%s op %d: %w", w, i, err)
		}
	}
	return checksum + int64(c.Len()), nil
}
