package list

// References:
// https://www.cl.cam.ac.uk/teaching/2005/Algorithms/skiplists.pdf
// https://github.com/antirez/disque/blob/master/src/skiplist.c

import (
	saferand "crypto/rand"
	"encoding/binary"
	"math"
	randv2 "math/rand/v2"
)

// maxLevels returns the level count that keeps the expected search depth
// logarithmic for totalElements elements.
// maxLevels = log(totalElements) / log(1/P)
// P = 1/4, totalElements = 2^31 - 1 => 16
func maxLevels(totalElements int64, P float64) int {
	if totalElements <= 1 || P <= 0 || P >= 1 {
		return 1
	}
	lvls := int(math.Ceil(math.Log(float64(totalElements)) / math.Log(1/P)))
	if lvls < 1 {
		return 1
	}
	if lvls > xIdxSklMaxLevel {
		return xIdxSklMaxLevel
	}
	return lvls
}

// randomLevel draws a node level from the geometric distribution: start at 1
// and flip a biased coin (success probability P) until it fails or maxLevel
// is reached.
// Each list owns its generator, so no global mutex lock is involved
// (math.Float64() of the global source contains one).
func randomLevel(r *randv2.Rand, P float64, maxLevel int32) int32 {
	level := int32(1)
	for level < maxLevel && float64(r.Uint64()&0xFFFF) < P*0xFFFF {
		level++
	}
	return level
}

func newXIdxSklRand(seeded bool, seed1, seed2 uint64) *randv2.Rand {
	if !seeded {
		seed1, seed2 = cryptoRandUint64(), cryptoRandUint64()
	}
	return randv2.New(randv2.NewPCG(seed1, seed2))
}

func cryptoRandUint64() uint64 {
	randUint64 := [8]byte{}
	if _, err := saferand.Read(randUint64[:]); err != nil {
		panic(err)
	}
	if randUint64[7]&0x8 == 0x0 {
		return binary.LittleEndian.Uint64(randUint64[:])
	}
	return binary.BigEndian.Uint64(randUint64[:])
}
