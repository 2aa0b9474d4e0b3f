package ring

import (
	"github.com/tuneinsight/zeroenc/utils/structs"
)

// BufferPool is a pool of polynomials that can be used (concurrently) to
// instantiate temporary polynomials. Backing arrays are zeroed when they are
// recycled, so secret scratch material does not outlive its use.
type BufferPool struct {
	n          int
	level      int
	bufferPool structs.BufferPool[*[]uint64]
}

// NewBufferPool returns a new pool given a ring, and optionally a pool to draw the backing arrays from.
func NewBufferPool(r *Ring, pools ...structs.BufferPool[*[]uint64]) *BufferPool {

	newPool := &BufferPool{n: r.N(), level: r.MaxLevel()}

	switch lenPool := len(pools); lenPool {
	case 0:
		newPool.bufferPool = structs.NewSyncPoolUint64(r.N() * (r.MaxLevel() + 1))
	case 1:
		newPool.bufferPool = pools[0]
	default:
		// Sanity check
		panic("the method takes at most 1 optional pool argument")
	}

	return newPool
}

// GetLevel returns the level of the polynomials obtained from the pool.
func (p BufferPool) GetLevel() int {
	return p.level
}

// AtLevel returns a new pool from which polynomials at the given level can be drawn.
func (p BufferPool) AtLevel(level int) *BufferPool {
	return &BufferPool{p.n, level, p.bufferPool}
}

// GetBuffPoly returns a new [Poly], built from a backing []uint64 array obtained from the pool.
// After use, the [Poly] should be recycled using the [BufferPool.RecycleBuffPoly] method.
func (p BufferPool) GetBuffPoly() Poly {
	return NewPolyFromUintPool(p.bufferPool, p.n, p.level)
}

// RecycleBuffPoly zeroes the backing array of the input [Poly] and returns it
// to the pool. The input [Poly] must not be used after calling this method.
func (p BufferPool) RecycleBuffPoly(pol *Poly) {
	RecyclePolyInUintPool(p.bufferPool, pol)
}
