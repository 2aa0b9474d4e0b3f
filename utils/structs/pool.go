// Package structs implements generic helpers for buffer pooling.
package structs

import (
	"sync"
)

// BufferPool is an interface for structs that hold reusable buffers.
type BufferPool[T any] interface {
	Get() T
	Put(buffer T)
}

// SyncPool is a wrapper around [sync.Pool] (it avoids doing type conversion after Get()).
type SyncPool[T any] struct {
	pool *sync.Pool
}

// NewSyncPool creates a new SyncPool.
func NewSyncPool[T any](f func() T) *SyncPool[T] {
	pool := &sync.Pool{
		New: func() any { return f() },
	}
	return &SyncPool[T]{pool: pool}
}

// Get returns a buffer from the pool.
func (spool *SyncPool[T]) Get() T {
	return spool.pool.Get().(T)
}

// Put adds a buffer back to the pool.
func (spool *SyncPool[T]) Put(buff T) {
	spool.pool.Put(buff)
}

// NewSyncPoolUint64 creates a new SyncPool of *[]uint64 of the given size.
func NewSyncPoolUint64(size int) *SyncPool[*[]uint64] {
	return NewSyncPool(func() *[]uint64 {
		buff := make([]uint64, size)
		return &buff
	})
}
