// Package utils implements various helper functions.
package utils

import (
	"math/bits"

	"golang.org/x/exp/constraints"
)

// Min returns the minimum between to comparable values.
func Min[T constraints.Ordered](a, b T) T {
	if a <= b {
		return a
	}
	return b
}

// Max returns the maximum between to comparable values.
func Max[T constraints.Ordered](a, b T) T {
	if a >= b {
		return a
	}
	return b
}

// BitReverse64 returns the bit-reverse value of the input value, within a context of 2^bitLen.
func BitReverse64(index uint64, bitLen int) uint64 {
	return bits.Reverse64(index) >> (64 - uint64(bitLen))
}

// EqualSlice checks the equality between two slices of comparables.
func EqualSlice[V comparable](a, b []V) (v bool) {

	if len(a) != len(b) {
		return false
	}

	v = true
	for i := range a {
		v = v && (a[i] == b[i])
	}
	return
}

// IsInSlice checks if x is in slice.
func IsInSlice[V comparable](x V, slice []V) (v bool) {
	for i := range slice {
		v = v || (slice[i] == x)
	}
	return
}
