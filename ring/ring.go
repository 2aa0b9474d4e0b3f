// Package ring implements RNS-accelerated modular arithmetic operations for
// polynomials, including polynomial sampling from different probability
// distributions, the negacyclic NTT and NTT-friendly prime generation.
package ring

import (
	"fmt"
	"math/big"
	"math/bits"

	"github.com/tuneinsight/zeroenc/utils/bignum"
)

// MaxModulusBitSize is the largest bit-length supported for the moduli.
const MaxModulusBitSize = 61

// Ring is a structure that keeps all the variables required to operate on a
// polynomial represented in the residue number system (RNS): one SubRing,
// with its own modular reduction and NTT precomputation, per modulus of the
// chain.
type Ring struct {
	SubRings []*SubRing

	// Product of the moduli
	ModulusAtLevel []*big.Int

	level int
}

// NewRing creates a new RNS Ring with degree N and coefficient moduli Moduli
// with Standard NTT. N must be a power of two of at least 16. Moduli should be
// a non-empty []uint64 with distinct prime elements, all congruent to 1 modulo 2N.
func NewRing(N int, Moduli []uint64) (r *Ring, err error) {

	if len(Moduli) == 0 {
		return nil, fmt.Errorf("invalid moduli: must be a non-empty []uint64")
	}

	// Checks if all the moduli are distinct primes
	for i := range Moduli {
		for j := i + 1; j < len(Moduli); j++ {
			if Moduli[i] == Moduli[j] {
				return nil, fmt.Errorf("invalid moduli: all moduli must be distinct")
			}
		}
	}

	r = new(Ring)

	r.SubRings = make([]*SubRing, len(Moduli))

	for i, qi := range Moduli {
		if r.SubRings[i], err = NewSubRing(N, qi); err != nil {
			return nil, err
		}
	}

	r.level = len(Moduli) - 1

	r.ModulusAtLevel = make([]*big.Int, len(Moduli))
	r.ModulusAtLevel[0] = new(big.Int).SetUint64(Moduli[0])
	for i := 1; i < len(Moduli); i++ {
		r.ModulusAtLevel[i] = new(big.Int).Mul(r.ModulusAtLevel[i-1], new(big.Int).SetUint64(Moduli[i]))
	}

	for _, s := range r.SubRings {
		if err = s.generateNTTConstants(); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// N returns the ring degree.
func (r Ring) N() int {
	return r.SubRings[0].N
}

// LogN returns log2(ring degree).
func (r Ring) LogN() int {
	return bits.Len64(uint64(r.N() - 1))
}

// NthRoot returns the multiplicative order of the primitive root.
func (r Ring) NthRoot() uint64 {
	return r.SubRings[0].NthRoot
}

// Level returns the level of the current ring, i.e. the index of the last
// prime of the moduli chain in use.
func (r Ring) Level() int {
	return r.level
}

// AtLevel returns an instance of the target ring that operates at the target level.
// This instance is thread safe and can be use concurrently with the base ring.
func (r Ring) AtLevel(level int) *Ring {

	// Sanity check
	if level < 0 {
		panic("level cannot be negative")
	}

	// Sanity check
	if level > r.MaxLevel() {
		panic("level cannot be larger than max level")
	}

	return &Ring{
		SubRings:       r.SubRings,
		ModulusAtLevel: r.ModulusAtLevel,
		level:          level,
	}
}

// MaxLevel returns the maximum level allowed by the ring.
func (r Ring) MaxLevel() int {
	return len(r.SubRings) - 1
}

// ModuliChain returns the list of primes in the modulus chain.
func (r Ring) ModuliChain() (moduli []uint64) {
	moduli = make([]uint64, len(r.SubRings))
	for i := range r.SubRings {
		moduli[i] = r.SubRings[i].Modulus
	}
	return
}

// ModuliChainLength returns the number of primes in the RNS basis of the ring.
func (r Ring) ModuliChainLength() int {
	return len(r.SubRings)
}

// Modulus returns the modulus of the ring at the current level, as a *big.Int.
func (r Ring) Modulus() *big.Int {
	return r.ModulusAtLevel[r.level]
}

// LogModulus returns the size of the modulus of the ring at the current
// level in bits.
func (r Ring) LogModulus() (logQ float64) {
	prec := uint(128)
	ln := bignum.Log(bignum.NewFloat(r.Modulus(), prec))
	ln.Quo(ln, bignum.Log2(prec))
	logQ, _ = ln.Float64()
	return
}

// NewPoly creates a new polynomial with all coefficients set to 0.
func (r Ring) NewPoly() Poly {
	return NewPoly(r.N(), r.level)
}

// Equal checks if p1 = p2 in the given Ring.
func (r Ring) Equal(p1, p2 Poly) bool {

	for i := 0; i < r.level+1; i++ {
		if len(p1.Coeffs[i]) != len(p2.Coeffs[i]) {
			return false
		}
	}

	r.Reduce(p1, p1)
	r.Reduce(p2, p2)

	for i := 0; i < r.level+1; i++ {
		for j := 0; j < r.N(); j++ {
			if p1.Coeffs[i][j] != p2.Coeffs[i][j] {
				return false
			}
		}
	}

	return true
}
