package ring

import (
	"github.com/tuneinsight/zeroenc/utils/structs"
)

// Poly is the structure that contains the coefficients of an RNS polynomial.
// Coefficients are stored as a contiguous buffer of (level+1) x N unsigned
// 64-bit integers, with Coeffs[j] aliasing the N residues modulo the j-th
// modulus of the chain.
type Poly struct {
	Coeffs [][]uint64 // Dimension-2 slice of coefficients (re-slice of Buff)
	Buff   []uint64   // Dimension-1 slice of coefficients
}

// NewPoly creates a new polynomial with N coefficients set to zero and level+1 moduli.
func NewPoly(N, level int) (pol Poly) {

	buff := make([]uint64, N*(level+1))
	coeffs := make([][]uint64, level+1)
	for i := 0; i < level+1; i++ {
		coeffs[i] = buff[i*N : (i+1)*N]
	}

	return Poly{Coeffs: coeffs, Buff: buff}
}

// NewPolyFromUintPool creates a new polynomial at the given level, backed by
// an array obtained from the pool. The polynomial must be recycled with
// [RecyclePolyInUintPool] after use.
func NewPolyFromUintPool(pool structs.BufferPool[*[]uint64], N, level int) Poly {

	buff := *pool.Get()

	// Sanity check
	if len(buff) < N*(level+1) {
		panic("cannot NewPolyFromUintPool: pool buffer is too small for the requested level")
	}

	buff = buff[:N*(level+1)]

	coeffs := make([][]uint64, level+1)
	for i := 0; i < level+1; i++ {
		coeffs[i] = buff[i*N : (i+1)*N]
	}

	return Poly{Coeffs: coeffs, Buff: buff}
}

// RecyclePolyInUintPool zeroes the backing array of the polynomial and
// returns it to the pool. The input polynomial must not be used after
// calling this method.
func RecyclePolyInUintPool(pool structs.BufferPool[*[]uint64], pol *Poly) {
	buff := pol.Buff[:cap(pol.Buff)]
	ZeroVec(buff)
	pool.Put(&buff)
	pol.Buff = nil
	pol.Coeffs = nil
}

// N returns the number of coefficients of the polynomial, which equals the degree of the ring cyclotomic polynomial.
func (pol Poly) N() int {
	return len(pol.Coeffs[0])
}

// Level returns the current number of moduli minus 1.
func (pol Poly) Level() int {
	return len(pol.Coeffs) - 1
}

// Zero sets all coefficients of the target polynomial to 0.
func (pol Poly) Zero() {
	ZeroVec(pol.Buff)
}

// CopyNew creates an exact copy of the target polynomial.
func (pol Poly) CopyNew() (p Poly) {
	p = NewPoly(pol.N(), pol.Level())
	copy(p.Buff, pol.Buff)
	return
}

// Copy copies the coefficients of p1 on the target polynomial.
// This method does nothing if the underlying arrays are the same.
// Expects the degree and level of both polynomials to be identical.
func (pol *Poly) Copy(p1 Poly) {
	if len(pol.Buff) > 0 && len(p1.Buff) > 0 && &pol.Buff[0] != &p1.Buff[0] {
		copy(pol.Buff, p1.Buff)
	}
}

// CopyLvl copies the coefficients of p0 on p1, up to level+1 moduli.
// Expects the degree of both polynomials to be identical.
func CopyLvl(level int, p0, p1 Poly) {
	copy(p1.Buff[:p1.N()*(level+1)], p0.Buff)
}

// Equal performs a deep equal between the receiver and the operand.
func (pol Poly) Equal(other *Poly) bool {

	if pol.N() != other.N() || pol.Level() != other.Level() {
		return false
	}

	for i := range pol.Buff {
		if pol.Buff[i] != other.Buff[i] {
			return false
		}
	}

	return true
}

// ZeroVec sets all the values of the input vector to zero.
func ZeroVec(p []uint64) {
	for i := range p {
		p[i] = 0
	}
}
