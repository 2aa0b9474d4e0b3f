package ring

import (
	"math/big"
	"math/bits"
)

// GenBRedConstant computes the constant for the Barrett reduction with
// a radix of 2^128, i.e. floor(2^128/q) in two 64-bit words (high, low).
func GenBRedConstant(q uint64) [2]uint64 {
	bigR := new(big.Int).Lsh(big.NewInt(1), 128)
	bigR.Div(bigR, new(big.Int).SetUint64(q))

	mhi := new(big.Int).Rsh(bigR, 64).Uint64()
	mlo := bigR.Uint64()

	return [2]uint64{mhi, mlo}
}

// BRedAdd reduces a 64-bit integer by q.
// Assumes that x <= 64 bits.
func BRedAdd(x, q uint64, u [2]uint64) (r uint64) {
	s0, _ := bits.Mul64(x, u[0])
	r = x - s0*q
	if r >= q {
		r -= q
	}
	return
}

// BRedAddLazy is identical to BRedAdd, except that it runs in constant time
// and returns a value in [0, 2q-1].
func BRedAddLazy(x, q uint64, u [2]uint64) uint64 {
	s0, _ := bits.Mul64(x, u[0])
	return x - s0*q
}

// BRed computes x*y mod q with a Barrett reduction.
func BRed(x, y, q uint64, u [2]uint64) (r uint64) {

	var mhi, mlo, lhi, hhi, hlo, s0, s1, carry uint64

	ahi, alo := bits.Mul64(x, y)

	// (alo*ulo)>>64

	lhi, _ = bits.Mul64(alo, u[1])

	// ((ahi*ulo + alo*uhi) + (alo*ulo))>>64

	mhi, mlo = bits.Mul64(alo, u[0])

	s0, carry = bits.Add64(mlo, lhi, 0)

	s1 = mhi + carry

	hhi, hlo = bits.Mul64(ahi, u[1])

	_, carry = bits.Add64(hlo, s0, 0)

	lhi = hhi + carry

	// (ahi*uhi) + (((ahi*ulo + alo*uhi) + (alo*ulo))>>64)

	s0 = ahi*u[0] + s1 + lhi

	r = alo - s0*q

	if r >= q {
		r -= q
	}

	return
}

// BRedLazy is identical to BRed, except that it runs in constant time
// and returns a value in [0, 2q-1].
func BRedLazy(x, y, q uint64, u [2]uint64) (r uint64) {

	var mhi, mlo, lhi, hhi, hlo, s0, s1, carry uint64

	ahi, alo := bits.Mul64(x, y)

	lhi, _ = bits.Mul64(alo, u[1])

	mhi, mlo = bits.Mul64(alo, u[0])

	s0, carry = bits.Add64(mlo, lhi, 0)

	s1 = mhi + carry

	hhi, hlo = bits.Mul64(ahi, u[1])

	_, carry = bits.Add64(hlo, s0, 0)

	lhi = hhi + carry

	s0 = ahi*u[0] + s1 + lhi

	r = alo - s0*q

	return
}

// GenMRedConstant computes the constant qInv = (q^-1) mod 2^64
// required for the Montgomery reduction.
func GenMRedConstant(q uint64) (qInv uint64) {
	var x uint64
	qInv = 1
	x = q
	for i := 0; i < 63; i++ {
		qInv *= x
		x *= x
	}
	return
}

// MRed computes x*y*(2^64)^-1 mod q.
func MRed(x, y, q, qInv uint64) (r uint64) {
	ahi, alo := bits.Mul64(x, y)
	R := alo * qInv
	H, _ := bits.Mul64(R, q)
	r = ahi - H + q
	if r >= q {
		r -= q
	}
	return
}

// MRedLazy is identical to MRed, except that it runs in
// constant time and returns a value in [0, 2q-1].
func MRedLazy(x, y, q, qInv uint64) (r uint64) {
	ahi, alo := bits.Mul64(x, y)
	R := alo * qInv
	H, _ := bits.Mul64(R, q)
	r = ahi - H + q
	return
}

// MForm returns a*2^64 mod q.
func MForm(a, q uint64, u [2]uint64) (r uint64) {
	mhi, _ := bits.Mul64(a, u[1])
	r = -(a*u[0] + mhi) * q
	if r >= q {
		r -= q
	}
	return
}

// IMForm returns a*(1/2^64) mod q.
func IMForm(a, q, qInv uint64) (r uint64) {
	r, _ = bits.Mul64(a*qInv, q)
	r = q - r
	if r >= q {
		r -= q
	}
	return
}

// CRed returns a mod q, where a is required to be in the range [0, 2q-1].
func CRed(a, q uint64) uint64 {
	if a >= q {
		return a - q
	}
	return a
}

// ModExp performs the modular exponentiation x^e mod q, x and q are required to be at most 64 bits.
func ModExp(x, e, q uint64) (result uint64) {
	brc := GenBRedConstant(q)
	result = 1
	for i := e; i > 0; i >>= 1 {
		if i&1 == 1 {
			result = BRed(result, x, q, brc)
		}
		x = BRed(x, x, q, brc)
	}
	return result
}
