// Package factorization implements integer factorization for the moduli
// pre-computations of the ring package.
package factorization

import (
	"math/big"
)

const smoothBound = 1 << 16

// GetFactors returns the list of unique prime factors of m.
// Small factors are removed by trial division; the remaining cofactor is
// split with Pollard's rho, which is sufficient for the 61-bit moduli
// supported by the library.
func GetFactors(m *big.Int) (factors []*big.Int) {

	n := new(big.Int).Set(m)
	one := big.NewInt(1)
	two := big.NewInt(2)

	appendUnique := func(f *big.Int) {
		for i := range factors {
			if factors[i].Cmp(f) == 0 {
				return
			}
		}
		factors = append(factors, new(big.Int).Set(f))
	}

	for n.Bit(0) == 0 {
		appendUnique(two)
		n.Rsh(n, 1)
	}

	tmp := new(big.Int)
	for p := int64(3); p < smoothBound; p += 2 {
		bigP := big.NewInt(p)
		if tmp.Mul(bigP, bigP).Cmp(n) > 0 {
			break
		}
		for tmp.Mod(n, bigP); tmp.Sign() == 0; tmp.Mod(n, bigP) {
			appendUnique(bigP)
			n.Div(n, bigP)
		}
	}

	if n.Cmp(one) == 0 {
		return
	}

	var split func(n *big.Int)
	split = func(n *big.Int) {
		if n.ProbablyPrime(0) {
			appendUnique(n)
			return
		}
		d := pollardRho(n)
		split(d)
		split(new(big.Int).Div(n, d))
	}

	split(n)

	return
}

// pollardRho returns a non-trivial factor of the composite n using
// Pollard's rho with Floyd's cycle detection.
func pollardRho(n *big.Int) *big.Int {

	one := big.NewInt(1)

	x := new(big.Int)
	y := new(big.Int)
	d := new(big.Int)
	diff := new(big.Int)

	for c := int64(1); ; c++ {

		x.SetInt64(2)
		y.SetInt64(2)
		d.SetInt64(1)

		f := func(v *big.Int) {
			v.Mul(v, v)
			v.Add(v, big.NewInt(c))
			v.Mod(v, n)
		}

		for d.Cmp(one) == 0 {
			f(x)
			f(y)
			f(y)
			diff.Sub(x, y)
			diff.Abs(diff)
			if diff.Sign() == 0 {
				break
			}
			d.GCD(nil, nil, diff, n)
		}

		if d.Cmp(one) > 0 && d.Cmp(n) < 0 {
			return d
		}
	}
}
