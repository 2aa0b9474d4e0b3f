package ring

import (
	"fmt"
	"math/bits"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuneinsight/zeroenc/utils/sampling"
)

func testString(opname string, r *Ring) string {
	return fmt.Sprintf("%s/N=%d/limbs=%d", opname, r.N(), r.ModuliChainLength())
}

func testRing(t *testing.T, N int, moduli int) *Ring {
	primes, err := GenerateNTTPrimes(45, N<<1, moduli)
	require.NoError(t, err)
	r, err := NewRing(N, primes)
	require.NoError(t, err)
	return r
}

func TestNewRing(t *testing.T) {

	// Not a power of two
	r, err := NewRing(1023, []uint64{0x7e00001})
	require.Nil(t, r)
	require.Error(t, err)

	// Too small
	r, err = NewRing(8, []uint64{0x7e00001})
	require.Nil(t, r)
	require.Error(t, err)

	// Empty moduli chain
	r, err = NewRing(16, []uint64{})
	require.Nil(t, r)
	require.Error(t, err)

	// Non-prime modulus
	r, err = NewRing(16, []uint64{0x7e00000})
	require.Nil(t, r)
	require.Error(t, err)

	// Not congruent to 1 mod 2N
	r, err = NewRing(1024, []uint64{17})
	require.Nil(t, r)
	require.Error(t, err)

	// Repeated moduli
	r, err = NewRing(16, []uint64{0x7e00001, 0x7e00001})
	require.Nil(t, r)
	require.Error(t, err)

	r, err = NewRing(1024, []uint64{0x7e00001})
	require.NotNil(t, r)
	require.NoError(t, err)
}

func TestNTT(t *testing.T) {

	for _, nbModuli := range []int{1, 2, 3} {

		r := testRing(t, 32, nbModuli)

		prng, err := sampling.NewKeyedPRNG([]byte{'n', 't', 't'})
		require.NoError(t, err)

		t.Run(testString("NTT/RoundTrip", r), func(t *testing.T) {

			p0 := NewUniformSampler(prng, r).ReadNew()
			p1 := r.NewPoly()

			r.NTT(p0, p1)
			r.INTT(p1, p1)

			require.True(t, p0.Equal(&p1))
		})

		t.Run(testString("NTT/Negacyclic", r), func(t *testing.T) {

			// X * X^{N-1} = X^N = -1 mod (X^N + 1)
			p0 := r.NewPoly()
			p1 := r.NewPoly()

			for j := range r.SubRings {
				p0.Coeffs[j][1] = 1
				p1.Coeffs[j][r.N()-1] = 1
			}

			r.NTT(p0, p0)
			r.NTT(p1, p1)
			r.MulCoeffsBarrett(p0, p1, p0)
			r.INTT(p0, p0)

			for j, s := range r.SubRings {
				require.Equal(t, s.Modulus-1, p0.Coeffs[j][0])
				for i := 1; i < r.N(); i++ {
					require.Equal(t, uint64(0), p0.Coeffs[j][i])
				}
			}
		})

		t.Run(testString("NTT/NaiveConvolution", r), func(t *testing.T) {

			us := NewUniformSampler(prng, r)

			p0 := us.ReadNew()
			p1 := us.ReadNew()

			// Naive negacyclic convolution
			want := r.NewPoly()
			N := r.N()
			for j, s := range r.SubRings {
				q := s.Modulus
				brc := s.BRedConstant
				for i := 0; i < N; i++ {
					for k := 0; k < N; k++ {
						prod := BRed(p0.Coeffs[j][i], p1.Coeffs[j][k], q, brc)
						if i+k < N {
							want.Coeffs[j][i+k] = CRed(want.Coeffs[j][i+k]+prod, q)
						} else {
							want.Coeffs[j][i+k-N] = CRed(want.Coeffs[j][i+k-N]+(q-prod), q)
						}
					}
				}
			}

			have := r.NewPoly()
			r.NTT(p0, p0)
			r.NTT(p1, p1)
			r.MulCoeffsBarrett(p0, p1, have)
			r.INTT(have, have)

			require.True(t, want.Equal(&have))
		})
	}
}

func TestGenerateNTTPrimes(t *testing.T) {

	NthRoot := 2048

	primes, err := GenerateNTTPrimes(40, NthRoot, 10)
	require.NoError(t, err)
	require.Equal(t, 10, len(primes))

	for _, q := range primes {
		require.Equal(t, uint64(1), q&uint64(NthRoot-1))
		require.True(t, IsPrime(q), q)
	}

	q, err := NextNTTPrime(primes[0], NthRoot)
	require.NoError(t, err)
	require.True(t, IsPrime(q))
	require.Equal(t, uint64(1), q&uint64(NthRoot-1))
}

func TestModularReduction(t *testing.T) {

	q := uint64(0x1fffffffffe00001) // 61-bit NTT prime
	brc := GenBRedConstant(q)
	mrc := GenMRedConstant(q)

	t.Run("BRed", func(t *testing.T) {
		x, y := q-1, q-2
		require.Equal(t, mulModNaive(x, y, q), BRed(x, y, q, brc))
		require.Equal(t, uint64(0), BRedAdd(q, q, brc))
		require.Equal(t, q-1, BRedAdd(2*q-1, q, brc))
	})

	t.Run("MRed", func(t *testing.T) {
		x, y := q-12345, uint64(0xabcdef)
		yM := MForm(y, q, brc)
		require.Equal(t, mulModNaive(x, y, q), MRed(x, yM, q, mrc))
	})
}

func mulModNaive(x, y, q uint64) uint64 {
	hi, lo := bits.Mul64(x, y)
	_, rem := bits.Div64(hi%q, lo, q)
	return rem
}
