package ring

import (
	"testing"

	"github.com/montanaflynn/stats"
	"github.com/stretchr/testify/require"

	"github.com/tuneinsight/zeroenc/utils/sampling"
)

const statisticalSampleCount = 1 << 20

func testPRNG(t *testing.T, key string) sampling.PRNG {
	prng, err := sampling.NewKeyedPRNG([]byte(key))
	require.NoError(t, err)
	return prng
}

// centered lifts a canonical residue to its centered representative.
func centered(x, q uint64) float64 {
	if x > q>>1 {
		return -float64(q - x)
	}
	return float64(x)
}

// requireCanonical fails if any residue of pol is outside [0, q-1] for its stripe.
func requireCanonical(t *testing.T, r *Ring, pol Poly) {
	t.Helper()
	for j, s := range r.SubRings {
		for i := 0; i < r.N(); i++ {
			if pol.Coeffs[j][i] >= s.Modulus {
				t.Fatalf("stripe %d coefficient %d: %d >= %d", j, i, pol.Coeffs[j][i], s.Modulus)
			}
		}
	}
}

func TestTernarySampler(t *testing.T) {

	r := testRing(t, 1024, 2)

	ts := NewTernarySampler(testPRNG(t, "ternary"), r)

	pol := r.NewPoly()

	var counts [3]int
	values := make([]float64, 0, statisticalSampleCount)

	for len(values) < statisticalSampleCount {

		ts.Read(pol)

		requireCanonical(t, r, pol)

		for i := 0; i < r.N(); i++ {

			v := centered(pol.Coeffs[0][i], r.SubRings[0].Modulus)

			if v < -1 || v > 1 {
				t.Fatalf("coefficient %d: %v outside {-1, 0, 1}", i, v)
			}

			// Residues of the two stripes must encode the same integer.
			if w := centered(pol.Coeffs[1][i], r.SubRings[1].Modulus); w != v {
				t.Fatalf("coefficient %d: stripes disagree (%v != %v)", i, v, w)
			}

			counts[int(v)+1]++
			values = append(values, v)
		}
	}

	n := float64(len(values))
	for _, c := range counts {
		// The empirical probability of each of {-1, 0, 1} is 1/3 up to
		// sampling noise (sd ~ 0.00046 at 2^20 draws).
		require.InDelta(t, 1.0/3.0, float64(c)/n, 0.003)
	}

	mean, err := stats.Mean(values)
	require.NoError(t, err)
	require.InDelta(t, 0.0, mean, 0.005)
}

func TestUniformSampler(t *testing.T) {

	// Modulus just below 2^61; uniformity of the rejection sampler is the
	// most delicate there.
	primes, err := GenerateNTTPrimes(61, 2048, 1)
	require.NoError(t, err)

	r, err := NewRing(1024, primes)
	require.NoError(t, err)

	us := NewUniformSampler(testPRNG(t, "uniform"), r)

	pol := r.NewPoly()

	q := r.SubRings[0].Modulus

	const nbBins = 256
	var bins [nbBins]int

	var n int
	for n < statisticalSampleCount {

		us.Read(pol)

		requireCanonical(t, r, pol)

		for i := 0; i < r.N(); i++ {
			idx := int(float64(pol.Coeffs[0][i]) / float64(q) * nbBins)
			if idx == nbBins {
				idx--
			}
			bins[idx]++
		}

		n += r.N()
	}

	// Chi-square uniformity over 256 equiprobable bins; the critical value
	// at 0.01 significance for 255 degrees of freedom is 310.5 (the run is
	// deterministic, the margin covers the fixed draw).
	expected := float64(n) / nbBins
	var chi2 float64
	for _, b := range bins {
		d := float64(b) - expected
		chi2 += d * d / expected
	}
	require.Less(t, chi2, 330.0)
}

func TestGaussianSampler(t *testing.T) {

	r := testRing(t, 1024, 2)

	sigma := 3.2
	bound := 19.2

	g := NewGaussianSampler(testPRNG(t, "gaussian"), r, DiscreteGaussian{Sigma: sigma, Bound: bound})

	pol := r.NewPoly()

	values := make([]float64, 0, statisticalSampleCount)

	for len(values) < statisticalSampleCount {

		g.Read(pol)

		requireCanonical(t, r, pol)

		for i := 0; i < r.N(); i++ {
			v := centered(pol.Coeffs[0][i], r.SubRings[0].Modulus)
			if v < -bound || v > bound {
				t.Fatalf("coefficient %d: %v outside [-%v, %v]", i, v, bound, bound)
			}
			values = append(values, v)
		}
	}

	mean, err := stats.Mean(values)
	require.NoError(t, err)
	require.InDelta(t, 0.0, mean, 0.05)

	// Truncation toward zero shifts each variate by its fractional part,
	// shrinking the continuous variance sigma^2 = 10.24 to about
	// sigma^2 - E|X| + 1/3 = 8.02.
	variance, err := stats.Variance(values)
	require.NoError(t, err)
	require.InDelta(t, 8.02, variance, 0.3)

	t.Run("ZeroBound", func(t *testing.T) {
		g := NewGaussianSampler(testPRNG(t, "gaussian0"), r, DiscreteGaussian{Sigma: sigma, Bound: 0})
		pol := NewPoly(r.N(), r.MaxLevel())
		for i := range pol.Buff {
			pol.Buff[i] = 0xdeadbeef
		}
		g.Read(pol)
		for i := range pol.Buff {
			require.Equal(t, uint64(0), pol.Buff[i])
		}
	})
}

func TestCenteredBinomialSampler(t *testing.T) {

	r := testRing(t, 1024, 2)

	t.Run("UnsupportedSigma", func(t *testing.T) {
		_, err := NewCenteredBinomialSampler(testPRNG(t, "cbd"), r, CenteredBinomial{Sigma: 1.0})
		require.ErrorIs(t, err, ErrUnsupportedSigma)

		_, err = NewSampler(testPRNG(t, "cbd"), r, CenteredBinomial{Sigma: 1.0})
		require.ErrorIs(t, err, ErrUnsupportedSigma)
	})

	cbd, err := NewCenteredBinomialSampler(testPRNG(t, "cbd"), r, CenteredBinomial{Sigma: CenteredBinomialStd})
	require.NoError(t, err)

	pol := r.NewPoly()

	values := make([]float64, 0, statisticalSampleCount)

	for len(values) < statisticalSampleCount {

		cbd.Read(pol)

		requireCanonical(t, r, pol)

		for i := 0; i < r.N(); i++ {
			v := centered(pol.Coeffs[0][i], r.SubRings[0].Modulus)
			if v < -CenteredBinomialBound || v > CenteredBinomialBound {
				t.Fatalf("coefficient %d: %v outside [-%d, %d]", i, v, CenteredBinomialBound, CenteredBinomialBound)
			}
			values = append(values, v)
		}
	}

	mean, err := stats.Mean(values)
	require.NoError(t, err)
	require.InDelta(t, 0.0, mean, 0.05)

	// The difference of two 21-bit popcounts has variance 42/4 = 10.5,
	// approximating sigma^2 = 10.24.
	variance, err := stats.Variance(values)
	require.NoError(t, err)
	require.InDelta(t, CenteredBinomialStd*CenteredBinomialStd, variance, 0.5)
}

func TestSamplerDeterminism(t *testing.T) {

	r := testRing(t, 64, 2)

	for _, X := range []DistributionParameters{
		Uniform{},
		Ternary{},
		DiscreteGaussian{Sigma: 3.2, Bound: 19.2},
		CenteredBinomial{Sigma: CenteredBinomialStd},
	} {
		t.Run(X.Type(), func(t *testing.T) {

			s0, err := NewSampler(testPRNG(t, "determinism"), r, X)
			require.NoError(t, err)

			s1, err := NewSampler(testPRNG(t, "determinism"), r, X)
			require.NoError(t, err)

			p0 := s0.ReadNew()
			p1 := s1.ReadNew()

			require.True(t, p0.Equal(&p1))
		})
	}
}
