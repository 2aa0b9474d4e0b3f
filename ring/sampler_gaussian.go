package ring

import (
	"math"

	"github.com/tuneinsight/zeroenc/utils/sampling"
)

// GaussianSampler keeps the state of a sampler of polynomials with
// coefficients following a truncated Gaussian distribution of standard
// deviation Sigma, bounded to [-Bound, Bound].
type GaussianSampler struct {
	*baseSampler
	xe DiscreteGaussian

	// spare holds the second variate of the last Box-Muller transform.
	spare    float64
	hasSpare bool
}

// NewGaussianSampler creates a new instance of GaussianSampler from a PRNG,
// a ring definition and the truncated Gaussian distribution parameters.
func NewGaussianSampler(prng sampling.PRNG, baseRing *Ring, X DiscreteGaussian) (g *GaussianSampler) {
	g = new(GaussianSampler)
	g.baseSampler = &baseSampler{
		source:   sampling.NewSource(prng),
		baseRing: baseRing,
	}
	g.xe = X
	return
}

// AtLevel returns an instance of the target GaussianSampler to sample at the given level.
// The returned sampler cannot be used concurrently to the original sampler.
func (g *GaussianSampler) AtLevel(level int) Sampler {
	return &GaussianSampler{
		baseSampler: g.baseSampler.AtLevel(level),
		xe:          g.xe,
	}
}

// Read samples a new polynomial in coefficient form on pol.
//
// Each coefficient is a normal variate of standard deviation Sigma,
// resampled until it falls within [-Bound, Bound] and truncated toward
// zero. Negative values are lifted to their two's-complement
// representative modulo each modulus of the chain. If the bound is zero
// the polynomial is zeroed.
func (g *GaussianSampler) Read(pol Poly) {

	var noiseFlo float64
	var noiseInt, sign uint64

	level := g.baseRing.Level()
	N := g.baseRing.N()

	bound := g.xe.Bound
	sigma := g.xe.Sigma

	if bound < 0.5 {
		for j := 0; j < level+1; j++ {
			ZeroVec(pol.Coeffs[j][:N])
		}
		return
	}

	moduli := g.baseRing.ModuliChain()[:level+1]

	for i := 0; i < N; i++ {

		for {
			noiseFlo = g.normFloat64() * sigma
			if noiseFlo >= -bound && noiseFlo <= bound {
				break
			}
		}

		// Truncation toward zero, then sign extraction on the integer so
		// that values in (-1, 0) are stored as 0 and not as q.
		noise := int64(noiseFlo)
		if noise < 0 {
			sign = 1
			noiseInt = uint64(-noise)
		} else {
			sign = 0
			noiseInt = uint64(noise)
		}

		for j, qi := range moduli {
			pol.Coeffs[j][i] = noiseInt*(sign^1) | (qi-noiseInt)*sign
		}
	}
}

// ReadNew allocates and samples a polynomial at the sampler's level.
func (g *GaussianSampler) ReadNew() (pol Poly) {
	pol = g.baseRing.NewPoly()
	g.Read(pol)
	return
}

// normFloat64 returns a standard normal variate derived from the sampler's
// source with the Box-Muller transform. Variates come in pairs; the second
// one is kept for the next call.
func (g *GaussianSampler) normFloat64() float64 {

	if g.hasSpare {
		g.hasSpare = false
		return g.spare
	}

	var u, v float64

	// u must be in (0, 1] for the logarithm to be finite.
	for {
		u = float64(g.source.Uint64()>>11) / (1 << 53)
		if u != 0 {
			break
		}
	}
	v = float64(g.source.Uint64()>>11) / (1 << 53)

	r := math.Sqrt(-2 * math.Log(u))
	theta := 2 * math.Pi * v

	g.spare = r * math.Sin(theta)
	g.hasSpare = true

	return r * math.Cos(theta)
}
