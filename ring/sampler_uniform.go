package ring

import (
	"math"

	"github.com/tuneinsight/zeroenc/utils/sampling"
)

// UniformSampler wraps a [sampling.Source] and represents the state of a
// sampler of polynomials with coefficients uniform in [0, q-1] for each
// modulus of the chain.
type UniformSampler struct {
	*baseSampler
}

// NewUniformSampler creates a new instance of UniformSampler from a PRNG and ring definition.
func NewUniformSampler(prng sampling.PRNG, baseRing *Ring) (u *UniformSampler) {
	u = new(UniformSampler)
	u.baseSampler = &baseSampler{
		source:   sampling.NewSource(prng),
		baseRing: baseRing,
	}
	return
}

// AtLevel returns an instance of the target UniformSampler to sample at the given level.
// The returned sampler cannot be used concurrently to the original sampler.
func (u *UniformSampler) AtLevel(level int) Sampler {
	return &UniformSampler{
		baseSampler: u.baseSampler.AtLevel(level),
	}
}

// Read samples a new polynomial in coefficient form on pol.
//
// Rejection sampling keeps the output bias-free over non-power-of-two
// moduli: for each modulus q, 64-bit words are drawn until one falls below
// the threshold maxU64 - (maxU64 mod q), the largest multiple of q not
// exceeding 2^64, so the acceptance region is an exact multiple of q.
// Accepted words are Barrett-reduced.
func (u *UniformSampler) Read(pol Poly) {

	var randomUint, maxMultiple uint64

	const maxRandom = uint64(math.MaxUint64)

	source := u.source
	level := u.baseRing.Level()
	N := u.baseRing.N()

	for j := 0; j < level+1; j++ {

		s := u.baseRing.SubRings[j]
		qi := s.Modulus
		brc := s.BRedConstant

		maxMultiple = maxRandom - BRedAdd(maxRandom, qi, brc)

		coeffs := pol.Coeffs[j]

		for i := 0; i < N; i++ {

			// This ensures uniform distribution.
			for {
				randomUint = source.Uint64()
				if randomUint < maxMultiple {
					break
				}
			}

			coeffs[i] = BRedAdd(randomUint, qi, brc)
		}
	}
}

// ReadNew samples a new polynomial with coefficients following a uniform
// distribution over [0, q-1]. The polynomial is created at the sampler's level.
func (u *UniformSampler) ReadNew() (pol Poly) {
	pol = u.baseRing.NewPoly()
	u.Read(pol)
	return
}

// WithPRNG returns an instance of the sampler backed by the given PRNG.
func (u *UniformSampler) WithPRNG(prng sampling.PRNG) *UniformSampler {
	return NewUniformSampler(prng, u.baseRing)
}
