package ring

import (
	"fmt"
	"math/bits"

	"github.com/tuneinsight/zeroenc/utils/sampling"
)

// CenteredBinomialStd is the only standard deviation supported by the
// centered binomial sampler.
const CenteredBinomialStd = 3.2

// CenteredBinomialBound is the largest absolute value the centered binomial
// sampler can produce: each side of the difference sums the popcount of two
// full bytes and one 5-bit masked byte.
const CenteredBinomialBound = 21

// ErrUnsupportedSigma is returned when the centered binomial sampler is
// requested with a standard deviation other than [CenteredBinomialStd].
var ErrUnsupportedSigma = fmt.Errorf("centered binomial distribution only supports standard deviation %v, use the discrete Gaussian instead", CenteredBinomialStd)

// CenteredBinomialSampler keeps the state of a sampler of polynomials with
// coefficients following a centered binomial distribution, a cheap
// approximation of the discrete Gaussian of standard deviation 3.2.
type CenteredBinomialSampler struct {
	*baseSampler
}

// NewCenteredBinomialSampler creates a new instance of CenteredBinomialSampler
// from a PRNG and the ring definition. The standard deviation of X must be
// exactly [CenteredBinomialStd], else [ErrUnsupportedSigma] is returned.
func NewCenteredBinomialSampler(prng sampling.PRNG, baseRing *Ring, X CenteredBinomial) (cbd *CenteredBinomialSampler, err error) {

	if X.Sigma != CenteredBinomialStd {
		return nil, ErrUnsupportedSigma
	}

	cbd = new(CenteredBinomialSampler)
	cbd.baseSampler = &baseSampler{
		source:   sampling.NewSource(prng),
		baseRing: baseRing,
	}
	return
}

// AtLevel returns an instance of the target CenteredBinomialSampler to sample at the given level.
// The returned sampler cannot be used concurrently to the original sampler.
func (cbd *CenteredBinomialSampler) AtLevel(level int) Sampler {
	return &CenteredBinomialSampler{
		baseSampler: cbd.baseSampler.AtLevel(level),
	}
}

// Read samples a new polynomial in coefficient form on pol.
//
// Each coefficient consumes 6 bytes of randomness. Bytes 2 and 5 are masked
// to 5 bits, so each side of the popcount difference contributes at most
// 8+8+5 = 21 ones, and the difference approximates a centered Gaussian of
// standard deviation 3.2 with support [-21, 21].
func (cbd *CenteredBinomialSampler) Read(pol Poly) {

	var x [6]byte
	var noiseInt, sign uint64

	source := cbd.source
	level := cbd.baseRing.Level()
	N := cbd.baseRing.N()

	moduli := cbd.baseRing.ModuliChain()[:level+1]

	for i := 0; i < N; i++ {

		source.ReadBytes(x[:])

		x[2] &= 0x1F
		x[5] &= 0x1F

		noise := bits.OnesCount8(x[0]) + bits.OnesCount8(x[1]) + bits.OnesCount8(x[2])
		noise -= bits.OnesCount8(x[3]) + bits.OnesCount8(x[4]) + bits.OnesCount8(x[5])

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
func (cbd *CenteredBinomialSampler) ReadNew() (pol Poly) {
	pol = cbd.baseRing.NewPoly()
	cbd.Read(pol)
	return
}
