package ring

import (
	"github.com/tuneinsight/zeroenc/utils/sampling"
)

// TernarySampler keeps the state of a sampler of polynomials with
// coefficients uniform in {-1, 0, 1}. Coefficients are stored in their
// canonical representative: -1 is stored as q-1 for each modulus q of
// the chain.
type TernarySampler struct {
	*baseSampler
	matrixValues [][3]uint64
}

// NewTernarySampler creates a new instance of TernarySampler from a PRNG and the ring definition.
func NewTernarySampler(prng sampling.PRNG, baseRing *Ring) (ts *TernarySampler) {
	ts = new(TernarySampler)
	ts.baseSampler = &baseSampler{
		source:   sampling.NewSource(prng),
		baseRing: baseRing,
	}
	ts.initializeMatrix()
	return
}

// AtLevel returns an instance of the target TernarySampler to sample at the given level.
// The returned sampler cannot be used concurrently to the original sampler.
func (ts *TernarySampler) AtLevel(level int) Sampler {
	return &TernarySampler{
		baseSampler:  ts.baseSampler.AtLevel(level),
		matrixValues: ts.matrixValues,
	}
}

func (ts *TernarySampler) initializeMatrix() {

	ts.matrixValues = make([][3]uint64, ts.baseRing.ModuliChainLength())

	// [0] = qi - 1
	// [1] = 0
	// [2] = 1

	for i, s := range ts.baseRing.SubRings {
		ts.matrixValues[i][0] = s.Modulus - 1
		ts.matrixValues[i][1] = 0
		ts.matrixValues[i][2] = 1
	}
}

// Read samples a new polynomial in coefficient form on pol.
//
// For each coefficient position, a bias-free draw r in {0, 1, 2} is taken
// from the source by masked rejection, then mapped to r-1 mod q for each
// modulus of the chain.
func (ts *TernarySampler) Read(pol Poly) {

	var r uint64

	source := ts.source
	level := ts.baseRing.Level()
	N := ts.baseRing.N()

	lut := ts.matrixValues

	for i := 0; i < N; i++ {

		for {
			r = uint64(source.Uint32() & 3)
			if r < 3 {
				break
			}
		}

		for j := 0; j < level+1; j++ {
			pol.Coeffs[j][i] = lut[j][r]
		}
	}
}

// ReadNew allocates and samples a polynomial at the sampler's level.
func (ts *TernarySampler) ReadNew() (pol Poly) {
	pol = ts.baseRing.NewPoly()
	ts.Read(pol)
	return
}
