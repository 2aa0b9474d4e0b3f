package rlwe

import (
	"math"

	"github.com/tuneinsight/zeroenc/ring"
)

// Distribution is a wrapper around [ring.DistributionParameters] that
// carries the standard deviation and the absolute bound of the support of
// the distribution.
type Distribution struct {
	ring.DistributionParameters
	Std      float64
	AbsBound float64
}

// NewDistribution wraps the given distribution parameters.
func NewDistribution(params ring.DistributionParameters, logN int) (d Distribution) {
	d.DistributionParameters = params
	switch params := params.(type) {
	case ring.DiscreteGaussian:
		d.Std = params.Sigma
		d.AbsBound = params.Bound
	case ring.CenteredBinomial:
		d.Std = params.Sigma
		d.AbsBound = ring.CenteredBinomialBound
	case ring.Ternary:
		d.Std = math.Sqrt(2.0 / 3.0)
		d.AbsBound = 1
	case ring.Uniform:
		d.Std = math.Exp2(float64(logN)) / math.Sqrt(12.0)
		d.AbsBound = 0
	default:
		// Sanity check
		panic("invalid distribution")
	}
	return
}
