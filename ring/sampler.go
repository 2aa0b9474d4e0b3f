package ring

import (
	"encoding/json"
	"fmt"

	"github.com/tuneinsight/zeroenc/utils/sampling"
)

const (
	discreteGaussianName = "DiscreteGaussian"
	ternaryDistName      = "Ternary"
	uniformDistName      = "Uniform"
	centeredBinomialName = "CenteredBinomial"
)

// Sampler is an interface for random polynomial samplers.
// It has a single Read method which takes as argument the polynomial to be
// populated according to the Sampler's distribution. The polynomial is
// always written in coefficient form, with every residue in the canonical
// range [0, q-1] of its modulus.
type Sampler interface {
	Read(pol Poly)
	ReadNew() (pol Poly)
	AtLevel(level int) Sampler
}

// DistributionParameters is an interface for distribution
// parameters in the ring.
// There are four implementations of this interface:
//   - DiscreteGaussian for sampling polynomials with discretized
//     gaussian coefficients of given standard deviation and bound.
//   - CenteredBinomial for sampling polynomials with centered binomial
//     coefficients.
//   - Ternary for sampling polynomials with coefficients uniform in [-1, 1].
//   - Uniform for sampling polynomials with uniformly random
//     coefficients in the ring.
type DistributionParameters interface {
	// Type returns a string representation of the distribution name.
	Type() string
	mustBeDist()
}

// DiscreteGaussian represents the parameters of a discrete Gaussian
// distribution with standard deviation Sigma, truncated to [-Bound, Bound].
type DiscreteGaussian struct {
	Sigma float64
	Bound float64
}

// CenteredBinomial represents the parameters of a centered binomial
// distribution of standard deviation Sigma. Only Sigma = 3.2 is supported:
// the sampler draws 21 bits per side, which approximates a discrete
// Gaussian of that standard deviation.
type CenteredBinomial struct {
	Sigma float64
}

// Ternary represents the parameters of a distribution with coefficients
// uniform in {-1, 0, 1}.
type Ternary struct{}

// Uniform represents the parameters of a uniform distribution
// i.e., with coefficients uniformly distributed in the given ring.
type Uniform struct{}

// NewSampler instantiates a new [Sampler] over the given ring for the
// distribution X, reading its randomness from prng.
func NewSampler(prng sampling.PRNG, baseRing *Ring, X DistributionParameters) (Sampler, error) {
	switch X := X.(type) {
	case DiscreteGaussian:
		return NewGaussianSampler(prng, baseRing, X), nil
	case CenteredBinomial:
		return NewCenteredBinomialSampler(prng, baseRing, X)
	case Ternary:
		return NewTernarySampler(prng, baseRing), nil
	case Uniform:
		return NewUniformSampler(prng, baseRing), nil
	default:
		return nil, fmt.Errorf("invalid distribution: want ring.DiscreteGaussian, ring.CenteredBinomial, ring.Ternary or ring.Uniform but have %T", X)
	}
}

type baseSampler struct {
	source   *sampling.Source
	baseRing *Ring
}

// AtLevel returns an instance of the target base sampler that operates at the target level.
// This instance is not thread safe and cannot be used concurrently to the base instance.
func (b baseSampler) AtLevel(level int) *baseSampler {
	return &baseSampler{
		source:   b.source,
		baseRing: b.baseRing.AtLevel(level),
	}
}

func (d DiscreteGaussian) Type() string {
	return discreteGaussianName
}

func (d DiscreteGaussian) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type         string
		Sigma, Bound float64 `json:",omitempty"`
	}{d.Type(), d.Sigma, d.Bound})
}

func (d DiscreteGaussian) mustBeDist() {}

func (d CenteredBinomial) Type() string {
	return centeredBinomialName
}

func (d CenteredBinomial) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string
		Sigma float64 `json:",omitempty"`
	}{d.Type(), d.Sigma})
}

func (d CenteredBinomial) mustBeDist() {}

func (d Ternary) Type() string {
	return ternaryDistName
}

func (d Ternary) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string
	}{Type: d.Type()})
}

func (d Ternary) mustBeDist() {}

func (d Uniform) Type() string {
	return uniformDistName
}

func (d Uniform) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string
	}{Type: d.Type()})
}

func (d Uniform) mustBeDist() {}

// ParametersFromMap parses a map into a [DistributionParameters].
func ParametersFromMap(distDef map[string]interface{}) (DistributionParameters, error) {

	distTypeVal, specified := distDef["Type"]
	if !specified {
		return nil, fmt.Errorf("map specifies no distribution type")
	}

	distTypeStr, isString := distTypeVal.(string)
	if !isString {
		return nil, fmt.Errorf("value for key Type of map should be of type string")
	}

	switch distTypeStr {
	case uniformDistName:
		return Uniform{}, nil
	case ternaryDistName:
		return Ternary{}, nil
	case centeredBinomialName:
		sigma, err := getFloatFromMap(distDef, "Sigma")
		if err != nil {
			return nil, err
		}
		return CenteredBinomial{Sigma: sigma}, nil
	case discreteGaussianName:
		sigma, errSigma := getFloatFromMap(distDef, "Sigma")
		if errSigma != nil {
			return nil, errSigma
		}
		bound, errBound := getFloatFromMap(distDef, "Bound")
		if errBound != nil {
			return nil, errBound
		}
		return DiscreteGaussian{Sigma: sigma, Bound: bound}, nil
	default:
		return nil, fmt.Errorf("distribution type %s does not exist", distTypeStr)
	}
}

func getFloatFromMap(distDef map[string]interface{}, key string) (float64, error) {
	val, hasVal := distDef[key]
	if !hasVal {
		return 0, fmt.Errorf("map specifies no value for %s", key)
	}
	f, isFloat := val.(float64)
	if !isFloat {
		return 0, fmt.Errorf("value for key %s in map should be of type float", key)
	}
	return f, nil
}
