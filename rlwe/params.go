package rlwe

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math/bits"

	"github.com/google/go-cmp/cmp"
	"github.com/zeebo/blake3"

	"github.com/tuneinsight/zeroenc/ring"
	"github.com/tuneinsight/zeroenc/utils/sampling"
)

const (
	// MinLogN is the log2 of the smallest supported polynomial modulus degree.
	MinLogN = 10

	// MaxLogN is the log2 of the largest supported polynomial modulus degree.
	MaxLogN = 15

	// DefaultNoiseStandardDeviation is the default standard deviation of the error distribution.
	DefaultNoiseStandardDeviation = 3.2

	// DefaultNoiseMaxDeviation is the default hard bound of the error distribution,
	// as a multiple of the default standard deviation.
	DefaultNoiseMaxDeviation = 6 * DefaultNoiseStandardDeviation
)

// ParametersID is the hash of the canonical encoding of a parameter set. Two
// Parameters have the same identifier if and only if they describe the same
// ring, error distribution and secret distribution. The identifier tags every
// ciphertext produced under the parameter set.
type ParametersID [32]byte

// ParametersLiteral is a literal representation of RLWE parameters. It has
// public fields and is used to express unchecked user-defined parameters
// literally into Go programs. The [NewParametersFromLiteral] function is used
// to generate the actual checked parameters from the literal representation.
//
// The noise constants are surfaced as first-class configuration: Xe selects
// both the error distribution family and its standard deviation and bound.
// If Xe is left nil, it defaults to a centered binomial distribution of
// standard deviation 3.2. If Xs is left nil, it defaults to the uniform
// ternary distribution.
type ParametersLiteral struct {
	LogN int
	Q    []uint64
	Xe   ring.DistributionParameters
	Xs   ring.DistributionParameters
}

// Parameters represents a set of checked RLWE parameters, hosting the ring
// and the distributions the encryptors sample from.
type Parameters struct {
	logN  int
	qi    []uint64
	xe    Distribution
	xs    Distribution
	ringQ *ring.Ring
	id    ParametersID
}

// NewParametersFromLiteral instantiates a set of [Parameters] from a
// [ParametersLiteral] specification, generating the NTT tables of the ring in
// the process. It returns the error of the first invalid field encountered.
func NewParametersFromLiteral(paramDef ParametersLiteral) (params Parameters, err error) {

	if paramDef.LogN < MinLogN || paramDef.LogN > MaxLogN {
		return Parameters{}, fmt.Errorf("invalid LogN: must be in [%d, %d] but is %d", MinLogN, MaxLogN, paramDef.LogN)
	}

	if len(paramDef.Q) == 0 {
		return Parameters{}, fmt.Errorf("invalid Q: must contain at least one modulus")
	}

	for _, qi := range paramDef.Q {
		if bits.Len64(qi) > ring.MaxModulusBitSize {
			return Parameters{}, fmt.Errorf("invalid modulus %d: cannot be larger than %d bits", qi, ring.MaxModulusBitSize)
		}
	}

	xe := paramDef.Xe
	if xe == nil {
		xe = ring.CenteredBinomial{Sigma: DefaultNoiseStandardDeviation}
	}

	xs := paramDef.Xs
	if xs == nil {
		xs = ring.Ternary{}
	}

	switch xe := xe.(type) {
	case ring.DiscreteGaussian:
	case ring.CenteredBinomial:
		if xe.Sigma != ring.CenteredBinomialStd {
			return Parameters{}, fmt.Errorf("%w: %w", ErrUnsupportedParameter, ring.ErrUnsupportedSigma)
		}
	default:
		return Parameters{}, fmt.Errorf("invalid Xe: must be ring.DiscreteGaussian or ring.CenteredBinomial but is %T", xe)
	}

	params = Parameters{
		logN: paramDef.LogN,
		qi:   make([]uint64, len(paramDef.Q)),
		xe:   NewDistribution(xe, paramDef.LogN),
		xs:   NewDistribution(xs, paramDef.LogN),
	}

	copy(params.qi, paramDef.Q)

	if params.ringQ, err = ring.NewRing(1<<paramDef.LogN, params.qi); err != nil {
		return Parameters{}, fmt.Errorf("cannot NewParametersFromLiteral: %w", err)
	}

	params.id = params.hash()

	return
}

// ParametersLiteral returns the literal representation of the parameter set.
func (p Parameters) ParametersLiteral() ParametersLiteral {
	Q := make([]uint64, len(p.qi))
	copy(Q, p.qi)
	return ParametersLiteral{
		LogN: p.logN,
		Q:    Q,
		Xe:   p.xe.DistributionParameters,
		Xs:   p.xs.DistributionParameters,
	}
}

// GetRLWEParameters returns the target parameter set.
func (p Parameters) GetRLWEParameters() *Parameters {
	return &p
}

// ParameterProvider is an interface for types that expose a set of [Parameters].
type ParameterProvider interface {
	GetRLWEParameters() *Parameters
}

// N returns the ring degree.
func (p Parameters) N() int {
	return 1 << p.logN
}

// LogN returns the log2 of the ring degree.
func (p Parameters) LogN() int {
	return p.logN
}

// Q returns a new slice with the factors of the ciphertext modulus.
func (p Parameters) Q() []uint64 {
	qi := make([]uint64, len(p.qi))
	copy(qi, p.qi)
	return qi
}

// QCount returns the number of factors of the ciphertext modulus.
func (p Parameters) QCount() int {
	return len(p.qi)
}

// MaxLevel returns the maximum level of a ciphertext.
func (p Parameters) MaxLevel() int {
	return p.QCount() - 1
}

// LogQ returns the size of the ciphertext modulus in bits.
func (p Parameters) LogQ() float64 {
	return p.ringQ.LogModulus()
}

// RingQ returns a pointer to the ring of the ciphertext modulus.
func (p Parameters) RingQ() *ring.Ring {
	return p.ringQ
}

// Xe returns the parameters of the error distribution.
func (p Parameters) Xe() ring.DistributionParameters {
	return p.xe.DistributionParameters
}

// Xs returns the parameters of the secret distribution.
func (p Parameters) Xs() ring.DistributionParameters {
	return p.xs.DistributionParameters
}

// NoiseStandardDeviation returns the standard deviation of the error distribution.
func (p Parameters) NoiseStandardDeviation() float64 {
	return p.xe.Std
}

// NoiseMaxDeviation returns the hard bound of the error distribution.
func (p Parameters) NoiseMaxDeviation() float64 {
	return p.xe.AbsBound
}

// NoiseFreshSK returns the standard deviation of a fresh secret.
func (p Parameters) NoiseFreshSK() float64 {
	return p.xs.Std
}

// ID returns the identifier of the parameter set.
func (p Parameters) ID() ParametersID {
	return p.id
}

// NewRandomSource spawns a fresh cryptographic randomness source.
func (p Parameters) NewRandomSource() (sampling.PRNG, error) {
	return sampling.NewPRNG()
}

// Equal checks two Parameters for equality.
func (p Parameters) Equal(other *Parameters) bool {
	res := p.logN == other.logN
	res = res && cmp.Equal(p.qi, other.qi)
	res = res && cmp.Equal(p.xe.DistributionParameters, other.xe.DistributionParameters)
	res = res && cmp.Equal(p.xs.DistributionParameters, other.xs.DistributionParameters)
	return res
}

// MarshalJSON encodes the parameter set into a JSON literal.
func (p Parameters) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		LogN int
		Q    []uint64
		Xe   ring.DistributionParameters
		Xs   ring.DistributionParameters
	}{p.logN, p.qi, p.xe.DistributionParameters, p.xs.DistributionParameters})
}

// hash derives the parameter-set identifier from the canonical encoding of
// the fields that define the scheme.
func (p Parameters) hash() (id ParametersID) {

	hasher := blake3.New()

	var buff [8]byte

	binary.LittleEndian.PutUint64(buff[:], uint64(p.logN))
	hasher.Write(buff[:])

	binary.LittleEndian.PutUint64(buff[:], uint64(len(p.qi)))
	hasher.Write(buff[:])

	for _, qi := range p.qi {
		binary.LittleEndian.PutUint64(buff[:], qi)
		hasher.Write(buff[:])
	}

	for _, d := range []Distribution{p.xe, p.xs} {
		hasher.Write([]byte(d.Type()))
		binary.LittleEndian.PutUint64(buff[:], uint64(int64(d.Std*1e9)))
		hasher.Write(buff[:])
		binary.LittleEndian.PutUint64(buff[:], uint64(int64(d.AbsBound*1e9)))
		hasher.Write(buff[:])
	}

	copy(id[:], hasher.Sum(nil))

	return
}
