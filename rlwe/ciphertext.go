package rlwe

import (
	"fmt"

	"github.com/tuneinsight/zeroenc/ring"
)

// Ciphertext is a generic type for RLWE ciphertexts: an ordered sequence of
// degree+1 polynomials over the same RNS basis, plus the [MetaData] tracking
// their domain, scale and parameter set.
type Ciphertext struct {
	*MetaData
	Value []ring.Poly
}

// NewCiphertext returns a new [Ciphertext] with zero values and an associated
// MetaData set to the Parameters default value. The optional argument sets
// the level of the ciphertext (defaults to the maximum level).
func NewCiphertext(params ParameterProvider, degree int, level ...int) (ct *Ciphertext) {

	p := params.GetRLWEParameters()

	lvl := p.MaxLevel()
	if len(level) > 0 {
		lvl = level[0]
	}

	Value := make([]ring.Poly, degree+1)
	for i := range Value {
		Value[i] = ring.NewPoly(p.N(), lvl)
	}

	return &Ciphertext{
		Value: Value,
		MetaData: &MetaData{
			ParametersID: p.ID(),
			Scale:        1,
		},
	}
}

// Degree returns the degree of the ciphertext, i.e. its number of
// polynomials minus one.
func (ct Ciphertext) Degree() int {
	return len(ct.Value) - 1
}

// Level returns the level of the ciphertext.
func (ct Ciphertext) Level() int {
	return ct.Value[0].Level()
}

// N returns the ring degree of the ciphertext polynomials.
func (ct Ciphertext) N() int {
	return ct.Value[0].N()
}

// Resize resizes the degree of the ciphertext, allocating or dereferencing
// polynomials as needed. Existing polynomials are preserved.
func (ct *Ciphertext) Resize(degree, level int) {

	if ct.Degree() > degree {
		ct.Value = ct.Value[:degree+1]
	} else {
		for ct.Degree() < degree {
			ct.Value = append(ct.Value, ring.NewPoly(ct.N(), level))
		}
	}
}

// CopyNew creates a deep copy of the target ciphertext.
func (ct Ciphertext) CopyNew() *Ciphertext {

	Value := make([]ring.Poly, len(ct.Value))
	for i := range Value {
		Value[i] = ct.Value[i].CopyNew()
	}

	return &Ciphertext{Value: Value, MetaData: ct.MetaData.CopyNew()}
}

// Equal performs a deep equal between the receiver and the operand.
func (ct Ciphertext) Equal(other *Ciphertext) bool {

	if !ct.MetaData.Equal(other.MetaData) || len(ct.Value) != len(other.Value) {
		return false
	}

	for i := range ct.Value {
		if !ct.Value[i].Equal(&other.Value[i]) {
			return false
		}
	}

	return true
}

// checkParameters returns an error if the ciphertext was not produced under
// the given parameter set.
func (ct Ciphertext) checkParameters(params *Parameters) error {
	if ct.ParametersID != params.ID() {
		return fmt.Errorf("ciphertext parameters ID does not match the given parameters")
	}
	return nil
}
