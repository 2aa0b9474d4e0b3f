package rlwe

import (
	"github.com/google/go-cmp/cmp"
)

// MetaData is a struct storing the metadata of a ciphertext: the identifier
// of the parameter set it lives under, its scaling factor and the domain of
// its polynomials.
type MetaData struct {
	// ParametersID tags the parameter set the ciphertext was produced under.
	ParametersID ParametersID

	// Scale is the scaling factor of the message. Fresh zero encryptions
	// carry a scale of 1.
	Scale float64

	// IsNTT is a flag indicating if the ciphertext polynomials are in the
	// NTT domain.
	IsNTT bool
}

// CopyNew returns a copy of the target.
func (m MetaData) CopyNew() *MetaData {
	return &m
}

// Equal returns true if the two MetaData are identical.
func (m *MetaData) Equal(other *MetaData) (res bool) {
	res = cmp.Equal(m.ParametersID, other.ParametersID)
	res = res && m.Scale == other.Scale
	res = res && m.IsNTT == other.IsNTT
	return
}
