package rlwe

import (
	"github.com/tuneinsight/zeroenc/ring"
)

// EncryptionKey is an interface for encryption keys. Valid encryption
// keys are the [SecretKey] and [PublicKey] types.
type EncryptionKey interface {
	isEncryptionKey()
}

// SecretKey is a type for generic RLWE secret keys. The secret key is a
// small ternary polynomial, stored in the NTT domain.
type SecretKey struct {
	Value ring.Poly
}

// NewSecretKey generates a new [SecretKey] with zero values.
func NewSecretKey(params ParameterProvider) *SecretKey {
	p := params.GetRLWEParameters()
	return &SecretKey{Value: ring.NewPoly(p.N(), p.MaxLevel())}
}

// LevelQ returns the level of the secret key.
func (sk SecretKey) LevelQ() int {
	return sk.Value.Level()
}

// CopyNew creates a deep copy of the receiver secret key and returns it.
func (sk SecretKey) CopyNew() *SecretKey {
	return &SecretKey{sk.Value.CopyNew()}
}

func (sk SecretKey) isEncryptionKey() {}

// PublicKey is a type for generic RLWE public keys. A public key is a
// ciphertext-shaped encryption of zero under the secret key, of size at
// least two, stored in the NTT domain.
type PublicKey struct {
	Value []ring.Poly
}

// NewPublicKey returns a new [PublicKey] with zero values.
func NewPublicKey(params ParameterProvider) (pk *PublicKey) {
	p := params.GetRLWEParameters()
	return &PublicKey{Value: []ring.Poly{
		ring.NewPoly(p.N(), p.MaxLevel()),
		ring.NewPoly(p.N(), p.MaxLevel()),
	}}
}

// Size returns the number of polynomials of the public key.
func (pk PublicKey) Size() int {
	return len(pk.Value)
}

// LevelQ returns the level of the public key.
func (pk PublicKey) LevelQ() int {
	return pk.Value[0].Level()
}

// Equal performs a deep equal between the receiver and the operand.
func (pk PublicKey) Equal(other *PublicKey) bool {

	if len(pk.Value) != len(other.Value) {
		return false
	}

	for i := range pk.Value {
		if !pk.Value[i].Equal(&other.Value[i]) {
			return false
		}
	}

	return true
}

// CopyNew creates a deep copy of the receiver [PublicKey] and returns it.
func (pk PublicKey) CopyNew() *PublicKey {
	Value := make([]ring.Poly, len(pk.Value))
	for i := range Value {
		Value[i] = pk.Value[i].CopyNew()
	}
	return &PublicKey{Value: Value}
}

func (pk PublicKey) isEncryptionKey() {}
