package rlwe

// KeyGenerator is a structure that stores the elements required to create new
// keys. It is not safe for concurrent use; [KeyGenerator.ShallowCopy] returns
// an independent instance.
type KeyGenerator struct {
	*Encryptor
}

// NewKeyGenerator creates a new [KeyGenerator], from which the secret and
// public keys can be generated.
func NewKeyGenerator(params ParameterProvider) *KeyGenerator {
	return &KeyGenerator{
		Encryptor: NewEncryptor(params, nil),
	}
}

// GenSecretKeyNew generates a new [SecretKey]: a uniform ternary polynomial,
// stored in the NTT domain.
func (kgen KeyGenerator) GenSecretKeyNew() (sk *SecretKey) {
	sk = NewSecretKey(kgen.params)
	kgen.GenSecretKey(sk)
	return
}

// GenSecretKey generates a uniform ternary polynomial in the NTT domain on sk.
func (kgen KeyGenerator) GenSecretKey(sk *SecretKey) {
	kgen.xsSampler.Read(sk.Value)
	kgen.params.RingQ().NTT(sk.Value, sk.Value)
}

// GenPublicKeyNew generates a new [PublicKey] from the secret key sk: a
// ciphertext-shaped encryption of zero (-(a*s + e), a) in the NTT domain.
func (kgen KeyGenerator) GenPublicKeyNew(sk *SecretKey) (pk *PublicKey) {
	pk = NewPublicKey(kgen.params)
	kgen.GenPublicKey(sk, pk)
	return
}

// GenPublicKey generates an encryption of zero under sk in the NTT domain on pk.
func (kgen KeyGenerator) GenPublicKey(sk *SecretKey, pk *PublicKey) {

	ct := &Ciphertext{
		Value: pk.Value,
		MetaData: &MetaData{
			ParametersID: kgen.params.ID(),
			Scale:        1,
			IsNTT:        true,
		},
	}

	if err := kgen.encryptZeroSk(sk, ct, false); err != nil {
		// Sanity check, this error should not happen.
		panic(err)
	}
}

// GenKeyPairNew generates a new [SecretKey] and an associated [PublicKey].
func (kgen KeyGenerator) GenKeyPairNew() (sk *SecretKey, pk *PublicKey) {
	sk = kgen.GenSecretKeyNew()
	return sk, kgen.GenPublicKeyNew(sk)
}

// ShallowCopy returns an independent KeyGenerator operating on the same
// parameters, with a fresh PRNG and fresh buffers.
func (kgen KeyGenerator) ShallowCopy() *KeyGenerator {
	return &KeyGenerator{Encryptor: kgen.Encryptor.ShallowCopy()}
}
