package rlwe

import (
	"fmt"

	"github.com/tuneinsight/zeroenc/ring"
	"github.com/tuneinsight/zeroenc/utils/sampling"
)

// Encryptor generates fresh RLWE encryptions of the zero plaintext under a
// public or a secret key.
//
// Two sources of randomness are involved: the bootstrap PRNG, owned by the
// Encryptor, produces all the secret material (the secret-side randomness u,
// the errors, and the seed of the public PRNG); the public PRNG, keyed by
// that seed, produces the uniform polynomial a of symmetric encryptions, so
// that a can be regenerated from the seed alone.
//
// An Encryptor is not safe for concurrent use; [Encryptor.ShallowCopy]
// returns an independent instance operating on the same keys.
type Encryptor struct {
	params Parameters
	pool   *ring.BufferPool

	encKey    EncryptionKey
	prng      sampling.PRNG
	xeSampler ring.Sampler
	xsSampler ring.Sampler
}

// NewEncryptor creates a new [Encryptor] from either a public key or a private key.
func NewEncryptor(params ParameterProvider, key EncryptionKey) *Encryptor {

	p := *params.GetRLWEParameters()

	enc := newEncryptor(p)
	var err error
	switch key := key.(type) {
	case *PublicKey:
		err = enc.checkPk(key)
	case *SecretKey:
		err = enc.checkSk(key)
	case nil:
		return enc
	default:
		// Sanity check
		panic(fmt.Errorf("key must be either *rlwe.PublicKey, *rlwe.SecretKey or nil but have %T", key))
	}

	if err != nil {
		// Sanity check, this error should not happen.
		panic(fmt.Errorf("key is not correct: %w", err))
	}

	enc.encKey = key
	return enc
}

func newEncryptor(params Parameters) *Encryptor {

	prng, err := params.NewRandomSource()
	if err != nil {
		// Sanity check, this error should not happen.
		panic(err)
	}

	enc := &Encryptor{
		params: params,
		pool:   ring.NewBufferPool(params.RingQ()),
		prng:   prng,
	}

	enc.initSamplers()

	return enc
}

// initSamplers instantiates the error and secret samplers over the bootstrap
// PRNG. The same PRNG feeds both, so that u and the errors of one encryption
// are drawn from a single stream.
func (enc *Encryptor) initSamplers() {

	var err error

	if enc.xeSampler, err = ring.NewSampler(enc.prng, enc.params.RingQ(), enc.params.Xe()); err != nil {
		// Sanity check, this error should not happen: Xe was validated with the parameters.
		panic(fmt.Errorf("newEncryptor: %w", err))
	}

	if enc.xsSampler, err = ring.NewSampler(enc.prng, enc.params.RingQ(), enc.params.Xs()); err != nil {
		// Sanity check, this error should not happen: Xs was validated with the parameters.
		panic(fmt.Errorf("newEncryptor: %w", err))
	}
}

// GetRLWEParameters returns the underlying [Parameters].
func (enc Encryptor) GetRLWEParameters() *Parameters {
	return &enc.params
}

// EncryptZero generates an encryption of zero under the stored encryption
// key and writes the result on ct. The encryption is generated according to
// the ciphertext [MetaData]: the output polynomials are in the NTT domain if
// and only if ct.IsNTT is set. The method returns an error if no encryption
// key is stored in the Encryptor.
func (enc *Encryptor) EncryptZero(ct *Ciphertext) (err error) {
	switch key := enc.encKey.(type) {
	case *SecretKey:
		return enc.encryptZeroSk(key, ct, false)
	case *PublicKey:
		return enc.encryptZeroPk(key, ct)
	default:
		return fmt.Errorf("cannot EncryptZero: Encryptor has no encryption key")
	}
}

// EncryptZeroSeeded generates a seed-compressed encryption of zero under the
// stored secret key and writes the result on ct: the polynomial c1 is
// replaced by a seed record from which it can be deterministically
// regenerated (see [SeedFromRecord] and [ExpandSeedRecord]). If the
// polynomial is too small to carry the seed, the compression is silently
// dropped and a regular encryption of zero is produced.
// The method returns an error if the stored encryption key is not a secret key.
func (enc *Encryptor) EncryptZeroSeeded(ct *Ciphertext) (err error) {
	switch key := enc.encKey.(type) {
	case *SecretKey:
		return enc.encryptZeroSk(key, ct, true)
	default:
		return fmt.Errorf("cannot EncryptZeroSeeded: seed compression requires a secret key but Encryptor stores %T", enc.encKey)
	}
}

// EncryptZeroNew generates an encryption of zero under the stored encryption
// key and returns a newly allocated [Ciphertext] containing the result, with
// polynomials in the NTT domain if isNTT is set. The optional argument sets
// the level of the ciphertext (defaults to the maximum level).
func (enc *Encryptor) EncryptZeroNew(isNTT bool, level ...int) (ct *Ciphertext) {

	degree := 1
	if pk, isPk := enc.encKey.(*PublicKey); isPk {
		degree = pk.Size() - 1
	}

	ct = NewCiphertext(enc.params, degree, level...)
	ct.IsNTT = isNTT
	if err := enc.EncryptZero(ct); err != nil {
		// Sanity check, this error should not happen.
		panic(err)
	}
	return
}

// encryptZeroPk generates ct = (pk[0]*u + e[0], ..., pk[k-1]*u + e[k-1])
// with u uniform ternary and e[t] sampled from the error distribution. The
// public key is in the NTT domain; products are evaluated there and the
// components are brought back to the coefficient domain when the ciphertext
// metadata asks for it.
func (enc *Encryptor) encryptZeroPk(pk *PublicKey, ct *Ciphertext) (err error) {

	level := ct.Level()
	ringQ := enc.params.RingQ().AtLevel(level)

	k := pk.Size()

	ct.Resize(k-1, level)
	ct.ParametersID = enc.params.ID()
	ct.Scale = 1

	// u <- R_3, shared scratch for u then the errors
	u := enc.pool.AtLevel(level).GetBuffPoly()
	defer enc.pool.RecycleBuffPoly(&u)

	enc.xsSampler.AtLevel(level).Read(u)
	ringQ.NTT(u, u)

	// ct[t] = u * pk[t]
	for t := 0; t < k; t++ {

		ringQ.MulCoeffsBarrett(u, pk.Value[t], ct.Value[t])

		// Addition with e[t] is in the coefficient domain.
		if !ct.IsNTT {
			ringQ.INTT(ct.Value[t], ct.Value[t])
		}
	}

	// ct[t] = u * pk[t] + e[t]
	e := u
	for t := 0; t < k; t++ {

		enc.xeSampler.AtLevel(level).Read(e)

		// Addition with e[t] is in the NTT domain.
		if ct.IsNTT {
			ringQ.NTT(e, e)
		}

		ringQ.Add(ct.Value[t], e, ct.Value[t])
	}

	return
}

// encryptZeroSk generates ct = (-(a*s + e), a) with a uniform in the ring
// and e sampled from the error distribution.
//
// The uniform sampler writes in the coefficient layout, but its output is by
// convention a uniform element of the NTT domain: the product with the
// secret key is always evaluated in the NTT domain, and a is only brought
// back to the coefficient domain when the ciphertext metadata asks for it
// and the seed is not saved. When the seed is saved together with a
// coefficient-domain ciphertext, a is forward-transformed first so that the
// NTT-domain value reconstructed from the seed is the one the product used.
func (enc *Encryptor) encryptZeroSk(sk *SecretKey, ct *Ciphertext, saveSeed bool) (err error) {

	level := ct.Level()
	ringQ := enc.params.RingQ().AtLevel(level)

	// If the polynomial is too small to store the seed, disable the compression.
	saveSeed = saveSeed && canHoldSeedRecord((level+1)*ct.N())

	ct.Resize(1, level)
	ct.ParametersID = enc.params.ID()
	ct.Scale = 1

	c0, c1 := ct.Value[0], ct.Value[1]

	// The seed of the public PRNG is drawn from the bootstrap PRNG; it is
	// public information.
	seed, err := sampling.NewSeed(enc.prng)
	if err != nil {
		return fmt.Errorf("cannot EncryptZero: sampling the public seed: %w", err)
	}

	ciphertextPRNG := sampling.NewSeededPRNG(seed)

	// a is sampled from the public PRNG
	ring.NewUniformSampler(ciphertextPRNG, enc.params.RingQ()).AtLevel(level).Read(c1)

	if !ct.IsNTT && saveSeed {
		// The seed reconstructs the NTT-domain value of a.
		ringQ.NTT(c1, c1)
	}

	// e <- Xe
	e := enc.pool.AtLevel(level).GetBuffPoly()
	defer enc.pool.RecycleBuffPoly(&e)

	enc.xeSampler.AtLevel(level).Read(e)

	// c0 = -(a*s + e)
	ringQ.MulCoeffsBarrett(sk.Value, c1, c0)

	if ct.IsNTT {
		ringQ.NTT(e, e)
	} else {
		ringQ.INTT(c0, c0)
	}

	ringQ.Add(c0, e, c0)
	ringQ.Neg(c0, c0)

	if !ct.IsNTT && !saveSeed {
		ringQ.INTT(c1, c1)
	}

	if saveSeed {
		writeSeedRecord(c1, seed)
	}

	return
}

// ExpandSeedRecord regenerates the polynomial c1 of a seed-compressed
// ciphertext in place, in the domain requested by the ciphertext [MetaData].
// It is the inverse of the compression performed by [Encryptor.EncryptZeroSeeded].
func ExpandSeedRecord(params ParameterProvider, ct *Ciphertext) (err error) {

	p := params.GetRLWEParameters()

	if ct.Degree() != 1 {
		return fmt.Errorf("cannot ExpandSeedRecord: ciphertext degree must be 1 but is %d", ct.Degree())
	}

	c1 := ct.Value[1]

	seed, err := SeedFromRecord(c1)
	if err != nil {
		return fmt.Errorf("cannot ExpandSeedRecord: %w", err)
	}

	level := ct.Level()

	// The raw sampler output is the polynomial in the domain of the
	// ciphertext: an NTT-domain ciphertext used it as a directly, and a
	// coefficient-domain ciphertext forward-transformed it before the
	// product, which the decryption of a coefficient-domain ciphertext
	// does again.
	ring.NewUniformSampler(sampling.NewSeededPRNG(seed), p.RingQ()).AtLevel(level).Read(c1)

	return
}

// WithPRNG returns this encryptor with prng as its bootstrap source of
// randomness. Both the public seed and the secret material are then drawn
// from prng, making the output of the encryptor deterministic.
// The returned encryptor is not safe to use concurrently with the original encryptor.
func (enc Encryptor) WithPRNG(prng sampling.PRNG) *Encryptor {
	enc.prng = prng
	enc.initSamplers()
	return &enc
}

// ShallowCopy returns an independent Encryptor operating on the same keys,
// with a fresh bootstrap PRNG and fresh buffers.
func (enc Encryptor) ShallowCopy() *Encryptor {
	return NewEncryptor(enc.params, enc.encKey)
}

// WithKey returns this encryptor with the given encryption key.
// The returned encryptor is not safe to use concurrently with the original encryptor.
func (enc Encryptor) WithKey(key EncryptionKey) *Encryptor {
	switch key := key.(type) {
	case *SecretKey:
		if err := enc.checkSk(key); err != nil {
			// Sanity check, this error should not happen.
			panic(fmt.Errorf("cannot WithKey: %w", err))
		}
	case *PublicKey:
		if err := enc.checkPk(key); err != nil {
			// Sanity check, this error should not happen.
			panic(fmt.Errorf("cannot WithKey: %w", err))
		}
	case nil:
		return &enc
	default:
		// Sanity check
		panic(fmt.Errorf("invalid key type, want *rlwe.SecretKey, *rlwe.PublicKey or nil but have %T", key))
	}
	enc.encKey = key
	return &enc
}

// checkPk checks that a given pk is correct for the parameters.
func (enc Encryptor) checkPk(pk *PublicKey) (err error) {

	if pk.Size() < 2 {
		return fmt.Errorf("%w: public key must have size at least 2 but has size %d", ErrInvalidKey, pk.Size())
	}

	for i := range pk.Value {
		if pk.Value[i].N() != enc.params.N() {
			return fmt.Errorf("%w: pk ring degree does not match params ring degree", ErrInvalidKey)
		}
	}

	return
}

// checkSk checks that a given sk is correct for the parameters.
func (enc Encryptor) checkSk(sk *SecretKey) (err error) {
	if sk.Value.N() != enc.params.N() {
		return fmt.Errorf("%w: sk ring degree does not match params ring degree", ErrInvalidKey)
	}
	return
}
