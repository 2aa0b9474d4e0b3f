package rlwe

import (
	"fmt"
	"math/big"

	"github.com/tuneinsight/zeroenc/ring"
)

// Decryptor is a structure used to decrypt [Ciphertext]. It stores the secret key.
type Decryptor struct {
	params Parameters
	ringQ  *ring.Ring
	pool   *ring.BufferPool
	sk     *SecretKey
}

// NewDecryptor instantiates a new generic RLWE [Decryptor].
func NewDecryptor(params ParameterProvider, sk *SecretKey) *Decryptor {

	p := params.GetRLWEParameters()

	if sk.Value.N() != p.N() {
		panic(fmt.Errorf("cannot NewDecryptor: secret key ring degree does not match parameters ring degree"))
	}

	return &Decryptor{
		params: *p,
		ringQ:  p.RingQ(),
		pool:   ring.NewBufferPool(p.RingQ()),
		sk:     sk,
	}
}

// GetRLWEParameters returns the underlying [Parameters].
func (d Decryptor) GetRLWEParameters() *Parameters {
	return &d.params
}

// DecryptNew decrypts the [Ciphertext] and returns the result in a new
// polynomial, in the domain indicated by the ciphertext [MetaData].
func (d Decryptor) DecryptNew(ct *Ciphertext) (pt ring.Poly) {
	pt = ring.NewPoly(ct.N(), ct.Level())
	d.Decrypt(ct, pt)
	return
}

// Decrypt evaluates pt = sum(ct[i] * s^i) and writes the result on pt. For a
// fresh encryption of zero the output is the (small) noise polynomial. The
// output is in the domain of the ciphertext.
func (d Decryptor) Decrypt(ct *Ciphertext, pt ring.Poly) {

	level := ct.Level()

	ringQ := d.ringQ.AtLevel(level)

	if ct.IsNTT {
		pt.Copy(ct.Value[ct.Degree()])
	} else {
		ringQ.NTT(ct.Value[ct.Degree()], pt)
	}

	buff := d.pool.AtLevel(level).GetBuffPoly()
	defer d.pool.RecycleBuffPoly(&buff)

	for i := ct.Degree(); i > 0; i-- {

		ringQ.MulCoeffsBarrett(pt, d.sk.Value, pt)

		if !ct.IsNTT {
			ringQ.NTT(ct.Value[i-1], buff)
			ringQ.Add(pt, buff, pt)
		} else {
			ringQ.Add(pt, ct.Value[i-1], pt)
		}
	}

	if !ct.IsNTT {
		ringQ.INTT(pt, pt)
	}
}

// Norm returns the infinity norm of the polynomial, with the
// coefficients lifted to their centered representatives in [-Q/2, Q/2]. The
// polynomial is expected to be in the coefficient domain and at most at the
// level of the decryptor's ring.
func (d Decryptor) Norm(pt ring.Poly) (norm *big.Int) {

	level := pt.Level()

	ringQ := d.ringQ.AtLevel(level)

	Q := ringQ.Modulus()
	QHalf := new(big.Int).Rsh(Q, 1)

	crtReconstruction := crtReconstructionConstants(ringQ)

	norm = new(big.Int)
	coeff := new(big.Int)
	tmp := new(big.Int)

	for i := 0; i < pt.N(); i++ {

		coeff.SetUint64(0)
		for j := 0; j < level+1; j++ {
			tmp.SetUint64(pt.Coeffs[j][i])
			tmp.Mul(tmp, crtReconstruction[j])
			coeff.Add(coeff, tmp)
		}
		coeff.Mod(coeff, Q)

		if coeff.Cmp(QHalf) >= 0 {
			coeff.Sub(coeff, Q)
			coeff.Neg(coeff)
		}

		if coeff.Cmp(norm) > 0 {
			norm.Set(coeff)
		}
	}

	return
}

// crtReconstructionConstants returns the constants c_j = (Q/q_j) * ((Q/q_j)^-1 mod q_j)
// of the Chinese remainder reconstruction modulo Q.
func crtReconstructionConstants(ringQ *ring.Ring) (constants []*big.Int) {

	level := ringQ.Level()
	Q := ringQ.Modulus()

	constants = make([]*big.Int, level+1)

	tmp := new(big.Int)

	for j := 0; j < level+1; j++ {
		qi := new(big.Int).SetUint64(ringQ.SubRings[j].Modulus)
		QoverQi := new(big.Int).Div(Q, qi)
		tmp.ModInverse(QoverQi, qi)
		constants[j] = new(big.Int).Mul(QoverQi, tmp)
	}

	return
}

// ShallowCopy returns an independent Decryptor operating on the same secret
// key, with fresh buffers.
func (d Decryptor) ShallowCopy() *Decryptor {
	return NewDecryptor(d.params, d.sk)
}

// WithKey returns this decryptor with a new decryption key.
func (d Decryptor) WithKey(sk *SecretKey) *Decryptor {
	return NewDecryptor(d.params, sk)
}
