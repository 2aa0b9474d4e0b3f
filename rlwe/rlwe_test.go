package rlwe

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuneinsight/zeroenc/ring"
	"github.com/tuneinsight/zeroenc/utils/sampling"
)

// testParamsLiteral holds a single-modulus and a two-moduli parameter set,
// one per error distribution family.
var testParamsLiteral = []ParametersLiteral{
	{
		LogN: 10,
		Q:    []uint64{0x7e00001},
		Xe:   ring.CenteredBinomial{Sigma: 3.2},
	},
	{
		LogN: 11,
		Q:    []uint64{0x3001, 0x4001}, // placeholder, replaced by generated primes
		Xe:   ring.DiscreteGaussian{Sigma: 3.2, Bound: 19.2},
	},
}

func init() {
	// The two-moduli set uses generated NTT-friendly primes for N = 2048.
	primes, err := ring.GenerateNTTPrimes(45, 1<<12, 2)
	if err != nil {
		panic(err)
	}
	testParamsLiteral[1].Q = primes
}

func testString(opname string, p Parameters) string {
	return fmt.Sprintf("%s/LogN=%d/limbs=%d/Xe=%s", opname, p.LogN(), p.QCount(), p.Xe().Type())
}

type testContext struct {
	params Parameters
	kgen   *KeyGenerator
	sk     *SecretKey
	pk     *PublicKey
	dec    *Decryptor
}

func newTestContext(t *testing.T, paramDef ParametersLiteral) (tc *testContext) {

	params, err := NewParametersFromLiteral(paramDef)
	require.NoError(t, err)

	kgen := NewKeyGenerator(params)
	sk, pk := kgen.GenKeyPairNew()

	return &testContext{
		params: params,
		kgen:   kgen,
		sk:     sk,
		pk:     pk,
		dec:    NewDecryptor(params, sk),
	}
}

// noiseBound is a loose upper bound on the infinity norm of the decryption
// of a fresh zero encryption: N*64*2, above the N*B*B_sk + B per public-key
// component with B = 21 and B_sk = 1, and far below q/2 for all the test
// parameter sets.
func noiseBound(p Parameters) *big.Int {
	return new(big.Int).SetUint64(uint64(p.N()) * 64 * 2)
}

// requireDecryptsToZero decrypts ct and checks that the result is a
// polynomial of small infinity norm, i.e. that rescaling to any plaintext
// modulus yields the zero plaintext.
func requireDecryptsToZero(t *testing.T, tc *testContext, ct *Ciphertext) {
	t.Helper()

	pt := tc.dec.DecryptNew(ct)

	if ct.IsNTT {
		tc.params.RingQ().AtLevel(ct.Level()).INTT(pt, pt)
	}

	norm := tc.dec.Norm(pt)
	require.True(t, norm.Cmp(noiseBound(tc.params)) < 0, "decryption noise too large: %s", norm.String())
}

func TestRLWE(t *testing.T) {
	for _, paramDef := range testParamsLiteral {

		tc := newTestContext(t, paramDef)

		for _, testSet := range []func(tc *testContext, t *testing.T){
			testEncryptZeroPk,
			testEncryptZeroSk,
			testEncryptZeroSeeded,
			testMetaData,
			testDeterminism,
		} {
			testSet(tc, t)
		}
	}
}

func testEncryptZeroPk(tc *testContext, t *testing.T) {

	params := tc.params

	for _, isNTT := range []bool{true, false} {

		t.Run(testString(fmt.Sprintf("EncryptZero/Pk/IsNTT=%t", isNTT), params), func(t *testing.T) {

			enc := NewEncryptor(params, tc.pk)

			ct := enc.EncryptZeroNew(isNTT)

			require.Equal(t, tc.pk.Size()-1, ct.Degree())
			require.Equal(t, isNTT, ct.IsNTT)
			requireDecryptsToZero(t, tc, ct)
		})
	}
}

func testEncryptZeroSk(tc *testContext, t *testing.T) {

	params := tc.params

	for _, isNTT := range []bool{true, false} {

		t.Run(testString(fmt.Sprintf("EncryptZero/Sk/IsNTT=%t", isNTT), params), func(t *testing.T) {

			enc := NewEncryptor(params, tc.sk)

			ct := enc.EncryptZeroNew(isNTT)

			require.Equal(t, 1, ct.Degree())
			require.Equal(t, isNTT, ct.IsNTT)
			require.False(t, IsSeedRecord(ct.Value[1]))
			requireDecryptsToZero(t, tc, ct)
		})
	}
}

func testEncryptZeroSeeded(tc *testContext, t *testing.T) {

	params := tc.params

	for _, isNTT := range []bool{true, false} {

		t.Run(testString(fmt.Sprintf("EncryptZero/Sk/Seeded/IsNTT=%t", isNTT), params), func(t *testing.T) {

			enc := NewEncryptor(params, tc.sk)

			ct := NewCiphertext(params, 1)
			ct.IsNTT = isNTT

			require.NoError(t, enc.EncryptZeroSeeded(ct))

			// The compressed c1 is detectable through its sentinel word.
			require.True(t, IsSeedRecord(ct.Value[1]))
			require.Equal(t, SeedRecordSentinel, ct.Value[1].Buff[0])

			// Regenerating c1 from the seed restores a valid encryption of zero.
			require.NoError(t, ExpandSeedRecord(params, ct))
			require.False(t, IsSeedRecord(ct.Value[1]))
			requireDecryptsToZero(t, tc, ct)
		})
	}

	t.Run(testString("EncryptZero/Sk/Seeded/WrongKey", params), func(t *testing.T) {
		enc := NewEncryptor(params, tc.pk)
		ct := NewCiphertext(params, 1)
		require.Error(t, enc.EncryptZeroSeeded(ct))
	})

	t.Run(testString("EncryptZero/Sk/Seeded/Reconstruction", params), func(t *testing.T) {

		// The NTT-domain value reconstructed from the seed is the one the
		// product with the secret key used: c0 + a*s must be small.
		enc := NewEncryptor(params, tc.sk)

		ct := NewCiphertext(params, 1)
		ct.IsNTT = true

		require.NoError(t, enc.EncryptZeroSeeded(ct))

		seed, err := SeedFromRecord(ct.Value[1])
		require.NoError(t, err)

		ringQ := params.RingQ()

		a := ring.NewUniformSampler(sampling.NewSeededPRNG(seed), ringQ).ReadNew()

		d := ringQ.NewPoly()
		ringQ.MulCoeffsBarrett(a, tc.sk.Value, d)
		ringQ.Add(d, ct.Value[0], d)
		ringQ.INTT(d, d)

		norm := tc.dec.Norm(d)
		require.True(t, norm.Cmp(noiseBound(params)) < 0, "reconstruction noise too large: %s", norm.String())
	})
}

func testMetaData(tc *testContext, t *testing.T) {

	params := tc.params

	for _, isNTT := range []bool{true, false} {
		for _, saveSeed := range []bool{true, false} {

			t.Run(testString(fmt.Sprintf("MetaData/IsNTT=%t/SaveSeed=%t", isNTT, saveSeed), params), func(t *testing.T) {

				enc := NewEncryptor(params, tc.sk)

				ct := NewCiphertext(params, 1)
				ct.IsNTT = isNTT

				if saveSeed {
					require.NoError(t, enc.EncryptZeroSeeded(ct))
				} else {
					require.NoError(t, enc.EncryptZero(ct))
				}

				require.Equal(t, isNTT, ct.IsNTT)
				require.Equal(t, 1.0, ct.Scale)
				require.Equal(t, params.ID(), ct.ParametersID)
				require.Equal(t, saveSeed, IsSeedRecord(ct.Value[1]))
			})
		}
	}
}

func testDeterminism(tc *testContext, t *testing.T) {

	params := tc.params

	newDeterministicEncryptor := func(key EncryptionKey) *Encryptor {
		prng, err := sampling.NewKeyedPRNG([]byte{0x01})
		require.NoError(t, err)
		return NewEncryptor(params, key).WithPRNG(prng)
	}

	t.Run(testString("Determinism/Sk", params), func(t *testing.T) {

		ct0 := newDeterministicEncryptor(tc.sk).EncryptZeroNew(true)
		ct1 := newDeterministicEncryptor(tc.sk).EncryptZeroNew(true)

		require.True(t, ct0.Equal(ct1))
	})

	t.Run(testString("Determinism/Sk/Seeded", params), func(t *testing.T) {

		ct0 := NewCiphertext(params, 1)
		ct1 := NewCiphertext(params, 1)

		require.NoError(t, newDeterministicEncryptor(tc.sk).EncryptZeroSeeded(ct0))
		require.NoError(t, newDeterministicEncryptor(tc.sk).EncryptZeroSeeded(ct1))

		require.True(t, ct0.Equal(ct1))
	})

	t.Run(testString("Determinism/Pk", params), func(t *testing.T) {

		ct0 := newDeterministicEncryptor(tc.pk).EncryptZeroNew(false)
		ct1 := newDeterministicEncryptor(tc.pk).EncryptZeroNew(false)

		require.True(t, ct0.Equal(ct1))
	})
}

func TestParameters(t *testing.T) {

	t.Run("UnsupportedSigma", func(t *testing.T) {
		// The centered binomial sampler only exists for sigma = 3.2; the
		// parameters are rejected before any sampling state is created.
		_, err := NewParametersFromLiteral(ParametersLiteral{
			LogN: 10,
			Q:    []uint64{0x7e00001},
			Xe:   ring.CenteredBinomial{Sigma: 1.0},
		})
		require.ErrorIs(t, err, ErrUnsupportedParameter)
	})

	t.Run("ID", func(t *testing.T) {

		p0, err := NewParametersFromLiteral(testParamsLiteral[0])
		require.NoError(t, err)

		p1, err := NewParametersFromLiteral(testParamsLiteral[0])
		require.NoError(t, err)

		p2, err := NewParametersFromLiteral(testParamsLiteral[1])
		require.NoError(t, err)

		require.Equal(t, p0.ID(), p1.ID())
		require.NotEqual(t, p0.ID(), p2.ID())
		require.True(t, p0.Equal(&p1))
		require.False(t, p0.Equal(&p2))
	})

	t.Run("LogQ", func(t *testing.T) {
		p, err := NewParametersFromLiteral(testParamsLiteral[0])
		require.NoError(t, err)
		require.InDelta(t, 26.98, p.LogQ(), 0.1)
	})
}

func TestSeedRecord(t *testing.T) {

	t.Run("Demotion", func(t *testing.T) {
		// A polynomial needs one sentinel word plus eight seed words.
		require.False(t, canHoldSeedRecord(seedRecordWords-1))
		require.True(t, canHoldSeedRecord(seedRecordWords))

		// Every constructible ring satisfies the bound, so compression is
		// never demoted in practice.
		require.True(t, canHoldSeedRecord(1<<MinLogN))
	})

	t.Run("RoundTrip", func(t *testing.T) {

		pol := ring.NewPoly(16, 0)

		var seed sampling.Seed
		for i := range seed {
			seed[i] = byte(i)
		}

		writeSeedRecord(pol, seed)

		require.True(t, IsSeedRecord(pol))

		got, err := SeedFromRecord(pol)
		require.NoError(t, err)
		require.Equal(t, seed, got)
	})

	t.Run("NotARecord", func(t *testing.T) {
		pol := ring.NewPoly(16, 0)
		require.False(t, IsSeedRecord(pol))
		_, err := SeedFromRecord(pol)
		require.Error(t, err)
	})
}
