package sampling

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeyedPRNG(t *testing.T) {

	key := []byte{0x49, 0x0a, 0x42, 0x3d, 0x97, 0x9d, 0xc1, 0x07}

	prng0, err := NewKeyedPRNG(key)
	require.NoError(t, err)

	prng1, err := NewKeyedPRNG(key)
	require.NoError(t, err)

	sum0 := make([]byte, 512)
	sum1 := make([]byte, 512)

	_, err = prng0.Read(sum0)
	require.NoError(t, err)

	_, err = prng1.Read(sum1)
	require.NoError(t, err)

	require.Equal(t, sum0, sum1)

	// Reset replays the stream from the start.
	prng0.Reset()

	_, err = prng0.Read(sum1)
	require.NoError(t, err)

	require.Equal(t, sum0, sum1)
}

func TestSource(t *testing.T) {

	key := []byte{0x01}

	prng0, err := NewKeyedPRNG(key)
	require.NoError(t, err)

	prng1, err := NewKeyedPRNG(key)
	require.NoError(t, err)

	s := NewSource(prng0)

	raw := make([]byte, 8)
	_, err = prng1.Read(raw)
	require.NoError(t, err)

	// 32-bit draws are little-endian over 4 bytes of the stream.
	hi := s.Uint32()
	require.Equal(t, uint32(raw[0])|uint32(raw[1])<<8|uint32(raw[2])<<16|uint32(raw[3])<<24, hi)

	// 64-bit draws concatenate two 32-bit draws, high word first.
	lo := uint32(raw[4]) | uint32(raw[5])<<8 | uint32(raw[6])<<16 | uint32(raw[7])<<24

	s2 := NewSource(mustKeyed(t, key))
	require.Equal(t, uint64(hi)<<32|uint64(lo), s2.Uint64())
}

func mustKeyed(t *testing.T, key []byte) *KeyedPRNG {
	t.Helper()
	prng, err := NewKeyedPRNG(key)
	require.NoError(t, err)
	return prng
}

func TestSeed(t *testing.T) {

	seed, err := NewSeed(mustKeyed(t, []byte{0x02}))
	require.NoError(t, err)

	p0 := NewSeededPRNG(seed)
	p1 := NewSeededPRNG(seed)

	b0 := make([]byte, 64)
	b1 := make([]byte, 64)

	_, err = p0.Read(b0)
	require.NoError(t, err)

	_, err = p1.Read(b1)
	require.NoError(t, err)

	require.Equal(t, b0, b1)
}
