package rlwe

import (
	"encoding/binary"
	"fmt"

	"github.com/tuneinsight/zeroenc/ring"
	"github.com/tuneinsight/zeroenc/utils/sampling"
)

// SeedRecordSentinel is the first 64-bit word of a seed-compressed
// polynomial. It cannot collide with a valid RNS coefficient because every
// supported modulus is below 2^61.
const SeedRecordSentinel = uint64(0xFFFFFFFFFFFFFFFF)

// seedRecordWords is the number of 64-bit words a seed record occupies:
// the sentinel word followed by the packed seed bytes.
const seedRecordWords = sampling.SeedSize/8 + 1

// canHoldSeedRecord reports whether a polynomial of n 64-bit words is large
// enough to carry a seed record.
func canHoldSeedRecord(n int) bool {
	return n >= seedRecordWords
}

// writeSeedRecord overwrites the leading words of pol with a seed record:
// word 0 is the sentinel, words 1 to 8 are the seed bytes packed as
// little-endian 64-bit values. The remaining words are left untouched and
// carry no meaning.
func writeSeedRecord(pol ring.Poly, seed sampling.Seed) {
	pol.Buff[0] = SeedRecordSentinel
	for i := 0; i < sampling.SeedSize/8; i++ {
		pol.Buff[1+i] = binary.LittleEndian.Uint64(seed[i*8:])
	}
}

// IsSeedRecord reports whether the polynomial carries a seed record in
// place of coefficients.
func IsSeedRecord(pol ring.Poly) bool {
	return len(pol.Buff) > 0 && pol.Buff[0] == SeedRecordSentinel
}

// SeedFromRecord extracts the seed stored in a seed record.
func SeedFromRecord(pol ring.Poly) (seed sampling.Seed, err error) {

	if !IsSeedRecord(pol) {
		return sampling.Seed{}, fmt.Errorf("cannot SeedFromRecord: polynomial does not carry a seed record")
	}

	if !canHoldSeedRecord(len(pol.Buff)) {
		return sampling.Seed{}, fmt.Errorf("cannot SeedFromRecord: polynomial is too small to carry a seed record")
	}

	for i := 0; i < sampling.SeedSize/8; i++ {
		binary.LittleEndian.PutUint64(seed[i*8:], pol.Buff[1+i])
	}

	return
}
