package sampling

import (
	"encoding/binary"
)

const sourceBufferSize = 1024

// Source adapts a byte-oriented PRNG into a source of uniform 32-bit and
// 64-bit integers. Each 32-bit draw consumes exactly 4 bytes of PRNG output,
// interpreted as a little-endian unsigned value; 64-bit draws concatenate two
// 32-bit draws, high word first. Reads go through an internal refill buffer.
//
// A Source is stateful and must not be shared between goroutines.
type Source struct {
	prng PRNG
	buff []byte
	ptr  int
}

// NewSource creates a new Source reading from the given PRNG.
func NewSource(prng PRNG) *Source {
	return &Source{
		prng: prng,
		buff: make([]byte, sourceBufferSize),
		ptr:  sourceBufferSize,
	}
}

// Uint32 returns a uniform 32-bit unsigned integer.
func (s *Source) Uint32() uint32 {
	if s.ptr+4 > len(s.buff) && s.ptr != len(s.buff) {
		// A byte read left fewer than 4 bytes in the buffer.
		var b [4]byte
		s.ReadBytes(b[:])
		return binary.LittleEndian.Uint32(b[:])
	}
	if s.ptr == len(s.buff) {
		if _, err := s.prng.Read(s.buff); err != nil {
			// Sanity check, this error should not happen.
			panic(err)
		}
		s.ptr = 0
	}
	r := binary.LittleEndian.Uint32(s.buff[s.ptr : s.ptr+4])
	s.ptr += 4
	return r
}

// Uint64 returns a uniform 64-bit unsigned integer built from two 32-bit
// draws, high word first.
func (s *Source) Uint64() uint64 {
	hi := uint64(s.Uint32())
	lo := uint64(s.Uint32())
	return hi<<32 | lo
}

// ReadBytes fills p with raw PRNG output, draining the refill buffer first so
// that interleaved integer and byte reads consume a single stream.
func (s *Source) ReadBytes(p []byte) {
	for i := range p {
		if s.ptr == len(s.buff) {
			if _, err := s.prng.Read(s.buff); err != nil {
				// Sanity check, this error should not happen.
				panic(err)
			}
			s.ptr = 0
		}
		p[i] = s.buff[s.ptr]
		s.ptr++
	}
}
