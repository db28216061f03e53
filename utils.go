package crypta

import (
	"crypto/rand"
	"encoding/binary"
	mrand "math/rand"
)

func xorInto(dst []uint8, a []uint8, b []uint8) {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		dst[i] = a[i] ^ b[i]
	}
}

func xorBlocks(a []uint8, b []uint8) []uint8 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	result := make([]uint8, n)
	xorInto(result, a, b)
	return result
}

// counterForBlock builds the CTR input for block index idx: a copy of the
// IV with its low 64 bits incremented by idx (big-endian, no carry into the
// high bytes of wide blocks).
func counterForBlock(iv []uint8, idx uint64) []uint8 {
	counter := make([]uint8, len(iv))
	copy(counter, iv)
	lo := binary.BigEndian.Uint64(counter[len(counter)-8:])
	binary.BigEndian.PutUint64(counter[len(counter)-8:], lo+idx)
	return counter
}

// deltaForBlock derives the RandomDelta mask for block index idx from a
// math/rand stream seeded by the IV's first four bytes XOR idx.
func deltaForBlock(iv []uint8, idx uint64, blockSize int) []uint8 {
	seed := int64(binary.BigEndian.Uint32(iv[:4]) ^ uint32(idx))
	rng := mrand.New(mrand.NewSource(seed))

	delta := make([]uint8, blockSize)
	rng.Read(delta)
	return delta
}

// GenerateRandomBytes fills data with cryptographically random bytes, for
// demo key and IV generation.
func GenerateRandomBytes(data []byte) (int, error) {
	return rand.Read(data)
}
