package crypta

import (
	"fmt"
)

type DESKeySchedule struct{}

var PC1 = []int{
	57, 49, 41, 33, 25, 17, 9,
	1, 58, 50, 42, 34, 26, 18,
	10, 2, 59, 51, 43, 35, 27,
	19, 11, 3, 60, 52, 44, 36,
	63, 55, 47, 39, 31, 23, 15,
	7, 62, 54, 46, 38, 30, 22,
	14, 6, 61, 53, 45, 37, 29,
	21, 13, 5, 28, 20, 12, 4,
}

var PC2 = []int{
	14, 17, 11, 24, 1, 5,
	3, 28, 15, 6, 21, 10,
	23, 19, 12, 4, 26, 8,
	16, 7, 27, 20, 13, 2,
	41, 52, 31, 37, 47, 55,
	30, 40, 51, 45, 33, 48,
	44, 49, 39, 56, 34, 53,
	46, 42, 50, 36, 29, 32,
}

var SHIFT_SCHEDULE = []int{
	1, 1, 2, 2, 2, 2, 2, 2,
	1, 2, 2, 2, 2, 2, 2, 1,
}

func rotateLeft28(value uint32, shifts int) uint32 {
	const mask28 = uint32(1)<<28 - 1
	value &= mask28
	return ((value << shifts) | (value >> (28 - shifts))) & mask28
}

// read28 packs 28 consecutive MSB-first bits starting at bit offset into a
// right-aligned uint32.
func read28(data []uint8, offset int) uint32 {
	var value uint32
	for i := 0; i < 28; i++ {
		pos := offset + i
		bit := (data[pos/8] >> (7 - pos%8)) & 1
		value = value<<1 | uint32(bit)
	}
	return value
}

// write56 lays the two 28-bit halves back out as 7 MSB-first bytes.
func write56(c uint32, d uint32) []uint8 {
	out := make([]uint8, 7)
	for i := 0; i < 28; i++ {
		if (c>>(27-i))&1 == 1 {
			out[i/8] |= 1 << (7 - i%8)
		}
	}
	for i := 0; i < 28; i++ {
		pos := 28 + i
		if (d>>(27-i))&1 == 1 {
			out[pos/8] |= 1 << (7 - pos%8)
		}
	}
	return out
}

func (dks *DESKeySchedule) GenerateRoundKeys(masterKey []uint8) ([][]uint8, error) {
	if len(masterKey) != 8 {
		return nil, fmt.Errorf("%w: DES key must be 8 bytes (64 bits), got %d", ErrInvalidKeySize, len(masterKey))
	}

	permutedKey, err := PermuteBits(masterKey, PC1, false, 1)
	if err != nil {
		return nil, fmt.Errorf("PC1 permutation failed: %w", err)
	}

	c := read28(permutedKey, 0)
	d := read28(permutedKey, 28)

	roundKeys := make([][]uint8, 0, len(SHIFT_SCHEDULE))
	for round, shift := range SHIFT_SCHEDULE {
		c = rotateLeft28(c, shift)
		d = rotateLeft28(d, shift)

		roundKey, err := PermuteBits(write56(c, d), PC2, false, 1)
		if err != nil {
			return nil, fmt.Errorf("PC2 permutation failed in round %d: %w", round, err)
		}

		roundKeys = append(roundKeys, roundKey)
	}

	return roundKeys, nil
}
