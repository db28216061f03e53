package crypta

import "fmt"

// PermuteBits rearranges the bits of value according to rule. Output
// position i receives the source bit addressed by rule[i], adjusted by
// startBitNum (0- or 1-based tables) and read in the selected bit order.
// The output holds len(rule) bits, rounded up to whole bytes with trailing
// bits zero.
func PermuteBits(value []uint8, rule []int, indexFromLSB bool, startBitNum int) ([]uint8, error) {
	result := make([]uint8, (len(rule)+7)/8)
	if err := PermuteBitsInto(result, value, rule, indexFromLSB, startBitNum); err != nil {
		return nil, err
	}
	return result, nil
}

// PermuteBitsInto is PermuteBits writing into a caller-supplied buffer, for
// loops that cannot afford a per-call allocation. dst must hold at least
// (len(rule)+7)/8 bytes; the used prefix is cleared first.
func PermuteBitsInto(dst []uint8, value []uint8, rule []int, indexFromLSB bool, startBitNum int) error {
	outputBytes := (len(rule) + 7) / 8
	if len(dst) < outputBytes {
		return fmt.Errorf("%w: destination holds %d bytes, need %d", ErrInvalidBlockSize, len(dst), outputBytes)
	}

	for i := 0; i < outputBytes; i++ {
		dst[i] = 0
	}

	for i, pos := range rule {
		sourcePos := pos - startBitNum

		if sourcePos < 0 || sourcePos >= len(value)*8 {
			return fmt.Errorf("%w: position %d addresses a %d-bit source", ErrPermutationIndexOutOfRange, pos, len(value)*8)
		}

		var sourceBit int
		if indexFromLSB {
			sourceBit = sourcePos % 8
		} else {
			sourceBit = 7 - (sourcePos % 8)
		}

		bitValue := (value[sourcePos/8] >> sourceBit) & 1

		var destBit int
		if indexFromLSB {
			destBit = i % 8
		} else {
			destBit = 7 - (i % 8)
		}

		dst[i/8] |= bitValue << destBit
	}

	return nil
}
