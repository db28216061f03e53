package crypta

import (
	"fmt"
)

// FeistelNetwork runs N rounds of split/transform/swap over whichever key
// schedule and round function it was built with. The halves are not swapped
// after the final round; decryption mirrors the same convention with the
// round keys iterated in reverse.
type FeistelNetwork struct {
	keySchedule   IKeySchedule
	roundFunction IRoundFunction

	blockSize   int
	roundsCount int

	roundKeys [][]uint8
}

func NewFeistelNetwork(
	keyScheduleImpl IKeySchedule,
	roundFunctionImpl IRoundFunction,
	blockSize int,
	roundsCount int,
) (*FeistelNetwork, error) {

	if keyScheduleImpl == nil {
		return nil, fmt.Errorf("key schedule implementation cannot be nil")
	}
	if roundFunctionImpl == nil {
		return nil, fmt.Errorf("round function implementation cannot be nil")
	}
	if blockSize <= 0 || blockSize%2 != 0 {
		return nil, fmt.Errorf("%w: block size must be positive and even, got %d", ErrInvalidBlockSize, blockSize)
	}
	if roundsCount <= 0 {
		return nil, fmt.Errorf("rounds count must be positive, got %d", roundsCount)
	}

	return &FeistelNetwork{
		keySchedule:   keyScheduleImpl,
		roundFunction: roundFunctionImpl,
		blockSize:     blockSize,
		roundsCount:   roundsCount,
	}, nil
}

func (fn *FeistelNetwork) BlockSize() int {
	return fn.blockSize
}

func (fn *FeistelNetwork) RoundsCount() int {
	return fn.roundsCount
}

func (fn *FeistelNetwork) splitBlock(block []uint8) ([]uint8, []uint8) {
	halfSize := len(block) / 2
	left := make([]uint8, halfSize)
	copy(left, block[:halfSize])
	right := make([]uint8, halfSize)
	copy(right, block[halfSize:])
	return left, right
}

func (fn *FeistelNetwork) combineBlocks(left []uint8, right []uint8) []uint8 {
	combined := make([]uint8, len(left)+len(right))
	copy(combined, left)
	copy(combined[len(left):], right)
	return combined
}

func (fn *FeistelNetwork) SetKey(key []uint8) error {
	if len(key) == 0 {
		return fmt.Errorf("%w: key cannot be empty", ErrInvalidKeySize)
	}

	roundKeys, err := fn.keySchedule.GenerateRoundKeys(key)
	if err != nil {
		return fmt.Errorf("failed to generate round keys: %w", err)
	}

	if len(roundKeys) < fn.roundsCount {
		return fmt.Errorf("key schedule generated insufficient round keys: got %d, need %d",
			len(roundKeys), fn.roundsCount)
	}

	fn.roundKeys = roundKeys
	return nil
}

func (fn *FeistelNetwork) EncryptBlock(plainBlock []uint8) ([]uint8, error) {
	if len(plainBlock) != fn.blockSize {
		return nil, fmt.Errorf("%w: plain block is %d bytes, need %d",
			ErrInvalidBlockSize, len(plainBlock), fn.blockSize)
	}
	if len(fn.roundKeys) == 0 {
		return nil, fmt.Errorf("%w: call SetKey() before encryption", ErrRoundKeysNotBound)
	}

	left, right := fn.splitBlock(plainBlock)

	for round := 0; round < fn.roundsCount; round++ {
		functionOutput, err := fn.roundFunction.Apply(right, fn.roundKeys[round])
		if err != nil {
			return nil, fmt.Errorf("round function error in round %d: %w", round, err)
		}

		newRight := make([]uint8, len(left))
		for i := range newRight {
			newRight[i] = left[i] ^ functionOutput[i]
		}

		left = right
		right = newRight
	}

	return fn.combineBlocks(left, right), nil
}

func (fn *FeistelNetwork) DecryptBlock(cipherBlock []uint8) ([]uint8, error) {
	if len(cipherBlock) != fn.blockSize {
		return nil, fmt.Errorf("%w: cipher block is %d bytes, need %d",
			ErrInvalidBlockSize, len(cipherBlock), fn.blockSize)
	}
	if len(fn.roundKeys) == 0 {
		return nil, fmt.Errorf("%w: call SetKey() before decryption", ErrRoundKeysNotBound)
	}

	left, right := fn.splitBlock(cipherBlock)

	for round := fn.roundsCount - 1; round >= 0; round-- {
		functionOutput, err := fn.roundFunction.Apply(left, fn.roundKeys[round])
		if err != nil {
			return nil, fmt.Errorf("round function error in round %d: %w", round, err)
		}

		newLeft := make([]uint8, len(right))
		for i := range newLeft {
			newLeft[i] = right[i] ^ functionOutput[i]
		}

		right = left
		left = newLeft
	}

	return fn.combineBlocks(left, right), nil
}
