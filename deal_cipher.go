package crypta

import (
	"fmt"
)

// DEALCipher is the 128-bit Feistel construction whose round function is a
// full DES invocation. Key length selects the round count: 6 rounds for
// 128- and 192-bit keys, 8 for 256-bit.
type DEALCipher struct {
	feistel   *FeistelNetwork
	keyLength int
}

func NewDEALCipher(keyLength int) (*DEALCipher, error) {
	numRounds, err := dealRounds(keyLength)
	if err != nil {
		return nil, err
	}

	keySchedule, err := NewDEALKeySchedule(keyLength)
	if err != nil {
		return nil, fmt.Errorf("failed to create key schedule: %w", err)
	}
	roundFunction, err := NewDEALRoundFunction()
	if err != nil {
		return nil, fmt.Errorf("failed to create round function: %w", err)
	}

	feistel, err := NewFeistelNetwork(
		keySchedule,
		roundFunction,
		16,
		numRounds,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Feistel network: %w", err)
	}

	return &DEALCipher{
		feistel:   feistel,
		keyLength: keyLength,
	}, nil
}

func (deal *DEALCipher) BlockSize() int {
	return 16
}

func (deal *DEALCipher) KeyLength() int {
	return deal.keyLength
}

func (deal *DEALCipher) SetKey(key []uint8) error {
	if len(key) != deal.keyLength {
		return fmt.Errorf("%w: key is %d bytes, configured DEAL key length is %d", ErrInvalidKeySize, len(key), deal.keyLength)
	}

	if err := deal.feistel.SetKey(key); err != nil {
		return fmt.Errorf("failed to set key in feistel network: %w", err)
	}

	return nil
}

func (deal *DEALCipher) EncryptBlock(plainBlock []uint8) ([]uint8, error) {
	if len(plainBlock) != 16 {
		return nil, fmt.Errorf("%w: DEAL block must be 16 bytes (128 bits), got %d", ErrInvalidBlockSize, len(plainBlock))
	}

	cipherBlock, err := deal.feistel.EncryptBlock(plainBlock)
	if err != nil {
		return nil, fmt.Errorf("feistel encryption failed: %w", err)
	}

	return cipherBlock, nil
}

func (deal *DEALCipher) DecryptBlock(cipherBlock []uint8) ([]uint8, error) {
	if len(cipherBlock) != 16 {
		return nil, fmt.Errorf("%w: DEAL block must be 16 bytes (128 bits), got %d", ErrInvalidBlockSize, len(cipherBlock))
	}

	plainBlock, err := deal.feistel.DecryptBlock(cipherBlock)
	if err != nil {
		return nil, fmt.Errorf("feistel decryption failed: %w", err)
	}

	return plainBlock, nil
}
