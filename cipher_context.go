package crypta

import (
	"context"
	"fmt"
)

// CipherContext binds a block cipher, a chaining mode, a padding scheme and
// an optional IV into one encryption session. Feedback state is
// re-initialized from the IV at the start of every top-level call, but one
// context must not run concurrent Encrypt/Decrypt operations; use one
// context per logical stream.
type CipherContext struct {
	cipher      ISymmetricCipher
	key         []uint8
	mode        CipherMode
	paddingMode PaddingMode
	iv          []uint8
	blockSize   int
	modes       *CipherModes
	parallel    bool
}

func NewCipherContext(
	cipher ISymmetricCipher,
	key []uint8,
	mode CipherMode,
	paddingMode PaddingMode,
	iv []uint8,
	parallel bool,
) (*CipherContext, error) {

	if cipher == nil {
		return nil, fmt.Errorf("cipher implementation cannot be nil")
	}
	if mode < CipherModeECB || mode > CipherModeRandomDelta {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedMode, mode)
	}
	if paddingMode < PaddingModeZeros || paddingMode > PaddingModeISO10126 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedPadding, paddingMode)
	}

	blockSize := cipher.BlockSize()

	if mode != CipherModeECB {
		if len(iv) == 0 {
			return nil, fmt.Errorf("%w: mode %v requires an IV", ErrMissingInitializationVector, mode)
		}
		if len(iv) != blockSize {
			return nil, fmt.Errorf("%w: IV is %d bytes, block size is %d", ErrIVSizeMismatch, len(iv), blockSize)
		}
	}

	if err := cipher.SetKey(key); err != nil {
		return nil, fmt.Errorf("failed to set key: %w", err)
	}

	cc := &CipherContext{
		cipher:      cipher,
		key:         make([]uint8, len(key)),
		mode:        mode,
		paddingMode: paddingMode,
		iv:          make([]uint8, len(iv)),
		blockSize:   blockSize,
		modes:       NewCipherModes(cipher),
		parallel:    parallel,
	}
	copy(cc.key, key)
	copy(cc.iv, iv)

	return cc, nil
}

// NewCipherContextForKey infers the cipher from the key length: 8 bytes
// selects DES, 16/24/32 bytes select the DEAL variants.
func NewCipherContextForKey(
	key []uint8,
	mode CipherMode,
	paddingMode PaddingMode,
	iv []uint8,
	parallel bool,
) (*CipherContext, error) {

	var cipher ISymmetricCipher
	var err error

	switch len(key) {
	case 8:
		cipher, err = NewDESCipher()
	case 16, 24, 32:
		cipher, err = NewDEALCipher(len(key))
	default:
		return nil, fmt.Errorf("%w: no cipher accepts a %d-byte key", ErrInvalidKeySize, len(key))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	return NewCipherContext(cipher, key, mode, paddingMode, iv, parallel)
}

func (cc *CipherContext) Mode() CipherMode {
	return cc.mode
}

func (cc *CipherContext) BlockSize() int {
	return cc.blockSize
}

func (cc *CipherContext) IV() []uint8 {
	iv := make([]uint8, len(cc.iv))
	copy(iv, cc.iv)
	return iv
}

func (cc *CipherContext) SetIV(iv []uint8) error {
	if cc.mode != CipherModeECB {
		if len(iv) == 0 {
			return fmt.Errorf("%w: mode %v requires an IV", ErrMissingInitializationVector, cc.mode)
		}
		if len(iv) != cc.blockSize {
			return fmt.Errorf("%w: IV is %d bytes, block size is %d", ErrIVSizeMismatch, len(iv), cc.blockSize)
		}
	}
	cc.iv = make([]uint8, len(iv))
	copy(cc.iv, iv)
	return nil
}

// Encrypt transforms plaintext of any length. Block modes pad the tail with
// the configured scheme; stream modes (CFB/OFB/CTR) keep the exact length.
func (cc *CipherContext) Encrypt(ctx context.Context, plaintext []uint8) ([]uint8, error) {
	st := newChainState(cc.mode, cc.iv, cc.blockSize)

	if isStreamMode(cc.mode) {
		return cc.modes.EncryptChunk(ctx, cc.mode, plaintext, st, cc.parallel)
	}

	padded, err := ApplyPadding(plaintext, cc.blockSize, cc.paddingMode)
	if err != nil {
		return nil, fmt.Errorf("padding failed: %w", err)
	}

	return cc.modes.EncryptChunk(ctx, cc.mode, padded, st, cc.parallel)
}

// Decrypt inverts Encrypt. Block-mode ciphertext must be block-aligned;
// padding removal follows the configured scheme's semantics.
func (cc *CipherContext) Decrypt(ctx context.Context, ciphertext []uint8) ([]uint8, error) {
	st := newChainState(cc.mode, cc.iv, cc.blockSize)

	if isStreamMode(cc.mode) {
		return cc.modes.DecryptChunk(ctx, cc.mode, ciphertext, st, cc.parallel)
	}

	if len(ciphertext)%cc.blockSize != 0 {
		return nil, fmt.Errorf("%w: ciphertext is %d bytes, block size is %d", ErrInvalidBlockSize, len(ciphertext), cc.blockSize)
	}

	plaintext, err := cc.modes.DecryptChunk(ctx, cc.mode, ciphertext, st, cc.parallel)
	if err != nil {
		return nil, err
	}

	return RemovePadding(plaintext, cc.blockSize, cc.paddingMode)
}
