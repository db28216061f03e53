package crypta

import (
	"encoding/binary"
	"fmt"
)

// DEALKeySchedule derives one 64-bit round key per round: the master key is
// split into 64-bit sub-keys, each sub-key is XORed with a distinct fixed
// public constant, and round key r is the DES encryption of the counter
// block holding big-endian r+1 under sub-key r mod s.
type DEALKeySchedule struct {
	keyLength int
	numRounds int
}

// One whitening constant per possible sub-key position (up to four for a
// 256-bit master key).
var DEAL_KEY_CONSTANTS = [4][8]uint8{
	{0x01, 0x23, 0x45, 0x67, 0x89, 0xAB, 0xCD, 0xEF},
	{0xFE, 0xDC, 0xBA, 0x98, 0x76, 0x54, 0x32, 0x10},
	{0x0F, 0x1E, 0x2D, 0x3C, 0x4B, 0x5A, 0x69, 0x78},
	{0x87, 0x96, 0xA5, 0xB4, 0xC3, 0xD2, 0xE1, 0xF0},
}

// dealRounds maps the key length in bytes to the round count.
func dealRounds(keyLength int) (int, error) {
	switch keyLength {
	case 16, 24:
		return 6, nil
	case 32:
		return 8, nil
	default:
		return 0, fmt.Errorf("%w: DEAL key must be 16, 24 or 32 bytes, got %d", ErrInvalidKeySize, keyLength)
	}
}

func NewDEALKeySchedule(keyLength int) (*DEALKeySchedule, error) {
	numRounds, err := dealRounds(keyLength)
	if err != nil {
		return nil, err
	}

	return &DEALKeySchedule{
		keyLength: keyLength,
		numRounds: numRounds,
	}, nil
}

func (dks *DEALKeySchedule) GenerateRoundKeys(masterKey []uint8) ([][]uint8, error) {
	if len(masterKey) != dks.keyLength {
		return nil, fmt.Errorf("%w: master key is %d bytes, configured for %d", ErrInvalidKeySize, len(masterKey), dks.keyLength)
	}

	subKeys := make([][]uint8, 0, len(masterKey)/8)
	for i := 0; i*8 < len(masterKey); i++ {
		subKey := make([]uint8, 8)
		copy(subKey, masterKey[i*8:(i+1)*8])
		for j := range subKey {
			subKey[j] ^= DEAL_KEY_CONSTANTS[i][j]
		}
		subKeys = append(subKeys, subKey)
	}

	roundKeys := make([][]uint8, dks.numRounds)
	for round := 0; round < dks.numRounds; round++ {
		des, err := NewDESCipher()
		if err != nil {
			return nil, fmt.Errorf("failed to create DES cipher: %w", err)
		}

		if err := des.SetKey(subKeys[round%len(subKeys)]); err != nil {
			return nil, fmt.Errorf("failed to set sub-key for round %d: %w", round, err)
		}

		counter := make([]uint8, 8)
		binary.BigEndian.PutUint64(counter, uint64(round+1))

		roundKey, err := des.EncryptBlock(counter)
		if err != nil {
			return nil, fmt.Errorf("DES encryption failed for round key %d: %w", round, err)
		}

		roundKeys[round] = roundKey
	}

	return roundKeys, nil
}
