package crypta

import (
	"crypto/rand"
	"fmt"
)

type PaddingMode int

const (
	PaddingModeZeros PaddingMode = iota
	PaddingModeANSIX923
	PaddingModePKCS7
	PaddingModeISO10126
)

func (pm PaddingMode) String() string {
	switch pm {
	case PaddingModeZeros:
		return "Zeros"
	case PaddingModeANSIX923:
		return "ANSI X.923"
	case PaddingModePKCS7:
		return "PKCS7"
	case PaddingModeISO10126:
		return "ISO 10126"
	default:
		return "Unknown"
	}
}

// ApplyPadding extends data to a whole number of blocks. A full padding
// block is appended even when the data is already aligned, so removal is
// unambiguous for the length-carrying schemes.
func ApplyPadding(data []uint8, blockSize int, mode PaddingMode) ([]uint8, error) {
	paddingLength := blockSize - (len(data) % blockSize)
	if paddingLength == 0 {
		paddingLength = blockSize
	}

	padded := make([]uint8, len(data)+paddingLength)
	copy(padded, data)

	switch mode {
	case PaddingModeZeros:
		// trailing bytes are already zero

	case PaddingModePKCS7:
		for i := len(data); i < len(padded); i++ {
			padded[i] = uint8(paddingLength)
		}

	case PaddingModeANSIX923:
		padded[len(padded)-1] = uint8(paddingLength)

	case PaddingModeISO10126:
		if paddingLength > 1 {
			if _, err := rand.Read(padded[len(data) : len(padded)-1]); err != nil {
				return nil, fmt.Errorf("failed to generate random padding: %w", err)
			}
		}
		padded[len(padded)-1] = uint8(paddingLength)

	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedPadding, mode)
	}

	return padded, nil
}

// RemovePadding strips the padding applied by ApplyPadding. When the
// trailing bytes do not form valid padding the data is returned unchanged
// rather than raising an error; callers that need corruption detection must
// layer it themselves.
func RemovePadding(data []uint8, blockSize int, mode PaddingMode) ([]uint8, error) {
	if len(data) == 0 {
		return data, nil
	}

	if mode == PaddingModeZeros {
		for i := len(data) - 1; i >= 0; i-- {
			if data[i] != 0 {
				return data[:i+1], nil
			}
		}
		return []uint8{}, nil
	}

	paddingLength := int(data[len(data)-1])
	if paddingLength <= 0 || paddingLength > blockSize || paddingLength > len(data) {
		return data, nil
	}

	switch mode {
	case PaddingModePKCS7:
		for i := len(data) - paddingLength; i < len(data); i++ {
			if data[i] != uint8(paddingLength) {
				return data, nil
			}
		}
		return data[:len(data)-paddingLength], nil

	case PaddingModeANSIX923:
		for i := len(data) - paddingLength; i < len(data)-1; i++ {
			if data[i] != 0 {
				return data, nil
			}
		}
		return data[:len(data)-paddingLength], nil

	case PaddingModeISO10126:
		return data[:len(data)-paddingLength], nil

	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedPadding, mode)
	}
}
