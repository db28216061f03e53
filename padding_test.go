package crypta

import (
	"bytes"
	"testing"
)

var paddingModes = []PaddingMode{
	PaddingModeZeros,
	PaddingModePKCS7,
	PaddingModeANSIX923,
	PaddingModeISO10126,
}

func TestPaddingRoundTrip(t *testing.T) {
	for _, mode := range paddingModes {
		for _, blockSize := range []int{8, 16} {
			for length := 0; length <= 2*blockSize; length++ {
				// Zeros padding cannot distinguish trailing data zeros
				// from padding, so keep the last data byte non-zero.
				data := make([]uint8, length)
				for i := range data {
					data[i] = uint8(i%254) + 1
				}

				padded, err := ApplyPadding(data, blockSize, mode)
				if err != nil {
					t.Fatalf("ApplyPadding(%v) failed: %v", mode, err)
				}
				if len(padded)%blockSize != 0 {
					t.Fatalf("Padded length %d is not a multiple of %d", len(padded), blockSize)
				}
				if len(padded) <= len(data) {
					t.Fatalf("Padding must always extend the data: %d -> %d", len(data), len(padded))
				}

				unpadded, err := RemovePadding(padded, blockSize, mode)
				if err != nil {
					t.Fatalf("RemovePadding(%v) failed: %v", mode, err)
				}
				if !bytes.Equal(unpadded, data) {
					t.Fatalf("Round trip mismatch (mode=%v block=%d len=%d):\nExpected: %x\nGot: %x",
						mode, blockSize, length, data, unpadded)
				}
			}
		}
	}
}

func TestPaddingAlignedInputGetsFullBlock(t *testing.T) {
	data := make([]uint8, 16)
	padded, err := ApplyPadding(data, 8, PaddingModePKCS7)
	if err != nil {
		t.Fatalf("ApplyPadding failed: %v", err)
	}
	if len(padded) != 24 {
		t.Fatalf("Expected a full extra block (24 bytes), got %d", len(padded))
	}
	for i := 16; i < 24; i++ {
		if padded[i] != 8 {
			t.Fatalf("Expected PKCS7 byte 0x08 at %d, got %x", i, padded[i])
		}
	}
}

func TestPaddingPKCS7Bytes(t *testing.T) {
	padded, err := ApplyPadding([]uint8{0xAA, 0xBB, 0xCC}, 8, PaddingModePKCS7)
	if err != nil {
		t.Fatalf("ApplyPadding failed: %v", err)
	}
	expected := []uint8{0xAA, 0xBB, 0xCC, 0x05, 0x05, 0x05, 0x05, 0x05}
	if !bytes.Equal(padded, expected) {
		t.Fatalf("Expected %x, got %x", expected, padded)
	}
}

func TestPaddingANSIX923Bytes(t *testing.T) {
	padded, err := ApplyPadding([]uint8{0xAA, 0xBB, 0xCC}, 8, PaddingModeANSIX923)
	if err != nil {
		t.Fatalf("ApplyPadding failed: %v", err)
	}
	expected := []uint8{0xAA, 0xBB, 0xCC, 0x00, 0x00, 0x00, 0x00, 0x05}
	if !bytes.Equal(padded, expected) {
		t.Fatalf("Expected %x, got %x", expected, padded)
	}
}

func TestPaddingISO10126LengthByte(t *testing.T) {
	padded, err := ApplyPadding([]uint8{0xAA, 0xBB, 0xCC}, 8, PaddingModeISO10126)
	if err != nil {
		t.Fatalf("ApplyPadding failed: %v", err)
	}
	if len(padded) != 8 {
		t.Fatalf("Expected 8 bytes, got %d", len(padded))
	}
	if padded[7] != 0x05 {
		t.Fatalf("Expected length byte 0x05, got %x", padded[7])
	}
}

func TestPaddingInvalidRemovalReturnsDataUnchanged(t *testing.T) {
	// A length byte larger than the block size cannot be valid padding.
	data := []uint8{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0xFF}

	for _, mode := range []PaddingMode{PaddingModePKCS7, PaddingModeANSIX923, PaddingModeISO10126} {
		result, err := RemovePadding(data, 8, mode)
		if err != nil {
			t.Fatalf("RemovePadding(%v) failed: %v", mode, err)
		}
		if !bytes.Equal(result, data) {
			t.Fatalf("Invalid padding must leave data unchanged (mode=%v), got %x", mode, result)
		}
	}
}

func TestPaddingTamperedFillerReturnsDataUnchanged(t *testing.T) {
	data := []uint8{0xAA, 0xBB, 0xCC, 0x05, 0x05, 0x04, 0x05, 0x05}
	result, err := RemovePadding(data, 8, PaddingModePKCS7)
	if err != nil {
		t.Fatalf("RemovePadding failed: %v", err)
	}
	if !bytes.Equal(result, data) {
		t.Fatalf("Tampered PKCS7 filler must leave data unchanged, got %x", result)
	}

	data = []uint8{0xAA, 0xBB, 0xCC, 0x00, 0x00, 0x01, 0x00, 0x05}
	result, err = RemovePadding(data, 8, PaddingModeANSIX923)
	if err != nil {
		t.Fatalf("RemovePadding failed: %v", err)
	}
	if !bytes.Equal(result, data) {
		t.Fatalf("Tampered ANSI filler must leave data unchanged, got %x", result)
	}
}

func TestPaddingZerosRemovalStripsTrailingZeros(t *testing.T) {
	result, err := RemovePadding([]uint8{0x11, 0x22, 0x00, 0x00}, 4, PaddingModeZeros)
	if err != nil {
		t.Fatalf("RemovePadding failed: %v", err)
	}
	if !bytes.Equal(result, []uint8{0x11, 0x22}) {
		t.Fatalf("Expected 1122, got %x", result)
	}

	result, err = RemovePadding([]uint8{0x00, 0x00, 0x00, 0x00}, 4, PaddingModeZeros)
	if err != nil {
		t.Fatalf("RemovePadding failed: %v", err)
	}
	if len(result) != 0 {
		t.Fatalf("Expected empty result, got %x", result)
	}
}
