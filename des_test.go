package crypta

import (
	"bytes"
	"errors"
	"testing"
)

var (
	desTestKey   = []uint8{0x13, 0x34, 0x57, 0x79, 0x9B, 0xBC, 0xDF, 0xF1}
	desTestBlock = []uint8{0x01, 0x23, 0x45, 0x67, 0x89, 0xAB, 0xCD, 0xEF}
)

func TestDESKeyScheduleShape(t *testing.T) {
	ks := &DESKeySchedule{}
	roundKeys, err := ks.GenerateRoundKeys(desTestKey)
	if err != nil {
		t.Fatalf("GenerateRoundKeys failed: %v", err)
	}
	if len(roundKeys) != 16 {
		t.Fatalf("Expected 16 round keys, got %d", len(roundKeys))
	}
	for r, key := range roundKeys {
		if len(key) != 6 {
			t.Fatalf("Round key %d is %d bytes, expected 6", r, len(key))
		}
	}

	// Consecutive rounds must not produce identical keys for this key.
	for r := 1; r < len(roundKeys); r++ {
		if bytes.Equal(roundKeys[r-1], roundKeys[r]) {
			t.Fatalf("Round keys %d and %d are identical", r-1, r)
		}
	}
}

func TestDESKeyScheduleRejectsWrongSize(t *testing.T) {
	ks := &DESKeySchedule{}
	for _, size := range []int{0, 7, 9, 16} {
		if _, err := ks.GenerateRoundKeys(make([]uint8, size)); !errors.Is(err, ErrInvalidKeySize) {
			t.Fatalf("Expected ErrInvalidKeySize for %d-byte key, got %v", size, err)
		}
	}
}

func TestDESRoundTrip(t *testing.T) {
	des, err := NewDESCipher()
	if err != nil {
		t.Fatalf("Failed to create DES cipher: %v", err)
	}
	if des.BlockSize() != 8 {
		t.Fatalf("Expected block size 8, got %d", des.BlockSize())
	}
	if err := des.SetKey(desTestKey); err != nil {
		t.Fatalf("SetKey failed: %v", err)
	}

	encrypted, err := des.EncryptBlock(desTestBlock)
	if err != nil {
		t.Fatalf("EncryptBlock failed: %v", err)
	}
	if bytes.Equal(encrypted, desTestBlock) {
		t.Fatal("Ciphertext equals plaintext")
	}

	decrypted, err := des.DecryptBlock(encrypted)
	if err != nil {
		t.Fatalf("DecryptBlock failed: %v", err)
	}
	if !bytes.Equal(decrypted, desTestBlock) {
		t.Fatalf("Round trip mismatch:\nExpected: %x\nGot: %x", desTestBlock, decrypted)
	}
}

func TestDESDeterministic(t *testing.T) {
	des, err := NewDESCipher()
	if err != nil {
		t.Fatalf("Failed to create DES cipher: %v", err)
	}
	if err := des.SetKey(desTestKey); err != nil {
		t.Fatalf("SetKey failed: %v", err)
	}

	first, err := des.EncryptBlock(desTestBlock)
	if err != nil {
		t.Fatalf("EncryptBlock failed: %v", err)
	}
	second, err := des.EncryptBlock(desTestBlock)
	if err != nil {
		t.Fatalf("EncryptBlock failed: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("Same key and block produced different ciphertexts: %x vs %x", first, second)
	}
}

func TestDESKeyChangesCiphertext(t *testing.T) {
	des, err := NewDESCipher()
	if err != nil {
		t.Fatalf("Failed to create DES cipher: %v", err)
	}

	if err := des.SetKey(desTestKey); err != nil {
		t.Fatalf("SetKey failed: %v", err)
	}
	first, err := des.EncryptBlock(desTestBlock)
	if err != nil {
		t.Fatalf("EncryptBlock failed: %v", err)
	}

	otherKey := make([]uint8, len(desTestKey))
	copy(otherKey, desTestKey)
	otherKey[0] ^= 0x20
	if err := des.SetKey(otherKey); err != nil {
		t.Fatalf("SetKey failed: %v", err)
	}
	second, err := des.EncryptBlock(desTestBlock)
	if err != nil {
		t.Fatalf("EncryptBlock failed: %v", err)
	}

	if bytes.Equal(first, second) {
		t.Fatal("Different keys produced identical ciphertext")
	}
}

func TestDESRejectsWrongSizes(t *testing.T) {
	des, err := NewDESCipher()
	if err != nil {
		t.Fatalf("Failed to create DES cipher: %v", err)
	}

	if err := des.SetKey(make([]uint8, 7)); !errors.Is(err, ErrInvalidKeySize) {
		t.Fatalf("Expected ErrInvalidKeySize, got %v", err)
	}

	if err := des.SetKey(desTestKey); err != nil {
		t.Fatalf("SetKey failed: %v", err)
	}
	if _, err := des.EncryptBlock(make([]uint8, 4)); !errors.Is(err, ErrInvalidBlockSize) {
		t.Fatalf("Expected ErrInvalidBlockSize on encrypt, got %v", err)
	}
	if _, err := des.DecryptBlock(make([]uint8, 16)); !errors.Is(err, ErrInvalidBlockSize) {
		t.Fatalf("Expected ErrInvalidBlockSize on decrypt, got %v", err)
	}
}

func TestDESRoundFunctionShape(t *testing.T) {
	rf := &DESRoundFunction{}
	output, err := rf.Apply([]uint8{0xF0, 0xAA, 0xF0, 0xAA}, []uint8{0x1B, 0x02, 0xEF, 0xFC, 0x70, 0x72})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if len(output) != 4 {
		t.Fatalf("Expected 4-byte output, got %d", len(output))
	}

	if _, err := rf.Apply(make([]uint8, 8), make([]uint8, 6)); !errors.Is(err, ErrInvalidBlockSize) {
		t.Fatalf("Expected ErrInvalidBlockSize, got %v", err)
	}
	if _, err := rf.Apply(make([]uint8, 4), make([]uint8, 8)); !errors.Is(err, ErrInvalidKeySize) {
		t.Fatalf("Expected ErrInvalidKeySize, got %v", err)
	}
}
