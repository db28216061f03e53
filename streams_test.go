package crypta

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestStreamRoundTrip(t *testing.T) {
	ctx := context.Background()

	lengths := []int{
		0,
		1,
		100,
		StreamChunkSize - 1,
		StreamChunkSize,
		StreamChunkSize + 1,
		2*StreamChunkSize + 333,
	}

	for _, keyLength := range []int{8, 16} {
		for _, mode := range allCipherModes {
			for _, length := range lengths {
				cc := newTestContext(t, keyLength, mode, PaddingModePKCS7, false)
				plaintext := testPlaintext(length)

				var encrypted bytes.Buffer
				if err := cc.EncryptStream(ctx, bytes.NewReader(plaintext), &encrypted); err != nil {
					t.Fatalf("EncryptStream(key%d %v len=%d) failed: %v", keyLength, mode, length, err)
				}

				var decrypted bytes.Buffer
				if err := cc.DecryptStream(ctx, bytes.NewReader(encrypted.Bytes()), &decrypted); err != nil {
					t.Fatalf("DecryptStream(key%d %v len=%d) failed: %v", keyLength, mode, length, err)
				}

				if !bytes.Equal(decrypted.Bytes(), plaintext) {
					t.Fatalf("Stream round trip mismatch (key%d %v len=%d): got %d bytes",
						keyLength, mode, length, decrypted.Len())
				}
			}
		}
	}
}

func TestStreamMatchesBufferAPI(t *testing.T) {
	ctx := context.Background()
	plaintext := testPlaintext(2*StreamChunkSize + 777)

	for _, mode := range allCipherModes {
		cc := newTestContext(t, 8, mode, PaddingModePKCS7, false)

		var streamOut bytes.Buffer
		if err := cc.EncryptStream(ctx, bytes.NewReader(plaintext), &streamOut); err != nil {
			t.Fatalf("EncryptStream(%v) failed: %v", mode, err)
		}

		// Stream output carries the cleartext IV ahead of the ciphertext.
		encrypted := streamOut.Bytes()
		if mode != CipherModeECB {
			if !bytes.Equal(encrypted[:cc.BlockSize()], cc.IV()) {
				t.Fatalf("%v: stream must start with the cleartext IV", mode)
			}
			encrypted = encrypted[cc.BlockSize():]
		}

		bufferOut, err := cc.Encrypt(ctx, plaintext)
		if err != nil {
			t.Fatalf("Encrypt(%v) failed: %v", mode, err)
		}

		if !bytes.Equal(encrypted, bufferOut) {
			t.Fatalf("%v: chunked stream and one-shot buffer ciphertext differ", mode)
		}
	}
}

func TestStreamDecryptUsesEmbeddedIV(t *testing.T) {
	ctx := context.Background()
	plaintext := testPlaintext(1000)

	encryptor := newTestContext(t, 8, CipherModeCBC, PaddingModePKCS7, false)

	var encrypted bytes.Buffer
	if err := encryptor.EncryptStream(ctx, bytes.NewReader(plaintext), &encrypted); err != nil {
		t.Fatalf("EncryptStream failed: %v", err)
	}

	// A decryptor configured with a different IV must still recover the
	// plaintext from the IV carried by the stream.
	decryptor := newTestContext(t, 8, CipherModeCBC, PaddingModePKCS7, false)
	otherIV := testIV(8)
	otherIV[0] ^= 0xFF
	if err := decryptor.SetIV(otherIV); err != nil {
		t.Fatalf("SetIV failed: %v", err)
	}

	var decrypted bytes.Buffer
	if err := decryptor.DecryptStream(ctx, bytes.NewReader(encrypted.Bytes()), &decrypted); err != nil {
		t.Fatalf("DecryptStream failed: %v", err)
	}
	if !bytes.Equal(decrypted.Bytes(), plaintext) {
		t.Fatal("Decryption with the embedded IV failed to recover the plaintext")
	}
}

func TestStreamChunkAlignedInputCarriesPurePaddingBlock(t *testing.T) {
	ctx := context.Background()
	cc := newTestContext(t, 8, CipherModeCBC, PaddingModePKCS7, false)
	plaintext := testPlaintext(StreamChunkSize)

	var encrypted bytes.Buffer
	if err := cc.EncryptStream(ctx, bytes.NewReader(plaintext), &encrypted); err != nil {
		t.Fatalf("EncryptStream failed: %v", err)
	}

	// IV + data + one full block of padding.
	expected := cc.BlockSize() + StreamChunkSize + cc.BlockSize()
	if encrypted.Len() != expected {
		t.Fatalf("Expected %d ciphertext bytes, got %d", expected, encrypted.Len())
	}

	var decrypted bytes.Buffer
	if err := cc.DecryptStream(ctx, bytes.NewReader(encrypted.Bytes()), &decrypted); err != nil {
		t.Fatalf("DecryptStream failed: %v", err)
	}
	if !bytes.Equal(decrypted.Bytes(), plaintext) {
		t.Fatal("Round trip mismatch for chunk-aligned input")
	}
}

func TestStreamCancellation(t *testing.T) {
	cc := newTestContext(t, 8, CipherModeCBC, PaddingModePKCS7, false)

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := cc.EncryptStream(cancelled, bytes.NewReader(testPlaintext(100)), &out)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
}

func TestFileRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	inputPath := filepath.Join(dir, "input.bin")
	encryptedPath := filepath.Join(dir, "output.enc")
	decryptedPath := filepath.Join(dir, "restored.bin")

	plaintext := testPlaintext(3*StreamChunkSize + 123)
	if err := os.WriteFile(inputPath, plaintext, 0644); err != nil {
		t.Fatalf("Failed to write input file: %v", err)
	}

	for _, mode := range []CipherMode{CipherModeECB, CipherModeCBC, CipherModeCTR} {
		cc := newTestContext(t, 16, mode, PaddingModePKCS7, true)

		if err := cc.EncryptFile(ctx, inputPath, encryptedPath); err != nil {
			t.Fatalf("EncryptFile(%v) failed: %v", mode, err)
		}
		if err := cc.DecryptFile(ctx, encryptedPath, decryptedPath); err != nil {
			t.Fatalf("DecryptFile(%v) failed: %v", mode, err)
		}

		restored, err := os.ReadFile(decryptedPath)
		if err != nil {
			t.Fatalf("Failed to read restored file: %v", err)
		}
		if !bytes.Equal(restored, plaintext) {
			t.Fatalf("%v: file round trip mismatch (%d vs %d bytes)", mode, len(restored), len(plaintext))
		}
	}
}

func TestFileEncryptMissingInput(t *testing.T) {
	cc := newTestContext(t, 8, CipherModeCBC, PaddingModePKCS7, false)
	err := cc.EncryptFile(context.Background(), filepath.Join(t.TempDir(), "missing.bin"), filepath.Join(t.TempDir(), "out.enc"))
	if err == nil {
		t.Fatal("Expected error for missing input file")
	}
}
