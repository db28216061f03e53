package crypta

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
)

// StreamChunkSize is the I/O granularity of the stream API: a multiple of
// both supported block sizes so intermediate chunks never need padding.
const StreamChunkSize = 4096

// EncryptStream encrypts r into w in fixed-size chunks, carrying the
// chaining state across chunk boundaries. For IV-bearing modes the IV is
// written in cleartext ahead of the ciphertext (the wire format carries no
// magic number or algorithm tag). The final chunk is detected by a short
// read; block modes always append padding, so an exactly chunk-aligned
// input is followed by one block of pure padding.
func (cc *CipherContext) EncryptStream(ctx context.Context, r io.Reader, w io.Writer) error {
	if cc.mode != CipherModeECB {
		if _, err := w.Write(cc.iv); err != nil {
			return fmt.Errorf("failed to write IV: %w", err)
		}
	}

	st := newChainState(cc.mode, cc.iv, cc.blockSize)
	stream := isStreamMode(cc.mode)
	buf := make([]uint8, StreamChunkSize)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, err := io.ReadFull(r, buf)
		switch err {
		case nil:
			// full chunk, more may follow
			enc, encErr := cc.modes.EncryptChunk(ctx, cc.mode, buf, st, cc.parallel)
			if encErr != nil {
				return encErr
			}
			if _, wErr := w.Write(enc); wErr != nil {
				return fmt.Errorf("failed to write ciphertext: %w", wErr)
			}

		case io.ErrUnexpectedEOF, io.EOF:
			chunk := buf[:n]
			if !stream {
				padded, padErr := ApplyPadding(chunk, cc.blockSize, cc.paddingMode)
				if padErr != nil {
					return fmt.Errorf("padding failed: %w", padErr)
				}
				chunk = padded
			}
			if len(chunk) == 0 {
				return nil
			}
			enc, encErr := cc.modes.EncryptChunk(ctx, cc.mode, chunk, st, cc.parallel)
			if encErr != nil {
				return encErr
			}
			if _, wErr := w.Write(enc); wErr != nil {
				return fmt.Errorf("failed to write ciphertext: %w", wErr)
			}
			return nil

		default:
			return fmt.Errorf("failed to read plaintext: %w", err)
		}
	}
}

// DecryptStream decrypts r into w. It reads one chunk ahead of the chunk
// being processed so the end of an unbounded stream is known before padding
// removal, which applies only to the true last chunk. For IV-bearing modes
// the leading cleartext IV written by EncryptStream is consumed first and
// used for this operation.
func (cc *CipherContext) DecryptStream(ctx context.Context, r io.Reader, w io.Writer) error {
	iv := cc.iv
	if cc.mode != CipherModeECB {
		iv = make([]uint8, cc.blockSize)
		if _, err := io.ReadFull(r, iv); err != nil {
			return fmt.Errorf("failed to read IV: %w", err)
		}
	}

	st := newChainState(cc.mode, iv, cc.blockSize)
	stream := isStreamMode(cc.mode)

	writeDecrypted := func(chunk []uint8, final bool) error {
		dec, err := cc.modes.DecryptChunk(ctx, cc.mode, chunk, st, cc.parallel)
		if err != nil {
			return err
		}
		if final && !stream {
			dec, err = RemovePadding(dec, cc.blockSize, cc.paddingMode)
			if err != nil {
				return err
			}
		}
		if _, err := w.Write(dec); err != nil {
			return fmt.Errorf("failed to write plaintext: %w", err)
		}
		return nil
	}

	cur := make([]uint8, StreamChunkSize)
	next := make([]uint8, StreamChunkSize)

	n, err := io.ReadFull(r, cur)
	switch err {
	case nil:
		// lookahead loop below decides whether this chunk is final
	case io.ErrUnexpectedEOF:
		return writeDecrypted(cur[:n], true)
	case io.EOF:
		return nil
	default:
		return fmt.Errorf("failed to read ciphertext: %w", err)
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		m, err := io.ReadFull(r, next)
		switch err {
		case nil:
			if wErr := writeDecrypted(cur, false); wErr != nil {
				return wErr
			}
			cur, next = next, cur

		case io.ErrUnexpectedEOF:
			if wErr := writeDecrypted(cur, false); wErr != nil {
				return wErr
			}
			return writeDecrypted(next[:m], true)

		case io.EOF:
			return writeDecrypted(cur, true)

		default:
			return fmt.Errorf("failed to read ciphertext: %w", err)
		}
	}
}

// EncryptFile encrypts inputPath into outputPath using the stream API and
// the on-disk format it defines.
func (cc *CipherContext) EncryptFile(ctx context.Context, inputPath string, outputPath string) error {
	in, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer in.Close()

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()

	bw := bufio.NewWriter(out)
	if err := cc.EncryptStream(ctx, in, bw); err != nil {
		return fmt.Errorf("encryption failed: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush output file: %w", err)
	}

	return out.Close()
}

// DecryptFile decrypts inputPath into outputPath.
func (cc *CipherContext) DecryptFile(ctx context.Context, inputPath string, outputPath string) error {
	in, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer in.Close()

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()

	bw := bufio.NewWriter(out)
	if err := cc.DecryptStream(ctx, bufio.NewReader(in), bw); err != nil {
		return fmt.Errorf("decryption failed: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush output file: %w", err)
	}

	return out.Close()
}
