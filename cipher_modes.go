package crypta

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

type CipherMode int

const (
	CipherModeECB CipherMode = iota
	CipherModeCBC
	CipherModePCBC
	CipherModeCFB
	CipherModeOFB
	CipherModeCTR
	CipherModeRandomDelta
)

func (cm CipherMode) String() string {
	switch cm {
	case CipherModeECB:
		return "ECB"
	case CipherModeCBC:
		return "CBC"
	case CipherModePCBC:
		return "PCBC"
	case CipherModeCFB:
		return "CFB"
	case CipherModeOFB:
		return "OFB"
	case CipherModeCTR:
		return "CTR"
	case CipherModeRandomDelta:
		return "RandomDelta"
	default:
		return "Unknown"
	}
}

// isStreamMode reports whether the mode XORs plaintext with a keystream and
// therefore carries a partial final block with no padding.
func isStreamMode(mode CipherMode) bool {
	return mode == CipherModeCFB || mode == CipherModeOFB || mode == CipherModeCTR
}

// chainState is the mutable per-operation feedback state. register holds
// the previous ciphertext (or keystream for OFB); prevPlain is PCBC's
// second register; blockIndex counts blocks already processed so CTR and
// RandomDelta stay correct across chunk boundaries.
type chainState struct {
	iv         []uint8
	register   []uint8
	prevPlain  []uint8
	blockIndex uint64
}

func newChainState(mode CipherMode, iv []uint8, blockSize int) *chainState {
	st := &chainState{
		iv:        make([]uint8, len(iv)),
		register:  make([]uint8, blockSize),
		prevPlain: make([]uint8, blockSize),
	}
	copy(st.iv, iv)
	copy(st.prevPlain, iv)
	// PCBC keeps prevPlain⊕register == IV for the first block.
	if mode != CipherModePCBC {
		copy(st.register, iv)
	}
	return st
}

// CipherModes turns a single-block cipher into the seven chaining/stream
// transforms. Each call processes one chunk and advances the caller's
// chainState, so a chunked stream and a one-shot buffer produce identical
// output.
type CipherModes struct {
	cipher    ISymmetricCipher
	blockSize int
}

func NewCipherModes(cipher ISymmetricCipher) *CipherModes {
	return &CipherModes{cipher: cipher, blockSize: cipher.BlockSize()}
}

// forEachBlock runs fn over block indices 0..numBlocks-1, fanning out
// across CPUs when parallel is set. fn must only touch its own block.
func (cm *CipherModes) forEachBlock(ctx context.Context, numBlocks int, parallel bool, fn func(i int) error) error {
	workers := runtime.NumCPU()
	if workers > numBlocks {
		workers = numBlocks
	}

	if !parallel || workers <= 1 {
		for i := 0; i < numBlocks; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := fn(i); err != nil {
				return err
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	blocksPerWorker := (numBlocks + workers - 1) / workers

	for t := 0; t < workers; t++ {
		start := t * blocksPerWorker
		end := start + blocksPerWorker
		if end > numBlocks {
			end = numBlocks
		}
		if start >= numBlocks {
			break
		}

		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				if err := fn(i); err != nil {
					return err
				}
			}
			return nil
		})
	}

	return g.Wait()
}

func (cm *CipherModes) requireAligned(data []uint8) error {
	if len(data)%cm.blockSize != 0 {
		return fmt.Errorf("%w: %d bytes is not a multiple of the %d-byte block", ErrInvalidBlockSize, len(data), cm.blockSize)
	}
	return nil
}

// EncryptChunk transforms one chunk of plaintext under the selected mode.
// Stream modes accept a partial final block; block modes require aligned
// input (the context layer pads before calling).
func (cm *CipherModes) EncryptChunk(ctx context.Context, mode CipherMode, data []uint8, st *chainState, parallel bool) ([]uint8, error) {
	bs := cm.blockSize

	switch mode {
	case CipherModeECB:
		if err := cm.requireAligned(data); err != nil {
			return nil, err
		}
		out := make([]uint8, len(data))
		err := cm.forEachBlock(ctx, len(data)/bs, parallel, func(i int) error {
			enc, err := cm.cipher.EncryptBlock(data[i*bs : (i+1)*bs])
			if err != nil {
				return fmt.Errorf("ECB encryption failed for block %d: %w", i, err)
			}
			copy(out[i*bs:], enc)
			return nil
		})
		if err != nil {
			return nil, err
		}
		return out, nil

	case CipherModeCBC:
		if err := cm.requireAligned(data); err != nil {
			return nil, err
		}
		out := make([]uint8, len(data))
		for i := 0; i*bs < len(data); i++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			xored := xorBlocks(data[i*bs:(i+1)*bs], st.register)
			enc, err := cm.cipher.EncryptBlock(xored)
			if err != nil {
				return nil, fmt.Errorf("CBC encryption failed for block %d: %w", i, err)
			}
			copy(out[i*bs:], enc)
			copy(st.register, enc)
		}
		return out, nil

	case CipherModePCBC:
		if err := cm.requireAligned(data); err != nil {
			return nil, err
		}
		out := make([]uint8, len(data))
		for i := 0; i*bs < len(data); i++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			block := data[i*bs : (i+1)*bs]
			xored := xorBlocks(xorBlocks(block, st.prevPlain), st.register)
			enc, err := cm.cipher.EncryptBlock(xored)
			if err != nil {
				return nil, fmt.Errorf("PCBC encryption failed for block %d: %w", i, err)
			}
			copy(out[i*bs:], enc)
			copy(st.prevPlain, block)
			copy(st.register, enc)
		}
		return out, nil

	case CipherModeCFB:
		out := make([]uint8, len(data))
		for i := 0; i < len(data); i += bs {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			keystream, err := cm.cipher.EncryptBlock(st.register)
			if err != nil {
				return nil, fmt.Errorf("CFB encryption failed: %w", err)
			}
			end := i + bs
			if end > len(data) {
				end = len(data)
			}
			xorInto(out[i:end], data[i:end], keystream)
			if end-i == bs {
				copy(st.register, out[i:end])
			}
		}
		return out, nil

	case CipherModeOFB:
		out := make([]uint8, len(data))
		for i := 0; i < len(data); i += bs {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			keystream, err := cm.cipher.EncryptBlock(st.register)
			if err != nil {
				return nil, fmt.Errorf("OFB encryption failed: %w", err)
			}
			copy(st.register, keystream)
			end := i + bs
			if end > len(data) {
				end = len(data)
			}
			xorInto(out[i:end], data[i:end], keystream)
		}
		return out, nil

	case CipherModeCTR:
		out := make([]uint8, len(data))
		numBlocks := (len(data) + bs - 1) / bs
		err := cm.forEachBlock(ctx, numBlocks, parallel, func(i int) error {
			counter := counterForBlock(st.iv, st.blockIndex+uint64(i))
			keystream, err := cm.cipher.EncryptBlock(counter)
			if err != nil {
				return fmt.Errorf("CTR keystream failed for block %d: %w", i, err)
			}
			start := i * bs
			end := start + bs
			if end > len(data) {
				end = len(data)
			}
			xorInto(out[start:end], data[start:end], keystream)
			return nil
		})
		if err != nil {
			return nil, err
		}
		st.blockIndex += uint64(numBlocks)
		return out, nil

	case CipherModeRandomDelta:
		if err := cm.requireAligned(data); err != nil {
			return nil, err
		}
		out := make([]uint8, len(data))
		numBlocks := len(data) / bs
		err := cm.forEachBlock(ctx, numBlocks, parallel, func(i int) error {
			delta := deltaForBlock(st.iv, st.blockIndex+uint64(i), bs)
			xored := xorBlocks(data[i*bs:(i+1)*bs], delta)
			enc, err := cm.cipher.EncryptBlock(xored)
			if err != nil {
				return fmt.Errorf("RandomDelta encryption failed for block %d: %w", i, err)
			}
			copy(out[i*bs:], enc)
			return nil
		})
		if err != nil {
			return nil, err
		}
		st.blockIndex += uint64(numBlocks)
		return out, nil

	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedMode, mode)
	}
}

// DecryptChunk is the inverse of EncryptChunk over one chunk of ciphertext.
// CBC fans the block-decrypt pass out in parallel and runs the XOR combine
// sequentially; PCBC, CFB and OFB are inherently sequential.
func (cm *CipherModes) DecryptChunk(ctx context.Context, mode CipherMode, data []uint8, st *chainState, parallel bool) ([]uint8, error) {
	bs := cm.blockSize

	switch mode {
	case CipherModeECB:
		if err := cm.requireAligned(data); err != nil {
			return nil, err
		}
		out := make([]uint8, len(data))
		err := cm.forEachBlock(ctx, len(data)/bs, parallel, func(i int) error {
			dec, err := cm.cipher.DecryptBlock(data[i*bs : (i+1)*bs])
			if err != nil {
				return fmt.Errorf("ECB decryption failed for block %d: %w", i, err)
			}
			copy(out[i*bs:], dec)
			return nil
		})
		if err != nil {
			return nil, err
		}
		return out, nil

	case CipherModeCBC:
		if err := cm.requireAligned(data); err != nil {
			return nil, err
		}
		out := make([]uint8, len(data))
		err := cm.forEachBlock(ctx, len(data)/bs, parallel, func(i int) error {
			dec, err := cm.cipher.DecryptBlock(data[i*bs : (i+1)*bs])
			if err != nil {
				return fmt.Errorf("CBC decryption failed for block %d: %w", i, err)
			}
			copy(out[i*bs:], dec)
			return nil
		})
		if err != nil {
			return nil, err
		}
		// sequential combine pass
		for i := 0; i*bs < len(data); i++ {
			xorInto(out[i*bs:(i+1)*bs], out[i*bs:(i+1)*bs], st.register)
			copy(st.register, data[i*bs:(i+1)*bs])
		}
		return out, nil

	case CipherModePCBC:
		if err := cm.requireAligned(data); err != nil {
			return nil, err
		}
		out := make([]uint8, len(data))
		for i := 0; i*bs < len(data); i++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			block := data[i*bs : (i+1)*bs]
			dec, err := cm.cipher.DecryptBlock(block)
			if err != nil {
				return nil, fmt.Errorf("PCBC decryption failed for block %d: %w", i, err)
			}
			plain := xorBlocks(xorBlocks(dec, st.prevPlain), st.register)
			copy(out[i*bs:], plain)
			copy(st.prevPlain, plain)
			copy(st.register, block)
		}
		return out, nil

	case CipherModeCFB:
		out := make([]uint8, len(data))
		for i := 0; i < len(data); i += bs {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			keystream, err := cm.cipher.EncryptBlock(st.register)
			if err != nil {
				return nil, fmt.Errorf("CFB decryption failed: %w", err)
			}
			end := i + bs
			if end > len(data) {
				end = len(data)
			}
			xorInto(out[i:end], data[i:end], keystream)
			if end-i == bs {
				copy(st.register, data[i:end])
			}
		}
		return out, nil

	case CipherModeOFB, CipherModeCTR:
		// self-inverse keystream modes
		return cm.EncryptChunk(ctx, mode, data, st, parallel)

	case CipherModeRandomDelta:
		if err := cm.requireAligned(data); err != nil {
			return nil, err
		}
		out := make([]uint8, len(data))
		numBlocks := len(data) / bs
		err := cm.forEachBlock(ctx, numBlocks, parallel, func(i int) error {
			dec, err := cm.cipher.DecryptBlock(data[i*bs : (i+1)*bs])
			if err != nil {
				return fmt.Errorf("RandomDelta decryption failed for block %d: %w", i, err)
			}
			delta := deltaForBlock(st.iv, st.blockIndex+uint64(i), bs)
			xorInto(out[i*bs:(i+1)*bs], dec, delta)
			return nil
		})
		if err != nil {
			return nil, err
		}
		st.blockIndex += uint64(numBlocks)
		return out, nil

	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedMode, mode)
	}
}
