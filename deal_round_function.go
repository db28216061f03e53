package crypta

import (
	"fmt"
	"sync"
)

// DEALRoundFunction runs a full DES encryption of the 64-bit half-block
// under the round's sub-key. DES instances come from a pool so concurrent
// mode workers never share a cipher mid-call.
type DEALRoundFunction struct {
	desPool sync.Pool
}

func NewDEALRoundFunction() (*DEALRoundFunction, error) {
	des, err := NewDESCipher()
	if err != nil {
		return nil, fmt.Errorf("failed to create DES cipher: %w", err)
	}

	drf := &DEALRoundFunction{
		desPool: sync.Pool{
			New: func() interface{} {
				des, _ := NewDESCipher()
				return des
			},
		},
	}

	drf.desPool.Put(des)

	return drf, nil
}

func (drf *DEALRoundFunction) Apply(inputBlock []uint8, roundKey []uint8) ([]uint8, error) {
	if len(inputBlock) != 8 {
		return nil, fmt.Errorf("%w: DEAL round function input must be 8 bytes, got %d", ErrInvalidBlockSize, len(inputBlock))
	}
	if len(roundKey) != 8 {
		return nil, fmt.Errorf("%w: DEAL round key must be 8 bytes, got %d", ErrInvalidKeySize, len(roundKey))
	}

	des := drf.desPool.Get().(*DESCipher)
	defer drf.desPool.Put(des)

	if err := des.SetKey(roundKey); err != nil {
		return nil, fmt.Errorf("failed to set round key: %w", err)
	}

	output, err := des.EncryptBlock(inputBlock)
	if err != nil {
		return nil, fmt.Errorf("DES encryption failed: %w", err)
	}

	return output, nil
}
