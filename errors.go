package crypta

import "errors"

var (
	ErrInvalidKeySize              = errors.New("invalid key size")
	ErrInvalidBlockSize            = errors.New("invalid block size")
	ErrPermutationIndexOutOfRange  = errors.New("permutation index out of range")
	ErrMissingInitializationVector = errors.New("missing initialization vector")
	ErrIVSizeMismatch              = errors.New("initialization vector size mismatch")
	ErrUnsupportedMode             = errors.New("unsupported cipher mode")
	ErrUnsupportedPadding          = errors.New("unsupported padding mode")
	ErrRoundKeysNotBound           = errors.New("round keys not bound")
)
