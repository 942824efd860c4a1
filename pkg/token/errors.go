package token

import "errors"

// MinLength is the smallest accepted number of random bytes.
const MinLength = 16

var (
	ErrTooShort = errors.New("token: length below minimum")
	ErrEntropy  = errors.New("token: failed to read random bytes")
)
