package token

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// DefaultLength is the number of random bytes behind a generated token.
const DefaultLength = 32

// Generate returns a URL-safe opaque token of DefaultLength random bytes.
func Generate() (string, error) {
	return GenerateN(DefaultLength)
}

// GenerateN returns a URL-safe opaque token of n random bytes.
func GenerateN(n int) (string, error) {
	if n < MinLength {
		return "", ErrTooShort
	}
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("%w: %w", ErrEntropy, err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// MustGenerate is Generate that panics when the system entropy source fails.
func MustGenerate() string {
	t, err := Generate()
	if err != nil {
		panic(err)
	}
	return t
}
