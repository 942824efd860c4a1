// Package password hashes and verifies user passwords with bcrypt.
package password

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used unless overridden.
const DefaultCost = 10

var (
	ErrEmptyPassword = errors.New("password.empty")
	ErrTooLong       = errors.New("password.too_long")
	ErrHashFailed    = errors.New("password.hash_failed")
)

// Hasher turns plaintext passwords into salted one-way hashes.
type Hasher interface {
	Hash(ctx context.Context, plaintext string) (string, error)
	Verify(ctx context.Context, plaintext, hashed string) bool
}

// BcryptHasher implements Hasher.
type BcryptHasher struct {
	cost int
}

// Option configures a BcryptHasher.
type Option func(*BcryptHasher)

// WithCost sets the bcrypt cost. Values outside bcrypt's range are ignored.
func WithCost(cost int) Option {
	return func(h *BcryptHasher) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			h.cost = cost
		}
	}
}

// NewBcrypt returns a bcrypt hasher with DefaultCost.
func NewBcrypt(opts ...Option) *BcryptHasher {
	h := &BcryptHasher{cost: DefaultCost}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Hash returns a fresh salted hash. Hashing the same input twice yields different strings.
func (h *BcryptHasher) Hash(_ context.Context, plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrEmptyPassword
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrTooLong
		}
		return "", fmt.Errorf("%w: %w", ErrHashFailed, err)
	}
	return string(b), nil
}

// Verify reports whether plaintext matches hashed. Malformed hashes never match.
func (h *BcryptHasher) Verify(_ context.Context, plaintext, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext)) == nil
}
