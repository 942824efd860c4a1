package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/soda/pkg/pg"
	"github.com/dmitrymomot/soda/pkg/token"
)

// IsExpired reports whether t is older than window at now.
// A token exactly window old is still valid.
func IsExpired(t Token, now time.Time, window time.Duration) bool {
	return now.Sub(t.CreatedAt) > window
}

// TokenStore keeps action tokens in the tokens table.
type TokenStore struct {
	repo     pg.Repository[Token]
	generate func() (string, error)
}

var _ TokenStorage = (*TokenStore)(nil)

// TokenStoreOption configures a TokenStore.
type TokenStoreOption func(*TokenStore)

// WithTokenGenerator replaces the random value source.
func WithTokenGenerator(fn func() (string, error)) TokenStoreOption {
	return func(s *TokenStore) {
		s.generate = fn
	}
}

// NewTokenStore returns a store over the tokens table.
func NewTokenStore(opts ...TokenStoreOption) *TokenStore {
	s := &TokenStore{
		repo:     pg.NewRepository[Token]("tokens"),
		generate: token.Generate,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue persists a new token with a fresh random value.
func (s *TokenStore) Issue(ctx context.Context, q pg.Querier, userID uuid.UUID, typ TokenType, payload json.RawMessage) (Token, error) {
	value, err := s.generate()
	if err != nil {
		return Token{}, fmt.Errorf("generate token: %w", err)
	}
	var p any
	if len(payload) > 0 {
		p = payload
	}
	t, err := s.repo.InsertOne(ctx, q, pg.Values{
		"token":   value,
		"type":    string(typ),
		"payload": p,
		"user_id": userID,
	})
	if err != nil {
		return Token{}, fmt.Errorf("issue %s token: %w", typ, err)
	}
	return t, nil
}

// Supersede deletes every token of typ held by the user.
func (s *TokenStore) Supersede(ctx context.Context, q pg.Querier, userID uuid.UUID, typ TokenType) error {
	_, err := s.repo.Delete(ctx, q, pg.And(pg.Eq("user_id", userID), pg.Eq("type", string(typ))))
	if err != nil {
		return fmt.Errorf("supersede %s tokens: %w", typ, err)
	}
	return nil
}

// Resolve looks the value up across all users.
func (s *TokenStore) Resolve(ctx context.Context, q pg.Querier, value string) (Token, error) {
	t, err := s.repo.First(ctx, q, pg.QueryOptions{Where: pg.Eq("token", value)})
	if err != nil {
		if pg.IsNotFoundError(err) {
			return Token{}, ErrTokenNotFound
		}
		return Token{}, fmt.Errorf("resolve token: %w", err)
	}
	return t, nil
}

// Consume deletes the token. Consuming a value twice yields ErrTokenNotFound.
func (s *TokenStore) Consume(ctx context.Context, q pg.Querier, t Token) error {
	n, err := s.repo.Delete(ctx, q, pg.Eq("id", t.ID))
	if err != nil {
		return fmt.Errorf("consume token: %w", err)
	}
	if n == 0 {
		return ErrTokenNotFound
	}
	return nil
}
