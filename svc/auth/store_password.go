package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrymomot/soda/pkg/pg"
)

// PasswordStore keeps bcrypt hashes in the passwords table.
type PasswordStore struct {
	repo pg.Repository[Password]
}

var _ PasswordStorage = (*PasswordStore)(nil)

// NewPasswordStore returns a store over the passwords table.
func NewPasswordStore() *PasswordStore {
	return &PasswordStore{repo: pg.NewRepository[Password]("passwords")}
}

// Create stores a bcrypt hash for the user.
func (s *PasswordStore) Create(ctx context.Context, q pg.Querier, userID uuid.UUID, hash string) (Password, error) {
	p, err := s.repo.InsertOne(ctx, q, pg.Values{"user_id": userID, "password": hash})
	if err != nil {
		return Password{}, fmt.Errorf("create password: %w", err)
	}
	return p, nil
}

// ByUser returns the user's password hash.
func (s *PasswordStore) ByUser(ctx context.Context, q pg.Querier, userID uuid.UUID) (Password, error) {
	return s.repo.First(ctx, q, pg.QueryOptions{
		Where:   pg.Eq("user_id", userID),
		OrderBy: []pg.Order{pg.Desc("created_at")},
	})
}

// DeleteByUser removes every stored hash of the user.
func (s *PasswordStore) DeleteByUser(ctx context.Context, q pg.Querier, userID uuid.UUID) error {
	if _, err := s.repo.Delete(ctx, q, pg.Eq("user_id", userID)); err != nil {
		return fmt.Errorf("delete passwords: %w", err)
	}
	return nil
}
