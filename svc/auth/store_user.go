package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrymomot/soda/pkg/pg"
)

// UserStore keeps users in the users table.
type UserStore struct {
	repo pg.Repository[User]
}

var _ UserStorage = (*UserStore)(nil)

// NewUserStore returns a store over the users table.
func NewUserStore() *UserStore {
	return &UserStore{repo: pg.NewRepository[User]("users")}
}

// Create inserts u. A duplicate address yields ErrUserAlreadyExists.
func (s *UserStore) Create(ctx context.Context, q pg.Querier, u User) (User, error) {
	if u.Type == "" {
		u.Type = UserTypePlatform
	}
	created, err := s.repo.InsertOne(ctx, q, pg.Values{
		"first_name": u.FirstName,
		"last_name":  u.LastName,
		"email":      u.Email,
		"type":       string(u.Type),
	})
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return User{}, ErrUserAlreadyExists
		}
		return User{}, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

// ByID finds a user by primary key.
func (s *UserStore) ByID(ctx context.Context, q pg.Querier, id uuid.UUID) (User, error) {
	return s.repo.First(ctx, q, pg.QueryOptions{Where: pg.Eq("id", id)})
}

// ByEmail finds a user by normalized address.
func (s *UserStore) ByEmail(ctx context.Context, q pg.Querier, email string) (User, error) {
	return s.repo.First(ctx, q, pg.QueryOptions{Where: pg.Eq("email", email)})
}

// Save writes the mutable columns of u.
func (s *UserStore) Save(ctx context.Context, q pg.Querier, u User) (User, error) {
	rows, err := s.repo.Update(ctx, q, pg.Eq("id", u.ID), pg.Values{
		"first_name":         u.FirstName,
		"last_name":          u.LastName,
		"avatar":             u.Avatar,
		"email":              u.Email,
		"email_confirmed_at": u.EmailConfirmedAt,
	})
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return User{}, ErrEmailTaken
		}
		return User{}, fmt.Errorf("save user: %w", err)
	}
	if len(rows) == 0 {
		return User{}, pg.ErrNotFound
	}
	return rows[0], nil
}
