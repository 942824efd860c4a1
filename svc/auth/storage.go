package auth

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/dmitrymomot/soda/pkg/pg"
)

// UserStorage persists users. Lookups return pg.ErrNotFound when nothing matches.
type UserStorage interface {
	Create(ctx context.Context, q pg.Querier, u User) (User, error)
	ByID(ctx context.Context, q pg.Querier, id uuid.UUID) (User, error)
	ByEmail(ctx context.Context, q pg.Querier, email string) (User, error)
	Save(ctx context.Context, q pg.Querier, u User) (User, error)
}

// PasswordStorage persists password hashes.
type PasswordStorage interface {
	Create(ctx context.Context, q pg.Querier, userID uuid.UUID, hash string) (Password, error)
	ByUser(ctx context.Context, q pg.Querier, userID uuid.UUID) (Password, error)
	DeleteByUser(ctx context.Context, q pg.Querier, userID uuid.UUID) error
}

// TokenStorage persists action tokens. Resolve returns ErrTokenNotFound for
// unknown or consumed values.
type TokenStorage interface {
	Issue(ctx context.Context, q pg.Querier, userID uuid.UUID, typ TokenType, payload json.RawMessage) (Token, error)
	Supersede(ctx context.Context, q pg.Querier, userID uuid.UUID, typ TokenType) error
	Resolve(ctx context.Context, q pg.Querier, value string) (Token, error)
	Consume(ctx context.Context, q pg.Querier, t Token) error
}

// SessionStorage persists sessions. Resolve returns ErrSessionNotFound for
// unknown or revoked values.
type SessionStorage interface {
	Create(ctx context.Context, q pg.Querier, userID uuid.UUID) (Session, error)
	Resolve(ctx context.Context, q pg.Querier, value string) (Session, error)
	Revoke(ctx context.Context, q pg.Querier, s Session) error
}

// Stores groups the persistence collaborators of the service.
type Stores struct {
	Users     UserStorage
	Passwords PasswordStorage
	Tokens    TokenStorage
	Sessions  SessionStorage
}

// NewPGStores returns the PostgreSQL implementations.
func NewPGStores() Stores {
	return Stores{
		Users:     NewUserStore(),
		Passwords: NewPasswordStore(),
		Tokens:    NewTokenStore(),
		Sessions:  NewSessionStore(),
	}
}
