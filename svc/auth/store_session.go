package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrymomot/soda/pkg/pg"
	"github.com/dmitrymomot/soda/pkg/token"
)

// SessionStore keeps sessions in the sessions table. Rows live until revoked.
type SessionStore struct {
	repo     pg.Repository[Session]
	generate func() (string, error)
}

var _ SessionStorage = (*SessionStore)(nil)

// NewSessionStore returns a store over the sessions table.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		repo:     pg.NewRepository[Session]("sessions"),
		generate: token.Generate,
	}
}

// Create opens a session with a fresh random value.
func (s *SessionStore) Create(ctx context.Context, q pg.Querier, userID uuid.UUID) (Session, error) {
	value, err := s.generate()
	if err != nil {
		return Session{}, fmt.Errorf("generate session: %w", err)
	}
	sess, err := s.repo.InsertOne(ctx, q, pg.Values{"session": value, "user_id": userID})
	if err != nil {
		return Session{}, fmt.Errorf("create session: %w", err)
	}
	return sess, nil
}

// Resolve finds a session by value, or ErrSessionNotFound.
func (s *SessionStore) Resolve(ctx context.Context, q pg.Querier, value string) (Session, error) {
	sess, err := s.repo.First(ctx, q, pg.QueryOptions{Where: pg.Eq("session", value)})
	if err != nil {
		if pg.IsNotFoundError(err) {
			return Session{}, ErrSessionNotFound
		}
		return Session{}, fmt.Errorf("resolve session: %w", err)
	}
	return sess, nil
}

// Revoke deletes the session.
func (s *SessionStore) Revoke(ctx context.Context, q pg.Querier, sess Session) error {
	if _, err := s.repo.Delete(ctx, q, pg.Eq("id", sess.ID)); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}
