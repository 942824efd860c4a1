package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrymomot/soda/pkg/logger"
	"github.com/dmitrymomot/soda/pkg/metrics"
	"github.com/dmitrymomot/soda/pkg/pg"
	"github.com/dmitrymomot/soda/pkg/sanitizer"
	"github.com/dmitrymomot/soda/pkg/validator"
)

// SignIn checks the credentials of a confirmed user and opens a session.
// The caller hands the session value to its transport.
func (s *Service) SignIn(ctx context.Context, addr, plaintext string) (Session, error) {
	addr = sanitizer.Email(addr)
	if err := validator.Apply(
		validator.Required("email", addr),
		validator.Required("password", plaintext),
	); err != nil {
		return Session{}, err
	}

	var sess Session
	outcome := metrics.OutcomeSuccess
	err := s.tx.InTx(ctx, func(ctx context.Context, q pg.Querier) error {
		user, err := s.userByEmail(ctx, q, addr)
		if err != nil {
			if errors.Is(err, ErrUserNotFound) {
				outcome = metrics.OutcomeUnknownUser
			}
			return err
		}
		if !user.Confirmed() {
			outcome = metrics.OutcomeUnconfirmed
			return ErrUnconfirmedEmail
		}

		p, err := s.passwords.ByUser(ctx, q, user.ID)
		if err != nil {
			if pg.IsNotFoundError(err) {
				outcome = metrics.OutcomeBadPassword
				return ErrPasswordNotFound
			}
			return fmt.Errorf("find password: %w", err)
		}
		if !s.hasher.Verify(ctx, plaintext, p.Hash) {
			outcome = metrics.OutcomeBadPassword
			return ErrIncorrectPassword
		}

		sess, err = s.sessions.Create(ctx, q, user.ID)
		return err
	})
	if err != nil {
		if outcome != metrics.OutcomeSuccess {
			s.metrics.RecordSignIn(outcome)
		}
		return Session{}, err
	}

	s.metrics.RecordSignIn(metrics.OutcomeSuccess)
	s.logger.InfoContext(ctx, "user signed in", logger.UserID(sess.UserID))
	return sess, nil
}

// GetAuthUser resolves a raw session value to its session and owner.
func (s *Service) GetAuthUser(ctx context.Context, value string) (Auth, error) {
	if value == "" {
		return Auth{}, ErrUnauthenticated
	}

	var a Auth
	err := s.tx.InTx(ctx, func(ctx context.Context, q pg.Querier) error {
		sess, err := s.sessions.Resolve(ctx, q, value)
		if err != nil {
			if errors.Is(err, ErrSessionNotFound) {
				return ErrUnauthenticated
			}
			return err
		}
		user, err := s.owner(ctx, q, sess.UserID)
		if err != nil {
			return err
		}
		a = Auth{User: user, Session: sess}
		return nil
	})
	if err != nil {
		return Auth{}, err
	}
	return a, nil
}

// SignOut revokes the session.
func (s *Service) SignOut(ctx context.Context, sess Session) error {
	err := s.tx.InTx(ctx, func(ctx context.Context, q pg.Querier) error {
		return s.sessions.Revoke(ctx, q, sess)
	})
	if err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "user signed out", logger.UserID(sess.UserID))
	return nil
}
