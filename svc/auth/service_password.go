package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrymomot/soda/pkg/email/templates"
	"github.com/dmitrymomot/soda/pkg/logger"
	"github.com/dmitrymomot/soda/pkg/pg"
	"github.com/dmitrymomot/soda/pkg/sanitizer"
	"github.com/dmitrymomot/soda/pkg/validator"
)

const resetPasswordPath = "/reset-password"

// ForgotPassword mails a reset link pointing at the client application.
// Unknown addresses fail with ErrUserNotFound.
func (s *Service) ForgotPassword(ctx context.Context, addr string) error {
	addr = sanitizer.Email(addr)
	if err := validate(emailRules("email", addr)); err != nil {
		return err
	}

	return s.tx.InTx(ctx, func(ctx context.Context, q pg.Querier) error {
		user, err := s.userByEmail(ctx, q, addr)
		if err != nil {
			return err
		}
		t, err := s.tokens.Issue(ctx, q, user.ID, TokenResetPassword, nil)
		if err != nil {
			return err
		}
		return s.send(ctx, user.Email, mailResetPassword,
			templates.ResetPassword(s.clientLink(resetPasswordPath, t.Value)))
	})
}

// ResetPassword replaces every stored password of the token owner and
// consumes the token.
func (s *Service) ResetPassword(ctx context.Context, value, newPassword string) error {
	if err := validator.Apply(
		validator.Required("token", value),
		passwordRule("password", newPassword),
	); err != nil {
		return err
	}

	return s.tx.InTx(ctx, func(ctx context.Context, q pg.Querier) error {
		t, err := s.resolveToken(ctx, q, value, TokenResetPassword)
		if err != nil {
			return err
		}
		user, err := s.owner(ctx, q, t.UserID)
		if err != nil {
			return err
		}

		if err := s.passwords.DeleteByUser(ctx, q, user.ID); err != nil {
			return err
		}
		if err := s.consumeToken(ctx, q, t); err != nil {
			return err
		}
		if err := s.storePassword(ctx, q, user.ID, newPassword); err != nil {
			return err
		}

		s.logger.InfoContext(ctx, "password reset", logger.UserID(user.ID))
		return nil
	})
}

// UpdatePassword replaces the password of a signed-in user after checking
// the current one.
func (s *Service) UpdatePassword(ctx context.Context, userID uuid.UUID, current, newPassword string) error {
	if err := validator.Apply(
		validator.Required("currentPassword", current),
		passwordRule("newPassword", newPassword),
	); err != nil {
		return err
	}

	return s.tx.InTx(ctx, func(ctx context.Context, q pg.Querier) error {
		p, err := s.passwords.ByUser(ctx, q, userID)
		if err != nil {
			if pg.IsNotFoundError(err) {
				return ErrPasswordNotFound
			}
			return fmt.Errorf("find password: %w", err)
		}
		if !s.hasher.Verify(ctx, current, p.Hash) {
			return ErrPasswordIncorrect
		}

		if err := s.passwords.DeleteByUser(ctx, q, userID); err != nil {
			return err
		}
		return s.storePassword(ctx, q, userID, newPassword)
	})
}

func (s *Service) storePassword(ctx context.Context, q pg.Querier, userID uuid.UUID, plaintext string) error {
	hash, err := s.hasher.Hash(ctx, plaintext)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	_, err = s.passwords.Create(ctx, q, userID, hash)
	return err
}
