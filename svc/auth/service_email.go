package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrymomot/soda/pkg/email/templates"
	"github.com/dmitrymomot/soda/pkg/logger"
	"github.com/dmitrymomot/soda/pkg/pg"
	"github.com/dmitrymomot/soda/pkg/sanitizer"
	"github.com/dmitrymomot/soda/pkg/validator"
)

const (
	mailConfirmation  = "confirmation"
	mailChangeEmail   = "change_email"
	mailResetPassword = "reset_password"

	confirmEmailPath = "/api/auth/confirm-email"
	changeEmailPath  = "/api/auth/change-email-address"
)

// SignUp registers an unconfirmed platform user and mails the confirmation
// link. No session is created.
func (s *Service) SignUp(ctx context.Context, in NewUser) (User, error) {
	in.FirstName = sanitizer.Name(sanitizer.StripHTML(in.FirstName))
	in.LastName = sanitizer.Name(sanitizer.StripHTML(in.LastName))
	in.Email = sanitizer.Email(in.Email)
	if err := validate(
		nameRules("firstName", in.FirstName),
		nameRules("lastName", in.LastName),
		emailRules("email", in.Email),
		[]validator.Rule{passwordRule("password", in.Password)},
	); err != nil {
		return User{}, err
	}

	var user User
	err := s.tx.InTx(ctx, func(ctx context.Context, q pg.Querier) error {
		_, err := s.users.ByEmail(ctx, q, in.Email)
		switch {
		case err == nil:
			return ErrUserAlreadyExists
		case !pg.IsNotFoundError(err):
			return fmt.Errorf("find user: %w", err)
		}

		user, err = s.users.Create(ctx, q, User{
			FirstName: in.FirstName,
			LastName:  in.LastName,
			Email:     in.Email,
			Type:      UserTypePlatform,
		})
		if err != nil {
			return err
		}

		hash, err := s.hasher.Hash(ctx, in.Password)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		if _, err := s.passwords.Create(ctx, q, user.ID, hash); err != nil {
			return err
		}

		t, err := s.tokens.Issue(ctx, q, user.ID, TokenEmailConfirmation, nil)
		if err != nil {
			return err
		}
		return s.send(ctx, user.Email, mailConfirmation,
			templates.Confirmation(s.serverLink(confirmEmailPath, t.Value)))
	})
	if err != nil {
		return User{}, err
	}

	s.metrics.RecordSignUp()
	s.logger.InfoContext(ctx, "user signed up", logger.UserID(user.ID))
	return user, nil
}

// RequestEmailConfirmation replaces any pending confirmation token and
// mails a new link. Unknown addresses fail with ErrUserNotFound.
func (s *Service) RequestEmailConfirmation(ctx context.Context, addr string) error {
	addr = sanitizer.Email(addr)
	if err := validate(emailRules("email", addr)); err != nil {
		return err
	}

	return s.tx.InTx(ctx, func(ctx context.Context, q pg.Querier) error {
		user, err := s.userByEmail(ctx, q, addr)
		if err != nil {
			return err
		}
		if err := s.tokens.Supersede(ctx, q, user.ID, TokenEmailConfirmation); err != nil {
			return err
		}
		t, err := s.tokens.Issue(ctx, q, user.ID, TokenEmailConfirmation, nil)
		if err != nil {
			return err
		}
		return s.send(ctx, user.Email, mailConfirmation,
			templates.Confirmation(s.serverLink(confirmEmailPath, t.Value)))
	})
}

// ConfirmEmail stamps the owner as confirmed and consumes the token.
func (s *Service) ConfirmEmail(ctx context.Context, value string) error {
	return s.tx.InTx(ctx, func(ctx context.Context, q pg.Querier) error {
		t, err := s.resolveToken(ctx, q, value, TokenEmailConfirmation)
		if err != nil {
			return err
		}
		user, err := s.owner(ctx, q, t.UserID)
		if err != nil {
			return err
		}

		now := s.now()
		user.EmailConfirmedAt = &now
		if err := s.consumeToken(ctx, q, t); err != nil {
			return err
		}
		if _, err := s.users.Save(ctx, q, user); err != nil {
			return err
		}

		s.logger.InfoContext(ctx, "email confirmed", logger.UserID(user.ID))
		return nil
	})
}

// RequestChangeEmailAddress checks the password and mails a link to the new
// address. The pending address travels in the token payload.
func (s *Service) RequestChangeEmailAddress(ctx context.Context, user User, newEmail, plaintext string) error {
	newEmail = sanitizer.Email(newEmail)
	if err := validate(
		emailRules("email", newEmail),
		[]validator.Rule{validator.Required("password", plaintext)},
	); err != nil {
		return err
	}

	return s.tx.InTx(ctx, func(ctx context.Context, q pg.Querier) error {
		p, err := s.passwords.ByUser(ctx, q, user.ID)
		if err != nil {
			if pg.IsNotFoundError(err) {
				return ErrPasswordNotFound
			}
			return fmt.Errorf("find password: %w", err)
		}
		if !s.hasher.Verify(ctx, plaintext, p.Hash) {
			return ErrIncorrectPassword.WithMessage("incorrect password")
		}

		taken, err := s.users.ByEmail(ctx, q, newEmail)
		switch {
		case err == nil && taken.ID != user.ID:
			return ErrEmailTaken
		case err != nil && !pg.IsNotFoundError(err):
			return fmt.Errorf("find user: %w", err)
		}

		payload, err := json.Marshal(ChangeEmailPayload{Email: newEmail})
		if err != nil {
			return fmt.Errorf("encode payload: %w", err)
		}
		t, err := s.tokens.Issue(ctx, q, user.ID, TokenChangeEmail, payload)
		if err != nil {
			return err
		}
		return s.send(ctx, newEmail, mailChangeEmail,
			templates.ChangeEmail(s.serverLink(changeEmailPath, t.Value)))
	})
}

// ChangeEmailAddress moves the owner to the address carried by the token
// and consumes it.
func (s *Service) ChangeEmailAddress(ctx context.Context, value string) (User, error) {
	var user User
	err := s.tx.InTx(ctx, func(ctx context.Context, q pg.Querier) error {
		t, err := s.resolveToken(ctx, q, value, TokenChangeEmail)
		if err != nil {
			return err
		}

		var payload ChangeEmailPayload
		if err := json.Unmarshal(t.Payload, &payload); err != nil || payload.Email == "" {
			return ErrInvalidToken
		}

		user, err = s.owner(ctx, q, t.UserID)
		if err != nil {
			return err
		}

		taken, err := s.users.ByEmail(ctx, q, payload.Email)
		switch {
		case err == nil && taken.ID != user.ID:
			return ErrEmailTaken
		case err != nil && !pg.IsNotFoundError(err):
			return fmt.Errorf("find user: %w", err)
		}

		user.Email = payload.Email
		if err := s.consumeToken(ctx, q, t); err != nil {
			return err
		}
		user, err = s.users.Save(ctx, q, user)
		if err != nil {
			if errors.Is(err, ErrEmailTaken) {
				return err
			}
			return fmt.Errorf("save user: %w", err)
		}
		return nil
	})
	if err != nil {
		return User{}, err
	}
	s.logger.InfoContext(ctx, "email address changed", logger.UserID(user.ID))
	return user, nil
}
