package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrymomot/soda/pkg/file"
	"github.com/dmitrymomot/soda/pkg/logger"
	"github.com/dmitrymomot/soda/pkg/pg"
	"github.com/dmitrymomot/soda/pkg/sanitizer"
	"github.com/dmitrymomot/soda/pkg/validator"
)

// Profile returns the current state of the user.
func (s *Service) Profile(ctx context.Context, userID uuid.UUID) (User, error) {
	var user User
	err := s.tx.InTx(ctx, func(ctx context.Context, q pg.Querier) error {
		u, err := s.users.ByID(ctx, q, userID)
		if err != nil {
			if pg.IsNotFoundError(err) {
				return ErrUserNotFound
			}
			return fmt.Errorf("load user: %w", err)
		}
		user = u
		return nil
	})
	return user, err
}

// UpdateProfile renames the user and, when an avatar is supplied, uploads it
// and stores the returned key. The upload is removed again if the user row
// cannot be saved.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, in ProfileUpdate) (User, error) {
	in.FirstName = sanitizer.Name(sanitizer.StripHTML(in.FirstName))
	in.LastName = sanitizer.Name(sanitizer.StripHTML(in.LastName))
	rules := append(nameRules("firstName", in.FirstName), nameRules("lastName", in.LastName)...)
	if in.Avatar != nil {
		rules = append(rules,
			validator.MaxBytes("avatar", in.Avatar.Size, file.MaxAvatarSize),
			validator.HasPrefix("avatar", in.Avatar.ContentType, "image/"),
		)
	}
	if err := validator.Apply(rules...); err != nil {
		return User{}, err
	}

	var key string
	if in.Avatar != nil {
		k, err := s.files.Upload(ctx, *in.Avatar)
		if err != nil {
			return User{}, fmt.Errorf("upload avatar: %w", err)
		}
		key = k
	}

	var user User
	err := s.tx.InTx(ctx, func(ctx context.Context, q pg.Querier) error {
		u, err := s.users.ByID(ctx, q, userID)
		if err != nil {
			if pg.IsNotFoundError(err) {
				return ErrUserNotFound
			}
			return fmt.Errorf("load user: %w", err)
		}
		u.FirstName = in.FirstName
		u.LastName = in.LastName
		if key != "" {
			u.Avatar = &key
		}
		user, err = s.users.Save(ctx, q, u)
		return err
	})
	if err != nil {
		if key != "" {
			if derr := s.files.Delete(context.WithoutCancel(ctx), key); derr != nil {
				s.logger.WarnContext(ctx, "failed to remove orphaned avatar",
					logger.UserID(userID),
					logger.Error(derr),
				)
			}
		}
		return User{}, err
	}
	return user, nil
}
