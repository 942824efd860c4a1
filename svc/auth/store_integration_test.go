//go:build integration

package auth_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/soda/internal/pgtest"
	"github.com/dmitrymomot/soda/pkg/pg"
	"github.com/dmitrymomot/soda/svc/auth"
)

func TestPGStores(t *testing.T) {
	pool := pgtest.Pool(t)
	ctx := context.Background()
	st := auth.NewPGStores()

	user, err := st.Users.Create(ctx, pool, auth.User{FirstName: "Ada", LastName: "Lovelace", Email: "a@x.com"})
	require.NoError(t, err)
	assert.Equal(t, auth.UserTypePlatform, user.Type)
	assert.Nil(t, user.EmailConfirmedAt)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := st.Users.Create(ctx, pool, auth.User{FirstName: "B", LastName: "C", Email: "a@x.com"})
		assert.ErrorIs(t, err, auth.ErrUserAlreadyExists)
	})

	t.Run("save user", func(t *testing.T) {
		now := time.Now().UTC().Truncate(time.Microsecond)
		avatar := "key.png"
		user.EmailConfirmedAt = &now
		user.Avatar = &avatar
		saved, err := st.Users.Save(ctx, pool, user)
		require.NoError(t, err)
		require.NotNil(t, saved.EmailConfirmedAt)
		assert.True(t, now.Equal(*saved.EmailConfirmedAt))
		assert.Equal(t, "key.png", *saved.Avatar)

		found, err := st.Users.ByEmail(ctx, pool, "a@x.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
	})

	t.Run("token lifecycle", func(t *testing.T) {
		payload, _ := json.Marshal(auth.ChangeEmailPayload{Email: "b@x.com"})
		tok, err := st.Tokens.Issue(ctx, pool, user.ID, auth.TokenChangeEmail, payload)
		require.NoError(t, err)
		assert.NotEmpty(t, tok.Value)

		resolved, err := st.Tokens.Resolve(ctx, pool, tok.Value)
		require.NoError(t, err)
		assert.JSONEq(t, string(payload), string(resolved.Payload))

		require.NoError(t, st.Tokens.Consume(ctx, pool, resolved))
		_, err = st.Tokens.Resolve(ctx, pool, tok.Value)
		assert.ErrorIs(t, err, auth.ErrTokenNotFound)
		assert.ErrorIs(t, st.Tokens.Consume(ctx, pool, resolved), auth.ErrTokenNotFound)
	})

	t.Run("supersede", func(t *testing.T) {
		first, err := st.Tokens.Issue(ctx, pool, user.ID, auth.TokenEmailConfirmation, nil)
		require.NoError(t, err)
		assert.Nil(t, first.Payload)
		require.NoError(t, st.Tokens.Supersede(ctx, pool, user.ID, auth.TokenEmailConfirmation))
		_, err = st.Tokens.Resolve(ctx, pool, first.Value)
		assert.ErrorIs(t, err, auth.ErrTokenNotFound)
	})

	t.Run("sessions", func(t *testing.T) {
		sess, err := st.Sessions.Create(ctx, pool, user.ID)
		require.NoError(t, err)
		got, err := st.Sessions.Resolve(ctx, pool, sess.Value)
		require.NoError(t, err)
		assert.Equal(t, sess.ID, got.ID)
		require.NoError(t, st.Sessions.Revoke(ctx, pool, sess))
		_, err = st.Sessions.Resolve(ctx, pool, sess.Value)
		assert.ErrorIs(t, err, auth.ErrSessionNotFound)
	})

	t.Run("transaction rolls back", func(t *testing.T) {
		tx := pg.NewTransactor(pool)
		err := tx.InTx(ctx, func(ctx context.Context, q pg.Querier) error {
			if _, err := st.Passwords.Create(ctx, q, user.ID, "hash"); err != nil {
				return err
			}
			return assert.AnError
		})
		require.ErrorIs(t, err, assert.AnError)
		_, err = st.Passwords.ByUser(ctx, pool, user.ID)
		assert.True(t, pg.IsNotFoundError(err))
	})
}
