//go:build integration

package app_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/soda/internal/pgtest"
	"github.com/dmitrymomot/soda/pkg/pg"
	"github.com/dmitrymomot/soda/svc/app"
	"github.com/dmitrymomot/soda/svc/auth"
)

func TestPGService(t *testing.T) {
	pool := pgtest.Pool(t)
	ctx := context.Background()

	users := auth.NewUserStore()
	owner, err := users.Create(ctx, pool, auth.User{FirstName: "A", LastName: "B", Email: "owner@x.com"})
	require.NoError(t, err)
	other, err := users.Create(ctx, pool, auth.User{FirstName: "C", LastName: "D", Email: "other@x.com"})
	require.NoError(t, err)

	svc := app.NewService(pg.NewTransactor(pool))

	for i := range 9 {
		_, err := svc.Create(ctx, owner.ID, app.Input{Title: fmt.Sprintf("App %d", i), Description: "100% useful"})
		require.NoError(t, err)
	}
	created, err := svc.Create(ctx, owner.ID, app.Input{Title: "Latest"})
	require.NoError(t, err)

	t.Run("listing", func(t *testing.T) {
		l, err := svc.Get(ctx, owner.ID, app.Query{Page: 1}, true)
		require.NoError(t, err)
		assert.Len(t, l.Apps, app.PageSize)
		assert.Equal(t, "Latest", l.Apps[0].App.Title)
		assert.Equal(t, 2, l.LastPage())
		assert.NotEmpty(t, l.Apps[0].Secret.Value)
	})

	t.Run("like wildcards are literal", func(t *testing.T) {
		l, err := svc.Get(ctx, owner.ID, app.Query{Text: "100%"}, true)
		require.NoError(t, err)
		assert.EqualValues(t, 9, *l.Count)

		l, err = svc.Get(ctx, owner.ID, app.Query{Text: "_"}, true)
		require.NoError(t, err)
		assert.EqualValues(t, 0, *l.Count)
	})

	t.Run("redirect reconciliation", func(t *testing.T) {
		require.NoError(t, svc.SetRedirectURLs(ctx, created.ID, []string{"https://a.test/cb", "https://b.test/cb"}))
		require.NoError(t, svc.SetRedirectURLs(ctx, created.ID, []string{"https://b.test/cb", "https://c.test/cb"}))

		urls, err := svc.GetRedirectURLs(ctx, created.ID)
		require.NoError(t, err)
		got := make([]string, len(urls))
		for i, u := range urls {
			got[i] = u.URL
		}
		assert.ElementsMatch(t, []string{"https://b.test/cb", "https://c.test/cb"}, got)
	})

	t.Run("secret rotation", func(t *testing.T) {
		before, err := svc.Get(ctx, owner.ID, app.Query{Text: "Latest"}, false)
		require.NoError(t, err)
		sec, err := svc.RegenerateSecret(ctx, created.ID)
		require.NoError(t, err)
		assert.NotEqual(t, before.Apps[0].Secret.Value, sec.Value)

		var n int
		require.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM app_secrets WHERE app_id = $1`, created.ID).Scan(&n))
		assert.Equal(t, 1, n)
	})

	t.Run("update stamps updated_at", func(t *testing.T) {
		assert.Nil(t, created.UpdatedAt)
		updated, err := svc.Update(ctx, created.ID, owner.ID, app.Input{Title: "Latest", Description: "edited"})
		require.NoError(t, err)
		require.NotNil(t, updated.UpdatedAt)
		assert.False(t, updated.UpdatedAt.Before(created.CreatedAt))

		l, err := svc.Get(ctx, owner.ID, app.Query{Text: "Latest"}, false)
		require.NoError(t, err)
		require.NotEmpty(t, l.Apps)
		assert.Nil(t, l.Apps[0].Secret.UpdatedAt)
	})

	t.Run("ownership", func(t *testing.T) {
		_, err := svc.Update(ctx, created.ID, other.ID, app.Input{Title: "x"})
		assert.ErrorIs(t, err, app.ErrAppNotFound)
		assert.ErrorIs(t, svc.Remove(ctx, created.ID, other.ID), app.ErrAppNotBelongToUser)
		require.NoError(t, svc.Remove(ctx, created.ID, owner.ID))

		var n int
		require.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM app_redirect_urls WHERE app_id = $1`, created.ID).Scan(&n))
		assert.Zero(t, n)
	})
}
