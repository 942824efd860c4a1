package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrymomot/soda/pkg/pg"
)

// RedirectURLStore keeps allowlists in the app_redirect_urls table.
type RedirectURLStore struct {
	repo pg.Repository[RedirectURL]
}

var _ RedirectURLStorage = (*RedirectURLStore)(nil)

// NewRedirectURLStore returns a store over the app_redirect_urls table.
func NewRedirectURLStore() *RedirectURLStore {
	return &RedirectURLStore{repo: pg.NewRepository[RedirectURL]("app_redirect_urls")}
}

// Create inserts urls for the app in one statement.
func (s *RedirectURLStore) Create(ctx context.Context, q pg.Querier, appID uuid.UUID, urls []string) ([]RedirectURL, error) {
	if len(urls) == 0 {
		return nil, nil
	}
	rows := make([]pg.Values, len(urls))
	for i, u := range urls {
		rows[i] = pg.Values{"url": u, "app_id": appID}
	}
	created, err := s.repo.Insert(ctx, q, rows...)
	if err != nil {
		return nil, fmt.Errorf("create redirect urls: %w", err)
	}
	return created, nil
}

// Delete removes the given allowlist entries.
func (s *RedirectURLStore) Delete(ctx context.Context, q pg.Querier, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := s.repo.Delete(ctx, q, pg.IDs(ids...)); err != nil {
		return fmt.Errorf("delete redirect urls: %w", err)
	}
	return nil
}

// ByApps returns the allowlists of appIDs in insertion order.
func (s *RedirectURLStore) ByApps(ctx context.Context, q pg.Querier, appIDs []uuid.UUID) ([]RedirectURL, error) {
	if len(appIDs) == 0 {
		return nil, nil
	}
	return s.repo.Find(ctx, q, pg.QueryOptions{
		Where:   pg.In("app_id", appIDs),
		OrderBy: []pg.Order{pg.Asc("created_at"), pg.Asc("url")},
	})
}

// Find looks up one allowlisted URL of the app.
func (s *RedirectURLStore) Find(ctx context.Context, q pg.Querier, appID uuid.UUID, url string) (RedirectURL, error) {
	return s.repo.First(ctx, q, pg.QueryOptions{
		Where: pg.And(pg.Eq("app_id", appID), pg.Eq("url", url)),
	})
}
