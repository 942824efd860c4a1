package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrymomot/soda/pkg/pg"
)

// AppStore keeps apps in the apps table.
type AppStore struct {
	repo pg.Repository[App]
}

var _ AppStorage = (*AppStore)(nil)

// NewAppStore returns a store over the apps table.
func NewAppStore() *AppStore {
	return &AppStore{repo: pg.NewRepository[App]("apps")}
}

// Create inserts an app owned by userID.
func (s *AppStore) Create(ctx context.Context, q pg.Querier, userID uuid.UUID, in Input) (App, error) {
	a, err := s.repo.InsertOne(ctx, q, pg.Values{
		"title":       in.Title,
		"description": nullable(in.Description),
		"user_id":     userID,
	})
	if err != nil {
		return App{}, fmt.Errorf("create app: %w", err)
	}
	return a, nil
}

// ByID finds an app by primary key.
func (s *AppStore) ByID(ctx context.Context, q pg.Querier, id uuid.UUID) (App, error) {
	return s.repo.First(ctx, q, pg.QueryOptions{Where: pg.Eq("id", id)})
}

// ByOwner finds the app only if userID owns it.
func (s *AppStore) ByOwner(ctx context.Context, q pg.Querier, id, userID uuid.UUID) (App, error) {
	return s.repo.First(ctx, q, pg.QueryOptions{
		Where: pg.And(pg.Eq("id", id), pg.Eq("user_id", userID)),
	})
}

// Save writes title and description and stamps updated_at.
func (s *AppStore) Save(ctx context.Context, q pg.Querier, a App) (App, error) {
	rows, err := s.repo.Update(ctx, q, pg.Eq("id", a.ID), pg.Values{
		"title":       a.Title,
		"description": a.Description,
		"updated_at":  pg.Now,
	})
	if err != nil {
		return App{}, fmt.Errorf("save app: %w", err)
	}
	if len(rows) == 0 {
		return App{}, pg.ErrNotFound
	}
	return rows[0], nil
}

// Delete removes the app; secrets and redirect URLs cascade.
func (s *AppStore) Delete(ctx context.Context, q pg.Querier, id uuid.UUID) error {
	if _, err := s.repo.Delete(ctx, q, pg.Eq("id", id)); err != nil {
		return fmt.Errorf("delete app: %w", err)
	}
	return nil
}

// List returns the user's apps newest first.
func (s *AppStore) List(ctx context.Context, q pg.Querier, userID uuid.UUID, text string, limit, offset int) ([]App, error) {
	return s.repo.Find(ctx, q, pg.QueryOptions{
		Where:   ownedMatching(userID, text),
		OrderBy: []pg.Order{pg.Desc("created_at"), pg.Desc("id")},
		Limit:   limit,
		Offset:  offset,
	})
}

// Count returns how many of the user's apps match text.
func (s *AppStore) Count(ctx context.Context, q pg.Querier, userID uuid.UUID, text string) (int64, error) {
	return s.repo.Count(ctx, q, ownedMatching(userID, text))
}

func ownedMatching(userID uuid.UUID, text string) pg.Filter {
	var match pg.Filter
	if text != "" {
		match = pg.ILike(text, "title", "description")
	}
	return pg.And(pg.Eq("user_id", userID), match)
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
