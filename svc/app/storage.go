package app

import (
	"context"

	"github.com/google/uuid"

	"github.com/dmitrymomot/soda/pkg/pg"
)

// AppStorage persists apps. Lookups return pg.ErrNotFound when nothing matches.
type AppStorage interface {
	Create(ctx context.Context, q pg.Querier, userID uuid.UUID, in Input) (App, error)
	ByID(ctx context.Context, q pg.Querier, id uuid.UUID) (App, error)
	ByOwner(ctx context.Context, q pg.Querier, id, userID uuid.UUID) (App, error)
	Save(ctx context.Context, q pg.Querier, a App) (App, error)
	Delete(ctx context.Context, q pg.Querier, id uuid.UUID) error
	List(ctx context.Context, q pg.Querier, userID uuid.UUID, text string, limit, offset int) ([]App, error)
	Count(ctx context.Context, q pg.Querier, userID uuid.UUID, text string) (int64, error)
}

// SecretStorage persists client secrets.
type SecretStorage interface {
	Create(ctx context.Context, q pg.Querier, appID uuid.UUID) (Secret, error)
	DeleteByApp(ctx context.Context, q pg.Querier, appID uuid.UUID) error
	ByApps(ctx context.Context, q pg.Querier, appIDs []uuid.UUID) ([]Secret, error)
}

// RedirectURLStorage persists redirect allowlists.
type RedirectURLStorage interface {
	Create(ctx context.Context, q pg.Querier, appID uuid.UUID, urls []string) ([]RedirectURL, error)
	Delete(ctx context.Context, q pg.Querier, ids []uuid.UUID) error
	ByApps(ctx context.Context, q pg.Querier, appIDs []uuid.UUID) ([]RedirectURL, error)
	Find(ctx context.Context, q pg.Querier, appID uuid.UUID, url string) (RedirectURL, error)
}

// Stores groups the persistence collaborators of the service.
type Stores struct {
	Apps         AppStorage
	Secrets      SecretStorage
	RedirectURLs RedirectURLStorage
}

// NewPGStores returns the PostgreSQL implementations.
func NewPGStores() Stores {
	return Stores{
		Apps:         NewAppStore(),
		Secrets:      NewSecretStore(),
		RedirectURLs: NewRedirectURLStore(),
	}
}
