package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrymomot/soda/pkg/pg"
	"github.com/dmitrymomot/soda/pkg/token"
)

// SecretStore keeps client secrets in the app_secrets table.
type SecretStore struct {
	repo     pg.Repository[Secret]
	generate func() (string, error)
}

var _ SecretStorage = (*SecretStore)(nil)

// NewSecretStore returns a store over the app_secrets table.
func NewSecretStore() *SecretStore {
	return &SecretStore{
		repo:     pg.NewRepository[Secret]("app_secrets"),
		generate: token.Generate,
	}
}

// Create issues a fresh random secret.
func (s *SecretStore) Create(ctx context.Context, q pg.Querier, appID uuid.UUID) (Secret, error) {
	value, err := s.generate()
	if err != nil {
		return Secret{}, fmt.Errorf("generate secret: %w", err)
	}
	sec, err := s.repo.InsertOne(ctx, q, pg.Values{"secret": value, "app_id": appID})
	if err != nil {
		return Secret{}, fmt.Errorf("create secret: %w", err)
	}
	return sec, nil
}

// DeleteByApp removes every secret of the app.
func (s *SecretStore) DeleteByApp(ctx context.Context, q pg.Querier, appID uuid.UUID) error {
	if _, err := s.repo.Delete(ctx, q, pg.Eq("app_id", appID)); err != nil {
		return fmt.Errorf("delete secrets: %w", err)
	}
	return nil
}

// ByApps returns the secrets of the given apps.
func (s *SecretStore) ByApps(ctx context.Context, q pg.Querier, appIDs []uuid.UUID) ([]Secret, error) {
	if len(appIDs) == 0 {
		return nil, nil
	}
	return s.repo.Find(ctx, q, pg.QueryOptions{Where: pg.In("app_id", appIDs)})
}
