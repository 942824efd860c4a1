package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dmitrymomot/soda/pkg/logger"
	"github.com/dmitrymomot/soda/pkg/metrics"
	"github.com/dmitrymomot/soda/pkg/pg"
	"github.com/dmitrymomot/soda/pkg/sanitizer"
	"github.com/dmitrymomot/soda/pkg/validator"
)

const (
	maxTitleLen       = 255
	maxDescriptionLen = 1000
)

// Service manages apps with their secret and redirect allowlist. Each
// operation runs in one transaction.
type Service struct {
	tx        pg.Transactor
	apps      AppStorage
	secrets   SecretStorage
	redirects RedirectURLStorage
	metrics   metrics.Recorder
	logger    *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithStorage replaces the PostgreSQL stores. Nil members keep the default.
func WithStorage(st Stores) Option {
	return func(s *Service) {
		if st.Apps != nil {
			s.apps = st.Apps
		}
		if st.Secrets != nil {
			s.secrets = st.Secrets
		}
		if st.RedirectURLs != nil {
			s.redirects = st.RedirectURLs
		}
	}
}

// WithMetrics records secret rotations on r.
func WithMetrics(r metrics.Recorder) Option {
	return func(s *Service) {
		s.metrics = r
	}
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// NewService builds the app service over tx, backed by the Postgres
// stores unless WithStorage replaces them.
func NewService(tx pg.Transactor, opts ...Option) *Service {
	st := NewPGStores()
	s := &Service{
		tx:        tx,
		apps:      st.Apps,
		secrets:   st.Secrets,
		redirects: st.RedirectURLs,
		metrics:   metrics.Nop{},
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(logger.Component("app"))
	return s
}

func cleanInput(in Input) (Input, error) {
	in.Title = sanitizer.Text(sanitizer.StripHTML(in.Title))
	in.Description = sanitizer.Text(sanitizer.StripHTML(in.Description))
	err := validator.Apply(
		validator.Required("title", in.Title),
		validator.MaxLen("title", in.Title, maxTitleLen),
		validator.MaxLen("description", in.Description, maxDescriptionLen),
	)
	return in, err
}

func (s *Service) load(ctx context.Context, q pg.Querier, id uuid.UUID) (App, error) {
	a, err := s.apps.ByID(ctx, q, id)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return App{}, ErrAppNotFound
		}
		return App{}, fmt.Errorf("load app: %w", err)
	}
	return a, nil
}

// Create registers an app for userID together with its secret.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, in Input) (App, error) {
	in, err := cleanInput(in)
	if err != nil {
		return App{}, err
	}

	var created App
	err = s.tx.InTx(ctx, func(ctx context.Context, q pg.Querier) error {
		a, err := s.apps.Create(ctx, q, userID, in)
		if err != nil {
			return err
		}
		if _, err := s.secrets.Create(ctx, q, a.ID); err != nil {
			return err
		}
		created = a
		return nil
	})
	if err != nil {
		return App{}, err
	}

	s.logger.InfoContext(ctx, "app created", logger.AppID(created.ID), logger.UserID(userID))
	return created, nil
}

// Update edits an app owned by userID. Apps of other users are reported as
// not found.
func (s *Service) Update(ctx context.Context, appID, userID uuid.UUID, in Input) (App, error) {
	in, err := cleanInput(in)
	if err != nil {
		return App{}, err
	}

	var updated App
	err = s.tx.InTx(ctx, func(ctx context.Context, q pg.Querier) error {
		a, err := s.apps.ByOwner(ctx, q, appID, userID)
		if err != nil {
			if pg.IsNotFoundError(err) {
				return ErrAppNotFound
			}
			return fmt.Errorf("load app: %w", err)
		}
		a.Title = in.Title
		a.Description = nullable(in.Description)
		updated, err = s.apps.Save(ctx, q, a)
		return err
	})
	return updated, err
}

// Remove deletes an app. Unlike Update, a foreign app yields
// ErrAppNotBelongToUser.
func (s *Service) Remove(ctx context.Context, appID, userID uuid.UUID) error {
	err := s.tx.InTx(ctx, func(ctx context.Context, q pg.Querier) error {
		a, err := s.load(ctx, q, appID)
		if err != nil {
			return err
		}
		if a.UserID != userID {
			return ErrAppNotBelongToUser
		}
		return s.apps.Delete(ctx, q, a.ID)
	})
	if err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "app removed", logger.AppID(appID), logger.UserID(userID))
	return nil
}

// RegenerateSecret swaps the app secret for a new one.
func (s *Service) RegenerateSecret(ctx context.Context, appID uuid.UUID) (Secret, error) {
	var sec Secret
	err := s.tx.InTx(ctx, func(ctx context.Context, q pg.Querier) error {
		a, err := s.load(ctx, q, appID)
		if err != nil {
			return err
		}
		if err := s.secrets.DeleteByApp(ctx, q, a.ID); err != nil {
			return err
		}
		sec, err = s.secrets.Create(ctx, q, a.ID)
		return err
	})
	if err != nil {
		return Secret{}, err
	}
	s.metrics.RecordSecretRotated()
	s.logger.InfoContext(ctx, "app secret rotated", logger.AppID(appID))
	return sec, nil
}

// SetRedirectURLs replaces the allowlist with urls. Entries already present
// are kept as they are.
func (s *Service) SetRedirectURLs(ctx context.Context, appID uuid.UUID, urls []string) error {
	urls = sanitizer.Strings(urls)
	if err := validator.Apply(
		validator.Each("urls", urls, func(field, v string) validator.Rule {
			return validator.ValidURL(field, v, "http", "https")
		}),
	); err != nil {
		return err
	}

	return s.tx.InTx(ctx, func(ctx context.Context, q pg.Querier) error {
		a, err := s.load(ctx, q, appID)
		if err != nil {
			return err
		}
		existing, err := s.redirects.ByApps(ctx, q, []uuid.UUID{a.ID})
		if err != nil {
			return err
		}

		toCreate, toDelete := reconcile(existing, urls)
		if err := s.redirects.Delete(ctx, q, toDelete); err != nil {
			return err
		}
		_, err = s.redirects.Create(ctx, q, a.ID, toCreate)
		return err
	})
}

// reconcile computes desired minus existing and the ids of existing minus desired.
func reconcile(existing []RedirectURL, desired []string) (toCreate []string, toDelete []uuid.UUID) {
	want := make(map[string]struct{}, len(desired))
	for _, u := range desired {
		want[u] = struct{}{}
	}
	have := make(map[string]struct{}, len(existing))
	for _, r := range existing {
		have[r.URL] = struct{}{}
		if _, ok := want[r.URL]; !ok {
			toDelete = append(toDelete, r.ID)
		}
	}
	for _, u := range desired {
		if _, ok := have[u]; !ok {
			toCreate = append(toCreate, u)
			have[u] = struct{}{}
		}
	}
	return toCreate, toDelete
}

// GetRedirectURLs returns the allowlist of the app.
func (s *Service) GetRedirectURLs(ctx context.Context, appID uuid.UUID) ([]RedirectURL, error) {
	var urls []RedirectURL
	err := s.tx.InTx(ctx, func(ctx context.Context, q pg.Querier) error {
		a, err := s.load(ctx, q, appID)
		if err != nil {
			return err
		}
		urls, err = s.redirects.ByApps(ctx, q, []uuid.UUID{a.ID})
		return err
	})
	if err != nil {
		return nil, err
	}
	if urls == nil {
		urls = []RedirectURL{}
	}
	return urls, nil
}

// Get lists a page of the user's apps, newest first. The total is counted
// only when withCount is set.
func (s *Service) Get(ctx context.Context, userID uuid.UUID, query Query, withCount bool) (Listing, error) {
	query.Text = sanitizer.Text(query.Text)
	query.Page = min(max(query.Page, 1), MaxPage)

	out := Listing{Apps: []Details{}, Limit: PageSize}
	err := s.tx.InTx(ctx, func(ctx context.Context, q pg.Querier) error {
		apps, err := s.apps.List(ctx, q, userID, query.Text, PageSize, (query.Page-1)*PageSize)
		if err != nil {
			return err
		}

		ids := make([]uuid.UUID, len(apps))
		for i, a := range apps {
			ids[i] = a.ID
		}
		secrets, err := s.secrets.ByApps(ctx, q, ids)
		if err != nil {
			return err
		}
		redirects, err := s.redirects.ByApps(ctx, q, ids)
		if err != nil {
			return err
		}

		secretOf := make(map[uuid.UUID]Secret, len(secrets))
		for _, sec := range secrets {
			secretOf[sec.AppID] = sec
		}
		urlsOf := make(map[uuid.UUID][]RedirectURL, len(apps))
		for _, r := range redirects {
			urlsOf[r.AppID] = append(urlsOf[r.AppID], r)
		}
		for _, a := range apps {
			urls := urlsOf[a.ID]
			if urls == nil {
				urls = []RedirectURL{}
			}
			out.Apps = append(out.Apps, Details{App: a, Secret: secretOf[a.ID], RedirectURLs: urls})
		}

		if withCount {
			n, err := s.apps.Count(ctx, q, userID, query.Text)
			if err != nil {
				return err
			}
			out.Count = &n
		}
		return nil
	})
	if err != nil {
		return Listing{}, err
	}
	return out, nil
}

// ValidateRedirect reports ErrRedirectURLNotFound unless url is allowlisted
// for the app.
func (s *Service) ValidateRedirect(ctx context.Context, appID uuid.UUID, url string) (App, error) {
	var a App
	err := s.tx.InTx(ctx, func(ctx context.Context, q pg.Querier) error {
		var err error
		a, err = s.load(ctx, q, appID)
		if err != nil {
			return err
		}
		if _, err := s.redirects.Find(ctx, q, a.ID, url); err != nil {
			if pg.IsNotFoundError(err) {
				return ErrRedirectURLNotFound
			}
			return fmt.Errorf("find redirect url: %w", err)
		}
		return nil
	})
	if err != nil {
		return App{}, err
	}
	return a, nil
}
