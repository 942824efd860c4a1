package app_test

import (
	"context"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/soda/pkg/pg"
	"github.com/dmitrymomot/soda/pkg/token"
	"github.com/dmitrymomot/soda/svc/app"
)

// memDB is an in-memory stand-in for the app tables. InTx restores the
// previous state when the unit of work fails.
type memDB struct {
	mu        sync.Mutex
	tick      time.Time
	offset    int
	apps      map[uuid.UUID]app.App
	secrets   map[uuid.UUID]app.Secret
	redirects map[uuid.UUID]app.RedirectURL
}

func newMemDB() *memDB {
	return &memDB{
		tick:      time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		apps:      map[uuid.UUID]app.App{},
		secrets:   map[uuid.UUID]app.Secret{},
		redirects: map[uuid.UUID]app.RedirectURL{},
	}
}

// now advances a fake clock so insertion order is observable.
func (db *memDB) now() time.Time {
	db.tick = db.tick.Add(time.Second)
	return db.tick
}

func (db *memDB) InTx(ctx context.Context, fn pg.TxFunc) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	apps, secrets, redirects := maps.Clone(db.apps), maps.Clone(db.secrets), maps.Clone(db.redirects)
	if err := fn(ctx, nil); err != nil {
		db.apps, db.secrets, db.redirects = apps, secrets, redirects
		return err
	}
	return nil
}

func (db *memDB) stores() app.Stores {
	return app.Stores{Apps: memApps{db}, Secrets: memSecrets{db}, RedirectURLs: memRedirects{db}}
}

func (db *memDB) secretsOf(appID uuid.UUID) []app.Secret {
	var out []app.Secret
	for _, s := range db.secrets {
		if s.AppID == appID {
			out = append(out, s)
		}
	}
	return out
}

func (db *memDB) urlsOf(appID uuid.UUID) []string {
	var out []string
	for _, r := range db.redirects {
		if r.AppID == appID {
			out = append(out, r.URL)
		}
	}
	slices.Sort(out)
	return out
}

type memApps struct{ db *memDB }

func (s memApps) Create(_ context.Context, _ pg.Querier, userID uuid.UUID, in app.Input) (app.App, error) {
	a := app.App{ID: uuid.New(), Title: in.Title, UserID: userID, CreatedAt: s.db.now()}
	if in.Description != "" {
		d := in.Description
		a.Description = &d
	}
	s.db.apps[a.ID] = a
	return a, nil
}

func (s memApps) ByID(_ context.Context, _ pg.Querier, id uuid.UUID) (app.App, error) {
	a, ok := s.db.apps[id]
	if !ok {
		return app.App{}, pg.ErrNotFound
	}
	return a, nil
}

func (s memApps) ByOwner(_ context.Context, _ pg.Querier, id, userID uuid.UUID) (app.App, error) {
	a, ok := s.db.apps[id]
	if !ok || a.UserID != userID {
		return app.App{}, pg.ErrNotFound
	}
	return a, nil
}

func (s memApps) Save(_ context.Context, _ pg.Querier, a app.App) (app.App, error) {
	now := s.db.now()
	a.UpdatedAt = &now
	s.db.apps[a.ID] = a
	return a, nil
}

func (s memApps) Delete(_ context.Context, _ pg.Querier, id uuid.UUID) error {
	delete(s.db.apps, id)
	for sid, sec := range s.db.secrets {
		if sec.AppID == id {
			delete(s.db.secrets, sid)
		}
	}
	for rid, r := range s.db.redirects {
		if r.AppID == id {
			delete(s.db.redirects, rid)
		}
	}
	return nil
}

func (s memApps) matching(userID uuid.UUID, text string) []app.App {
	var out []app.App
	needle := strings.ToLower(text)
	for _, a := range s.db.apps {
		if a.UserID != userID {
			continue
		}
		if needle != "" {
			desc := ""
			if a.Description != nil {
				desc = *a.Description
			}
			if !strings.Contains(strings.ToLower(a.Title), needle) && !strings.Contains(strings.ToLower(desc), needle) {
				continue
			}
		}
		out = append(out, a)
	}
	slices.SortFunc(out, func(x, y app.App) int { return y.CreatedAt.Compare(x.CreatedAt) })
	return out
}

func (s memApps) List(_ context.Context, _ pg.Querier, userID uuid.UUID, text string, limit, offset int) ([]app.App, error) {
	s.db.offset = offset
	all := s.matching(userID, text)
	if offset >= len(all) {
		return nil, nil
	}
	return all[offset:min(offset+limit, len(all))], nil
}

func (s memApps) Count(_ context.Context, _ pg.Querier, userID uuid.UUID, text string) (int64, error) {
	return int64(len(s.matching(userID, text))), nil
}

type memSecrets struct{ db *memDB }

func (s memSecrets) Create(_ context.Context, _ pg.Querier, appID uuid.UUID) (app.Secret, error) {
	sec := app.Secret{ID: uuid.New(), Value: token.MustGenerate(), AppID: appID, CreatedAt: s.db.now()}
	s.db.secrets[sec.ID] = sec
	return sec, nil
}

func (s memSecrets) DeleteByApp(_ context.Context, _ pg.Querier, appID uuid.UUID) error {
	for id, sec := range s.db.secrets {
		if sec.AppID == appID {
			delete(s.db.secrets, id)
		}
	}
	return nil
}

func (s memSecrets) ByApps(_ context.Context, _ pg.Querier, appIDs []uuid.UUID) ([]app.Secret, error) {
	var out []app.Secret
	for _, sec := range s.db.secrets {
		if slices.Contains(appIDs, sec.AppID) {
			out = append(out, sec)
		}
	}
	return out, nil
}

type memRedirects struct{ db *memDB }

func (s memRedirects) Create(_ context.Context, _ pg.Querier, appID uuid.UUID, urls []string) ([]app.RedirectURL, error) {
	out := make([]app.RedirectURL, 0, len(urls))
	for _, u := range urls {
		r := app.RedirectURL{ID: uuid.New(), URL: u, AppID: appID, CreatedAt: s.db.now()}
		s.db.redirects[r.ID] = r
		out = append(out, r)
	}
	return out, nil
}

func (s memRedirects) Delete(_ context.Context, _ pg.Querier, ids []uuid.UUID) error {
	for _, id := range ids {
		delete(s.db.redirects, id)
	}
	return nil
}

func (s memRedirects) ByApps(_ context.Context, _ pg.Querier, appIDs []uuid.UUID) ([]app.RedirectURL, error) {
	var out []app.RedirectURL
	for _, r := range s.db.redirects {
		if slices.Contains(appIDs, r.AppID) {
			out = append(out, r)
		}
	}
	slices.SortFunc(out, func(x, y app.RedirectURL) int { return x.CreatedAt.Compare(y.CreatedAt) })
	return out, nil
}

func (s memRedirects) Find(_ context.Context, _ pg.Querier, appID uuid.UUID, url string) (app.RedirectURL, error) {
	for _, r := range s.db.redirects {
		if r.AppID == appID && r.URL == url {
			return r, nil
		}
	}
	return app.RedirectURL{}, pg.ErrNotFound
}

// MockRecorder is a mock implementation of metrics.Recorder.
type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) RecordSignUp() {
	m.Called()
}

func (m *MockRecorder) RecordSignIn(outcome string) {
	m.Called(outcome)
}

func (m *MockRecorder) RecordEmailSent(kind string, err error) {
	m.Called(kind, err)
}

func (m *MockRecorder) RecordSecretRotated() {
	m.Called()
}
