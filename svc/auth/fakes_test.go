package auth_test

import (
	"context"
	"encoding/json"
	"errors"
	"maps"
	"regexp"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/soda/pkg/email"
	"github.com/dmitrymomot/soda/pkg/file"
	"github.com/dmitrymomot/soda/pkg/pg"
	"github.com/dmitrymomot/soda/pkg/token"
	"github.com/dmitrymomot/soda/svc/auth"
)

// memDB is an in-memory stand-in for the auth tables. InTx restores the
// previous state when the unit of work fails.
type memDB struct {
	mu        sync.Mutex
	now       func() time.Time
	users     map[uuid.UUID]auth.User
	passwords map[uuid.UUID]auth.Password
	tokens    map[uuid.UUID]auth.Token
	sessions  map[uuid.UUID]auth.Session
}

func newMemDB(now func() time.Time) *memDB {
	return &memDB{
		now:       now,
		users:     map[uuid.UUID]auth.User{},
		passwords: map[uuid.UUID]auth.Password{},
		tokens:    map[uuid.UUID]auth.Token{},
		sessions:  map[uuid.UUID]auth.Session{},
	}
}

func (db *memDB) InTx(ctx context.Context, fn pg.TxFunc) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	users, passwords := maps.Clone(db.users), maps.Clone(db.passwords)
	tokens, sessions := maps.Clone(db.tokens), maps.Clone(db.sessions)
	if err := fn(ctx, nil); err != nil {
		db.users, db.passwords, db.tokens, db.sessions = users, passwords, tokens, sessions
		return err
	}
	return nil
}

func (db *memDB) stores() auth.Stores {
	return auth.Stores{
		Users:     memUsers{db},
		Passwords: memPasswords{db},
		Tokens:    memTokens{db},
		Sessions:  memSessions{db},
	}
}

func (db *memDB) tokensOf(userID uuid.UUID, typ auth.TokenType) []auth.Token {
	var out []auth.Token
	for _, t := range db.tokens {
		if t.UserID == userID && t.Type == typ {
			out = append(out, t)
		}
	}
	return out
}

func (db *memDB) passwordsOf(userID uuid.UUID) []auth.Password {
	var out []auth.Password
	for _, p := range db.passwords {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out
}

type memUsers struct{ db *memDB }

func (s memUsers) Create(_ context.Context, _ pg.Querier, u auth.User) (auth.User, error) {
	for _, existing := range s.db.users {
		if existing.Email == u.Email {
			return auth.User{}, auth.ErrUserAlreadyExists
		}
	}
	u.ID = uuid.New()
	u.CreatedAt = s.db.now()
	s.db.users[u.ID] = u
	return u, nil
}

func (s memUsers) ByID(_ context.Context, _ pg.Querier, id uuid.UUID) (auth.User, error) {
	u, ok := s.db.users[id]
	if !ok {
		return auth.User{}, pg.ErrNotFound
	}
	return u, nil
}

func (s memUsers) ByEmail(_ context.Context, _ pg.Querier, addr string) (auth.User, error) {
	for _, u := range s.db.users {
		if u.Email == addr {
			return u, nil
		}
	}
	return auth.User{}, pg.ErrNotFound
}

func (s memUsers) Save(_ context.Context, _ pg.Querier, u auth.User) (auth.User, error) {
	if _, ok := s.db.users[u.ID]; !ok {
		return auth.User{}, pg.ErrNotFound
	}
	s.db.users[u.ID] = u
	return u, nil
}

type memPasswords struct{ db *memDB }

func (s memPasswords) Create(_ context.Context, _ pg.Querier, userID uuid.UUID, hash string) (auth.Password, error) {
	p := auth.Password{ID: uuid.New(), Hash: hash, UserID: userID, CreatedAt: s.db.now()}
	s.db.passwords[p.ID] = p
	return p, nil
}

func (s memPasswords) ByUser(_ context.Context, _ pg.Querier, userID uuid.UUID) (auth.Password, error) {
	for _, p := range s.db.passwords {
		if p.UserID == userID {
			return p, nil
		}
	}
	return auth.Password{}, pg.ErrNotFound
}

func (s memPasswords) DeleteByUser(_ context.Context, _ pg.Querier, userID uuid.UUID) error {
	for id, p := range s.db.passwords {
		if p.UserID == userID {
			delete(s.db.passwords, id)
		}
	}
	return nil
}

type memTokens struct{ db *memDB }

func (s memTokens) Issue(_ context.Context, _ pg.Querier, userID uuid.UUID, typ auth.TokenType, payload json.RawMessage) (auth.Token, error) {
	t := auth.Token{
		ID:        uuid.New(),
		Value:     token.MustGenerate(),
		Type:      typ,
		Payload:   payload,
		UserID:    userID,
		CreatedAt: s.db.now(),
	}
	s.db.tokens[t.ID] = t
	return t, nil
}

func (s memTokens) Supersede(_ context.Context, _ pg.Querier, userID uuid.UUID, typ auth.TokenType) error {
	for id, t := range s.db.tokens {
		if t.UserID == userID && t.Type == typ {
			delete(s.db.tokens, id)
		}
	}
	return nil
}

func (s memTokens) Resolve(_ context.Context, _ pg.Querier, value string) (auth.Token, error) {
	for _, t := range s.db.tokens {
		if t.Value == value {
			return t, nil
		}
	}
	return auth.Token{}, auth.ErrTokenNotFound
}

func (s memTokens) Consume(_ context.Context, _ pg.Querier, t auth.Token) error {
	if _, ok := s.db.tokens[t.ID]; !ok {
		return auth.ErrTokenNotFound
	}
	delete(s.db.tokens, t.ID)
	return nil
}

// racingTokens loses every Consume to a concurrent consumer.
type racingTokens struct{ memTokens }

func (s racingTokens) Consume(_ context.Context, _ pg.Querier, t auth.Token) error {
	delete(s.db.tokens, t.ID)
	return auth.ErrTokenNotFound
}

type memSessions struct{ db *memDB }

func (s memSessions) Create(_ context.Context, _ pg.Querier, userID uuid.UUID) (auth.Session, error) {
	sess := auth.Session{ID: uuid.New(), Value: token.MustGenerate(), UserID: userID}
	s.db.sessions[sess.ID] = sess
	return sess, nil
}

func (s memSessions) Resolve(_ context.Context, _ pg.Querier, value string) (auth.Session, error) {
	for _, sess := range s.db.sessions {
		if sess.Value == value {
			return sess, nil
		}
	}
	return auth.Session{}, auth.ErrSessionNotFound
}

func (s memSessions) Revoke(_ context.Context, _ pg.Querier, sess auth.Session) error {
	delete(s.db.sessions, sess.ID)
	return nil
}

// outbox records sent messages and fails with err when set.
type outbox struct {
	mu   sync.Mutex
	err  error
	sent []email.Message
}

func (o *outbox) Send(_ context.Context, msg email.Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.err != nil {
		return o.err
	}
	o.sent = append(o.sent, msg)
	return nil
}

func (o *outbox) last() email.Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.sent) == 0 {
		return email.Message{}
	}
	return o.sent[len(o.sent)-1]
}

func (o *outbox) count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.sent)
}

var linkToken = regexp.MustCompile(`token=([A-Za-z0-9_-]+)`)

// tokenFrom extracts the raw token from a mailed link.
func tokenFrom(msg email.Message) string {
	m := linkToken.FindStringSubmatch(msg.HTML)
	if m == nil {
		return ""
	}
	return m[1]
}

// MockStorage is a mock implementation of file.Storage.
type MockStorage struct {
	mock.Mock
}

var _ file.Storage = (*MockStorage)(nil)

func (m *MockStorage) Upload(ctx context.Context, u file.Upload) (string, error) {
	args := m.Called(ctx, u)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockStorage) URL(key string) string {
	return m.Called(key).String(0)
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

var errBoom = errors.New("boom")
