package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/soda/pkg/email"
	"github.com/dmitrymomot/soda/pkg/email/templates"
	"github.com/dmitrymomot/soda/pkg/file"
	"github.com/dmitrymomot/soda/pkg/logger"
	"github.com/dmitrymomot/soda/pkg/metrics"
	"github.com/dmitrymomot/soda/pkg/password"
	"github.com/dmitrymomot/soda/pkg/pg"
)

// Service runs every identity lifecycle transition. Each operation executes
// inside a single transaction.
type Service struct {
	cfg       Config
	tx        pg.Transactor
	users     UserStorage
	passwords PasswordStorage
	tokens    TokenStorage
	sessions  SessionStorage
	hasher    password.Hasher
	mailer    email.Sender
	files     file.Storage
	metrics   metrics.Recorder
	logger    *slog.Logger
	now       func() time.Time
}

type Option func(*Service)

// WithStorage replaces the PostgreSQL stores. Nil members keep the default.
func WithStorage(st Stores) Option {
	return func(s *Service) {
		if st.Users != nil {
			s.users = st.Users
		}
		if st.Passwords != nil {
			s.passwords = st.Passwords
		}
		if st.Tokens != nil {
			s.tokens = st.Tokens
		}
		if st.Sessions != nil {
			s.sessions = st.Sessions
		}
	}
}

// WithHasher replaces the bcrypt password hasher.
func WithHasher(h password.Hasher) Option {
	return func(s *Service) {
		s.hasher = h
	}
}

// WithMetrics records auth events on r.
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

// WithClock sets the time source used for token expiry and confirmation stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService wires the auth service. mailer delivers action links, files
// receives avatars.
func NewService(cfg Config, tx pg.Transactor, mailer email.Sender, files file.Storage, opts ...Option) *Service {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = DefaultTokenTTL
	}
	cfg.ServerURL = strings.TrimRight(cfg.ServerURL, "/")
	cfg.ClientURL = strings.TrimRight(cfg.ClientURL, "/")

	st := NewPGStores()
	s := &Service{
		cfg:       cfg,
		tx:        tx,
		users:     st.Users,
		passwords: st.Passwords,
		tokens:    st.Tokens,
		sessions:  st.Sessions,
		hasher:    password.NewBcrypt(),
		mailer:    mailer,
		files:     files,
		metrics:   metrics.Nop{},
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(logger.Component("auth"))
	return s
}

// resolveToken loads a token of the expected type and checks its age.
func (s *Service) resolveToken(ctx context.Context, q pg.Querier, value string, typ TokenType) (Token, error) {
	if value == "" {
		return Token{}, ErrInvalidToken
	}
	t, err := s.tokens.Resolve(ctx, q, value)
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			return Token{}, ErrInvalidToken
		}
		return Token{}, err
	}
	if t.Type != typ {
		return Token{}, ErrInvalidToken
	}
	if IsExpired(t, s.now(), s.cfg.TokenTTL) {
		return Token{}, ErrTokenExpired
	}
	return t, nil
}

// consumeToken deletes a resolved token. A concurrent consumer winning the
// race leaves the caller with an invalid token.
func (s *Service) consumeToken(ctx context.Context, q pg.Querier, t Token) error {
	if err := s.tokens.Consume(ctx, q, t); err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	return nil
}

// owner loads the user a token or session points at. A missing row is a
// broken foreign key, not a client error.
func (s *Service) owner(ctx context.Context, q pg.Querier, id uuid.UUID) (User, error) {
	u, err := s.users.ByID(ctx, q, id)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return User{}, fmt.Errorf("%w: user %s", ErrMissingOwner, id)
		}
		return User{}, fmt.Errorf("load user: %w", err)
	}
	return u, nil
}

func (s *Service) userByEmail(ctx context.Context, q pg.Querier, addr string) (User, error) {
	u, err := s.users.ByEmail(ctx, q, addr)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return User{}, ErrUserNotFound
		}
		return User{}, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}

func (s *Service) serverLink(path, value string) string {
	return s.cfg.ServerURL + path + "?token=" + url.QueryEscape(value)
}

func (s *Service) clientLink(path, value string) string {
	return s.cfg.ClientURL + path + "?token=" + url.QueryEscape(value)
}

// send renders and delivers an email. A failure aborts the surrounding
// transaction so no token outlives an undelivered link.
func (s *Service) send(ctx context.Context, to, kind string, tpl templates.Email) error {
	html, err := email.Render(ctx, tpl.Body)
	if err == nil {
		err = s.mailer.Send(ctx, email.Message{
			From:    s.cfg.Sender(),
			To:      to,
			Subject: tpl.Subject,
			HTML:    html,
			Tag:     kind,
		})
	}
	s.metrics.RecordEmailSent(kind, err)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to send email",
			logger.Event(kind),
			logger.Error(err),
		)
		return fmt.Errorf("send %s email: %w", kind, err)
	}
	return nil
}
