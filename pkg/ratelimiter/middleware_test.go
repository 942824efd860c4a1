package ratelimiter_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/soda/pkg/ratelimiter"
)

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (*ratelimiter.Result, error) {
	return nil, errors.New("store down")
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	store := ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(0))
	t.Cleanup(store.Close)
	b, err := ratelimiter.NewBucket(store, ratelimiter.Config{Capacity: 2, RefillRate: 1, RefillInterval: time.Minute})
	require.NoError(t, err)

	var rejected error
	mw := ratelimiter.Middleware(b,
		ratelimiter.Composite(ratelimiter.ByIP(), ratelimiter.Static("sign-in")),
		ratelimiter.WithErrorResponder(func(w http.ResponseWriter, _ *http.Request, err error) {
			rejected = err
			w.WriteHeader(http.StatusTooManyRequests)
		}),
	)
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	do := func(ip string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodPost, "/api/auth/sign-in", nil)
		r.RemoteAddr = ip + ":1000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		return rec
	}

	rec := do("10.0.0.1")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Reset"))

	assert.Equal(t, http.StatusNoContent, do("10.0.0.1").Code)

	rec = do("10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.ErrorIs(t, rejected, ratelimiter.ErrLimitExceeded)

	assert.Equal(t, http.StatusNoContent, do("10.0.0.2").Code, "other clients are unaffected")
}

func TestMiddleware_Defaults(t *testing.T) {
	t.Parallel()

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	t.Run("store failure", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		ratelimiter.Middleware(failingLimiter{}, ratelimiter.ByPath())(next).
			ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("empty key skips limiting", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		ratelimiter.Middleware(failingLimiter{}, ratelimiter.Static(""))(next).
			ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestComposite(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/path", nil)
	r.RemoteAddr = "192.0.2.1:80"

	assert.Equal(t, "192.0.2.1:/path", ratelimiter.Composite(ratelimiter.ByIP(), ratelimiter.ByPath())(r))
	assert.Equal(t, "x", ratelimiter.Composite(ratelimiter.Static(""), ratelimiter.Static("x"))(r))

	long := ratelimiter.Composite(ratelimiter.Static(string(make([]byte, 100))))(r)
	assert.LessOrEqual(t, len(long), 13)
}
