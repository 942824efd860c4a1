package ratelimiter

import (
	"hash/fnv"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrymomot/soda/pkg/clientip"
)

const maxKeyLength = 64

// KeyFunc derives the bucket key for a request. An empty key skips limiting.
type KeyFunc func(r *http.Request) string

// ByIP keys by client address.
func ByIP() KeyFunc {
	return clientip.GetIP
}

// ByPath keys by request path.
func ByPath() KeyFunc {
	return func(r *http.Request) string { return r.URL.Path }
}

// Static returns the same key for every request, e.g. a route name.
func Static(key string) KeyFunc {
	return func(*http.Request) string { return key }
}

// Composite joins the non-empty parts with ":"; long keys are hashed with FNV-1a.
func Composite(fns ...KeyFunc) KeyFunc {
	return func(r *http.Request) string {
		parts := make([]string, 0, len(fns))
		for _, fn := range fns {
			if k := fn(r); k != "" {
				parts = append(parts, k)
			}
		}
		key := strings.Join(parts, ":")
		if len(key) > maxKeyLength {
			h := fnv.New64a()
			_, _ = h.Write([]byte(key))
			return strconv.FormatUint(h.Sum64(), 36)
		}
		return key
	}
}

// ErrorResponder writes the response for a rejected or failed check.
// err is ErrLimitExceeded or a store failure.
type ErrorResponder func(w http.ResponseWriter, r *http.Request, err error)

type middlewareOptions struct {
	respond ErrorResponder
}

type MiddlewareOption func(*middlewareOptions)

// WithErrorResponder replaces the plain-text default responses.
func WithErrorResponder(fn ErrorResponder) MiddlewareOption {
	return func(o *middlewareOptions) {
		if fn != nil {
			o.respond = fn
		}
	}
}

func defaultResponder(w http.ResponseWriter, _ *http.Request, err error) {
	if err == ErrLimitExceeded {
		http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		return
	}
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// Middleware enforces l per key and sets X-RateLimit-* and Retry-After headers.
func Middleware(l RateLimiter, keyFunc KeyFunc, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	o := middlewareOptions{respond: defaultResponder}
	for _, opt := range opts {
		opt(&o)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyFunc(r)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			res, err := l.Allow(r.Context(), key)
			if err != nil {
				o.respond(w, r, err)
				return
			}

			h := w.Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(max(0, res.Remaining)))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))

			if !res.Allowed() {
				secs := int(res.RetryAfter().Seconds() + 0.999)
				h.Set("Retry-After", strconv.Itoa(max(1, secs)))
				o.respond(w, r, ErrLimitExceeded)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
