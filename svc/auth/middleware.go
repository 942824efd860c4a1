package auth

import (
	"context"
	"net/http"

	"github.com/dmitrymomot/soda/pkg/session"
)

// Authenticator resolves a raw session value. *Service implements it.
type Authenticator interface {
	GetAuthUser(ctx context.Context, value string) (Auth, error)
}

// ErrorResponder writes err to the client.
type ErrorResponder func(w http.ResponseWriter, r *http.Request, err error)

// Middleware rejects requests without a valid session and stores the
// resolved identity in the request context.
func Middleware(a Authenticator, transport session.Transport, respond ErrorResponder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			value, err := transport.GetToken(r)
			if err != nil {
				respond(w, r, ErrUnauthenticated)
				return
			}
			identity, err := a.GetAuthUser(r.Context(), value)
			if err != nil {
				respond(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithAuth(r.Context(), identity)))
		})
	}
}
