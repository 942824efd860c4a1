package session

import "net/http"

// Transport moves the opaque session value between client and server.
type Transport interface {
	// GetToken returns ErrSessionNotFound when the request carries no session.
	GetToken(r *http.Request) (string, error)
	SetToken(w http.ResponseWriter, token string)
	ClearToken(w http.ResponseWriter)
}
