package session

import "errors"

// ErrSessionNotFound indicates the request carries no session value.
var ErrSessionNotFound = errors.New("session.not_found")
