package core

import "net/http"

// HTTPError is a domain error with an HTTP status, a stable machine-readable
// key and a human-readable message. Values are comparable, so errors.Is
// matches them after wrapping.
type HTTPError struct {
	Code    int    // HTTP status code
	Key     string // machine-readable code, e.g. "not_found"
	Message string
}

// Error implements the error interface.
func (e HTTPError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Key
}

// WithMessage returns a copy of e carrying msg.
func (e HTTPError) WithMessage(msg string) HTTPError {
	e.Message = msg
	return e
}

var (
	ErrBadRequest          = HTTPError{Code: http.StatusBadRequest, Key: "bad_request", Message: "bad request"}
	ErrUnauthenticated     = HTTPError{Code: http.StatusUnauthorized, Key: "unauthenticated", Message: "Unauthenticated"}
	ErrNotFound            = HTTPError{Code: http.StatusNotFound, Key: "not_found", Message: "not found"}
	ErrMethodNotAllowed    = HTTPError{Code: http.StatusMethodNotAllowed, Key: "method_not_allowed", Message: "method not allowed"}
	ErrAlreadyExists       = HTTPError{Code: http.StatusConflict, Key: "already_exists", Message: "already exists"}
	ErrRequestTooLarge     = HTTPError{Code: http.StatusRequestEntityTooLarge, Key: "request_entity_too_large", Message: "request entity too large"}
	ErrUnsupportedMedia    = HTTPError{Code: http.StatusUnsupportedMediaType, Key: "unsupported_media_type", Message: "unsupported media type"}
	ErrValidation          = HTTPError{Code: http.StatusUnprocessableEntity, Key: "validation_error", Message: "validation failed"}
	ErrTooManyRequests     = HTTPError{Code: http.StatusTooManyRequests, Key: "too_many_requests", Message: "too many requests"}
	ErrInternalServerError = HTTPError{Code: http.StatusInternalServerError, Key: "internal_server_error", Message: "something went wrong"}
)

// NewHTTPError creates a custom error.
//
// Example:
//
//	var ErrInvalidToken = core.NewHTTPError(http.StatusConflict, "invalid_token", "invalid token")
func NewHTTPError(code int, key, message string) HTTPError {
	return HTTPError{Code: code, Key: key, Message: message}
}

// NotFound is ErrNotFound with a specific message.
func NotFound(message string) HTTPError {
	return ErrNotFound.WithMessage(message)
}

// AlreadyExists is ErrAlreadyExists with a specific message.
func AlreadyExists(message string) HTTPError {
	return ErrAlreadyExists.WithMessage(message)
}
