package auth

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/soda/core"
)

var (
	ErrUserNotFound      = core.NotFound("user not found")
	ErrPasswordNotFound  = core.NotFound("password not found")
	ErrUserAlreadyExists = core.AlreadyExists("user already exists")
	ErrEmailTaken        = core.AlreadyExists("email address is taken")
	ErrUnauthenticated   = core.ErrUnauthenticated

	ErrInvalidToken      = core.NewHTTPError(http.StatusConflict, "invalid_token", "invalid token")
	ErrTokenExpired      = core.NewHTTPError(http.StatusConflict, "token_expired", "token expired")
	ErrIncorrectPassword = core.NewHTTPError(http.StatusConflict, "incorrect_password", "password not correct")
	ErrPasswordIncorrect = core.NewHTTPError(http.StatusConflict, "password_incorrect", "password is not correct")
	ErrUnconfirmedEmail  = core.NewHTTPError(http.StatusConflict, "unconfirmed_email", "email address not confirmed")
)

// Storage-level sentinels, translated by the service.
var (
	ErrTokenNotFound   = errors.New("auth.token_not_found")
	ErrSessionNotFound = errors.New("auth.session_not_found")
	ErrMissingOwner    = errors.New("auth.missing_owner")
)
