package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/soda/core"
	"github.com/dmitrymomot/soda/pkg/binder"
	"github.com/dmitrymomot/soda/pkg/logger"
	"github.com/dmitrymomot/soda/pkg/requestid"
	"github.com/dmitrymomot/soda/pkg/validator"
)

// ErrorBody is the wire shape of every error answer.
type ErrorBody struct {
	Success bool                       `json:"success"`
	Error   string                     `json:"error"`
	Code    string                     `json:"code"`
	Details validator.ValidationErrors `json:"details,omitempty"`
}

// Classify maps err onto a status and wire body. Unknown errors become the
// generic internal error with no detail.
func Classify(err error) (int, ErrorBody) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return core.ErrValidation.Code, ErrorBody{
			Error:   ve.Error(),
			Code:    core.ErrValidation.Key,
			Details: ve,
		}
	}

	var httpErr core.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code, ErrorBody{Error: httpErr.Error(), Code: httpErr.Key}
	}

	switch {
	case errors.Is(err, binder.ErrUnsupportedMediaType), errors.Is(err, binder.ErrMissingContentType):
		return core.ErrUnsupportedMedia.Code, ErrorBody{Error: err.Error(), Code: core.ErrUnsupportedMedia.Key}
	case errors.Is(err, binder.ErrBodyTooLarge):
		return core.ErrRequestTooLarge.Code, ErrorBody{Error: err.Error(), Code: core.ErrRequestTooLarge.Key}
	case errors.Is(err, binder.ErrInvalidJSON), errors.Is(err, binder.ErrInvalidForm),
		errors.Is(err, binder.ErrInvalidQuery), errors.Is(err, binder.ErrInvalidPath):
		return core.ErrBadRequest.Code, ErrorBody{Error: err.Error(), Code: core.ErrBadRequest.Key}
	}

	return core.ErrInternalServerError.Code, ErrorBody{
		Error: core.ErrInternalServerError.Message,
		Code:  core.ErrInternalServerError.Key,
	}
}

// WriteError writes the wire error for err without logging.
func WriteError(w http.ResponseWriter, err error) {
	status, body := Classify(err)
	_ = writeJSON(w, status, body)
}

// Responder returns a plain net/http error writer that logs like the error
// handler. Middlewares use it to answer in the same shape as handlers.
func Responder(log *slog.Logger) func(w http.ResponseWriter, r *http.Request, err error) {
	if log == nil {
		log = slog.Default()
	}
	return func(w http.ResponseWriter, r *http.Request, err error) {
		status, body := Classify(err)

		level := slog.LevelDebug
		switch {
		case status >= http.StatusInternalServerError:
			level = slog.LevelError
		case status == http.StatusTooManyRequests:
			level = slog.LevelWarn
		}
		log.LogAttrs(r.Context(), level, "request error",
			logger.RequestID(requestid.FromContext(r.Context())),
			logger.Error(err),
			slog.Int("status_code", status),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			logger.Component("error_handler"),
		)

		if werr := writeJSON(w, status, body); werr != nil {
			log.ErrorContext(r.Context(), "failed to write error response", logger.Error(werr))
		}
	}
}

// NewErrorHandler builds the ErrorHandler passed to every Wrap call.
func NewErrorHandler(log *slog.Logger) ErrorHandler[Context] {
	respond := Responder(log)
	return func(ctx Context, err error) {
		respond(ctx.ResponseWriter(), ctx.Request(), err)
	}
}
