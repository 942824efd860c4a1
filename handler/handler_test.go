package handler_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/soda/core"
	"github.com/dmitrymomot/soda/handler"
	"github.com/dmitrymomot/soda/pkg/binder"
	"github.com/dmitrymomot/soda/pkg/validator"
)

type createApp struct {
	Title string `json:"title"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestWrap(t *testing.T) {
	t.Parallel()

	t.Run("binds and renders data", func(t *testing.T) {
		t.Parallel()
		h := handler.Wrap(
			func(ctx handler.Context, req createApp) handler.Response {
				return handler.JSON(map[string]string{"title": req.Title}, handler.WithJSONMeta(map[string]any{"lastPage": 1}))
			},
			handler.WithBinders[handler.Context, createApp](binder.JSON()),
		)

		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"MyApp"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		h(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"data":{"title":"MyApp"},"meta":{"lastPage":1}}`, rec.Body.String())
	})

	t.Run("success body", func(t *testing.T) {
		t.Parallel()
		h := handler.Wrap(func(handler.Context, struct{}) handler.Response { return handler.Success() })
		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodPost, "/", nil))

		assert.JSONEq(t, `{"success":true}`, rec.Body.String())
	})

	t.Run("binder error is 400 in wire shape", func(t *testing.T) {
		t.Parallel()
		h := handler.Wrap(
			func(handler.Context, createApp) handler.Response { return handler.Success() },
			handler.WithBinders[handler.Context, createApp](binder.JSON()),
		)
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		h(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "bad_request", body["code"])
	})

	t.Run("nil response", func(t *testing.T) {
		t.Parallel()
		h := handler.Wrap(func(handler.Context, struct{}) handler.Response { return nil })
		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "something went wrong", decode(t, rec)["error"])
	})

	t.Run("decorators run outermost first", func(t *testing.T) {
		t.Parallel()
		var order []string
		deco := func(name string) handler.Decorator[handler.Context, struct{}] {
			return func(next handler.HandlerFunc[handler.Context, struct{}]) handler.HandlerFunc[handler.Context, struct{}] {
				return func(ctx handler.Context, req struct{}) handler.Response {
					order = append(order, name)
					return next(ctx, req)
				}
			}
		}
		h := handler.Wrap(
			func(handler.Context, struct{}) handler.Response { return handler.Empty() },
			handler.WithDecorators(deco("a"), deco("b")),
		)
		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodDelete, "/", nil))

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, []string{"a", "b"}, order)
	})

	t.Run("redirect", func(t *testing.T) {
		t.Parallel()
		h := handler.Wrap(func(handler.Context, struct{}) handler.Response {
			return handler.Redirect("https://app.example.com/sign-in")
		})
		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "https://app.example.com/sign-in", rec.Header().Get("Location"))
	})
}

func TestErrorHandler(t *testing.T) {
	t.Parallel()

	errInvalidToken := core.NewHTTPError(http.StatusConflict, "invalid_token", "invalid token")

	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{"domain error", fmt.Errorf("confirm: %w", errInvalidToken), http.StatusConflict, "invalid_token", "invalid token"},
		{"not found", core.NotFound("user not found"), http.StatusNotFound, "not_found", "user not found"},
		{"unauthenticated", core.ErrUnauthenticated, http.StatusUnauthorized, "unauthenticated", "Unauthenticated"},
		{"validation", validator.ValidationErrors{{Field: "email", Message: "must be a valid email address"}}, http.StatusUnprocessableEntity, "validation_error", "validation failed: email: must be a valid email address"},
		{"unsupported media", fmt.Errorf("%w: text/plain", binder.ErrUnsupportedMediaType), http.StatusUnsupportedMediaType, "unsupported_media_type", ""},
		{"unknown", errors.New("pq: connection reset"), http.StatusInternalServerError, "internal_server_error", "something went wrong"},
	}

	eh := handler.NewErrorHandler(slog.New(slog.DiscardHandler))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := handler.Wrap(
				func(handler.Context, struct{}) handler.Response { return handler.Error(tt.err) },
				handler.WithErrorHandler[handler.Context, struct{}](eh),
			)
			rec := httptest.NewRecorder()
			h(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.status, rec.Code)
			body := decode(t, rec)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.code, body["code"])
			if tt.message != "" {
				assert.Equal(t, tt.message, body["error"])
			}
		})
	}

	t.Run("unknown error is logged not leaked", func(t *testing.T) {
		t.Parallel()
		var buf strings.Builder
		respond := handler.Responder(slog.New(slog.NewJSONHandler(&buf, nil)))

		rec := httptest.NewRecorder()
		respond(rec, httptest.NewRequest(http.MethodGet, "/api/apps", nil), errors.New("secret detail"))

		assert.NotContains(t, rec.Body.String(), "secret detail")
		assert.Contains(t, buf.String(), "secret detail")
		assert.Contains(t, buf.String(), `"level":"ERROR"`)
	})

	t.Run("validation details", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		handler.WriteError(rec, validator.ValidationErrors{{Field: "title", Message: "is required"}})

		body := decode(t, rec)
		assert.Equal(t, []any{map[string]any{"field": "title", "message": "is required"}}, body["details"])
	})
}
