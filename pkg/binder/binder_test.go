package binder_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/soda/pkg/binder"
)

type signIn struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func TestJSON(t *testing.T) {
	t.Parallel()

	newReq := func(ct, body string) *http.Request {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		if ct != "" {
			r.Header.Set("Content-Type", ct)
		}
		return r
	}

	t.Run("decodes", func(t *testing.T) {
		t.Parallel()
		var v signIn
		err := binder.JSON()(newReq("application/json; charset=utf-8", `{"email":"a@x.com","password":"secret"}`), &v)
		require.NoError(t, err)
		assert.Equal(t, signIn{Email: "a@x.com", Password: "secret"}, v)
	})

	tests := []struct {
		name string
		ct   string
		body string
		want error
	}{
		{"missing content type", "", `{}`, binder.ErrMissingContentType},
		{"wrong content type", "text/plain", `{}`, binder.ErrUnsupportedMediaType},
		{"empty body", "application/json", ``, binder.ErrInvalidJSON},
		{"malformed", "application/json", `{"email":`, binder.ErrInvalidJSON},
		{"unknown field", "application/json", `{"email":"a@x.com","admin":true}`, binder.ErrInvalidJSON},
		{"trailing data", "application/json", `{"email":"a@x.com"}{}`, binder.ErrInvalidJSON},
		{"too large", "application/json", `{"email":"` + strings.Repeat("a", binder.DefaultMaxJSONSize) + `"}`, binder.ErrBodyTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var v signIn
			assert.ErrorIs(t, binder.JSON()(newReq(tt.ct, tt.body), &v), tt.want)
		})
	}
}

func TestQuery(t *testing.T) {
	t.Parallel()

	type listApps struct {
		Page int      `query:"page"`
		Q    string   `query:"q"`
		Tags []string `query:"tags"`
		Skip string   `query:"-"`
	}

	t.Run("binds", func(t *testing.T) {
		t.Parallel()
		var v listApps
		r := httptest.NewRequest(http.MethodGet, "/?page=3&q=my+app&tags=a,b&tags=c&Skip=x", nil)
		require.NoError(t, binder.Query()(r, &v))
		assert.Equal(t, listApps{Page: 3, Q: "my app", Tags: []string{"a", "b", "c"}}, v)
	})

	t.Run("bad int", func(t *testing.T) {
		t.Parallel()
		var v listApps
		r := httptest.NewRequest(http.MethodGet, "/?page=abc", nil)
		assert.ErrorIs(t, binder.Query()(r, &v), binder.ErrInvalidQuery)
	})

	t.Run("non pointer target", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		assert.ErrorIs(t, binder.Query()(r, listApps{}), binder.ErrInvalidQuery)
	})
}

func TestPath(t *testing.T) {
	t.Parallel()

	type appPath struct {
		AppID string `path:"appId"`
		Other string
	}

	var got appPath
	router := chi.NewRouter()
	router.Get("/apps/{appId}", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, binder.Path(chi.URLParam)(r, &got))
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/apps/42", nil))
	assert.Equal(t, appPath{AppID: "42"}, got)
}

func TestPath_TextUnmarshaler(t *testing.T) {
	t.Parallel()

	type appPath struct {
		AppID uuid.UUID `path:"appId"`
	}

	id := uuid.New()
	var (
		got     appPath
		bindErr error
	)
	router := chi.NewRouter()
	router.Get("/apps/{appId}", func(w http.ResponseWriter, r *http.Request) {
		got = appPath{}
		bindErr = binder.Path(chi.URLParam)(r, &got)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/apps/"+id.String(), nil))
	require.NoError(t, bindErr)
	assert.Equal(t, id, got.AppID)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/apps/not-a-uuid", nil))
	assert.ErrorIs(t, bindErr, binder.ErrInvalidPath)
}

func TestForm(t *testing.T) {
	t.Parallel()

	type profile struct {
		FirstName string                `form:"firstName"`
		LastName  string                `form:"lastName"`
		Avatar    *multipart.FileHeader `file:"avatar"`
		Ignored   string
	}

	t.Run("multipart with file", func(t *testing.T) {
		t.Parallel()
		var body bytes.Buffer
		w := multipart.NewWriter(&body)
		require.NoError(t, w.WriteField("firstName", "Ada"))
		require.NoError(t, w.WriteField("lastName", "Lovelace"))
		require.NoError(t, w.WriteField("ignored", "nope"))
		part, err := w.CreateFormFile("avatar", "me.png")
		require.NoError(t, err)
		_, _ = part.Write([]byte("png"))
		require.NoError(t, w.Close())

		r := httptest.NewRequest(http.MethodPatch, "/", &body)
		r.Header.Set("Content-Type", w.FormDataContentType())

		var v profile
		require.NoError(t, binder.Form()(r, &v))
		assert.Equal(t, "Ada", v.FirstName)
		assert.Equal(t, "Lovelace", v.LastName)
		assert.Empty(t, v.Ignored)
		require.NotNil(t, v.Avatar)
		assert.Equal(t, "me.png", v.Avatar.Filename)
	})

	t.Run("urlencoded without file", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader("firstName=Ada&lastName=L"))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		var v profile
		require.NoError(t, binder.Form()(r, &v))
		assert.Equal(t, "Ada", v.FirstName)
		assert.Nil(t, v.Avatar)
	})

	t.Run("json rejected", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader("{}"))
		r.Header.Set("Content-Type", "application/json")

		var v profile
		assert.ErrorIs(t, binder.Form()(r, &v), binder.ErrUnsupportedMediaType)
	})

	t.Run("missing boundary", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(""))
		r.Header.Set("Content-Type", "multipart/form-data")

		var v profile
		assert.ErrorIs(t, binder.Form()(r, &v), binder.ErrInvalidForm)
	})
}
