package binder

import "net/http"

// Query binds URL query parameters to fields tagged `query:"name"`.
// Untagged fields use their lower-cased name; `query:"-"` skips a field.
func Query() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		return bindToStruct(v, "query", r.URL.Query(), ErrInvalidQuery)
	}
}
