package binder

import "net/http"

// Path binds router path parameters to fields tagged `path:"name"`, reading
// them through extractor (chi.URLParam for chi routers). Only tagged fields
// are considered.
func Path(extractor func(r *http.Request, name string) string) func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		values, err := taggedValues(v, "path", func(name string) []string {
			if s := extractor(r, name); s != "" {
				return []string{s}
			}
			return nil
		})
		if err != nil {
			return err
		}
		return bindToStruct(v, "path", values, ErrInvalidPath)
	}
}
