package binder

import (
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"reflect"
	"strings"
)

// DefaultMaxMemory is the in-memory part of multipart parsing; the rest
// spills to temporary files.
const DefaultMaxMemory = 10 << 20

var fileHeaderType = reflect.TypeOf((*multipart.FileHeader)(nil))

// Form binds urlencoded and multipart bodies. Fields tagged `form:"name"`
// receive values, fields tagged `file:"name"` of type *multipart.FileHeader
// or []*multipart.FileHeader receive uploads.
//
//	type updateProfileRequest struct {
//		FirstName string                `form:"firstName"`
//		Avatar    *multipart.FileHeader `file:"avatar"`
//	}
func Form() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		ct := r.Header.Get("Content-Type")
		if ct == "" {
			return fmt.Errorf("%w: expected a form body", ErrMissingContentType)
		}
		mediaType, params, err := mime.ParseMediaType(ct)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidForm, err)
		}

		var (
			values map[string][]string
			files  map[string][]*multipart.FileHeader
		)
		switch mediaType {
		case "application/x-www-form-urlencoded":
			if err := r.ParseForm(); err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidForm, err)
			}
			values = r.PostForm
		case "multipart/form-data":
			if params["boundary"] == "" {
				return fmt.Errorf("%w: missing boundary", ErrInvalidForm)
			}
			if err := r.ParseMultipartForm(DefaultMaxMemory); err != nil {
				var maxErr *http.MaxBytesError
				if errors.As(err, &maxErr) {
					return fmt.Errorf("%w: %v", ErrBodyTooLarge, err)
				}
				return fmt.Errorf("%w: %v", ErrInvalidForm, err)
			}
			values = r.MultipartForm.Value
			files = r.MultipartForm.File
		default:
			return fmt.Errorf("%w: got %s, expected a form body", ErrUnsupportedMediaType, mediaType)
		}

		if err := bindToStruct(v, "form", onlyTagged(v, "form", values), ErrInvalidForm); err != nil {
			return err
		}
		return bindFiles(v, files)
	}
}

// onlyTagged drops values for untagged fields so form binding never fills a
// field by accident from its lower-cased name.
func onlyTagged(v any, tagName string, values map[string][]string) map[string][]string {
	tagged, err := taggedValues(v, tagName, func(name string) []string { return values[name] })
	if err != nil {
		return nil
	}
	return tagged
}

func bindFiles(v any, files map[string][]*multipart.FileHeader) error {
	if len(files) == 0 {
		return nil
	}
	rv, err := structValue(v, ErrInvalidForm)
	if err != nil {
		return err
	}
	rt := rv.Type()

	for i := range rv.NumField() {
		field := rv.Field(i)
		tag := rt.Field(i).Tag.Get("file")
		if tag == "" || tag == "-" || !field.CanSet() {
			continue
		}
		headers := files[tag]
		if len(headers) == 0 {
			continue
		}

		switch {
		case field.Type() == fileHeaderType:
			field.Set(reflect.ValueOf(headers[0]))
		case field.Kind() == reflect.Slice && field.Type().Elem() == fileHeaderType:
			field.Set(reflect.ValueOf(headers))
		default:
			return fmt.Errorf("%w: field %s: unsupported file field type %s", ErrInvalidForm, strings.ToLower(rt.Field(i).Name), field.Type())
		}
	}
	return nil
}
