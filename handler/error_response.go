package handler

import "net/http"

// errorResponse defers to the error handler so handlers can return errors
// as responses.
type errorResponse struct {
	err error
}

func (e errorResponse) Render(http.ResponseWriter, *http.Request) error {
	return e.err
}

// Error returns a Response that routes err to the configured error handler.
// A nil err yields Success.
func Error(err error) Response {
	if err == nil {
		return Success()
	}
	return errorResponse{err: err}
}
