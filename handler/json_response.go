package handler

import (
	"encoding/json"
	"net/http"
)

// JSONResponse is the body of successful data responses.
type JSONResponse struct {
	Data any            `json:"data,omitempty"`
	Meta map[string]any `json:"meta,omitempty"`
}

// SuccessResponse is the body of successful mutations.
type SuccessResponse struct {
	Success bool `json:"success"`
}

type jsonResponse struct {
	status int
	body   any
}

func (j jsonResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	return writeJSON(w, j.status, j.body)
}

func writeJSON(w http.ResponseWriter, status int, body any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(body)
}

// JSONOption configures JSON.
type JSONOption func(*jsonResponse)

// WithJSONStatus overrides the 200 status.
func WithJSONStatus(status int) JSONOption {
	return func(r *jsonResponse) { r.status = status }
}

// WithJSONMeta attaches a meta object to a data response.
func WithJSONMeta(meta map[string]any) JSONOption {
	return func(r *jsonResponse) {
		if body, ok := r.body.(JSONResponse); ok {
			body.Meta = meta
			r.body = body
		}
	}
}

// JSON answers {"data": v}.
func JSON(v any, opts ...JSONOption) Response {
	r := &jsonResponse{status: http.StatusOK, body: JSONResponse{Data: v}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Success answers {"success": true}.
func Success() Response {
	return jsonResponse{status: http.StatusOK, body: SuccessResponse{Success: true}}
}
