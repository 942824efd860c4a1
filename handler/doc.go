// Package handler adapts typed handler functions to net/http.
//
// Wrap binds the request into R with the configured binders, calls the
// handler and renders the returned Response. Errors from any step go through
// the ErrorHandler, which answers
//
//	{"success": false, "error": "<message>", "code": "<code>"}
//
// using the status of a core.HTTPError, 422 for validator.ValidationErrors,
// 4xx for binder failures and a generic 500 for everything else.
package handler
