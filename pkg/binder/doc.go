// Package binder decodes HTTP requests into typed structs for handler.Wrap.
//
// JSON reads application/json bodies, Query and Path read URL parameters and
// Form reads urlencoded or multipart bodies including file uploads. Binders
// return errors wrapping the package sentinels so the error handler can map
// them onto a status.
package binder
