// Package core defines HTTPError, the error type every domain package uses
// to describe failures that map onto an HTTP status and a stable code.
package core
