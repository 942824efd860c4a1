// Package templates holds the transactional email bodies. Text lives in the
// embedded copy.yaml catalogue; markup lives in the .templ files and the
// generated *_templ.go components.
package templates

//go:generate templ generate
