// Package app manages OAuth client registrations. Every app has exactly one
// secret and a redirect URL allowlist.
//
// Ownership is checked two ways: Update looks the app up scoped to the
// caller, so foreign apps are "not found", while Remove compares owners
// explicitly and answers ErrAppNotBelongToUser. Secret rotation and
// allowlist edits take only the app id.
package app
