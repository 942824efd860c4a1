// Package session carries opaque session values between the browser and the
// server. Session rows themselves live in the auth domain; this package only
// knows how to read, write and clear the value on HTTP messages.
//
// The cookie is HttpOnly, scoped to "/" and the configured domain, lives for
// 30 days by default and is Secure with SameSite=Strict in production
// (SameSite=Lax otherwise).
package session
