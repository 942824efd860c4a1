// Package cookie wraps net/http cookies with a Manager that carries default
// attributes (path, domain, max age, Secure, HttpOnly, SameSite).
//
//	m := cookie.New(cookie.WithDomain("example.com"), cookie.WithSecure(true))
//	m.Set(w, "session", value, cookie.WithMaxAge(3600))
//	v, err := m.Get(r, "session") // cookie.ErrCookieNotFound when absent
//	m.Delete(w, "session")
package cookie
