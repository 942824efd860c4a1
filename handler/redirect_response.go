package handler

import "net/http"

type redirectResponse struct {
	url    string
	status int
}

func (rr redirectResponse) Render(w http.ResponseWriter, r *http.Request) error {
	http.Redirect(w, r, rr.url, rr.status)
	return nil
}

// Redirect answers 302 Found to url.
func Redirect(url string) Response {
	return redirectResponse{url: url, status: http.StatusFound}
}

// RedirectWithStatus answers a redirect with a specific 3xx status.
func RedirectWithStatus(url string, status int) Response {
	return redirectResponse{url: url, status: status}
}
