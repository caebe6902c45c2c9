// Package ownhttp decorates the http clients used to talk to the
// authentication services (User-Agent header, request throttling).
package ownhttp

import (
	"net/http"
)

// UserAgent is sent with every request
const UserAgent = "mcauth (https://github.com/mcauth/mcauth)"

// New returns a new http.Client with the AddHeaderTransport (setting the User-Agent header)
func New() *http.Client {
	return &http.Client{Transport: NewAddHeaderTransport(nil)}
}

// AddHeaderTransport sets the User-Agent header on every request
type AddHeaderTransport struct {
	T http.RoundTripper
}

func (t *AddHeaderTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", UserAgent)
	}
	return t.T.RoundTrip(req)
}

// NewAddHeaderTransport returns a new AddHeaderTransport wrapping T
// (http.DefaultTransport if T is nil)
func NewAddHeaderTransport(T http.RoundTripper) *AddHeaderTransport {
	if T == nil {
		T = http.DefaultTransport
	}
	return &AddHeaderTransport{T}
}
