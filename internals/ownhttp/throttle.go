package ownhttp

import (
	"net/http"

	"golang.org/x/time/rate"
)

// ThrottleTransport rate limits outgoing requests. The auth services
// (notably login.microsoftonline.com) answer bursts with slow_down
// responses, so requests are spaced out client side.
type ThrottleTransport struct {
	T       http.RoundTripper
	limiter *rate.Limiter
}

func (tt *ThrottleTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	err := tt.limiter.Wait(req.Context())
	if err != nil {
		return nil, err
	}

	return tt.T.RoundTrip(req)
}

func NewThrottleTransport(T http.RoundTripper, limiter *rate.Limiter) *ThrottleTransport {
	if T == nil {
		T = http.DefaultTransport
	}
	return &ThrottleTransport{T, limiter}
}

// NewThrottled returns a client that sends at most rps requests per
// second (with the UserAgent header set as well)
func NewThrottled(rps float64) *http.Client {
	limiter := rate.NewLimiter(rate.Limit(rps), 1)
	return &http.Client{
		Transport: NewThrottleTransport(NewAddHeaderTransport(nil), limiter),
	}
}
