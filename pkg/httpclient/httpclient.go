package httpclient

import (
	"net/http"
	"time"
)

type userAgentTransport struct {
	transport http.RoundTripper
	userAgent string
}

// RoundTrip sets the User-Agent header on a clone of req
func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone so the caller's headers are never mutated
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.userAgent)
	return t.transport.RoundTrip(req)
}

// New returns an http client that identifies itself as service/version
func New(service, version string, timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: &userAgentTransport{
			transport: http.DefaultTransport,
			userAgent: service + "/" + version,
		},
		Timeout: timeout,
	}
}
