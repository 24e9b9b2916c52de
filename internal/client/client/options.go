package client

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/bankcli/internal/logging"
)

// DefaultTimeout bounds every API call unless WithTimeout says otherwise.
const DefaultTimeout = 15 * time.Second

type Option func(*HTTPClient)

// WithTimeout sets the overall timeout of a single HTTP exchange.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) {
		c.http.Timeout = d
	}
}

// WithTransport swaps the underlying round tripper, e.g. for a caching transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *HTTPClient) {
		c.http.Transport = rt
	}
}

// WithHTTPClient replaces the whole *http.Client. Its Timeout is kept as is.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) {
		c.http = hc
	}
}

// WithHeader adds a header sent on every call.
func WithHeader(key, value string) Option {
	return func(c *HTTPClient) {
		c.headers.Set(key, value)
	}
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) {
		c.logger = l
	}
}

// WithRequestIDFunc overrides the X-Request-ID generator.
func WithRequestIDFunc(f func() string) Option {
	return func(c *HTTPClient) {
		c.requestID = f
	}
}
