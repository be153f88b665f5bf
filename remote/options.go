package remote

import (
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// Option is the interface for the options of the Client.
type Option interface {
	apply(*resty.Client)
}

type optionFunc func(*resty.Client)

func (f optionFunc) apply(c *resty.Client) {
	f(c)
}

// WithTimeout sets the timeout of every request.
func WithTimeout(timeout time.Duration) Option {
	return optionFunc(func(c *resty.Client) {
		c.SetTimeout(timeout)
	})
}

// WithToken sets the bearer token sent with every request.
func WithToken(token string) Option {
	return optionFunc(func(c *resty.Client) {
		if token != "" {
			c.SetAuthToken(token)
		}
	})
}

// WithUser sets the user whose items are loaded.
func WithUser(userID string) Option {
	return optionFunc(func(c *resty.Client) {
		c.SetHeader("X-User-ID", userID)
	})
}

// WithTransport sets the transport of the underlying HTTP client.
func WithTransport(transport http.RoundTripper) Option {
	return optionFunc(func(c *resty.Client) {
		c.SetTransport(transport)
	})
}
