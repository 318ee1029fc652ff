package chatsonic

import (
	"net/http"
	"time"
)

// Endpoint defaults.
const (
	DefaultBaseURL = "https://api.writesonic.com"
	DefaultEngine  = "premium"

	chatPath = "/v2/business/content/chatsonic"
)

// Option configures a Client.
type Option func(*Client)

// WithAPIKey sets the X-API-KEY header value.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithBaseURL overrides the API host, mainly for tests.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithEngine selects the engine query parameter.
func WithEngine(engine string) Option {
	return func(c *Client) { c.engine = engine }
}

// WithTimeout bounds each request. Zero disables the timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithHTTPClient swaps the underlying transport client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}
