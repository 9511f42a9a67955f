package client

import (
	"fmt"
	"net/http"

	"github.com/leofalp/llmwire/providers/ai"
	"github.com/leofalp/llmwire/providers/observability"
)

// Option configures a Client.
type Option func(*Client) error

// WithAPIKey overrides the key read from the environment.
func WithAPIKey(apiKey string) Option {
	return func(c *Client) error {
		c.apiKey = apiKey
		return nil
	}
}

// WithBaseURL overrides the API base URL, for example to target a compatible
// server or a mock.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) error {
		c.baseURL = baseURL
		return nil
	}
}

// WithUploadBaseURL sets the base URL for file uploads when it differs from
// the API base URL.
func WithUploadBaseURL(baseURL string) Option {
	return func(c *Client) error {
		c.uploadBaseURL = baseURL
		return nil
	}
}

// WithHTTPClient sets the HTTP client used for every request.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) error {
		if httpClient == nil {
			return fmt.Errorf("http client must not be nil")
		}
		c.httpClient = httpClient
		return nil
	}
}

// WithAppInfo prefixes the User-Agent with the calling application, giving
// "name/version (llmwire/x.y.z)", or "name (llmwire/x.y.z)" without a version.
func WithAppInfo(name, version string) Option {
	return func(c *Client) error {
		switch {
		case name == "":
		case version == "":
			c.userAgent = fmt.Sprintf("%s (llmwire/%s)", name, Version)
		default:
			c.userAgent = fmt.Sprintf("%s/%s (llmwire/%s)", name, version, Version)
		}
		return nil
	}
}

// WithObserver enables spans, metrics and logs for every call.
func WithObserver(observer observability.Provider) Option {
	return func(c *Client) error {
		c.observer = observer
		return nil
	}
}

// WithTokenParam sets the initial token-limit field. Starting at
// ai.TokenParamMaxTokens disables the fallback probe.
func WithTokenParam(param ai.TokenParam) Option {
	return func(c *Client) error {
		c.tokenParam = param
		return nil
	}
}

// WithMaxBufferSize bounds the SSE frame buffer of streaming calls.
func WithMaxBufferSize(size int) Option {
	return func(c *Client) error {
		if size < 0 {
			return fmt.Errorf("buffer size must not be negative, got %d", size)
		}
		c.maxBufferSize = size
		return nil
	}
}

// WithMiddleware appends HTTP middlewares. The first one given is the
// outermost wrapper.
func WithMiddleware(middlewares ...Middleware) Option {
	return func(c *Client) error {
		for i, m := range middlewares {
			if m == nil {
				return fmt.Errorf("middleware at index %d is nil", i)
			}
		}
		c.middlewares = append(c.middlewares, middlewares...)
		return nil
	}
}
