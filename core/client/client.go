package client

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/leofalp/llmwire/providers/ai"
	"github.com/leofalp/llmwire/providers/ai/anthropic"
	"github.com/leofalp/llmwire/providers/ai/gemini"
	"github.com/leofalp/llmwire/providers/ai/openai"
	"github.com/leofalp/llmwire/providers/observability"
)

// Version is reported in the User-Agent header.
const Version = "1.0.0"

// Client holds the connection settings for one provider and the token-limit
// field preference discovered while talking to it.
type Client struct {
	dialect       ai.Dialect
	apiKey        string
	baseURL       string
	uploadBaseURL string
	userAgent     string
	httpClient    *http.Client
	observer      observability.Provider
	tokenParam    ai.TokenParam
	maxBufferSize int
	middlewares   []Middleware
	do            DoFunc
}

// New creates a client for provider. Unless overridden by options, the API key
// is read from <PROVIDER>_API_KEY and the base URL from <PROVIDER>_API_BASE_URL,
// falling back to the provider's public endpoint.
func New(provider ai.ProviderType, opts ...Option) (*Client, error) {
	dialect, err := dialectFor(provider)
	if err != nil {
		return nil, err
	}
	return NewWithDialect(dialect, opts...)
}

// NewWithDialect creates a client for any Dialect implementation.
func NewWithDialect(dialect ai.Dialect, opts ...Option) (*Client, error) {
	if dialect == nil {
		return nil, fmt.Errorf("dialect must not be nil")
	}

	envPrefix := strings.ToUpper(string(dialect.Provider()))
	c := &Client{
		dialect:    dialect,
		apiKey:     os.Getenv(envPrefix + "_API_KEY"),
		baseURL:    os.Getenv(envPrefix + "_API_BASE_URL"),
		userAgent:  "llmwire/" + Version,
		httpClient: &http.Client{},
		tokenParam: ai.TokenParamMaxCompletionTokens,
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.baseURL == "" {
		c.baseURL = dialect.DefaultBaseURL()
		if c.uploadBaseURL == "" && dialect.Provider() == ai.ProviderGemini {
			c.uploadBaseURL = gemini.DefaultUploadBaseURL
		}
	}
	if c.uploadBaseURL == "" {
		c.uploadBaseURL = c.baseURL
	}

	c.do = buildChain(c.send, c.middlewares)
	return c, nil
}

func dialectFor(provider ai.ProviderType) (ai.Dialect, error) {
	switch provider {
	case ai.ProviderOpenAI:
		return openai.New(), nil
	case ai.ProviderGemini:
		return gemini.New(), nil
	case ai.ProviderAnthropic:
		return anthropic.New(), nil
	}
	return nil, fmt.Errorf("unsupported provider %q", provider)
}

// Provider returns the dialect's provider tag.
func (c *Client) Provider() ai.ProviderType {
	return c.dialect.Provider()
}

// BaseURL returns the API base URL in use.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// UserAgent returns the User-Agent header value sent with every request.
func (c *Client) UserAgent() string {
	return c.userAgent
}

// TokenParam returns the current token-limit field preference.
func (c *Client) TokenParam() ai.TokenParam {
	return c.tokenParam
}
