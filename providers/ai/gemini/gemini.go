package gemini

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/leofalp/llmwire/providers/ai"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	// DefaultUploadBaseURL is the media upload host matching defaultBaseURL.
	DefaultUploadBaseURL = "https://generativelanguage.googleapis.com/upload/v1beta"

	roleUser  = "user"
	roleModel = "model"
)

// Dialect speaks the generateContent wire format.
type Dialect struct{}

var (
	_ ai.Dialect      = (*Dialect)(nil)
	_ ai.ModelLister  = (*Dialect)(nil)
	_ ai.TokenCounter = (*Dialect)(nil)
	_ ai.FileUploader = (*Dialect)(nil)
)

// New returns the Gemini dialect.
func New() *Dialect {
	return &Dialect{}
}

func (d *Dialect) Provider() ai.ProviderType {
	return ai.ProviderGemini
}

func (d *Dialect) DefaultBaseURL() string {
	return defaultBaseURL
}

// CompletionURL returns {base}/models/{model}:generateContent?key=... or the
// streaming variant with alt=sse.
func (d *Dialect) CompletionURL(baseURL, apiKey, model string, stream bool) string {
	if stream {
		return modelURL(baseURL, model, "streamGenerateContent") + "?key=" + url.QueryEscape(apiKey) + "&alt=sse"
	}
	return modelURL(baseURL, model, "generateContent") + "?key=" + url.QueryEscape(apiKey)
}

// Authorize sets nothing: Gemini authenticates through the query string.
func (d *Dialect) Authorize(http.Header, string) {}

func (d *Dialect) ModelsURL(baseURL, apiKey string) string {
	return strings.TrimRight(baseURL, "/") + "/models?key=" + url.QueryEscape(apiKey)
}

func (d *Dialect) DecodeModels(body []byte) ([]ai.Model, error) {
	return ai.DecodeModelList(body)
}

func modelURL(baseURL, model, action string) string {
	return fmt.Sprintf("%s/models/%s:%s", strings.TrimRight(baseURL, "/"), strings.TrimPrefix(model, "models/"), action)
}
