package openai

import (
	"net/http"
	"strings"

	"github.com/leofalp/llmwire/providers/ai"
)

const (
	defaultBaseURL          = "https://api.openai.com/v1"
	chatCompletionsEndpoint = "/chat/completions"
	modelsEndpoint          = "/models"
	filesEndpoint           = "/files"

	// doneMarker is the data payload that ends a stream.
	doneMarker = "[DONE]"
	// FinishReasonDoneMarker is captured when a stream ends on the marker
	// without having reported a finish reason.
	FinishReasonDoneMarker = "done_marker"

	// uploadPurpose is the purpose sent with file uploads.
	uploadPurpose = "user_data"
)

// Dialect speaks the chat-completions wire format.
type Dialect struct{}

var (
	_ ai.Dialect            = (*Dialect)(nil)
	_ ai.TokenParamFallback = (*Dialect)(nil)
	_ ai.ModelLister        = (*Dialect)(nil)
	_ ai.FileUploader       = (*Dialect)(nil)
)

// New returns the OpenAI dialect.
func New() *Dialect {
	return &Dialect{}
}

func (d *Dialect) Provider() ai.ProviderType {
	return ai.ProviderOpenAI
}

func (d *Dialect) DefaultBaseURL() string {
	return defaultBaseURL
}

func (d *Dialect) CompletionURL(baseURL, _, _ string, _ bool) string {
	return strings.TrimRight(baseURL, "/") + chatCompletionsEndpoint
}

func (d *Dialect) Authorize(header http.Header, apiKey string) {
	if apiKey != "" {
		header.Set("Authorization", "Bearer "+apiKey)
	}
}

func (d *Dialect) ModelsURL(baseURL, _ string) string {
	return strings.TrimRight(baseURL, "/") + modelsEndpoint
}

func (d *Dialect) DecodeModels(body []byte) ([]ai.Model, error) {
	return ai.DecodeModelList(body)
}
