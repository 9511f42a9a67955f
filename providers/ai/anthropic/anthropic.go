package anthropic

import (
	"net/http"
	"strings"

	"github.com/leofalp/llmwire/providers/ai"
)

const (
	defaultBaseURL      = "https://api.anthropic.com/v1"
	messagesEndpoint    = "/messages"
	countTokensEndpoint = "/messages/count_tokens"
	modelsEndpoint      = "/models"

	// anthropicVersion pins the API version sent with every request.
	anthropicVersion = "2023-06-01"

	// FinishReasonMessageStop is captured on the typed path when a
	// message_stop event ends the stream.
	FinishReasonMessageStop = "message_stop_event"
	// FinishReasonErrorEvent is captured for an error event without a type.
	FinishReasonErrorEvent = "error_event"
)

// Dialect speaks the Messages wire format.
type Dialect struct{}

var (
	_ ai.Dialect          = (*Dialect)(nil)
	_ ai.TypedEventMapper = (*Dialect)(nil)
	_ ai.ModelLister      = (*Dialect)(nil)
	_ ai.TokenCounter     = (*Dialect)(nil)
)

// New returns the Anthropic dialect.
func New() *Dialect {
	return &Dialect{}
}

func (d *Dialect) Provider() ai.ProviderType {
	return ai.ProviderAnthropic
}

func (d *Dialect) DefaultBaseURL() string {
	return defaultBaseURL
}

func (d *Dialect) CompletionURL(baseURL, _, _ string, _ bool) string {
	return strings.TrimRight(baseURL, "/") + messagesEndpoint
}

// Authorize sets x-api-key (Anthropic does not use Bearer tokens) and the
// version header.
func (d *Dialect) Authorize(header http.Header, apiKey string) {
	if apiKey != "" {
		header.Set("x-api-key", apiKey)
	}
	header.Set("anthropic-version", anthropicVersion)
}

func (d *Dialect) ModelsURL(baseURL, _ string) string {
	return strings.TrimRight(baseURL, "/") + modelsEndpoint
}

func (d *Dialect) DecodeModels(body []byte) ([]ai.Model, error) {
	return ai.DecodeModelList(body)
}
