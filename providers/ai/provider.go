package ai

import (
	"context"
	"net/http"
)

// Dialect is implemented once per provider. A client selects its dialect when
// it is constructed and routes every provider-specific decision through it.
type Dialect interface {
	// Provider returns the dialect's tag.
	Provider() ProviderType

	// DefaultBaseURL is used when the client is not given one.
	DefaultBaseURL() string

	// CompletionURL returns the endpoint for a chat request.
	CompletionURL(baseURL, apiKey, model string, stream bool) string

	// Authorize sets authentication and version headers.
	Authorize(header http.Header, apiKey string)

	// BuildPayload serializes cfg to the provider's JSON body. tokenParam is
	// only consulted by dialects that support more than one token-limit field.
	BuildPayload(cfg RequestConfig, tokenParam TokenParam) ([]byte, error)

	// ExtractResponse pulls the primary text and finish reason from a complete
	// response body. ok is false when no primary text was found.
	ExtractResponse(body []byte) (text, finishReason string, ok bool)

	// ExtractError returns the provider error message embedded in body.
	ExtractError(body []byte) (string, bool)

	// MapFrame interprets one SSE frame for the generic callback path.
	MapFrame(event string, data []string) FrameResult
}

// FrameResult is what a Dialect extracted from one SSE frame.
type FrameResult struct {
	Token        string // Empty when the frame carried no text
	Final        bool   // The frame ends the stream
	FinishReason string // Candidate finish reason; the processor keeps the first one
	Err          string // Stream error to record; the processor keeps the first one
}

// TypedEventMapper is implemented by dialects that expose their SSE events
// directly to callers.
type TypedEventMapper interface {
	MapTypedFrame(event string, data []string) TypedFrameResult
}

// TypedFrameResult is what a TypedEventMapper produced for one frame.
type TypedFrameResult struct {
	Event        AnthropicEvent
	Final        bool
	FinishReason string
	Err          string
}

// TokenParamFallback is implemented by dialects that can recognize a rejected
// token-limit field in an error response.
type TokenParamFallback interface {
	// RejectsTokenParam reports whether an error response with the given
	// status and body says the provider does not support param.
	RejectsTokenParam(status int, body []byte, param TokenParam) bool
}

// ModelLister is implemented by dialects that can enumerate models.
type ModelLister interface {
	ModelsURL(baseURL, apiKey string) string
	DecodeModels(body []byte) ([]Model, error)
}

// TokenCounter is implemented by dialects with a token counting endpoint.
type TokenCounter interface {
	CountTokensURL(baseURL, apiKey, model string) string
	BuildCountTokensPayload(cfg RequestConfig) ([]byte, error)
	DecodeTokenCount(body []byte) (int, error)
}

// UploadFile describes a local file to send to a provider.
type UploadFile struct {
	Filename string
	MIMEType string
	Content  []byte
}

// FileUploader is implemented by dialects with a file storage endpoint.
type FileUploader interface {
	// NewUploadRequest builds the upload request. baseURL is the provider's
	// upload base, which may differ from the API base.
	NewUploadRequest(ctx context.Context, baseURL, apiKey string, file UploadFile) (*http.Request, error)
	DecodeUpload(body []byte, file UploadFile) (FileInfo, error)
}
