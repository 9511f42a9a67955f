package observability

// --- LLM Attributes ---

const (
	// AttrLLMProvider is the dialect in use ("openai", "gemini", "anthropic")
	AttrLLMProvider = "llm.provider"

	// AttrLLMModel is the model identifier
	AttrLLMModel = "llm.model"

	// AttrLLMEndpoint is the API endpoint URL with credentials removed
	AttrLLMEndpoint = "llm.endpoint"

	// AttrLLMFinishReason is the reason the generation finished
	AttrLLMFinishReason = "llm.finish_reason"

	// AttrLLMTemperature is the sampling temperature, when the request sets one
	AttrLLMTemperature = "llm.temperature"

	// AttrLLMStreaming is true for SSE calls
	AttrLLMStreaming = "llm.streaming"

	// AttrLLMTokenParam is the token-limit field used for the request
	AttrLLMTokenParam = "llm.token_param" // #nosec G101 -- Not a credential

	// AttrLLMTokenParamPrevious is the token-limit field a server rejected
	AttrLLMTokenParamPrevious = "llm.token_param.previous" // #nosec G101 -- Not a credential

	// AttrLLMTokensInput is a token count returned by a counting endpoint
	AttrLLMTokensInput = "llm.tokens.input" // #nosec G101 -- Not a credential

	// AttrLLMModelsCount is the number of models returned by a listing
	AttrLLMModelsCount = "llm.models.count"
)

// --- Stream Attributes ---

const (
	// AttrStreamFrames is the number of SSE frames processed
	AttrStreamFrames = "stream.frames"

	// AttrStreamCancelled is true when the caller stopped the stream
	AttrStreamCancelled = "stream.cancelled"
)

// --- HTTP Attributes ---

const (
	AttrHTTPMethod          = "http.method"
	AttrHTTPStatusCode      = "http.status_code"
	AttrHTTPURL             = "http.url"
	AttrHTTPRequestBodySize = "http.request.body.size"
)

// --- File Attributes ---

const (
	AttrFileName     = "file.name"
	AttrFileMIMEType = "file.mime_type"
	AttrFileSize     = "file.size"
)

// --- General Attributes ---

const (
	AttrError             = "error"
	AttrDuration          = "duration"
	AttrStatus            = "status"
	AttrStatusDescription = "status_description"
)

// --- Span Names ---

const (
	SpanComplete    = "llm.complete"
	SpanStream      = "llm.stream"
	SpanListModels  = "llm.list_models"
	SpanCountTokens = "llm.count_tokens" // #nosec G101 -- Not a credential
	SpanUploadFile  = "llm.upload_file"
)

// --- Event Names ---

const (
	EventLLMRequestStart    = "llm.request.start"
	EventLLMRequestEnd      = "llm.request.end"
	EventTokenParamFallback = "llm.token_param.fallback" // #nosec G101 -- Not a credential
	EventStreamCancelled    = "stream.cancelled"
	EventStreamFinalized    = "stream.finalized"
)

// --- Metric Names ---

const (
	MetricRequestCount       = "llmwire.client.request.count"
	MetricRequestDuration    = "llmwire.client.request.duration"
	MetricTokenParamFallback = "llmwire.client.token_param.fallback" // #nosec G101 -- Not a credential
	MetricStreamFrames       = "llmwire.stream.frames"
)

// --- Conversation Attributes ---

const (
	AttrMessageRole        = "conversation.message.role"
	AttrMessageParts       = "conversation.message.parts"
	AttrConversationLength = "conversation.length"

	EventConversationAppend = "conversation.append"
	EventConversationClear  = "conversation.clear"
)
