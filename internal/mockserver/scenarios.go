package mockserver

import (
	"net/http"
	"strings"
)

// Scenario names, passed as the API key.
const (
	ScenarioNonJSONError         = "NON_JSON_ERROR"
	ScenarioAbruptStream         = "ABRUPT_STREAM"
	ScenarioRateLimit            = "RATE_LIMIT_COMPLETION"
	ScenarioAuthFailureOpenAI    = "AUTH_FAILURE_OPENAI"
	ScenarioAuthFailureGemini    = "AUTH_FAILURE_GEMINI"
	ScenarioAuthFailureAnthropic = "AUTH_FAILURE_ANTHROPIC"
	ScenarioStreamErrorAnthropic = "STREAM_ERROR_ANTHROPIC"
	ScenarioStreamPingAnthropic  = "STREAM_PING_ANTHROPIC"
	ScenarioLegacyTokenParam     = "LEGACY_TOKEN_PARAM" // #nosec G101 -- Not a credential
	ScenarioEmptyList            = "EMPTY_LIST"
	ScenarioRateLimitListModels  = "RATE_LIMIT_LIST_MODELS"
	ScenarioZeroByteFile         = "ZERO_BYTE_FILE"
	ScenarioLargeFileUpload      = "LARGE_FILE_UPLOAD"
)

// maxUploadSize is the size above which LARGE_FILE_UPLOAD rejects a file.
const maxUploadSize = 100 << 20

// MockReply is the text of every successful completion.
const MockReply = "Hello from the mock server!"

// scenarioOf reads the scenario from whichever credential the request carries.
func scenarioOf(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	if key := r.Header.Get("x-api-key"); key != "" {
		return key
	}
	return r.URL.Query().Get("key")
}

// replyTokens splits MockReply into the deltas of a streamed reply.
func replyTokens() []string {
	words := strings.SplitAfter(MockReply, " ")
	tokens := make([]string, 0, len(words))
	for _, w := range words {
		if w != "" {
			tokens = append(tokens, w)
		}
	}
	return tokens
}
