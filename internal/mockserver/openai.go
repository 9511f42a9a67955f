package mockserver

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

// openAIChat serves POST /chat/completions.
func (s *Server) openAIChat(w http.ResponseWriter, r *http.Request) {
	body, _ := readJSON(r)

	switch scenarioOf(r) {
	case ScenarioNonJSONError:
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("<html><body><h1>500 Internal Server Error</h1></body></html>"))
		return
	case ScenarioAbruptStream:
		sw := newSSEWriter(w, s.streamDelay)
		_ = sw.data(map[string]any{
			"id":      "chatcmpl-" + uuid.NewString(),
			"object":  "chat.completion.chunk",
			"choices": []any{map[string]any{"index": 0, "delta": map[string]any{"role": "assistant"}}},
		}, "\n\n")
		// The second chunk is cut off mid-object and the connection closed.
		_ = sw.raw(`data: {"id":"truncated_chunk", "content":"partial`)
		return
	case ScenarioRateLimit:
		writeJSON(w, http.StatusTooManyRequests, openAIError("Rate limit exceeded", "rate_limit_error", http.StatusTooManyRequests))
		return
	case ScenarioAuthFailureOpenAI:
		writeJSON(w, http.StatusUnauthorized, openAIError("Invalid Authentication", "invalid_request_error", http.StatusUnauthorized))
		return
	case ScenarioLegacyTokenParam:
		if _, ok := body["max_completion_tokens"]; ok {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": map[string]any{
				"message": "Unsupported parameter: 'max_completion_tokens' is not supported with this model. Use 'max_tokens' instead.",
				"type":    "invalid_request_error",
				"param":   "max_completion_tokens",
				"code":    "unsupported_parameter",
			}})
			return
		}
	}

	model, _ := body["model"].(string)
	id := "chatcmpl-" + uuid.NewString()
	created := time.Now().Unix()

	if stream, _ := body["stream"].(bool); stream {
		sw := newSSEWriter(w, s.streamDelay)
		for _, token := range replyTokens() {
			if err := sw.data(map[string]any{
				"id": id, "object": "chat.completion.chunk", "created": created, "model": model,
				"choices": []any{map[string]any{"index": 0, "delta": map[string]any{"content": token}, "finish_reason": nil}},
			}, "\n\n"); err != nil {
				return
			}
		}
		_ = sw.data(map[string]any{
			"id": id, "object": "chat.completion.chunk", "created": created, "model": model,
			"choices": []any{map[string]any{"index": 0, "delta": map[string]any{}, "finish_reason": "stop"}},
		}, "\n\n")
		_ = sw.raw("data: [DONE]\n\n")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id": id, "object": "chat.completion", "created": created, "model": model,
		"choices": []any{map[string]any{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": MockReply},
			"finish_reason": "stop",
		}},
	})
}
