package mockserver

import (
	"net/http"

	"github.com/google/uuid"
)

func anthropicAuthFailure(w http.ResponseWriter, r *http.Request) bool {
	if scenarioOf(r) != ScenarioAuthFailureAnthropic {
		return false
	}
	writeJSON(w, http.StatusUnauthorized, anthropicError("authentication_error", "Authentication Error"))
	return true
}

// anthropicMessages serves POST /messages.
func (s *Server) anthropicMessages(w http.ResponseWriter, r *http.Request) {
	body, _ := readJSON(r)
	if anthropicAuthFailure(w, r) {
		return
	}

	model, _ := body["model"].(string)
	id := "msg_" + uuid.NewString()
	message := map[string]any{
		"id": id, "type": "message", "role": "assistant", "model": model,
		"stop_reason": nil, "stop_sequence": nil,
		"usage": map[string]any{"input_tokens": 10, "output_tokens": 1},
	}

	switch scenarioOf(r) {
	case ScenarioStreamErrorAnthropic:
		sw := newSSEWriter(w, s.streamDelay)
		_ = sw.event("message_start", map[string]any{"type": "message_start", "message": message})
		_ = sw.event("content_block_start", map[string]any{"type": "content_block_start", "index": 0, "content_block": map[string]any{"type": "text", "text": ""}})
		_ = sw.event("content_block_delta", textDelta("Partial"))
		_ = sw.event("error", anthropicError("overloaded_error", "Simulated mid-stream error."))
		return
	case ScenarioStreamPingAnthropic:
		s.anthropicStream(w, message, []string{"Hello", " World!"}, true)
		return
	}

	if stream, _ := body["stream"].(bool); stream {
		s.anthropicStream(w, message, replyTokens(), false)
		return
	}

	message["content"] = []any{map[string]any{"type": "text", "text": MockReply}}
	message["stop_reason"] = "end_turn"
	writeJSON(w, http.StatusOK, message)
}

// anthropicStream writes a complete message stream, with a ping after the
// first delta when ping is set.
func (s *Server) anthropicStream(w http.ResponseWriter, message map[string]any, tokens []string, ping bool) {
	sw := newSSEWriter(w, s.streamDelay)
	_ = sw.event("message_start", map[string]any{"type": "message_start", "message": message})
	_ = sw.event("content_block_start", map[string]any{"type": "content_block_start", "index": 0, "content_block": map[string]any{"type": "text", "text": ""}})
	for i, token := range tokens {
		if err := sw.event("content_block_delta", textDelta(token)); err != nil {
			return
		}
		if ping && i == 0 {
			_ = sw.event("ping", map[string]any{"type": "ping"})
		}
	}
	_ = sw.event("content_block_stop", map[string]any{"type": "content_block_stop", "index": 0})
	_ = sw.event("message_delta", map[string]any{
		"type":  "message_delta",
		"delta": map[string]any{"stop_reason": "end_turn", "stop_sequence": nil},
		"usage": map[string]any{"output_tokens": len(tokens)},
	})
	_ = sw.event("message_stop", map[string]any{"type": "message_stop"})
}

func textDelta(text string) map[string]any {
	return map[string]any{
		"type":  "content_block_delta",
		"index": 0,
		"delta": map[string]any{"type": "text_delta", "text": text},
	}
}

// anthropicCountTokens serves POST /messages/count_tokens.
func (s *Server) anthropicCountTokens(w http.ResponseWriter, r *http.Request) {
	_, size := readJSON(r)
	if anthropicAuthFailure(w, r) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"input_tokens": estimateTokens(size)})
}
