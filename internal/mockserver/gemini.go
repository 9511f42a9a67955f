package mockserver

import (
	"net/http"

	"github.com/gorilla/mux"
)

func geminiAuthFailure(w http.ResponseWriter, r *http.Request) bool {
	if scenarioOf(r) != ScenarioAuthFailureGemini {
		return false
	}
	writeJSON(w, http.StatusUnauthorized, map[string]any{"error": map[string]any{
		"code": http.StatusUnauthorized, "message": "Invalid Authentication", "status": "UNAUTHENTICATED",
	}})
	return true
}

func geminiCandidate(text, finishReason string) map[string]any {
	candidate := map[string]any{
		"content": map[string]any{"role": "model", "parts": []any{map[string]any{"text": text}}},
		"index":   0,
	}
	if finishReason != "" {
		candidate["finishReason"] = finishReason
	}
	return map[string]any{"candidates": []any{candidate}, "modelVersion": ""}
}

// geminiGenerate serves POST /models/{model}:generateContent.
func (s *Server) geminiGenerate(w http.ResponseWriter, r *http.Request) {
	readJSON(r)
	if geminiAuthFailure(w, r) {
		return
	}
	response := geminiCandidate(MockReply, "STOP")
	response["modelVersion"] = mux.Vars(r)["model"]
	writeJSON(w, http.StatusOK, response)
}

// geminiStream serves POST /models/{model}:streamGenerateContent?alt=sse.
// Frames end with CRLF pairs, as the real API sends them.
func (s *Server) geminiStream(w http.ResponseWriter, r *http.Request) {
	readJSON(r)
	if geminiAuthFailure(w, r) {
		return
	}

	sw := newSSEWriter(w, s.streamDelay)
	tokens := replyTokens()
	for i, token := range tokens {
		reason := ""
		if i == len(tokens)-1 {
			reason = "STOP"
		}
		if err := sw.data(geminiCandidate(token, reason), "\r\n\r\n"); err != nil {
			return
		}
	}
}

// geminiCountTokens serves POST /models/{model}:countTokens.
func (s *Server) geminiCountTokens(w http.ResponseWriter, r *http.Request) {
	_, size := readJSON(r)
	if geminiAuthFailure(w, r) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"totalTokens": estimateTokens(size)})
}
