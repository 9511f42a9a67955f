package mockserver

import "net/http"

// listModels serves GET /models. Gemini callers, recognized by the key query
// parameter, get the {"models":[...]} listing; others get {"data":[...]}.
func (s *Server) listModels(w http.ResponseWriter, r *http.Request) {
	gemini := r.URL.Query().Has("key")

	switch scenario := scenarioOf(r); scenario {
	case ScenarioEmptyList:
		writeJSON(w, http.StatusOK, map[string]any{"object": "list", "data": []any{}})
		return
	case ScenarioRateLimitListModels:
		writeJSON(w, http.StatusTooManyRequests, openAIError("Rate limit exceeded", "rate_limit_error", http.StatusTooManyRequests))
		return
	case ScenarioAuthFailureOpenAI, ScenarioAuthFailureGemini:
		writeJSON(w, http.StatusUnauthorized, openAIError("Invalid Authentication", "invalid_request_error", http.StatusUnauthorized))
		return
	case ScenarioAuthFailureAnthropic:
		writeJSON(w, http.StatusUnauthorized, anthropicError("authentication_error", "Authentication Error"))
		return
	}

	if gemini {
		writeJSON(w, http.StatusOK, map[string]any{"models": []any{
			map[string]any{
				"name": "models/gemini-2.0-flash", "displayName": "Gemini 2.0 Flash", "version": "2.0",
				"inputTokenLimit": 1048576, "outputTokenLimit": 8192,
			},
			map[string]any{
				"name": "models/gemini-1.5-pro", "displayName": "Gemini 1.5 Pro", "version": "001",
				"inputTokenLimit": 2097152, "outputTokenLimit": 8192,
			},
		}})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"object": "list", "data": []any{
		map[string]any{"id": "mock-model-large", "object": "model", "display_name": "Mock Large"},
		map[string]any{"id": "mock-model-small", "object": "model", "display_name": "Mock Small"},
	}})
}
