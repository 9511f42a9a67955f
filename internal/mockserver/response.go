package mockserver

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// writeJSON encodes body with the given status.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Warn("mockserver: error writing response", "error", err)
	}
}

// openAIError is the {"error":{...}} shape shared by OpenAI and Gemini.
func openAIError(message, typ string, code int) map[string]any {
	inner := map[string]any{"message": message, "code": code}
	if typ != "" {
		inner["type"] = typ
	}
	return map[string]any{"error": inner}
}

// anthropicError is Anthropic's {"type":"error","error":{...}} shape.
func anthropicError(typ, message string) map[string]any {
	return map[string]any{
		"type":  "error",
		"error": map[string]any{"type": typ, "message": message},
	}
}

// readJSON decodes the request body into a generic map. A malformed body
// yields an empty map.
func readJSON(r *http.Request) (map[string]any, int) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return map[string]any{}, 0
	}
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return map[string]any{}, len(raw)
	}
	return body, len(raw)
}

// estimateTokens approximates a token count from a request body size.
func estimateTokens(size int) int {
	return max(1, size/4)
}

// sseWriter writes and flushes SSE chunks. Flushing is a no-op when the
// underlying writer does not support it.
type sseWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
	delay   time.Duration
}

func newSSEWriter(w http.ResponseWriter, delay time.Duration) *sseWriter {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	sw := &sseWriter{w: w, delay: delay}
	if f, ok := w.(http.Flusher); ok {
		sw.flusher = f
	}
	return sw
}

// raw writes text verbatim.
func (sw *sseWriter) raw(text string) error {
	if _, err := io.WriteString(sw.w, text); err != nil {
		return err
	}
	if sw.flusher != nil {
		sw.flusher.Flush()
	}
	if sw.delay > 0 {
		time.Sleep(sw.delay)
	}
	return nil
}

// data writes one "data:" frame holding payload encoded as JSON.
func (sw *sseWriter) data(payload any, terminator string) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return sw.raw("data: " + string(encoded) + terminator)
}

// event writes one named frame.
func (sw *sseWriter) event(name string, payload any) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return sw.raw(fmt.Sprintf("event: %s\ndata: %s\n\n", name, encoded))
}
