package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/leofalp/llmwire/providers/ai"
)

const rejectCompletionTokens = `{"error":{"message":"Unsupported parameter: 'max_completion_tokens' is not supported with this model. Use 'max_tokens' instead.","type":"invalid_request_error","param":"max_completion_tokens","code":"unsupported_parameter"}}`

// legacyServer rejects max_completion_tokens and answers requests using
// max_tokens with answer. It records the field used by every attempt.
func legacyServer(t *testing.T, attempts *[]string, answer func(w http.ResponseWriter)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var payload map[string]any
		if err := json.Unmarshal(raw, &payload); err != nil {
			t.Errorf("request body is not JSON: %v", err)
		}

		switch {
		case payload["max_completion_tokens"] != nil:
			*attempts = append(*attempts, "max_completion_tokens")
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(rejectCompletionTokens))
		case payload["max_tokens"] != nil:
			*attempts = append(*attempts, "max_tokens")
			answer(w)
		default:
			*attempts = append(*attempts, "none")
			answer(w)
		}
	}
}

func limitedConfig() ai.RequestConfig {
	cfg := userConfig("hi")
	cfg.MaxTokens = 64
	return cfg
}

func TestFallback_CompleteRetriesOnceWithMaxTokens(t *testing.T) {
	var attempts []string
	c := newTestClient(t, ai.ProviderOpenAI, legacyServer(t, &attempts, func(w http.ResponseWriter) {
		w.Write([]byte(`{"choices":[{"message":{"content":"ok"},"finish_reason":"stop"}]}`))
	}))

	response, err := c.Complete(context.Background(), limitedConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if response.Text() != "ok" {
		t.Errorf("got %q, want %q", response.Text(), "ok")
	}
	if strings.Join(attempts, ",") != "max_completion_tokens,max_tokens" {
		t.Errorf("got attempts %v", attempts)
	}
	if c.TokenParam() != ai.TokenParamMaxTokens {
		t.Errorf("preference not persisted: got %v", c.TokenParam())
	}

	// The next call starts with max_tokens directly.
	attempts = nil
	if _, err := c.Complete(context.Background(), limitedConfig()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Join(attempts, ",") != "max_tokens" {
		t.Errorf("got attempts %v on the second call, want [max_tokens]", attempts)
	}
}

func TestFallback_SecondRejectionIsSurfaced(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, ai.ProviderOpenAI, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(rejectCompletionTokens))
	})

	_, err := c.Complete(context.Background(), limitedConfig())
	if err == nil {
		t.Fatal("expected an error")
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("got %d requests, want exactly 2", got)
	}
	if !strings.Contains(err.Error(), "HTTP error 400") {
		t.Errorf("got %q, want the retried 400 surfaced", err.Error())
	}
}

func TestFallback_UnrelatedBadRequestIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, ai.ProviderOpenAI, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"messages must not be empty","type":"invalid_request_error"}}`))
	})

	_, err := c.Complete(context.Background(), limitedConfig())
	if err == nil || !strings.Contains(err.Error(), "HTTP error 400: messages must not be empty") {
		t.Errorf("got %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("got %d requests, want 1", got)
	}
	if c.TokenParam() != ai.TokenParamMaxCompletionTokens {
		t.Errorf("preference changed without a rejection: %v", c.TokenParam())
	}
}

func TestFallback_RangeErrorOnFieldIsNotRetried(t *testing.T) {
	const tooLarge = `{"error":{"message":"max_completion_tokens is too large: 200000. This model supports at most 16384 completion tokens, whereas you provided 200000.","type":"invalid_request_error","param":"max_completion_tokens","code":null}}`

	var calls atomic.Int32
	c := newTestClient(t, ai.ProviderOpenAI, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(tooLarge))
	})

	_, err := c.Complete(context.Background(), limitedConfig())
	if err == nil || !strings.Contains(err.Error(), "max_completion_tokens is too large") {
		t.Errorf("got %v, want the limit error surfaced", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("got %d requests, want 1", got)
	}
	if c.TokenParam() != ai.TokenParamMaxCompletionTokens {
		t.Errorf("preference changed on a range error: %v", c.TokenParam())
	}
}

func TestFallback_NotAttemptedForOtherDialects(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, ai.ProviderAnthropic, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"type":"error","error":{"type":"invalid_request_error","message":"max_completion_tokens: unsupported"}}`))
	})

	if _, err := c.Complete(context.Background(), limitedConfig()); err == nil {
		t.Fatal("expected an error")
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("got %d requests, want 1", got)
	}
}

func TestFallback_Streaming(t *testing.T) {
	var attempts []string
	c := newTestClient(t, ai.ProviderOpenAI, legacyServer(t, &attempts, func(w http.ResponseWriter) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte("data: {\"choices\":[{\"delta\":{\"content\":\"Hi\"}}]}\n\ndata: [DONE]\n\n"))
	}))

	rec := &recorder{}
	response, err := c.StreamCompletion(context.Background(), limitedConfig(), rec.callback)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.text() != "Hi" {
		t.Errorf("got %q, want %q", rec.text(), "Hi")
	}
	if len(rec.events) != 2 || !rec.events[1].IsFinal {
		t.Errorf("got %d events, want a token and one final", len(rec.events))
	}
	if strings.Join(attempts, ",") != "max_completion_tokens,max_tokens" {
		t.Errorf("got attempts %v", attempts)
	}
	if response.FinishReason != "done_marker" {
		t.Errorf("got finish reason %q", response.FinishReason)
	}
}
