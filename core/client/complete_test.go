package client

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/leofalp/llmwire/providers/ai"
)

func TestComplete_Success(t *testing.T) {
	c := newTestClient(t, ai.ProviderOpenAI, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Hello there"},"finish_reason":"stop"}]}`))
	})

	response, err := c.Complete(context.Background(), userConfig("hi"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if response.Text() != "Hello there" {
		t.Errorf("got %q, want %q", response.Text(), "Hello there")
	}
	if response.FinishReason != "stop" {
		t.Errorf("got finish reason %q, want %q", response.FinishReason, "stop")
	}
	if response.StatusCode != http.StatusOK || response.Failed() {
		t.Errorf("got %+v", response)
	}
}

func TestComplete_Failures(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantParts  []string
		rejected   []string
		noContent  bool
	}{
		{
			name:       "rate limited",
			status:     http.StatusTooManyRequests,
			body:       `{"error":{"message":"Rate limit exceeded","type":"rate_limit_error"}}`,
			wantStatus: http.StatusTooManyRequests,
			wantParts:  []string{"HTTP error 429: Rate limit exceeded"},
		},
		{
			name:       "html gateway page",
			status:     http.StatusInternalServerError,
			body:       `<html><body><h1>Internal Server Error</h1></body></html>`,
			wantStatus: http.StatusInternalServerError,
			wantParts:  []string{"HTTP error 500. Body:", "Internal Server Error"},
			rejected:   []string{"<h1>"},
		},
		{
			name:       "empty error body",
			status:     http.StatusBadGateway,
			wantStatus: http.StatusBadGateway,
			wantParts:  []string{"HTTP error 502. (no response body)"},
		},
		{
			name:       "error object in 2xx body",
			status:     http.StatusOK,
			body:       `{"error":{"message":"model overloaded"}}`,
			wantStatus: http.StatusOK,
			wantParts:  []string{"API error (HTTP 200): model overloaded"},
		},
		{
			name:       "empty success body",
			status:     http.StatusOK,
			wantStatus: http.StatusOK,
			wantParts:  []string{"Empty response body."},
			noContent:  true,
		},
		{
			name:       "unrecognized success body",
			status:     http.StatusOK,
			body:       `{"unexpected":true}`,
			wantStatus: http.StatusOK,
			wantParts:  []string{`Body: {"unexpected":true}`},
			noContent:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, ai.ProviderOpenAI, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			response, err := c.Complete(context.Background(), userConfig("hi"))

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("got %T (%v), want *APIError", err, err)
			}
			if apiErr.StatusCode != tt.wantStatus {
				t.Errorf("got status %d, want %d", apiErr.StatusCode, tt.wantStatus)
			}
			for _, part := range tt.wantParts {
				if !strings.Contains(apiErr.Message, part) {
					t.Errorf("got %q, want it to contain %q", apiErr.Message, part)
				}
			}
			for _, part := range tt.rejected {
				if strings.Contains(apiErr.Message, part) {
					t.Errorf("got %q, must not contain %q", apiErr.Message, part)
				}
			}
			if errors.Is(err, ErrNoContent) != tt.noContent {
				t.Errorf("errors.Is(err, ErrNoContent) = %v, want %v", !tt.noContent, tt.noContent)
			}
			if response == nil || response.Error != apiErr.Message {
				t.Errorf("response.Error does not mirror the returned error: %+v", response)
			}
		})
	}
}

func TestComplete_TransportFailure(t *testing.T) {
	c, err := New(ai.ProviderOpenAI, WithAPIKey("k"), WithBaseURL("http://127.0.0.1:1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	response, err := c.Complete(context.Background(), userConfig("hi"))
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("got %T, want *APIError", err)
	}
	if apiErr.StatusCode != 0 || !strings.HasPrefix(apiErr.Message, "request failed: ") {
		t.Errorf("got %+v", apiErr)
	}
	if response.StatusCode != 0 {
		t.Errorf("got status %d, want 0", response.StatusCode)
	}
}
