package utils

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewJSONRequest_SetsHeaders(t *testing.T) {
	req, err := NewJSONRequest(context.Background(), http.MethodPost, "http://example.test/v1", []byte(`{}`),
		HeaderOption{Key: "x-api-key", Value: "secret"})
	if err != nil {
		t.Fatalf("NewJSONRequest() error = %v", err)
	}
	if got := req.Header.Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", got)
	}
	if got := req.Header.Get("x-api-key"); got != "secret" {
		t.Errorf("x-api-key = %q, want secret", got)
	}

	req, err = NewJSONRequest(context.Background(), http.MethodGet, "http://example.test/v1/models", nil)
	if err != nil {
		t.Fatalf("NewJSONRequest() error = %v", err)
	}
	if got := req.Header.Get("Content-Type"); got != "" {
		t.Errorf("GET without body should not set Content-Type, got %q", got)
	}
}

func TestSend_ReturnsResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		fmt.Fprint(w, "short and stout")
	}))
	defer server.Close()

	req, _ := NewJSONRequest(context.Background(), http.MethodGet, server.URL, nil)
	res, err := Send(context.Background(), server.Client(), req)
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	defer CloseWithLog(res.Body, server.URL)

	body, err := ReadLimited(res.Body)
	if err != nil {
		t.Fatalf("ReadLimited() error = %v", err)
	}
	if res.StatusCode != http.StatusTeapot || string(body) != "short and stout" {
		t.Errorf("got %d %q", res.StatusCode, body)
	}
	if IsSuccess(res.StatusCode) {
		t.Error("418 should not be a success status")
	}
}

func TestSend_PropagatesTransportError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req, _ := NewJSONRequest(ctx, http.MethodGet, "http://127.0.0.1:1/unreachable", nil)
	_, err := Send(ctx, nil, req)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Send() error = %v, want context.Canceled", err)
	}
}

func TestRedactURL(t *testing.T) {
	got := RedactURL("https://example.test/v1beta/models/m:streamGenerateContent?key=abc&alt=sse")
	want := "https://example.test/v1beta/models/m:streamGenerateContent?alt=sse&key=REDACTED"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	plain := "https://api.example.test/v1/chat/completions"
	if got := RedactURL(plain); got != plain {
		t.Errorf("got %q, want unchanged URL", got)
	}
}
