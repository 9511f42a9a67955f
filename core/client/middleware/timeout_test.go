package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"
)

// slowDo waits for sleep or the context before answering.
func slowDo(sleep time.Duration) func(context.Context, *http.Request) (*http.Response, error) {
	return func(ctx context.Context, req *http.Request) (*http.Response, error) {
		select {
		case <-time.After(sleep):
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(strings.NewReader("ok")),
				Request:    req,
			}, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func TestTimeoutMiddleware_CompletesBeforeTimeout(t *testing.T) {
	chain := NewTimeoutMiddleware(time.Second)(slowDo(0))

	resp, err := chain(context.Background(), newPost(t, "https://api.example.com", `{}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if string(body) != "ok" {
		t.Errorf("got %q, want %q", body, "ok")
	}
}

func TestTimeoutMiddleware_Expires(t *testing.T) {
	chain := NewTimeoutMiddleware(20 * time.Millisecond)(slowDo(time.Second))

	_, err := chain(context.Background(), newPost(t, "https://api.example.com", `{}`))
	if !errors.Is(err, ErrRequestTimeout) {
		t.Errorf("got %v, want ErrRequestTimeout", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("got %v, want wrapped context.DeadlineExceeded", err)
	}
}

func TestTimeoutMiddleware_CallerCancellationNotReportedAsTimeout(t *testing.T) {
	chain := NewTimeoutMiddleware(time.Second)(slowDo(time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := chain(ctx, newPost(t, "https://api.example.com", `{}`))
	if err == nil {
		t.Fatal("expected an error")
	}
	if errors.Is(err, ErrRequestTimeout) {
		t.Errorf("caller cancellation reported as timeout: %v", err)
	}
}

func TestTimeoutMiddleware_CancelsContextOnBodyClose(t *testing.T) {
	var seen context.Context
	next := func(ctx context.Context, req *http.Request) (*http.Response, error) {
		seen = ctx
		return slowDo(0)(ctx, req)
	}
	chain := NewTimeoutMiddleware(time.Minute)(next)

	resp, err := chain(context.Background(), newPost(t, "https://api.example.com", `{}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seen.Err() != nil {
		t.Fatal("context canceled before the body was closed")
	}

	resp.Body.Close()
	if !errors.Is(seen.Err(), context.Canceled) {
		t.Errorf("got %v, want context.Canceled after close", seen.Err())
	}
}
