// mockserver serves the mock OpenAI, Gemini and Anthropic APIs from
// internal/mockserver on a TCP address. The API key of each request selects
// a failure scenario; any other key gets a successful reply.
//
// Usage:
//
//	mockserver --addr 127.0.0.1:8089
//	OPENAI_API_BASE_URL=http://127.0.0.1:8089/v1 OPENAI_API_KEY=ABRUPT_STREAM llmwire stream "hi"
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/leofalp/llmwire/internal/mockserver"
	slogobs "github.com/leofalp/llmwire/providers/observability/slog"
)

func main() {
	flagSet := pflag.NewFlagSet("mockserver", pflag.ContinueOnError)
	addr := flagSet.String("addr", "127.0.0.1:8089", "listen address")
	delay := flagSet.Duration("stream-delay", 20*time.Millisecond, "pause between streamed chunks")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slogobs.LevelFromEnv()})))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := mockserver.New(*addr, mockserver.WithStreamDelay(*delay))
	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()
	slog.Info("mock server listening", "addr", *addr)

	select {
	case <-ctx.Done():
		slog.Info("shutting down...")
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	case err := <-serveErr:
		slog.Error("mock server error", "error", err)
		os.Exit(1)
	}

	slog.Info("mock server stopped")
}
