package middleware

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/leofalp/llmwire/core/client"
	"github.com/leofalp/llmwire/internal/utils"
)

// LogLevel controls how much detail the logging middleware emits per request.
type LogLevel int

const (
	// LogLevelMinimal logs only the method, redacted URL, status and duration.
	LogLevelMinimal LogLevel = iota

	// LogLevelStandard logs everything in Minimal plus the request body size
	// and response content type. This is the recommended default.
	LogLevelStandard

	// LogLevelVerbose logs everything in Standard plus the request body,
	// truncated to 500 characters.
	//
	// WARNING: DO NOT use LogLevelVerbose in production. It will log raw prompt
	// text, which may contain sensitive user data, secrets, or PII.
	LogLevelVerbose
)

// truncateLen is the maximum body length included in verbose log output.
const truncateLen = 500

// NewLoggingMiddleware creates a Middleware that emits structured slog entries
// before and after every provider request. Response bodies are never read, so
// streams pass through untouched; the completion entry is logged when headers
// arrive.
//
// The logger parameter must not be nil. Use slog.Default() if you have not
// configured a custom logger.
func NewLoggingMiddleware(logger *slog.Logger, level LogLevel) client.Middleware {
	return func(next client.DoFunc) client.DoFunc {
		return func(ctx context.Context, req *http.Request) (*http.Response, error) {
			logger.InfoContext(ctx, "llm http request", buildRequestAttrs(req, level)...)

			start := time.Now()
			resp, err := next(ctx, req)
			elapsed := time.Since(start)

			if err != nil {
				logger.ErrorContext(ctx, "llm http request failed",
					slog.String("method", req.Method),
					slog.String("url", utils.RedactURL(req.URL.String())),
					slog.Duration("duration", elapsed),
					slog.String("error", err.Error()),
				)
				return nil, err
			}

			attrs := []any{
				slog.String("method", req.Method),
				slog.String("url", utils.RedactURL(req.URL.String())),
				slog.Int("status", resp.StatusCode),
				slog.Duration("duration", elapsed),
			}
			if level >= LogLevelStandard {
				attrs = append(attrs, slog.String("content_type", resp.Header.Get("Content-Type")))
			}

			if utils.IsSuccess(resp.StatusCode) {
				logger.InfoContext(ctx, "llm http response", attrs...)
			} else {
				logger.WarnContext(ctx, "llm http error response", attrs...)
			}
			return resp, nil
		}
	}
}

// buildRequestAttrs returns slog attributes for an outgoing request, expanding
// detail according to the requested verbosity level.
func buildRequestAttrs(req *http.Request, level LogLevel) []any {
	attrs := []any{
		slog.String("method", req.Method),
		slog.String("url", utils.RedactURL(req.URL.String())),
	}

	if level >= LogLevelStandard {
		attrs = append(attrs, slog.Int64("body_size", req.ContentLength))
	}

	if level >= LogLevelVerbose {
		if body := peekBody(req); body != "" {
			attrs = append(attrs, slog.String("body", utils.TruncateString(body, truncateLen)))
		}
	}

	return attrs
}

// peekBody reads a copy of the request body without consuming it.
func peekBody(req *http.Request) string {
	if req.GetBody == nil {
		return ""
	}
	body, err := req.GetBody()
	if err != nil {
		return ""
	}
	defer body.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.LimitReader(body, truncateLen+1)); err != nil {
		return ""
	}
	return buf.String()
}
