package utils

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/leofalp/llmwire/providers/observability"
)

// MaxResponseBodySize caps how much of a non-streamed response body is read.
const MaxResponseBodySize = 10 << 20

// HeaderOption is an extra request header.
type HeaderOption struct {
	Key   string
	Value string
}

// NewJSONRequest builds a request with a JSON body. A nil body sends no
// content and no Content-Type.
func NewJSONRequest(ctx context.Context, method, url string, body []byte, headers ...HeaderOption) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, h := range headers {
		req.Header.Set(h.Key, h.Value)
	}
	return req, nil
}

// Send issues req and records request/response events on the span carried by
// ctx, if any. The caller owns the response body.
func Send(ctx context.Context, client *http.Client, req *http.Request) (*http.Response, error) {
	span := observability.SpanFromContext(ctx)

	httpClient := client
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	if span != nil {
		span.AddEvent("http.request.prepared",
			observability.String(observability.AttrHTTPMethod, req.Method),
			observability.String(observability.AttrHTTPURL, RedactURL(req.URL.String())),
			observability.Int64(observability.AttrHTTPRequestBodySize, req.ContentLength),
		)
	}

	requestStart := time.Now()
	res, err := httpClient.Do(req)
	requestDuration := time.Since(requestStart)

	if err != nil {
		if span != nil {
			span.AddEvent("http.request.error",
				observability.Error(err),
				observability.Duration("http.request.duration", requestDuration),
			)
		}
		return nil, err
	}

	if span != nil {
		span.AddEvent("http.response.headers",
			observability.Int(observability.AttrHTTPStatusCode, res.StatusCode),
			observability.Duration("http.request.duration", requestDuration),
		)
	}
	return res, nil
}

// ReadLimited reads at most MaxResponseBodySize bytes from r.
func ReadLimited(r io.Reader) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, MaxResponseBodySize))
}

// CloseWithLog closes body and logs a failure instead of returning it, so a
// close error never hides the primary result of a call.
func CloseWithLog(body io.Closer, url string) {
	if body == nil {
		return
	}
	if err := body.Close(); err != nil {
		slog.Warn("failed to close response body", "error", err.Error(), "url", RedactURL(url))
	}
}

// IsSuccess reports whether status is in the 2xx range.
func IsSuccess(status int) bool {
	return status >= 200 && status < 300
}

// RedactURL replaces the value of a "key" query parameter, which Gemini uses
// for authentication, so URLs can be logged.
func RedactURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	query := parsed.Query()
	if !query.Has("key") {
		return raw
	}
	query.Set("key", "REDACTED")
	parsed.RawQuery = query.Encode()
	return parsed.String()
}
