package middleware

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/leofalp/llmwire/core/client"
)

// NewTimeoutMiddleware creates a Middleware that enforces a per-request
// deadline.
//
// The deadline covers the whole exchange, not just the time to the first
// byte: the context is canceled when the response body is closed, so a stream
// that stalls mid-way is aborted too. If the caller's context already has a
// shorter deadline, that deadline wins as per normal context semantics.
func NewTimeoutMiddleware(timeout time.Duration) client.Middleware {
	return func(next client.DoFunc) client.DoFunc {
		return func(ctx context.Context, req *http.Request) (*http.Response, error) {
			parent := ctx
			ctx, cancel := context.WithTimeout(ctx, timeout)

			resp, err := next(ctx, req.WithContext(ctx))
			if err != nil {
				cancel()
				if ctx.Err() != nil && parent.Err() == nil {
					return nil, fmt.Errorf("%w after %s: %w", ErrRequestTimeout, timeout, err)
				}
				return nil, err
			}

			resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
			return resp, nil
		}
	}
}

// cancelOnClose releases the request context once the body is closed.
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
	once   sync.Once
}

func (body *cancelOnClose) Close() error {
	err := body.ReadCloser.Close()
	body.once.Do(body.cancel)
	return err
}
