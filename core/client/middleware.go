package client

import (
	"context"
	"net/http"

	"github.com/leofalp/llmwire/internal/utils"
)

// DoFunc sends one HTTP request to the provider. It is the base unit threaded
// through the middleware chain. The caller owns the response body.
type DoFunc func(ctx context.Context, req *http.Request) (*http.Response, error)

// Middleware intercepts provider HTTP calls. Each Middleware receives the next
// DoFunc in the chain and returns a new DoFunc that wraps it.
//
// Middlewares see every attempt, so a token parameter fallback passes through
// the chain twice.
type Middleware func(next DoFunc) DoFunc

// buildChain applies middlewares in reverse so that middlewares[0] is the
// outermost wrapper, the first to execute on an outgoing request.
func buildChain(base DoFunc, middlewares []Middleware) DoFunc {
	chain := base
	for i := len(middlewares) - 1; i >= 0; i-- {
		chain = middlewares[i](chain)
	}
	return chain
}

// send is the innermost DoFunc.
func (c *Client) send(ctx context.Context, req *http.Request) (*http.Response, error) {
	return utils.Send(ctx, c.httpClient, req)
}
