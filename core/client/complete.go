package client

import (
	"bytes"
	"context"
	"fmt"

	"github.com/leofalp/llmwire/internal/utils"
	"github.com/leofalp/llmwire/providers/ai"
	"github.com/leofalp/llmwire/providers/observability"
)

// Complete performs a non-streaming completion. cfg.Stream is ignored.
//
// The returned Response is never nil. When the call fails its Error field is
// set and the same failure is returned as an *APIError.
func (c *Client) Complete(ctx context.Context, cfg ai.RequestConfig) (*ai.Response, error) {
	cfg.Stream = false
	ctx, call := c.observe(ctx, observability.SpanComplete, cfg.Model)

	response, err := c.complete(ctx, call, cfg)
	if err != nil {
		response.Error = err.Error()
	}
	call.end(ctx, response, err,
		observability.Bool(observability.AttrLLMStreaming, false),
		observability.String(observability.AttrLLMTokenParam, c.tokenParam.FieldName()),
	)
	return response, err
}

func (c *Client) complete(ctx context.Context, call *observedCall, cfg ai.RequestConfig) (*ai.Response, error) {
	response := &ai.Response{}

	resp, err := c.postCompletion(ctx, call, cfg, nil)
	if err != nil {
		return response, &APIError{Message: fmt.Sprintf("request failed: %v", err), Err: err}
	}
	defer utils.CloseWithLog(resp.Body, responseURL(resp))

	response.StatusCode = resp.StatusCode
	body, err := utils.ReadLimited(resp.Body)
	if err != nil {
		return response, &APIError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("error reading response: %v", err), Err: err}
	}

	if !utils.IsSuccess(resp.StatusCode) {
		return response, c.httpError("", resp.StatusCode, body)
	}

	text, finishReason, ok := c.dialect.ExtractResponse(body)
	response.FinishReason = finishReason
	if ok {
		response.Parts = []ai.ContentPart{ai.TextPart(text)}
		return response, nil
	}

	// A 2xx body without text may still describe an error.
	if detail, found := c.dialect.ExtractError(body); found && detail != "" {
		return response, &APIError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("API error (HTTP %d): %s", resp.StatusCode, detail),
		}
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return response, &APIError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("failed to parse response (HTTP %d). Empty response body.", resp.StatusCode),
			Err:        ErrNoContent,
		}
	}
	return response, &APIError{
		StatusCode: resp.StatusCode,
		Message:    fmt.Sprintf("failed to parse response (HTTP %d). Body: %s", resp.StatusCode, utils.TruncateString(string(body), 200)),
		Err:        ErrNoContent,
	}
}
