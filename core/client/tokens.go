package client

import (
	"context"
	"fmt"

	"github.com/leofalp/llmwire/internal/utils"
	"github.com/leofalp/llmwire/providers/ai"
	"github.com/leofalp/llmwire/providers/observability"
)

// CountTokens asks the provider how many input tokens cfg would consume.
// OpenAI has no counting endpoint and returns ErrUnsupported.
func (c *Client) CountTokens(ctx context.Context, cfg ai.RequestConfig) (int, error) {
	counter, ok := c.dialect.(ai.TokenCounter)
	if !ok {
		return 0, fmt.Errorf("count tokens for %s: %w", c.dialect.Provider(), ErrUnsupported)
	}

	ctx, call := c.observe(ctx, observability.SpanCountTokens, cfg.Model)
	count, err := c.countTokens(ctx, counter, cfg)
	call.end(ctx, nil, err, observability.Int(observability.AttrLLMTokensInput, count))
	return count, err
}

func (c *Client) countTokens(ctx context.Context, counter ai.TokenCounter, cfg ai.RequestConfig) (int, error) {
	payload, err := counter.BuildCountTokensPayload(cfg)
	if err != nil {
		return 0, fmt.Errorf("error building count payload: %w", err)
	}

	status, body, err := c.postJSON(ctx, counter.CountTokensURL(c.baseURL, c.apiKey, cfg.Model), payload)
	if err != nil {
		return 0, &APIError{StatusCode: status, Message: fmt.Sprintf("count_tokens request failed: %v", err), Err: err}
	}
	if !utils.IsSuccess(status) {
		return 0, c.httpError("count_tokens ", status, body)
	}

	count, err := counter.DecodeTokenCount(body)
	if err != nil {
		return 0, &APIError{StatusCode: status, Message: err.Error(), Err: err}
	}
	return count, nil
}
