package client

import (
	"context"
	"fmt"

	"github.com/leofalp/llmwire/internal/utils"
	"github.com/leofalp/llmwire/providers/ai"
	"github.com/leofalp/llmwire/providers/observability"
)

// ListModels returns the models available to the API key.
func (c *Client) ListModels(ctx context.Context) ([]ai.Model, error) {
	lister, ok := c.dialect.(ai.ModelLister)
	if !ok {
		return nil, fmt.Errorf("list models for %s: %w", c.dialect.Provider(), ErrUnsupported)
	}

	ctx, call := c.observe(ctx, observability.SpanListModels, "")
	models, err := c.listModels(ctx, lister)
	call.end(ctx, nil, err, observability.Int(observability.AttrLLMModelsCount, len(models)))
	return models, err
}

func (c *Client) listModels(ctx context.Context, lister ai.ModelLister) ([]ai.Model, error) {
	status, body, err := c.get(ctx, lister.ModelsURL(c.baseURL, c.apiKey))
	if err != nil {
		return nil, &APIError{StatusCode: status, Message: fmt.Sprintf("list_models request failed: %v", err), Err: err}
	}
	if !utils.IsSuccess(status) {
		return nil, c.httpError("list_models ", status, body)
	}

	models, err := lister.DecodeModels(body)
	if err != nil {
		return nil, &APIError{StatusCode: status, Message: err.Error(), Err: err}
	}
	return models, nil
}
