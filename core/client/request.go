package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/leofalp/llmwire/internal/utils"
	"github.com/leofalp/llmwire/providers/ai"
)

// newRequest builds an authorized JSON request for the dialect.
func (c *Client) newRequest(ctx context.Context, method, url string, payload []byte) (*http.Request, error) {
	req, err := utils.NewJSONRequest(ctx, method, url, payload,
		utils.HeaderOption{Key: "User-Agent", Value: c.userAgent},
	)
	if err != nil {
		return nil, err
	}
	c.dialect.Authorize(req.Header, c.apiKey)
	return req, nil
}

// postCompletion sends cfg to the completion endpoint, applying the token
// parameter fallback.
//
// The fallback runs only on the first attempt, only while the preference is
// max_completion_tokens and only for dialects that can recognize the
// rejection. It flips the client's preference, calls onRetry so the caller can
// discard transient state, and reissues the request exactly once. The retried
// response is returned whatever its status.
func (c *Client) postCompletion(ctx context.Context, call *observedCall, cfg ai.RequestConfig, onRetry func()) (*http.Response, error) {
	resp, err := c.postCompletionOnce(ctx, call, cfg)
	if err != nil {
		return nil, err
	}

	detector, ok := c.dialect.(ai.TokenParamFallback)
	if !ok || resp.StatusCode != http.StatusBadRequest || c.tokenParam != ai.TokenParamMaxCompletionTokens {
		return resp, nil
	}

	body, readErr := utils.ReadLimited(resp.Body)
	utils.CloseWithLog(resp.Body, responseURL(resp))
	if readErr != nil {
		return nil, fmt.Errorf("error reading error response: %w", readErr)
	}

	if !detector.RejectsTokenParam(resp.StatusCode, body, c.tokenParam) {
		resp.Body = io.NopCloser(bytes.NewReader(body))
		return resp, nil
	}

	previous := c.tokenParam
	c.tokenParam = ai.TokenParamMaxTokens
	call.fallback(ctx, previous, c.tokenParam)
	if onRetry != nil {
		onRetry()
	}

	return c.postCompletionOnce(ctx, call, cfg)
}

func (c *Client) postCompletionOnce(ctx context.Context, call *observedCall, cfg ai.RequestConfig) (*http.Response, error) {
	payload, err := c.dialect.BuildPayload(cfg, c.tokenParam)
	if err != nil {
		return nil, fmt.Errorf("error building payload: %w", err)
	}

	url := c.dialect.CompletionURL(c.baseURL, c.apiKey, cfg.Model, cfg.Stream)
	call.request(url, cfg)
	req, err := c.newRequest(ctx, http.MethodPost, url, payload)
	if err != nil {
		return nil, err
	}
	if cfg.Stream {
		req.Header.Set("Accept", "text/event-stream")
	}

	return c.do(ctx, req)
}

// get issues an authorized GET and returns the status and limited body.
func (c *Client) get(ctx context.Context, url string) (int, []byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, nil, err
	}
	return c.roundTrip(ctx, req)
}

// postJSON issues an authorized POST and returns the status and limited body.
func (c *Client) postJSON(ctx context.Context, url string, payload []byte) (int, []byte, error) {
	req, err := c.newRequest(ctx, http.MethodPost, url, payload)
	if err != nil {
		return 0, nil, err
	}
	return c.roundTrip(ctx, req)
}

func (c *Client) roundTrip(ctx context.Context, req *http.Request) (int, []byte, error) {
	resp, err := c.do(ctx, req)
	if err != nil {
		return 0, nil, err
	}
	defer utils.CloseWithLog(resp.Body, req.URL.String())

	body, err := utils.ReadLimited(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("error reading response: %w", err)
	}
	return resp.StatusCode, body, nil
}

// httpError formats a non-2xx response as "<prefix>HTTP error <status>: ...".
func (c *Client) httpError(prefix string, status int, body []byte) *APIError {
	var message string
	switch detail, ok := c.dialect.ExtractError(body); {
	case ok && detail != "":
		message = fmt.Sprintf("%sHTTP error %d: %s", prefix, status, detail)
	case len(bytes.TrimSpace(body)) > 0:
		message = fmt.Sprintf("%sHTTP error %d. Body: %s", prefix, status, utils.TruncateString(utils.HumanizeBody(body), 500))
	default:
		message = fmt.Sprintf("%sHTTP error %d. (no response body)", prefix, status)
	}
	return &APIError{StatusCode: status, Message: message}
}

// responseURL returns the URL a response answered, for logging.
func responseURL(resp *http.Response) string {
	if resp.Request == nil || resp.Request.URL == nil {
		return ""
	}
	return resp.Request.URL.String()
}
