package gemini

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/leofalp/llmwire/providers/ai"
)

// ExtractResponse reads candidates[0].content.parts[0].text. The finish reason
// comes from the candidate, falling back to promptFeedback when the candidate
// has none (for example a blocked prompt with no candidates at all).
func (d *Dialect) ExtractResponse(body []byte) (string, string, bool) {
	var response generateContentResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", "", false
	}

	var finishReason string
	if len(response.Candidates) > 0 {
		finishReason = response.Candidates[0].FinishReason
	}
	if finishReason == "" {
		finishReason = response.PromptFeedback.reason()
	}

	if len(response.Candidates) == 0 {
		return "", finishReason, false
	}
	parts := response.Candidates[0].Content.Parts
	if len(parts) == 0 || parts[0].Text == nil {
		return "", finishReason, false
	}
	return *parts[0].Text, finishReason, true
}

func (d *Dialect) ExtractError(body []byte) (string, bool) {
	detail, ok := ai.ParseErrorBody(body)
	if !ok {
		return "", false
	}
	if detail.Status != "" {
		return fmt.Sprintf("%s (%s)", detail.Message, detail.Status), true
	}
	return detail.Message, true
}

// CountTokensURL returns {base}/models/{model}:countTokens?key=...
func (d *Dialect) CountTokensURL(baseURL, apiKey, model string) string {
	return modelURL(baseURL, model, "countTokens") + "?key=" + url.QueryEscape(apiKey)
}

func (d *Dialect) DecodeTokenCount(body []byte) (int, error) {
	var response countTokensResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return 0, fmt.Errorf("error decoding countTokens response: %w", err)
	}
	if response.TotalTokens == nil {
		return 0, fmt.Errorf("countTokens response has no totalTokens")
	}
	return *response.TotalTokens, nil
}
