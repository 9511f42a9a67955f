package anthropic

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/leofalp/llmwire/providers/ai"
)

// ExtractResponse reads the first text block of content and stop_reason.
func (d *Dialect) ExtractResponse(body []byte) (string, string, bool) {
	var response messagesResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", "", false
	}

	for _, block := range response.Content {
		if block.Type == blockText && block.Text != nil {
			return *block.Text, response.StopReason, true
		}
	}
	return "", response.StopReason, false
}

// ExtractError handles both {"type":"error","error":{...}} and the flat
// {"type":"error","message":"..."} shape.
func (d *Dialect) ExtractError(body []byte) (string, bool) {
	return ai.ParseErrorMessage(body)
}

func (d *Dialect) CountTokensURL(baseURL, _, _ string) string {
	return strings.TrimRight(baseURL, "/") + countTokensEndpoint
}

func (d *Dialect) DecodeTokenCount(body []byte) (int, error) {
	var response countTokensResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return 0, fmt.Errorf("error decoding count_tokens response: %w", err)
	}
	if response.InputTokens == nil {
		return 0, fmt.Errorf("count_tokens response has no input_tokens")
	}
	return *response.InputTokens, nil
}
