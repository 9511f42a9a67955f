package anthropic

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/leofalp/llmwire/providers/ai"
)

const (
	roleUser      = "user"
	roleAssistant = "assistant"

	blockText     = "text"
	blockImage    = "image"
	blockDocument = "document"
)

// BuildPayload serializes cfg. tokenParam is ignored: max_tokens is the only
// field this API accepts, and it is always sent.
func (d *Dialect) BuildPayload(cfg ai.RequestConfig, _ ai.TokenParam) ([]byte, error) {
	request := messagesRequest{
		Model:         cfg.Model,
		MaxTokens:     cfg.MaxTokens,
		StopSequences: cfg.StopSequences,
		System:        cfg.SystemPrompt,
		Messages:      buildMessages(cfg.Messages, false),
		Stream:        cfg.Stream,
	}
	if request.MaxTokens <= 0 {
		request.MaxTokens = ai.DefaultAnthropicMaxTokens
	}
	// The Messages API accepts temperatures in [0, 1] only.
	if cfg.Temperature != nil && *cfg.Temperature >= 0 && *cfg.Temperature <= 1 {
		request.Temperature = cfg.Temperature
	}
	if cfg.TopP > 0 {
		topP := cfg.TopP
		request.TopP = &topP
	}
	if cfg.TopK > 0 {
		topK := cfg.TopK
		request.TopK = &topK
	}

	payload, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("error marshaling messages request: %w", err)
	}
	return payload, nil
}

// BuildCountTokensPayload serializes model, system prompt and messages. A
// message made of a single text part is sent with string content.
func (d *Dialect) BuildCountTokensPayload(cfg ai.RequestConfig) ([]byte, error) {
	request := countTokensRequest{
		Model:    cfg.Model,
		System:   cfg.SystemPrompt,
		Messages: buildMessages(cfg.Messages, true),
	}

	payload, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("error marshaling count_tokens request: %w", err)
	}
	return payload, nil
}

// buildMessages drops system messages, which travel in the top-level system
// field, and maps every non-assistant role to user.
func buildMessages(messages []ai.Message, collapseText bool) []message {
	result := make([]message, 0, len(messages))
	for _, m := range messages {
		if m.Role == ai.RoleSystem {
			continue
		}

		role := roleUser
		if m.Role == ai.RoleAssistant {
			role = roleAssistant
		}

		if text, ok := m.SingleText(); ok && collapseText {
			result = append(result, message{Role: role, Content: text})
			continue
		}

		blocks := make([]contentBlock, 0, len(m.Parts))
		for _, p := range m.Parts {
			blocks = append(blocks, convertPart(p))
		}
		result = append(result, message{Role: role, Content: blocks})
	}
	return result
}

func convertPart(p ai.ContentPart) contentBlock {
	switch p.Type {
	case ai.PartImageBase64:
		return base64Block(blockImage, p.MIMEType, p.Data)
	case ai.PartFileData:
		if strings.HasPrefix(p.MIMEType, "image/") {
			return base64Block(blockImage, p.MIMEType, p.Data)
		}
		return base64Block(blockDocument, p.MIMEType, p.Data)
	case ai.PartImageURL:
		return contentBlock{
			Type: blockText,
			Text: fmt.Sprintf("Image referenced by URL: %s (Anthropic prefers direct image data)", p.URL),
		}
	case ai.PartFileReference:
		return contentBlock{
			Type: blockText,
			Text: fmt.Sprintf("File referenced by ID: %s (Anthropic does not support file references in this manner)", p.FileID),
		}
	default:
		return contentBlock{Type: blockText, Text: p.Text}
	}
}

func base64Block(blockType, mediaType, data string) contentBlock {
	return contentBlock{
		Type:   blockType,
		Source: &blockSource{Type: "base64", MediaType: mediaType, Data: data},
	}
}
