package openai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/leofalp/llmwire/providers/ai"
)

// BuildPayload serializes cfg. The system prompt becomes the first message and
// system-role messages in cfg.Messages are not forwarded. The token limit is
// written under the field selected by tokenParam.
func (d *Dialect) BuildPayload(cfg ai.RequestConfig, tokenParam ai.TokenParam) ([]byte, error) {
	request := chatCompletionRequest{
		Model:    cfg.Model,
		Messages: make([]chatMessage, 0, len(cfg.Messages)+1),
		Stop:     cfg.StopSequences,
		Stream:   cfg.Stream,
	}

	if cfg.Temperature != nil && *cfg.Temperature >= 0 {
		request.Temperature = cfg.Temperature
	}
	if cfg.TopP > 0 {
		topP := cfg.TopP
		request.TopP = &topP
	}
	if cfg.MaxTokens > 0 {
		maxTokens := cfg.MaxTokens
		if tokenParam == ai.TokenParamMaxTokens {
			request.MaxTokens = &maxTokens
		} else {
			request.MaxCompletionTokens = &maxTokens
		}
	}

	if cfg.SystemPrompt != "" {
		request.Messages = append(request.Messages, chatMessage{Role: string(ai.RoleSystem), Content: cfg.SystemPrompt})
	}
	for _, message := range cfg.Messages {
		if message.Role == ai.RoleSystem {
			continue
		}
		request.Messages = append(request.Messages, chatMessage{
			Role:    string(message.Role),
			Content: messageContent(message),
		})
	}

	payload, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("error marshaling chat completion request: %w", err)
	}
	return payload, nil
}

// messageContent returns a plain string for single-text messages and an array
// of typed parts otherwise.
func messageContent(message ai.Message) any {
	if text, ok := message.SingleText(); ok {
		return text
	}
	if len(message.Parts) == 0 {
		return ""
	}

	parts := make([]contentPart, 0, len(message.Parts))
	for _, part := range message.Parts {
		parts = append(parts, convertPart(part))
	}
	return parts
}

func convertPart(part ai.ContentPart) contentPart {
	switch part.Type {
	case ai.PartImageURL:
		return contentPart{Type: "image_url", ImageURL: &contentPartImage{URL: part.URL}}
	case ai.PartImageBase64:
		return contentPart{Type: "image_url", ImageURL: &contentPartImage{URL: buildDataURL(part.MIMEType, part.Data)}}
	case ai.PartFileData:
		if strings.HasPrefix(part.MIMEType, "image/") {
			return contentPart{Type: "image_url", ImageURL: &contentPartImage{URL: buildDataURL(part.MIMEType, part.Data)}}
		}
		return contentPart{Type: "file", File: &contentPartFile{
			Filename: part.Filename,
			FileData: buildDataURL(part.MIMEType, part.Data),
		}}
	case ai.PartFileReference:
		return contentPart{Type: "file", File: &contentPartFile{FileID: part.FileID}}
	default:
		return contentPart{Type: "text", Text: part.Text}
	}
}

// buildDataURL formats base64 data as a data URL.
func buildDataURL(mimeType, data string) string {
	return "data:" + mimeType + ";base64," + data
}
