package gemini

import (
	"encoding/json"
	"fmt"

	"github.com/leofalp/llmwire/providers/ai"
)

// BuildPayload serializes cfg. tokenParam is ignored: Gemini only knows
// maxOutputTokens.
func (d *Dialect) BuildPayload(cfg ai.RequestConfig, _ ai.TokenParam) ([]byte, error) {
	request := buildRequest(cfg)
	request.GenerationConfig = buildGenerationConfig(cfg)

	payload, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("error marshaling generateContent request: %w", err)
	}
	return payload, nil
}

// BuildCountTokensPayload serializes the contents and system instruction only.
func (d *Dialect) BuildCountTokensPayload(cfg ai.RequestConfig) ([]byte, error) {
	payload, err := json.Marshal(buildRequest(cfg))
	if err != nil {
		return nil, fmt.Errorf("error marshaling countTokens request: %w", err)
	}
	return payload, nil
}

func buildRequest(cfg ai.RequestConfig) generateContentRequest {
	request := generateContentRequest{
		Contents: make([]content, 0, len(cfg.Messages)),
	}

	if cfg.SystemPrompt != "" {
		request.SystemInstruction = &content{Parts: []part{textPart(cfg.SystemPrompt)}}
	}

	for _, message := range cfg.Messages {
		if message.Role == ai.RoleSystem {
			continue
		}

		role := roleUser
		if message.Role == ai.RoleAssistant {
			role = roleModel
		}

		parts := make([]part, 0, len(message.Parts))
		for _, p := range message.Parts {
			parts = append(parts, convertPart(p))
		}
		request.Contents = append(request.Contents, content{Role: role, Parts: parts})
	}

	return request
}

func convertPart(p ai.ContentPart) part {
	switch p.Type {
	case ai.PartImageBase64, ai.PartFileData:
		return part{InlineData: &inlineData{MimeType: p.MIMEType, Data: p.Data}}
	case ai.PartImageURL:
		return textPart("Image at URL: " + p.URL)
	case ai.PartFileReference:
		return part{FileData: &fileData{MimeType: p.MIMEType, FileURI: p.FileID}}
	default:
		return textPart(p.Text)
	}
}

func textPart(text string) part {
	return part{Text: &text}
}

// buildGenerationConfig returns nil when no parameter is set.
func buildGenerationConfig(cfg ai.RequestConfig) *generationConfig {
	config := &generationConfig{StopSequences: cfg.StopSequences}
	empty := len(cfg.StopSequences) == 0

	if cfg.Temperature != nil && *cfg.Temperature >= 0 {
		config.Temperature = cfg.Temperature
		empty = false
	}
	if cfg.MaxTokens > 0 {
		maxTokens := cfg.MaxTokens
		config.MaxOutputTokens = &maxTokens
		empty = false
	}
	if cfg.TopP > 0 {
		topP := cfg.TopP
		config.TopP = &topP
		empty = false
	}
	if cfg.TopK > 0 {
		topK := cfg.TopK
		config.TopK = &topK
		empty = false
	}

	if empty {
		return nil
	}
	return config
}
