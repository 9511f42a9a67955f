package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// modelEntry accepts the field spellings used by the three model listings.
type modelEntry struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	DisplayName        string `json:"display_name"`
	DisplayNameCamel   string `json:"displayName"`
	Version            string `json:"version"`
	Description        string `json:"description"`
	InputTokenLimit    int    `json:"inputTokenLimit"`
	OutputTokenLimit   int    `json:"outputTokenLimit"`
	InputTokenLimitSC  int    `json:"input_token_limit"`
	OutputTokenLimitSC int    `json:"output_token_limit"`
}

// DecodeModelList parses a listing whose entries live under "data" (OpenAI,
// Anthropic) or "models" (Gemini). A "models/" prefix on ids is removed.
// Entries without an id or name are skipped.
func DecodeModelList(body []byte) ([]Model, error) {
	var listing struct {
		Data   []modelEntry `json:"data"`
		Models []modelEntry `json:"models"`
	}
	if err := json.Unmarshal(body, &listing); err != nil {
		return nil, fmt.Errorf("error decoding model list: %w", err)
	}

	entries := listing.Data
	if len(entries) == 0 {
		entries = listing.Models
	}

	models := make([]Model, 0, len(entries))
	for _, entry := range entries {
		id := entry.ID
		if id == "" {
			id = entry.Name
		}
		id = strings.TrimPrefix(id, "models/")
		if id == "" {
			continue
		}

		model := Model{
			ID:               id,
			DisplayName:      firstNonEmpty(entry.DisplayName, entry.DisplayNameCamel),
			Version:          entry.Version,
			Description:      entry.Description,
			InputTokenLimit:  max(entry.InputTokenLimit, entry.InputTokenLimitSC),
			OutputTokenLimit: max(entry.OutputTokenLimit, entry.OutputTokenLimitSC),
		}
		models = append(models, model)
	}
	return models, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
