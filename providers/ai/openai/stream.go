package openai

import (
	"encoding/json"
	"strings"

	"github.com/leofalp/llmwire/providers/ai"
)

// MapFrame handles every data line of a frame. Text deltas are concatenated;
// the "[DONE]" marker or a finish_reason ends the stream. Lines that are not
// valid JSON are skipped.
func (d *Dialect) MapFrame(_ string, data []string) ai.FrameResult {
	var result ai.FrameResult
	var token strings.Builder

	for _, line := range data {
		payload := strings.TrimSpace(line)
		if payload == "" {
			continue
		}

		if payload == doneMarker {
			result.Final = true
			if result.FinishReason == "" {
				result.FinishReason = FinishReasonDoneMarker
			}
			continue
		}

		var chunk chatCompletionChunk
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			continue
		}

		if chunk.Error != nil && chunk.Error.Message != "" {
			result.Final = true
			if result.Err == "" {
				result.Err = "OpenAI stream error: " + chunk.Error.Message
			}
			continue
		}

		if len(chunk.Choices) == 0 {
			continue
		}
		choice := chunk.Choices[0]
		if choice.Delta.Content != nil {
			token.WriteString(*choice.Delta.Content)
		}
		if choice.FinishReason != nil {
			result.Final = true
			if result.FinishReason == "" {
				result.FinishReason = *choice.FinishReason
			}
		}
	}

	result.Token = token.String()
	return result
}
