package gemini

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/leofalp/llmwire/providers/ai"
)

// MapFrame parses each data line as a GenerateContentResponse. Every non-empty
// text part of the first candidate is concatenated into the frame's token;
// thought summaries are left out. A candidate finishReason, or failing that a
// promptFeedback reason, ends the stream. Lines that are not valid JSON are
// skipped.
func (d *Dialect) MapFrame(_ string, data []string) ai.FrameResult {
	var result ai.FrameResult
	var token strings.Builder

	for _, line := range data {
		payload := strings.TrimSpace(line)
		if payload == "" {
			continue
		}

		var chunk generateContentResponse
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			continue
		}

		if chunk.Error != nil && chunk.Error.Message != "" {
			result.Final = true
			if result.Err == "" {
				result.Err = fmt.Sprintf("Gemini stream error (%s): %s", chunk.Error.Status, chunk.Error.Message)
			}
			continue
		}

		reason := ""
		if len(chunk.Candidates) > 0 {
			first := chunk.Candidates[0]
			for _, p := range first.Content.Parts {
				if p.Text != nil && *p.Text != "" && !p.Thought {
					token.WriteString(*p.Text)
				}
			}
			reason = first.FinishReason
		}
		if reason == "" {
			reason = chunk.PromptFeedback.reason()
		}

		if reason != "" {
			result.Final = true
			if result.FinishReason == "" {
				result.FinishReason = reason
			}
		}
	}

	result.Token = token.String()
	return result
}
