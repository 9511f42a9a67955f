package anthropic

import (
	"fmt"
	"strings"

	"github.com/leofalp/llmwire/providers/ai"
)

// MapFrame reduces one named SSE event to the generic stream model. Text
// deltas become tokens; message_delta reports the stop reason without ending
// the stream; message_stop and error end it. When a frame has no "event:"
// line the payload's type field names the event.
func (d *Dialect) MapFrame(event string, data []string) ai.FrameResult {
	var result ai.FrameResult
	var token strings.Builder

	lines := data
	if len(lines) == 0 {
		lines = []string{""}
	}

	for _, line := range lines {
		payload := strings.TrimSpace(line)

		var decoded streamEvent
		valid := false
		if payload != "" {
			decoded, valid = decodeStreamEvent(payload)
		}

		name := event
		if name == "" {
			name = decoded.Type
		}

		switch ai.ParseAnthropicEventType(name) {
		case ai.AnthropicContentBlockDelta:
			if valid && decoded.Delta != nil && decoded.Delta.Type == "text_delta" {
				token.WriteString(decoded.Delta.Text)
			}
		case ai.AnthropicMessageDelta:
			if reason := stopReason(decoded); reason != "" && result.FinishReason == "" {
				result.FinishReason = reason
			}
		case ai.AnthropicMessageStop:
			result.Final = true
		case ai.AnthropicError:
			result.Final = true
			reason, message := describeError(decoded)
			if result.FinishReason == "" {
				result.FinishReason = reason
			}
			if result.Err == "" {
				result.Err = message
			}
		}
	}

	result.Token = token.String()
	return result
}

// MapTypedFrame converts one frame to a typed event carrying the raw data
// text. Every frame maps to exactly one event, pings included.
func (d *Dialect) MapTypedFrame(event string, data []string) ai.TypedFrameResult {
	raw := strings.Join(data, "\n")

	var decoded streamEvent
	if payload := strings.TrimSpace(raw); payload != "" {
		decoded, _ = decodeStreamEvent(payload)
	}

	name := event
	if name == "" {
		name = decoded.Type
	}

	result := ai.TypedFrameResult{
		Event: ai.AnthropicEvent{
			Type: ai.ParseAnthropicEventType(name),
			Name: name,
			Data: raw,
		},
	}

	switch result.Event.Type {
	case ai.AnthropicMessageStop:
		result.Final = true
		result.FinishReason = FinishReasonMessageStop
	case ai.AnthropicError:
		result.Final = true
		result.FinishReason, result.Err = describeError(decoded)
	}
	return result
}

// stopReason checks usage, then delta, then the top level.
func stopReason(event streamEvent) string {
	if event.Usage != nil && event.Usage.StopReason != "" {
		return event.Usage.StopReason
	}
	if event.Delta != nil && event.Delta.StopReason != "" {
		return event.Delta.StopReason
	}
	return event.StopReason
}

// describeError returns the finish reason and message recorded for an error
// event.
func describeError(event streamEvent) (string, string) {
	if event.Error == nil {
		return FinishReasonErrorEvent, "Anthropic stream error event"
	}

	reason := event.Error.Type
	if reason == "" {
		reason = FinishReasonErrorEvent
	}
	message := event.Error.Message
	if message == "" {
		message = "no message"
	}
	return reason, fmt.Sprintf("Anthropic stream error (%s): %s", reason, message)
}
