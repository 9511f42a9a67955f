package anthropic

import "encoding/json"

/*
	ANTHROPIC MESSAGES API - REQUEST TYPES
*/

// messagesRequest is the body of POST /messages.
type messagesRequest struct {
	Model         string    `json:"model"`
	MaxTokens     int       `json:"max_tokens"`
	Temperature   *float64  `json:"temperature,omitempty"`
	TopP          *float64  `json:"top_p,omitempty"`
	TopK          *int      `json:"top_k,omitempty"`
	StopSequences []string  `json:"stop_sequences,omitempty"`
	System        string    `json:"system,omitempty"`
	Messages      []message `json:"messages"`
	Stream        bool      `json:"stream,omitempty"`
}

// countTokensRequest is the body of POST /messages/count_tokens.
type countTokensRequest struct {
	Model    string    `json:"model"`
	System   string    `json:"system,omitempty"`
	Messages []message `json:"messages"`
}

// message content is either a []contentBlock or, for a single text part in a
// token count request, a plain string.
type message struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentBlock struct {
	Type   string       `json:"type"` // "text", "image" or "document"
	Text   string       `json:"text,omitempty"`
	Source *blockSource `json:"source,omitempty"`
}

type blockSource struct {
	Type      string `json:"type"` // always "base64"
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

/*
	ANTHROPIC MESSAGES API - RESPONSE TYPES
*/

type messagesResponse struct {
	Content    []responseBlock `json:"content"`
	StopReason string          `json:"stop_reason"`
}

type responseBlock struct {
	Type string  `json:"type"`
	Text *string `json:"text"`
}

type countTokensResponse struct {
	InputTokens *int `json:"input_tokens"`
}

/*
	ANTHROPIC SSE STREAMING - WIRE TYPES

	Event lifecycle:
	  message_start → content_block_start → content_block_delta → content_block_stop →
	  message_delta → message_stop

	ping may appear anywhere; error replaces the remainder of the sequence.
*/

// streamEvent is the envelope shared by every data payload. Type mirrors the
// SSE event name and is used when a frame has no "event:" line.
type streamEvent struct {
	Type       string       `json:"type"`
	Delta      *streamDelta `json:"delta"`
	Usage      *streamUsage `json:"usage"`
	StopReason string       `json:"stop_reason"`
	Error      *streamError `json:"error"`
}

type streamDelta struct {
	Type       string `json:"type"` // "text_delta", "thinking_delta", "input_json_delta"
	Text       string `json:"text"`
	StopReason string `json:"stop_reason"` // message_delta only
}

type streamUsage struct {
	OutputTokens int    `json:"output_tokens"`
	StopReason   string `json:"stop_reason"`
}

type streamError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// decodeStreamEvent parses a data payload. ok is false for invalid JSON.
func decodeStreamEvent(payload string) (streamEvent, bool) {
	var event streamEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return streamEvent{}, false
	}
	return event, true
}
