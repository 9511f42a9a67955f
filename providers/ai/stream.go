package ai

import (
	"iter"
	"strings"
)

// StreamEvent is the payload of one generic stream callback invocation.
type StreamEvent struct {
	Token   *string // Text delta, nil when the event carries none
	IsFinal bool    // No further events follow
	Err     *string // Set only on a final event that ends in failure
}

// TokenText returns the token or the empty string.
func (e StreamEvent) TokenText() string {
	if e.Token == nil {
		return ""
	}
	return *e.Token
}

// StreamCallback receives generic stream events in arrival order. Returning
// false asks the client to cancel the transfer.
type StreamCallback func(event StreamEvent) bool

// AnthropicEventType is the closed set of Anthropic SSE event names.
type AnthropicEventType string

const (
	AnthropicMessageStart      AnthropicEventType = "message_start"
	AnthropicContentBlockStart AnthropicEventType = "content_block_start"
	AnthropicPing              AnthropicEventType = "ping"
	AnthropicContentBlockDelta AnthropicEventType = "content_block_delta"
	AnthropicContentBlockStop  AnthropicEventType = "content_block_stop"
	AnthropicMessageDelta      AnthropicEventType = "message_delta"
	AnthropicMessageStop       AnthropicEventType = "message_stop"
	AnthropicError             AnthropicEventType = "error"
	AnthropicUnknown           AnthropicEventType = "unknown"
)

// ParseAnthropicEventType maps an "event:" value to its type; names outside
// the known set become AnthropicUnknown.
func ParseAnthropicEventType(name string) AnthropicEventType {
	switch t := AnthropicEventType(name); t {
	case AnthropicMessageStart, AnthropicContentBlockStart, AnthropicPing,
		AnthropicContentBlockDelta, AnthropicContentBlockStop, AnthropicMessageDelta,
		AnthropicMessageStop, AnthropicError:
		return t
	}
	return AnthropicUnknown
}

// AnthropicEvent is the payload of one detailed callback invocation. Data is
// the raw text of the frame's data line, left for the caller to decode.
type AnthropicEvent struct {
	Type AnthropicEventType
	Name string // Event name as sent, useful when Type is AnthropicUnknown
	Data string
}

// AnthropicCallback receives typed Anthropic events. errMsg is non-nil when the
// event reports a failure. Returning false asks the client to cancel.
type AnthropicCallback func(event AnthropicEvent, errMsg *string) bool

// ChatStream adapts a stream of generic events to range-over-func iteration.
//
// Breaking out of the loop cancels the underlying transfer. The stream is not
// restartable; once iteration ends Result reports the finalized Response.
type ChatStream struct {
	iterator iter.Seq2[StreamEvent, error]
	result   func() *Response
}

// NewChatStream wraps an iterator. result is consulted after iteration and may
// be nil.
func NewChatStream(iterator iter.Seq2[StreamEvent, error], result func() *Response) *ChatStream {
	return &ChatStream{iterator: iterator, result: result}
}

// Iter returns the underlying iterator.
//
// Example:
//
//	for event, err := range stream.Iter() {
//	    if err != nil { handle error }
//	    fmt.Print(event.TokenText())
//	}
func (stream *ChatStream) Iter() iter.Seq2[StreamEvent, error] {
	return stream.iterator
}

// Result returns the finalized response, or nil before iteration completes.
func (stream *ChatStream) Result() *Response {
	if stream.result == nil {
		return nil
	}
	return stream.result()
}

// Collect consumes the stream and returns the accumulated text as a single
// text part, together with the finish reason and error of the finalized
// response. The returned error is the first one yielded by the iterator.
func (stream *ChatStream) Collect() (*Response, error) {
	var text strings.Builder
	var firstErr error

	for event, err := range stream.iterator {
		if err != nil && firstErr == nil {
			firstErr = err
		}
		text.WriteString(event.TokenText())
	}

	collected := &Response{}
	if final := stream.Result(); final != nil {
		*collected = *final
	}
	if text.Len() > 0 {
		collected.Parts = []ContentPart{TextPart(text.String())}
	}
	return collected, firstErr
}
