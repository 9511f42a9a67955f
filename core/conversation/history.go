package conversation

import (
	"context"
	"sync"

	"github.com/leofalp/llmwire/providers/ai"
	"github.com/leofalp/llmwire/providers/observability"
)

// History is an ordered list of messages, safe for concurrent use.
type History struct {
	mu       sync.RWMutex
	messages []ai.Message
}

// NewHistory returns a history holding copies of messages.
func NewHistory(messages ...ai.Message) *History {
	h := &History{messages: make([]ai.Message, 0, len(messages))}
	for _, m := range messages {
		h.messages = append(h.messages, copyMessage(m))
	}
	return h
}

// Append stores a copy of message at the end of the history. When a span is
// present in ctx, an event with the role and part count is recorded.
func (h *History) Append(ctx context.Context, message ai.Message) {
	span := observability.SpanFromContext(ctx)
	if span != nil {
		span.AddEvent(observability.EventConversationAppend,
			observability.String(observability.AttrMessageRole, string(message.Role)),
			observability.Int(observability.AttrMessageParts, len(message.Parts)),
		)
	}

	h.mu.Lock()
	h.messages = append(h.messages, copyMessage(message))
	total := len(h.messages)
	h.mu.Unlock()

	if span != nil {
		span.SetAttributes(observability.Int(observability.AttrConversationLength, total))
	}
}

// AppendText is shorthand for appending a single text message.
func (h *History) AppendText(ctx context.Context, role ai.Role, text string) {
	h.Append(ctx, ai.NewTextMessage(role, text))
}

// Len returns the number of messages stored.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.messages)
}

// Messages returns a copy of all messages. The result is never nil.
func (h *History) Messages() []ai.Message {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]ai.Message, len(h.messages))
	for i, m := range h.messages {
		out[i] = copyMessage(m)
	}
	return out
}

// Last returns up to the last n messages. It returns an empty slice when n is
// zero or negative.
func (h *History) Last(n int) []ai.Message {
	if n <= 0 {
		return []ai.Message{}
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	n = min(n, len(h.messages))
	out := make([]ai.Message, n)
	for i, m := range h.messages[len(h.messages)-n:] {
		out[i] = copyMessage(m)
	}
	return out
}

// PopLast removes and returns the last message, or false when empty.
func (h *History) PopLast() (ai.Message, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.messages) == 0 {
		return ai.Message{}, false
	}
	idx := len(h.messages) - 1
	msg := h.messages[idx]
	h.messages = h.messages[:idx]
	return msg, true
}

// Clear removes all messages while retaining capacity.
func (h *History) Clear(ctx context.Context) {
	if span := observability.SpanFromContext(ctx); span != nil {
		span.AddEvent(observability.EventConversationClear)
	}

	h.mu.Lock()
	h.messages = h.messages[:0]
	h.mu.Unlock()
}

// Request returns cfg with its messages replaced by the history.
func (h *History) Request(cfg ai.RequestConfig) ai.RequestConfig {
	cfg.Messages = h.Messages()
	return cfg
}

// Save writes the history to path as indented JSON.
func (h *History) Save(path string) error {
	return SaveFile(path, h.Messages())
}

// LoadHistory reads a history previously written by Save or SaveFile.
func LoadHistory(path string) (*History, error) {
	messages, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return &History{messages: messages}, nil
}

func copyMessage(m ai.Message) ai.Message {
	if m.Parts != nil {
		m.Parts = append([]ai.ContentPart(nil), m.Parts...)
	}
	return m
}
