package client

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/leofalp/llmwire/providers/ai"
)

type typedRecorder struct {
	events []ai.AnthropicEvent
	errs   []*string
}

func (r *typedRecorder) callback(event ai.AnthropicEvent, errMsg *string) bool {
	r.events = append(r.events, event)
	r.errs = append(r.errs, errMsg)
	return true
}

func TestStreamAnthropicEvents_PassesEveryEvent(t *testing.T) {
	c := newTestClient(t, ai.ProviderAnthropic, sseHandler(
		"event: message_start\ndata: {\"type\":\"message_start\"}\n\n",
		"event: ping\ndata: {\"type\":\"ping\"}\n\n",
		"event: content_block_delta\ndata: {\"type\":\"content_block_delta\",\"delta\":{\"type\":\"text_delta\",\"text\":\"Hi\"}}\n\n",
		"event: message_stop\ndata: {\"type\":\"message_stop\"}\n\n",
	))

	rec := &typedRecorder{}
	response, err := c.StreamAnthropicEvents(context.Background(), userConfig("hi"), rec.callback)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []ai.AnthropicEventType{
		ai.AnthropicMessageStart, ai.AnthropicPing, ai.AnthropicContentBlockDelta, ai.AnthropicMessageStop,
	}
	if len(rec.events) != len(want) {
		t.Fatalf("got %d events, want %d", len(rec.events), len(want))
	}
	for i, typ := range want {
		if rec.events[i].Type != typ {
			t.Errorf("event %d: got %q, want %q", i, rec.events[i].Type, typ)
		}
		if rec.errs[i] != nil {
			t.Errorf("event %d: unexpected error %q", i, *rec.errs[i])
		}
	}
	if rec.events[2].Data != `{"type":"content_block_delta","delta":{"type":"text_delta","text":"Hi"}}` {
		t.Errorf("got data %q", rec.events[2].Data)
	}
	if response.Failed() {
		t.Errorf("got error %q", response.Error)
	}
}

func TestStreamAnthropicEvents_HTTPErrorBecomesErrorEvent(t *testing.T) {
	body := `{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`
	c := newTestClient(t, ai.ProviderAnthropic, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(body))
	})

	rec := &typedRecorder{}
	_, err := c.StreamAnthropicEvents(context.Background(), userConfig("hi"), rec.callback)

	var streamErr *StreamError
	if !errors.As(err, &streamErr) || streamErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("got %v", err)
	}
	if len(rec.events) != 1 {
		t.Fatalf("got %d events, want 1", len(rec.events))
	}
	if rec.events[0].Type != ai.AnthropicError || rec.events[0].Data != body {
		t.Errorf("got %+v", rec.events[0])
	}
	if rec.errs[0] == nil || *rec.errs[0] != "invalid x-api-key" {
		t.Errorf("got error message %v", rec.errs[0])
	}
}

func TestStreamAnthropicEvents_Unsupported(t *testing.T) {
	c := newTestClient(t, ai.ProviderOpenAI, func(http.ResponseWriter, *http.Request) {
		t.Error("no request expected")
	})

	_, err := c.StreamAnthropicEvents(context.Background(), userConfig("hi"), (&typedRecorder{}).callback)
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("got %v, want ErrUnsupported", err)
	}

	var iterErr error
	for _, err := range c.StreamAnthropic(context.Background(), userConfig("hi")) {
		iterErr = err
	}
	if !errors.Is(iterErr, ErrUnsupported) {
		t.Errorf("iterator: got %v, want ErrUnsupported", iterErr)
	}
}

func TestStreamAnthropic_IteratorSynthesizesStop(t *testing.T) {
	c := newTestClient(t, ai.ProviderAnthropic, sseHandler(
		"event: content_block_delta\ndata: {\"type\":\"content_block_delta\",\"delta\":{\"type\":\"text_delta\",\"text\":\"Hi\"}}\n\n",
	))

	var types []ai.AnthropicEventType
	for event, err := range c.StreamAnthropic(context.Background(), userConfig("hi")) {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		types = append(types, event.Type)
	}
	if len(types) != 2 || types[1] != ai.AnthropicMessageStop {
		t.Errorf("got %v, want a delta then a synthetic message_stop", types)
	}
}
