package stream

import (
	"errors"
	"strings"
	"testing"

	"github.com/leofalp/llmwire/internal/sse"
	"github.com/leofalp/llmwire/providers/ai"
	"github.com/leofalp/llmwire/providers/ai/anthropic"
	"github.com/leofalp/llmwire/providers/ai/gemini"
	"github.com/leofalp/llmwire/providers/ai/openai"
)

// recorded is one generic callback invocation in comparable form.
type recorded struct {
	token   string
	hasTok  bool
	isFinal bool
	err     string
}

type recorder struct {
	events []recorded
	stopAt int // cancel on this invocation (1-based); 0 never cancels
}

func (r *recorder) callback(event ai.StreamEvent) bool {
	rec := recorded{isFinal: event.IsFinal}
	if event.Token != nil {
		rec.token, rec.hasTok = *event.Token, true
	}
	if event.Err != nil {
		rec.err = *event.Err
	}
	r.events = append(r.events, rec)
	return r.stopAt == 0 || len(r.events) < r.stopAt
}

const openAIHiStream = "data: {\"choices\":[{\"delta\":{\"content\":\"Hi\"}}]}\n\ndata: [DONE]\n\n"

// TestProcessor_OpenAIDoneMarker is the canonical two-invocation stream.
func TestProcessor_OpenAIDoneMarker(t *testing.T) {
	rec := &recorder{}
	p := NewProcessor(openai.New(), rec.callback)

	if p.Feed([]byte(openAIHiStream)) {
		t.Error("Feed() should report stop after [DONE]")
	}
	response := p.Finalize(Outcome{StatusCode: 200})

	want := []recorded{
		{token: "Hi", hasTok: true},
		{isFinal: true},
	}
	if len(rec.events) != len(want) {
		t.Fatalf("got %d invocations, want %d: %+v", len(rec.events), len(want), rec.events)
	}
	for i := range want {
		if rec.events[i] != want[i] {
			t.Errorf("invocation %d = %+v, want %+v", i, rec.events[i], want[i])
		}
	}
	if response.FinishReason != openai.FinishReasonDoneMarker {
		t.Errorf("got finish reason %q, want %q", response.FinishReason, openai.FinishReasonDoneMarker)
	}
	if response.Error != "" {
		t.Errorf("unexpected error %q", response.Error)
	}
}

// TestProcessor_ChunkBoundaryInvariance feeds a stream one byte at a time and
// expects the same invocations as a single chunk.
func TestProcessor_ChunkBoundaryInvariance(t *testing.T) {
	stream := "data: {\"choices\":[{\"delta\":{\"content\":\"Hel\"}}]}\r\n\r\n" +
		": keep-alive\n\n" +
		"data: {\"choices\":[{\"delta\":{\"content\":\"lo\"}}]}\n\n" +
		"data: {\"choices\":[{\"delta\":{},\"finish_reason\":\"stop\"}]}\n\n"

	whole := &recorder{}
	NewProcessor(openai.New(), whole.callback).Feed([]byte(stream))

	for _, size := range []int{1, 2, 3, 7, 16} {
		split := &recorder{}
		p := NewProcessor(openai.New(), split.callback)
		for start := 0; start < len(stream); start += size {
			p.Feed([]byte(stream[start:min(start+size, len(stream))]))
		}

		if len(split.events) != len(whole.events) {
			t.Fatalf("chunk size %d: got %d invocations, want %d", size, len(split.events), len(whole.events))
		}
		for i := range whole.events {
			if split.events[i] != whole.events[i] {
				t.Errorf("chunk size %d, invocation %d = %+v, want %+v", size, i, split.events[i], whole.events[i])
			}
		}
	}
}

func TestProcessor_NoCallbacksAfterFinal(t *testing.T) {
	rec := &recorder{}
	p := NewProcessor(openai.New(), rec.callback)

	p.Feed([]byte(openAIHiStream))
	if p.Feed([]byte("data: {\"choices\":[{\"delta\":{\"content\":\"late\"}}]}\n\n")) {
		t.Error("Feed() after a final frame should return false")
	}
	p.Finalize(Outcome{StatusCode: 200})

	if len(rec.events) != 2 {
		t.Errorf("got %d invocations, want 2", len(rec.events))
	}
}

// TestProcessor_TokenOnFinalFrame marks the token of a terminal frame final.
func TestProcessor_TokenOnFinalFrame(t *testing.T) {
	rec := &recorder{}
	p := NewProcessor(openai.New(), rec.callback)

	p.Feed([]byte("data: {\"choices\":[{\"delta\":{\"content\":\"!\"},\"finish_reason\":\"length\"}]}\n\n"))
	response := p.Finalize(Outcome{StatusCode: 200})

	if len(rec.events) != 1 || rec.events[0] != (recorded{token: "!", hasTok: true, isFinal: true}) {
		t.Errorf("unexpected invocations: %+v", rec.events)
	}
	if response.FinishReason != "length" {
		t.Errorf("got %q, want %q", response.FinishReason, "length")
	}
}

func TestProcessor_Cancellation(t *testing.T) {
	rec := &recorder{stopAt: 1}
	p := NewProcessor(openai.New(), rec.callback)

	stream := "data: {\"choices\":[{\"delta\":{\"content\":\"a\"}}]}\n\n" +
		"data: {\"choices\":[{\"delta\":{\"content\":\"b\"}}]}\n\n"
	if p.Feed([]byte(stream)) {
		t.Error("Feed() should stop after the callback cancels")
	}
	if !p.Cancelled() {
		t.Error("Cancelled() = false")
	}

	response := p.Finalize(Outcome{StatusCode: 200})
	if len(rec.events) != 1 {
		t.Errorf("got %d invocations, want 1", len(rec.events))
	}
	if response.Error != "" || response.FinishReason != FinishReasonCompleted {
		t.Errorf("cancel should be a clean termination, got %+v", response)
	}
}

// TestProcessor_BufferLimit checks the limit is reported exactly once and the
// processor discards everything afterwards.
func TestProcessor_BufferLimit(t *testing.T) {
	rec := &recorder{}
	p := NewProcessor(openai.New(), rec.callback, WithMaxBufferSize(2048))

	if p.Feed([]byte("data: " + strings.Repeat("x", 4096))) {
		t.Error("Feed() should stop on buffer limit")
	}
	p.Feed([]byte(openAIHiStream))
	response := p.Finalize(Outcome{StatusCode: 200})

	if len(rec.events) != 1 {
		t.Fatalf("got %d invocations, want 1: %+v", len(rec.events), rec.events)
	}
	if !rec.events[0].isFinal || !strings.Contains(rec.events[0].err, sse.ErrBufferLimit.Error()) {
		t.Errorf("unexpected invocation %+v", rec.events[0])
	}
	if !strings.Contains(response.Error, sse.ErrBufferLimit.Error()) {
		t.Errorf("response error %q does not mention the limit", response.Error)
	}
}

// TestProcessor_AbruptCloseZeroBytes is a connection that dies before any
// byte arrives.
func TestProcessor_AbruptCloseZeroBytes(t *testing.T) {
	rec := &recorder{}
	p := NewProcessor(openai.New(), rec.callback)

	response := p.Finalize(Outcome{TransportErr: errors.New("connection reset by peer")})

	if len(rec.events) != 1 {
		t.Fatalf("got %d invocations, want 1", len(rec.events))
	}
	if got := rec.events[0]; !got.isFinal || got.err != "connection reset by peer" {
		t.Errorf("unexpected terminal invocation %+v", got)
	}
	if response.Error == "" {
		t.Error("response error should be set")
	}
	if response.FinishReason != "" {
		t.Errorf("failed transfer should not report %q", response.FinishReason)
	}
}

func TestProcessor_EndedMidEvent(t *testing.T) {
	rec := &recorder{}
	p := NewProcessor(openai.New(), rec.callback)

	p.Feed([]byte("data: {\"choices\":[{\"delta\":{\"content\":\"Hi\"}}]}\n\ndata: {\"choi"))
	response := p.Finalize(Outcome{StatusCode: 200})

	if len(rec.events) != 2 {
		t.Fatalf("got %d invocations, want 2", len(rec.events))
	}
	if got := rec.events[1]; !got.isFinal || got.err != ErrMsgStreamEndedMidEvent {
		t.Errorf("unexpected terminal invocation %+v", got)
	}
	if response.Error != ErrMsgStreamEndedMidEvent {
		t.Errorf("got %q, want %q", response.Error, ErrMsgStreamEndedMidEvent)
	}
}

// TestProcessor_GeminiConcatenatesParts uses a dialect whose frames carry
// several text parts.
func TestProcessor_GeminiConcatenatesParts(t *testing.T) {
	rec := &recorder{}
	p := NewProcessor(gemini.New(), rec.callback)

	p.Feed([]byte("data: {\"candidates\":[{\"content\":{\"parts\":[{\"text\":\"a\"},{\"text\":\"b\"}]}}]}\n\n" +
		"data: {\"candidates\":[{\"content\":{\"parts\":[{\"text\":\"c\"}]},\"finishReason\":\"STOP\"}]}\n\n"))
	response := p.Finalize(Outcome{StatusCode: 200})

	want := []recorded{{token: "ab", hasTok: true}, {token: "c", hasTok: true, isFinal: true}}
	if len(rec.events) != 2 || rec.events[0] != want[0] || rec.events[1] != want[1] {
		t.Errorf("got %+v, want %+v", rec.events, want)
	}
	if response.FinishReason != "STOP" {
		t.Errorf("got %q, want STOP", response.FinishReason)
	}
}

// TestProcessor_AnthropicGeneric exercises named events on the generic path.
func TestProcessor_AnthropicGeneric(t *testing.T) {
	rec := &recorder{}
	p := NewProcessor(anthropic.New(), rec.callback)

	p.Feed([]byte("event: message_start\ndata: {\"type\":\"message_start\"}\n\n" +
		"event: content_block_delta\ndata: {\"type\":\"content_block_delta\",\"delta\":{\"type\":\"text_delta\",\"text\":\"Hi\"}}\n\n" +
		"event: ping\ndata: {\"type\": \"ping\"}\n\n" +
		"event: message_delta\ndata: {\"type\":\"message_delta\",\"delta\":{\"stop_reason\":\"end_turn\"}}\n\n" +
		"event: message_stop\ndata: {\"type\":\"message_stop\"}\n\n"))
	response := p.Finalize(Outcome{StatusCode: 200})

	want := []recorded{{token: "Hi", hasTok: true}, {isFinal: true}}
	if len(rec.events) != 2 || rec.events[0] != want[0] || rec.events[1] != want[1] {
		t.Errorf("got %+v, want %+v", rec.events, want)
	}
	if response.FinishReason != "end_turn" {
		t.Errorf("got %q, want end_turn", response.FinishReason)
	}
}

func TestProcessor_AnthropicStreamError(t *testing.T) {
	rec := &recorder{}
	p := NewProcessor(anthropic.New(), rec.callback)

	p.Feed([]byte("event: error\ndata: {\"type\":\"error\",\"error\":{\"type\":\"overloaded_error\",\"message\":\"Overloaded\"}}\n\n"))
	response := p.Finalize(Outcome{StatusCode: 200})

	wantErr := "Anthropic stream error (overloaded_error): Overloaded"
	if len(rec.events) != 1 || rec.events[0].err != wantErr || !rec.events[0].isFinal {
		t.Errorf("unexpected invocations %+v", rec.events)
	}
	if response.Error != wantErr {
		t.Errorf("got %q, want %q", response.Error, wantErr)
	}
	if response.FinishReason != "overloaded_error" {
		t.Errorf("got finish reason %q", response.FinishReason)
	}
}
