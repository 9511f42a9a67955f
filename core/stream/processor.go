package stream

import (
	"github.com/leofalp/llmwire/internal/sse"
	"github.com/leofalp/llmwire/internal/utils"
	"github.com/leofalp/llmwire/providers/ai"
)

// sink delivers mapped frames to one of the two callback contracts.
type sink interface {
	// frame maps and delivers one parsed frame.
	frame(p *Processor, frame sse.Frame)
	// abort delivers a terminal error raised by the processor itself.
	abort(p *Processor, message string)
	// finish delivers the finalizer's terminal invocation.
	finish(p *Processor, outcome Outcome, message *string)
}

// Processor is the per-call streaming state machine.
type Processor struct {
	dialect ai.Dialect
	buffer  *sse.Buffer
	sink    sink

	stopped      bool
	cancelled    bool
	finishReason string
	streamErr    string
	frames       int
}

// Option configures a Processor.
type Option func(*Processor)

// WithMaxBufferSize bounds the frame buffer. Zero or less selects
// sse.DefaultMaxSize.
func WithMaxBufferSize(size int) Option {
	return func(p *Processor) {
		p.buffer = sse.NewBuffer(size)
	}
}

// NewProcessor returns a processor for the generic token callback.
func NewProcessor(dialect ai.Dialect, callback ai.StreamCallback, opts ...Option) *Processor {
	return newProcessor(dialect, &genericSink{callback: callback}, opts)
}

// NewTypedProcessor returns a processor for the detailed event callback. It
// fails with ai.ErrUnsupported when the dialect has no typed events.
func NewTypedProcessor(dialect ai.Dialect, callback ai.AnthropicCallback, opts ...Option) (*Processor, error) {
	mapper, ok := dialect.(ai.TypedEventMapper)
	if !ok {
		return nil, ai.ErrUnsupported
	}
	return newProcessor(dialect, &typedSink{mapper: mapper, callback: callback}, opts), nil
}

func newProcessor(dialect ai.Dialect, s sink, opts []Option) *Processor {
	p := &Processor{
		dialect: dialect,
		buffer:  sse.NewBuffer(0),
		sink:    s,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Feed appends one body chunk and dispatches every frame it completes. It
// returns false once the processor has stopped, after which the transport
// should stop reading.
func (p *Processor) Feed(chunk []byte) bool {
	if p.stopped {
		return false
	}

	if err := p.buffer.Append(chunk); err != nil {
		p.sink.abort(p, "Internal error: "+err.Error())
		p.stopped = true
		return false
	}

	for !p.stopped {
		raw, ok := p.buffer.TakeFrame()
		if !ok {
			break
		}
		frame := sse.ParseFrame(raw)
		if frame.IsEmpty() {
			continue
		}
		p.frames++
		p.sink.frame(p, frame)
	}
	p.buffer.Compact()

	return !p.stopped
}

// Reset discards buffered bytes so the processor can receive a retried
// transfer. Captured state is kept.
func (p *Processor) Reset() {
	p.buffer.Reset()
}

// Stopped reports whether the stream reached a terminal frame, was cancelled
// or failed internally.
func (p *Processor) Stopped() bool {
	return p.stopped
}

// Cancelled reports whether the callback asked to stop.
func (p *Processor) Cancelled() bool {
	return p.cancelled
}

// FinishReason returns the first finish reason captured so far.
func (p *Processor) FinishReason() string {
	return p.finishReason
}

// Frames returns the number of non-empty frames dispatched.
func (p *Processor) Frames() int {
	return p.frames
}

// capture records the first finish reason and the first stream error.
func (p *Processor) capture(finishReason, errMsg string) {
	if p.finishReason == "" && finishReason != "" {
		p.finishReason = finishReason
	}
	p.recordError(errMsg)
}

func (p *Processor) recordError(errMsg string) {
	if p.streamErr == "" && errMsg != "" {
		p.streamErr = errMsg
	}
}

// streamErrPtr returns the accumulated stream error, or nil.
func (p *Processor) streamErrPtr() *string {
	if p.streamErr == "" {
		return nil
	}
	msg := p.streamErr
	return &msg
}

// deliver applies the callback's verdict and the frame's finality.
func (p *Processor) deliver(keepGoing, final bool) {
	if !keepGoing {
		p.cancelled = true
		p.stopped = true
	}
	if final {
		p.stopped = true
	}
}

/*
	GENERIC TOKEN CALLBACK
*/

type genericSink struct {
	callback ai.StreamCallback
}

// frame invokes the callback for a frame with text, or for a terminal frame
// without text. Other frames produce no invocation.
func (s *genericSink) frame(p *Processor, frame sse.Frame) {
	result := p.dialect.MapFrame(frame.Event, frame.Data)
	p.capture(result.FinishReason, result.Err)

	if result.Token == "" && !result.Final {
		return
	}

	event := ai.StreamEvent{IsFinal: result.Final}
	if result.Token != "" {
		token := result.Token
		event.Token = &token
	}
	if result.Final {
		event.Err = p.streamErrPtr()
	}
	p.deliver(s.callback(event), result.Final)
}

func (s *genericSink) abort(p *Processor, message string) {
	p.recordError(message)
	s.callback(ai.StreamEvent{IsFinal: true, Err: p.streamErrPtr()})
}

func (s *genericSink) finish(_ *Processor, _ Outcome, message *string) {
	s.callback(ai.StreamEvent{IsFinal: true, Err: message})
}

/*
	DETAILED EVENT CALLBACK
*/

type typedSink struct {
	mapper   ai.TypedEventMapper
	callback ai.AnthropicCallback
}

// frame invokes the callback exactly once per frame.
func (s *typedSink) frame(p *Processor, frame sse.Frame) {
	result := s.mapper.MapTypedFrame(frame.Event, frame.Data)
	p.capture(result.FinishReason, result.Err)

	var errMsg *string
	if result.Err != "" {
		msg := result.Err
		errMsg = &msg
	}
	p.deliver(s.callback(result.Event, errMsg), result.Final)
}

func (s *typedSink) abort(p *Processor, message string) {
	p.recordError(message)
	s.callback(errorEvent(syntheticErrorData("internal_error", message)), p.streamErrPtr())
}

// finish reports a failed transfer as an error event and a clean one as a
// synthetic message_stop.
func (s *typedSink) finish(p *Processor, outcome Outcome, message *string) {
	if message == nil {
		s.callback(ai.AnthropicEvent{
			Type: ai.AnthropicMessageStop,
			Name: string(ai.AnthropicMessageStop),
			Data: `{"type":"message_stop"}`,
		}, nil)
		return
	}

	var data string
	switch {
	case outcome.TransportErr != nil:
		data = outcome.TransportErr.Error()
	case outcome.httpFailed():
		data = string(outcome.Body)
		if len(outcome.Body) == 0 {
			data = `{"error":{"type":"http_error","message":"HTTP error occurred during stream"}}`
		}
	default:
		data = syntheticErrorData("stream_error", *message)
	}
	s.callback(errorEvent(data), message)
}

func errorEvent(data string) ai.AnthropicEvent {
	return ai.AnthropicEvent{Type: ai.AnthropicError, Name: string(ai.AnthropicError), Data: data}
}

// syntheticErrorData renders an error in the shape of an Anthropic error
// event payload.
func syntheticErrorData(errType, message string) string {
	return utils.JSONToString(map[string]any{
		"type":  "error",
		"error": map[string]string{"type": errType, "message": message},
	})
}
