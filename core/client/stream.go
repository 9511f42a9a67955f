package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/leofalp/llmwire/core/stream"
	"github.com/leofalp/llmwire/internal/utils"
	"github.com/leofalp/llmwire/providers/ai"
	"github.com/leofalp/llmwire/providers/observability"
)

// readChunkSize is the size of each body read handed to the processor.
const readChunkSize = 16 << 10

// StreamCompletion streams cfg and invokes callback synchronously for every
// token, in arrival order. The last invocation has IsFinal set; a callback
// returning false cancels the transfer instead, and no further invocation
// follows.
//
// The finalized Response is always returned. When its Error field is set the
// same failure is also returned as a *StreamError.
func (c *Client) StreamCompletion(ctx context.Context, cfg ai.RequestConfig, callback ai.StreamCallback) (*ai.Response, error) {
	if callback == nil {
		return nil, fmt.Errorf("stream callback must not be nil")
	}
	processor := stream.NewProcessor(c.dialect, callback, stream.WithMaxBufferSize(c.maxBufferSize))
	return c.runStream(ctx, cfg, processor)
}

// StreamAnthropicEvents streams cfg and invokes callback once per SSE event
// with the event's raw data, pings included. It returns ErrUnsupported for
// providers without named events.
func (c *Client) StreamAnthropicEvents(ctx context.Context, cfg ai.RequestConfig, callback ai.AnthropicCallback) (*ai.Response, error) {
	if callback == nil {
		return nil, fmt.Errorf("event callback must not be nil")
	}
	processor, err := stream.NewTypedProcessor(c.dialect, callback, stream.WithMaxBufferSize(c.maxBufferSize))
	if err != nil {
		return nil, fmt.Errorf("detailed events for %s: %w", c.dialect.Provider(), err)
	}
	return c.runStream(ctx, cfg, processor)
}

// Stream returns the token stream of cfg as an iterator. The request is sent
// when iteration starts; breaking out of the loop cancels it. The terminal
// event of a failed stream is yielded with a *StreamError.
//
// Example:
//
//	s := c.Stream(ctx, cfg)
//	for event, err := range s.Iter() {
//	    if err != nil { handle error }
//	    fmt.Print(event.TokenText())
//	}
//	fmt.Println(s.Result().FinishReason)
func (c *Client) Stream(ctx context.Context, cfg ai.RequestConfig) *ai.ChatStream {
	var final *ai.Response

	iterator := func(yield func(ai.StreamEvent, error) bool) {
		final, _ = c.StreamCompletion(ctx, cfg, func(event ai.StreamEvent) bool {
			var err error
			if event.Err != nil {
				err = &StreamError{Message: *event.Err}
			}
			return yield(event, err)
		})
	}

	return ai.NewChatStream(iterator, func() *ai.Response { return final })
}

// StreamAnthropic is the iterator form of StreamAnthropicEvents.
func (c *Client) StreamAnthropic(ctx context.Context, cfg ai.RequestConfig) iter.Seq2[ai.AnthropicEvent, error] {
	return func(yield func(ai.AnthropicEvent, error) bool) {
		_, err := c.StreamAnthropicEvents(ctx, cfg, func(event ai.AnthropicEvent, errMsg *string) bool {
			var err error
			if errMsg != nil {
				err = &StreamError{Message: *errMsg}
			}
			return yield(event, err)
		})
		if errors.Is(err, ErrUnsupported) {
			yield(ai.AnthropicEvent{Type: ai.AnthropicUnknown}, err)
		}
	}
}

// runStream performs the transfer and records its outcome.
func (c *Client) runStream(ctx context.Context, cfg ai.RequestConfig, processor *stream.Processor) (*ai.Response, error) {
	cfg.Stream = true
	ctx, call := c.observe(ctx, observability.SpanStream, cfg.Model)

	response := c.transfer(ctx, call, cfg, processor)
	err := streamErrorOf(response)

	if processor.Cancelled() {
		call.event(observability.EventStreamCancelled)
	}
	call.event(observability.EventStreamFinalized,
		observability.Int(observability.AttrStreamFrames, processor.Frames()),
	)
	call.count(ctx, observability.MetricStreamFrames, int64(processor.Frames()))
	call.end(ctx, response, err,
		observability.Bool(observability.AttrLLMStreaming, true),
		observability.Bool(observability.AttrStreamCancelled, processor.Cancelled()),
		observability.Int(observability.AttrStreamFrames, processor.Frames()),
		observability.String(observability.AttrLLMTokenParam, c.tokenParam.FieldName()),
	)
	return response, err
}

// transfer sends the request and feeds the body to processor. Error bodies
// are read whole instead of being framed.
func (c *Client) transfer(ctx context.Context, call *observedCall, cfg ai.RequestConfig, processor *stream.Processor) *ai.Response {
	resp, err := c.postCompletion(ctx, call, cfg, processor.Reset)
	if err != nil {
		return processor.Finalize(stream.Outcome{TransportErr: err})
	}
	defer utils.CloseWithLog(resp.Body, responseURL(resp))

	outcome := stream.Outcome{StatusCode: resp.StatusCode}
	if !utils.IsSuccess(resp.StatusCode) {
		outcome.Body, outcome.TransportErr = utils.ReadLimited(resp.Body)
		return processor.Finalize(outcome)
	}

	outcome.TransportErr = pump(resp.Body, processor)
	return processor.Finalize(outcome)
}

// pump reads body until it ends or processor stops. Returning early leaves
// the rest of the body unread; closing it aborts the transfer.
func pump(body io.Reader, processor *stream.Processor) error {
	chunk := make([]byte, readChunkSize)
	for {
		n, err := body.Read(chunk)
		if n > 0 && !processor.Feed(chunk[:n]) {
			return nil
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
