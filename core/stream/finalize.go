package stream

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/leofalp/llmwire/internal/utils"
	"github.com/leofalp/llmwire/providers/ai"
)

const (
	// FinishReasonCompleted is reported for a clean transfer that never
	// carried a finish reason.
	FinishReasonCompleted = "completed"

	// ErrMsgStreamEndedMidEvent is recorded when the body ends inside a frame.
	ErrMsgStreamEndedMidEvent = "stream ended mid-event"

	errMsgHTTPDuringStream = "HTTP error occurred during stream"

	bodyHintLength = 200
)

// Outcome describes how the HTTP transfer ended.
type Outcome struct {
	StatusCode   int
	TransportErr error  // Nil when the transfer completed or was cancelled by the callback
	Body         []byte // Error body of a non-2xx response
}

func (o Outcome) httpFailed() bool {
	return o.StatusCode != 0 && !utils.IsSuccess(o.StatusCode)
}

// Finalize closes the stream. Unless the processor already stopped, it
// delivers one terminal callback. It then builds the Response: the captured
// finish reason, or "completed" for a clean transfer, and an error combining
// the transport, HTTP and stream failures.
func (p *Processor) Finalize(outcome Outcome) *ai.Response {
	if !p.stopped {
		if outcome.TransportErr == nil && !outcome.httpFailed() && len(bytes.TrimSpace(p.buffer.Pending())) > 0 {
			p.recordError(ErrMsgStreamEndedMidEvent)
		}
		p.sink.finish(p, outcome, p.terminalMessage(outcome))
		p.stopped = true
	}

	response := &ai.Response{
		StatusCode:   outcome.StatusCode,
		FinishReason: p.finishReason,
		Error:        p.combinedError(outcome),
	}
	if response.FinishReason == "" && response.Error == "" {
		response.FinishReason = FinishReasonCompleted
	}
	return response
}

// terminalMessage picks the error for the terminal callback: the stream
// error, the transport error, the provider's error message, the body itself,
// then a generic message. It is nil for a clean transfer.
func (p *Processor) terminalMessage(outcome Outcome) *string {
	var message string
	switch {
	case p.streamErr != "":
		message = p.streamErr
	case outcome.TransportErr != nil:
		message = outcome.TransportErr.Error()
	case outcome.httpFailed():
		if detail, ok := p.dialect.ExtractError(outcome.Body); ok && detail != "" {
			message = detail
		} else if hint := utils.HumanizeBody(outcome.Body); hint != "" {
			message = utils.TruncateString(hint, bodyHintLength)
		} else {
			message = errMsgHTTPDuringStream
		}
	default:
		return nil
	}
	return &message
}

// combinedError joins the transport, HTTP and stream errors, leaving out any
// part already contained in the message.
func (p *Processor) combinedError(outcome Outcome) string {
	var combined string

	if outcome.TransportErr != nil {
		combined = outcome.TransportErr.Error()
	}

	if outcome.httpFailed() {
		combined = appendUnique(combined, p.httpError(outcome), "; ")
	}

	if p.streamErr != "" && !strings.Contains(combined, p.streamErr) {
		if combined == "" {
			combined = p.streamErr
		} else {
			combined = fmt.Sprintf("%s; Stream processing error: %s", combined, p.streamErr)
		}
	}
	return combined
}

func (p *Processor) httpError(outcome Outcome) string {
	if detail, ok := p.dialect.ExtractError(outcome.Body); ok && detail != "" {
		return fmt.Sprintf("HTTP error %d: %s", outcome.StatusCode, detail)
	}
	if hint := utils.HumanizeBody(outcome.Body); hint != "" {
		return fmt.Sprintf("HTTP error %d. Body hint: %s", outcome.StatusCode, utils.TruncateString(hint, bodyHintLength))
	}
	return fmt.Sprintf("HTTP error %d (empty body)", outcome.StatusCode)
}

func appendUnique(combined, part, sep string) string {
	switch {
	case part == "" || strings.Contains(combined, part):
		return combined
	case combined == "":
		return part
	default:
		return combined + sep + part
	}
}
