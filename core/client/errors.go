package client

import (
	"errors"
	"fmt"

	"github.com/leofalp/llmwire/providers/ai"
)

var (
	// ErrUnsupported is returned when the provider has no equivalent for an
	// operation, such as token counting on OpenAI.
	ErrUnsupported = ai.ErrUnsupported

	// ErrNoContent is wrapped by APIError when a successful response carries
	// no text and no error object.
	ErrNoContent = errors.New("response has no content")
)

// APIError reports a failed non-streaming call.
type APIError struct {
	StatusCode int // Zero when no response was received
	Message    string
	Err        error // Underlying cause, if any
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// StreamError reports a streaming call whose finalized response carries an
// error. Callbacks already observed the same message on their terminal
// invocation.
type StreamError struct {
	StatusCode   int
	FinishReason string
	Message      string
}

func (e *StreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("stream failed (HTTP %d): %s", e.StatusCode, e.Message)
	}
	return "stream failed: " + e.Message
}

// streamErrorOf returns a *StreamError for a failed response, or nil.
func streamErrorOf(response *ai.Response) error {
	if response == nil || !response.Failed() {
		return nil
	}
	return &StreamError{
		StatusCode:   response.StatusCode,
		FinishReason: response.FinishReason,
		Message:      response.Error,
	}
}
