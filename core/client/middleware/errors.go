package middleware

import "errors"

// ErrRequestTimeout is returned by the timeout middleware when its own
// deadline, rather than the caller's context, ended the request. The error is
// wrapped together with the underlying transport error.
//
// Example:
//
//	if errors.Is(err, middleware.ErrRequestTimeout) {
//	    // the provider did not answer in time
//	}
var ErrRequestTimeout = errors.New("llmwire: provider request timed out")
