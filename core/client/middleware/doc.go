// Package middleware provides built-in HTTP middlewares for the llmwire
// client. Each constructor returns a [client.Middleware] ready to be passed to
// [client.WithMiddleware].
//
// # Available Middleware
//
//   - [NewTimeoutMiddleware]: Bounds each provider request, body included, via
//     context.WithTimeout.
//
//   - [NewLoggingMiddleware]: Emits structured slog entries before and after
//     every provider request, with three verbosity levels (Minimal, Standard,
//     Verbose).
//
// # Usage
//
//	import (
//	    "log/slog"
//	    "time"
//
//	    "github.com/leofalp/llmwire/core/client"
//	    "github.com/leofalp/llmwire/core/client/middleware"
//	)
//
//	c, err := client.New(ai.ProviderOpenAI,
//	    client.WithMiddleware(
//	        middleware.NewTimeoutMiddleware(30*time.Second),
//	        middleware.NewLoggingMiddleware(slog.Default(), middleware.LogLevelStandard),
//	    ),
//	)
//
// Middlewares execute outermost-first: the first entry in WithMiddleware is the
// outermost wrapper. In the example above, a request travels:
//
//	Timeout (outermost) → Logging → HTTP client
//
// Middlewares see every HTTP attempt. A token parameter fallback therefore
// passes through the chain twice.
package middleware
