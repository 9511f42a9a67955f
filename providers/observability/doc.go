// Package observability defines the tracing, metrics and logging interfaces
// the llmwire client reports through, plus the attribute, span, event and
// metric names it uses.
//
// [Provider] composes [Tracer], [Metrics] and [Logger]. The client receives a
// Provider as an option and propagates the active [Span] through the request
// context so that lower layers (the HTTP helpers in internal/utils) can add
// events without taking an extra parameter. A ready-made backend built on
// log/slog lives in the slog subpackage.
package observability
