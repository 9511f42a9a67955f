// Package ai defines the provider-agnostic request and response model shared by
// every dialect (OpenAI-compatible, Gemini, Anthropic).
//
// A request is a [RequestConfig] holding ordered [Message] values, each made
// of tagged [ContentPart] variants. Each provider package implements [Dialect]
// to turn that model into its JSON wire format, to extract text from complete
// responses and to map streamed SSE frames back to [FrameResult] values.
// Optional capabilities ([ModelLister], [TokenCounter], [FileUploader],
// [TypedEventMapper]) are detected through type assertion.
//
// Streaming results reach callers either through a [StreamCallback] or, for
// range-over-func consumers, through a [ChatStream].
package ai
