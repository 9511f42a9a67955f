// Package anthropic implements the llmwire dialect for Anthropic's Messages
// API.
//
// Requests go to {base}/messages authenticated with the x-api-key header and
// pinned to anthropic-version 2023-06-01. max_tokens is mandatory on this API,
// so [ai.DefaultAnthropicMaxTokens] is sent when the request sets none.
//
// Streams use named SSE events. [Dialect.MapFrame] reduces them to text deltas
// for the generic callback, while [Dialect.MapTypedFrame] passes each event
// through with its raw data for callers that want the full event sequence.
package anthropic
