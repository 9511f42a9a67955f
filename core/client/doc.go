// Package client issues LLM requests through a provider dialect and exposes
// the results as plain responses, token callbacks, typed Anthropic events or
// range-over-func iterators.
//
// The primary entry point is [New], which selects the dialect for a
// [ai.ProviderType] and applies functional options such as [WithAPIKey],
// [WithBaseURL] and [WithObserver]. Keys and base URLs default to the
// provider's environment variables.
//
// # Token parameter fallback
//
// OpenAI-compatible requests first send the output limit as
// max_completion_tokens. When a server answers 400 and names that field as
// unsupported, the client switches to max_tokens, retries the request once and
// keeps the legacy name for every later call.
//
// # Concurrency
//
// A Client carries that preference as unsynchronized state. Use one Client per
// concurrent request, or serialize calls on a shared Client.
package client
