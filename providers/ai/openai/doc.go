// Package openai implements the llmwire dialect for OpenAI and compatible
// chat-completions APIs (Azure, OpenRouter, vLLM, Ollama and similar).
//
// Requests go to {base}/chat/completions with Bearer authentication. The
// output token limit is sent as max_completion_tokens or max_tokens depending
// on the client's preference; [Dialect.RejectsTokenParam] recognizes servers
// that refuse the newer name. Streams are SSE "data:" frames terminated by a
// "[DONE]" marker.
package openai
