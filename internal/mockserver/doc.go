// Package mockserver is an in-process imitation of the OpenAI, Gemini and
// Anthropic HTTP APIs used to exercise the client end to end.
//
// The credential selects the behavior: the Bearer token, the x-api-key header
// or the key query parameter is read as a scenario name (see the Scenario
// constants). Any other credential gets a successful canned response, streamed
// when the request asks for it.
//
// Every route is served both at the root and under /v1 and /v1beta, so a
// client may use either the server URL or a versioned path as its base URL.
package mockserver
