// Package stream turns a chunked SSE response body into callback invocations
// and a final [ai.Response].
//
// A [Processor] owns one [sse.Buffer]. The transport hands it every body
// chunk through [Processor.Feed]; complete frames are parsed and mapped by the
// provider dialect, and the caller's callback runs synchronously before Feed
// returns. Once a frame is terminal or the callback asks to cancel, the
// processor stops and Feed reports that no more input is wanted.
//
// [Processor.Finalize] runs after the transfer ends. If the stream never
// reached a terminal frame it delivers exactly one terminal callback carrying
// the best error available, then builds the Response.
//
// A Processor serves a single call and is not safe for concurrent use.
package stream
