// Package sse turns an HTTP response body delivered in arbitrary chunks into
// complete Server-Sent Events frames.
//
// A [Buffer] accepts raw chunks through [Buffer.Append] and yields frames via
// [Buffer.TakeFrame]. A frame is every byte up to the first blank-line
// separator, either "\n\n" or "\r\n\r\n", whichever occurs first. Bytes that do
// not yet form a complete frame stay buffered until the next chunk arrives.
// [ParseFrame] splits a frame into its event name and data lines.
//
// Buffers are owned by a single stream processor and are not safe for
// concurrent use.
package sse
