// Package utils provides shared low-level helpers for the llmwire internals:
// HTTP request plumbing with span events, bounded body reads, MIME detection
// for file parts, string truncation for log and error excerpts, and cleanup of
// provider error bodies before they are reported to callers.
package utils
