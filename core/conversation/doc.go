// Package conversation stores and serializes message histories.
//
// [History] is a concurrency-safe, slice-backed list of messages for building
// requests turn by turn. [Marshal] and [Unmarshal] convert message arrays to
// and from JSON of the form
//
//	[{"role":"user","parts":[{"type":"text","text":"Hello"}]}]
//
// Reading tolerates JSONC: // and /* */ comments and trailing commas.
package conversation
