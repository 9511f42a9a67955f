package sse

import "strings"

// Frame is one parsed SSE frame.
type Frame struct {
	// Event is the value of the last "event:" line, or empty.
	Event string
	// Data holds the payload of every "data:" line in order.
	Data []string
}

// ParseFrame splits raw into "\n"-delimited lines, strips a trailing "\r" from
// each and classifies "event:" and "data:" lines. A single space after the
// colon is removed. Comment lines and any other fields are ignored.
func ParseFrame(raw []byte) Frame {
	var frame Frame

	rest := string(raw)
	for rest != "" {
		var line string
		line, rest, _ = strings.Cut(rest, "\n")
		line = strings.TrimSuffix(line, "\r")

		if value, ok := fieldValue(line, "event:"); ok {
			frame.Event = value
			continue
		}
		if value, ok := fieldValue(line, "data:"); ok {
			frame.Data = append(frame.Data, value)
		}
	}

	return frame
}

func fieldValue(line, prefix string) (string, bool) {
	value, ok := strings.CutPrefix(line, prefix)
	if !ok {
		return "", false
	}
	return strings.TrimPrefix(value, " "), true
}

// LastData returns the payload of the final data line, which is what
// single-line providers put in a frame.
func (f Frame) LastData() (string, bool) {
	if len(f.Data) == 0 {
		return "", false
	}
	return f.Data[len(f.Data)-1], true
}

// IsEmpty reports whether the frame carried neither an event nor data.
func (f Frame) IsEmpty() bool {
	return f.Event == "" && len(f.Data) == 0
}
