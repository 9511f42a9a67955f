package conversation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"

	"github.com/leofalp/llmwire/providers/ai"
)

// ErrNotArray is returned when the document root is not a JSON array.
var ErrNotArray = errors.New("conversation must be a JSON array")

// wireMessage and wirePart fix the field set written for each part type, so
// that empty values such as "" text survive a round trip.
type wireMessage struct {
	Role  string     `json:"role"`
	Parts []wirePart `json:"parts"`
}

type wirePart struct {
	Type     string  `json:"type"`
	Text     *string `json:"text,omitempty"`
	URL      *string `json:"url,omitempty"`
	MIMEType *string `json:"mime_type,omitempty"`
	Data     *string `json:"data,omitempty"`
	Filename *string `json:"filename,omitempty"`
	FileID   *string `json:"file_id,omitempty"`
}

// Marshal encodes messages as an indented JSON array.
func Marshal(messages []ai.Message) ([]byte, error) {
	out := make([]wireMessage, 0, len(messages))
	for _, m := range messages {
		role := m.Role
		if !role.Valid() {
			role = ai.RoleUser
		}
		wm := wireMessage{Role: string(role), Parts: make([]wirePart, 0, len(m.Parts))}
		for _, p := range m.Parts {
			if wp, ok := encodePart(p); ok {
				wm.Parts = append(wm.Parts, wp)
			}
		}
		out = append(out, wm)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding conversation: %w", err)
	}
	return data, nil
}

func encodePart(p ai.ContentPart) (wirePart, bool) {
	wp := wirePart{Type: string(p.Type)}
	switch p.Type {
	case ai.PartText:
		wp.Text = &p.Text
	case ai.PartImageURL:
		wp.URL = &p.URL
	case ai.PartImageBase64:
		wp.MIMEType, wp.Data = &p.MIMEType, &p.Data
	case ai.PartFileData:
		wp.MIMEType, wp.Data = &p.MIMEType, &p.Data
		if p.Filename != "" {
			wp.Filename = &p.Filename
		}
	case ai.PartFileReference:
		wp.FileID, wp.MIMEType = &p.FileID, &p.MIMEType
	default:
		return wirePart{}, false
	}
	return wp, true
}

// Unmarshal decodes a JSON or JSONC array of messages.
//
// Decoding is lenient: unknown roles become user, and parts with an unknown
// type, a missing required field or invalid file data are dropped.
func Unmarshal(data []byte) ([]ai.Message, error) {
	stripped := bytes.TrimSpace(jsonc.ToJSON(data))
	if len(stripped) > 0 && stripped[0] != '[' {
		return nil, ErrNotArray
	}

	var wire []wireMessage
	if err := json.Unmarshal(stripped, &wire); err != nil {
		return nil, fmt.Errorf("parsing conversation: %w", err)
	}

	messages := make([]ai.Message, 0, len(wire))
	for _, wm := range wire {
		role := ai.Role(wm.Role)
		if !role.Valid() {
			role = ai.RoleUser
		}
		msg := ai.Message{Role: role}
		for _, wp := range wm.Parts {
			if part, ok := decodePart(wp); ok {
				msg.Parts = append(msg.Parts, part)
			}
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

func decodePart(wp wirePart) (ai.ContentPart, bool) {
	var part ai.ContentPart
	switch ai.PartType(wp.Type) {
	case ai.PartText:
		if wp.Text == nil {
			return part, false
		}
		return ai.TextPart(*wp.Text), true
	case ai.PartImageURL:
		if wp.URL == nil {
			return part, false
		}
		return ai.ImageURLPart(*wp.URL), true
	case ai.PartImageBase64:
		if wp.MIMEType == nil || wp.Data == nil {
			return part, false
		}
		return ai.ImageBase64Part(*wp.MIMEType, *wp.Data), true
	case ai.PartFileData:
		if wp.MIMEType == nil || wp.Data == nil {
			return part, false
		}
		var filename string
		if wp.Filename != nil {
			filename = *wp.Filename
		}
		part = ai.FileDataPart(*wp.MIMEType, *wp.Data, filename)
	case ai.PartFileReference:
		if wp.FileID == nil || wp.MIMEType == nil {
			return part, false
		}
		part = ai.FileReferencePart(*wp.FileID, *wp.MIMEType)
	default:
		return part, false
	}
	return part, part.Validate() == nil
}

// SaveFile writes messages to path as indented JSON.
func SaveFile(path string, messages []ai.Message) error {
	data, err := Marshal(messages)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// LoadFile reads a JSON or JSONC conversation from path.
func LoadFile(path string) ([]ai.Message, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	messages, err := Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return messages, nil
}
