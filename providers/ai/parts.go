package ai

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/leofalp/llmwire/internal/utils"
)

// ErrInvalidPart is returned when a content part's fields do not match its type.
var ErrInvalidPart = errors.New("invalid content part")

// PartType tags the populated variant of a ContentPart.
type PartType string

const (
	PartText          PartType = "text"
	PartImageURL      PartType = "image_url"
	PartImageBase64   PartType = "image_base64"
	PartFileData      PartType = "file_data"
	PartFileReference PartType = "file_reference"
)

// ContentPart is a tagged variant: Type selects which of the remaining fields
// are meaningful. Use the constructors below so that the stored fields always
// match the tag.
type ContentPart struct {
	Type     PartType `json:"type"`
	Text     string   `json:"text,omitempty"`      // PartText
	URL      string   `json:"url,omitempty"`       // PartImageURL
	MIMEType string   `json:"mime_type,omitempty"` // PartImageBase64, PartFileData, PartFileReference
	Data     string   `json:"data,omitempty"`      // Base64 payload for PartImageBase64, PartFileData
	Filename string   `json:"filename,omitempty"`  // Optional, PartFileData
	FileID   string   `json:"file_id,omitempty"`   // PartFileReference
}

func TextPart(text string) ContentPart {
	return ContentPart{Type: PartText, Text: text}
}

func ImageURLPart(url string) ContentPart {
	return ContentPart{Type: PartImageURL, URL: url}
}

func ImageBase64Part(mimeType, data string) ContentPart {
	return ContentPart{Type: PartImageBase64, MIMEType: mimeType, Data: data}
}

func FileDataPart(mimeType, data, filename string) ContentPart {
	return ContentPart{Type: PartFileData, MIMEType: mimeType, Data: data, Filename: filename}
}

func FileReferencePart(fileID, mimeType string) ContentPart {
	return ContentPart{Type: PartFileReference, FileID: fileID, MIMEType: mimeType}
}

// Validate checks that exactly the fields belonging to the part's type are set.
func (p ContentPart) Validate() error {
	var ok bool
	switch p.Type {
	case PartText:
		ok = p.URL == "" && p.MIMEType == "" && p.Data == "" && p.Filename == "" && p.FileID == ""
	case PartImageURL:
		ok = p.URL != "" && p.Text == "" && p.MIMEType == "" && p.Data == "" && p.Filename == "" && p.FileID == ""
	case PartImageBase64:
		ok = p.MIMEType != "" && p.Data != "" && p.Text == "" && p.URL == "" && p.Filename == "" && p.FileID == ""
	case PartFileData:
		if p.MIMEType == "" || p.Data == "" {
			return fmt.Errorf("%w: file data requires mime type and data", ErrInvalidPart)
		}
		if len(p.Data)%4 != 0 {
			return fmt.Errorf("%w: file data is not padded base64 (length %d)", ErrInvalidPart, len(p.Data))
		}
		ok = p.Text == "" && p.URL == "" && p.FileID == ""
	case PartFileReference:
		ok = p.FileID != "" && p.MIMEType != "" && p.Text == "" && p.URL == "" && p.Data == "" && p.Filename == ""
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidPart, p.Type)
	}

	if !ok {
		return fmt.Errorf("%w: fields do not match type %q", ErrInvalidPart, p.Type)
	}
	return nil
}

// NewFileDataPartFromPath reads a file and returns it as an inline base64 part.
// An empty mimeType is detected from the file content and extension.
func NewFileDataPartFromPath(path, mimeType string) (ContentPart, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return ContentPart{}, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(content) == 0 {
		return ContentPart{}, fmt.Errorf("%w: %s is empty", ErrInvalidPart, path)
	}

	if mimeType == "" {
		mimeType = utils.DetectMIME(path, content)
	}

	part := FileDataPart(mimeType, base64.StdEncoding.EncodeToString(content), filepath.Base(path))
	return part, part.Validate()
}
