package ai

import (
	"errors"
	"strings"
)

// ErrUnsupported is returned when a provider has no equivalent for an operation.
var ErrUnsupported = errors.New("operation not supported by provider")

/*
	##### PROVIDERS #####
*/

// ProviderType identifies the wire dialect a client speaks.
type ProviderType string

const (
	ProviderOpenAI    ProviderType = "openai"    // OpenAI and compatible chat-completions APIs
	ProviderGemini    ProviderType = "gemini"    // Google Gemini generateContent API
	ProviderAnthropic ProviderType = "anthropic" // Anthropic messages API
)

// ParseProviderType maps a provider name, case-insensitively, to its type.
func ParseProviderType(name string) (ProviderType, bool) {
	switch ProviderType(strings.ToLower(strings.TrimSpace(name))) {
	case ProviderOpenAI:
		return ProviderOpenAI, true
	case ProviderGemini:
		return ProviderGemini, true
	case ProviderAnthropic:
		return ProviderAnthropic, true
	}
	return "", false
}

// TokenParam selects which request field carries the output token limit for
// OpenAI-compatible providers.
type TokenParam int

const (
	// TokenParamMaxCompletionTokens is the current field name.
	TokenParamMaxCompletionTokens TokenParam = iota
	// TokenParamMaxTokens is the legacy field name.
	TokenParamMaxTokens
)

// FieldName returns the JSON field name for the preference.
func (p TokenParam) FieldName() string {
	if p == TokenParamMaxTokens {
		return "max_tokens"
	}
	return "max_completion_tokens"
}

func (p TokenParam) String() string {
	return p.FieldName()
}

/*
	##### PROVIDER INPUT #####
*/

// Role is the author of a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant, RoleTool:
		return true
	}
	return false
}

// Message is one turn of a conversation.
type Message struct {
	Role  Role          `json:"role"`
	Parts []ContentPart `json:"parts"`
}

// NewMessage creates a message with the given parts.
func NewMessage(role Role, parts ...ContentPart) Message {
	return Message{Role: role, Parts: parts}
}

// NewTextMessage creates a message holding a single text part.
func NewTextMessage(role Role, text string) Message {
	return NewMessage(role, TextPart(text))
}

// AddText appends a text part.
func (m *Message) AddText(text string) {
	m.Parts = append(m.Parts, TextPart(text))
}

// AddImageURL appends an image referenced by URL.
func (m *Message) AddImageURL(url string) {
	m.Parts = append(m.Parts, ImageURLPart(url))
}

// AddImageBase64 appends an inline base64 image.
func (m *Message) AddImageBase64(mimeType, data string) {
	m.Parts = append(m.Parts, ImageBase64Part(mimeType, data))
}

// AddFileData appends an inline base64 file after validating it.
func (m *Message) AddFileData(mimeType, data, filename string) error {
	part := FileDataPart(mimeType, data, filename)
	if err := part.Validate(); err != nil {
		return err
	}
	m.Parts = append(m.Parts, part)
	return nil
}

// AddFileReference appends a reference to a previously uploaded file.
func (m *Message) AddFileReference(fileID, mimeType string) error {
	part := FileReferencePart(fileID, mimeType)
	if err := part.Validate(); err != nil {
		return err
	}
	m.Parts = append(m.Parts, part)
	return nil
}

// SingleText returns the text when the message consists of exactly one text
// part.
func (m Message) SingleText() (string, bool) {
	if len(m.Parts) == 1 && m.Parts[0].Type == PartText {
		return m.Parts[0].Text, true
	}
	return "", false
}

// RequestConfig is the uniform request model. It is treated as immutable for
// the duration of a call.
type RequestConfig struct {
	Model         string
	Messages      []Message
	SystemPrompt  string   // Sent separately from Messages; system-role messages are not forwarded
	Temperature   *float64 // nil leaves the provider default
	MaxTokens     int      // 0 leaves the provider default (Anthropic falls back to DefaultAnthropicMaxTokens)
	TopP          float64  // Sent when > 0
	TopK          int      // Gemini and Anthropic only; sent when > 0
	StopSequences []string
	Stream        bool
}

// DefaultAnthropicMaxTokens is used when an Anthropic request leaves MaxTokens
// unset, since that API requires the field.
const DefaultAnthropicMaxTokens = 4096

/*
	##### PROVIDER OUTPUT #####
*/

// Response is the normalized result of a call. For streaming calls it is
// populated once the transfer has been finalized.
type Response struct {
	Parts        []ContentPart `json:"parts,omitempty"` // Non-streaming only
	FinishReason string        `json:"finish_reason,omitempty"`
	Error        string        `json:"error,omitempty"` // Non-empty if and only if the call failed
	StatusCode   int           `json:"status_code"`
}

// Failed reports whether the call is considered failed.
func (r *Response) Failed() bool {
	return r.Error != ""
}

// Text concatenates every text part of the response.
func (r *Response) Text() string {
	var sb strings.Builder
	for _, part := range r.Parts {
		if part.Type == PartText {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}

// Model describes one entry returned by a provider's model listing.
type Model struct {
	ID               string `json:"id"`
	DisplayName      string `json:"display_name,omitempty"`
	Version          string `json:"version,omitempty"`
	Description      string `json:"description,omitempty"`
	InputTokenLimit  int    `json:"input_token_limit,omitempty"`
	OutputTokenLimit int    `json:"output_token_limit,omitempty"`
}

// FileInfo describes a file stored on the provider side.
type FileInfo struct {
	ID        string `json:"id"` // File id (OpenAI) or file URI (Gemini)
	Name      string `json:"name,omitempty"`
	MIMEType  string `json:"mime_type"`
	SizeBytes int64  `json:"size_bytes,omitempty"`
}

// Reference returns a content part pointing at the uploaded file.
func (f FileInfo) Reference() ContentPart {
	return FileReferencePart(f.ID, f.MIMEType)
}
