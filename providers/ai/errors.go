package ai

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/leofalp/llmwire/internal/utils"
)

// errorEnvelope covers the error shapes the supported APIs return:
//
//	{"error": {"message": "...", "type": "...", "param": "...", "code": ...}}
//	{"type": "error", "error": {"type": "...", "message": "..."}}
//	{"type": "error", "message": "..."}
//	{"error": "..."}
type errorEnvelope struct {
	Type    string          `json:"type"`
	Message string          `json:"message"`
	Error   json.RawMessage `json:"error"`
}

// ErrorDetail is the nested error object of a provider error body.
type ErrorDetail struct {
	Message string          `json:"message"`
	Type    string          `json:"type"`
	Status  string          `json:"status"`
	Param   string          `json:"param"`
	Code    json.RawMessage `json:"code"`
}

// CodeString returns the error code whether it was sent as a string or a
// number.
func (d ErrorDetail) CodeString() string {
	var s string
	if err := json.Unmarshal(d.Code, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(d.Code))
}

// ParseErrorBody extracts the most specific error detail from a provider error
// body. Gemini wraps stream errors in a one-element array, which is unwrapped.
// ok is false when body holds no recognizable error.
func ParseErrorBody(body []byte) (ErrorDetail, bool) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []json.RawMessage
		if err := utils.DecodeJSONLenient(trimmed, &list); err != nil || len(list) == 0 {
			return ErrorDetail{}, false
		}
		trimmed = list[0]
	}

	var envelope errorEnvelope
	if err := utils.DecodeJSONLenient(trimmed, &envelope); err != nil {
		return ErrorDetail{}, false
	}

	if len(envelope.Error) > 0 {
		var detail ErrorDetail
		if err := json.Unmarshal(envelope.Error, &detail); err == nil && detail.Message != "" {
			return detail, true
		}
		var text string
		if err := json.Unmarshal(envelope.Error, &text); err == nil && text != "" {
			return ErrorDetail{Message: text}, true
		}
	}

	if envelope.Type == "error" && envelope.Message != "" {
		return ErrorDetail{Message: envelope.Message, Type: envelope.Type}, true
	}
	return ErrorDetail{}, false
}

// ParseErrorMessage returns only the message of ParseErrorBody.
func ParseErrorMessage(body []byte) (string, bool) {
	detail, ok := ParseErrorBody(body)
	return detail.Message, ok
}
