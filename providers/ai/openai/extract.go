package openai

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/leofalp/llmwire/providers/ai"
)

// ExtractResponse reads choices[0].message.content and
// choices[0].finish_reason.
func (d *Dialect) ExtractResponse(body []byte) (string, string, bool) {
	var response chatCompletionResponse
	if err := json.Unmarshal(body, &response); err != nil || len(response.Choices) == 0 {
		return "", "", false
	}

	choice := response.Choices[0]
	var finishReason string
	if choice.FinishReason != nil {
		finishReason = *choice.FinishReason
	}
	if choice.Message.Content == nil {
		return "", finishReason, false
	}
	return *choice.Message.Content, finishReason, true
}

func (d *Dialect) ExtractError(body []byte) (string, bool) {
	return ai.ParseErrorMessage(body)
}

// rejectionPhrases appear in the messages servers use to refuse a field.
var rejectionPhrases = []string{
	"unsupported",
	"not supported",
	"unrecognized",
	"unknown",
	"not permitted",
	"not allowed",
}

// rejectionCodes are the error codes that refuse a field outright.
var rejectionCodes = map[string]bool{
	"unsupported_parameter": true,
	"unknown_parameter":     true,
}

// RejectsTokenParam reports whether a 400 response says param is not accepted.
// A structured error must name the field, in param or in its message, and
// carry a rejection code or phrase; errors about the field's value do not
// count. Free-text matching covers compatible servers that only return a
// message.
func (d *Dialect) RejectsTokenParam(status int, body []byte, param ai.TokenParam) bool {
	if status != http.StatusBadRequest {
		return false
	}
	field := param.FieldName()

	if detail, ok := ai.ParseErrorBody(body); ok {
		if detail.Param != field && !strings.Contains(detail.Message, field) {
			return false
		}
		return rejectionCodes[detail.CodeString()] || hasRejectionPhrase(detail.Message)
	}

	text := string(body)
	return strings.Contains(text, field) && hasRejectionPhrase(text)
}

func hasRejectionPhrase(text string) bool {
	lowered := strings.ToLower(text)
	for _, phrase := range rejectionPhrases {
		if strings.Contains(lowered, phrase) {
			return true
		}
	}
	return false
}
