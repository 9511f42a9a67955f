package utils

import (
	"bytes"
	"encoding/json"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/kaptinlin/jsonrepair"
)

// DecodeJSONLenient unmarshals body into v. If body is not valid JSON, for
// example because a proxy cut an error payload short, it is repaired once and
// decoded again.
func DecodeJSONLenient(body []byte, v any) error {
	err := json.Unmarshal(body, v)
	if err == nil {
		return nil
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || (trimmed[0] != '{' && trimmed[0] != '[') {
		return err
	}

	repaired, repairErr := jsonrepair.JSONRepair(string(trimmed))
	if repairErr != nil {
		return err
	}
	return json.Unmarshal([]byte(repaired), v)
}

// HumanizeBody renders an error body for inclusion in a message. HTML pages,
// typically served by gateways in front of the API, are converted to markdown;
// anything else is only trimmed.
func HumanizeBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if !looksLikeHTML(text) {
		return text
	}

	markdown, err := htmltomarkdown.ConvertString(text)
	if err != nil {
		return text
	}
	markdown = strings.TrimSpace(markdown)
	if markdown == "" {
		return text
	}
	return markdown
}

func looksLikeHTML(text string) bool {
	head := strings.ToLower(Excerpt(text, 64))
	return strings.HasPrefix(head, "<!doctype html") || strings.HasPrefix(head, "<html") ||
		strings.HasPrefix(head, "<head") || strings.HasPrefix(head, "<body")
}
