package openai

import (
	"testing"

	"github.com/leofalp/llmwire/providers/ai"
)

func TestExtractResponse_NoChoices(t *testing.T) {
	if _, _, ok := New().ExtractResponse([]byte(`{"choices":[]}`)); ok {
		t.Error("empty choices should not yield text")
	}
	if _, _, ok := New().ExtractResponse([]byte(`{"choices":[{"message":{"content":null},"finish_reason":"tool_calls"}]}`)); ok {
		t.Error("null content should not yield text")
	}
}

func TestExtractError(t *testing.T) {
	msg, ok := New().ExtractError([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`))
	if !ok || msg != "Incorrect API key provided" {
		t.Errorf("got %q, %v", msg, ok)
	}
}

func TestRejectsTokenParam(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   bool
	}{
		{
			name:   "structured param",
			status: 400,
			body:   `{"error":{"message":"Unsupported parameter","type":"invalid_request_error","param":"max_completion_tokens","code":"unsupported_parameter"}}`,
			want:   true,
		},
		{
			name:   "free text from compatible server",
			status: 400,
			body:   `{"detail":"Unrecognized request argument supplied: max_completion_tokens"}`,
			want:   true,
		},
		{
			name:   "pydantic style",
			status: 400,
			body:   `{"object":"error","message":"[{'loc': ('body', 'max_completion_tokens'), 'msg': 'Extra inputs are not permitted'}]"}`,
			want:   true,
		},
		{
			name:   "other parameter",
			status: 400,
			body:   `{"error":{"message":"Unsupported parameter: 'temperature'","param":"temperature","code":"unsupported_parameter"}}`,
			want:   false,
		},
		{
			name:   "not a 400",
			status: 422,
			body:   `{"error":{"message":"Unsupported parameter","param":"max_completion_tokens"}}`,
			want:   false,
		},
		{
			name:   "range error on the field",
			status: 400,
			body:   `{"error":{"message":"max_completion_tokens is too large: 200000. This model supports at most 16384 completion tokens, whereas you provided 200000.","type":"invalid_request_error","param":"max_completion_tokens","code":null}}`,
			want:   false,
		},
		{
			name:   "unknown parameter code",
			status: 400,
			body:   `{"error":{"message":"Unrecognized request argument","type":"invalid_request_error","param":"max_completion_tokens","code":"unknown_parameter"}}`,
			want:   true,
		},
		{
			name:   "flat anthropic style message",
			status: 400,
			body:   `{"type":"error","message":"max_completion_tokens: not supported"}`,
			want:   true,
		},
		{
			name:   "field mentioned without rejection",
			status: 400,
			body:   `{"error":{"message":"max_completion_tokens must be at least 1"}}`,
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New().RejectsTokenParam(tt.status, []byte(tt.body), ai.TokenParamMaxCompletionTokens)
			if got != tt.want {
				t.Errorf("RejectsTokenParam() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecodeModels(t *testing.T) {
	models, err := New().DecodeModels([]byte(`{"object":"list","data":[{"id":"gpt-4o","object":"model"},{"id":"o3-mini"}]}`))
	if err != nil {
		t.Fatalf("DecodeModels() error = %v", err)
	}
	if len(models) != 2 || models[0].ID != "gpt-4o" || models[1].ID != "o3-mini" {
		t.Errorf("unexpected models: %+v", models)
	}
}

func TestDecodeUpload(t *testing.T) {
	file := ai.UploadFile{Filename: "notes.txt", MIMEType: "text/plain", Content: []byte("hi")}
	info, err := New().DecodeUpload([]byte(`{"id":"file-123","object":"file","bytes":2,"filename":"notes.txt","purpose":"user_data"}`), file)
	if err != nil {
		t.Fatalf("DecodeUpload() error = %v", err)
	}
	if info.ID != "file-123" || info.MIMEType != "text/plain" || info.SizeBytes != 2 {
		t.Errorf("unexpected file info: %+v", info)
	}

	ref := info.Reference()
	if ref.Type != ai.PartFileReference || ref.FileID != "file-123" {
		t.Errorf("unexpected reference part: %+v", ref)
	}
}
