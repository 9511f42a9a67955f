package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"

	"github.com/leofalp/llmwire/providers/ai"
)

// NewUploadRequest builds a multipart/related media upload to
// {uploadBase}/files?key=..., with JSON metadata first and the file bytes
// second.
func (d *Dialect) NewUploadRequest(ctx context.Context, baseURL, apiKey string, file ai.UploadFile) (*http.Request, error) {
	var metadata uploadMetadata
	metadata.File.DisplayName = file.Filename
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("error marshaling upload metadata: %w", err)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	metadataHeader := make(textproto.MIMEHeader)
	metadataHeader.Set("Content-Type", "application/json; charset=UTF-8")
	metadataPart, err := writer.CreatePart(metadataHeader)
	if err != nil {
		return nil, fmt.Errorf("error creating metadata part: %w", err)
	}
	if _, err := metadataPart.Write(metadataJSON); err != nil {
		return nil, fmt.Errorf("error writing metadata part: %w", err)
	}

	fileHeader := make(textproto.MIMEHeader)
	fileHeader.Set("Content-Type", file.MIMEType)
	filePart, err := writer.CreatePart(fileHeader)
	if err != nil {
		return nil, fmt.Errorf("error creating file part: %w", err)
	}
	if _, err := filePart.Write(file.Content); err != nil {
		return nil, fmt.Errorf("error writing file part: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("error closing multipart body: %w", err)
	}

	uploadURL := strings.TrimRight(baseURL, "/") + "/files?key=" + url.QueryEscape(apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, &body)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "multipart/related; boundary="+writer.Boundary())
	req.Header.Set("X-Goog-Upload-Protocol", "multipart")
	return req, nil
}

// DecodeUpload returns the file's URI as its id, which is what file_data
// parts reference.
func (d *Dialect) DecodeUpload(body []byte, file ai.UploadFile) (ai.FileInfo, error) {
	var response uploadResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return ai.FileInfo{}, fmt.Errorf("error decoding upload response: %w", err)
	}
	if response.File.URI == "" {
		return ai.FileInfo{}, fmt.Errorf("upload response has no file uri")
	}

	mimeType := response.File.MimeType
	if mimeType == "" {
		mimeType = file.MIMEType
	}
	size, _ := strconv.ParseInt(response.File.SizeBytes, 10, 64)

	return ai.FileInfo{
		ID:        response.File.URI,
		Name:      response.File.Name,
		MIMEType:  mimeType,
		SizeBytes: size,
	}, nil
}
