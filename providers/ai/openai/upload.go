package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/leofalp/llmwire/providers/ai"
)

// NewUploadRequest builds a multipart POST to {base}/files.
func (d *Dialect) NewUploadRequest(ctx context.Context, baseURL, apiKey string, file ai.UploadFile) (*http.Request, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if err := writer.WriteField("purpose", uploadPurpose); err != nil {
		return nil, fmt.Errorf("error writing purpose field: %w", err)
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, file.Filename))
	header.Set("Content-Type", file.MIMEType)
	fileWriter, err := writer.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("error creating file part: %w", err)
	}
	if _, err := fileWriter.Write(file.Content); err != nil {
		return nil, fmt.Errorf("error writing file part: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("error closing multipart body: %w", err)
	}

	url := strings.TrimRight(baseURL, "/") + filesEndpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	d.Authorize(req.Header, apiKey)
	return req, nil
}

func (d *Dialect) DecodeUpload(body []byte, file ai.UploadFile) (ai.FileInfo, error) {
	var object fileObject
	if err := json.Unmarshal(body, &object); err != nil {
		return ai.FileInfo{}, fmt.Errorf("error decoding file object: %w", err)
	}
	if object.ID == "" {
		return ai.FileInfo{}, fmt.Errorf("file object has no id")
	}

	name := object.Filename
	if name == "" {
		name = file.Filename
	}
	return ai.FileInfo{
		ID:        object.ID,
		Name:      name,
		MIMEType:  file.MIMEType,
		SizeBytes: object.Bytes,
	}, nil
}
