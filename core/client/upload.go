package client

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/leofalp/llmwire/internal/utils"
	"github.com/leofalp/llmwire/providers/ai"
	"github.com/leofalp/llmwire/providers/observability"
)

// UploadFile stores a local file with the provider and returns its handle.
// An empty mimeType is detected from the file name and content. Use
// FileInfo.Reference to attach the upload to a message.
func (c *Client) UploadFile(ctx context.Context, path, mimeType string) (ai.FileInfo, error) {
	uploader, ok := c.dialect.(ai.FileUploader)
	if !ok {
		return ai.FileInfo{}, fmt.Errorf("upload file to %s: %w", c.dialect.Provider(), ErrUnsupported)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return ai.FileInfo{}, fmt.Errorf("error reading %s: %w", path, err)
	}
	if len(content) == 0 {
		return ai.FileInfo{}, fmt.Errorf("file %s is empty", path)
	}

	file := ai.UploadFile{
		Filename: filepath.Base(path),
		MIMEType: mimeType,
		Content:  content,
	}
	if file.MIMEType == "" {
		file.MIMEType = utils.DetectMIME(file.Filename, content)
	}

	ctx, call := c.observe(ctx, observability.SpanUploadFile, "")
	info, err := c.upload(ctx, uploader, file)
	call.end(ctx, nil, err,
		observability.String(observability.AttrFileName, file.Filename),
		observability.String(observability.AttrFileMIMEType, file.MIMEType),
		observability.Int(observability.AttrFileSize, len(content)),
	)
	return info, err
}

func (c *Client) upload(ctx context.Context, uploader ai.FileUploader, file ai.UploadFile) (ai.FileInfo, error) {
	req, err := uploader.NewUploadRequest(ctx, c.uploadBaseURL, c.apiKey, file)
	if err != nil {
		return ai.FileInfo{}, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	status, body, err := c.roundTrip(ctx, req)
	if err != nil {
		return ai.FileInfo{}, &APIError{StatusCode: status, Message: fmt.Sprintf("upload_file request failed: %v", err), Err: err}
	}
	if !utils.IsSuccess(status) {
		return ai.FileInfo{}, c.httpError("upload_file ", status, body)
	}

	info, err := uploader.DecodeUpload(body, file)
	if err != nil {
		return ai.FileInfo{}, &APIError{StatusCode: status, Message: err.Error(), Err: err}
	}
	return info, nil
}
