package utils

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const defaultMIMEType = "application/octet-stream"

// mimeByExtension covers formats whose content sniffs as generic text or
// archive data but that providers want labelled precisely.
var mimeByExtension = map[string]string{
	".txt":  "text/plain",
	".html": "text/html",
	".htm":  "text/html",
	".css":  "text/css",
	".js":   "application/javascript",
	".json": "application/json",
	".xml":  "application/xml",
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xls":  "application/vnd.ms-excel",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".ppt":  "application/vnd.ms-powerpoint",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	".zip":  "application/zip",
	".tar":  "application/x-tar",
	".gz":   "application/gzip",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".svg":  "image/svg+xml",
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".mp4":  "video/mp4",
	".avi":  "video/x-msvideo",
	".mov":  "video/quicktime",
	".csv":  "text/csv",
	".md":   "text/markdown",
	".c":    "text/x-c",
	".h":    "text/x-c",
	".cpp":  "text/x-c++",
	".cc":   "text/x-c++",
	".cxx":  "text/x-c++",
	".py":   "text/x-python",
	".java": "text/x-java",
	".sh":   "application/x-sh",
}

// DetectMIME sniffs content and falls back to the file extension when the
// sniffed type is generic (plain text, octet stream or zip container). The
// result carries no parameters.
func DetectMIME(filename string, content []byte) string {
	sniffed := defaultMIMEType
	if len(content) > 0 {
		sniffed, _, _ = strings.Cut(mimetype.Detect(content).String(), ";")
	}

	switch sniffed {
	case defaultMIMEType, "text/plain", "application/zip":
		if byExt, ok := MIMEFromExtension(filename); ok {
			return byExt
		}
	}
	return sniffed
}

// MIMEFromExtension looks up filename's extension, case-insensitively.
func MIMEFromExtension(filename string) (string, bool) {
	mimeType, ok := mimeByExtension[strings.ToLower(filepath.Ext(filename))]
	return mimeType, ok
}
