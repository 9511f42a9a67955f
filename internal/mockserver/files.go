package mockserver

import (
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"
)

// uploadFile serves POST /files. Gemini uploads, recognized by the key query
// parameter, get a {"file":{...}} resource; others are parsed as multipart
// forms and get an OpenAI file object.
func (s *Server) uploadFile(w http.ResponseWriter, r *http.Request) {
	gemini := r.URL.Query().Has("key")

	var size int64
	filename := "upload"
	if gemini {
		size, _ = io.Copy(io.Discard, r.Body)
	} else if err := r.ParseMultipartForm(32 << 20); err == nil {
		if _, header, err := r.FormFile("file"); err == nil {
			size, filename = header.Size, header.Filename
		}
	}

	switch scenarioOf(r) {
	case ScenarioZeroByteFile:
		if size == 0 {
			writeJSON(w, http.StatusBadRequest, openAIError("File is empty", "invalid_request_error", http.StatusBadRequest))
			return
		}
	case ScenarioLargeFileUpload:
		if size > maxUploadSize {
			writeJSON(w, http.StatusRequestEntityTooLarge, openAIError("File size exceeds limit", "invalid_request_error", http.StatusRequestEntityTooLarge))
			return
		}
	case ScenarioAuthFailureOpenAI, ScenarioAuthFailureGemini:
		writeJSON(w, http.StatusUnauthorized, openAIError("Invalid Authentication", "invalid_request_error", http.StatusUnauthorized))
		return
	}

	id := uuid.NewString()
	if gemini {
		name := "files/" + id
		writeJSON(w, http.StatusOK, map[string]any{"file": map[string]any{
			"name":      name,
			"uri":       "https://generativelanguage.googleapis.com/v1beta/" + name,
			"sizeBytes": strconv.FormatInt(size, 10),
			"state":     "ACTIVE",
		}})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id": "file-" + id, "object": "file", "bytes": size, "filename": filename, "purpose": "user_data",
	})
}
