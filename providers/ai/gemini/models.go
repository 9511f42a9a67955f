package gemini

/*
	GEMINI API - REQUEST TYPES
*/

// generateContentRequest is the body of generateContent and
// streamGenerateContent. countTokens accepts the same shape without
// generationConfig.
type generateContentRequest struct {
	SystemInstruction *content          `json:"system_instruction,omitempty"`
	Contents          []content         `json:"contents"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

// content is a role plus its parts. The system instruction has no role.
type content struct {
	Role  string `json:"role,omitempty"` // "user" or "model"
	Parts []part `json:"parts"`
}

// part holds exactly one of text, inline data or a file reference.
type part struct {
	Text       *string     `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
	FileData   *fileData   `json:"file_data,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

// fileData references a file uploaded through the Files API.
type fileData struct {
	MimeType string `json:"mime_type"`
	FileURI  string `json:"file_uri"`
}

type generationConfig struct {
	Temperature     *float64 `json:"temperature,omitempty"`
	TopP            *float64 `json:"topP,omitempty"`
	TopK            *int     `json:"topK,omitempty"`
	MaxOutputTokens *int     `json:"maxOutputTokens,omitempty"`
	StopSequences   []string `json:"stopSequences,omitempty"`
}

/*
	GEMINI API - RESPONSE TYPES
*/

// generateContentResponse is both the complete response and each streamed
// frame payload.
type generateContentResponse struct {
	Candidates     []candidate     `json:"candidates"`
	PromptFeedback *promptFeedback `json:"promptFeedback"`
	Error          *apiError       `json:"error"`
}

type candidate struct {
	Content      responseContent `json:"content"`
	FinishReason string          `json:"finishReason"`
}

type responseContent struct {
	Parts []responsePart `json:"parts"`
}

type responsePart struct {
	Text    *string `json:"text"`
	Thought bool    `json:"thought"`
}

type promptFeedback struct {
	FinishReason string `json:"finishReason"`
	BlockReason  string `json:"blockReason"`
}

// reason returns finishReason, or blockReason when only that is set.
func (f *promptFeedback) reason() string {
	if f == nil {
		return ""
	}
	if f.FinishReason != "" {
		return f.FinishReason
	}
	return f.BlockReason
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

/*
	GEMINI API - AUXILIARY ENDPOINTS
*/

type countTokensResponse struct {
	TotalTokens *int `json:"totalTokens"`
}

type uploadMetadata struct {
	File struct {
		DisplayName string `json:"display_name,omitempty"`
	} `json:"file"`
}

type uploadResponse struct {
	File struct {
		Name      string `json:"name"`
		URI       string `json:"uri"`
		MimeType  string `json:"mimeType"`
		SizeBytes string `json:"sizeBytes"` // int64 encoded as a string
	} `json:"file"`
}
