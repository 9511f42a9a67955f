// Package gemini implements the llmwire dialect for the Google Gemini
// generateContent API.
//
// The API key travels in the "key" query parameter. Streaming uses
// :streamGenerateContent with alt=sse, where every frame carries a complete
// GenerateContentResponse whose text parts are concatenated into one token.
// Token counting and file upload are supported; external image URLs degrade
// to text parts because the API has no generic URL image type.
package gemini
