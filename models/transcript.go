package models

// TranscriptResult is the tagged outcome of a transcript fetch. Text is set
// only when Success is true, Error only when it is false.
type TranscriptResult struct {
	Success bool   `json:"success"`
	Text    string `json:"text,omitempty"`
	Error   string `json:"error,omitempty"`
}

func TranscriptOK(text string) *TranscriptResult {
	return &TranscriptResult{Success: true, Text: text}
}

func TranscriptFailed(err error) *TranscriptResult {
	return &TranscriptResult{Success: false, Error: err.Error()}
}
