package models

// VideoRequest represents the incoming request for a video summary.
// VideoID may be a bare id or any URL form containing one.
type VideoRequest struct {
	VideoID string `json:"videoId"`
}

// SummaryResponse is the body of every /summarize reply.
type SummaryResponse struct {
	Success bool   `json:"success"`
	Summary string `json:"summary,omitempty"`
	VideoID string `json:"videoId,omitempty"`
	Error   string `json:"error,omitempty"`
}

func NewSummarySuccess(videoID, summary string) *SummaryResponse {
	return &SummaryResponse{
		Success: true,
		Summary: summary,
		VideoID: videoID,
	}
}

func NewSummaryFailure(err string) *SummaryResponse {
	return &SummaryResponse{
		Success: false,
		Error:   err,
	}
}

type HealthResponse struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
}

type StatusResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

// ErrorResponse is used for failures outside the summarize pipeline.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type HistoryResponse struct {
	Outcomes []*Outcome `json:"outcomes"`
	Count    int        `json:"count"`
}
