package models

import (
	"time"
)

// Stage names the pipeline step that failed.
type Stage string

const (
	StageExtract   Stage = "extract"
	StageFetch     Stage = "fetch"
	StageSummarize Stage = "summarize"
)

// Outcome records one /summarize call after it has been answered.
type Outcome struct {
	ID               string        `json:"id"`
	Input            string        `json:"input"`
	VideoID          string        `json:"video_id,omitempty"`
	Success          bool          `json:"success"`
	Summary          string        `json:"summary,omitempty"`
	Error            string        `json:"error,omitempty"`
	FailedStage      Stage         `json:"failed_stage,omitempty"`
	TranscriptLength int           `json:"transcript_length"`
	InputLength      int           `json:"input_length"`
	ModelName        string        `json:"model_name"`
	Duration         time.Duration `json:"duration"`
	CreatedAt        time.Time     `json:"created_at"`
}

func (o *Outcome) IsFailed() bool { return !o.Success }

// Response renders the outcome as the wire reply.
func (o *Outcome) Response() *SummaryResponse {
	if o.Success {
		return NewSummarySuccess(o.VideoID, o.Summary)
	}
	return NewSummaryFailure(o.Error)
}
