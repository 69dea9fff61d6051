package video

import (
	"context"
	"time"

	"github.com/nijaru/yt-summary/models"
)

type Service interface {
	// Summarize runs the whole pipeline for one request. Failures are
	// reported in the returned outcome, never as an error.
	Summarize(ctx context.Context, input string) *models.Outcome

	// Record hands a finished outcome to every configured recorder.
	Record(ctx context.Context, outcome *models.Outcome)
}

// Recorder persists outcomes somewhere outside the request path.
type Recorder interface {
	Name() string
	Record(ctx context.Context, outcome *models.Outcome) error
}

type Config struct {
	// FetchTimeout bounds the transcript download
	FetchTimeout time.Duration

	// InferenceTimeout bounds a single model call
	InferenceTimeout time.Duration

	// RecordTimeout bounds each recorder call
	RecordTimeout time.Duration
}
