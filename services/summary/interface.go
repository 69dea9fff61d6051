package summary

import (
	"context"

	"github.com/nijaru/yt-summary/config"
)

type Service interface {
	// Load initializes the model. Only the first call has any effect.
	Load(ctx context.Context) error
	// Loaded reports whether the startup load succeeded.
	Loaded() bool
	ModelName() string
	Summarize(ctx context.Context, transcript string) (*Result, error)
}

type Config struct {
	ModelName     string
	MaxInputChars int
	MaxLength     int
	MinLength     int
}

func ConfigFrom(m config.ModelConfig) Config {
	return Config{
		ModelName:     m.Name,
		MaxInputChars: m.MaxInputChars,
		MaxLength:     m.MaxLength,
		MinLength:     m.MinLength,
	}
}

// Result carries the summary together with the sizes involved.
type Result struct {
	Summary          string
	TranscriptLength int
	InputLength      int
}
