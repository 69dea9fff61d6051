package subtitles

import (
	"context"
	"strings"

	"github.com/nijaru/yt-summary/models"
	"github.com/nijaru/yt-summary/youtube"
)

// CaptionProvider is the source of raw caption fragments for a video.
type CaptionProvider interface {
	FetchCaptions(ctx context.Context, videoID string) ([]youtube.Caption, error)
}

type Service interface {
	// Fetch returns the normalized transcript text of a video.
	Fetch(ctx context.Context, videoID string) (string, error)
	// Get is Fetch reported as a tagged result.
	Get(ctx context.Context, videoID string) *models.TranscriptResult
}

type service struct {
	provider CaptionProvider
}

func NewService(provider CaptionProvider) Service {
	return &service{provider: provider}
}

func (s *service) Fetch(ctx context.Context, videoID string) (string, error) {
	captions, err := s.provider.FetchCaptions(ctx, videoID)
	if err != nil {
		return "", err
	}
	return NormalizeWhitespace(JoinCaptions(captions)), nil
}

func (s *service) Get(ctx context.Context, videoID string) *models.TranscriptResult {
	text, err := s.Fetch(ctx, videoID)
	if err != nil {
		return models.TranscriptFailed(err)
	}
	return models.TranscriptOK(text)
}

// JoinCaptions concatenates fragment texts in order, separated by one space.
func JoinCaptions(captions []youtube.Caption) string {
	parts := make([]string, len(captions))
	for i, c := range captions {
		parts[i] = c.Text
	}
	return strings.Join(parts, " ")
}

// NormalizeWhitespace collapses every whitespace run to a single space and
// trims both ends.
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
