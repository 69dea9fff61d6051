package video

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/nijaru/yt-summary/middleware"
	"github.com/nijaru/yt-summary/models"
	"github.com/nijaru/yt-summary/services/subtitles"
	"github.com/nijaru/yt-summary/services/summary"
	"github.com/nijaru/yt-summary/youtube"
)

type service struct {
	transcripts subtitles.Service
	summarizer  summary.Service
	recorders   []Recorder
	config      Config
	now         func() time.Time
}

type Option func(*service)

// WithRecorders adds outcome recorders. Nil recorders are ignored.
func WithRecorders(recorders ...Recorder) Option {
	return func(s *service) {
		for _, r := range recorders {
			if r != nil {
				s.recorders = append(s.recorders, r)
			}
		}
	}
}

func NewService(
	transcripts subtitles.Service,
	summarizer summary.Service,
	config Config,
	opts ...Option,
) Service {
	if config.RecordTimeout <= 0 {
		config.RecordTimeout = 10 * time.Second
	}

	s := &service{
		transcripts: transcripts,
		summarizer:  summarizer,
		config:      config,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Summarize(ctx context.Context, input string) *models.Outcome {
	const op = "VideoService.Summarize"

	start := s.now()
	outcome := &models.Outcome{
		ID:        uuid.New().String(),
		Input:     input,
		ModelName: s.summarizer.ModelName(),
		CreatedAt: start.UTC(),
	}
	logger := middleware.GetLogger(ctx).WithFields(logrus.Fields{
		"operation":  op,
		"outcome_id": outcome.ID,
	})

	fail := func(stage models.Stage, msg string) *models.Outcome {
		outcome.Success = false
		outcome.Error = msg
		outcome.FailedStage = stage
		outcome.Duration = s.now().Sub(start)
		logger.WithFields(logrus.Fields{
			"stage":    stage,
			"error":    msg,
			"duration": outcome.Duration,
		}).Warn("Summary request failed")
		return outcome
	}

	videoID, ok := youtube.ExtractVideoID(input)
	if !ok {
		return fail(models.StageExtract, fmt.Sprintf("could not extract a video id from %q", input))
	}
	outcome.VideoID = videoID
	logger = logger.WithField("video_id", videoID)

	transcript := s.fetch(ctx, videoID)
	if !transcript.Success {
		return fail(models.StageFetch, transcript.Error)
	}
	logger.WithField("transcript_length", len(transcript.Text)).Debug("Transcript fetched")

	result, err := s.summarize(ctx, transcript.Text)
	if err != nil {
		return fail(models.StageSummarize, err.Error())
	}

	outcome.Success = true
	outcome.Summary = result.Summary
	outcome.TranscriptLength = result.TranscriptLength
	outcome.InputLength = result.InputLength
	outcome.Duration = s.now().Sub(start)

	logger.WithFields(logrus.Fields{
		"transcript_length": result.TranscriptLength,
		"input_length":      result.InputLength,
		"duration":          outcome.Duration,
	}).Info("Summary generated")

	return outcome
}

func (s *service) fetch(ctx context.Context, videoID string) *models.TranscriptResult {
	if s.config.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.FetchTimeout)
		defer cancel()
	}
	return s.transcripts.Get(ctx, videoID)
}

func (s *service) summarize(ctx context.Context, text string) (*summary.Result, error) {
	if s.config.InferenceTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.InferenceTimeout)
		defer cancel()
	}
	return s.summarizer.Summarize(ctx, text)
}

func (s *service) Record(ctx context.Context, outcome *models.Outcome) {
	if outcome == nil || len(s.recorders) == 0 {
		return
	}

	logger := middleware.GetLogger(ctx).WithField("outcome_id", outcome.ID)
	base := context.WithoutCancel(ctx)

	for _, r := range s.recorders {
		rctx, cancel := context.WithTimeout(base, s.config.RecordTimeout)
		if err := r.Record(rctx, outcome); err != nil {
			logger.WithError(err).WithField("recorder", r.Name()).Warn("Failed to record outcome")
		}
		cancel()
	}
}
