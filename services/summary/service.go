package summary

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/nijaru/yt-summary/inference"
)

var (
	ErrModelUnavailable = errors.New("summarization model is not loaded")
	ErrEmptyTranscript  = errors.New("transcript is empty")
	ErrEmptySummary     = errors.New("model produced an empty summary")
)

// Engine owns the process-wide model. Its load state is fixed after the
// first Load call.
type Engine struct {
	model  inference.Model
	cfg    Config
	logger *logrus.Logger

	once    sync.Once
	loaded  atomic.Bool
	loadErr error
}

var _ Service = (*Engine)(nil)

// NewEngine wraps model. A nil model yields an engine whose Load always fails.
func NewEngine(model inference.Model, cfg Config, logger *logrus.Logger) *Engine {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Engine{
		model:  model,
		cfg:    cfg,
		logger: logger,
	}
}

func (e *Engine) Load(ctx context.Context) error {
	e.once.Do(func() {
		if e.model == nil {
			e.loadErr = ErrModelUnavailable
		} else {
			e.loadErr = e.model.Load(ctx)
		}
		e.loaded.Store(e.loadErr == nil)

		entry := e.logger.WithFields(logrus.Fields{
			"model":           e.cfg.ModelName,
			"max_input_chars": e.cfg.MaxInputChars,
			"max_length":      e.cfg.MaxLength,
			"min_length":      e.cfg.MinLength,
		})
		if e.loadErr != nil {
			entry.WithError(e.loadErr).Error("Failed to load summarization model")
			return
		}
		entry.Info("Summarization model loaded")
	})
	return e.loadErr
}

func (e *Engine) Loaded() bool {
	return e.loaded.Load()
}

func (e *Engine) ModelName() string {
	return e.cfg.ModelName
}

func (e *Engine) Summarize(ctx context.Context, transcript string) (*Result, error) {
	if !e.loaded.Load() {
		return nil, ErrModelUnavailable
	}

	input := Truncate(transcript, e.cfg.MaxInputChars)
	if strings.TrimSpace(input) == "" {
		return nil, ErrEmptyTranscript
	}

	out, err := e.model.Summarize(ctx, input, inference.Params{
		MaxLength: e.cfg.MaxLength,
		MinLength: e.cfg.MinLength,
	})
	if err != nil {
		return nil, err
	}

	out = strings.TrimSpace(out)
	if out == "" {
		return nil, ErrEmptySummary
	}

	return &Result{
		Summary:          out,
		TranscriptLength: utf8.RuneCountInString(transcript),
		InputLength:      utf8.RuneCountInString(input),
	}, nil
}

// Truncate returns the first n characters of text, or text itself when it
// is not longer than that.
func Truncate(text string, n int) string {
	if n < 0 {
		n = 0
	}
	if utf8.RuneCountInString(text) <= n {
		return text
	}

	i := 0
	for pos := range text {
		if i == n {
			return text[:pos]
		}
		i++
	}
	return text
}
