// Package inference provides the summarization model backends.
package inference

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

// Params are the generation limits passed on every call. Generation is
// always deterministic.
type Params struct {
	MaxLength int
	MinLength int
}

// Model is a loaded summarization model. Implementations must be safe for
// concurrent use once Load has returned.
type Model interface {
	Name() string
	// Load prepares the model and verifies it is usable.
	Load(ctx context.Context) error
	Summarize(ctx context.Context, text string, p Params) (string, error)
}

var ErrEmptyOutput = errors.New("model returned an empty summary")

// BackendError is returned when a backend answers with a failure.
type BackendError struct {
	Backend    string
	StatusCode int
	Message    string
}

func (e *BackendError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.Backend, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s", e.Backend, e.Message)
}
