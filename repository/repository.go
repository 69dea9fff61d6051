package repository

import (
	"context"

	"github.com/nijaru/yt-summary/models"
)

// OutcomeRepository stores answered summary requests. It is a ledger only;
// nothing reads it back to answer a request.
type OutcomeRepository interface {
	Save(ctx context.Context, outcome *models.Outcome) error
	Find(ctx context.Context, id string) (*models.Outcome, error)
	Recent(ctx context.Context, limit int) ([]*models.Outcome, error)
}
