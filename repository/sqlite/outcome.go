package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/nijaru/yt-summary/errors"
	"github.com/nijaru/yt-summary/models"
	"github.com/nijaru/yt-summary/repository"
)

const maxRecent = 100

type Repository struct {
	db         *sql.DB
	statements PreparedStatements
	config     DBConfig
}

var _ repository.OutcomeRepository = (*Repository)(nil)

// Open initializes the database at path and prepares the repository.
func Open(ctx context.Context, path string) (*Repository, error) {
	db, err := InitDB(path)
	if err != nil {
		return nil, err
	}

	repo, err := NewRepository(ctx, db, DefaultDBConfig())
	if err != nil {
		db.Close()
		return nil, err
	}
	return repo, nil
}

func NewRepository(ctx context.Context, db *sql.DB, config DBConfig) (*Repository, error) {
	ConfigureDB(db, config)

	r := &Repository{db: db, config: config}
	if err := r.statements.Prepare(ctx, db); err != nil {
		r.statements.Close()
		return nil, err
	}
	return r, nil
}

func (r *Repository) Close() error {
	stmtErr := r.statements.Close()
	if err := r.db.Close(); err != nil {
		return err
	}
	return stmtErr
}

// Name and Record let the repository act as an outcome recorder.
func (r *Repository) Name() string { return "sqlite" }

func (r *Repository) Record(ctx context.Context, outcome *models.Outcome) error {
	return r.Save(ctx, outcome)
}

func (r *Repository) Save(ctx context.Context, outcome *models.Outcome) error {
	const op = "SQLiteRepository.Save"

	err := withRetry(ctx, r.config, op, func() error {
		_, err := r.statements.insert.ExecContext(ctx,
			outcome.ID,
			outcome.Input,
			nullString(outcome.VideoID),
			outcome.Success,
			nullString(outcome.Summary),
			nullString(outcome.Error),
			nullString(string(outcome.FailedStage)),
			outcome.TranscriptLength,
			outcome.InputLength,
			outcome.ModelName,
			outcome.Duration.Milliseconds(),
			outcome.CreatedAt.UTC(),
		)
		return err
	})
	if err != nil {
		return errors.Internal(op, err, "Failed to save outcome")
	}
	return nil
}

func (r *Repository) Find(ctx context.Context, id string) (*models.Outcome, error) {
	const op = "SQLiteRepository.Find"

	outcome, err := scanOutcome(r.statements.get.QueryRowContext(ctx, id))
	if err == sql.ErrNoRows {
		return nil, errors.NotFound(op, nil, "Outcome not found")
	}
	if err != nil {
		return nil, errors.Internal(op, err, "Failed to query outcome")
	}
	return outcome, nil
}

// Recent returns up to limit outcomes, newest first.
func (r *Repository) Recent(ctx context.Context, limit int) ([]*models.Outcome, error) {
	const op = "SQLiteRepository.Recent"

	if limit <= 0 || limit > maxRecent {
		return nil, errors.InvalidInput(op, nil, "limit must be between 1 and 100")
	}

	rows, err := r.statements.recent.QueryContext(ctx, limit)
	if err != nil {
		return nil, errors.Internal(op, err, "Failed to query outcomes")
	}
	defer rows.Close()

	outcomes := make([]*models.Outcome, 0, limit)
	for rows.Next() {
		outcome, err := scanOutcome(rows)
		if err != nil {
			return nil, errors.Internal(op, err, "Failed to scan outcome")
		}
		outcomes = append(outcomes, outcome)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Internal(op, err, "Failed to iterate outcomes")
	}

	return outcomes, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOutcome(s scanner) (*models.Outcome, error) {
	var (
		o                               models.Outcome
		videoID, summary, errMsg, stage sql.NullString
		durationMS                      int64
	)

	err := s.Scan(
		&o.ID,
		&o.Input,
		&videoID,
		&o.Success,
		&summary,
		&errMsg,
		&stage,
		&o.TranscriptLength,
		&o.InputLength,
		&o.ModelName,
		&durationMS,
		&o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	o.VideoID = videoID.String
	o.Summary = summary.String
	o.Error = errMsg.String
	o.FailedStage = models.Stage(stage.String)
	o.Duration = time.Duration(durationMS) * time.Millisecond
	return &o, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
