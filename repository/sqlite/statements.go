package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nijaru/yt-summary/errors"
)

type PreparedStatements struct {
	insert *sql.Stmt
	get    *sql.Stmt
	recent *sql.Stmt
}

func (stmts *PreparedStatements) Prepare(ctx context.Context, db *sql.DB) error {
	const op = "PreparedStatements.Prepare"

	var err error

	if stmts.insert, err = db.PrepareContext(ctx, insertQuery); err != nil {
		return errors.Internal(op, err, "failed to prepare insert statement")
	}

	if stmts.get, err = db.PrepareContext(ctx, getQuery); err != nil {
		return errors.Internal(op, err, "failed to prepare get statement")
	}

	if stmts.recent, err = db.PrepareContext(ctx, recentQuery); err != nil {
		return errors.Internal(op, err, "failed to prepare recent statement")
	}

	return nil
}

func (stmts *PreparedStatements) Close() error {
	var errs []error

	for _, stmt := range [...]*sql.Stmt{stmts.insert, stmts.get, stmts.recent} {
		if stmt != nil {
			if err := stmt.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("failed to close prepared statements: %v", errs)
	}

	return nil
}
