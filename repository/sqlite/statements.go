package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"yt-summarizer/errors"
)

const (
	insertQuery = `
        INSERT INTO summaries (
            video_id, title, transcript_method, summary,
            cost_estimate, created_at
        ) VALUES (?, ?, ?, ?, ?, ?)
    `

	getQuery = `
        SELECT video_id, title, transcript_method, summary,
               cost_estimate, created_at
        FROM summaries WHERE video_id = ?
    `

	listQuery = `
        SELECT video_id, title, transcript_method, summary,
               cost_estimate, created_at
        FROM summaries
        ORDER BY created_at DESC
        LIMIT ?
    `

	deleteQuery = `
        DELETE FROM summaries WHERE video_id = ?
    `

	deleteAllQuery = `
        DELETE FROM summaries
    `
)

type preparedStatements struct {
	insert    *sql.Stmt
	get       *sql.Stmt
	list      *sql.Stmt
	delete    *sql.Stmt
	deleteAll *sql.Stmt
}

func (stmts *preparedStatements) prepare(ctx context.Context, db *sql.DB) error {
	const op = "preparedStatements.prepare"

	var err error

	if stmts.insert, err = db.PrepareContext(ctx, insertQuery); err != nil {
		return errors.Internal(op, err, "failed to prepare insert statement")
	}

	if stmts.get, err = db.PrepareContext(ctx, getQuery); err != nil {
		return errors.Internal(op, err, "failed to prepare get statement")
	}

	if stmts.list, err = db.PrepareContext(ctx, listQuery); err != nil {
		return errors.Internal(op, err, "failed to prepare list statement")
	}

	if stmts.delete, err = db.PrepareContext(ctx, deleteQuery); err != nil {
		return errors.Internal(op, err, "failed to prepare delete statement")
	}

	if stmts.deleteAll, err = db.PrepareContext(ctx, deleteAllQuery); err != nil {
		return errors.Internal(op, err, "failed to prepare deleteAll statement")
	}

	return nil
}

func (stmts *preparedStatements) close() error {
	var errs []error

	statements := [...]*sql.Stmt{
		stmts.insert,
		stmts.get,
		stmts.list,
		stmts.delete,
		stmts.deleteAll,
	}

	for _, stmt := range statements {
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
