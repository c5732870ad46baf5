package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"yt-summarizer/errors"
	"yt-summarizer/models"
)

type Repository struct {
	db *DB
}

func NewRepository(db *DB) (*Repository, error) {
	return &Repository{db: db}, nil
}

func (r *Repository) Save(ctx context.Context, summary *models.Summary) error {
	const op = "SQLiteRepository.Save"

	for i := 0; i < 3; i++ { // Simple retry logic
		err := r.save(ctx, summary)
		if err == nil {
			return nil
		}
		if isConstraintError(err) {
			return errors.Conflict(op, err, "Summary already exists for this video")
		}
		if !isLockError(err) {
			return errors.Internal(op, err, "Failed to save summary")
		}
		time.Sleep(time.Second * time.Duration(i+1))
	}
	return errors.Internal(op, nil, "Failed after retries")
}

func (r *Repository) save(ctx context.Context, summary *models.Summary) error {
	_, err := r.db.statements.insert.ExecContext(ctx,
		summary.VideoID,
		summary.Title,
		string(summary.TranscriptMethod),
		summary.Summary,
		summary.CostEstimate,
		summary.CreatedAt,
	)
	return err
}

func (r *Repository) Find(ctx context.Context, videoID string) (*models.Summary, error) {
	const op = "SQLiteRepository.Find"

	summary, err := scanSummary(r.db.statements.get.QueryRowContext(ctx, videoID))
	if err == sql.ErrNoRows {
		return nil, errors.NotFound(op, nil, "Summary not found")
	}
	if err != nil {
		return nil, errors.Internal(op, err, "Failed to query summary")
	}

	return summary, nil
}

func (r *Repository) List(ctx context.Context, limit int) ([]*models.Summary, error) {
	const op = "SQLiteRepository.List"

	rows, err := r.db.statements.list.QueryContext(ctx, limit)
	if err != nil {
		return nil, errors.Internal(op, err, "Failed to list summaries")
	}
	defer rows.Close()

	summaries := make([]*models.Summary, 0, limit)
	for rows.Next() {
		summary, err := scanSummary(rows)
		if err != nil {
			return nil, errors.Internal(op, err, "Failed to scan summary row")
		}
		summaries = append(summaries, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Internal(op, err, "Failed to iterate summary rows")
	}

	return summaries, nil
}

func (r *Repository) Delete(ctx context.Context, videoID string) error {
	const op = "SQLiteRepository.Delete"

	result, err := r.db.statements.delete.ExecContext(ctx, videoID)
	if err != nil {
		return errors.Internal(op, err, "Failed to delete summary")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Internal(op, err, "Failed to check deleted rows")
	}
	if affected == 0 {
		return errors.NotFound(op, nil, "Summary not found")
	}

	return nil
}

func (r *Repository) DeleteAll(ctx context.Context) error {
	const op = "SQLiteRepository.DeleteAll"

	if _, err := r.db.statements.deleteAll.ExecContext(ctx); err != nil {
		return errors.Internal(op, err, "Failed to delete summaries")
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSummary(row rowScanner) (*models.Summary, error) {
	summary := &models.Summary{}
	var method string

	err := row.Scan(
		&summary.VideoID,
		&summary.Title,
		&method,
		&summary.Summary,
		&summary.CostEstimate,
		&summary.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	summary.TranscriptMethod = models.TranscriptMethod(method)
	return summary, nil
}

func isLockError(err error) bool {
	return strings.Contains(err.Error(), "database is locked") ||
		strings.Contains(err.Error(), "busy")
}

func isConstraintError(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "PRIMARY KEY constraint failed")
}
