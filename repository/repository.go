package repository

import (
	"context"

	"yt-summarizer/models"
)

// SummaryRepository persists completed summaries keyed by video ID.
// Records are insert-only: there is no update path.
type SummaryRepository interface {
	Save(ctx context.Context, summary *models.Summary) error
	Find(ctx context.Context, videoID string) (*models.Summary, error)
	List(ctx context.Context, limit int) ([]*models.Summary, error)
	Delete(ctx context.Context, videoID string) error
	DeleteAll(ctx context.Context) error
}
