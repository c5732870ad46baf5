// Package summary orchestrates one summarization request end to end:
// cache lookup, transcript acquisition, summarization, and persistence.
package summary

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"yt-summarizer/config"
	"yt-summarizer/errors"
	"yt-summarizer/models"
	"yt-summarizer/repository"
	"yt-summarizer/services/transcript"
	"yt-summarizer/youtube"
)

const (
	maxListLimit = 50

	fallbackTitle = "YouTube video"

	costSubtitlesOnly     = "~$0.001 - $0.002 (summary only)"
	costWithTranscription = "~$0.01 - $0.03 (transcription + summary)"
)

// MetadataSource fetches video metadata for the title.
type MetadataSource interface {
	VideoInfo(ctx context.Context, videoID string) (*youtube.VideoInfo, error)
}

// Summarizer turns a transcript into a summary in the target language.
type Summarizer interface {
	Summarize(ctx context.Context, transcript, language string) (string, error)
}

type Service interface {
	Summarize(ctx context.Context, url, language string) (*models.Summary, error)
	Get(ctx context.Context, videoID string) (*models.Summary, error)
	List(ctx context.Context, limit int) ([]*models.Summary, error)
	Delete(ctx context.Context, videoID string) error
	DeleteAll(ctx context.Context) error
}

type service struct {
	repo        repository.SummaryRepository
	metadata    MetadataSource
	transcripts transcript.Service
	summarizer  Summarizer
	defaultLang string
	logger      *logrus.Logger
}

func NewService(
	repo repository.SummaryRepository,
	metadata MetadataSource,
	transcripts transcript.Service,
	summarizer Summarizer,
	cfg config.TranscriptConfig,
) Service {
	return &service{
		repo:        repo,
		metadata:    metadata,
		transcripts: transcripts,
		summarizer:  summarizer,
		defaultLang: cfg.DefaultLanguage,
		logger:      logrus.StandardLogger(),
	}
}

// Summarize runs the full pipeline for one URL. A cached record
// short-circuits before any external call.
func (s *service) Summarize(ctx context.Context, url, language string) (*models.Summary, error) {
	const op = "SummaryService.Summarize"

	videoID, err := youtube.ExtractVideoID(url)
	if err != nil {
		return nil, errors.InvalidInput(op, err, "Invalid YouTube URL")
	}

	if language == "" {
		language = s.defaultLang
	}

	cached, err := s.repo.Find(ctx, videoID)
	if err == nil {
		s.logger.WithField("video_id", videoID).Info("Returning cached summary")
		return cached, nil
	}
	if !errors.IsNotFound(err) {
		return nil, err
	}

	title := s.videoTitle(ctx, videoID)

	tr, err := s.transcripts.Fetch(ctx, videoID, language)
	if err != nil {
		return nil, err
	}

	text, err := s.summarizer.Summarize(ctx, tr.Text, language)
	if err != nil {
		// The client-visible message carries the upstream status and
		// body; secrets are already redacted by the client.
		return nil, errors.Internal(op, err, fmt.Sprintf("Summarization failed: %v", err))
	}

	result := &models.Summary{
		VideoID:          videoID,
		Title:            title,
		TranscriptMethod: tr.Method,
		Summary:          text,
		CostEstimate:     costEstimate(tr.Method),
		CreatedAt:        time.Now().UTC(),
	}

	if err := s.repo.Save(ctx, result); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"video_id": videoID,
		"method":   tr.Method,
	}).Info("Summary created")

	return result, nil
}

// videoTitle falls back to a generic title when metadata is unavailable.
func (s *service) videoTitle(ctx context.Context, videoID string) string {
	info, err := s.metadata.VideoInfo(ctx, videoID)
	if err != nil || info.Title == "" {
		s.logger.WithFields(logrus.Fields{
			"video_id": videoID,
			"error":    err,
		}).Warn("Failed to fetch video title, using fallback")
		return fallbackTitle
	}
	return info.Title
}

func costEstimate(method models.TranscriptMethod) string {
	if method == models.MethodTranscription {
		return costWithTranscription
	}
	return costSubtitlesOnly
}

func (s *service) Get(ctx context.Context, videoID string) (*models.Summary, error) {
	return s.repo.Find(ctx, videoID)
}

func (s *service) List(ctx context.Context, limit int) ([]*models.Summary, error) {
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}
	return s.repo.List(ctx, limit)
}

func (s *service) Delete(ctx context.Context, videoID string) error {
	return s.repo.Delete(ctx, videoID)
}

func (s *service) DeleteAll(ctx context.Context) error {
	return s.repo.DeleteAll(ctx)
}
