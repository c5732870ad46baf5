// Package transcript acquires a video transcript through an ordered cascade
// of strategies: manual captions, automatic captions, then audio download
// and speech-to-text transcription.
package transcript

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"yt-summarizer/config"
	"yt-summarizer/errors"
	"yt-summarizer/models"
	"yt-summarizer/services/subtitles"
	"yt-summarizer/stt"
	"yt-summarizer/youtube"
)

const englishLanguage = "en"

// VideoSource provides video metadata, caption payloads and audio downloads.
type VideoSource interface {
	VideoInfo(ctx context.Context, videoID string) (*youtube.VideoInfo, error)
	FetchCaptions(ctx context.Context, track youtube.CaptionTrack) (string, error)
	DownloadAudio(ctx context.Context, videoID, destDir string) (string, error)
}

// AudioProcessor prepares downloaded audio for upload to a transcription
// provider.
type AudioProcessor interface {
	SizeMB(path string) (float64, error)
	Compress(ctx context.Context, src, dst string) error
	Split(ctx context.Context, path string, chunk time.Duration) ([]string, error)
}

// Service produces a transcript for a video, reporting which acquisition
// method succeeded.
type Service interface {
	Fetch(ctx context.Context, videoID, language string) (*models.Transcript, error)
}

type service struct {
	source    VideoSource
	audio     AudioProcessor
	providers []stt.Provider
	cfg       config.TranscriptConfig
	tempDir   string
	logger    *logrus.Logger
}

func NewService(
	source VideoSource,
	audio AudioProcessor,
	providers []stt.Provider,
	cfg config.TranscriptConfig,
	tempDir string,
) Service {
	return &service{
		source:    source,
		audio:     audio,
		providers: providers,
		cfg:       cfg,
		tempDir:   tempDir,
		logger:    logrus.StandardLogger(),
	}
}

// Fetch walks the acquisition cascade in fixed order. Caption strategies are
// tried first; any failure there falls through to the next strategy, and the
// audio pipeline runs last.
func (s *service) Fetch(ctx context.Context, videoID, language string) (*models.Transcript, error) {
	if language == "" {
		language = s.cfg.DefaultLanguage
	}

	info, err := s.source.VideoInfo(ctx, videoID)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"video_id": videoID,
			"error":    err,
		}).Warn("Failed to fetch video metadata, falling back to audio")
	} else {
		for _, candidate := range captionCandidates(info, language) {
			text, err := s.fetchCaptionText(ctx, candidate.track)
			if err != nil {
				s.logger.WithFields(logrus.Fields{
					"video_id": videoID,
					"language": candidate.language,
					"kind":     candidate.kind,
					"error":    err,
				}).Warn("Caption strategy failed, trying next")
				continue
			}

			s.logger.WithFields(logrus.Fields{
				"video_id": videoID,
				"language": candidate.language,
				"kind":     candidate.kind,
			}).Info("Transcript acquired from captions")

			return &models.Transcript{Text: text, Method: models.MethodSubtitles}, nil
		}
	}

	text, err := s.transcribeAudio(ctx, videoID)
	if err != nil {
		return nil, err
	}

	s.logger.WithField("video_id", videoID).Info("Transcript acquired from audio transcription")
	return &models.Transcript{Text: text, Method: models.MethodTranscription}, nil
}

type captionCandidate struct {
	track    youtube.CaptionTrack
	language string
	kind     string
}

// captionCandidates orders caption tracks by preference: manual in the
// requested language, manual English, automatic in the requested language,
// automatic English.
func captionCandidates(info *youtube.VideoInfo, language string) []captionCandidate {
	var candidates []captionCandidate

	add := func(tracks map[string][]youtube.CaptionTrack, lang, kind string) {
		if track, ok := pickTrack(tracks[lang]); ok {
			candidates = append(candidates, captionCandidate{track: track, language: lang, kind: kind})
		}
	}

	add(info.Subtitles, language, "manual")
	if language != englishLanguage {
		add(info.Subtitles, englishLanguage, "manual")
	}
	add(info.AutoCaptions, language, "automatic")
	if language != englishLanguage {
		add(info.AutoCaptions, englishLanguage, "automatic")
	}

	return candidates
}

// pickTrack prefers a vtt rendition when one exists.
func pickTrack(tracks []youtube.CaptionTrack) (youtube.CaptionTrack, bool) {
	if len(tracks) == 0 {
		return youtube.CaptionTrack{}, false
	}
	for _, track := range tracks {
		if track.Ext == "vtt" {
			return track, true
		}
	}
	return tracks[0], true
}

func (s *service) fetchCaptionText(ctx context.Context, track youtube.CaptionTrack) (string, error) {
	raw, err := s.source.FetchCaptions(ctx, track)
	if err != nil {
		return "", err
	}
	return subtitles.Parse(raw)
}

// transcribeAudio downloads the audio track, compresses and splits it as
// needed, and transcribes each chunk in temporal order. Everything written
// under the work directory is removed before returning.
func (s *service) transcribeAudio(ctx context.Context, videoID string) (string, error) {
	const op = "TranscriptService.transcribeAudio"

	workDir, err := os.MkdirTemp(s.tempDir, videoID+"-")
	if err != nil {
		return "", errors.Internal(op, err, "Failed to create working directory")
	}
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			s.logger.WithFields(logrus.Fields{
				"dir":   workDir,
				"error": err,
			}).Warn("Failed to clean up working directory")
		}
	}()

	audioPath, err := s.source.DownloadAudio(ctx, videoID, workDir)
	if err != nil {
		return "", errors.Internal(op, err, "No content available for this video")
	}

	audioPath = s.maybeCompress(ctx, audioPath)

	chunks := []string{audioPath}
	if sizeMB, err := s.audio.SizeMB(audioPath); err == nil && sizeMB > s.cfg.MaxUploadMB {
		chunks, err = s.audio.Split(ctx, audioPath, s.cfg.ChunkDuration)
		if err != nil {
			return "", errors.Internal(op, err, "Failed to split audio")
		}
	}

	parts := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		text, err := s.transcribeChunk(ctx, chunk)
		if err != nil {
			s.logger.WithFields(logrus.Fields{
				"video_id": videoID,
				"chunk":    i + 1,
				"error":    err,
			}).Warn("Chunk transcription failed with all providers")
			continue
		}
		parts = append(parts, text)
	}

	if len(parts) == 0 {
		return "", errors.Internal(op, nil, "Transcription failed for all audio segments")
	}

	return strings.Join(parts, " "), nil
}

// maybeCompress re-encodes audio above the compression threshold. The
// original file is kept when compression fails or does not shrink it.
func (s *service) maybeCompress(ctx context.Context, audioPath string) string {
	sizeMB, err := s.audio.SizeMB(audioPath)
	if err != nil || sizeMB <= s.cfg.CompressAboveMB {
		return audioPath
	}

	ext := filepath.Ext(audioPath)
	compressedPath := strings.TrimSuffix(audioPath, ext) + "_compressed" + ext

	if err := s.audio.Compress(ctx, audioPath, compressedPath); err != nil {
		s.logger.WithFields(logrus.Fields{
			"path":  audioPath,
			"error": err,
		}).Warn("Audio compression failed, using original file")
		return audioPath
	}

	compressedMB, err := s.audio.SizeMB(compressedPath)
	if err != nil || compressedMB >= sizeMB {
		return audioPath
	}

	s.logger.WithFields(logrus.Fields{
		"original_mb":   sizeMB,
		"compressed_mb": compressedMB,
	}).Debug("Compressed audio before upload")

	return compressedPath
}

// transcribeChunk tries each provider in order and returns the first
// successful transcript.
func (s *service) transcribeChunk(ctx context.Context, audioPath string) (string, error) {
	var lastErr error
	for _, provider := range s.providers {
		callCtx, cancel := context.WithTimeout(ctx, s.cfg.TranscribeTimeout)
		text, err := provider.Transcribe(callCtx, audioPath)
		cancel()

		if err == nil {
			return text, nil
		}

		s.logger.WithFields(logrus.Fields{
			"provider": provider.Name(),
			"error":    err,
		}).Warn("Transcription provider failed, trying next")
		lastErr = err
	}

	if lastErr == nil {
		lastErr = errors.Internal("TranscriptService.transcribeChunk", nil, "No transcription providers configured")
	}
	return "", lastErr
}
