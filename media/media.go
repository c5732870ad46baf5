// Package media wraps ffmpeg and ffprobe for audio compression, duration
// probing, and fixed-duration chunking.
package media

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"yt-summarizer/config"
)

const bytesPerMB = 1024 * 1024

type Processor struct {
	ffmpeg  string
	ffprobe string
	logger  *logrus.Logger
}

func NewProcessor(cfg config.ToolsConfig) *Processor {
	return &Processor{
		ffmpeg:  cfg.FFmpegPath,
		ffprobe: cfg.FFprobePath,
		logger:  logrus.StandardLogger(),
	}
}

// SizeMB reports a file's size in megabytes.
func (p *Processor) SizeMB(path string) (float64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, errors.Wrap(err, "stat audio file")
	}
	return float64(info.Size()) / bytesPerMB, nil
}

// Compress re-encodes audio at a lower bitrate and sample rate, mono.
func (p *Processor) Compress(ctx context.Context, src, dst string) error {
	cmd := exec.CommandContext(ctx, p.ffmpeg,
		"-y",
		"-i", src,
		"-b:a", "32k",
		"-ar", "16000",
		"-ac", "1",
		dst,
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg compress: %w\n%s", err, string(out))
	}
	return nil
}

// Duration probes the total duration of a media file.
func (p *Processor) Duration(ctx context.Context, path string) (time.Duration, error) {
	cmd := exec.CommandContext(ctx, p.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration: %w\n%s", err, string(out))
	}

	s := strings.TrimSpace(string(out))
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "parse duration %q", s)
	}

	return time.Duration(sec * float64(time.Second)), nil
}

// ChunkCount returns how many fixed-duration chunks cover total.
func ChunkCount(total, chunk time.Duration) int {
	if total <= 0 || chunk <= 0 {
		return 0
	}
	count := int(total / chunk)
	if total%chunk != 0 {
		count++
	}
	return count
}

// Split cuts the file into fixed-duration segments by timestamp. Segments
// whose cut fails are excluded; the returned paths keep temporal order.
func (p *Processor) Split(ctx context.Context, path string, chunk time.Duration) ([]string, error) {
	total, err := p.Duration(ctx, path)
	if err != nil {
		return nil, err
	}

	count := ChunkCount(total, chunk)
	if count <= 1 {
		return []string{path}, nil
	}

	dir := filepath.Dir(path)
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(filepath.Base(path), ext)
	chunkSec := chunk.Seconds()

	segments := make([]string, 0, count)
	for i := 0; i < count; i++ {
		segmentPath := filepath.Join(dir, fmt.Sprintf("%s_part%03d%s", base, i+1, ext))

		cmd := exec.CommandContext(ctx, p.ffmpeg,
			"-y",
			"-i", path,
			"-ss", fmt.Sprintf("%.2f", float64(i)*chunkSec),
			"-t", fmt.Sprintf("%.2f", chunkSec),
			"-c", "copy",
			segmentPath,
		)
		if out, err := cmd.CombinedOutput(); err != nil {
			p.logger.WithFields(logrus.Fields{
				"segment": i + 1,
				"error":   err,
				"output":  string(out),
			}).Warn("Failed to cut audio segment, excluding it")
			continue
		}

		segments = append(segments, segmentPath)
	}

	return segments, nil
}
