package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"yt-summarizer/config"
)

// CaptionTrack is one downloadable caption rendition of a video.
type CaptionTrack struct {
	URL  string `json:"url"`
	Ext  string `json:"ext"`
	Name string `json:"name"`
}

// VideoInfo is the subset of yt-dlp metadata the service needs.
type VideoInfo struct {
	ID           string                    `json:"id"`
	Title        string                    `json:"title"`
	Duration     float64                   `json:"duration"`
	Subtitles    map[string][]CaptionTrack `json:"subtitles"`
	AutoCaptions map[string][]CaptionTrack `json:"automatic_captions"`
}

// Client shells out to yt-dlp for metadata and audio download, and fetches
// caption payloads over plain HTTP.
type Client struct {
	ytdlp  string
	http   *http.Client
	logger *logrus.Logger
}

func NewClient(cfg config.ToolsConfig) *Client {
	return &Client{
		ytdlp:  cfg.YTDLPPath,
		http:   &http.Client{},
		logger: logrus.StandardLogger(),
	}
}

func watchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

// VideoInfo fetches metadata, including available caption tracks, without
// downloading any media.
func (c *Client) VideoInfo(ctx context.Context, videoID string) (*VideoInfo, error) {
	output, err := c.run(ctx,
		"--dump-json",
		"--skip-download",
		"--no-warnings",
		watchURL(videoID),
	)
	if err != nil {
		return nil, errors.Wrap(err, "fetching video metadata")
	}

	var info VideoInfo
	if err := json.Unmarshal(output, &info); err != nil {
		return nil, errors.Wrap(err, "parsing video metadata")
	}

	return &info, nil
}

// FetchCaptions downloads the raw payload of one caption track.
func (c *Client) FetchCaptions(ctx context.Context, track CaptionTrack) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, track.URL, nil)
	if err != nil {
		return "", errors.Wrap(err, "building caption request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "fetching caption track")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("caption track returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "reading caption track")
	}

	return string(body), nil
}

// DownloadAudio extracts the best audio track as low-bitrate mp3 into
// destDir and returns the file path.
func (c *Client) DownloadAudio(ctx context.Context, videoID, destDir string) (string, error) {
	outputPath := filepath.Join(destDir, videoID+".mp3")

	_, err := c.run(ctx,
		"-f", "bestaudio/best",
		"--extract-audio",
		"--audio-format", "mp3",
		"--audio-quality", "64K",
		"--no-warnings",
		"--quiet",
		"-o", filepath.Join(destDir, videoID+".%(ext)s"),
		watchURL(videoID),
	)
	if err != nil {
		return "", errors.Wrap(err, "downloading audio")
	}

	if _, err := os.Stat(outputPath); err != nil {
		return "", errors.Wrap(err, "audio file missing after download")
	}

	return outputPath, nil
}

func (c *Client) run(ctx context.Context, args ...string) ([]byte, error) {
	c.logger.WithFields(logrus.Fields{
		"command": c.ytdlp,
		"args":    args,
	}).Debug("Executing yt-dlp")

	cmd := exec.CommandContext(ctx, c.ytdlp, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("yt-dlp failed: %v (stderr: %s)", err, stderr.String())
	}

	return stdout.Bytes(), nil
}
