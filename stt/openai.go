package stt

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"yt-summarizer/config"
)

// OpenAIProvider talks to any OpenAI-compatible /audio/transcriptions
// endpoint, including OpenRouter's.
type OpenAIProvider struct {
	name   string
	url    string
	apiKey string
	model  string
	client *http.Client
}

func NewOpenAIProvider(cfg config.ProviderConfig, timeoutClient *http.Client) *OpenAIProvider {
	return &OpenAIProvider{
		name:   cfg.Name,
		url:    strings.TrimSuffix(cfg.BaseURL, "/") + "/audio/transcriptions",
		apiKey: cfg.APIKey,
		model:  cfg.Model,
		client: timeoutClient,
	}
}

func (p *OpenAIProvider) Name() string {
	return p.name
}

// Transcribe uploads the audio file as multipart form data and returns the
// transcribed text. A missing API key fails without touching the network.
func (p *OpenAIProvider) Transcribe(ctx context.Context, audioPath string) (string, error) {
	if p.apiKey == "" {
		return "", errors.Errorf("%s: API key not configured", p.name)
	}

	file, err := os.Open(audioPath)
	if err != nil {
		return "", errors.Wrap(err, "opening audio file")
	}
	defer file.Close()

	var body strings.Builder
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return "", errors.Wrap(err, "creating form file")
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", errors.Wrap(err, "copying audio data")
	}
	if err := writer.WriteField("model", p.model); err != nil {
		return "", errors.Wrap(err, "writing model field")
	}
	if err := writer.Close(); err != nil {
		return "", errors.Wrap(err, "closing multipart writer")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, strings.NewReader(body.String()))
	if err != nil {
		return "", errors.Wrap(err, "building transcription request")
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := p.client.Do(req)
	if err != nil {
		return "", errors.Wrapf(err, "%s: transcription request", p.name)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "reading transcription response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%s: status %d: %s", p.name, resp.StatusCode, redactSecret(string(respBody), p.apiKey))
	}

	var parsed struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", errors.Wrap(err, "parsing transcription response")
	}

	return parsed.Text, nil
}
