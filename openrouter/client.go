// Package openrouter generates summaries through an OpenAI-compatible chat
// completions endpoint.
package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"

	"yt-summarizer/config"
)

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Client calls the chat completions API to summarize transcripts.
type Client struct {
	url           string
	apiKey        string
	model         string
	maxInputChars int
	temperature   float64
	maxTokens     int
	client        *http.Client
}

func NewClient(cfg config.SummaryConfig) *Client {
	return &Client{
		url:           strings.TrimSuffix(cfg.BaseURL, "/") + "/chat/completions",
		apiKey:        cfg.APIKey,
		model:         cfg.Model,
		maxInputChars: cfg.MaxInputChars,
		temperature:   cfg.Temperature,
		maxTokens:     cfg.MaxTokens,
		client:        &http.Client{Timeout: cfg.Timeout},
	}
}

// Summarize sends the transcript to the model and returns its summary
// verbatim. Transcripts longer than the configured limit are truncated
// before prompting.
func (c *Client) Summarize(ctx context.Context, transcript, language string) (string, error) {
	if c.apiKey == "" {
		return "", errors.New("summary API key not configured")
	}

	if len(transcript) > c.maxInputChars {
		cut := c.maxInputChars
		for cut > 0 && !utf8.RuneStart(transcript[cut]) {
			cut--
		}
		transcript = transcript[:cut]
	}

	payload, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "user", Content: buildPrompt(transcript, language)},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", errors.Wrap(err, "encoding summary request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", errors.Wrap(err, "building summary request")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "summary request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "reading summary response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("summary API status %d: %s", resp.StatusCode, c.redact(string(body)))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", errors.Wrap(err, "parsing summary response")
	}
	if parsed.Error != nil {
		return "", errors.Errorf("summary API error: %s", c.redact(parsed.Error.Message))
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("summary API returned no choices")
	}

	return parsed.Choices[0].Message.Content, nil
}

func buildPrompt(transcript, language string) string {
	return fmt.Sprintf(`Summarize the following video transcript. Include:
- The main topic
- The key points discussed
- Any conclusions reached
- Notable data or figures mentioned

Write the summary in %s.

Transcript:
%s`, language, transcript)
}

func (c *Client) redact(s string) string {
	if c.apiKey == "" {
		return s
	}
	return strings.ReplaceAll(s, c.apiKey, "[REDACTED]")
}
