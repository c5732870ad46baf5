// Package stt transcribes audio files through speech-to-text HTTP APIs.
package stt

import "context"

// Provider converts an audio file into text. Implementations are tried in
// order by the transcript pipeline, falling back to the next on failure.
type Provider interface {
	Name() string
	Transcribe(ctx context.Context, audioPath string) (string, error)
}
