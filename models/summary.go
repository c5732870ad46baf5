package models

import "time"

// TranscriptMethod records how the transcript was obtained.
type TranscriptMethod string

const (
	MethodSubtitles     TranscriptMethod = "subtitles"
	MethodTranscription TranscriptMethod = "transcription"
)

// Summary is the persisted result of one summarization run. Rows are
// immutable once written: there is no update path, only delete.
type Summary struct {
	VideoID          string           `json:"video_id"`
	Title            string           `json:"title"`
	TranscriptMethod TranscriptMethod `json:"transcript_method"`
	Summary          string           `json:"summary"`
	CostEstimate     string           `json:"cost_estimate"`
	CreatedAt        time.Time        `json:"created_at"`
}

// Transcript is the transient output of the acquisition cascade. It is
// handed to the summarization client and never persisted.
type Transcript struct {
	Text   string
	Method TranscriptMethod
}
