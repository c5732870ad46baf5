package models

import "time"

// SummarizeRequest is the body of POST /api/summarize.
type SummarizeRequest struct {
	URL      string `json:"url"`
	Language string `json:"language"`
}

// SummaryListItem is one entry of GET /api/summaries.
type SummaryListItem struct {
	VideoID   string    `json:"video_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

func NewSummaryListItem(s *Summary) SummaryListItem {
	return SummaryListItem{
		VideoID:   s.VideoID,
		Title:     s.Title,
		CreatedAt: s.CreatedAt,
	}
}
