package handlers

import (
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"yt-summarizer/errors"
	"yt-summarizer/middleware"
	"yt-summarizer/models"
	"yt-summarizer/services/summary"
	"yt-summarizer/validation"
)

type SummaryHandler struct {
	service   summary.Service
	validator *validation.Validator
	logger    *logrus.Logger
}

func NewSummaryHandler(service summary.Service, validator *validation.Validator) *SummaryHandler {
	return &SummaryHandler{
		service:   service,
		validator: validator,
		logger:    logrus.StandardLogger(),
	}
}

// HandleSummarize handles POST /api/summarize
func (h *SummaryHandler) HandleSummarize(w http.ResponseWriter, r *http.Request) {
	const op = "SummaryHandler.HandleSummarize"
	logger := middleware.GetLogger(r.Context())

	if err := h.validator.ValidateRequest(r, validation.RequestValidationOpts{
		MaxContentLength: 1024 * 1024,
		RequireJSON:      true,
	}); err != nil {
		respondError(w, r, err)
		return
	}

	var req models.SummarizeRequest
	if err := readJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.validator.ValidateURL(req.URL); err != nil {
		respondError(w, r, err)
		return
	}

	logger.WithField("url", req.URL).Info("Summarize request accepted")

	result, err := h.service.Summarize(r.Context(), req.URL, req.Language)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, result)
}

// HandleListSummaries handles GET /api/summaries
func (h *SummaryHandler) HandleListSummaries(w http.ResponseWriter, r *http.Request) {
	const op = "SummaryHandler.HandleListSummaries"

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, r, errors.InvalidInput(op, err, "limit must be an integer"))
			return
		}
		limit = parsed
	}

	summaries, err := h.service.List(r.Context(), limit)
	if err != nil {
		respondError(w, r, err)
		return
	}

	items := make([]models.SummaryListItem, 0, len(summaries))
	for _, s := range summaries {
		items = append(items, models.NewSummaryListItem(s))
	}

	respondJSON(w, r, http.StatusOK, items)
}

// HandleGetSummary handles GET /api/summaries/{video_id}
func (h *SummaryHandler) HandleGetSummary(w http.ResponseWriter, r *http.Request) {
	const op = "SummaryHandler.HandleGetSummary"

	videoID := r.PathValue("video_id")
	if videoID == "" {
		respondError(w, r, errors.InvalidInput(op, nil, "video_id is required"))
		return
	}

	result, err := h.service.Get(r.Context(), videoID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, result)
}

// HandleDeleteSummary handles DELETE /api/summaries/{video_id}
func (h *SummaryHandler) HandleDeleteSummary(w http.ResponseWriter, r *http.Request) {
	const op = "SummaryHandler.HandleDeleteSummary"

	videoID := r.PathValue("video_id")
	if videoID == "" {
		respondError(w, r, errors.InvalidInput(op, nil, "video_id is required"))
		return
	}

	if err := h.service.Delete(r.Context(), videoID); err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]string{"status": "deleted"})
}

// HandleDeleteAllSummaries handles DELETE /api/summaries
func (h *SummaryHandler) HandleDeleteAllSummaries(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteAll(r.Context()); err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]string{"status": "deleted"})
}
