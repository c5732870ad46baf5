// Package handlers exposes the HTTP API.
package handlers

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"yt-summarizer/errors"
	"yt-summarizer/middleware"
)

func respondJSON(w http.ResponseWriter, r *http.Request, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if payload == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		middleware.GetLogger(r.Context()).WithError(err).Error("Failed to encode response")
	}
}

func respondError(w http.ResponseWriter, r *http.Request, err error) {
	code := http.StatusInternalServerError
	msg := "Internal server error"

	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		code = appErr.Code
		msg = appErr.Message
	}

	logger := middleware.GetLogger(r.Context()).WithFields(logrus.Fields{
		"error":  err,
		"status": code,
	})
	if code >= 500 {
		logger.Error("Request error")
	} else {
		logger.Warn("Request error")
	}

	respondJSON(w, r, code, map[string]string{"error": msg})
}

func readJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.InvalidInput("readJSON", err, "Invalid JSON format")
	}
	return nil
}
