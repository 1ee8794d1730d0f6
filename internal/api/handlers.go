// Lyrimood - Song Mood Profile Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrimood

package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/tomtom215/lyrimood/internal/audit"
	"github.com/tomtom215/lyrimood/internal/mood"
)

// maxRequestBody caps analyze request bodies. Lyrics are small; anything
// beyond this is not a song.
const maxRequestBody = 1 << 20

// MoodAnalyzer runs the analysis pipeline for a single song.
type MoodAnalyzer interface {
	Analyze(ctx context.Context, req mood.Request) (*mood.Analysis, error)
}

// Handlers provides HTTP handlers for the mood analysis endpoints.
type Handlers struct {
	service  MoodAnalyzer
	store    audit.Store
	validate *validator.Validate
}

// NewHandlers creates the handler set.
func NewHandlers(service MoodAnalyzer, store audit.Store) *Handlers {
	return &Handlers{
		service:  service,
		store:    store,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// AnalyzeMood handles POST /api/v1/mood/analyze.
// It runs the full aggregation pipeline and returns the mood profile.
func (h *Handlers) AnalyzeMood(w http.ResponseWriter, r *http.Request) {
	var req mood.Request
	body := io.LimitReader(r.Body, maxRequestBody)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_BODY", "request body is not valid JSON", "", err)
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", validationMessage(err), "", nil)
		return
	}

	analysis, err := h.service.Analyze(r.Context(), req)
	if err != nil {
		respondAnalysisError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, analysis)
}

// ListLogs handles GET /api/v1/logs.
// Returns recent analysis records, newest first, optionally filtered by
// a case-insensitive free-text query across title, artist, label, tags
// and genres.
func (h *Handlers) ListLogs(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	records, err := h.store.Recent(r.Context(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "LOGS_ERROR", "failed to fetch analysis logs", "", err)
		return
	}

	// Filtering happens after the fetch so the query searches only the
	// most recent records, not the full history.
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	filtered := make([]audit.Record, 0, len(records))
	for i := range records {
		if records[i].MatchesQuery(query) {
			filtered = append(filtered, records[i])
		}
	}

	respondJSON(w, http.StatusOK, filtered)
}

// Health handles GET /health.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// validationMessage flattens validator errors into a single readable
// message, e.g. "title is required".
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "request validation failed"
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			parts = append(parts, fmt.Sprintf("%s is required", field))
		default:
			parts = append(parts, fmt.Sprintf("%s is invalid", field))
		}
	}
	return strings.Join(parts, "; ")
}
