// Lyrimood - Song Mood Profile Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrimood

// Package api provides HTTP handlers for the Lyrimood application.
package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/lyrimood/internal/logging"
	"github.com/tomtom215/lyrimood/internal/resilience"
)

// APIError is the error payload returned for failed requests.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Service string `json:"service,omitempty"`
}

// sanitizeLogValue removes control characters from strings to prevent
// log injection. Newlines and other control characters could otherwise
// forge log entries.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON sends a JSON response with proper headers.
func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")

	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, code, message, service string, err error) {
	if err != nil {
		logging.Error().
			Str("code", sanitizeLogValue(code)).
			Str("error", sanitizeLogValue(err.Error())).
			Msg("API Error")
	}

	respondJSON(w, status, &APIError{
		Code:    code,
		Message: message,
		Service: service,
	})
}

// respondAnalysisError maps a pipeline failure to an HTTP error
// response. Upstream service failures surface as 502 so callers can
// distinguish them from faults in this service.
func respondAnalysisError(w http.ResponseWriter, err error) {
	var se *resilience.ServiceError
	if errors.As(err, &se) && se.Kind != resilience.KindInternal {
		respondError(w, http.StatusBadGateway, "UPSTREAM_ERROR", se.Error(), se.Service, err)
		return
	}
	respondError(w, http.StatusInternalServerError, "ANALYSIS_ERROR", "mood analysis failed", "", err)
}
