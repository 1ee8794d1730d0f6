// Lyrimood - Song Mood Profile Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrimood

package sources

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/lyrimood/internal/config"
	"github.com/tomtom215/lyrimood/internal/logging"
	"github.com/tomtom215/lyrimood/internal/mood"
	"github.com/tomtom215/lyrimood/internal/resilience"
)

// DetectLanguageClient identifies lyric language via the DetectLanguage
// API, falling back to script detection when the remote result is
// unusable and to {"und", 0} when everything fails. Detection never
// returns an error: a broken detector degrades, it does not break the
// pipeline.
type DetectLanguageClient struct {
	baseURL      string
	apiKeyHeader string
	apiKeyValue  string
	httpClient   *http.Client
	executor     *resilience.Executor
	fallback     *ScriptLanguageDetector
}

// NewDetectLanguageClient creates the remote language detector.
func NewDetectLanguageClient(cfg config.ServiceConfig, executor *resilience.Executor) *DetectLanguageClient {
	header := cfg.APIKeyHeader
	if header == "" {
		header = "Authorization"
	}
	return &DetectLanguageClient{
		baseURL:      strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKeyHeader: header,
		apiKeyValue:  cfg.APIKeyValue,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		executor: executor,
		fallback: NewScriptLanguageDetector(),
	}
}

// Detect resolves the language of a text, best remote detection first.
func (c *DetectLanguageClient) Detect(ctx context.Context, text string) mood.LanguageDetection {
	normalized := normalizeNFC(text)
	if strings.TrimSpace(normalized) == "" {
		return mood.LanguageDetection{Code: "und", Confidence: 0}
	}

	result, err := c.executor.Do(ctx, "detectlanguage", func(ctx context.Context) (any, error) {
		return c.invoke(ctx, normalized)
	})
	if err != nil {
		logging.Warn().Err(err).Msg("Remote language detection unavailable, using script fallback")
		return c.fallback.Detect(ctx, normalized)
	}
	detection, castErr := resilience.As[mood.LanguageDetection](result, nil)
	if castErr != nil {
		return c.fallback.Detect(ctx, normalized)
	}
	return detection
}

type detectResponse struct {
	Data []struct {
		Detections []struct {
			Language   string  `json:"language"`
			Confidence float64 `json:"confidence"`
		} `json:"detections"`
	} `json:"data"`
}

func (c *DetectLanguageClient) invoke(ctx context.Context, text string) (mood.LanguageDetection, error) {
	payload, err := json.Marshal(map[string]string{"q": text})
	if err != nil {
		return mood.LanguageDetection{}, fmt.Errorf("failed to marshal detect request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/detect", bytes.NewReader(payload))
	if err != nil {
		return mood.LanguageDetection{}, fmt.Errorf("failed to build detect request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(c.apiKeyHeader, "Bearer "+c.apiKeyValue)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return mood.LanguageDetection{}, fmt.Errorf("detect request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, readErr := io.ReadAll(io.LimitReader(resp.Body, 512))
		if readErr != nil {
			return mood.LanguageDetection{}, fmt.Errorf("detect returned status %d (failed to read body)", resp.StatusCode)
		}
		return mood.LanguageDetection{}, fmt.Errorf("detect returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed detectResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return mood.LanguageDetection{}, fmt.Errorf("failed to decode detect response: %w", err)
	}
	if len(parsed.Data) == 0 || len(parsed.Data[0].Detections) == 0 {
		return mood.LanguageDetection{Code: "und", Confidence: 0}, nil
	}

	// Pick the highest-confidence detection.
	best := parsed.Data[0].Detections[0]
	for _, d := range parsed.Data[0].Detections[1:] {
		if d.Language != "" && d.Confidence > best.Confidence {
			best = d
		}
	}
	if best.Language == "" || best.Language == "und" {
		if fallback := c.fallback.Detect(ctx, text); fallback.Code != "und" {
			return fallback, nil
		}
	}
	if best.Language == "" {
		return mood.LanguageDetection{Code: "und", Confidence: 0}, nil
	}
	return mood.LanguageDetection{Code: best.Language, Confidence: best.Confidence}, nil
}
