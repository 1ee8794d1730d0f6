// Lyrimood - Song Mood Profile Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrimood

package sources

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/lyrimood/internal/config"
	"github.com/tomtom215/lyrimood/internal/mood"
	"github.com/tomtom215/lyrimood/internal/resilience"
)

// moodClassifiers are the AcousticBrainz high-level mood models, probed
// for the single most probable label.
var moodClassifiers = []string{
	"mood_happy", "mood_sad", "mood_party", "mood_relaxed", "mood_aggressive",
}

// AcousticBrainzClient fetches the high-level acoustic profile for a
// MusicBrainz recording id. A profile with no usable fields is a miss,
// (nil, nil).
type AcousticBrainzClient struct {
	baseURL    string
	httpClient *http.Client
	executor   *resilience.Executor
}

// NewAcousticBrainzClient creates the acoustic profile client.
func NewAcousticBrainzClient(cfg config.ServiceConfig, executor *resilience.Executor) *AcousticBrainzClient {
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://acousticbrainz.org"
	}
	return &AcousticBrainzClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		executor: executor,
	}
}

// Profile fetches the acoustic profile under the acousticbrainz policy.
func (c *AcousticBrainzClient) Profile(ctx context.Context, recordingID string) (*mood.AcousticProfile, error) {
	if strings.TrimSpace(recordingID) == "" {
		return nil, nil
	}
	result, err := c.executor.Do(ctx, "acousticbrainz", func(ctx context.Context) (any, error) {
		return c.query(ctx, recordingID)
	})
	return resilience.As[*mood.AcousticProfile](result, err)
}

// abValue tolerates both the bare scalar and the {"value": ...} wrapper
// AcousticBrainz uses across dataset versions.
type abValue[T any] struct {
	value *T
}

func (v *abValue[T]) UnmarshalJSON(data []byte) error {
	var direct T
	if err := json.Unmarshal(data, &direct); err == nil {
		v.value = &direct
		return nil
	}
	var wrapped struct {
		Value *T `json:"value"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil {
		v.value = wrapped.Value
		return nil
	}
	return nil
}

type abResponse struct {
	Rhythm struct {
		BPM abValue[float64] `json:"bpm"`
	} `json:"rhythm"`
	Tonal struct {
		KeyKey abValue[string] `json:"key_key"`
	} `json:"tonal"`
	Mood map[string]json.RawMessage `json:"mood"`
}

func (c *AcousticBrainzClient) query(ctx context.Context, recordingID string) (*mood.AcousticProfile, error) {
	endpoint := c.baseURL + "/" + url.PathEscape(recordingID) + "/high-level"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build acousticbrainz request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("acousticbrainz request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, readErr := io.ReadAll(io.LimitReader(resp.Body, 512))
		if readErr != nil {
			return nil, fmt.Errorf("acousticbrainz returned status %d (failed to read body)", resp.StatusCode)
		}
		return nil, fmt.Errorf("acousticbrainz returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed abResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode acousticbrainz response: %w", err)
	}

	profile := &mood.AcousticProfile{
		Tempo: parsed.Rhythm.BPM.value,
		Mood:  extractBestMood(parsed.Mood),
	}
	if parsed.Tonal.KeyKey.value != nil {
		profile.Key = *parsed.Tonal.KeyKey.value
	}

	if profile.Key == "" && profile.Tempo == nil && profile.Mood == "" {
		return (*mood.AcousticProfile)(nil), nil
	}
	return profile, nil
}

// extractBestMood picks the classifier label with the highest
// probability, falling back to a bare "value" field.
func extractBestMood(moodNode map[string]json.RawMessage) string {
	if len(moodNode) == 0 {
		return ""
	}

	bestScore := 0.0
	bestLabel := ""
	for _, name := range moodClassifiers {
		raw, ok := moodNode[name]
		if !ok {
			continue
		}
		var classifier struct {
			Probability float64 `json:"probability"`
			Value       string  `json:"value"`
		}
		if err := json.Unmarshal(raw, &classifier); err != nil {
			continue
		}
		if classifier.Probability > bestScore && strings.TrimSpace(classifier.Value) != "" {
			bestScore = classifier.Probability
			bestLabel = classifier.Value
		}
	}
	if bestLabel != "" {
		return bestLabel
	}

	if raw, ok := moodNode["value"]; ok {
		var value string
		if err := json.Unmarshal(raw, &value); err == nil {
			return value
		}
	}
	return ""
}
