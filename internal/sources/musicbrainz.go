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
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/lyrimood/internal/config"
	"github.com/tomtom215/lyrimood/internal/mood"
	"github.com/tomtom215/lyrimood/internal/resilience"
)

const userAgent = "Lyrimood/1.0 (https://github.com/tomtom215/lyrimood)"

// MusicBrainzClient resolves recording metadata from the MusicBrainz
// web service. A search miss is (nil, nil), never an error.
type MusicBrainzClient struct {
	baseURL    string
	httpClient *http.Client
	executor   *resilience.Executor
}

// NewMusicBrainzClient creates a MusicBrainz metadata client.
func NewMusicBrainzClient(cfg config.ServiceConfig, executor *resilience.Executor) *MusicBrainzClient {
	return &MusicBrainzClient{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		executor: executor,
	}
}

// Lookup searches for a recording by title and artist.
func (c *MusicBrainzClient) Lookup(ctx context.Context, title, artist string) (*mood.Metadata, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(artist) == "" {
		return nil, nil
	}
	result, err := c.executor.Do(ctx, "musicbrainz", func(ctx context.Context) (any, error) {
		return c.query(ctx, title, artist)
	})
	return resilience.As[*mood.Metadata](result, err)
}

type mbSearchResponse struct {
	Recordings []mbRecording `json:"recordings"`
}

type mbRecording struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	ArtistCredit []mbCredit      `json:"artist-credit"`
	Releases     []mbRelease     `json:"releases"`
	Tags         []mbTag         `json:"tags"`
	Annotation   json.RawMessage `json:"annotation"`
}

type mbCredit struct {
	Name string `json:"name"`
}

type mbRelease struct {
	Date    string `json:"date"`
	Country string `json:"country"`
}

type mbTag struct {
	Name string `json:"name"`
}

func (c *MusicBrainzClient) query(ctx context.Context, title, artist string) (*mood.Metadata, error) {
	params := url.Values{}
	params.Set("query", fmt.Sprintf("recording:%q AND artist:%q",
		strings.ReplaceAll(title, `"`, ""),
		strings.ReplaceAll(artist, `"`, "")))
	params.Set("fmt", "json")
	params.Set("limit", "1")
	params.Set("inc", "tags+releases+annotation")

	var search mbSearchResponse
	if err := c.getJSON(ctx, "/ws/2/recording?"+params.Encode(), &search); err != nil {
		return nil, err
	}
	if len(search.Recordings) == 0 {
		return (*mood.Metadata)(nil), nil
	}

	rec := search.Recordings[0]
	meta := &mood.Metadata{
		RecordingID:    rec.ID,
		Title:          rec.Title,
		ReleaseDate:    extractReleaseDate(rec.Releases),
		ReleaseCountry: extractReleaseCountry(rec.Releases),
		Tags:           extractTags(rec.Tags),
		Annotation:     sanitizeAnnotation(rec.Annotation),
	}
	if len(rec.ArtistCredit) > 0 {
		meta.Artist = rec.ArtistCredit[0].Name
	}

	if meta.Annotation == "" && rec.ID != "" {
		annotation, err := c.fetchAnnotation(ctx, rec.ID)
		if err != nil {
			return nil, err
		}
		meta.Annotation = annotation
	}
	return meta, nil
}

// fetchAnnotation performs the per-recording lookup: search results omit
// the annotation body for some recordings.
func (c *MusicBrainzClient) fetchAnnotation(ctx context.Context, recordingID string) (string, error) {
	var detail struct {
		Annotation json.RawMessage `json:"annotation"`
	}
	endpoint := "/ws/2/recording/" + url.PathEscape(recordingID) + "?fmt=json&inc=annotation"
	if err := c.getJSON(ctx, endpoint, &detail); err != nil {
		return "", err
	}
	return sanitizeAnnotation(detail.Annotation), nil
}

func (c *MusicBrainzClient) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build musicbrainz request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("musicbrainz request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, readErr := io.ReadAll(io.LimitReader(resp.Body, 512))
		if readErr != nil {
			return fmt.Errorf("musicbrainz returned status %d (failed to read body)", resp.StatusCode)
		}
		return fmt.Errorf("musicbrainz returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode musicbrainz response: %w", err)
	}
	return nil
}

// extractReleaseDate returns the first parseable release date. Partial
// dates (year or year-month) resolve to the first day of the period.
func extractReleaseDate(releases []mbRelease) *time.Time {
	for _, rel := range releases {
		if strings.TrimSpace(rel.Date) == "" {
			continue
		}
		for _, layout := range []string{"2006-01-02", "2006-01", "2006"} {
			if ts, err := time.Parse(layout, rel.Date); err == nil {
				return &ts
			}
		}
	}
	return nil
}

func extractReleaseCountry(releases []mbRelease) string {
	for _, rel := range releases {
		if strings.TrimSpace(rel.Country) != "" {
			return rel.Country
		}
	}
	return ""
}

func extractTags(tags []mbTag) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if strings.TrimSpace(tag.Name) != "" {
			out = append(out, strings.ToLower(tag.Name))
		}
	}
	return out
}

// sanitizeAnnotation accepts the annotation field in any of the shapes
// MusicBrainz serves it: a plain string, {"text": ...} or an array of
// either.
func sanitizeAnnotation(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return strings.TrimSpace(text)
	}
	var obj struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.Text != "" {
		return strings.TrimSpace(obj.Text)
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err == nil {
		for _, item := range items {
			if nested := sanitizeAnnotation(item); nested != "" {
				return nested
			}
		}
	}
	return ""
}
