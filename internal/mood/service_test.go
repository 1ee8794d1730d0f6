// Lyrimood - Song Mood Profile Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrimood

package mood

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/lyrimood/internal/audit"
	"github.com/tomtom215/lyrimood/internal/resilience"
)

type stubMetadata struct {
	meta *Metadata
	err  error
}

func (s *stubMetadata) Lookup(context.Context, string, string) (*Metadata, error) {
	return s.meta, s.err
}

type stubLanguage struct {
	result LanguageDetection
}

func (s *stubLanguage) Detect(context.Context, string) LanguageDetection {
	return s.result
}

type stubAnalyzer struct {
	result    LyricAnalysis
	err       error
	gotLyrics string
}

func (s *stubAnalyzer) Analyze(_ context.Context, _, _, lyrics string) (LyricAnalysis, error) {
	s.gotLyrics = lyrics
	return s.result, s.err
}

type stubAcoustic struct {
	profile *AcousticProfile
	err     error
	calls   int
}

func (s *stubAcoustic) Profile(context.Context, string) (*AcousticProfile, error) {
	s.calls++
	return s.profile, s.err
}

type stubTags struct {
	tags  []string
	panic bool
}

func (s *stubTags) Suggest(context.Context, string, string, string, float64, float64, bool, string) []string {
	if s.panic {
		panic("suggester exploded")
	}
	return s.tags
}

func date(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

func newTestService(
	metadata MetadataLookup,
	language LanguageDetector,
	analyzer LyricAnalyzer,
	acoustic AcousticLookup,
	tags TagSuggester,
	store audit.Store,
) *Service {
	if store == nil {
		store = audit.NewMemoryStore(100)
	}
	return NewService(metadata, language, analyzer, acoustic, tags, store)
}

func TestAnalyzeComposesProfileAndRoundsScores(t *testing.T) {
	annotation := "We dance in the bright daylight"
	req := Request{Title: "Shining Day", Artist: "Lumi", Lyrics: annotation}

	meta := &Metadata{
		RecordingID:    "mbid",
		Title:          req.Title,
		Artist:         req.Artist,
		ReleaseDate:    date(2016, time.September, 1),
		ReleaseCountry: "US",
		Tags:           []string{"electropop"},
		Annotation:     annotation,
	}
	analyzer := &stubAnalyzer{result: LyricAnalysis{
		Lang:             "en",
		Score:            SentimentScore{Valence: 0.81256, Arousal: 0.3324},
		Tags:             []string{"energetic", "bright"},
		PositiveEvidence: []string{"bright"},
	}}
	acoustic := &stubAcoustic{}
	store := audit.NewMemoryStore(100)

	svc := newTestService(
		&stubMetadata{meta: meta},
		&stubLanguage{result: LanguageDetection{Code: "en", Confidence: 0.9}},
		analyzer,
		acoustic,
		&stubTags{tags: []string{"Bright", "Calm", "EN", "Clean"}},
		store,
	)

	got, err := svc.Analyze(context.Background(), req)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if got.Title != "Shining Day" {
		t.Errorf("title = %q", got.Title)
	}
	if got.Label != "Bright · Calm" {
		t.Errorf("label = %q, want %q", got.Label, "Bright · Calm")
	}
	if got.Valence != 0.813 {
		t.Errorf("valence = %v, want 0.813", got.Valence)
	}
	if got.Arousal != 0.332 {
		t.Errorf("arousal = %v, want 0.332", got.Arousal)
	}
	if !containsString(got.Tags, "year-2016") || !containsString(got.Tags, "energetic") {
		t.Errorf("tags missing expected entries: %v", got.Tags)
	}
	if len(got.Tags) > 6 {
		t.Errorf("tags exceed cap: %v", got.Tags)
	}
	if got.Profane {
		t.Error("profane should be false")
	}
	if got.Lang != "en" {
		t.Errorf("lang = %q", got.Lang)
	}
	if !containsString(got.Genres, "Electropop") {
		t.Errorf("genres = %v, want Electropop", got.Genres)
	}
	if got.ReleaseDate != "2016-09-01" {
		t.Errorf("releaseDate = %q", got.ReleaseDate)
	}
	if got.Key != "" || got.Tempo != nil || got.Mood != "" {
		t.Errorf("acoustic fields should be absent: %q %v %q", got.Key, got.Tempo, got.Mood)
	}
	if len(got.Toxicity) != 0 || len(got.Emotions) != 0 {
		t.Error("prediction slots should be empty")
	}
	if got.Lyrics != annotation {
		t.Errorf("lyrics = %q", got.Lyrics)
	}
	if len(got.Highlights) == 0 {
		t.Error("highlights should not be empty")
	}
	if acoustic.calls != 1 {
		t.Errorf("acoustic lookup calls = %d, want 1", acoustic.calls)
	}

	records, err := store.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 persisted record, got %d", len(records))
	}
	rec := records[0]
	if rec.ID == "" {
		t.Error("record ID should be assigned")
	}
	if rec.RecordingID != "mbid" {
		t.Errorf("recording id = %q", rec.RecordingID)
	}
	if rec.LanguageConfidence != 0.9 {
		t.Errorf("language confidence = %v", rec.LanguageConfidence)
	}
	if rec.LyricsDigest == "" || len(rec.LyricsDigest) != 32 {
		t.Errorf("digest = %q", rec.LyricsDigest)
	}
}

func TestAnalyzeFallsBackToTitleArtistWhenLyricsBlank(t *testing.T) {
	req := Request{Title: "Shining Day", Artist: "Lumi", Lyrics: " "}
	analyzer := &stubAnalyzer{result: LyricAnalysis{
		Lang:  "en",
		Score: SentimentScore{Valence: 0.4, Arousal: 0.6},
	}}

	svc := newTestService(
		&stubMetadata{},
		&stubLanguage{result: LanguageDetection{Code: "en", Confidence: 0.8}},
		analyzer,
		&stubAcoustic{},
		&stubTags{tags: []string{"fallback"}},
		nil,
	)

	got, err := svc.Analyze(context.Background(), req)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if analyzer.gotLyrics != "Shining Day Lumi" {
		t.Errorf("analyzer received %q, want fallback text", analyzer.gotLyrics)
	}
	if got.Valence != 0.4 {
		t.Errorf("valence = %v", got.Valence)
	}
	if !containsString(got.Tags, "fallback") {
		t.Errorf("tags = %v, want fallback entry", got.Tags)
	}
}

func TestAnalyzeUsesAnnotationWhenLyricsBlank(t *testing.T) {
	req := Request{Title: "Shining Day", Artist: "Lumi"}
	meta := &Metadata{RecordingID: "mbid", Annotation: "annotation lyric text"}
	analyzer := &stubAnalyzer{result: LyricAnalysis{
		Score: SentimentScore{Valence: 0.5, Arousal: 0.5},
	}}

	svc := newTestService(
		&stubMetadata{meta: meta},
		&stubLanguage{result: LanguageDetection{Code: "en", Confidence: 0.8}},
		analyzer,
		&stubAcoustic{},
		&stubTags{},
		nil,
	)

	if _, err := svc.Analyze(context.Background(), req); err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if analyzer.gotLyrics != "annotation lyric text" {
		t.Errorf("analyzer received %q, want annotation", analyzer.gotLyrics)
	}
}

func TestAnalyzeMetadataFailureIsNonFatal(t *testing.T) {
	req := Request{Title: "Song", Artist: "Artist", Lyrics: "some lyric text"}
	analyzer := &stubAnalyzer{result: LyricAnalysis{
		Lang:  "en",
		Score: SentimentScore{Valence: 0.7, Arousal: 0.7},
	}}
	lookupErr := &resilience.ServiceError{Service: "musicbrainz", Kind: resilience.KindTimeout}

	svc := newTestService(
		&stubMetadata{err: lookupErr},
		&stubLanguage{result: LanguageDetection{Code: "en", Confidence: 0.8}},
		analyzer,
		&stubAcoustic{},
		&stubTags{},
		nil,
	)

	got, err := svc.Analyze(context.Background(), req)
	if err != nil {
		t.Fatalf("metadata failure must not fail the pipeline: %v", err)
	}
	if got.ReleaseDate != "" {
		t.Errorf("releaseDate should be absent, got %q", got.ReleaseDate)
	}
}

func TestAnalyzeAnalyzerFailureIsFatal(t *testing.T) {
	req := Request{Title: "Song", Artist: "Artist", Lyrics: "text"}
	analyzerErr := &resilience.ServiceError{Service: "gemini", Kind: resilience.KindCallFailed}
	store := audit.NewMemoryStore(100)

	svc := newTestService(
		&stubMetadata{},
		&stubLanguage{result: LanguageDetection{Code: "en", Confidence: 0.8}},
		&stubAnalyzer{err: analyzerErr},
		&stubAcoustic{},
		&stubTags{},
		store,
	)

	_, err := svc.Analyze(context.Background(), req)
	var se *resilience.ServiceError
	if !errors.As(err, &se) {
		t.Fatalf("expected *ServiceError, got %v", err)
	}
	if se.Service != "gemini" {
		t.Errorf("service = %q, want gemini", se.Service)
	}

	records, _ := store.Recent(context.Background(), 10)
	if len(records) != 0 {
		t.Errorf("failed analysis must not be persisted, got %d records", len(records))
	}
}

func TestAnalyzeAcousticFailureIsSwallowed(t *testing.T) {
	req := Request{Title: "Song", Artist: "Artist", Lyrics: "text"}
	meta := &Metadata{RecordingID: "mbid"}
	analyzer := &stubAnalyzer{result: LyricAnalysis{
		Lang:  "en",
		Score: SentimentScore{Valence: 0.9, Arousal: 0.2},
	}}

	svc := newTestService(
		&stubMetadata{meta: meta},
		&stubLanguage{result: LanguageDetection{Code: "en", Confidence: 0.8}},
		analyzer,
		&stubAcoustic{err: &resilience.ServiceError{Service: "acousticbrainz", Kind: resilience.KindCallFailed}},
		&stubTags{},
		nil,
	)

	got, err := svc.Analyze(context.Background(), req)
	if err != nil {
		t.Fatalf("acoustic failure must not fail the pipeline: %v", err)
	}
	if got.Key != "" || got.Tempo != nil || got.Mood != "" {
		t.Error("acoustic fields should be absent after lookup failure")
	}
}

func TestAnalyzeWrapsUnexpectedPanic(t *testing.T) {
	req := Request{Title: "Song", Artist: "Artist", Lyrics: "text"}
	analyzer := &stubAnalyzer{result: LyricAnalysis{
		Score: SentimentScore{Valence: 0.5, Arousal: 0.5},
	}}

	svc := newTestService(
		&stubMetadata{},
		&stubLanguage{result: LanguageDetection{Code: "en", Confidence: 0.8}},
		analyzer,
		&stubAcoustic{},
		&stubTags{panic: true},
		nil,
	)

	got, err := svc.Analyze(context.Background(), req)
	if got != nil {
		t.Error("expected nil result after panic")
	}
	var se *resilience.ServiceError
	if !errors.As(err, &se) {
		t.Fatalf("expected *ServiceError, got %v", err)
	}
	if se.Kind != resilience.KindInternal {
		t.Errorf("kind = %q, want internal", se.Kind)
	}
	if err.Error() != "mood analysis failed" {
		t.Errorf("message = %q, want stable internal message", err.Error())
	}
}

func TestAnalyzePersistFailureIsSwallowed(t *testing.T) {
	req := Request{Title: "Song", Artist: "Artist", Lyrics: "text"}
	analyzer := &stubAnalyzer{result: LyricAnalysis{
		Lang:  "en",
		Score: SentimentScore{Valence: 0.6, Arousal: 0.6},
	}}

	svc := newTestService(
		&stubMetadata{},
		&stubLanguage{result: LanguageDetection{Code: "en", Confidence: 0.8}},
		analyzer,
		&stubAcoustic{},
		&stubTags{},
		failingStore{},
	)

	if _, err := svc.Analyze(context.Background(), req); err != nil {
		t.Fatalf("persist failure must not fail the pipeline: %v", err)
	}
}

type failingStore struct{}

func (failingStore) Save(context.Context, *audit.Record) error {
	return errors.New("disk full")
}

func (failingStore) Recent(context.Context, int) ([]audit.Record, error) {
	return nil, nil
}

func (failingStore) Close() error { return nil }

func containsString(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
