// Lyrimood - Song Mood Profile Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrimood

// Package mood implements the song mood aggregation pipeline: it fans a
// request out to the external source adapters, merges their partial views
// with deterministic rules and produces a single mood profile.
package mood

import (
	"context"
	"time"
)

// Request is the analyze input. Lyrics may be blank; the pipeline falls
// back to the metadata annotation, then to "title artist".
type Request struct {
	Title  string `json:"title" validate:"required"`
	Artist string `json:"artist" validate:"required"`
	Lyrics string `json:"lyrics"`
}

// SentimentScore is a valence/arousal pair, each in [0, 1].
type SentimentScore struct {
	Valence float64 `json:"valence"`
	Arousal float64 `json:"arousal"`
}

// LanguageDetection is the detected language of a lyric text. Code is an
// ISO 639-1 code or "und" when nothing could be determined.
type LanguageDetection struct {
	Code       string
	Confidence float64
}

// Metadata is the recording-level view returned by the music metadata
// source. Every field is optional; absent metadata is represented by a
// nil *Metadata upstream.
type Metadata struct {
	RecordingID    string
	Title          string
	Artist         string
	ReleaseDate    *time.Time
	ReleaseCountry string
	Tags           []string
	Annotation     string
}

// AcousticProfile carries the best-effort acoustic enrichment for a
// recording. Any subset of the fields may be present.
type AcousticProfile struct {
	Key   string
	Tempo *float64
	Mood  string
}

// LyricAnalysis is the AI analyzer's verdict on a lyric text.
type LyricAnalysis struct {
	Lang             string
	Label            string
	Profane          bool
	Score            SentimentScore
	Tags             []string
	PositiveEvidence []string
	NegativeEvidence []string
	Summary          string
	TranslatedLyrics string
}

// Prediction is a labelled classifier score. The toxicity and emotion
// classifier slots are carried in the response shape but not populated
// by any current source.
type Prediction struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Analysis is the merged mood profile returned to callers.
type Analysis struct {
	Title       string       `json:"title"`
	Artist      string       `json:"artist"`
	Label       string       `json:"label"`
	Lang        string       `json:"lang"`
	Profane     bool         `json:"profane"`
	Valence     float64      `json:"valence"`
	Arousal     float64      `json:"arousal"`
	Tags        []string     `json:"tags"`
	Genres      []string     `json:"genres"`
	ReleaseDate string       `json:"releaseDate,omitempty"`
	Key         string       `json:"key,omitempty"`
	Tempo       *float64     `json:"tempo,omitempty"`
	Mood        string       `json:"mood,omitempty"`
	Lyrics      string       `json:"lyrics"`
	Highlights  []string     `json:"highlights"`
	Toxicity    []Prediction `json:"toxicityPredictions"`
	Emotions    []Prediction `json:"emotionPredictions"`
}

// MetadataLookup resolves recording metadata for a title/artist pair.
// A miss is (nil, nil); errors are already normalized service failures.
type MetadataLookup interface {
	Lookup(ctx context.Context, title, artist string) (*Metadata, error)
}

// LanguageDetector identifies the language of a text. Implementations
// never fail: they degrade to {"und", 0} instead.
type LanguageDetector interface {
	Detect(ctx context.Context, text string) LanguageDetection
}

// LyricAnalyzer runs the AI mood analysis. This is the one source whose
// failure is fatal to the whole analyze operation.
type LyricAnalyzer interface {
	Analyze(ctx context.Context, title, artist, lyrics string) (LyricAnalysis, error)
}

// AcousticLookup fetches the acoustic profile for a recording id.
// A miss is (nil, nil).
type AcousticLookup interface {
	Profile(ctx context.Context, recordingID string) (*AcousticProfile, error)
}

// TagSuggester proposes auxiliary tags for a song. Best effort: a failed
// suggester returns no tags rather than an error.
type TagSuggester interface {
	Suggest(ctx context.Context, title, artist, lyrics string, valence, arousal float64, profane bool, lang string) []string
}
