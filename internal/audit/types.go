// Lyrimood - Song Mood Profile Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrimood

// Package audit persists one record per completed mood analysis. The
// pipeline treats persistence as strictly best-effort: a failed save is
// logged and counted, never surfaced to the caller.
package audit

import (
	"context"
	"time"
)

// Record is the durable trace of a single analysis.
type Record struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	Artist             string    `json:"artist"`
	Label              string    `json:"label"`
	Lang               string    `json:"lang"`
	Profane            bool      `json:"profane"`
	Valence            float64   `json:"valence"`
	Arousal            float64   `json:"arousal"`
	LyricsLength       int       `json:"lyricsLength"`
	LanguageConfidence float64   `json:"languageConfidence"`
	RecordingID        string    `json:"musicBrainzId,omitempty"`
	ReleaseDate        string    `json:"releaseDate,omitempty"`
	ReleaseCountry     string    `json:"releaseCountry,omitempty"`
	Tags               []string  `json:"tags"`
	Genres             []string  `json:"genres"`
	AcousticKey        string    `json:"acousticKey,omitempty"`
	AcousticTempo      *float64  `json:"acousticTempo,omitempty"`
	AcousticMood       string    `json:"acousticMood,omitempty"`
	Lyrics             string    `json:"lyrics"`
	Highlights         []string  `json:"highlights"`
	LyricsDigest       string    `json:"lyricsDigest,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
}

// Store persists and retrieves analysis records.
type Store interface {
	// Save persists a record. The record's ID and CreatedAt must be set
	// by the caller.
	Save(ctx context.Context, rec *Record) error

	// Recent returns up to limit records, newest first.
	Recent(ctx context.Context, limit int) ([]Record, error)

	// Close releases store resources.
	Close() error
}

// MatchesQuery reports whether a record matches a free-text query over
// title, artist, label, tags and genres, case-insensitively.
func (r *Record) MatchesQuery(query string) bool {
	if query == "" {
		return true
	}
	lowered := lower(query)
	if contains(r.Title, lowered) || contains(r.Artist, lowered) || contains(r.Label, lowered) {
		return true
	}
	for _, tag := range r.Tags {
		if contains(tag, lowered) {
			return true
		}
	}
	for _, genre := range r.Genres {
		if contains(genre, lowered) {
			return true
		}
	}
	return false
}
