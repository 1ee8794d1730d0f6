// Lyrimood - Song Mood Profile Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrimood

package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite for persistent storage.
// This provides a durable analysis trail suitable for production use.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the SQLite database at path and
// ensures the schema exists. Use ":memory:" for an ephemeral store.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database: %w", err)
	}
	// modernc sqlite serializes writes; a single connection avoids
	// SQLITE_BUSY under concurrent saves.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.createTable(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) createTable(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS analysis_logs (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			artist TEXT NOT NULL,
			label TEXT,
			lang TEXT,
			profane INTEGER NOT NULL DEFAULT 0,
			valence REAL NOT NULL,
			arousal REAL NOT NULL,
			lyrics_length INTEGER,
			language_confidence REAL,
			music_brainz_id TEXT,
			release_date TEXT,
			release_country TEXT,
			tags TEXT NOT NULL DEFAULT '[]',
			genres TEXT NOT NULL DEFAULT '[]',
			acoustic_key TEXT,
			acoustic_tempo REAL,
			acoustic_mood TEXT,
			lyrics TEXT,
			highlights TEXT NOT NULL DEFAULT '[]',
			lyrics_digest TEXT,
			created_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_analysis_logs_created_at
			ON analysis_logs(created_at DESC);
	`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create analysis_logs table: %w", err)
	}
	return nil
}

// Save persists an analysis record.
func (s *SQLiteStore) Save(ctx context.Context, rec *Record) error {
	tags, err := json.Marshal(emptyIfNil(rec.Tags))
	if err != nil {
		return fmt.Errorf("failed to marshal tags: %w", err)
	}
	genres, err := json.Marshal(emptyIfNil(rec.Genres))
	if err != nil {
		return fmt.Errorf("failed to marshal genres: %w", err)
	}
	highlights, err := json.Marshal(emptyIfNil(rec.Highlights))
	if err != nil {
		return fmt.Errorf("failed to marshal highlights: %w", err)
	}

	var tempo sql.NullFloat64
	if rec.AcousticTempo != nil {
		tempo = sql.NullFloat64{Float64: *rec.AcousticTempo, Valid: true}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO analysis_logs (
			id, title, artist, label, lang, profane, valence, arousal,
			lyrics_length, language_confidence, music_brainz_id,
			release_date, release_country, tags, genres,
			acoustic_key, acoustic_tempo, acoustic_mood,
			lyrics, highlights, lyrics_digest, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Title, rec.Artist, rec.Label, rec.Lang, rec.Profane,
		rec.Valence, rec.Arousal, rec.LyricsLength, rec.LanguageConfidence,
		rec.RecordingID, rec.ReleaseDate, rec.ReleaseCountry,
		string(tags), string(genres),
		rec.AcousticKey, tempo, rec.AcousticMood,
		rec.Lyrics, string(highlights), rec.LyricsDigest,
		rec.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to insert analysis record: %w", err)
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, artist, label, lang, profane, valence, arousal,
			lyrics_length, language_confidence, music_brainz_id,
			release_date, release_country, tags, genres,
			acoustic_key, acoustic_tempo, acoustic_mood,
			lyrics, highlights, lyrics_digest, created_at
		FROM analysis_logs
		ORDER BY created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query analysis records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating analysis records: %w", err)
	}
	return records, nil
}

func scanRecord(rows *sql.Rows) (*Record, error) {
	var (
		rec        Record
		tags       string
		genres     string
		highlights string
		tempo      sql.NullFloat64
		createdAt  string
	)
	err := rows.Scan(
		&rec.ID, &rec.Title, &rec.Artist, &rec.Label, &rec.Lang,
		&rec.Profane, &rec.Valence, &rec.Arousal,
		&rec.LyricsLength, &rec.LanguageConfidence, &rec.RecordingID,
		&rec.ReleaseDate, &rec.ReleaseCountry, &tags, &genres,
		&rec.AcousticKey, &tempo, &rec.AcousticMood,
		&rec.Lyrics, &highlights, &rec.LyricsDigest, &createdAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan analysis record: %w", err)
	}

	if err := json.Unmarshal([]byte(tags), &rec.Tags); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tags: %w", err)
	}
	if err := json.Unmarshal([]byte(genres), &rec.Genres); err != nil {
		return nil, fmt.Errorf("failed to unmarshal genres: %w", err)
	}
	if err := json.Unmarshal([]byte(highlights), &rec.Highlights); err != nil {
		return nil, fmt.Errorf("failed to unmarshal highlights: %w", err)
	}
	if tempo.Valid {
		rec.AcousticTempo = &tempo.Float64
	}
	if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		rec.CreatedAt = ts
	}
	return &rec, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
