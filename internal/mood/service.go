// Lyrimood - Song Mood Profile Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrimood

package mood

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/tomtom215/lyrimood/internal/audit"
	"github.com/tomtom215/lyrimood/internal/logging"
	"github.com/tomtom215/lyrimood/internal/metrics"
	"github.com/tomtom215/lyrimood/internal/resilience"
)

// Service runs the aggregation pipeline. All source adapters are
// injected; the service owns only the merge rules and failure policy.
type Service struct {
	metadata MetadataLookup
	language LanguageDetector
	analyzer LyricAnalyzer
	acoustic AcousticLookup
	tags     TagSuggester
	store    audit.Store
	now      func() time.Time
}

// NewService wires the pipeline.
func NewService(
	metadata MetadataLookup,
	language LanguageDetector,
	analyzer LyricAnalyzer,
	acoustic AcousticLookup,
	tags TagSuggester,
	store audit.Store,
) *Service {
	return &Service{
		metadata: metadata,
		language: language,
		analyzer: analyzer,
		acoustic: acoustic,
		tags:     tags,
		store:    store,
		now:      time.Now,
	}
}

// Analyze produces the merged mood profile for a song. Metadata,
// acoustic and tag sources degrade silently; only an AI analyzer
// failure (or an unexpected internal fault) fails the whole request.
func (s *Service) Analyze(ctx context.Context, req Request) (result *Analysis, err error) {
	start := s.now()
	defer func() {
		if r := recover(); r != nil {
			logging.Error().
				Interface("panic", r).
				Str("title", req.Title).
				Str("artist", req.Artist).
				Msg("Mood analysis panicked")
			result = nil
			err = resilience.NewInternalError(fmt.Errorf("panic: %v", r))
		}
		outcome := "success"
		if err != nil {
			outcome = "failure"
		}
		metrics.AnalysisRequests.WithLabelValues(outcome).Inc()
		metrics.AnalysisDuration.Observe(time.Since(start).Seconds())
	}()

	meta := s.lookupMetadata(ctx, req)
	lyrics := resolveLyrics(req, meta)
	detected := s.language.Detect(ctx, lyrics)

	analysis, err := s.analyzer.Analyze(ctx, req.Title, req.Artist, lyrics)
	if err != nil {
		var se *resilience.ServiceError
		if !errors.As(err, &se) {
			err = resilience.NewInternalError(err)
		}
		return nil, err
	}

	candidates := make([]string, 0, 16)
	candidates = append(candidates, analysis.Tags...)
	sentimentLabels := SentimentLabels(analysis.Score.Valence, analysis.Score.Arousal)
	candidates = append(candidates, sentimentLabels...)
	candidates = append(candidates, s.tags.Suggest(
		ctx,
		req.Title,
		req.Artist,
		lyrics,
		analysis.Score.Valence,
		analysis.Score.Arousal,
		analysis.Profane,
		detected.Code,
	)...)

	valence := RoundScore(analysis.Score.Valence)
	arousal := RoundScore(analysis.Score.Arousal)
	label := BuildLabel(valence, arousal)
	if len(sentimentLabels) > 0 {
		label = CompositeLabel(sentimentLabels)
	}
	if strings.TrimSpace(analysis.Label) != "" {
		candidates = append(candidates, analysis.Label)
	}

	lang := analysis.Lang
	if strings.TrimSpace(lang) == "" {
		lang = detected.Code
	}
	country := ResolveCountry(meta, lyrics, lang)
	if meta != nil {
		candidates = EnrichWithMetadata(candidates, meta, country)
	} else if country != "" {
		candidates = append(candidates, country)
	}

	genres := ExtractGenres(meta, candidates, lang)
	tags := NormalizeTags(candidates, req)

	var releaseDate *time.Time
	if meta != nil {
		releaseDate = meta.ReleaseDate
	}

	key, tempo, acousticMood := s.lookupAcoustic(ctx, meta)

	highlights := buildHighlights(
		analysis,
		valence,
		arousal,
		detected,
		releaseDate,
		country,
		genres,
		key,
		tempo,
		acousticMood,
	)

	result = &Analysis{
		Title:      req.Title,
		Artist:     req.Artist,
		Label:      label,
		Lang:       lang,
		Profane:    analysis.Profane,
		Valence:    valence,
		Arousal:    arousal,
		Tags:       tags,
		Genres:     genres,
		Key:        key,
		Tempo:      tempo,
		Mood:       acousticMood,
		Lyrics:     lyrics,
		Highlights: highlights,
		Toxicity:   []Prediction{},
		Emotions:   []Prediction{},
	}
	if releaseDate != nil {
		result.ReleaseDate = releaseDate.Format("2006-01-02")
	}

	s.persist(ctx, result, lyrics, detected.Confidence, meta, country)
	return result, nil
}

// lookupMetadata resolves recording metadata, treating every failure as
// absence.
func (s *Service) lookupMetadata(ctx context.Context, req Request) *Metadata {
	meta, err := s.metadata.Lookup(ctx, req.Title, req.Artist)
	if err != nil {
		logging.Warn().
			Err(err).
			Str("title", req.Title).
			Str("artist", req.Artist).
			Msg("Metadata lookup unavailable, continuing without metadata")
		return nil
	}
	return meta
}

// lookupAcoustic fetches the acoustic profile when a recording id is
// known. Failures are swallowed.
func (s *Service) lookupAcoustic(ctx context.Context, meta *Metadata) (string, *float64, string) {
	if meta == nil || strings.TrimSpace(meta.RecordingID) == "" {
		return "", nil, ""
	}
	profile, err := s.acoustic.Profile(ctx, meta.RecordingID)
	if err != nil {
		logging.Debug().
			Err(err).
			Str("recording_id", meta.RecordingID).
			Msg("Acoustic profile unavailable")
		return "", nil, ""
	}
	if profile == nil {
		return "", nil, ""
	}
	return profile.Key, profile.Tempo, profile.Mood
}

// resolveLyrics picks the text to analyze: request lyrics, then the
// metadata annotation, then "title artist".
func resolveLyrics(req Request, meta *Metadata) string {
	if strings.TrimSpace(req.Lyrics) != "" {
		return strings.TrimSpace(req.Lyrics)
	}
	if meta != nil && strings.TrimSpace(meta.Annotation) != "" {
		return meta.Annotation
	}
	return strings.TrimSpace(req.Title + " " + req.Artist)
}

// persist stores the audit record. Failure is logged and counted only.
func (s *Service) persist(ctx context.Context, a *Analysis, lyrics string, langConfidence float64, meta *Metadata, country string) {
	rec := &audit.Record{
		ID:                 uuid.NewString(),
		Title:              a.Title,
		Artist:             a.Artist,
		Label:              a.Label,
		Lang:               a.Lang,
		Profane:            a.Profane,
		Valence:            a.Valence,
		Arousal:            a.Arousal,
		LyricsLength:       utf8.RuneCountInString(lyrics),
		LanguageConfidence: langConfidence,
		ReleaseDate:        a.ReleaseDate,
		ReleaseCountry:     country,
		Tags:               a.Tags,
		Genres:             a.Genres,
		AcousticKey:        a.Key,
		AcousticTempo:      a.Tempo,
		AcousticMood:       a.Mood,
		Lyrics:             a.Lyrics,
		Highlights:         a.Highlights,
		LyricsDigest:       DigestLyrics(lyrics),
		CreatedAt:          s.now(),
	}
	if meta != nil {
		rec.RecordingID = meta.RecordingID
		if country == "" {
			rec.ReleaseCountry = meta.ReleaseCountry
		}
	}

	if err := s.store.Save(ctx, rec); err != nil {
		metrics.AuditSaveFailures.Inc()
		logging.Warn().
			Err(err).
			Str("title", a.Title).
			Str("artist", a.Artist).
			Msg("Failed to persist analysis record")
	}
}
