// Lyrimood - Song Mood Profile Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrimood

package sources

import (
	"context"
	"strings"

	"github.com/tomtom215/lyrimood/internal/logging"
	"github.com/tomtom215/lyrimood/internal/mood"
	"github.com/tomtom215/lyrimood/internal/resilience"
)

const maxSuggestedTags = 8

// LocalTagSuggester derives auxiliary tags from the sentiment scores
// and the lyric keyphrases. It is local computation but still runs
// under the "tag" executor policy so a future remote implementation
// inherits the same budget; any failure yields no tags.
type LocalTagSuggester struct {
	executor *resilience.Executor
}

// NewLocalTagSuggester creates the tag suggester.
func NewLocalTagSuggester(executor *resilience.Executor) *LocalTagSuggester {
	return &LocalTagSuggester{executor: executor}
}

// Suggest proposes up to eight lowercase tags. Best effort only.
func (s *LocalTagSuggester) Suggest(ctx context.Context, title, artist, lyrics string, valence, arousal float64, profane bool, lang string) []string {
	result, err := s.executor.Do(ctx, "tag", func(context.Context) (any, error) {
		return suggestTags(title, artist, lyrics, valence, arousal, profane, lang), nil
	})
	if err != nil {
		logging.Warn().Err(err).Msg("Tag suggestion unavailable")
		return nil
	}
	tags, castErr := resilience.As[[]string](result, nil)
	if castErr != nil {
		return nil
	}
	return tags
}

func suggestTags(title, artist, lyrics string, valence, arousal float64, profane bool, lang string) []string {
	seen := make(map[string]struct{})
	var tags []string
	add := func(tag string) {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			return
		}
		if _, dup := seen[tag]; dup {
			return
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}

	if valence > 0.5 {
		add("bright")
	} else {
		add("dark")
	}
	if arousal > 0.5 {
		add("energetic")
	} else {
		add("calm")
	}
	if strings.TrimSpace(lang) != "" {
		add(lang)
	} else {
		add("und")
	}
	if profane {
		add("explicit")
	} else {
		add("clean")
	}

	for _, phrase := range mood.ExtractKeyphrases(title, artist, lyrics, maxSuggestedTags) {
		add(phrase)
	}

	if len(tags) < 3 {
		add("mood")
		add("atmospheric")
	}

	out := make([]string, 0, maxSuggestedTags)
	for _, tag := range tags {
		out = append(out, truncateTag(tag))
		if len(out) == maxSuggestedTags {
			break
		}
	}
	return out
}

func truncateTag(tag string) string {
	const max = 32
	runes := []rune(tag)
	if len(runes) <= max {
		return tag
	}
	return string(runes[:max])
}
