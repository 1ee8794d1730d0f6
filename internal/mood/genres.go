// Lyrimood - Song Mood Profile Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrimood

package mood

import "strings"

const genreCap = 4

var genreKeywords = []string{
	"pop", "rock", "hip", "ballad", "jazz", "classical", "indie", "folk",
	"metal", "dance", "soul", "rap", "electro", "r&b", "blues", "country",
	"alternative", "k-pop", "j-pop", "c-pop", "edm",
}

// ExtractGenres resolves up to four title-cased genres with precedence:
// metadata tags, then genre-looking tag candidates, then a per-language
// default. Returns an empty slice when no source applies.
func ExtractGenres(meta *Metadata, tags []string, lang string) []string {
	var genres []string
	if meta != nil {
		for _, tag := range meta.Tags {
			if trimmed := strings.TrimSpace(tag); trimmed != "" {
				genres = append(genres, trimmed)
			}
		}
	}
	if len(genres) == 0 {
		for _, tag := range tags {
			if strings.TrimSpace(tag) == "" {
				continue
			}
			lower := strings.ToLower(tag)
			if looksLikeGenre(lower) {
				genres = append(genres, lower)
			}
		}
	}
	if len(genres) == 0 && strings.TrimSpace(lang) != "" {
		switch strings.ToLower(lang) {
		case "ko":
			genres = append(genres, "k-pop")
		case "ja":
			genres = append(genres, "j-pop")
		case "zh", "zh-cn", "zh-hans":
			genres = append(genres, "c-pop")
		case "es":
			genres = append(genres, "latin pop")
		case "en":
			genres = append(genres, "pop")
		}
	}

	seen := make(map[string]struct{}, len(genres))
	out := make([]string, 0, genreCap)
	for _, genre := range genres {
		if strings.TrimSpace(genre) == "" {
			continue
		}
		formatted := FormatGenre(genre)
		if _, dup := seen[formatted]; dup {
			continue
		}
		seen[formatted] = struct{}{}
		out = append(out, formatted)
		if len(out) == genreCap {
			break
		}
	}
	return out
}

func looksLikeGenre(tag string) bool {
	lower := strings.ToLower(tag)
	for _, kw := range genreKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// FormatGenre title-cases a genre name, treating hyphens and underscores
// as word separators: "k-pop" becomes "K Pop", "latin pop" "Latin Pop".
func FormatGenre(value string) string {
	normalized := strings.ToLower(value)
	normalized = strings.ReplaceAll(normalized, "_", " ")
	normalized = strings.ReplaceAll(normalized, "-", " ")
	normalized = strings.TrimSpace(normalized)
	if normalized == "" {
		return value
	}
	words := strings.Fields(normalized)
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}
