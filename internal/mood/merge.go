// Lyrimood - Song Mood Profile Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrimood

package mood

import "strings"

const (
	enrichedTagMaxLen = 24
	enrichedTagCap    = 8
	finalTagMaxLen    = 32
	finalTagCap       = 6
	metadataTagCap    = 3
)

// EnrichWithMetadata appends metadata-derived tags to the candidate list:
// a year-YYYY tag, the uppercase resolved country and up to three
// hyphenated metadata tags. Entries are truncated to 24 characters and
// deduplicated case-sensitively, keeping the first 8. The final
// case-insensitive pass happens later in NormalizeTags.
func EnrichWithMetadata(candidates []string, meta *Metadata, resolvedCountry string) []string {
	enriched := make([]string, 0, len(candidates)+metadataTagCap+2)
	enriched = append(enriched, candidates...)

	if meta.ReleaseDate != nil {
		enriched = append(enriched, "year-"+meta.ReleaseDate.Format("2006"))
	}
	country := resolvedCountry
	if strings.TrimSpace(country) == "" {
		country = meta.ReleaseCountry
	}
	if strings.TrimSpace(country) != "" {
		enriched = append(enriched, strings.ToUpper(country))
	}
	for i, tag := range meta.Tags {
		if i == metadataTagCap {
			break
		}
		enriched = append(enriched, strings.ReplaceAll(tag, " ", "-"))
	}

	seen := make(map[string]struct{}, len(enriched))
	out := make([]string, 0, enrichedTagCap)
	for _, tag := range enriched {
		if strings.TrimSpace(tag) == "" {
			continue
		}
		tag = truncateRunes(tag, enrichedTagMaxLen)
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
		if len(out) == enrichedTagCap {
			break
		}
	}
	return out
}

// NormalizeTags produces the final tag list: trimmed, truncated to 32
// characters, deduplicated case-insensitively keeping the first spelling
// seen, with the request's title and artist dropped, capped at 6.
func NormalizeTags(candidates []string, req Request) []string {
	seen := make(map[string]struct{}, len(candidates))
	ordered := make([]string, 0, len(candidates))
	for _, tag := range candidates {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" {
			continue
		}
		trimmed = truncateRunes(trimmed, finalTagMaxLen)
		key := strings.ToLower(trimmed)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		ordered = append(ordered, trimmed)
	}

	title := strings.ToLower(strings.TrimSpace(req.Title))
	artist := strings.ToLower(strings.TrimSpace(req.Artist))
	out := make([]string, 0, finalTagCap)
	for _, tag := range ordered {
		lower := strings.ToLower(tag)
		if (title != "" && lower == title) || (artist != "" && lower == artist) {
			continue
		}
		out = append(out, tag)
		if len(out) == finalTagCap {
			break
		}
	}
	return out
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
