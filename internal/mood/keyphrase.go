// Lyrimood - Song Mood Profile Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrimood

package mood

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Multilingual stop words dropped during keyphrase extraction. Includes
// common song-structure markers and Korean function words.
var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "you": {}, "with": {}, "from": {}, "that": {},
	"this": {}, "have": {}, "into": {}, "they": {}, "your": {},
	"about": {}, "over": {}, "under": {}, "when": {}, "where": {},
	"there": {}, "their": {}, "ours": {}, "like": {}, "just": {},
	"cause": {}, "never": {}, "ever": {}, "again": {}, "chorus": {},
	"verse": {}, "repeat": {}, "한": {}, "그": {}, "저": {}, "우리": {},
	"너": {}, "나는": {}, "그리고": {}, "그래도": {}, "하지만": {},
	"지난": {}, "오늘": {}, "내일": {},
}

// ExtractKeyphrases returns the most frequent meaningful tokens across
// title, artist and lyrics, lowercased, ranked by frequency descending
// with ties broken lexicographically. Tokens of two runes or fewer and
// stop words are dropped.
func ExtractKeyphrases(title, artist, lyrics string, limit int) []string {
	if limit <= 0 {
		return nil
	}
	var b strings.Builder
	for _, part := range []string{title, artist} {
		if strings.TrimSpace(part) != "" {
			b.WriteString(part)
			b.WriteByte(' ')
		}
	}
	if strings.TrimSpace(lyrics) != "" {
		b.WriteString(lyrics)
	}
	aggregated := b.String()
	if strings.TrimSpace(aggregated) == "" {
		return nil
	}

	tokens := strings.FieldsFunc(strings.ToLower(aggregated), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	frequencies := make(map[string]int)
	for _, token := range tokens {
		if !validToken(token) {
			continue
		}
		frequencies[token]++
	}

	ranked := make([]string, 0, len(frequencies))
	for token := range frequencies {
		ranked = append(ranked, token)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if frequencies[ranked[i]] != frequencies[ranked[j]] {
			return frequencies[ranked[i]] > frequencies[ranked[j]]
		}
		return ranked[i] < ranked[j]
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func validToken(token string) bool {
	if utf8.RuneCountInString(token) <= 2 {
		return false
	}
	_, stop := stopWords[token]
	return !stop
}
