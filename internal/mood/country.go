// Lyrimood - Song Mood Profile Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrimood

package mood

import (
	"strings"
	"unicode"
)

// Script ranges used for country inference from lyric text. Hangul
// covers compatibility jamo plus precomposed syllables; the Japanese
// range spans kana and the common CJK ideograph block.
var (
	hangulScript = &unicode.RangeTable{R16: []unicode.Range16{
		{Lo: 0x3131, Hi: 0x318E, Stride: 1},
		{Lo: 0xAC00, Hi: 0xD7A3, Stride: 1},
	}}
	japaneseScript = &unicode.RangeTable{R16: []unicode.Range16{
		{Lo: 0x3040, Hi: 0x30FF, Stride: 1},
		{Lo: 0x4E00, Hi: 0x9FBF, Stride: 1},
	}}
	cyrillicScript = &unicode.RangeTable{R16: []unicode.Range16{
		{Lo: 0x0400, Hi: 0x04FF, Stride: 1},
	}}
)

func containsScript(s string, table *unicode.RangeTable) bool {
	for _, r := range s {
		if unicode.Is(table, r) {
			return true
		}
	}
	return false
}

// ResolveCountry infers an uppercase ISO country code with precedence
// metadata release country, then language mapping, then lyric script.
// Returns "" when nothing applies.
func ResolveCountry(meta *Metadata, lyrics, lang string) string {
	if meta != nil && strings.TrimSpace(meta.ReleaseCountry) != "" {
		return strings.ToUpper(meta.ReleaseCountry)
	}
	if strings.TrimSpace(lang) != "" {
		if mapped := languageToCountry(lang); mapped != "" {
			return mapped
		}
	}
	if strings.TrimSpace(lyrics) != "" {
		switch {
		case containsScript(lyrics, hangulScript):
			return "KR"
		case containsScript(lyrics, japaneseScript):
			return "JP"
		case containsScript(lyrics, cyrillicScript):
			return "RU"
		}
	}
	return ""
}

func languageToCountry(lang string) string {
	switch strings.ToLower(lang) {
	case "ko":
		return "KR"
	case "ja":
		return "JP"
	case "zh", "zh-cn", "zh-hans":
		return "CN"
	case "zh-tw", "zh-hant":
		return "TW"
	case "es":
		return "ES"
	case "fr":
		return "FR"
	case "de":
		return "DE"
	case "it":
		return "IT"
	case "ru":
		return "RU"
	case "pt":
		return "PT"
	case "en":
		return "US"
	default:
		return ""
	}
}
