// Lyrimood - Song Mood Profile Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrimood

package sources

import (
	"context"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/tomtom215/lyrimood/internal/mood"
)

// Script ranges for local language detection. The Hangul table is wider
// than the one used for country inference: it includes jamo and the
// extended blocks so partially composed input still detects as Korean.
var (
	hangulDetect = &unicode.RangeTable{R16: []unicode.Range16{
		{Lo: 0x1100, Hi: 0x11FF, Stride: 1},
		{Lo: 0x302E, Hi: 0x302F, Stride: 1},
		{Lo: 0x3130, Hi: 0x318F, Stride: 1},
		{Lo: 0xA960, Hi: 0xA97F, Stride: 1},
		{Lo: 0xAC00, Hi: 0xD7A3, Stride: 1},
		{Lo: 0xD7B0, Hi: 0xD7FF, Stride: 1},
	}}
	japaneseDetect = &unicode.RangeTable{R16: []unicode.Range16{
		{Lo: 0x3040, Hi: 0x30FF, Stride: 1},
		{Lo: 0x4E00, Hi: 0x9FBF, Stride: 1},
	}}
)

const spanishMarkers = "ñáéíóúü"

// ScriptLanguageDetector infers the language from the script of the
// text alone. It is pure local computation and never fails, which makes
// it both the default detector and the degradation target for the
// remote one.
type ScriptLanguageDetector struct{}

// NewScriptLanguageDetector creates the local detector.
func NewScriptLanguageDetector() *ScriptLanguageDetector {
	return &ScriptLanguageDetector{}
}

// Detect identifies the dominant script. Unrecognizable input degrades
// to {"und", 0}.
func (d *ScriptLanguageDetector) Detect(_ context.Context, text string) mood.LanguageDetection {
	normalized := normalizeNFC(text)
	if strings.TrimSpace(normalized) == "" {
		return mood.LanguageDetection{Code: "und", Confidence: 0}
	}

	switch {
	case containsAny(normalized, hangulDetect):
		return mood.LanguageDetection{Code: "ko", Confidence: 0.94}
	case containsAny(normalized, japaneseDetect):
		return mood.LanguageDetection{Code: "ja", Confidence: 0.91}
	case strings.ContainsAny(normalized, spanishMarkers):
		return mood.LanguageDetection{Code: "es", Confidence: 0.88}
	}

	if !containsLetter(normalized) {
		return mood.LanguageDetection{Code: "und", Confidence: 0.2}
	}
	return mood.LanguageDetection{Code: "en", Confidence: 0.6}
}

func normalizeNFC(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	return norm.NFC.String(text)
}

func containsAny(s string, table *unicode.RangeTable) bool {
	for _, r := range s {
		if unicode.Is(table, r) {
			return true
		}
	}
	return false
}

func containsLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
