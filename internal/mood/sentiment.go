// Lyrimood - Song Mood Profile Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrimood

package mood

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"
)

const labelSeparator = " · "

// RoundScore rounds a sentiment score half-up to three decimals.
func RoundScore(v float64) float64 {
	return math.Floor(v*1000+0.5) / 1000
}

// Clamp confines a score to [0, 1]. NaN maps to the neutral 0.5.
func Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return 0.5
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// BuildLabel is the coarse two-axis label used when no finer sentiment
// labels apply.
func BuildLabel(valence, arousal float64) string {
	valenceLabel := "Dark"
	if valence > 0.5 {
		valenceLabel = "Bright"
	}
	arousalLabel := "Calm"
	if arousal > 0.5 {
		arousalLabel = "Energetic"
	}
	return valenceLabel + labelSeparator + arousalLabel
}

// SentimentLabels derives lowercase mood labels from the valence/arousal
// pair. Thresholds are inclusive at 0.65 and 0.35; the 0.5 quadrants add
// "uplifting" and "melancholic". The result is never empty: when nothing
// matched, the lowercased coarse label is the sole entry. Capped at 4.
func SentimentLabels(valence, arousal float64) []string {
	var labels []string
	if valence >= 0.65 {
		labels = append(labels, "bright")
	} else if valence <= 0.35 {
		labels = append(labels, "somber")
	}
	if arousal >= 0.65 {
		labels = append(labels, "energetic")
	} else if arousal <= 0.35 {
		labels = append(labels, "calm")
	}
	if valence >= 0.5 && arousal >= 0.5 {
		labels = append(labels, "uplifting")
	}
	if valence <= 0.5 && arousal <= 0.5 {
		labels = append(labels, "melancholic")
	}
	if len(labels) == 0 {
		labels = append(labels, strings.ToLower(BuildLabel(valence, arousal)))
	}

	seen := make(map[string]struct{}, len(labels))
	out := labels[:0]
	for _, l := range labels {
		if _, dup := seen[l]; dup {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
		if len(out) == 4 {
			break
		}
	}
	return out
}

// CompositeLabel joins up to four capitalized sentiment labels into the
// display label.
func CompositeLabel(labels []string) string {
	parts := make([]string, 0, 4)
	for _, l := range labels {
		parts = append(parts, capitalize(l))
		if len(parts) == 4 {
			break
		}
	}
	return strings.Join(parts, labelSeparator)
}

// capitalize lowercases the whole word and uppercases its first rune.
func capitalize(s string) string {
	if strings.TrimSpace(s) == "" {
		return s
	}
	lower := strings.ToLower(s)
	r, size := utf8.DecodeRuneInString(lower)
	return string(unicode.ToUpper(r)) + lower[size:]
}

// ValenceFromDistribution projects an emotion probability distribution
// onto the valence axis. "joy" substitutes for a missing "happiness",
// "neutral" for a missing "disgust".
func ValenceFromDistribution(dist map[string]float64) float64 {
	happiness := orDefault(dist, "happiness", dist["joy"])
	disgust := orDefault(dist, "disgust", dist["neutral"])
	return 0.90*happiness +
		0.55*dist["surprise"] -
		0.85*dist["sadness"] -
		0.80*dist["anger"] -
		0.75*dist["fear"] -
		0.80*disgust
}

// ArousalFromDistribution projects an emotion probability distribution
// onto the arousal axis.
func ArousalFromDistribution(dist map[string]float64) float64 {
	happiness := orDefault(dist, "happiness", dist["joy"])
	disgust := orDefault(dist, "disgust", dist["neutral"])
	return 0.82*dist["anger"] +
		0.78*dist["fear"] +
		0.70*dist["surprise"] +
		0.55*happiness -
		0.40*dist["sadness"] -
		0.35*disgust
}

func orDefault(dist map[string]float64, key string, fallback float64) float64 {
	if v, ok := dist[key]; ok {
		return v
	}
	return fallback
}
