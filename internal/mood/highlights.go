// Lyrimood - Song Mood Profile Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrimood

package mood

import (
	"fmt"
	"strings"
	"time"
)

// buildHighlights assembles the Korean-language explanation lines shown
// alongside the profile. Every line is optional except the emotion
// interpretation; the ordering is fixed.
func buildHighlights(
	analysis LyricAnalysis,
	valence, arousal float64,
	detected LanguageDetection,
	releaseDate *time.Time,
	country string,
	genres []string,
	key string,
	tempo *float64,
	acousticMood string,
) []string {
	highlights := []string{describeEmotion(valence, arousal)}

	if strings.TrimSpace(analysis.Summary) != "" {
		highlights = append(highlights, "AI 요약: "+analysis.Summary)
	}
	if len(analysis.PositiveEvidence) > 0 {
		highlights = append(highlights, "밝은 분위기를 만든 표현: "+strings.Join(analysis.PositiveEvidence, ", "))
	}
	if len(analysis.NegativeEvidence) > 0 {
		highlights = append(highlights, "분위기를 가라앉힌 표현: "+strings.Join(analysis.NegativeEvidence, ", "))
	}
	if analysis.Profane {
		highlights = append(highlights, "비속어가 포함되어 'Explicit'로 분류했습니다.")
	}

	if strings.TrimSpace(detected.Code) != "" {
		var b strings.Builder
		b.WriteString("주요 언어는 ")
		b.WriteString(strings.ToUpper(detected.Code))
		if detected.Confidence > 0 {
			fmt.Fprintf(&b, " (신뢰도 %.2f)", detected.Confidence)
		}
		b.WriteString("로 추정됩니다.")
		highlights = append(highlights, b.String())
	}

	if len(genres) > 0 {
		highlights = append(highlights, "AI가 추정한 장르: "+strings.Join(genres, ", "))
	}

	var acoustic []string
	if tempo != nil {
		acoustic = append(acoustic, fmt.Sprintf("템포 %.1f BPM", *tempo))
	}
	if strings.TrimSpace(key) != "" {
		acoustic = append(acoustic, "음계 "+key)
	}
	if strings.TrimSpace(acousticMood) != "" {
		acoustic = append(acoustic, "느껴지는 분위기 "+acousticMood)
	}
	if len(acoustic) > 0 {
		highlights = append(highlights, "어쿠스틱 프로파일: "+strings.Join(acoustic, ", "))
	}

	if releaseDate != nil || strings.TrimSpace(country) != "" {
		var b strings.Builder
		b.WriteString("발매 정보: ")
		if releaseDate != nil {
			b.WriteString(releaseDate.Format("2006-01-02"))
		}
		if strings.TrimSpace(country) != "" {
			if releaseDate != nil {
				b.WriteString(labelSeparator)
			}
			b.WriteString(strings.ToUpper(country))
		}
		highlights = append(highlights, b.String())
	}

	return highlights
}

func describeEmotion(valence, arousal float64) string {
	tone := "중간 밝기로"
	if valence >= 0.65 {
		tone = "매우 밝고"
	} else if valence <= 0.35 {
		tone = "어두우며"
	}
	energy := "보통 에너지의"
	if arousal >= 0.65 {
		energy = "에너지가 높은"
	} else if arousal <= 0.35 {
		energy = "차분한"
	}
	return fmt.Sprintf("감정 해석: %s %s 분위기 (valence %.3f / arousal %.3f).", tone, energy, valence, arousal)
}
