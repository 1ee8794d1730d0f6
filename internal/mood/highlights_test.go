// Lyrimood - Song Mood Profile Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrimood

package mood

import (
	"strings"
	"testing"
	"time"
)

func TestBuildHighlightsFullProfile(t *testing.T) {
	tempo := 128.5
	analysis := LyricAnalysis{
		Profane:          true,
		Summary:          "여름밤의 설렘을 노래합니다",
		PositiveEvidence: []string{"빛나는", "웃음"},
		NegativeEvidence: []string{"눈물"},
	}

	got := buildHighlights(
		analysis,
		0.813, 0.332,
		LanguageDetection{Code: "ko", Confidence: 0.94},
		date(2016, time.September, 1),
		"KR",
		[]string{"K Pop"},
		"F minor",
		&tempo,
		"happy",
	)

	want := []string{
		"감정 해석: 매우 밝고 차분한 분위기 (valence 0.813 / arousal 0.332).",
		"AI 요약: 여름밤의 설렘을 노래합니다",
		"밝은 분위기를 만든 표현: 빛나는, 웃음",
		"분위기를 가라앉힌 표현: 눈물",
		"비속어가 포함되어 'Explicit'로 분류했습니다.",
		"주요 언어는 KO (신뢰도 0.94)로 추정됩니다.",
		"AI가 추정한 장르: K Pop",
		"어쿠스틱 프로파일: 템포 128.5 BPM, 음계 F minor, 느껴지는 분위기 happy",
		"발매 정보: 2016-09-01 · KR",
	}
	if len(got) != len(want) {
		t.Fatalf("highlights = %v, want %d lines", got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("highlight[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestBuildHighlightsMinimalProfile(t *testing.T) {
	got := buildHighlights(
		LyricAnalysis{},
		0.5, 0.5,
		LanguageDetection{},
		nil,
		"",
		nil,
		"",
		nil,
		"",
	)

	if len(got) != 1 {
		t.Fatalf("highlights = %v, want only the emotion line", got)
	}
	if !strings.HasPrefix(got[0], "감정 해석: 중간 밝기로 보통 에너지의 분위기") {
		t.Errorf("emotion line = %q", got[0])
	}
}

func TestBuildHighlightsOmitsZeroConfidence(t *testing.T) {
	got := buildHighlights(
		LyricAnalysis{},
		0.5, 0.5,
		LanguageDetection{Code: "und", Confidence: 0},
		nil, "", nil, "", nil, "",
	)
	if len(got) != 2 {
		t.Fatalf("highlights = %v, want 2 lines", got)
	}
	if got[1] != "주요 언어는 UND로 추정됩니다." {
		t.Errorf("language line = %q", got[1])
	}
}
