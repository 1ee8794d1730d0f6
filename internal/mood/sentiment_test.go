// Lyrimood - Song Mood Profile Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrimood

package mood

import (
	"reflect"
	"testing"
)

func TestRoundScore(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0.81256, 0.813},
		{0.3324, 0.332},
		{0.5, 0.5},
		{0.0005, 0.001},
		{0, 0},
		{1, 1},
	}
	for _, tt := range tests {
		if got := RoundScore(tt.in); got != tt.want {
			t.Errorf("RoundScore(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRoundScoreIsIdempotent(t *testing.T) {
	for _, v := range []float64{0.81256, 0.3324, 0.123456, 0.999999} {
		once := RoundScore(v)
		if twice := RoundScore(once); twice != once {
			t.Errorf("RoundScore not idempotent for %v: %v then %v", v, once, twice)
		}
	}
}

func TestBuildLabel(t *testing.T) {
	tests := []struct {
		valence, arousal float64
		want             string
	}{
		{0.8, 0.8, "Bright · Energetic"},
		{0.8, 0.2, "Bright · Calm"},
		{0.2, 0.8, "Dark · Energetic"},
		{0.2, 0.2, "Dark · Calm"},
		{0.5, 0.5, "Dark · Calm"}, // strict thresholds
	}
	for _, tt := range tests {
		if got := BuildLabel(tt.valence, tt.arousal); got != tt.want {
			t.Errorf("BuildLabel(%v, %v) = %q, want %q", tt.valence, tt.arousal, got, tt.want)
		}
	}
}

func TestSentimentLabels(t *testing.T) {
	tests := []struct {
		name             string
		valence, arousal float64
		want             []string
	}{
		{"bright calm", 0.81256, 0.3324, []string{"bright", "calm"}},
		{"bright energetic uplifting", 0.8, 0.8, []string{"bright", "energetic", "uplifting"}},
		{"somber calm melancholic", 0.2, 0.2, []string{"somber", "calm", "melancholic"}},
		{"inclusive thresholds", 0.65, 0.35, []string{"bright", "calm"}},
		{"both quadrants at center", 0.5, 0.5, []string{"uplifting", "melancholic"}},
		{"neutral falls back to coarse label", 0.45, 0.55, []string{"dark · energetic"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SentimentLabels(tt.valence, tt.arousal); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SentimentLabels(%v, %v) = %v, want %v", tt.valence, tt.arousal, got, tt.want)
			}
		})
	}
}

func TestSentimentLabelsNeverEmpty(t *testing.T) {
	for _, v := range []float64{0, 0.25, 0.4, 0.5, 0.6, 0.75, 1} {
		for _, a := range []float64{0, 0.25, 0.4, 0.5, 0.6, 0.75, 1} {
			got := SentimentLabels(v, a)
			if len(got) == 0 {
				t.Errorf("SentimentLabels(%v, %v) returned no labels", v, a)
			}
			if len(got) > 4 {
				t.Errorf("SentimentLabels(%v, %v) exceeds cap: %v", v, a, got)
			}
		}
	}
}

func TestCompositeLabel(t *testing.T) {
	got := CompositeLabel([]string{"bright", "calm"})
	if got != "Bright · Calm" {
		t.Errorf("CompositeLabel = %q, want %q", got, "Bright · Calm")
	}

	capped := CompositeLabel([]string{"one", "two", "three", "four", "five"})
	if capped != "One · Two · Three · Four" {
		t.Errorf("CompositeLabel cap = %q", capped)
	}
}

func TestCapitalize(t *testing.T) {
	tests := []struct{ in, want string }{
		{"bright", "Bright"},
		{"BRIGHT", "Bright"},
		{"k-pop", "K-pop"},
		{"", ""},
		{"  ", "  "},
	}
	for _, tt := range tests {
		if got := capitalize(tt.in); got != tt.want {
			t.Errorf("capitalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestClamp(t *testing.T) {
	if Clamp(-0.3) != 0 || Clamp(1.7) != 1 || Clamp(0.4) != 0.4 {
		t.Error("Clamp bounds are wrong")
	}
}

func TestValenceFromDistribution(t *testing.T) {
	dist := map[string]float64{"happiness": 1}
	if got := ValenceFromDistribution(dist); got != 0.90 {
		t.Errorf("valence = %v, want 0.90", got)
	}

	// "joy" substitutes for a missing "happiness".
	joy := map[string]float64{"joy": 1}
	if got := ValenceFromDistribution(joy); got != 0.90 {
		t.Errorf("valence via joy = %v, want 0.90", got)
	}

	sad := map[string]float64{"sadness": 1}
	if got := ValenceFromDistribution(sad); got != -0.85 {
		t.Errorf("valence via sadness = %v, want -0.85", got)
	}
}

func TestArousalFromDistribution(t *testing.T) {
	angry := map[string]float64{"anger": 1}
	if got := ArousalFromDistribution(angry); got != 0.82 {
		t.Errorf("arousal via anger = %v, want 0.82", got)
	}

	// "neutral" substitutes for a missing "disgust".
	neutral := map[string]float64{"neutral": 1}
	if got := ArousalFromDistribution(neutral); got != -0.35 {
		t.Errorf("arousal via neutral = %v, want -0.35", got)
	}
}
