// Lyrimood - Song Mood Profile Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrimood

package sources

import (
	"context"
	"testing"
)

func TestLocalTagSuggesterBaseTags(t *testing.T) {
	s := NewLocalTagSuggester(testExecutor("tag"))
	got := s.Suggest(context.Background(), "", "", "", 0.8, 0.2, false, "en")

	want := map[string]bool{"bright": true, "calm": true, "en": true, "clean": true}
	for _, tag := range got {
		delete(want, tag)
	}
	if len(want) != 0 {
		t.Errorf("missing base tags %v in %v", want, got)
	}
}

func TestLocalTagSuggesterExplicitAndUnknownLang(t *testing.T) {
	s := NewLocalTagSuggester(testExecutor("tag"))
	got := s.Suggest(context.Background(), "", "", "", 0.2, 0.8, true, "")

	expected := []string{"dark", "energetic", "und", "explicit"}
	for _, want := range expected {
		found := false
		for _, tag := range got {
			if tag == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("tags %v missing %q", got, want)
		}
	}
}

func TestLocalTagSuggesterIncludesKeyphrases(t *testing.T) {
	s := NewLocalTagSuggester(testExecutor("tag"))
	got := s.Suggest(context.Background(), "Midnight", "Runner", "midnight lights midnight", 0.6, 0.6, false, "en")

	found := false
	for _, tag := range got {
		if tag == "midnight" {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("tags %v missing keyphrase midnight", got)
	}
}

func TestLocalTagSuggesterCapsAtEight(t *testing.T) {
	s := NewLocalTagSuggester(testExecutor("tag"))
	lyrics := "alpha bravo charlie delta echo foxtrot golf hotel india juliet"
	got := s.Suggest(context.Background(), "", "", lyrics, 0.6, 0.6, false, "en")

	if len(got) > 8 {
		t.Errorf("tags = %v, want at most 8", got)
	}
	if len(got) < 3 {
		t.Errorf("tags = %v, want at least 3", got)
	}
}
