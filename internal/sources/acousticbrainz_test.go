// Lyrimood - Song Mood Profile Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrimood

package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAcousticBrainzProfileWrappedValues(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/mbid-1/high-level" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{
			"rhythm": {"bpm": {"value": 128.5}},
			"tonal": {"key_key": {"value": "F"}},
			"mood": {
				"mood_happy": {"probability": 0.8, "value": "happy"},
				"mood_sad": {"probability": 0.3, "value": "sad"}
			}
		}`))
	}))
	defer server.Close()

	client := NewAcousticBrainzClient(serviceConfig(server.URL), testExecutor("acousticbrainz"))
	profile, err := client.Profile(context.Background(), "mbid-1")
	if err != nil {
		t.Fatalf("Profile failed: %v", err)
	}
	if profile == nil {
		t.Fatal("expected profile")
	}
	if profile.Tempo == nil || *profile.Tempo != 128.5 {
		t.Errorf("tempo = %v", profile.Tempo)
	}
	if profile.Key != "F" {
		t.Errorf("key = %q", profile.Key)
	}
	if profile.Mood != "happy" {
		t.Errorf("mood = %q", profile.Mood)
	}
}

func TestAcousticBrainzProfileScalarValues(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"rhythm": {"bpm": 95},
			"tonal": {"key_key": "Am"},
			"mood": {"value": "relaxed"}
		}`))
	}))
	defer server.Close()

	client := NewAcousticBrainzClient(serviceConfig(server.URL), testExecutor("acousticbrainz"))
	profile, err := client.Profile(context.Background(), "mbid-2")
	if err != nil {
		t.Fatalf("Profile failed: %v", err)
	}
	if profile.Tempo == nil || *profile.Tempo != 95 {
		t.Errorf("tempo = %v", profile.Tempo)
	}
	if profile.Key != "Am" {
		t.Errorf("key = %q", profile.Key)
	}
	if profile.Mood != "relaxed" {
		t.Errorf("mood = %q", profile.Mood)
	}
}

func TestAcousticBrainzProfileEmptyIsMiss(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewAcousticBrainzClient(serviceConfig(server.URL), testExecutor("acousticbrainz"))
	profile, err := client.Profile(context.Background(), "mbid-3")
	if err != nil {
		t.Fatalf("Profile failed: %v", err)
	}
	if profile != nil {
		t.Errorf("expected nil profile, got %+v", profile)
	}
}

func TestAcousticBrainzProfileBlankIDSkipsCall(t *testing.T) {
	client := NewAcousticBrainzClient(serviceConfig("http://127.0.0.1:0"), testExecutor("acousticbrainz"))
	profile, err := client.Profile(context.Background(), " ")
	if err != nil || profile != nil {
		t.Errorf("blank id should short-circuit, got %v, %v", profile, err)
	}
}
