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
	"time"

	"github.com/tomtom215/lyrimood/internal/config"
)

func detectConfig(baseURL string) config.ServiceConfig {
	return config.ServiceConfig{
		BaseURL:      baseURL,
		Timeout:      2 * time.Second,
		APIKeyHeader: "Authorization",
		APIKeyValue:  "test-key",
	}
}

func TestDetectLanguagePicksBestDetection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/detect" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("auth header = %q", got)
		}
		_, _ = w.Write([]byte(`{
			"data": [{
				"detections": [
					{"language": "en", "confidence": 0.4},
					{"language": "ko", "confidence": 0.95}
				]
			}]
		}`))
	}))
	defer server.Close()

	client := NewDetectLanguageClient(detectConfig(server.URL), testExecutor("detectlanguage"))
	got := client.Detect(context.Background(), "some lyric text")
	if got.Code != "ko" {
		t.Errorf("code = %q, want ko", got.Code)
	}
	if got.Confidence != 0.95 {
		t.Errorf("confidence = %v, want 0.95", got.Confidence)
	}
}

func TestDetectLanguageBlankInputShortCircuits(t *testing.T) {
	client := NewDetectLanguageClient(detectConfig("http://127.0.0.1:0"), testExecutor("detectlanguage"))
	got := client.Detect(context.Background(), "  ")
	if got.Code != "und" || got.Confidence != 0 {
		t.Errorf("blank input = %+v, want und/0", got)
	}
}

func TestDetectLanguageDegradesToScriptFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewDetectLanguageClient(detectConfig(server.URL), testExecutor("detectlanguage"))
	got := client.Detect(context.Background(), "우리는 밝은 낮에 춤을 춰")
	if got.Code != "ko" {
		t.Errorf("code = %q, want script fallback ko", got.Code)
	}
	if got.Confidence != 0.94 {
		t.Errorf("confidence = %v, want script confidence", got.Confidence)
	}
}

func TestDetectLanguageNeverFails(t *testing.T) {
	// Unreachable endpoint plus unrecognizable text: still a value.
	client := NewDetectLanguageClient(detectConfig("http://127.0.0.1:0"), testExecutor("detectlanguage"))
	got := client.Detect(context.Background(), "12345")
	if got.Code != "und" {
		t.Errorf("code = %q, want und", got.Code)
	}
}

func TestDetectLanguageEmptyDataDegradesToUnd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": []}`))
	}))
	defer server.Close()

	client := NewDetectLanguageClient(detectConfig(server.URL), testExecutor("detectlanguage"))
	got := client.Detect(context.Background(), "hello world")
	if got.Code != "und" || got.Confidence != 0 {
		t.Errorf("got %+v, want und/0", got)
	}
}

func TestDetectLanguageUndResultPrefersScriptFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"data": [{"detections": [{"language": "und", "confidence": 0.3}]}]
		}`))
	}))
	defer server.Close()

	client := NewDetectLanguageClient(detectConfig(server.URL), testExecutor("detectlanguage"))
	got := client.Detect(context.Background(), "ひかりのなかで")
	if got.Code != "ja" {
		t.Errorf("code = %q, want ja via script fallback", got.Code)
	}
}
