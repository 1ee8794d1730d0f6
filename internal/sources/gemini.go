// Lyrimood - Song Mood Profile Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrimood

package sources

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/lyrimood/internal/config"
	"github.com/tomtom215/lyrimood/internal/mood"
	"github.com/tomtom215/lyrimood/internal/resilience"
)

const defaultGeminiModel = "gemini-2.5-flash"

// analysisPrompt instructs the model to return one line of minified
// JSON with the analysis fields. Kept in Korean to match the service's
// user-facing highlight language.
const analysisPrompt = `당신은 음악의 감정과 분위기를 분석하는 전문가입니다. 아래 가사를 한국어로 분석하고, **JSON 한 줄**만 반환하세요.
JSON은 반드시 다음 필드를 포함한 1줄(minified)이어야 합니다.
{
  "label": string,           // 간결한 한국어 감정 레이블
  "valence": number,         // 0.0 ~ 1.0
  "arousal": number,         // 0.0 ~ 1.0
  "profane": boolean,        // 비속어 포함 여부
  "tags": array,             // 소문자 영어 태그 최대 6개
  "positiveEvidence": array, // 밝은 분위기를 보여주는 한국어 표현 최대 3개
  "negativeEvidence": array, // 어두운 분위기를 보여주는 한국어 표현 최대 3개
  "summary": string,         // 120자 이하 한국어 요약
  "language": string,        // ISO 639-1 언어 코드
  "translatedLyrics": string // 가사를 자연스러운 한국어로 번역, 줄바꿈은 \n 사용, 4000자 이하
}
값이 없으면 valence/arousal은 0.5, 배열은 []로 두고 JSON 이외의 텍스트는 출력하지 마세요.

`

// GeminiClient runs the AI lyric analysis against the Gemini REST API.
// This is the one fatal source: executor failures propagate to the
// caller unchanged.
type GeminiClient struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	executor   *resilience.Executor
}

// NewGeminiClient creates the lyric analyzer.
func NewGeminiClient(cfg config.ServiceConfig, executor *resilience.Executor) *GeminiClient {
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com"
	}
	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}
	return &GeminiClient{
		baseURL: baseURL,
		apiKey:  cfg.APIKeyValue,
		model:   model,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		executor: executor,
	}
}

// Analyze submits the lyrics for analysis under the gemini policy.
func (c *GeminiClient) Analyze(ctx context.Context, title, artist, lyrics string) (mood.LyricAnalysis, error) {
	result, err := c.executor.Do(ctx, "gemini", func(ctx context.Context) (any, error) {
		return c.invoke(ctx, title, artist, lyrics)
	})
	return resilience.As[mood.LyricAnalysis](result, err)
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (c *GeminiClient) invoke(ctx context.Context, title, artist, lyrics string) (mood.LyricAnalysis, error) {
	if c.apiKey == "" {
		return mood.LyricAnalysis{}, fmt.Errorf("gemini API key is not configured")
	}
	if strings.TrimSpace(lyrics) == "" {
		return defaultAnalysis(), nil
	}

	prompt := analysisPrompt +
		fmt.Sprintf("제목: %s\n아티스트: %s", title, artist) +
		"\n가사:\n" + lyrics

	payload, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{
			Role:  "user",
			Parts: []geminiPart{{Text: prompt}},
		}},
	})
	if err != nil {
		return mood.LyricAnalysis{}, fmt.Errorf("failed to marshal gemini request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		c.baseURL, url.PathEscape(c.model), url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return mood.LyricAnalysis{}, fmt.Errorf("failed to build gemini request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return mood.LyricAnalysis{}, fmt.Errorf("gemini request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return mood.LyricAnalysis{}, fmt.Errorf("failed to read gemini response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return mood.LyricAnalysis{}, fmt.Errorf("gemini returned status %d: %s", resp.StatusCode, truncateBody(body))
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return defaultAnalysis(), nil
	}

	analysis, ok := parseGeminiResponse(body)
	if !ok {
		return defaultAnalysis(), nil
	}
	return analysis, nil
}

// parseGeminiResponse unwraps the generated text and extracts the
// embedded analysis JSON. Any malformed payload yields (zero, false)
// so the caller can substitute the neutral default.
func parseGeminiResponse(body []byte) (mood.LyricAnalysis, bool) {
	var parsed geminiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return mood.LyricAnalysis{}, false
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return mood.LyricAnalysis{}, false
	}

	text := parsed.Candidates[0].Content.Parts[0].Text
	var data struct {
		Label            string          `json:"label"`
		Valence          *float64        `json:"valence"`
		Arousal          *float64        `json:"arousal"`
		Profane          bool            `json:"profane"`
		Tags             json.RawMessage `json:"tags"`
		PositiveEvidence json.RawMessage `json:"positiveEvidence"`
		NegativeEvidence json.RawMessage `json:"negativeEvidence"`
		Summary          string          `json:"summary"`
		Language         string          `json:"language"`
		TranslatedLyrics string          `json:"translatedLyrics"`
	}
	if err := json.Unmarshal([]byte(extractJSON(text)), &data); err != nil {
		return mood.LyricAnalysis{}, false
	}

	valence, arousal := 0.5, 0.5
	if data.Valence != nil {
		valence = mood.Clamp(*data.Valence)
	}
	if data.Arousal != nil {
		arousal = mood.Clamp(*data.Arousal)
	}
	label := data.Label
	if label == "" {
		label = "neutral"
	}

	return mood.LyricAnalysis{
		Lang:             data.Language,
		Label:            label,
		Profane:          data.Profane,
		Score:            mood.SentimentScore{Valence: valence, Arousal: arousal},
		Tags:             readStringArray(data.Tags),
		PositiveEvidence: readStringArray(data.PositiveEvidence),
		NegativeEvidence: readStringArray(data.NegativeEvidence),
		Summary:          data.Summary,
		TranslatedLyrics: data.TranslatedLyrics,
	}, true
}

// readStringArray tolerates a scalar where an array was requested and
// caps the result at 8 entries.
func readStringArray(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var values []string
	if err := json.Unmarshal(raw, &values); err == nil {
		out := make([]string, 0, len(values))
		for _, v := range values {
			if trimmed := strings.TrimSpace(v); trimmed != "" {
				out = append(out, trimmed)
			}
			if len(out) == 8 {
				break
			}
		}
		return out
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		if trimmed := strings.TrimSpace(single); trimmed != "" {
			return []string{trimmed}
		}
	}
	return nil
}

// extractJSON cuts the first balanced-looking JSON object out of the
// model's text, which may be wrapped in markdown fences or prose.
func extractJSON(text string) string {
	trimmed := strings.TrimSpace(text)
	start := strings.IndexByte(trimmed, '{')
	end := strings.LastIndexByte(trimmed, '}')
	if start >= 0 && end > start {
		return trimmed[start : end+1]
	}
	return "{}"
}

func defaultAnalysis() mood.LyricAnalysis {
	return mood.LyricAnalysis{
		Label: "neutral",
		Score: mood.SentimentScore{Valence: 0.5, Arousal: 0.5},
	}
}

func truncateBody(body []byte) string {
	const max = 512
	if len(body) > max {
		return string(body[:max])
	}
	return string(body)
}
