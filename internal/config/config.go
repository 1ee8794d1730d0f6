// Lyrimood - Song Mood Profile Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrimood

// Package config provides layered configuration loading for Lyrimood.
//
// Configuration is loaded with clear precedence: environment variables
// override the optional YAML config file, which overrides built-in
// defaults. Per-service resilience policies are loaded once at startup
// and never mutated afterwards.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the Lyrimood server.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Logging  LoggingConfig  `koanf:"logging"`
	Audit    AuditConfig    `koanf:"audit"`
	External ExternalConfig `koanf:"external"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// AuditConfig holds audit store settings.
type AuditConfig struct {
	// Path is the SQLite database file for audit records.
	// An empty path selects the in-memory store.
	Path string `koanf:"path"`
}

// ExternalConfig groups per-service settings for every external dependency.
type ExternalConfig struct {
	MusicBrainz    ServiceConfig `koanf:"musicbrainz"`
	DetectLanguage ServiceConfig `koanf:"detectlanguage"`
	Gemini         ServiceConfig `koanf:"gemini"`
	AcousticBrainz ServiceConfig `koanf:"acousticbrainz"`
	Tag            ServiceConfig `koanf:"tag"`
}

// ServiceConfig holds the fixed resilience policy and credentials for one
// named external service. Loaded once at startup, immutable thereafter.
type ServiceConfig struct {
	BaseURL         string        `koanf:"base_url"`
	Timeout         time.Duration `koanf:"timeout"`
	MaxAttempts     int           `koanf:"max_attempts"`
	Backoff         time.Duration `koanf:"backoff"`
	RateLimitQuota  int           `koanf:"rate_limit_quota"`
	RateLimitPeriod time.Duration `koanf:"rate_limit_period"`
	APIKeyHeader    string        `koanf:"api_key_header"`
	APIKeyValue     string        `koanf:"api_key_value"`
	Model           string        `koanf:"model"`
}

// defaultServiceConfig returns the baseline resilience policy shared by all
// external services before file/env overrides.
func defaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		Timeout:         2 * time.Second,
		MaxAttempts:     3,
		Backoff:         200 * time.Millisecond,
		RateLimitQuota:  10,
		RateLimitPeriod: time.Second,
	}
}

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	mb := defaultServiceConfig()
	mb.BaseURL = "https://musicbrainz.org"

	dl := defaultServiceConfig()
	dl.BaseURL = "https://ws.detectlanguage.com/0.2"
	dl.APIKeyHeader = "Authorization"

	gm := defaultServiceConfig()
	gm.BaseURL = "https://generativelanguage.googleapis.com"
	gm.Timeout = 10 * time.Second
	gm.Model = "gemini-2.5-flash"

	ab := defaultServiceConfig()
	ab.BaseURL = "https://acousticbrainz.org"

	tag := defaultServiceConfig()

	return &Config{
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    8080,
			Timeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Audit: AuditConfig{
			Path: "/data/lyrimood.db",
		},
		External: ExternalConfig{
			MusicBrainz:    mb,
			DetectLanguage: dl,
			Gemini:         gm,
			AcousticBrainz: ab,
			Tag:            tag,
		},
	}
}

// Validate checks configuration values for internal consistency.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %s", c.Server.Timeout)
	}

	services := map[string]*ServiceConfig{
		"musicbrainz":    &c.External.MusicBrainz,
		"detectlanguage": &c.External.DetectLanguage,
		"gemini":         &c.External.Gemini,
		"acousticbrainz": &c.External.AcousticBrainz,
		"tag":            &c.External.Tag,
	}
	for name, svc := range services {
		if svc.Timeout <= 0 {
			return fmt.Errorf("external.%s.timeout must be positive, got %s", name, svc.Timeout)
		}
		if svc.MaxAttempts < 1 {
			return fmt.Errorf("external.%s.max_attempts must be at least 1, got %d", name, svc.MaxAttempts)
		}
		if svc.Backoff < 0 {
			return fmt.Errorf("external.%s.backoff must not be negative, got %s", name, svc.Backoff)
		}
		if svc.RateLimitQuota < 1 {
			return fmt.Errorf("external.%s.rate_limit_quota must be at least 1, got %d", name, svc.RateLimitQuota)
		}
		if svc.RateLimitPeriod <= 0 {
			return fmt.Errorf("external.%s.rate_limit_period must be positive, got %s", name, svc.RateLimitPeriod)
		}
	}

	return nil
}
