// Lyrimood - Song Mood Profile Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrimood

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in
// order of priority. The first file found is used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/lyrimood/config.yaml",
	"/etc/lyrimood/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// Load loads configuration using Koanf v2 with layered sources:
//  1. Defaults: built-in sensible defaults
//  2. Config file: optional YAML config file (if exists)
//  3. Environment variables: override any setting
//
// Precedence: ENV > File > Defaults.
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: optional config file
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment variables (highest priority)
	// LYRIMOOD_SERVER_PORT -> server.port
	// LYRIMOOD_GEMINI_API_KEY -> external.gemini.api_key_value
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// envMappings maps recognized environment variable names (lowercased) to
// koanf config paths. Only variables listed here are honored; this keeps
// unrelated host environment out of the configuration.
var envMappings = map[string]string{
	"lyrimood_server_host":    "server.host",
	"lyrimood_server_port":    "server.port",
	"lyrimood_server_timeout": "server.timeout",

	"lyrimood_log_level":  "logging.level",
	"lyrimood_log_format": "logging.format",
	"lyrimood_log_caller": "logging.caller",

	"lyrimood_audit_path": "audit.path",

	"lyrimood_musicbrainz_base_url":     "external.musicbrainz.base_url",
	"lyrimood_musicbrainz_timeout":      "external.musicbrainz.timeout",
	"lyrimood_musicbrainz_max_attempts": "external.musicbrainz.max_attempts",

	"lyrimood_detectlanguage_base_url": "external.detectlanguage.base_url",
	"lyrimood_detectlanguage_api_key":  "external.detectlanguage.api_key_value",
	"lyrimood_detectlanguage_timeout":  "external.detectlanguage.timeout",

	"lyrimood_gemini_base_url":     "external.gemini.base_url",
	"lyrimood_gemini_api_key":      "external.gemini.api_key_value",
	"lyrimood_gemini_model":        "external.gemini.model",
	"lyrimood_gemini_timeout":      "external.gemini.timeout",
	"lyrimood_gemini_max_attempts": "external.gemini.max_attempts",

	"lyrimood_acousticbrainz_base_url": "external.acousticbrainz.base_url",
	"lyrimood_acousticbrainz_timeout":  "external.acousticbrainz.timeout",

	"lyrimood_tag_timeout": "external.tag.timeout",
}

// envTransformFunc transforms environment variable names to koanf config paths.
// Unrecognized variables return "" and are ignored by the provider.
func envTransformFunc(key string) string {
	if path, ok := envMappings[strings.ToLower(key)]; ok {
		return path
	}
	return ""
}
