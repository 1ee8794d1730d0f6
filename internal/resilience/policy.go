// Lyrimood - Song Mood Profile Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrimood

package resilience

import (
	"time"

	"github.com/tomtom215/lyrimood/internal/config"
)

// Policy is the fixed timeout/retry/rate-limit configuration bound to one
// named external service. Policies are resolved once at startup and never
// mutated at runtime.
type Policy struct {
	Name            string
	Timeout         time.Duration
	MaxAttempts     int
	Backoff         time.Duration
	RateLimitQuota  int
	RateLimitPeriod time.Duration
}

// DefaultPolicy is used for service names with no configured policy.
// It allows a single attempt under a conservative timeout so that an
// unknown name cannot tie up the worker pool.
var DefaultPolicy = Policy{
	Name:            "default",
	Timeout:         3 * time.Second,
	MaxAttempts:     1,
	Backoff:         0,
	RateLimitQuota:  10,
	RateLimitPeriod: time.Second,
}

// PolicyTable maps service names to immutable policies.
type PolicyTable struct {
	policies map[string]Policy
}

// NewPolicyTable builds the policy table from the external services
// configuration. The table covers exactly the services the pipeline calls:
// musicbrainz, detectlanguage, gemini, acousticbrainz and tag.
func NewPolicyTable(cfg config.ExternalConfig) *PolicyTable {
	services := map[string]config.ServiceConfig{
		"musicbrainz":    cfg.MusicBrainz,
		"detectlanguage": cfg.DetectLanguage,
		"gemini":         cfg.Gemini,
		"acousticbrainz": cfg.AcousticBrainz,
		"tag":            cfg.Tag,
	}

	policies := make(map[string]Policy, len(services))
	for name, svc := range services {
		policies[name] = Policy{
			Name:            name,
			Timeout:         svc.Timeout,
			MaxAttempts:     svc.MaxAttempts,
			Backoff:         svc.Backoff,
			RateLimitQuota:  svc.RateLimitQuota,
			RateLimitPeriod: svc.RateLimitPeriod,
		}
	}

	return &PolicyTable{policies: policies}
}

// NewPolicyTableFromPolicies builds a table from explicit policies.
// Intended for tests and embedded use.
func NewPolicyTableFromPolicies(policies ...Policy) *PolicyTable {
	m := make(map[string]Policy, len(policies))
	for _, p := range policies {
		m[p.Name] = p
	}
	return &PolicyTable{policies: m}
}

// Lookup resolves the policy for a service name. Unknown names fall back
// to DefaultPolicy.
func (t *PolicyTable) Lookup(name string) Policy {
	if p, ok := t.policies[name]; ok {
		return p
	}
	return DefaultPolicy
}

// Names returns the configured service names.
func (t *PolicyTable) Names() []string {
	names := make([]string, 0, len(t.policies))
	for name := range t.policies {
		names = append(names, name)
	}
	return names
}
