// Lyrimood - Song Mood Profile Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrimood

package resilience

import "fmt"

// FailureKind classifies an external service failure. The pipeline
// pattern-matches on the kind instead of inspecting transport error types.
type FailureKind string

const (
	// KindTimeout indicates the overall wall-clock timeout for the call
	// (including retries and queue waits) was exceeded.
	KindTimeout FailureKind = "timeout"

	// KindRateLimited indicates no rate-limit permit became free within
	// the timeout window.
	KindRateLimited FailureKind = "rate_limited"

	// KindCallFailed indicates the computation itself failed on every
	// retry attempt.
	KindCallFailed FailureKind = "call_failed"

	// KindInternal indicates an unclassified internal fault outside any
	// external call.
	KindInternal FailureKind = "internal"
)

// ServiceError is the single failure type that crosses the executor
// boundary. It carries the originating service name and a classification;
// the underlying cause is wrapped but its type never drives control flow.
type ServiceError struct {
	Service string
	Kind    FailureKind
	Err     error
}

// Error returns a stable, human-readable message.
func (e *ServiceError) Error() string {
	switch e.Kind {
	case KindTimeout:
		return fmt.Sprintf("%s service call timed out", e.Service)
	case KindRateLimited:
		return fmt.Sprintf("%s service call rate limited", e.Service)
	case KindInternal:
		if e.Service == "" {
			return "mood analysis failed"
		}
		return fmt.Sprintf("%s: internal error", e.Service)
	default:
		return fmt.Sprintf("%s service call failed", e.Service)
	}
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewInternalError wraps an unclassified runtime fault into the externally
// observable failure type without leaking internal details in the message.
func NewInternalError(err error) *ServiceError {
	return &ServiceError{Kind: KindInternal, Err: err}
}
