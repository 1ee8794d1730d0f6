// Lyrimood - Song Mood Profile Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrimood

package sources

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/lyrimood/internal/logging"
	"github.com/tomtom215/lyrimood/internal/metrics"
	"github.com/tomtom215/lyrimood/internal/mood"
	"github.com/tomtom215/lyrimood/internal/resilience"
)

// MetadataCircuitBreaker wraps the MusicBrainz client with a circuit
// breaker so that a degraded MusicBrainz stops consuming worker pool
// slots and rate-limit permits. Metadata is a non-fatal source: an open
// circuit surfaces as absence upstream, exactly like any other lookup
// failure.
//
// DETERMINISM NOTE: the breaker uses real time for its interval and
// timeout calculations. Tests should mock the wrapped client, not the
// breaker.
type MetadataCircuitBreaker struct {
	client mood.MetadataLookup
	cb     *gobreaker.CircuitBreaker[any]
	name   string
}

// NewMetadataCircuitBreaker creates the breaker-protected metadata
// lookup. Configuration:
//   - Max 3 concurrent requests in half-open state
//   - 1 minute measurement window
//   - 2 minute timeout before attempting recovery
//   - Opens after 60% failure rate with minimum 10 requests
func NewMetadataCircuitBreaker(client mood.MetadataLookup) *MetadataCircuitBreaker {
	cbName := "musicbrainz"

	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0) // 0 = closed

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6
			if shouldTrip {
				logging.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)
			logging.Info().
				Str("breaker", name).
				Str("from", fromStr).
				Str("to", toStr).
				Msg("[CIRCUIT BREAKER] State transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	return &MetadataCircuitBreaker{
		client: client,
		cb:     cb,
		name:   cbName,
	}
}

// Lookup resolves metadata through the breaker. A rejected request
// (open circuit, half-open overflow) is reported as a normalized
// service failure.
func (b *MetadataCircuitBreaker) Lookup(ctx context.Context, title, artist string) (*mood.Metadata, error) {
	result, err := b.cb.Execute(func() (any, error) {
		meta, err := b.client.Lookup(ctx, title, artist)
		return meta, err
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			logging.Warn().Err(err).Msg("[CIRCUIT BREAKER] Metadata lookup rejected")
			return nil, &resilience.ServiceError{
				Service: b.name,
				Kind:    resilience.KindCallFailed,
				Err:     err,
			}
		}
		return nil, err
	}
	return resilience.As[*mood.Metadata](result, nil)
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
