// Lyrimood - Song Mood Profile Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrimood

// Package resilience provides the per-service execution policy layer that
// isolates failures of any one external data source: rate limiting, retry
// with fixed backoff and an overall wall-clock timeout, all applied on a
// shared bounded worker pool.
//
// TIMEOUT SEMANTICS: a timed-out call is abandoned from the caller's
// perspective but the computation on the worker pool is not forcibly
// stopped. The computation receives the expired context so well-behaved
// callees stop cooperatively; this is best-effort cancellation, not a
// guaranteed stop. Under sustained timeouts the pool can briefly hold
// slots for abandoned calls until their contexts propagate.
package resilience

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/tomtom215/lyrimood/internal/logging"
	"github.com/tomtom215/lyrimood/internal/metrics"
)

// Executor applies a service's resilience policy around a computation.
// It is safe for concurrent use; the rate limiters and worker pool are the
// only shared state and both are built once at construction.
type Executor struct {
	policies *PolicyTable
	pool     *semaphore.Weighted

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewExecutor creates an executor over the given policy table. The shared
// worker pool is sized max(4, GOMAXPROCS) and never resized.
func NewExecutor(policies *PolicyTable) *Executor {
	size := runtime.GOMAXPROCS(0)
	if size < 4 {
		size = 4
	}

	e := &Executor{
		policies: policies,
		pool:     semaphore.NewWeighted(int64(size)),
		limiters: make(map[string]*rate.Limiter),
	}
	for _, name := range policies.Names() {
		e.limiters[name] = newLimiter(policies.Lookup(name))
	}
	return e
}

// newLimiter builds a token bucket granting RateLimitQuota permits per
// RateLimitPeriod, shared across all callers of that service name.
func newLimiter(p Policy) *rate.Limiter {
	interval := p.RateLimitPeriod / time.Duration(p.RateLimitQuota)
	return rate.NewLimiter(rate.Every(interval), p.RateLimitQuota)
}

// limiter returns the shared limiter for a service name, creating one from
// the default policy for unknown names.
func (e *Executor) limiter(service string) *rate.Limiter {
	e.mu.Lock()
	defer e.mu.Unlock()
	if l, ok := e.limiters[service]; ok {
		return l
	}
	l := newLimiter(DefaultPolicy)
	e.limiters[service] = l
	return l
}

// outcome carries a computation result across the scheduling boundary.
type outcome struct {
	val any
	err error
}

// Do executes fn under the named service's policy: worker pool admission,
// rate limiting, retry with fixed backoff, and an overall timeout spanning
// the whole sequence. Every failure is returned as a *ServiceError carrying
// the service name; the underlying transport error never drives control
// flow upstream.
//
// The context passed to fn is cancelled when the policy timeout elapses,
// enabling cooperative cancellation of abandoned calls.
func (e *Executor) Do(ctx context.Context, service string, fn func(context.Context) (any, error)) (any, error) {
	policy := e.policies.Lookup(service)
	limiter := e.limiter(service)

	callCtx, cancel := context.WithTimeout(ctx, policy.Timeout)
	defer cancel()

	start := time.Now()
	ch := make(chan outcome, 1) // buffered: abandoned results must not leak the goroutine

	go e.run(callCtx, service, policy, limiter, fn, ch)

	select {
	case out := <-ch:
		metrics.ObserveExternalCall(service, start)
		if out.err != nil {
			if se, ok := out.err.(*ServiceError); ok {
				metrics.ExternalCallFailures.WithLabelValues(service, string(se.Kind)).Inc()
			}
		}
		return out.val, out.err
	case <-callCtx.Done():
		metrics.ObserveExternalCall(service, start)
		metrics.ExternalCallFailures.WithLabelValues(service, string(KindTimeout)).Inc()
		logging.Warn().
			Str("service", service).
			Dur("timeout", policy.Timeout).
			Msg("External call abandoned after timeout")
		return nil, &ServiceError{Service: service, Kind: KindTimeout, Err: callCtx.Err()}
	}
}

// run performs pool admission, rate limiting and the retry loop. It always
// delivers exactly one outcome to ch.
func (e *Executor) run(ctx context.Context, service string, policy Policy, limiter *rate.Limiter, fn func(context.Context) (any, error), ch chan<- outcome) {
	if err := e.pool.Acquire(ctx, 1); err != nil {
		ch <- outcome{err: &ServiceError{Service: service, Kind: KindTimeout, Err: err}}
		return
	}
	defer e.pool.Release(1)

	if err := limiter.Wait(ctx); err != nil {
		ch <- outcome{err: &ServiceError{Service: service, Kind: KindRateLimited, Err: err}}
		return
	}

	var err error
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		var val any
		val, err = fn(ctx)
		if err == nil {
			ch <- outcome{val: val}
			return
		}

		if attempt < policy.MaxAttempts {
			metrics.ExternalCallRetries.WithLabelValues(service).Inc()
			logging.Warn().
				Err(err).
				Str("service", service).
				Int("attempt", attempt).
				Int("max_attempts", policy.MaxAttempts).
				Dur("backoff", policy.Backoff).
				Msg("External call retry")
			select {
			case <-time.After(policy.Backoff):
			case <-ctx.Done():
				ch <- outcome{err: &ServiceError{Service: service, Kind: KindTimeout, Err: ctx.Err()}}
				return
			}
		}
	}

	ch <- outcome{err: &ServiceError{Service: service, Kind: KindCallFailed, Err: err}}
}

// As type-casts an executor result with error passthrough. It mirrors the
// generic cast used around circuit breaker results.
func As[T any](result any, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("executor: unexpected result type %T", result)
	}
	return typed, nil
}
