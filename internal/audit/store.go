// Lyrimood - Song Mood Profile Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrimood

package audit

import (
	"context"
	"strings"
	"sync"
)

func lower(s string) string {
	return strings.ToLower(s)
}

func contains(value, lowered string) bool {
	return value != "" && strings.Contains(strings.ToLower(value), lowered)
}

// MemoryStore implements Store using in-memory storage.
// Suitable for development and testing. Data is lost on restart.
type MemoryStore struct {
	records []Record
	mu      sync.RWMutex
	maxLen  int
}

// NewMemoryStore creates a new in-memory analysis record store.
func NewMemoryStore(maxLen int) *MemoryStore {
	if maxLen <= 0 {
		maxLen = 10000
	}
	return &MemoryStore{
		records: make([]Record, 0, maxLen),
		maxLen:  maxLen,
	}
}

// Save persists an analysis record.
func (s *MemoryStore) Save(ctx context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Enforce max length by removing oldest records
	if len(s.records) >= s.maxLen {
		removeCount := s.maxLen / 10
		if removeCount == 0 {
			removeCount = 1
		}
		s.records = s.records[removeCount:]
	}

	s.records = append(s.records, *rec)
	return nil
}

// Recent returns up to limit records, newest first.
func (s *MemoryStore) Recent(ctx context.Context, limit int) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}
	results := make([]Record, 0, limit)
	for i := len(s.records) - 1; i >= 0 && len(results) < limit; i-- {
		results = append(results, s.records[i])
	}
	return results, nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}
