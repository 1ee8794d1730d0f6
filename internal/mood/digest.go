// Lyrimood - Song Mood Profile Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrimood

package mood

import (
	"crypto/sha256"
	"encoding/base64"
	"strings"
)

// DigestLyrics computes a stable 32-character fingerprint of the lyric
// text for audit deduplication. Blank input digests to "".
func DigestLyrics(lyrics string) string {
	if strings.TrimSpace(lyrics) == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(lyrics))
	return base64.StdEncoding.EncodeToString(sum[:])[:32]
}
