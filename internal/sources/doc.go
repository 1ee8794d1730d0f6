// Lyrimood - Song Mood Profile Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrimood

// Package sources implements the external data source adapters behind
// the mood pipeline: MusicBrainz metadata, AcousticBrainz profiles,
// DetectLanguage and script-based language detection, the Gemini lyric
// analyzer and the local tag suggester. Every remote call runs through
// the resilient executor under its own service name, so a misbehaving
// source surfaces as one classified failure instead of a hung request.
package sources
