// Copyright 2026 SpeakWise
// SPDX-License-Identifier: BUSL-1.1

// Package latency tracks operation durations in named buckets with bounded
// history (a fixed-capacity ring per bucket, oldest-first eviction) and
// computes count/avg/min/max/p95/last statistics on demand. It is the
// self-observability layer for the session-analysis pipeline stages
// (speech-to-text, language-model, speech-synthesis, feedback-generation)
// and for whole-request timing.
package latency
