// Copyright 2026 SpeakWise
// SPDX-License-Identifier: BUSL-1.1

// Package pipeline runs the session-analysis stages for one practice
// recording: speech-to-text, language-model analysis, speech synthesis of
// the model answer, and feedback generation. Each stage is timed into its
// own latency bucket and accounted against the submitting actor. Provider
// backends are pluggable interfaces; built-in deterministic providers keep
// the service runnable without external speech or model services.
package pipeline
