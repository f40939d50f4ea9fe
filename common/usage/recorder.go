// Copyright 2026 SpeakWise
// SPDX-License-Identifier: BUSL-1.1

package usage

import (
	"database/sql"
	"log"

	"github.com/google/uuid"
)

// Recorder writes usage events to the analytics store backing the admin
// console and per-trainee dashboards. Recording is best-effort: failures
// are logged and never propagated to the request path. The in-memory
// Accountant remains the source of truth for live counters; the store only
// receives an event trail.
type Recorder struct {
	db *sql.DB
}

// NewRecorder creates a usage event recorder over an open database handle
func NewRecorder(db *sql.DB) *Recorder {
	return &Recorder{db: db}
}

// SessionEvent represents one completed analysis call
type SessionEvent struct {
	ActorID      string
	SessionID    string
	InstanceID   string
	AudioSeconds float64
	LatencyMs    int64
	StatusCode   int
}

// ModelRequestEvent represents one downstream model request (language-model
// or speech-synthesis) made while serving a session.
type ModelRequestEvent struct {
	ActorID     string
	SessionID   string
	InstanceID  string
	RequestKind string // "llm" or "tts"
	Provider    string
	LatencyMs   int64
	StatusCode  int
}

// RecordSession records a session analysis event. Errors are logged but do
// not block responses.
func (r *Recorder) RecordSession(event SessionEvent) error {
	if r == nil || r.db == nil {
		return nil
	}

	_, err := r.db.Exec(`
		INSERT INTO usage_events (
			id, actor_id, event_type, session_id, instance_id,
			audio_seconds, latency_ms, http_status_code
		) VALUES ($1, $2, 'session', $3, $4, $5, $6, $7)
	`, uuid.NewString(), nullString(event.ActorID), event.SessionID,
		event.InstanceID, event.AudioSeconds, event.LatencyMs, event.StatusCode)

	if err != nil {
		log.Printf("[USAGE] Failed to record session event: %v", err)
	}

	return err
}

// RecordModelRequest records a downstream model request event. Errors are
// logged but do not block responses.
func (r *Recorder) RecordModelRequest(event ModelRequestEvent) error {
	if r == nil || r.db == nil {
		return nil
	}

	_, err := r.db.Exec(`
		INSERT INTO usage_events (
			id, actor_id, event_type, session_id, instance_id,
			provider, latency_ms, http_status_code
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, uuid.NewString(), nullString(event.ActorID), event.RequestKind,
		event.SessionID, event.InstanceID, event.Provider,
		event.LatencyMs, event.StatusCode)

	if err != nil {
		log.Printf("[USAGE] Failed to record %s event: %v", event.RequestKind, err)
	}

	return err
}

// nullString converts an empty string to NULL for database insertion
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
