// Copyright 2026 SpeakWise
// SPDX-License-Identifier: BUSL-1.1

package usage

import (
	"math"
	"sync"
	"time"
)

// Accountant maintains per-actor and global usage counters for the call
// lifecycle and resource consumption. All tracking operations are O(1) and
// safe for concurrent use; counters are monotonically non-decreasing except
// across an explicit Reset.
type Accountant struct {
	mu         sync.Mutex
	actors     map[string]*actorRecord
	global     actorRecord
	errorCount int64
	startedAt  time.Time
}

// actorRecord holds the raw counters for one actor (or the global aggregate)
type actorRecord struct {
	callsStarted    int64
	callsCompleted  int64
	resourceMinutes float64
	llmRequests     int64
	ttsRequests     int64
}

// ActorStats is a point-in-time snapshot of one actor's usage
type ActorStats struct {
	CallsStarted            int64   `json:"callsStarted"`
	CallsCompleted          int64   `json:"callsCompleted"`
	ResourceMinutesConsumed float64 `json:"resourceMinutesConsumed"`
	LLMRequests             int64   `json:"llmRequests"`
	TTSRequests             int64   `json:"ttsRequests"`
}

// GlobalStats is a snapshot of the global aggregate plus derived fields.
// ResourceMinutesConsumed is rounded to 2 decimal places.
type GlobalStats struct {
	ActorStats
	ErrorCount    int64 `json:"errorCount"`
	ActiveActors  int   `json:"activeActors"`
	UptimeSeconds int64 `json:"uptimeSeconds"`
}

// NewAccountant creates an Accountant with an empty ledger and starts the
// uptime clock.
func NewAccountant() *Accountant {
	return &Accountant{
		actors:    make(map[string]*actorRecord),
		startedAt: time.Now(),
	}
}

// actor returns the record for an actor, creating it lazily. Caller holds
// the lock. Only mutation paths call this; reads must never allocate.
func (a *Accountant) actor(id string) *actorRecord {
	rec, ok := a.actors[id]
	if !ok {
		rec = &actorRecord{}
		a.actors[id] = rec
	}
	return rec
}

// TrackCallStart records the start of a call for an actor
func (a *Accountant) TrackCallStart(actorID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.actor(actorID).callsStarted++
	a.global.callsStarted++
}

// TrackCallEnd records the completion of a call for an actor
func (a *Accountant) TrackCallEnd(actorID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.actor(actorID).callsCompleted++
	a.global.callsCompleted++
}

// TrackResourceUsage converts consumed seconds to minutes and adds them to
// both the actor's and the global accumulator.
func (a *Accountant) TrackResourceUsage(actorID string, seconds float64) {
	minutes := seconds / 60

	a.mu.Lock()
	defer a.mu.Unlock()
	a.actor(actorID).resourceMinutes += minutes
	a.global.resourceMinutes += minutes
}

// TrackLLM records one language-model request for an actor
func (a *Accountant) TrackLLM(actorID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.actor(actorID).llmRequests++
	a.global.llmRequests++
}

// TrackTTS records one speech-synthesis request for an actor
func (a *Accountant) TrackTTS(actorID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.actor(actorID).ttsRequests++
	a.global.ttsRequests++
}

// TrackError increments the global error counter. Errors are attributed
// globally only; the error path does not always have a resolved actor.
func (a *Accountant) TrackError() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.errorCount++
}

// UserStats returns a snapshot for one actor. An actor never touched yields
// all-zero fields and no ledger entry is allocated for it.
func (a *Accountant) UserStats(actorID string) ActorStats {
	a.mu.Lock()
	defer a.mu.Unlock()

	rec, ok := a.actors[actorID]
	if !ok {
		return ActorStats{}
	}
	return rec.stats()
}

// GlobalStats returns the global aggregate plus derived fields
func (a *Accountant) GlobalStats() GlobalStats {
	a.mu.Lock()
	defer a.mu.Unlock()

	stats := a.global.stats()
	stats.ResourceMinutesConsumed = math.Round(stats.ResourceMinutesConsumed*100) / 100

	return GlobalStats{
		ActorStats:    stats,
		ErrorCount:    a.errorCount,
		ActiveActors:  len(a.actors),
		UptimeSeconds: int64(time.Since(a.startedAt).Seconds()),
	}
}

// Reset clears all actor records and global counters and restarts the
// uptime clock.
func (a *Accountant) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.actors = make(map[string]*actorRecord)
	a.global = actorRecord{}
	a.errorCount = 0
	a.startedAt = time.Now()
}

func (r *actorRecord) stats() ActorStats {
	return ActorStats{
		CallsStarted:            r.callsStarted,
		CallsCompleted:          r.callsCompleted,
		ResourceMinutesConsumed: r.resourceMinutes,
		LLMRequests:             r.llmRequests,
		TTSRequests:             r.ttsRequests,
	}
}
