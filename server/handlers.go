// Copyright 2026 SpeakWise
// SPDX-License-Identifier: BUSL-1.1

package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"speakwise/platform/common/usage"
	"speakwise/platform/monitor/faults"
	"speakwise/platform/pipeline"
)

// writeJSON renders a JSON response body with the given status
func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// handleHealth reports readiness without touching any dependency, so load
// balancer checks pass while initialization is still in flight.
func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "starting"
	if a.ready.Load() {
		status = "healthy"
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    status,
		"service":   "speakwise-server",
		"timestamp": time.Now().UTC(),
		"version":   "1.0.0",
	})
}

// tokenRequest is the body of POST /api/v1/auth/token
type tokenRequest struct {
	ActorID string `json:"actor_id"`
}

// handleToken issues a short-lived trainee token
func (a *App) handleToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.monitor.Boundary(w, faults.NewOperationalError(http.StatusBadRequest, "invalid request body"), r.Method, r.URL.Path)
		return
	}
	if req.ActorID == "" {
		a.monitor.Boundary(w, faults.NewOperationalError(http.StatusBadRequest, "actor_id required"), r.Method, r.URL.Path)
		return
	}

	token, expiresAt, err := a.issueToken(req.ActorID, time.Now())
	if err != nil {
		a.monitor.Boundary(w, err, r.Method, r.URL.Path)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token":      token,
		"expires_at": expiresAt.UTC(),
	})
}

// analyzeRequest is the body of POST /api/v1/sessions/analyze. Audio is
// base64-encoded in transit.
type analyzeRequest struct {
	SessionID    string  `json:"session_id"`
	Audio        []byte  `json:"audio"`
	AudioSeconds float64 `json:"audio_seconds"`
}

// handleAnalyze runs the session-analysis pipeline for one recording
func (a *App) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.monitor.Boundary(w, faults.NewOperationalError(http.StatusBadRequest, "invalid request body"), r.Method, r.URL.Path)
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	actor := a.actorFromRequest(r)
	result, err := a.pipe.Analyze(r.Context(), pipeline.Request{
		SessionID:    req.SessionID,
		ActorID:      actor,
		Audio:        req.Audio,
		AudioSeconds: req.AudioSeconds,
	})
	if err != nil {
		a.monitor.Boundary(w, err, r.Method, r.URL.Path)
		return
	}

	if a.recorder != nil {
		event := usage.SessionEvent{
			ActorID:      actor,
			SessionID:    req.SessionID,
			InstanceID:   a.cfg.InstanceID,
			AudioSeconds: req.AudioSeconds,
			LatencyMs:    time.Since(start).Milliseconds(),
			StatusCode:   http.StatusOK,
		}
		// Off the request path; a panicking driver is captured, not fatal
		a.monitor.Go(func() {
			_ = a.recorder.RecordSession(event)
		})
	}

	writeJSON(w, http.StatusOK, result)
}

// handleGlobalStats returns the global usage aggregate
func (a *App) handleGlobalStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.acct.GlobalStats())
}

// handleUserStats returns one actor's usage snapshot. Unknown actors get
// all-zero fields, never a 404 and never a ledger entry.
func (a *App) handleUserStats(w http.ResponseWriter, r *http.Request) {
	actorID := mux.Vars(r)["id"]
	writeJSON(w, http.StatusOK, a.acct.UserStats(actorID))
}

// handleLatency returns per-bucket latency summaries
func (a *App) handleLatency(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.tracker.Summary())
}

// handleReset clears usage counters and latency histories
func (a *App) handleReset(w http.ResponseWriter, r *http.Request) {
	a.acct.Reset()
	a.tracker.Reset()
	a.log.Info(a.actorFromRequest(r), requestID(r), "Telemetry reset", nil)
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}
