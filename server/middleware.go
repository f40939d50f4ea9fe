// Copyright 2026 SpeakWise
// SPDX-License-Identifier: BUSL-1.1

package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"speakwise/platform/monitor/ratelimit"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// requestID returns the correlation id attached by requestIDMiddleware
func requestID(r *http.Request) string {
	if id, ok := r.Context().Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// requestIDMiddleware attaches a correlation id to every request,
// honoring one supplied by the caller.
func (a *App) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

// rateLimit gates a handler behind the named tier. The caller key prefers
// the authenticated actor and falls back to the network address. Admitted
// responses carry standard RateLimit metadata; rejected callers get 429
// with the fixed rejection message.
func (a *App) rateLimit(tier string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := ratelimit.ClientKey(a.actorFromRequest(r), r.RemoteAddr)
		d := a.limiter.Allow(tier, key)

		if d.Limit > 0 {
			w.Header().Set("RateLimit-Limit", strconv.Itoa(d.Limit))
			w.Header().Set("RateLimit-Remaining", strconv.Itoa(d.Remaining))
			w.Header().Set("RateLimit-Reset", strconv.FormatInt(d.ResetAt.Unix(), 10))
		}

		if !d.Allowed {
			a.metrics.rateLimited.WithLabelValues(tier).Inc()
			writeJSON(w, http.StatusTooManyRequests, map[string]string{
				"error": ratelimit.RejectionMessage,
			})
			return
		}

		next(w, r)
	}
}

// statusRecorder captures the status written by the inner handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// instrumentMiddleware times every request into the http-request latency
// bucket and the Prometheus collectors.
func (a *App) instrumentMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		elapsedMs := time.Since(start).Milliseconds()
		route := r.URL.Path
		if cur := mux.CurrentRoute(r); cur != nil {
			if tmpl, err := cur.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}

		a.tracker.Record(bucketHTTPRequest, elapsedMs, map[string]interface{}{
			"route":  route,
			"status": rec.status,
		})
		a.metrics.requestsTotal.WithLabelValues(strconv.Itoa(rec.status)).Inc()
		a.metrics.requestDuration.WithLabelValues(route).Observe(float64(elapsedMs))
	})
}

// recoverMiddleware routes handler panics into the fault boundary so the
// request gets a sanitized response instead of a dropped connection.
func (a *App) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				err, ok := rec.(error)
				if !ok {
					err = fmt.Errorf("panic: %v", rec)
				}
				a.metrics.faultsTotal.Inc()
				a.monitor.Boundary(w, err, r.Method, r.URL.Path)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
