// Copyright 2026 SpeakWise
// SPDX-License-Identifier: BUSL-1.1

package faults

import (
	"encoding/json"
	"net/http"

	"speakwise/platform/common/usage"
	"speakwise/platform/shared/logger"
)

// Forwarder delivers captured faults to an external exception-tracking
// backend. Implementations are invoked off the request path and must
// tolerate being handed arbitrary context shapes. Delivery is best-effort.
type Forwarder interface {
	Forward(err error, context map[string]interface{})
}

// Monitor is the centralized fault-capture pipeline. Every captured fault
// is logged, counted in the global usage ledger, and optionally forwarded
// to an external backend.
type Monitor struct {
	log       *logger.Logger
	acct      *usage.Accountant
	forwarder Forwarder
}

// NewMonitor creates a fault monitor. The forwarder may be nil, in which
// case faults stay local.
func NewMonitor(log *logger.Logger, acct *usage.Accountant, forwarder Forwarder) *Monitor {
	return &Monitor{
		log:       log,
		acct:      acct,
		forwarder: forwarder,
	}
}

// Capture logs a structured error record merging the error and context,
// increments the global error counter, and forwards the fault to the
// external backend if one is configured. Forwarding runs on its own
// goroutine; a forwarding failure never propagates to the caller.
func (m *Monitor) Capture(err error, context map[string]interface{}) {
	fields := make(map[string]interface{}, len(context)+1)
	for k, v := range context {
		fields[k] = v
	}
	if err != nil {
		fields["error"] = err.Error()
	}

	if m.log != nil {
		m.log.Error("", "", "Fault captured", fields)
	}
	if m.acct != nil {
		m.acct.TrackError()
	}

	if m.forwarder != nil {
		go func() {
			defer func() {
				// A panicking forwarder must not take the process down
				_ = recover()
			}()
			m.forwarder.Forward(err, context)
		}()
	}
}

// Boundary renders an error reaching the HTTP edge. The fault is captured
// with the request method and URL; the response status comes from the
// error (default 500). For server-side statuses the body carries a fixed
// generic message instead of the error's own text.
func (m *Monitor) Boundary(w http.ResponseWriter, err error, method, url string) {
	m.Capture(err, map[string]interface{}{
		"method": method,
		"url":    url,
	})

	status := StatusFromError(err)
	message := GenericServerErrorMessage
	if status < http.StatusInternalServerError && err != nil {
		message = err.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encErr := json.NewEncoder(w).Encode(map[string]string{"error": message}); encErr != nil && m.log != nil {
		m.log.Error("", "", "Failed to encode error response", map[string]interface{}{
			"error": encErr.Error(),
		})
	}
}
