// Copyright 2026 SpeakWise
// SPDX-License-Identifier: BUSL-1.1

// Package main is the entry point for the SpeakWise backend server.
//
// The server exposes the session-analysis API and the operational
// telemetry surface (usage stats, latency summaries, Prometheus metrics)
// behind tiered rate limiting.
//
// Usage:
//
//	./server
//
// Environment Variables:
//
//	PORT              - HTTP server port (default: 8080)
//	JWT_SECRET        - secret for trainee token signing
//	DATABASE_URL      - PostgreSQL connection string for analytics events
//	RATE_LIMIT_CONFIG - YAML tier override file
//	FAULT_WEBHOOK_URL - external exception-tracking endpoint
//	LOG_LEVEL         - minimum log level (default: INFO)
package main

import (
	"log"

	"speakwise/platform/server"
)

func main() {
	app, err := server.NewApp(server.LoadConfig())
	if err != nil {
		// Telemetry is not wired yet at this point; plain fatal is all we have
		log.Fatalf("Failed to initialize server: %v", err)
	}
	defer app.Close()

	// A panic or error escaping the run loop is an unrecoverable fault:
	// captured, flushed, then the process exits non-zero.
	app.Monitor().Supervise(app.Run)
}
