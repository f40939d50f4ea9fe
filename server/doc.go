// Copyright 2026 SpeakWise
// SPDX-License-Identifier: BUSL-1.1

/*
Package server is the HTTP surface of the SpeakWise backend.

Every inbound request flows through the same chain: correlation id,
per-tier rate limiting keyed by actor (network address as fallback),
whole-request latency instrumentation, and a panic-recovery boundary that
renders sanitized errors through the fault monitor.

Routes:

	GET  /health                      readiness probe
	GET  /prometheus                  Prometheus metrics
	POST /api/v1/auth/token           trainee token issuance   (auth tier)
	POST /api/v1/sessions/analyze     session analysis         (intensive tier)
	GET  /api/v1/stats/global         global usage aggregate   (general tier)
	GET  /api/v1/stats/users/{id}     per-actor usage          (general tier)
	GET  /api/v1/latency              latency bucket summaries (general tier)
	POST /api/v1/stats/reset          reset live telemetry     (general tier)

All components are constructed once in NewApp and passed by reference;
nothing here is a package-level singleton, so tests run isolated instances
side by side.
*/
package server
