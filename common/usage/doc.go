// Copyright 2026 SpeakWise
// SPDX-License-Identifier: BUSL-1.1

/*
Package usage provides usage accounting for the SpeakWise platform.

# Overview

Two collaborating pieces live here:

  - Accountant: an in-memory ledger of per-actor and global counters for
    the call lifecycle (calls started/completed), resource consumption
    (audio minutes), and downstream model requests (LLM, TTS). It backs the
    live stats API and is reset on process restart; nothing here persists.

  - Recorder: a best-effort event writer that feeds the external analytics
    store backing the admin console and per-trainee dashboards. Recording
    failures are logged, never propagated.

# Usage

	acct := usage.NewAccountant()
	acct.TrackCallStart("trainee-123")
	acct.TrackResourceUsage("trainee-123", 120) // seconds -> 2.0 minutes
	acct.TrackLLM("trainee-123")
	acct.TrackCallEnd("trainee-123")

	stats := acct.UserStats("trainee-123")
	global := acct.GlobalStats()

# Thread Safety

Both Accountant and Recorder are safe for concurrent use. Concurrent
increments never lose updates.
*/
package usage
