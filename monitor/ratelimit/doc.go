// Copyright 2026 SpeakWise
// SPDX-License-Identifier: BUSL-1.1

// Package ratelimit implements tiered fixed-window admission control keyed
// by caller. Each named tier pairs a recurring window with a request
// maximum; the caller key prefers the authenticated actor id and falls
// back to the network address. An admission check is atomic per (tier,
// key): the window reset, increment, and comparison happen under one lock
// so concurrent callers on the same key can never both pass on a stale
// count. Stale windows are swept by a background janitor to bound memory.
//
// Limiting is per process instance. Coordinating limits across instances
// is out of scope here.
package ratelimit
