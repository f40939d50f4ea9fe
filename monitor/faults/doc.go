// Copyright 2026 SpeakWise
// SPDX-License-Identifier: BUSL-1.1

/*
Package faults is the centralized fault-capture pipeline.

Every fault routed through Capture is logged as a structured record,
counted in the global usage ledger, and optionally forwarded to an
external exception-tracking backend (fire-and-forget; forwarding failures
never reach the request path).

Two process-wide fault classes are handled:

  - Supervise wraps the service main loop. A synchronous escape (panic or
    returned error) is fatal: the process is in an unknown state, so the
    fault is logged at FATAL, captured with a fatal marker, logs are
    flushed, and the process exits non-zero.

  - Go launches supervised goroutines. A panic there is an unobserved
    asynchronous failure: logged at ERROR and captured, without
    terminating the process.

Boundary renders errors at the HTTP edge. Operational errors (those
carrying a status below 500) pass their own message through; everything
else renders a fixed generic body so internal detail is never leaked.
*/
package faults
