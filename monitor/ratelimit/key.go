// Copyright 2026 SpeakWise
// SPDX-License-Identifier: BUSL-1.1

package ratelimit

import "net"

// ClientKey derives the admission key for a caller: the authenticated
// actor identifier when present, otherwise the caller's network address
// with any port stripped. The preference is deterministic and independent
// of transport details, so it is unit-testable without a request object.
func ClientKey(actorID, remoteAddr string) string {
	if actorID != "" {
		return actorID
	}
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
