// Copyright 2026 SpeakWise
// SPDX-License-Identifier: BUSL-1.1

package ratelimit

import (
	"sync"
	"time"

	"speakwise/platform/shared/logger"
)

// RejectionMessage is the fixed body text returned to every rate-limited
// caller regardless of tier.
const RejectionMessage = "Too many requests. Please try again later."

// sweepInterval is how often the janitor scans for stale windows
const sweepInterval = 5 * time.Minute

// Tier is a named admission policy: a recurring window and the maximum
// number of requests admitted per key within it.
type Tier struct {
	Window time.Duration
	Max    int
}

// Decision is the outcome of one admission check
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// window tracks request counts for one (tier, key) pair. Entries carry
// their own lock so the reset-then-increment-then-compare sequence is a
// single atomic unit without serializing unrelated keys.
type window struct {
	mu          sync.Mutex
	count       int
	windowStart time.Time
}

// Limiter is a per-tier fixed-window admission controller keyed by caller.
// Windows are created lazily and swept periodically once stale.
type Limiter struct {
	mu      sync.Mutex
	tiers   map[string]Tier
	windows map[string]map[string]*window // tier -> key -> window
	log     *logger.Logger
	stop    chan struct{}
	once    sync.Once
}

// NewLimiter creates a Limiter over the given tiers and starts the stale
// window janitor. The logger receives a WARN entry per rejection; it may
// be nil. Callers should Close the limiter on shutdown.
func NewLimiter(tiers map[string]Tier, log *logger.Logger) *Limiter {
	l := &Limiter{
		tiers:   tiers,
		windows: make(map[string]map[string]*window),
		log:     log,
		stop:    make(chan struct{}),
	}
	go l.janitor()
	return l
}

// Allow runs an admission check for (tier, key) at the current time
func (l *Limiter) Allow(tier, key string) Decision {
	return l.AllowAt(tier, key, time.Now())
}

// AllowAt runs an admission check at an explicit instant. The window is
// reset exactly when now - windowStart exceeds the tier window, atomically
// with the increment for the same check.
func (l *Limiter) AllowAt(tierName, key string, now time.Time) Decision {
	tier, ok := l.tiers[tierName]
	if !ok || tier.Max <= 0 {
		// Unconfigured tier: admit. Misrouted traffic must not be dropped
		// by the limiter; the tier set is fixed at construction.
		return Decision{Allowed: true}
	}

	w := l.window(tierName, key)

	w.mu.Lock()
	if now.Sub(w.windowStart) > tier.Window {
		w.count = 0
		w.windowStart = now
	}
	w.count++
	count := w.count
	resetAt := w.windowStart.Add(tier.Window)
	w.mu.Unlock()

	remaining := tier.Max - count
	if remaining < 0 {
		remaining = 0
	}

	d := Decision{
		Allowed:   count <= tier.Max,
		Limit:     tier.Max,
		Remaining: remaining,
		ResetAt:   resetAt,
	}

	if !d.Allowed && l.log != nil {
		l.log.Warn(key, "", "Rate limit exceeded", map[string]interface{}{
			"tier":  tierName,
			"limit": tier.Max,
			"count": count,
		})
	}

	return d
}

// window looks up or lazily creates the window for (tier, key)
func (l *Limiter) window(tierName, key string) *window {
	l.mu.Lock()
	defer l.mu.Unlock()

	byKey, ok := l.windows[tierName]
	if !ok {
		byKey = make(map[string]*window)
		l.windows[tierName] = byKey
	}
	w, ok := byKey[key]
	if !ok {
		// windowStart set far in the past so the first check resets it
		w = &window{}
		byKey[key] = w
	}
	return w
}

// Close stops the stale-window janitor. Safe to call more than once.
func (l *Limiter) Close() {
	l.once.Do(func() { close(l.stop) })
}

// janitor periodically removes windows whose window has fully elapsed.
// Without it the (tier, key) map grows unboundedly in a long-running
// process as callers come and go.
func (l *Limiter) janitor() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case now := <-ticker.C:
			l.sweep(now)
		}
	}
}

// sweep removes stale windows at the given instant
func (l *Limiter) sweep(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for tierName, byKey := range l.windows {
		tier, ok := l.tiers[tierName]
		if !ok {
			continue
		}
		for key, w := range byKey {
			w.mu.Lock()
			stale := now.Sub(w.windowStart) > tier.Window
			w.mu.Unlock()
			if stale {
				delete(byKey, key)
			}
		}
	}
}
