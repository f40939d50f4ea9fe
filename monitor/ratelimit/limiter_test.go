// Copyright 2026 SpeakWise
// SPDX-License-Identifier: BUSL-1.1

package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(tiers map[string]Tier) *Limiter {
	l := NewLimiter(tiers, nil)
	return l
}

func TestAdmitUpToMaxThenReject(t *testing.T) {
	l := newTestLimiter(map[string]Tier{
		"auth": {Window: 15 * time.Minute, Max: 20},
	})
	defer l.Close()

	now := time.Now()
	for i := 1; i <= 20; i++ {
		d := l.AllowAt("auth", "trainee-1", now)
		require.True(t, d.Allowed, "request %d within the window must be admitted", i)
		assert.Equal(t, 20, d.Limit)
		assert.Equal(t, 20-i, d.Remaining)
	}

	d := l.AllowAt("auth", "trainee-1", now)
	assert.False(t, d.Allowed, "request 21 must be rejected")
	assert.Equal(t, 0, d.Remaining)
}

func TestWindowRolloverStartsFreshWindow(t *testing.T) {
	l := newTestLimiter(map[string]Tier{
		"auth": {Window: 15 * time.Minute, Max: 20},
	})
	defer l.Close()

	now := time.Now()
	for i := 0; i < 25; i++ {
		l.AllowAt("auth", "trainee-1", now)
	}

	later := now.Add(15*time.Minute + time.Second)
	d := l.AllowAt("auth", "trainee-1", later)
	require.True(t, d.Allowed, "first request of the fresh window must be admitted")
	assert.Equal(t, 19, d.Remaining, "fresh window counts this request as the first")
	assert.Equal(t, later.Add(15*time.Minute), d.ResetAt)
}

func TestKeysAreIndependent(t *testing.T) {
	l := newTestLimiter(map[string]Tier{
		"general": {Window: time.Minute, Max: 2},
	})
	defer l.Close()

	now := time.Now()
	l.AllowAt("general", "a", now)
	l.AllowAt("general", "a", now)
	assert.False(t, l.AllowAt("general", "a", now).Allowed)
	assert.True(t, l.AllowAt("general", "b", now).Allowed)
}

func TestTiersAreIndependent(t *testing.T) {
	l := newTestLimiter(map[string]Tier{
		"general":   {Window: time.Minute, Max: 1},
		"intensive": {Window: time.Minute, Max: 1},
	})
	defer l.Close()

	now := time.Now()
	assert.True(t, l.AllowAt("general", "a", now).Allowed)
	assert.False(t, l.AllowAt("general", "a", now).Allowed)

	// Same key, different tier: its own window
	assert.True(t, l.AllowAt("intensive", "a", now).Allowed)
}

func TestUnknownTierAdmits(t *testing.T) {
	l := newTestLimiter(map[string]Tier{})
	defer l.Close()

	d := l.Allow("nonexistent", "a")
	assert.True(t, d.Allowed)
}

func TestConcurrentChecksAdmitExactlyMax(t *testing.T) {
	l := newTestLimiter(map[string]Tier{
		"general": {Window: time.Minute, Max: 100},
	})
	defer l.Close()

	now := time.Now()
	const callers = 500
	var admitted int64
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.AllowAt("general", "shared", now).Allowed {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(100), admitted,
		"interleaved checks must admit exactly the tier maximum")
}

func TestSweepRemovesStaleWindows(t *testing.T) {
	l := newTestLimiter(map[string]Tier{
		"general": {Window: time.Minute, Max: 10},
	})
	defer l.Close()

	now := time.Now()
	l.AllowAt("general", "stale", now.Add(-5*time.Minute))
	l.AllowAt("general", "fresh", now)

	l.sweep(now)

	l.mu.Lock()
	_, staleExists := l.windows["general"]["stale"]
	_, freshExists := l.windows["general"]["fresh"]
	l.mu.Unlock()

	assert.False(t, staleExists)
	assert.True(t, freshExists)
}

func TestCloseIsIdempotent(t *testing.T) {
	l := newTestLimiter(DefaultTiers())
	l.Close()
	l.Close()
}
