// Copyright 2026 SpeakWise
// SPDX-License-Identifier: BUSL-1.1

package usage

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnseenActorReturnsZerosWithoutAllocating(t *testing.T) {
	acct := NewAccountant()

	stats := acct.UserStats("ghost")
	assert.Equal(t, ActorStats{}, stats)

	// The read must not have created a ledger entry
	global := acct.GlobalStats()
	assert.Equal(t, 0, global.ActiveActors)
}

func TestCallLifecycleCounters(t *testing.T) {
	acct := NewAccountant()

	acct.TrackCallStart("trainee-1")
	acct.TrackCallStart("trainee-1")
	acct.TrackCallEnd("trainee-1")
	acct.TrackCallStart("trainee-2")

	s1 := acct.UserStats("trainee-1")
	assert.Equal(t, int64(2), s1.CallsStarted)
	assert.Equal(t, int64(1), s1.CallsCompleted)

	global := acct.GlobalStats()
	assert.Equal(t, int64(3), global.CallsStarted)
	assert.Equal(t, int64(1), global.CallsCompleted)
	assert.Equal(t, 2, global.ActiveActors)
}

func TestResourceUsageSecondsToMinutes(t *testing.T) {
	acct := NewAccountant()

	acct.TrackResourceUsage("trainee-1", 120)

	assert.InDelta(t, 2.0, acct.UserStats("trainee-1").ResourceMinutesConsumed, 1e-9)
	assert.InDelta(t, 2.0, acct.GlobalStats().ResourceMinutesConsumed, 1e-9)
}

func TestGlobalMinutesRoundedToTwoDecimals(t *testing.T) {
	acct := NewAccountant()

	// 10 seconds = 0.1666... minutes
	acct.TrackResourceUsage("trainee-1", 10)

	global := acct.GlobalStats()
	assert.Equal(t, 0.17, global.ResourceMinutesConsumed)

	// Per-actor snapshot keeps full precision
	assert.InDelta(t, 10.0/60.0, acct.UserStats("trainee-1").ResourceMinutesConsumed, 1e-9)
}

func TestModelRequestCounters(t *testing.T) {
	acct := NewAccountant()

	acct.TrackLLM("trainee-1")
	acct.TrackLLM("trainee-1")
	acct.TrackTTS("trainee-1")

	stats := acct.UserStats("trainee-1")
	assert.Equal(t, int64(2), stats.LLMRequests)
	assert.Equal(t, int64(1), stats.TTSRequests)
}

func TestTrackErrorIsGlobalOnly(t *testing.T) {
	acct := NewAccountant()

	acct.TrackError()
	acct.TrackError()

	global := acct.GlobalStats()
	assert.Equal(t, int64(2), global.ErrorCount)
	assert.Equal(t, 0, global.ActiveActors, "errors must not create actor records")
}

func TestReset(t *testing.T) {
	acct := NewAccountant()

	acct.TrackCallStart("trainee-1")
	acct.TrackResourceUsage("trainee-1", 60)
	acct.TrackError()

	acct.Reset()

	global := acct.GlobalStats()
	assert.Equal(t, int64(0), global.CallsStarted)
	assert.Equal(t, 0.0, global.ResourceMinutesConsumed)
	assert.Equal(t, int64(0), global.ErrorCount)
	assert.Equal(t, 0, global.ActiveActors)
	assert.Equal(t, ActorStats{}, acct.UserStats("trainee-1"))
}

func TestConcurrentIncrementsLoseNoUpdates(t *testing.T) {
	acct := NewAccountant()

	const n = 10000
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			acct.TrackCallStart("trainee-1")
		}()
	}
	wg.Wait()

	require.Equal(t, int64(n), acct.UserStats("trainee-1").CallsStarted)
	require.Equal(t, int64(n), acct.GlobalStats().CallsStarted)
}

func TestConcurrentMixedOperations(t *testing.T) {
	acct := NewAccountant()

	const actors = 8
	const perActor = 500
	var wg sync.WaitGroup
	for a := 0; a < actors; a++ {
		wg.Add(1)
		go func(a int) {
			defer wg.Done()
			id := fmt.Sprintf("trainee-%d", a)
			for i := 0; i < perActor; i++ {
				acct.TrackCallStart(id)
				acct.TrackLLM(id)
				acct.TrackTTS(id)
				acct.TrackResourceUsage(id, 6)
				acct.TrackCallEnd(id)
				acct.TrackError()
			}
		}(a)
	}
	wg.Wait()

	global := acct.GlobalStats()
	assert.Equal(t, int64(actors*perActor), global.CallsStarted)
	assert.Equal(t, int64(actors*perActor), global.CallsCompleted)
	assert.Equal(t, int64(actors*perActor), global.LLMRequests)
	assert.Equal(t, int64(actors*perActor), global.TTSRequests)
	assert.Equal(t, int64(actors*perActor), global.ErrorCount)
	assert.Equal(t, actors, global.ActiveActors)
	assert.InDelta(t, float64(actors*perActor)*0.1, global.ResourceMinutesConsumed, 0.01)
}
