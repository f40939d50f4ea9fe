// Copyright 2026 SpeakWise
// SPDX-License-Identifier: BUSL-1.1

package latency

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummaryPercentileLaw(t *testing.T) {
	tr := New(nil)

	// 100 samples with values 1..100 recorded in order
	for v := int64(1); v <= 100; v++ {
		tr.Record("stt", v, nil)
	}

	s := tr.Summary()["stt"]
	assert.Equal(t, 100, s.Count)
	assert.Equal(t, int64(50), s.Avg)
	assert.Equal(t, int64(1), s.Min)
	assert.Equal(t, int64(100), s.Max)
	assert.Equal(t, int64(96), s.P95, "nearest-rank p95 of 1..100 is the value at sorted index 95")
	assert.Equal(t, int64(100), s.Last)
}

func TestEmptyBucketSummarizesToZeros(t *testing.T) {
	tr := New(nil)
	tr.Declare("tts")

	s, ok := tr.Summary()["tts"]
	require.True(t, ok, "declared bucket must appear in summary")
	assert.Equal(t, BucketSummary{}, s)
}

func TestHistoryCapAndEvictionOrder(t *testing.T) {
	tr := NewWithCapacity(nil, 500)

	// 600 samples: after recording, only the most recent 500 remain and the
	// first recorded samples are the ones evicted.
	for v := int64(1); v <= 600; v++ {
		tr.Record("llm", v, nil)
	}

	s := tr.Summary()["llm"]
	assert.Equal(t, 500, s.Count)
	assert.Equal(t, int64(101), s.Min, "samples 1..100 evicted oldest-first")
	assert.Equal(t, int64(600), s.Max)
	assert.Equal(t, int64(600), s.Last)
}

func TestLastIsMostRecentNotMaximum(t *testing.T) {
	tr := New(nil)
	tr.Record("fb", 900, nil)
	tr.Record("fb", 10, nil)

	s := tr.Summary()["fb"]
	assert.Equal(t, int64(900), s.Max)
	assert.Equal(t, int64(10), s.Last)
}

func TestNegativeRecordClampedToZero(t *testing.T) {
	tr := New(nil)
	tr.Record("b", -5, nil)

	s := tr.Summary()["b"]
	assert.Equal(t, int64(0), s.Min)
	assert.Equal(t, int64(0), s.Last)
}

func TestStartStopRecordsElapsed(t *testing.T) {
	tr := New(nil)

	stop := tr.Start("stage", map[string]interface{}{"session": "s1"})
	time.Sleep(5 * time.Millisecond)
	elapsed := stop()

	require.GreaterOrEqual(t, elapsed, int64(5))

	s := tr.Summary()["stage"]
	assert.Equal(t, 1, s.Count)
	assert.Equal(t, elapsed, s.Last)
}

func TestDoubleStopRecordsIndependently(t *testing.T) {
	tr := New(nil)

	stop := tr.Start("stage", nil)
	stop()
	stop()

	assert.Equal(t, 2, tr.Summary()["stage"].Count)
}

func TestResetClearsHistoryKeepsIdentities(t *testing.T) {
	tr := New(nil)
	tr.Record("a", 10, nil)
	tr.Record("b", 20, nil)

	tr.Reset()

	summary := tr.Summary()
	require.Len(t, summary, 2)
	assert.Equal(t, BucketSummary{}, summary["a"])
	assert.Equal(t, BucketSummary{}, summary["b"])

	// Buckets stay usable after reset
	tr.Record("a", 7, nil)
	assert.Equal(t, 1, tr.Summary()["a"].Count)
}

func TestConcurrentAppenders(t *testing.T) {
	tr := NewWithCapacity(nil, 100)

	var wg sync.WaitGroup
	const writers = 20
	const perWriter = 50

	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				tr.Record("shared", int64(i), nil)
				tr.Record(fmt.Sprintf("own-%d", w), int64(i), nil)
			}
		}(w)
	}

	// Concurrent readers must never observe a torn snapshot
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			default:
				for _, s := range tr.Summary() {
					if s.Count > 0 && s.Max < s.Min {
						t.Error("torn snapshot: max < min")
						return
					}
				}
			}
		}
	}()

	wg.Wait()
	close(done)

	s := tr.Summary()["shared"]
	assert.Equal(t, 100, s.Count, "history capped at capacity under concurrency")
	for w := 0; w < writers; w++ {
		assert.Equal(t, perWriter, tr.Summary()[fmt.Sprintf("own-%d", w)].Count)
	}
}
