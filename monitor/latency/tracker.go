// Copyright 2026 SpeakWise
// SPDX-License-Identifier: BUSL-1.1

package latency

import (
	"sort"
	"sync"
	"time"

	"speakwise/platform/shared/logger"
)

// DefaultHistorySize is the per-bucket sample cap. Once a bucket holds this
// many samples the oldest is evicted on each append.
const DefaultHistorySize = 500

// Tracker records operation durations into named buckets with bounded
// history and computes aggregate statistics on demand.
type Tracker struct {
	mu       sync.Mutex
	buckets  map[string]*bucket
	capacity int
	log      *logger.Logger
}

// bucket is a fixed-capacity ring of duration samples in milliseconds.
// head indexes the oldest sample; count is the number of live samples.
type bucket struct {
	samples []int64
	head    int
	count   int
	last    int64
}

// BucketSummary holds aggregate statistics for one bucket. All duration
// fields are milliseconds. An empty bucket summarizes to all zeros.
type BucketSummary struct {
	Count int   `json:"count"`
	Avg   int64 `json:"avg"`
	Min   int64 `json:"min"`
	Max   int64 `json:"max"`
	P95   int64 `json:"p95"`
	Last  int64 `json:"last"`
}

// New creates a Tracker with the default per-bucket history size. The
// logger receives one DEBUG entry per recorded sample; it may be nil.
func New(log *logger.Logger) *Tracker {
	return NewWithCapacity(log, DefaultHistorySize)
}

// NewWithCapacity creates a Tracker with a custom per-bucket history size
func NewWithCapacity(log *logger.Logger, capacity int) *Tracker {
	if capacity <= 0 {
		capacity = DefaultHistorySize
	}
	return &Tracker{
		buckets:  make(map[string]*bucket),
		capacity: capacity,
		log:      log,
	}
}

// Declare pre-creates buckets so they appear in Summary before any sample
// is recorded. Buckets not declared here are still created lazily on first
// use.
func (t *Tracker) Declare(names ...string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, name := range names {
		if _, ok := t.buckets[name]; !ok {
			t.buckets[name] = &bucket{samples: make([]int64, t.capacity)}
		}
	}
}

// Start captures a start instant and returns a stop function. Invoking the
// stop function computes the elapsed milliseconds, records it into the
// bucket, and returns the elapsed value. Each invocation records
// independently; there is no guard against calling stop more than once.
func (t *Tracker) Start(bucketName string, meta map[string]interface{}) func() int64 {
	start := time.Now()
	return func() int64 {
		elapsed := time.Since(start).Milliseconds()
		t.Record(bucketName, elapsed, meta)
		return elapsed
	}
}

// Record inserts an externally timed duration into a bucket. Negative
// values are clamped to zero.
func (t *Tracker) Record(bucketName string, ms int64, meta map[string]interface{}) {
	if ms < 0 {
		ms = 0
	}

	t.mu.Lock()
	b, ok := t.buckets[bucketName]
	if !ok {
		b = &bucket{samples: make([]int64, t.capacity)}
		t.buckets[bucketName] = b
	}
	b.push(ms, t.capacity)
	t.mu.Unlock()

	if t.log != nil {
		fields := map[string]interface{}{
			"bucket":   bucketName,
			"value_ms": ms,
		}
		for k, v := range meta {
			fields[k] = v
		}
		t.log.Debug("", "", "Latency sample recorded", fields)
	}
}

// push appends a sample, evicting the oldest once the ring is full
func (b *bucket) push(ms int64, capacity int) {
	if b.count == capacity {
		b.samples[b.head] = ms
		b.head = (b.head + 1) % capacity
	} else {
		b.samples[(b.head+b.count)%capacity] = ms
		b.count++
	}
	b.last = ms
}

// snapshot copies the live samples in recording order. Caller holds the lock.
func (b *bucket) snapshot(capacity int) []int64 {
	out := make([]int64, b.count)
	for i := 0; i < b.count; i++ {
		out[i] = b.samples[(b.head+i)%capacity]
	}
	return out
}

// Summary returns aggregate statistics per bucket, computed from an
// immutable snapshot taken under the tracker lock. Avg is the integer mean;
// P95 is the nearest-rank percentile (index floor(count*0.95) of the
// ascending-sorted snapshot, clamped to count-1); Last is the most recently
// recorded raw value.
func (t *Tracker) Summary() map[string]BucketSummary {
	type snap struct {
		samples []int64
		last    int64
	}

	t.mu.Lock()
	snaps := make(map[string]snap, len(t.buckets))
	for name, b := range t.buckets {
		snaps[name] = snap{samples: b.snapshot(t.capacity), last: b.last}
	}
	t.mu.Unlock()

	out := make(map[string]BucketSummary, len(snaps))
	for name, s := range snaps {
		if len(s.samples) == 0 {
			out[name] = BucketSummary{}
			continue
		}

		sorted := s.samples
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

		var sum int64
		for _, v := range sorted {
			sum += v
		}

		idx := len(sorted) * 95 / 100
		if idx >= len(sorted) {
			idx = len(sorted) - 1
		}

		out[name] = BucketSummary{
			Count: len(sorted),
			Avg:   sum / int64(len(sorted)),
			Min:   sorted[0],
			Max:   sorted[len(sorted)-1],
			P95:   sorted[idx],
			Last:  s.last,
		}
	}
	return out
}

// Reset clears all bucket histories. Bucket identities are kept so they
// continue to appear in Summary with zeroed statistics.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, b := range t.buckets {
		b.head = 0
		b.count = 0
		b.last = 0
	}
}
