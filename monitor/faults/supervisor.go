// Copyright 2026 SpeakWise
// SPDX-License-Identifier: BUSL-1.1

package faults

import (
	"fmt"
	"os"
	"runtime/debug"
	"time"
)

// flushGrace is how long the supervisor waits after flushing logs before
// exiting, giving the fire-and-forget forwarder goroutine a chance to
// deliver the final fault.
const flushGrace = 500 * time.Millisecond

// osExit is swapped out by tests
var osExit = os.Exit

// Supervise runs the service main loop. A panic escaping the loop, or an
// error returned by it, is treated as an unrecoverable fault: the process
// is in an unknown state, so it is logged at fatal severity, captured with
// a fatal marker, and the process exits non-zero once logs are flushed.
func (m *Monitor) Supervise(run func() error) {
	defer func() {
		if r := recover(); r != nil {
			err := panicError(r)
			if m.log != nil {
				m.log.Fatal("", "", "Unrecoverable fault, terminating", map[string]interface{}{
					"error": err.Error(),
					"stack": string(debug.Stack()),
				})
			}
			m.Capture(err, map[string]interface{}{"fatal": true})
			m.exit(1)
		}
	}()

	if err := run(); err != nil {
		if m.log != nil {
			m.log.Fatal("", "", "Service terminated with error", map[string]interface{}{
				"error": err.Error(),
			})
		}
		m.Capture(err, map[string]interface{}{"fatal": true})
		m.exit(1)
	}
}

// Go launches fn on a goroutine supervised for unobserved failures: a
// panic is recovered, logged at error severity, and captured. The process
// keeps running.
func (m *Monitor) Go(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				err := panicError(r)
				if m.log != nil {
					m.log.Error("", "", "Unobserved asynchronous failure", map[string]interface{}{
						"error": err.Error(),
						"stack": string(debug.Stack()),
					})
				}
				m.Capture(err, nil)
			}
		}()
		fn()
	}()
}

// exit flushes logs, waits out the forwarding grace period, and terminates
func (m *Monitor) exit(code int) {
	if m.log != nil {
		_ = m.log.Sync()
	}
	time.Sleep(flushGrace)
	osExit(code)
}

// panicError normalizes a recovered panic value into an error
func panicError(r interface{}) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("panic: %v", r)
}
