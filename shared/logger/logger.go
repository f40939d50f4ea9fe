// Copyright 2026 SpeakWise
// SPDX-License-Identifier: BUSL-1.1

package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// LogLevel represents the severity of a log entry
type LogLevel string

const (
	DEBUG LogLevel = "DEBUG"
	INFO  LogLevel = "INFO"
	WARN  LogLevel = "WARN"
	ERROR LogLevel = "ERROR"
	FATAL LogLevel = "FATAL"
)

// levelRank orders levels for minimum-level filtering
var levelRank = map[LogLevel]int{
	DEBUG: 0,
	INFO:  1,
	WARN:  2,
	ERROR: 3,
	FATAL: 4,
}

// Logger provides structured leveled logging for SpeakWise components
type Logger struct {
	Component  string
	InstanceID string
	Container  string

	mu       sync.Mutex
	out      io.Writer
	minLevel LogLevel
}

// LogEntry represents a structured log entry
type LogEntry struct {
	Timestamp  string                 `json:"timestamp"`
	Level      LogLevel               `json:"level"`
	Component  string                 `json:"component"`
	InstanceID string                 `json:"instance_id"`
	Container  string                 `json:"container"`
	ActorID    string                 `json:"actor_id,omitempty"`
	RequestID  string                 `json:"request_id,omitempty"`
	Message    string                 `json:"message"`
	Fields     map[string]interface{} `json:"fields,omitempty"`
}

// New creates a new Logger for the specified component, writing JSON lines
// to stdout. The minimum level is taken from LOG_LEVEL (default INFO).
func New(component string) *Logger {
	return NewWithWriter(component, os.Stdout)
}

// NewWithWriter creates a Logger writing to the given writer. Used by tests
// and by the supervisor to redirect output.
func NewWithWriter(component string, out io.Writer) *Logger {
	instanceID := os.Getenv("INSTANCE_ID")
	if instanceID == "" {
		instanceID = "unknown"
	}

	container, err := os.Hostname()
	if err != nil {
		container = "unknown"
	}

	return &Logger{
		Component:  component,
		InstanceID: instanceID,
		Container:  container,
		out:        out,
		minLevel:   ParseLevel(os.Getenv("LOG_LEVEL")),
	}
}

// ParseLevel converts a level name to a LogLevel, defaulting to INFO
func ParseLevel(s string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return DEBUG
	case "WARN":
		return WARN
	case "ERROR":
		return ERROR
	case "FATAL":
		return FATAL
	default:
		return INFO
	}
}

// SetMinLevel overrides the minimum level emitted
func (l *Logger) SetMinLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.minLevel = level
}

// Log creates a structured log entry and writes it as a single JSON line
func (l *Logger) Log(level LogLevel, actorID, requestID, message string, fields map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if levelRank[level] < levelRank[l.minLevel] {
		return
	}

	entry := LogEntry{
		Timestamp:  time.Now().UTC().Format(time.RFC3339Nano),
		Level:      level,
		Component:  l.Component,
		InstanceID: l.InstanceID,
		Container:  l.Container,
		ActorID:    actorID,
		RequestID:  requestID,
		Message:    message,
		Fields:     fields,
	}

	jsonBytes, err := json.Marshal(entry)
	if err != nil {
		// Fallback to plain text if JSON marshaling fails
		fmt.Fprintf(l.out, "ERROR: failed to marshal log entry: %v\n", err)
		return
	}

	fmt.Fprintln(l.out, string(jsonBytes))
}

// Sync flushes buffered output to stable storage where the underlying
// writer supports it. The fault supervisor awaits this before exiting.
func (l *Logger) Sync() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if f, ok := l.out.(*os.File); ok {
		if err := f.Sync(); err != nil {
			// stdout refuses Sync on some platforms; not a failure
			if !strings.Contains(err.Error(), "invalid argument") {
				return err
			}
		}
	}
	return nil
}

// Debug logs a debug message
func (l *Logger) Debug(actorID, requestID, message string, fields map[string]interface{}) {
	l.Log(DEBUG, actorID, requestID, message, fields)
}

// Info logs an informational message
func (l *Logger) Info(actorID, requestID, message string, fields map[string]interface{}) {
	l.Log(INFO, actorID, requestID, message, fields)
}

// Warn logs a warning message
func (l *Logger) Warn(actorID, requestID, message string, fields map[string]interface{}) {
	l.Log(WARN, actorID, requestID, message, fields)
}

// Error logs an error message
func (l *Logger) Error(actorID, requestID, message string, fields map[string]interface{}) {
	l.Log(ERROR, actorID, requestID, message, fields)
}

// Fatal logs a fatal message. It does not exit the process; process
// termination is owned by the fault supervisor so log output can be
// flushed first.
func (l *Logger) Fatal(actorID, requestID, message string, fields map[string]interface{}) {
	l.Log(FATAL, actorID, requestID, message, fields)
}

// InfoWithDuration logs an info message with a duration field
func (l *Logger) InfoWithDuration(actorID, requestID, message string, durationMS float64, fields map[string]interface{}) {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	fields["duration_ms"] = durationMS
	l.Info(actorID, requestID, message, fields)
}

// ErrorWithCode logs an error with a status code
func (l *Logger) ErrorWithCode(actorID, requestID, message string, statusCode int, err error, fields map[string]interface{}) {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	fields["status_code"] = statusCode
	if err != nil {
		fields["error"] = err.Error()
	}
	l.Error(actorID, requestID, message, fields)
}
