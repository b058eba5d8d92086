// File: timer.go
// Title: Performance Timer
// Description: Measures the duration of an operation such as a parse and
//              logs it once on stop.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2025-03-10
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation
// - 2025-03-10 v0.2.0: Duration travels on the entry, shared finish path

package log

import (
	"time"
)

// Timer measures one operation. It is not safe for concurrent use.
type Timer struct {
	logger    *Logger
	operation string
	start     time.Time
	fields    Fields
	done      bool
}

// StartTimer creates and starts a new performance timer
func (l *Logger) StartTimer(operation string) *Timer {
	return &Timer{
		logger:    l,
		operation: operation,
		start:     time.Now(),
		fields:    Fields{"operation": operation},
	}
}

// WithField adds a field to be logged when the timer completes
func (t *Timer) WithField(key string, value interface{}) *Timer {
	t.fields[key] = value
	return t
}

// Stop logs the completed operation at debug level and returns its
// duration. Subsequent calls return 0.
func (t *Timer) Stop() time.Duration {
	return t.finish(LevelDebug, " completed", nil)
}

// StopWithError logs the failed operation at warn level
func (t *Timer) StopWithError(err error) time.Duration {
	return t.finish(LevelWarn, " failed", err)
}

func (t *Timer) finish(level Level, suffix string, err error) time.Duration {
	if t.done {
		return 0
	}
	t.done = true

	elapsed := time.Since(t.start)
	if t.logger != nil {
		t.logger.emit(level, t.operation+suffix, err, elapsed, t.fields)
	}
	return elapsed
}
