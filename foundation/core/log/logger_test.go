// File: logger_test.go
// Title: Logger Tests
// Description: Tests for logger construction, level filtering, contextual
//              fields, error integration and timers.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2025-03-02
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation
// - 2025-03-02 v0.2.0: LogError severity mapping, timer output

package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	mdwerror "github.com/msto63/ember/foundation/core/error"
)

type codedError struct{}

func (codedError) Error() string       { return "unexpected token" }
func (codedError) Code() mdwerror.Code { return mdwerror.CodeSyntax }

func newBufferLogger(level Level) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewWithConfig(Config{Level: level, Format: FormatJSON, Output: &buf}), &buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var entries []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]interface{}
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("invalid JSON log line %q: %v", line, err)
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestNew(t *testing.T) {
	logger := New()

	if logger == nil {
		t.Fatal("New() should not return nil")
	}
	if logger.GetLevel() != DefaultLevel() {
		t.Errorf("New() level = %v, want %v", logger.GetLevel(), DefaultLevel())
	}
	if logger.contextFields == nil {
		t.Error("New() should initialize context fields")
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	logger, buf := newBufferLogger(LevelWarn)

	logger.Debug("hidden")
	logger.Info("hidden")
	logger.Warn("shown")
	logger.Error("shown")
	logger.Audit("always")

	entries := decodeLines(t, buf)
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3: %s", len(entries), buf.String())
	}
	for i, want := range []string{"warn", "error", "audit"} {
		if entries[i]["level"] != want {
			t.Errorf("entry %d level = %v, want %s", i, entries[i]["level"], want)
		}
	}
}

func TestLogger_WithMethodsDoNotMutate(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo)

	child := logger.WithField("component", "ember-parser").WithRequestID("req-42").WithName("ember")
	if child == logger {
		t.Fatal("WithField() should return a new logger instance")
	}

	child.Info("parsed", Fields{"statements": 3})
	logger.Info("plain")

	entries := decodeLines(t, buf)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}

	first := entries[0]
	if first["component"] != "ember-parser" || first["request_id"] != "req-42" || first["logger"] != "ember" {
		t.Errorf("child context missing: %v", first)
	}
	if first["statements"] != float64(3) {
		t.Errorf("statements = %v, want 3", first["statements"])
	}

	second := entries[1]
	if _, ok := second["component"]; ok {
		t.Error("parent logger picked up child field")
	}
}

func TestLogger_LogError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantLevel string
		wantCode  interface{}
	}{
		{
			name:      "structured low severity",
			err:       mdwerror.New("bad input").WithCode(mdwerror.CodeLexical).WithDetail("offset", 3),
			wantLevel: "warn",
			wantCode:  "LEXICAL",
		},
		{
			name:      "structured high severity",
			err:       mdwerror.New("db").WithCode(mdwerror.CodeStorageError),
			wantLevel: "error",
			wantCode:  "STORAGE_ERROR",
		},
		{
			name:      "coder",
			err:       fmt.Errorf("parse: %w", codedError{}),
			wantLevel: "warn",
			wantCode:  "SYNTAX",
		},
		{
			name:      "plain",
			err:       errors.New("boom"),
			wantLevel: "error",
			wantCode:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := newBufferLogger(LevelDebug)
			logger.LogError(tt.err)

			entries := decodeLines(t, buf)
			if len(entries) != 1 {
				t.Fatalf("got %d entries, want 1", len(entries))
			}
			if entries[0]["level"] != tt.wantLevel {
				t.Errorf("level = %v, want %s", entries[0]["level"], tt.wantLevel)
			}
			if entries[0]["error_code"] != tt.wantCode {
				t.Errorf("error_code = %v, want %v", entries[0]["error_code"], tt.wantCode)
			}
		})
	}

	logger, buf := newBufferLogger(LevelDebug)
	logger.LogError(nil)
	if buf.Len() != 0 {
		t.Error("LogError(nil) should not log")
	}
}

func TestLogger_LogErrorDetails(t *testing.T) {
	logger, buf := newBufferLogger(LevelDebug)
	logger.LogError(mdwerror.New("bad").WithCode(mdwerror.CodeSyntax).WithDetail("line", 2).WithOperation("parse"))

	entry := decodeLines(t, buf)[0]
	if entry["error_line"] != float64(2) {
		t.Errorf("error_line = %v, want 2", entry["error_line"])
	}
	if entry["error_operation"] != "parse" {
		t.Errorf("error_operation = %v, want parse", entry["error_operation"])
	}
	if _, ok := entry["error_details"]; !ok {
		t.Error("structured error should be embedded as error_details")
	}
}

func TestTimer(t *testing.T) {
	logger, buf := newBufferLogger(LevelDebug)

	timer := logger.StartTimer("parse").WithField("file", "a.em")
	if timer.Stop() < 0 {
		t.Error("Stop() should not return a negative duration")
	}
	if timer.Stop() != 0 {
		t.Error("second Stop() should return 0")
	}

	failed := logger.StartTimer("tokenize")
	failed.StopWithError(errors.New("unterminated string"))

	entries := decodeLines(t, buf)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0]["message"] != "parse completed" || entries[0]["file"] != "a.em" {
		t.Errorf("unexpected timer entry: %v", entries[0])
	}
	if _, ok := entries[0]["duration_ms"]; !ok {
		t.Error("timer entry should carry duration_ms")
	}
	if entries[1]["message"] != "tokenize failed" || entries[1]["level"] != "warn" {
		t.Errorf("unexpected failure entry: %v", entries[1])
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{"trace", LevelTrace, false},
		{"DEBUG", LevelDebug, false},
		{" info ", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"err", LevelError, false},
		{"loud", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewNop(t *testing.T) {
	logger := NewNop()
	logger.Error("discarded")
	if logger.IsLevelEnabled(LevelError) {
		t.Error("nop logger should not enable error level")
	}
}
