// File: level.go
// Title: Log Levels
// Description: Defines log levels, their textual forms and parsing from
//              configuration strings.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2025-03-10
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation
// - 2025-03-10 v0.2.0: Level names kept in one table

package log

import (
	"strings"
)

// Level represents the importance level of a log message
type Level int

const (
	// LevelTrace logs every token the lexer produces
	LevelTrace Level = iota

	// LevelDebug logs parse start/finish with counts and timings
	LevelDebug

	// LevelInfo represents general informational messages
	LevelInfo

	// LevelWarn indicates rejected input
	LevelWarn

	// LevelError represents failures of the tool itself
	LevelError

	// LevelFatal represents errors that terminate the program
	LevelFatal

	// LevelAudit is always logged regardless of the minimum level
	LevelAudit
)

// levelNames holds the canonical name, the tag used by the text formats and
// the accepted aliases of each level, indexed by Level
var levelNames = [...]struct {
	name    string
	short   string
	aliases []string
}{
	LevelTrace: {"trace", "TRC", []string{"trc"}},
	LevelDebug: {"debug", "DBG", []string{"dbg"}},
	LevelInfo:  {"info", "INF", []string{"inf", "information"}},
	LevelWarn:  {"warn", "WRN", []string{"wrn", "warning"}},
	LevelError: {"error", "ERR", []string{"err"}},
	LevelFatal: {"fatal", "FTL", []string{"ftl"}},
	LevelAudit: {"audit", "AUD", []string{"aud"}},
}

func (l Level) valid() bool {
	return l >= LevelTrace && int(l) < len(levelNames)
}

// String returns the string representation of the log level
func (l Level) String() string {
	if !l.valid() {
		return "unknown"
	}
	return levelNames[l].name
}

// ShortString returns the three letter tag of the log level
func (l Level) ShortString() string {
	if !l.valid() {
		return "???"
	}
	return levelNames[l].short
}

// ShouldLog returns true if this level should be logged given the minimum level
func (l Level) ShouldLog(minLevel Level) bool {
	if l == LevelAudit {
		return true
	}
	return l >= minLevel
}

// ParseLevel parses a level name or one of its aliases, ignoring case
func ParseLevel(level string) (Level, error) {
	input := strings.ToLower(strings.TrimSpace(level))
	for i, names := range levelNames {
		if input == names.name {
			return Level(i), nil
		}
		for _, alias := range names.aliases {
			if input == alias {
				return Level(i), nil
			}
		}
	}
	return LevelInfo, &ParseError{Input: level, Type: "level"}
}

// ParseError represents an error parsing a log configuration value
type ParseError struct {
	Input string
	Type  string
}

// Error implements the error interface
func (e *ParseError) Error() string {
	return "invalid " + e.Type + ": " + e.Input
}

// DefaultLevel returns the default log level
func DefaultLevel() Level {
	return LevelInfo
}
