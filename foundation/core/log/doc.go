// Package log provides structured logging for the ember front end.
//
// Package: log
// Title: ember Structured Logging
// Description: Leveled, structured logging with contextual fields, request
//
//	ids for parse traces, pluggable output formats and timers for
//	measuring lexing and parsing. Integrates with the structured
//	error package so that failures are logged with their code and
//	severity.
//
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2025-03-02
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with structured logging and error integration
// - 2025-03-02 v0.2.0: stderr default, lipgloss console formatter, async mode removed
//
// Usage:
//
//	logger := mdwlog.New().
//		WithLevel(mdwlog.LevelDebug).
//		WithFormat(mdwlog.FormatConsole).
//		WithField("component", "ember-parser")
//
//	timer := logger.StartTimer("parse")
//	prog, err := p.Parse(src)
//	if err != nil {
//		timer.StopWithError(err)
//		logger.LogError(err)
//	}
//	timer.Stop()
package log
