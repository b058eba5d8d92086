// ============================================================================
// ember - Lexer, Parser und AST
// ============================================================================
//
// Package:     astview
// Description: Message types for async operations in the AST viewer
// Author:      Mike Stoffels
// Created:     2025-03-09
// License:     MIT
// ============================================================================

package astview

import (
	"github.com/msto63/ember/foundation/ember"
)

// Message types for tea.Cmd async operations

// parsedMsg is sent when the source has been (re)parsed
type parsedMsg struct {
	result *ember.Result
	err    error
}

// reloadMsg requests a fresh parse of the source
type reloadMsg struct{}
