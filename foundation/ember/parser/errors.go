// File: errors.go
// Title: Ember Front End Errors
// Description: Lexical and syntax error types. Both are terminal for a parse
//              and expose the platform error code of their kind.
// Author: msto63
// Version: v0.1.0
// Created: 2025-03-04
// Modified: 2025-03-04
//
// Change History:
// - 2025-03-04 v0.1.0: Initial error types

package parser

import (
	"fmt"
	"strings"

	mdwerror "github.com/msto63/ember/foundation/core/error"
)

// LexError reports input the lexer cannot turn into a token
type LexError struct {
	Offset  int
	Line    int
	Column  int
	Snippet string // offending text, at most a few bytes
	Reason  string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lex error at line %d, column %d: %s (near %q)",
		e.Line, e.Column, e.Reason, e.Snippet)
}

// Code returns the platform error code for lexical errors
func (e *LexError) Code() mdwerror.Code {
	return mdwerror.CodeLexical
}

// SyntaxError reports a token no production accepts at the current position
type SyntaxError struct {
	Found    Token
	Expected []string
	Reason   string
}

func (e *SyntaxError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "syntax error at line %d, column %d: ", e.Found.Line, e.Found.Column)
	if e.Reason != "" {
		b.WriteString(e.Reason)
	} else {
		fmt.Fprintf(&b, "unexpected %s", e.Found.Describe())
	}
	if len(e.Expected) > 0 {
		fmt.Fprintf(&b, " (expected %s)", strings.Join(e.Expected, ", "))
	}
	return b.String()
}

// Code returns the platform error code for syntax errors
func (e *SyntaxError) Code() mdwerror.Code {
	return mdwerror.CodeSyntax
}

// Offset returns the byte offset of the offending token
func (e *SyntaxError) Offset() int {
	return e.Found.Offset
}

const maxSnippet = 12

func snippetAt(input string, offset int) string {
	end := offset + maxSnippet
	if end > len(input) {
		end = len(input)
	}
	if i := strings.IndexByte(input[offset:end], '\n'); i > 0 {
		end = offset + i
	}
	return input[offset:end]
}
