// File: token.go
// Title: Ember Tokens
// Description: Token kinds, the operator literal table and the keyword list
//              of the ember language.
// Author: msto63
// Version: v0.1.0
// Created: 2025-03-04
// Modified: 2025-03-04
//
// Change History:
// - 2025-03-04 v0.1.0: Initial token model

package parser

import (
	"fmt"
	"sort"
)

// TokenKind represents the category of a lexical token
type TokenKind int

const (
	// TokenEOF marks the end of input
	TokenEOF TokenKind = iota

	// TokenOperator is punctuation; Text holds the exact literal
	TokenOperator

	// TokenKeyword is a reserved word; Text holds the keyword
	TokenKeyword

	TokenIdentifier // foo, _bar2
	TokenString     // "text", 'text'
	TokenNumber     // 42, .5, 5., 1e10, 0x1F
)

// String returns a string representation of the token kind
func (k TokenKind) String() string {
	switch k {
	case TokenEOF:
		return "EOF"
	case TokenOperator:
		return "OPERATOR"
	case TokenKeyword:
		return "KEYWORD"
	case TokenIdentifier:
		return "IDENTIFIER"
	case TokenString:
		return "STRING"
	case TokenNumber:
		return "NUMBER"
	default:
		return "UNKNOWN"
	}
}

// ParseTokenKind is the inverse of TokenKind.String
func ParseTokenKind(s string) (TokenKind, bool) {
	for k := TokenEOF; k <= TokenNumber; k++ {
		if k.String() == s {
			return k, true
		}
	}
	return TokenEOF, false
}

// Token is a lexical token with its raw text and source position
type Token struct {
	Kind   TokenKind
	Text   string // raw lexeme; strings keep their quotes
	Offset int    // byte offset (0-based)
	Line   int    // 1-based
	Column int    // 1-based, in bytes
}

// Is reports whether the token is the operator or keyword literal lit
func (t Token) Is(lit string) bool {
	return (t.Kind == TokenOperator || t.Kind == TokenKeyword) && t.Text == lit
}

// Describe returns the token as it appears in error messages
func (t Token) Describe() string {
	switch t.Kind {
	case TokenEOF:
		return "end of input"
	case TokenOperator, TokenKeyword:
		return fmt.Sprintf("%q", t.Text)
	default:
		return fmt.Sprintf("%s %s", t.Kind, t.Text)
	}
}

// String returns a string representation of the token
func (t Token) String() string {
	switch t.Kind {
	case TokenEOF:
		return "EOF"
	case TokenOperator, TokenKeyword:
		return t.Text
	default:
		return fmt.Sprintf("%s(%s)", t.Kind, t.Text)
	}
}

// operators lists every punctuation literal, longest first so the lexer can
// take the first prefix match. The statement terminator ";" is included.
var operators = func() []string {
	ops := []string{
		",", "?", "=", "+=", "-=", "*=", "/=", "%=", "<<=", ">>=", "&=", "^=", "|=",
		"||", "&&", "|", "^", "&", "==", "!=", "<", "<=", ">", ">=", "<<", ">>",
		"+", "-", "*", "/", "%", "++", "--", "!", "~", ":", "(", ")", "[", "]",
		"{", "}", ".", ";",
	}
	sort.SliceStable(ops, func(i, j int) bool { return len(ops[i]) > len(ops[j]) })
	return ops
}()

var keywords = map[string]bool{
	"break":    true,
	"call":     true,
	"continue": true,
	"do":       true,
	"else":     true,
	"for":      true,
	"if":       true,
	"return":   true,
	"var":      true,
	"void":     true,
	"while":    true,
}

// Operators returns the operator literal table, longest literals first
func Operators() []string {
	out := make([]string, len(operators))
	copy(out, operators)
	return out
}

// IsKeyword reports whether s is a reserved word
func IsKeyword(s string) bool {
	return keywords[s]
}

// IsValidIdentifier reports whether s lexes as a single identifier
func IsValidIdentifier(s string) bool {
	if s == "" || IsKeyword(s) || !isIdentStart(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isIdentPart(s[i]) {
			return false
		}
	}
	return true
}

func isIdentStart(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || 'a' <= ch && ch <= 'f' || 'A' <= ch && ch <= 'F'
}
