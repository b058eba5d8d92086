// File: lexer.go
// Title: Ember Lexical Analyzer (Tokenizer)
// Description: Converts ember source text into a stream of tokens. Operators
//              use longest match, comments and whitespace are skipped and
//              every token carries its byte offset, line and column.
// Author: msto63
// Version: v0.1.0
// Created: 2025-03-04
// Modified: 2025-03-04
//
// Change History:
// - 2025-03-04 v0.1.0: Initial lexer implementation

package parser

import (
	"strings"
)

// Lexer performs lexical analysis of ember source text
type Lexer struct {
	input  string
	pos    int // offset of the next unread byte
	line   int
	column int
}

// NewLexer creates a new lexer for the given input
func NewLexer(input string) *Lexer {
	return &Lexer{
		input:  input,
		line:   1,
		column: 1,
	}
}

// NextToken returns the next token from the input. After the EOF token every
// further call returns EOF again.
func (l *Lexer) NextToken() (Token, error) {
	if err := l.skipIgnored(); err != nil {
		return Token{}, err
	}

	tok := Token{Offset: l.pos, Line: l.line, Column: l.column}

	if l.pos >= len(l.input) {
		tok.Kind = TokenEOF
		return tok, nil
	}

	ch := l.input[l.pos]
	switch {
	case ch == '"' || ch == '\'':
		text, err := l.readString(ch)
		if err != nil {
			return Token{}, err
		}
		tok.Kind, tok.Text = TokenString, text
		return tok, nil

	case isDigit(ch) || ch == '.' && isDigit(l.peek(1)):
		text, err := l.readNumber()
		if err != nil {
			return Token{}, err
		}
		tok.Kind, tok.Text = TokenNumber, text
		return tok, nil

	case isIdentStart(ch):
		word := l.readWord()
		tok.Kind, tok.Text = TokenIdentifier, word
		if keywords[word] {
			tok.Kind = TokenKeyword
		}
		return tok, nil
	}

	for _, op := range operators {
		if strings.HasPrefix(l.input[l.pos:], op) {
			l.advance(len(op))
			tok.Kind, tok.Text = TokenOperator, op
			return tok, nil
		}
	}

	return Token{}, l.errorAt(l.pos, l.line, l.column, "unexpected character")
}

// Tokenize returns all tokens of the input, ending with a single EOF token
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == TokenEOF {
			return tokens, nil
		}
	}
}

// Tokenize is a convenience function that tokenizes a complete source text
func Tokenize(source string) ([]Token, error) {
	return NewLexer(source).Tokenize()
}

// skipIgnored skips whitespace, block comments and line comments
func (l *Lexer) skipIgnored() error {
	for l.pos < len(l.input) {
		rest := l.input[l.pos:]
		switch {
		case isSpace(rest[0]):
			l.advance(1)
		case strings.HasPrefix(rest, "/*"):
			end := strings.Index(rest[2:], "*/")
			if end < 0 {
				return l.errorAt(l.pos, l.line, l.column, "unterminated comment")
			}
			l.advance(end + 4)
		case strings.HasPrefix(rest, "//"):
			end := strings.IndexByte(rest, '\n')
			if end < 0 {
				end = len(rest)
			}
			l.advance(end)
		default:
			return nil
		}
	}
	return nil
}

// readString reads a quoted string literal, returning it with its quotes.
// A backslash escapes the byte that follows it, including the quote.
func (l *Lexer) readString(quote byte) (string, error) {
	start, line, column := l.pos, l.line, l.column
	i := l.pos + 1
	for {
		if i >= len(l.input) {
			return "", l.errorAt(start, line, column, "unterminated string")
		}
		switch l.input[i] {
		case '\\':
			i += 2
			continue
		case quote:
			l.advance(i + 1 - l.pos)
			return l.input[start:l.pos], nil
		}
		i++
	}
}

// readNumber reads digits[.digits][exponent], .digits[exponent] or 0x hex.
// A number ending in a digit must not run straight into an identifier
// character; after a trailing dot one may follow, so 5.x is 5. then x.
func (l *Lexer) readNumber() (string, error) {
	start, line, column := l.pos, l.line, l.column
	i := l.pos

	if l.input[i] == '0' && (l.peek(1) == 'x') && isHexDigit(l.peek(2)) {
		i += 2
		for i < len(l.input) && isHexDigit(l.input[i]) {
			i++
		}
	} else {
		for i < len(l.input) && isDigit(l.input[i]) {
			i++
		}
		if i < len(l.input) && l.input[i] == '.' {
			i++
			for i < len(l.input) && isDigit(l.input[i]) {
				i++
			}
		}
		if i+1 < len(l.input) && (l.input[i] == 'e' || l.input[i] == 'E') && isDigit(l.input[i+1]) {
			i++
			for i < len(l.input) && isDigit(l.input[i]) {
				i++
			}
		}
	}

	if i < len(l.input) && isIdentPart(l.input[i]) && l.input[i-1] != '.' {
		return "", l.errorAt(start, line, column, "malformed number")
	}

	l.advance(i - l.pos)
	return l.input[start:l.pos], nil
}

func (l *Lexer) readWord() string {
	start := l.pos
	i := l.pos
	for i < len(l.input) && isIdentPart(l.input[i]) {
		i++
	}
	l.advance(i - start)
	return l.input[start:l.pos]
}

// advance consumes n bytes, keeping line and column current
func (l *Lexer) advance(n int) {
	for ; n > 0 && l.pos < len(l.input); n-- {
		if l.input[l.pos] == '\n' {
			l.line++
			l.column = 1
		} else {
			l.column++
		}
		l.pos++
	}
}

func (l *Lexer) peek(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) errorAt(offset, line, column int, reason string) *LexError {
	return &LexError{
		Offset:  offset,
		Line:    line,
		Column:  column,
		Snippet: snippetAt(l.input, offset),
		Reason:  reason,
	}
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\v' || ch == '\f'
}
