// File: parser.go
// Title: Ember Recursive Descent Parser
// Description: Parser driver and token cursor. Statement and expression
//              rules live in stmt.go and expr.go. A Parser value owns its
//              cursor, so concurrent parses must use separate Parsers.
// Author: msto63
// Version: v0.1.0
// Created: 2025-03-04
// Modified: 2025-03-06
//
// Change History:
// - 2025-03-04 v0.1.0: Initial parser implementation
// - 2025-03-06 v0.1.1: Context-aware top-level loop

package parser

import (
	"context"

	mdwerror "github.com/msto63/ember/foundation/core/error"
	mdwlog "github.com/msto63/ember/foundation/core/log"
	"github.com/msto63/ember/foundation/ember/ast"
)

// DefaultMaxInputLength is the input limit used when Options leaves it zero
const DefaultMaxInputLength = 1 << 20

// DefaultMaxDepth is the nesting limit used when Options leaves it zero
const DefaultMaxDepth = 1000

// Parser implements recursive descent parsing for ember source
type Parser struct {
	tokens  []Token
	pos     int
	current Token
	depth   int
	logger  *mdwlog.Logger
	options Options
}

// Options configures parser behavior
type Options struct {
	Logger *mdwlog.Logger

	// MaxInputLength limits the source size in bytes; negative disables the check
	MaxInputLength int

	// MaxDepth limits the nesting of statements, parentheses, function
	// literals, prefix operators and right-associative chains; negative
	// disables the check
	MaxDepth int
}

// New creates a new parser with the given options
func New(opts Options) *Parser {
	if opts.Logger == nil {
		opts.Logger = mdwlog.GetDefault()
	}
	if opts.MaxInputLength == 0 {
		opts.MaxInputLength = DefaultMaxInputLength
	}
	if opts.MaxDepth == 0 {
		opts.MaxDepth = DefaultMaxDepth
	}

	return &Parser{
		logger:  opts.Logger.WithField("component", "ember-parser"),
		options: opts,
	}
}

// Parse tokenizes and parses a complete program
func (p *Parser) Parse(source string) (*ast.Statements, error) {
	return p.ParseContext(context.Background(), source)
}

// ParseContext is Parse with cancellation. The context is checked before
// each top-level statement; a canceled parse returns no tree.
func (p *Parser) ParseContext(ctx context.Context, source string) (*ast.Statements, error) {
	if limit := p.options.MaxInputLength; limit > 0 && len(source) > limit {
		return nil, mdwerror.Newf("input exceeds maximum length: %d > %d", len(source), limit).
			WithCode(mdwerror.CodeInputTooLarge).
			WithDetail("length", len(source)).
			WithDetail("max_length", limit)
	}

	tokens, err := Tokenize(source)
	if err != nil {
		p.logger.Warn("ember tokenizing failed", mdwlog.Fields{
			"length": len(source),
			"error":  err.Error(),
		})
		return nil, err
	}

	return p.ParseTokensContext(ctx, tokens)
}

// ParseTokens parses a token sequence as produced by Tokenize
func (p *Parser) ParseTokens(tokens []Token) (*ast.Statements, error) {
	return p.ParseTokensContext(context.Background(), tokens)
}

// ParseTokensContext is ParseTokens with cancellation
func (p *Parser) ParseTokensContext(ctx context.Context, tokens []Token) (*ast.Statements, error) {
	p.reset(tokens)

	p.logger.Debug("Starting ember parsing", mdwlog.Fields{
		"tokens": len(p.tokens),
	})

	program, err := p.parseProgram(ctx)
	if err != nil {
		p.logger.Warn("ember parsing failed", mdwlog.Fields{
			"error": err.Error(),
		})
		return nil, err
	}

	p.logger.Debug("ember parsing completed successfully", mdwlog.Fields{
		"tokens":     len(p.tokens),
		"statements": len(program.List),
	})

	return program, nil
}

// Parse parses a complete program with a fresh parser and no logging
func Parse(source string) (*ast.Statements, error) {
	return New(Options{Logger: mdwlog.NewNop(), MaxInputLength: -1}).Parse(source)
}

// ParseStatements parses a token sequence into the program's statement list
func ParseStatements(tokens []Token) (*ast.Statements, error) {
	return New(Options{Logger: mdwlog.NewNop()}).ParseTokens(tokens)
}

// ParseExpression parses a token sequence holding exactly one expression
func ParseExpression(tokens []Token) (ast.Node, error) {
	p := New(Options{Logger: mdwlog.NewNop()})
	p.reset(tokens)

	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if p.current.Kind != TokenEOF {
		return nil, p.unexpected("end of input")
	}
	return expr, nil
}

// parseProgram parses statements up to EOF
func (p *Parser) parseProgram(ctx context.Context) (*ast.Statements, error) {
	program := &ast.Statements{List: []ast.Node{}, Pos: p.position(p.current)}

	for p.current.Kind != TokenEOF {
		if err := ctx.Err(); err != nil {
			return nil, mdwerror.Wrap(err, "parse canceled").
				WithCode(mdwerror.CodeCanceled).
				WithDetail("offset", p.current.Offset)
		}

		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		program.List = append(program.List, stmt)
	}

	return program, nil
}

// Cursor

func (p *Parser) reset(tokens []Token) {
	if n := len(tokens); n == 0 || tokens[n-1].Kind != TokenEOF {
		eof := Token{Kind: TokenEOF, Line: 1, Column: 1}
		if n > 0 {
			last := tokens[n-1]
			eof = Token{Kind: TokenEOF, Offset: last.Offset + len(last.Text), Line: last.Line, Column: last.Column + len(last.Text)}
		}
		tokens = append(tokens[:n:n], eof)
	}
	p.tokens = tokens
	p.pos = 0
	p.depth = 0
	p.current = tokens[0]
}

// enter descends one nesting level. Every recursive production calls it
// so that deep input ends in a SyntaxError instead of exhausting the stack.
func (p *Parser) enter() error {
	if limit := p.options.MaxDepth; limit > 0 && p.depth >= limit {
		return &SyntaxError{Found: p.current, Reason: "nesting too deep"}
	}
	p.depth++
	return nil
}

func (p *Parser) leave() {
	p.depth--
}

// advance consumes the current token and returns it
func (p *Parser) advance() Token {
	tok := p.current
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	p.current = p.tokens[p.pos]
	return tok
}

// peek returns the token after the current one
func (p *Parser) peek() Token {
	if p.pos+1 < len(p.tokens) {
		return p.tokens[p.pos+1]
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *Parser) at(lit string) bool {
	return p.current.Is(lit)
}

func (p *Parser) atAny(lits ...string) bool {
	for _, lit := range lits {
		if p.current.Is(lit) {
			return true
		}
	}
	return false
}

// expect consumes the operator or keyword lit or fails
func (p *Parser) expect(lit string) (Token, error) {
	if !p.at(lit) {
		return Token{}, p.unexpected(`"` + lit + `"`)
	}
	return p.advance(), nil
}

func (p *Parser) unexpected(expected ...string) *SyntaxError {
	return &SyntaxError{Found: p.current, Expected: expected}
}

func (p *Parser) errorf(reason string) *SyntaxError {
	return &SyntaxError{Found: p.current, Reason: reason}
}

func (p *Parser) position(tok Token) ast.Position {
	return ast.Position{Line: tok.Line, Column: tok.Column, Offset: tok.Offset}
}
