// File: ember.go
// Title: Ember Engine
// Description: High-level API over the ember lexer and parser. Adds input
//              limits, cancellation, trace ids, structured logging, error
//              wrapping into platform errors and an optional result cache.
// Author: msto63
// Version: v0.1.0
// Created: 2025-03-06
// Modified: 2025-03-08
//
// Change History:
// - 2025-03-06 v0.1.0: Initial engine implementation
// - 2025-03-08 v0.1.1: Result cache

package ember

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/google/uuid"

	mdwerror "github.com/msto63/ember/foundation/core/error"
	mdwlog "github.com/msto63/ember/foundation/core/log"
	"github.com/msto63/ember/foundation/ember/ast"
	"github.com/msto63/ember/foundation/ember/parser"
)

// Cache stores encoded parse results keyed by the source hash. Lookups and
// stores are best effort: the engine logs cache failures and carries on.
type Cache interface {
	Get(ctx context.Context, hash string) ([]byte, bool, error)
	Put(ctx context.Context, hash, name string, encoded []byte) error
}

// Options configures the ember engine
type Options struct {
	// Logger for engine operations (optional, defaults to default logger)
	Logger *mdwlog.Logger

	// MaxInputLength limits the source size in bytes (default: 1 MiB,
	// negative disables the limit)
	MaxInputLength int

	// MaxDepth limits syntactic nesting (default: parser.DefaultMaxDepth,
	// negative disables the limit)
	MaxDepth int

	// Cache for parse results (optional)
	Cache Cache
}

// Engine coordinates tokenizing and parsing. It is safe for concurrent use;
// every call gets its own parser.
type Engine struct {
	logger  *mdwlog.Logger
	options Options
}

// Result is the outcome of a successful parse
type Result struct {
	Name     string
	Hash     string // hex SHA-256 of the source
	TraceID  string
	Root     *ast.Statements
	Tokens   int // token count including EOF; 0 for cached results
	Duration time.Duration
	Cached   bool // cached trees carry no source positions
}

// NewEngine creates a new engine with the specified options
func NewEngine(opts ...Options) *Engine {
	options := Options{
		Logger:         mdwlog.GetDefault(),
		MaxInputLength: parser.DefaultMaxInputLength,
	}

	if len(opts) > 0 {
		provided := opts[0]
		if provided.Logger != nil {
			options.Logger = provided.Logger
		}
		if provided.MaxInputLength != 0 {
			options.MaxInputLength = provided.MaxInputLength
		}
		options.MaxDepth = provided.MaxDepth
		options.Cache = provided.Cache
	}

	return &Engine{
		logger:  options.Logger.WithField("component", "ember-engine"),
		options: options,
	}
}

// Tokenize returns the tokens of source
func (e *Engine) Tokenize(ctx context.Context, name, source string) ([]parser.Token, error) {
	if err := e.precheck(ctx, name, source, "ember.tokenize"); err != nil {
		return nil, err
	}

	tokens, err := parser.Tokenize(source)
	if err != nil {
		wrapped := wrapError(err, name, "ember.tokenize")
		e.logger.LogError(wrapped)
		return nil, wrapped
	}
	return tokens, nil
}

// Parse parses source into a program tree. name identifies the source in
// logs and errors, typically a file path.
func (e *Engine) Parse(ctx context.Context, name, source string) (*Result, error) {
	if err := e.precheck(ctx, name, source, "ember.parse"); err != nil {
		return nil, err
	}

	result := &Result{
		Name:    name,
		Hash:    Hash(source),
		TraceID: uuid.NewString(),
	}
	logger := e.logger.WithFields(mdwlog.Fields{
		"trace_id": result.TraceID,
		"name":     name,
	})
	timer := logger.StartTimer("parse")
	start := time.Now()

	if root, ok := e.lookup(ctx, logger, result.Hash); ok {
		result.Root = root
		result.Cached = true
		result.Duration = time.Since(start)
		timer.WithField("cached", true).Stop()
		return result, nil
	}

	tokens, err := parser.Tokenize(source)
	if err != nil {
		wrapped := wrapError(err, name, "ember.parse")
		timer.StopWithError(wrapped)
		return nil, wrapped
	}

	p := parser.New(parser.Options{Logger: logger, MaxInputLength: -1, MaxDepth: e.options.MaxDepth})
	root, err := p.ParseTokensContext(ctx, tokens)
	if err != nil {
		wrapped := wrapError(err, name, "ember.parse")
		timer.StopWithError(wrapped)
		return nil, wrapped
	}

	result.Root = root
	result.Tokens = len(tokens)
	result.Duration = time.Since(start)
	timer.WithField("tokens", len(tokens)).WithField("statements", len(root.List)).Stop()

	e.store(ctx, logger, result)
	return result, nil
}

func (e *Engine) precheck(ctx context.Context, name, source, op string) error {
	if err := ctx.Err(); err != nil {
		return mdwerror.Wrap(err, "parse canceled").
			WithCode(mdwerror.CodeCanceled).
			WithOperation(op).
			WithDetail("name", name)
	}
	if e.options.MaxInputLength >= 0 && len(source) > e.options.MaxInputLength {
		return mdwerror.Newf("input exceeds maximum length: %d > %d", len(source), e.options.MaxInputLength).
			WithCode(mdwerror.CodeInputTooLarge).
			WithOperation(op).
			WithDetail("name", name).
			WithDetail("length", len(source)).
			WithDetail("max_length", e.options.MaxInputLength)
	}
	return nil
}

func (e *Engine) lookup(ctx context.Context, logger *mdwlog.Logger, hash string) (*ast.Statements, bool) {
	if e.options.Cache == nil {
		return nil, false
	}

	data, ok, err := e.options.Cache.Get(ctx, hash)
	if err != nil {
		logger.WarnWithErr("cache lookup failed", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	node, err := ast.UnmarshalJSON(data)
	if err == nil {
		if errs := ast.ValidateAST(node); len(errs) > 0 {
			err = errs[0]
		}
	}
	root, isProgram := node.(*ast.Statements)
	if err != nil || !isProgram {
		logger.Warn("discarding unusable cache entry", mdwlog.Fields{"hash": hash})
		return nil, false
	}
	return root, true
}

func (e *Engine) store(ctx context.Context, logger *mdwlog.Logger, result *Result) {
	if e.options.Cache == nil {
		return
	}

	data, err := ast.MarshalJSON(result.Root)
	if err == nil {
		err = e.options.Cache.Put(ctx, result.Hash, result.Name, data)
	}
	if err != nil {
		logger.WarnWithErr("cache store failed", err)
	}
}

// Hash returns the cache key of a source text
func Hash(source string) string {
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])
}

// wrapError converts front end errors into platform errors carrying the
// source name and position details
func wrapError(err error, name, op string) error {
	var (
		lexErr *parser.LexError
		synErr *parser.SyntaxError
		mdwErr *mdwerror.Error
	)

	switch {
	case errors.As(err, &lexErr):
		return mdwerror.Wrap(err, "lexical error in "+name).
			WithOperation(op).
			WithDetail("name", name).
			WithDetail("offset", lexErr.Offset).
			WithDetail("line", lexErr.Line).
			WithDetail("column", lexErr.Column).
			WithDetail("snippet", lexErr.Snippet)

	case errors.As(err, &synErr):
		wrapped := mdwerror.Wrap(err, "syntax error in "+name).
			WithOperation(op).
			WithDetail("name", name).
			WithDetail("offset", synErr.Found.Offset).
			WithDetail("line", synErr.Found.Line).
			WithDetail("column", synErr.Found.Column).
			WithDetail("token", synErr.Found.Text)
		if len(synErr.Expected) > 0 {
			wrapped = wrapped.WithDetail("expected", synErr.Expected)
		}
		return wrapped

	case errors.As(err, &mdwErr):
		return mdwErr.WithOperation(op).WithDetail("name", name)
	}

	return mdwerror.Wrap(err, "parse failed").
		WithCode(mdwerror.CodeInternal).
		WithOperation(op).
		WithDetail("name", name)
}
