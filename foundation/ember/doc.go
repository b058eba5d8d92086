// File: doc.go
// Title: Ember Package Documentation
// Description: High-level entry point for the ember front end.
// Author: msto63
// Version: v0.1.0
// Created: 2025-03-06
// Modified: 2025-03-06
//
// Change History:
// - 2025-03-06 v0.1.0: Initial engine implementation

/*
Package ember is the entry point to the ember language front end.

The Engine wraps the lexer in package parser and the tree model in package
ast. It enforces an input size limit, honours context cancellation between
top-level statements, logs every parse with a trace id and converts lexical
and syntax errors into platform errors with position details:

	engine := ember.NewEngine(ember.Options{Logger: logger})
	result, err := engine.Parse(ctx, "main.em", source)
	if err != nil {
		// mdwerror.GetCode(err) is LEXICAL, SYNTAX, INPUT_TOO_LARGE or CANCELED
	}
	fmt.Println(ast.Sexpr(result.Root))

An optional Cache stores encoded trees keyed by the SHA-256 of the source.
*/
package ember
