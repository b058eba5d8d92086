// Package error provides structured error handling for the ember front end.
//
// Package: error
// Title: ember Error Handling
// Description: Structured errors with codes, severities, contextual details and
//              cause chains. Lexical and syntax failures raised by the parser are
//              wrapped into this type at the engine boundary so that the CLI, the
//              cache and the gRPC service report them uniformly.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2025-03-02
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with contextual errors and codes
// - 2025-03-02 v0.2.0: Front-end code set (LEXICAL, SYNTAX, INPUT_TOO_LARGE, ...)
//
// Usage:
//
//	err := mdwerror.Wrap(lexErr, "tokenize failed").
//		WithCode(mdwerror.CodeLexical).
//		WithDetail("offset", 12).
//		WithOperation("ember.Engine.Tokenize")
//
//	if mdwerror.HasCode(err, mdwerror.CodeLexical) {
//		// report position to the user
//	}
package error
