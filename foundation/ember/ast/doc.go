// File: doc.go
// Title: Ember AST Package Documentation
// Description: Abstract Syntax Tree for the ember language with visitor,
//              printers, the array encoding and structural equality.
// Author: msto63
// Version: v0.1.0
// Created: 2025-03-04
// Modified: 2025-03-05
//
// Change History:
// - 2025-03-04 v0.1.0: Initial AST definitions

/*
Package ast defines the Abstract Syntax Tree produced by the ember parser.

Every node is a pointer type implementing Node. Operator nodes keep the exact
operator text, literal nodes keep the raw lexeme, and a Statements node keeps
its statements in source order. Trees are built bottom-up by the parser and
are not modified afterwards.

Besides the node types the package provides:

  - Visitor and Walk for traversal, CollectorVisitor for gathering nodes
  - Sexpr and Tree printers
  - Encode/Decode for the nested-array form, with JSON and YAML helpers
  - Equal for structural comparison and ValidateAST for decoded trees

Example:

	root, _ := parser.Parse("a = 1 + 2;")
	fmt.Println(ast.Sexpr(root)) // (statements (= a (+ 1 2)))
*/
package ast
