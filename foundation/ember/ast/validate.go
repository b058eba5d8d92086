// File: validate.go
// Title: Ember AST Validation
// Description: Structural checks for hand-built or decoded trees. The parser
//              always produces valid trees; decoded cache entries and trees
//              received over the wire are checked before use.
// Author: msto63
// Version: v0.1.0
// Created: 2025-03-04
// Modified: 2025-03-04
//
// Change History:
// - 2025-03-04 v0.1.0: Initial validation rules

package ast

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingChild reports a required child that is nil
	ErrMissingChild = errors.New("missing child node")

	// ErrEmptyOperator reports an operator node without operator text
	ErrEmptyOperator = errors.New("operator is empty")

	// ErrEmptyName reports an identifier without a name
	ErrEmptyName = errors.New("identifier name is empty")
)

func (n *Identifier) Validate() error {
	if strings.TrimSpace(n.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (n *StringLit) Validate() error {
	if len(n.Text) < 2 || (n.Text[0] != '"' && n.Text[0] != '\'') || n.Text[len(n.Text)-1] != n.Text[0] {
		return fmt.Errorf("string literal %q is not quoted", n.Text)
	}
	return nil
}

func (n *NumberLit) Validate() error {
	if n.Text == "" {
		return errors.New("number literal is empty")
	}
	return nil
}

func (n *Void) Validate() error { return nil }

func (n *Function) Validate() error {
	seen := make(map[string]bool, len(n.Params))
	for i, p := range n.Params {
		if p == nil {
			return fmt.Errorf("parameter %d: %w", i, ErrMissingChild)
		}
		if seen[p.Name] {
			return fmt.Errorf("duplicate parameter %q", p.Name)
		}
		seen[p.Name] = true
	}
	return requireAll("function body", n.Body...)
}

func (n *Binary) Validate() error {
	if n.Op == "" {
		return ErrEmptyOperator
	}
	return requireAll("binary "+n.Op, n.Left, n.Right)
}

func (n *Prefix) Validate() error {
	if n.Op == "" {
		return ErrEmptyOperator
	}
	return requireAll("prefix "+n.Op, n.Operand)
}

func (n *Suffix) Validate() error {
	if n.Op == "" {
		return ErrEmptyOperator
	}
	return requireAll("suffix "+n.Op, n.Operand)
}

func (n *Call) Validate() error       { return requireAll("call", n.Callee) }
func (n *Index) Validate() error      { return requireAll("index", n.Base, n.Key) }
func (n *Ternary) Validate() error    { return requireAll("ternary", n.Cond, n.Then, n.Else) }
func (n *If) Validate() error         { return requireAll("if", n.Cond, n.Body) }
func (n *IfElse) Validate() error     { return requireAll("if_else", n.Cond, n.Then, n.Else) }
func (n *While) Validate() error      { return requireAll("while", n.Cond, n.Body) }
func (n *For) Validate() error        { return requireAll("for", n.Init, n.Cond, n.Step, n.Body) }
func (n *Return) Validate() error     { return requireAll("return", n.Value) }
func (n *Statements) Validate() error { return requireAll("statements", n.List...) }

func (n *Member) Validate() error {
	if n.Name == nil {
		return fmt.Errorf("member: %w", ErrMissingChild)
	}
	return requireAll("member", n.Base)
}

func requireAll(what string, nodes ...Node) error {
	for i, n := range nodes {
		if isNil(n) {
			return fmt.Errorf("%s: child %d: %w", what, i, ErrMissingChild)
		}
	}
	return nil
}

// isNil also catches typed nil pointers stored in a Node
func isNil(n Node) bool {
	if n == nil {
		return true
	}
	switch v := n.(type) {
	case *Identifier:
		return v == nil
	case *StringLit:
		return v == nil
	case *NumberLit:
		return v == nil
	case *Void:
		return v == nil
	case *Function:
		return v == nil
	case *Binary:
		return v == nil
	case *Prefix:
		return v == nil
	case *Suffix:
		return v == nil
	case *Call:
		return v == nil
	case *Index:
		return v == nil
	case *Member:
		return v == nil
	case *Ternary:
		return v == nil
	case *If:
		return v == nil
	case *IfElse:
		return v == nil
	case *While:
		return v == nil
	case *For:
		return v == nil
	case *Return:
		return v == nil
	case *Statements:
		return v == nil
	}
	return false
}

// ValidateAST validates every node of a tree and returns all problems found,
// each prefixed with the offending node's position
func ValidateAST(root Node) []error {
	var errs []error
	if isNil(root) {
		return []error{ErrMissingChild}
	}
	Walk(root, func(n Node) bool {
		if err := n.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%s at %s: %w", n.Kind(), n.Position(), err))
		}
		return true
	})
	return errs
}
