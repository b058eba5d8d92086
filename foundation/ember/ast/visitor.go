// File: visitor.go
// Title: Ember AST Visitor Pattern Implementation
// Description: Visitor interface, a no-op base visitor, depth-first tree
//              walking and the collector and label visitors built on it.
// Author: msto63
// Version: v0.1.0
// Created: 2025-03-04
// Modified: 2025-03-05
//
// Change History:
// - 2025-03-04 v0.1.0: Initial visitor pattern implementation
// - 2025-03-05 v0.1.1: Walk drives traversal, visitors handle single nodes

package ast

import (
	"fmt"
	"strings"
)

// Visitor handles single nodes. Traversal is driven by Walk, so a visitor
// only needs to deal with the node it is given.
type Visitor interface {
	VisitIdentifier(n *Identifier) interface{}
	VisitString(n *StringLit) interface{}
	VisitNumber(n *NumberLit) interface{}
	VisitVoid(n *Void) interface{}
	VisitFunction(n *Function) interface{}
	VisitBinary(n *Binary) interface{}
	VisitPrefix(n *Prefix) interface{}
	VisitSuffix(n *Suffix) interface{}
	VisitCall(n *Call) interface{}
	VisitIndex(n *Index) interface{}
	VisitMember(n *Member) interface{}
	VisitTernary(n *Ternary) interface{}
	VisitIf(n *If) interface{}
	VisitIfElse(n *IfElse) interface{}
	VisitWhile(n *While) interface{}
	VisitFor(n *For) interface{}
	VisitReturn(n *Return) interface{}
	VisitStatements(n *Statements) interface{}
}

// BaseVisitor provides no-op implementations for all visitor methods.
// Embed it in concrete visitors to only override needed methods.
type BaseVisitor struct{}

func (BaseVisitor) VisitIdentifier(*Identifier) interface{} { return nil }
func (BaseVisitor) VisitString(*StringLit) interface{}      { return nil }
func (BaseVisitor) VisitNumber(*NumberLit) interface{}      { return nil }
func (BaseVisitor) VisitVoid(*Void) interface{}             { return nil }
func (BaseVisitor) VisitFunction(*Function) interface{}     { return nil }
func (BaseVisitor) VisitBinary(*Binary) interface{}         { return nil }
func (BaseVisitor) VisitPrefix(*Prefix) interface{}         { return nil }
func (BaseVisitor) VisitSuffix(*Suffix) interface{}         { return nil }
func (BaseVisitor) VisitCall(*Call) interface{}             { return nil }
func (BaseVisitor) VisitIndex(*Index) interface{}           { return nil }
func (BaseVisitor) VisitMember(*Member) interface{}         { return nil }
func (BaseVisitor) VisitTernary(*Ternary) interface{}       { return nil }
func (BaseVisitor) VisitIf(*If) interface{}                 { return nil }
func (BaseVisitor) VisitIfElse(*IfElse) interface{}         { return nil }
func (BaseVisitor) VisitWhile(*While) interface{}           { return nil }
func (BaseVisitor) VisitFor(*For) interface{}               { return nil }
func (BaseVisitor) VisitReturn(*Return) interface{}         { return nil }
func (BaseVisitor) VisitStatements(*Statements) interface{} { return nil }

// Walk traverses the tree depth-first in source order. If fn returns false
// the children of that node are skipped. Nil children are never visited.
func Walk(node Node, fn func(Node) bool) {
	if isNil(node) || !fn(node) {
		return
	}
	for _, child := range Children(node) {
		Walk(child, fn)
	}
}

// WalkVisitor calls Accept on every node of the tree in depth-first order
func WalkVisitor(node Node, v Visitor) {
	Walk(node, func(n Node) bool {
		n.Accept(v)
		return true
	})
}

// CollectorVisitor collects specific types of nodes from the AST
type CollectorVisitor struct {
	BaseVisitor
	Identifiers []*Identifier
	Literals    []Node // *StringLit, *NumberLit and *Void
	Functions   []*Function
	Calls       []*Call
	Assignments []*Binary
}

// NewCollectorVisitor creates a new collector visitor
func NewCollectorVisitor() *CollectorVisitor {
	return &CollectorVisitor{}
}

// Reset clears all collected nodes
func (cv *CollectorVisitor) Reset() {
	cv.Identifiers = cv.Identifiers[:0]
	cv.Literals = cv.Literals[:0]
	cv.Functions = cv.Functions[:0]
	cv.Calls = cv.Calls[:0]
	cv.Assignments = cv.Assignments[:0]
}

func (cv *CollectorVisitor) VisitIdentifier(n *Identifier) interface{} {
	cv.Identifiers = append(cv.Identifiers, n)
	return nil
}

func (cv *CollectorVisitor) VisitString(n *StringLit) interface{} {
	cv.Literals = append(cv.Literals, n)
	return nil
}

func (cv *CollectorVisitor) VisitNumber(n *NumberLit) interface{} {
	cv.Literals = append(cv.Literals, n)
	return nil
}

func (cv *CollectorVisitor) VisitVoid(n *Void) interface{} {
	cv.Literals = append(cv.Literals, n)
	return nil
}

func (cv *CollectorVisitor) VisitFunction(n *Function) interface{} {
	cv.Functions = append(cv.Functions, n)
	return nil
}

func (cv *CollectorVisitor) VisitCall(n *Call) interface{} {
	cv.Calls = append(cv.Calls, n)
	return nil
}

func (cv *CollectorVisitor) VisitBinary(n *Binary) interface{} {
	if IsAssignmentOp(n.Op) {
		cv.Assignments = append(cv.Assignments, n)
	}
	return nil
}

// CollectNodes collects identifiers, literals, functions, calls and
// assignments from a tree
func CollectNodes(root Node) *CollectorVisitor {
	cv := NewCollectorVisitor()
	WalkVisitor(root, cv)
	return cv
}

// labelVisitor returns a one-line description of a node without its children
type labelVisitor struct{}

func (labelVisitor) VisitIdentifier(n *Identifier) interface{} { return "Identifier " + n.Name }
func (labelVisitor) VisitString(n *StringLit) interface{}      { return "String " + n.Text }
func (labelVisitor) VisitNumber(n *NumberLit) interface{}      { return "Number " + n.Text }
func (labelVisitor) VisitVoid(*Void) interface{}               { return "Void" }
func (labelVisitor) VisitFunction(n *Function) interface{} {
	names := make([]string, len(n.Params))
	for i, p := range n.Params {
		names[i] = p.Name
	}
	return fmt.Sprintf("Function (%s)", strings.Join(names, ", "))
}
func (labelVisitor) VisitBinary(n *Binary) interface{} { return "Binary " + n.Op }
func (labelVisitor) VisitPrefix(n *Prefix) interface{} { return "Prefix " + n.Op }
func (labelVisitor) VisitSuffix(n *Suffix) interface{} { return "Suffix " + n.Op }
func (labelVisitor) VisitCall(n *Call) interface{} {
	if n.Arg == nil {
		return "Call (bare)"
	}
	return "Call"
}
func (labelVisitor) VisitIndex(*Index) interface{}     { return "Index" }
func (labelVisitor) VisitMember(*Member) interface{}   { return "Member" }
func (labelVisitor) VisitTernary(*Ternary) interface{} { return "Ternary" }
func (labelVisitor) VisitIf(*If) interface{}           { return "If" }
func (labelVisitor) VisitIfElse(*IfElse) interface{}   { return "IfElse" }
func (labelVisitor) VisitWhile(*While) interface{}     { return "While" }
func (labelVisitor) VisitFor(*For) interface{}         { return "For" }
func (labelVisitor) VisitReturn(*Return) interface{}   { return "Return" }
func (labelVisitor) VisitStatements(n *Statements) interface{} {
	return fmt.Sprintf("Statements [%d]", len(n.List))
}

// Label returns a one-line description of a node, e.g. "Binary +"
func Label(n Node) string {
	if isNil(n) {
		return "<nil>"
	}
	return n.Accept(labelVisitor{}).(string)
}

// IsAssignmentOp reports whether op belongs to the assignment family
func IsAssignmentOp(op string) bool {
	switch op {
	case "=", "+=", "-=", "*=", "/=", "%=", "<<=", ">>=", "&=", "^=", "|=":
		return true
	}
	return false
}
