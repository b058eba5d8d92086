// File: print.go
// Title: Ember AST Printers
// Description: S-expression and indented tree renderings of an AST. The tree
//              form is also exposed line by line for interactive viewers.
// Author: msto63
// Version: v0.1.0
// Created: 2025-03-05
// Modified: 2025-03-05
//
// Change History:
// - 2025-03-05 v0.1.0: Initial printers

package ast

import (
	"strings"
)

// Sexpr renders a node as a compact s-expression, e.g. (+ 1 (* 2 3))
func Sexpr(n Node) string {
	var b strings.Builder
	writeSexpr(&b, n)
	return b.String()
}

func writeSexpr(b *strings.Builder, node Node) {
	if isNil(node) {
		b.WriteString("<nil>")
		return
	}

	list := func(head string, children ...Node) {
		b.WriteString("(")
		b.WriteString(head)
		for _, c := range children {
			b.WriteString(" ")
			writeSexpr(b, c)
		}
		b.WriteString(")")
	}

	switch n := node.(type) {
	case *Identifier:
		b.WriteString(n.Name)
	case *StringLit:
		b.WriteString(n.Text)
	case *NumberLit:
		b.WriteString(n.Text)
	case *Void:
		b.WriteString("void")
	case *Function:
		b.WriteString("(function (")
		for i, p := range n.Params {
			if i > 0 {
				b.WriteString(" ")
			}
			writeSexpr(b, p)
		}
		b.WriteString(")")
		for _, s := range n.Body {
			b.WriteString(" ")
			writeSexpr(b, s)
		}
		b.WriteString(")")
	case *Binary:
		list(n.Op, n.Left, n.Right)
	case *Prefix:
		list("prefix "+n.Op, n.Operand)
	case *Suffix:
		list("suffix "+n.Op, n.Operand)
	case *Call:
		if n.Arg == nil {
			list("call", n.Callee)
		} else {
			list("call", n.Callee, n.Arg)
		}
	case *Index:
		list("index", n.Base, n.Key)
	case *Member:
		list("member", n.Base, n.Name)
	case *Ternary:
		list("?", n.Cond, n.Then, n.Else)
	case *If:
		list("if", n.Cond, n.Body)
	case *IfElse:
		list("if", n.Cond, n.Then, n.Else)
	case *While:
		list("while", n.Cond, n.Body)
	case *For:
		list("for", n.Init, n.Cond, n.Step, n.Body)
	case *Return:
		list("return", n.Value)
	case *Statements:
		list("statements", n.List...)
	}
}

// TreeLine is one row of the indented tree rendering
type TreeLine struct {
	Depth int
	Label string
	Node  Node
}

// Flatten returns the tree rendering of a node as rows in depth-first order
func Flatten(root Node) []TreeLine {
	var lines []TreeLine
	var walk func(n Node, depth int)
	walk = func(n Node, depth int) {
		if isNil(n) {
			return
		}
		lines = append(lines, TreeLine{Depth: depth, Label: Label(n), Node: n})
		for _, c := range Children(n) {
			walk(c, depth+1)
		}
	}
	walk(root, 0)
	return lines
}

// Tree renders a node as an indented tree with one node per line. Nodes
// with a known source position are suffixed with @line:column.
func Tree(root Node) string {
	var b strings.Builder
	for _, line := range Flatten(root) {
		b.WriteString(strings.Repeat("  ", line.Depth))
		b.WriteString(line.Label)
		if pos := line.Node.Position(); pos.Line > 0 {
			b.WriteString("  @")
			b.WriteString(pos.String())
		}
		b.WriteString("\n")
	}
	return b.String()
}
