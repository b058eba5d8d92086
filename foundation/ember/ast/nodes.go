// File: nodes.go
// Title: Ember AST Node Definitions
// Description: Defines the AST node types produced by the ember parser:
//              literals, operators, suffix chains, function literals and
//              statements. Nodes are built bottom-up and never mutated.
// Author: msto63
// Version: v0.1.0
// Created: 2025-03-04
// Modified: 2025-03-04
//
// Change History:
// - 2025-03-04 v0.1.0: Initial AST node definitions

package ast

import (
	"fmt"
)

// Node represents the base interface for all AST nodes
type Node interface {
	// Kind returns the node tag used by the array encoding ("binary", "if_else", ...)
	Kind() string

	// String returns the s-expression form of the node
	String() string

	// Accept implements the visitor pattern
	Accept(visitor Visitor) interface{}

	// Position returns the source position of the node's first token
	Position() Position

	// Validate checks the node's own fields, not its children
	Validate() error
}

// Position represents a position in the source code
type Position struct {
	Line   int // Line number (1-based)
	Column int // Column number (1-based)
	Offset int // Byte offset (0-based)
}

// String returns the position as line:column
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Node kinds
const (
	KindIdentifier = "identifier"
	KindString     = "string"
	KindNumber     = "number"
	KindVoid       = "void"
	KindFunction   = "function"
	KindArguments  = "arguments"
	KindBinary     = "binary"
	KindPrefix     = "prefix"
	KindSuffix     = "suffix"
	KindCall       = "call"
	KindIndex      = "index"
	KindMember     = "member"
	KindTernary    = "ternary"
	KindIf         = "if"
	KindIfElse     = "if_else"
	KindWhile      = "while"
	KindFor        = "for"
	KindReturn     = "return"
	KindStatements = "statements"
)

// Literals and names

// Identifier is a name reference
type Identifier struct {
	Name string
	Pos  Position
}

// StringLit is a string literal; Text keeps the quotes and escapes verbatim
type StringLit struct {
	Text string
	Pos  Position
}

// NumberLit is a numeric literal; Text is the unparsed lexeme
type NumberLit struct {
	Text string
	Pos  Position
}

// Void is the void literal, also the value of a bare return
type Void struct {
	Pos Position
}

// Function is a function literal { : params : body }
type Function struct {
	Params []*Identifier
	Body   []Node
	Pos    Position
}

// Operators

// Binary is a binary operation including assignment and the comma operator
type Binary struct {
	Op    string
	Left  Node
	Right Node
	Pos   Position
}

// Prefix is a prefix unary operation (++ -- + - ! ~)
type Prefix struct {
	Op      string
	Operand Node
	Pos     Position
}

// Suffix is a postfix operation (++ --)
type Suffix struct {
	Op      string
	Operand Node
	Pos     Position
}

// Call applies Callee to a single argument. Arg is nil for the bare
// "call f" form.
type Call struct {
	Callee Node
	Arg    Node
	Pos    Position
}

// Index is base[key]
type Index struct {
	Base Node
	Key  Node
	Pos  Position
}

// Member is base.name
type Member struct {
	Base Node
	Name *Identifier
	Pos  Position
}

// Ternary is cond ? then : else
type Ternary struct {
	Cond Node
	Then Node
	Else Node
	Pos  Position
}

// Statements

// If is an if statement without else
type If struct {
	Cond Node
	Body Node
	Pos  Position
}

// IfElse is an if statement with else
type IfElse struct {
	Cond Node
	Then Node
	Else Node
	Pos  Position
}

// While is a while loop
type While struct {
	Cond Node
	Body Node
	Pos  Position
}

// For is a for loop with three expression clauses
type For struct {
	Init Node
	Cond Node
	Step Node
	Body Node
	Pos  Position
}

// Return is a return statement; Value is *Void for a bare return
type Return struct {
	Value Node
	Pos   Position
}

// Statements is an ordered statement sequence: a block or a whole program
type Statements struct {
	List []Node
	Pos  Position
}

// Kind implementations

func (*Identifier) Kind() string { return KindIdentifier }
func (*StringLit) Kind() string  { return KindString }
func (*NumberLit) Kind() string  { return KindNumber }
func (*Void) Kind() string       { return KindVoid }
func (*Function) Kind() string   { return KindFunction }
func (*Binary) Kind() string     { return KindBinary }
func (*Prefix) Kind() string     { return KindPrefix }
func (*Suffix) Kind() string     { return KindSuffix }
func (*Call) Kind() string       { return KindCall }
func (*Index) Kind() string      { return KindIndex }
func (*Member) Kind() string     { return KindMember }
func (*Ternary) Kind() string    { return KindTernary }
func (*If) Kind() string         { return KindIf }
func (*IfElse) Kind() string     { return KindIfElse }
func (*While) Kind() string      { return KindWhile }
func (*For) Kind() string        { return KindFor }
func (*Return) Kind() string     { return KindReturn }
func (*Statements) Kind() string { return KindStatements }

// Position implementations

func (n *Identifier) Position() Position { return n.Pos }
func (n *StringLit) Position() Position  { return n.Pos }
func (n *NumberLit) Position() Position  { return n.Pos }
func (n *Void) Position() Position       { return n.Pos }
func (n *Function) Position() Position   { return n.Pos }
func (n *Binary) Position() Position     { return n.Pos }
func (n *Prefix) Position() Position     { return n.Pos }
func (n *Suffix) Position() Position     { return n.Pos }
func (n *Call) Position() Position       { return n.Pos }
func (n *Index) Position() Position      { return n.Pos }
func (n *Member) Position() Position     { return n.Pos }
func (n *Ternary) Position() Position    { return n.Pos }
func (n *If) Position() Position         { return n.Pos }
func (n *IfElse) Position() Position     { return n.Pos }
func (n *While) Position() Position      { return n.Pos }
func (n *For) Position() Position        { return n.Pos }
func (n *Return) Position() Position     { return n.Pos }
func (n *Statements) Position() Position { return n.Pos }

// String implementations

func (n *Identifier) String() string { return Sexpr(n) }
func (n *StringLit) String() string  { return Sexpr(n) }
func (n *NumberLit) String() string  { return Sexpr(n) }
func (n *Void) String() string       { return Sexpr(n) }
func (n *Function) String() string   { return Sexpr(n) }
func (n *Binary) String() string     { return Sexpr(n) }
func (n *Prefix) String() string     { return Sexpr(n) }
func (n *Suffix) String() string     { return Sexpr(n) }
func (n *Call) String() string       { return Sexpr(n) }
func (n *Index) String() string      { return Sexpr(n) }
func (n *Member) String() string     { return Sexpr(n) }
func (n *Ternary) String() string    { return Sexpr(n) }
func (n *If) String() string         { return Sexpr(n) }
func (n *IfElse) String() string     { return Sexpr(n) }
func (n *While) String() string      { return Sexpr(n) }
func (n *For) String() string        { return Sexpr(n) }
func (n *Return) String() string     { return Sexpr(n) }
func (n *Statements) String() string { return Sexpr(n) }

// Accept implementations

func (n *Identifier) Accept(v Visitor) interface{} { return v.VisitIdentifier(n) }
func (n *StringLit) Accept(v Visitor) interface{}  { return v.VisitString(n) }
func (n *NumberLit) Accept(v Visitor) interface{}  { return v.VisitNumber(n) }
func (n *Void) Accept(v Visitor) interface{}       { return v.VisitVoid(n) }
func (n *Function) Accept(v Visitor) interface{}   { return v.VisitFunction(n) }
func (n *Binary) Accept(v Visitor) interface{}     { return v.VisitBinary(n) }
func (n *Prefix) Accept(v Visitor) interface{}     { return v.VisitPrefix(n) }
func (n *Suffix) Accept(v Visitor) interface{}     { return v.VisitSuffix(n) }
func (n *Call) Accept(v Visitor) interface{}       { return v.VisitCall(n) }
func (n *Index) Accept(v Visitor) interface{}      { return v.VisitIndex(n) }
func (n *Member) Accept(v Visitor) interface{}     { return v.VisitMember(n) }
func (n *Ternary) Accept(v Visitor) interface{}    { return v.VisitTernary(n) }
func (n *If) Accept(v Visitor) interface{}         { return v.VisitIf(n) }
func (n *IfElse) Accept(v Visitor) interface{}     { return v.VisitIfElse(n) }
func (n *While) Accept(v Visitor) interface{}      { return v.VisitWhile(n) }
func (n *For) Accept(v Visitor) interface{}        { return v.VisitFor(n) }
func (n *Return) Accept(v Visitor) interface{}     { return v.VisitReturn(n) }
func (n *Statements) Accept(v Visitor) interface{} { return v.VisitStatements(n) }

// Children returns the direct children of a node in source order. The
// optional argument of a bare call is omitted when nil.
func Children(node Node) []Node {
	switch n := node.(type) {
	case *Function:
		out := make([]Node, 0, len(n.Params)+len(n.Body))
		for _, p := range n.Params {
			out = append(out, p)
		}
		return append(out, n.Body...)
	case *Binary:
		return []Node{n.Left, n.Right}
	case *Prefix:
		return []Node{n.Operand}
	case *Suffix:
		return []Node{n.Operand}
	case *Call:
		if n.Arg == nil {
			return []Node{n.Callee}
		}
		return []Node{n.Callee, n.Arg}
	case *Index:
		return []Node{n.Base, n.Key}
	case *Member:
		if n.Name == nil {
			return []Node{n.Base}
		}
		return []Node{n.Base, n.Name}
	case *Ternary:
		return []Node{n.Cond, n.Then, n.Else}
	case *If:
		return []Node{n.Cond, n.Body}
	case *IfElse:
		return []Node{n.Cond, n.Then, n.Else}
	case *While:
		return []Node{n.Cond, n.Body}
	case *For:
		return []Node{n.Init, n.Cond, n.Step, n.Body}
	case *Return:
		return []Node{n.Value}
	case *Statements:
		return n.List
	default:
		return nil
	}
}
