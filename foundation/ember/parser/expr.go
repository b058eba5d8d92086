// File: expr.go
// Title: Ember Expression Parser
// Description: Precedence climbing over the fifteen expression levels, from
//              comma (loosest) down to primary expressions. Binary levels
//              are left-associative; assignment and ternary nest to the right.
// Author: msto63
// Version: v0.1.0
// Created: 2025-03-04
// Modified: 2025-03-06
//
// Change History:
// - 2025-03-04 v0.1.0: Initial expression rules
// - 2025-03-06 v0.1.1: Bare call form, juxtaposition on all primaries

package parser

import (
	"github.com/msto63/ember/foundation/ember/ast"
)

// binaryLevels holds the left-associative operator levels 4 to 13,
// tightest first
var binaryLevels = [][]string{
	{"*", "/", "%"},
	{"+", "-"},
	{"<<", ">>"},
	{"<", "<=", ">", ">="},
	{"==", "!="},
	{"&"},
	{"^"},
	{"|"},
	{"&&"},
	{"||"},
}

var prefixOps = []string{"++", "--", "+", "-", "!", "~"}

// primaryStarts lists what a primary expression can begin with
var primaryStarts = []string{"STRING", "NUMBER", "IDENTIFIER", `"void"`, `"("`, `"{"`}

// parseExpression parses level 15: comma, left-associative
func (p *Parser) parseExpression() (ast.Node, error) {
	left, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}
	for p.at(",") {
		op := p.advance()
		right, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Op: op.Text, Left: left, Right: right, Pos: left.Position()}
	}
	return left, nil
}

// parseAssignment parses level 14: the assignment family and the ternary,
// both right-associative
func (p *Parser) parseAssignment() (ast.Node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	left, err := p.parseBinary(len(binaryLevels) - 1)
	if err != nil {
		return nil, err
	}

	switch {
	case p.at("?"):
		p.advance()
		then, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(":"); err != nil {
			return nil, err
		}
		els, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		return &ast.Ternary{Cond: left, Then: then, Else: els, Pos: left.Position()}, nil

	case p.current.Kind == TokenOperator && ast.IsAssignmentOp(p.current.Text):
		op := p.advance()
		right, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		return &ast.Binary{Op: op.Text, Left: left, Right: right, Pos: left.Position()}, nil
	}

	return left, nil
}

// parseBinary parses binaryLevels[level] and everything tighter
func (p *Parser) parseBinary(level int) (ast.Node, error) {
	if level < 0 {
		return p.parseSuffix()
	}

	left, err := p.parseBinary(level - 1)
	if err != nil {
		return nil, err
	}
	for p.atAny(binaryLevels[level]...) {
		op := p.advance()
		right, err := p.parseBinary(level - 1)
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Op: op.Text, Left: left, Right: right, Pos: left.Position()}
	}
	return left, nil
}

// parseSuffix parses level 3: a prefix expression or a bare "call x",
// followed by any chain of juxtaposition calls, indexing, member access
// and postfix ++/--. Each suffix wraps the node built so far.
func (p *Parser) parseSuffix() (ast.Node, error) {
	var node ast.Node

	if p.at("call") {
		tok := p.advance()
		callee, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		node = &ast.Call{Callee: callee, Pos: p.position(tok)}
	} else {
		operand, err := p.parsePrefix()
		if err != nil {
			return nil, err
		}
		node = operand
	}

	for {
		pos := node.Position()

		switch {
		case p.startsPrimary():
			arg, err := p.parsePrimary()
			if err != nil {
				return nil, err
			}
			node = &ast.Call{Callee: node, Arg: arg, Pos: pos}

		case p.at("["):
			p.advance()
			key, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect("]"); err != nil {
				return nil, err
			}
			node = &ast.Index{Base: node, Key: key, Pos: pos}

		case p.at("."):
			p.advance()
			if p.current.Kind != TokenIdentifier {
				return nil, p.unexpected("IDENTIFIER")
			}
			name := p.advance()
			node = &ast.Member{
				Base: node,
				Name: &ast.Identifier{Name: name.Text, Pos: p.position(name)},
				Pos:  pos,
			}

		case p.atAny("++", "--"):
			op := p.advance()
			node = &ast.Suffix{Op: op.Text, Operand: node, Pos: pos}

		default:
			return node, nil
		}
	}
}

// parsePrefix parses level 2: prefix operators applied to a prefix
// expression, bottoming out in a primary
func (p *Parser) parsePrefix() (ast.Node, error) {
	if p.atAny(prefixOps...) {
		if err := p.enter(); err != nil {
			return nil, err
		}
		defer p.leave()

		op := p.advance()
		operand, err := p.parsePrefix()
		if err != nil {
			return nil, err
		}
		return &ast.Prefix{Op: op.Text, Operand: operand, Pos: p.position(op)}, nil
	}
	return p.parsePrimary()
}

// startsPrimary reports whether the current token can begin a primary
func (p *Parser) startsPrimary() bool {
	switch p.current.Kind {
	case TokenString, TokenNumber, TokenIdentifier:
		return true
	}
	return p.atAny("void", "(", "{")
}

// parsePrimary parses level 1: literals, identifiers, function literals
// and parenthesized expressions
func (p *Parser) parsePrimary() (ast.Node, error) {
	tok := p.current
	pos := p.position(tok)

	switch tok.Kind {
	case TokenString:
		p.advance()
		return &ast.StringLit{Text: tok.Text, Pos: pos}, nil
	case TokenNumber:
		p.advance()
		return &ast.NumberLit{Text: tok.Text, Pos: pos}, nil
	case TokenIdentifier:
		p.advance()
		return &ast.Identifier{Name: tok.Text, Pos: pos}, nil
	}

	switch {
	case p.at("void"):
		p.advance()
		return &ast.Void{Pos: pos}, nil

	case p.at("("):
		if err := p.enter(); err != nil {
			return nil, err
		}
		defer p.leave()

		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(")"); err != nil {
			return nil, err
		}
		return expr, nil

	case p.at("{"):
		if err := p.enter(); err != nil {
			return nil, err
		}
		defer p.leave()

		return p.parseFunction()
	}

	return nil, p.unexpected(primaryStarts...)
}

// parseFunction parses { : : body } and { : a, b : body }
func (p *Parser) parseFunction() (ast.Node, error) {
	open := p.advance()
	if _, err := p.expect(":"); err != nil {
		return nil, err
	}

	params := []*ast.Identifier{}
	if !p.at(":") {
		for {
			if p.current.Kind != TokenIdentifier {
				return nil, p.unexpected("IDENTIFIER")
			}
			name := p.advance()
			params = append(params, &ast.Identifier{Name: name.Text, Pos: p.position(name)})
			if !p.at(",") {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(":"); err != nil {
		return nil, err
	}

	body, err := p.parseStatementsUntilBrace()
	if err != nil {
		return nil, err
	}
	return &ast.Function{Params: params, Body: body, Pos: p.position(open)}, nil
}
