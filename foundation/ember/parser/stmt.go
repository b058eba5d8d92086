// File: stmt.go
// Title: Ember Statement Parser
// Description: Statement rules. Statements are either closed (cannot take a
//              trailing else) or open (end in an else-less if). The split
//              makes every else bind to the nearest unmatched if.
// Author: msto63
// Version: v0.1.0
// Created: 2025-03-04
// Modified: 2025-03-06
//
// Change History:
// - 2025-03-04 v0.1.0: Initial statement rules
// - 2025-03-06 v0.1.1: Reserved keywords reported explicitly

package parser

import (
	"fmt"

	"github.com/msto63/ember/foundation/ember/ast"
)

// reserved keywords have no statement production yet
var reserved = map[string]bool{
	"break":    true,
	"continue": true,
	"do":       true,
	"var":      true,
}

// parseStatement parses one statement of either shape
func (p *Parser) parseStatement() (ast.Node, error) {
	stmt, _, err := p.statement()
	return stmt, err
}

// statement parses one statement and reports whether it is open
func (p *Parser) statement() (ast.Node, bool, error) {
	if err := p.enter(); err != nil {
		return nil, false, err
	}
	defer p.leave()

	switch {
	case p.at("if"):
		return p.parseIfStatement()
	case p.at("while"), p.at("for"):
		return p.parseLoopStatement()
	default:
		stmt, err := p.parseClosedStatement()
		return stmt, false, err
	}
}

// parseClosedStatement parses a block, a return or an expression statement
func (p *Parser) parseClosedStatement() (ast.Node, error) {
	tok := p.current

	switch {
	case p.at("{") && !p.peek().Is(":"):
		block, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return block, nil

	case p.at("return"):
		p.advance()
		if p.at(";") {
			p.advance()
			return &ast.Return{Value: &ast.Void{Pos: p.position(tok)}, Pos: p.position(tok)}, nil
		}
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(";"); err != nil {
			return nil, err
		}
		return &ast.Return{Value: value, Pos: p.position(tok)}, nil

	case tok.Kind == TokenKeyword && reserved[tok.Text]:
		return nil, p.errorf(fmt.Sprintf("reserved keyword %q is not supported", tok.Text))

	case p.at("else"):
		return nil, p.errorf(`"else" without matching "if"`)
	}

	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(";"); err != nil {
		return nil, err
	}
	return expr, nil
}

// parseBlock parses { statements } into a Statements node
func (p *Parser) parseBlock() (*ast.Statements, error) {
	open, err := p.expect("{")
	if err != nil {
		return nil, err
	}
	list, err := p.parseStatementsUntilBrace()
	if err != nil {
		return nil, err
	}
	return &ast.Statements{List: list, Pos: p.position(open)}, nil
}

// parseStatementsUntilBrace parses statements up to and including the
// closing brace of a block or function body
func (p *Parser) parseStatementsUntilBrace() ([]ast.Node, error) {
	list := []ast.Node{}
	for !p.at("}") {
		if p.current.Kind == TokenEOF {
			return nil, p.unexpected(`"}"`)
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		list = append(list, stmt)
	}
	p.advance()
	return list, nil
}

// parseIfStatement parses if cond statement [else statement]. The then
// branch takes an else only when it is closed; an open then branch has
// already bound any else to its own inner if.
func (p *Parser) parseIfStatement() (ast.Node, bool, error) {
	ifTok := p.advance()

	cond, err := p.parsePrimary()
	if err != nil {
		return nil, false, err
	}

	then, thenOpen, err := p.statement()
	if err != nil {
		return nil, false, err
	}

	if !p.at("else") {
		return &ast.If{Cond: cond, Body: then, Pos: p.position(ifTok)}, true, nil
	}
	if thenOpen {
		return nil, false, p.errorf(`"else" cannot follow an open statement`)
	}
	p.advance()

	els, elseOpen, err := p.statement()
	if err != nil {
		return nil, false, err
	}
	return &ast.IfElse{Cond: cond, Then: then, Else: els, Pos: p.position(ifTok)}, elseOpen, nil
}

// parseLoopStatement parses a while or for header followed by its body.
// The loop is open exactly when its body is.
func (p *Parser) parseLoopStatement() (ast.Node, bool, error) {
	tok := p.advance()
	pos := p.position(tok)

	if tok.Is("while") {
		cond, err := p.parsePrimary()
		if err != nil {
			return nil, false, err
		}
		body, open, err := p.statement()
		if err != nil {
			return nil, false, err
		}
		return &ast.While{Cond: cond, Body: body, Pos: pos}, open, nil
	}

	if _, err := p.expect("("); err != nil {
		return nil, false, err
	}
	var clauses [3]ast.Node
	for i, closer := range []string{";", ";", ")"} {
		clause, err := p.parseExpression()
		if err != nil {
			return nil, false, err
		}
		if _, err := p.expect(closer); err != nil {
			return nil, false, err
		}
		clauses[i] = clause
	}

	body, open, err := p.statement()
	if err != nil {
		return nil, false, err
	}
	return &ast.For{Init: clauses[0], Cond: clauses[1], Step: clauses[2], Body: body, Pos: pos}, open, nil
}
