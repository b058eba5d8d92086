// File: doc.go
// Title: Ember Parser Package Documentation
// Description: Lexical analyzer and recursive descent parser for the ember
//              language.
// Author: msto63
// Version: v0.1.0
// Created: 2025-03-04
// Modified: 2025-03-06
//
// Change History:
// - 2025-03-04 v0.1.0: Initial parser implementation

/*
Package parser provides lexical analysis and parsing for ember source text.

The lexer turns source into tokens using longest match for operators and
whole-word matching for keywords. The parser is a hand-written recursive
descent parser with one function per precedence level:

	15  ,                                  left
	14  = += -= *= /= %= <<= >>= &= ^= |=  right, plus c ? t : e
	13  ||                                 left
	12  &&
	11  |
	10  ^
	 9  &
	 8  == !=
	 7  < <= > >=
	 6  << >>
	 5  + -
	 4  * / %
	 3  f x, call x, e[x], e.name, e++, e--
	 2  ++ -- + - ! ~                      prefix
	 1  literals, identifiers, { : a : ... }, ( expr )

Statements are split into closed and open forms so that an else always
binds to the nearest if without one. Errors are fail-fast: the first
*LexError or *SyntaxError ends the parse and no partial tree is returned.

The keywords break, continue, do and var are reserved and rejected by the
parser. A for header takes three expressions and no declarations.
*/
package parser
