// File: equal.go
// Title: Ember AST Structural Equality
// Description: Compares two trees by shape, operators and literal text,
//              ignoring source positions.
// Author: msto63
// Version: v0.1.0
// Created: 2025-03-05
// Modified: 2025-03-05
//
// Change History:
// - 2025-03-05 v0.1.0: Initial implementation

package ast

// Equal reports whether a and b are structurally identical. Positions are
// ignored; a nil and an empty statement list are equal.
func Equal(a, b Node) bool {
	if isNil(a) || isNil(b) {
		return isNil(a) && isNil(b)
	}
	if a.Kind() != b.Kind() {
		return false
	}

	switch x := a.(type) {
	case *Identifier:
		return x.Name == b.(*Identifier).Name
	case *StringLit:
		return x.Text == b.(*StringLit).Text
	case *NumberLit:
		return x.Text == b.(*NumberLit).Text
	case *Binary:
		if x.Op != b.(*Binary).Op {
			return false
		}
	case *Prefix:
		if x.Op != b.(*Prefix).Op {
			return false
		}
	case *Suffix:
		if x.Op != b.(*Suffix).Op {
			return false
		}
	case *Call:
		if (x.Arg == nil) != (b.(*Call).Arg == nil) {
			return false
		}
	case *Function:
		y := b.(*Function)
		if len(x.Params) != len(y.Params) || len(x.Body) != len(y.Body) {
			return false
		}
	}

	ca, cb := Children(a), Children(b)
	if len(ca) != len(cb) {
		return false
	}
	for i := range ca {
		if !Equal(ca[i], cb[i]) {
			return false
		}
	}
	return true
}
