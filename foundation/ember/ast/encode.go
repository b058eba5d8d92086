// File: encode.go
// Title: Ember AST Array Encoding
// Description: Converts trees to and from the nested-array form
//              ["binary", ["+", left, right]] used for JSON and YAML output,
//              the parse cache and the gRPC parse service. Source positions
//              are not part of the encoding.
// Author: msto63
// Version: v0.1.0
// Created: 2025-03-05
// Modified: 2025-03-05
//
// Change History:
// - 2025-03-05 v0.1.0: Initial encoder and decoder

package ast

import (
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrMalformed reports an encoded tree that does not match the array form
var ErrMalformed = errors.New("malformed encoded AST")

// Encode converts a node into nested []interface{} and string values
func Encode(node Node) interface{} {
	if isNil(node) {
		return nil
	}

	switch n := node.(type) {
	case *Identifier:
		return []interface{}{KindIdentifier, n.Name}
	case *StringLit:
		return []interface{}{KindString, n.Text}
	case *NumberLit:
		return []interface{}{KindNumber, n.Text}
	case *Void:
		return []interface{}{KindVoid}
	case *Function:
		params := make([]interface{}, len(n.Params))
		for i, p := range n.Params {
			params[i] = Encode(p)
		}
		return []interface{}{KindFunction, []interface{}{
			[]interface{}{KindArguments, params},
			[]interface{}{KindStatements, encodeList(n.Body)},
		}}
	case *Binary:
		return []interface{}{KindBinary, []interface{}{n.Op, Encode(n.Left), Encode(n.Right)}}
	case *Prefix:
		return []interface{}{KindPrefix, []interface{}{n.Op, Encode(n.Operand)}}
	case *Suffix:
		return []interface{}{KindSuffix, []interface{}{n.Op, Encode(n.Operand)}}
	case *Call:
		if n.Arg == nil {
			return []interface{}{KindCall, []interface{}{Encode(n.Callee)}}
		}
		return []interface{}{KindCall, []interface{}{Encode(n.Callee), Encode(n.Arg)}}
	case *Index:
		return []interface{}{KindIndex, []interface{}{Encode(n.Base), Encode(n.Key)}}
	case *Member:
		return []interface{}{KindMember, []interface{}{Encode(n.Base), Encode(n.Name)}}
	case *Ternary:
		return []interface{}{KindTernary, encodeList([]Node{n.Cond, n.Then, n.Else})}
	case *If:
		return []interface{}{KindIf, encodeList([]Node{n.Cond, n.Body})}
	case *IfElse:
		return []interface{}{KindIfElse, encodeList([]Node{n.Cond, n.Then, n.Else})}
	case *While:
		return []interface{}{KindWhile, encodeList([]Node{n.Cond, n.Body})}
	case *For:
		return []interface{}{KindFor, encodeList([]Node{n.Init, n.Cond, n.Step, n.Body})}
	case *Return:
		return []interface{}{KindReturn, Encode(n.Value)}
	case *Statements:
		return []interface{}{KindStatements, encodeList(n.List)}
	}
	return nil
}

func encodeList(nodes []Node) []interface{} {
	out := make([]interface{}, len(nodes))
	for i, n := range nodes {
		out[i] = Encode(n)
	}
	return out
}

// MarshalJSON encodes a node as JSON in the array form
func MarshalJSON(node Node) ([]byte, error) {
	return json.Marshal(Encode(node))
}

// MarshalIndentJSON is MarshalJSON with indentation
func MarshalIndentJSON(node Node) ([]byte, error) {
	return json.MarshalIndent(Encode(node), "", "  ")
}

// UnmarshalJSON decodes a tree from its JSON array form
func UnmarshalJSON(data []byte) (Node, error) {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return Decode(v)
}

// MarshalYAML encodes a node as a YAML document in the array form
func MarshalYAML(node Node) ([]byte, error) {
	return yaml.Marshal(Encode(node))
}

// UnmarshalYAML decodes a tree from its YAML array form
func UnmarshalYAML(data []byte) (Node, error) {
	var v interface{}
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return Decode(v)
}

// Decode rebuilds a tree from the array form produced by Encode. The
// decoded tree carries zero positions.
func Decode(v interface{}) (Node, error) {
	arr, ok := v.([]interface{})
	if !ok || len(arr) == 0 {
		return nil, malformed("node", v)
	}
	kind, ok := arr[0].(string)
	if !ok {
		return nil, malformed("node kind", arr[0])
	}

	if kind == KindVoid {
		if len(arr) != 1 {
			return nil, malformed(kind, v)
		}
		return &Void{}, nil
	}
	if len(arr) != 2 {
		return nil, malformed(kind, v)
	}
	payload := arr[1]

	switch kind {
	case KindIdentifier, KindString, KindNumber:
		text, ok := payload.(string)
		if !ok {
			return nil, malformed(kind, payload)
		}
		switch kind {
		case KindIdentifier:
			return &Identifier{Name: text}, nil
		case KindString:
			return &StringLit{Text: text}, nil
		default:
			return &NumberLit{Text: text}, nil
		}

	case KindReturn:
		value, err := Decode(payload)
		if err != nil {
			return nil, err
		}
		return &Return{Value: value}, nil

	case KindStatements:
		list, err := decodeList(kind, payload, -1)
		if err != nil {
			return nil, err
		}
		return &Statements{List: list}, nil

	case KindFunction:
		return decodeFunction(payload)

	case KindBinary, KindPrefix, KindSuffix:
		return decodeOperator(kind, payload)

	case KindMember:
		parts, err := decodeList(kind, payload, 2)
		if err != nil {
			return nil, err
		}
		name, ok := parts[1].(*Identifier)
		if !ok {
			return nil, malformed("member name", payload)
		}
		return &Member{Base: parts[0], Name: name}, nil

	case KindCall:
		items, ok := payload.([]interface{})
		if !ok || len(items) < 1 || len(items) > 2 {
			return nil, malformed(kind, payload)
		}
		parts, err := decodeList(kind, payload, len(items))
		if err != nil {
			return nil, err
		}
		call := &Call{Callee: parts[0]}
		if len(parts) == 2 {
			call.Arg = parts[1]
		}
		return call, nil
	}

	arity := map[string]int{
		KindIndex: 2, KindTernary: 3, KindIf: 2, KindIfElse: 3, KindWhile: 2, KindFor: 4,
	}
	n, known := arity[kind]
	if !known {
		return nil, fmt.Errorf("%w: unknown node kind %q", ErrMalformed, kind)
	}
	parts, err := decodeList(kind, payload, n)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindIndex:
		return &Index{Base: parts[0], Key: parts[1]}, nil
	case KindTernary:
		return &Ternary{Cond: parts[0], Then: parts[1], Else: parts[2]}, nil
	case KindIf:
		return &If{Cond: parts[0], Body: parts[1]}, nil
	case KindIfElse:
		return &IfElse{Cond: parts[0], Then: parts[1], Else: parts[2]}, nil
	case KindWhile:
		return &While{Cond: parts[0], Body: parts[1]}, nil
	default:
		return &For{Init: parts[0], Cond: parts[1], Step: parts[2], Body: parts[3]}, nil
	}
}

// decodeList decodes a list of nodes; want < 0 accepts any length
func decodeList(kind string, v interface{}, want int) ([]Node, error) {
	items, ok := v.([]interface{})
	if !ok || (want >= 0 && len(items) != want) {
		return nil, malformed(kind, v)
	}
	out := make([]Node, len(items))
	for i, item := range items {
		n, err := Decode(item)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", kind, i, err)
		}
		out[i] = n
	}
	return out, nil
}

func decodeOperator(kind string, v interface{}) (Node, error) {
	items, ok := v.([]interface{})
	if !ok || len(items) < 2 {
		return nil, malformed(kind, v)
	}
	op, ok := items[0].(string)
	if !ok {
		return nil, malformed(kind+" operator", items[0])
	}
	operands, err := decodeList(kind, items[1:], -1)
	if err != nil {
		return nil, err
	}

	switch {
	case kind == KindBinary && len(operands) == 2:
		return &Binary{Op: op, Left: operands[0], Right: operands[1]}, nil
	case kind == KindPrefix && len(operands) == 1:
		return &Prefix{Op: op, Operand: operands[0]}, nil
	case kind == KindSuffix && len(operands) == 1:
		return &Suffix{Op: op, Operand: operands[0]}, nil
	}
	return nil, malformed(kind, v)
}

func decodeFunction(v interface{}) (Node, error) {
	parts, ok := v.([]interface{})
	if !ok || len(parts) != 2 {
		return nil, malformed(KindFunction, v)
	}

	args, ok := parts[0].([]interface{})
	if !ok || len(args) != 2 || args[0] != KindArguments {
		return nil, malformed(KindArguments, parts[0])
	}
	params, err := decodeList(KindArguments, args[1], -1)
	if err != nil {
		return nil, err
	}

	fn := &Function{Params: make([]*Identifier, len(params))}
	for i, p := range params {
		id, ok := p.(*Identifier)
		if !ok {
			return nil, malformed("function parameter", p.Kind())
		}
		fn.Params[i] = id
	}

	body, err := Decode(parts[1])
	if err != nil {
		return nil, err
	}
	stmts, ok := body.(*Statements)
	if !ok {
		return nil, malformed("function body", body.Kind())
	}
	fn.Body = stmts.List
	return fn, nil
}

func malformed(what string, v interface{}) error {
	return fmt.Errorf("%w: bad %s: %v", ErrMalformed, what, v)
}
