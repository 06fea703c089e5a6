// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package parse turns a lexed token stream into a typed AST via
// shunting-yard, the way the teacher's exprParser turns 6502 assembly
// expression tokens into an expr tree — generalized here to the
// closed set of primitive types and operators this language supports.
package parse

import (
	"fmt"

	"github.com/jesopo/chert/ast"
	"github.com/jesopo/chert/lex"
	"github.com/jesopo/chert/schema"
	"github.com/jesopo/chert/value"
)

// Parse lexes and parses text against s, returning the typed root
// node of whichever result type the expression reduces to.
func Parse(text string, s *schema.Schema) (ast.Node, error) {
	tokens, err := lex.Tokenize(text)
	if err != nil {
		return nil, err
	}

	var operands stack[ast.Node]
	var operators stack[opEntry]
	lastWasOperand := false
	var lastSpan lex.Span

	for _, tok := range tokens {
		if tok.Kind == lex.KindSpace {
			continue
		}
		lastSpan = tok.Span

		switch tok.Kind {
		case lex.KindString:
			operands.push(ast.StringConst{Value: tok.String})
			lastWasOperand = true

		case lex.KindNumber:
			// Only the integer portion feeds the parsed value; a
			// leading-`.` fraction, if present, is part of the
			// token's span but otherwise ignored.
			var value uint64
			for _, c := range tok.Text {
				if c == '.' {
					break
				}
				value = value*10 + uint64(c-'0')
			}
			operands.push(ast.Uint64Const{Value: value})
			lastWasOperand = true

		case lex.KindIp:
			operands.push(ast.IpConst{Value: tok.Ip})
			lastWasOperand = true

		case lex.KindCidr:
			operands.push(ast.CidrConst{Value: tok.Cidr})
			lastWasOperand = true

		case lex.KindRegex:
			operands.push(ast.RegexConst{Pattern: tok.Pattern, Value: tok.Regex})
			lastWasOperand = true

		case lex.KindDuration:
			return nil, &Error{Kind: ErrBadSyntax, Span: tok.Span}

		case lex.KindIdentifier:
			node, isOperator, operator, err := resolveIdentifier(tok.Text, s)
			if err != nil {
				return nil, &Error{Kind: ErrUnknownIdentifier, Name: tok.Text, Span: tok.Span}
			}
			if isOperator {
				if err := collapseWhile(operator.specificity(), &operators, &operands, tok.Span); err != nil {
					return nil, err
				}
				operators.push(operator)
				lastWasOperand = false
			} else {
				operands.push(node)
				lastWasOperand = true
			}

		case lex.KindParenOpen:
			operators.push(opEntry{isScope: true})
			lastWasOperand = false

		case lex.KindParenClose:
			if err := popUntilOpen(&operators, &operands, tok.Span); err != nil {
				return nil, err
			}
			lastWasOperand = true

		case lex.KindOperator:
			var entry opEntry
			if lastWasOperand {
				op, ok := parseBinaryOperator(tok.Text)
				if !ok {
					return nil, &Error{Kind: ErrUnknownBinaryOperator, Operator: tok.Text, Span: tok.Span}
				}
				entry = opEntry{binary: op}
			} else {
				op, ok := parseUnaryOperator(tok.Text)
				if !ok {
					return nil, &Error{Kind: ErrUnknownUnaryOperator, Operator: tok.Text, Span: tok.Span}
				}
				entry = opEntry{isUnary: true, unary: op}
			}
			if err := collapseWhile(entry.specificity(), &operators, &operands, tok.Span); err != nil {
				return nil, err
			}
			operators.push(entry)
			lastWasOperand = false

		default:
			return nil, &Error{Kind: ErrBadSyntax, Span: tok.Span}
		}
	}

	if err := finalDrain(&operators, &operands, lastSpan); err != nil {
		return nil, err
	}

	if operands.empty() {
		return nil, &Error{Kind: ErrEmpty}
	}
	root := operands.pop()
	if !operands.empty() {
		return nil, &Error{Kind: ErrUnfinished, Span: lastSpan}
	}
	return root, nil
}

// ParseBoolean parses text against s and requires the result to be a
// Bool, as every top-level predicate must be.
func ParseBoolean(text string, s *schema.Schema) (ast.Bool, error) {
	node, err := Parse(text, s)
	if err != nil {
		return nil, err
	}
	b, ok := node.(ast.Bool)
	if !ok {
		return nil, &Error{Kind: ErrNotBoolean}
	}
	return b, nil
}

// resolveIdentifier dispatches an Identifier token: the boolean
// keywords and `and`/`or`/`in` resolve to an operand or operator
// directly; everything else must be a schema field name.
func resolveIdentifier(name string, s *schema.Schema) (node ast.Node, isOperator bool, operator opEntry, err error) {
	switch name {
	case "true":
		return ast.BoolConst{Value: true}, false, opEntry{}, nil
	case "false":
		return ast.BoolConst{Value: false}, false, opEntry{}, nil
	case "and":
		return nil, true, opEntry{binary: binaryBoth}, nil
	case "or":
		return nil, true, opEntry{binary: binaryEither}, nil
	case "in":
		return nil, true, opEntry{binary: binaryWithin}, nil
	}

	field, ok := s.Lookup(name)
	if !ok {
		return nil, false, opEntry{}, fmt.Errorf("unknown identifier %q", name)
	}
	switch field.Type {
	case value.Bool:
		return ast.BoolVar{Name: name, Slot: field.Slot}, false, opEntry{}, nil
	case value.Uint64:
		return ast.Uint64Var{Name: name, Slot: field.Slot}, false, opEntry{}, nil
	case value.Int64:
		return ast.Int64Var{Name: name, Slot: field.Slot}, false, opEntry{}, nil
	case value.String:
		return ast.StringVar{Name: name, Slot: field.Slot}, false, opEntry{}, nil
	case value.Ip:
		return ast.IpVar{Name: name, Slot: field.Slot}, false, opEntry{}, nil
	case value.Cidr:
		return ast.CidrVar{Name: name, Slot: field.Slot}, false, opEntry{}, nil
	case value.Regex:
		return ast.RegexVar{Name: name, Slot: field.Slot}, false, opEntry{}, nil
	default:
		return nil, false, opEntry{}, fmt.Errorf("unhandled field type for %q", name)
	}
}
