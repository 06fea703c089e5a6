// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package parse

import (
	"github.com/jesopo/chert/ast"
	"github.com/jesopo/chert/lex"
)

// popOperand pops the operand stack, reporting ErrMissingOperand
// against span instead of panicking on an empty stack.
func popOperand(operands *stack[ast.Node], span lex.Span) (ast.Node, error) {
	if operands.empty() {
		return nil, &Error{Kind: ErrMissingOperand, Span: span}
	}
	return operands.pop(), nil
}

func reduceEntry(entry opEntry, operands *stack[ast.Node], span lex.Span) error {
	if entry.isUnary {
		operand, err := popOperand(operands, span)
		if err != nil {
			return err
		}
		node, err := reduceUnary(entry.unary, operand)
		if err != nil {
			return err
		}
		operands.push(node)
		return nil
	}
	right, err := popOperand(operands, span)
	if err != nil {
		return err
	}
	left, err := popOperand(operands, span)
	if err != nil {
		return err
	}
	node, err := reduceBinary(entry.binary, left, right)
	if err != nil {
		return err
	}
	operands.push(node)
	return nil
}

// collapseWhile pops and reduces operators while the top of the
// operator stack binds at least as tightly as an incoming operator of
// the given specificity (more tightly, for a right-associative top).
// An open-scope sentinel on top always stops the loop, since its
// specificity (0) never satisfies either comparison against a real
// operator's specificity.
func collapseWhile(newSpecificity int, operators *stack[opEntry], operands *stack[ast.Node], span lex.Span) error {
	for !operators.empty() {
		top := operators.peek()
		var collapses bool
		if top.associativity() == assocLeft {
			collapses = top.specificity() >= newSpecificity
		} else {
			collapses = top.specificity() > newSpecificity
		}
		if !collapses {
			break
		}
		operators.pop()
		if err := reduceEntry(top, operands, span); err != nil {
			return err
		}
	}
	return nil
}

// popUntilOpen discards operators (reducing each) until it finds and
// discards the matching open-scope sentinel. Unlike collapseWhile,
// every operator in between is unconditionally reduced regardless of
// its own specificity, since everything between matching parens must
// collapse into one operand; the sentinel comparison used by
// collapseWhile can never itself signal "this is the matching open
// paren" (both sides carry specificity 0), so scope closing needs its
// own dedicated walk rather than reusing the generic comparison.
func popUntilOpen(operators *stack[opEntry], operands *stack[ast.Node], span lex.Span) error {
	for {
		if operators.empty() {
			return &Error{Kind: ErrNonexistentScopeClose, Span: span}
		}
		top := operators.pop()
		if top.isScope {
			return nil
		}
		if err := reduceEntry(top, operands, span); err != nil {
			return err
		}
	}
}

// finalDrain reduces every remaining operator once the token stream
// is exhausted. An open-scope sentinel still on the stack at this
// point means an unmatched `(` — reported as ErrUnfinished, since the
// error taxonomy has no dedicated "unmatched open paren" kind and an
// incomplete expression is exactly what this is.
func finalDrain(operators *stack[opEntry], operands *stack[ast.Node], span lex.Span) error {
	for !operators.empty() {
		top := operators.pop()
		if top.isScope {
			return &Error{Kind: ErrUnfinished, Span: span}
		}
		if err := reduceEntry(top, operands, span); err != nil {
			return err
		}
	}
	return nil
}
