// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package parse

import (
	"errors"
	"fmt"

	"github.com/jesopo/chert/ast"
	"github.com/jesopo/chert/lex"
)

// Sentinel error kinds, matched with errors.Is against an *Error.
var (
	ErrUnknownIdentifier     = errors.New("unknown identifier")
	ErrBadBinaryOperands     = errors.New("bad binary operands")
	ErrBadUnaryOperands      = errors.New("bad unary operands")
	ErrUnknownBinaryOperator = errors.New("unknown binary operator")
	ErrUnknownUnaryOperator  = errors.New("unknown unary operator")
	ErrMissingOperand        = errors.New("missing operand")
	ErrUnfinished            = errors.New("unfinished expression")
	ErrEmpty                 = errors.New("empty expression")
	ErrNonexistentScopeClose = errors.New("unmatched close parenthesis")
	ErrNotBoolean            = errors.New("expression is not boolean")
	ErrBadSyntax             = errors.New("bad syntax")
)

// Error is a parse-time error anchored to a Span of the source text.
// Depending on Kind, the extra context fields carry whichever detail
// that kind needs (Name for an unknown identifier, the operator and
// operand(s) for a type mismatch).
type Error struct {
	Kind           error
	Span           lex.Span
	Name           string
	Operator       string
	UnaryOperator  unaryOp
	BinaryOperator binaryOp
	Operand        ast.Node
	Left, Right    ast.Node
}

func (e *Error) Error() string {
	switch {
	case errors.Is(e.Kind, ErrUnknownIdentifier):
		return fmt.Sprintf("parse: unknown identifier %q", e.Name)
	case errors.Is(e.Kind, ErrUnknownBinaryOperator), errors.Is(e.Kind, ErrUnknownUnaryOperator):
		return fmt.Sprintf("parse: %s: %q", e.Kind, e.Operator)
	default:
		return fmt.Sprintf("parse: %s at %d:%d", e.Kind, e.Span.Start, e.Span.End)
	}
}

func (e *Error) Unwrap() error {
	return e.Kind
}
