// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package parse

import "github.com/jesopo/chert/ast"

// reduceUnary applies a unary operator to its operand, selecting the
// AST variant whose operand type matches exactly. An operand of the
// wrong type is a *Error wrapping ErrBadUnaryOperands.
func reduceUnary(op unaryOp, operand ast.Node) (ast.Node, error) {
	switch op {
	case unaryNot:
		if b, ok := operand.(ast.Bool); ok {
			return ast.Not{Operand: b}, nil
		}
	case unaryPositive:
		if u, ok := operand.(ast.Uint64); ok {
			return u, nil
		}
	case unaryNegative:
		if u, ok := operand.(ast.Uint64); ok {
			return ast.NegateUint64{Operand: u}, nil
		}
	}
	return nil, &Error{Kind: ErrBadUnaryOperands, UnaryOperator: op, Operand: operand}
}

// reduceBinary applies a binary operator to its operands, trying each
// legal (left-type, right-type) pairing named in the data model until
// one matches. No pairing matching is a *Error wrapping
// ErrBadBinaryOperands.
func reduceBinary(op binaryOp, left, right ast.Node) (ast.Node, error) {
	switch op {
	case binaryBoth:
		if l, lok := left.(ast.Bool); lok {
			if r, rok := right.(ast.Bool); rok {
				return ast.And{Left: l, Right: r}, nil
			}
		}
	case binaryEither:
		if l, lok := left.(ast.Bool); lok {
			if r, rok := right.(ast.Bool); rok {
				return ast.Or{Left: l, Right: r}, nil
			}
		}
	case binaryEquals:
		if l, lok := left.(ast.Uint64); lok {
			if r, rok := right.(ast.Uint64); rok {
				return ast.EqualsUint64Uint64{Left: l, Right: r}, nil
			}
		}
		if l, lok := left.(ast.Int64); lok {
			if r, rok := right.(ast.Int64); rok {
				return ast.EqualsInt64Int64{Left: l, Right: r}, nil
			}
		}
		if l, lok := left.(ast.Bool); lok {
			if r, rok := right.(ast.Bool); rok {
				return ast.EqualsBoolBool{Left: l, Right: r}, nil
			}
		}
		if l, lok := left.(ast.String); lok {
			if r, rok := right.(ast.String); rok {
				return ast.EqualsStringString{Left: l, Right: r}, nil
			}
		}
		if l, lok := left.(ast.Ip); lok {
			if r, rok := right.(ast.Ip); rok {
				return ast.EqualsIpIp{Left: l, Right: r}, nil
			}
		}
	case binaryAdd:
		if l, lok := left.(ast.String); lok {
			if r, rok := right.(ast.String); rok {
				return ast.AddStringString{Left: l, Right: r}, nil
			}
		}
		if l, lok := left.(ast.Uint64); lok {
			if r, rok := right.(ast.Uint64); rok {
				return ast.AddUint64Uint64{Left: l, Right: r}, nil
			}
		}
	case binarySubtract:
		if l, lok := left.(ast.Uint64); lok {
			if r, rok := right.(ast.Uint64); rok {
				return ast.SubUint64Uint64{Left: l, Right: r}, nil
			}
		}
	case binaryWithin:
		if l, lok := left.(ast.Ip); lok {
			if r, rok := right.(ast.Cidr); rok {
				return ast.Within{Left: l, Right: r}, nil
			}
		}
	case binaryMatches:
		if l, lok := left.(ast.String); lok {
			if r, rok := right.(ast.Regex); rok {
				return ast.Matches{Left: l, Right: r}, nil
			}
		}
	}
	return nil, &Error{Kind: ErrBadBinaryOperands, BinaryOperator: op, Left: left, Right: right}
}
