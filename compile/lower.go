// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compile

import (
	"fmt"

	"github.com/jesopo/chert/ast"
	"github.com/jesopo/chert/value"
	"github.com/jesopo/chert/vm"
)

// compileBool recursively lowers node, returning a Pointer to its
// result. Leaves push into the constant pool or resolve to an
// existing schema slot; every other node allocates a fresh dynamic
// slot and emits the instruction that fills it.
func (st *state) compileBool(node ast.Bool) (value.Pointer, error) {
	switch n := node.(type) {
	case ast.BoolConst:
		return st.constBool(n.Value), nil

	case ast.BoolVar:
		index, err := st.resolveVarSlot(n.Name, n.Slot, value.Bool)
		if err != nil {
			return value.Pointer{}, err
		}
		return value.Pointer{Kind: value.KindDynamic, Type: value.Bool, Index: index}, nil

	case ast.Not:
		operand, err := st.compileBool(n.Operand)
		if err != nil {
			return value.Pointer{}, err
		}
		out := st.alloc(value.Bool)
		st.emit(vm.Instruction{Op: vm.OpNotBool, Output: out, Left: operand})
		return out, nil

	case ast.And:
		return st.compileShortCircuit(n.Left, n.Right, vm.OpSkipIfFalse, vm.OpBothBoolBool)

	case ast.Or:
		return st.compileShortCircuit(n.Left, n.Right, vm.OpSkipIfTrue, vm.OpEitherBoolBool)

	case ast.EqualsBoolBool:
		left, right, err := st.compileBoolPair(n.Left, n.Right)
		if err != nil {
			return value.Pointer{}, err
		}
		return st.emitBool(vm.OpEqualsBoolBool, left, right), nil

	case ast.EqualsUint64Uint64:
		left, err := st.compileUint64(n.Left)
		if err != nil {
			return value.Pointer{}, err
		}
		right, err := st.compileUint64(n.Right)
		if err != nil {
			return value.Pointer{}, err
		}
		return st.emitBool(vm.OpEqualsUint64Uint64, left, right), nil

	case ast.EqualsInt64Int64:
		left, err := st.compileInt64(n.Left)
		if err != nil {
			return value.Pointer{}, err
		}
		right, err := st.compileInt64(n.Right)
		if err != nil {
			return value.Pointer{}, err
		}
		return st.emitBool(vm.OpEqualsInt64Int64, left, right), nil

	case ast.EqualsStringString:
		left, err := st.compileString(n.Left)
		if err != nil {
			return value.Pointer{}, err
		}
		right, err := st.compileString(n.Right)
		if err != nil {
			return value.Pointer{}, err
		}
		return st.emitBool(vm.OpEqualsStringString, left, right), nil

	case ast.EqualsIpIp:
		left, err := st.compileIp(n.Left)
		if err != nil {
			return value.Pointer{}, err
		}
		right, err := st.compileIp(n.Right)
		if err != nil {
			return value.Pointer{}, err
		}
		return st.emitBool(vm.OpEqualsIpIp, left, right), nil

	case ast.Matches:
		left, err := st.compileString(n.Left)
		if err != nil {
			return value.Pointer{}, err
		}
		right, err := st.compileRegex(n.Right)
		if err != nil {
			return value.Pointer{}, err
		}
		return st.emitBool(vm.OpMatchesStringRegex, left, right), nil

	case ast.Within:
		left, err := st.compileIp(n.Left)
		if err != nil {
			return value.Pointer{}, err
		}
		right, err := st.compileCidr(n.Right)
		if err != nil {
			return value.Pointer{}, err
		}
		return st.emitBool(vm.OpWithinIpCidr, left, right), nil

	default:
		return value.Pointer{}, fmt.Errorf("compile: unhandled bool node %T", node)
	}
}

func (st *state) compileBoolPair(left, right ast.Bool) (value.Pointer, value.Pointer, error) {
	l, err := st.compileBool(left)
	if err != nil {
		return value.Pointer{}, value.Pointer{}, err
	}
	r, err := st.compileBool(right)
	if err != nil {
		return value.Pointer{}, value.Pointer{}, err
	}
	return l, r, nil
}

func (st *state) emitBool(op vm.Op, left, right value.Pointer) value.Pointer {
	out := st.alloc(value.Bool)
	st.emit(vm.Instruction{Op: op, Output: out, Left: left, Right: right})
	return out
}

// compileShortCircuit lowers And/Or per the placeholder-overwrite
// technique: left is compiled, a placeholder instruction is reserved
// for the skip, right is compiled, the combining instruction
// (Both/Either) is emitted, and only then is the placeholder
// overwritten with its final forward distance — the number of
// instructions between the placeholder and the one immediately after
// the combining instruction, so that skipping the check lands the
// cursor exactly past it rather than on it.
func (st *state) compileShortCircuit(left, right ast.Bool, skipOp, combineOp vm.Op) (value.Pointer, error) {
	leftPtr, err := st.compileBool(left)
	if err != nil {
		return value.Pointer{}, err
	}
	placeholder := st.reserve()

	rightPtr, err := st.compileBool(right)
	if err != nil {
		return value.Pointer{}, err
	}

	out := st.alloc(value.Bool)
	st.emit(vm.Instruction{Op: combineOp, Output: out, Left: leftPtr, Right: rightPtr})

	forward := len(*st.instructions) - placeholder
	st.overwrite(placeholder, vm.Instruction{Op: skipOp, Output: out, Left: leftPtr, Forward: forward})
	return out, nil
}

func (st *state) compileUint64(node ast.Uint64) (value.Pointer, error) {
	switch n := node.(type) {
	case ast.Uint64Const:
		return st.constUint64(n.Value), nil

	case ast.Uint64Var:
		index, err := st.resolveVarSlot(n.Name, n.Slot, value.Uint64)
		if err != nil {
			return value.Pointer{}, err
		}
		return value.Pointer{Kind: value.KindDynamic, Type: value.Uint64, Index: index}, nil

	case ast.AddUint64Uint64:
		left, err := st.compileUint64(n.Left)
		if err != nil {
			return value.Pointer{}, err
		}
		right, err := st.compileUint64(n.Right)
		if err != nil {
			return value.Pointer{}, err
		}
		out := st.alloc(value.Uint64)
		st.emit(vm.Instruction{Op: vm.OpAddUint64Uint64, Output: out, Left: left, Right: right})
		return out, nil

	case ast.SubUint64Uint64:
		left, err := st.compileUint64(n.Left)
		if err != nil {
			return value.Pointer{}, err
		}
		right, err := st.compileUint64(n.Right)
		if err != nil {
			return value.Pointer{}, err
		}
		out := st.alloc(value.Uint64)
		st.emit(vm.Instruction{Op: vm.OpSubtractUint64Uint64, Output: out, Left: left, Right: right})
		return out, nil

	default:
		return value.Pointer{}, fmt.Errorf("compile: unhandled uint64 node %T", node)
	}
}

func (st *state) compileInt64(node ast.Int64) (value.Pointer, error) {
	switch n := node.(type) {
	case ast.Int64Var:
		index, err := st.resolveVarSlot(n.Name, n.Slot, value.Int64)
		if err != nil {
			return value.Pointer{}, err
		}
		return value.Pointer{Kind: value.KindDynamic, Type: value.Int64, Index: index}, nil

	case ast.NegateUint64:
		operand, err := st.compileUint64(n.Operand)
		if err != nil {
			return value.Pointer{}, err
		}
		if operand.Kind == value.KindConstant {
			v := st.constants.Uint64[operand.Index]
			if overflowsInt64(v) {
				st.logger.Warnw("negated constant overflows int64, wrapping silently", "value", v)
			}
		}
		out := st.alloc(value.Int64)
		st.emit(vm.Instruction{Op: vm.OpNegativeUint64, Output: out, Left: operand})
		return out, nil

	default:
		return value.Pointer{}, fmt.Errorf("compile: unhandled int64 node %T", node)
	}
}

func (st *state) compileString(node ast.String) (value.Pointer, error) {
	switch n := node.(type) {
	case ast.StringConst:
		return st.constString(n.Value), nil

	case ast.StringVar:
		index, err := st.resolveVarSlot(n.Name, n.Slot, value.String)
		if err != nil {
			return value.Pointer{}, err
		}
		return value.Pointer{Kind: value.KindDynamic, Type: value.String, Index: index}, nil

	case ast.AddStringString:
		left, err := st.compileString(n.Left)
		if err != nil {
			return value.Pointer{}, err
		}
		right, err := st.compileString(n.Right)
		if err != nil {
			return value.Pointer{}, err
		}
		out := st.alloc(value.String)
		st.emit(vm.Instruction{Op: vm.OpAddStringString, Output: out, Left: left, Right: right})
		return out, nil

	default:
		return value.Pointer{}, fmt.Errorf("compile: unhandled string node %T", node)
	}
}

func (st *state) compileIp(node ast.Ip) (value.Pointer, error) {
	switch n := node.(type) {
	case ast.IpConst:
		return st.constIp(n.Value), nil
	case ast.IpVar:
		index, err := st.resolveVarSlot(n.Name, n.Slot, value.Ip)
		if err != nil {
			return value.Pointer{}, err
		}
		return value.Pointer{Kind: value.KindDynamic, Type: value.Ip, Index: index}, nil
	default:
		return value.Pointer{}, fmt.Errorf("compile: unhandled ip node %T", node)
	}
}

func (st *state) compileCidr(node ast.Cidr) (value.Pointer, error) {
	switch n := node.(type) {
	case ast.CidrConst:
		return st.constCidr(n.Value), nil
	case ast.CidrVar:
		index, err := st.resolveVarSlot(n.Name, n.Slot, value.Cidr)
		if err != nil {
			return value.Pointer{}, err
		}
		return value.Pointer{Kind: value.KindDynamic, Type: value.Cidr, Index: index}, nil
	default:
		return value.Pointer{}, fmt.Errorf("compile: unhandled cidr node %T", node)
	}
}

func (st *state) compileRegex(node ast.Regex) (value.Pointer, error) {
	switch n := node.(type) {
	case ast.RegexConst:
		return st.constRegex(n.Value), nil
	case ast.RegexVar:
		index, err := st.resolveVarSlot(n.Name, n.Slot, value.Regex)
		if err != nil {
			return value.Pointer{}, err
		}
		return value.Pointer{Kind: value.KindDynamic, Type: value.Regex, Index: index}, nil
	default:
		return value.Pointer{}, fmt.Errorf("compile: unhandled regex node %T", node)
	}
}
