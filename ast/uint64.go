// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ast

// Uint64Const is a literal unsigned integer.
type Uint64Const struct {
	Value uint64
}

func (Uint64Const) isUint64() {}

// Uint64Var references a schema field of type Uint64.
type Uint64Var struct {
	Name string
	Slot int
}

func (Uint64Var) isUint64() {}

// AddUint64Uint64 is `left + right` over two Uint64 operands, wrapping
// silently on overflow.
type AddUint64Uint64 struct {
	Left, Right Uint64
}

func (AddUint64Uint64) isUint64() {}

// SubUint64Uint64 is `left - right` over two Uint64 operands, wrapping
// silently on underflow.
type SubUint64Uint64 struct {
	Left, Right Uint64
}

func (SubUint64Uint64) isUint64() {}
