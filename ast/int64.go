// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ast

// Int64Var references a schema field of type Int64.
type Int64Var struct {
	Name string
	Slot int
}

func (Int64Var) isInt64() {}

// NegateUint64 is unary `-operand`: an Int64 node built by negating a
// Uint64 subtree. There is no standalone Int64 constant node — a
// literal negative integer is always represented this way, matching
// the source language's lack of a signed integer literal form.
type NegateUint64 struct {
	Operand Uint64
}

func (NegateUint64) isInt64() {}
