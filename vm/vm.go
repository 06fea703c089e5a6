// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package vm executes the flat instruction stream the compiler
// produces, the way the teacher's cpu.Step fetches an opcode, looks it
// up, and dispatches to a handler — generalized here to the closed set
// of predicate operations instead of a 6502 opcode table.
package vm

import (
	"github.com/jesopo/chert/schema"
	"github.com/jesopo/chert/value"
)

// Op names one instruction kind. The non-skip, non-output ops mirror
// the reference compiler's Operation enum variant names.
type Op int

const (
	OpAddStringString Op = iota
	OpAddUint64Uint64
	OpBothBoolBool
	OpEitherBoolBool
	OpEqualsBoolBool
	OpEqualsStringString
	OpEqualsUint64Uint64
	OpEqualsInt64Int64
	OpEqualsIpIp
	OpNegativeUint64
	OpNotBool
	OpSubtractUint64Uint64
	OpWithinIpCidr
	OpMatchesStringRegex
	// OpSkipIfFalse and OpSkipIfTrue are the short-circuit encoding for
	// And/Or: they copy their check operand into Output, and when the
	// branch is taken, advance the cursor Forward-1 additional steps so
	// the following Both/EitherBoolBool instruction is skipped.
	OpSkipIfFalse
	OpSkipIfTrue
	// OpRaiseOutput is the terminal instruction of one compiled
	// predicate: if the boolean at Left is true, ID is appended to the
	// match list.
	OpRaiseOutput
)

// Instruction is one `(output, op)` entry in the compiled stream. Not
// every field is meaningful for every Op: unary ops use only Left,
// RaiseOutput uses only Left and ID, and the skip ops use Left as
// their check operand and Forward as their jump distance.
type Instruction struct {
	Op      Op
	Output  value.Pointer
	Left    value.Pointer
	Right   value.Pointer
	Forward int
	ID      any
}

// Engine is an immutable compiled batch of predicates over one
// schema. It is safe to share across goroutines; Eval clones its own
// dynamics scratch per call.
type Engine struct {
	Instructions      []Instruction
	Constants         value.Scratch
	ReferenceDynamics value.Scratch
	Schema            *schema.Schema
}
