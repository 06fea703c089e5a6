// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vm

import (
	"testing"

	"github.com/jesopo/chert/schema"
	"github.com/jesopo/chert/value"
)

type rec struct {
	a uint64
}

func TestSkipIfFalseAdvancesPastCombine(t *testing.T) {
	s := schema.NewBuilder[rec]().Uint64("a", func(r *rec) uint64 { return r.a }).Build()

	var constants value.Scratch
	constants.Bool = append(constants.Bool, false) // left check, always false

	// dynamic slots: 0 = a (schema), 1 = left-check result, 2 = combine result
	instructions := []Instruction{
		{Op: OpSkipIfFalse, Output: value.Pointer{Kind: value.KindDynamic, Type: value.Bool, Index: 1},
			Left: value.Pointer{Kind: value.KindConstant, Type: value.Bool, Index: 0}, Forward: 2},
		{Op: OpBothBoolBool, Output: value.Pointer{Kind: value.KindDynamic, Type: value.Bool, Index: 2},
			Left:  value.Pointer{Kind: value.KindDynamic, Type: value.Bool, Index: 1},
			Right: value.Pointer{Kind: value.KindDynamic, Type: value.Bool, Index: 1}},
		{Op: OpRaiseOutput, Left: value.Pointer{Kind: value.KindDynamic, Type: value.Bool, Index: 1}, ID: "p"},
	}
	var refDyn value.Scratch
	refDyn.Resize([7]int{value.Uint64: 1, value.Bool: 2})

	engine := &Engine{Instructions: instructions, Constants: constants, ReferenceDynamics: refDyn, Schema: s}
	matched := engine.Eval(&rec{a: 1})
	if len(matched) != 0 {
		t.Fatalf("matched = %v, want none (RaiseOutput read slot 1, which SkipIfFalse set false)", matched)
	}
}

func TestEvalIdempotent(t *testing.T) {
	s := schema.NewBuilder[rec]().Uint64("a", func(r *rec) uint64 { return r.a }).Build()
	var constants value.Scratch
	constants.Uint64 = append(constants.Uint64, 3)

	instructions := []Instruction{
		{Op: OpEqualsUint64Uint64, Output: value.Pointer{Kind: value.KindDynamic, Type: value.Bool, Index: 0},
			Left:  value.Pointer{Kind: value.KindDynamic, Type: value.Uint64, Index: 0},
			Right: value.Pointer{Kind: value.KindConstant, Type: value.Uint64, Index: 0}},
		{Op: OpRaiseOutput, Left: value.Pointer{Kind: value.KindDynamic, Type: value.Bool, Index: 0}, ID: "p"},
	}
	var refDyn value.Scratch
	refDyn.Resize([7]int{value.Uint64: 1, value.Bool: 1})

	engine := &Engine{Instructions: instructions, Constants: constants, ReferenceDynamics: refDyn, Schema: s}
	r := &rec{a: 3}
	first := engine.Eval(r)
	second := engine.Eval(r)
	if len(first) != 1 || len(second) != 1 || first[0] != second[0] {
		t.Fatalf("Eval not idempotent: %v vs %v", first, second)
	}
}
