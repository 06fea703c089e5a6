// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chert

import (
	"net/netip"
	"testing"

	"github.com/jesopo/chert/ast"
	"github.com/jesopo/chert/schema"
)

type e2eRecord struct {
	a    uint64
	ai   int64
	ip   netip.Addr
	nick string
	host string
}

// Scenario 1: parse("a + 1 == 3") + compile(0 -> ast) + eval({a=2}) -> [0];
// with a=3 -> [].
func TestScenarioArithmeticEquality(t *testing.T) {
	s := schema.NewBuilder[e2eRecord]().Uint64("a", func(r *e2eRecord) uint64 { return r.a }).Build()
	node, err := ParseBoolean("a + 1 == 3", s)
	if err != nil {
		t.Fatalf("ParseBoolean: %v", err)
	}
	engine, err := Compile([]Predicate{{ID: 0, Expr: node}}, s)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	if got := engine.Eval(&e2eRecord{a: 2}); len(got) != 1 || got[0] != 0 {
		t.Fatalf("Eval(a=2) = %v, want [0]", got)
	}
	if got := engine.Eval(&e2eRecord{a: 3}); len(got) != 0 {
		t.Fatalf("Eval(a=3) = %v, want []", got)
	}
}

// Scenario 2: parse("ip in 1.1.1.0/24") + eval({ip=1.1.1.1}) -> [0];
// ip=1.1.2.1 -> [].
func TestScenarioWithin(t *testing.T) {
	s := schema.NewBuilder[e2eRecord]().Ip("ip", func(r *e2eRecord) netip.Addr { return r.ip }).Build()
	node, err := ParseBoolean("ip in 1.1.1.0/24", s)
	if err != nil {
		t.Fatalf("ParseBoolean: %v", err)
	}
	engine, err := Compile([]Predicate{{ID: 0, Expr: node}}, s)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	if got := engine.Eval(&e2eRecord{ip: netip.MustParseAddr("1.1.1.1")}); len(got) != 1 || got[0] != 0 {
		t.Fatalf("Eval(1.1.1.1) = %v, want [0]", got)
	}
	if got := engine.Eval(&e2eRecord{ip: netip.MustParseAddr("1.1.2.1")}); len(got) != 0 {
		t.Fatalf("Eval(1.1.2.1) = %v, want []", got)
	}
}

// Scenario 3: batch of two predicates, one and-joined, one or-joined.
func TestScenarioBatchAndOr(t *testing.T) {
	s := schema.NewBuilder[e2eRecord]().
		String("nick", func(r *e2eRecord) string { return r.nick }).
		String("host", func(r *e2eRecord) string { return r.host }).
		Build()

	and, err := ParseBoolean("nick == 'meow' and host == 'meow'", s)
	if err != nil {
		t.Fatalf("ParseBoolean(and): %v", err)
	}
	or, err := ParseBoolean("nick == 'meow' or host == 'meow'", s)
	if err != nil {
		t.Fatalf("ParseBoolean(or): %v", err)
	}

	engine, err := Compile([]Predicate{{ID: 0, Expr: and}, {ID: 1, Expr: or}}, s)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	got := engine.Eval(&e2eRecord{nick: "purr", host: "meow"})
	if len(got) != 1 || got[0] != 1 {
		t.Fatalf("Eval = %v, want [1]", got)
	}
}

// Scenario 4: parse("a == -1") against {a: Int64} + eval({a=-1}) -> [0];
// a=0 -> [].
func TestScenarioNegatedConstant(t *testing.T) {
	s := schema.NewBuilder[e2eRecord]().Int64("a", func(r *e2eRecord) int64 { return r.ai }).Build()
	node, err := ParseBoolean("a == -1", s)
	if err != nil {
		t.Fatalf("ParseBoolean: %v", err)
	}
	engine, err := Compile([]Predicate{{ID: 0, Expr: node}}, s)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	if got := engine.Eval(&e2eRecord{ai: -1}); len(got) != 1 || got[0] != 0 {
		t.Fatalf("Eval(a=-1) = %v, want [0]", got)
	}
	if got := engine.Eval(&e2eRecord{ai: 0}); len(got) != 0 {
		t.Fatalf("Eval(a=0) = %v, want []", got)
	}
}

// Scenario 5: parse("'foo' ~ m/f../") with no variables at all.
func TestScenarioMatchesNoVariables(t *testing.T) {
	s := schema.NewBuilder[e2eRecord]().Build()
	node, err := ParseBoolean("'foo' ~ m/f../", s)
	if err != nil {
		t.Fatalf("ParseBoolean: %v", err)
	}
	engine, err := Compile([]Predicate{{ID: 0, Expr: node}}, s)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if got := engine.Eval(&e2eRecord{}); len(got) != 1 || got[0] != 0 {
		t.Fatalf("Eval = %v, want [0]", got)
	}
}

// Scenario 6: the three named parse errors.
func TestScenarioParseErrors(t *testing.T) {
	s := schema.NewBuilder[e2eRecord]().Uint64("a", func(r *e2eRecord) uint64 { return r.a }).Build()

	if _, err := ParseBoolean("a ==", s); err == nil {
		t.Fatal("expected MissingOperand error")
	}
	if _, err := ParseBoolean("unknown == 1", s); err == nil {
		t.Fatal("expected UnknownIdentifier error")
	}
	if _, err := ParseBoolean("a + 1", s); err == nil {
		t.Fatal("expected NotBoolean error")
	}
}

// TestShortCircuitSkipsRightOperand builds an And whose right subtree
// references a dynamic slot that doesn't exist in the compiled
// engine's reference_dynamics at all. If short-circuit evaluation is
// broken and the right side is evaluated anyway despite the always-
// false left side, resolving that bogus pointer panics.
func TestShortCircuitSkipsRightOperand(t *testing.T) {
	s := schema.NewBuilder[e2eRecord]().Build()
	expr := ast.And{
		Left: ast.BoolConst{Value: false},
		Right: ast.EqualsUint64Uint64{
			Left:  ast.Uint64Var{Name: "nonexistent", Slot: 999},
			Right: ast.Uint64Const{Value: 0},
		},
	}
	engine, err := CompileUnsafe([]Predicate{{ID: 0, Expr: expr}}, s)
	if err != nil {
		t.Fatalf("CompileUnsafe: %v", err)
	}

	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("right-hand side was evaluated despite a false left operand: %v", r)
		}
	}()
	if got := engine.Eval(&e2eRecord{}); len(got) != 0 {
		t.Fatalf("Eval = %v, want []", got)
	}
}

// TestRoundTripSerializeCompileEval checks that
// parse -> serialize -> deserialize -> compile -> eval agrees with
// parse -> compile -> eval.
func TestRoundTripSerializeCompileEval(t *testing.T) {
	s := schema.NewBuilder[e2eRecord]().Uint64("a", func(r *e2eRecord) uint64 { return r.a }).Build()

	node, err := ParseBoolean("a + 1 == 3", s)
	if err != nil {
		t.Fatalf("ParseBoolean: %v", err)
	}
	data, err := ast.MarshalBool(node)
	if err != nil {
		t.Fatalf("MarshalBool: %v", err)
	}
	roundTripped, err := ast.UnmarshalBool(data)
	if err != nil {
		t.Fatalf("UnmarshalBool: %v", err)
	}

	direct, err := Compile([]Predicate{{ID: 0, Expr: node}}, s)
	if err != nil {
		t.Fatalf("Compile(direct): %v", err)
	}
	viaWire, err := CompileUnsafe([]Predicate{{ID: 0, Expr: roundTripped}}, s)
	if err != nil {
		t.Fatalf("CompileUnsafe(viaWire): %v", err)
	}

	for _, a := range []uint64{2, 3, 100} {
		rec := &e2eRecord{a: a}
		got1 := direct.Eval(rec)
		got2 := viaWire.Eval(rec)
		if len(got1) != len(got2) {
			t.Fatalf("a=%d: direct=%v, viaWire=%v", a, got1, got2)
		}
	}
}

// TestNegativeSlotValidationRejected exercises Compile's schema
// cross-check on a deserialized AST whose slot no longer matches.
func TestNegativeSlotValidationRejected(t *testing.T) {
	s := schema.NewBuilder[e2eRecord]().Uint64("a", func(r *e2eRecord) uint64 { return r.a }).Build()
	bogus := ast.EqualsUint64Uint64{
		Left:  ast.Uint64Var{Name: "a", Slot: 41},
		Right: ast.Uint64Const{Value: 0},
	}
	if _, err := Compile([]Predicate{{ID: 0, Expr: bogus}}, s); err == nil {
		t.Fatal("Compile accepted an out-of-sync slot, want an error")
	}
}
