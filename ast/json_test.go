// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ast

import (
	"net/netip"
	"testing"

	"github.com/dlclark/regexp2"
)

func TestRoundTripBool(t *testing.T) {
	re, err := regexp2.Compile("f..", regexp2.None)
	if err != nil {
		t.Fatalf("Compile regex: %v", err)
	}
	original := And{
		Left: EqualsUint64Uint64{
			Left:  Uint64Var{Name: "a", Slot: 0},
			Right: AddUint64Uint64{Left: Uint64Const{Value: 1}, Right: Uint64Const{Value: 2}},
		},
		Right: Matches{
			Left:  StringVar{Name: "b", Slot: 0},
			Right: RegexConst{Pattern: "f..", Value: re},
		},
	}

	data, err := MarshalBool(original)
	if err != nil {
		t.Fatalf("MarshalBool: %v", err)
	}
	got, err := UnmarshalBool(data)
	if err != nil {
		t.Fatalf("UnmarshalBool: %v", err)
	}

	and, ok := got.(And)
	if !ok {
		t.Fatalf("root = %T, want And", got)
	}
	eq := and.Left.(EqualsUint64Uint64)
	if eq.Left.(Uint64Var).Name != "a" {
		t.Fatalf("Left var name = %q, want a", eq.Left.(Uint64Var).Name)
	}
	add := eq.Right.(AddUint64Uint64)
	if add.Left.(Uint64Const).Value != 1 || add.Right.(Uint64Const).Value != 2 {
		t.Fatalf("add operands = %v, %v, want 1, 2", add.Left, add.Right)
	}
	m := and.Right.(Matches)
	if m.Right.(RegexConst).Pattern != "f.." {
		t.Fatalf("regex pattern = %q, want f..", m.Right.(RegexConst).Pattern)
	}
	if ok, err := m.Right.(RegexConst).Value.MatchString("foo"); err != nil || !ok {
		t.Fatalf("recompiled regex didn't match: ok=%v err=%v", ok, err)
	}
}

func TestRoundTripIpCidr(t *testing.T) {
	addr := netip.MustParseAddr("1.1.1.1")
	prefix := netip.MustParsePrefix("1.1.1.0/24")
	original := Within{Left: IpConst{Value: addr}, Right: CidrConst{Value: prefix}}

	data, err := MarshalBool(original)
	if err != nil {
		t.Fatalf("MarshalBool: %v", err)
	}
	got, err := UnmarshalBool(data)
	if err != nil {
		t.Fatalf("UnmarshalBool: %v", err)
	}
	within := got.(Within)
	if within.Left.(IpConst).Value != addr {
		t.Fatalf("ip = %v, want %v", within.Left.(IpConst).Value, addr)
	}
	if within.Right.(CidrConst).Value != prefix {
		t.Fatalf("cidr = %v, want %v", within.Right.(CidrConst).Value, prefix)
	}
}

func TestSlotZeroSurvivesRoundTrip(t *testing.T) {
	data, err := MarshalBool(BoolVar{Name: "x", Slot: 0})
	if err != nil {
		t.Fatalf("MarshalBool: %v", err)
	}
	got, err := UnmarshalBool(data)
	if err != nil {
		t.Fatalf("UnmarshalBool: %v", err)
	}
	if got.(BoolVar).Slot != 0 {
		t.Fatalf("Slot = %d, want 0", got.(BoolVar).Slot)
	}
}
