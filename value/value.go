// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package value defines the closed set of primitive types a predicate
// can operate over, and the scratch storage the compiler and evaluator
// share for holding them.
package value

import (
	"net/netip"

	"github.com/dlclark/regexp2"
)

// Type is one of the primitive value kinds a field, constant or
// instruction operand can hold. The set is closed: every predicate
// expression reduces to one of these.
type Type byte

const (
	Bool Type = iota
	Uint64
	Int64
	String
	Ip
	Cidr
	Regex
)

// String returns the lowercase type name, used in error messages.
func (t Type) String() string {
	switch t {
	case Bool:
		return "bool"
	case Uint64:
		return "uint64"
	case Int64:
		return "int64"
	case String:
		return "string"
	case Ip:
		return "ip"
	case Cidr:
		return "cidr"
	case Regex:
		return "regex"
	default:
		return "unknown"
	}
}

// Kind distinguishes a Pointer into the constant pool from one into
// per-evaluation dynamic scratch.
type Kind byte

const (
	KindConstant Kind = iota
	KindDynamic
)

// A Pointer identifies a slot in either the constants or dynamics
// scratch. Every instruction operand and output is a Pointer.
type Pointer struct {
	Kind  Kind
	Type  Type
	Index int
}

// Scratch is a struct-of-arrays holding one parallel vector per
// primitive type. The compiler builds a constants scratch (populated
// once) and a reference dynamics scratch (the template cloned into
// per-evaluation storage).
type Scratch struct {
	Bool   []bool
	Uint64 []uint64
	Int64  []int64
	String []string
	Ip     []netip.Addr
	Cidr   []netip.Prefix
	Regex  []*regexp2.Regexp
}

// Len returns the current length of the vector for t.
func (s *Scratch) Len(t Type) int {
	switch t {
	case Bool:
		return len(s.Bool)
	case Uint64:
		return len(s.Uint64)
	case Int64:
		return len(s.Int64)
	case String:
		return len(s.String)
	case Ip:
		return len(s.Ip)
	case Cidr:
		return len(s.Cidr)
	case Regex:
		return len(s.Regex)
	default:
		return 0
	}
}

// Grow appends a zero value to the vector for t and returns its index.
func (s *Scratch) Grow(t Type) int {
	switch t {
	case Bool:
		s.Bool = append(s.Bool, false)
		return len(s.Bool) - 1
	case Uint64:
		s.Uint64 = append(s.Uint64, 0)
		return len(s.Uint64) - 1
	case Int64:
		s.Int64 = append(s.Int64, 0)
		return len(s.Int64) - 1
	case String:
		s.String = append(s.String, "")
		return len(s.String) - 1
	case Ip:
		s.Ip = append(s.Ip, netip.Addr{})
		return len(s.Ip) - 1
	case Cidr:
		s.Cidr = append(s.Cidr, netip.Prefix{})
		return len(s.Cidr) - 1
	case Regex:
		s.Regex = append(s.Regex, nil)
		return len(s.Regex) - 1
	default:
		return -1
	}
}

// Resize grows each vector in s to the requested lengths, leaving
// existing elements untouched. It is used to build a reference
// dynamics scratch sized to the high-water mark across a batch.
func (s *Scratch) Resize(lens [7]int) {
	for len(s.Bool) < lens[Bool] {
		s.Bool = append(s.Bool, false)
	}
	for len(s.Uint64) < lens[Uint64] {
		s.Uint64 = append(s.Uint64, 0)
	}
	for len(s.Int64) < lens[Int64] {
		s.Int64 = append(s.Int64, 0)
	}
	for len(s.String) < lens[String] {
		s.String = append(s.String, "")
	}
	for len(s.Ip) < lens[Ip] {
		s.Ip = append(s.Ip, netip.Addr{})
	}
	for len(s.Cidr) < lens[Cidr] {
		s.Cidr = append(s.Cidr, netip.Prefix{})
	}
	for len(s.Regex) < lens[Regex] {
		s.Regex = append(s.Regex, nil)
	}
}

// Clone returns a deep-enough copy of s suitable as a fresh
// per-evaluation dynamics scratch: each vector is a new backing array,
// but element values (including *regexp2.Regexp pointers) are shared.
func (s *Scratch) Clone() Scratch {
	clone := Scratch{
		Bool:   append([]bool(nil), s.Bool...),
		Uint64: append([]uint64(nil), s.Uint64...),
		Int64:  append([]int64(nil), s.Int64...),
		String: append([]string(nil), s.String...),
		Ip:     append([]netip.Addr(nil), s.Ip...),
		Cidr:   append([]netip.Prefix(nil), s.Cidr...),
		Regex:  append([]*regexp2.Regexp(nil), s.Regex...),
	}
	return clone
}
