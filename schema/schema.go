// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package schema binds field names to the accessor closures that pull
// a primitive value out of a caller's record type at evaluation time.
// There is no code generation: callers hand-register fields through
// Builder, the way the teacher's cpu.GetInstructionSet hand-builds its
// opcode table instead of deriving it.
package schema

import (
	"fmt"
	"net/netip"

	"github.com/dlclark/regexp2"

	"github.com/jesopo/chert/value"
)

// Field describes one schema-bound variable: its name, its primitive
// type, and the slot it occupies in a Scratch's per-type vector.
type Field struct {
	Name string
	Type value.Type
	Slot int
}

// Schema is the immutable result of a Builder registration. It maps
// field names to Fields and knows, per accessor, how to pull a record
// apart and write each field's current value into a dynamics scratch.
type Schema struct {
	fields  []Field
	byName  map[string]Field
	counts  [7]int
	writers []func(record any, s *value.Scratch)
}

// Lookup returns the Field registered under name, if any.
func (s *Schema) Lookup(name string) (Field, bool) {
	f, ok := s.byName[name]
	return f, ok
}

// Fields returns every registered field, in registration order.
func (s *Schema) Fields() []Field {
	return s.fields
}

// Count returns how many fields of type t are registered. This is the
// base size of t's vector in any dynamics scratch built against s.
func (s *Schema) Count(t value.Type) int {
	return s.counts[t]
}

// Populate writes every registered field's current value, read off
// record, into the corresponding slot of s's per-type vectors.
func (s *Schema) Populate(record any, scratch *value.Scratch) {
	for _, write := range s.writers {
		write(record, scratch)
	}
}

// Builder accumulates field registrations for records of type T. The
// zero value is not usable; construct with NewBuilder.
type Builder[T any] struct {
	fields  []Field
	byName  map[string]Field
	counts  [7]int
	writers []func(record any, s *value.Scratch)
}

// NewBuilder returns an empty Builder for record type T.
func NewBuilder[T any]() *Builder[T] {
	return &Builder[T]{byName: map[string]Field{}}
}

func (b *Builder[T]) register(name string, t value.Type) int {
	if _, exists := b.byName[name]; exists {
		panic(fmt.Sprintf("chert: schema field %q registered twice", name))
	}
	slot := b.counts[t]
	b.counts[t]++
	f := Field{Name: name, Type: t, Slot: slot}
	b.fields = append(b.fields, f)
	b.byName[name] = f
	return slot
}

// Bool registers a boolean field accessed via get.
func (b *Builder[T]) Bool(name string, get func(*T) bool) *Builder[T] {
	slot := b.register(name, value.Bool)
	b.writers = append(b.writers, func(record any, s *value.Scratch) {
		s.Bool[slot] = get(record.(*T))
	})
	return b
}

// Uint64 registers an unsigned 64-bit integer field accessed via get.
func (b *Builder[T]) Uint64(name string, get func(*T) uint64) *Builder[T] {
	slot := b.register(name, value.Uint64)
	b.writers = append(b.writers, func(record any, s *value.Scratch) {
		s.Uint64[slot] = get(record.(*T))
	})
	return b
}

// Int64 registers a signed 64-bit integer field accessed via get.
func (b *Builder[T]) Int64(name string, get func(*T) int64) *Builder[T] {
	slot := b.register(name, value.Int64)
	b.writers = append(b.writers, func(record any, s *value.Scratch) {
		s.Int64[slot] = get(record.(*T))
	})
	return b
}

// String registers a string field accessed via get.
func (b *Builder[T]) String(name string, get func(*T) string) *Builder[T] {
	slot := b.register(name, value.String)
	b.writers = append(b.writers, func(record any, s *value.Scratch) {
		s.String[slot] = get(record.(*T))
	})
	return b
}

// Ip registers an IP address field accessed via get.
func (b *Builder[T]) Ip(name string, get func(*T) netip.Addr) *Builder[T] {
	slot := b.register(name, value.Ip)
	b.writers = append(b.writers, func(record any, s *value.Scratch) {
		s.Ip[slot] = get(record.(*T))
	})
	return b
}

// Cidr registers a network-prefix field accessed via get.
func (b *Builder[T]) Cidr(name string, get func(*T) netip.Prefix) *Builder[T] {
	slot := b.register(name, value.Cidr)
	b.writers = append(b.writers, func(record any, s *value.Scratch) {
		s.Cidr[slot] = get(record.(*T))
	})
	return b
}

// Regex registers a compiled-regex field accessed via get. Unlike the
// other primitives this is the rare case of a schema field, rather
// than a literal, supplying a *regexp2.Regexp.
func (b *Builder[T]) Regex(name string, get func(*T) *regexp2.Regexp) *Builder[T] {
	slot := b.register(name, value.Regex)
	b.writers = append(b.writers, func(record any, s *value.Scratch) {
		s.Regex[slot] = get(record.(*T))
	})
	return b
}

// Build freezes the registrations into a Schema.
func (b *Builder[T]) Build() *Schema {
	return &Schema{
		fields:  b.fields,
		byName:  b.byName,
		counts:  b.counts,
		writers: b.writers,
	}
}
