// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package chert compiles boolean predicate expressions against a
// runtime-discovered record schema into a shared, allocation-light
// evaluator. Parse a predicate's source text with Parse or
// ParseBoolean, batch-compile a set of named predicates with Compile,
// and run records through the result with Engine.Eval — the same
// three-stage shape as the teacher's assemble/link/run pipeline,
// retargeted from 6502 machine code to a flat predicate instruction
// stream.
package chert

import (
	"github.com/jesopo/chert/ast"
	"github.com/jesopo/chert/compile"
	"github.com/jesopo/chert/parse"
	"github.com/jesopo/chert/schema"
	"github.com/jesopo/chert/vm"
)

// Predicate is one named boolean expression to compile. ID is
// returned, verbatim, from Engine.Eval whenever Expr matches.
type Predicate = compile.Predicate

// Engine evaluates a compiled batch of predicates against records.
type Engine = vm.Engine

// Parse lexes and parses text against s, returning the typed root
// node of whichever result type the expression reduces to.
func Parse(text string, s *schema.Schema) (ast.Node, error) {
	return parse.Parse(text, s)
}

// ParseBoolean parses text against s and requires the result to be
// boolean, as every top-level predicate must be.
func ParseBoolean(text string, s *schema.Schema) (ast.Bool, error) {
	return parse.ParseBoolean(text, s)
}

// Compile lowers preds against s into one Engine, validating that
// every variable reference in preds names a field registered on s.
func Compile(preds []Predicate, s *schema.Schema, opts ...compile.Option) (*Engine, error) {
	return compile.Compile(preds, s, opts...)
}

// CompileUnsafe is Compile without the schema cross-check on *Var
// nodes, for ASTs deserialized via ast.UnmarshalBool whose slot
// indices have not been re-validated against s.
func CompileUnsafe(preds []Predicate, s *schema.Schema, opts ...compile.Option) (*Engine, error) {
	return compile.CompileUnsafe(preds, s, opts...)
}
