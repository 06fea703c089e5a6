// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package compile lowers a batch of boolean predicates into one
// shared vm.Engine: a flat instruction stream over pooled scratch
// storage, the way the teacher's asm package lowers a parsed
// expression tree into a linear operand/opcode stream rather than
// walking the tree at evaluation time.
package compile

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/jesopo/chert/ast"
	"github.com/jesopo/chert/schema"
	"github.com/jesopo/chert/value"
	"github.com/jesopo/chert/vm"
)

// ErrUnknownField is returned by Compile (never CompileUnsafe) when a
// *Var node's name and slot don't match a registered schema field.
var ErrUnknownField = errors.New("compile: unknown or mismatched schema field")

// Error wraps ErrUnknownField with the offending field name.
type Error struct {
	Kind error
	Name string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %q", e.Kind, e.Name)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// Predicate is one named boolean expression to compile. ID is
// returned, verbatim, from Engine.Eval whenever Expr evaluates true.
type Predicate struct {
	ID   any
	Expr ast.Bool
}

type options struct {
	logger *zap.SugaredLogger
}

// Option configures Compile or CompileUnsafe.
type Option func(*options)

// WithLogger directs the compiler's diagnostics — currently only the
// silent-negation-overflow warning — at l. The default logger is a
// no-op, matching the rest of this module's pure, silent pipeline.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// Compile lowers preds against s into one Engine, validating that
// every variable reference in preds names a field actually registered
// on s. Use this entry point for ASTs built by parse.ParseBoolean.
func Compile(preds []Predicate, s *schema.Schema, opts ...Option) (*vm.Engine, error) {
	return compileBatch(preds, s, true, opts)
}

// CompileUnsafe lowers preds exactly like Compile but skips the
// schema cross-check on every *Var node, trusting Slot directly. Use
// this only for ASTs reconstructed from ast.UnmarshalBool (or similar)
// whose slot indices have not been re-validated against s; a mismatch
// here is a caller bug, not a reported error.
func CompileUnsafe(preds []Predicate, s *schema.Schema, opts ...Option) (*vm.Engine, error) {
	return compileBatch(preds, s, false, opts)
}

func compileBatch(preds []Predicate, s *schema.Schema, validate bool, opts []Option) (*vm.Engine, error) {
	o := options{logger: zap.NewNop().Sugar()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop().Sugar()
	}

	var initial [7]int
	for t := value.Bool; t <= value.Regex; t++ {
		initial[t] = s.Count(t)
	}
	maxDyn := initial

	var constants value.Scratch
	var instructions []vm.Instruction

	for _, pred := range preds {
		st := &state{
			schema:       s,
			constants:    &constants,
			instructions: &instructions,
			validate:     validate,
			logger:       o.logger,
			dyn:          initial,
		}
		root, err := st.compileBool(pred.Expr)
		if err != nil {
			return nil, err
		}
		instructions = append(instructions, vm.Instruction{
			Op:   vm.OpRaiseOutput,
			Left: root,
			ID:   pred.ID,
		})

		for t := value.Bool; t <= value.Regex; t++ {
			if st.dyn[t] > maxDyn[t] {
				maxDyn[t] = st.dyn[t]
			}
		}
	}

	var refDynamics value.Scratch
	refDynamics.Resize(maxDyn)

	return &vm.Engine{
		Instructions:      instructions,
		Constants:         constants,
		ReferenceDynamics: refDynamics,
		Schema:            s,
	}, nil
}

// overflowsInt64 reports whether an unsigned constant, once negated
// into an int64, would silently wrap rather than produce -value.
func overflowsInt64(v uint64) bool {
	return v > uint64(math.MaxInt64)+1
}
