// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compile

import (
	"net/netip"

	"github.com/dlclark/regexp2"
	"go.uber.org/zap"

	"github.com/jesopo/chert/schema"
	"github.com/jesopo/chert/value"
	"github.com/jesopo/chert/vm"
)

// state is the per-predicate lowering context. constants and
// instructions point at the batch-wide pools shared across every
// predicate in the same Compile call; dyn is this predicate's own
// dynamic-slot counter, seeded fresh from the schema's field counts.
type state struct {
	schema       *schema.Schema
	constants    *value.Scratch
	instructions *[]vm.Instruction
	validate     bool
	logger       *zap.SugaredLogger
	dyn          [7]int
}

// alloc reserves the next free dynamic slot of type t for this
// predicate and returns a Pointer to it.
func (st *state) alloc(t value.Type) value.Pointer {
	index := st.dyn[t]
	st.dyn[t]++
	return value.Pointer{Kind: value.KindDynamic, Type: t, Index: index}
}

// emit appends inst to the shared instruction stream and returns its
// index, so callers can later overwrite a reserved placeholder slot.
func (st *state) emit(inst vm.Instruction) int {
	*st.instructions = append(*st.instructions, inst)
	return len(*st.instructions) - 1
}

func (st *state) reserve() int {
	return st.emit(vm.Instruction{})
}

func (st *state) overwrite(index int, inst vm.Instruction) {
	(*st.instructions)[index] = inst
}

func (st *state) constBool(v bool) value.Pointer {
	st.constants.Bool = append(st.constants.Bool, v)
	return value.Pointer{Kind: value.KindConstant, Type: value.Bool, Index: len(st.constants.Bool) - 1}
}

func (st *state) constUint64(v uint64) value.Pointer {
	st.constants.Uint64 = append(st.constants.Uint64, v)
	return value.Pointer{Kind: value.KindConstant, Type: value.Uint64, Index: len(st.constants.Uint64) - 1}
}

func (st *state) constString(v string) value.Pointer {
	st.constants.String = append(st.constants.String, v)
	return value.Pointer{Kind: value.KindConstant, Type: value.String, Index: len(st.constants.String) - 1}
}

func (st *state) constIp(v netip.Addr) value.Pointer {
	st.constants.Ip = append(st.constants.Ip, v)
	return value.Pointer{Kind: value.KindConstant, Type: value.Ip, Index: len(st.constants.Ip) - 1}
}

func (st *state) constCidr(v netip.Prefix) value.Pointer {
	st.constants.Cidr = append(st.constants.Cidr, v)
	return value.Pointer{Kind: value.KindConstant, Type: value.Cidr, Index: len(st.constants.Cidr) - 1}
}

func (st *state) constRegex(v *regexp2.Regexp) value.Pointer {
	st.constants.Regex = append(st.constants.Regex, v)
	return value.Pointer{Kind: value.KindConstant, Type: value.Regex, Index: len(st.constants.Regex) - 1}
}

// resolveVarSlot returns the dynamic slot a *Var node refers to. When
// validating, it requires name to be registered on the schema as
// exactly type t at slot; CompileUnsafe callers skip that check and
// trust slot directly.
func (st *state) resolveVarSlot(name string, slot int, t value.Type) (int, error) {
	if !st.validate {
		return slot, nil
	}
	field, ok := st.schema.Lookup(name)
	if !ok || field.Type != t || field.Slot != slot {
		return 0, &Error{Kind: ErrUnknownField, Name: name}
	}
	return slot, nil
}
