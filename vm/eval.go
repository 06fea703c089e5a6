// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vm

import (
	"net/netip"

	"github.com/dlclark/regexp2"

	"github.com/jesopo/chert/value"
)

func (e *Engine) resolveBool(dyn *value.Scratch, p value.Pointer) bool {
	if p.Kind == value.KindConstant {
		return e.Constants.Bool[p.Index]
	}
	return dyn.Bool[p.Index]
}

func (e *Engine) resolveUint64(dyn *value.Scratch, p value.Pointer) uint64 {
	if p.Kind == value.KindConstant {
		return e.Constants.Uint64[p.Index]
	}
	return dyn.Uint64[p.Index]
}

func (e *Engine) resolveInt64(dyn *value.Scratch, p value.Pointer) int64 {
	if p.Kind == value.KindConstant {
		return e.Constants.Int64[p.Index]
	}
	return dyn.Int64[p.Index]
}

func (e *Engine) resolveString(dyn *value.Scratch, p value.Pointer) string {
	if p.Kind == value.KindConstant {
		return e.Constants.String[p.Index]
	}
	return dyn.String[p.Index]
}

func (e *Engine) resolveIpAddr(dyn *value.Scratch, p value.Pointer) netip.Addr {
	if p.Kind == value.KindConstant {
		return e.Constants.Ip[p.Index]
	}
	return dyn.Ip[p.Index]
}

func (e *Engine) resolveCidr(dyn *value.Scratch, p value.Pointer) netip.Prefix {
	if p.Kind == value.KindConstant {
		return e.Constants.Cidr[p.Index]
	}
	return dyn.Cidr[p.Index]
}

func (e *Engine) resolveRegex(dyn *value.Scratch, p value.Pointer) *regexp2.Regexp {
	if p.Kind == value.KindConstant {
		return e.Constants.Regex[p.Index]
	}
	return dyn.Regex[p.Index]
}

// Eval runs record through every compiled predicate, cloning a fresh
// dynamics scratch from ReferenceDynamics, populating it from record via
// Schema, then walking the instruction stream. It returns the IDs of
// every predicate whose RaiseOutput fired true.
func (e *Engine) Eval(record any) []any {
	dyn := e.ReferenceDynamics.Clone()
	e.Schema.Populate(record, &dyn)

	var matched []any
	for i := 0; i < len(e.Instructions); i++ {
		inst := &e.Instructions[i]
		switch inst.Op {
		case OpAddStringString:
			dyn.String[inst.Output.Index] = e.resolveString(&dyn, inst.Left) + e.resolveString(&dyn, inst.Right)
		case OpAddUint64Uint64:
			dyn.Uint64[inst.Output.Index] = e.resolveUint64(&dyn, inst.Left) + e.resolveUint64(&dyn, inst.Right)
		case OpSubtractUint64Uint64:
			dyn.Uint64[inst.Output.Index] = e.resolveUint64(&dyn, inst.Left) - e.resolveUint64(&dyn, inst.Right)
		case OpNegativeUint64:
			dyn.Int64[inst.Output.Index] = -int64(e.resolveUint64(&dyn, inst.Left))
		case OpNotBool:
			dyn.Bool[inst.Output.Index] = !e.resolveBool(&dyn, inst.Left)
		case OpBothBoolBool:
			dyn.Bool[inst.Output.Index] = e.resolveBool(&dyn, inst.Left) && e.resolveBool(&dyn, inst.Right)
		case OpEitherBoolBool:
			dyn.Bool[inst.Output.Index] = e.resolveBool(&dyn, inst.Left) || e.resolveBool(&dyn, inst.Right)
		case OpEqualsBoolBool:
			dyn.Bool[inst.Output.Index] = e.resolveBool(&dyn, inst.Left) == e.resolveBool(&dyn, inst.Right)
		case OpEqualsStringString:
			dyn.Bool[inst.Output.Index] = e.resolveString(&dyn, inst.Left) == e.resolveString(&dyn, inst.Right)
		case OpEqualsUint64Uint64:
			dyn.Bool[inst.Output.Index] = e.resolveUint64(&dyn, inst.Left) == e.resolveUint64(&dyn, inst.Right)
		case OpEqualsInt64Int64:
			dyn.Bool[inst.Output.Index] = e.resolveInt64(&dyn, inst.Left) == e.resolveInt64(&dyn, inst.Right)
		case OpEqualsIpIp:
			left := e.resolveIpAddr(&dyn, inst.Left)
			right := e.resolveIpAddr(&dyn, inst.Right)
			dyn.Bool[inst.Output.Index] = left == right
		case OpWithinIpCidr:
			addr := e.resolveIpAddr(&dyn, inst.Left)
			prefix := e.resolveCidr(&dyn, inst.Right)
			dyn.Bool[inst.Output.Index] = prefix.Contains(addr)
		case OpMatchesStringRegex:
			s := e.resolveString(&dyn, inst.Left)
			re := e.resolveRegex(&dyn, inst.Right)
			ok := false
			if re != nil {
				if m, err := re.MatchString(s); err == nil {
					ok = m
				}
			}
			dyn.Bool[inst.Output.Index] = ok
		case OpSkipIfFalse:
			check := e.resolveBool(&dyn, inst.Left)
			dyn.Bool[inst.Output.Index] = check
			if !check {
				i += inst.Forward - 1
			}
		case OpSkipIfTrue:
			check := e.resolveBool(&dyn, inst.Left)
			dyn.Bool[inst.Output.Index] = check
			if check {
				i += inst.Forward - 1
			}
		case OpRaiseOutput:
			if e.resolveBool(&dyn, inst.Left) {
				matched = append(matched, inst.ID)
			}
		}
	}
	return matched
}
