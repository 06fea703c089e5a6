// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ast

import (
	"encoding/json"
	"fmt"
	"net/netip"

	"github.com/dlclark/regexp2"
)

// wireNode is the self-describing envelope every AST node round-trips
// through: an `op` tag naming the Go type, plus whichever of the
// generic payload fields that op needs. Unused fields are omitted,
// except slot, which is always written.
type wireNode struct {
	Op      string          `json:"op"`
	Value   json.RawMessage `json:"value,omitempty"`
	Pattern string          `json:"pattern,omitempty"`
	Name    string          `json:"name,omitempty"`
	Slot    int             `json:"slot"`
	Left    json.RawMessage `json:"left,omitempty"`
	Right   json.RawMessage `json:"right,omitempty"`
	Operand json.RawMessage `json:"operand,omitempty"`
}

func decodeWire(data []byte) (wireNode, error) {
	var w wireNode
	if err := json.Unmarshal(data, &w); err != nil {
		return wireNode{}, err
	}
	return w, nil
}

// MarshalBool serializes a Bool subtree to the self-describing wire
// format.
func MarshalBool(n Bool) ([]byte, error) {
	switch n := n.(type) {
	case BoolConst:
		value, _ := json.Marshal(n.Value)
		return json.Marshal(wireNode{Op: "BoolConst", Value: value})
	case BoolVar:
		return json.Marshal(wireNode{Op: "BoolVar", Name: n.Name, Slot: n.Slot})
	case Not:
		operand, err := MarshalBool(n.Operand)
		if err != nil {
			return nil, err
		}
		return json.Marshal(wireNode{Op: "Not", Operand: operand})
	case And:
		return marshalBoolBinary("And", n.Left, n.Right)
	case Or:
		return marshalBoolBinary("Or", n.Left, n.Right)
	case EqualsBoolBool:
		return marshalBoolBinary("EqualsBoolBool", n.Left, n.Right)
	case EqualsUint64Uint64:
		left, err := MarshalUint64(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := MarshalUint64(n.Right)
		if err != nil {
			return nil, err
		}
		return json.Marshal(wireNode{Op: "EqualsUint64Uint64", Left: left, Right: right})
	case EqualsInt64Int64:
		left, err := MarshalInt64(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := MarshalInt64(n.Right)
		if err != nil {
			return nil, err
		}
		return json.Marshal(wireNode{Op: "EqualsInt64Int64", Left: left, Right: right})
	case EqualsStringString:
		left, err := MarshalString(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := MarshalString(n.Right)
		if err != nil {
			return nil, err
		}
		return json.Marshal(wireNode{Op: "EqualsStringString", Left: left, Right: right})
	case EqualsIpIp:
		left, err := MarshalIp(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := MarshalIp(n.Right)
		if err != nil {
			return nil, err
		}
		return json.Marshal(wireNode{Op: "EqualsIpIp", Left: left, Right: right})
	case Matches:
		left, err := MarshalString(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := MarshalRegex(n.Right)
		if err != nil {
			return nil, err
		}
		return json.Marshal(wireNode{Op: "Matches", Left: left, Right: right})
	case Within:
		left, err := MarshalIp(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := MarshalCidr(n.Right)
		if err != nil {
			return nil, err
		}
		return json.Marshal(wireNode{Op: "Within", Left: left, Right: right})
	default:
		return nil, fmt.Errorf("ast: unknown Bool node %T", n)
	}
}

func marshalBoolBinary(op string, left, right Bool) ([]byte, error) {
	l, err := MarshalBool(left)
	if err != nil {
		return nil, err
	}
	r, err := MarshalBool(right)
	if err != nil {
		return nil, err
	}
	return json.Marshal(wireNode{Op: op, Left: l, Right: r})
}

// UnmarshalBool deserializes a Bool subtree from the wire format.
func UnmarshalBool(data []byte) (Bool, error) {
	w, err := decodeWire(data)
	if err != nil {
		return nil, err
	}
	switch w.Op {
	case "BoolConst":
		var v bool
		if err := json.Unmarshal(w.Value, &v); err != nil {
			return nil, err
		}
		return BoolConst{Value: v}, nil
	case "BoolVar":
		return BoolVar{Name: w.Name, Slot: w.Slot}, nil
	case "Not":
		operand, err := UnmarshalBool(w.Operand)
		if err != nil {
			return nil, err
		}
		return Not{Operand: operand}, nil
	case "And", "Or", "EqualsBoolBool":
		left, err := UnmarshalBool(w.Left)
		if err != nil {
			return nil, err
		}
		right, err := UnmarshalBool(w.Right)
		if err != nil {
			return nil, err
		}
		switch w.Op {
		case "And":
			return And{Left: left, Right: right}, nil
		case "Or":
			return Or{Left: left, Right: right}, nil
		default:
			return EqualsBoolBool{Left: left, Right: right}, nil
		}
	case "EqualsUint64Uint64":
		left, err := UnmarshalUint64(w.Left)
		if err != nil {
			return nil, err
		}
		right, err := UnmarshalUint64(w.Right)
		if err != nil {
			return nil, err
		}
		return EqualsUint64Uint64{Left: left, Right: right}, nil
	case "EqualsInt64Int64":
		left, err := UnmarshalInt64(w.Left)
		if err != nil {
			return nil, err
		}
		right, err := UnmarshalInt64(w.Right)
		if err != nil {
			return nil, err
		}
		return EqualsInt64Int64{Left: left, Right: right}, nil
	case "EqualsStringString":
		left, err := UnmarshalString(w.Left)
		if err != nil {
			return nil, err
		}
		right, err := UnmarshalString(w.Right)
		if err != nil {
			return nil, err
		}
		return EqualsStringString{Left: left, Right: right}, nil
	case "EqualsIpIp":
		left, err := UnmarshalIp(w.Left)
		if err != nil {
			return nil, err
		}
		right, err := UnmarshalIp(w.Right)
		if err != nil {
			return nil, err
		}
		return EqualsIpIp{Left: left, Right: right}, nil
	case "Matches":
		left, err := UnmarshalString(w.Left)
		if err != nil {
			return nil, err
		}
		right, err := UnmarshalRegex(w.Right)
		if err != nil {
			return nil, err
		}
		return Matches{Left: left, Right: right}, nil
	case "Within":
		left, err := UnmarshalIp(w.Left)
		if err != nil {
			return nil, err
		}
		right, err := UnmarshalCidr(w.Right)
		if err != nil {
			return nil, err
		}
		return Within{Left: left, Right: right}, nil
	default:
		return nil, fmt.Errorf("ast: unknown Bool op %q", w.Op)
	}
}

// MarshalUint64 serializes a Uint64 subtree.
func MarshalUint64(n Uint64) ([]byte, error) {
	switch n := n.(type) {
	case Uint64Const:
		value, _ := json.Marshal(n.Value)
		return json.Marshal(wireNode{Op: "Uint64Const", Value: value})
	case Uint64Var:
		return json.Marshal(wireNode{Op: "Uint64Var", Name: n.Name, Slot: n.Slot})
	case AddUint64Uint64:
		return marshalUint64Binary("AddUint64Uint64", n.Left, n.Right)
	case SubUint64Uint64:
		return marshalUint64Binary("SubUint64Uint64", n.Left, n.Right)
	default:
		return nil, fmt.Errorf("ast: unknown Uint64 node %T", n)
	}
}

func marshalUint64Binary(op string, left, right Uint64) ([]byte, error) {
	l, err := MarshalUint64(left)
	if err != nil {
		return nil, err
	}
	r, err := MarshalUint64(right)
	if err != nil {
		return nil, err
	}
	return json.Marshal(wireNode{Op: op, Left: l, Right: r})
}

// UnmarshalUint64 deserializes a Uint64 subtree.
func UnmarshalUint64(data []byte) (Uint64, error) {
	w, err := decodeWire(data)
	if err != nil {
		return nil, err
	}
	switch w.Op {
	case "Uint64Const":
		var v uint64
		if err := json.Unmarshal(w.Value, &v); err != nil {
			return nil, err
		}
		return Uint64Const{Value: v}, nil
	case "Uint64Var":
		return Uint64Var{Name: w.Name, Slot: w.Slot}, nil
	case "AddUint64Uint64", "SubUint64Uint64":
		left, err := UnmarshalUint64(w.Left)
		if err != nil {
			return nil, err
		}
		right, err := UnmarshalUint64(w.Right)
		if err != nil {
			return nil, err
		}
		if w.Op == "AddUint64Uint64" {
			return AddUint64Uint64{Left: left, Right: right}, nil
		}
		return SubUint64Uint64{Left: left, Right: right}, nil
	default:
		return nil, fmt.Errorf("ast: unknown Uint64 op %q", w.Op)
	}
}

// MarshalInt64 serializes an Int64 subtree.
func MarshalInt64(n Int64) ([]byte, error) {
	switch n := n.(type) {
	case Int64Var:
		return json.Marshal(wireNode{Op: "Int64Var", Name: n.Name, Slot: n.Slot})
	case NegateUint64:
		operand, err := MarshalUint64(n.Operand)
		if err != nil {
			return nil, err
		}
		return json.Marshal(wireNode{Op: "NegateUint64", Operand: operand})
	default:
		return nil, fmt.Errorf("ast: unknown Int64 node %T", n)
	}
}

// UnmarshalInt64 deserializes an Int64 subtree.
func UnmarshalInt64(data []byte) (Int64, error) {
	w, err := decodeWire(data)
	if err != nil {
		return nil, err
	}
	switch w.Op {
	case "Int64Var":
		return Int64Var{Name: w.Name, Slot: w.Slot}, nil
	case "NegateUint64":
		operand, err := UnmarshalUint64(w.Operand)
		if err != nil {
			return nil, err
		}
		return NegateUint64{Operand: operand}, nil
	default:
		return nil, fmt.Errorf("ast: unknown Int64 op %q", w.Op)
	}
}

// MarshalString serializes a String subtree.
func MarshalString(n String) ([]byte, error) {
	switch n := n.(type) {
	case StringConst:
		value, _ := json.Marshal(n.Value)
		return json.Marshal(wireNode{Op: "StringConst", Value: value})
	case StringVar:
		return json.Marshal(wireNode{Op: "StringVar", Name: n.Name, Slot: n.Slot})
	case AddStringString:
		left, err := MarshalString(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := MarshalString(n.Right)
		if err != nil {
			return nil, err
		}
		return json.Marshal(wireNode{Op: "AddStringString", Left: left, Right: right})
	default:
		return nil, fmt.Errorf("ast: unknown String node %T", n)
	}
}

// UnmarshalString deserializes a String subtree.
func UnmarshalString(data []byte) (String, error) {
	w, err := decodeWire(data)
	if err != nil {
		return nil, err
	}
	switch w.Op {
	case "StringConst":
		var v string
		if err := json.Unmarshal(w.Value, &v); err != nil {
			return nil, err
		}
		return StringConst{Value: v}, nil
	case "StringVar":
		return StringVar{Name: w.Name, Slot: w.Slot}, nil
	case "AddStringString":
		left, err := UnmarshalString(w.Left)
		if err != nil {
			return nil, err
		}
		right, err := UnmarshalString(w.Right)
		if err != nil {
			return nil, err
		}
		return AddStringString{Left: left, Right: right}, nil
	default:
		return nil, fmt.Errorf("ast: unknown String op %q", w.Op)
	}
}

// MarshalIp serializes an Ip subtree.
func MarshalIp(n Ip) ([]byte, error) {
	switch n := n.(type) {
	case IpConst:
		value, err := n.Value.MarshalText()
		if err != nil {
			return nil, err
		}
		raw, _ := json.Marshal(string(value))
		return json.Marshal(wireNode{Op: "IpConst", Value: raw})
	case IpVar:
		return json.Marshal(wireNode{Op: "IpVar", Name: n.Name, Slot: n.Slot})
	default:
		return nil, fmt.Errorf("ast: unknown Ip node %T", n)
	}
}

// UnmarshalIp deserializes an Ip subtree.
func UnmarshalIp(data []byte) (Ip, error) {
	w, err := decodeWire(data)
	if err != nil {
		return nil, err
	}
	switch w.Op {
	case "IpConst":
		var text string
		if err := json.Unmarshal(w.Value, &text); err != nil {
			return nil, err
		}
		addr, err := netip.ParseAddr(text)
		if err != nil {
			return nil, err
		}
		return IpConst{Value: addr}, nil
	case "IpVar":
		return IpVar{Name: w.Name, Slot: w.Slot}, nil
	default:
		return nil, fmt.Errorf("ast: unknown Ip op %q", w.Op)
	}
}

// MarshalCidr serializes a Cidr subtree.
func MarshalCidr(n Cidr) ([]byte, error) {
	switch n := n.(type) {
	case CidrConst:
		raw, _ := json.Marshal(n.Value.String())
		return json.Marshal(wireNode{Op: "CidrConst", Value: raw})
	case CidrVar:
		return json.Marshal(wireNode{Op: "CidrVar", Name: n.Name, Slot: n.Slot})
	default:
		return nil, fmt.Errorf("ast: unknown Cidr node %T", n)
	}
}

// UnmarshalCidr deserializes a Cidr subtree.
func UnmarshalCidr(data []byte) (Cidr, error) {
	w, err := decodeWire(data)
	if err != nil {
		return nil, err
	}
	switch w.Op {
	case "CidrConst":
		var text string
		if err := json.Unmarshal(w.Value, &text); err != nil {
			return nil, err
		}
		prefix, err := netip.ParsePrefix(text)
		if err != nil {
			return nil, err
		}
		return CidrConst{Value: prefix}, nil
	case "CidrVar":
		return CidrVar{Name: w.Name, Slot: w.Slot}, nil
	default:
		return nil, fmt.Errorf("ast: unknown Cidr op %q", w.Op)
	}
}

// MarshalRegex serializes a Regex subtree. Constants serialize as
// their source pattern and are recompiled on load.
func MarshalRegex(n Regex) ([]byte, error) {
	switch n := n.(type) {
	case RegexConst:
		return json.Marshal(wireNode{Op: "RegexConst", Pattern: n.Pattern})
	case RegexVar:
		return json.Marshal(wireNode{Op: "RegexVar", Name: n.Name, Slot: n.Slot})
	default:
		return nil, fmt.Errorf("ast: unknown Regex node %T", n)
	}
}

// UnmarshalRegex deserializes a Regex subtree, recompiling any pattern
// constant.
func UnmarshalRegex(data []byte) (Regex, error) {
	w, err := decodeWire(data)
	if err != nil {
		return nil, err
	}
	switch w.Op {
	case "RegexConst":
		re, err := regexp2.Compile(w.Pattern, regexp2.None)
		if err != nil {
			return nil, err
		}
		return RegexConst{Pattern: w.Pattern, Value: re}, nil
	case "RegexVar":
		return RegexVar{Name: w.Name, Slot: w.Slot}, nil
	default:
		return nil, fmt.Errorf("ast: unknown Regex op %q", w.Op)
	}
}
