// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ast defines the typed predicate tree the parser builds and
// the compiler lowers. Per the data model, each result type gets its
// own node enumeration rather than a single runtime-tagged value node
// — one marker interface per primitive type, with an unexported method
// restricting which package's types may satisfy it. This keeps typing
// enforced by construction: a function that wants a String operand
// simply declares its parameter type ast.String, and nothing outside
// this package can hand it anything else.
package ast

// Bool is any AST node whose result type is boolean.
type Bool interface {
	isBool()
}

// Uint64 is any AST node whose result type is an unsigned 64-bit int.
type Uint64 interface {
	isUint64()
}

// Int64 is any AST node whose result type is a signed 64-bit int.
type Int64 interface {
	isInt64()
}

// String is any AST node whose result type is a string.
type String interface {
	isString()
}

// Ip is any AST node whose result type is an IP address.
type Ip interface {
	isIp()
}

// Cidr is any AST node whose result type is a network prefix.
type Cidr interface {
	isCidr()
}

// Regex is any AST node whose result type is a compiled pattern.
type Regex interface {
	isRegex()
}

// Node is the union of every typed root an expression can reduce to.
// The parser's operand stack holds values of this type (as `any`);
// operator reduction recovers the concrete category with a type
// switch against Bool/Uint64/Int64/String/Ip/Cidr/Regex.
type Node = any
