// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ast

// StringConst is a quoted literal.
type StringConst struct {
	Value string
}

func (StringConst) isString() {}

// StringVar references a schema field of type String.
type StringVar struct {
	Name string
	Slot int
}

func (StringVar) isString() {}

// AddStringString is `left + right` string concatenation.
type AddStringString struct {
	Left, Right String
}

func (AddStringString) isString() {}
