// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ast

import "github.com/dlclark/regexp2"

// RegexConst is a literal `m/.../` pattern, compiled once at parse
// time. Pattern is kept alongside the compiled form since Value
// itself has no accessor for its source text and serialization needs
// the source, not the compiled automaton.
type RegexConst struct {
	Pattern string
	Value   *regexp2.Regexp
}

func (RegexConst) isRegex() {}

// RegexVar references a schema field of type Regex.
type RegexVar struct {
	Name string
	Slot int
}

func (RegexVar) isRegex() {}
