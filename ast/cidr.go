// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ast

import "net/netip"

// CidrConst is a literal network prefix.
type CidrConst struct {
	Value netip.Prefix
}

func (CidrConst) isCidr() {}

// CidrVar references a schema field of type Cidr.
type CidrVar struct {
	Name string
	Slot int
}

func (CidrVar) isCidr() {}
