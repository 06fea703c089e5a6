// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ast

import "net/netip"

// IpConst is a literal IP address.
type IpConst struct {
	Value netip.Addr
}

func (IpConst) isIp() {}

// IpVar references a schema field of type Ip.
type IpVar struct {
	Name string
	Slot int
}

func (IpVar) isIp() {}
