//----------------------------------------------------------------------
// This file is part of lpunet.
// Copyright (C) 2024 The lpunet Authors
//
// lpunet is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License,
// or (at your option) any later version.
//
// lpunet is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.
//
// SPDX-License-Identifier: AGPL3.0-or-later
//----------------------------------------------------------------------

package core

// Connectivity is an opaque bipartite relation between a source module's
// output ports and a destination module's input ports. Manager.connect
// treats it as a value object: it never inspects the relation's
// internals, only passes it through to the two modules it joins and,
// when the connection direction calls for it, asks for its Transpose.
//
// The zero value is the empty relation (no ports related).
type Connectivity struct {
	// forward[srcPort] is the set of dstPorts reached from srcPort.
	forward map[string]map[string]bool
}

// NewConnectivity builds a Connectivity from an explicit port pair list,
// mirroring the sparse (src_port, dst_port) edge list BaseConnectivity
// is built from.
func NewConnectivity(pairs [][2]string) *Connectivity {
	c := &Connectivity{forward: make(map[string]map[string]bool)}
	for _, p := range pairs {
		c.add(p[0], p[1])
	}
	return c
}

func (c *Connectivity) add(src, dst string) {
	row, ok := c.forward[src]
	if !ok {
		row = make(map[string]bool)
		c.forward[src] = row
	}
	row[dst] = true
}

// Pairs returns every (srcPort, dstPort) edge in the relation.
func (c *Connectivity) Pairs() [][2]string {
	var out [][2]string
	for src, row := range c.forward {
		for dst := range row {
			out = append(out, [2]string{src, dst})
		}
	}
	return out
}

// Connected reports whether srcPort is related to dstPort.
func (c *Connectivity) Connected(srcPort, dstPort string) bool {
	row, ok := c.forward[srcPort]
	return ok && row[dstPort]
}

// Transpose returns the relation with source and destination ports
// swapped. A connection wired with direction "-" presents the transpose
// of the Connectivity it was given, so that the same relation object can
// describe traffic in either direction between a pair of modules.
func (c *Connectivity) Transpose() *Connectivity {
	t := &Connectivity{forward: make(map[string]map[string]bool)}
	for src, row := range c.forward {
		for dst := range row {
			t.add(dst, src)
		}
	}
	return t
}
