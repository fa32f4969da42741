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

import "sort"

// RoutingTable is a directed edge set over UIDs: one edge per
// (source, destination) pair wired by Manager.Connect. Unlike the
// teacher's sim/routingtable.go (a single-topology routing index built
// once from the final node set), this table is mutated incrementally as
// connections are made and is consulted live by the Broker to compute
// each round's awaited set.
type RoutingTable struct {
	edges map[string]map[string]bool // src.Key() -> dst.Key() -> true
	byKey map[string]*UID            // Key() -> UID, to recover values from edges
}

// NewRoutingTable returns an empty routing table.
func NewRoutingTable() *RoutingTable {
	return &RoutingTable{
		edges: make(map[string]map[string]bool),
		byKey: make(map[string]*UID),
	}
}

// Set records a directed edge from src to dst. Idempotent.
func (t *RoutingTable) Set(src, dst *UID) {
	t.byKey[src.Key()] = src
	t.byKey[dst.Key()] = dst
	row, ok := t.edges[src.Key()]
	if !ok {
		row = make(map[string]bool)
		t.edges[src.Key()] = row
	}
	row[dst.Key()] = true
}

// Coords returns every (src, dst) edge in the table, ordered for
// deterministic iteration (log output, tests).
func (t *RoutingTable) Coords() [][2]*UID {
	var out [][2]*UID
	for _, srcKey := range t.sortedKeys(t.edges) {
		row := t.edges[srcKey]
		for _, dstKey := range t.sortedRowKeys(row) {
			out = append(out, [2]*UID{t.byKey[srcKey], t.byKey[dstKey]})
		}
	}
	return out
}

// RowIDs returns the sources that reach id: { s : (s,id) in edges },
// i.e. id's inbound peers.
func (t *RoutingTable) RowIDs(id *UID) []*UID {
	var out []*UID
	for _, srcKey := range t.sortedKeys(t.edges) {
		if t.edges[srcKey][id.Key()] {
			out = append(out, t.byKey[srcKey])
		}
	}
	return out
}

// ColIDs returns the destinations reachable from id: { d : (id,d) in edges },
// i.e. id's outbound peers.
func (t *RoutingTable) ColIDs(id *UID) []*UID {
	row, ok := t.edges[id.Key()]
	if !ok {
		return nil
	}
	var out []*UID
	for _, dstKey := range t.sortedRowKeys(row) {
		out = append(out, t.byKey[dstKey])
	}
	return out
}

func (t *RoutingTable) sortedKeys(m map[string]map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (t *RoutingTable) sortedRowKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
