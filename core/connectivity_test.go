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

import "testing"

func TestConnectivityTransposeInvolution(t *testing.T) {
	conn := NewConnectivity([][2]string{{"out0", "in0"}, {"out0", "in1"}, {"out1", "in1"}})
	back := conn.Transpose().Transpose()

	orig := conn.Pairs()
	got := back.Pairs()
	if !Equal(orig, got) {
		t.Fatalf("transpose().transpose() changed the relation: %v vs %v", orig, got)
	}
}

func TestConnectivityTransposeSwapsPorts(t *testing.T) {
	conn := NewConnectivity([][2]string{{"out0", "in0"}})
	if !conn.Connected("out0", "in0") {
		t.Fatalf("expected out0->in0 to be connected")
	}
	t2 := conn.Transpose()
	if !t2.Connected("in0", "out0") {
		t.Fatalf("expected transpose to swap ports")
	}
	if t2.Connected("out0", "in0") {
		t.Fatalf("transpose should not retain the original direction")
	}
}
