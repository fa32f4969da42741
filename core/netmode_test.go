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

func TestNetModePromotionLattice(t *testing.T) {
	cases := []struct {
		start NetMode
		in    bool // PromoteIn if true, PromoteOut if false
		want  NetMode
	}{
		{NetNone, true, NetIn},
		{NetNone, false, NetOut},
		{NetIn, false, NetFull},
		{NetOut, true, NetFull},
		{NetIn, true, NetIn},
		{NetOut, false, NetOut},
		{NetFull, true, NetFull},
		{NetFull, false, NetFull},
	}
	for _, c := range cases {
		var got NetMode
		var err error
		if c.in {
			got, err = c.start.PromoteIn()
		} else {
			got, err = c.start.PromoteOut()
		}
		if err != nil {
			t.Fatalf("%s promote: unexpected error %v", c.start, err)
		}
		if got != c.want {
			t.Fatalf("%s promote(in=%v) = %s, want %s", c.start, c.in, got, c.want)
		}
	}
}

func TestNetModeNeverDemotes(t *testing.T) {
	mode, err := NetFull.PromoteIn()
	if err != nil || mode != NetFull {
		t.Fatalf("full should stay full on further promotion")
	}
}

func TestNetModeCtrlRejectsDataEdges(t *testing.T) {
	if _, err := NetCtrl.PromoteIn(); err == nil {
		t.Fatalf("expected error promoting a ctrl-only mode with a data edge")
	}
	if !IsErrInvalidArgument(func() error { _, err := NetCtrl.PromoteOut(); return err }()) {
		t.Fatalf("expected ErrInvalidArgument promoting a ctrl-only mode")
	}
}
