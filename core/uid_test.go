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

func TestUIDUniqueness(t *testing.T) {
	a := NewUID()
	b := NewUID()
	if a.Equal(b) {
		t.Fatalf("two freshly minted UIDs collided: %s", a)
	}
}

func TestUIDRoundTrip(t *testing.T) {
	a := NewUID()
	b := UIDFromBytes(a.Bytes())
	if !a.Equal(b) {
		t.Fatalf("UIDFromBytes(a.Bytes()) != a")
	}
	if a.Key() != b.Key() {
		t.Fatalf("Key() mismatch after round trip")
	}
	if a.Tag() != b.Tag() {
		t.Fatalf("Tag() mismatch after round trip")
	}
}

func TestUIDJSONRoundTrip(t *testing.T) {
	a := NewUID()
	data, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var b UID
	if err := json.Unmarshal(data, &b); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !a.Equal(&b) {
		t.Fatalf("UID changed identity across JSON round trip")
	}
	if b.String() == "(none)" || b.Key() == "" {
		t.Fatalf("derived fields not recomputed after unmarshal")
	}
}

func TestUIDNilSafety(t *testing.T) {
	var nilID *UID
	if nilID.Key() != "" || nilID.Tag() != 0 || nilID.String() != "(none)" {
		t.Fatalf("nil UID accessors should return zero values")
	}
	if !nilID.Equal(nil) {
		t.Fatalf("two nil UIDs should be equal")
	}
	if nilID.Equal(NewUID()) {
		t.Fatalf("nil UID should never equal a real one")
	}
}
