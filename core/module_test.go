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

import (
	"context"
	"testing"
)

func newTestModule(inIDs []*UID) (*Module, chan Frame) {
	m := NewModule(nil, nil)
	m.inIDs = inIDs
	ch := make(chan Frame, 4)
	m.fromBroker = ch
	return m, ch
}

func TestModuleSyncDetectsDuplicateSource(t *testing.T) {
	peer := NewUID()
	other := NewUID()
	m, ch := newTestModule([]*UID{peer, other})
	ch <- Frame{Sender: peer, Data: NumbersPayload([]float64{1})}
	ch <- Frame{Sender: peer, Data: NumbersPayload([]float64{2})}

	err := m.sync(context.Background(), 0, nil)
	if !IsErrProtocolViolation(err) {
		t.Fatalf("expected ErrProtocolViolation for duplicate source, got %v", err)
	}
}

func TestModuleSyncDetectsUnexpectedSource(t *testing.T) {
	peer := NewUID()
	stranger := NewUID()
	m, ch := newTestModule([]*UID{peer})
	ch <- Frame{Sender: stranger, Data: NumbersPayload([]float64{1})}

	err := m.sync(context.Background(), 0, nil)
	if !IsErrProtocolViolation(err) {
		t.Fatalf("expected ErrProtocolViolation for unexpected source, got %v", err)
	}
}

func TestModuleSyncDropsNonePayloads(t *testing.T) {
	peer := NewUID()
	m, ch := newTestModule([]*UID{peer})
	ch <- Frame{Sender: peer, Data: NonePayload()}

	if err := m.sync(context.Background(), 0, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.lastInputs) != 0 {
		t.Fatalf("NONE payload should not appear in lastInputs, got %v", m.lastInputs)
	}
}

func TestModuleSyncSendsOneFramePerOutID(t *testing.T) {
	dst := NewUID()
	m := NewModule(nil, nil)
	m.outIDs = []*UID{dst}
	toBroker := make(chan Frame, 4)
	m.toBroker = toBroker

	outbound := []OutputEntry{{Dest: dst, Data: NumbersPayload([]float64{42})}}
	if err := m.sync(context.Background(), 3, outbound); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	select {
	case f := <-toBroker:
		if f.Step != 3 || f.Data.Kind != PayloadNumbers || f.Data.Numbers[0] != 42 {
			t.Fatalf("unexpected frame: %+v", f)
		}
	default:
		t.Fatalf("expected a frame to have been sent")
	}
}

func TestModuleSyncDetectsDuplicateDestination(t *testing.T) {
	dst := NewUID()
	m := NewModule(nil, nil)
	m.outIDs = []*UID{dst}
	toBroker := make(chan Frame, 4)
	m.toBroker = toBroker

	outbound := []OutputEntry{
		{Dest: dst, Data: NumbersPayload([]float64{1})},
		{Dest: dst, Data: NumbersPayload([]float64{2})},
	}
	err := m.sync(context.Background(), 0, outbound)
	if !IsErrProtocolViolation(err) {
		t.Fatalf("expected ErrProtocolViolation for duplicate destination, got %v", err)
	}
}

func TestModuleSyncSendsNoneWhenOutputOmitted(t *testing.T) {
	dst := NewUID()
	m := NewModule(nil, nil)
	m.outIDs = []*UID{dst}
	toBroker := make(chan Frame, 4)
	m.toBroker = toBroker

	if err := m.sync(context.Background(), 0, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f := <-toBroker
	if !f.Data.IsNone() {
		t.Fatalf("expected a NONE frame for an omitted destination, got %+v", f)
	}
}

func TestAddConnPromotesNetMode(t *testing.T) {
	src := NewModule(nil, nil)
	dst := NewModule(nil, nil)
	conn := NewConnectivity([][2]string{{"out", "in"}})

	if err := src.addConn(dst.id, conn, '+'); err != nil {
		t.Fatalf("addConn: %v", err)
	}
	if src.NetMode() != NetOut {
		t.Fatalf("expected src to be NetOut, got %s", src.NetMode())
	}
	if err := dst.addConn(src.id, conn, '-'); err != nil {
		t.Fatalf("addConn: %v", err)
	}
	if dst.NetMode() != NetIn {
		t.Fatalf("expected dst to be NetIn, got %s", dst.NetMode())
	}
}
