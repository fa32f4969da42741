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

func TestBrokerRoundCompletesAndResets(t *testing.T) {
	a, b := NewUID(), NewUID()
	table := NewRoutingTable()
	table.Set(a, b)

	var rounds int
	listener := func(ev *Event) {
		if ev.Type == EvBarrierRound {
			rounds++
		}
	}
	broker := NewBroker(table, listener)
	out := make(chan Frame, 1)
	broker.route(b, out)

	if len(broker.awaited) != 1 {
		t.Fatalf("expected one coord awaited at start, got %d", len(broker.awaited))
	}

	broker.handleData(Frame{Sender: a, Dest: b, Data: NumbersPayload([]float64{1})})

	if rounds != 1 {
		t.Fatalf("expected one completed round, got %d", rounds)
	}
	if len(broker.awaited) != 1 {
		t.Fatalf("awaited should be refilled to the full coord set after a round, got %d", len(broker.awaited))
	}
	select {
	case f := <-out:
		if f.Sender.Key() != a.Key() {
			t.Fatalf("delivered frame has wrong sender")
		}
	default:
		t.Fatalf("expected the frame to be delivered to b's inbound channel")
	}
}

func TestBrokerHoldsAcceptedFramesUntilRoundCompletes(t *testing.T) {
	a, b, c, d := NewUID(), NewUID(), NewUID(), NewUID()
	table := NewRoutingTable()
	table.Set(a, b)
	table.Set(c, d)
	broker := NewBroker(table, nil)
	outB := make(chan Frame, 2)
	outD := make(chan Frame, 2)
	broker.route(b, outB)
	broker.route(d, outD)

	// (a,b) is accepted but held in pending; (c,d) is still awaited, so
	// the round is not complete and nothing has been delivered yet.
	broker.handleData(Frame{Sender: a, Dest: b, Step: 0})
	if len(broker.awaited) != 1 {
		t.Fatalf("expected one coord still awaited, got %d", len(broker.awaited))
	}
	if len(outB) != 0 {
		t.Fatalf("frame should not be delivered before the round completes, got %d", len(outB))
	}

	// a duplicate frame for an already-accepted coordinate is silently
	// dropped, not queued for a future round.
	broker.handleData(Frame{Sender: a, Dest: b, Step: 0})
	if len(broker.pending) != 1 {
		t.Fatalf("duplicate coordinate should not add to pending, got %d", len(broker.pending))
	}

	// (c,d) closes the round: every pending frame is delivered together
	// and awaited resets to the full coord set.
	broker.handleData(Frame{Sender: c, Dest: d, Step: 0})
	if len(broker.pending) != 0 {
		t.Fatalf("pending should be empty once the round completes, got %d", len(broker.pending))
	}
	if len(broker.awaited) != 2 {
		t.Fatalf("awaited should be refilled to the full coord set, got %d", len(broker.awaited))
	}
	if len(outB) != 1 {
		t.Fatalf("expected b to have received exactly one frame, got %d", len(outB))
	}
	if len(outD) != 1 {
		t.Fatalf("expected d to have received exactly one frame, got %d", len(outD))
	}
}
