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

import "context"

// Broker is the star-topology router at the center of a coordination
// core. Every Module sends its S1 frames here and receives its S2
// frames from here; no Module ever talks to another Module directly.
//
// Exactly one Broker belongs to a Manager (see Manager.AddBroker).
type Broker struct {
	process

	table *RoutingTable

	dataIn  chan Frame
	dataOut map[string]chan<- Frame // dest.Key() -> module's inbound channel

	ctrlIn   <-chan ctrlFrame
	ctrlOut  chan<- ctrlFrame
	listener Listener

	awaited map[string]bool // "src|dst" coords not yet accepted this round
	pending []Frame         // frames accepted this round, held until awaited is empty
}

// NewBroker creates a Broker over a finalized routing table.
func NewBroker(table *RoutingTable, listener Listener) *Broker {
	b := &Broker{
		process:  newProcess("broker", NewUID()),
		table:    table,
		dataIn:   make(chan Frame, cfg.DataBufferSize),
		dataOut:  make(map[string]chan<- Frame),
		listener: listener,
	}
	b.resetAwaited()
	return b
}

// DataIn is the single channel every bound Module sends its Frames to.
func (b *Broker) DataIn() chan<- Frame { return b.dataIn }

// route registers the inbound channel of a Module known to the broker as
// a routable destination.
func (b *Broker) route(dest *UID, in chan<- Frame) {
	b.dataOut[dest.Key()] = in
}

func (b *Broker) bind(ctrlIn <-chan ctrlFrame, ctrlOut chan<- ctrlFrame) {
	b.ctrlIn = ctrlIn
	b.ctrlOut = ctrlOut
}

func (b *Broker) resetAwaited() {
	b.awaited = make(map[string]bool)
	for _, c := range b.table.Coords() {
		b.awaited[coordKey(c[0], c[1])] = true
	}
}

func coordKey(src, dst *UID) string { return src.Key() + "|" + dst.Key() }

// Start launches the broker's reactor loop.
func (b *Broker) Start() { b.start(b.run) }

// Quit requests the broker stop.
func (b *Broker) Quit() { b.quit() }

func (b *Broker) run(ctx context.Context) {
	for {
		select {
		case frame := <-b.dataIn:
			b.handleData(frame)
		case cf := <-b.ctrlIn:
			if cf.Quit {
				// Stop the loop and ack without re-signaling ourselves:
				// a Broker never issues its own quit, so there is no
				// self-notification to suppress, only the ack to send.
				select {
				case b.ctrlOut <- ctrlFrame{Ack: true, From: b.id}:
				default:
				}
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// handleData accepts one frame into the current round. A frame whose
// coordinate is not in awaited — not in the routing table, or already
// accepted this round — is silently dropped. Once awaited is empty the
// whole round's pending list is delivered together, in the order it was
// accepted, and the round resets.
func (b *Broker) handleData(frame Frame) {
	key := coordKey(frame.Sender, frame.Dest)
	if !b.awaited[key] {
		return
	}
	delete(b.awaited, key)
	b.pending = append(b.pending, frame)
	if len(b.awaited) == 0 {
		b.deliverRound()
	}
}

func (b *Broker) deliverRound() {
	for _, frame := range b.pending {
		out, ok := b.dataOut[frame.Dest.Key()]
		if !ok {
			err := NewErrTransport("no route to %s", frame.Dest)
			b.logf("%v", err)
			notify(b.listener, &Event{Type: EvProtocolFault, Peer: b.id, Ref: frame.Dest, Val: err})
			continue
		}
		out <- frame
	}
	b.pending = nil
	notify(b.listener, &Event{Type: EvBarrierRound, Peer: b.id})
	b.resetAwaited()
}
