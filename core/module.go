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
)

// OutputEntry is one (dstID, payload) pair placed into a module's
// outbound buffer for the current step. A destination omitted from the
// buffer sends NONE; a destination appearing twice is a protocol fault
// (see sync's duplicate-destination check).
type OutputEntry struct {
	Dest *UID
	Data Payload
}

// StepFunc computes one simulation step. inputs is keyed by the sending
// peer's UID.Key() and holds only the payloads that were not NONE this
// step; the returned outbound buffer is an ordered sequence of
// (dstID, payload) pairs, one per destination that has something to
// send this step (omitted destinations send NONE).
type StepFunc func(ctx context.Context, step int64, inputs map[string]Payload) (outbound []OutputEntry, error error)

// ctrlFrame is the control-plane message exchanged between Manager,
// Broker and Module: a quit request, or the ack that follows it.
type ctrlFrame struct {
	Quit bool
	Ack  bool
	From *UID
}

// Module is one coordination-core participant. It computes a StepFunc
// once per round and exchanges data with its peers exclusively through
// the Broker, never directly: the data channels below connect to the
// Broker's router, never to another Module.
type Module struct {
	process

	netMode NetMode
	inIDs   []*UID
	outIDs  []*UID
	conns   map[string]*Connectivity // peer.Key() -> relation, informational

	toBroker   chan<- Frame
	fromBroker <-chan Frame
	ctrlIn     <-chan ctrlFrame
	ctrlOut    chan<- ctrlFrame
	moduleCtrl chan ctrlFrame // Manager's write side of ctrlIn

	step     StepFunc
	listener Listener

	lastInputs map[string]Payload
}

// NewModule creates a Module bound to a StepFunc and a pair of data
// channels to its Broker. The channels are wired up by Manager.Start();
// callers outside this package construct a Module only to hand it to a
// Manager via AddModule.
func NewModule(step StepFunc, listener Listener) *Module {
	return &Module{
		process:    newProcess("module", NewUID()),
		netMode:    NetNone,
		conns:      make(map[string]*Connectivity),
		step:       step,
		listener:   listener,
		lastInputs: make(map[string]Payload),
	}
}

// ID returns the module's identifier.
func (m *Module) ID() *UID { return m.id }

// NetMode reports the module's current wiring.
func (m *Module) NetMode() NetMode { return m.netMode }

// SetStep replaces the module's StepFunc. Only safe before Start; it
// exists so a caller can close over topology information (peer UIDs)
// that is only known once every Connect call has run.
func (m *Module) SetStep(step StepFunc) { m.step = step }

// InIDs returns the peers this module expects input from.
func (m *Module) InIDs() []*UID { return Clone(m.inIDs) }

// OutIDs returns the peers this module sends output to.
func (m *Module) OutIDs() []*UID { return Clone(m.outIDs) }

// addConn registers a connection to peer in the given relation and
// direction, promoting this module's NetMode. dir '+' wires an outbound
// edge to peer; dir '-' wires an inbound edge from peer; dir '=' wires
// both. Manager.Connect is the only caller.
func (m *Module) addConn(peer *UID, conn *Connectivity, dir byte) error {
	before := m.netMode
	wireOut := dir == '+' || dir == '='
	wireIn := dir == '-' || dir == '='
	if !wireOut && !wireIn {
		return NewErrInvalidArgument("unrecognized connection direction %q", dir)
	}
	if wireOut {
		mode, err := m.netMode.PromoteOut()
		if err != nil {
			return err
		}
		m.setNet(mode)
		m.outIDs = appendUnique(m.outIDs, peer)
	}
	if wireIn {
		mode, err := m.netMode.PromoteIn()
		if err != nil {
			return err
		}
		m.setNet(mode)
		m.inIDs = appendUnique(m.inIDs, peer)
	}
	m.conns[peer.Key()] = conn
	if m.netMode != before {
		notify(m.listener, &Event{Type: EvNetPromoted, Peer: m.id, Ref: peer, Val: m.netMode})
	}
	return nil
}

// setNet installs mode as the module's NetMode, logging the transition.
// A no-op transition (mode already reached) still logs nothing, since
// PromoteIn/PromoteOut only ever return a strictly-advancing mode or the
// current one unchanged.
func (m *Module) setNet(mode NetMode) {
	if mode == m.netMode {
		return
	}
	m.logf("net status changed: %s -> %s", m.netMode, mode)
	m.netMode = mode
}

func appendUnique(ids []*UID, id *UID) []*UID {
	for _, existing := range ids {
		if existing.Equal(id) {
			return ids
		}
	}
	return append(ids, id)
}

// bind attaches this module's data/control channels to its Broker. Called
// by Manager.Start() once the routing table is final.
func (m *Module) bind(toBroker chan<- Frame, fromBroker <-chan Frame, ctrlIn <-chan ctrlFrame, ctrlOut chan<- ctrlFrame) {
	m.toBroker = toBroker
	m.fromBroker = fromBroker
	m.ctrlIn = ctrlIn
	m.ctrlOut = ctrlOut
}

// Start launches the module's control/input/compute/output/sync loop.
func (m *Module) Start() {
	m.start(m.run)
}

// Quit cancels the module's context without waiting. The loop returns at
// its next check of the context, which may be inside a round's sync.
func (m *Module) Quit() { m.quit() }

func (m *Module) run(ctx context.Context) {
	notify(m.listener, &Event{Type: EvModuleStarted, Peer: m.id})
	defer notify(m.listener, &Event{Type: EvModuleStopped, Peer: m.id})

	var stepNum int64
	for {
		// control phase: a pending quit is honored between rounds, never
		// mid-round, so a module never leaves its peers waiting on a
		// barrier it will never complete.
		select {
		case cf := <-m.ctrlIn:
			if cf.Quit {
				m.ack(cf)
				return
			}
		case <-ctx.Done():
			return
		default:
		}

		// compute phase, fed by the previous round's sync.
		outputs, err := m.step(ctx, stepNum, m.lastInputs)
		if err != nil {
			m.logf("step %d: %v", stepNum, err)
			outputs = nil
		}

		if err := m.sync(ctx, stepNum, outputs); err != nil {
			if IsErrProtocolViolation(err) {
				m.logf("sync at step %d: %v", stepNum, err)
				notify(m.listener, &Event{Type: EvProtocolFault, Peer: m.id, Val: err})
				return
			}
			if ctx.Err() != nil {
				return
			}
			m.logf("sync at step %d: %v", stepNum, err)
		}
		stepNum++
	}
}

func (m *Module) ack(cf ctrlFrame) {
	select {
	case m.ctrlOut <- ctrlFrame{Ack: true, From: m.id}:
	default:
	}
}

// sync runs the barrier protocol for one round: S1 sends one Frame per
// outbound edge (NONE where the step produced nothing), S2 blocks until
// a Frame has arrived from every inbound edge.
func (m *Module) sync(ctx context.Context, stepNum int64, outbound []OutputEntry) error {
	toSend := make(map[string]bool, len(m.outIDs))
	for _, dst := range m.outIDs {
		toSend[dst.Key()] = true
	}
	for _, entry := range outbound {
		key := entry.Dest.Key()
		if !toSend[key] {
			return NewErrProtocolViolation("module %s placed a duplicate or unknown destination %s in its outbound buffer", m.id, entry.Dest)
		}
		delete(toSend, key)
		select {
		case m.toBroker <- Frame{Sender: m.id, Dest: entry.Dest, Step: stepNum, Data: entry.Data}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	for _, dst := range m.outIDs {
		if !toSend[dst.Key()] {
			continue
		}
		select {
		case m.toBroker <- Frame{Sender: m.id, Dest: dst, Step: stepNum, Data: NonePayload()}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	expected := make(map[string]bool, len(m.inIDs))
	for _, id := range m.inIDs {
		expected[id.Key()] = true
	}
	received := make(map[string]Payload, len(m.inIDs))
	seen := make(map[string]bool, len(m.inIDs))
	for len(seen) < len(expected) {
		select {
		case frame := <-m.fromBroker:
			key := frame.Sender.Key()
			if !expected[key] {
				return NewErrProtocolViolation("module %s received a frame from unexpected source %s", m.id, frame.Sender)
			}
			if seen[key] {
				return NewErrProtocolViolation("module %s received a duplicate frame from %s", m.id, frame.Sender)
			}
			seen[key] = true
			if !frame.Data.IsNone() {
				received[key] = frame.Data
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	m.lastInputs = received
	return nil
}
