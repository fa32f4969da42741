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
	"sync"
	"time"
)

// Manager owns the topology: it holds the one Broker, every Module, the
// RoutingTable they share, and the control-plane protocol used to start
// and stop them as a unit. It mirrors the role of the teacher's
// sim.Network, generalized from a fixed peer-to-peer mesh to the
// star-shaped module/broker bus described by this package.
type Manager struct {
	mu      sync.Mutex
	broker  *Broker
	modules map[string]*Module
	table   *RoutingTable

	ctrlAck    chan ctrlFrame
	brokerCtrl chan ctrlFrame
	started    bool
}

// NewManager returns an empty Manager, ready for AddModule/AddBroker/Connect.
func NewManager() *Manager {
	return &Manager{
		modules: make(map[string]*Module),
		table:   NewRoutingTable(),
		ctrlAck: make(chan ctrlFrame, 8),
	}
}

// NumModules reports how many modules are registered.
func (m *Manager) NumModules() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.modules)
}

// NumBrokers reports 1 once AddBroker has succeeded, 0 otherwise.
func (m *Manager) NumBrokers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.broker == nil {
		return 0
	}
	return 1
}

// NumConns reports how many directed edges have been wired.
func (m *Manager) NumConns() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.table.Coords())
}

// AddModule registers mod with the manager. Idempotent: adding the same
// module twice is a no-op, matching the original's idempotent
// add_mod/add_brok registration.
func (m *Manager) AddModule(mod *Module) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.modules[mod.id.Key()] = mod
}

// AddBroker installs the manager's single Broker. A second call is a
// precondition failure: exactly one Broker may ever serve a Manager.
func (m *Manager) AddBroker(b *Broker) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.broker != nil {
		return NewErrPreconditionFailed("manager already has a broker")
	}
	m.broker = b
	return nil
}

// Connect wires src to dst through conn in the given direction:
//
//	'+'  src sends to dst using conn as-is
//	'-'  dst sends to src using conn's Transpose
//	'='  both of the above
//
// It promotes both modules' NetMode and records the edge(s) in the
// shared RoutingTable. Connect may be called any number of times before
// Start; it is a precondition failure afterward.
func (m *Manager) Connect(src, dst *Module, conn *Connectivity, dir byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started {
		return NewErrPreconditionFailed("cannot connect modules after start")
	}
	// auto-register src/dst, mirroring the original connect()'s habit of
	// adding modules it has not seen before rather than rejecting them.
	m.modules[src.id.Key()] = src
	m.modules[dst.id.Key()] = dst
	return m.connectLocked(src, dst, conn, dir)
}

// connectLocked implements Connect's direction logic; it assumes m.mu is
// already held.
func (m *Manager) connectLocked(src, dst *Module, conn *Connectivity, dir byte) error {
	switch dir {
	case '+':
		return m.wireEdge(src, dst, conn)
	case '-':
		return m.wireEdge(dst, src, conn.Transpose())
	case '=':
		if err := m.wireEdge(src, dst, conn); err != nil {
			return err
		}
		return m.wireEdge(dst, src, conn.Transpose())
	default:
		return NewErrInvalidArgument("unrecognized connection direction %q", dir)
	}
}

// wireEdge records one directed edge from -> to, using the same
// Connectivity on both ends: the sender's outbound view and the
// receiver's inbound view of a connection are the same relation, just
// read from opposite ends.
func (m *Manager) wireEdge(from, to *Module, conn *Connectivity) error {
	if err := from.addConn(to.id, conn, '+'); err != nil {
		return err
	}
	if err := to.addConn(from.id, conn, '-'); err != nil {
		return err
	}
	m.table.Set(from.id, to.id)
	return nil
}

// Start binds every module to the broker's router and launches the
// broker and every module's goroutine.
func (m *Manager) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started {
		return NewErrPreconditionFailed("manager already started")
	}
	if m.broker == nil {
		return NewErrPreconditionFailed("manager has no broker")
	}
	m.table = m.rebuildTable()
	m.broker.table = m.table
	m.broker.resetAwaited()

	for _, mod := range m.modules {
		fromBroker := make(chan Frame, cfg.DataBufferSize)
		ctrlIn := make(chan ctrlFrame, cfg.CtrlBufferSize)
		mod.bind(m.broker.dataIn, fromBroker, ctrlIn, m.ctrlAck)
		m.broker.route(mod.id, fromBroker)
		mod.moduleCtrl = ctrlIn
	}

	brokerCtrl := make(chan ctrlFrame, cfg.CtrlBufferSize)
	m.broker.bind(brokerCtrl, m.ctrlAck)
	m.brokerCtrl = brokerCtrl

	m.broker.Start()
	for _, mod := range m.modules {
		mod.Start()
	}
	m.started = true
	return nil
}

// rebuildTable returns a fresh copy of the table so a Connect call made
// with stale *Module pointers never mutates state visible to a running
// broker.
func (m *Manager) rebuildTable() *RoutingTable {
	t := NewRoutingTable()
	for _, coord := range m.table.Coords() {
		t.Set(coord[0], coord[1])
	}
	return t
}

// Stop requests every module and the broker quit, waiting up to the
// configured join timeout for each to acknowledge.
func (m *Manager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.started {
		return NewErrPreconditionFailed("manager not started")
	}
	budget := time.Duration(cfg.JoinTimeoutSeconds) * time.Second

	// Request every module stop before joining any of them: modules in a
	// shared round depend on each other's continued sending until they
	// see their own quit request, so stopping them one at a time would
	// strand whichever peers quit last waiting on a partner that already
	// exited.
	for _, mod := range m.modules {
		mod.moduleCtrl <- ctrlFrame{Quit: true}
	}
	for _, mod := range m.modules {
		if err := mod.join(budget); err != nil {
			return err
		}
	}
	m.brokerCtrl <- ctrlFrame{Quit: true}
	if err := m.broker.join(budget); err != nil {
		return err
	}
	m.started = false
	return nil
}
