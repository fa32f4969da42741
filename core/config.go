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
	"encoding/json"
	"os"
)

// Config holds the tunable parameters of the coordination core.
//
// PortData/PortCtrl are carried for external configuration parity with
// the original ZeroMQ-based bus (a future net.Conn-backed Dialer can use
// them); the in-process channel transport of this port does not bind
// sockets, but ReadConfig still rejects a configuration in which the two
// are equal.
type Config struct {
	PortData           int `json:"portData"`
	PortCtrl           int `json:"portCtrl"`
	LingerMillis       int `json:"lingerMillis"`       // LINGER_TIME analogue
	JoinTimeoutSeconds int `json:"joinTimeoutSeconds"` // Manager.Stop() per-child join budget
	CtrlBufferSize     int `json:"ctrlBufferSize"`     // control channel depth
	DataBufferSize     int `json:"dataBufferSize"`     // data channel depth
}

// cfg is the package-local configuration, with default values mirroring
// the teacher's core/config.go "cfg" convention.
var cfg = &Config{
	PortData:           5000,
	PortCtrl:           5001,
	LingerMillis:       200,
	JoinTimeoutSeconds: 1,
	CtrlBufferSize:     8,
	DataBufferSize:     64,
}

// SetConfiguration installs non-zero fields of c as the active
// configuration. Call before Manager.Start().
func SetConfiguration(c *Config) {
	if c.PortData > 0 {
		cfg.PortData = c.PortData
	}
	if c.PortCtrl > 0 {
		cfg.PortCtrl = c.PortCtrl
	}
	if c.LingerMillis > 0 {
		cfg.LingerMillis = c.LingerMillis
	}
	if c.JoinTimeoutSeconds > 0 {
		cfg.JoinTimeoutSeconds = c.JoinTimeoutSeconds
	}
	if c.CtrlBufferSize > 0 {
		cfg.CtrlBufferSize = c.CtrlBufferSize
	}
	if c.DataBufferSize > 0 {
		cfg.DataBufferSize = c.DataBufferSize
	}
}

// GetConfiguration returns a copy of the active configuration.
func GetConfiguration() Config { return *cfg }

// ReadConfig deserializes a configuration from a JSON file and installs it.
func ReadConfig(fn string) error {
	data, err := os.ReadFile(fn)
	if err != nil {
		return err
	}
	var c Config
	if err := json.Unmarshal(data, &c); err != nil {
		return err
	}
	portData, portCtrl := cfg.PortData, cfg.PortCtrl
	if c.PortData > 0 {
		portData = c.PortData
	}
	if c.PortCtrl > 0 {
		portCtrl = c.PortCtrl
	}
	if portData == portCtrl {
		return NewErrInvalidArgument("portData and portCtrl must differ (both %d)", portData)
	}
	SetConfiguration(&c)
	return nil
}
