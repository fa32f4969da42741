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

// Package core implements the coordination core: modules, the broker,
// the manager, and the routing table / connectivity data model that
// parameterizes them.
package core

import (
	"bytes"
	"encoding/base32"
	"encoding/base64"
	"encoding/binary"

	"github.com/bfix/gospel/crypto/ed25519"
)

// UID is a process-unique opaque identifier for a Module, Broker,
// Manager, or Connectivity instance. It is the binary representation of
// a freshly generated Ed25519 public key: cheap to mint, fixed-size, and
// collision-free without a central counter or coordination.
type UID struct {
	Data []byte // binary representation (32 bytes)

	tag   uint32 // short identifier, derived from Data
	str32 string // base32 string form (map/log key)
	str64 string // base64 string form
}

// NewUID mints a fresh, globally unique identifier.
func NewUID() *UID {
	_, prv := ed25519.NewKeypair()
	pub := prv.Public()
	id := &UID{Data: pub.Bytes()}
	id.init()
	return id
}

// UIDFromBytes reconstructs a UID from its binary representation (e.g.
// after decoding off the wire).
func UIDFromBytes(data []byte) *UID {
	id := &UID{Data: append([]byte(nil), data...)}
	id.init()
	return id
}

func (id *UID) init() {
	if len(id.Data) >= 4 {
		id.tag = binary.BigEndian.Uint32(id.Data[:4])
	}
	id.str64 = base64.StdEncoding.EncodeToString(id.Data)
	id.str32 = base32.StdEncoding.EncodeToString(id.Data)
}

// Key returns a string suitable for use as a map key.
func (id *UID) Key() string {
	if id == nil {
		return ""
	}
	return id.str64
}

// Tag returns a short numeric identifier, handy for log lines.
func (id *UID) Tag() uint32 {
	if id == nil {
		return 0
	}
	return id.tag
}

// String returns a short human-readable representation.
func (id *UID) String() string {
	if id == nil {
		return "(none)"
	}
	if len(id.str32) > 8 {
		return id.str32[:8]
	}
	return id.str32
}

// Bytes returns the binary representation (a defensive copy).
func (id *UID) Bytes() []byte {
	return Clone(id.Data)
}

// Equal reports whether two identifiers refer to the same entity.
func (id *UID) Equal(other *UID) bool {
	if id == nil || other == nil {
		return id == other
	}
	return bytes.Equal(id.Data, other.Data)
}

// MarshalJSON encodes the UID as its binary representation alone; the
// derived tag/string forms are recomputed on decode.
func (id *UID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.Data)
}

// UnmarshalJSON decodes the binary representation and recomputes the
// derived tag/string forms.
func (id *UID) UnmarshalJSON(data []byte) error {
	var raw []byte
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	id.Data = raw
	id.init()
	return nil
}
