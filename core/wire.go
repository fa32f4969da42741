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
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// PayloadKind tags the variant carried by a Payload. The original bus
// moved whatever a module's output array happened to contain; ours pins
// that down to a small closed set so a Module can decode a Frame without
// guessing.
type PayloadKind int

const (
	// PayloadNone marks a step in which a module produced nothing for a
	// given destination. The Broker still routes one Frame per outbound
	// edge every step; PayloadNone is how "nothing this step" travels.
	PayloadNone PayloadKind = iota
	PayloadBytes
	PayloadNumbers
)

// Payload is the tagged-union value carried by a Frame. Exactly one of
// Bytes/Numbers is meaningful, selected by Kind.
type Payload struct {
	Kind    PayloadKind `json:"kind"`
	Bytes   []byte      `json:"bytes,omitempty"`
	Numbers []float64   `json:"numbers,omitempty"`
}

// NonePayload is the canonical "nothing this step" payload.
func NonePayload() Payload { return Payload{Kind: PayloadNone} }

// BytesPayload wraps a raw byte payload.
func BytesPayload(b []byte) Payload { return Payload{Kind: PayloadBytes, Bytes: b} }

// NumbersPayload wraps a numeric array payload.
func NumbersPayload(v []float64) Payload { return Payload{Kind: PayloadNumbers, Numbers: v} }

// IsNone reports whether the payload carries no data.
func (p Payload) IsNone() bool { return p.Kind == PayloadNone }

// Frame is one message crossing the data bus: a Payload tagged with the
// sender's UID, emulating the implicit srcIdentity prefix a ROUTER
// socket would prepend. The receiving end uses Sender to detect
// unexpected or duplicate sources within a round (ErrProtocolViolation).
type Frame struct {
	Sender *UID    `json:"sender"`
	Dest   *UID    `json:"dest"`
	Step   int64   `json:"step"`
	Data   Payload `json:"data"`
}

// Encode serializes a Frame for transports that need bytes on the wire
// (e.g. a future net.Conn-backed Dialer). The in-process channel
// transport passes Frame values directly and never calls this, but the
// format is kept round-trip-stable so a non-channel Dialer can reuse it.
func (f *Frame) Encode() ([]byte, error) {
	return json.Marshal(f)
}

// DecodeFrame is the inverse of Encode.
func DecodeFrame(data []byte) (*Frame, error) {
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return &f, nil
}
