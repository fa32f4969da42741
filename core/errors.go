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

import "fmt"

// Error kinds raised by the coordination core (see spec §7).
//
// InvalidArgument and PreconditionFailed are synchronous and fatal only
// to the offending call. ProtocolViolation terminates the module process
// that raised it (observed by the Manager at join()). TransportError is
// logged; the reactor's default backpressure policy applies.

// ErrInvalidArgument signals a bad type, unrecognized direction, or a
// duplicate port/identifier passed to a constructor or registration call.
type ErrInvalidArgument struct{ what string }

func NewErrInvalidArgument(format string, a ...any) *ErrInvalidArgument {
	return &ErrInvalidArgument{fmt.Sprintf(format, a...)}
}

func (e *ErrInvalidArgument) Error() string { return "invalid argument: " + e.what }

func IsErrInvalidArgument(err error) bool {
	_, ok := err.(*ErrInvalidArgument)
	return ok
}

// ErrPreconditionFailed signals an operation attempted out of its
// allowed lifecycle window (a second broker, a routing table mutation
// after start).
type ErrPreconditionFailed struct{ what string }

func NewErrPreconditionFailed(format string, a ...any) *ErrPreconditionFailed {
	return &ErrPreconditionFailed{fmt.Sprintf(format, a...)}
}

func (e *ErrPreconditionFailed) Error() string { return "precondition failed: " + e.what }

func IsErrPreconditionFailed(err error) bool {
	_, ok := err.(*ErrPreconditionFailed)
	return ok
}

// ErrProtocolViolation signals a duplicate outbound destination within a
// step, or an inbound frame from a source the receiver did not expect.
// The child module logs and terminates; it is not recoverable in place.
type ErrProtocolViolation struct{ what string }

func NewErrProtocolViolation(format string, a ...any) *ErrProtocolViolation {
	return &ErrProtocolViolation{fmt.Sprintf(format, a...)}
}

func (e *ErrProtocolViolation) Error() string { return "protocol violation: " + e.what }

func IsErrProtocolViolation(err error) bool {
	_, ok := err.(*ErrProtocolViolation)
	return ok
}

// ErrTransport signals a socket/channel-level failure. It is logged; it
// never blocks the broker's reactor loop.
type ErrTransport struct{ what string }

func NewErrTransport(format string, a ...any) *ErrTransport {
	return &ErrTransport{fmt.Sprintf(format, a...)}
}

func (e *ErrTransport) Error() string { return "transport error: " + e.what }

func IsErrTransport(err error) bool {
	_, ok := err.(*ErrTransport)
	return ok
}
