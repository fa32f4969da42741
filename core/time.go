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
	"time"
)

// Time is a local timestamp, in microseconds since the Unix epoch.
// Modules and the broker run in the same process and share a clock, so
// unlike a distributed deployment there is no need to carry timestamps
// as peer-relative ages: events are stamped with wall-clock Time
// directly.
type Time struct {
	Val int64
}

// Before returns true if t is before t2.
func (t *Time) Before(t2 *Time) bool {
	return t.Val < t2.Val
}

// String returns a human-readable timestamp.
func (t *Time) String() string {
	return time.UnixMicro(t.Val).Format(time.RFC3339Nano)
}

// TimeNow returns the current time.
func TimeNow() *Time {
	return &Time{Val: time.Now().UnixMicro()}
}
