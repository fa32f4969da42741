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
	"log"
	"time"
)

// process is the supervision base embedded by Module and Broker. It
// plays the role the teacher's core.Node plays for a LEATEA peer: a
// goroutine-backed unit of work that starts on demand, runs until its
// context is cancelled or it quits on its own, and can be joined with a
// timeout budget. Where the original coordination core forks an OS
// process and signals it with SIGUSR1/SIGINT, this runs the unit's loop
// in a goroutine and cancels it with a context.CancelFunc.
type process struct {
	id     *UID
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	log    *log.Logger
}

func newProcess(kind string, id *UID) process {
	ctx, cancel := context.WithCancel(context.Background())
	return process{
		id:     id,
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
		log:    NewLogger(kind + " " + id.String()),
	}
}

// ID returns the process's identifier.
func (p *process) ID() *UID { return p.id }

// start launches run in its own goroutine. run must close no channel and
// return when p.ctx is done or it hits a fatal condition of its own.
func (p *process) start(run func(ctx context.Context)) {
	go func() {
		defer close(p.done)
		run(p.ctx)
	}()
}

// quit requests the process stop, without waiting for it to do so.
func (p *process) quit() { p.cancel() }

// join blocks until the process's goroutine has returned or the timeout
// elapses, whichever comes first. A timeout of zero waits indefinitely.
func (p *process) join(timeout time.Duration) error {
	if timeout <= 0 {
		<-p.done
		return nil
	}
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case <-p.done:
		return nil
	case <-t.C:
		return NewErrTransport("join timed out waiting for %s", p.id)
	}
}

// logf writes a log line through the process's named logger, the way
// the teacher tags node-level log.Printf calls with a peer ID.
func (p *process) logf(format string, a ...any) {
	p.log.Printf(format, a...)
}
