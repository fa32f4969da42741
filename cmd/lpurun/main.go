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

// Command lpurun wires a small ring topology of modules behind a broker,
// runs it for a fixed number of barrier-synchronized rounds, and tears
// it down cleanly on completion or on SIGINT/SIGTERM.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"lpunet/core"
	"lpunet/render"
)

func main() {
	log.Println("lpunet coordination core")

	var cfgFile string
	var numModules int
	var numSteps int
	var renderFile string
	flag.StringVar(&cfgFile, "c", "", "JSON-encoded configuration file (optional)")
	flag.IntVar(&numModules, "n", 4, "number of modules in the ring")
	flag.IntVar(&numSteps, "steps", 10, "number of barrier rounds to run")
	flag.StringVar(&renderFile, "render", "", "write an SVG snapshot of the topology to this file")
	flag.Parse()

	if cfgFile != "" {
		if err := core.ReadConfig(cfgFile); err != nil {
			log.Fatal(err)
		}
	}

	mgr := core.NewManager()

	done := make(chan struct{})
	var rounds atomic.Int64
	if numSteps <= 0 {
		close(done)
	}

	listener := func(ev *core.Event) {
		switch ev.Type {
		case core.EvModuleStarted:
			log.Printf("module %s started", ev.Peer)
		case core.EvModuleStopped:
			log.Printf("module %s stopped", ev.Peer)
		case core.EvBarrierRound:
			log.Printf("broker %s completed a round", ev.Peer)
			if rounds.Add(1) == int64(numSteps) {
				close(done)
			}
		case core.EvProtocolFault:
			log.Printf("protocol fault at %s: %v", ev.Peer, ev.Val)
		}
	}

	broker := core.NewBroker(core.NewRoutingTable(), listener)
	if err := mgr.AddBroker(broker); err != nil {
		log.Fatal(err)
	}

	modules := make([]*core.Module, numModules)
	for i := range modules {
		modules[i] = core.NewModule(nil, listener)
		mgr.AddModule(modules[i])
	}

	conn := core.NewConnectivity([][2]string{{"out", "in"}})
	for i := range modules {
		next := modules[(i+1)%len(modules)]
		if err := mgr.Connect(modules[i], next, conn, '+'); err != nil {
			log.Fatal(err)
		}
	}

	for i, mod := range modules {
		nextID := modules[(i+1)%len(modules)].ID()
		first := i == 0
		mod.SetStep(ringStep(nextID, first))
	}

	if renderFile != "" {
		topo := &render.Topology{Broker: broker.ID()}
		for _, m := range modules {
			topo.Modules = append(topo.Modules, m.ID())
		}
		for i := range modules {
			topo.Edges = append(topo.Edges, [2]*core.UID{modules[i].ID(), modules[(i+1)%len(modules)].ID()})
		}
		if err := render.WriteSVG(topo, renderFile); err != nil {
			log.Printf("render: %v", err)
		}
	}

	if err := mgr.Start(); err != nil {
		log.Fatal(err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-done:
		log.Println("run complete")
	case sig := <-sigCh:
		log.Printf("received %s, shutting down", sig)
	}

	if err := mgr.Stop(); err != nil {
		log.Fatal(err)
	}
	log.Println("coordination core stopped")
}

// ringStep returns a StepFunc that forwards a running counter to the
// next module in the ring, demonstrating the input/compute/output cycle
// without any domain-specific payload semantics. A module that received
// a value last round forwards that value plus one. With no input, the
// first module in the ring seeds the counter from the step number and
// every other module sends nothing (NONE).
func ringStep(nextID *core.UID, seed bool) core.StepFunc {
	return func(ctx context.Context, step int64, inputs map[string]core.Payload) ([]core.OutputEntry, error) {
		counter := float64(step)
		for _, p := range inputs {
			if p.Kind == core.PayloadNumbers && len(p.Numbers) > 0 {
				counter = p.Numbers[0] + 1
			}
		}
		if !seed && len(inputs) == 0 {
			return nil, nil
		}
		return []core.OutputEntry{
			{Dest: nextID, Data: core.NumbersPayload([]float64{counter})},
		}, nil
	}
}
