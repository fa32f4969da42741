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

// Package render draws a snapshot of a coordination core's topology:
// one circle per module arranged around the broker, one line per wired
// edge. It has no bearing on simulation correctness; it exists purely
// to let an operator eyeball a Manager's wiring.
package render

import (
	"bytes"
	"fmt"
	"math"
	"os"

	svg "github.com/ajstarks/svgo"

	"lpunet/core"
)

const (
	canvasSize = 600.0
	moduleR    = 18.0
	brokerR    = 26.0
)

// Topology is the minimal view of a Manager's wiring render needs: it
// never imports core.Manager directly so a caller can render a snapshot
// built from introspection without exposing Manager's internals.
type Topology struct {
	Broker  *core.UID
	Modules []*core.UID
	Edges   [][2]*core.UID // (src, dst) pairs, as returned by RoutingTable.Coords
}

// WriteSVG renders t to fn as a static SVG document, one circle per
// module around the broker and one line per directed edge.
func WriteSVG(t *Topology, fn string) error {
	buf := new(bytes.Buffer)
	canvas := svg.New(buf)
	canvas.Start(int(canvasSize), int(canvasSize))

	cx, cy := canvasSize/2, canvasSize/2
	radius := canvasSize/2 - moduleR*2
	positions := make(map[string][2]float64, len(t.Modules)+1)
	positions[t.Broker.Key()] = [2]float64{cx, cy}

	n := len(t.Modules)
	for i, mod := range t.Modules {
		theta := 2 * math.Pi * float64(i) / float64(max(n, 1))
		x := cx + radius*math.Cos(theta)
		y := cy + radius*math.Sin(theta)
		positions[mod.Key()] = [2]float64{x, y}
	}

	for _, edge := range t.Edges {
		src, ok1 := positions[edge[0].Key()]
		dst, ok2 := positions[edge[1].Key()]
		if !ok1 || !ok2 {
			continue
		}
		canvas.Line(int(src[0]), int(src[1]), int(dst[0]), int(dst[1]), "stroke:#888888;stroke-width:1")
	}

	bx, by := positions[t.Broker.Key()][0], positions[t.Broker.Key()][1]
	canvas.Circle(int(bx), int(by), int(brokerR), "fill:#3355aa;stroke:black;stroke-width:1")
	canvas.Text(int(bx), int(by), t.Broker.String(), "text-anchor:middle;fill:white;font-size:10px")

	for _, mod := range t.Modules {
		p := positions[mod.Key()]
		canvas.Circle(int(p[0]), int(p[1]), int(moduleR), "fill:#dddddd;stroke:black;stroke-width:1")
		canvas.Text(int(p[0]), int(p[1])+4, mod.String(), "text-anchor:middle;font-size:9px")
	}

	canvas.End()

	f, err := os.Create(fn)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	defer f.Close()
	_, err = f.Write(buf.Bytes())
	return err
}
