/*
 * frame.go, part of gcenter.
 *
 * Copyright 2023 The gcenter Authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package gcenter

import (
	"fmt"

	v3 "github.com/Ladme/gcenter/v3"
)

// Frame is one snapshot of the system: coordinates in A, the box,
// the simulation time in ps and the simulation step. HasStep is false
// when the source has no step counter; Step is then meaningless.
type Frame struct {
	Coords  *v3.Matrix
	Box     *Box
	Time    float64
	Step    uint64
	HasStep bool
}

// NewFrame returns a frame with room for natoms particles and no box.
func NewFrame(natoms int) *Frame {
	return &Frame{Coords: v3.Zeros(natoms)}
}

// Len returns the number of particles in the frame.
func (f *Frame) Len() int {
	if f.Coords == nil {
		return 0
	}
	return f.Coords.NVecs()
}

// Copy returns a deep copy of the frame.
func (f *Frame) Copy() *Frame {
	r := &Frame{Time: f.Time, Step: f.Step, HasStep: f.HasStep}
	if f.Coords != nil {
		r.Coords = f.Coords.Clone()
	}
	if f.Box != nil {
		b := *f.Box
		r.Box = &b
	}
	return r
}

// Group is a set of particles used as a centering reference.
// Weights, if not nil, holds one weight (mass) per index.
type Group struct {
	Name    string
	Indexes []int
	Weights []float64
}

// Len returns the number of particles in the group.
func (g *Group) Len() int {
	return len(g.Indexes)
}

// Same returns true if both groups contain the same particles in the same order.
func (g *Group) Same(o *Group) bool {
	if g.Len() != o.Len() {
		return false
	}
	for i, v := range g.Indexes {
		if o.Indexes[i] != v {
			return false
		}
	}
	return true
}

// Operation centers Group along the axes in Dim.
type Operation struct {
	Group *Group
	Dim   Dimension
}

func (o Operation) String() string {
	return fmt.Sprintf("%s (%d particles) along %s", o.Group.Name, o.Group.Len(), o.Dim)
}
