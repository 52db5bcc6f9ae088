/*
 * bonds.go, part of gcenter.
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

package chem

import (
	"math"
	"sort"

	"github.com/Ladme/gcenter"
	v3 "github.com/Ladme/gcenter/v3"
)

//constants from DOI:10.1186/1758-2946-3-33
const (
	tooclose = 0.63
	bondtol  = 0.45
)

type bond struct {
	at1, at2 int
	dist     float64
	removed  bool
}

// residueSizes returns, for each atom, the number of atoms in its residue.
// A residue is a contiguous run of atoms with the same name, number and chain.
func residueSizes(top *Topology) []int {
	sizes := make([]int, top.Len())
	start := 0
	for i := 1; i <= top.Len(); i++ {
		if i < top.Len() {
			a, b := top.Atom(i-1), top.Atom(i)
			if a.MolID == b.MolID && a.MolName == b.MolName && a.Chain == b.Chain {
				continue
			}
		}
		for k := start; k < i; k++ {
			sizes[k] = i - start
		}
		start = i
	}
	return sizes
}

// cellGrid sorts atoms into cells at least cut wide.
type cellGrid struct {
	n      [3]int
	size   [3]float64
	origin [3]float64
	pbc    bool
	cells  map[[3]int][]int
}

func newCellGrid(coord *v3.Matrix, atoms []int, box *gcenter.Box, cut float64) *cellGrid {
	g := &cellGrid{cells: make(map[[3]int][]int)}
	var lengths [3]float64
	if gcenter.CheckBox(box) == nil {
		g.pbc = true
		lengths = box.Lengths()
	} else {
		min := [3]float64{math.Inf(1), math.Inf(1), math.Inf(1)}
		max := [3]float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
		for _, i := range atoms {
			for ax := 0; ax < 3; ax++ {
				min[ax] = math.Min(min[ax], coord.At(i, ax))
				max[ax] = math.Max(max[ax], coord.At(i, ax))
			}
		}
		g.origin = min
		for ax := 0; ax < 3; ax++ {
			lengths[ax] = max[ax] - min[ax] + cut
		}
	}
	for ax := 0; ax < 3; ax++ {
		g.n[ax] = int(math.Max(1, math.Floor(lengths[ax]/cut)))
		g.size[ax] = lengths[ax] / float64(g.n[ax])
	}
	for _, i := range atoms {
		c := g.cellOf(coord.Vec(i))
		g.cells[c] = append(g.cells[c], i)
	}
	return g
}

func (g *cellGrid) cellOf(v [3]float64) [3]int {
	var c [3]int
	for ax := 0; ax < 3; ax++ {
		x := v[ax] - g.origin[ax]
		if g.pbc {
			x = gcenter.Wrap(x, g.size[ax]*float64(g.n[ax]))
		}
		c[ax] = int(x / g.size[ax])
		if c[ax] >= g.n[ax] {
			c[ax] = g.n[ax] - 1
		}
		if c[ax] < 0 {
			c[ax] = 0
		}
	}
	return c
}

// neighbors returns the distinct cells around c, c included.
func (g *cellGrid) neighbors(c [3]int) [][3]int {
	seen := make(map[[3]int]bool, 27)
	ret := make([][3]int, 0, 27)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for dz := -1; dz <= 1; dz++ {
				n := [3]int{c[0] + dx, c[1] + dy, c[2] + dz}
				ok := true
				for ax := 0; ax < 3; ax++ {
					if g.pbc {
						n[ax] = (n[ax] + g.n[ax]) % g.n[ax]
					} else if n[ax] < 0 || n[ax] >= g.n[ax] {
						ok = false
					}
				}
				if ok && !seen[n] {
					seen[n] = true
					ret = append(ret, n)
				}
			}
		}
	}
	return ret
}

// AssignBonds assigns bonds to the topology based on a simple distance
// criterium, similar to that described in DOI:10.1186/1758-2946-3-33.
// If box is a valid orthogonal box, distances follow the minimum image
// convention. Single-atom residues (ions) are never bonded. Atoms whose
// element has no known covalent radius are left without bonds and reported
// in the returned *ElementWarning.
func AssignBonds(coord *v3.Matrix, top *Topology, box *gcenter.Box) error {
	if coord.NVecs() != top.Len() {
		return newCError("", "AssignBonds", "%d coordinates for %d atoms", coord.NVecs(), top.Len())
	}
	sizes := residueSizes(top)
	atoms := make([]int, 0, top.Len())
	covs := make([]float64, top.Len())
	var unknown []string
	maxcov := 0.0
	for i, at := range top.Atoms {
		if sizes[i] == 1 {
			continue
		}
		sym := at.Symbol
		if sym == "" {
			sym, _ = symbolFromName(at.Name, at.MolName)
		}
		cov := symbolCovrad[sym]
		if cov == 0 {
			unknown = append(unknown, at.Name)
			continue
		}
		covs[i] = cov
		maxcov = math.Max(maxcov, cov)
		atoms = append(atoms, i)
	}
	bonds := make([]*bond, 0, len(atoms))
	if len(atoms) > 1 {
		cut := 2*maxcov + bondtol
		grid := newCellGrid(coord, atoms, box, cut)
		var l [3]float64
		if grid.pbc {
			l = box.Lengths()
		}
		for c, members := range grid.cells {
			for _, nc := range grid.neighbors(c) {
				others := grid.cells[nc]
				for _, i := range members {
					vi := coord.Vec(i)
					for _, j := range others {
						if j <= i {
							continue
						}
						vj := coord.Vec(j)
						d2 := 0.0
						for ax := 0; ax < 3; ax++ {
							delta := vj[ax] - vi[ax]
							if grid.pbc {
								delta = gcenter.WrapDelta(delta, l[ax])
							}
							d2 += delta * delta
						}
						d := math.Sqrt(d2)
						if d < covs[i]+covs[j]+bondtol && d > tooclose {
							bonds = append(bonds, &bond{at1: i, at2: j, dist: d})
						}
					}
				}
			}
		}
	}
	//Now we check that no atom has too many bonds.
	incident := make(map[int][]*bond)
	for _, b := range bonds {
		incident[b.at1] = append(incident[b.at1], b)
		incident[b.at2] = append(incident[b.at2], b)
	}
	for _, i := range atoms {
		max := symbolMaxBonds[top.Atom(i).Symbol]
		if top.Atom(i).Symbol == "" {
			s, _ := symbolFromName(top.Atom(i).Name, top.Atom(i).MolName)
			max = symbolMaxBonds[s]
		}
		if max == 0 {
			continue
		}
		alive := make([]*bond, 0, len(incident[i]))
		for _, b := range incident[i] {
			if !b.removed {
				alive = append(alive, b)
			}
		}
		sort.Slice(alive, func(a, b int) bool { return alive[a].dist < alive[b].dist })
		for k := max; k < len(alive); k++ {
			alive[k].removed = true //we remove the longest bonds
		}
	}
	ret := make([][2]int, 0, len(bonds))
	for _, b := range bonds {
		if !b.removed {
			ret = append(ret, [2]int{b.at1, b.at2})
		}
	}
	top.SetBonds(ret)
	if len(unknown) > 0 {
		return &ElementWarning{Property: "covalent radius", Names: dedupNames(unknown)}
	}
	return nil
}
