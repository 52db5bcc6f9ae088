/*
 * chem.go, part of gcenter.
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
	"sort"

	"github.com/Ladme/gcenter"
)

// Atom contains the information about an atom that does not change
// along a trajectory.
type Atom struct {
	Name      string
	ID        int //serial number in the file
	MolName   string
	MolName1  byte //one-letter name for residues
	MolID     int
	Chain     string
	Mass      float64
	Occupancy float64
	Bfactor   float64
	Symbol    string
	Het       bool // is hetatm in the pdb file?
}

// Copy returns a copy of the Atom object.
func (A *Atom) Copy() *Atom {
	if A == nil {
		panic("Attempted to copy a nil atom")
	}
	n := *A
	return &n
}

// Topology contains the atoms of a system and, optionally, its bonds.
type Topology struct {
	Atoms []*Atom
	bonds [][2]int

	conect bool //bonds were read from CONECT records
}

// NewTopology returns a topology with the given atoms and no bonds.
func NewTopology(ats []*Atom) *Topology {
	return &Topology{Atoms: ats}
}

// Len returns the number of atoms.
func (T *Topology) Len() int {
	return len(T.Atoms)
}

// Atom returns the ith atom. It panics if i is out of range.
func (T *Topology) Atom(i int) *Atom {
	return T.Atoms[i]
}

// Masses returns a slice with the mass of each atom.
// Atoms with unknown element have mass 0.
func (T *Topology) Masses() ([]float64, error) {
	ret := make([]float64, len(T.Atoms))
	for i, at := range T.Atoms {
		ret[i] = at.Mass
	}
	return ret, nil
}

// GuessElements fills the symbol and mass of the atoms that lack them,
// using the atom names. It returns an *ElementWarning listing the atoms
// for which no mass could be assigned.
func (T *Topology) GuessElements() error {
	var unknown []string
	for _, at := range T.Atoms {
		if at.Symbol == "" {
			at.Symbol, _ = symbolFromName(at.Name, at.MolName)
		}
		if at.Mass == 0 {
			at.Mass = symbolMass[at.Symbol]
		}
		if at.Mass == 0 {
			unknown = append(unknown, at.Name)
		}
	}
	if len(unknown) > 0 {
		return &ElementWarning{Property: "mass", Names: dedupNames(unknown)}
	}
	return nil
}

func dedupNames(names []string) []string {
	seen := make(map[string]bool)
	ret := make([]string, 0, len(names))
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			ret = append(ret, n)
		}
	}
	return ret
}

// Bonds returns the bonds of the topology, as pairs of atom indexes
// with the lower index first, sorted.
func (T *Topology) Bonds() [][2]int {
	return T.bonds
}

// SetBonds replaces the bonds of the topology.
func (T *Topology) SetBonds(b [][2]int) {
	T.bonds = T.bonds[:0]
	for _, v := range b {
		T.addBond(v[0], v[1])
	}
	T.sortBonds()
}

func (T *Topology) addBond(i, j int) {
	if i == j {
		return
	}
	if i > j {
		i, j = j, i
	}
	T.bonds = append(T.bonds, [2]int{i, j})
}

// sortBonds sorts the bonds and removes duplicates.
func (T *Topology) sortBonds() {
	sort.Slice(T.bonds, func(a, b int) bool {
		if T.bonds[a][0] != T.bonds[b][0] {
			return T.bonds[a][0] < T.bonds[b][0]
		}
		return T.bonds[a][1] < T.bonds[b][1]
	})
	ret := T.bonds[:0]
	for _, v := range T.bonds {
		if len(ret) > 0 && v == ret[len(ret)-1] {
			continue
		}
		ret = append(ret, v)
	}
	T.bonds = ret
}

// Structure is a topology with one set of coordinates and a box,
// as read from a structure file.
type Structure struct {
	*Topology
	Frame *gcenter.Frame
	Title string
}
