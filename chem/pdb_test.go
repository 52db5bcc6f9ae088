/*
 * pdb_test.go, part of gcenter.
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
	"bytes"
	"math"
	"path/filepath"
	"strings"
	"testing"
)

func TestPDBRead(Te *testing.T) {
	s := readWater(Te)
	if s.Len() != 7 {
		Te.Fatalf("expected 7 atoms, got %d", s.Len())
	}
	if s.Title != "two waters" {
		Te.Errorf("title %q", s.Title)
	}
	if s.Frame.Box == nil || s.Frame.Box.Lengths() != [3]float64{20, 20, 20} || !s.Frame.Box.IsOrthogonal() {
		Te.Errorf("box not read properly: %v", s.Frame.Box)
	}
	at := s.Atom(4)
	if at.Name != "HW1" || at.MolName != "SOL" || at.MolID != 2 || at.ID != 5 || at.Symbol != "H" {
		Te.Errorf("atom 5 read as %+v", at)
	}
	if s.Atom(6).Symbol != "Na" {
		Te.Errorf("sodium symbol read as %q", s.Atom(6).Symbol)
	}
	if v := s.Frame.Coords.Vec(3); v != [3]float64{19.8, 10, 10} {
		Te.Errorf("coordinates of atom 4: %v", v)
	}
}

func TestPDBConect(Te *testing.T) {
	pdb := waterPDB[:strings.Index(waterPDB, "END")] + "CONECT    1    2    3\nCONECT    4    5    6\nEND\n"
	s, err := PDBRead(strings.NewReader(pdb))
	if err != nil {
		Te.Fatal(err)
	}
	if len(s.Bonds()) != 4 {
		Te.Errorf("expected 4 bonds from CONECT, got %v", s.Bonds())
	}
	var buf bytes.Buffer
	if err := PDBWrite(&buf, s.Topology, s.Frame, ""); err != nil {
		Te.Fatal(err)
	}
	if c := strings.Count(buf.String(), "CONECT"); c != 4 {
		Te.Errorf("expected 4 CONECT records written, got %d", c)
	}
}

func TestPDBRoundTrip(Te *testing.T) {
	s := readWater(Te)
	fname := filepath.Join(Te.TempDir(), "out.pdb")
	if err := PDBFileWrite(fname, s.Topology, s.Frame, s.Title); err != nil {
		Te.Fatal(err)
	}
	r, err := PDBFileRead(fname)
	if err != nil {
		Te.Fatal(err)
	}
	for i := 0; i < s.Len(); i++ {
		a, b := s.Atom(i), r.Atom(i)
		if a.Name != b.Name || a.MolName != b.MolName || a.MolID != b.MolID || a.Symbol != b.Symbol {
			Te.Errorf("atom %d: %+v became %+v", i, a, b)
		}
		va, vb := s.Frame.Coords.Vec(i), r.Frame.Coords.Vec(i)
		for k := range va {
			if math.Abs(va[k]-vb[k]) > 1e-3 {
				Te.Errorf("atom %d: coordinates %v became %v", i, va, vb)
			}
		}
	}
	if r.Frame.Box.Lengths() != s.Frame.Box.Lengths() {
		Te.Errorf("box %v became %v", s.Frame.Box, r.Frame.Box)
	}
}

func TestPDBErrors(Te *testing.T) {
	if _, err := PDBRead(strings.NewReader("REMARK nothing here\n")); err == nil {
		Te.Error("a PDB without atoms should fail")
	}
	bad := "ATOM      1  OW  SOL     1       5.0x0   5.000   5.000  1.00  0.00           O\n"
	if _, err := PDBRead(strings.NewReader(bad)); err == nil {
		Te.Error("a malformed coordinate should fail")
	}
	if _, err := PDBFileRead(filepath.Join(Te.TempDir(), "missing.pdb")); err == nil {
		Te.Error("a missing file should fail")
	}
}
