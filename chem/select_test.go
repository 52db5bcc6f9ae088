/*
 * select_test.go, part of gcenter.
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
	"errors"
	"strings"
	"testing"

	"github.com/Ladme/gcenter"
	"github.com/google/go-cmp/cmp"
)

const peptidePDB = `ATOM      1  N   ALA A   1       0.000   0.000   0.000  1.00  0.00           N
ATOM      2  CA  ALA A   1       1.458   0.000   0.000  1.00  0.00           C
ATOM      3  C   ALA A   1       2.009   1.420   0.000  1.00  0.00           C
ATOM      4  N   GLY A   2       3.300   1.600   0.000  1.00  0.00           N
ATOM      5  CA  GLY A   2       3.900   2.900   0.000  1.00  0.00           C
ATOM      6  OW  SOL B   3       8.000   8.000   8.000  1.00  0.00           O
ATOM      7  HW1 SOL B   3       8.957   8.000   8.000  1.00  0.00           H
ATOM      8  CL  CL  B   4      12.000  12.000  12.000  1.00  0.00          CL
END
`

const sampleNdx = `[ System ]
1 2 3 4 5 6 7 8
[ Backbone ]
3 1 2
1
[ Water_and_ions ]
6 7
8
`

func peptideSelector(Te *testing.T) *Selector {
	Te.Helper()
	s, err := PDBRead(strings.NewReader(peptidePDB))
	if err != nil {
		Te.Fatal(err)
	}
	ndx, err := NdxRead(strings.NewReader(sampleNdx))
	if err != nil {
		Te.Fatal(err)
	}
	return NewSelector(s.Topology, ndx)
}

func TestNdxRead(Te *testing.T) {
	ndx, err := NdxRead(strings.NewReader(sampleNdx))
	if err != nil {
		Te.Fatal(err)
	}
	if diff := cmp.Diff([]string{"System", "Backbone", "Water_and_ions"}, ndx.Names); diff != "" {
		Te.Errorf("group names (-want +got):\n%s", diff)
	}
	g, ok := ndx.Group("Backbone")
	if !ok {
		Te.Fatal("group Backbone not found")
	}
	if diff := cmp.Diff([]int{2, 0, 1, 0}, g); diff != "" {
		Te.Errorf("group Backbone (-want +got):\n%s", diff)
	}
	if _, err := NdxRead(strings.NewReader("1 2 3\n")); err == nil {
		Te.Error("atoms outside a group should fail")
	}
	if _, err := NdxRead(strings.NewReader("[ A ]\n1 x\n")); err == nil {
		Te.Error("a non numeric atom should fail")
	}
}

func TestResolve(Te *testing.T) {
	sel := peptideSelector(Te)
	cases := []struct {
		query string
		want  []int
	}{
		{"Backbone", []int{2, 0, 1}},
		{"all", []int{0, 1, 2, 3, 4, 5, 6, 7}},
		{"@protein", []int{0, 1, 2, 3, 4}},
		{"@water", []int{5, 6}},
		{"@ion", []int{7}},
		{"resname GLY", []int{3, 4}},
		{"name CA", []int{1, 4}},
		{"name C*", []int{1, 2, 4, 7}},
		{"resid 1 to 2 and name N", []int{0, 3}},
		{"resid 2-3", []int{3, 4, 5, 6}},
		{"serial 1 8", []int{0, 7}},
		{"chain B and not element Cl", []int{5, 6}},
		{"element cl", []int{7}},
		{"@protein and (name CA or name N) and not resid 1", []int{3, 4}},
		{"Water_and_ions || resname ALA", []int{0, 1, 2, 5, 6, 7}},
		{"resname XYZ", []int{}},
	}
	for _, c := range cases {
		got, err := sel.Resolve(c.query)
		if err != nil {
			Te.Errorf("%q: %v", c.query, err)
			continue
		}
		if diff := cmp.Diff(c.want, got); diff != "" {
			Te.Errorf("%q (-want +got):\n%s", c.query, diff)
		}
	}
}

func TestResolveErrors(Te *testing.T) {
	sel := peptideSelector(Te)
	invalid := []string{"", "resname", "(name CA", "name CA )", "resid a-b", "and name CA"}
	for _, q := range invalid {
		if _, err := sel.Resolve(q); !errors.Is(err, gcenter.ErrInvalidQuery) {
			Te.Errorf("%q: expected an invalid query error, got %v", q, err)
		}
	}
	if _, err := sel.Resolve("Protein"); !errors.Is(err, gcenter.ErrNoMatch) {
		Te.Errorf("unknown group gave %v", err)
	}
	got, err := sel.Autodetect("Protein")
	if err != nil {
		Te.Fatal(err)
	}
	if diff := cmp.Diff([]int{0, 1, 2, 3, 4}, got); diff != "" {
		Te.Errorf("autodetected protein (-want +got):\n%s", diff)
	}
}

// The default reference falls back to autodetected protein atoms.
func TestComposeWithSelector(Te *testing.T) {
	sel := peptideSelector(Te)
	ops, err := gcenter.Compose(gcenter.References{Z: "@water"}, gcenter.XYZ, sel, nil)
	if err != nil {
		Te.Fatal(err)
	}
	if len(ops) != 2 || ops[0].Dim != gcenter.Z || ops[1].Dim != gcenter.XY {
		Te.Fatalf("unexpected operations %v", ops)
	}
	if diff := cmp.Diff([]int{0, 1, 2, 3, 4}, ops[1].Group.Indexes); diff != "" {
		Te.Errorf("protein group (-want +got):\n%s", diff)
	}
}
