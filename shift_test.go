/*
 * shift_test.go, part of gcenter.
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
	"math"
	"testing"
)

func sampleFrame(Te *testing.T) *Frame {
	return frameOf(Te, NewOrthoBox(10, 12, 14),
		0.5, 1.0, 13.5,
		9.5, 11.0, 0.5,
		9.8, 6.0, 7.0,
		4.0, 3.0, 2.0,
		7.5, 8.5, 9.5)
}

var sampleGroup = &Group{Name: "G", Indexes: []int{0, 1, 2}}

func TestIdempotence(Te *testing.T) {
	for _, dim := range []Dimension{X, Y, Z, XY, XZ, YZ, XYZ} {
		f := sampleFrame(Te)
		ops := []Operation{{Group: sampleGroup, Dim: dim}}
		if _, err := CenterFrame(f, ops); err != nil {
			Te.Fatal(err)
		}
		WrapFrame(f)
		shift, err := CenterFrame(f, ops)
		if err != nil {
			Te.Fatal(err)
		}
		for _, ax := range dim.Axes() {
			if math.Abs(WrapDelta(shift[ax], f.Box.Lengths()[ax])) > 1e-9 {
				Te.Errorf("dim %s: re-centering shifted axis %d by %v", dim, ax, shift[ax])
			}
		}
	}
}

func TestWrapInvariance(Te *testing.T) {
	ref := sampleFrame(Te)
	ops := []Operation{{Group: sampleGroup, Dim: XYZ}}
	if _, err := CenterFrame(ref, ops); err != nil {
		Te.Fatal(err)
	}
	WrapFrame(ref)
	l := ref.Box.Lengths()
	for ax := 0; ax < 3; ax++ {
		for _, k := range []float64{-2, 1, 3} {
			f := sampleFrame(Te)
			var t [3]float64
			t[ax] = k * l[ax]
			f.Coords.AddVec(t, nil)
			if _, err := CenterFrame(f, ops); err != nil {
				Te.Fatal(err)
			}
			WrapFrame(f)
			for i := 0; i < f.Len(); i++ {
				for j := 0; j < 3; j++ {
					if !periodicClose(f.Coords.At(i, j), ref.Coords.At(i, j), l[j]) {
						Te.Errorf("translation by %v on axis %d: particle %d at %v, expected %v", k, ax, i, f.Coords.Vec(i), ref.Coords.Vec(i))
					}
				}
			}
		}
	}
}

func TestAxisIndependence(Te *testing.T) {
	f := sampleFrame(Te)
	orig := f.Copy()
	if _, err := CenterFrame(f, []Operation{{Group: sampleGroup, Dim: X}}); err != nil {
		Te.Fatal(err)
	}
	for i := 0; i < f.Len(); i++ {
		if f.Coords.At(i, 1) != orig.Coords.At(i, 1) || f.Coords.At(i, 2) != orig.Coords.At(i, 2) {
			Te.Errorf("particle %d changed outside x: %v -> %v", i, orig.Coords.Vec(i), f.Coords.Vec(i))
		}
	}
}

// Several operations are computed on the untranslated frame.
func TestCenterFrameSeveralOperations(Te *testing.T) {
	f := sampleFrame(Te)
	ops := []Operation{
		{Group: &Group{Indexes: []int{3}}, Dim: Z},
		{Group: &Group{Indexes: []int{4}}, Dim: XY},
	}
	shift, err := CenterFrame(f, ops)
	if err != nil {
		Te.Fatal(err)
	}
	want := [3]float64{5 - 7.5, 6 - 8.5, 7 - 2.0}
	for i := range want {
		if math.Abs(shift[i]-want[i]) > 1e-9 {
			Te.Fatalf("shift %v, want %v", shift, want)
		}
	}
	if math.Abs(f.Coords.At(3, 2)-7) > 1e-9 || math.Abs(f.Coords.At(4, 0)-5) > 1e-9 {
		Te.Errorf("reference particles not centered: %v %v", f.Coords.Vec(3), f.Coords.Vec(4))
	}
}

func TestWrapFrame(Te *testing.T) {
	f := frameOf(Te, NewOrthoBox(10, 10, 10), -1, 11, 25, 0, 9.99, 10)
	WrapFrame(f)
	want := [][3]float64{{9, 1, 5}, {0, 9.99, 0}}
	for i, w := range want {
		for j := range w {
			if math.Abs(f.Coords.At(i, j)-w[j]) > 1e-9 {
				Te.Errorf("particle %d wrapped to %v, want %v", i, f.Coords.Vec(i), w)
			}
		}
	}
}
