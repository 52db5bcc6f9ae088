/*
 * shift.go, part of gcenter.
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

// Shift translates every particle of f so that ref ends up in the center
// of the box, along the axes in dim. It returns the translation applied.
func Shift(f *Frame, ref [3]float64, dim Dimension) [3]float64 {
	center := f.Box.Center(dim)
	var t [3]float64
	for _, ax := range dim.Axes() {
		t[ax] = center[ax] - ref[ax]
	}
	f.Coords.AddVec(t, dim.Mask())
	return t
}

// WrapFrame puts every particle of f inside the box.
func WrapFrame(f *Frame) {
	l := f.Box.Lengths()
	n := f.Coords.NVecs()
	for i := 0; i < n; i++ {
		for ax := 0; ax < 3; ax++ {
			f.Coords.Set(i, ax, Wrap(f.Coords.At(i, ax), l[ax]))
		}
	}
}

// CenterFrame applies the operations to f. The reference points are all
// obtained from the frame before any translation. It returns the total
// translation applied. The frame is not wrapped.
func CenterFrame(f *Frame, ops []Operation) ([3]float64, error) {
	var total [3]float64
	refs := make([][3]float64, len(ops))
	for i, op := range ops {
		ref, err := PBCCenter(f.Coords, op.Group, f.Box, op.Dim)
		if err != nil {
			return total, err
		}
		refs[i] = ref
	}
	for i, op := range ops {
		t := Shift(f, refs[i], op.Dim)
		for _, ax := range op.Dim.Axes() {
			total[ax] += t[ax]
		}
	}
	return total, nil
}
