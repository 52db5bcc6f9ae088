/*
 * box.go, part of gcenter.
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
	"math"
)

// Box is a periodic simulation box, given by its three box vectors (rows of V),
// in A. Only orthogonal boxes are supported for centering.
type Box struct {
	V [3][3]float64
}

// NewOrthoBox returns an orthogonal box with the given edge lengths.
func NewOrthoBox(x, y, z float64) *Box {
	b := new(Box)
	b.V[0][0] = x
	b.V[1][1] = y
	b.V[2][2] = z
	return b
}

// cosd returns the cosine of an angle in degrees, exactly 0 for right angles.
func cosd(deg float64) float64 {
	if deg == 90 {
		return 0
	}
	return math.Cos(deg * math.Pi / 180)
}

// BoxFromLengthsAngles builds a box from its edge lengths and the angles
// alpha (between b and c), beta (a and c) and gamma (a and b), in degrees.
// The first vector lies along x and the second in the xy plane.
func BoxFromLengthsAngles(a, b, c, alpha, beta, gamma float64) *Box {
	box := new(Box)
	cosa, cosb, cosg := cosd(alpha), cosd(beta), cosd(gamma)
	sing := math.Sqrt(1 - cosg*cosg)
	box.V[0] = [3]float64{a, 0, 0}
	box.V[1] = [3]float64{b * cosg, b * sing, 0}
	cx := cosb
	cy := 0.0
	if sing != 0 {
		cy = (cosa - cosb*cosg) / sing
	}
	cz2 := 1 - cx*cx - cy*cy
	cz := 0.0
	if cz2 > 0 {
		cz = math.Sqrt(cz2)
	}
	box.V[2] = [3]float64{c * cx, c * cy, c * cz}
	return box
}

// BoxFromGromacs builds a box from the 9 numbers of a Gromacs box line:
// v1(x) v2(y) v3(z) v1(y) v1(z) v2(x) v2(z) v3(x) v3(y). The numbers are
// taken in the units they are given in.
func BoxFromGromacs(g [9]float64) *Box {
	b := new(Box)
	b.V[0] = [3]float64{g[0], g[3], g[4]}
	b.V[1] = [3]float64{g[5], g[1], g[6]}
	b.V[2] = [3]float64{g[7], g[8], g[2]}
	return b
}

// Gromacs returns the box in the 9-number Gromacs order (see BoxFromGromacs).
func (b *Box) Gromacs() [9]float64 {
	return [9]float64{b.V[0][0], b.V[1][1], b.V[2][2],
		b.V[0][1], b.V[0][2], b.V[1][0], b.V[1][2], b.V[2][0], b.V[2][1]}
}

// Lengths returns the diagonal of the box, which are the edge lengths
// of an orthogonal box.
func (b *Box) Lengths() [3]float64 {
	return [3]float64{b.V[0][0], b.V[1][1], b.V[2][2]}
}

// IsOrthogonal returns true if all off-diagonal components are zero.
func (b *Box) IsOrthogonal() bool {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if i != j && b.V[i][j] != 0 {
				return false
			}
		}
	}
	return true
}

// IsValid returns true if the three edges of the box are positive.
func (b *Box) IsValid() bool {
	for i := 0; i < 3; i++ {
		if !(b.V[i][i] > 0) || math.IsInf(b.V[i][i], 0) {
			return false
		}
	}
	return true
}

func norm(v [3]float64) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

func angle(u, v [3]float64) float64 {
	nu, nv := norm(u), norm(v)
	if nu == 0 || nv == 0 {
		return 90
	}
	c := (u[0]*v[0] + u[1]*v[1] + u[2]*v[2]) / (nu * nv)
	c = math.Max(-1, math.Min(1, c))
	return math.Acos(c) * 180 / math.Pi
}

// LengthsAngles returns the lengths of the three box vectors, and the
// angles alpha, beta and gamma, in degrees.
func (b *Box) LengthsAngles() (a, bl, c, alpha, beta, gamma float64) {
	a, bl, c = norm(b.V[0]), norm(b.V[1]), norm(b.V[2])
	alpha = angle(b.V[1], b.V[2])
	beta = angle(b.V[0], b.V[2])
	gamma = angle(b.V[0], b.V[1])
	if b.IsOrthogonal() {
		alpha, beta, gamma = 90, 90, 90
	}
	return
}

// Scaled returns a copy of the box with every component multiplied by f.
func (b *Box) Scaled(f float64) *Box {
	r := new(Box)
	for i := range b.V {
		for j := range b.V[i] {
			r.V[i][j] = b.V[i][j] * f
		}
	}
	return r
}

// Center returns the center of the box along the axes in dim, and 0 along the others.
func (b *Box) Center(dim Dimension) [3]float64 {
	var c [3]float64
	l := b.Lengths()
	for _, ax := range dim.Axes() {
		c[ax] = l[ax] / 2
	}
	return c
}

func (b *Box) String() string {
	l := b.Lengths()
	if b.IsOrthogonal() {
		return fmt.Sprintf("%.3f x %.3f x %.3f", l[0], l[1], l[2])
	}
	return fmt.Sprintf("%v", b.V)
}

// CheckBox returns an error if the box can't be used for centering.
func CheckBox(b *Box) error {
	if b == nil {
		return ErrBoxNotDefined
	}
	if !b.IsValid() {
		return ErrBoxNotValid
	}
	if !b.IsOrthogonal() {
		return ErrBoxNotOrthogonal
	}
	return nil
}

// WrapDelta returns value shifted by the integer multiple of l
// that brings it into (-l/2, l/2].
func WrapDelta(value, l float64) float64 {
	r := value - l*math.Floor(value/l)
	if r > l/2 {
		r -= l
	}
	return r
}

// Wrap returns value shifted by the integer multiple of l that brings it into [0, l).
func Wrap(value, l float64) float64 {
	r := value - l*math.Floor(value/l)
	if r >= l {
		r -= l
	}
	return r
}
