/*
 * centroid.go, part of gcenter.
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

	v3 "github.com/Ladme/gcenter/v3"
	"gonum.org/v1/gonum/floats"
)

// PBCCenter returns the center of the group g, taking the periodic boundary
// conditions into account, using the circular-mean method of Bai and Breen
// (J. Graph. GPU Game Tools 13, 2008). Each axis in dim is mapped onto a circle
// of circumference equal to the box edge and the mean angle is mapped back.
// If g carries weights the center is weighted by them. Axes not in dim are 0.
// The box must have passed CheckBox.
func PBCCenter(coords *v3.Matrix, g *Group, box *Box, dim Dimension) ([3]float64, error) {
	var center [3]float64
	n := g.Len()
	if n == 0 {
		return center, ErrEmptyReference
	}
	if g.Weights != nil && len(g.Weights) != n {
		return center, ErrWeightsMismatch
	}
	natoms := coords.NVecs()
	for _, i := range g.Indexes {
		if i < 0 || i >= natoms {
			return center, ErrIndexOutOfRange
		}
	}
	total := float64(n)
	if g.Weights != nil {
		total = floats.Sum(g.Weights)
		if total == 0 {
			return center, ErrZeroWeight
		}
	}
	l := box.Lengths()
	for _, ax := range dim.Axes() {
		var zeta, xi float64
		for k, i := range g.Indexes {
			w := 1.0
			if g.Weights != nil {
				w = g.Weights[k]
			}
			theta := coords.At(i, ax) * 2 * math.Pi / l[ax]
			zeta += w * math.Sin(theta)
			xi += w * math.Cos(theta)
		}
		zeta /= total
		xi /= total
		mean := math.Atan2(-zeta, -xi) + math.Pi
		center[ax] = Wrap(mean*l[ax]/(2*math.Pi), l[ax])
	}
	return center, nil
}
