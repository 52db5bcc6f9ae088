/*
 * dimension.go, part of gcenter.
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
	"strings"
)

// Dimension is a set of cartesian axes.
type Dimension uint8

const (
	X Dimension = 1 << iota
	Y
	Z

	None Dimension = 0
	XY             = X | Y
	XZ             = X | Z
	YZ             = Y | Z
	XYZ            = X | Y | Z
)

var axisNames = [3]string{"x", "y", "z"}

// DimensionFromFlags builds a Dimension from three axis flags.
// If no flag is set, all three axes are returned.
func DimensionFromFlags(x, y, z bool) Dimension {
	var d Dimension
	if x {
		d |= X
	}
	if y {
		d |= Y
	}
	if z {
		d |= Z
	}
	if d == None {
		return XYZ
	}
	return d
}

// ParseDimension parses strings such as "x", "yz" or "xyz".
func ParseDimension(s string) (Dimension, error) {
	var d Dimension
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch r {
		case 'x':
			d |= X
		case 'y':
			d |= Y
		case 'z':
			d |= Z
		default:
			return None, fmt.Errorf("invalid dimension %q", s)
		}
	}
	if d == None {
		return None, ErrNoDimension
	}
	return d, nil
}

// Has returns true if the axis (0, 1 or 2) is part of d.
func (d Dimension) Has(axis int) bool {
	if axis < 0 || axis > 2 {
		return false
	}
	return d&(1<<uint(axis)) != 0
}

// Axes returns the axes of d, in increasing order.
func (d Dimension) Axes() []int {
	ret := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		if d.Has(i) {
			ret = append(ret, i)
		}
	}
	return ret
}

// Lowest returns the first axis of d, or -1 if d is empty.
func (d Dimension) Lowest() int {
	for i := 0; i < 3; i++ {
		if d.Has(i) {
			return i
		}
	}
	return -1
}

// Mask returns d as the mask v3.Matrix.AddVec takes.
func (d Dimension) Mask() *[3]bool {
	return &[3]bool{d.Has(0), d.Has(1), d.Has(2)}
}

func (d Dimension) String() string {
	if d == None {
		return "none"
	}
	var b strings.Builder
	for _, ax := range d.Axes() {
		b.WriteString(axisNames[ax])
	}
	return b.String()
}
