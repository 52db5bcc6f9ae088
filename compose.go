/*
 * compose.go, part of gcenter.
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
	"errors"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// DefaultReference is the query used when no reference is given. If it can't
// be resolved, protein atoms are autodetected.
const DefaultReference = "Protein"

// References holds the queries selecting the centering references.
// An empty axis query means the overall Reference is used for that axis.
type References struct {
	Reference string
	X, Y, Z   string
}

var axisFlags = [3]string{"xref", "yref", "zref"}

// query returns the query and the flag it came from for the axis ax.
func (r References) query(ax int) (string, string) {
	q := [3]string{r.X, r.Y, r.Z}[ax]
	if q == "" {
		return r.overall(), "reference"
	}
	return q, axisFlags[ax]
}

func (r References) overall() string {
	if r.Reference == "" {
		return DefaultReference
	}
	return r.Reference
}

type composer struct {
	sel      SelectionResolver
	masses   []float64
	resolved map[string]*Group
}

func (c *composer) resolve(query, flag string) (*Group, error) {
	if g, ok := c.resolved[query]; ok {
		return g, nil
	}
	idx, err := c.sel.Resolve(query)
	if query == DefaultReference && (len(idx) == 0 || errors.Is(err, ErrInvalidQuery) || errors.Is(err, ErrNoMatch)) {
		if ad, ok := c.sel.(Autodetector); ok {
			idx, err = ad.Autodetect(query)
			if err != nil || len(idx) == 0 {
				return nil, &ReferenceError{Flag: flag, Query: query, Err: ErrAutodetectionFailed}
			}
		}
	}
	if err != nil {
		return nil, &ReferenceError{Flag: flag, Query: query, Err: err}
	}
	if len(idx) == 0 {
		return nil, &ReferenceError{Flag: flag, Query: query, Err: ErrEmptyReference}
	}
	g := &Group{Name: query, Indexes: append([]int(nil), idx...)}
	if c.masses != nil {
		g.Weights = make([]float64, len(idx))
		for k, i := range idx {
			if i < 0 || i >= len(c.masses) {
				return nil, &ReferenceError{Flag: flag, Query: query, Err: ErrIndexOutOfRange}
			}
			g.Weights[k] = c.masses[i]
		}
		if floats.Sum(g.Weights) == 0 {
			return nil, &ReferenceError{Flag: flag, Query: query, Err: ErrZeroWeight}
		}
	}
	c.resolved[query] = g
	return g, nil
}

// Compose resolves the references needed to center along dim and returns
// the centering operations. Axes whose groups contain the same particles
// are merged into one operation. Operations that don't involve the overall
// reference come first, ordered by their lowest axis, and the operation
// centering the overall reference comes last. If masses is not nil, every
// group is weighted by the masses of its particles.
func Compose(refs References, dim Dimension, sel SelectionResolver, masses Masser) ([]Operation, error) {
	if dim == None {
		return nil, ErrNoDimension
	}
	c := &composer{sel: sel, resolved: make(map[string]*Group)}
	if masses != nil {
		m, err := masses.Masses()
		if err != nil {
			return nil, err
		}
		if m == nil {
			return nil, ErrNoMasses
		}
		c.masses = m
	}
	ops := make([]Operation, 0, 3)
	overall := make([]bool, 0, 3)
	for _, ax := range dim.Axes() {
		q, flag := refs.query(ax)
		g, err := c.resolve(q, flag)
		if err != nil {
			return nil, err
		}
		isOverall := flag == "reference"
		merged := false
		for i := range ops {
			if ops[i].Group.Same(g) {
				ops[i].Dim |= 1 << uint(ax)
				overall[i] = overall[i] || isOverall
				merged = true
				break
			}
		}
		if !merged {
			ops = append(ops, Operation{Group: g, Dim: 1 << uint(ax)})
			overall = append(overall, isOverall)
		}
	}
	order := make([]int, len(ops))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		oa, ob := overall[order[a]], overall[order[b]]
		if oa != ob {
			return ob
		}
		return ops[order[a]].Dim.Lowest() < ops[order[b]].Dim.Lowest()
	})
	ret := make([]Operation, len(ops))
	for i, o := range order {
		ret[i] = ops[o]
	}
	return ret, nil
}
