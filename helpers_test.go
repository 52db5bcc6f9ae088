/*
 * helpers_test.go, part of gcenter.
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

	v3 "github.com/Ladme/gcenter/v3"
)

const tol = 1e-9

// memSource is a FrameSource over frames kept in memory.
type memSource struct {
	frames []*Frame
	pos    int
	closed bool
	natoms int
}

func newMemSource(frames ...*Frame) *memSource {
	n := 0
	if len(frames) > 0 {
		n = frames[0].Len()
	}
	return &memSource{frames: frames, natoms: n}
}

func (m *memSource) Next(f *Frame) error {
	if m.pos >= len(m.frames) {
		return NewLastFrameError("mem")
	}
	src := m.frames[m.pos]
	m.pos++
	f.Coords.Copy(src.Coords.Dense)
	f.Box = src.Box
	f.Time = src.Time
	f.Step = src.Step
	f.HasStep = src.HasStep
	return nil
}

func (m *memSource) Len() int { return m.natoms }

func (m *memSource) Close() error {
	m.closed = true
	return nil
}

// memSink keeps copies of the frames written to it.
type memSink struct {
	frames []*Frame
}

func (m *memSink) Write(f *Frame) error {
	m.frames = append(m.frames, f.Copy())
	return nil
}

func (m *memSink) Close() error { return nil }

// mapResolver resolves queries from a map.
type mapResolver map[string][]int

func (m mapResolver) Resolve(q string) ([]int, error) {
	idx, ok := m[q]
	if !ok {
		return nil, ErrNoMatch
	}
	return idx, nil
}

type autoResolver struct {
	mapResolver
	protein []int
}

func (a autoResolver) Autodetect(string) ([]int, error) {
	return a.protein, nil
}

type fixedMasses []float64

func (m fixedMasses) Masses() ([]float64, error) { return m, nil }

func frameOf(Te *testing.T, box *Box, coords ...float64) *Frame {
	Te.Helper()
	c, err := v3.NewMatrix(coords)
	if err != nil {
		Te.Fatal(err)
	}
	return &Frame{Coords: c, Box: box}
}

func trajFrame(Te *testing.T, t float64, step uint64, coords ...float64) *Frame {
	f := frameOf(Te, NewOrthoBox(10, 10, 10), coords...)
	f.Time = t
	f.Step = step
	f.HasStep = true
	return f
}

func allIndexes(n int) []int {
	r := make([]int, n)
	for i := range r {
		r[i] = i
	}
	return r
}

// periodicClose compares a and b modulo l.
func periodicClose(a, b, l float64) bool {
	return math.Abs(WrapDelta(a-b, l)) < 1e-6
}
