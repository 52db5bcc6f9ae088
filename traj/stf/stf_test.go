/*
 * stf_test.go, part of gcenter.
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

package stf

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/Ladme/gcenter"
)

func testFrames(n int) []*gcenter.Frame {
	var frames []*gcenter.Frame
	for i := 0; i < n; i++ {
		f := gcenter.NewFrame(3)
		for j := 0; j < 3; j++ {
			f.Coords.SetVec(j, [3]float64{1.234 * float64(j), -5.67 + float64(i), 10.01})
		}
		f.Box = gcenter.NewOrthoBox(25, 25, 30)
		f.Time = 10 * float64(i)
		f.Step = uint64(5000 * i)
		f.HasStep = true
		frames = append(frames, f)
	}
	return frames
}

func roundTrip(Te *testing.T, name string, header map[string]string, tol float64) {
	Te.Helper()
	frames := testFrames(4)
	frames[1].Box = nil
	w, err := NewWriter(name, 3, header)
	if err != nil {
		Te.Fatal(err)
	}
	for _, f := range frames {
		if err := w.Write(f); err != nil {
			Te.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		Te.Fatal(err)
	}
	r, m, err := New(name)
	if err != nil {
		Te.Fatal(err)
	}
	defer r.Close()
	if r.Len() != 3 {
		Te.Fatalf("expected 3 atoms, got %d", r.Len())
	}
	for k, v := range header {
		if m[k] != v {
			Te.Errorf("header key %s: got %q want %q", k, m[k], v)
		}
	}
	f := gcenter.NewFrame(3)
	i := 0
	for ; ; i++ {
		err := r.Next(f)
		if gcenter.IsLastFrame(err) {
			break
		}
		if err != nil {
			Te.Fatal(err)
		}
		want := frames[i]
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				if math.Abs(f.Coords.At(j, k)-want.Coords.At(j, k)) > tol {
					Te.Errorf("frame %d atom %d: got %v want %v", i, j, f.Coords.Vec(j), want.Coords.Vec(j))
				}
			}
		}
		if f.Time != want.Time || f.Step != want.Step || !f.HasStep {
			Te.Errorf("frame %d: time %f step %d, want %f %d", i, f.Time, f.Step, want.Time, want.Step)
		}
		if (f.Box == nil) != (want.Box == nil) {
			Te.Errorf("frame %d: box %v, want %v", i, f.Box, want.Box)
		} else if f.Box != nil && f.Box.Lengths() != want.Box.Lengths() {
			Te.Errorf("frame %d: box %v, want %v", i, f.Box, want.Box)
		}
	}
	if i != len(frames) {
		Te.Errorf("read %d frames, expected %d", i, len(frames))
	}
}

func TestSTFRoundTrip(Te *testing.T) {
	dir := Te.TempDir()
	roundTrip(Te, filepath.Join(dir, "test.stf"), nil, 0.006)
	roundTrip(Te, filepath.Join(dir, "test.stz"), map[string]string{"title": "gzip"}, 0.006)
	roundTrip(Te, filepath.Join(dir, "test.stl"), nil, 0.006)
	roundTrip(Te, filepath.Join(dir, "prec.stf"), map[string]string{"prec": "3"}, 0.0006)
}

func TestSTFSkipFrame(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "skip.stf")
	w, err := NewWriter(name, 3, nil)
	if err != nil {
		Te.Fatal(err)
	}
	for _, f := range testFrames(2) {
		if err := w.Write(f); err != nil {
			Te.Fatal(err)
		}
	}
	w.Close()
	r, _, err := New(name)
	if err != nil {
		Te.Fatal(err)
	}
	defer r.Close()
	if err := r.Next(nil); err != nil {
		Te.Fatal(err)
	}
	f := gcenter.NewFrame(3)
	if err := r.Next(f); err != nil {
		Te.Fatal(err)
	}
	if f.Step != 5000 {
		Te.Errorf("expected the second frame, got step %d", f.Step)
	}
}

func TestSTFWrongSize(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "size.stf")
	w, err := NewWriter(name, 3, nil)
	if err != nil {
		Te.Fatal(err)
	}
	defer w.Close()
	if err := w.Write(gcenter.NewFrame(2)); err == nil {
		Te.Error("expected an error for a frame with the wrong number of atoms")
	}
	if _, err := NewWriter(name, 0, nil); err == nil {
		Te.Error("expected an error for a trajectory without atoms")
	}
}

func TestParseTerminator(Te *testing.T) {
	box, t, step, has := parseTerminator("*\n", "x.stf")
	if box != nil || t != 0 || step != 0 || has {
		Te.Errorf("a bare terminator should carry nothing, got %v %f %d %v", box, t, step, has)
	}
	box, t, step, has = parseTerminator("* 1 0 0 0 2 0 0 0 3 t=1.5 step=30\n", "x.stf")
	if box == nil || box.Lengths() != [3]float64{1, 2, 3} || t != 1.5 || step != 30 || !has {
		Te.Errorf("unexpected terminator data %v %f %d %v", box, t, step, has)
	}
	box, t, _, has = parseTerminator("* 1 0 0 t=2\n", "x.stf")
	if box != nil || t != 2 || has {
		Te.Errorf("an incomplete box should be ignored, got %v %f", box, t)
	}
	if got := terminator(&gcenter.Frame{Time: 3}); got != "* t=3.00000\n" {
		Te.Errorf("frames without step should be terminated without one, got %q", got)
	}
}
