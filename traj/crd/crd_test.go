/*
 * crd_test.go, part of gcenter.
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

package crd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Ladme/gcenter"
)

func testFrame(k int) *gcenter.Frame {
	f := gcenter.NewFrame(4)
	for i := 0; i < 4; i++ {
		f.Coords.SetVec(i, [3]float64{float64(i) + 0.125*float64(k), -12.5 * float64(i), 999.5 - float64(k)})
	}
	f.Box = gcenter.NewOrthoBox(30, 40, 1000)
	return f
}

func TestCrdRoundTrip(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "test.mdcrd")
	w, err := NewWriter(name, 4, "")
	if err != nil {
		Te.Fatal(err)
	}
	for k := 0; k < 3; k++ {
		f := testFrame(k)
		if k == 2 {
			f.Box = nil
		}
		if err := w.Write(f); err != nil {
			Te.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		Te.Fatal(err)
	}
	r, err := New(name, 4)
	if err != nil {
		Te.Fatal(err)
	}
	defer r.Close()
	for k := 0; ; k++ {
		f := gcenter.NewFrame(4)
		err := r.Next(f)
		if gcenter.IsLastFrame(err) {
			if k != 3 {
				Te.Errorf("expected 3 frames, read %d", k)
			}
			break
		}
		if err != nil {
			Te.Fatal(err)
		}
		want := testFrame(k)
		for i := 0; i < 4; i++ {
			for j := 0; j < 3; j++ {
				if d := f.Coords.At(i, j) - want.Coords.At(i, j); d > 1e-3 || d < -1e-3 {
					Te.Errorf("frame %d atom %d: got %v want %v", k, i, f.Coords.Vec(i), want.Coords.Vec(i))
				}
			}
		}
		if f.Step != uint64(k) {
			Te.Errorf("frame %d read with step %d", k, f.Step)
		}
		if k < 2 && (f.Box == nil || f.Box.Lengths() != [3]float64{30, 40, 1000}) {
			Te.Errorf("frame %d: unexpected box %v", k, f.Box)
		}
		if k == 2 && f.Box != nil {
			Te.Errorf("a zero box should be read as no box, got %v", f.Box)
		}
	}
}

func TestCrdNoBox(Te *testing.T) {
	// 2 atoms: 6 values per frame, no box lines.
	data := "title\n   1.000   2.000   3.000   4.000   5.000   6.000\n   1.500   2.500   3.500   4.500   5.500   6.500\n"
	name := filepath.Join(Te.TempDir(), "nobox.crd")
	if err := os.WriteFile(name, []byte(data), 0644); err != nil {
		Te.Fatal(err)
	}
	r, err := New(name, 2)
	if err != nil {
		Te.Fatal(err)
	}
	defer r.Close()
	f := gcenter.NewFrame(2)
	for k, want := range []float64{4, 4.5} {
		if err := r.Next(f); err != nil {
			Te.Fatal(err)
		}
		if f.Box != nil {
			Te.Errorf("frame %d: unexpected box %v", k, f.Box)
		}
		if f.Coords.At(1, 0) != want {
			Te.Errorf("frame %d: got x %v for the second atom, want %v", k, f.Coords.At(1, 0), want)
		}
	}
	if err := r.Next(f); !gcenter.IsLastFrame(err) {
		Te.Errorf("expected the end of the trajectory, got %v", err)
	}
}

func TestCrdErrors(Te *testing.T) {
	dir := Te.TempDir()
	name := filepath.Join(dir, "short.crd")
	if err := os.WriteFile(name, []byte("title\n   1.000   2.000   3.000   4.000\n"), 0644); err != nil {
		Te.Fatal(err)
	}
	r, err := New(name, 2)
	if err != nil {
		Te.Fatal(err)
	}
	defer r.Close()
	err = r.Next(gcenter.NewFrame(2))
	if err == nil || gcenter.IsLastFrame(err) || !strings.Contains(err.Error(), Truncated) {
		Te.Errorf("expected a truncated frame error, got %v", err)
	}
	if _, err := New(filepath.Join(dir, "none.crd"), 2); err == nil {
		Te.Error("expected an error for a missing file")
	}
	if _, err := NewWriter(filepath.Join(dir, "w.crd"), 0, ""); err == nil {
		Te.Error("expected an error for a trajectory without atoms")
	}
}
