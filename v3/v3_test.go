/*
 * v3_test.go, part of gcenter.
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

package v3

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestNewMatrix(Te *testing.T) {
	if _, err := NewMatrix([]float64{1, 2, 3, 4}); err == nil {
		Te.Error("expected an error for a slice not divisible by 3")
	}
	A, err := NewMatrix([]float64{1, 2, 3, 4, 5, 6})
	if err != nil {
		Te.Fatal(err)
	}
	if A.NVecs() != 2 {
		Te.Errorf("expected 2 vectors, got %d", A.NVecs())
	}
	if v := A.Vec(1); v != [3]float64{4, 5, 6} {
		Te.Errorf("unexpected second vector %v", v)
	}
}

func TestVecView(Te *testing.T) {
	A := Zeros(3)
	view := A.VecView(1)
	view.Set(0, 2, 7.5)
	if A.At(1, 2) != 7.5 {
		Te.Errorf("changes to a view should reach the matrix, got %v", A)
	}
}

func TestSomeVecs(Te *testing.T) {
	A, _ := NewMatrix([]float64{0, 0, 0, 1, 1, 1, 2, 2, 2, 3, 3, 3})
	B := Zeros(2)
	B.SomeVecs(A, []int{3, 1})
	want := mat.NewDense(2, 3, []float64{3, 3, 3, 1, 1, 1})
	if !mat.Equal(B.Dense, want) {
		Te.Errorf("SomeVecs returned %v", B)
	}
	if err := B.SomeVecsSafe(A, []int{0, 9}); err == nil {
		Te.Error("SomeVecsSafe should fail for an out of range index")
	}
}

func TestAddVec(Te *testing.T) {
	A, _ := NewMatrix([]float64{1, 2, 3, 4, 5, 6})
	A.AddVec([3]float64{1, 1, 1}, &[3]bool{true, false, true})
	want := mat.NewDense(2, 3, []float64{2, 2, 4, 5, 5, 7})
	if !mat.Equal(A.Dense, want) {
		Te.Errorf("AddVec with a mask returned %v", A)
	}
	A.AddVec([3]float64{-1, -1, -1}, nil)
	want = mat.NewDense(2, 3, []float64{1, 1, 3, 4, 4, 6})
	if !mat.Equal(A.Dense, want) {
		Te.Errorf("AddVec without a mask returned %v", A)
	}
}

func TestClone(Te *testing.T) {
	A, _ := NewMatrix([]float64{1, 2, 3})
	B := A.Clone()
	B.Set(0, 0, 100)
	if A.At(0, 0) != 1 {
		Te.Error("Clone should not share storage with the original")
	}
}
