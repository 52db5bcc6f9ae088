/*
 * crd_write.go, part of gcenter.
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
	"bufio"
	"fmt"
	"os"

	"github.com/Ladme/gcenter"
)

// CrdWObj is an Amber ASCII trajectory opened for writing. A box line is
// written after every frame; frames without a box get a zero box.
// It implements gcenter.FrameSink.
type CrdWObj struct {
	natoms   int
	writable bool
	filename string
	file     *os.File
	crd      *bufio.Writer
}

// NewWriter creates filename for frames with natoms atoms. title is
// written in the first line.
func NewWriter(filename string, natoms int, title string) (*CrdWObj, error) {
	if natoms <= 0 {
		return nil, newError(filename, "NewWriter", "invalid number of atoms %d", natoms)
	}
	file, err := os.Create(filename)
	if err != nil {
		return nil, newError(filename, "NewWriter", "%s", err)
	}
	C := &CrdWObj{natoms: natoms, filename: filename, file: file, crd: bufio.NewWriter(file)}
	if title == "" {
		title = "Generated by gcenter"
	}
	if _, err := fmt.Fprintln(C.crd, title); err != nil {
		file.Close()
		return nil, newError(filename, "NewWriter", "%s", err)
	}
	C.writable = true
	return C, nil
}

// Len returns the number of atoms per frame.
func (C *CrdWObj) Len() int {
	return C.natoms
}

// Write writes the coordinates and box of f.
func (C *CrdWObj) Write(f *gcenter.Frame) error {
	if !C.writable {
		return newError(C.filename, "Write", TrajUnIniWrite)
	}
	if f.Len() != C.natoms {
		return newError(C.filename, "Write", "frame has %d atoms, trajectory has %d", f.Len(), C.natoms)
	}
	n := 0
	for i := 0; i < C.natoms; i++ {
		v := f.Coords.Vec(i)
		for _, x := range v {
			fmt.Fprintf(C.crd, "%8.3f", x)
			n++
			if n%perLine == 0 {
				C.crd.WriteByte('\n')
			}
		}
	}
	if n%perLine != 0 {
		C.crd.WriteByte('\n')
	}
	var l [3]float64
	if f.Box != nil {
		l = f.Box.Lengths()
	}
	if _, err := fmt.Fprintf(C.crd, "%8.3f%8.3f%8.3f\n", l[0], l[1], l[2]); err != nil {
		return newError(C.filename, "Write", "%s", err)
	}
	return nil
}

// Close flushes and closes the file.
func (C *CrdWObj) Close() error {
	if !C.writable {
		return nil
	}
	C.writable = false
	if err := C.crd.Flush(); err != nil {
		C.file.Close()
		return newError(C.filename, "Close", "%s", err)
	}
	return C.file.Close()
}
