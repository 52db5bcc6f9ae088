/*
 * crd.go, part of gcenter.
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

// Package crd reads and writes Amber ASCII trajectories (mdcrd).
// Coordinates are in A, written with 8 columns per value and 10 values
// per line. Each frame starts on a new line and can be followed by a line
// with the 3 box lengths. The files carry neither the number of atoms nor
// times, so the number of atoms is given when opening a file, and frames
// are numbered by their position in the file, with time 0.
package crd

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Ladme/gcenter"
)

const (
	width   = 8
	perLine = 10
)

// CrdObj is an Amber ASCII trajectory opened for reading.
// It implements gcenter.FrameSource.
type CrdObj struct {
	natoms   int
	read     int
	readable bool
	filename string
	box      int // -1 unknown, 0 no box, 1 box after every frame
	pending  string
	hasPend  bool
	ioread   *os.File
	crd      *bufio.Reader
	values   []float64
}

// New opens the trajectory filename, with natoms atoms per frame.
// The first line of the file is a title and is discarded.
func New(filename string, natoms int) (*CrdObj, error) {
	if natoms <= 0 {
		return nil, newError(filename, "New", "invalid number of atoms %d", natoms)
	}
	var err error
	C := &CrdObj{natoms: natoms, filename: filename, box: -1}
	C.ioread, err = os.Open(filename)
	if err != nil {
		return nil, newError(filename, "New", "%s", err)
	}
	C.crd = bufio.NewReader(C.ioread)
	if _, err = C.crd.ReadString('\n'); err != nil {
		C.ioread.Close()
		return nil, newError(filename, "New", "unable to read the title: %s", err)
	}
	C.values = make([]float64, 0, 3*natoms)
	C.readable = true
	return C, nil
}

// Readable returns true if the object is ready to be read from.
func (C *CrdObj) Readable() bool {
	return C.readable
}

// Len returns the number of atoms per frame.
func (C *CrdObj) Len() int {
	return C.natoms
}

// Close closes the file.
func (C *CrdObj) Close() error {
	C.readable = false
	return C.ioread.Close()
}

// line returns the next line without its end of line characters.
// io.EOF is only returned when there is nothing left to read.
func (C *CrdObj) line() (string, error) {
	if C.hasPend {
		C.hasPend = false
		return C.pending, nil
	}
	l, err := C.crd.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && l != "") {
		return "", err
	}
	return strings.TrimRight(l, "\r\n"), nil
}

// parseLine appends the values of l, read in fixed columns, to vals.
func parseLine(l string, vals []float64) ([]float64, error) {
	for start := 0; start < len(l); start += width {
		end := start + width
		if end > len(l) {
			end = len(l)
		}
		field := strings.TrimSpace(l[start:end])
		if field == "" {
			continue
		}
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return vals, err
		}
		vals = append(vals, v)
	}
	return vals, nil
}

// Next reads the next frame into f. If f is nil, the frame is skipped.
func (C *CrdObj) Next(f *gcenter.Frame) error {
	if !C.readable {
		return newError(C.filename, "Next", TrajUnIni)
	}
	need := 3 * C.natoms
	vals := C.values[:0]
	for len(vals) < need {
		l, err := C.line()
		if errors.Is(err, io.EOF) {
			C.readable = false
			if len(vals) == 0 {
				return lastFrameError{C.filename}
			}
			return newError(C.filename, "Next", Truncated)
		} else if err != nil {
			return newError(C.filename, "Next", "%s", err)
		}
		if vals, err = parseLine(l, vals); err != nil {
			return newError(C.filename, "Next", "%s: %s", WrongFormat, err)
		}
	}
	if len(vals) != need {
		return newError(C.filename, "Next", "%s: %d values for %d atoms", WrongFormat, len(vals), C.natoms)
	}
	box, err := C.nextBox(need)
	if err != nil {
		return err
	}
	C.read++
	if f == nil {
		return nil
	}
	if f.Len() != C.natoms {
		return newError(C.filename, "Next", "frame has room for %d atoms, trajectory has %d", f.Len(), C.natoms)
	}
	for i := 0; i < C.natoms; i++ {
		f.Coords.SetVec(i, [3]float64{vals[3*i], vals[3*i+1], vals[3*i+2]})
	}
	f.Box = box
	f.Step = uint64(C.read - 1)
	f.HasStep = false
	f.Time = 0
	return nil
}

// nextBox reads the box line after a frame. Whether the file has box
// lines is decided after the first frame: a line with 3 values which can't
// be the first line of a frame is a box. Files with a single atom are
// assumed to have box lines.
func (C *CrdObj) nextBox(need int) (*gcenter.Box, error) {
	if C.box == 0 {
		return nil, nil
	}
	l, err := C.line()
	if errors.Is(err, io.EOF) {
		if C.box < 0 {
			C.box = 0
		}
		return nil, nil
	} else if err != nil {
		return nil, newError(C.filename, "nextBox", "%s", err)
	}
	b, err := parseLine(l, nil)
	if err != nil {
		return nil, newError(C.filename, "nextBox", "%s: %s", WrongFormat, err)
	}
	if C.box < 0 {
		first := need
		if first > perLine {
			first = perLine
		}
		if len(b) == 3 && (first != 3 || need == 3) {
			C.box = 1
		} else {
			C.box = 0
			C.pending, C.hasPend = l, true
			return nil, nil
		}
	}
	if len(b) != 3 {
		return nil, newError(C.filename, "nextBox", "%s: box line with %d values", WrongFormat, len(b))
	}
	if b[0] == 0 && b[1] == 0 && b[2] == 0 {
		return nil, nil
	}
	return gcenter.NewOrthoBox(b[0], b[1], b[2]), nil
}
