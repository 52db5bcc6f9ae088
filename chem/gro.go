/*
 * gro.go, part of gcenter.
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

package chem

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Ladme/gcenter"
	v3 "github.com/Ladme/gcenter/v3"
)

// Gro files use nm, gcenter uses A.
const nm2A = 10.0

// groFrame is one frame of a gro file.
type groFrame struct {
	title  string
	atoms  []*Atom
	coords []float64
	box    *gcenter.Box
	time    float64
	step    uint64
	hasStep bool
}

// readLine reads a line, without the trailing newline. io.EOF is only
// returned if nothing at all could be read.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// timeStepFromTitle reads the "t=" and "step=" fields Gromacs puts in the
// title of gro frames. hasStep is false if there is no readable step.
func timeStepFromTitle(title string) (t float64, step uint64, hasStep bool) {
	f := strings.Fields(title)
	for i := 0; i < len(f)-1; i++ {
		switch f[i] {
		case "t=":
			t, _ = strconv.ParseFloat(f[i+1], 64)
		case "step=":
			var err error
			step, err = strconv.ParseUint(f[i+1], 10, 64)
			hasStep = err == nil
		}
	}
	return
}

// readGroFrame reads a frame from r. The topology is only parsed if readAtoms
// is true. If natoms is not negative, the frame must have that many atoms.
// io.EOF is returned if the stream ends before the frame starts.
func readGroFrame(r *bufio.Reader, natoms int, readAtoms bool) (*groFrame, error) {
	title, err := readLine(r)
	if err != nil {
		return nil, err
	}
	fr := &groFrame{title: title}
	fr.time, fr.step, fr.hasStep = timeStepFromTitle(title)
	l, err := readLine(r)
	if err != nil {
		return nil, fmt.Errorf("missing number of atoms")
	}
	n, err := strconv.Atoi(strings.TrimSpace(l))
	if err != nil {
		return nil, fmt.Errorf("couldn't parse the number of atoms: %w", err)
	}
	if natoms >= 0 && n != natoms {
		return nil, fmt.Errorf("frame has %d atoms, expected %d", n, natoms)
	}
	fr.coords = make([]float64, 0, 3*n)
	if readAtoms {
		fr.atoms = make([]*Atom, 0, n)
	}
	for i := 0; i < n; i++ {
		line, err := readLine(r)
		if err != nil {
			return nil, fmt.Errorf("frame ended after %d of %d atoms", i, n)
		}
		if len(line) < 44 {
			return nil, fmt.Errorf("atom line %d is too short", i+1)
		}
		for k := 0; k < 3; k++ {
			c, err := strconv.ParseFloat(strings.TrimSpace(line[20+8*k:28+8*k]), 64)
			if err != nil {
				return nil, fmt.Errorf("atom line %d: %w", i+1, err)
			}
			fr.coords = append(fr.coords, c*nm2A)
		}
		if !readAtoms {
			continue
		}
		at := new(Atom)
		at.MolID, err = strconv.Atoi(strings.TrimSpace(line[0:5]))
		if err != nil {
			return nil, fmt.Errorf("atom line %d: %w", i+1, err)
		}
		at.MolName = strings.TrimSpace(line[5:10])
		at.MolName1 = three2OneLetter[at.MolName]
		at.Name = strings.TrimSpace(line[10:15])
		//serial numbers wrap around in large systems, so errors are ignored
		at.ID, _ = strconv.Atoi(strings.TrimSpace(line[15:20]))
		if at.ID == 0 {
			at.ID = i + 1
		}
		at.Occupancy = 1
		fr.atoms = append(fr.atoms, at)
	}
	l, err = readLine(r)
	if err != nil {
		return nil, fmt.Errorf("missing box line")
	}
	fields := strings.Fields(l)
	if len(fields) != 3 && len(fields) != 9 {
		return nil, fmt.Errorf("box line must have 3 or 9 numbers, found %d", len(fields))
	}
	var g [9]float64
	for i, v := range fields {
		g[i], err = strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("box line: %w", err)
		}
	}
	fr.box = gcenter.BoxFromGromacs(g).Scaled(nm2A)
	return fr, nil
}

// GroFileRead reads the first frame of the gro file fname.
func GroFileRead(fname string) (*Structure, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, newCError("", "GroFileRead", "%s", err)
	}
	defer f.Close()
	s, err := GroRead(f)
	if err != nil {
		if e, ok := err.(*CError); ok {
			e.filename = fname
			e.Decorate("GroFileRead")
		}
		return nil, err
	}
	return s, nil
}

// GroRead reads the first frame of a gro stream, with its topology.
func GroRead(r io.Reader) (*Structure, error) {
	fr, err := readGroFrame(bufio.NewReader(r), -1, true)
	if err == io.EOF {
		return nil, newCError("", "GroRead", "empty file")
	}
	if err != nil {
		return nil, newCError("", "GroRead", "%s", err)
	}
	m, err := v3.NewMatrix(fr.coords)
	if err != nil {
		return nil, newCError("", "GroRead", "%s", err)
	}
	top := NewTopology(fr.atoms)
	top.GuessElements() //atoms without mass are reported when masses are requested
	frame := &gcenter.Frame{Coords: m, Box: fr.box, Time: fr.time, Step: fr.step, HasStep: fr.hasStep}
	return &Structure{Topology: top, Frame: frame, Title: fr.title}, nil
}

// GroFileWrite writes the frame f of top to the gro file fname.
func GroFileWrite(fname string, top *Topology, f *gcenter.Frame, title string) error {
	out, err := os.Create(fname)
	if err != nil {
		return newCError("", "GroFileWrite", "%s", err)
	}
	defer out.Close()
	w := bufio.NewWriter(out)
	if err := GroWrite(w, top, f, title); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return newCError(fname, "GroFileWrite", "%s", err)
	}
	return out.Close()
}

// GroWrite writes one frame in gro format. Coordinates are converted to nm.
func GroWrite(w io.Writer, top *Topology, f *gcenter.Frame, title string) error {
	if f.Len() != top.Len() {
		return newCError("", "GroWrite", "%d coordinates for %d atoms", f.Len(), top.Len())
	}
	if title == "" {
		title = "Generated by gcenter"
	}
	if _, err := fmt.Fprintf(w, "%s\n%5d\n", title, top.Len()); err != nil {
		return newCError("", "GroWrite", "%s", err)
	}
	for i, at := range top.Atoms {
		v := f.Coords.Vec(i)
		_, err := fmt.Fprintf(w, "%5d%-5s%5s%5d%8.3f%8.3f%8.3f\n", at.MolID%100000, trunc(at.MolName, 5), trunc(at.Name, 5),
			at.ID%100000, v[0]/nm2A, v[1]/nm2A, v[2]/nm2A)
		if err != nil {
			return newCError("", "GroWrite", "%s", err)
		}
	}
	var err error
	switch {
	case f.Box == nil:
		_, err = fmt.Fprintf(w, "%10.5f%10.5f%10.5f\n", 0.0, 0.0, 0.0)
	case f.Box.IsOrthogonal():
		l := f.Box.Lengths()
		_, err = fmt.Fprintf(w, "%10.5f%10.5f%10.5f\n", l[0]/nm2A, l[1]/nm2A, l[2]/nm2A)
	default:
		g := f.Box.Scaled(1 / nm2A).Gromacs()
		for _, v := range g {
			if _, err = fmt.Fprintf(w, "%10.5f", v); err != nil {
				break
			}
		}
		if err == nil {
			_, err = fmt.Fprintln(w)
		}
	}
	if err != nil {
		return newCError("", "GroWrite", "%s", err)
	}
	return nil
}

func trunc(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// frameTitle returns the title Gromacs would give a trajectory frame.
// The step is left out if the frame has none.
func frameTitle(title string, f *gcenter.Frame) string {
	if title == "" {
		title = "Generated by gcenter"
	}
	if !f.HasStep {
		return fmt.Sprintf("%s t= %.5f", title, f.Time)
	}
	return fmt.Sprintf("%s t= %.5f step= %d", title, f.Time, f.Step)
}

// GroTraj reads a gro file with several frames as a trajectory.
// It implements gcenter.FrameSource.
type GroTraj struct {
	fname  string
	file   *os.File
	r      *bufio.Reader
	natoms int
	frame  int
}

// NewGroTraj opens the multi-frame gro file fname for reading.
func NewGroTraj(fname string) (*GroTraj, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, newCError("", "NewGroTraj", "%s", err)
	}
	r := bufio.NewReader(f)
	readLine(r) //title
	l, err := readLine(r)
	if err != nil {
		f.Close()
		return nil, newCError(fname, "NewGroTraj", "couldn't read the number of atoms")
	}
	n, err := strconv.Atoi(strings.TrimSpace(l))
	if err != nil {
		f.Close()
		return nil, newCError(fname, "NewGroTraj", "couldn't parse the number of atoms: %s", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, newCError(fname, "NewGroTraj", "%s", err)
	}
	return &GroTraj{fname: fname, file: f, r: bufio.NewReader(f), natoms: n}, nil
}

// Len returns the number of atoms per frame.
func (G *GroTraj) Len() int { return G.natoms }

// Next reads the next frame into fr. Coordinates are converted to A.
func (G *GroTraj) Next(fr *gcenter.Frame) error {
	gf, err := readGroFrame(G.r, G.natoms, false)
	if err == io.EOF {
		return gcenter.NewLastFrameError(G.fname)
	}
	if err != nil {
		return newCError(G.fname, "GroTraj.Next", "frame %d: %s", G.frame, err)
	}
	G.frame++
	if fr.Coords == nil || fr.Coords.NVecs() != G.natoms {
		fr.Coords = v3.Zeros(G.natoms)
	}
	for i := 0; i < G.natoms; i++ {
		fr.Coords.SetVec(i, [3]float64{gf.coords[3*i], gf.coords[3*i+1], gf.coords[3*i+2]})
	}
	fr.Box = gf.box
	fr.Time = gf.time
	fr.Step = gf.step
	fr.HasStep = gf.hasStep
	return nil
}

// Close closes the underlying file.
func (G *GroTraj) Close() error { return G.file.Close() }

// GroTrajWriter writes frames to a multi-frame gro file.
// It implements gcenter.FrameSink.
type GroTrajWriter struct {
	file  *os.File
	w     *bufio.Writer
	top   *Topology
	title string
}

// NewGroTrajWriter creates fname to write frames of top.
func NewGroTrajWriter(fname string, top *Topology, title string) (*GroTrajWriter, error) {
	f, err := os.Create(fname)
	if err != nil {
		return nil, newCError("", "NewGroTrajWriter", "%s", err)
	}
	return &GroTrajWriter{file: f, w: bufio.NewWriter(f), top: top, title: title}, nil
}

// Write appends f to the file, with its time and step in the title.
func (G *GroTrajWriter) Write(f *gcenter.Frame) error {
	return GroWrite(G.w, G.top, f, frameTitle(G.title, f))
}

// Close flushes and closes the file.
func (G *GroTrajWriter) Close() error {
	if err := G.w.Flush(); err != nil {
		G.file.Close()
		return err
	}
	return G.file.Close()
}
