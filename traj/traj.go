/*
 * traj.go, part of gcenter.
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

// Package traj picks the reader or writer for a file from its extension.
package traj

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Ladme/gcenter"
	"github.com/Ladme/gcenter/chem"
	"github.com/Ladme/gcenter/traj/crd"
	"github.com/Ladme/gcenter/traj/dcd"
	"github.com/Ladme/gcenter/traj/stf"
)

// Format is a supported file format.
type Format int

const (
	Unknown Format = iota
	GRO
	PDB
	DCD
	STF
	CRD
)

var formatNames = map[Format]string{
	Unknown: "unknown",
	GRO:     "gro",
	PDB:     "pdb",
	DCD:     "dcd",
	STF:     "stf",
	CRD:     "mdcrd",
}

func (f Format) String() string {
	return formatNames[f]
}

// IsStructure returns true for the formats that can hold a structure,
// with atom names and residues.
func (f Format) IsStructure() bool {
	return f == GRO || f == PDB
}

// IsTrajectory returns true for the formats that can hold several frames.
func (f Format) IsTrajectory() bool {
	return f == GRO || f == DCD || f == STF || f == CRD
}

// ErrUnknownFormat is returned for files whose extension is not supported.
var ErrUnknownFormat = errors.New("unsupported file format")

// Detect returns the format of fname, from its extension. The stf variants
// (stz, stl, str) select different compressions.
func Detect(fname string) Format {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(fname), ".")) {
	case "gro":
		return GRO
	case "pdb":
		return PDB
	case "dcd":
		return DCD
	case "stf", "stz", "stl", "str":
		return STF
	case "mdcrd", "crd":
		return CRD
	}
	return Unknown
}

// ReadStructure reads a structure file.
func ReadStructure(fname string) (*chem.Structure, error) {
	switch Detect(fname) {
	case GRO:
		return chem.GroFileRead(fname)
	case PDB:
		return chem.PDBFileRead(fname)
	}
	return nil, fmt.Errorf("%s: %w for a structure", fname, ErrUnknownFormat)
}

// WriteStructure writes top with the coordinates and box of f to fname.
func WriteStructure(fname string, top *chem.Topology, f *gcenter.Frame, title string) error {
	switch Detect(fname) {
	case GRO:
		return chem.GroFileWrite(fname, top, f, title)
	case PDB:
		return chem.PDBFileWrite(fname, top, f, title)
	}
	return fmt.Errorf("%s: %w for a structure", fname, ErrUnknownFormat)
}

// Open opens a trajectory for reading. natoms is only used by formats
// that don't store the number of atoms (mdcrd).
func Open(fname string, natoms int) (gcenter.FrameSource, error) {
	var src gcenter.FrameSource
	var err error
	switch Detect(fname) {
	case GRO:
		src, err = chem.NewGroTraj(fname)
	case DCD:
		src, err = dcd.New(fname)
	case STF:
		src, _, err = stf.New(fname)
	case CRD:
		src, err = crd.New(fname, natoms)
	default:
		return nil, fmt.Errorf("%s: %w for a trajectory", fname, ErrUnknownFormat)
	}
	if err != nil {
		return nil, err
	}
	return src, nil
}

// Create creates a trajectory for writing frames of top.
func Create(fname string, top *chem.Topology, title string) (gcenter.FrameSink, error) {
	var sink gcenter.FrameSink
	var err error
	switch Detect(fname) {
	case GRO:
		sink, err = chem.NewGroTrajWriter(fname, top, title)
	case DCD:
		sink, err = dcd.NewWriter(fname, top.Len())
	case STF:
		sink, err = stf.NewWriter(fname, top.Len(), map[string]string{"title": title})
	case CRD:
		sink, err = crd.NewWriter(fname, top.Len(), title)
	default:
		return nil, fmt.Errorf("%s: %w for a trajectory", fname, ErrUnknownFormat)
	}
	if err != nil {
		return nil, err
	}
	return sink, nil
}

// StructureSink writes the frame it gets to a structure file.
// It implements gcenter.FrameSink.
type StructureSink struct {
	fname string
	top   *chem.Topology
	title string
}

// NewStructureSink returns a sink that writes to fname.
func NewStructureSink(fname string, top *chem.Topology, title string) (*StructureSink, error) {
	if !Detect(fname).IsStructure() {
		return nil, fmt.Errorf("%s: %w for a structure", fname, ErrUnknownFormat)
	}
	return &StructureSink{fname: fname, top: top, title: title}, nil
}

// Write writes f to the file, replacing any previous content.
func (S *StructureSink) Write(f *gcenter.Frame) error {
	return WriteStructure(S.fname, S.top, f, S.title)
}

// Close does nothing.
func (S *StructureSink) Close() error { return nil }
