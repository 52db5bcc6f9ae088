/*
 * pdb.go, part of gcenter.
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

// PDBFileRead reads the first model of the PDB file fname.
func PDBFileRead(fname string) (*Structure, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, newCError("", "PDBFileRead", "%s", err)
	}
	defer f.Close()
	s, err := PDBRead(f)
	if err != nil {
		if e, ok := err.(*CError); ok {
			e.filename = fname
			e.Decorate("PDBFileRead")
		}
		return nil, err
	}
	return s, nil
}

// pad makes sure a PDB line is 80 characters long, so
// fixed columns can be read without checks.
func pad(line string) string {
	line = strings.TrimRight(line, "\r\n")
	if len(line) < 80 {
		line += strings.Repeat(" ", 80-len(line))
	}
	return line
}

//Parses a valid ATOM or HETATM line of a PDB file, returns an Atom
// object with the info except for the coordinates, which are returned
// separately as an array of 3 float64.
func readPDBAtomLine(line string) (*Atom, [3]float64, error) {
	var coords [3]float64
	err := make([]error, 5) //accumulate errors to check at the end of the line.
	atom := new(Atom)
	atom.Het = strings.HasPrefix(line, "HETATM")
	atom.ID, err[0] = strconv.Atoi(strings.TrimSpace(line[6:11]))
	atom.Name = strings.TrimSpace(line[12:16])
	//PDB says that pos. 17 is for other thing but I see that is
	//used for residue name in many cases
	atom.MolName = strings.TrimSpace(line[17:21])
	atom.MolName1 = three2OneLetter[atom.MolName]
	atom.Chain = strings.TrimSpace(line[21:22])
	atom.MolID, err[1] = strconv.Atoi(strings.TrimSpace(line[22:26]))
	coords[0], err[2] = strconv.ParseFloat(strings.TrimSpace(line[30:38]), 64)
	coords[1], err[3] = strconv.ParseFloat(strings.TrimSpace(line[38:46]), 64)
	coords[2], err[4] = strconv.ParseFloat(strings.TrimSpace(line[46:54]), 64)
	//Occupancy, b-factor and element are optional
	atom.Occupancy, _ = strconv.ParseFloat(strings.TrimSpace(line[54:60]), 64)
	atom.Bfactor, _ = strconv.ParseFloat(strings.TrimSpace(line[60:66]), 64)
	atom.Symbol = strings.TrimSpace(line[76:78])
	if len(atom.Symbol) == 2 {
		atom.Symbol = atom.Symbol[:1] + strings.ToLower(atom.Symbol[1:])
	}
	for i := range err {
		if err[i] != nil {
			return nil, coords, err[i]
		}
	}
	if atom.Symbol == "" {
		atom.Symbol, _ = symbolFromName(atom.Name, atom.MolName)
	}
	atom.Mass = symbolMass[atom.Symbol]
	return atom, coords, nil
}

// readCryst1 reads the box from a CRYST1 line.
func readCryst1(line string) (*gcenter.Box, error) {
	fields := []string{line[6:15], line[15:24], line[24:33], line[33:40], line[40:47], line[47:54]}
	vals := make([]float64, 6)
	for i, v := range fields {
		var err error
		vals[i], err = strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, err
		}
	}
	return gcenter.BoxFromLengthsAngles(vals[0], vals[1], vals[2], vals[3], vals[4], vals[5]), nil
}

// PDBRead reads the first model of a PDB stream: atoms, coordinates,
// the box from the CRYST1 record, if present, and bonds from CONECT records.
func PDBRead(r io.Reader) (*Structure, error) {
	atoms := make([]*Atom, 0)
	coords := make([]float64, 0)
	var box *gcenter.Box
	var title string
	conects := make([][]int, 0)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024), 1024*1024)
	inFirstModel := true
	for nline := 1; scanner.Scan(); nline++ {
		line := pad(scanner.Text())
		switch {
		case strings.HasPrefix(line, "ATOM") || strings.HasPrefix(line, "HETATM"):
			if !inFirstModel {
				continue
			}
			at, c, err := readPDBAtomLine(line)
			if err != nil {
				return nil, newCError("", "PDBRead", "line %d: %s", nline, err)
			}
			atoms = append(atoms, at)
			coords = append(coords, c[0], c[1], c[2])
		case strings.HasPrefix(line, "CRYST1"):
			b, err := readCryst1(line)
			if err != nil {
				return nil, newCError("", "PDBRead", "line %d: malformed CRYST1 record: %s", nline, err)
			}
			box = b
		case strings.HasPrefix(line, "TITLE") && title == "":
			title = strings.TrimSpace(line[10:])
		case strings.HasPrefix(line, "ENDMDL"):
			inFirstModel = false
		case strings.HasPrefix(line, "CONECT"):
			serials := make([]int, 0, 5)
			for k := 6; k+5 <= 31; k += 5 {
				f := strings.TrimSpace(line[k : k+5])
				if f == "" {
					continue
				}
				s, err := strconv.Atoi(f)
				if err != nil {
					return nil, newCError("", "PDBRead", "line %d: malformed CONECT record: %s", nline, err)
				}
				serials = append(serials, s)
			}
			conects = append(conects, serials)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, newCError("", "PDBRead", "%s", err)
	}
	if len(atoms) == 0 {
		return nil, newCError("", "PDBRead", "no atoms found")
	}
	top := NewTopology(atoms)
	if len(conects) > 0 {
		serial2index := make(map[int]int, len(atoms))
		for i, at := range atoms {
			serial2index[at.ID] = i
		}
		bonds := make([][2]int, 0, len(conects))
		for _, c := range conects {
			from, ok := serial2index[c[0]]
			if !ok {
				continue
			}
			for _, s := range c[1:] {
				if to, ok := serial2index[s]; ok {
					bonds = append(bonds, [2]int{from, to})
				}
			}
		}
		top.SetBonds(bonds)
		top.conect = true
	}
	m, err := v3.NewMatrix(coords)
	if err != nil {
		return nil, newCError("", "PDBRead", "%s", err)
	}
	return &Structure{Topology: top, Frame: &gcenter.Frame{Coords: m, Box: box}, Title: title}, nil
}

// pdbName formats an atom name the way PDB files align them.
func pdbName(name string) string {
	if len(name) >= 4 {
		return fmt.Sprintf("%-4s", name[:4])
	}
	return " " + fmt.Sprintf("%-3s", name)
}

// PDBFileWrite writes the frame f of the topology top to the PDB file fname.
func PDBFileWrite(fname string, top *Topology, f *gcenter.Frame, title string) error {
	out, err := os.Create(fname)
	if err != nil {
		return newCError(fname, "PDBFileWrite", "%s", err)
	}
	defer out.Close()
	w := bufio.NewWriter(out)
	if err := PDBWrite(w, top, f, title); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return newCError(fname, "PDBFileWrite", "%s", err)
	}
	return out.Close()
}

// PDBWrite writes the frame f of the topology top in PDB format. The box is
// written as a CRYST1 record and bonds read from CONECT records are
// written back.
func PDBWrite(w io.Writer, top *Topology, f *gcenter.Frame, title string) error {
	if f.Len() != top.Len() {
		return newCError("", "PDBWrite", "%d coordinates for %d atoms", f.Len(), top.Len())
	}
	if title != "" {
		if _, err := fmt.Fprintf(w, "TITLE     %s\n", title); err != nil {
			return newCError("", "PDBWrite", "%s", err)
		}
	}
	if f.Box != nil {
		a, b, c, alpha, beta, gamma := f.Box.LengthsAngles()
		fmt.Fprintf(w, "CRYST1%9.3f%9.3f%9.3f%7.2f%7.2f%7.2f P 1           1\n", a, b, c, alpha, beta, gamma)
	}
	for i, at := range top.Atoms {
		first := "ATOM"
		if at.Het {
			first = "HETATM"
		}
		chain := at.Chain
		if chain == "" {
			chain = " "
		}
		v := f.Coords.Vec(i)
		_, err := fmt.Fprintf(w, "%-6s%5d %s %-4s%1s%4d    %8.3f%8.3f%8.3f%6.2f%6.2f          %2s  \n",
			first, at.ID%100000, pdbName(at.Name), at.MolName, chain[:1], at.MolID%10000,
			v[0], v[1], v[2], at.Occupancy, at.Bfactor, strings.ToUpper(at.Symbol))
		if err != nil {
			return newCError("", "PDBWrite", "%s", err)
		}
	}
	if top.conect {
		for _, b := range top.Bonds() {
			fmt.Fprintf(w, "CONECT%5d%5d\n", top.Atom(b[0]).ID%100000, top.Atom(b[1]).ID%100000)
		}
	}
	_, err := fmt.Fprintf(w, "END\n")
	if err != nil {
		return newCError("", "PDBWrite", "%s", err)
	}
	return nil
}
