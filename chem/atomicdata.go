/*
 * atomicdata.go, part of gcenter.
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
	"fmt"
	"strings"
)

//A map for assigning mass to elements.
//Note that just common "bio-elements" are present
var symbolMass = map[string]float64{
	"H":  1.008,
	"C":  12.011,
	"O":  15.999,
	"N":  14.007,
	"P":  30.974,
	"S":  32.06,
	"Se": 78.96,
	"K":  39.098,
	"Ca": 40.078,
	"Mg": 24.305,
	"Cl": 35.45,
	"Na": 22.990,
	"Cu": 63.546,
	"Zn": 65.38,
	"Co": 58.933,
	"Fe": 55.845,
	"Mn": 54.938,
	"Cr": 51.996,
	"Si": 28.085,
	"Be": 9.012,
	"F":  18.998,
	"Br": 79.904,
	"I":  126.90,
}

//A map for assigning covalent radii to elements
//Values from Cordero et al., 2008 (DOI:10.1039/B801115J)
//Note that just common "bio-elements" are present
var symbolCovrad = map[string]float64{
	"H":  0.4, // 0.31, but H has only one bond, extra bonds are removed later.
	"C":  0.76, //the sp3 radius
	"O":  0.66,
	"N":  0.71,
	"P":  1.07,
	"S":  1.05,
	"Se": 1.2,
	"K":  2.03,
	"Ca": 1.76,
	"Mg": 1.41,
	"Cl": 1.02,
	"Na": 1.66,
	"Cu": 1.32,
	"Zn": 1.22,
	"Co": 1.5,  // hs
	"Fe": 1.52, //hs
	"Mn": 1.61, //hs
	"Cr": 1.39,
	"Si": 1.11,
	"Be": 0.96,
	"F":  0.57,
	"Br": 1.2,
	"I":  1.39,
}

//Maximum number of bonds per element. Elements not present
//are not checked.
var symbolMaxBonds = map[string]int{
	"H":  1, //this is the only one truly important.
	"C":  4,
	"O":  2,
	"F":  1,
	"Cl": 1,
	"Br": 1,
	"I":  1,
}

//A map between 3-letters name for aminoacidic residues to the corresponding 1-letter names.
var three2OneLetter = map[string]byte{
	"SER": 'S',
	"THR": 'T',
	"ASN": 'N',
	"GLN": 'Q',
	"SEC": 'U', //Selenocysteine!
	"CYS": 'C',
	"GLY": 'G',
	"PRO": 'P',
	"ALA": 'A',
	"VAL": 'V',
	"ILE": 'I',
	"LEU": 'L',
	"MET": 'M',
	"PHE": 'F',
	"TYR": 'Y',
	"TRP": 'W',
	"ARG": 'R',
	"HIS": 'H',
	"LYS": 'K',
	"ASP": 'D',
	"GLU": 'E',
	//force-field variants
	"HID": 'H',
	"HIE": 'H',
	"HIP": 'H',
	"HSD": 'H',
	"HSE": 'H',
	"HSP": 'H',
	"CYX": 'C',
	"CYM": 'C',
	"ASH": 'D',
	"GLH": 'E',
	"LYN": 'K',
}

// Residues that are part of proteins but not amino acids.
var proteinCaps = map[string]bool{
	"ACE": true,
	"NME": true,
	"NMA": true,
	"NH2": true,
}

// isProteinResidue returns true if name is an amino acid or a protein cap.
// Terminal variants with a leading N or C ("NALA", "CGLY") are accepted.
func isProteinResidue(name string) bool {
	name = strings.ToUpper(strings.TrimSpace(name))
	if _, ok := three2OneLetter[name]; ok || proteinCaps[name] {
		return true
	}
	if len(name) == 4 && (name[0] == 'N' || name[0] == 'C') {
		_, ok := three2OneLetter[name[1:]]
		return ok
	}
	return false
}

// Two-letter elements recognized at the start of ion names.
var ionNames = map[string]string{
	"NA":  "Na",
	"CL":  "Cl",
	"CA":  "Ca",
	"MG":  "Mg",
	"ZN":  "Zn",
	"K":   "K",
	"CU":  "Cu",
	"FE":  "Fe",
	"MN":  "Mn",
	"CO":  "Co",
	"SOD": "Na",
	"CLA": "Cl",
	"POT": "K",
	"CAL": "Ca",
}

//This tries to guess a chemical element symbol from an atom name. Mostly based
//on AMBER, CHARMM and Gromacs names. It only deals with some common bio-elements.
//Names such as "CA" are taken to be carbons, unless the name is also the whole
//residue name (an ion).
func symbolFromName(name string, resname ...string) (string, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "" {
		return "", fmt.Errorf("Couldn't guess symbol from an empty name")
	}
	if len(resname) > 0 && strings.EqualFold(strings.TrimSpace(resname[0]), name) {
		if s, ok := ionNames[strings.TrimRight(name, "+-0123456789")]; ok {
			return s, nil
		}
	}
	//Some programs prefix hydrogen names with a digit (1HB, 2HG1)
	name = strings.TrimLeft(name, "0123456789")
	if name == "" {
		return "", fmt.Errorf("Couldn't guess symbol from PDB name")
	}
	symbol := ""
	switch name[0] {
	case 'H':
		symbol = "H"
	case 'C':
		switch {
		case name == "CU":
			symbol = "Cu"
		case name == "CL" || name == "CLA":
			symbol = "Cl"
		default:
			symbol = "C"
		}
	case 'N':
		if name == "NA" || name == "SOD" {
			symbol = "Na"
		} else {
			symbol = "N"
		}
	case 'O':
		symbol = "O"
	case 'P':
		if name == "POT" {
			symbol = "K"
		} else {
			symbol = "P"
		}
	case 'S':
		switch {
		case name == "SE":
			symbol = "Se"
		case name == "SOD":
			symbol = "Na"
		default:
			symbol = "S"
		}
	case 'F':
		if name == "FE" {
			symbol = "Fe"
		} else {
			symbol = "F"
		}
	case 'K':
		symbol = "K"
	case 'Z':
		if strings.HasPrefix(name, "ZN") {
			symbol = "Zn"
		}
	case 'M':
		if strings.HasPrefix(name, "MG") {
			symbol = "Mg"
		} else if strings.HasPrefix(name, "MN") {
			symbol = "Mn"
		}
	case 'B':
		if strings.HasPrefix(name, "BR") {
			symbol = "Br"
		}
	case 'I':
		symbol = "I"
	}
	if symbol == "" {
		return symbol, fmt.Errorf("Couldn't guess symbol from PDB name %s", name)
	}
	return symbol, nil
}
