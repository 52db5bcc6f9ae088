/*
 * ndx.go, part of gcenter.
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
	"io"
	"os"
	"strconv"
	"strings"
)

// IndexGroups holds the groups of a Gromacs index (ndx) file.
// Indexes are 0-based.
type IndexGroups struct {
	Names  []string
	groups map[string][]int
}

// NdxFileRead reads the ndx file fname.
func NdxFileRead(fname string) (*IndexGroups, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, newCError("", "NdxFileRead", "%s", err)
	}
	defer f.Close()
	ig, err := NdxRead(f)
	if err != nil {
		if e, ok := err.(*CError); ok {
			e.filename = fname
			e.Decorate("NdxFileRead")
		}
		return nil, err
	}
	return ig, nil
}

// NdxRead reads groups in the ndx format. If a group name is repeated,
// the first group with that name is kept.
func NdxRead(r io.Reader) (*IndexGroups, error) {
	ig := &IndexGroups{groups: make(map[string][]int)}
	scanner := bufio.NewScanner(r)
	current := ""
	skip := false
	for nline := 1; scanner.Scan(); nline++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		if strings.HasPrefix(line, "[") {
			if !strings.HasSuffix(line, "]") {
				return nil, newCError("", "NdxRead", "line %d: malformed group header", nline)
			}
			current = strings.TrimSpace(line[1 : len(line)-1])
			_, skip = ig.groups[current]
			if !skip {
				ig.Names = append(ig.Names, current)
				ig.groups[current] = []int{}
			}
			continue
		}
		if current == "" {
			return nil, newCError("", "NdxRead", "line %d: atoms found outside of a group", nline)
		}
		if skip {
			continue
		}
		for _, f := range strings.Fields(line) {
			n, err := strconv.Atoi(f)
			if err != nil || n < 1 {
				return nil, newCError("", "NdxRead", "line %d: invalid atom number %q", nline, f)
			}
			ig.groups[current] = append(ig.groups[current], n-1)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, newCError("", "NdxRead", "%s", err)
	}
	return ig, nil
}

// Group returns the indexes of the group name and whether it exists.
func (I *IndexGroups) Group(name string) ([]int, bool) {
	if I == nil {
		return nil, false
	}
	g, ok := I.groups[name]
	return g, ok
}

// Len returns the number of groups.
func (I *IndexGroups) Len() int {
	if I == nil {
		return 0
	}
	return len(I.Names)
}
