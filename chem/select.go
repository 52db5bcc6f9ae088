/*
 * select.go, part of gcenter.
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
	"path"
	"strconv"
	"strings"

	"github.com/Ladme/gcenter"
)

// Selector resolves atom selection queries over a topology and, optionally,
// the groups of an index file. It implements gcenter.SelectionResolver and
// gcenter.Autodetector.
//
// A query is either the name of an index group or an expression made of
// the terms below, combined with "and", "or", "not" and parentheses.
//
//	all, System          every atom
//	@protein             atoms of amino acid residues
//	@water               atoms of water molecules
//	@ion                 single-atom residues
//	resname A B ...      residue names (shell patterns allowed)
//	name A B ...         atom names (shell patterns allowed)
//	element A B ...      element symbols
//	chain A B ...        chain identifiers
//	resid 1 3-5 8 to 10  residue numbers
//	serial 1 3-5         atom numbers, as in the file
//	GroupName            an index group
type Selector struct {
	top *Topology
	ndx *IndexGroups
}

// NewSelector returns a selector for top. ndx can be nil.
func NewSelector(top *Topology, ndx *IndexGroups) *Selector {
	return &Selector{top: top, ndx: ndx}
}

var waterNames = map[string]bool{
	"SOL": true, "WAT": true, "HOH": true, "TIP3": true, "TIP4": true,
	"TIP5": true, "SPC": true, "T3P": true, "T4P": true, "H2O": true,
}

// Resolve returns the atoms selected by query, ordered and without repetitions.
// Index groups keep the order of the index file. Expressions return atoms in
// increasing order.
func (S *Selector) Resolve(query string) ([]int, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, fmt.Errorf("empty query: %w", gcenter.ErrInvalidQuery)
	}
	if g, ok := S.ndx.Group(q); ok {
		return S.checkGroup(g)
	}
	p := &selParser{sel: S, toks: tokenize(q)}
	mask, err := p.expr()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.toks) {
		return nil, fmt.Errorf("unexpected %q in %q: %w", p.toks[p.pos], q, gcenter.ErrInvalidQuery)
	}
	return maskIndexes(mask), nil
}

// Autodetect returns the protein atoms of the topology when asked for the
// default reference.
func (S *Selector) Autodetect(query string) ([]int, error) {
	if !strings.EqualFold(query, gcenter.DefaultReference) {
		return nil, gcenter.ErrNoMatch
	}
	return maskIndexes(S.protein()), nil
}

func (S *Selector) checkGroup(g []int) ([]int, error) {
	seen := make(map[int]bool, len(g))
	ret := make([]int, 0, len(g))
	for _, i := range g {
		if i >= S.top.Len() {
			return nil, fmt.Errorf("index group contains atom %d but the system has %d atoms: %w", i+1, S.top.Len(), gcenter.ErrIndexOutOfRange)
		}
		if !seen[i] {
			seen[i] = true
			ret = append(ret, i)
		}
	}
	return ret, nil
}

func maskIndexes(mask []bool) []int {
	ret := make([]int, 0)
	for i, v := range mask {
		if v {
			ret = append(ret, i)
		}
	}
	return ret
}

func (S *Selector) protein() []bool {
	mask := make([]bool, S.top.Len())
	for i, at := range S.top.Atoms {
		mask[i] = isProteinResidue(at.MolName)
	}
	return mask
}

func tokenize(q string) []string {
	q = strings.NewReplacer("(", " ( ", ")", " ) ", "!", " ! ", "&&", " and ", "||", " or ").Replace(q)
	return strings.Fields(q)
}

var selKeywords = map[string]bool{
	"resname": true, "name": true, "element": true, "chain": true, "resid": true, "serial": true,
}

func isOperator(t string) bool {
	switch strings.ToLower(t) {
	case "and", "or", "not", "!", "(", ")":
		return true
	}
	return selKeywords[strings.ToLower(t)]
}

type selParser struct {
	sel  *Selector
	toks []string
	pos  int
}

func (p *selParser) peek() string {
	if p.pos >= len(p.toks) {
		return ""
	}
	return p.toks[p.pos]
}

func (p *selParser) expr() ([]bool, error) {
	left, err := p.and()
	if err != nil {
		return nil, err
	}
	for strings.EqualFold(p.peek(), "or") {
		p.pos++
		right, err := p.and()
		if err != nil {
			return nil, err
		}
		for i := range left {
			left[i] = left[i] || right[i]
		}
	}
	return left, nil
}

func (p *selParser) and() ([]bool, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for strings.EqualFold(p.peek(), "and") {
		p.pos++
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		for i := range left {
			left[i] = left[i] && right[i]
		}
	}
	return left, nil
}

func (p *selParser) unary() ([]bool, error) {
	t := p.peek()
	switch {
	case t == "":
		return nil, fmt.Errorf("unexpected end of query: %w", gcenter.ErrInvalidQuery)
	case strings.EqualFold(t, "not") || t == "!":
		p.pos++
		m, err := p.unary()
		if err != nil {
			return nil, err
		}
		for i := range m {
			m[i] = !m[i]
		}
		return m, nil
	case t == "(":
		p.pos++
		m, err := p.expr()
		if err != nil {
			return nil, err
		}
		if p.peek() != ")" {
			return nil, fmt.Errorf("missing closing parenthesis: %w", gcenter.ErrInvalidQuery)
		}
		p.pos++
		return m, nil
	}
	return p.primary()
}

// args returns the arguments of a keyword.
func (p *selParser) args(keyword string) ([]string, error) {
	ret := make([]string, 0, 2)
	for p.pos < len(p.toks) && !isOperator(p.toks[p.pos]) {
		ret = append(ret, p.toks[p.pos])
		p.pos++
	}
	if len(ret) == 0 {
		return nil, fmt.Errorf("keyword %s needs at least one argument: %w", keyword, gcenter.ErrInvalidQuery)
	}
	return ret, nil
}

func (p *selParser) primary() ([]bool, error) {
	t := p.toks[p.pos]
	p.pos++
	top := p.sel.top
	mask := make([]bool, top.Len())
	lt := strings.ToLower(t)
	switch {
	case lt == "all" || lt == "system":
		for i := range mask {
			mask[i] = true
		}
		return mask, nil
	case lt == "@protein":
		return p.sel.protein(), nil
	case lt == "@water":
		for i, at := range top.Atoms {
			mask[i] = waterNames[strings.ToUpper(at.MolName)]
		}
		return mask, nil
	case lt == "@ion":
		sizes := residueSizes(top)
		for i, at := range top.Atoms {
			mask[i] = sizes[i] == 1 && !waterNames[strings.ToUpper(at.MolName)]
		}
		return mask, nil
	case selKeywords[lt]:
		args, err := p.args(lt)
		if err != nil {
			return nil, err
		}
		return p.keyword(lt, args, mask)
	case isOperator(t):
		return nil, fmt.Errorf("unexpected %q: %w", t, gcenter.ErrInvalidQuery)
	}
	g, ok := p.sel.ndx.Group(t)
	if !ok {
		return nil, fmt.Errorf("group '%s' not found: %w", t, gcenter.ErrNoMatch)
	}
	g, err := p.sel.checkGroup(g)
	if err != nil {
		return nil, err
	}
	for _, i := range g {
		mask[i] = true
	}
	return mask, nil
}

func matchAny(patterns []string, s string) bool {
	for _, pat := range patterns {
		if ok, _ := path.Match(pat, s); ok {
			return true
		}
	}
	return false
}

// parseRanges reads numbers, "a-b" and "a to b" ranges.
func parseRanges(args []string) ([][2]int, error) {
	ret := make([][2]int, 0, len(args))
	for i := 0; i < len(args); i++ {
		a := args[i]
		if i+2 < len(args) && strings.EqualFold(args[i+1], "to") {
			from, err1 := strconv.Atoi(a)
			to, err2 := strconv.Atoi(args[i+2])
			if err1 != nil || err2 != nil {
				return nil, fmt.Errorf("invalid range %s to %s: %w", a, args[i+2], gcenter.ErrInvalidQuery)
			}
			ret = append(ret, [2]int{from, to})
			i += 2
			continue
		}
		if k := strings.Index(a[1:], "-"); k >= 0 {
			from, err1 := strconv.Atoi(a[:k+1])
			to, err2 := strconv.Atoi(a[k+2:])
			if err1 != nil || err2 != nil {
				return nil, fmt.Errorf("invalid range %s: %w", a, gcenter.ErrInvalidQuery)
			}
			ret = append(ret, [2]int{from, to})
			continue
		}
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("invalid number %s: %w", a, gcenter.ErrInvalidQuery)
		}
		ret = append(ret, [2]int{n, n})
	}
	return ret, nil
}

func inRanges(r [][2]int, n int) bool {
	for _, v := range r {
		if n >= v[0] && n <= v[1] {
			return true
		}
	}
	return false
}

func (p *selParser) keyword(kw string, args []string, mask []bool) ([]bool, error) {
	top := p.sel.top
	switch kw {
	case "resname":
		for i, at := range top.Atoms {
			mask[i] = matchAny(args, at.MolName)
		}
	case "name":
		for i, at := range top.Atoms {
			mask[i] = matchAny(args, at.Name)
		}
	case "element":
		for i, at := range top.Atoms {
			sym := at.Symbol
			if sym == "" {
				sym, _ = symbolFromName(at.Name, at.MolName)
			}
			for _, a := range args {
				if strings.EqualFold(a, sym) {
					mask[i] = true
				}
			}
		}
	case "chain":
		for i, at := range top.Atoms {
			mask[i] = matchAny(args, at.Chain)
		}
	case "resid", "serial":
		r, err := parseRanges(args)
		if err != nil {
			return nil, err
		}
		for i, at := range top.Atoms {
			n := at.MolID
			if kw == "serial" {
				n = at.ID
			}
			mask[i] = inRanges(r, n)
		}
	}
	return mask, nil
}
