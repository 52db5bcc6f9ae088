/*
 * errors.go, part of gcenter.
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

// CError is the error type of the package. It carries the file that
// failed, if any, and the functions the error went through.
type CError struct {
	msg      string
	filename string
	deco     []string
	critical bool
}

func (err CError) Error() string {
	if err.filename == "" {
		return err.msg
	}
	return fmt.Sprintf("%s: %s", err.filename, err.msg)
}

// Decorate adds dec to the decoration of the error and returns the result.
func (err *CError) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

// FileName returns the file associated to the error, if any.
func (err CError) FileName() string { return err.filename }

// Critical returns true if the error is critical, false otherwise.
func (err CError) Critical() bool { return err.critical }

func newCError(filename, caller, format string, args ...interface{}) *CError {
	return &CError{msg: fmt.Sprintf(format, args...), filename: filename, deco: []string{caller}, critical: true}
}

// ElementWarning reports atoms whose element could not be guessed or has
// no data for the requested property. It is not critical: the atoms are
// treated as massless, or as not bonded.
type ElementWarning struct {
	Property string
	Names    []string
}

func (w *ElementWarning) Error() string {
	names := w.Names
	extra := ""
	if len(names) > 10 {
		extra = fmt.Sprintf(" and %d more", len(names)-10)
		names = names[:10]
	}
	return fmt.Sprintf("could not determine the %s of atoms %s%s", w.Property, strings.Join(names, ", "), extra)
}

// Critical always returns false.
func (w *ElementWarning) Critical() bool { return false }
