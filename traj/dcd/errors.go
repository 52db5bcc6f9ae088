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

package dcd

import (
	"fmt"
)

// Error is the general structure for DCD trajectory errors.
type Error struct {
	message  string
	filename string //the input file that has problems, or empty string if none.
	deco     []string
	critical bool
}

func (err Error) Error() string {
	return fmt.Sprintf("dcd file %s error: %s", err.filename, err.message)
}

// Decorate adds the name of a function the error went through.
func (err *Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

// FileName returns the file to which the failing trajectory was associated
func (err Error) FileName() string { return err.filename }

// Format returns the format of the file (always "dcd") associated to the error
func (err Error) Format() string { return "dcd" }

// Critical returns true if the error is critical, false otherwise
func (err Error) Critical() bool { return err.critical }

// errDecorate adds caller to the decoration of err if err is an Error,
// and returns err.
func errDecorate(err error, caller string) error {
	if e, ok := err.(*Error); ok {
		e.Decorate(caller)
		return e
	}
	return err
}

func newError(filename, caller, format string, args ...interface{}) *Error {
	return &Error{fmt.Sprintf(format, args...), filename, []string{caller}, true}
}

const (
	TrajUnIniRead  = "Traj object uninitialized to read"
	TrajUnIniWrite = "Traj object uninitialized to write"
	WrongFormat    = "Wrong format in the DCD file or frame"
	NotEnoughSpace = "Not enough space in passed blocks"
)

// lastFrameError signals the normal end of the trajectory. It implements
// gcenter.LastFrameError.
type lastFrameError struct {
	fileName string
}

// NormalLastFrameTermination does nothing.
func (E lastFrameError) NormalLastFrameTermination() {}

func (E lastFrameError) FileName() string { return E.fileName }

func (E lastFrameError) Error() string { return "EOF" }

func (E lastFrameError) Critical() bool { return false }

func (E lastFrameError) Format() string { return "dcd" }
