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

package gcenter

import (
	"errors"
	"fmt"
)

// Box errors. Fatal for the input structure, warnings for trajectory frames.
var (
	ErrBoxNotDefined    = errors.New("simulation box is not defined")
	ErrBoxNotValid      = errors.New("simulation box is not a valid simulation box; some required dimensions are not positive")
	ErrBoxNotOrthogonal = errors.New("simulation box is not orthogonal; this is not supported, sorry")
)

// Configuration errors, detected before any frame is processed.
var (
	ErrEmptyReference      = errors.New("reference group is empty")
	ErrAutodetectionFailed = errors.New("no protein atoms autodetected")
	ErrZeroWeight          = errors.New("reference group has zero total mass")
	ErrWeightsMismatch     = errors.New("number of weights does not match the number of particles in the group")
	ErrIndexOutOfRange     = errors.New("particle index out of range")
	ErrNoDimension         = errors.New("no dimension selected for centering")
	ErrNoOperations        = errors.New("nothing to center")
	ErrStepJoinUnsupported = errors.New("when multiple input trajectories are provided, step must be 1")
	ErrInvalidStep         = errors.New("step must be a positive integer")
	ErrInvalidRange        = errors.New("start time is larger than end time")
	ErrNoConnectivity      = errors.New("molecules can not be made whole: no connectivity information available")
	ErrNoMasses            = errors.New("center of mass requested but no masses are available")
	ErrNoInput             = errors.New("no input trajectory provided")
	ErrParticleMismatch    = errors.New("number of particles in the trajectory does not match the structure")
	ErrPipelineState       = errors.New("operation not allowed in the current state of the pipeline")
)

// Selection errors returned by SelectionResolver implementations.
var (
	ErrInvalidQuery = errors.New("invalid selection query")
	ErrNoMatch      = errors.New("selection query matches no group")
)

// ErrStartNotFound is returned by the time-range filter when a trajectory ends
// before reaching the requested start time.
var ErrStartNotFound = errors.New("start time not found in trajectory")

// ReferenceError reports a problem with the group selected by a flag.
type ReferenceError struct {
	Flag  string
	Query string
	Err   error
}

func (e *ReferenceError) Error() string {
	if errors.Is(e.Err, ErrAutodetectionFailed) {
		return e.Err.Error()
	}
	if e.Flag == "" {
		return fmt.Sprintf("reference group '%s': %s", e.Query, e.Err)
	}
	return fmt.Sprintf("reference group '%s' (%s): %s", e.Query, e.Flag, e.Err)
}

func (e *ReferenceError) Unwrap() error {
	return e.Err
}

// FrameError wraps an error with the frame it happened in. Its message is
// the message of the wrapped error.
type FrameError struct {
	File    string
	Frame   int
	Time    float64
	Step    uint64
	Wrapped error
}

func (e *FrameError) Error() string {
	return e.Wrapped.Error()
}

func (e *FrameError) Unwrap() error {
	return e.Wrapped
}

// LastFrameError is implemented by the errors FrameSources return once the
// trajectory has been fully read. It is not really an error.
type LastFrameError interface {
	error
	NormalLastFrameTermination() //does nothing, just to separate this interface from other errors
}

// IsLastFrame returns true if err signals the normal end of a trajectory.
func IsLastFrame(err error) bool {
	var l LastFrameError
	return errors.As(err, &l)
}

type lastFrameError struct {
	filename string
}

func (E lastFrameError) NormalLastFrameTermination() {}

func (E lastFrameError) Error() string {
	if E.filename == "" {
		return "EOF"
	}
	return fmt.Sprintf("%s: EOF", E.filename)
}

// NewLastFrameError returns a LastFrameError for the given file.
func NewLastFrameError(filename string) error {
	return lastFrameError{filename: filename}
}
