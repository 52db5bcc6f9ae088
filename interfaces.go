/*
 * interfaces.go, part of gcenter.
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

// FrameSource yields the frames of a trajectory, one at a time.
type FrameSource interface {

	//Next reads the next frame into f. The coordinates of f must already
	//have room for Len() particles. At the end of the trajectory Next
	//returns an error satisfying LastFrameError.
	Next(f *Frame) error

	//Returns the number of particles per frame
	Len() int

	Close() error
}

// FrameSink accepts centered frames. Whether frames are written as a
// structure or as trajectory frames is decided when the sink is created.
type FrameSink interface {
	Write(f *Frame) error
	Close() error
}

// SelectionResolver turns a query into an ordered, deduplicated set of
// particle indexes. It returns ErrInvalidQuery or ErrNoMatch when the query
// can't be resolved.
type SelectionResolver interface {
	Resolve(query string) ([]int, error)
}

// Autodetector is implemented by resolvers that can guess a group for a
// well-known query when it is not otherwise available.
type Autodetector interface {
	Autodetect(query string) ([]int, error)
}

// Masser can return a slice with the masses of each particle in the system.
type Masser interface {
	Masses() ([]float64, error)
}

// ConnectivityProvider supplies the bonds of the system, as index pairs.
type ConnectivityProvider interface {
	Bonds() [][2]int
}

// Unwrapper makes molecules broken by the periodic boundary whole again.
type Unwrapper interface {
	MakeWhole(f *Frame) error
}

// Reporter receives the progress of a pipeline run.
type Reporter interface {
	FileStarted(name string)
	FrameWritten(f *Frame, shift [3]float64)
	Finished(err error)
}
