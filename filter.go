/*
 * filter.go, part of gcenter.
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

import "math"

// Times closer than this (in ps) are considered equal by the range filter.
const timeTolerance = 1e-6

// rangeSource only yields the frames of src whose time lies in [start, end].
type rangeSource struct {
	FrameSource
	start, end float64
	started    bool
	done       bool
}

// NewRangeSource restricts src to the frames with simulation times in
// [start, end]. If the trajectory ends before start is reached, Next
// returns ErrStartNotFound.
func NewRangeSource(src FrameSource, start, end float64) FrameSource {
	return &rangeSource{FrameSource: src, start: start, end: end}
}

func (r *rangeSource) Next(f *Frame) error {
	if r.done {
		return NewLastFrameError("")
	}
	for {
		err := r.FrameSource.Next(f)
		if err != nil {
			if IsLastFrame(err) && !r.started && r.start > 0 {
				return ErrStartNotFound
			}
			return err
		}
		if f.Time < r.start-timeTolerance {
			continue
		}
		r.started = true
		if f.Time > r.end+timeTolerance {
			r.done = true
			return NewLastFrameError("")
		}
		return nil
	}
}

// strideSource yields every step-th frame of src, starting with the first.
type strideSource struct {
	FrameSource
	step int
	read int
}

// NewStrideSource returns a source yielding every step-th frame of src.
func NewStrideSource(src FrameSource, step int) FrameSource {
	if step <= 1 {
		return src
	}
	return &strideSource{FrameSource: src, step: step}
}

func (s *strideSource) Next(f *Frame) error {
	for {
		if err := s.FrameSource.Next(f); err != nil {
			return err
		}
		s.read++
		if (s.read-1)%s.step == 0 {
			return nil
		}
	}
}

// rangeIsDefault returns true if [start, end] is the whole trajectory.
func rangeIsDefault(start, end float64) bool {
	return start <= 0 && math.IsInf(end, 1)
}
