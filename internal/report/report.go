/*
 * report.go, part of gcenter.
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

// Package report records the translations applied to each frame of a run
// and summarizes them as statistics, terminal charts and plots.
package report

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/Ladme/gcenter"
	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var axisNames = [3]string{"x", "y", "z"}

// ErrNoFrames is returned when a summary or plot is requested for a run
// that wrote no frames.
var ErrNoFrames = errors.New("no frames recorded")

// Recorder keeps the time, step and translation of every frame written.
// It implements gcenter.Reporter.
type Recorder struct {
	Files  []string
	Times  []float64
	Steps  []uint64
	Shifts [3][]float64
	Err    error
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return new(Recorder)
}

func (r *Recorder) FileStarted(name string) {
	r.Files = append(r.Files, name)
}

func (r *Recorder) FrameWritten(f *gcenter.Frame, shift [3]float64) {
	r.Times = append(r.Times, f.Time)
	r.Steps = append(r.Steps, f.Step)
	for i, v := range shift {
		r.Shifts[i] = append(r.Shifts[i], v)
	}
}

func (r *Recorder) Finished(err error) {
	r.Err = err
}

// Len returns the number of frames recorded.
func (r *Recorder) Len() int {
	return len(r.Times)
}

// Magnitudes returns the length of the translation of each frame.
func (r *Recorder) Magnitudes() []float64 {
	ret := make([]float64, r.Len())
	for i := range ret {
		ret[i] = floats.Norm([]float64{r.Shifts[0][i], r.Shifts[1][i], r.Shifts[2][i]}, 2)
	}
	return ret
}

// Stats are the statistics of a series of translations, in A.
type Stats struct {
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

func statsOf(data []float64) Stats {
	if len(data) == 0 {
		return Stats{math.NaN(), math.NaN(), math.NaN(), math.NaN()}
	}
	var s Stats
	s.Mean, s.StdDev = stat.MeanStdDev(data, nil)
	if len(data) == 1 {
		s.StdDev = 0
	}
	s.Min = floats.Min(data)
	s.Max = floats.Max(data)
	return s
}

// Stats returns the statistics of the translations along each axis, and
// of their lengths.
func (r *Recorder) Stats() (axes [3]Stats, magnitude Stats) {
	for i := range axes {
		axes[i] = statsOf(r.Shifts[i])
	}
	return axes, statsOf(r.Magnitudes())
}

// Summary writes the statistics of the translations and a chart of their
// lengths along the run.
func (r *Recorder) Summary(w io.Writer) error {
	if r.Len() == 0 {
		return ErrNoFrames
	}
	axes, mag := r.Stats()
	fmt.Fprintf(w, "Translations applied to %d frames (A):\n", r.Len())
	fmt.Fprintf(w, "%-8s %10s %10s %10s %10s\n", "", "mean", "std", "min", "max")
	for i, s := range axes {
		fmt.Fprintf(w, "%-8s %10.3f %10.3f %10.3f %10.3f\n", axisNames[i], s.Mean, s.StdDev, s.Min, s.Max)
	}
	fmt.Fprintf(w, "%-8s %10.3f %10.3f %10.3f %10.3f\n\n", "length", mag.Mean, mag.StdDev, mag.Min, mag.Max)
	if r.Len() < 2 {
		return nil
	}
	chart := asciigraph.Plot(r.Magnitudes(),
		asciigraph.Height(10),
		asciigraph.Width(70),
		asciigraph.Caption("translation length (A) per frame"))
	_, err := fmt.Fprintf(w, "%s\n\n", chart)
	return err
}

// multi sends every report to several reporters.
type multi []gcenter.Reporter

// Multi returns a Reporter forwarding every report to each of reps, in order.
// nil reporters are skipped.
func Multi(reps ...gcenter.Reporter) gcenter.Reporter {
	var m multi
	for _, r := range reps {
		if r != nil {
			m = append(m, r)
		}
	}
	return m
}

func (m multi) FileStarted(name string) {
	for _, r := range m {
		r.FileStarted(name)
	}
}

func (m multi) FrameWritten(f *gcenter.Frame, shift [3]float64) {
	for _, r := range m {
		r.FrameWritten(f, shift)
	}
}

func (m multi) Finished(err error) {
	for _, r := range m {
		r.Finished(err)
	}
}
