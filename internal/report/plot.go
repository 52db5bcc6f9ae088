/*
 * plot.go, part of gcenter.
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

package report

import (
	"fmt"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// PlotFormats are the image formats Plot can write, by file extension.
var PlotFormats = []string{"png", "svg", "pdf", "eps", "jpg", "jpeg", "tif", "tiff"}

// IsPlotFile returns true if fname has the extension of a supported image format.
func IsPlotFile(fname string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fname), "."))
	for _, f := range PlotFormats {
		if ext == f {
			return true
		}
	}
	return false
}

func basicShiftPlot(title string) *plot.Plot {
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = "Time (ps)"
	p.Y.Label.Text = "Translation (A)"
	p.Add(plotter.NewGrid())
	p.Legend.Top = true
	return p
}

// Plot saves a plot of the translation along each axis versus time to
// fname. The format is taken from the extension.
func (r *Recorder) Plot(fname string) error {
	if r.Len() == 0 {
		return ErrNoFrames
	}
	if !IsPlotFile(fname) {
		return fmt.Errorf("%s: unsupported image format", fname)
	}
	p := basicShiftPlot("gcenter translations")
	var lines []interface{}
	for i := range axisNames {
		xys := make(plotter.XYs, r.Len())
		for k := range xys {
			xys[k].X = r.Times[k]
			xys[k].Y = r.Shifts[i][k]
		}
		lines = append(lines, axisNames[i], xys)
	}
	if err := plotutil.AddLines(p, lines...); err != nil {
		return err
	}
	if err := p.Save(16*vg.Centimeter, 10*vg.Centimeter, fname); err != nil {
		return err
	}
	return nil
}
