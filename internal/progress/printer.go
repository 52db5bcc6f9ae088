/*
 * printer.go, part of gcenter.
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

// Package progress reports the progress of a centering run on the terminal.
package progress

import (
	"fmt"
	"io"
	"os"

	"github.com/Ladme/gcenter"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Printer writes a status line every freq frames, rewriting it in place.
// It implements gcenter.Reporter.
type Printer struct {
	out       io.Writer
	freq      int
	frames    int
	last      *gcenter.Frame
	running   lipgloss.Style
	completed lipgloss.Style
	failed    lipgloss.Style
}

// NewPrinter returns a Printer writing to out. freq values below 1 are taken as 1.
func NewPrinter(out io.Writer, freq int) *Printer {
	if freq < 1 {
		freq = 1
	}
	r := lipgloss.NewRenderer(out)
	return &Printer{
		out:       out,
		freq:      freq,
		last:      new(gcenter.Frame),
		running:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("220")),
		completed: r.NewStyle().Bold(true).Foreground(lipgloss.Color("82")),
		failed:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
	}
}

func (p *Printer) line(status string, style lipgloss.Style) {
	fmt.Fprintf(p.out, "\r%-13s Step: %12d | Time: %12.3f ps | Frames: %d ",
		style.Render("["+status+"]"), p.last.Step, p.last.Time, p.frames)
}

// FileStarted does nothing; the status line does not name the file.
func (p *Printer) FileStarted(string) {}

// FrameWritten updates the status line every freq frames.
func (p *Printer) FrameWritten(f *gcenter.Frame, _ [3]float64) {
	p.frames++
	p.last.Step, p.last.Time = f.Step, f.Time
	if p.frames == 1 || p.frames%p.freq == 0 {
		p.line("CENTERING", p.running)
	}
}

// Finished writes the final status line.
func (p *Printer) Finished(err error) {
	if err != nil {
		p.line("FAILED", p.failed)
	} else {
		p.line("COMPLETED", p.completed)
	}
	fmt.Fprint(p.out, "\n\n")
}

// IsTerminal returns true if f is a terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// New returns the interactive view if out is a terminal, and a Printer otherwise.
func New(out *os.File, freq int) gcenter.Reporter {
	if IsTerminal(out) {
		return NewTUI(out, freq)
	}
	return NewPrinter(out, freq)
}
