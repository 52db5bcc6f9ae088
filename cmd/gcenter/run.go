/*
 * run.go, part of gcenter.
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

package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strings"

	"github.com/Ladme/gcenter"
	"github.com/Ladme/gcenter/chem"
	"github.com/Ladme/gcenter/chemgraph"
	"github.com/Ladme/gcenter/internal/backup"
	"github.com/Ladme/gcenter/internal/config"
	"github.com/Ladme/gcenter/internal/progress"
	"github.com/Ladme/gcenter/internal/report"
	"github.com/Ladme/gcenter/traj"
)

// runner holds the output of a run.
type runner struct {
	cfg    *config.Config
	stdout io.Writer
	stderr io.Writer
	out    styles
	errs   styles
}

func newRunner(cfg *config.Config, stdout, stderr io.Writer) *runner {
	return &runner{cfg: cfg, stdout: stdout, stderr: stderr, out: newStyles(stdout), errs: newStyles(stderr)}
}

func (r *runner) note(format string, args ...interface{}) {
	if !r.cfg.Silent {
		r.out.printNote(r.stdout, format, args...)
	}
}

func (r *runner) warn(format string, args ...interface{}) {
	r.errs.printWarning(r.stderr, format, args...)
}

// warnSelector reports when protein atoms have to be autodetected.
type warnSelector struct {
	*chem.Selector
	warn   func(format string, args ...interface{})
	silent bool
}

func (w warnSelector) Autodetect(query string) ([]int, error) {
	if !w.silent {
		w.warn("group '%s' not found. Autodetecting protein atoms...\n", query)
	}
	return w.Selector.Autodetect(query)
}

func (r *runner) readIndex() (*chem.IndexGroups, error) {
	if r.cfg.Index != config.DefaultIndex {
		return chem.NdxFileRead(r.cfg.Index)
	}
	if !exists(r.cfg.Index) {
		return nil, nil
	}
	return chem.NdxFileRead(r.cfg.Index)
}

func (r *runner) printOptions(ndx *chem.IndexGroups, dim gcenter.Dimension) {
	c, s, w := r.cfg, r.out, r.stdout
	fmt.Fprintf(w, "[STRUCTURE]     %s\n", s.blue.Render(c.Structure))
	switch len(c.Trajectories) {
	case 0:
	case 1:
		fmt.Fprintf(w, "[TRAJECTORY]    %s\n", s.blue.Render(c.Trajectories[0]))
	default:
		fmt.Fprintf(w, "[TRAJECTORIES]  %s\n", s.blue.Render(c.Trajectories[0]))
		for _, t := range c.Trajectories[1:] {
			fmt.Fprintf(w, "                %s\n", s.blue.Render(t))
		}
	}
	fmt.Fprintf(w, "[OUTPUT]        %s\n", s.blue.Render(c.Output))
	if ndx != nil {
		fmt.Fprintf(w, "[INDEX]         %s\n", s.highlight(c.Index, c.Index == config.DefaultIndex))
	}
	fmt.Fprintf(w, "[REFERENCE]     %s\n", s.highlight(c.Reference, c.Reference == gcenter.DefaultReference))
	for ax, q := range [3]string{c.XRef, c.YRef, c.ZRef} {
		if q != "" && dim.Has(ax) {
			fmt.Fprintf(w, "[%s REFERENCE]   %s\n", strings.ToUpper(gcenter.Dimension(1<<uint(ax)).String()), s.blue.Render(q))
		}
	}
	fmt.Fprintf(w, "[DIMENSIONS]    %s\n", s.highlight(dim.String(), c.Axes == ""))
	if c.Begin != 0 {
		fmt.Fprintf(w, "[START TIME]    %s\n", s.blue.Render(fmt.Sprintf("%g ns", c.Begin/1000)))
	}
	if !math.IsInf(c.End, 1) {
		fmt.Fprintf(w, "[END TIME]      %s\n", s.blue.Render(fmt.Sprintf("%g ns", c.End/1000)))
	}
	if c.Step != config.DefaultStep {
		fmt.Fprintf(w, "[STEP]          %s\n", s.blue.Render(fmt.Sprint(c.Step)))
	}
	if c.COM {
		fmt.Fprintf(w, "[METHOD]        %s\n", s.blue.Render("center of mass"))
	} else {
		fmt.Fprintf(w, "[METHOD]        %s\n", "center of geometry")
	}
	if c.Whole {
		fmt.Fprintf(w, "[PBC]           %s\n", s.blue.Render("whole molecules"))
	}
	fmt.Fprintln(w)
}

func (r *runner) backupOutput() error {
	if !exists(r.cfg.Output) {
		return nil
	}
	if r.cfg.Overwrite {
		if !r.cfg.Silent {
			r.out.printWarning(r.stdout, "overwriting '%s'\n", r.out.yellow.Render(r.cfg.Output))
		}
		return nil
	}
	name, err := backup.Backup(r.cfg.Output)
	if err != nil {
		return err
	}
	r.note("backed up '%s' as '%s'\n", r.out.yellow.Render(r.cfg.Output), r.out.yellow.Render(name))
	return nil
}

// unwrapper builds the bond graph used to make molecules whole. Bonds are
// only guessed on request; a structure without bonds is otherwise an error.
func (r *runner) unwrapper(s *chem.Structure) (gcenter.Unwrapper, error) {
	if !r.cfg.GuessBonds && len(s.Bonds()) == 0 {
		return nil, gcenter.ErrNoConnectivity
	}
	if r.cfg.GuessBonds {
		r.note("guessing bonds from interatomic distances...\n")
		err := chem.AssignBonds(s.Frame.Coords, s.Topology, s.Frame.Box)
		var ew *chem.ElementWarning
		if errors.As(err, &ew) {
			r.warn("%s; they will not be bonded", ew)
		} else if err != nil {
			return nil, err
		}
	}
	u, err := chemgraph.NewUnwrapper(s.Topology, s.Len())
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *runner) reporter(rec *report.Recorder) gcenter.Reporter {
	var prog gcenter.Reporter
	if !r.cfg.Silent {
		if f, ok := r.stdout.(*os.File); ok {
			prog = progress.New(f, r.cfg.PrintFreq)
			if t, ok := prog.(*progress.TUI); ok {
				t.OnInterrupt = func() {
					r.warn("interrupted; output file '%s' is incomplete", r.cfg.Output)
					os.Exit(130)
				}
			}
		} else {
			prog = progress.NewPrinter(r.stdout, r.cfg.PrintFreq)
		}
	}
	if rec == nil {
		return report.Multi(prog)
	}
	return report.Multi(prog, rec)
}

func (r *runner) run() error {
	c := r.cfg
	if !c.Silent {
		fmt.Fprintf(r.stdout, "\n%s\n\n", r.out.bold.Render(" >> gcenter "+version+" <<"))
	}
	dim, err := c.Dimension()
	if err != nil {
		return err
	}
	s, err := traj.ReadStructure(c.Structure)
	if err != nil {
		return err
	}
	if err := gcenter.CheckBox(s.Frame.Box); err != nil {
		return err
	}
	ndx, err := r.readIndex()
	if err != nil {
		return err
	}
	if !c.Silent {
		r.printOptions(ndx, dim)
	}
	if err := r.backupOutput(); err != nil {
		return err
	}

	var masses gcenter.Masser
	if c.COM {
		r.note("center of mass calculation requested; will guess elements and assign masses...\n")
		if err := s.GuessElements(); err != nil {
			r.warn("%s", err)
		}
		masses = s.Topology
	}
	sel := warnSelector{Selector: chem.NewSelector(s.Topology, ndx), warn: r.warn, silent: r.cfg.Silent}
	ops, err := gcenter.Compose(c.References(), dim, sel, masses)
	if err != nil {
		return err
	}

	opts := gcenter.Options{Start: c.Begin, End: c.End, Step: c.Step}
	if c.Whole {
		if opts.Unwrapper, err = r.unwrapper(s); err != nil {
			return err
		}
	}
	var rec *report.Recorder
	if c.Plot != "" || c.Summary {
		rec = report.NewRecorder()
	}
	opts.Reporter = r.reporter(rec)
	opts.Log = log.New(r.stderr, r.errs.warning.Render("warning:")+" ", 0)
	p, err := gcenter.NewPipeline(ops, opts)
	if err != nil {
		return err
	}
	if err := p.Init(s.Frame); err != nil {
		return err
	}

	if len(c.Trajectories) == 0 {
		sink, err := traj.NewStructureSink(c.Output, s.Topology, s.Title)
		if err != nil {
			return err
		}
		if err := p.CenterStructure(s.Frame, sink); err != nil {
			return err
		}
	} else if err := r.runTrajectories(p, s); err != nil {
		return err
	}

	if rec != nil {
		if err := r.report(rec); err != nil {
			return err
		}
	}
	if !c.Silent {
		fmt.Fprintln(r.stdout, r.out.green.Bold(true).Render(fmt.Sprintf("Successfully written output file '%s'.", c.Output)))
	}
	return nil
}

func (r *runner) runTrajectories(p *gcenter.Pipeline, s *chem.Structure) error {
	inputs := make([]gcenter.Input, len(r.cfg.Trajectories))
	for i, name := range r.cfg.Trajectories {
		name := name
		inputs[i] = gcenter.Input{Name: name, Open: func() (gcenter.FrameSource, error) { return traj.Open(name, s.Len()) }}
	}
	sink, err := traj.Create(r.cfg.Output, s.Topology, "Centered with gcenter")
	if err != nil {
		return err
	}
	err = p.Run(inputs, sink)
	if cerr := sink.Close(); err == nil {
		err = cerr
	}
	return err
}

func (r *runner) report(rec *report.Recorder) error {
	if r.cfg.Summary && !r.cfg.Silent {
		if err := rec.Summary(r.stdout); err != nil {
			return err
		}
		fmt.Fprintln(r.stdout)
	}
	if r.cfg.Plot != "" {
		if err := rec.Plot(r.cfg.Plot); err != nil {
			return err
		}
		r.note("translations plotted to '%s'\n", r.out.yellow.Render(r.cfg.Plot))
	}
	return nil
}
