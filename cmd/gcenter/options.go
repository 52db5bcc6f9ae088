/*
 * options.go, part of gcenter.
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
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/Ladme/gcenter"
	"github.com/Ladme/gcenter/internal/config"
	"github.com/Ladme/gcenter/internal/report"
	"github.com/Ladme/gcenter/traj"
	"github.com/spf13/pflag"
)

// options holds the values of the command line flags.
type options struct {
	configFile   string
	structure    string
	trajectories []string
	index        string
	output       string
	reference    string
	xref         string
	yref         string
	zref         string
	begin        float64
	end          float64
	step         int
	x, y, z      bool
	com          bool
	whole        bool
	guessBonds   bool
	silent       bool
	overwrite    bool
	plot         string
	summary      bool
	printFreq    int
}

func (o *options) bind(flags *pflag.FlagSet) {
	d := config.Default()
	flags.StringVar(&o.configFile, "config", "", "YAML file with the run configuration; flags set explicitly take precedence")
	flags.StringVarP(&o.structure, "structure", "c", "", "input structure file (gro or pdb)")
	flags.StringArrayVarP(&o.trajectories, "trajectory", "f", nil, "input trajectory file (dcd, stf, mdcrd or gro); can be repeated, the trajectories are joined in the given order")
	flags.StringVarP(&o.index, "index", "n", d.Index, "index file with the groups")
	flags.StringVarP(&o.output, "output", "o", "", "output structure or trajectory file")
	flags.StringVarP(&o.reference, "reference", "r", d.Reference, "group to center; protein atoms are autodetected if the default group does not exist")
	flags.StringVar(&o.xref, "xref", "", "group to center along the x axis")
	flags.StringVar(&o.yref, "yref", "", "group to center along the y axis")
	flags.StringVar(&o.zref, "zref", "", "group to center along the z axis")
	flags.Float64VarP(&o.begin, "begin", "b", d.Begin, "time of the first frame to read, in ps")
	flags.Float64VarP(&o.end, "end", "e", d.End, "time of the last frame to read, in ps")
	flags.IntVarP(&o.step, "step", "s", d.Step, "write every <STEP>th frame; only with a single trajectory")
	flags.BoolVarP(&o.x, "xdimension", "x", false, "center along the x axis")
	flags.BoolVarP(&o.y, "ydimension", "y", false, "center along the y axis")
	flags.BoolVarP(&o.z, "zdimension", "z", false, "center along the z axis")
	flags.BoolVar(&o.com, "com", d.COM, "use the center of mass instead of the center of geometry")
	flags.BoolVar(&o.whole, "whole", d.Whole, "make molecules whole instead of wrapping atoms into the box")
	flags.BoolVar(&o.guessBonds, "guess-bonds", d.GuessBonds, "guess bonds from distances for --whole")
	flags.BoolVar(&o.silent, "silent", d.Silent, "do not print anything to standard output")
	flags.BoolVar(&o.overwrite, "overwrite", d.Overwrite, "do not back up the output file if it exists")
	flags.StringVar(&o.plot, "plot", d.Plot, "image file where the translations applied to each frame are plotted")
	flags.BoolVar(&o.summary, "summary", d.Summary, "print statistics of the translations applied")
	flags.IntVar(&o.printFreq, "print-freq", d.PrintFreq, "print the progress every <PRINT_FREQ> frames")
}

// runConfig returns the run configuration: the config file, or the defaults,
// with every flag set on the command line on top.
func (o *options) runConfig(flags *pflag.FlagSet) (*config.Config, error) {
	cfg := config.Default()
	if o.configFile != "" {
		var err error
		if cfg, err = config.Load(o.configFile); err != nil {
			return nil, err
		}
	}
	set := map[string]func(){
		"structure":   func() { cfg.Structure = o.structure },
		"trajectory":  func() { cfg.Trajectories = o.trajectories },
		"index":       func() { cfg.Index = o.index },
		"output":      func() { cfg.Output = o.output },
		"reference":   func() { cfg.Reference = o.reference },
		"xref":        func() { cfg.XRef = o.xref },
		"yref":        func() { cfg.YRef = o.yref },
		"zref":        func() { cfg.ZRef = o.zref },
		"begin":       func() { cfg.Begin = o.begin },
		"end":         func() { cfg.End = o.end },
		"step":        func() { cfg.Step = o.step },
		"com":         func() { cfg.COM = o.com },
		"whole":       func() { cfg.Whole = o.whole },
		"guess-bonds": func() { cfg.GuessBonds = o.guessBonds },
		"silent":      func() { cfg.Silent = o.silent },
		"overwrite":   func() { cfg.Overwrite = o.overwrite },
		"plot":        func() { cfg.Plot = o.plot },
		"summary":     func() { cfg.Summary = o.summary },
		"print-freq":  func() { cfg.PrintFreq = o.printFreq },
	}
	flags.Visit(func(f *pflag.Flag) {
		if s, ok := set[f.Name]; ok {
			s()
		}
	})
	if flags.Changed("xdimension") || flags.Changed("ydimension") || flags.Changed("zdimension") {
		cfg.Axes = gcenter.DimensionFromFlags(o.x, o.y, o.z).String()
	}
	return cfg, nil
}

// flagError reports an invalid value given to a flag.
type flagError struct {
	Values []string
	Flag   string
	Reason string
	Err    error
}

func (e *flagError) Error() string {
	return e.render(func(s string) string { return s }, func(s string) string { return s })
}

func (e *flagError) styled(s styles) string {
	return e.render(func(v string) string { return s.yellow.Render(v) }, func(v string) string { return s.bold.Render(v) })
}

func (e *flagError) render(value, flag func(string) string) string {
	vals := make([]string, len(e.Values))
	for i, v := range e.Values {
		vals[i] = "'" + value(v) + "'"
	}
	noun := "value"
	if len(vals) > 1 {
		noun = "values"
	}
	return fmt.Sprintf("invalid %s %s for '%s': %s", noun, strings.Join(vals, " and "), flag(e.Flag), e.Reason)
}

func (e *flagError) Unwrap() error {
	return e.Err
}

var errUnsupportedExtension = errors.New("unsupported file extension")

const (
	structureFlag  = "--structure <STRUCTURE>"
	trajectoryFlag = "--trajectory [<TRAJECTORIES>...]"
	outputFlag     = "--output <OUTPUT>"
	stepFlag       = "--step <STEP>"
)

func exists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}

func samePath(a, b string) bool {
	if filepath.Clean(a) == filepath.Clean(b) {
		return true
	}
	ia, err := os.Stat(a)
	if err != nil {
		return false
	}
	ib, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ia, ib)
}

// checkInputs looks for problems with the files of a run before
// anything is read.
func checkInputs(cfg *config.Config) error {
	if cfg.Structure == "" {
		return fmt.Errorf("required flag '%s' not set", structureFlag)
	}
	if cfg.Output == "" {
		return fmt.Errorf("required flag '%s' not set", outputFlag)
	}
	if !exists(cfg.Structure) {
		return &flagError{Values: []string{cfg.Structure}, Flag: structureFlag, Reason: "input structure file does not exist", Err: fs.ErrNotExist}
	}
	if !traj.Detect(cfg.Structure).IsStructure() {
		return &flagError{Values: []string{cfg.Structure}, Flag: structureFlag, Reason: "unsupported file extension", Err: errUnsupportedExtension}
	}
	for i, t := range cfg.Trajectories {
		if !exists(t) {
			return &flagError{Values: []string{t}, Flag: trajectoryFlag, Reason: "input trajectory file does not exist", Err: fs.ErrNotExist}
		}
		if !traj.Detect(t).IsTrajectory() {
			return &flagError{Values: []string{t}, Flag: trajectoryFlag, Reason: "unsupported file extension", Err: errUnsupportedExtension}
		}
		for _, prev := range cfg.Trajectories[:i] {
			if samePath(prev, t) {
				return &flagError{Values: []string{prev, t}, Flag: trajectoryFlag, Reason: "paths correspond to the same file"}
			}
		}
	}
	if len(cfg.Trajectories) == 0 {
		if samePath(cfg.Output, cfg.Structure) {
			return &flagError{Values: []string{cfg.Output}, Flag: outputFlag, Reason: "output path matches input path"}
		}
		if !traj.Detect(cfg.Output).IsStructure() {
			return &flagError{Values: []string{cfg.Output}, Flag: outputFlag, Reason: "unsupported file extension", Err: errUnsupportedExtension}
		}
		if cfg.Step != config.DefaultStep || cfg.Begin != 0 || !math.IsInf(cfg.End, 1) {
			return errors.New("time range and step options require an input trajectory")
		}
	} else {
		for _, t := range cfg.Trajectories {
			if samePath(cfg.Output, t) {
				return &flagError{Values: []string{cfg.Output}, Flag: outputFlag, Reason: "output path matches input path"}
			}
		}
		if !traj.Detect(cfg.Output).IsTrajectory() {
			return &flagError{Values: []string{cfg.Output}, Flag: outputFlag, Reason: "unsupported file extension", Err: errUnsupportedExtension}
		}
	}
	if len(cfg.Trajectories) > 1 && cfg.Step != 1 {
		return &flagError{Values: []string{fmt.Sprint(cfg.Step)}, Flag: stepFlag, Reason: "when multiple input trajectories are provided, <STEP> must be 1", Err: gcenter.ErrStepJoinUnsupported}
	}
	if cfg.Plot != "" && !report.IsPlotFile(cfg.Plot) {
		return &flagError{Values: []string{cfg.Plot}, Flag: "--plot <PLOT>", Reason: "unsupported file extension", Err: errUnsupportedExtension}
	}
	return cfg.Check()
}
