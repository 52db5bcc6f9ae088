/*
 * config.go, part of gcenter.
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

// Package config holds the run configuration of gcenter, which can be
// read from and written to YAML files.
package config

import (
	"fmt"
	"math"
	"os"

	"github.com/Ladme/gcenter"
	"gopkg.in/yaml.v3"
)

const (
	DefaultIndex     = "index.ndx"
	DefaultStep      = 1
	DefaultPrintFreq = 100
)

// Config is the full set of parameters of a run. Every command line flag
// has a key here. Use Check on a Config not obtained from Load.
type Config struct {
	// Structure is the input structure file (gro or pdb).
	Structure string `yaml:"structure"`

	// Trajectories are the input trajectories, in the order they are joined.
	Trajectories []string `yaml:"trajectories"`

	// Index is the ndx file with the groups. It is only required to
	// exist if it is not the default one.
	Index string `yaml:"index"`

	// Output is the output structure or trajectory file.
	Output string `yaml:"output"`

	// Reference is the group centered along every axis without its own reference.
	Reference string `yaml:"reference"`
	XRef      string `yaml:"xref"`
	YRef      string `yaml:"yref"`
	ZRef      string `yaml:"zref"`

	// Begin and End limit the frames read, in ps.
	Begin float64 `yaml:"begin"`
	End   float64 `yaml:"end"`

	// Step writes every Step-th frame.
	Step int `yaml:"step"`

	// Axes are the axes to center along, e.g. "xy". Empty means all of them.
	Axes string `yaml:"axes"`

	// COM uses the center of mass instead of the center of geometry.
	COM bool `yaml:"com"`

	// Whole makes molecules whole instead of wrapping atoms into the box.
	Whole bool `yaml:"whole"`

	// GuessBonds guesses the bonds from distances, if the structure has none.
	GuessBonds bool `yaml:"guess_bonds"`

	Silent    bool `yaml:"silent"`
	Overwrite bool `yaml:"overwrite"`

	// Plot is an image file (png or svg) where the translations applied
	// to each frame are plotted. Empty means no plot.
	Plot string `yaml:"plot"`

	// Summary prints statistics and a terminal chart of the translations.
	Summary bool `yaml:"summary"`

	// PrintFreq is how often, in frames, the progress is printed.
	PrintFreq int `yaml:"print_freq"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Index:     DefaultIndex,
		Reference: gcenter.DefaultReference,
		Begin:     0,
		End:       math.Inf(1),
		Step:      DefaultStep,
		PrintFreq: DefaultPrintFreq,
	}
}

// Load reads a configuration from path. Keys not in the file keep their
// default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if err := cfg.Check(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path.
func Save(path string, cfg *Config) error {
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Marshal returns the YAML representation of c.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Dimension returns the axes to center along.
func (c *Config) Dimension() (gcenter.Dimension, error) {
	if c.Axes == "" {
		return gcenter.XYZ, nil
	}
	return gcenter.ParseDimension(c.Axes)
}

// References returns the reference groups of the run.
func (c *Config) References() gcenter.References {
	return gcenter.References{Reference: c.Reference, X: c.XRef, Y: c.YRef, Z: c.ZRef}
}

// Check returns an error if the values in c can't be used for a run.
// It does not look at the files.
func (c *Config) Check() error {
	if c.Step < 1 {
		return gcenter.ErrInvalidStep
	}
	if math.IsNaN(c.Begin) || math.IsNaN(c.End) || c.Begin > c.End {
		return gcenter.ErrInvalidRange
	}
	if c.PrintFreq < 1 {
		return fmt.Errorf("print frequency must be a positive integer, not %d", c.PrintFreq)
	}
	if c.Reference == "" {
		return gcenter.ErrEmptyReference
	}
	if _, err := c.Dimension(); err != nil {
		return err
	}
	if len(c.Trajectories) > 1 && c.Step != 1 {
		return gcenter.ErrStepJoinUnsupported
	}
	return nil
}
