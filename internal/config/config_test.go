/*
 * config_test.go, part of gcenter.
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

package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/Ladme/gcenter"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Reference != "Protein" {
		t.Errorf("expected reference Protein, got %s", cfg.Reference)
	}
	if !math.IsInf(cfg.End, 1) {
		t.Errorf("the default end should be infinite, got %f", cfg.End)
	}
	if err := cfg.Check(); err != nil {
		t.Errorf("the default configuration should be valid: %v", err)
	}
	if d, _ := cfg.Dimension(); d != gcenter.XYZ {
		t.Errorf("expected all axes by default, got %v", d)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	cfg := Default()
	cfg.Structure = "system.gro"
	cfg.Trajectories = []string{"md1.dcd", "md2.dcd"}
	cfg.Output = "centered.dcd"
	cfg.XRef = "Membrane"
	cfg.Axes = "xy"
	cfg.COM = true
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Output != cfg.Output || len(got.Trajectories) != 2 || got.XRef != "Membrane" || !got.COM {
		t.Errorf("unexpected configuration after a round trip: %+v", got)
	}
	if !math.IsInf(got.End, 1) {
		t.Errorf("infinite end lost in the round trip: %f", got.End)
	}
}

func TestLoadPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("structure: conf.pdb\nstep: 5\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Structure != "conf.pdb" || cfg.Step != 5 {
		t.Errorf("values from the file not loaded: %+v", cfg)
	}
	if cfg.Index != DefaultIndex || cfg.PrintFreq != DefaultPrintFreq {
		t.Errorf("missing keys should keep their defaults: %+v", cfg)
	}
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   error
	}{
		{"step", func(c *Config) { c.Step = 0 }, gcenter.ErrInvalidStep},
		{"range", func(c *Config) { c.Begin, c.End = 100, 10 }, gcenter.ErrInvalidRange},
		{"reference", func(c *Config) { c.Reference = "" }, gcenter.ErrEmptyReference},
		{"join", func(c *Config) { c.Trajectories = []string{"a.dcd", "b.dcd"}; c.Step = 2 }, gcenter.ErrStepJoinUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			if err := cfg.Check(); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
	cfg := Default()
	cfg.Axes = "xw"
	if err := cfg.Check(); err == nil {
		t.Error("expected an error for an invalid axis")
	}
	cfg = Default()
	cfg.PrintFreq = 0
	if err := cfg.Check(); err == nil {
		t.Error("expected an error for a zero print frequency")
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
	bad := filepath.Join(dir, "bad.yaml")
	os.WriteFile(bad, []byte("step: [1, 2\n"), 0644)
	if _, err := Load(bad); err == nil {
		t.Error("expected an error for malformed yaml")
	}
	invalid := filepath.Join(dir, "invalid.yaml")
	os.WriteFile(invalid, []byte("step: -3\n"), 0644)
	if _, err := Load(invalid); !errors.Is(err, gcenter.ErrInvalidStep) {
		t.Errorf("expected ErrInvalidStep, got %v", err)
	}
}
