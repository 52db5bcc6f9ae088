/*
 * main.go, part of gcenter.
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

// Command gcenter centers a group of atoms in the simulation box, taking
// periodic boundary conditions into account, for a structure or a set of
// joined trajectories.
package main

import (
	"io"
	"os"

	"github.com/Ladme/gcenter/internal/config"
	"github.com/spf13/cobra"
)

const version = "1.1.0"

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	o := new(options)
	root := &cobra.Command{
		Use:   "gcenter -c <STRUCTURE> -o <OUTPUT> [flags]",
		Short: "center any group in a simulation box with periodic boundary conditions",
		Long: `Center your simulation box using the Bai & Breen algorithm.

The reference group is centered in the box along the selected axes, and the
rest of the system is moved with it and wrapped into the box. Works with
orthogonal boxes only. Several trajectories can be given; they are joined
and frames with a repeated step are written only once.`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.runConfig(cmd.Flags())
			if err != nil {
				return err
			}
			if err := checkInputs(cfg); err != nil {
				return err
			}
			return newRunner(cfg, stdout, stderr).run()
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	o.bind(root.Flags())

	defaultsCmd := &cobra.Command{
		Use:   "defaults",
		Short: "print the default run configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := config.Default().Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	root.AddCommand(defaultsCmd)
	return root
}

func main() {
	root := newRootCmd(os.Stdout, os.Stderr)
	if err := root.Execute(); err != nil {
		newStyles(os.Stderr).printError(os.Stderr, err)
		os.Exit(1)
	}
}
