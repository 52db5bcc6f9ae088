/*
 * backup.go, part of gcenter.
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

// Package backup moves existing files out of the way before they are
// overwritten, the way Gromacs does.
package backup

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// MaxBackups is the largest backup number tried before giving up.
const MaxBackups = 99

// ErrTooManyBackups is returned when every backup name up to MaxBackups is taken.
var ErrTooManyBackups = errors.New("too many backups")

// Name returns the n-th backup name of path: "#name.n#", in the same directory.
func Name(path string, n int) string {
	dir, file := filepath.Split(path)
	return filepath.Join(dir, fmt.Sprintf("#%s.%d#", file, n))
}

// Backup renames path to the first free backup name and returns that name.
// If path does not exist, nothing is done and an empty name is returned.
func Backup(path string) (string, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return "", nil
	} else if err != nil {
		return "", err
	}
	for n := 1; n <= MaxBackups; n++ {
		name := Name(path, n)
		if _, err := os.Stat(name); err == nil {
			continue
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
		if err := os.Rename(path, name); err != nil {
			return "", err
		}
		return name, nil
	}
	return "", fmt.Errorf("%s: %w", path, ErrTooManyBackups)
}
