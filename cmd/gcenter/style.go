/*
 * style.go, part of gcenter.
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

	"github.com/charmbracelet/lipgloss"
)

// styles render the messages of the program. Colors are only used if the
// writer the styles were made for is a terminal.
type styles struct {
	bold    lipgloss.Style
	blue    lipgloss.Style
	yellow  lipgloss.Style
	green   lipgloss.Style
	note    lipgloss.Style
	warning lipgloss.Style
	err     lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		bold:    r.NewStyle().Bold(true),
		blue:    r.NewStyle().Foreground(lipgloss.Color("12")),
		yellow:  r.NewStyle().Foreground(lipgloss.Color("11")),
		green:   r.NewStyle().Foreground(lipgloss.Color("10")),
		note:    r.NewStyle().Foreground(lipgloss.Color("13")).Bold(true),
		warning: r.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		err:     r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	}
}

func (s styles) printNote(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, "%s %s\n", s.note.Render("note:"), fmt.Sprintf(format, args...))
}

func (s styles) printWarning(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, "%s %s\n", s.warning.Render("warning:"), fmt.Sprintf(format, args...))
}

// printError writes err the way the program reports fatal errors.
// Errors about a single flag value also point to the help.
func (s styles) printError(w io.Writer, err error) {
	var fe *flagError
	if errors.As(err, &fe) {
		fmt.Fprintf(w, "%s %s\n\nFor more information, try '%s'.\n", s.err.Render("error:"), fe.styled(s), s.bold.Render("--help"))
		return
	}
	fmt.Fprintf(w, "%s %s\n", s.err.Render("error:"), err)
}

// highlight renders v in blue unless it is the default value.
func (s styles) highlight(v string, isDefault bool) string {
	if isDefault {
		return v
	}
	return s.blue.Render(v)
}
