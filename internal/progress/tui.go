/*
 * tui.go, part of gcenter.
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

package progress

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Ladme/gcenter"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	yellow = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220"))
	green  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("82"))
	red    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
)

var spinner = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

type fileMsg string

type frameMsg struct {
	frames int
	step   uint64
	time   float64
	shift  [3]float64
}

type doneMsg struct{ err error }

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

type model struct {
	files       []string
	last        frameMsg
	spin        int
	start       time.Time
	elapsed     time.Duration
	done        bool
	err         error
	interrupted bool
}

func newModel() model {
	return model{start: time.Now()}
}

func (m model) Init() tea.Cmd { return tick() }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.interrupted = true
			return m, tea.Quit
		}
	case fileMsg:
		m.files = append(m.files, string(msg))
	case frameMsg:
		m.last = msg
	case doneMsg:
		m.done = true
		m.err = msg.err
		m.elapsed = time.Since(m.start)
		return m, tea.Quit
	case tickMsg:
		m.spin = (m.spin + 1) % len(spinner)
		m.elapsed = time.Since(m.start)
		return m, tick()
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder
	status := yellow.Render(spinner[m.spin] + " CENTERING")
	switch {
	case m.done && m.err != nil:
		status = red.Render("✗ FAILED")
	case m.done:
		status = green.Render("✓ COMPLETED")
	case m.interrupted:
		status = red.Render("✗ INTERRUPTED")
	}
	b.WriteString(status + "\n")
	if len(m.files) > 0 {
		b.WriteString(dim.Render("file    ") + cyan.Render(filepath.Base(m.files[len(m.files)-1])) +
			dim.Render(fmt.Sprintf("  (%d of the run)", len(m.files))) + "\n")
	}
	b.WriteString(dim.Render("frames  ") + fmt.Sprintf("%d", m.last.frames) + "\n")
	b.WriteString(dim.Render("step    ") + fmt.Sprintf("%d", m.last.step) + "\n")
	b.WriteString(dim.Render("time    ") + fmt.Sprintf("%.3f ps", m.last.time) + "\n")
	b.WriteString(dim.Render("shift   ") + fmt.Sprintf("%8.3f %8.3f %8.3f A", m.last.shift[0], m.last.shift[1], m.last.shift[2]) + "\n")
	b.WriteString(dim.Render("elapsed ") + m.elapsed.Round(100*time.Millisecond).String() + "\n")
	if !m.done && !m.interrupted {
		b.WriteString(dim.Render("ctrl+c to abort") + "\n")
	}
	return b.String()
}

// TUI is an interactive progress view. The view starts with the first
// report and ends with Finished. It implements gcenter.Reporter.
type TUI struct {
	out    io.Writer
	freq   int
	frames int
	last   frameMsg
	once   sync.Once
	prog   *tea.Program
	done   chan struct{}

	// OnInterrupt, if not nil, is called when the user aborts the run from the view.
	OnInterrupt func()
}

// NewTUI returns a view drawing on out, updated every freq frames.
func NewTUI(out io.Writer, freq int) *TUI {
	if freq < 1 {
		freq = 1
	}
	return &TUI{out: out, freq: freq, done: make(chan struct{})}
}

func (t *TUI) start() {
	t.once.Do(func() {
		t.prog = tea.NewProgram(newModel(), tea.WithOutput(t.out))
		go func() {
			defer close(t.done)
			final, _ := t.prog.Run()
			if m, ok := final.(model); ok && m.interrupted && t.OnInterrupt != nil {
				t.OnInterrupt()
			}
		}()
	})
}

// FileStarted shows the file being read.
func (t *TUI) FileStarted(name string) {
	t.start()
	t.prog.Send(fileMsg(name))
}

// FrameWritten updates the view every freq frames.
func (t *TUI) FrameWritten(f *gcenter.Frame, shift [3]float64) {
	t.start()
	t.frames++
	t.last = frameMsg{frames: t.frames, step: f.Step, time: f.Time, shift: shift}
	if t.frames == 1 || t.frames%t.freq == 0 {
		t.prog.Send(t.last)
	}
}

// Finished shows the final state and waits for the view to close.
func (t *TUI) Finished(err error) {
	t.start()
	t.prog.Send(t.last)
	t.prog.Send(doneMsg{err})
	<-t.done
}
