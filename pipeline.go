/*
 * pipeline.go, part of gcenter.
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

package gcenter

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math"
)

// State is the state of a Pipeline.
type State int

const (
	Idle State = iota
	Initialized
	Streaming
	Completed
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Initialized:
		return "initialized"
	case Streaming:
		return "streaming"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Options configures a Pipeline. Use DefaultOptions to get the defaults.
type Options struct {
	Start float64 //ps
	End   float64 //ps
	Step  int

	//If not nil, molecules are made whole after centering,
	//and the frame is not wrapped into the box.
	Unwrapper Unwrapper

	//Warnings are written here. nil means they are discarded.
	Log *log.Logger

	Reporter Reporter
}

// DefaultOptions returns options reading every frame of every input.
func DefaultOptions() Options {
	return Options{Start: 0, End: math.Inf(1), Step: 1}
}

// Input is one trajectory to be centered. Open is called once, when the
// pipeline reaches the input.
type Input struct {
	Name string
	Open func() (FrameSource, error)
}

type nopReporter struct{}

func (nopReporter) FileStarted(string) {}

func (nopReporter) FrameWritten(*Frame, [3]float64) {}

func (nopReporter) Finished(error) {}

// Pipeline centers a structure or a sequence of trajectories, frame by frame.
// A Pipeline is used once and is not safe for concurrent use.
type Pipeline struct {
	ops      []Operation
	opts     Options
	log      *log.Logger
	rep      Reporter
	state    State
	natoms   int
	written  int
	lastStep uint64
	haveLast bool
	failedAt *FrameError
}

// NewPipeline returns a pipeline applying ops to every frame.
func NewPipeline(ops []Operation, opts Options) (*Pipeline, error) {
	if len(ops) == 0 {
		return nil, ErrNoOperations
	}
	if opts.Step < 1 {
		return nil, ErrInvalidStep
	}
	if opts.Start > opts.End {
		return nil, ErrInvalidRange
	}
	p := &Pipeline{ops: ops, opts: opts, log: opts.Log, rep: opts.Reporter}
	if p.log == nil {
		p.log = log.New(io.Discard, "", 0)
	}
	if p.rep == nil {
		p.rep = nopReporter{}
	}
	return p, nil
}

// State returns the current state of the pipeline.
func (p *Pipeline) State() State { return p.state }

// Written returns the number of frames written so far.
func (p *Pipeline) Written() int { return p.written }

// FailedAt returns the error that made the pipeline fail while processing
// a frame, or nil.
func (p *Pipeline) FailedAt() *FrameError { return p.failedAt }

func (p *Pipeline) fail(err error) error {
	p.state = Failed
	var fe *FrameError
	if errors.As(err, &fe) {
		p.failedAt = fe
	}
	p.rep.Finished(err)
	return err
}

// Init checks the box of the input structure and that every operation
// refers to particles present in it.
func (p *Pipeline) Init(structure *Frame) error {
	if p.state != Idle {
		return ErrPipelineState
	}
	if err := CheckBox(structure.Box); err != nil {
		return p.fail(err)
	}
	p.natoms = structure.Len()
	for _, op := range p.ops {
		for _, i := range op.Group.Indexes {
			if i < 0 || i >= p.natoms {
				return p.fail(&ReferenceError{Query: op.Group.Name, Err: ErrIndexOutOfRange})
			}
		}
	}
	p.state = Initialized
	return nil
}

// process centers f. With strict, an unusable box is an error. Otherwise
// it is reported as a warning and the frame is left untouched.
func (p *Pipeline) process(f *Frame, strict bool) ([3]float64, error) {
	var shift [3]float64
	if err := CheckBox(f.Box); err != nil {
		if strict {
			return shift, err
		}
		p.log.Printf("frame at %.3f ps (step %d): %s; writing it without centering", f.Time, f.Step, err)
		return shift, nil
	}
	shift, err := CenterFrame(f, p.ops)
	if err != nil {
		return shift, err
	}
	if p.opts.Unwrapper != nil {
		if err := p.opts.Unwrapper.MakeWhole(f); err != nil {
			return shift, err
		}
	} else {
		WrapFrame(f)
	}
	return shift, nil
}

// CenterStructure centers a single frame and writes it to sink.
// If the pipeline has not been initialized, f is used for that.
func (p *Pipeline) CenterStructure(f *Frame, sink FrameSink) error {
	if p.state == Idle {
		if err := p.Init(f); err != nil {
			return err
		}
	}
	if p.state != Initialized {
		return ErrPipelineState
	}
	p.state = Streaming
	shift, err := p.process(f, true)
	if err != nil {
		return p.fail(err)
	}
	if err := sink.Write(f); err != nil {
		return p.fail(err)
	}
	p.written++
	p.rep.FrameWritten(f, shift)
	p.state = Completed
	p.rep.Finished(nil)
	return nil
}

// Run centers every frame of the inputs, in order, and writes them to sink.
// The first frame of an input is skipped if it has the same step as the
// last frame written. Frames without a step counter are never skipped.
func (p *Pipeline) Run(inputs []Input, sink FrameSink) error {
	if p.state != Initialized {
		return ErrPipelineState
	}
	if len(inputs) == 0 {
		return p.fail(ErrNoInput)
	}
	if len(inputs) > 1 && p.opts.Step > 1 {
		return p.fail(ErrStepJoinUnsupported)
	}
	p.state = Streaming
	for k, in := range inputs {
		if err := p.runInput(in, sink, k == len(inputs)-1); err != nil {
			return p.fail(err)
		}
	}
	p.state = Completed
	p.rep.Finished(nil)
	return nil
}

func (p *Pipeline) runInput(in Input, sink FrameSink, last bool) error {
	src, err := in.Open()
	if err != nil {
		return &FrameError{File: in.Name, Frame: -1, Wrapped: err}
	}
	defer src.Close()
	if src.Len() != p.natoms {
		return &FrameError{File: in.Name, Frame: -1,
			Wrapped: fmt.Errorf("%s: %w (%d vs %d)", in.Name, ErrParticleMismatch, src.Len(), p.natoms)}
	}
	if !rangeIsDefault(p.opts.Start, p.opts.End) {
		src = NewRangeSource(src, p.opts.Start, p.opts.End)
	}
	src = NewStrideSource(src, p.opts.Step)
	p.rep.FileStarted(in.Name)
	f := NewFrame(p.natoms)
	for i, first := 0, true; ; i++ {
		err := src.Next(f)
		if IsLastFrame(err) {
			return nil
		}
		if errors.Is(err, ErrStartNotFound) && !last {
			p.log.Printf("%s: start time %.3f ps not reached; skipping the file", in.Name, p.opts.Start)
			return nil
		}
		if err != nil {
			return &FrameError{File: in.Name, Frame: i, Wrapped: err}
		}
		if first && p.haveLast && f.HasStep && f.Step == p.lastStep {
			first = false
			continue
		}
		first = false
		shift, err := p.process(f, false)
		if err != nil {
			return &FrameError{File: in.Name, Frame: i, Time: f.Time, Step: f.Step, Wrapped: err}
		}
		if err := sink.Write(f); err != nil {
			return &FrameError{File: in.Name, Frame: i, Time: f.Time, Step: f.Step, Wrapped: err}
		}
		p.written++
		p.lastStep = f.Step
		p.haveLast = f.HasStep
		p.rep.FrameWritten(f, shift)
	}
}
