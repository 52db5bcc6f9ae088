/*
 * pipeline_test.go, part of gcenter.
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
	"bytes"
	"errors"
	"log"
	"testing"

	. "github.com/onsi/gomega"
)

var onePartOp = []Operation{{Group: &Group{Name: "first", Indexes: []int{0}}, Dim: XYZ}}

func memInput(name string, src *memSource) Input {
	return Input{Name: name, Open: func() (FrameSource, error) { return src, nil }}
}

func steps(frames []*Frame) []uint64 {
	r := make([]uint64, len(frames))
	for i, f := range frames {
		r[i] = f.Step
	}
	return r
}

func newTestPipeline(Te *testing.T, opts Options) *Pipeline {
	Te.Helper()
	p, err := NewPipeline(onePartOp, opts)
	if err != nil {
		Te.Fatal(err)
	}
	if err := p.Init(trajFrame(Te, 0, 0, 1, 1, 1, 2, 2, 2)); err != nil {
		Te.Fatal(err)
	}
	return p
}

func TestBoundaryDeduplication(Te *testing.T) {
	g := NewWithT(Te)
	seg1 := newMemSource(
		trajFrame(Te, 0, 0, 1, 1, 1, 2, 2, 2),
		trajFrame(Te, 10, 100, 1, 1, 1, 2, 2, 2),
		trajFrame(Te, 20, 200, 1, 1, 1, 3, 3, 3),
	)
	seg2 := newMemSource(
		trajFrame(Te, 20, 200, 1, 1, 1, 9, 9, 9),
		trajFrame(Te, 30, 300, 1, 1, 1, 2, 2, 2),
	)
	p := newTestPipeline(Te, DefaultOptions())
	sink := &memSink{}
	err := p.Run([]Input{memInput("seg1", seg1), memInput("seg2", seg2)}, sink)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(steps(sink.frames)).To(Equal([]uint64{0, 100, 200, 300}))
	// the frame at step 200 comes from the first segment: particle 1 is 2 A from particle 0
	g.Expect(sink.frames[2].Coords.At(1, 0) - sink.frames[2].Coords.At(0, 0)).To(BeNumerically("~", 2, 1e-9))
	g.Expect(p.State()).To(Equal(Completed))
	g.Expect(p.Written()).To(Equal(4))
	g.Expect(seg1.closed && seg2.closed).To(BeTrue())
}

func TestNoStepNoDeduplication(Te *testing.T) {
	g := NewWithT(Te)
	unnumbered := func(t float64, x float64) *Frame {
		f := trajFrame(Te, t, 0, 1, 1, 1, x, x, x)
		f.HasStep = false
		return f
	}
	seg1 := newMemSource(unnumbered(0, 2), unnumbered(10, 3))
	seg2 := newMemSource(unnumbered(0, 4), unnumbered(10, 5))
	p := newTestPipeline(Te, DefaultOptions())
	sink := &memSink{}
	err := p.Run([]Input{memInput("seg1", seg1), memInput("seg2", seg2)}, sink)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(sink.frames).To(HaveLen(4))
	// the first frame of seg2 is kept: particle 1 is 3 A from particle 0
	g.Expect(sink.frames[2].Coords.At(1, 0) - sink.frames[2].Coords.At(0, 0)).To(BeNumerically("~", 3, 1e-9))

	// a known step after a frame without one is not compared either
	numbered := trajFrame(Te, 0, 0, 1, 1, 1, 6, 6, 6)
	p = newTestPipeline(Te, DefaultOptions())
	sink = &memSink{}
	err = p.Run([]Input{memInput("seg1", newMemSource(unnumbered(0, 2))), memInput("seg2", newMemSource(numbered))}, sink)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(sink.frames).To(HaveLen(2))
}

func TestPipelineCentersEveryFrame(Te *testing.T) {
	g := NewWithT(Te)
	src := newMemSource(
		trajFrame(Te, 0, 0, 1, 1, 1, 2, 2, 2),
		trajFrame(Te, 1, 1, 9, 9, 9, 2, 2, 2),
	)
	p := newTestPipeline(Te, DefaultOptions())
	sink := &memSink{}
	g.Expect(p.Run([]Input{memInput("traj", src)}, sink)).To(Succeed())
	for _, f := range sink.frames {
		g.Expect(f.Coords.Vec(0)[0]).To(BeNumerically("~", 5, 1e-9))
		g.Expect(f.Coords.Vec(0)[2]).To(BeNumerically("~", 5, 1e-9))
	}
	g.Expect(sink.frames[1].Coords.Vec(1)[0]).To(BeNumerically("~", 8, 1e-9))
}

func TestRangeAndStride(Te *testing.T) {
	g := NewWithT(Te)
	var frames []*Frame
	for i := 0; i < 10; i++ {
		frames = append(frames, trajFrame(Te, float64(i)*10, uint64(i), 1, 1, 1, 2, 2, 2))
	}
	opts := DefaultOptions()
	opts.Start = 20
	opts.End = 70
	opts.Step = 2
	p := newTestPipeline(Te, opts)
	sink := &memSink{}
	g.Expect(p.Run([]Input{memInput("traj", newMemSource(frames...))}, sink)).To(Succeed())
	g.Expect(steps(sink.frames)).To(Equal([]uint64{2, 4, 6}))
}

func TestStartNotFound(Te *testing.T) {
	g := NewWithT(Te)
	early := newMemSource(trajFrame(Te, 0, 0, 1, 1, 1, 2, 2, 2), trajFrame(Te, 10, 1, 1, 1, 1, 2, 2, 2))
	late := newMemSource(trajFrame(Te, 100, 10, 1, 1, 1, 2, 2, 2), trajFrame(Te, 110, 11, 1, 1, 1, 2, 2, 2))
	opts := DefaultOptions()
	opts.Start = 50
	var buf bytes.Buffer
	opts.Log = log.New(&buf, "", 0)
	p := newTestPipeline(Te, opts)
	sink := &memSink{}
	g.Expect(p.Run([]Input{memInput("early", early), memInput("late", late)}, sink)).To(Succeed())
	g.Expect(steps(sink.frames)).To(Equal([]uint64{10, 11}))
	g.Expect(buf.String()).To(ContainSubstring("early"))

	early = newMemSource(trajFrame(Te, 0, 0, 1, 1, 1, 2, 2, 2))
	p = newTestPipeline(Te, opts)
	err := p.Run([]Input{memInput("early", early)}, &memSink{})
	g.Expect(errors.Is(err, ErrStartNotFound)).To(BeTrue())
	g.Expect(p.State()).To(Equal(Failed))
	g.Expect(p.FailedAt()).NotTo(BeNil())
	g.Expect(p.FailedAt().File).To(Equal("early"))
}

func TestStepJoinUnsupported(Te *testing.T) {
	g := NewWithT(Te)
	opts := DefaultOptions()
	opts.Step = 3
	p := newTestPipeline(Te, opts)
	opened := false
	in := Input{Name: "a", Open: func() (FrameSource, error) {
		opened = true
		return newMemSource(), nil
	}}
	err := p.Run([]Input{in, in}, &memSink{})
	g.Expect(err).To(MatchError(ErrStepJoinUnsupported))
	g.Expect(opened).To(BeFalse())
	g.Expect(p.State()).To(Equal(Failed))
}

func TestInvalidFrameBoxIsWritten(Te *testing.T) {
	g := NewWithT(Te)
	bad := trajFrame(Te, 1, 1, 1, 1, 1, 2, 2, 2)
	bad.Box = NewOrthoBox(10, 0, 10)
	src := newMemSource(trajFrame(Te, 0, 0, 1, 1, 1, 2, 2, 2), bad)
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Log = log.New(&buf, "", 0)
	p := newTestPipeline(Te, opts)
	sink := &memSink{}
	g.Expect(p.Run([]Input{memInput("traj", src)}, sink)).To(Succeed())
	g.Expect(sink.frames).To(HaveLen(2))
	g.Expect(sink.frames[1].Coords.Vec(0)).To(Equal([3]float64{1, 1, 1}))
	g.Expect(buf.String()).To(ContainSubstring(ErrBoxNotValid.Error()))
}

type failingSink struct{ err error }

func (f failingSink) Write(*Frame) error { return f.err }

func (f failingSink) Close() error { return nil }

func TestFrameErrorKeepsMessage(Te *testing.T) {
	g := NewWithT(Te)
	boom := errors.New("disk full")
	p := newTestPipeline(Te, DefaultOptions())
	src := newMemSource(trajFrame(Te, 0, 7, 1, 1, 1, 2, 2, 2))
	err := p.Run([]Input{memInput("traj", src)}, failingSink{boom})
	g.Expect(err).To(MatchError(boom))
	g.Expect(err.Error()).To(Equal("disk full"))
	var fe *FrameError
	g.Expect(errors.As(err, &fe)).To(BeTrue())
	g.Expect(fe.Step).To(Equal(uint64(7)))
	g.Expect(p.State()).To(Equal(Failed))
	g.Expect(src.closed).To(BeTrue())
}

func TestCenterStructure(Te *testing.T) {
	g := NewWithT(Te)
	p, err := NewPipeline(onePartOp, DefaultOptions())
	g.Expect(err).NotTo(HaveOccurred())
	f := trajFrame(Te, 0, 0, 1, 2, 3, 2, 2, 2)
	sink := &memSink{}
	g.Expect(p.CenterStructure(f, sink)).To(Succeed())
	g.Expect(sink.frames).To(HaveLen(1))
	g.Expect(sink.frames[0].Coords.Vec(0)[1]).To(BeNumerically("~", 5, 1e-9))
	g.Expect(p.State()).To(Equal(Completed))

	p, _ = NewPipeline(onePartOp, DefaultOptions())
	f.Box = BoxFromLengthsAngles(10, 10, 10, 90, 90, 60)
	err = p.CenterStructure(f, &memSink{})
	g.Expect(err).To(MatchError(ErrBoxNotOrthogonal))
	g.Expect(p.State()).To(Equal(Failed))
}

// A reference that resolves to nothing stops the run before anything is written.
func TestEmptyGroupWritesNothing(Te *testing.T) {
	g := NewWithT(Te)
	sink := &memSink{}
	ops, err := Compose(References{Reference: "empty"}, XYZ, mapResolver{"empty": {}}, nil)
	if err == nil {
		p, perr := NewPipeline(ops, DefaultOptions())
		g.Expect(perr).NotTo(HaveOccurred())
		p.CenterStructure(trajFrame(Te, 0, 0, 1, 1, 1), sink)
	}
	g.Expect(err).To(MatchError(ErrEmptyReference))
	g.Expect(sink.frames).To(BeEmpty())
}

type recorder struct {
	files   []string
	written int
	done    bool
	err     error
}

func (r *recorder) FileStarted(name string) { r.files = append(r.files, name) }

func (r *recorder) FrameWritten(*Frame, [3]float64) { r.written++ }

func (r *recorder) Finished(err error) {
	r.done = true
	r.err = err
}

func TestReporter(Te *testing.T) {
	g := NewWithT(Te)
	rec := &recorder{}
	opts := DefaultOptions()
	opts.Reporter = rec
	p := newTestPipeline(Te, opts)
	a := newMemSource(trajFrame(Te, 0, 0, 1, 1, 1, 2, 2, 2))
	b := newMemSource(trajFrame(Te, 1, 1, 1, 1, 1, 2, 2, 2))
	g.Expect(p.Run([]Input{memInput("a", a), memInput("b", b)}, &memSink{})).To(Succeed())
	g.Expect(rec.files).To(Equal([]string{"a", "b"}))
	g.Expect(rec.written).To(Equal(2))
	g.Expect(rec.done).To(BeTrue())
	g.Expect(rec.err).NotTo(HaveOccurred())
}

func TestNewPipelineErrors(Te *testing.T) {
	g := NewWithT(Te)
	_, err := NewPipeline(nil, DefaultOptions())
	g.Expect(err).To(MatchError(ErrNoOperations))
	opts := DefaultOptions()
	opts.Step = 0
	_, err = NewPipeline(onePartOp, opts)
	g.Expect(err).To(MatchError(ErrInvalidStep))
	opts = DefaultOptions()
	opts.Start, opts.End = 10, 5
	_, err = NewPipeline(onePartOp, opts)
	g.Expect(err).To(MatchError(ErrInvalidRange))
}
