/*
 * stf.go, part of gcenter.
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

package stf

import (
	"bufio"
	"compress/flate"
	"compress/gzip"
	"compress/lzw"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/Ladme/gcenter"
	v3 "github.com/Ladme/gcenter/v3"
	"github.com/klauspost/compress/zstd"
)

const (
	lzwLitwidth int = 8
	defaultPrec int = 2
)

// StfW is an stf trajectory open for writing. It implements gcenter.FrameSink.
type StfW struct {
	f         *os.File
	h         io.WriteCloser
	w         *bufio.Writer
	natoms    int
	filename  string
	writeable bool
	prec      int
}

// Close flushes the compressed stream and closes the file.
func (S *StfW) Close() error {
	if S == nil || !S.writeable {
		return nil
	}
	S.writeable = false
	if err := S.w.Flush(); err != nil {
		S.f.Close()
		return newError(S.filename, "Close", "%s", err)
	}
	if err := S.h.Close(); err != nil {
		S.f.Close()
		return newError(S.filename, "Close", "%s", err)
	}
	return S.f.Close()
}

// Len returns the number of atoms per frame.
func (S *StfW) Len() int {
	return S.natoms
}

// Write appends the frame f, with its box, time and step.
func (S *StfW) Write(f *gcenter.Frame) error {
	if !S.writeable {
		return newError(S.filename, "Write", TrajUnIniWrite)
	}
	if f == nil || f.Coords == nil {
		return newError(S.filename, "Write", NilCoordinates)
	}
	v := f.Coords.NVecs()
	if v != S.natoms {
		return newError(S.filename, "Write", "%d coordinates given, but %d expected", v, S.natoms)
	}
	var temp [3]int
	for i := 0; i < v; i++ {
		if _, err := S.w.WriteString(coordsEncode(f.Coords.Vec(i), temp, S.prec)); err != nil {
			return newError(S.filename, "Write", "%s", err)
		}
	}
	if _, err := S.w.WriteString(terminator(f)); err != nil {
		return newError(S.filename, "Write", "%s", err)
	}
	return nil
}

// terminator returns the line that closes the frame f.
func terminator(f *gcenter.Frame) string {
	var b strings.Builder
	b.WriteString("*")
	if f.Box != nil {
		for _, vec := range f.Box.V {
			fmt.Fprintf(&b, " %.4f %.4f %.4f", vec[0], vec[1], vec[2])
		}
	}
	fmt.Fprintf(&b, " t=%.5f", f.Time)
	if f.HasStep {
		fmt.Fprintf(&b, " step=%d", f.Step)
	}
	b.WriteString("\n")
	return b.String()
}

// NewWriter creates the stf file name for frames of natoms atoms. The
// header pairs are written, sorted by key. If given, compressionLevel is
// used by the deflate-based compressors.
func NewWriter(name string, natoms int, header map[string]string, compressionLevel ...int) (*StfW, error) {
	var level int = flate.BestCompression
	if len(compressionLevel) > 0 {
		level = compressionLevel[0]
	}
	S := new(StfW)
	S.filename = name
	S.natoms = natoms
	S.prec = defaultPrec
	if natoms <= 0 {
		return nil, newError(name, "NewWriter", "the number of atoms must be positive")
	}
	h := map[string]string{"prec": strconv.Itoa(defaultPrec)}
	for k, v := range header {
		h[k] = v
	}
	if p := h["prec"]; p != strconv.Itoa(defaultPrec) {
		prec, err := strconv.Atoi(p)
		if err == nil && prec > 0 {
			S.prec = prec
		} else {
			log.Printf("Invalid precision for trajectory %s. Will use the default", S.filename)
			h["prec"] = strconv.Itoa(defaultPrec)
		}
	}
	var err error
	S.f, err = os.Create(name)
	if err != nil {
		return nil, newError("", "NewWriter", "%s", err)
	}
	zwriter := func(a io.Writer) (io.WriteCloser, error) { return flate.NewWriter(a, level) }
	gzipwriter := func(a io.Writer) (io.WriteCloser, error) { return gzip.NewWriterLevel(a, level) }
	zstdwriter := func(a io.Writer) (io.WriteCloser, error) {
		return zstd.NewWriter(a, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	}
	var AnyNewWriter func(io.Writer) (io.WriteCloser, error)
	switch compression(name) {
	case 'l':
		AnyNewWriter = func(a io.Writer) (io.WriteCloser, error) { return lzw.NewWriter(a, lzw.MSB, lzwLitwidth), nil }
	case 'z':
		AnyNewWriter = gzipwriter
	case 'r':
		AnyNewWriter = zwriter
	default:
		AnyNewWriter = zstdwriter
	}
	S.h, err = AnyNewWriter(S.f)
	if err != nil {
		S.f.Close()
		return nil, newError(S.filename, "NewWriter", "can't set up compression: %s", err)
	}
	S.w = bufio.NewWriter(S.h)
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(S.w, "%s=%s\n", k, h[k])
	}
	fmt.Fprintf(S.w, "** %d\n", S.natoms)
	S.writeable = true
	return S, nil
}

// compression returns the character that selects the compression of the file name.
func compression(name string) byte {
	if name == "" {
		return 's'
	}
	return strings.ToLower(name)[len(name)-1]
}

// StfR is an stf trajectory open for reading. It implements gcenter.FrameSource.
type StfR struct {
	f        *os.File
	lzw      io.ReadCloser
	h        *bufio.Reader
	natoms   int
	filename string
	prec     int
	frame    int
	readable bool
}

// stdql turns a *zstd.Decoder, whose Close returns nothing, into an io.ReadCloser.
type stdql struct {
	closeql func()
	*zstd.Decoder
}

// Close Closes the object. It can not be used after this call
func (s stdql) Close() error {
	s.closeql()
	return nil
}

func coordsEncode(f [3]float64, temp [3]int, prec int) string {
	p := 100.0
	if prec > 0 && prec != 2 {
		p = math.Pow(10.0, float64(prec))
	}
	for i, v := range f {
		temp[i] = int(math.RoundToEven(v * p))
	}
	return fmt.Sprintf("%d %d %d\n", temp[0], temp[1], temp[2])
}

// New opens a STF trajectory for reading, and returns a pointer
// to the handle and a map with the metadata in the header.
func New(name string) (*StfR, map[string]string, error) {
	S := new(StfR)
	S.natoms = -1 //just so we know if things don't work
	S.prec = defaultPrec
	m := make(map[string]string)
	var err error
	S.filename = name
	S.f, err = os.Open(S.filename)
	if err != nil {
		return nil, nil, newError("", "New", "%s", err)
	}
	zreader := func(a io.Reader) (io.ReadCloser, error) { return flate.NewReader(a), nil }
	zstdreader := func(a io.Reader) (io.ReadCloser, error) {
		r, err := zstd.NewReader(a)
		if err != nil {
			return nil, err
		}
		return stdql{r.Close, r}, nil
	}
	gzreader := func(a io.Reader) (io.ReadCloser, error) { return gzip.NewReader(a) }
	var AnyNewReader func(io.Reader) (io.ReadCloser, error)
	switch compression(name) {
	case 'l':
		AnyNewReader = func(a io.Reader) (io.ReadCloser, error) { return lzw.NewReader(a, lzw.MSB, lzwLitwidth), nil }
	case 'z':
		AnyNewReader = gzreader
	case 'r':
		AnyNewReader = zreader
	default:
		AnyNewReader = zstdreader
	}
	fail := func(format string, args ...interface{}) (*StfR, map[string]string, error) {
		if S.lzw != nil {
			S.lzw.Close()
		}
		S.f.Close()
		return nil, nil, newError(S.filename, "New", format, args...)
	}
	S.lzw, err = AnyNewReader(bufio.NewReader(S.f))
	if err != nil {
		return fail("can't read header: %s", err)
	}
	S.h = bufio.NewReader(S.lzw)
	for {
		str, err := S.h.ReadString('\n')
		if err != nil {
			return fail("can't read header: %s", err)
		}
		str = strings.TrimSuffix(str, "\n")
		if strings.HasPrefix(str, "**") {
			nat := strings.Fields(str)
			if len(nat) < 2 {
				return fail("can't read atom number from '%s'", str)
			}
			S.natoms, err = strconv.Atoi(nat[1])
			if err != nil {
				return fail("can't read atom number from '%s': %s", nat[1], err)
			}
			break
		}
		kv := strings.SplitN(str, "=", 2)
		if len(kv) != 2 {
			return fail("malformed header line '%s'", str)
		}
		m[kv[0]] = kv[1]
	}
	if p, ok := m["prec"]; ok && p != strconv.Itoa(defaultPrec) {
		prec, err := strconv.Atoi(p)
		if err == nil && prec > 0 {
			S.prec = prec
		} else {
			log.Printf("Invalid precision for trajectory %s. Will assume the default", S.filename)
		}
	}
	S.readable = true
	return S, m, nil
}

// Readable returns true if the handle is readable (if it is possible to call Next on it)
func (S *StfR) Readable() bool {
	return S.readable
}

func coordsDecode(str string, temp *[3]float64, prec int) error {
	p := 100.0
	if prec > 0 && prec != 2 {
		p = math.Pow(10.0, float64(prec))
	}
	s := strings.Fields(str)
	if len(s) < 3 {
		return fmt.Errorf("ill formatted coordinates line in stf: too few fields: %s", str)
	}
	if len(s) > 3 {
		return fmt.Errorf("ill formatted coordinates line in stf: too many fields: %s", str)
	}
	for i, v := range s {
		f, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("can't parse coordinate %d (%s): %s", i, v, err)
		}
		temp[i] = float64(f) / p
	}
	return nil
}

// Next reads the coordinates, box, time and step of the next frame into f.
// A nil f reads the frame without keeping it. At the end of the trajectory,
// a gcenter.LastFrameError is returned.
func (S *StfR) Next(f *gcenter.Frame) error {
	if !S.readable {
		return lastFrameError{S.filename}
	}
	var temp [3]float64
	if f != nil && (f.Coords == nil || f.Coords.NVecs() != S.natoms) {
		f.Coords = v3.Zeros(S.natoms)
	}
	for i := 0; i < S.natoms; i++ {
		b, err := S.h.ReadString('\n')
		if err != nil {
			// EOF should only happen when reading the first atom
			if err == io.EOF && i == 0 && b == "" {
				S.Close()
				return lastFrameError{S.filename}
			}
			return newError(S.filename, "Next", "frame %d, atom %d: %s", S.frame, i, err)
		}
		if strings.HasPrefix(b, "*") {
			return newError(S.filename, "Next", "frame %d: %s", S.frame, WrongAtomNumber)
		}
		if err := coordsDecode(strings.TrimSuffix(b, "\n"), &temp, S.prec); err != nil {
			return newError(S.filename, "Next", "frame %d: %s", S.frame, err)
		}
		if f == nil {
			continue //We ignore this whole frame, reading the content but not saving it.
		}
		f.Coords.SetVec(i, temp)
	}
	s, err := S.h.ReadString('\n')
	if err != nil && !(err == io.EOF && s != "") {
		return newError(S.filename, "Next", "can't read the frame termination mark: %s", err)
	}
	if !strings.HasPrefix(s, "*") {
		return newError(S.filename, "Next", "frame %d: %s", S.frame, WrongAtomNumber)
	}
	S.frame++
	if f == nil {
		return nil
	}
	f.Box, f.Time, f.Step, f.HasStep = parseTerminator(s, S.filename)
	return nil
}

// parseTerminator reads the box, time and step from the line that closes
// a frame. Missing or unreadable information is left at its zero value,
// and logged, in the case of the box.
func parseTerminator(s, filename string) (box *gcenter.Box, t float64, step uint64, hasStep bool) {
	var nums []float64
	boxerr := false
	for _, field := range strings.Fields(strings.TrimPrefix(s, "*")) {
		switch {
		case strings.HasPrefix(field, "t="):
			t, _ = strconv.ParseFloat(strings.TrimPrefix(field, "t="), 64)
		case strings.HasPrefix(field, "step="):
			var err error
			step, err = strconv.ParseUint(strings.TrimPrefix(field, "step="), 10, 64)
			hasStep = err == nil
		default:
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				boxerr = true
				continue
			}
			nums = append(nums, v)
		}
	}
	if len(nums) == 0 && !boxerr {
		return nil, t, step, hasStep
	}
	if len(nums) != 9 || boxerr {
		log.Printf("Trajectory file %s does not contain (correct) box information: %s", filename, strings.TrimSpace(s))
		return nil, t, step, hasStep
	}
	box = new(gcenter.Box)
	for i := 0; i < 3; i++ {
		box.V[i] = [3]float64{nums[3*i], nums[3*i+1], nums[3*i+2]}
	}
	return box, t, step, hasStep
}

// Close closes the object, and marks it as unreadable
func (S *StfR) Close() error {
	if S.f == nil {
		return nil
	}
	S.readable = false
	S.lzw.Close()
	err := S.f.Close()
	S.f = nil
	return err
}

// Len returns the number of atoms in each frame of the trajectory.
func (S *StfR) Len() int {
	return S.natoms
}
