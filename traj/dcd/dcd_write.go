/*
 * dcd_write.go, part of gcenter.
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

package dcd

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
	"os"

	"github.com/Ladme/gcenter"
)

// DCDWObj is a Charmm/NAMD binary trajectory file opened for writing.
// Every frame carries a unit cell block. It implements gcenter.FrameSink.
type DCDWObj struct {
	natoms    int32
	writable  bool
	filename  string
	frames    int32
	first     *gcenter.Frame //time and step of the first two frames
	second    *gcenter.Frame
	file      *os.File
	dcd       *bufio.Writer
	dcdFields [][]float32
	endian    binary.ByteOrder
}

// NewWriter creates filename and initializes it for writing frames with
// natoms atoms.
func NewWriter(filename string, natoms int) (*DCDWObj, error) {
	traj := new(DCDWObj)
	traj.natoms = int32(natoms)
	traj.filename = filename
	if err := traj.initWrite(filename); err != nil {
		if traj.file != nil {
			traj.file.Close()
		}
		return nil, errDecorate(err, "NewWriter")
	}
	return traj, nil
}

// Close writes the final header and closes the file.
func (D *DCDWObj) Close() error {
	if !D.writable {
		return nil
	}
	D.writable = false
	if err := D.dcd.Flush(); err != nil {
		D.file.Close()
		return newError(D.filename, "Close", "%s", err)
	}
	if err := D.updateHeader(); err != nil {
		D.file.Close()
		return errDecorate(err, "Close")
	}
	return D.file.Close()
}

// header returns the 20 control integers that follow the magic number.
func (D *DCDWObj) header() [20]int32 {
	var h [20]int32
	istart, nsavc, delta := D.timing()
	h[0] = D.frames
	h[1] = istart
	h[2] = nsavc
	h[3] = istart + nsavc*D.frames //last step
	h[9] = int32(math.Float32bits(delta))
	h[10] = 1  //unit cell in every frame
	h[19] = 24 //charmm version
	return h
}

// timing derives istart, nsavc and delta (in AKMA units) from the time
// and step of the first two frames written.
func (D *DCDWObj) timing() (istart, nsavc int32, delta float32) {
	istart, nsavc = 0, 1
	if D.first == nil {
		return
	}
	known := D.first.HasStep && (D.second == nil || D.second.HasStep)
	if known {
		istart = int32(D.first.Step)
	}
	if D.second == nil {
		if known && D.first.Step > 0 {
			delta = float32(D.first.Time / float64(D.first.Step) / AKMA)
		}
		return
	}
	dstep := int64(D.second.Step) - int64(D.first.Step)
	dt := D.second.Time - D.first.Time
	if known && dstep > 0 {
		nsavc = int32(dstep)
		delta = float32(dt / float64(dstep) / AKMA)
		return
	}
	//no usable steps, we count frames instead.
	if dt > 0 {
		delta = float32(dt / AKMA)
		istart = int32(math.Round(D.first.Time / dt))
	}
	return
}

// initWrite writes the header, with no frames yet.
func (D *DCDWObj) initWrite(name string) error {
	if D.natoms <= 0 {
		return newError(name, "initWrite", "the number of atoms must be positive")
	}
	D.endian = binary.LittleEndian
	var err error
	D.file, err = os.Create(name)
	if err != nil {
		return newError("", "initWrite", "%s", err)
	}
	D.dcd = bufio.NewWriter(D.file)
	if err := D.writeHeader(D.dcd); err != nil {
		return errDecorate(err, "initWrite")
	}
	D.writable = true
	return nil
}

func (D *DCDWObj) writeHeader(w io.Writer) error {
	title := make([]byte, 2*mAXTITLE)
	for j := range title {
		title[j] = ' '
	}
	copy(title, "gcenter DCD trajectory")
	fields := []interface{}{
		int32(84), []byte("CORD"), D.header(), int32(84),
		int32(4 + 2*mAXTITLE), int32(2), title, int32(4 + 2*mAXTITLE),
		int32(4), D.natoms, int32(4),
	}
	for _, v := range fields {
		if err := binary.Write(w, D.endian, v); err != nil {
			return newError(D.filename, "writeHeader", "%s", err)
		}
	}
	return nil
}

// updateHeader rewrites the header with the current number of frames and
// timing. DCD requires the number of frames at the beginning.
func (D *DCDWObj) updateHeader() error {
	if _, err := D.file.Seek(0, io.SeekStart); err != nil {
		return newError(D.filename, "updateHeader", "%s", err)
	}
	if err := D.writeHeader(D.file); err != nil {
		return errDecorate(err, "updateHeader")
	}
	if _, err := D.file.Seek(0, io.SeekEnd); err != nil {
		return newError(D.filename, "updateHeader", "%s", err)
	}
	return nil
}

// Write appends f to the trajectory. A frame without a box gets an
// all-zero unit cell.
func (D *DCDWObj) Write(f *gcenter.Frame) error {
	if !D.writable {
		return newError(D.filename, "Write", TrajUnIniWrite)
	}
	if f == nil || f.Coords == nil {
		return newError(D.filename, "Write", "got nil coordinates")
	}
	if int32(f.Coords.NVecs()) != D.natoms {
		return newError(D.filename, "Write", "%d coordinates given, but %d expected", f.Coords.NVecs(), D.natoms)
	}
	if D.dcdFields == nil {
		D.dcdFields = make([][]float32, 3)
		for i := range D.dcdFields {
			D.dcdFields[i] = make([]float32, int(D.natoms))
		}
	}
	for i := 0; i < int(D.natoms); i++ {
		D.dcdFields[0][i] = float32(f.Coords.At(i, 0))
		D.dcdFields[1][i] = float32(f.Coords.At(i, 1))
		D.dcdFields[2][i] = float32(f.Coords.At(i, 2))
	}
	if err := D.wnextRaw(boxToCell(f.Box), D.dcdFields); err != nil {
		return errDecorate(err, "Write")
	}
	switch D.frames {
	case 0:
		D.first = &gcenter.Frame{Time: f.Time, Step: f.Step, HasStep: f.HasStep}
	case 1:
		D.second = &gcenter.Frame{Time: f.Time, Step: f.Step, HasStep: f.HasStep}
	}
	D.frames++
	return nil
}

// boxToCell returns the CHARMM unit cell for b, with the cosines of the angles.
func boxToCell(b *gcenter.Box) [6]float64 {
	if b == nil {
		return [6]float64{}
	}
	a, bl, c, alpha, beta, gamma := b.LengthsAngles()
	cos := func(deg float64) float64 {
		if deg == 90 {
			return 0
		}
		return math.Cos(deg * math.Pi / 180)
	}
	return [6]float64{a, cos(gamma), bl, cos(beta), cos(alpha), c}
}

func (D *DCDWObj) wnextRaw(cell [6]float64, blocks [][]float32) error {
	if len(blocks[0]) != int(D.natoms) || len(blocks[1]) != int(D.natoms) || len(blocks[2]) != int(D.natoms) {
		return newError(D.filename, "wnextRaw", NotEnoughSpace)
	}
	fields := []interface{}{int32(48), cell, int32(48)}
	blocksize := D.natoms * 4 //the size is required in bytes
	for _, b := range blocks {
		fields = append(fields, blocksize, b, blocksize)
	}
	for _, v := range fields {
		if err := binary.Write(D.dcd, D.endian, v); err != nil {
			return newError(D.filename, "wnextRaw", "%s", err)
		}
	}
	return nil
}
