/*
 * dcd.go, part of gcenter.
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
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"os"

	"github.com/Ladme/gcenter"
	v3 "github.com/Ladme/gcenter/v3"
)

const mAXTITLE int32 = 80

// AKMA is the CHARMM time unit, in ps.
const AKMA = 0.04888821

// DCDObj is a Charmm/NAMD binary trajectory file opened for reading.
// It implements gcenter.FrameSource.
type DCDObj struct {
	natoms     int32
	nset       int32
	istart     int32
	nsavc      int32
	delta      float32
	read       int  //frames read so far
	readLast   bool //Have we read the last frame?
	readable   bool //Is it ready to be read?
	filename   string
	charmm     bool //Charmm traj?
	extrablock bool
	fourdim    bool
	fixed      int32 //Fixed atoms (not supported)
	file       *os.File
	dcd        *bufio.Reader
	dcdFields  [][]float32
	cell       [6]float64
	endian     binary.ByteOrder
}

// New opens the DCD file filename for reading.
func New(filename string) (*DCDObj, error) {
	traj := new(DCDObj)
	if err := traj.initRead(filename); err != nil {
		if traj.file != nil {
			traj.file.Close()
		}
		return nil, errDecorate(err, "New")
	}
	traj.dcdFields = make([][]float32, 3)
	for i := range traj.dcdFields {
		traj.dcdFields[i] = make([]float32, int(traj.natoms))
	}
	return traj, nil
}

// Readable returns true if the object is ready to be read from.
// It doesn't guarantee that there is something to read.
func (D *DCDObj) Readable() bool {
	return D.readable
}

// initRead reads the header of the file. It supports big and little
// endianness, charmm or (namd>=2.1) and no fixed atoms.
func (D *DCDObj) initRead(name string) error {
	D.endian = binary.LittleEndian
	D.filename = name
	NB := bytes.NewReader //shortness sake
	wrap := func(err error) error {
		return newError(D.filename, "initRead", "%s", err)
	}
	var err error
	D.file, err = os.Open(name)
	if err != nil {
		return newError("", "initRead", "%s", err)
	}
	D.dcd = bufio.NewReader(D.file)
	var check int32
	if err := binary.Read(D.dcd, D.endian, &check); err != nil {
		return wrap(err)
	}
	//The first thing we should read is an 84.
	//If this fails it means that the file is big endian.
	if check != 84 {
		D.endian = binary.BigEndian
	}
	//Then the magic number "CORD"
	magic := make([]byte, 4)
	if err := binary.Read(D.dcd, D.endian, magic); err != nil {
		return wrap(err)
	}
	if string(magic) != "CORD" {
		return newError(D.filename, "initRead", "wrong magic number")
	}
	//We first read a big chunk for random access.
	buf := make([]byte, 80)
	if err := binary.Read(D.dcd, D.endian, buf); err != nil {
		return wrap(err)
	}
	//X-plor sets this last int to zero, charmm sets it to its version number.
	//if we have a charmm file we get some additional flags.
	if err := binary.Read(NB(buf[76:]), D.endian, &check); err != nil {
		return wrap(err)
	}
	if check == 0 {
		return newError(D.filename, "initRead", "X-plor DCD not supported")
	}
	D.charmm = true
	if err := binary.Read(NB(buf[40:]), D.endian, &check); err != nil {
		return wrap(err)
	}
	D.extrablock = check != 0
	if err := binary.Read(NB(buf[44:]), D.endian, &check); err != nil {
		return wrap(err)
	}
	D.fourdim = check == 1
	for _, v := range []struct {
		off int
		to  interface{}
	}{{0, &D.nset}, {4, &D.istart}, {8, &D.nsavc}, {32, &D.fixed}, {36, &D.delta}} {
		if err := binary.Read(NB(buf[v.off:]), D.endian, v.to); err != nil {
			return wrap(err)
		}
	}
	if D.nsavc <= 0 {
		D.nsavc = 1
	}
	if err := binary.Read(D.dcd, D.endian, &check); err != nil {
		return wrap(err)
	}
	if check != 84 {
		return newError(D.filename, "initRead", WrongFormat)
	}
	var blocksize int32
	if err := binary.Read(D.dcd, D.endian, &blocksize); err != nil {
		return wrap(err)
	}
	//how many units of mAXTITLE does the title have?
	var ntitle int32
	if err := binary.Read(D.dcd, D.endian, &ntitle); err != nil {
		return wrap(err)
	}
	if ntitle < 0 || 4+mAXTITLE*ntitle != blocksize {
		return newError(D.filename, "initRead", "wrong title block")
	}
	title := make([]byte, mAXTITLE*ntitle)
	if err := binary.Read(D.dcd, D.endian, title); err != nil {
		return wrap(err)
	}
	if err := binary.Read(D.dcd, D.endian, &check); err != nil {
		return wrap(err)
	}
	if check != blocksize {
		return newError(D.filename, "initRead", WrongFormat)
	}
	if err := binary.Read(D.dcd, D.endian, &check); err != nil {
		return wrap(err)
	}
	if check != 4 { //one must read a 4 before the natoms
		return newError(D.filename, "initRead", WrongFormat)
	}
	if err := binary.Read(D.dcd, D.endian, &D.natoms); err != nil {
		return wrap(err)
	}
	if err := binary.Read(D.dcd, D.endian, &check); err != nil {
		return wrap(err)
	}
	if check != 4 { //and one more 4
		return newError(D.filename, "initRead", WrongFormat)
	}
	if D.fixed != 0 {
		return newError(D.filename, "initRead", "fixed atoms not supported")
	}
	D.readable = true
	return nil
}

// Len returns the number of atoms per frame.
func (D *DCDObj) Len() int {
	return int(D.natoms)
}

// Close closes the file. D can't be read after this call.
func (D *DCDObj) Close() error {
	if D.file == nil {
		return nil
	}
	D.readable = false
	err := D.file.Close()
	D.file = nil
	return err
}

// Next reads the next frame into f. The coordinates are in A, the time
// (in ps) and the step are obtained from the header of the file, and the box
// from the unit cell block, if present. When the trajectory has been fully
// read, a gcenter.LastFrameError is returned.
func (D *DCDObj) Next(f *gcenter.Frame) error {
	if !D.readable {
		if D.readLast {
			return lastFrameError{D.filename}
		}
		return newError(D.filename, "Next", TrajUnIniRead)
	}
	hascell, err := D.nextRaw(D.dcdFields)
	if errors.Is(err, io.EOF) {
		D.readable = false
		D.readLast = true
		return lastFrameError{D.filename}
	}
	if err != nil {
		return errDecorate(err, "Next")
	}
	if f == nil {
		D.read++
		return nil
	}
	if f.Coords == nil || f.Coords.NVecs() != int(D.natoms) {
		f.Coords = v3.Zeros(int(D.natoms))
	}
	for i := 0; i < int(D.natoms); i++ {
		f.Coords.SetVec(i, [3]float64{float64(D.dcdFields[0][i]), float64(D.dcdFields[1][i]), float64(D.dcdFields[2][i])})
	}
	f.Box = nil
	if hascell {
		f.Box = cellToBox(D.cell)
	}
	step := int64(D.istart) + int64(D.read)*int64(D.nsavc)
	if step < 0 {
		step = 0
	}
	f.Step = uint64(step)
	f.HasStep = true
	f.Time = float64(step) * float64(D.delta) * AKMA
	D.read++
	return nil
}

// cellToBox turns a CHARMM unit cell (A, gamma, B, beta, alpha, C) into a box.
// Newer CHARMM and NAMD versions store the cosines of the angles instead
// of the angles. An all-zero cell means there is no box.
func cellToBox(cell [6]float64) *gcenter.Box {
	a, gamma, b, beta, alpha, c := cell[0], cell[1], cell[2], cell[3], cell[4], cell[5]
	if a == 0 && b == 0 && c == 0 {
		return nil
	}
	if math.Abs(alpha) <= 1 && math.Abs(beta) <= 1 && math.Abs(gamma) <= 1 {
		alpha = 90 - math.Asin(alpha)*180/math.Pi
		beta = 90 - math.Asin(beta)*180/math.Pi
		gamma = 90 - math.Asin(gamma)*180/math.Pi
	}
	return gcenter.BoxFromLengthsAngles(a, b, c, alpha, beta, gamma)
}

// nextRaw reads the next frame into blocks. It returns true if the frame
// had a unit cell block, which is then stored in D.cell.
// io.EOF is returned only if the file ends before the frame starts.
func (D *DCDObj) nextRaw(blocks [][]float32) (bool, error) {
	if len(blocks[0]) != int(D.natoms) || len(blocks[1]) != int(D.natoms) || len(blocks[2]) != int(D.natoms) {
		return false, newError(D.filename, "nextRaw", NotEnoughSpace)
	}
	unexpected := func(err error) error {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return newError(D.filename, "nextRaw", "frame %d: %s", D.read, err)
	}
	hascell := false
	var blocksize int32
	if err := binary.Read(D.dcd, D.endian, &blocksize); err != nil {
		if err == io.EOF {
			return false, err
		}
		return false, unexpected(err)
	}
	//Even when there is an extra block, it is not present in all
	//snapshots for some trajectories, so we must use the block size to see if
	//there is an extra block or if the X block starts immediately
	if D.extrablock && blocksize != D.natoms*4 {
		if blocksize != 48 {
			return false, newError(D.filename, "nextRaw", "frame %d: wrong unit cell block size %d", D.read, blocksize)
		}
		if err := binary.Read(D.dcd, D.endian, D.cell[:]); err != nil {
			return false, unexpected(err)
		}
		if err := D.checkBlock(blocksize); err != nil {
			return false, unexpected(err)
		}
		hascell = true
		if err := binary.Read(D.dcd, D.endian, &blocksize); err != nil {
			return false, unexpected(err)
		}
	}
	for k := 0; k < 3; k++ {
		//the X block size has been read already
		if k > 0 {
			if err := binary.Read(D.dcd, D.endian, &blocksize); err != nil {
				return false, unexpected(err)
			}
		}
		if blocksize != D.natoms*4 {
			return false, newError(D.filename, "nextRaw", "frame %d: %s", D.read, WrongFormat)
		}
		if err := binary.Read(D.dcd, D.endian, blocks[k]); err != nil {
			return false, unexpected(err)
		}
		if err := D.checkBlock(blocksize); err != nil {
			return false, unexpected(err)
		}
	}
	//we skip the 4-D values if they exist.
	if D.fourdim {
		if err := binary.Read(D.dcd, D.endian, &blocksize); err != nil {
			if err == io.EOF {
				return hascell, nil
			}
			return false, unexpected(err)
		}
		if _, err := D.dcd.Discard(int(blocksize)); err != nil {
			return false, unexpected(err)
		}
		if err := D.checkBlock(blocksize); err != nil {
			return false, unexpected(err)
		}
	}
	return hascell, nil
}

// checkBlock reads the size that closes a block and compares it with the
// size that opened it.
func (D *DCDObj) checkBlock(blocksize int32) error {
	var check int32
	if err := binary.Read(D.dcd, D.endian, &check); err != nil {
		return err
	}
	if check != blocksize {
		return errors.New("failed security check")
	}
	return nil
}

// Frames returns the number of frames declared in the header. Some programs
// don't fill it, so it can be 0.
func (D *DCDObj) Frames() int {
	return int(D.nset)
}
