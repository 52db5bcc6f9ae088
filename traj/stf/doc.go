/*
 * doc.go, part of gcenter.
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

/*
Package stf implements the simple trajectory format, a compressed text
trajectory format. stf aims to produce reasonably small files that are very
easy to read and write, so readers and writers can be easily implemented
for other programs.

Format

An STF file has the extension stf, and it is compressed with z-standard (zstd).
The last character of the file name selects the compression: 'l' for lzw,
'z' for gzip, 'r' for raw deflate. Any other ending means zstd.

A STF file may only contain ASCII symbols.

A STF file has a "header" starting in the first line, and ending with a line
that starts with the characters "**" followed by one or more spaces, and the
number of atoms per frame. Each line of the header is a pair key=value.
The precision (an integer greater than 0) is given with the key "prec":

	prec=2

After the header, the file has one line per atom, per frame. Each line
contains 3 integers: the x, y and z cartesian coordinates in A, multiplied by
10 to the power of the precision, and rounded.

Each frame ends with a line starting with the character "*" (no whitespace
before), optionally followed by 9 floating-point numbers: the three vectors
defining the simulation box, in A, one after the other. After the box, the
line may contain the fields "t=" and "step=", with the simulation time of the
frame, in ps, and its simulation step. Frames from sources without a step
counter have no "step=" field:

	* 30.00 0.00 0.00 0.00 30.00 0.00 0.00 0.00 30.00 t=100.000 step=50000

The "**" sequence may only be used as a header termination.
*/
package stf
