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

/*Package gcenter centers groups of particles in rectangular periodic
simulation boxes, for single structures and for trajectories made of
one or more files.

	**gcenter Capabilities**

    Computes the center of a group that crosses the periodic boundary, using
	the circular mean of Bai and Breen. Molecules broken by the boundary, or
	groups made of several fragments, get a meaningful center.

    Centers along any combination of the x, y and z axes, optionally
	weighting by mass, with a different reference group for each axis.
	Axes sharing the same group are centered in one operation.

    Centers trajectories frame by frame. Several trajectory files can be
	joined, in which case the first frame of a file is dropped if it
	has the same simulation step as the last frame of the previous one.
	Frames whose format has no step counter are always kept. Frames can be filtered
	by simulation time and by stride.

    Can make molecules whole after centering (see the chemgraph package).

The package does not read any files. Frames come from a FrameSource,
groups from a SelectionResolver and centered frames go to a FrameSink.
The chem and traj packages provide the file formats used by the
gcenter command.
*/
package gcenter
