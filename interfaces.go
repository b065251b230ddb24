/*
 * interfaces.go, part of goEspresso.
 *
 * Copyright 2023 Raul Mera <rmera{at}usachDOTcl>
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
 * goEspresso is currently developed at the Universidad de Santiago de Chile
 * (USACH)
 *
 */
/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

package espresso

import v3 "github.com/rmera/goespresso/v3"

//Traj is an interface for any trajectory object, including a Molecule object.
//The geometries of a pw.x relax/md run, once parsed, are read through it too.
type Traj interface {

	//Is the trajectory ready to be read?
	Readable() bool

	//reads the next frame and returns it as a v3.Matrix if keep==true, or discards it if false.
	//it can also fill the (optional) box with the box vectors, if present in the frame.
	Next(output *v3.Matrix, box ...[]float64) error

	//Returns the number of atoms per frame
	Len() int
}

//Atomer is the basic interface for a topology.
type Atomer interface {

	//Atom returns the Atom corresponding to the index i
	//of the Atom slice in the Topology. Should panic if
	//out of range.
	Atom(i int) *Atom

	Len() int
}

//AtomMultiCharger is an Atomer that also gives a
//total charge and a spin multiplicity.
type AtomMultiCharger interface {
	Atomer

	//Charge gets the total charge of the topology
	Charge() int

	//Multi returns the multiplicity of the topology
	Multi() int
}

//Masser can return a slice with the masses of each atom in the reference.
type Masser interface {

	//Returns a column vector with the masses of all atoms
	Masses() ([]float64, error)
}

//Errors

//Error is the interface for errors that all packages in this library implement. The Decorate
//method allows to add and retrieve info from the error, without changing its type or wrapping
//it around something else.
type Error interface {
	Error() string
	Decorate(string) []string //Decorate allows you to add information when you pass the error up. Each call also returns the current decoration slice. If passed an empty string, it only returns the slice, without adding anything. The slice should contain a list of the functions in the calling stack, plus, for each function, any relevant information, in the format "FunctionName: Extra info".
}

//TrajError is the interface for errors in trajectories.
type TrajError interface {
	Error
	Critical() bool
	FileName() string
	Format() string
}

//LastFrameError has a useless function to distinguish the harmless errors (i.e. last frame)
//so they can be filtered in a typeswitch that looks for this interface.
type LastFrameError interface {
	TrajError
	NormalLastFrameTermination() //does nothing, just to separate this interface from other TrajError's
}
