/*
 * molecule.go, part of goEspresso.
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

import (
	"fmt"

	v3 "github.com/rmera/goespresso/v3"
)

/**Note: Some functions here panic instead of returning errors. This is because they are
 * "fundamental" functions. If something goes wrong here, the program is way-most likely
 * wrong and should crash. Most panics are related to calling a function on a nil object
 * or trying to access out-of-bounds fields.**/

//Atom contains the per-atom data read, except for the coordinates, which go
//in a separate matrix.
type Atom struct {
	Name   string //the species label used in the input, often just the symbol
	Symbol string
	Mass   float64
	Tag    int //The index of the species (as in the "type" column of pw.x outputs). Just in case someone wants to keep it.
}

//Copy returns a copy of the Atom object.
func (A *Atom) Copy() *Atom {
	if A == nil {
		panic("Attempted to copy a nil atom")
	}
	Newat := new(Atom)
	Newat.Name = A.Name
	Newat.Symbol = A.Symbol
	Newat.Mass = A.Mass
	Newat.Tag = A.Tag
	return Newat
}

/*****Topology type***/

//Topology contains information about a set of atoms which is not expected to
//change in time, i.e. everything but coordinates.
type Topology struct {
	Atoms    []*Atom
	charge   int
	unpaired int
}

//NewTopology makes a topology from the given atoms, charge and unpaired electrons.
//It returns an error if the atom slice is nil.
func NewTopology(ats []*Atom, charge, unpaired int) (*Topology, error) {
	if ats == nil {
		return nil, CError{"Supplied a nil atom slice", []string{"NewTopology"}}
	}
	top := new(Topology)
	top.Atoms = ats
	top.charge = charge
	top.unpaired = unpaired
	return top, nil
}

/*Topology methods*/

//Charge gets the total charge of the topology
func (T *Topology) Charge() int {
	return T.charge
}

//Unpaired gets the number of unpaired electrons in the topology
func (T *Topology) Unpaired() int {
	return T.unpaired
}

//Multi returns the spin multiplicity of the topology
func (T *Topology) Multi() int {
	return T.unpaired + 1
}

//SetCharge sets the total charge of the topology to i
func (T *Topology) SetCharge(i int) {
	T.charge = i
}

//SetUnpaired sets the number of unpaired electrons in the topology to i
func (T *Topology) SetUnpaired(i int) {
	T.unpaired = i
}

//SetMulti sets the multiplicity of the topology to i
func (T *Topology) SetMulti(i int) {
	T.unpaired = i - 1
}

//Atom returns the Atom corresponding to the index i
//of the Atom slice in the Topology. Panics if
//out of range.
func (T *Topology) Atom(i int) *Atom {
	if i >= T.Len() {
		panic("Topology: Requested Atom out of bounds")
	}
	return T.Atoms[i]
}

//SetAtom sets the (i+1)th Atom of the topology to at.
//Panics if out of range
func (T *Topology) SetAtom(i int, at *Atom) {
	if i >= T.Len() {
		panic("Topology: Tried to set Atom out of bounds")
	}
	T.Atoms[i] = at
}

//Len returns the number of atoms in the topology.
func (T *Topology) Len() int {
	return len(T.Atoms)
}

//CopyAtoms returns a copy of the topology.
func (T *Topology) CopyAtoms() *Topology {
	Top := new(Topology)
	Top.Atoms = make([]*Atom, T.Len())
	for key, val := range T.Atoms {
		Top.Atoms[key] = val.Copy()
	}
	Top.charge = T.charge
	Top.unpaired = T.unpaired
	return Top
}

//Masses returns a slice with the masses of all atoms, or an error if some
//atom lacks a mass.
func (T *Topology) Masses() ([]float64, error) {
	mass := make([]float64, T.Len())
	for i := 0; i < T.Len(); i++ {
		thisatom := T.Atom(i)
		if thisatom.Mass == 0 {
			return nil, CError{fmt.Sprintf("Not all the masses have been obtained: %d %v", i, thisatom), []string{"Topology.Masses"}}
		}
		mass[i] = thisatom.Mass
	}
	return mass, nil
}

//Symbols returns the symbols of all atoms, in order.
func (T *Topology) Symbols() []string {
	ret := make([]string, T.Len())
	for i, v := range T.Atoms {
		ret[i] = v.Symbol
	}
	return ret
}

/**Type Molecule**/

//Molecule contains the info for a molecule or crystal in many states.
//The info that is expected to change between states, i.e. coordinates,
//is stored separately from the rest.
type Molecule struct {
	*Topology
	Coords  []*v3.Matrix
	current int
}

//NewMolecule makes a molecule from the given topology and coordinates.
//It checks that the number of coordinates in each frame matches the
//number of atoms.
func NewMolecule(coords []*v3.Matrix, ats *Topology) (*Molecule, error) {
	if ats == nil {
		return nil, CError{"Supplied a nil topology", []string{"NewMolecule"}}
	}
	if coords == nil {
		return nil, CError{"Supplied a nil coordinate slice", []string{"NewMolecule"}}
	}
	mol := new(Molecule)
	mol.Topology = ats
	mol.Coords = coords
	if err := mol.Corrupted(); err != nil {
		return nil, errDecorate(err, "NewMolecule")
	}
	return mol, nil
}

//The molecule methods:

//Copy returns a copy of the molecule including coordinates
func (M *Molecule) Copy() *Molecule {
	if err := M.Corrupted(); err != nil {
		panic(err.Error())
	}
	mol := new(Molecule)
	mol.Topology = M.CopyAtoms()
	mol.Coords = make([]*v3.Matrix, 0, len(M.Coords))
	for _, val := range M.Coords {
		tmp := v3.Zeros(val.NVecs())
		tmp.Copy(val)
		mol.Coords = append(mol.Coords, tmp)
	}
	return mol
}

//AddFrame takes a matrix of coordinates and appends it at the end of Coords.
//It checks that the number of coordinates matches the number of atoms.
func (M *Molecule) AddFrame(newframe *v3.Matrix) {
	if newframe == nil {
		panic("Attempted to add nil frame")
	}
	if M.Len() != newframe.NVecs() {
		panic(fmt.Sprintf("Wrong number of coordinates (%d)", newframe.NVecs()))
	}
	if M.Coords == nil {
		M.Coords = make([]*v3.Matrix, 0, 1)
	}
	M.Coords = append(M.Coords, newframe)
}

//Coord returns the coords for the atom atom in the frame frame.
//panics if frame or coords are out of range.
func (M *Molecule) Coord(atom, frame int) *v3.Matrix {
	if frame >= len(M.Coords) {
		panic(fmt.Sprintf("Frame requested (%d) out of range", frame))
	}
	if atom >= M.Coords[frame].NVecs() {
		panic(fmt.Sprintf("Requested coordinate (%d) out of bounds (%d)", atom, M.Coords[frame].NVecs()))
	}
	return M.Coords[frame].VecView(atom)
}

//Current returns the number of the next frame to be read
func (M *Molecule) Current() int {
	if M == nil {
		return -1
	}
	return M.current
}

//SetCurrent sets the value of the next frame to be read to i.
func (M *Molecule) SetCurrent(i int) {
	if i < 0 || i >= len(M.Coords) {
		panic("Invalid new value for current")
	}
	M.current = i
}

//Corrupted checks whether the molecule is corrupted, i.e. whether the
//number of coordinates of some frame doesn't match the number of atoms.
func (M *Molecule) Corrupted() error {
	for i := range M.Coords {
		if M.Len() != M.Coords[i].NVecs() {
			return CError{fmt.Sprintf("Inconsistent coordinates/atoms in frame %d: Atoms %d, coords: %d", i, M.Len(), M.Coords[i].NVecs()), []string{"Molecule.Corrupted"}}
		}
	}
	return nil
}

//LenFrames returns the number of frames in the molecule
func (M *Molecule) LenFrames() int {
	return len(M.Coords)
}

/******************************************
//The following implement the Traj interface
**********************************************/

//Readable checks that the molecule exists and has some existent
//coordinates left to read, in which case returns true.
//It returns false otherwise.
func (M *Molecule) Readable() bool {
	if M != nil && M.Coords != nil && M.current < len(M.Coords) {
		return true
	}
	return false
}

//Next puts the next frame into the given matrix, or discards it
//if the matrix is nil.
func (M *Molecule) Next(V *v3.Matrix, box ...[]float64) error {
	if M.current >= len(M.Coords) {
		return newlastFrameError("", "Molecule.Next")
	}
	M.current++
	if V == nil {
		return nil
	}
	V.Copy(M.Coords[M.current-1])
	return nil
}

//InitRead initializes the molecule to be read as a Traj.
func (M *Molecule) InitRead() error {
	if M == nil || len(M.Coords) == 0 {
		return CError{"Bad molecule", []string{"InitRead"}}
	}
	M.current = 0
	return nil
}

/**End Traj interface implementation***********/

//ZeroVecs returns a zero-filled v3.Matrix with vecs vectors.
//Just a convenience wrapper so callers don't always need to import v3.
func ZeroVecs(vecs int) *v3.Matrix {
	return v3.Zeros(vecs)
}

//lastFrameError implements LastFrameError

type lastFrameError struct {
	deco     []string
	fileName string
}

//NormalLastFrameTermination does nothing, it's just so
//lastFrameError fulfills the LastFrameError interface
func (E lastFrameError) NormalLastFrameTermination() {}

func (E lastFrameError) FileName() string { return E.fileName }

func (E lastFrameError) Error() string { return "EOF" }

func (E lastFrameError) Critical() bool { return false }

func (E lastFrameError) Format() string { return "molecule" }

func (E lastFrameError) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

func newlastFrameError(filename string, caller string) *lastFrameError {
	e := new(lastFrameError)
	e.fileName = filename
	e.deco = []string{caller}
	return e
}
