/*
 * doc.go, part of goEspresso.
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

/*Package espresso provides structures and functions to prepare, inspect and
recover Quantum ESPRESSO pw.x calculations from Go programs.



	**goEspresso capabilities**


    Models the pw.x input file: the &CONTROL, &SYSTEM, &ELECTRONS and &IONS
	namelists plus the ATOMIC_SPECIES, ATOMIC_POSITIONS, K_POINTS and
	CELL_PARAMETERS cards.

    Writes pw.x input files, checking them for internal consistency first
	(declared vs. used species, declared vs. present atoms).

    Reads pw.x input files tolerantly: keys in any case, with or without
	commas, Fortran d-exponents, ! and # comments. Keys this library doesn't
	model are kept verbatim and written back.

    Reads pw.x output files: SCF iteration energies, the final total energy,
	forces, every geometry of a relax/md run and the termination status.

    Builds lattice vectors from ibrav/celldm codes, and computes reciprocal
	vectors and cell volumes.

    Reads and writes XYZ files, so geometries can be moved in and out of
	other programs.

    Guesses the format of a file (espresso-in, espresso-out, xyz) from its
	contents, and reads it accordingly.

    Via the qm subpackage, generates input for, runs, and recovers energies,
	forces and optimized geometries from pw.x (which must be obtained
	independently, www.quantum-espresso.org).

    Via the traj/stf subpackage, stores the geometries of relax/md runs as
	compressed trajectories.

    Via the pwplot subpackage, plots SCF convergence.


goEspresso uses the Nx3 matrix type of its v3 subpackage, based on
gonum.org/v1/gonum/mat, for all coordinates. Unless stated otherwise,
distances handed to this library are in angstrom and energies recovered from
pw.x outputs are in Ry.*/
package espresso
