/*
 * qm.go, part of goEspresso.
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
 */
/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

package qm

import (
	espresso "github.com/rmera/goespresso"
	v3 "github.com/rmera/goespresso/v3"
)

//Handle is the interface to set up and run a calculation.
type Handle interface {

	//Sets the name for the job, used for input
	//and output files.
	SetName(name string)

	//BuildInput builds an input for the program based on the data in
	//atoms, coords and Q.
	BuildInput(coords *v3.Matrix, atoms espresso.AtomMultiCharger, Q *Calc) error

	//Run runs the program for a calculation previously set.
	//it waits or not for the result depending of the value of
	//wait.
	Run(wait bool) (err error)

	//Energy gets the last energy for a calculation by parsing the
	//program's output file. Returns Error with code ErrProbableProblem
	//if there is an energy but the calculation didn't end properly.
	Energy() (float64, error)

	//OptimizedGeometry reads the optimized geometry from a calculation
	//output, in angstrom.
	OptimizedGeometry(atoms espresso.Atomer) (*v3.Matrix, error)
}

//Calc holds the settings of a calculation, independently of the handle
//that will run it. Zero values mean "let the program use its default".
type Calc struct {
	Method        string //the exchange-correlation functional, for the input_dft key
	Cutoff        float64 //plane-wave cutoff, Ry
	DensityCutoff float64 //charge-density cutoff, Ry. pw.x defaults to 4*Cutoff
	KPoints       [3]int  //Monkhorst-Pack grid. All zero means gamma-only
	KShift        [3]int
	Ibrav         int        //Bravais lattice code of a periodic system
	Celldm        [6]float64 //lattice parameters for Ibrav, celldm(1) in bohr
	Cell          *v3.Matrix //explicit lattice vectors, in A. Wins over Ibrav
	ConvThr       float64
	MixingBeta    float64
	Smearing      string //mp, gauss, fd...  Sets occupations = 'smearing'
	Degauss       float64
	SpinPolarized bool
	Vacuum        float64 //padding, in A, around a non-periodic system
	PseudoDir     string
	Pseudos       map[string]string //pseudopotential file per element symbol
	Memory        int //max memory, MB. Ignored by pw.x itself, kept for API compatibility
	Optimize      bool
	Others        string //extra keys for the control namelist, verbatim
	Job           Job
}

//SetDefaults sets cautious defaults for a calculation: they should
//converge for most systems, if not quickly. They are NOT part of the API
//and can change between versions.
func (Q *Calc) SetDefaults() {
	Q.Cutoff = 30.0
	Q.ConvThr = 1e-06
	Q.MixingBeta = 0.7
}

//Job selects what kind of run this is. The zero value is a single-point
//SCF calculation.
type Job struct {
	SCF    bool
	Opti   bool
	MD     bool
	Forces bool
	VCOpti bool
}

type jobChoose struct {
	scf    func()
	opti   func()
	md     func()
	forces func()
	vcopti func()
}

//Do runs the function of jc matching the job selected in J. Only one is
//run: geometry searches win over dynamics, and anything wins over a
//plain SCF.
func (J Job) Do(jc jobChoose) {
	switch {
	case J.VCOpti && jc.vcopti != nil:
		jc.vcopti()
	case J.Opti && jc.opti != nil:
		jc.opti()
	case J.MD && jc.md != nil:
		jc.md()
	case J.Forces && jc.forces != nil:
		jc.forces()
	default:
		if jc.scf != nil {
			jc.scf()
		}
	}
}
