/*
 * pw.go, part of goEspresso.
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
//In order to use this part of the library you need the pw.x program from the
//Quantum ESPRESSO suite, which is distributed separately, at
//www.quantum-espresso.org. Please cite the Quantum ESPRESSO references if
//you use the program.

/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

package qm

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	espresso "github.com/rmera/goespresso"
	v3 "github.com/rmera/goespresso/v3"
	"github.com/rmera/goespresso/traj/stf"
)

//PWHandle drives pw.x calculations. Note that the defaults it uses are NOT
//considered part of the API, so they can always change.
type PWHandle struct {
	command   string
	inputname string
	nCPU      int
	wrkdir    string
}

//NewPWHandle builds a handle with the default settings.
func NewPWHandle() *PWHandle {
	run := new(PWHandle)
	run.SetDefaults()
	return run
}

//SetnCPU sets the number of MPI ranks to be used.
func (O *PWHandle) SetnCPU(cpu int) {
	O.nCPU = cpu
}

func (O *PWHandle) Command() string {
	return O.command
}

func (O *PWHandle) SetName(name string) {
	O.inputname = name
}

func (O *PWHandle) SetCommand(name string) {
	O.command = name
}

//SetWorkDir sets the directory where input and output files live. It is not
//created; that is up to the caller.
func (O *PWHandle) SetWorkDir(dir string) {
	O.wrkdir = dir
}

//SetDefaults takes the pw.x binary from PW_COMMAND, or assumes it is in the
//PATH, and uses half the logical CPUs.
func (O *PWHandle) SetDefaults() {
	O.command = os.ExpandEnv("${PW_COMMAND}")
	if O.command == "" {
		O.command = "pw.x"
	}
	O.nCPU = runtime.NumCPU() / 2
}

func (O *PWHandle) path(name string) string {
	if O.wrkdir == "" {
		return name
	}
	return O.wrkdir + "/" + name
}

//BuildInput writes a pw.x input for the system in atoms/coords with the
//settings in Q. Systems without any cell given in Q are treated as
//non-periodic: they get a cubic box padded with vacuum, and the
//Martyna-Tuckerman correction.
func (O *PWHandle) BuildInput(coords *v3.Matrix, atoms espresso.AtomMultiCharger, Q *Calc) error {
	if O.inputname == "" {
		O.inputname = "goespresso"
	}
	if atoms == nil || coords == nil {
		return Error{ErrCantInput, PW, O.inputname, "nil atoms or coordinates", []string{"BuildInput"}, true}
	}
	if Q == nil {
		Q = new(Calc)
		Q.SetDefaults()
	}
	in := new(espresso.Input)
	in.Control.Calculation = "scf"
	in.Control.Prefix = O.inputname
	in.Control.Outdir = "./" + O.inputname + ".save"
	in.Control.PseudoDir = Q.PseudoDir
	if in.Control.PseudoDir == "" {
		in.Control.PseudoDir = os.ExpandEnv("${ESPRESSO_PSEUDO}")
	}
	jc := jobChoose{}
	jc.opti = func() {
		in.Control.Calculation = "relax"
		in.Control.Tprnfor = true
		in.Ions.IonDynamics = "bfgs"
	}
	jc.vcopti = func() {
		in.Control.Calculation = "vc-relax"
		in.Control.Tprnfor = true
		in.Control.Tstress = true
		in.Ions.IonDynamics = "bfgs"
	}
	jc.md = func() {
		in.Control.Calculation = "md"
		in.Control.Tprnfor = true
		in.Ions.IonDynamics = "verlet"
	}
	jc.forces = func() {
		in.Control.Tprnfor = true
	}
	if Q.Optimize {
		Q.Job.Opti = true
	}
	Q.Job.Do(jc)
	if Q.Others != "" {
		kv := strings.SplitN(Q.Others, "=", 2)
		if len(kv) == 2 {
			in.Control.Extra = map[string]string{strings.TrimSpace(kv[0]): strings.TrimSpace(kv[1])}
		} else {
			log.Printf("Can't parse the extra key %q, it will be ignored", Q.Others)
		}
	}
	in.System.Ecutwfc = Q.Cutoff
	if in.System.Ecutwfc == 0 {
		in.System.Ecutwfc = 30.0
	}
	in.System.Ecutrho = Q.DensityCutoff
	in.System.TotCharge = float64(atoms.Charge())
	if Q.Method != "" {
		in.System.Extra = map[string]string{"input_dft": "'" + Q.Method + "'"}
	}
	if Q.Smearing != "" {
		in.System.Occupations = "smearing"
		in.System.Smearing = Q.Smearing
		in.System.Degauss = Q.Degauss
		if in.System.Degauss == 0 {
			in.System.Degauss = 0.02
		}
	}
	if Q.SpinPolarized || atoms.Multi() > 1 {
		in.System.Nspin = 2
		if in.System.Extra == nil {
			in.System.Extra = make(map[string]string)
		}
		in.System.Extra["tot_magnetization"] = strconv.Itoa(atoms.Multi() - 1)
	}
	symbols := make([]string, atoms.Len())
	for i := 0; i < atoms.Len(); i++ {
		at := atoms.Atom(i)
		symbols[i] = at.Symbol
		if speciesDeclared(in.Species, at.Symbol) {
			continue
		}
		mass := at.Mass
		if mass == 0 {
			mass, _ = espresso.SymbolMass(at.Symbol) //a zero mass is tolerated by pw.x for most runs
		}
		in.Species = append(in.Species, espresso.Species{Symbol: at.Symbol, Mass: mass, Pseudo: O.pseudo(at.Symbol, Q)})
	}
	pos := v3.Zeros(coords.NVecs())
	pos.Copy(coords)
	in.Positions = &espresso.Positions{Unit: "angstrom", Symbols: symbols, Coords: pos}
	switch {
	case Q.Cell != nil:
		vecs := v3.Zeros(3)
		vecs.Copy(Q.Cell)
		in.Cell = &espresso.CellParameters{Unit: "angstrom", Vectors: vecs}
		in.System.Ibrav = 0
	case Q.Ibrav != 0:
		in.System.Ibrav = Q.Ibrav
		in.System.Celldm = Q.Celldm
	default:
		//no cell given, so the system is taken as non-periodic: a padded
		//cubic box, gamma sampling and the Martyna-Tuckerman correction.
		vac := Q.Vacuum
		if vac == 0 {
			vac = 8.0 //A
		}
		in.System.Ibrav = 1
		in.System.Celldm[0] = (extent(coords) + 2*vac) * espresso.A2Bohr
		in.System.AssumeIsolated = "mt"
	}
	if Q.KPoints != [3]int{} {
		in.KPoints = &espresso.KPoints{Mode: "automatic", Grid: Q.KPoints, Shift: Q.KShift}
	} else {
		in.KPoints = &espresso.KPoints{Mode: "gamma"}
	}
	in.Electrons.ConvThr = Q.ConvThr
	in.Electrons.MixingBeta = Q.MixingBeta
	if err := in.WriteFile(O.path(O.inputname + ".pwi")); err != nil {
		return Error{ErrCantInput, PW, O.inputname, err.Error(), []string{"BuildInput"}, true}
	}
	return nil
}

func (O *PWHandle) pseudo(symbol string, Q *Calc) string {
	if Q.Pseudos != nil {
		if p, ok := Q.Pseudos[symbol]; ok {
			return p
		}
	}
	return symbol + ".UPF"
}

func speciesDeclared(sp []espresso.Species, symbol string) bool {
	for _, s := range sp {
		if s.Symbol == symbol {
			return true
		}
	}
	return false
}

//extent returns the largest dimension, in A, of the axis-aligned box
//enclosing the coordinates.
func extent(coords *v3.Matrix) float64 {
	largest := 0.0
	for j := 0; j < 3; j++ {
		min := coords.At(0, j)
		max := min
		for i := 1; i < coords.NVecs(); i++ {
			v := coords.At(i, j)
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
		if max-min > largest {
			largest = max - min
		}
	}
	return largest
}

//Run runs the pw.x calculation previously set up. It waits or not for the
//result depending on wait. Not waiting works only on unix-compatible
//systems, as it uses sh and nohup.
func (O *PWHandle) Run(wait bool) (err error) {
	c := O.command
	if O.nCPU > 1 {
		c = fmt.Sprintf("mpirun -np %d %s", O.nCPU, O.command)
	}
	com := fmt.Sprintf("%s -in %s.pwi > %s.pwo 2>&1", c, O.inputname, O.inputname)
	if O.wrkdir != "" {
		com = fmt.Sprintf("cd %s && %s", O.wrkdir, com)
	}
	if wait {
		log.Printf("%s", com)
		command := exec.Command("sh", "-c", com)
		err = command.Run()
	} else {
		command := exec.Command("sh", "-c", "nohup "+com)
		err = command.Start()
	}
	if err != nil {
		err = Error{ErrNotRunning, PW, O.inputname, err.Error(), []string{"exec.Start", "Run"}, true}
	}
	return err
}

//normalTermination checks that the pw.x run said goodbye properly.
func (O *PWHandle) normalTermination() bool {
	return searchBackwards("JOB DONE", O.path(O.inputname+".pwo")) != ""
}

//searchBackwards searches a file for a string, starting from the end.
//Returns the line that contains the string, or an empty string.
func searchBackwards(str, filename string) string {
	var ini int64 = 0
	var end int64 = 0
	buf := make([]byte, 1)
	f, err := os.Open(filename)
	if err != nil {
		return ""
	}
	defer f.Close()
	var i int64 = 1
	for ; ; i++ {
		if _, err := f.Seek(-1*i, 2); err != nil {
			return ""
		}
		if _, err := f.Read(buf); err != nil {
			return ""
		}
		if buf[0] == byte('\n') && end == 0 {
			end = i
		} else if buf[0] == byte('\n') && ini == 0 {
			ini = i
			f.Seek(-1*ini, 2)
			bufF := make([]byte, ini-end)
			f.Read(bufF)
			if strings.Contains(string(bufF), str) {
				return string(bufF)
			}
			end = ini //this newline opens the next line to check
			ini = 0
		}
	}
}

//Energy returns the converged total energy of a previous pw.x run, in
//kcal/mol. If there is an energy but the run didn't end properly, the energy
//is returned along with a non-critical Error carrying ErrProbableProblem.
func (O *PWHandle) Energy() (float64, error) {
	energyline := searchBackwards("!    total energy", O.path(O.inputname+".pwo"))
	if energyline == "" {
		return 0, Error{ErrNoEnergy, PW, O.inputname, "", []string{"searchBackwards", "Energy"}, true}
	}
	split := strings.Fields(energyline)
	if len(split) < 5 {
		return 0, Error{ErrNoEnergy, PW, O.inputname, energyline, []string{"Energy"}, true}
	}
	energy, err := strconv.ParseFloat(split[4], 64)
	if err != nil {
		return 0, Error{ErrNoEnergy, PW, O.inputname, err.Error(), []string{"strconv.ParseFloat", "Energy"}, true}
	}
	if !O.normalTermination() {
		return energy * espresso.Ry2Kcal, Error{ErrProbableProblem, PW, O.inputname, "", []string{"Energy"}, false}
	}
	return energy * espresso.Ry2Kcal, nil
}

//OptimizedGeometry returns the last geometry of a previous relax/md run, in
//angstrom. It doesn't actually need the Atomer, but requires it so PWHandle
//fits the Handle interface.
func (O *PWHandle) OptimizedGeometry(atoms espresso.Atomer) (*v3.Matrix, error) {
	out, err := espresso.OutputFileRead(O.path(O.inputname + ".pwo"))
	if err != nil {
		return nil, Error{ErrNoGeometry, PW, O.inputname, err.Error(), []string{"OptimizedGeometry"}, true}
	}
	mol, err := out.Molecule()
	if err != nil {
		return nil, Error{ErrNoGeometry, PW, O.inputname, err.Error(), []string{"OptimizedGeometry"}, true}
	}
	geo := mol.Coords[len(mol.Coords)-1]
	if !out.JobDone {
		return geo, Error{ErrProbableProblem, PW, O.inputname, "", []string{"OptimizedGeometry"}, false}
	}
	return geo, nil
}

//Forces returns the last forces block of a previous run, in Ry/bohr.
func (O *PWHandle) Forces() (*v3.Matrix, error) {
	out, err := espresso.OutputFileRead(O.path(O.inputname + ".pwo"))
	if err != nil {
		return nil, Error{ErrNoGeometry, PW, O.inputname, err.Error(), []string{"Forces"}, true}
	}
	if out.Forces == nil {
		return nil, Error{ErrNoGeometry, PW, O.inputname, "no forces printed, was tprnfor set?", []string{"Forces"}, true}
	}
	return out.Forces, nil
}

//Trajectory recovers every geometry of a previous relax/md run and writes
//them, in angstrom, to the compressed trajectory stfname (whose suffix
//selects the compression scheme).
func (O *PWHandle) Trajectory(stfname string) error {
	out, err := espresso.OutputFileRead(O.path(O.inputname + ".pwo"))
	if err != nil {
		return Error{ErrNoGeometry, PW, O.inputname, err.Error(), []string{"Trajectory"}, true}
	}
	mol, err := out.Molecule()
	if err != nil {
		return Error{ErrNoGeometry, PW, O.inputname, err.Error(), []string{"Trajectory"}, true}
	}
	w, err := stf.NewWriter(stfname, mol.Len(), map[string]string{"prefix": O.inputname})
	if err != nil {
		return Error{ErrCantInput, PW, O.inputname, err.Error(), []string{"Trajectory"}, true}
	}
	defer w.Close()
	for _, frame := range mol.Coords {
		if err := w.WNext(frame); err != nil {
			return Error{ErrCantInput, PW, O.inputname, err.Error(), []string{"stf.WNext", "Trajectory"}, true}
		}
	}
	return nil
}
