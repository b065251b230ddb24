/*
 * input.go, part of goEspresso.
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
	"io"
	"math"
	"os"
	"sort"
	"strconv"

	v3 "github.com/rmera/goespresso/v3"
	"golang.org/x/exp/slices"
)

//Control holds the &CONTROL namelist of a pw.x input.
//Zero-valued fields are not written. Keys not modeled here
//survive read/write round trips through Extra.
type Control struct {
	Calculation string //scf, relax, md, vc-relax...
	Title       string
	Prefix      string
	RestartMode string
	PseudoDir   string
	Outdir      string
	Nstep       int
	Tprnfor     bool
	Tstress     bool
	EtotConvThr float64
	ForcConvThr float64
	Extra       map[string]string
}

//System holds the &SYSTEM namelist. Nat and Ntyp can be left at zero,
//in which case they are taken from the cards on write.
type System struct {
	Ibrav          int        //the Bravais lattice code. 0 means the cell is given explicitly in CELL_PARAMETERS
	Celldm         [6]float64 //celldm(1) to celldm(6). celldm(1) is the lattice constant, in bohr
	A, B, C        float64    //alternative to celldm, in angstrom
	Nat            int
	Ntyp           int
	Ecutwfc        float64 //plane-wave cutoff, Ry
	Ecutrho        float64
	Occupations    string
	Smearing       string
	Degauss        float64
	Nspin          int
	TotCharge      float64
	AssumeIsolated string
	Nosym          bool
	Extra          map[string]string
}

//Electrons holds the &ELECTRONS namelist, i.e. the SCF convergence knobs.
type Electrons struct {
	ConvThr         float64
	MixingBeta      float64
	MixingMode      string
	Diagonalization string
	ElectronMaxstep int
	Extra           map[string]string
}

//Ions holds the &IONS namelist. It is often empty, but pw.x still
//wants the block present for relax/md runs.
type Ions struct {
	IonDynamics string
	Extra       map[string]string
}

//Species is one row of the ATOMIC_SPECIES card: an atom type, its mass
//and the pseudopotential file representing its core electrons.
type Species struct {
	Symbol string
	Mass   float64
	Pseudo string
}

//Positions is the ATOMIC_POSITIONS card: a unit tag plus one symbol
//and one cartesian (or crystal) vector per atom.
type Positions struct {
	Unit    string //angstrom, bohr, crystal or alat
	Symbols []string
	Coords  *v3.Matrix
}

//KPoints is the K_POINTS card. For the automatic mode only Grid/Shift
//are meaningful; for the explicit modes, only List (rows of x, y, z, weight).
type KPoints struct {
	Mode  string //automatic, gamma, tpiba, crystal, tpiba_b, crystal_b
	Grid  [3]int
	Shift [3]int
	List  [][4]float64
}

//CellParameters is the CELL_PARAMETERS card: three lattice vectors,
//needed when ibrav is 0.
type CellParameters struct {
	Unit    string //alat, bohr or angstrom
	Vectors *v3.Matrix
}

//Input is a whole pw.x input file.
type Input struct {
	Control   Control
	System    System
	Electrons Electrons
	Ions      Ions
	Species   []Species
	Positions *Positions
	KPoints   *KPoints
	Cell      *CellParameters
}

//Fortran-side formatting

func fortString(s string) string {
	return "'" + s + "'"
}

func fortBool(b bool) string {
	if b {
		return ".true."
	}
	return ".false."
}

//fortReal formats a float the way it appears in pw.x inputs: whole values
//keep one decimal so they read as reals, everything else goes through %g.
func fortReal(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e6 {
		return strconv.FormatFloat(f, 'f', 1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

type namelistWriter struct {
	w   io.Writer
	err error
}

func (n *namelistWriter) key(key, val string) {
	if n.err != nil {
		return
	}
	_, n.err = fmt.Fprintf(n.w, "   %s = %s\n", key, val)
}

func (n *namelistWriter) str(key, val string) {
	if val != "" {
		n.key(key, fortString(val))
	}
}

func (n *namelistWriter) real(key string, val float64) {
	if val != 0 {
		n.key(key, fortReal(val))
	}
}

func (n *namelistWriter) integer(key string, val int) {
	if val != 0 {
		n.key(key, strconv.Itoa(val))
	}
}

func (n *namelistWriter) boolean(key string, val bool) {
	if val {
		n.key(key, fortBool(val))
	}
}

//extras are written sorted so the output is deterministic.
func (n *namelistWriter) extra(ex map[string]string) {
	if ex == nil {
		return
	}
	keys := make([]string, 0, len(ex))
	for k := range ex {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		n.key(k, ex[k])
	}
}

func (n *namelistWriter) open(name string) {
	if n.err != nil {
		return
	}
	_, n.err = fmt.Fprintf(n.w, "&%s\n", name)
}

func (n *namelistWriter) close() {
	if n.err != nil {
		return
	}
	_, n.err = fmt.Fprint(n.w, "/\n")
}

//Check verifies the internal consistency of the input: every species used in
//the positions must be declared, every declared species must be used, the
//atom and type counts, when given, must match the cards, and the few fields
//pw.x cannot live without must be present.
func (in *Input) Check() error {
	if in.Positions == nil || len(in.Positions.Symbols) == 0 {
		return CError{"Input has no atomic positions", []string{"Input.Check"}}
	}
	if in.Positions.Coords == nil || in.Positions.Coords.NVecs() != len(in.Positions.Symbols) {
		return CError{"Atomic positions: symbols and coordinates don't match", []string{"Input.Check"}}
	}
	if len(in.Species) == 0 {
		return CError{"Input has no atomic species", []string{"Input.Check"}}
	}
	used := make([]string, 0, len(in.Species))
	for _, s := range in.Positions.Symbols {
		if !slices.Contains(used, s) {
			used = append(used, s)
		}
	}
	for _, s := range used {
		if !slices.ContainsFunc(in.Species, func(sp Species) bool { return sp.Symbol == s }) {
			return CError{fmt.Sprintf("Species %s used in positions but not declared", s), []string{"Input.Check"}}
		}
	}
	for _, sp := range in.Species {
		if !slices.Contains(used, sp.Symbol) {
			return CError{fmt.Sprintf("Species %s declared but not used", sp.Symbol), []string{"Input.Check"}}
		}
	}
	if in.System.Nat != 0 && in.System.Nat != len(in.Positions.Symbols) {
		return CError{fmt.Sprintf("nat is %d but there are %d atomic positions", in.System.Nat, len(in.Positions.Symbols)), []string{"Input.Check"}}
	}
	if in.System.Ntyp != 0 && in.System.Ntyp != len(in.Species) {
		return CError{fmt.Sprintf("ntyp is %d but there are %d species declared", in.System.Ntyp, len(in.Species)), []string{"Input.Check"}}
	}
	if in.System.Ecutwfc <= 0 {
		return CError{"ecutwfc must be positive", []string{"Input.Check"}}
	}
	if in.System.Ibrav == 0 && in.Cell == nil {
		return CError{"ibrav 0 requires explicit CELL_PARAMETERS", []string{"Input.Check"}}
	}
	if in.System.Ibrav != 0 && in.System.Celldm[0] == 0 && in.System.A == 0 {
		return CError{"A lattice constant (celldm(1) or A) is needed when ibrav is not 0", []string{"Input.Check"}}
	}
	if in.KPoints != nil {
		switch in.KPoints.Mode {
		case "automatic":
			if in.KPoints.Grid[0] < 1 || in.KPoints.Grid[1] < 1 || in.KPoints.Grid[2] < 1 {
				return CError{"automatic K_POINTS need a positive grid", []string{"Input.Check"}}
			}
		case "gamma":
		default:
			if len(in.KPoints.List) == 0 {
				return CError{fmt.Sprintf("K_POINTS %s needs an explicit k-point list", in.KPoints.Mode), []string{"Input.Check"}}
			}
		}
	}
	return nil
}

//Write checks the input and renders it to w in the pw.x namelist format.
func (in *Input) Write(w io.Writer) error {
	if err := in.Check(); err != nil {
		return errDecorate(err, "Input.Write")
	}
	n := &namelistWriter{w: w}
	n.open("CONTROL")
	n.str("calculation", in.Control.Calculation)
	n.str("title", in.Control.Title)
	n.str("prefix", in.Control.Prefix)
	n.str("restart_mode", in.Control.RestartMode)
	n.str("pseudo_dir", in.Control.PseudoDir)
	n.str("outdir", in.Control.Outdir)
	n.integer("nstep", in.Control.Nstep)
	n.boolean("tprnfor", in.Control.Tprnfor)
	n.boolean("tstress", in.Control.Tstress)
	n.real("etot_conv_thr", in.Control.EtotConvThr)
	n.real("forc_conv_thr", in.Control.ForcConvThr)
	n.extra(in.Control.Extra)
	n.close()
	n.open("SYSTEM")
	n.key("ibrav", strconv.Itoa(in.System.Ibrav))
	for i, v := range in.System.Celldm {
		if v != 0 {
			n.key(fmt.Sprintf("celldm(%d)", i+1), fortReal(v))
		}
	}
	n.real("A", in.System.A)
	n.real("B", in.System.B)
	n.real("C", in.System.C)
	nat := in.System.Nat
	if nat == 0 {
		nat = len(in.Positions.Symbols)
	}
	ntyp := in.System.Ntyp
	if ntyp == 0 {
		ntyp = len(in.Species)
	}
	n.key("nat", strconv.Itoa(nat))
	n.key("ntyp", strconv.Itoa(ntyp))
	n.real("ecutwfc", in.System.Ecutwfc)
	n.real("ecutrho", in.System.Ecutrho)
	n.str("occupations", in.System.Occupations)
	n.str("smearing", in.System.Smearing)
	n.real("degauss", in.System.Degauss)
	n.integer("nspin", in.System.Nspin)
	n.real("tot_charge", in.System.TotCharge)
	n.str("assume_isolated", in.System.AssumeIsolated)
	n.boolean("nosym", in.System.Nosym)
	n.extra(in.System.Extra)
	n.close()
	n.open("ELECTRONS")
	n.real("conv_thr", in.Electrons.ConvThr)
	n.real("mixing_beta", in.Electrons.MixingBeta)
	n.str("mixing_mode", in.Electrons.MixingMode)
	n.str("diagonalization", in.Electrons.Diagonalization)
	n.integer("electron_maxstep", in.Electrons.ElectronMaxstep)
	n.extra(in.Electrons.Extra)
	n.close()
	n.open("IONS")
	n.str("ion_dynamics", in.Ions.IonDynamics)
	n.extra(in.Ions.Extra)
	n.close()
	if n.err != nil {
		return n.err
	}
	if err := in.writeCards(w); err != nil {
		return err
	}
	return nil
}

func (in *Input) writeCards(w io.Writer) error {
	var err error
	if _, err = fmt.Fprint(w, "ATOMIC_SPECIES\n"); err != nil {
		return err
	}
	for _, sp := range in.Species {
		_, err = fmt.Fprintf(w, " %-2s %10.4f  %s\n", sp.Symbol, sp.Mass, sp.Pseudo)
		if err != nil {
			return err
		}
	}
	fmt.Fprintf(w, "ATOMIC_POSITIONS %s\n", in.Positions.Unit)
	for i, s := range in.Positions.Symbols {
		_, err = fmt.Fprintf(w, " %-2s %14.9f %14.9f %14.9f\n", s, in.Positions.Coords.At(i, 0), in.Positions.Coords.At(i, 1), in.Positions.Coords.At(i, 2))
		if err != nil {
			return err
		}
	}
	if in.Cell != nil {
		fmt.Fprintf(w, "CELL_PARAMETERS %s\n", in.Cell.Unit)
		for i := 0; i < 3; i++ {
			fmt.Fprintf(w, " %14.9f %14.9f %14.9f\n", in.Cell.Vectors.At(i, 0), in.Cell.Vectors.At(i, 1), in.Cell.Vectors.At(i, 2))
		}
	}
	if in.KPoints == nil {
		return nil
	}
	fmt.Fprintf(w, "K_POINTS %s\n", in.KPoints.Mode)
	switch in.KPoints.Mode {
	case "automatic":
		g := in.KPoints.Grid
		s := in.KPoints.Shift
		_, err = fmt.Fprintf(w, " %2d %2d %2d  %2d %2d %2d\n", g[0], g[1], g[2], s[0], s[1], s[2])
	case "gamma":
		//nothing to write
	default:
		fmt.Fprintf(w, "%d\n", len(in.KPoints.List))
		for _, k := range in.KPoints.List {
			_, err = fmt.Fprintf(w, " %14.9f %14.9f %14.9f %8.4f\n", k[0], k[1], k[2], k[3])
		}
	}
	return err
}

//WriteFile writes the input to the file inpname, which is created, or
//overwritten if present.
func (in *Input) WriteFile(inpname string) error {
	f, err := os.Create(inpname)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := in.Write(f); err != nil {
		return errDecorate(err, "WriteFile: "+inpname)
	}
	return nil
}

//Molecule builds a Molecule (one frame) from the positions and species of
//the input. Masses come from the species declarations, falling back to the
//internal table when a declaration has no mass. The charge of the topology
//is taken from tot_charge, truncated.
func (in *Input) Molecule() (*Molecule, error) {
	if err := in.Check(); err != nil {
		return nil, errDecorate(err, "Input.Molecule")
	}
	ats := make([]*Atom, len(in.Positions.Symbols))
	for i, s := range in.Positions.Symbols {
		at := new(Atom)
		at.Name = s
		at.Symbol = s
		ind := slices.IndexFunc(in.Species, func(sp Species) bool { return sp.Symbol == s })
		at.Tag = ind + 1
		if in.Species[ind].Mass != 0 {
			at.Mass = in.Species[ind].Mass
		} else {
			at.Mass = symbolMass[s] //no error checking, a zero mass is caught later, by Masses()
		}
		ats[i] = at
	}
	top, err := NewTopology(ats, int(in.System.TotCharge), 0)
	if err != nil {
		return nil, errDecorate(err, "Input.Molecule")
	}
	coord := v3.Zeros(in.Positions.Coords.NVecs())
	coord.Copy(in.Positions.Coords)
	return NewMolecule([]*v3.Matrix{coord}, top)
}

//InputFromMolecule builds a minimal input (species and angstrom positions)
//from the given frame of mol. Namelist fields other than tot_charge are left
//for the caller to fill. Pseudopotential files are set to "symbol.UPF"; most
//callers will want to replace them.
func InputFromMolecule(mol *Molecule, frame int) (*Input, error) {
	if mol == nil || frame >= len(mol.Coords) {
		return nil, CError{"nil molecule or frame out of range", []string{"InputFromMolecule"}}
	}
	in := new(Input)
	in.System.TotCharge = float64(mol.Charge())
	symbols := mol.Symbols()
	for i, s := range symbols {
		if slices.ContainsFunc(in.Species, func(sp Species) bool { return sp.Symbol == s }) {
			continue
		}
		mass := mol.Atom(i).Mass
		if mass == 0 {
			mass = symbolMass[s]
		}
		in.Species = append(in.Species, Species{Symbol: s, Mass: mass, Pseudo: s + ".UPF"})
	}
	coords := v3.Zeros(mol.Len())
	coords.Copy(mol.Coords[frame])
	in.Positions = &Positions{Unit: "angstrom", Symbols: symbols, Coords: coords}
	return in, nil
}
