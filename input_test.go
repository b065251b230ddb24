/*
 * input_test.go, part of goEspresso.
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

package espresso

import (
	"bytes"
	"fmt"
	"os"
	"testing"

	v3 "github.com/rmera/goespresso/v3"
)

//the silicon test input, as a structure. It matches test/cluster.pwi.
func siliconInput() *Input {
	in := new(Input)
	in.Control = Control{Calculation: "scf", Prefix: "cluster", RestartMode: "from_scratch", PseudoDir: ".", Outdir: "./out"}
	in.System = System{Ibrav: 2, Celldm: [6]float64{10.2631}, Nat: 2, Ntyp: 1, Ecutwfc: 18.0}
	in.Electrons = Electrons{ConvThr: 1e-06, MixingBeta: 0.7}
	in.Species = []Species{{"Si", 28.086, "Si.pz-vbc.UPF"}}
	coords, _ := v3.NewMatrix([]float64{0, 0, 0, 1.35765, 1.35765, 1.35765})
	in.Positions = &Positions{Unit: "angstrom", Symbols: []string{"Si", "Si"}, Coords: coords}
	in.KPoints = &KPoints{Mode: "automatic", Grid: [3]int{4, 4, 4}, Shift: [3]int{1, 1, 1}}
	return in
}

func TestInputWrite(Te *testing.T) {
	want, err := os.ReadFile("test/cluster.pwi")
	if err != nil {
		Te.Fatal(err)
	}
	var buf bytes.Buffer
	if err := siliconInput().Write(&buf); err != nil {
		Te.Fatal(err)
	}
	if buf.String() != string(want) {
		Te.Errorf("written input differs from test/cluster.pwi:\n%s", buf.String())
	}
	fmt.Println("Silicon input written as expected")
}

func TestInputRead(Te *testing.T) {
	in, err := InputFileRead("test/cluster.pwi")
	if err != nil {
		Te.Fatal(err)
	}
	if in.Control.Calculation != "scf" || in.Control.Prefix != "cluster" {
		Te.Errorf("Bad control block: %+v", in.Control)
	}
	s := in.System
	if s.Ibrav != 2 || s.Celldm[0] != 10.2631 || s.Nat != 2 || s.Ntyp != 1 || s.Ecutwfc != 18.0 {
		Te.Errorf("Bad system block: %+v", s)
	}
	if in.Electrons.ConvThr != 1e-06 || in.Electrons.MixingBeta != 0.7 {
		Te.Errorf("Bad electrons block: %+v", in.Electrons)
	}
	if len(in.Species) != 1 || in.Species[0] != (Species{"Si", 28.086, "Si.pz-vbc.UPF"}) {
		Te.Errorf("Bad species: %+v", in.Species)
	}
	p := in.Positions
	if p == nil || p.Unit != "angstrom" || len(p.Symbols) != 2 || p.Coords.At(1, 0) != 1.35765 {
		Te.Errorf("Bad positions: %+v", p)
	}
	k := in.KPoints
	if k == nil || k.Mode != "automatic" || k.Grid != [3]int{4, 4, 4} || k.Shift != [3]int{1, 1, 1} {
		Te.Errorf("Bad k-points: %+v", k)
	}
	fmt.Println("Read back the silicon input:", in.Control.Prefix, s.Ecutwfc, "Ry")
}

//A read input, written back, must reproduce the file byte by byte.
func TestInputRoundTrip(Te *testing.T) {
	want, err := os.ReadFile("test/cluster.pwi")
	if err != nil {
		Te.Fatal(err)
	}
	in, err := InputRead(bytes.NewReader(want))
	if err != nil {
		Te.Fatal(err)
	}
	var buf bytes.Buffer
	if err := in.Write(&buf); err != nil {
		Te.Fatal(err)
	}
	if buf.String() != string(want) {
		Te.Errorf("round trip altered the file:\n%s", buf.String())
	}
}

//Keys this library doesn't model must survive a round trip through Extra.
func TestInputExtraKeys(Te *testing.T) {
	text := "&CONTROL\n   calculation = 'scf'\n   wf_collect = .true.\n/\n&SYSTEM\n   ibrav = 1\n   celldm(1) = 20.0\n   ecutwfc = 30.0\n   input_dft = 'PBE'\n/\n&ELECTRONS\n/\n&IONS\n/\nATOMIC_SPECIES\n H 1.008 H.UPF\nATOMIC_POSITIONS angstrom\n H 0.0 0.0 0.0\nK_POINTS gamma\n"
	in, err := InputRead(bytes.NewReader([]byte(text)))
	if err != nil {
		Te.Fatal(err)
	}
	if in.Control.Extra["wf_collect"] != ".true." {
		Te.Errorf("wf_collect lost: %+v", in.Control.Extra)
	}
	if in.System.Extra["input_dft"] != "'PBE'" {
		Te.Errorf("input_dft lost: %+v", in.System.Extra)
	}
	var buf bytes.Buffer
	if err := in.Write(&buf); err != nil {
		Te.Fatal(err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("   wf_collect = .true.\n")) || !bytes.Contains(buf.Bytes(), []byte("   input_dft = 'PBE'\n")) {
		Te.Errorf("extra keys not written back:\n%s", buf.String())
	}
}

//pw.x inputs in the wild come in a looser dialect: mixed-case keys,
//trailing commas, end-of-line comments and Fortran d/D exponents. All of
//those must read back clean, and a comment mark inside a quoted string is
//part of the string.
func TestInputDialect(Te *testing.T) {
	text := "&CONTROL\n   Calculation = 'scf',  ! the usual\n   TITLE = 'step !1'\n/\n&system\n   IBRAV = 1, celldm(1) = 2.0D1,\n   ecutwfc = 1.8d1  # 18 Ry\n/\n&ELECTRONS\n   CONV_THR = 1.0d-6,\n/\n&IONS\n/\nATOMIC_SPECIES\n H 1.008 H.UPF\nATOMIC_POSITIONS angstrom\n H 0.0 0.0 0.0\nK_POINTS gamma\n"
	in, err := InputRead(bytes.NewReader([]byte(text)))
	if err != nil {
		Te.Fatal(err)
	}
	if in.Control.Calculation != "scf" {
		Te.Errorf("Mixed-case key lost: %+v", in.Control)
	}
	if in.Control.Title != "step !1" {
		Te.Errorf("Quoted '!' mistaken for a comment: title = %q", in.Control.Title)
	}
	if in.System.Ibrav != 1 || in.System.Celldm[0] != 20.0 {
		Te.Errorf("D exponent misread: %+v", in.System)
	}
	if in.System.Ecutwfc != 18.0 {
		Te.Errorf("d exponent misread: %v", in.System.Ecutwfc)
	}
	if in.Electrons.ConvThr != 1e-06 {
		Te.Errorf("Trailing comma broke the assignment: %v", in.Electrons.ConvThr)
	}
	fmt.Println("Dialect input read back:", in.Control.Title)
}

func TestInputCheck(Te *testing.T) {
	broken := []func(*Input){
		func(in *Input) { in.Positions = nil },
		func(in *Input) { in.Positions.Symbols = append(in.Positions.Symbols, "Si") },
		func(in *Input) { in.Species = nil },
		func(in *Input) { in.Species = append(in.Species, Species{"O", 15.999, "O.UPF"}) },
		func(in *Input) { in.Positions.Symbols[0] = "Ge" },
		func(in *Input) { in.System.Nat = 5 },
		func(in *Input) { in.System.Ntyp = 3 },
		func(in *Input) { in.System.Ecutwfc = 0 },
		func(in *Input) { in.System.Ibrav = 0 },
		func(in *Input) { in.System.Celldm[0] = 0 },
		func(in *Input) { in.KPoints.Grid = [3]int{0, 4, 4} },
		func(in *Input) { in.KPoints.Mode = "tpiba" },
	}
	for i, breakit := range broken {
		in := siliconInput()
		breakit(in)
		if err := in.Check(); err == nil {
			Te.Errorf("Broken input %d passed Check", i)
		} else {
			fmt.Println("Check caught:", err.Error())
		}
	}
	if err := siliconInput().Check(); err != nil {
		Te.Error(err)
	}
}

func TestInputMolecule(Te *testing.T) {
	mol, err := siliconInput().Molecule()
	if err != nil {
		Te.Fatal(err)
	}
	if mol.Len() != 2 || mol.Atom(0).Symbol != "Si" || mol.Atom(1).Tag != 1 {
		Te.Errorf("Bad molecule from input: %v", mol.Atom(0))
	}
	masses, err := mol.Masses()
	if err != nil {
		Te.Fatal(err)
	}
	if masses[0] != 28.086 {
		Te.Errorf("Mass not taken from the species declaration: %v", masses[0])
	}
	back, err := InputFromMolecule(mol, 0)
	if err != nil {
		Te.Fatal(err)
	}
	if len(back.Species) != 1 || back.Species[0].Symbol != "Si" {
		Te.Errorf("Bad species from molecule: %+v", back.Species)
	}
	if back.Positions.Coords.At(1, 2) != 1.35765 {
		Te.Errorf("Coordinates lost on the way back: %v", back.Positions.Coords.At(1, 2))
	}
}
