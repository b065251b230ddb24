/*
 * output_test.go, part of goEspresso.
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
	"fmt"
	"math"
	"strings"
	"testing"
)

func TestOutputSCF(Te *testing.T) {
	out, err := OutputFileRead("test/si.scf.pwo")
	if err != nil {
		Te.Fatal(err)
	}
	if !out.JobDone {
		Te.Error("JOB DONE not detected")
	}
	energy, err := out.Energy()
	if err != nil {
		Te.Fatal(err)
	}
	if energy != -15.79312528 {
		Te.Errorf("Bad final energy: %v", energy)
	}
	if len(out.Energies) != 3 || out.Energies[0] != -15.79066959 {
		Te.Errorf("Bad SCF history: %v", out.Energies)
	}
	if out.Nat != 2 || out.Alat != 10.2631 {
		Te.Errorf("Bad system data: nat %d alat %v", out.Nat, out.Alat)
	}
	if out.Forces == nil || out.Forces.At(0, 2) != 0.000125 || out.Forces.At(1, 2) != -0.000125 {
		Te.Errorf("Bad forces: %v", out.Forces)
	}
	if out.CPUTime != "0.58s" || out.WallTime != "0.64s" {
		Te.Errorf("Bad timings: %s %s", out.CPUTime, out.WallTime)
	}
	fmt.Println("scf energy, Ry:", energy, "in", out.WallTime)
	//the geometry echo, in alat units, is the only one in an scf output
	if len(out.Frames) != 1 || out.PosUnit != "alat" {
		Te.Fatalf("Bad geometry recovery: %d frames, unit %s", len(out.Frames), out.PosUnit)
	}
	mol, err := out.Molecule()
	if err != nil {
		Te.Fatal(err)
	}
	want := 0.25 * 10.2631 * Bohr2A
	if mol.Len() != 2 || math.Abs(mol.Coords[0].At(1, 0)-want) > 1e-6 {
		Te.Errorf("Bad molecule from output: %v, want x %v", mol.Coords[0].At(1, 0), want)
	}
}

func TestOutputRelax(Te *testing.T) {
	out, err := OutputFileRead("test/si.relax.pwo")
	if err != nil {
		Te.Fatal(err)
	}
	if len(out.Frames) != 2 || out.PosUnit != "angstrom" {
		Te.Fatalf("Bad trajectory recovery: %d frames, unit %s", len(out.Frames), out.PosUnit)
	}
	if out.Frames[0].At(0, 2) != 0.01 || out.Frames[1].At(0, 2) != 0 {
		Te.Errorf("Frames out of order: %v %v", out.Frames[0].At(0, 2), out.Frames[1].At(0, 2))
	}
	energy, err := out.Energy()
	if err != nil {
		Te.Fatal(err)
	}
	if energy != -15.79312528 {
		Te.Errorf("Bad final energy: %v", energy)
	}
	mol, err := out.Molecule()
	if err != nil {
		Te.Fatal(err)
	}
	if mol.LenFrames() != 2 || mol.Atom(0).Symbol != "Si" {
		Te.Errorf("Bad molecule from relax output: %d frames", mol.LenFrames())
	}
	//the last force block wins
	if out.Forces.At(0, 2) != 0.000012 {
		Te.Errorf("Forces not from the last block: %v", out.Forces.At(0, 2))
	}
}

func TestOutputUnconverged(Te *testing.T) {
	text := "     Program PWSCF v.7.2 starts\n     iteration #  1\n     total energy              =     -15.1 Ry\n"
	out, err := OutputRead(strings.NewReader(text))
	if err != nil {
		Te.Fatal(err)
	}
	if out.JobDone {
		Te.Error("Truncated run reported as done")
	}
	if _, err := out.Energy(); err == nil {
		Te.Error("Energy of an unconverged run did not error")
	}
	if len(out.Energies) != 1 {
		Te.Errorf("SCF history lost: %v", out.Energies)
	}
}
