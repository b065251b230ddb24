/*
 * cell_test.go, part of goEspresso.
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
	"testing"

	v3 "github.com/rmera/goespresso/v3"
)

func TestCellVectors(Te *testing.T) {
	a := 10.2631
	sc, err := CellVectors(1, [6]float64{a})
	if err != nil {
		Te.Fatal(err)
	}
	if sc.At(0, 0) != a || sc.At(1, 1) != a || sc.At(0, 1) != 0 {
		Te.Errorf("Bad simple cubic cell: %v", sc)
	}
	if v := CellVolume(sc); math.Abs(v-a*a*a) > 1e-8 {
		Te.Errorf("Bad sc volume: %v", v)
	}
	fcc, err := CellVectors(2, [6]float64{a})
	if err != nil {
		Te.Fatal(err)
	}
	if fcc.At(0, 0) != -a/2 || fcc.At(0, 1) != 0 || fcc.At(1, 1) != a/2 {
		Te.Errorf("Bad fcc cell: %v", fcc)
	}
	if v := CellVolume(fcc); math.Abs(v-a*a*a/4) > 1e-8 {
		Te.Errorf("Bad fcc volume: %v", v)
	}
	fmt.Println("fcc cell volume, bohr^3:", CellVolume(fcc))
	if _, err := CellVectors(4, [6]float64{a}); err == nil {
		Te.Error("Hexagonal cell without c/a passed")
	}
	if _, err := CellVectors(14, [6]float64{a}); err == nil {
		Te.Error("Unsupported ibrav passed")
	}
}

//For any cell, cell_i . reciprocal_j must be 2 pi delta_ij.
func TestReciprocal(Te *testing.T) {
	a := 10.2631
	cell, err := CellVectors(2, [6]float64{a})
	if err != nil {
		Te.Fatal(err)
	}
	rec, err := Reciprocal(cell)
	if err != nil {
		Te.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			dot := 0.0
			for k := 0; k < 3; k++ {
				dot += cell.At(i, k) * rec.At(j, k)
			}
			want := 0.0
			if i == j {
				want = 2 * math.Pi
			}
			if math.Abs(dot-want) > 1e-10 {
				Te.Errorf("cell(%d).reciprocal(%d) = %v, want %v", i, j, dot, want)
			}
		}
	}
}

func TestInputCellvecs(Te *testing.T) {
	//from ibrav/celldm
	cell, err := siliconInput().Cellvecs()
	if err != nil {
		Te.Fatal(err)
	}
	if cell.At(0, 0) != -10.2631/2 {
		Te.Errorf("Bad cell from celldm: %v", cell.At(0, 0))
	}
	//from A, in angstrom
	in := siliconInput()
	in.System.Celldm = [6]float64{}
	in.System.Ibrav = 1
	in.System.A = 5.0
	cell, err = in.Cellvecs()
	if err != nil {
		Te.Fatal(err)
	}
	if math.Abs(cell.At(0, 0)-5.0*A2Bohr) > 1e-10 {
		Te.Errorf("Bad cell from A: %v", cell.At(0, 0))
	}
	//explicit CELL_PARAMETERS, in angstrom
	in = siliconInput()
	in.System.Ibrav = 0
	in.System.Celldm = [6]float64{}
	vecs, _ := v3.NewMatrix([]float64{5, 0, 0, 0, 5, 0, 0, 0, 5})
	in.Cell = &CellParameters{Unit: "angstrom", Vectors: vecs}
	cell, err = in.Cellvecs()
	if err != nil {
		Te.Fatal(err)
	}
	if math.Abs(cell.At(2, 2)-5.0*A2Bohr) > 1e-10 {
		Te.Errorf("Bad explicit cell: %v", cell.At(2, 2))
	}
}
