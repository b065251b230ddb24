/*
 * cell.go, part of goEspresso.
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
	"math"

	v3 "github.com/rmera/goespresso/v3"
	"gonum.org/v1/gonum/mat"
)

//CellVectors builds the 3 lattice vectors, in bohr, for the given Bravais
//lattice code and celldm values, following the pw.x conventions. Only the
//codes one actually meets in practice are covered: 1 (sc), 2 (fcc),
//3 (bcc), 4 (hex), 6 (st) and 8 (orthorhombic). For ibrav 0 the cell is
//explicit in the input, so asking this function for it is an error.
func CellVectors(ibrav int, celldm [6]float64) (*v3.Matrix, error) {
	a := celldm[0]
	if a <= 0 {
		return nil, CError{"celldm(1) must be positive", []string{"CellVectors"}}
	}
	var data []float64
	switch ibrav {
	case 1:
		data = []float64{
			a, 0, 0,
			0, a, 0,
			0, 0, a}
	case 2:
		data = []float64{
			-a / 2, 0, a / 2,
			0, a / 2, a / 2,
			-a / 2, a / 2, 0}
	case 3:
		data = []float64{
			a / 2, a / 2, a / 2,
			-a / 2, a / 2, a / 2,
			-a / 2, -a / 2, a / 2}
	case 4:
		c := celldm[2] * a
		if c <= 0 {
			return nil, CError{"ibrav 4 needs celldm(3)", []string{"CellVectors"}}
		}
		data = []float64{
			a, 0, 0,
			-a / 2, a * math.Sqrt(3) / 2, 0,
			0, 0, c}
	case 6:
		c := celldm[2] * a
		if c <= 0 {
			return nil, CError{"ibrav 6 needs celldm(3)", []string{"CellVectors"}}
		}
		data = []float64{
			a, 0, 0,
			0, a, 0,
			0, 0, c}
	case 8:
		b := celldm[1] * a
		c := celldm[2] * a
		if b <= 0 || c <= 0 {
			return nil, CError{"ibrav 8 needs celldm(2) and celldm(3)", []string{"CellVectors"}}
		}
		data = []float64{
			a, 0, 0,
			0, b, 0,
			0, 0, c}
	case 0:
		return nil, CError{"ibrav 0 means the cell comes from CELL_PARAMETERS", []string{"CellVectors"}}
	default:
		return nil, CError{fmt.Sprintf("Bravais lattice code %d not supported", ibrav), []string{"CellVectors"}}
	}
	return v3.NewMatrix(data)
}

//CellVolume returns the volume of the cell spanned by the 3 given vectors,
//in the cube of whatever unit the vectors come in.
func CellVolume(cell *v3.Matrix) float64 {
	return math.Abs(mat.Det(v3.Matrix2Dense(cell)))
}

//Reciprocal returns the reciprocal lattice vectors, 2*pi*(A^-1)^T, of the
//given cell. It fails if the cell vectors are not linearly independent.
func Reciprocal(cell *v3.Matrix) (*v3.Matrix, error) {
	var inv mat.Dense
	if err := inv.Inverse(v3.Matrix2Dense(cell)); err != nil {
		return nil, CError{"Singular cell: " + err.Error(), []string{"Reciprocal"}}
	}
	rec := v3.Zeros(3)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			rec.Set(i, j, 2*math.Pi*inv.At(j, i))
		}
	}
	return rec, nil
}

//Cellvecs gives the lattice vectors, in bohr, declared by the input, whether
//via ibrav/celldm, via A/B/C or via an explicit CELL_PARAMETERS card.
func (in *Input) Cellvecs() (*v3.Matrix, error) {
	s := &in.System
	if s.Ibrav != 0 {
		celldm := s.Celldm
		if celldm[0] == 0 && s.A != 0 {
			//pw.x accepts A, B, C in angstrom as an alternative to celldm
			celldm[0] = s.A * A2Bohr
			if s.B != 0 {
				celldm[1] = s.B / s.A
			}
			if s.C != 0 {
				celldm[2] = s.C / s.A
			}
		}
		cell, err := CellVectors(s.Ibrav, celldm)
		if err != nil {
			return nil, errDecorate(err, "Input.Cellvecs")
		}
		return cell, nil
	}
	if in.Cell == nil {
		return nil, CError{"ibrav 0 but no CELL_PARAMETERS given", []string{"Input.Cellvecs"}}
	}
	vecs := v3.Zeros(3)
	vecs.Copy(in.Cell.Vectors)
	switch in.Cell.Unit {
	case "angstrom":
		vecs.Scale(A2Bohr, vecs.Dense)
	case "bohr", "":
	case "alat":
		if s.Celldm[0] == 0 {
			return nil, CError{"CELL_PARAMETERS in alat units but no celldm(1)", []string{"Input.Cellvecs"}}
		}
		vecs.Scale(s.Celldm[0], vecs.Dense)
	default:
		return nil, CError{"Unknown CELL_PARAMETERS unit " + in.Cell.Unit, []string{"Input.Cellvecs"}}
	}
	return vecs, nil
}
