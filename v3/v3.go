/*
 * v3.go, part of goEspresso.
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

package v3

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

//Matrix is the basic goEspresso matrix type. It is a Nx3, row-major matrix where
//each row holds the cartesian coordinates of one point in 3D space.
type Matrix struct {
	*mat.Dense
}

//Zeros returns a zero-filled Matrix with vecs vectors and 3 in the other dimension.
func Zeros(vecs int) *Matrix {
	const cols int = 3
	f := make([]float64, cols*vecs)
	return &Matrix{mat.NewDense(vecs, cols, f)}
}

//NewMatrix creates and returns a Matrix with the given data. The slice is used
//directly, not copied. It returns an error if the data doesn't have a length
//multiple of 3.
func NewMatrix(data []float64) (*Matrix, error) {
	const cols int = 3
	if len(data)%cols != 0 {
		return nil, Error{fmt.Sprintf("Input slice len %d not divisible by 3", len(data)), []string{"NewMatrix"}, true}
	}
	r := len(data) / cols
	return &Matrix{mat.NewDense(r, cols, data)}, nil
}

//Matrix2Dense returns the gonum Dense matrix underlying A.
func Matrix2Dense(A *Matrix) *mat.Dense {
	return A.Dense
}

//Dense2Matrix wraps the gonum Dense matrix A into a Matrix. It panics if
//A doesn't have 3 columns.
func Dense2Matrix(A *mat.Dense) *Matrix {
	_, c := A.Dims()
	if c != 3 {
		panic("Dense2Matrix: only Nx3 matrices can become v3.Matrix")
	}
	return &Matrix{A}
}

//NVecs returns the number of 3D vectors in the matrix.
func (F *Matrix) NVecs() int {
	r, _ := F.Dims()
	return r
}

//VecView returns a view (not a copy) of the ith vector of the matrix.
func (F *Matrix) VecView(i int) *Matrix {
	return &Matrix{F.Slice(i, i+1, 0, 3).(*mat.Dense)}
}

//View returns a view of F starting at the vector i and spanning r vectors.
func (F *Matrix) View(i, r int) *Matrix {
	return &Matrix{F.Slice(i, i+r, 0, 3).(*mat.Dense)}
}

//SetVec sets the ith vector of the matrix to the first 3 values of data.
//It panics if data has less than 3 elements or i is out of range.
func (F *Matrix) SetVec(i int, data []float64) {
	F.SetRow(i, data[0:3])
}

//SwapVecs swaps the vectors i and j. Panics if either index is out of range.
func (F *Matrix) SwapVecs(i, j int) {
	if i >= F.NVecs() || j >= F.NVecs() {
		panic("SwapVecs: Indexes out of range")
	}
	rowi := F.RawRowView(i)
	rowj := F.RawRowView(j)
	for k := 0; k < 3; k++ {
		rowi[k], rowj[k] = rowj[k], rowi[k]
	}
}

//SetMatrix copies the matrix A into F starting from the position i,j of the receiver.
//Panics if A doesn't fit.
func (F *Matrix) SetMatrix(i, j int, A *Matrix) {
	fr, fc := F.Dims()
	ar, ac := A.Dims()
	if ar+i > fr || ac+j > fc {
		panic(mat.ErrShape)
	}
	for k := 0; k < ar; k++ {
		for l := 0; l < ac; l++ {
			F.Set(i+k, j+l, A.At(k, l))
		}
	}
}

//AddVec adds the 1x3 matrix vec to each vector of A, putting the result in the receiver.
func (F *Matrix) AddVec(A, vec *Matrix) {
	ar, ac := A.Dims()
	rr, rc := vec.Dims()
	fr, fc := F.Dims()
	if ac != rc || rr != 1 || ac != fc || ar != fr {
		panic(mat.ErrShape)
	}
	for i := 0; i < ar; i++ {
		for j := 0; j < 3; j++ {
			F.Set(i, j, A.At(i, j)+vec.At(0, j))
		}
	}
}

//Errors

//Error implements the goEspresso Error interface. The decoration slice
//keeps the names of the functions the error has passed through.
type Error struct {
	message  string
	deco     []string
	critical bool
}

func (err Error) Error() string { return err.message }

//Decorate adds the given string to the decoration slice, and returns the slice.
//If given an empty string, it just returns the current slice.
func (err Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//Critical returns true if the error is critical, false otherwise.
func (err Error) Critical() bool { return err.critical }
