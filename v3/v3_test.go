/*
 * v3_test.go, part of goEspresso.
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

package v3

import (
	"fmt"
	"testing"
)

func TestMatrixBasics(Te *testing.T) {
	A, err := NewMatrix([]float64{1, 2, 3, 4, 5, 6})
	if err != nil {
		Te.Error(err)
	}
	if A.NVecs() != 2 {
		Te.Errorf("Wrong number of vectors: %d", A.NVecs())
	}
	A.SwapVecs(0, 1)
	if A.At(0, 0) != 4 || A.At(1, 2) != 3 {
		Te.Error("SwapVecs didn't swap")
	}
	v := A.VecView(1)
	v.Set(0, 0, 10)
	if A.At(1, 0) != 10 {
		Te.Error("VecView is not a view")
	}
	fmt.Println("A after the test", A)
}

func TestAddVec(Te *testing.T) {
	A := Zeros(3)
	vec, err := NewMatrix([]float64{1, -1, 2})
	if err != nil {
		Te.Error(err)
	}
	A.AddVec(A, vec)
	for i := 0; i < 3; i++ {
		if A.At(i, 0) != 1 || A.At(i, 1) != -1 || A.At(i, 2) != 2 {
			Te.Errorf("Wrong vector %d after AddVec", i)
		}
	}
}

func TestBadMatrix(Te *testing.T) {
	_, err := NewMatrix([]float64{1, 2, 3, 4})
	if err == nil {
		Te.Error("NewMatrix accepted a slice with length not divisible by 3")
	}
	fmt.Println("error obtained, as expected:", err.Error())
}
