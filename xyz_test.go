/*
 * xyz_test.go, part of goEspresso.
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
	"strings"
	"testing"
)

func TestXYZRead(Te *testing.T) {
	mol, err := XYZFileRead("test/sample.xyz")
	if err != nil {
		Te.Fatal(err)
	}
	if mol.Len() != 2 || mol.LenFrames() != 2 {
		Te.Fatalf("Bad xyz: %d atoms, %d frames", mol.Len(), mol.LenFrames())
	}
	if mol.Atom(1).Symbol != "Si" || mol.Coords[1].At(1, 2) != 1.34765 {
		Te.Errorf("Bad xyz contents: %v %v", mol.Atom(1), mol.Coords[1].At(1, 2))
	}
	fmt.Println("Read", mol.LenFrames(), "frames of", mol.Len(), "atoms")
}

func TestXYZWrite(Te *testing.T) {
	mol, err := siliconInput().Molecule()
	if err != nil {
		Te.Fatal(err)
	}
	var buf bytes.Buffer
	if err := XYZWrite(&buf, mol.Coords[0], mol); err != nil {
		Te.Fatal(err)
	}
	back, err := XYZRead(&buf)
	if err != nil {
		Te.Fatal(err)
	}
	if back.Len() != 2 || back.Coords[0].At(1, 0) != 1.35765 {
		Te.Errorf("xyz round trip lost data: %v", back.Coords[0].At(1, 0))
	}
}

func TestXYZTruncated(Te *testing.T) {
	_, err := XYZRead(strings.NewReader("3\ncut short\nSi 0.0 0.0 0.0\n"))
	if err == nil {
		Te.Error("Truncated xyz stream passed")
	} else {
		fmt.Println("Truncated xyz caught:", err.Error())
	}
}
