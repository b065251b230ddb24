/*
 * xyz.go, part of goEspresso.
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
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	v3 "github.com/rmera/goespresso/v3"
)

//XYZFileRead reads an xyz file, including multi-geometry "trajectory" xyz
//files, returning a Molecule with one frame per geometry.
func XYZFileRead(xyzname string) (*Molecule, error) {
	f, err := os.Open(xyzname)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	mol, err := XYZRead(f)
	if err != nil {
		return nil, errDecorate(err, "XYZFileRead: "+xyzname)
	}
	return mol, nil
}

//XYZRead reads xyz-formatted geometries from r. Coordinates are taken to be
//in angstrom, as is the near-universal convention for this format.
func XYZRead(r io.Reader) (*Molecule, error) {
	scanner := bufio.NewScanner(r)
	var top *Topology
	var frames []*v3.Matrix
	for {
		frame, symbols, err := xyzReadFrame(scanner)
		if err != nil {
			if _, ok := err.(LastFrameError); ok {
				break
			}
			return nil, errDecorate(err, "XYZRead")
		}
		if top == nil {
			ats := make([]*Atom, len(symbols))
			for i, s := range symbols {
				ats[i] = &Atom{Name: s, Symbol: s, Mass: symbolMass[s]}
			}
			top, err = NewTopology(ats, 0, 0)
			if err != nil {
				return nil, errDecorate(err, "XYZRead")
			}
		}
		frames = append(frames, frame)
	}
	if top == nil {
		return nil, CError{"Empty xyz stream", []string{"XYZRead"}}
	}
	mol, err := NewMolecule(frames, top)
	if err != nil {
		return nil, errDecorate(err, "XYZRead")
	}
	return mol, nil
}

//xyzReadFrame reads one xyz snapshot. A lastFrameError signals a clean end
//of the stream.
func xyzReadFrame(scanner *bufio.Scanner) (*v3.Matrix, []string, error) {
	if !scanner.Scan() {
		return nil, nil, newlastFrameError("", "xyzReadFrame")
	}
	natline := strings.TrimSpace(scanner.Text())
	if natline == "" {
		return nil, nil, newlastFrameError("", "xyzReadFrame")
	}
	nat, err := strconv.Atoi(natline)
	if err != nil {
		return nil, nil, CError{"Malformed atom-count line: " + natline, []string{"xyzReadFrame"}}
	}
	if !scanner.Scan() { //the comment line
		return nil, nil, CError{"xyz stream truncated at comment line", []string{"xyzReadFrame"}}
	}
	symbols := make([]string, 0, nat)
	data := make([]float64, 0, 3*nat)
	for i := 0; i < nat; i++ {
		if !scanner.Scan() {
			return nil, nil, CError{"xyz stream truncated at atom " + strconv.Itoa(i), []string{"xyzReadFrame"}}
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) < 4 {
			return nil, nil, CError{"Malformed xyz line: " + scanner.Text(), []string{"xyzReadFrame"}}
		}
		cs, err := parseFloats(fields[1:4])
		if err != nil {
			return nil, nil, errDecorate(err, "xyzReadFrame")
		}
		symbols = append(symbols, fields[0])
		data = append(data, cs...)
	}
	frame, err := v3.NewMatrix(data)
	if err != nil {
		return nil, nil, errDecorate(err, "xyzReadFrame")
	}
	return frame, symbols, nil
}

//XYZFileWrite writes mol with coordinates Coords (angstrom) to the file
//xyzname in xyz format.
func XYZFileWrite(xyzname string, Coords *v3.Matrix, mol Atomer) error {
	f, err := os.Create(xyzname)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := XYZWrite(f, Coords, mol); err != nil {
		return errDecorate(err, "XYZFileWrite: "+xyzname)
	}
	return nil
}

//XYZWrite writes one xyz snapshot of mol, with coordinates Coords in
//angstrom, to out.
func XYZWrite(out io.Writer, Coords *v3.Matrix, mol Atomer) error {
	if Coords == nil || mol == nil {
		return CError{"Nil data given", []string{"XYZWrite"}}
	}
	if mol.Len() != Coords.NVecs() {
		return CError{"Coordinate and atom numbers don't match", []string{"XYZWrite"}}
	}
	if _, err := fmt.Fprintf(out, "%-4d\n\n", mol.Len()); err != nil {
		return CError{err.Error(), []string{"XYZWrite"}}
	}
	for i := 0; i < mol.Len(); i++ {
		_, err := fmt.Fprintf(out, "%-2s  %12.6f%12.6f%12.6f\n",
			mol.Atom(i).Symbol, Coords.At(i, 0), Coords.At(i, 1), Coords.At(i, 2))
		if err != nil {
			return CError{err.Error(), []string{"XYZWrite"}}
		}
	}
	return nil
}
