/*
 * formats.go, part of goEspresso.
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
	"bytes"
	"io"
	"os"
	"strings"
)

//File types recognized by Filetype and ReadAny.
const (
	TypeUnknown     = ""
	TypeEspressoIn  = "espresso-in"
	TypeEspressoOut = "espresso-out"
	TypeXYZ         = "xyz"
)

//extension to file type. pw.x itself doesn't care about extensions, but
//these are the customary ones.
var extension2type = map[string]string{
	".pwi": TypeEspressoIn,
	".in":  TypeEspressoIn,
	".pwo": TypeEspressoOut,
	".out": TypeEspressoOut,
	".xyz": TypeXYZ,
}

//Filetype guesses what kind of file name is, from the first bytes of its
//contents when possible, falling back to the extension. It returns
//TypeUnknown if neither gives an answer.
func Filetype(name string) (string, error) {
	f, err := os.Open(name)
	if err != nil {
		return TypeUnknown, err
	}
	defer f.Close()
	buf := make([]byte, 8192)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return TypeUnknown, CError{err.Error(), []string{"Filetype"}}
	}
	if t := sniff(buf[:n]); t != TypeUnknown {
		return t, nil
	}
	dot := strings.LastIndex(name, ".")
	if dot >= 0 {
		if t, ok := extension2type[strings.ToLower(name[dot:])]; ok {
			return t, nil
		}
	}
	return TypeUnknown, nil
}

//sniff looks for the magic "naturally occurring" strings of each format: an
//input file has a &control or &system namelist near the top, an output file
//announces the PWSCF program. The leading newline in the namelist magics
//keeps a commented-out namelist in some other file from matching, except at
//the very start of the file.
func sniff(head []byte) string {
	for _, magic := range []string{"&control", "&CONTROL", "&system", "&SYSTEM"} {
		if bytes.HasPrefix(head, []byte(magic)) || bytes.Contains(head, []byte("\n"+magic)) {
			return TypeEspressoIn
		}
	}
	if bytes.Contains(head, []byte("Program PWSCF")) {
		return TypeEspressoOut
	}
	return TypeUnknown
}

//ReadAny reads name, whatever of the three supported formats it is, and
//returns its contents as a Molecule. For an input file the molecule carries
//the single declared geometry, for an output file every geometry the run
//printed.
func ReadAny(name string) (*Molecule, error) {
	t, err := Filetype(name)
	if err != nil {
		return nil, errDecorate(err, "ReadAny")
	}
	var mol *Molecule
	switch t {
	case TypeEspressoIn:
		inp, err := InputFileRead(name)
		if err != nil {
			return nil, errDecorate(err, "ReadAny: "+name)
		}
		mol, err = inp.Molecule()
		if err != nil {
			return nil, errDecorate(err, "ReadAny: "+name)
		}
	case TypeEspressoOut:
		out, err := OutputFileRead(name)
		if err != nil {
			return nil, errDecorate(err, "ReadAny: "+name)
		}
		mol, err = out.Molecule()
		if err != nil {
			return nil, errDecorate(err, "ReadAny: "+name)
		}
	case TypeXYZ:
		mol, err = XYZFileRead(name)
		if err != nil {
			return nil, errDecorate(err, "ReadAny: "+name)
		}
	default:
		return nil, CError{"Can't guess the format of " + name, []string{"ReadAny"}}
	}
	return mol, nil
}
