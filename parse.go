/*
 * parse.go, part of goEspresso.
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
	"log"
	"os"
	"strconv"
	"strings"

	v3 "github.com/rmera/goespresso/v3"
	"golang.org/x/exp/slices"
)

//The reader is tolerant, in the spirit of the Fortran namelist readers that
//will consume these files: keys are case-insensitive, commas after values are
//optional, strings can use single or double quotes, reals can carry d/D
//exponents and comments start with ! or #. Card headers can write their
//option bare, in parentheses or in braces.

//InputFileRead reads the pw.x input file inpname.
func InputFileRead(inpname string) (*Input, error) {
	f, err := os.Open(inpname)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	in, err := InputRead(f)
	if err != nil {
		return nil, errDecorate(err, "InputFileRead: "+inpname)
	}
	return in, nil
}

//InputRead reads a pw.x input from r.
func InputRead(r io.Reader) (*Input, error) {
	lines := make([]string, 0, 30)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, stripComment(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, CError{err.Error(), []string{"InputRead"}}
	}
	in := new(Input)
	for i := 0; i < len(lines); {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			i++
			continue
		}
		if strings.HasPrefix(line, "&") {
			var err error
			i, err = in.parseNamelist(lines, i)
			if err != nil {
				return nil, errDecorate(err, "InputRead")
			}
			continue
		}
		if card, option, ok := cardHeader(line); ok {
			var err error
			i, err = in.parseCard(lines, i+1, card, option)
			if err != nil {
				return nil, errDecorate(err, "InputRead")
			}
			continue
		}
		return nil, CError{fmt.Sprintf("Line %d not understood: %s", i+1, line), []string{"InputRead"}}
	}
	return in, nil
}

//stripComment removes a trailing !- or #-comment. Comment marks inside
//quoted strings are data, not comments.
func stripComment(line string) string {
	var quote byte
	for i := 0; i < len(line); i++ {
		c := line[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
		case '!', '#':
			return line[:i]
		}
	}
	return line
}

//cardHeader recognizes the card headers and returns the card name and its
//option (unit or mode), cleaned of parentheses and braces.
func cardHeader(line string) (string, string, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", "", false
	}
	card := strings.ToUpper(fields[0])
	if !slices.Contains([]string{"ATOMIC_SPECIES", "ATOMIC_POSITIONS", "K_POINTS", "CELL_PARAMETERS"}, card) {
		return "", "", false
	}
	option := ""
	if len(fields) > 1 {
		option = strings.ToLower(strings.Trim(fields[1], "(){}"))
	}
	return card, option, true
}

//parseNamelist consumes one &NAME ... / block starting at line i, and
//returns the index of the first line after it. Namelists this library
//doesn't model (&CELL, &FCP...) are skipped with a head-up.
func (in *Input) parseNamelist(lines []string, i int) (int, error) {
	name := strings.ToLower(strings.TrimPrefix(strings.Fields(strings.TrimSpace(lines[i]))[0], "&"))
	if !slices.Contains([]string{"control", "system", "electrons", "ions"}, name) {
		log.Printf("goEspresso doesn't model the namelist &%s, its contents will be dropped", name)
		for i++; i < len(lines); i++ {
			if strings.TrimSpace(lines[i]) == "/" {
				return i + 1, nil
			}
		}
		return i, CError{fmt.Sprintf("Namelist &%s never closed", name), []string{"parseNamelist"}}
	}
	for i++; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "/" || line == "&end" || line == "/end" {
			return i + 1, nil
		}
		if line == "" {
			continue
		}
		for _, assign := range splitAssignments(line) {
			kv := strings.SplitN(assign, "=", 2)
			if len(kv) != 2 {
				return i, CError{fmt.Sprintf("Ill-formed line in &%s: %s", name, line), []string{"parseNamelist"}}
			}
			key := strings.ToLower(strings.TrimSpace(kv[0]))
			val := strings.TrimSpace(kv[1])
			if err := in.assign(name, key, val); err != nil {
				return i, errDecorate(err, "parseNamelist")
			}
		}
	}
	return i, CError{fmt.Sprintf("Namelist &%s never closed", name), []string{"parseNamelist"}}
}

//splitAssignments splits "a=1, b=2," into the individual assignments,
//respecting quoted strings.
func splitAssignments(line string) []string {
	ret := make([]string, 0, 2)
	var quote byte
	start := 0
	for i := 0; i < len(line); i++ {
		c := line[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
		case ',':
			if s := strings.TrimSpace(line[start:i]); s != "" {
				ret = append(ret, s)
			}
			start = i + 1
		}
	}
	if s := strings.TrimSpace(line[start:]); s != "" {
		ret = append(ret, s)
	}
	return ret
}

func fortParseString(val string) string {
	return strings.Trim(val, `'"`)
}

func fortParseBool(val string) (bool, error) {
	switch strings.ToLower(strings.Trim(val, ".")) {
	case "true", "t":
		return true, nil
	case "false", "f":
		return false, nil
	}
	return false, CError{"Not a Fortran logical: " + val, []string{"fortParseBool"}}
}

func fortParseReal(val string) (float64, error) {
	val = strings.NewReplacer("d", "e", "D", "e").Replace(val)
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, CError{"Not a Fortran real: " + val, []string{"fortParseReal"}}
	}
	return f, nil
}

func (in *Input) assign(namelist, key, val string) error {
	var err error
	switch namelist {
	case "control":
		err = in.assignControl(key, val)
	case "system":
		err = in.assignSystem(key, val)
	case "electrons":
		err = in.assignElectrons(key, val)
	case "ions":
		c := &in.Ions
		switch key {
		case "ion_dynamics":
			c.IonDynamics = fortParseString(val)
		default:
			if c.Extra == nil {
				c.Extra = make(map[string]string)
			}
			c.Extra[key] = val
		}
	}
	if err != nil {
		return errDecorate(err, "assign: "+key)
	}
	return nil
}

func (in *Input) assignControl(key, val string) error {
	var err error
	c := &in.Control
	switch key {
	case "calculation":
		c.Calculation = fortParseString(val)
	case "title":
		c.Title = fortParseString(val)
	case "prefix":
		c.Prefix = fortParseString(val)
	case "restart_mode":
		c.RestartMode = fortParseString(val)
	case "pseudo_dir":
		c.PseudoDir = fortParseString(val)
	case "outdir":
		c.Outdir = fortParseString(val)
	case "nstep":
		c.Nstep, err = strconv.Atoi(val)
	case "tprnfor":
		c.Tprnfor, err = fortParseBool(val)
	case "tstress":
		c.Tstress, err = fortParseBool(val)
	case "etot_conv_thr":
		c.EtotConvThr, err = fortParseReal(val)
	case "forc_conv_thr":
		c.ForcConvThr, err = fortParseReal(val)
	default:
		if c.Extra == nil {
			c.Extra = make(map[string]string)
		}
		c.Extra[key] = val
	}
	return err
}

func (in *Input) assignSystem(key, val string) error {
	var err error
	c := &in.System
	if strings.HasPrefix(key, "celldm(") && strings.HasSuffix(key, ")") {
		var ind int
		ind, err = strconv.Atoi(key[7 : len(key)-1])
		if err != nil || ind < 1 || ind > 6 {
			return CError{"Bad celldm index in " + key, []string{"assignSystem"}}
		}
		c.Celldm[ind-1], err = fortParseReal(val)
		return err
	}
	switch key {
	case "ibrav":
		c.Ibrav, err = strconv.Atoi(val)
	case "a":
		c.A, err = fortParseReal(val)
	case "b":
		c.B, err = fortParseReal(val)
	case "c":
		c.C, err = fortParseReal(val)
	case "nat":
		c.Nat, err = strconv.Atoi(val)
	case "ntyp":
		c.Ntyp, err = strconv.Atoi(val)
	case "ecutwfc":
		c.Ecutwfc, err = fortParseReal(val)
	case "ecutrho":
		c.Ecutrho, err = fortParseReal(val)
	case "occupations":
		c.Occupations = fortParseString(val)
	case "smearing":
		c.Smearing = fortParseString(val)
	case "degauss":
		c.Degauss, err = fortParseReal(val)
	case "nspin":
		c.Nspin, err = strconv.Atoi(val)
	case "tot_charge":
		c.TotCharge, err = fortParseReal(val)
	case "assume_isolated":
		c.AssumeIsolated = fortParseString(val)
	case "nosym":
		c.Nosym, err = fortParseBool(val)
	default:
		if c.Extra == nil {
			c.Extra = make(map[string]string)
		}
		c.Extra[key] = val
	}
	return err
}

func (in *Input) assignElectrons(key, val string) error {
	var err error
	c := &in.Electrons
	switch key {
	case "conv_thr":
		c.ConvThr, err = fortParseReal(val)
	case "mixing_beta":
		c.MixingBeta, err = fortParseReal(val)
	case "mixing_mode":
		c.MixingMode = fortParseString(val)
	case "diagonalization":
		c.Diagonalization = fortParseString(val)
	case "electron_maxstep":
		c.ElectronMaxstep, err = strconv.Atoi(val)
	default:
		if c.Extra == nil {
			c.Extra = make(map[string]string)
		}
		c.Extra[key] = val
	}
	return err
}

//parseCard consumes one card's data lines starting at i and returns the
//index of the first line after them. Data rows are recognized by shape,
//so the counts in &SYSTEM are not needed at this point.
func (in *Input) parseCard(lines []string, i int, card, option string) (int, error) {
	switch card {
	case "ATOMIC_SPECIES":
		for ; i < len(lines); i++ {
			fields := strings.Fields(lines[i])
			if len(fields) == 0 {
				continue
			}
			if len(fields) != 3 {
				break
			}
			mass, err := fortParseReal(fields[1])
			if err != nil {
				break
			}
			in.Species = append(in.Species, Species{Symbol: fields[0], Mass: mass, Pseudo: fields[2]})
		}
		return i, nil
	case "ATOMIC_POSITIONS":
		if option == "" {
			option = "alat"
		}
		pos := &Positions{Unit: option}
		data := make([]float64, 0, 30)
		for ; i < len(lines); i++ {
			fields := strings.Fields(lines[i])
			if len(fields) == 0 {
				continue
			}
			if len(fields) < 4 {
				break
			}
			cs, err := parseFloats(fields[1:4])
			if err != nil {
				break
			}
			pos.Symbols = append(pos.Symbols, fields[0])
			data = append(data, cs...)
		}
		if len(pos.Symbols) == 0 {
			return i, CError{"Empty ATOMIC_POSITIONS card", []string{"parseCard"}}
		}
		var err error
		pos.Coords, err = v3.NewMatrix(data)
		if err != nil {
			return i, errDecorate(err, "parseCard")
		}
		in.Positions = pos
		return i, nil
	case "K_POINTS":
		if option == "" {
			option = "tpiba"
		}
		k := &KPoints{Mode: option}
		in.KPoints = k
		switch option {
		case "gamma":
			return i, nil
		case "automatic":
			for ; i < len(lines); i++ {
				fields := strings.Fields(lines[i])
				if len(fields) == 0 {
					continue
				}
				if len(fields) < 6 {
					return i, CError{"automatic K_POINTS need 6 integers", []string{"parseCard"}}
				}
				for j := 0; j < 6; j++ {
					v, err := strconv.Atoi(fields[j])
					if err != nil {
						return i, CError{"Bad K_POINTS integer: " + fields[j], []string{"parseCard"}}
					}
					if j < 3 {
						k.Grid[j] = v
					} else {
						k.Shift[j-3] = v
					}
				}
				return i + 1, nil
			}
			return i, CError{"automatic K_POINTS without a grid line", []string{"parseCard"}}
		default:
			nk := -1
			for ; i < len(lines); i++ {
				fields := strings.Fields(lines[i])
				if len(fields) == 0 {
					continue
				}
				if nk < 0 {
					var err error
					nk, err = strconv.Atoi(fields[0])
					if err != nil {
						return i, CError{"Bad k-point count: " + fields[0], []string{"parseCard"}}
					}
					continue
				}
				if len(fields) < 4 {
					return i, CError{"Ill-formed k-point row: " + lines[i], []string{"parseCard"}}
				}
				cs, err := parseFloats(fields[0:4])
				if err != nil {
					return i, errDecorate(err, "parseCard")
				}
				k.List = append(k.List, [4]float64{cs[0], cs[1], cs[2], cs[3]})
				if len(k.List) == nk {
					return i + 1, nil
				}
			}
			return i, CError{fmt.Sprintf("K_POINTS list ended after %d of %d points", len(k.List), nk), []string{"parseCard"}}
		}
	case "CELL_PARAMETERS":
		if option == "" {
			option = "alat"
		}
		data := make([]float64, 0, 9)
		for ; i < len(lines) && len(data) < 9; i++ {
			fields := strings.Fields(lines[i])
			if len(fields) == 0 {
				continue
			}
			if len(fields) < 3 {
				return i, CError{"Ill-formed CELL_PARAMETERS row: " + lines[i], []string{"parseCard"}}
			}
			cs, err := parseFloats(fields[0:3])
			if err != nil {
				return i, errDecorate(err, "parseCard")
			}
			data = append(data, cs...)
		}
		if len(data) < 9 {
			return i, CError{"CELL_PARAMETERS needs 3 vectors", []string{"parseCard"}}
		}
		vecs, err := v3.NewMatrix(data)
		if err != nil {
			return i, errDecorate(err, "parseCard")
		}
		in.Cell = &CellParameters{Unit: option, Vectors: vecs}
		return i, nil
	}
	return i, CError{"Unknown card " + card, []string{"parseCard"}}
}

func parseFloats(fields []string) ([]float64, error) {
	ret := make([]float64, len(fields))
	var err error
	for i, v := range fields {
		ret[i], err = fortParseReal(v)
		if err != nil {
			return nil, err
		}
	}
	return ret, nil
}
