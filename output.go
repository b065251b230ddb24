/*
 * output.go, part of goEspresso.
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
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	v3 "github.com/rmera/goespresso/v3"
)

//Output holds what this library recovers from a pw.x output file.
//Energies are in Ry, as printed, forces in Ry/bohr. Geometry frames keep
//the unit pw.x printed them in (PosUnit), which is angstrom for the usual
//relax/md settings and alat for the initial positions echo.
type Output struct {
	Energies    []float64    //the "total energy" estimate of each SCF iteration
	FinalEnergy float64      //the last "!"-marked, converged, total energy
	final       bool         //was any "!" line actually found?
	Forces      *v3.Matrix   //the last force block found, if any
	Frames      []*v3.Matrix //one per geometry printed (several for relax/md runs)
	PosUnit     string
	Symbols     []string
	Nat         int
	Alat        float64 //lattice parameter, bohr
	JobDone     bool
	CPUTime     string
	WallTime    string
}

//OutputFileRead reads the pw.x output file outname.
func OutputFileRead(outname string) (*Output, error) {
	f, err := os.Open(outname)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	O, err := OutputRead(f)
	if err != nil {
		return nil, errDecorate(err, "OutputFileRead: "+outname)
	}
	return O, nil
}

//OutputRead reads a pw.x output from r. Failing to understand a line is not
//an error: pw.x outputs are chatty and versions vary, so this function takes
//what it recognizes and moves on.
func OutputRead(r io.Reader) (*Output, error) {
	O := new(Output)
	O.Alat = 1 //so an absent "lattice parameter" line doesn't zero alat geometries
	scanner := bufio.NewScanner(r)
	lines := make([]string, 0, 1000)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, CError{err.Error(), []string{"OutputRead"}}
	}
	var tauSymbols []string
	var tauCoords []float64
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		fields := strings.Fields(line)
		switch {
		case len(fields) == 0:
			continue
		case fields[0] == "!" && strings.Contains(line, "total energy"):
			if len(fields) >= 5 {
				if e, err := strconv.ParseFloat(fields[4], 64); err == nil {
					O.FinalEnergy = e
					O.final = true
				}
			}
		case strings.Contains(line, "total energy") && fields[0] == "total":
			if len(fields) >= 4 {
				if e, err := strconv.ParseFloat(fields[3], 64); err == nil {
					O.Energies = append(O.Energies, e)
				}
			}
		case strings.Contains(line, "number of atoms/cell"):
			O.Nat, _ = strconv.Atoi(fields[len(fields)-1])
		case strings.Contains(line, "lattice parameter (alat)"):
			if len(fields) >= 5 {
				if a, err := strconv.ParseFloat(fields[4], 64); err == nil {
					O.Alat = a
				}
			}
		case strings.Contains(line, "Forces acting on atoms"):
			i = O.readForces(lines, i+1)
		case strings.HasPrefix(strings.TrimSpace(line), "ATOMIC_POSITIONS"):
			i = O.readPositions(lines, i)
		case strings.Contains(line, "tau(") && len(fields) >= 9:
			//the echo of the starting geometry, in alat units:
			//  1   Si  tau(   1) = (   0.0000000   0.0000000   0.0000000  )
			cs, err := parseFloats(fields[6:9])
			if err == nil {
				tauSymbols = append(tauSymbols, fields[1])
				tauCoords = append(tauCoords, cs...)
			}
		case strings.Contains(line, "JOB DONE"):
			O.JobDone = true
		case fields[0] == "PWSCF" && strings.Contains(line, "WALL"):
			if len(fields) >= 6 {
				O.CPUTime = fields[2]
				O.WallTime = fields[4]
			}
		}
	}
	//If the run never re-printed the geometry (plain scf), the starting echo
	//is the only one we have.
	if len(O.Frames) == 0 && len(tauSymbols) > 0 {
		frame, err := v3.NewMatrix(tauCoords)
		if err == nil {
			O.Frames = append(O.Frames, frame)
			O.Symbols = tauSymbols
			O.PosUnit = "alat"
		}
	}
	if len(O.Energies) == 0 && !O.final {
		return O, CError{"Output contains no energies", []string{"OutputRead"}}
	}
	return O, nil
}

//readForces consumes one force block and returns the index of its last line.
func (O *Output) readForces(lines []string, i int) int {
	data := make([]float64, 0, 30)
	started := false
	for ; i < len(lines); i++ {
		fields := strings.Fields(lines[i])
		if len(fields) == 0 {
			if started {
				break
			}
			continue
		}
		if fields[0] != "atom" || len(fields) < 9 {
			if started {
				break
			}
			continue
		}
		cs, err := parseFloats(fields[6:9])
		if err != nil {
			break
		}
		data = append(data, cs...)
		started = true
	}
	forces, err := v3.NewMatrix(data)
	if err != nil {
		log.Printf("Ill-formed force block in pw.x output, forces discarded")
		return i - 1
	}
	O.Forces = forces
	return i - 1
}

//readPositions consumes one ATOMIC_POSITIONS block and returns the index of
//its last line.
func (O *Output) readPositions(lines []string, i int) int {
	_, unit, ok := cardHeader(strings.TrimSpace(lines[i]))
	if !ok {
		return i
	}
	symbols := make([]string, 0, O.Nat)
	data := make([]float64, 0, 3*O.Nat)
	for i++; i < len(lines); i++ {
		fields := strings.Fields(lines[i])
		if len(fields) < 4 {
			break
		}
		cs, err := parseFloats(fields[1:4])
		if err != nil {
			break
		}
		symbols = append(symbols, fields[0])
		data = append(data, cs...)
	}
	frame, err := v3.NewMatrix(data)
	if err != nil || len(symbols) == 0 {
		log.Printf("Ill-formed ATOMIC_POSITIONS block in pw.x output, frame discarded")
		return i - 1
	}
	O.Frames = append(O.Frames, frame)
	if O.Symbols == nil {
		O.Symbols = symbols
		O.PosUnit = unit
	}
	return i - 1
}

//Energy returns the converged total energy, in Ry. It returns an error if no
//"!"-marked energy was printed, i.e. if no SCF cycle ever converged.
func (O *Output) Energy() (float64, error) {
	if !O.final {
		return 0, CError{"No converged energy in output", []string{"Output.Energy"}}
	}
	return O.FinalEnergy, nil
}

//Molecule assembles the geometries recovered from the output into a
//Molecule, with coordinates in angstrom. Masses are filled from the
//internal table. Frames in crystal units are rejected, converting those
//takes the cell, which callers get from the matching input instead.
func (O *Output) Molecule() (*Molecule, error) {
	if len(O.Frames) == 0 {
		return nil, CError{"Output contains no geometries", []string{"Output.Molecule"}}
	}
	var factor float64
	switch O.PosUnit {
	case "angstrom", "":
		factor = 1
	case "bohr":
		factor = Bohr2A
	case "alat":
		factor = O.Alat * Bohr2A
	default:
		return nil, CError{"Can't convert positions from unit " + O.PosUnit, []string{"Output.Molecule"}}
	}
	ats := make([]*Atom, len(O.Symbols))
	for i, s := range O.Symbols {
		//relax outputs can carry fixed-coordinate flags after the symbol, and
		//species labels can carry numbers (Si1); the symbol proper is the leading letters.
		sym := strings.TrimRight(s, "0123456789")
		ats[i] = &Atom{Name: s, Symbol: sym, Mass: symbolMass[sym]}
	}
	top, err := NewTopology(ats, 0, 0)
	if err != nil {
		return nil, errDecorate(err, "Output.Molecule")
	}
	frames := make([]*v3.Matrix, len(O.Frames))
	for i, f := range O.Frames {
		nf := v3.Zeros(f.NVecs())
		nf.Scale(factor, f)
		frames[i] = nf
	}
	mol, err := NewMolecule(frames, top)
	if err != nil {
		return nil, errDecorate(err, "Output.Molecule")
	}
	return mol, nil
}
