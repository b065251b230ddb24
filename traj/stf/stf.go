/*
 * stf.go, part of goEspresso.
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

//Package stf implements a simple compressed format for the geometry
//trajectories of relax, vc-relax and md runs: a text stream of
//fixed-precision integer coordinates plus a key=value metadata header,
//compressed with a scheme selected by the file name suffix (stf.gz, stf.zst,
//stfl...). Coordinates are in angstrom, cell vectors, when present, in bohr.
package stf

import (
	"bufio"
	"compress/flate"
	"compress/gzip"
	"compress/lzw"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	espresso "github.com/rmera/goespresso"
	v3 "github.com/rmera/goespresso/v3"
)

const lzwLitwidth int = 8

//StfW writes a trajectory, one frame at a time.
type StfW struct {
	f         *os.File
	h         io.WriteCloser
	natoms    int
	filename  string
	writeable bool
	prec      int
}

//NewWriter creates the file name and returns a handle to write frames of
//natoms atoms into it. The metadata in header, if any, is written before the
//first frame; the "prec" key sets the decimals kept per coordinate. The
//compressor is chosen from the last letter of name.
func NewWriter(name string, natoms int, header map[string]string, compressionLevel ...int) (*StfW, error) {
	level := 9
	if len(compressionLevel) > 0 {
		level = compressionLevel[0]
	}
	S := new(StfW)
	var err error
	S.f, err = os.Create(name)
	if err != nil {
		return nil, err
	}
	S.h, err = newCompressor(S.f, name, level)
	if err != nil {
		return nil, Error{"Can't set up compression: " + err.Error(), name, []string{"NewWriter"}, true}
	}
	S.natoms = natoms
	S.filename = name
	S.writeable = true
	S.prec = 3 //enough for the precision pw.x prints positions with
	if header != nil {
		if p, ok := header["prec"]; ok {
			prec, err := strconv.Atoi(p)
			if err == nil {
				S.prec = prec
			} else {
				log.Printf("Invalid precision for trajectory %s. Will use the default", S.filename)
			}
		}
		for k, v := range header {
			fmt.Fprintf(S.h, "%s=%v\n", k, v)
		}
	}
	fmt.Fprintf(S.h, "** %d\n", S.natoms)
	return S, nil
}

//WNext writes coord as the next frame. If given, box (9 numbers, the 3 cell
//vectors) is attached to the frame terminator.
func (S *StfW) WNext(coord *v3.Matrix, box ...[]float64) error {
	if !S.writeable {
		return Error{TrajUnIniWrite, S.filename, []string{"WNext"}, true}
	}
	if coord == nil {
		return Error{NilCoordinates, S.filename, []string{"WNext"}, true}
	}
	v := coord.NVecs()
	if v != S.natoms {
		return Error{fmt.Sprintf("%d coordinates given, but %d expected", v, S.natoms), S.filename, []string{"WNext"}, true}
	}
	var temp [3]int
	var floats [3]float64
	for i := 0; i < v; i++ {
		floats[0] = coord.At(i, 0)
		floats[1] = coord.At(i, 1)
		floats[2] = coord.At(i, 2)
		S.h.Write([]byte(coordsEncode(floats, temp, S.prec)))
	}
	if len(box) > 0 && len(box[0]) >= 9 {
		b := box[0]
		fmt.Fprintf(S.h, "* %8.4f %8.4f %8.4f %8.4f %8.4f %8.4f %8.4f %8.4f %8.4f\n",
			b[0], b[1], b[2], b[3], b[4], b[5], b[6], b[7], b[8])
	} else {
		S.h.Write([]byte("*\n"))
	}
	return nil
}

//Close flushes and closes the trajectory. The handle is unusable afterwards.
func (S *StfW) Close() {
	if S == nil || !S.writeable {
		return
	}
	S.h.Close()
	S.f.Close()
	S.writeable = false
}

//Len returns the number of atoms per frame.
func (S *StfW) Len() int {
	return S.natoms
}

//StfR reads a trajectory written by StfW.
type StfR struct {
	f        *os.File
	comp     io.ReadCloser
	h        *bufio.Reader
	natoms   int
	filename string
	prec     int
	readable bool
}

//New opens the trajectory name for reading and returns the handle plus
//whatever metadata the header carries (nil if none).
func New(name string) (*StfR, map[string]string, error) {
	S := new(StfR)
	S.natoms = -1
	S.filename = name
	S.prec = 3
	var err error
	S.f, err = os.Open(name)
	if err != nil {
		return nil, nil, err
	}
	S.comp, err = newDecompressor(bufio.NewReader(S.f), name)
	if err != nil {
		return nil, nil, Error{"Can't set up decompression: " + err.Error(), S.filename, []string{"New"}, true}
	}
	S.h = bufio.NewReader(S.comp)
	var m map[string]string
	for {
		str, err := S.h.ReadString('\n')
		if err != nil {
			return nil, nil, Error{"Can't read header: " + err.Error(), S.filename, []string{"New"}, true}
		}
		str = strings.TrimSuffix(str, "\n")
		if strings.HasPrefix(str, "**") {
			nat := strings.Fields(str)
			if len(nat) < 2 {
				return nil, nil, Error{"Can't read atom number from " + str, S.filename, []string{"New"}, true}
			}
			S.natoms, err = strconv.Atoi(nat[1])
			if err != nil {
				return nil, nil, Error{"Can't read atom number from " + nat[1], S.filename, []string{"New"}, true}
			}
			break
		}
		kv := strings.SplitN(str, "=", 2)
		if len(kv) != 2 {
			return nil, nil, Error{"Malformed header line: " + str, S.filename, []string{"New"}, true}
		}
		if m == nil {
			m = make(map[string]string)
		}
		m[kv[0]] = kv[1]
	}
	if p, ok := m["prec"]; ok {
		prec, err := strconv.Atoi(p)
		if err == nil {
			S.prec = prec
		} else {
			log.Printf("Invalid precision for trajectory %s. Will assume the default", S.filename)
		}
	}
	S.readable = true
	return S, m, nil
}

//Readable returns true if it is possible to call Next on the handle.
func (S *StfR) Readable() bool {
	return S.readable
}

//Next puts the coordinates of the next frame in c and, if given and
//present, the cell vectors in box. A LastFrameError signals a normally
//ended trajectory, not an actual problem.
func (S *StfR) Next(c *v3.Matrix, box ...[]float64) error {
	if !S.readable {
		return Error{TrajUnIniRead, S.filename, []string{"Next"}, true}
	}
	var temp [3]float64
	for i := 0; i < S.natoms; i++ {
		b, err := S.h.ReadBytes('\n')
		if err != nil {
			if err == io.EOF && i == 0 {
				S.Close()
				return newlastFrameError(S.filename, "Next")
			}
			return Error{err.Error(), S.filename, []string{"Next"}, true}
		}
		if err := coordsDecode(string(b[:len(b)-1]), &temp, S.prec); err != nil {
			return Error{err.Error(), S.filename, []string{"Next"}, true}
		}
		if c == nil {
			continue //frame is checked but discarded
		}
		for j, v := range temp {
			c.Set(i, j, v)
		}
	}
	s, err := S.h.ReadString('\n')
	if err != nil {
		return Error{"Can't read the frame termination mark: " + err.Error(), S.filename, []string{"Next"}, true}
	}
	if s[0] != '*' {
		return Error{WrongFormat + ": bad frame termination mark", S.filename, []string{"Next"}, true}
	}
	if len(box) > 0 && len(box[0]) >= 9 {
		fields := strings.Fields(strings.TrimSpace(s))
		if len(fields) >= 10 { //the "*" plus the 9 numbers
			var errbox error
			for j, v := range fields[1:10] {
				box[0][j], errbox = strconv.ParseFloat(v, 64)
				if errbox != nil {
					break
				}
			}
			if errbox != nil {
				log.Printf("Failed to read the cell in a frame from %s", S.filename)
				for i := range box[0] {
					box[0][i] = 0.0
				}
			}
		} else {
			log.Printf("Trajectory file %s does not contain cell information", S.filename)
		}
	}
	return nil
}

//Close closes the handle, and marks it as unreadable.
func (S *StfR) Close() {
	if !S.readable {
		return
	}
	S.comp.Close()
	S.f.Close()
	S.readable = false
}

//Len returns the number of atoms in each frame of the trajectory.
func (S *StfR) Len() int {
	return S.natoms
}

//NextConc reads as many frames as elements frames has, and returns a slice
//of channels through each of which one of the frames will be transmitted.
func (S *StfR) NextConc(frames []*v3.Matrix) ([]chan *v3.Matrix, error) {
	if !S.Readable() {
		return nil, Error{TrajUnIniRead, S.filename, []string{"NextConc"}, true}
	}
	framechans := make([]chan *v3.Matrix, len(frames))
	for key, v := range frames {
		if err := S.Next(v); err != nil {
			return nil, errDecorate(err, "NextConc")
		}
		framechans[key] = make(chan *v3.Matrix)
		go func(keep *v3.Matrix, pipe chan *v3.Matrix) {
			pipe <- keep
		}(v, framechans[key])
	}
	return framechans, nil
}

//the compression schemes. The suffix letter picks one, zstd is the default.
func newCompressor(a io.Writer, name string, level int) (io.WriteCloser, error) {
	switch strings.ToLower(name)[len(name)-1] {
	case 'l':
		return lzw.NewWriter(a, lzw.MSB, lzwLitwidth), nil
	case 'z':
		return gzip.NewWriterLevel(a, level)
	case 'r':
		return flate.NewWriter(a, level)
	default:
		return zstd.NewWriter(a, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	}
}

func newDecompressor(a io.Reader, name string) (io.ReadCloser, error) {
	switch strings.ToLower(name)[len(name)-1] {
	case 'l':
		return lzw.NewReader(a, lzw.MSB, lzwLitwidth), nil
	case 'z':
		return gzip.NewReader(a)
	case 'r':
		return flate.NewReader(a), nil
	default:
		r, err := zstd.NewReader(a)
		if err != nil {
			return nil, err
		}
		return &zstdql{r.Close, r}, nil
	}
}

//*zstd.Decoder doesn't implement io.ReadCloser, as its Close returns nothing.
type zstdql struct {
	closeql func()
	*zstd.Decoder
}

func (s *zstdql) Close() error {
	s.closeql()
	return nil
}

func coordsEncode(f [3]float64, temp [3]int, prec int) string {
	p := math.Pow(10.0, float64(prec))
	for i, v := range f {
		temp[i] = int(math.RoundToEven(v * p))
	}
	return fmt.Sprintf("%d %d %d\n", temp[0], temp[1], temp[2])
}

func coordsDecode(str string, temp *[3]float64, prec int) error {
	p := math.Pow(10.0, float64(prec))
	s := strings.Fields(str)
	if len(s) != 3 {
		return fmt.Errorf("Ill formated coordinates line in stf: %s", str)
	}
	for i, v := range s {
		f, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("Can't parse coordinate %d (%s): %s", i, v, err.Error())
		}
		temp[i] = float64(f) / p
	}
	return nil
}

//errDecorate asserts that err implements espresso.Error and decorates it
//with the caller's name before returning it.
func errDecorate(err error, caller string) error {
	err2 := err.(espresso.Error)
	err2.Decorate(caller)
	return err2
}

//Error is the general structure for trajectory errors. It fulfills
//espresso.Error and espresso.TrajError.
type Error struct {
	message  string
	filename string //the file that has problems, or empty string if none.
	deco     []string
	critical bool
}

func (err Error) Error() string {
	return fmt.Sprintf("stf file %s error: %s", err.filename, err.message)
}

//Decorate adds new information to the error.
func (E Error) Decorate(deco string) []string {
	//E.deco is a slice, so this works without a pointer receiver.
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

//FileName returns the file to which the failing trajectory was associated.
func (err Error) FileName() string { return err.filename }

//Format returns the format associated to the error (always "stf").
func (err Error) Format() string { return "stf" }

//Critical returns true if the error is critical, false otherwise.
func (err Error) Critical() bool { return err.critical }

const (
	TrajUnIniRead  = "Traj object uninitialized to read"
	TrajUnIniWrite = "Traj object uninitialized to write"
	ReadError      = "Error reading frame"
	UnableToOpen   = "Unable to open file"
	NilCoordinates = "Given nil coordinates"
	WrongFormat    = "Wrong format in the STF file or frame"
)

//lastFrameError implements espresso.LastFrameError.
type lastFrameError struct {
	deco     []string
	fileName string
}

//NormalLastFrameTermination does nothing, it just marks the type.
func (E lastFrameError) NormalLastFrameTermination() {}

func (E lastFrameError) FileName() string { return E.fileName }

func (E lastFrameError) Error() string { return "EOF" }

func (E lastFrameError) Critical() bool { return false }

func (E lastFrameError) Format() string { return "stf" }

func (E lastFrameError) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

func newlastFrameError(filename string, caller string) *lastFrameError {
	e := new(lastFrameError)
	e.fileName = filename
	e.deco = []string{caller}
	return e
}
