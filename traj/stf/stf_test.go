/*
 * stf_test.go, part of goEspresso.
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

package stf

import (
	"fmt"
	"math"
	"path/filepath"
	"testing"

	espresso "github.com/rmera/goespresso"
	v3 "github.com/rmera/goespresso/v3"
)

func frames() []*v3.Matrix {
	a, _ := v3.NewMatrix([]float64{0, 0, 0, 1.3576, 1.3576, 1.3576})
	b, _ := v3.NewMatrix([]float64{0, 0, 0.01, 1.3576, 1.3576, 1.3476})
	return []*v3.Matrix{a, b}
}

//writes and reads back a small relax trajectory, with each compression scheme.
func TestRoundTrip(Te *testing.T) {
	dir := Te.TempDir()
	for _, name := range []string{"si.stf", "si.stf.gz", "si.stfl", "si.stfr"} {
		name = filepath.Join(dir, name)
		cell := []float64{-5.13, 0, 5.13, 0, 5.13, 5.13, -5.13, 5.13, 0}
		w, err := NewWriter(name, 2, map[string]string{"prefix": "si"})
		if err != nil {
			Te.Fatal(err)
		}
		for _, f := range frames() {
			if err := w.WNext(f, cell); err != nil {
				Te.Fatal(err)
			}
		}
		w.Close()
		r, meta, err := New(name)
		if err != nil {
			Te.Fatal(err)
		}
		if r.Len() != 2 || meta["prefix"] != "si" {
			Te.Errorf("%s: bad header: %d atoms, meta %v", name, r.Len(), meta)
		}
		read := 0
		gotcell := make([]float64, 9)
		c := v3.Zeros(2)
		for {
			err := r.Next(c, gotcell)
			if err != nil {
				if _, ok := err.(espresso.LastFrameError); ok {
					break
				}
				Te.Fatal(err)
			}
			want := frames()[read]
			for i := 0; i < 2; i++ {
				for j := 0; j < 3; j++ {
					if math.Abs(c.At(i, j)-want.At(i, j)) > 5e-4 {
						Te.Errorf("%s frame %d: %v, want %v", name, read, c.At(i, j), want.At(i, j))
					}
				}
			}
			if gotcell[3] != 0 || gotcell[4] != 5.13 {
				Te.Errorf("%s: bad cell read back: %v", name, gotcell)
			}
			read++
		}
		if read != 2 {
			Te.Errorf("%s: read %d frames, want 2", name, read)
		}
		fmt.Println(name, "round-tripped", read, "frames")
	}
}

//a caller-given compression level must be usable with every scheme that
//takes one.
func TestCompressionLevel(Te *testing.T) {
	dir := Te.TempDir()
	for _, name := range []string{"fast.stf.gz", "fast.stfr"} {
		name = filepath.Join(dir, name)
		w, err := NewWriter(name, 2, nil, 1)
		if err != nil {
			Te.Fatal(err)
		}
		if err := w.WNext(frames()[0]); err != nil {
			Te.Fatal(err)
		}
		w.Close()
		r, _, err := New(name)
		if err != nil {
			Te.Fatal(err)
		}
		c := v3.Zeros(2)
		if err := r.Next(c); err != nil {
			Te.Fatal(err)
		}
		if math.Abs(c.At(1, 0)-1.3576) > 5e-4 {
			Te.Errorf("%s: bad read back at level 1: %v", name, c.At(1, 0))
		}
		r.Close()
	}
}

func TestBadUse(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "bad.stf")
	w, err := NewWriter(name, 2, nil)
	if err != nil {
		Te.Fatal(err)
	}
	if err := w.WNext(nil); err == nil {
		Te.Error("nil coordinates passed")
	}
	if err := w.WNext(v3.Zeros(5)); err == nil {
		Te.Error("wrong atom count passed")
	}
	w.Close()
	if err := w.WNext(v3.Zeros(2)); err == nil {
		Te.Error("write on a closed trajectory passed")
	}
}
