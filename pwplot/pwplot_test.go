/*
 * pwplot_test.go, part of goEspresso.
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

package pwplot

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	espresso "github.com/rmera/goespresso"
)

func TestPlots(Te *testing.T) {
	out, err := espresso.OutputFileRead("../test/si.scf.pwo")
	if err != nil {
		Te.Fatal(err)
	}
	dir := Te.TempDir()
	scf := filepath.Join(dir, "scf.png")
	if err := SCFPlot(out.Energies, "Si scf", scf); err != nil {
		Te.Fatal(err)
	}
	conv := filepath.Join(dir, "conv.png")
	if err := ConvergencePlot(out, "Si scf convergence", conv); err != nil {
		Te.Fatal(err)
	}
	for _, name := range []string{scf, conv} {
		fi, err := os.Stat(name)
		if err != nil {
			Te.Fatal(err)
		}
		if fi.Size() == 0 {
			Te.Errorf("%s is empty", name)
		}
		fmt.Println("wrote", name, fi.Size(), "bytes")
	}
	if err := SCFPlot(nil, "empty", filepath.Join(dir, "no.png")); err == nil {
		Te.Error("Plotting nothing passed")
	}
}
