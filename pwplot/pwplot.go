/*
 * pwplot.go, part of goEspresso.
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

//Package pwplot plots the convergence behavior of pw.x runs.
package pwplot

import (
	"fmt"
	"image/color"
	"math"

	espresso "github.com/rmera/goespresso"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

func basicPlot(title, ylabel string) *plot.Plot {
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = "SCF iteration"
	p.Y.Label.Text = ylabel
	p.Add(plotter.NewGrid())
	return p
}

//SCFPlot plots the total energy estimate of each SCF iteration, in Ry,
//and saves it as the PNG file plotname.
func SCFPlot(energies []float64, title, plotname string) error {
	if len(energies) == 0 {
		return fmt.Errorf("pwplot: no energies given")
	}
	pts := make(plotter.XYs, len(energies))
	for i, v := range energies {
		pts[i].X = float64(i + 1)
		pts[i].Y = v
	}
	p := basicPlot(title, "Total energy estimate (Ry)")
	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return err
	}
	line.Color = color.RGBA{B: 255, A: 255}
	points.GlyphStyle.Color = color.RGBA{R: 255, A: 255}
	p.Add(line, points)
	return p.Save(5*vg.Inch, 5*vg.Inch, plotname)
}

//ConvergencePlot plots the distance, in Ry and in logarithmic scale, of
//each SCF iteration's energy to the converged energy of the run, and saves
//it as the PNG file plotname. Iterations already at the converged energy
//are left out.
func ConvergencePlot(out *espresso.Output, title, plotname string) error {
	if out == nil || len(out.Energies) == 0 {
		return fmt.Errorf("pwplot: no energies given")
	}
	final, err := out.Energy()
	if err != nil {
		return err
	}
	pts := make(plotter.XYs, 0, len(out.Energies))
	for i, v := range out.Energies {
		d := math.Abs(v - final)
		if d == 0 {
			continue
		}
		pts = append(pts, plotter.XY{X: float64(i + 1), Y: math.Log10(d)})
	}
	if len(pts) == 0 {
		return fmt.Errorf("pwplot: every iteration is already converged, nothing to plot")
	}
	p := basicPlot(title, "log10 |E - E_final| (Ry)")
	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return err
	}
	line.Color = color.RGBA{B: 255, A: 255}
	points.GlyphStyle.Color = color.RGBA{R: 255, A: 255}
	p.Add(line, points)
	return p.Save(5*vg.Inch, 5*vg.Inch, plotname)
}
