/*
 * phonplot.go, part of goJarvis.
 *
 * Copyright 2022 The goJarvis developers
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

//Package phonplot plots frequency-resolved phonon properties (densities of
//states, spectral heat capacities, spectral thermal conductivities) to PNG
//files.
package phonplot

import (
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

//Series is one named curve over a common frequency grid.
type Series struct {
	Name string
	Y    []float64
}

func basicSpectralPlot(title, ylabel string) *plot.Plot {
	p := plot.New()
	p.Title.Padding = vg.Millimeter * 3
	p.Title.Text = title
	p.X.Label.Text = "Frequency (THz)"
	p.Y.Label.Text = ylabel
	p.Add(plotter.NewGrid())
	return p
}

//xys pairs the frequency grid with one curve, dropping the NaN points the
//DOS-normalized spectral conversions produce where there is no spectral
//weight.
func xys(freqPts, y []float64) (plotter.XYs, error) {
	if len(freqPts) != len(y) {
		return nil, fmt.Errorf("goJarvis/phonplot: curve has %d points, grid has %d", len(y), len(freqPts))
	}
	pts := make(plotter.XYs, 0, len(y))
	for i, v := range y {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		pts = append(pts, plotter.XY{X: freqPts[i], Y: v})
	}
	if len(pts) == 0 {
		return nil, fmt.Errorf("goJarvis/phonplot: curve has no finite points")
	}
	return pts, nil
}

//Spectral plots one spectral property against frequency and saves it as
//plotname.png.
func Spectral(freqPts, spectral []float64, title, ylabel, plotname string) error {
	return SpectralSeries(freqPts, []Series{{Name: "", Y: spectral}}, title, ylabel, plotname)
}

//SpectralSeries plots several spectral properties over a common frequency
//grid in one figure, with a legend entry per named series, and saves it as
//plotname.png.
func SpectralSeries(freqPts []float64, series []Series, title, ylabel, plotname string) error {
	if len(series) == 0 {
		return fmt.Errorf("goJarvis/phonplot.SpectralSeries: nothing to plot")
	}
	p := basicSpectralPlot(title, ylabel)
	for i, s := range series {
		pts, err := xys(freqPts, s.Y)
		if err != nil {
			return err
		}
		l, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		l.Color = plotutil.Color(i)
		p.Add(l)
		if s.Name != "" {
			p.Legend.Add(s.Name, l)
		}
	}
	filename := fmt.Sprintf("%s.png", plotname)
	if err := p.Save(5*vg.Inch, 5*vg.Inch, filename); err != nil {
		return fmt.Errorf("goJarvis/phonplot.SpectralSeries: %v", err)
	}
	return nil
}
