/*
 * spectral.go, part of goJarvis.
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

package phonopy

import (
	"fmt"
	"math"

	jarvis "github.com/RamyaGuru/jarvis"
)

//Spectral conversion of per-mode quantities. The external tools obtain the
//delta-function weights from tetrahedron-method integration; reimplementing
//that method is out of scope here, so the projection onto the frequency grid
//uses Gaussian smearing (which the same tools also offer). With a smearing
//width around the grid spacing the two agree closely for smooth quantities.

//gaussian returns a normalized Gaussian delta of width sigma evaluated at x.
func gaussian(x, sigma float64) float64 {
	return math.Exp(-x*x/(2*sigma*sigma)) / (sigma * math.Sqrt(2*math.Pi))
}

//AutoSigma returns a smearing width suited to the given frequency grid: two
//grid spacings, the usual compromise between resolution and smoothness.
func AutoSigma(freqPts []float64) float64 {
	if len(freqPts) < 2 {
		panic("goJarvis/phonopy: can't pick a smearing width for less than 2 frequency points")
	}
	return 2 * (freqPts[len(freqPts)-1] - freqPts[0]) / float64(len(freqPts)-1)
}

//checkModeProp verifies that prop is shaped like the mesh modes.
func (m *Mesh) checkModeProp(prop [][]float64) error {
	if len(prop) != m.NQpoints() {
		return fmt.Errorf("goJarvis/phonopy: mode property has %d q-points, mesh has %d", len(prop), m.NQpoints())
	}
	for iq := range prop {
		if len(prop[iq]) != m.NBands() {
			return fmt.Errorf("goJarvis/phonopy: mode property q-point %d has %d bands, mesh has %d", iq, len(prop[iq]), m.NBands())
		}
	}
	return nil
}

//ModeToSpectralWtd converts a per-mode property to a spectral property,
//weighting every mode by the multiplicity of its q-point. The DOS-weighting
//is required for extensive quantities such as the heat capacity: integrating
//the result over frequency recovers the weighted sum over all modes.
//A sigma <= 0 selects AutoSigma(freqPts).
func (m *Mesh) ModeToSpectralWtd(prop [][]float64, freqPts []float64, sigma float64) ([]float64, error) {
	if err := m.checkModeProp(prop); err != nil {
		return nil, err
	}
	if sigma <= 0 {
		sigma = AutoSigma(freqPts)
	}
	spectral := make([]float64, len(freqPts))
	for iq, qf := range m.freqs {
		w := m.weights[iq]
		for ib, f := range qf {
			p := prop[iq][ib] * w
			if p == 0 {
				continue
			}
			for i, fp := range freqPts {
				spectral[i] += p * gaussian(fp-f, sigma)
			}
		}
	}
	return spectral, nil
}

//ModeToSpectralUnwtd converts a per-mode property to a spectral property
//without the q-point multiplicity weights. This is the right conversion for
//quantities that already carry the weights, like phono3py's mode_kappa.
func (m *Mesh) ModeToSpectralUnwtd(prop [][]float64, freqPts []float64, sigma float64) ([]float64, error) {
	if err := m.checkModeProp(prop); err != nil {
		return nil, err
	}
	if sigma <= 0 {
		sigma = AutoSigma(freqPts)
	}
	spectral := make([]float64, len(freqPts))
	for iq, qf := range m.freqs {
		for ib, f := range qf {
			p := prop[iq][ib]
			if p == 0 {
				continue
			}
			for i, fp := range freqPts {
				spectral[i] += p * gaussian(fp-f, sigma)
			}
		}
	}
	return spectral, nil
}

//ModeToSpectral converts a per-mode property to a spectral property
//normalized by the projected density of states, i.e. a DOS-weighted average
//of the property at each frequency. This is the conversion for intensive
//quantities such as linewidths and squared group velocities, which must not
//be scaled by the DOS.
func (m *Mesh) ModeToSpectral(prop [][]float64, freqPts []float64, sigma float64) ([]float64, error) {
	wtd, err := m.ModeToSpectralWtd(prop, freqPts, sigma)
	if err != nil {
		return nil, err
	}
	ones := make([][]float64, m.NQpoints())
	for iq := range ones {
		ones[iq] = make([]float64, m.NBands())
		for ib := range ones[iq] {
			ones[iq][ib] = 1
		}
	}
	dos, err := m.ModeToSpectralWtd(ones, freqPts, sigma)
	if err != nil {
		return nil, err
	}
	for i := range wtd {
		wtd[i] /= dos[i] //zero DOS yields NaN, which callers filter out
	}
	return wtd, nil
}

//DOS returns the smeared total density of states on the given grid, which is
//also the normalization used by ModeToSpectral.
func (m *Mesh) DOS(freqPts []float64, sigma float64) []float64 {
	ones := make([][]float64, m.NQpoints())
	for iq := range ones {
		ones[iq] = make([]float64, m.NBands())
		for ib := range ones[iq] {
			ones[iq][ib] = 1
		}
	}
	dos, _ := m.ModeToSpectralWtd(ones, freqPts, sigma)
	return dos
}

//ModeHeatCapacity returns the Einstein (single-mode) heat capacity of a
//phonon of the given frequency (THz) at temperature T (K), in eV/K, the unit
//phono3py uses for its heat_capacity arrays. Zero and imaginary (negative)
//frequencies contribute nothing.
func ModeHeatCapacity(freqTHz, T float64) float64 {
	if freqTHz <= 0 || T <= 0 {
		return 0
	}
	x := jarvis.Planck * freqTHz * jarvis.THz2Hz / (jarvis.KB * T)
	ex := math.Exp(x)
	if math.IsInf(ex, 1) {
		return 0
	}
	cv := jarvis.KB * x * x * ex / ((ex - 1) * (ex - 1)) //J/K
	return cv / jarvis.EV2J
}

//SpectralHeatCapacity projects the per-mode heat capacity at temperature T
//onto the given frequency grid. With weighted true the result is scaled by
//the density of states (an extensive spectral heat capacity, eV/K/THz);
//otherwise it is the DOS-normalized average mode heat capacity.
func (m *Mesh) SpectralHeatCapacity(freqPts []float64, T, sigma float64, weighted bool) ([]float64, error) {
	cv := make([][]float64, m.NQpoints())
	for iq, qf := range m.freqs {
		cv[iq] = make([]float64, len(qf))
		for ib, f := range qf {
			cv[iq][ib] = ModeHeatCapacity(f, T)
		}
	}
	if weighted {
		return m.ModeToSpectralWtd(cv, freqPts, sigma)
	}
	return m.ModeToSpectral(cv, freqPts, sigma)
}

//GroupVelocityOuter returns, for every mode, the outer product v (x) v of
//its group velocity collapsed to the 6 Voigt components (xx, yy, zz, yz, xz,
//xy), in THz^2*Angstrom^2. The external tool averages this tensor over the
//point-group rotations of each q-point star; on the irreducible mesh the
//multiplicity weights carry that information instead, so the outer product
//is taken directly.
func (m *Mesh) GroupVelocityOuter() ([][][]float64, error) {
	if len(m.gvs) == 0 || len(m.gvs[0][0]) != 3 {
		return nil, fmt.Errorf("goJarvis/phonopy: mesh has no group velocities")
	}
	voigt := [6][2]int{{0, 0}, {1, 1}, {2, 2}, {1, 2}, {0, 2}, {0, 1}}
	out := make([][][]float64, m.NQpoints())
	for iq := range m.gvs {
		out[iq] = make([][]float64, m.NBands())
		for ib, v := range m.gvs[iq] {
			comp := make([]float64, 6)
			for j, ij := range voigt {
				comp[j] = v[ij[0]] * v[ij[1]]
			}
			out[iq][ib] = comp
		}
	}
	return out, nil
}

//GroupVelocityOuterComponent returns one Voigt component of the mode-wise
//outer product as a [q-point][band] property, ready for spectral conversion.
func (m *Mesh) GroupVelocityOuterComponent(component string) ([][]float64, error) {
	idx, ok := VoigtIndex[component]
	if !ok {
		return nil, fmt.Errorf("goJarvis/phonopy: unknown tensor component %q", component)
	}
	outer, err := m.GroupVelocityOuter()
	if err != nil {
		return nil, err
	}
	prop := make([][]float64, len(outer))
	for iq := range outer {
		prop[iq] = make([]float64, len(outer[iq]))
		for ib := range outer[iq] {
			prop[iq][ib] = outer[iq][ib][idx]
		}
	}
	return prop, nil
}

//VoigtIndex maps Cartesian tensor components to their position in the
//6-component Voigt ordering used by phonopy and phono3py.
var VoigtIndex = map[string]int{
	"xx": 0, "yy": 1, "zz": 2, "yz": 3, "xz": 4, "xy": 5,
}
