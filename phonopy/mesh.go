/*
 * mesh.go, part of goJarvis.
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

//Package phonopy reads the mesh and density-of-states files written by the
//phonopy lattice-dynamics code and converts per-mode (per-band, per-q-point)
//phonon properties into frequency-resolved spectral properties. The symmetry
//reduction behind the mesh (which q-points are irreducible and their
//weights) is phonopy's business; this package consumes its output as-is.
package phonopy

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//Mesh holds the irreducible q-point mesh written by phonopy as mesh.yaml:
//the mesh dimensions, the irreducible q-points with their multiplicity
//weights, and the per-mode frequencies (THz) and Cartesian group velocities
//(THz*Angstrom).
type Mesh struct {
	Dims    [3]int
	qpoints [][]float64
	weights []float64
	freqs   [][]float64   //nq x nbands
	gvs     [][][]float64 //nq x nbands x 3, may be empty if not in the file
}

//the yaml shapes as phonopy writes them
type meshYAML struct {
	Mesh    []int `yaml:"mesh"`
	NQPoint int   `yaml:"nqpoint"`
	Phonon  []struct {
		QPosition []float64 `yaml:"q-position"`
		Weight    float64   `yaml:"weight"`
		Band      []struct {
			Frequency     float64   `yaml:"frequency"`
			GroupVelocity []float64 `yaml:"group_velocity"`
		} `yaml:"band"`
	} `yaml:"phonon"`
}

//ReadMesh reads a phonopy mesh.yaml file.
func ReadMesh(filename string) (*Mesh, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	m, err := ReadMeshFrom(f)
	if err != nil {
		return nil, fmt.Errorf("goJarvis/phonopy.ReadMesh %s: %v", filename, err)
	}
	return m, nil
}

//ReadMeshFrom decodes a phonopy mesh.yaml document from r.
func ReadMeshFrom(r io.Reader) (*Mesh, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var doc meshYAML
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("goJarvis/phonopy: decoding mesh.yaml: %v", err)
	}
	if len(doc.Phonon) == 0 {
		return nil, fmt.Errorf("goJarvis/phonopy: mesh.yaml has no phonon block")
	}
	m := new(Mesh)
	if len(doc.Mesh) == 3 {
		copy(m.Dims[:], doc.Mesh)
	}
	nb := len(doc.Phonon[0].Band)
	for iq, ph := range doc.Phonon {
		if len(ph.Band) != nb {
			return nil, fmt.Errorf("goJarvis/phonopy: q-point %d has %d bands, expected %d", iq, len(ph.Band), nb)
		}
		m.qpoints = append(m.qpoints, ph.QPosition)
		m.weights = append(m.weights, ph.Weight)
		freqs := make([]float64, nb)
		gvs := make([][]float64, nb)
		for ib, band := range ph.Band {
			freqs[ib] = band.Frequency
			gvs[ib] = band.GroupVelocity
		}
		m.freqs = append(m.freqs, freqs)
		m.gvs = append(m.gvs, gvs)
	}
	return m, nil
}

//NQpoints returns the number of irreducible q-points in the mesh.
func (m *Mesh) NQpoints() int { return len(m.qpoints) }

//NBands returns the number of phonon branches.
func (m *Mesh) NBands() int {
	if len(m.freqs) == 0 {
		return 0
	}
	return len(m.freqs[0])
}

//Qpoints returns the irreducible q-points in fractional coordinates.
func (m *Mesh) Qpoints() [][]float64 { return m.qpoints }

//Weights returns the multiplicity weight of each irreducible q-point.
func (m *Mesh) Weights() []float64 { return m.weights }

//Frequencies returns the mode frequencies in THz, indexed [q-point][band].
func (m *Mesh) Frequencies() [][]float64 { return m.freqs }

//GroupVelocities returns the Cartesian mode group velocities, indexed
//[q-point][band][xyz]. The slices are empty if mesh.yaml was written without
//group velocities.
func (m *Mesh) GroupVelocities() [][][]float64 { return m.gvs }

//MaxFrequency returns the largest mode frequency on the mesh.
func (m *Mesh) MaxFrequency() float64 {
	max := 0.0
	for _, qf := range m.freqs {
		for _, f := range qf {
			if f > max {
				max = f
			}
		}
	}
	return max
}

//FrequencyPoints returns n uniformly spaced frequency points from zero to
//just above the highest mode on the mesh, the grid phonopy uses for its
//spectral output by default.
func (m *Mesh) FrequencyPoints(n int) []float64 {
	if n < 2 {
		panic("goJarvis/phonopy: need at least 2 frequency points")
	}
	top := m.MaxFrequency() * 1.05
	pts := make([]float64, n)
	for i := range pts {
		pts[i] = top * float64(i) / float64(n-1)
	}
	return pts
}
