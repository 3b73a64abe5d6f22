/*
 * kappa.go, part of goJarvis.
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

//Package phono3py post-processes the output of the phono3py anharmonic
//lattice-dynamics code: the kappa-mxxxx.hdf5 thermal-conductivity results,
//the jdos-mxxxx-gy[-tz].dat joint-density-of-states files, and generates the
//command lines to run the code itself. The hard work (three-phonon matrix
//elements, tetrahedron integration, symmetry) happens inside phono3py; this
//package reads what it writes and derives spectral quantities from it.
package phono3py

import (
	"fmt"
	"math"

	"gonum.org/v1/hdf5"
)

//Kappa formats: the scalar xx component, or the full 6-component tensor.
const (
	FormatScalarXX = "scalar_xx"
	FormatTensor   = "tensor"
)

//Kappa wraps a phono3py kappa-mxxxx.hdf5 thermal-conductivity result. The
//arrays are loaded wholesale and are read-only by convention. Quantities are
//indexed by temperature, irreducible q-point and band, in the units phono3py
//writes: kappa in W/m.K, gamma in THz, heat capacity in eV/K, gv_by_gv in
//THz^2.Angstrom^2.
type Kappa struct {
	Format       string
	Temperatures []float64
	Kappa        [][]float64     //nT x 6 (Voigt)
	ModeKappa    [][][][]float64 //nT x nq x nbands x 6
	Gamma        [][][]float64   //nT x nq x nbands
	HeatCapacity [][][]float64   //nT x nq x nbands
	Frequency    [][]float64     //nq x nbands
	GvByGv       [][][]float64   //nq x nbands x 6
	Qpoints      [][]float64     //nq x 3
	Weights      []int
}

//Open loads a kappa-mxxxx.hdf5 file. Datasets that phono3py only writes on
//request (mode_kappa, gv_by_gv, heat_capacity) are left nil when absent.
//The kappa format defaults to scalar_xx, matching the most common use.
func Open(filename string) (*Kappa, error) {
	f, err := hdf5.OpenFile(filename, hdf5.F_ACC_RDONLY)
	if err != nil {
		return nil, fmt.Errorf("goJarvis/phono3py.Open %s: %v", filename, err)
	}
	defer f.Close()
	k := &Kappa{Format: FormatScalarXX}
	temps, _, err := readFloats(f, "temperature")
	if err != nil {
		return nil, fmt.Errorf("goJarvis/phono3py.Open %s: %v", filename, err)
	}
	k.Temperatures = temps
	freq, fdims, err := readFloats(f, "frequency")
	if err != nil {
		return nil, fmt.Errorf("goJarvis/phono3py.Open %s: %v", filename, err)
	}
	if len(fdims) != 2 {
		return nil, fmt.Errorf("goJarvis/phono3py.Open %s: frequency dataset is not 2D", filename)
	}
	nq, nb := int(fdims[0]), int(fdims[1])
	nT := len(temps)
	k.Frequency = reshape2(freq, nq, nb)
	kap, _, err := readFloats(f, "kappa")
	if err != nil {
		return nil, fmt.Errorf("goJarvis/phono3py.Open %s: %v", filename, err)
	}
	k.Kappa = reshape2(kap, nT, 6)
	if qp, _, err := readFloats(f, "qpoint"); err == nil {
		k.Qpoints = reshape2(qp, nq, 3)
	}
	if w, err := readInts(f, "weight"); err == nil {
		k.Weights = w
	}
	if g, _, err := readFloats(f, "gamma"); err == nil {
		k.Gamma = reshape3(g, nT, nq, nb)
	}
	if cv, _, err := readFloats(f, "heat_capacity"); err == nil {
		k.HeatCapacity = reshape3(cv, nT, nq, nb)
	}
	if gv, _, err := readFloats(f, "gv_by_gv"); err == nil {
		k.GvByGv = reshape3(gv, nq, nb, 6)
	}
	if mk, _, err := readFloats(f, "mode_kappa"); err == nil {
		k.ModeKappa = reshape4(mk, nT, nq, nb, 6)
	}
	return k, nil
}

func readFloats(f *hdf5.File, name string) ([]float64, []uint, error) {
	ds, err := f.OpenDataset(name)
	if err != nil {
		return nil, nil, err
	}
	defer ds.Close()
	space := ds.Space()
	dims, _, err := space.SimpleExtentDims()
	if err != nil {
		return nil, nil, err
	}
	n := 1
	for _, d := range dims {
		n *= int(d)
	}
	buf := make([]float64, n)
	if err := ds.Read(&buf); err != nil {
		return nil, nil, err
	}
	return buf, dims, nil
}

func readInts(f *hdf5.File, name string) ([]int, error) {
	ds, err := f.OpenDataset(name)
	if err != nil {
		return nil, err
	}
	defer ds.Close()
	space := ds.Space()
	dims, _, err := space.SimpleExtentDims()
	if err != nil {
		return nil, err
	}
	n := 1
	for _, d := range dims {
		n *= int(d)
	}
	buf := make([]int32, n)
	if err := ds.Read(&buf); err != nil {
		return nil, err
	}
	out := make([]int, n)
	for i, v := range buf {
		out[i] = int(v)
	}
	return out, nil
}

func reshape2(flat []float64, n1, n2 int) [][]float64 {
	out := make([][]float64, n1)
	for i := range out {
		out[i] = flat[i*n2 : (i+1)*n2]
	}
	return out
}

func reshape3(flat []float64, n1, n2, n3 int) [][][]float64 {
	out := make([][][]float64, n1)
	for i := range out {
		out[i] = reshape2(flat[i*n2*n3:(i+1)*n2*n3], n2, n3)
	}
	return out
}

func reshape4(flat []float64, n1, n2, n3, n4 int) [][][][]float64 {
	out := make([][][][]float64, n1)
	for i := range out {
		out[i] = reshape3(flat[i*n2*n3*n4:(i+1)*n2*n3*n4], n2, n3, n4)
	}
	return out
}

//tempIndex finds the index of temperature T, which must be one of the
//temperatures the calculation was run at.
func (k *Kappa) tempIndex(T float64) (int, error) {
	for i, t := range k.Temperatures {
		if math.Abs(t-T) < 1e-8 {
			return i, nil
		}
	}
	return 0, fmt.Errorf("goJarvis/phono3py: thermal conductivity not evaluated at %g K", T)
}

//KappaAt returns the thermal conductivity at temperature T according to the
//format: the scalar xx component for scalar_xx, or an error directing to
//KappaTensorAt for the tensor format.
func (k *Kappa) KappaAt(T float64) (float64, error) {
	i, err := k.tempIndex(T)
	if err != nil {
		return 0, err
	}
	if k.Format == FormatTensor {
		return 0, fmt.Errorf("goJarvis/phono3py: kappa format is tensor; use KappaTensorAt")
	}
	return k.Kappa[i][0], nil
}

//KappaTensorAt returns the 6 Voigt components of the thermal-conductivity
//tensor at temperature T.
func (k *Kappa) KappaTensorAt(T float64) ([]float64, error) {
	i, err := k.tempIndex(T)
	if err != nil {
		return nil, err
	}
	return k.Kappa[i], nil
}

//GammaAt returns the imaginary self-energies (half linewidths, THz) at
//temperature T, indexed [q-point][band].
func (k *Kappa) GammaAt(T float64) ([][]float64, error) {
	i, err := k.tempIndex(T)
	if err != nil {
		return nil, err
	}
	if k.Gamma == nil {
		return nil, fmt.Errorf("goJarvis/phono3py: no gamma dataset in this file")
	}
	return k.Gamma[i], nil
}

//HeatCapacityAt returns the per-mode heat capacities (eV/K) at temperature
//T, indexed [q-point][band].
func (k *Kappa) HeatCapacityAt(T float64) ([][]float64, error) {
	i, err := k.tempIndex(T)
	if err != nil {
		return nil, err
	}
	if k.HeatCapacity == nil {
		return nil, fmt.Errorf("goJarvis/phono3py: no heat_capacity dataset in this file")
	}
	return k.HeatCapacity[i], nil
}

//ModeKappaAt returns one Voigt component of the per-mode thermal
//conductivity at temperature T, indexed [q-point][band]. The mode values
//already include the q-point weights, so their spectral conversion must be
//the unweighted one.
func (k *Kappa) ModeKappaAt(T float64, component string) ([][]float64, error) {
	i, err := k.tempIndex(T)
	if err != nil {
		return nil, err
	}
	if k.ModeKappa == nil {
		return nil, fmt.Errorf("goJarvis/phono3py: no mode_kappa dataset in this file")
	}
	c, ok := voigtIndex[component]
	if !ok {
		return nil, fmt.Errorf("goJarvis/phono3py: unknown tensor component %q", component)
	}
	nq := len(k.ModeKappa[i])
	out := make([][]float64, nq)
	for iq := range out {
		nb := len(k.ModeKappa[i][iq])
		out[iq] = make([]float64, nb)
		for ib := 0; ib < nb; ib++ {
			out[iq][ib] = k.ModeKappa[i][iq][ib][c]
		}
	}
	return out, nil
}

//GvByGvComponent returns one Voigt component of the group-velocity outer
//products stored in the file, indexed [q-point][band].
func (k *Kappa) GvByGvComponent(component string) ([][]float64, error) {
	if k.GvByGv == nil {
		return nil, fmt.Errorf("goJarvis/phono3py: no gv_by_gv dataset in this file")
	}
	c, ok := voigtIndex[component]
	if !ok {
		return nil, fmt.Errorf("goJarvis/phono3py: unknown tensor component %q", component)
	}
	out := make([][]float64, len(k.GvByGv))
	for iq := range out {
		out[iq] = make([]float64, len(k.GvByGv[iq]))
		for ib := range out[iq] {
			out[iq][ib] = k.GvByGv[iq][ib][c]
		}
	}
	return out, nil
}

//NQpoints returns the number of irreducible q-points in the result.
func (k *Kappa) NQpoints() int { return len(k.Frequency) }

//NBands returns the number of phonon branches in the result.
func (k *Kappa) NBands() int {
	if len(k.Frequency) == 0 {
		return 0
	}
	return len(k.Frequency[0])
}

var voigtIndex = map[string]int{
	"xx": 0, "yy": 1, "zz": 2, "yz": 3, "xz": 4, "xy": 5,
}
