/*
 * jdos.go, part of goJarvis.
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

package phono3py

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	jarvis "github.com/RamyaGuru/jarvis"
	"github.com/RamyaGuru/jarvis/phonopy"
)

//JDOS collects the weighted joint density of states that phono3py writes,
//one jdos-mxxxx-gy-tz.dat file per irreducible grid point, and maps it onto
//the modes of the matching phonopy mesh. Temperature selects the tz tag of
//the files; a negative Temperature selects the temperature-less (unweighted)
//jdos files instead.
type JDOS struct {
	Mesh        *phonopy.Mesh
	Dir         string
	MeshDims    [3]int
	Temperature float64
}

//NewJDOS returns a JDOS over the phono3py output files in dir, computed on
//the given mesh. The weighted-jdos temperature defaults to 300 K.
func NewJDOS(mesh *phonopy.Mesh, dir string, dims [3]int) *JDOS {
	return &JDOS{Mesh: mesh, Dir: dir, MeshDims: dims, Temperature: 300}
}

//meshTag is the concatenated mesh-dimension tag phono3py puts in its file
//names, e.g. 111111 for a 11x11x11 mesh.
func (j *JDOS) meshTag() string {
	return fmt.Sprintf("%d%d%d", j.MeshDims[0], j.MeshDims[1], j.MeshDims[2])
}

//fileName returns the jdos file name for one grid point.
func (j *JDOS) fileName(gp int) string {
	if j.Temperature < 0 {
		return fmt.Sprintf("jdos-m%s-g%d.dat", j.meshTag(), gp)
	}
	return fmt.Sprintf("jdos-m%s-g%d-t%g.dat", j.meshTag(), gp, j.Temperature)
}

//GridPoints scans Dir for the jdos files of this mesh and temperature and
//returns the grid-point ids found, sorted ascending. The ids are the ones
//phono3py assigned to the irreducible points, so sorted order matches the
//q-point order of mesh.yaml.
func (j *JDOS) GridPoints() ([]int, error) {
	entries, err := os.ReadDir(j.Dir)
	if err != nil {
		return nil, fmt.Errorf("goJarvis/phono3py.GridPoints: %v", err)
	}
	prefix := fmt.Sprintf("jdos-m%s-g", j.meshTag())
	var gps []int
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".dat") {
			continue
		}
		tail := strings.TrimSuffix(strings.TrimPrefix(name, prefix), ".dat")
		var gpStr string
		if i := strings.Index(tail, "-t"); i >= 0 {
			if j.Temperature < 0 {
				continue
			}
			t, err := strconv.ParseFloat(tail[i+2:], 64)
			if err != nil || math.Abs(t-j.Temperature) > 1e-8 {
				continue
			}
			gpStr = tail[:i]
		} else {
			if j.Temperature >= 0 {
				continue
			}
			gpStr = tail
		}
		gp, err := strconv.Atoi(gpStr)
		if err != nil {
			continue
		}
		gps = append(gps, gp)
	}
	if len(gps) == 0 {
		return nil, fmt.Errorf("goJarvis/phono3py.GridPoints: no jdos files for mesh %s in %s", j.meshTag(), j.Dir)
	}
	sort.Ints(gps)
	return gps, nil
}

//readJDOSFile reads one jdos .dat file: frequency, and the two scattering
//channels N1 (combination) and N2 (splitting), summed into a single N.
func readJDOSFile(path string) (freq, n []float64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			return nil, nil, fmt.Errorf("malformed jdos line: %s", line)
		}
		fv, err1 := strconv.ParseFloat(fields[0], 64)
		n1, err2 := strconv.ParseFloat(fields[1], 64)
		n2, err3 := strconv.ParseFloat(fields[2], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			return nil, nil, fmt.Errorf("malformed jdos line: %s", line)
		}
		freq = append(freq, fv)
		n = append(n, n1+n2)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}
	if len(freq) == 0 {
		return nil, nil, fmt.Errorf("empty jdos table")
	}
	return freq, n, nil
}

//Select returns, for every mode of the mesh, the joint density of states of
//its grid point looked up at the mode frequency, as a [q-point][band]
//property ready for spectral conversion. The lookup brackets the mode
//frequency on the jdos frequency grid and averages the floor and ceiling
//values.
func (j *JDOS) Select() ([][]float64, error) {
	gps, err := j.GridPoints()
	if err != nil {
		return nil, err
	}
	if len(gps) != j.Mesh.NQpoints() {
		return nil, fmt.Errorf("goJarvis/phono3py.Select: %d jdos files but %d irreducible q-points", len(gps), j.Mesh.NQpoints())
	}
	freqs := j.Mesh.Frequencies()
	out := make([][]float64, len(gps))
	for iq, gp := range gps {
		grid, n, err := readJDOSFile(filepath.Join(j.Dir, j.fileName(gp)))
		if err != nil {
			return nil, fmt.Errorf("goJarvis/phono3py.Select %s: %v", j.fileName(gp), err)
		}
		out[iq] = make([]float64, len(freqs[iq]))
		for ib, f := range freqs[iq] {
			idx := sort.Search(len(grid), func(i int) bool { return grid[i] > f })
			switch {
			case idx == 0:
				out[iq][ib] = n[0]
			case idx >= len(n):
				out[iq][ib] = n[len(n)-1]
			default:
				out[iq][ib] = (n[idx] + n[idx-1]) / 2
			}
		}
	}
	return out, nil
}

//SpectralJDOS projects the per-mode joint density of states onto the given
//frequency grid as a DOS-normalized average. A sigma <= 0 selects
//phonopy.AutoSigma.
func (j *JDOS) SpectralJDOS(freqPts []float64, sigma float64) ([]float64, error) {
	sel, err := j.Select()
	if err != nil {
		return nil, err
	}
	return j.Mesh.ModeToSpectral(sel, freqPts, sigma)
}

//LinewidthFromJDOS estimates the spectral phonon linewidth 2*Gamma(f) (THz)
//from the spectral joint density of states, in the lowest-order perturbation
//model
//
//	2Gamma(f) = (pi kB T / 18) * grun^2 / (M vs^2) * f^2 * JDOS(f)
//
//with M the average atomic mass of atoms (kg), vs the speed of sound (m/s)
//and grun an average Gruneisen parameter.
func LinewidthFromJDOS(spectralJDOS, freqPts []float64, atoms *jarvis.Atoms, vs, grun, T float64) ([]float64, error) {
	if len(spectralJDOS) != len(freqPts) {
		return nil, fmt.Errorf("goJarvis/phono3py.LinewidthFromJDOS: jdos has %d points, grid has %d", len(spectralJDOS), len(freqPts))
	}
	if vs <= 0 {
		return nil, fmt.Errorf("goJarvis/phono3py.LinewidthFromJDOS: speed of sound must be positive")
	}
	avgM, err := atoms.AvgMassKg()
	if err != nil {
		return nil, errDecorate(err, "goJarvis/phono3py.LinewidthFromJDOS")
	}
	prefactor := math.Pi * jarvis.KB * T / 6.0 / 3.0
	out := make([]float64, len(freqPts))
	for i, f := range freqPts {
		out[i] = prefactor * (grun * grun / (avgM * vs * vs)) * f * f * spectralJDOS[i]
	}
	return out, nil
}

//KappaFromLinewidth assembles a spectral thermal conductivity (W/m.K/THz)
//from a spectral linewidth: at each frequency the kinetic-theory product of
//the average squared group-velocity component, the mode lifetime 1/2Gamma
//and the weighted spectral heat capacity. Frequencies with no spectral
//weight or zero linewidth come out as NaN.
func (j *JDOS) KappaFromLinewidth(twoGamma, freqPts []float64, component string, T, sigma float64) ([]float64, error) {
	if len(twoGamma) != len(freqPts) {
		return nil, fmt.Errorf("goJarvis/phono3py.KappaFromLinewidth: linewidth has %d points, grid has %d", len(twoGamma), len(freqPts))
	}
	vg2prop, err := j.Mesh.GroupVelocityOuterComponent(component)
	if err != nil {
		return nil, errDecorate(err, "goJarvis/phono3py.KappaFromLinewidth")
	}
	spectralVg2, err := j.Mesh.ModeToSpectral(vg2prop, freqPts, sigma)
	if err != nil {
		return nil, errDecorate(err, "goJarvis/phono3py.KappaFromLinewidth")
	}
	spectralCp, err := j.Mesh.SpectralHeatCapacity(freqPts, T, sigma, true)
	if err != nil {
		return nil, errDecorate(err, "goJarvis/phono3py.KappaFromLinewidth")
	}
	out := make([]float64, len(freqPts))
	for i := range out {
		out[i] = jarvis.KappaUnitConversion * spectralVg2[i] * spectralCp[i] / twoGamma[i]
	}
	return out, nil
}

//GruneisenApproximation estimates an average Gruneisen parameter from the
//transverse and longitudinal sound velocities, a standard elastic
//approximation useful when no third-order force constants are at hand.
func GruneisenApproximation(vt, vl float64) float64 {
	x := vt / vl
	return 1.5 * (3 - 4*x*x) / (1 + 2*x*x)
}

func errDecorate(err error, caller string) error {
	return fmt.Errorf("%s: %v", caller, err)
}
