/*
 * wannier.go, part of goJarvis.
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

//Package wannier reads Wannier90 real-space tight-binding Hamiltonians
//(wannier90_hr.dat files) and interpolates them to arbitrary wavevectors.
//The same format is used for phonon tight-binding Hamiltonians generated
//from force constants, so everything here works for both electrons and
//phonons.
package wannier

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"math/cmplx"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

//Ham is a real-space tight-binding Hamiltonian: for each lattice vector R
//(in fractional units) a complex nwan x nwan block H_R, plus the Wigner-Seitz
//degeneracy of each R point as written by Wannier90.
type Ham struct {
	NWan int
	NR   int
	R    []float64    //NR x 3, row-major
	Deg  []int        //NR
	HR   []complex128 //NR blocks of NWan*NWan, row-major within each block
}

//ReadHam reads a Wannier90 hr.dat file.
func ReadHam(filename string) (*Ham, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	h, err := ReadHamFrom(f)
	if err != nil {
		return nil, fmt.Errorf("goJarvis/wannier.ReadHam %s: %v", filename, err)
	}
	return h, nil
}

//ReadHamFrom reads a Wannier90 hr.dat formatted Hamiltonian from r.
//The format is: a comment line, num_wann, nrpts, nrpts degeneracy integers
//(15 per line), then nrpts*num_wann^2 lines of R1 R2 R3 m n Re Im.
func ReadHamFrom(r io.Reader) (*Ham, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	if !scanner.Scan() {
		return nil, fmt.Errorf("goJarvis/wannier: empty hr.dat")
	}
	//the first line is a free comment, usually a timestamp
	nwan, err := scanInt(scanner)
	if err != nil {
		return nil, fmt.Errorf("goJarvis/wannier: reading num_wann: %v", err)
	}
	nr, err := scanInt(scanner)
	if err != nil {
		return nil, fmt.Errorf("goJarvis/wannier: reading nrpts: %v", err)
	}
	if nwan <= 0 || nr <= 0 {
		return nil, fmt.Errorf("goJarvis/wannier: nonsensical dimensions num_wann=%d nrpts=%d", nwan, nr)
	}
	h := &Ham{
		NWan: nwan,
		NR:   nr,
		R:    make([]float64, nr*3),
		Deg:  make([]int, 0, nr),
		HR:   make([]complex128, nr*nwan*nwan),
	}
	for len(h.Deg) < nr {
		if !scanner.Scan() {
			return nil, fmt.Errorf("goJarvis/wannier: hr.dat truncated in the degeneracy block")
		}
		for _, tok := range strings.Fields(scanner.Text()) {
			d, err := strconv.Atoi(tok)
			if err != nil {
				return nil, fmt.Errorf("goJarvis/wannier: bad degeneracy value %q", tok)
			}
			h.Deg = append(h.Deg, d)
		}
	}
	if len(h.Deg) != nr {
		return nil, fmt.Errorf("goJarvis/wannier: %d degeneracies for %d R points", len(h.Deg), nr)
	}
	seen := make(map[[3]float64]int, nr) //R row index per distinct R vector
	nblock := nwan * nwan
	read := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 7 {
			return nil, fmt.Errorf("goJarvis/wannier: malformed hr.dat line: %s", line)
		}
		var rvec [3]float64
		for i := 0; i < 3; i++ {
			rvec[i], err = strconv.ParseFloat(fields[i], 64)
			if err != nil {
				return nil, fmt.Errorf("goJarvis/wannier: bad R component %q", fields[i])
			}
		}
		ir, ok := seen[rvec]
		if !ok {
			ir = len(seen)
			if ir >= nr {
				return nil, fmt.Errorf("goJarvis/wannier: more R vectors than the declared %d", nr)
			}
			seen[rvec] = ir
			copy(h.R[ir*3:], rvec[:])
		}
		m, err1 := strconv.Atoi(fields[3])
		n, err2 := strconv.Atoi(fields[4])
		re, err3 := strconv.ParseFloat(fields[5], 64)
		im, err4 := strconv.ParseFloat(fields[6], 64)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			return nil, fmt.Errorf("goJarvis/wannier: malformed hr.dat line: %s", line)
		}
		if m < 1 || m > nwan || n < 1 || n > nwan {
			return nil, fmt.Errorf("goJarvis/wannier: orbital index out of range in line: %s", line)
		}
		h.HR[ir*nblock+(m-1)*nwan+(n-1)] = complex(re, im)
		read++
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if read != nr*nblock {
		return nil, fmt.Errorf("goJarvis/wannier: read %d matrix elements, expected %d", read, nr*nblock)
	}
	return h, nil
}

func scanInt(scanner *bufio.Scanner) (int, error) {
	if !scanner.Scan() {
		return 0, fmt.Errorf("unexpected end of file")
	}
	return strconv.Atoi(strings.TrimSpace(scanner.Text()))
}

//RVec returns the i-th lattice vector of the Hamiltonian.
func (h *Ham) RVec(i int) [3]float64 {
	return [3]float64{h.R[i*3], h.R[i*3+1], h.R[i*3+2]}
}

//HK evaluates the reciprocal-space Hamiltonian at the fractional wavevector
//k: H(k) = sum_R exp(2*pi*i k.R) H_R, Hermitian-symmetrized as
//(H + H^dagger)/2. The result is Hermitian for any k by construction.
func (h *Ham) HK(k []float64) (*mat.CDense, error) {
	if len(k) != 3 {
		return nil, fmt.Errorf("goJarvis/wannier.HK: k must have 3 components, got %d", len(k))
	}
	nblock := h.NWan * h.NWan
	temp := make([]complex128, nblock)
	for ir := 0; ir < h.NR; ir++ {
		phase := 2 * math.Pi * (k[0]*h.R[ir*3] + k[1]*h.R[ir*3+1] + k[2]*h.R[ir*3+2])
		e := cmplx.Exp(complex(0, phase))
		block := h.HR[ir*nblock : (ir+1)*nblock]
		for i, v := range block {
			temp[i] += e * v
		}
	}
	hk := mat.NewCDense(h.NWan, h.NWan, nil)
	for i := 0; i < h.NWan; i++ {
		for j := 0; j < h.NWan; j++ {
			hij := temp[i*h.NWan+j]
			hji := temp[j*h.NWan+i]
			hk.Set(i, j, (hij+cmplx.Conj(hji))/2)
		}
	}
	return hk, nil
}

//WriteTo writes the Hamiltonian in Wannier90 hr.dat format.
func (h *Ham) WriteTo(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "written by goJarvis\n")
	fmt.Fprintf(bw, "%12d\n", h.NWan)
	fmt.Fprintf(bw, "%12d\n", h.NR)
	for i, d := range h.Deg {
		fmt.Fprintf(bw, "%5d", d)
		if (i+1)%15 == 0 || i == len(h.Deg)-1 {
			fmt.Fprintf(bw, "\n")
		}
	}
	nblock := h.NWan * h.NWan
	for ir := 0; ir < h.NR; ir++ {
		r := h.RVec(ir)
		for m := 1; m <= h.NWan; m++ {
			for n := 1; n <= h.NWan; n++ {
				v := h.HR[ir*nblock+(m-1)*h.NWan+(n-1)]
				fmt.Fprintf(bw, "%5.0f%5.0f%5.0f%5d%5d%12.6f%12.6f\n",
					r[0], r[1], r[2], m, n, real(v), imag(v))
			}
		}
	}
	return bw.Flush()
}

//WriteFile writes the Hamiltonian to the named file in hr.dat format.
func (h *Ham) WriteFile(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return h.WriteTo(f)
}
