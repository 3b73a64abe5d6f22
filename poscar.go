/*
 * poscar.go, part of goJarvis.
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

package jarvis

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

//Poscar read/write family. The POSCAR format is the VASP structure file:
//comment, scale, 3 lattice vectors, element symbols (VASP5), counts per
//element, an optional "Selective dynamics" line, a Direct/Cartesian switch
//and one coordinate line per atom.

//PoscarRead reads the structure in the POSCAR file poscarname.
func PoscarRead(poscarname string) (*Atoms, error) {
	f, err := os.Open(poscarname)
	if err != nil {
		return nil, errDecorate(err, "PoscarRead")
	}
	defer f.Close()
	A, err := PoscarReadFrom(f)
	if err != nil {
		return nil, errDecorate(err, "PoscarRead "+poscarname)
	}
	return A, nil
}

//PoscarParse reads a structure from the POSCAR-formatted string text.
func PoscarParse(text string) (*Atoms, error) {
	A, err := PoscarReadFrom(strings.NewReader(text))
	if err != nil {
		return nil, errDecorate(err, "PoscarParse")
	}
	return A, nil
}

//PoscarReadFrom reads a POSCAR-formatted structure from r.
func PoscarReadFrom(r io.Reader) (*Atoms, error) {
	scanner := bufio.NewScanner(r)
	lines := make([]string, 0, 10)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, errDecorate(err, "PoscarReadFrom")
	}
	if len(lines) < 8 {
		return nil, NewCError("goJarvis: POSCAR too short", "PoscarReadFrom")
	}
	comment := lines[0]
	scale, err := strconv.ParseFloat(strings.TrimSpace(lines[1]), 64)
	if err != nil {
		return nil, NewCError("goJarvis: can't parse POSCAR scale line: "+err.Error(), "PoscarReadFrom")
	}
	latdata := make([]float64, 0, 9)
	for i := 2; i <= 4; i++ {
		fields := strings.Fields(lines[i])
		if len(fields) < 3 {
			return nil, NewCError("goJarvis: malformed POSCAR lattice vector: "+lines[i], "PoscarReadFrom")
		}
		for j := 0; j < 3; j++ {
			v, err := strconv.ParseFloat(fields[j], 64)
			if err != nil {
				return nil, NewCError("goJarvis: can't parse POSCAR lattice vector: "+err.Error(), "PoscarReadFrom")
			}
			latdata = append(latdata, v)
		}
	}
	lattice := mat.NewDense(3, 3, latdata)
	//A negative scale is, per VASP, the desired cell volume.
	if scale < 0 {
		scale = math.Cbrt(-scale / mat.Det(lattice))
	}
	lattice.Scale(scale, lattice)
	//VASP5 symbol line. A VASP4 file goes straight to the counts, which we
	//do not accept as the element identities would be lost.
	symbols := strings.Fields(lines[5])
	if len(symbols) == 0 {
		return nil, NewCError("goJarvis: empty POSCAR element-symbol line", "PoscarReadFrom")
	}
	if _, err := strconv.Atoi(symbols[0]); err == nil {
		return nil, NewCError("goJarvis: POSCAR without element symbols (VASP4 format) is not supported", "PoscarReadFrom")
	}
	countFields := strings.Fields(lines[6])
	if len(countFields) != len(symbols) {
		return nil, NewCError("goJarvis: POSCAR element symbols and counts differ in length", "PoscarReadFrom")
	}
	counts := make([]int, len(countFields))
	natoms := 0
	for i, v := range countFields {
		counts[i], err = strconv.Atoi(v)
		if err != nil {
			return nil, NewCError("goJarvis: can't parse POSCAR species count: "+err.Error(), "PoscarReadFrom")
		}
		natoms += counts[i]
	}
	next := 7
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(lines[next])), "s") {
		next++ //Selective dynamics, the flags are simply ignored
	}
	mode := strings.ToLower(strings.TrimSpace(lines[next]))
	cartesian := strings.HasPrefix(mode, "c") || strings.HasPrefix(mode, "k")
	next++
	if len(lines) < next+natoms {
		return nil, NewCError("goJarvis: POSCAR declares more atoms than coordinate lines", "PoscarReadFrom")
	}
	coords := make([]float64, 0, natoms*3)
	for i := next; i < next+natoms; i++ {
		fields := strings.Fields(lines[i])
		if len(fields) < 3 {
			return nil, NewCError("goJarvis: malformed POSCAR coordinate line: "+lines[i], "PoscarReadFrom")
		}
		for j := 0; j < 3; j++ {
			v, err := strconv.ParseFloat(fields[j], 64)
			if err != nil {
				return nil, NewCError("goJarvis: can't parse POSCAR coordinate: "+err.Error(), "PoscarReadFrom")
			}
			coords = append(coords, v)
		}
	}
	A, err := NewAtoms(lattice, mat.NewDense(natoms, 3, coords), symbols, counts)
	if err != nil {
		return nil, errDecorate(err, "PoscarReadFrom")
	}
	A.Comment = comment
	A.Cartesian = cartesian
	return A, nil
}

//PoscarString returns the POSCAR representation of the structure. The scale
//line is always written as 1.0, as the lattice carries any original scale.
func PoscarString(A *Atoms) string {
	if A == nil {
		panic(ErrNilAtoms)
	}
	var b strings.Builder
	comment := A.Comment
	if comment == "" {
		comment = strings.Join(A.ElemList, " ")
	}
	fmt.Fprintf(&b, "%s\n", comment)
	fmt.Fprintf(&b, "1.0\n")
	for i := 0; i < 3; i++ {
		fmt.Fprintf(&b, "%20.16f %20.16f %20.16f\n", A.Lattice.At(i, 0), A.Lattice.At(i, 1), A.Lattice.At(i, 2))
	}
	fmt.Fprintf(&b, "%s\n", strings.Join(A.ElemList, " "))
	cnt := make([]string, len(A.Counts))
	for i, v := range A.Counts {
		cnt[i] = strconv.Itoa(v)
	}
	fmt.Fprintf(&b, "%s\n", strings.Join(cnt, " "))
	if A.Cartesian {
		fmt.Fprintf(&b, "Cartesian\n")
	} else {
		fmt.Fprintf(&b, "Direct\n")
	}
	n := A.Len()
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "%20.16f %20.16f %20.16f\n", A.Coords.At(i, 0), A.Coords.At(i, 1), A.Coords.At(i, 2))
	}
	return b.String()
}

//PoscarWrite writes the structure to poscarname in POSCAR format.
func PoscarWrite(poscarname string, A *Atoms) error {
	f, err := os.Create(poscarname)
	if err != nil {
		return errDecorate(err, "PoscarWrite")
	}
	defer f.Close()
	if _, err := f.WriteString(PoscarString(A)); err != nil {
		return errDecorate(err, "PoscarWrite")
	}
	return nil
}
