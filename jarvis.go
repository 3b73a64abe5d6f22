/*
 * jarvis.go, part of goJarvis.
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
	"gonum.org/v1/gonum/mat"
)

/**Note: Some functions here panic instead of returning errors. This is because
 * they are "fundamental" functions: if something goes wrong in them, the program
 * is way-most-likely wrong and should crash. Most panics are related to using a
 * function on a nil object or with mismatched dimensions.**/

//Atoms contains a periodic crystal structure: the lattice vectors (rows of a
//3x3 matrix, in Angstrom, with any POSCAR scale factor already applied), the
//atomic coordinates (one row per atom, fractional unless Cartesian is set)
//and the species blocks in POSCAR order.
type Atoms struct {
	Comment   string
	Lattice   *mat.Dense //3x3, rows are lattice vectors
	Coords    *mat.Dense //natoms x 3
	Cartesian bool
	ElemList  []string //one symbol per species block
	Counts    []int    //atoms per species block, same order as ElemList
}

//NewAtoms builds an Atoms from its parts, checking the dimensions for
//consistency. The sum of counts must match the number of coordinate rows.
func NewAtoms(lattice, coords *mat.Dense, elemList []string, counts []int) (*Atoms, error) {
	if lattice == nil || coords == nil {
		return nil, NewCError(string(ErrNilData), "NewAtoms")
	}
	lr, lc := lattice.Dims()
	if lr != 3 || lc != 3 {
		return nil, NewCError(string(ErrNotLattice), "NewAtoms")
	}
	if len(elemList) != len(counts) {
		return nil, NewCError("goJarvis: element list and counts differ in length", "NewAtoms")
	}
	cr, cc := coords.Dims()
	if cc != 3 {
		return nil, NewCError(string(ErrShape), "NewAtoms")
	}
	tot := 0
	for _, v := range counts {
		tot += v
	}
	if tot != cr {
		return nil, NewCError("goJarvis: species counts don't add up to the number of coordinates", "NewAtoms")
	}
	return &Atoms{Lattice: lattice, Coords: coords, ElemList: elemList, Counts: counts}, nil
}

//Len returns the number of atoms in the structure.
func (A *Atoms) Len() int {
	if A == nil {
		panic(ErrNilAtoms)
	}
	r, _ := A.Coords.Dims()
	return r
}

//Elements returns the element symbol of each atom, expanded from the species
//blocks, in the same order as the coordinate rows.
func (A *Atoms) Elements() []string {
	if A == nil {
		panic(ErrNilAtoms)
	}
	el := make([]string, 0, A.Len())
	for i, sym := range A.ElemList {
		for j := 0; j < A.Counts[i]; j++ {
			el = append(el, sym)
		}
	}
	return el
}

//Masses returns the atomic mass (AMU) of each atom in the structure.
func (A *Atoms) Masses() ([]float64, error) {
	el := A.Elements()
	masses := make([]float64, len(el))
	var err error
	for i, sym := range el {
		masses[i], err = SymbolMass(sym)
		if err != nil {
			return nil, errDecorate(err, "Masses")
		}
	}
	return masses, nil
}

//AvgMass returns the average atomic mass of the structure, in AMU.
func (A *Atoms) AvgMass() (float64, error) {
	masses, err := A.Masses()
	if err != nil {
		return 0, errDecorate(err, "AvgMass")
	}
	sum := 0.0
	for _, m := range masses {
		sum += m
	}
	return sum / float64(len(masses)), nil
}

//AvgMassKg returns the average atomic mass in kg, the unit expected by the
//semi-empirical linewidth model.
func (A *Atoms) AvgMassKg() (float64, error) {
	m, err := A.AvgMass()
	if err != nil {
		return 0, errDecorate(err, "AvgMassKg")
	}
	return m / Avogadro / 1e3, nil
}

//Volume returns the unit-cell volume in Angstrom^3.
func (A *Atoms) Volume() float64 {
	if A == nil || A.Lattice == nil {
		panic(ErrNilAtoms)
	}
	return mat.Det(A.Lattice)
}

//Copy returns a deep copy of the structure.
func (A *Atoms) Copy() *Atoms {
	if A == nil {
		panic(ErrNilAtoms)
	}
	N := new(Atoms)
	N.Comment = A.Comment
	N.Cartesian = A.Cartesian
	N.Lattice = mat.DenseCopyOf(A.Lattice)
	N.Coords = mat.DenseCopyOf(A.Coords)
	N.ElemList = append([]string{}, A.ElemList...)
	N.Counts = append([]int{}, A.Counts...)
	return N
}
