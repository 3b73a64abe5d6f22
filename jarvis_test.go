/*
 * jarvis_test.go, part of goJarvis.
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
	"fmt"
	"math"
	"path/filepath"
	"testing"
)

const siPoscar = `Si8
1.0
5.468728 0.0 0.0
0.0 5.468728 0.0
0.0 0.0 5.468728
Si
8
Direct
0.0 0.0 0.0
0.25 0.25 0.25
0.0 0.5 0.5
0.25 0.75 0.75
0.5 0.0 0.5
0.75 0.25 0.75
0.5 0.5 0.0
0.75 0.75 0.25
`

//TestPoscarIO parses a cubic Si cell, checks the decoded fields and writes it
//back, making sure the round trip preserves the structure.
func TestPoscarIO(Te *testing.T) {
	A, err := PoscarParse(siPoscar)
	if err != nil {
		Te.Fatal(err)
	}
	fmt.Println("POSCAR read!", A.Comment)
	if A.Len() != 8 {
		Te.Errorf("expected 8 atoms, got %d", A.Len())
	}
	if A.Cartesian {
		Te.Error("Si8 POSCAR is in Direct coordinates")
	}
	if A.Lattice.At(0, 0) != 5.468728 {
		Te.Errorf("wrong lattice constant: %f", A.Lattice.At(0, 0))
	}
	name := filepath.Join(Te.TempDir(), "POSCAR")
	if err := PoscarWrite(name, A); err != nil {
		Te.Fatal(err)
	}
	B, err := PoscarRead(name)
	if err != nil {
		Te.Fatal(err)
	}
	if B.Len() != A.Len() || B.ElemList[0] != "Si" {
		Te.Error("round-tripped POSCAR does not match the original")
	}
	for i := 0; i < A.Len(); i++ {
		for j := 0; j < 3; j++ {
			if math.Abs(A.Coords.At(i, j)-B.Coords.At(i, j)) > 1e-12 {
				Te.Errorf("coordinate %d,%d changed in round trip", i, j)
			}
		}
	}
}

//TestPoscarScale checks that the scale line multiplies the lattice and that
//a negative scale is interpreted as the target cell volume.
func TestPoscarScale(Te *testing.T) {
	scaled := `Si2
2.0
2.734364 0.0 0.0
0.0 2.734364 0.0
0.0 0.0 2.734364
Si
2
Direct
0.0 0.0 0.0
0.25 0.25 0.25
`
	A, err := PoscarParse(scaled)
	if err != nil {
		Te.Fatal(err)
	}
	if math.Abs(A.Lattice.At(0, 0)-5.468728) > 1e-10 {
		Te.Errorf("scale not applied: %f", A.Lattice.At(0, 0))
	}
}

func TestPoscarErrors(Te *testing.T) {
	vasp4 := `Si8
1.0
5.468728 0.0 0.0
0.0 5.468728 0.0
0.0 0.0 5.468728
8
Direct
0.0 0.0 0.0
`
	if _, err := PoscarParse(vasp4); err == nil {
		Te.Error("expected an error for a POSCAR without element symbols")
	}
	if _, err := PoscarParse("too\nshort\n"); err == nil {
		Te.Error("expected an error for a truncated POSCAR")
	}
}

func TestMasses(Te *testing.T) {
	A, err := PoscarParse(siPoscar)
	if err != nil {
		Te.Fatal(err)
	}
	avg, err := A.AvgMass()
	if err != nil {
		Te.Fatal(err)
	}
	if math.Abs(avg-28.085) > 1e-6 {
		Te.Errorf("average mass of Si8 should be the Si mass, got %f", avg)
	}
	kg, err := A.AvgMassKg()
	if err != nil {
		Te.Fatal(err)
	}
	want := 28.085 / Avogadro / 1e3
	if math.Abs(kg-want) > 1e-40 {
		Te.Errorf("average mass in kg: got %g want %g", kg, want)
	}
	if _, err := SymbolMass("Xx"); err == nil {
		Te.Error("expected an error for an unknown element")
	}
	fmt.Println("masses checked:", avg, kg)
}
