/*
 * conversion.go, part of goJarvis.
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

//This provides physical constants and unit-conversion factors used across
//the library. The numeric values match the ones used by the external
//lattice-dynamics tools, so that post-processed quantities agree with them.

//Physical constants, SI
const (
	KB       = 1.38064852e-23 //Boltzmann constant, J/K
	Hbar     = 1.0545718e-34  //reduced Planck constant, J*s
	Planck   = 6.62607004e-34 //Planck constant, J*s
	Avogadro = 6.0221409e23   //1/mol
)

//Conversions
const (
	THz2Hz    = 1e12
	THz2Cm1   = 33.35641     //THz to wavenumbers
	Cm12THz   = 1 / 33.35641
	AMU2Kg    = 1.66053906e-27
	EV2J      = 1.60217662e-19
	Deg2Rad   = 0.0174533
	Rad2Deg   = 1 / 0.0174533
)

//KappaUnitConversion scales v^2 (THz^2 A^2) times heat capacity (eV/K) times
//lifetime (1/THz) per unit cell volume into W/m.K.THz. The value is the one
//used by phono3py for its mode-kappa accumulation.
const KappaUnitConversion = 6.358245562444196

//PhononTBFactor is the default frequency-unit conversion used when a phonon
//dynamical matrix is recast as a Wannier-style tight-binding Hamiltonian.
const PhononTBFactor = 15.633302
