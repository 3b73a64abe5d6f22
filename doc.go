/*
 * doc.go, part of goJarvis.
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

/*Package jarvis is the main package of the goJarvis library. It provides crystal
structure types, facilities for reading and writing some files used in computational
materials science, and physical constants shared by the rest of the library.


	**goJarvis Capabilities**

    Reads/writes VASP POSCAR structure files.

    Downloads and caches curated materials datasets and raw simulation
	archives from the JARVIS Figshare repository (subpackage db).

    Parses Wannier90 real-space tight-binding Hamiltonians and interpolates
	them to arbitrary wavevectors (subpackage wannier).

    Reads phonopy mesh and total-DOS output files and converts per-mode
	phonon properties into frequency-resolved spectral properties
	(subpackage phonopy).

    Wraps phono3py thermal-conductivity HDF5 results, post-processes
	joint-density-of-states files into semi-empirical linewidths and
	spectral thermal conductivity, and generates phono3py command-line
	invocations (subpackage phono3py).

    Plots spectral quantities (subpackage phonplot).

The heavy lattice-dynamics work (symmetry reduction, tetrahedron-method
integration, force-constant solving) belongs to the external tools whose
output files this library consumes; goJarvis only performs the data access
and the numeric post-processing on top of them.

goJarvis uses the Gonum libraries for all matrix work and array reductions.*/
package jarvis
