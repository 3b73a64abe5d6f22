/*
 * inputs.go, part of goJarvis.
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
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	jarvis "github.com/RamyaGuru/jarvis"
)

//Handle builds and runs phono3py command lines. The force constants and the
//jdos/Gruneisen calculations themselves happen in the external program; the
//Handle only prepares the invocation and, optionally, executes it.
type Handle struct {
	command string
	args    string
}

func NewHandle() *Handle {
	run := new(Handle)
	run.SetDefaults()
	return run
}

//Handle methods

func (O *Handle) Command() string {
	return O.command
}

func (O *Handle) SetCommand(name string) {
	O.command = name
}

func (O *Handle) SetDefaults() {
	O.command = os.ExpandEnv("phono3py")
}

//JDOSOptions selects what BuildJDOS asks the external program for. Dim is
//the supercell multiplier of the second-order force constants, Mesh the
//q-point sampling, GridPoints the irreducible points to evaluate (all, if
//empty, phono3py decides). Temperatures switches on the weighted jdos.
//PrimitiveAxes, when given, is passed as the --pa row-major 3x3 matrix.
type JDOSOptions struct {
	Dim           [3]int
	Mesh          [3]int
	Poscar        string
	GridPoints    []int
	NumFreqPoints int
	Temperatures  []float64
	PrimitiveAxes []float64
}

//BuildJDOS assembles the phono3py command line for a (weighted) joint
//density of states run and stores it for Run.
func (O *Handle) BuildJDOS(opts *JDOSOptions) (string, error) {
	if opts == nil || opts.Poscar == "" {
		return "", fmt.Errorf("goJarvis/phono3py.BuildJDOS: need at least a structure file")
	}
	if opts.Mesh == [3]int{} {
		return "", fmt.Errorf("goJarvis/phono3py.BuildJDOS: need a q-point mesh")
	}
	args := []string{
		"--fc2",
		fmt.Sprintf("--dim=\"%d %d %d\"", opts.Dim[0], opts.Dim[1], opts.Dim[2]),
		fmt.Sprintf("--mesh=\"%d %d %d\"", opts.Mesh[0], opts.Mesh[1], opts.Mesh[2]),
		"-c", opts.Poscar,
		"--jdos",
	}
	if len(opts.GridPoints) > 0 {
		args = append(args, fmt.Sprintf("--gp=\"%s\"", joinInts(opts.GridPoints)))
	}
	if opts.NumFreqPoints > 0 {
		args = append(args, fmt.Sprintf("--num-freq-points=%d", opts.NumFreqPoints))
	}
	if len(opts.Temperatures) > 0 {
		args = append(args, fmt.Sprintf("--ts=\"%s\"", joinFloats(opts.Temperatures)))
	}
	if len(opts.PrimitiveAxes) == 9 {
		args = append(args, fmt.Sprintf("--pa=\"%s\"", joinFloats(opts.PrimitiveAxes)))
	} else if len(opts.PrimitiveAxes) != 0 {
		return "", fmt.Errorf("goJarvis/phono3py.BuildJDOS: primitive axes must be 9 numbers, got %d", len(opts.PrimitiveAxes))
	}
	O.args = " " + strings.Join(args, " ")
	return O.command + O.args, nil
}

//GruneisenOptions selects what BuildGruneisenFC3 asks for. The mode
//Gruneisen parameters come from the third-order force constants, either
//along a band path (Band, a list of fractional k-points) or on a mesh.
type GruneisenOptions struct {
	Dim    [3]int
	Poscar string
	NAC    bool
	Band   [][]float64
	Mesh   [3]int
}

//BuildGruneisenFC3 assembles the phono3py command line for a mode-Gruneisen
//calculation from third-order force constants and stores it for Run. Band
//takes precedence over Mesh when both are set.
func (O *Handle) BuildGruneisenFC3(opts *GruneisenOptions) (string, error) {
	if opts == nil || opts.Poscar == "" {
		return "", fmt.Errorf("goJarvis/phono3py.BuildGruneisenFC3: need at least a structure file")
	}
	args := []string{
		"--fc3", "--fc2",
		fmt.Sprintf("--dim=\"%d %d %d\"", opts.Dim[0], opts.Dim[1], opts.Dim[2]),
		"-v",
		"-c", opts.Poscar,
		"--gruneisen",
	}
	if opts.NAC {
		args = append(args, "--nac")
	}
	switch {
	case len(opts.Band) > 0:
		pts := make([]string, len(opts.Band))
		for i, k := range opts.Band {
			if len(k) != 3 {
				return "", fmt.Errorf("goJarvis/phono3py.BuildGruneisenFC3: band point %d has %d components", i, len(k))
			}
			pts[i] = joinFloats(k)
		}
		args = append(args, fmt.Sprintf("--band=\"%s\"", strings.Join(pts, "  ")))
	case opts.Mesh != [3]int{}:
		args = append(args, fmt.Sprintf("--mesh=\"%d %d %d\"", opts.Mesh[0], opts.Mesh[1], opts.Mesh[2]))
	default:
		return "", fmt.Errorf("goJarvis/phono3py.BuildGruneisenFC3: need a band path or a mesh")
	}
	O.args = " " + strings.Join(args, " ")
	return O.command + O.args, nil
}

//Run runs the previously built command line, waiting or not for the result
//depending on wait. Not waiting works only on unix-compatible systems, as it
//uses sh and nohup.
func (O *Handle) Run(wait bool) (err error) {
	if O.args == "" {
		return fmt.Errorf("goJarvis/phono3py.Run: no command line built")
	}
	if wait {
		log.Printf("%s", O.command+O.args)
		command := exec.Command("sh", "-c", O.command+O.args)
		err = command.Run()
	} else {
		command := exec.Command("sh", "-c", "nohup "+O.command+O.args)
		err = command.Start()
	}
	if err != nil {
		return fmt.Errorf("goJarvis/phono3py.Run: %v", err)
	}
	return nil
}

func joinInts(v []int) string {
	s := make([]string, len(v))
	for i, x := range v {
		s[i] = strconv.Itoa(x)
	}
	return strings.Join(s, " ")
}

func joinFloats(v []float64) string {
	s := make([]string, len(v))
	for i, x := range v {
		s[i] = strconv.FormatFloat(x, 'g', -1, 64)
	}
	return strings.Join(s, " ")
}

//PrepareGruneisenQuasiharmonic writes the expanded and compressed structures
//for a quasiharmonic Gruneisen calculation next to the given POSCAR, as
//POSCAR-plus and POSCAR-minus, rescaling the lattice by the given factor
//(e.g. 1.01 for a 1% volume-per-axis change).
func PrepareGruneisenQuasiharmonic(poscar string, scale float64) error {
	if scale <= 0 {
		return fmt.Errorf("goJarvis/phono3py.PrepareGruneisenQuasiharmonic: scale must be positive")
	}
	atoms, err := jarvis.PoscarRead(poscar)
	if err != nil {
		return errDecorate(err, "goJarvis/phono3py.PrepareGruneisenQuasiharmonic")
	}
	dir := filepath.Dir(poscar)
	for _, v := range []struct {
		name  string
		scale float64
	}{{"POSCAR-plus", scale}, {"POSCAR-minus", 1 / scale}} {
		scaled := atoms.Copy()
		scaled.Lattice.Scale(v.scale, atoms.Lattice)
		if err := jarvis.PoscarWrite(filepath.Join(dir, v.name), scaled); err != nil {
			return errDecorate(err, "goJarvis/phono3py.PrepareGruneisenQuasiharmonic")
		}
	}
	return nil
}
