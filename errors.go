/*
 * errors.go, part of goJarvis.
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

// Error is the interface for errors that the packages in this library implement.
// The Decorate method allows to add and retrieve info from the error, without
// changing its type or wrapping it around something else. If passed an empty
// string, Decorate should just return the current decoration slice.
type Error interface {
	Error() string
	Decorate(string) []string
}

// CError is the concrete Error used by the root package. The decoration slice
// contains the functions in the calling stack, plus, for each function, any
// relevant extra information.
type CError struct {
	msg  string
	deco []string
}

// NewCError returns a CError with the given message and initial decoration.
func NewCError(msg string, deco ...string) *CError {
	return &CError{msg: msg, deco: deco}
}

func (err *CError) Error() string {
	return err.msg
}

// Decorate adds dec to the decoration slice of the error, and returns the
// resulting slice. An empty dec only retrieves the current decorations.
func (err *CError) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

// errDecorate asserts that err implements Error and decorates it with the
// caller's name before returning it. If err is not an Error, it is wrapped
// in a new CError first, so the caller's information is never lost.
func errDecorate(err error, caller string) error {
	err2, ok := err.(Error)
	if !ok {
		return NewCError(err.Error(), caller)
	}
	err2.Decorate(caller)
	return err2
}

// PanicMsg is a message used for panics. It does satisfy the error interface,
// but for recoverable conditions use Error.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }

const (
	ErrNilData     = PanicMsg("goJarvis: nil data given")
	ErrNilAtoms    = PanicMsg("goJarvis: nil Atoms given")
	ErrShape       = PanicMsg("goJarvis: dimension mismatch")
	ErrNotLattice  = PanicMsg("goJarvis: a lattice must be a 3x3 matrix")
	ErrUnknownElem = PanicMsg("goJarvis: element symbol not in the mass table")
)
