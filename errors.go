/*
 * errors.go, part of gochemio.
 *
 *
 * Copyright 2024 rmeraaatacademicosdotutadotcl
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
 * goChem is developed at Universidad de Tarapaca (UTA)
 *
 *
 */

package chem

import (
	"errors"
	"fmt"
	"strings"
)

// CError is the general error type of the library.
type CError struct {
	msg      string
	deco     []string
	critical bool
}

// NewError returns a CError with the given message, decorated with the caller.
func NewError(msg, caller string, critical bool) CError {
	return CError{msg: msg, deco: []string{caller}, critical: critical}
}

func (err CError) Error() string { return err.msg }

// Decorate adds new information to the error
func (err CError) Decorate(dec string) []string {
	//Even thought this method does not use a pointer as a receiver, and tries to alter the received,
	//it should work, since err.deco is a slice, and hence a pointer itself.
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

// Critical returns true if the error should abort the whole load.
func (err CError) Critical() bool { return err.critical }

// ErrDecorate decorates err with caller if err implements Error. It returns err.
func ErrDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	var e Error
	if errors.As(err, &e) {
		e.Decorate(caller)
	}
	return err
}

// Messages shared by the readers.
const (
	UnableToOpen    = "Unable to open file"
	WrongFormat     = "Wrong format in the file"
	NoAtomMapMsg    = "Atoms do not have an Atom Map! Try loading on top of the input file that generated this file."
	MisalignedPDB   = "Misaligned PDB in Gaussian PDB String"
	UnknownBondType = "Unrecognised bond type"
)

// ErrNoAtomMap is returned (wrapped) by readers that need the identity map built
// by a previously loaded file, and find none.
var ErrNoAtomMap = errors.New(NoAtomMapMsg)

// FileTypeError is returned when a file extension does not map to any reader.
type FileTypeError struct {
	Path string
	Ext  string
	deco []string
}

func (err *FileTypeError) Error() string {
	return fmt.Sprintf("File type not recognised: '%s' (%s)", err.Ext, err.Path)
}

func (err *FileTypeError) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

func (err *FileTypeError) Critical() bool { return true }

// ConsistencyError signals that a file does not agree with the identity map
// built from a previously loaded, correlated file.
type ConsistencyError struct {
	Path     string
	Index    int //-1 if the error is not about a particular atom
	Expected string
	Got      string
	deco     []string
}

func (err *ConsistencyError) Error() string {
	if err.Index < 0 {
		return fmt.Sprintf("%s does not match the loaded geometry: expected %s, got %s. Try loading the input file that generated it first", err.Path, err.Expected, err.Got)
	}
	return fmt.Sprintf("%s does not match the loaded geometry at atom %d: expected %s, got %s. Try loading the input file that generated it first", err.Path, err.Index, err.Expected, err.Got)
}

func (err *ConsistencyError) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

func (err *ConsistencyError) Critical() bool { return true }

// ResidueMismatchError is returned when a residue ID is registered with a name
// different from the one being added.
type ResidueMismatchError struct {
	ID       ResidueID
	Existing string
	New      string
	deco     []string
}

func (err *ResidueMismatchError) Error() string {
	return fmt.Sprintf("Tried to add Residue Name %s to Residue %s (%s)", err.New, err.ID, err.Existing)
}

func (err *ResidueMismatchError) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

func (err *ResidueMismatchError) Critical() bool { return true }

// PDBIDError is returned for PDB atom names that can't be interpreted.
type PDBIDError struct {
	Name string
	msg  string
}

func (err *PDBIDError) Error() string {
	return fmt.Sprintf("%s: '%s'", err.msg, err.Name)
}

// BondTypeError is returned for bond codes or Gaussian bond floats that don't
// correspond to any bond type.
type BondTypeError struct {
	Value string
}

func (err *BondTypeError) Error() string {
	return fmt.Sprintf("%s: '%s'", UnknownBondType, err.Value)
}

// Trace returns the decoration chain of err, if any, as a single string, innermost call first.
func Trace(err error) string {
	var e Error
	if !errors.As(err, &e) {
		return ""
	}
	return strings.Join(e.Decorate(""), " <- ")
}
