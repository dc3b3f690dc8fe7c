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

package reader

import (
	"fmt"
	"strings"

	chem "github.com/rmera/gochemio"
)

// ParseError is a failure to read a line. It records where, and in which
// state, the failure happened.
type ParseError struct {
	Path  string
	Line  int
	Char  int //1-based column, 0 if unknown
	State string
	Text  string //the offending line
	Err   error
	deco  []string
}

func (err *ParseError) Error() string {
	trace := err.Err.Error()
	if t := chem.Trace(err.Err); t != "" {
		trace += "\n " + t
	}
	return fmt.Sprintf("Failed to read %s. Line: %d:%d (Failed on %s)\n%s\n%s\n Trace:\n%s",
		err.Path, err.Line, err.Char, err.State, err.Text, Caret(err.Char), trace)
}

func (err *ParseError) Unwrap() error { return err.Err }

// Decorate adds new information to the error
func (err *ParseError) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

// Critical returns true. A parse error always stops the reading.
func (err *ParseError) Critical() bool { return true }

// Caret returns a line pointing at the 1-based column offset.
// offsets <= 1 give a caret with no leading spaces.
func Caret(offset int) string {
	if offset < 1 {
		offset = 1
	}
	return strings.Repeat(" ", offset-1) + "^"
}
