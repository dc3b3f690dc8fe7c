/*
 * driver.go, part of gochemio.
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

/*Package reader contains the line driver shared by all the readers in gochemio.

A reader is a set of named states. Each state handles exactly one line, and can
change the current state, ask the driver to skip the following lines, or stop the reading.
Errors returned by a state are turned into a *ParseError which knows where
(line and column) and in which state the reading failed.
*/
package reader

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// State is a named line handler.
type State struct {
	Name string
	Do   func(line string) error
}

// Driver feeds lines, one at the time, to the current State.
type Driver struct {
	Path       string
	LineNumber int //1-based number of the last line read
	CharNum    int //1-based column where the current state is reading, 0 if unknown
	Skip       int //number of lines to drop before the next dispatch
	Stop       bool
	Cadence    *Cadence
	state      State
	line       string
}

// NewDriver returns a driver for the file path (used only in error messages),
// starting in the state initial.
func NewDriver(path string, initial State) *Driver {
	return &Driver{Path: path, state: initial}
}

// SetState changes the state that will receive the next line.
func (D *Driver) SetState(s State) {
	D.state = s
}

// State returns the current state.
func (D *Driver) State() State {
	return D.state
}

// Run reads lines from src until src is exhausted, a state sets Stop or
// returns an error, or ctx is cancelled. ctx is checked between lines.
// Nothing is rolled back on error.
func (D *Driver) Run(ctx context.Context, src Lines) error {
	if ctx == nil {
		ctx = context.Background()
	}
	for src.Next() {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("reading %s stopped at line %d: %w", D.Path, D.LineNumber, err)
		}
		D.LineNumber++
		line := src.Line()
		if err := D.Cadence.tick(D.LineNumber); err != nil {
			return fmt.Errorf("reading %s interrupted at line %d: %w", D.Path, D.LineNumber, err)
		}
		if D.Skip > 0 {
			D.Skip--
			continue
		}
		D.line = line
		D.CharNum = 0
		if D.state.Do == nil {
			return D.Fail(errors.New("no state to handle the line"))
		}
		if err := D.state.Do(line); err != nil {
			return D.Fail(err)
		}
		if D.Stop {
			return nil
		}
	}
	if err := src.Err(); err != nil {
		return fmt.Errorf("reading %s after line %d: %w", D.Path, D.LineNumber, err)
	}
	return nil
}

// Fail returns a *ParseError for err at the current line, column and state.
// If err already is a *ParseError it is returned unchanged.
func (D *Driver) Fail(err error) error {
	var perr *ParseError
	if errors.As(err, &perr) {
		return err
	}
	return &ParseError{
		Path:  D.Path,
		Line:  D.LineNumber,
		Char:  D.CharNum,
		State: D.state.Name,
		Text:  D.line,
		Err:   err,
		deco:  []string{D.state.Name},
	}
}

// Column returns line[start:end], with start 0-based and end exclusive.
// If the line is shorter than end, the available characters are returned.
// CharNum is set to the column where the substring starts.
func (D *Driver) Column(line string, start, end int) (string, error) {
	D.CharNum = start + 1
	if start >= len(line) {
		return "", fmt.Errorf("line too short for column %d", start+1)
	}
	if end > len(line) {
		end = len(line)
	}
	return line[start:end], nil
}

// ColumnFloat reads a float from the trimmed line[start:end].
func (D *Driver) ColumnFloat(line string, start, end int) (float64, error) {
	s, err := D.Column(line, start, end)
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// ColumnInt reads an integer from the trimmed line[start:end].
func (D *Driver) ColumnInt(line string, start, end int) (int, error) {
	s, err := D.Column(line, start, end)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(s))
}

// Field is a whitespace-separated token and its 1-based starting column.
type Field struct {
	Text string
	Col  int
}

// Fields splits line around runs of spaces and tabs, keeping the column where
// each field starts.
func Fields(line string) []Field {
	var ret []Field
	start := -1
	for i := 0; i < len(line); i++ {
		blank := line[i] == ' ' || line[i] == '\t'
		if blank && start >= 0 {
			ret = append(ret, Field{line[start:i], start + 1})
			start = -1
		} else if !blank && start < 0 {
			start = i
		}
	}
	if start >= 0 {
		ret = append(ret, Field{line[start:], start + 1})
	}
	return ret
}

// Field returns the text of fields[i], setting CharNum to its column.
func (D *Driver) Field(fields []Field, i int) (string, error) {
	if i >= len(fields) {
		if len(fields) > 0 {
			last := fields[len(fields)-1]
			D.CharNum = last.Col + len(last.Text)
		}
		return "", fmt.Errorf("expected at least %d fields, found %d", i+1, len(fields))
	}
	D.CharNum = fields[i].Col
	return fields[i].Text, nil
}

// FieldFloat reads a float from fields[i].
func (D *Driver) FieldFloat(fields []Field, i int) (float64, error) {
	s, err := D.Field(fields, i)
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(s, 64)
}

// FieldInt reads an integer from fields[i].
func (D *Driver) FieldInt(fields []Field, i int) (int, error) {
	s, err := D.Field(fields, i)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(s)
}
