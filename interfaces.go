/*
 * interfaces.go, part of gochemio.
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

//Errors

// Error is the interface for errors that all packages in this library implement. The Decorate method allows to add and retrieve info from the
// error, without changing it's type or wrapping it around something else.
type Error interface {
	Error() string
	Decorate(string) []string //Each call returns the "decoration" slice resulting from the current call. If passed an empty string, it just returns the current value.
	//The decorate slice should contain a list of functions in the calling stack, plus, for each function any relevant information, or nothing.
	//If information is to be added to an element of the slice, it should be in this format: "FunctionName: Extra info"
}

// CriticalError is an Error that knows whether it should abort a whole load or
// just the record being read.
type CriticalError interface {
	Error
	Critical() bool
}

//Logging

// Logger is the leveled logging sink used by all readers.
// Implementations must not format anything for levels that are not enabled,
// so callers can pass expensive arguments (see Lazy) without paying for them.
type Logger interface {
	Logf(level LogLevel, format string, args ...interface{})
	Enabled(level LogLevel) bool
}
