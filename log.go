/*
 * log.go, part of gochemio.
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
	"fmt"
	"io"
	"log"
	"strings"
)

// LogLevel orders the messages emitted by the readers.
type LogLevel int

const (
	Verbose LogLevel = iota
	Debug
	Info
	Warning
	ErrorLevel
)

var levelNames = [...]string{"VERBOSE", "DEBUG", "INFO", "WARNING", "ERROR"}

func (l LogLevel) String() string {
	if l < Verbose || l > ErrorLevel {
		return fmt.Sprintf("LEVEL(%d)", int(l))
	}
	return levelNames[l]
}

// ParseLogLevel accepts the (case-insensitive) names verbose, debug, info,
// warning and error.
func ParseLogLevel(s string) (LogLevel, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "WARN" {
		return Warning, nil
	}
	for i, v := range levelNames {
		if v == s {
			return LogLevel(i), nil
		}
	}
	return Info, fmt.Errorf("unknown log level: '%s'", s)
}

// Lazy wraps a function so it is only called when the message it belongs to is
// actually emitted.
type Lazy func() string

func (l Lazy) String() string { return l() }

// StdLogger sends messages at or above a minimum level to a log.Logger.
type StdLogger struct {
	l   *log.Logger
	min LogLevel
}

// NewStdLogger returns a logger writing to w everything at or above min.
func NewStdLogger(w io.Writer, min LogLevel) *StdLogger {
	return &StdLogger{l: log.New(w, "", log.LstdFlags), min: min}
}

func (L *StdLogger) Enabled(level LogLevel) bool {
	return L != nil && level >= L.min
}

func (L *StdLogger) Logf(level LogLevel, format string, args ...interface{}) {
	if !L.Enabled(level) {
		return
	}
	L.l.Printf("[%s] %s", level, fmt.Sprintf(format, args...))
}

type nopLogger struct{}

func (nopLogger) Logf(LogLevel, string, ...interface{}) {}
func (nopLogger) Enabled(LogLevel) bool                 { return false }

// NopLogger discards everything.
var NopLogger Logger = nopLogger{}

// OrNop returns l, or NopLogger if l is nil.
func OrNop(l Logger) Logger {
	if l == nil {
		return NopLogger
	}
	return l
}
