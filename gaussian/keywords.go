/*
 * keywords.go, part of gochemio.
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


package gaussian

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// DefaultMethods are the method names recognized in the keyword line of
// inputs without ONIOM. A keyword starting with one of them gives the level
// of theory of the Model layer.
var DefaultMethods = []string{
	"hf", "rhf", "uhf", "rohf", "b3lyp", "ub3lyp", "cam-b3lyp", "b3pw91", "blyp", "bp86", "pbepbe", "pbe1pbe",
	"m062x", "m06", "m06l", "wb97xd", "b97d", "b97d3", "tpssh", "lc-wpbe", "mp2", "ump2", "mp4", "ccsd", "cis",
	"pm3", "pm6", "pm7", "am1", "mndo", "zindo", "dftb", "amber", "uff", "dreiding", "casscf",
}

// ValueFromPair returns what follows the first "=" in s that is not enclosed
// in parentheses, ie "(opt1=v1,opt2=v2)" for "oniom(b3lyp:amber)=(embed,scale=1)".
// It returns "" if there is no such "=".
func ValueFromPair(s string) string {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		case '=':
			if depth == 0 {
				return s[i+1:]
			}
		}
	}
	return ""
}

// StringInParentheses returns the content of the first, outermost, pair of
// parentheses in s, or s itself if it has no parentheses.
func StringInParentheses(s string) string {
	start, end := -1, -1
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			if depth == 0 && start == -1 {
				start = i + 1
			}
			depth++
		case ')':
			if depth == 1 && end == -1 {
				end = i
			}
			depth--
		}
	}
	if start == -1 {
		return s
	}
	if end < start {
		return s[start:]
	}
	return s[start:end]
}

// options splits the options of a keyword, "geom=(connectivity,nocrowd)" or
// "geom=connectivity", on commas.
func options(keyword string) []string {
	var ret []string
	for _, v := range strings.Split(StringInParentheses(ValueFromPair(keyword)), ",") {
		if v = strings.TrimSpace(v); v != "" {
			ret = append(ret, v)
		}
	}
	return ret
}

// MethodFromString splits a level of theory given as "method/basis/options",
// or "method=options", into its parts.
func MethodFromString(s string) (method, basis, opts string) {
	parts := strings.SplitN(s, "/", 3)
	if len(parts) == 1 {
		mo := strings.SplitN(parts[0], "=", 2)
		method = mo[0]
		if len(mo) == 2 {
			opts = mo[1]
		}
		return method, "", opts
	}
	method, basis = parts[0], parts[1]
	if len(parts) == 3 {
		opts = parts[2]
	}
	return method, basis, opts
}

// MemoryMB converts a Gaussian memory specification, ie "2GB", to megabytes.
// The units can be KB, MB, GB or TB.
func MemoryMB(s string) (int, error) {
	s = strings.TrimSpace(s)
	i := strings.IndexFunc(s, unicode.IsLetter)
	if i < 0 {
		return 0, fmt.Errorf("memory units missing in '%s'", s)
	}
	n, err := strconv.Atoi(strings.TrimSpace(s[:i]))
	if err != nil {
		return 0, fmt.Errorf("wrong memory specification '%s': %w", s, err)
	}
	switch units := strings.ToUpper(s[i:]); units {
	case "KB":
		return n / 1024, nil
	case "MB":
		return n, nil
	case "GB":
		return n * 1024, nil
	case "TB":
		return n * 1048576, nil
	default:
		return 0, fmt.Errorf("memory units '%s' not recognised", units)
	}
}
