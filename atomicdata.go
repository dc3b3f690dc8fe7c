/*
 * atomicdata.go, part of gochemio.
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
	"strings"
	"unicode"
)

//Element symbols, in atomic-number order. Index 0 is the dummy "X".
var symbols = [...]string{
	"X", "H", "He",
	"Li", "Be", "B", "C", "N", "O", "F", "Ne",
	"Na", "Mg", "Al", "Si", "P", "S", "Cl", "Ar",
	"K", "Ca", "Sc", "Ti", "V", "Cr", "Mn", "Fe", "Co", "Ni", "Cu", "Zn", "Ga", "Ge", "As", "Se", "Br", "Kr",
	"Rb", "Sr", "Y", "Zr", "Nb", "Mo", "Tc", "Ru", "Rh", "Pd", "Ag", "Cd", "In", "Sn", "Sb", "Te", "I", "Xe",
	"Cs", "Ba", "La", "Ce", "Pr", "Nd", "Pm", "Sm", "Eu", "Gd", "Tb", "Dy", "Ho", "Er", "Tm", "Yb", "Lu",
	"Hf", "Ta", "W", "Re", "Os", "Ir", "Pt", "Au", "Hg", "Tl", "Pb", "Bi", "Po", "At", "Rn",
	"Fr", "Ra", "Ac", "Th", "Pa", "U", "Np", "Pu", "Am", "Cm", "Bk", "Cf", "Es", "Fm", "Md", "No", "Lr",
	"Rf", "Db", "Sg", "Bh", "Hs", "Mt", "Ds", "Rg", "Cn", "Nh", "Fl", "Mc", "Lv", "Ts", "Og",
}

var symbolNumber map[string]int

func init() {
	symbolNumber = make(map[string]int, len(symbols))
	for i, v := range symbols {
		symbolNumber[v] = i
	}
}

//A map for assigning mass to elements.
//Note that just common "bio-elements" are present
var symbolMass = map[string]float64{
	"H":  1.0,
	"C":  12.01,
	"O":  16.00,
	"N":  14.01,
	"P":  30.97,
	"S":  32.06,
	"Se": 78.96,
	"K":  39.1,
	"Ca": 40.08,
	"Mg": 24.30,
	"Cl": 35.45,
	"Na": 22.99,
	"Cu": 63.55,
	"Zn": 65.38,
	"Co": 58.93,
	"Fe": 55.84,
	"Mn": 54.94,
	"Cr": 51.996,
	"Si": 28.08,
	"Be": 9.012,
	"F":  18.998,
	"Br": 79.904,
	"I":  126.90,
}

// TitleCase returns s with the first letter in upper case and the rest in lower case,
// which is how element symbols are stored ("NA"->"Na").
func TitleCase(s string) string {
	if s == "" {
		return s
	}
	r := []rune(strings.ToLower(s))
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// AtomicNumber returns the atomic number for the element symbol, which is
// case-insensitive. The second value is false if the symbol is not an element.
func AtomicNumber(symbol string) (int, bool) {
	n, ok := symbolNumber[TitleCase(strings.TrimSpace(symbol))]
	return n, ok
}

// IsElement returns true if symbol is a known element symbol (case-insensitive)
func IsElement(symbol string) bool {
	_, ok := AtomicNumber(symbol)
	return ok
}

// Symbol returns the element symbol with the given atomic number, or "X"
// if the number is out of range.
func Symbol(number int) string {
	if number < 0 || number >= len(symbols) {
		return "X"
	}
	return symbols[number]
}

// Mass returns the atomic mass of the element, or 0 for
// elements without tabulated mass.
func Mass(symbol string) float64 {
	return symbolMass[TitleCase(symbol)]
}
