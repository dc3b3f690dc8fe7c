/*
 * bonds.go, part of gochemio.
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
	"math"
)

// BondType is the kind of a bond.
type BondType int

const (
	NoBond BondType = iota
	Single
	Aromatic
	Double
	Triple
)

// gaussTolerance is how far a Gaussian bond order can be from the nominal one.
const gaussTolerance = 0.001

var bondCodes = [...]string{"", "S", "A", "D", "T"}
var bondGauss = [...]float64{0, 1.0, 1.5, 2.0, 3.0}

// Code returns the one-letter code of the bond type (S, A, D, T). NoBond has an empty code.
func (B BondType) Code() string {
	if B < NoBond || B > Triple {
		return ""
	}
	return bondCodes[B]
}

func (B BondType) String() string {
	switch B {
	case Single:
		return "Single"
	case Aromatic:
		return "Aromatic"
	case Double:
		return "Double"
	case Triple:
		return "Triple"
	}
	return "None"
}

// Gauss returns the bond order Gaussian uses for the bond type in connectivity sections.
// It returns an error for NoBond.
func (B BondType) Gauss() (float64, error) {
	if B <= NoBond || B > Triple {
		return 0, &BondTypeError{Value: B.String()}
	}
	return bondGauss[B], nil
}

// BondTypeFromGauss returns the bond type whose Gaussian bond order is within
// 0.001 of f.
func BondTypeFromGauss(f float64) (BondType, error) {
	for i := Single; i <= Triple; i++ {
		if math.Abs(bondGauss[i]-f) < gaussTolerance {
			return i, nil
		}
	}
	return NoBond, &BondTypeError{Value: fmt.Sprintf("%g", f)}
}

// BondTypeFromCode returns the bond type for the one-letter code. The empty code is a single bond.
func BondTypeFromCode(code string) (BondType, error) {
	if code == "" {
		return Single, nil
	}
	for i := Single; i <= Triple; i++ {
		if bondCodes[i] == code {
			return i, nil
		}
	}
	return NoBond, &BondTypeError{Value: code}
}
