/*
 * layers.go, part of gochemio.
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

import "fmt"

// Layer is an ONIOM layer. The order matters: the Real layer contains the
// Intermediate layer, which contains the Model layer.
type Layer int

const (
	Real Layer = iota
	Intermediate
	Model
)

var layerChars = [...]byte{'L', 'M', 'H'}
var layerNames = [...]string{"Low", "Intermediate", "Model"}

// Char returns the one-letter code Gaussian uses for the layer (L, M or H).
func (L Layer) Char() byte {
	if L < Real || L > Model {
		return '?'
	}
	return layerChars[L]
}

func (L Layer) String() string {
	if L < Real || L > Model {
		return fmt.Sprintf("Layer(%d)", int(L))
	}
	return layerNames[L]
}

// LayerFromChar returns the layer for a one-letter code. The second value is false for unknown codes.
func LayerFromChar(c byte) (Layer, bool) {
	for i, v := range layerChars {
		if v == c {
			return Layer(i), true
		}
	}
	return Real, false
}

// LayerFromName accepts the layer names used in Gaussian output (real, mid, model, low, high)
// case-insensitively.
func LayerFromName(s string) (Layer, error) {
	switch TitleCase(s) {
	case "Real", "Low":
		return Real, nil
	case "Mid", "Intermediate", "Medium":
		return Intermediate, nil
	case "Model", "High":
		return Model, nil
	}
	return Real, fmt.Errorf("unknown ONIOM layer: '%s'", s)
}
