/*
 * calculation.go, part of gochemio.
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

import "sort"

// LayerSpec describes the level of theory and electronic state of one ONIOM layer.
type LayerSpec struct {
	Layer        Layer
	Method       string
	Basis        string
	Options      string
	Charge       int
	Multiplicity int
}

// Calculation holds the state of a Gaussian calculation, as read from its input:
// Link0 commands, keywords, title and layers.
type Calculation struct {
	Checkpoint    string
	OldCheckpoint string
	MemoryMB      int
	NProc         int
	KillJobLink   int
	KillJobN      int
	PrintLevel    string //"N", "P" or "T"
	Keywords      []string
	Oniom         bool
	OniomOptions  []string
	Guess         []string
	GeomOptions   []string
	Connectivity  bool //geom=connectivity was requested
	Title         string
	layers        map[Layer]*LayerSpec
}

// NewCalculation returns a calculation with the Gaussian defaults and no layers.
func NewCalculation() *Calculation {
	return &Calculation{PrintLevel: "N", NProc: 1, layers: make(map[Layer]*LayerSpec)}
}

// SetLayer adds or replaces the specification of a layer.
func (C *Calculation) SetLayer(spec LayerSpec) {
	s := spec
	C.layers[spec.Layer] = &s
}

// Layer returns the specification of the given layer.
func (C *Calculation) Layer(l Layer) (*LayerSpec, bool) {
	s, ok := C.layers[l]
	return s, ok
}

// Layers returns the layers present, in increasing order (Real first).
func (C *Calculation) Layers() []Layer {
	ret := make([]Layer, 0, len(C.layers))
	for k := range C.layers {
		ret = append(ret, k)
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i] < ret[j] })
	return ret
}

// ClearLayers removes all layer specifications.
func (C *Calculation) ClearLayers() {
	C.layers = make(map[Layer]*LayerSpec)
}
