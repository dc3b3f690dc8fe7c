/*
 * chem.go, part of gochemio.
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
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultAmber is the force-field type of atoms without one.
const DefaultAmber = "X"

//Atom contains the information of one atom, except for its identity, which
//is given by the AtomID it is stored under.
type Atom struct {
	Position r3.Vec
	Amber    string  //Force-field (AMBER) type. DefaultAmber if unknown
	Charge   float64 //Partial charge
	Layer    Layer
	Mobile   bool
	Penalty  float64 //Force-field assignment penalty score
	Radius   float64 //Van der Waals radius, only set by the PQR reader
}

// NewAtom returns an atom at the given position with the default amber type.
func NewAtom(pos r3.Vec, layer Layer) *Atom {
	return &Atom{Position: pos, Amber: DefaultAmber, Layer: layer, Mobile: true}
}

//Atom methods

//Copy returns a copy of the Atom object.
func (A *Atom) Copy() *Atom {
	if A == nil {
		panic("Attempted to copy a nil atom")
	}
	n := *A
	return &n
}

func (A *Atom) String() string {
	return fmt.Sprintf("Atom(amber=%s, charge=%.4f, layer=%s, pos=(%.4f,%.4f,%.4f))", A.Amber, A.Charge, A.Layer, A.Position.X, A.Position.Y, A.Position.Z)
}

// ResidueState classifies residues.
type ResidueState int

const (
	UnknownState ResidueState = iota
	Standard
	NonStandard
	CTerminal
	NTerminal
	Hetero
	Water
	Cap
	Ion
)

var residueStateNames = map[ResidueState]string{
	UnknownState: "UNKNOWN",
	Standard:     "STANDARD",
	NonStandard:  "NONSTANDARD",
	CTerminal:    "C_TER",
	NTerminal:    "N_TER",
	Hetero:       "HETERO",
	Water:        "WATER",
	Cap:          "CAP",
	Ion:          "ION",
}

func (S ResidueState) String() string {
	if s, ok := residueStateNames[S]; ok {
		return s
	}
	return "UNKNOWN"
}

// ParseResidueState returns the state for one of the names returned by ResidueState.String.
func ParseResidueState(s string) (ResidueState, error) {
	for k, v := range residueStateNames {
		if v == s {
			return k, nil
		}
	}
	return UnknownState, fmt.Errorf("unknown residue state: '%s'", s)
}

// Residue is a named group of atoms, keyed by PDBID.
type Residue struct {
	ID         ResidueID
	Name       string
	State      ResidueState
	Protonated bool
	atoms      map[PDBID]*Atom
	geom       *Geometry //the geometry owning the residue, if any
}

// NewResidue returns an empty residue.
func NewResidue(id ResidueID, name string) *Residue {
	return &Residue{ID: id, Name: name, State: Standard, atoms: make(map[PDBID]*Atom)}
}

// Geometry returns the geometry the residue belongs to, or nil.
func (R *Residue) Geometry() *Geometry { return R.geom }

// AddAtom adds at to the residue under pdb. If pdb is already used, the number
// of the PDBID is increased until a free one is found. The PDBID actually used
// is returned.
func (R *Residue) AddAtom(pdb PDBID, at *Atom) PDBID {
	for {
		if _, ok := R.atoms[pdb]; !ok {
			break
		}
		pdb = pdb.Next()
	}
	R.atoms[pdb] = at
	if pdb.Element == "H" {
		R.Protonated = true
	}
	if R.geom != nil {
		R.geom.natoms++
		R.geom.node(AtomID{R.ID, pdb})
	}
	return pdb
}

// Atom returns the atom with the given PDBID.
func (R *Residue) Atom(pdb PDBID) (*Atom, bool) {
	a, ok := R.atoms[pdb]
	return a, ok
}

// Len returns the number of atoms in the residue.
func (R *Residue) Len() int {
	return len(R.atoms)
}

// PDBIDs returns the sorted PDBIDs of the residue.
func (R *Residue) PDBIDs() []PDBID {
	ret := make([]PDBID, 0, len(R.atoms))
	for k := range R.atoms {
		ret = append(ret, k)
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].Less(ret[j]) })
	return ret
}

// Charge returns the sum of the partial charges of the residue atoms.
func (R *Residue) Charge() float64 {
	var c float64
	for _, v := range R.atoms {
		c += v.Charge
	}
	return c
}
