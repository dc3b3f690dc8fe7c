/*
 * geometry.go, part of gochemio.
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

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Geometry is the molecular model all readers write into. It owns the residues,
// the identity map between file indexes and atoms, the force-field parameters
// and the state of the Gaussian calculation.
//
// A Geometry is not safe for concurrent use. It is meant to be filled by one reader
// at the time.
type Geometry struct {
	Name            string
	AtomMap         *AtomMap //nil until some reader builds it
	Parameters      *Parameters
	Calc            *Calculation
	MissingResidues map[ResidueID]string //REMARK 465 in PDB files
	residues        map[ResidueID]*Residue
	natoms          int
	bonds           *simple.WeightedUndirectedGraph //edge weights are Gaussian bond orders
	nodes           map[AtomID]int64
	nodeIDs         []AtomID
}

// NewGeometry returns an empty geometry.
func NewGeometry(name string) *Geometry {
	return &Geometry{
		Name:            name,
		Parameters:      NewParameters(),
		Calc:            NewCalculation(),
		MissingResidues: make(map[ResidueID]string),
		residues:        make(map[ResidueID]*Residue),
		bonds:           simple.NewWeightedUndirectedGraph(0, 0),
		nodes:           make(map[AtomID]int64),
	}
}

//node returns the graph node ID for the atom, adding it if needed.
func (G *Geometry) node(id AtomID) int64 {
	if n, ok := G.nodes[id]; ok {
		return n
	}
	n := int64(len(G.nodeIDs))
	G.nodes[id] = n
	G.nodeIDs = append(G.nodeIDs, id)
	G.bonds.AddNode(simple.Node(n))
	return n
}

// Residue returns the residue with the given ID.
func (G *Geometry) Residue(id ResidueID) (*Residue, bool) {
	r, ok := G.residues[id]
	return r, ok
}

// AddResidue adds R to the geometry. If a residue with the same ID exists and
// has the same name, the existing one is returned. If the names differ, a
// *ResidueMismatchError is returned.
func (G *Geometry) AddResidue(R *Residue) (*Residue, error) {
	if old, ok := G.residues[R.ID]; ok {
		if old.Name != R.Name {
			return nil, &ResidueMismatchError{ID: R.ID, Existing: old.Name, New: R.Name, deco: []string{"AddResidue"}}
		}
		return old, nil
	}
	R.geom = G
	G.residues[R.ID] = R
	G.natoms += len(R.atoms)
	for _, pdb := range R.PDBIDs() {
		G.node(AtomID{R.ID, pdb})
	}
	return R, nil
}

// ResidueFor returns the residue with the given id, creating it, with the given name, if needed.
// A *ResidueMismatchError is returned if the residue exists with a different name.
func (G *Geometry) ResidueFor(id ResidueID, name string) (*Residue, error) {
	return G.AddResidue(NewResidue(id, name))
}

// AddAtom adds at to the residue id, which must exist. It returns the accepted AtomID,
// which could differ from the requested one, see Residue.AddAtom.
func (G *Geometry) AddAtom(id AtomID, at *Atom) (AtomID, error) {
	r, ok := G.residues[id.Residue]
	if !ok {
		return id, fmt.Errorf("AddAtom: residue %s not in geometry", id.Residue)
	}
	id.PDB = r.AddAtom(id.PDB, at)
	G.node(id)
	return id, nil
}

// Atom returns the atom with the given ID.
func (G *Geometry) Atom(id AtomID) (*Atom, bool) {
	r, ok := G.residues[id.Residue]
	if !ok {
		return nil, false
	}
	return r.Atom(id.PDB)
}

// Len returns the number of atoms in the geometry.
func (G *Geometry) Len() int {
	return G.natoms
}

// ResidueIDs returns the sorted residue IDs.
func (G *Geometry) ResidueIDs() []ResidueID {
	ret := make([]ResidueID, 0, len(G.residues))
	for k := range G.residues {
		ret = append(ret, k)
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].Less(ret[j]) })
	return ret
}

// AtomIDs returns the IDs of all atoms, sorted by residue and then PDBID.
func (G *Geometry) AtomIDs() []AtomID {
	ret := make([]AtomID, 0, G.natoms)
	for _, rid := range G.ResidueIDs() {
		for _, pdb := range G.residues[rid].PDBIDs() {
			ret = append(ret, AtomID{rid, pdb})
		}
	}
	return ret
}

// MappedAtomIDs returns the atoms in the order of the identity map, followed
// by the atoms not in the map, if any, as sorted by AtomIDs.
func (G *Geometry) MappedAtomIDs() []AtomID {
	ret := make([]AtomID, 0, G.natoms)
	inmap := make(map[AtomID]bool, G.natoms)
	if G.AtomMap != nil {
		for _, i := range G.AtomMap.Indexes() {
			id, _ := G.AtomMap.Get(i)
			ret = append(ret, id)
			inmap[id] = true
		}
	}
	for _, id := range G.AtomIDs() {
		if !inmap[id] {
			ret = append(ret, id)
		}
	}
	return ret
}

// Charge returns the sum of all partial charges.
func (G *Geometry) Charge() float64 {
	var c float64
	for _, r := range G.residues {
		c += r.Charge()
	}
	return c
}

// Connect bonds a and b with a bond of type bt. Both atoms must be in the geometry.
// Connecting two atoms again replaces the bond type.
func (G *Geometry) Connect(a, b AtomID, bt BondType) error {
	if a == b {
		return fmt.Errorf("Connect: can't bond atom %s to itself", a)
	}
	for _, v := range []AtomID{a, b} {
		if _, ok := G.Atom(v); !ok {
			return fmt.Errorf("Connect: atom %s not in geometry", v)
		}
	}
	w, err := bt.Gauss()
	if err != nil {
		return fmt.Errorf("Connect: %w", err)
	}
	na, nb := G.node(a), G.node(b)
	G.bonds.SetWeightedEdge(G.bonds.NewWeightedEdge(simple.Node(na), simple.Node(nb), w))
	return nil
}

// Bond returns the type of the bond between a and b, if there is one.
func (G *Geometry) Bond(a, b AtomID) (BondType, bool) {
	na, ok := G.nodes[a]
	if !ok {
		return NoBond, false
	}
	nb, ok := G.nodes[b]
	if !ok {
		return NoBond, false
	}
	e := G.bonds.WeightedEdge(na, nb)
	if e == nil {
		return NoBond, false
	}
	bt, err := BondTypeFromGauss(e.Weight())
	if err != nil {
		return NoBond, false
	}
	return bt, true
}

// Neighbours returns the sorted IDs of the atoms bonded to a.
func (G *Geometry) Neighbours(a AtomID) []AtomID {
	n, ok := G.nodes[a]
	if !ok {
		return nil
	}
	var ret []AtomID
	it := G.bonds.From(n)
	for it.Next() {
		ret = append(ret, G.nodeIDs[it.Node().ID()])
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].Less(ret[j]) })
	return ret
}

// NBonds returns the number of bonds in the geometry.
func (G *Geometry) NBonds() int {
	return G.bonds.Edges().Len()
}

// Fragments returns the groups of atoms connected by bonds. Unbonded atoms form
// their own fragment. Each fragment is sorted, fragments are ordered by their first atom.
func (G *Geometry) Fragments() [][]AtomID {
	comps := topo.ConnectedComponents(G.bonds)
	ret := make([][]AtomID, 0, len(comps))
	for _, c := range comps {
		f := make([]AtomID, 0, len(c))
		for _, n := range c {
			f = append(f, G.nodeIDs[n.ID()])
		}
		sort.Slice(f, func(i, j int) bool { return f[i].Less(f[j]) })
		ret = append(ret, f)
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i][0].Less(ret[j][0]) })
	return ret
}

// Coords returns the positions of the atoms in the identity map as an Nx3 matrix, in map order.
func (G *Geometry) Coords() (*mat.Dense, error) {
	if G.AtomMap.Len() == 0 {
		return nil, ErrNoAtomMap
	}
	idx := G.AtomMap.Indexes()
	ret := mat.NewDense(len(idx), 3, nil)
	for i, v := range idx {
		id, _ := G.AtomMap.Get(v)
		at, ok := G.Atom(id)
		if !ok {
			return nil, fmt.Errorf("Coords: atom %s in map but not in geometry", id)
		}
		ret.SetRow(i, []float64{at.Position.X, at.Position.Y, at.Position.Z})
	}
	return ret, nil
}

// SetCoords sets the atom positions from an Nx3 matrix, whose rows follow the identity map order.
func (G *Geometry) SetCoords(coords *mat.Dense) error {
	if G.AtomMap.Len() == 0 {
		return ErrNoAtomMap
	}
	idx := G.AtomMap.Indexes()
	r, c := coords.Dims()
	if r != len(idx) || c != 3 {
		return &ConsistencyError{Path: G.Name, Index: -1, Expected: fmt.Sprintf("%dx3 coordinates", len(idx)), Got: fmt.Sprintf("%dx%d", r, c)}
	}
	for i, v := range idx {
		id, _ := G.AtomMap.Get(v)
		at, ok := G.Atom(id)
		if !ok {
			return fmt.Errorf("SetCoords: atom %s in map but not in geometry", id)
		}
		at.Position = r3.Vec{X: coords.At(i, 0), Y: coords.At(i, 1), Z: coords.At(i, 2)}
	}
	return nil
}

// CenterOfMass returns the mass-weighted center of the atoms with tabulated mass.
func (G *Geometry) CenterOfMass() r3.Vec {
	var c r3.Vec
	var total float64
	for _, id := range G.AtomIDs() {
		at, _ := G.Atom(id)
		m := Mass(id.PDB.Element)
		c = r3.Add(c, r3.Scale(m, at.Position))
		total += m
	}
	if total == 0 {
		return c
	}
	return r3.Scale(1/total, c)
}
