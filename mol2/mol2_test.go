/*
 * mol2_test.go, part of gochemio.
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

package mol2

import (
	"bytes"
	"context"
	"strings"
	"testing"

	chem "github.com/rmera/gochemio"
	"gonum.org/v1/gonum/spatial/r3"
)

const mol2Test = `@<TRIPOS>MOLECULE
ALA
    4     3     1     0     0
SMALL
resp

@<TRIPOS>ATOM
      1 N          -1.2440    0.5560    0.0000 N          1 ALA      -0.415700
      2 CA         -0.0100    1.2800    0.0000 CT         1 ALA       0.033700
      3 HG11        1.0000    2.0000    3.0000 HC         1 ALA       0.060300
      4 C           1.2000    0.4000    0.0000 DU         1 ALA
@<TRIPOS>BOND
     1    1    2 1
     2    2    3 1
`

func TestReadMol2(Te *testing.T) {
	var logs bytes.Buffer
	g := chem.NewGeometry("ala")
	err := Read(context.Background(), strings.NewReader(mol2Test), "ala.mol2", g, Options{Logger: chem.NewStdLogger(&logs, chem.Warning)})
	if err != nil {
		Te.Fatal(err)
	}
	if g.Len() != 4 || g.AtomMap.Len() != 4 {
		Te.Fatalf("got %d atoms, wanted 4", g.Len())
	}
	ca, _ := g.AtomMap.Get(1)
	if ca.Residue != (chem.ResidueID{Chain: "A", Number: 1}) || ca.PDB.Element != "C" || ca.PDB.Identifier != "A" {
		Te.Errorf("wrong id for CA: %v", ca)
	}
	at, _ := g.Atom(ca)
	if at.Amber != "CT" || at.Charge != 0.0337 || at.Position.X != -0.01 {
		Te.Errorf("wrong CA: %v", at)
	}
	h, _ := g.AtomMap.Get(2)
	if h.PDB.Element != "H" || h.PDB.Identifier != "G1" || h.PDB.Number != 1 {
		Te.Errorf("HG11 should be read as 1HG1, got %+v", h.PDB)
	}
	c, _ := g.AtomMap.Get(3)
	if at, _ := g.Atom(c); at.Charge != 0 {
		Te.Errorf("missing charges should be 0, got %v", at.Charge)
	}
	if !strings.Contains(logs.String(), "AMBER Type DU") {
		Te.Errorf("DU types should be logged, got:\n%s", logs.String())
	}
}

func TestUpdateMol2(Te *testing.T) {
	g := chem.NewGeometry("ala")
	if err := Read(context.Background(), strings.NewReader(mol2Test), "ala.mol2", g, Options{}); err != nil {
		Te.Fatal(err)
	}
	//only 2 atoms in the map, the rest of the records must be ignored.
	h := chem.NewGeometry("ala")
	h.AtomMap = chem.NewAtomMap()
	for i := 0; i < 2; i++ {
		id, _ := g.AtomMap.Get(i)
		old, _ := g.Atom(id)
		at := chem.NewAtom(r3.Add(old.Position, old.Position), chem.Real)
		h.ResidueFor(id.Residue, "ALA")
		h.AddAtom(id, at)
		h.AtomMap.Set(i, id)
	}
	if err := Read(context.Background(), strings.NewReader(mol2Test), "ala.mol2", h, Options{}); err != nil {
		Te.Fatal(err)
	}
	if h.Len() != 2 {
		Te.Errorf("atoms should not be added to an existing map, got %d", h.Len())
	}
	for i := 0; i < 2; i++ {
		id, _ := h.AtomMap.Get(i)
		a, _ := h.Atom(id)
		b, _ := g.Atom(id)
		if a.Position != b.Position || a.Amber != b.Amber || a.Charge != b.Charge {
			Te.Errorf("atom %d was not updated: %v vs %v", i, a, b)
		}
	}
}

func TestPDBName(Te *testing.T) {
	for in, want := range map[string]string{"N": " N  ", "CA": " CA ", "HG11": "1HG1", "OXT": " OXT"} {
		if got := pdbName(in); got != want {
			Te.Errorf("%s: got %q, wanted %q", in, got, want)
		}
	}
}
