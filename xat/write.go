/*
 * write.go, part of gochemio.
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

package xat

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	chem "github.com/rmera/gochemio"
)

func scales(s [4]float64) string {
	return fmt.Sprintf("%.4f,%.4f,%.4f,%.4f", s[0], s[1], s[2], s[3])
}

//bonds returns the bonds of id in the form "[A2] CA (S)". The residue is
//omitted for atoms in the same residue.
func bonds(g *chem.Geometry, id chem.AtomID) string {
	n := g.Neighbours(id)
	b := make([]string, 0, len(n))
	for _, v := range n {
		bt, _ := g.Bond(id, v)
		res := ""
		if v.Residue != id.Residue {
			res = "[" + v.Residue.String() + "]"
		}
		b = append(b, fmt.Sprintf("%s%s(%s)", res, v.PDB, bt.Code()))
	}
	return strings.Join(b, ",")
}

func writeParameters(p *chem.Parameters) *xatParameters {
	nb := p.NonBonding
	ret := &xatParameters{NonBonding: &xatNonBonding{
		VdwType:       nb.VdwType.String(),
		VdwCutoff:     nb.VCutoff,
		VdwScales:     scales(nb.VScales),
		CoulombType:   nb.CoulombType.String(),
		CoulombCutoff: nb.CCutoff,
		CoulombScales: scales(nb.CScales),
	}}
	for _, a := range p.Atomic {
		ret.Atomic = append(ret.Atomic, xatAtomic{Type: a.Type, Depth: a.WellDepth, Mass: a.Mass, Radius: a.Radius})
	}
	for _, s := range p.Stretches {
		ret.Stretches = append(ret.Stretches, xatStretch{xatTypes: xatTypes{Types: s.TypesString()}, Req: s.Req, Keq: s.Keq})
	}
	for _, b := range p.Bends {
		ret.Bends = append(ret.Bends, xatBend{xatTypes: xatTypes{Types: b.TypesString()}, Aeq: b.Aeq, Keq: b.Keq})
	}
	for _, t := range p.Torsions {
		x := xatTorsion{xatTypes: xatTypes{Types: t.TypesString()}, NPaths: t.NPaths}
		for i := range t.Barriers {
			if t.Barriers[i] != 0 || t.Phases[i] != 0 {
				x.Terms = append(x.Terms, xatTerm{Period: i + 1, Barrier: t.Barriers[i], Gamma: t.Phases[i]})
			}
		}
		ret.Torsions = append(ret.Torsions, x)
	}
	for _, t := range p.Impropers {
		ret.Impropers = append(ret.Impropers, xatImproper{xatTypes: xatTypes{Types: t.TypesString()}, Period: t.Periodicity, Barrier: t.Barrier, Gamma: t.Phase})
	}
	return ret
}

// Write writes g to w in XAT format, with its parameters. Bonds are written
// only if connectivity is true.
func Write(w io.Writer, g *chem.Geometry, connectivity bool) error {
	doc := xatGeometry{Parameters: writeParameters(g.Parameters)}
	for _, rid := range g.ResidueIDs() {
		r, _ := g.Residue(rid)
		xr := xatResidue{ID: rid.String(), Name: r.Name, Charge: fmt.Sprintf("%.4f", r.Charge()), State: r.State.String()}
		for _, pdb := range r.PDBIDs() {
			at, _ := r.Atom(pdb)
			xa := xatAtom{
				ID:     pdb.String(),
				Layer:  string(at.Layer.Char()),
				Charge: fmt.Sprintf("%.4f", at.Charge),
				Amber:  at.Amber,
				XYZ:    fmt.Sprintf("%.4f,%.4f,%.4f", at.Position.X, at.Position.Y, at.Position.Z),
			}
			if connectivity {
				xa.Bonds = bonds(g, chem.AtomID{Residue: rid, PDB: pdb})
			}
			xr.Atoms = append(xr.Atoms, xa)
		}
		doc.Residues = append(doc.Residues, xr)
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "\t")
	if err := enc.Encode(doc); err != nil {
		return Error{message: err.Error(), filename: g.Name, deco: []string{"Write"}, critical: true}
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// WriteFile writes g to the XAT file name. See Write.
func WriteFile(name string, g *chem.Geometry, connectivity bool) error {
	f, err := os.Create(name)
	if err != nil {
		return Error{message: fmt.Sprintf("%s %s: %s", chem.UnableToOpen, name, err.Error()), filename: name, deco: []string{"WriteFile"}, critical: true}
	}
	defer f.Close()
	return Write(f, g, connectivity)
}
