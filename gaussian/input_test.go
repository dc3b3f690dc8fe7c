/*
 * input_test.go, part of gochemio.
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
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	chem "github.com/rmera/gochemio"
	"github.com/rmera/gochemio/reader"
	"gonum.org/v1/gonum/spatial/r3"
)

const oniomInput = `%chk=test.chk
%mem=2GB
%nprocshared=4
%kjob L502 2
#p oniom(b3lyp/6-31g(d):pm6:amber=softfirst)=embedcharge
geom=connectivity

ONIOM test
two lines

0 1 1 2 -1 1
C-CT--0.150(PDBName=CA,ResName=ALA,ResNum=12) 0 1.000 2.000 3.000 H
O-O--0.500(PDBName=O,ResName=ALA,ResNum=12) -1 1.000 3.200 3.000 M
N-N-0.3(PDBName=N,ResName=GLY,ResNum=13) 0 2.200 2.000 3.000 L H-HC 1

1 2 2.0 3 1.0
2
3

HrmStr1 CT N 300.0 1.45
AmbTrs X CT N X 0.0 0.0 0.0 0.0 0.0 0.0 1.0 0.0 4.0

`

func readOniom(Te *testing.T) *chem.Geometry {
	Te.Helper()
	g := chem.NewGeometry("oniom")
	if err := ReadInput(context.Background(), strings.NewReader(oniomInput), "test.com", g, Options{}); err != nil {
		Te.Fatal(err)
	}
	return g
}

func TestReadInput(Te *testing.T) {
	g := readOniom(Te)
	c := g.Calc
	if c.Checkpoint != "test.chk" || c.MemoryMB != 2048 || c.NProc != 4 || c.KillJobLink != 502 || c.KillJobN != 2 {
		Te.Errorf("wrong Link0 section: %+v", c)
	}
	if c.PrintLevel != "P" || !c.Oniom || !c.Connectivity || c.Title != "ONIOM test\ntwo lines" {
		Te.Errorf("wrong keywords or title: %+v", c)
	}
	if len(c.OniomOptions) != 1 || c.OniomOptions[0] != "embedcharge" {
		Te.Errorf("wrong ONIOM options %v", c.OniomOptions)
	}
	want := map[chem.Layer]chem.LayerSpec{
		chem.Real:         {Layer: chem.Real, Method: "amber", Options: "softfirst", Charge: 0, Multiplicity: 1},
		chem.Intermediate: {Layer: chem.Intermediate, Method: "pm6", Charge: 1, Multiplicity: 2},
		chem.Model:        {Layer: chem.Model, Method: "b3lyp", Basis: "6-31g(d)", Charge: -1, Multiplicity: 1},
	}
	for l, w := range want {
		spec, ok := c.Layer(l)
		if !ok || *spec != w {
			Te.Errorf("layer %s: got %+v, wanted %+v", l, spec, w)
		}
	}
	if g.Len() != 3 || g.AtomMap.Len() != 3 {
		Te.Fatalf("got %d atoms", g.Len())
	}
	ca, _ := g.AtomMap.Get(0)
	at, _ := g.Atom(ca)
	if ca.String() != "A12:CA" || at.Amber != "CT" || at.Layer != chem.Model || !at.Mobile || at.Charge != -0.15 {
		Te.Errorf("wrong first atom %s: %v", ca, at)
	}
	o, _ := g.AtomMap.Get(1)
	if at, _ := g.Atom(o); at.Mobile || at.Layer != chem.Intermediate {
		Te.Errorf("wrong oxygen: %v", at)
	}
	n, _ := g.AtomMap.Get(2)
	if r, _ := g.Residue(n.Residue); r.Name != "GLY" || n.Residue.Number != 13 {
		Te.Errorf("wrong residue for %s", n)
	}
	if bt, ok := g.Bond(ca, o); !ok || bt != chem.Double {
		Te.Errorf("C=O not read: %v", bt)
	}
	if bt, ok := g.Bond(ca, n); !ok || bt != chem.Single {
		Te.Errorf("C-N not read: %v", bt)
	}
	p := g.Parameters
	if len(p.Stretches) != 1 || p.Stretches[0].Keq != 300 || p.Stretches[0].Req != 1.45 {
		Te.Errorf("wrong stretches %+v", p.Stretches)
	}
	if len(p.Torsions) != 1 || p.Torsions[0].NPaths != 4 {
		Te.Errorf("wrong torsions %+v", p.Torsions)
	}
}

func TestUpdateInput(Te *testing.T) {
	g := readOniom(Te)
	update := "#p hf/3-21g\n\nupdate\n\n0 1\nC,0,1.5,2.0,3.0\nO 1.0 3.5 3.0\n7 2.0 2.0 3.0\n\n"
	if err := ReadInput(context.Background(), strings.NewReader(update), "update.com", g, Options{}); err != nil {
		Te.Fatal(err)
	}
	if g.Len() != 3 {
		Te.Errorf("atoms were added: %d", g.Len())
	}
	ca, _ := g.AtomMap.Get(0)
	if at, _ := g.Atom(ca); at.Position != (r3.Vec{X: 1.5, Y: 2, Z: 3}) || at.Amber != "CT" {
		Te.Errorf("old format line not applied: %v", at)
	}
	o, _ := g.AtomMap.Get(1)
	if at, _ := g.Atom(o); at.Position.Y != 3.5 {
		Te.Errorf("oxygen not updated: %v", at)
	}
	if g.Calc.Oniom || g.Calc.Title != "update" {
		Te.Errorf("the calculation was not replaced: %+v", g.Calc)
	}
	if spec, ok := g.Calc.Layer(chem.Model); !ok || spec.Method != "hf" || spec.Basis != "3-21g" {
		Te.Errorf("wrong level %+v", spec)
	}

	wrong := strings.Replace(update, "C,0,1.5", "N,0,1.5", 1)
	err := ReadInput(context.Background(), strings.NewReader(wrong), "wrong.com", g, Options{})
	var cerr *chem.ConsistencyError
	if !errors.As(err, &cerr) || cerr.Index != 0 {
		Te.Errorf("expected a consistency error for atom 0, got %v", err)
	}
	err = ReadInput(context.Background(), strings.NewReader(update), "update.com", chem.NewGeometry("empty"), Options{})
	if !errors.Is(err, chem.ErrNoAtomMap) {
		Te.Errorf("expected ErrNoAtomMap, got %v", err)
	}
}

func TestInputErrors(Te *testing.T) {
	bad := strings.Replace(oniomInput, "C-CT--0.150", "C-CT-abc", 1)
	err := ReadInput(context.Background(), strings.NewReader(bad), "bad.com", chem.NewGeometry("bad"), Options{})
	var perr *reader.ParseError
	if !errors.As(err, &perr) || perr.Line != 12 || perr.Char != 6 || perr.State != "ReadAtoms" {
		Te.Errorf("expected a parse error at 12:6, got %v", err)
	}
	bad = strings.Replace(oniomInput, "%mem=2GB", "%mem=2XB", 1)
	if err := ReadInput(context.Background(), strings.NewReader(bad), "bad.com", chem.NewGeometry("bad"), Options{}); err == nil {
		Te.Error("wrong memory units should be an error")
	}
	var logs bytes.Buffer
	bad = strings.Replace(oniomInput, "HrmStr1 CT N 300.0 1.45", "HrmStr1 CT N abc 1.45", 1)
	g := chem.NewGeometry("bad")
	if err := ReadInput(context.Background(), strings.NewReader(bad), "bad.com", g, Options{Logger: chem.NewStdLogger(&logs, chem.Warning)}); err != nil {
		Te.Fatal(err)
	}
	if len(g.Parameters.Stretches) != 0 || len(g.Parameters.Torsions) != 1 || !strings.Contains(logs.String(), "bad.com") {
		Te.Errorf("a bad parameter should be logged and skipped, got %+v\n%s", g.Parameters, logs.String())
	}
	err = ReadInput(context.Background(), strings.NewReader("#p hf/3-21g\n\ntitle\n\n0 1\n\n"), "empty.com", chem.NewGeometry("empty"), Options{})
	if err == nil {
		Te.Error("an input without atoms should be an error")
	}
}

func TestWriteInput(Te *testing.T) {
	g := readOniom(Te)
	var buf bytes.Buffer
	if err := WriteInput(&buf, g); err != nil {
		Te.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "#P oniom(b3lyp/6-31g(d):pm6:amber=softfirst)=embedcharge geom=connectivity\n") {
		Te.Errorf("wrong keyword line:\n%s", out)
	}
	if !strings.Contains(out, "\n0 1 1 2 -1 1\n") || !strings.Contains(out, "H-HC 1") {
		Te.Errorf("wrong charges or link atoms:\n%s", out)
	}
	h := chem.NewGeometry("copy")
	if err := ReadInput(context.Background(), strings.NewReader(out), "copy.com", h, Options{}); err != nil {
		Te.Fatalf("%v\n%s", err, out)
	}
	if h.Len() != g.Len() || h.NBonds() != g.NBonds() || len(h.Parameters.Stretches) != 1 {
		Te.Errorf("got %d atoms %d bonds, wanted %d and %d\n%s", h.Len(), h.NBonds(), g.Len(), g.NBonds(), out)
	}
	for _, id := range g.AtomIDs() {
		a, _ := g.Atom(id)
		b, ok := h.Atom(id)
		if !ok {
			Te.Errorf("atom %s missing", id)
			continue
		}
		if a.Position != b.Position || a.Layer != b.Layer || a.Mobile != b.Mobile || a.Amber != b.Amber || a.Charge != b.Charge {
			Te.Errorf("atom %s: %v vs %v", id, a, b)
		}
	}
	for _, l := range g.Calc.Layers() {
		a, _ := g.Calc.Layer(l)
		b, ok := h.Calc.Layer(l)
		if !ok || *a != *b {
			Te.Errorf("layer %s: %+v vs %+v", l, a, b)
		}
	}
	if h.Calc.MemoryMB != 2048 || h.Calc.KillJobN != 2 || h.Calc.Title != g.Calc.Title {
		Te.Errorf("Link0 or title lost: %+v", h.Calc)
	}
}
