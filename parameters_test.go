/*
 * parameters_test.go, part of gochemio.
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
	"bytes"
	"strings"
	"testing"
)

func TestAtomicParameterMerge(Te *testing.T) {
	p := NewParameters()
	p.AddAtomicParameter(AtomicParameter{Type: "CT", Mass: 12.01})
	p.AddAtomicParameter(AtomicParameter{Type: "CT", Radius: 1.908, WellDepth: 0.1094})
	if len(p.Atomic) != 1 {
		Te.Fatalf("got %d atomic parameters, wanted 1", len(p.Atomic))
	}
	a := p.Atomic[0]
	if a.Mass != 12.01 || a.Radius != 1.908 || a.WellDepth != 0.1094 {
		Te.Errorf("merge failed: %v", a)
	}
	p.AddStretch(Stretch{Types: [2]string{"CT", "CT"}, Keq: 310, Req: 1.526})
	p.AddStretch(Stretch{Types: [2]string{"CT", "CT"}, Keq: 310, Req: 1.526})
	if len(p.Stretches) != 2 {
		Te.Errorf("bonded terms must be appended, got %d", len(p.Stretches))
	}
	if p.Len() != 3 {
		Te.Errorf("got %d parameters, wanted 3", p.Len())
	}
}

func TestTypesMatch(Te *testing.T) {
	cases := []struct {
		a, b []string
		want bool
	}{
		{[]string{"CT", "CT", "OH", "HO"}, []string{"CT", "CT", "OH", "HO"}, true},
		{[]string{"CT", "CT", "OH", "HO"}, []string{"HO", "OH", "CT", "CT"}, true},
		{[]string{"CT", "CT", "OH", "HO"}, []string{"*", "CT", "OH", "*"}, true},
		{[]string{"CT", "CT", "OH", "HO"}, []string{"CT", "OH", "CT", "HO"}, false},
		{[]string{"CT", "HC"}, []string{"CT", "HC", "HC"}, false},
	}
	for _, c := range cases {
		if got := TypesMatch(c.a, c.b); got != c.want {
			Te.Errorf("TypesMatch(%v, %v): got %v, wanted %v", c.a, c.b, got, c.want)
		}
	}
}

func TestTorsionSetTerm(Te *testing.T) {
	var t Torsion
	if err := t.SetTerm(3, 0.16, 0); err != nil {
		Te.Fatal(err)
	}
	if t.Barriers[2] != 0.16 {
		Te.Errorf("got %v, wanted 0.16 at index 2", t.Barriers)
	}
	if err := t.SetTerm(0, 1, 0); err == nil {
		Te.Error("periodicity 0 should fail")
	}
	if err := t.SetTerm(5, 1, 0); err == nil {
		Te.Error("periodicity 5 should fail")
	}
}

func TestEnums(Te *testing.T) {
	for i := VdwNone; i <= VdwOPLS; i++ {
		got, err := ParseVdwType(i.String())
		if err != nil || got != i {
			Te.Errorf("vdw type round trip failed for %v", i)
		}
	}
	for i := CoulombNone; i <= CoulombDipole; i++ {
		got, err := CoulombTypeFromGauss(i.Gauss())
		if err != nil || got != i {
			Te.Errorf("coulomb gauss round trip failed for %v", i)
		}
	}
	if _, err := CoulombTypeFromGauss(4); err == nil {
		Te.Error("4 is not a Gaussian coulomb type")
	}
	for _, s := range []ResidueState{Standard, CTerminal, Water, Ion} {
		got, err := ParseResidueState(s.String())
		if err != nil || got != s {
			Te.Errorf("residue state round trip failed for %v", s)
		}
	}
}

func TestStdLogger(Te *testing.T) {
	var buf bytes.Buffer
	l := NewStdLogger(&buf, Warning)
	called := false
	l.Logf(Info, "not shown %s", Lazy(func() string { called = true; return "x" }))
	if called || buf.Len() != 0 {
		Te.Error("disabled levels must not format their arguments")
	}
	l.Logf(Warning, "penalty %.1f", 12.5)
	if !strings.Contains(buf.String(), "[WARNING] penalty 12.5") {
		Te.Errorf("unexpected log output: %q", buf.String())
	}
	if lv, err := ParseLogLevel("warn"); err != nil || lv != Warning {
		Te.Errorf("got %v %v, wanted Warning", lv, err)
	}
}

func TestSetAtomicParameter(Te *testing.T) {
	p := NewParameters()
	p.SetVdw("OH", 1.721, 0.2104, 0)
	p.SetMass("OH", 16.0, 1.5)
	p.SetVdw("OH", 0, 0, 0)
	if len(p.Atomic) != 1 {
		Te.Fatalf("got %d atomic parameters, wanted 1", len(p.Atomic))
	}
	if a := p.Atomic[0]; a.Mass != 16 || a.Radius != 0 || a.WellDepth != 0 || a.Penalty != 1.5 {
		Te.Errorf("wrong parameter after explicit zeros: %v", a)
	}
}
