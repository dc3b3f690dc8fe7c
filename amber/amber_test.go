/*
 * amber_test.go, part of gochemio.
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

package amber

import (
	"bytes"
	"context"
	"math"
	"strings"
	"testing"

	chem "github.com/rmera/gochemio"
)

const frcmodTest = `Remark line goes here
MASS
N  14.010        0.530               same as n
CT 12.010        0.878               same as c3

BOND
CT-N   330.60   1.460       same as c3- n, penalty score=  0.0
CT-OH  314.10   1.426       same as c3-oh, penalty score=  2.5

ANGLE
CK-CT-N    66.840     111.710   same as cc-c3-n , penalty score=  0.0

DIHE
CT-CT-OH-HO   1    0.160         0.000          -3.000      same as ho-oh-c3-c3
CT-CT-OH-HO   1    0.250         0.000          -1.000      same as ho-oh-c3-c3
CT-CT-OH-HO   1    0.180       180.000           2.000      same as ho-oh-c3-c3, penalty score=  0.0
NB-CK-CT-N    6    0.000         0.000           3.000      same as X -c3-cd-X , penalty score=  0.0

IMPROPER
CC-N*-C -O          1.1          180.0         2.0          Using the default value

NONBON
  N           1.8240  0.1700             same as n
  CT          1.9080  0.1094             ATTN, need revision
`

func near(a, b float64) bool { return math.Abs(a-b) < 1e-5 }

func TestReadFRCMOD(Te *testing.T) {
	var buf bytes.Buffer
	log := chem.NewStdLogger(&buf, chem.Warning)
	p := chem.NewParameters()
	if err := ReadFRCMOD(context.Background(), strings.NewReader(frcmodTest), p, log); err != nil {
		Te.Fatal(err)
	}
	if len(p.Atomic) != 2 || len(p.Stretches) != 2 || len(p.Bends) != 1 || len(p.Torsions) != 2 || len(p.Impropers) != 1 {
		Te.Fatalf("wrong number of parameters: %d %d %d %d %d", len(p.Atomic), len(p.Stretches), len(p.Bends), len(p.Torsions), len(p.Impropers))
	}
	n, _ := p.AtomicParameter("N")
	if !near(n.Mass, 14.01) || !near(n.Radius, 1.824) || !near(n.WellDepth, 0.17) {
		Te.Errorf("mass and nonbonded terms should merge: %v", n)
	}
	if s := p.Stretches[1]; s.Types != [2]string{"CT", "OH"} || !near(s.Keq, 314.1) || !near(s.Req, 1.426) || s.Penalty != 2.5 {
		Te.Errorf("wrong stretch %+v", s)
	}
	if b := p.Bends[0]; b.Types != [3]string{"CK", "CT", "N"} || !near(b.Keq, 66.84) || !near(b.Aeq, 111.71) {
		Te.Errorf("wrong bend %+v", b)
	}
	if t := p.Impropers[0]; t.Types != [4]string{"CC", "N*", "C", "O"} || !near(t.Barrier, 1.1) || !near(t.Phase, 180) || t.Periodicity != 2 {
		Te.Errorf("wrong improper %+v", t)
	}
	if p.Torsions[1].NPaths != 6 || !near(p.Torsions[1].Barriers[2], 0) {
		Te.Errorf("wrong single-line torsion %+v", p.Torsions[1])
	}
	out := buf.String()
	if !strings.Contains(out, "penalty=2.5") {
		Te.Errorf("the penalty should be logged:\n%s", out)
	}
	if strings.Count(out, "[WARNING]") != 2 {
		Te.Errorf("expected 2 warnings (penalty and ATTN), got:\n%s", out)
	}
}

func TestMultiLineTorsion(Te *testing.T) {
	p := chem.NewParameters()
	if err := ReadFRCMOD(context.Background(), strings.NewReader(frcmodTest), p, nil); err != nil {
		Te.Fatal(err)
	}
	t := p.Torsions[0]
	if t.Types != [4]string{"CT", "CT", "OH", "HO"} || t.NPaths != 1 {
		Te.Errorf("wrong torsion %+v", t)
	}
	wantB := [4]float64{0.25, 0.18, 0.16, 0}
	wantP := [4]float64{0, 180, 0, 0}
	for i := range wantB {
		if !near(t.Barriers[i], wantB[i]) || !near(t.Phases[i], wantP[i]) {
			Te.Errorf("term %d: got %v/%v, wanted %v/%v", i, t.Barriers[i], t.Phases[i], wantB[i], wantP[i])
		}
	}
}

func TestTorsionErrors(Te *testing.T) {
	input := `DIHE
CT-CT-OH-HO   1    0.160         0.000          -3.000
HC-CT-CT-HC   9    0.150         0.000           3.000
CT-CT-CT-CT   1    0.200         0.000           0.000
CT-CT-CT-CT   x    0.200         0.000           1.000
`
	var buf bytes.Buffer
	p := chem.NewParameters()
	err := ReadFRCMOD(context.Background(), strings.NewReader(input), p, chem.NewStdLogger(&buf, chem.Verbose))
	if err != nil {
		Te.Fatalf("malformed records should not stop the reading: %v", err)
	}
	if len(p.Torsions) != 2 {
		Te.Fatalf("got %d torsions, wanted 2: %+v", len(p.Torsions), p.Torsions)
	}
	if !near(p.Torsions[0].Barriers[2], 0.16) || p.Torsions[1].Types[0] != "HC" || !near(p.Torsions[1].Barriers[2], 0.15) {
		Te.Errorf("the mismatched line should start a new torsion: %+v", p.Torsions)
	}
	out := buf.String()
	if !strings.Contains(out, "badly formatted") {
		Te.Error("the mismatch should be logged")
	}
	if strings.Count(out, "Skipping malformed FRCMOD record") != 2 {
		Te.Errorf("periodicity 0 and the bad npaths should be logged:\n%s", out)
	}
	if !strings.Contains(out, "Failed on ReadDihedral") {
		Te.Errorf("the diagnostic should name the state:\n%s", out)
	}
}

func testParameters() *chem.Parameters {
	p := chem.NewParameters()
	p.NonBonding.VCutoff = 2
	p.NonBonding.CScales[3] = -1.2
	p.AddAtomicParameter(chem.AtomicParameter{Type: "CT", Mass: 12.01, Radius: 1.908, WellDepth: 0.1094})
	p.AddAtomicParameter(chem.AtomicParameter{Type: "HC", Mass: 1.008, Radius: 1.487, WellDepth: 0.0157})
	p.AddStretch(chem.Stretch{Types: [2]string{"CT", "HC"}, Keq: 340, Req: 1.09})
	p.AddBend(chem.Bend{Types: [3]string{"HC", "CT", "HC"}, Keq: 35, Aeq: 109.5})
	p.AddTorsion(chem.Torsion{Types: [4]string{"HC", "CT", "CT", "HC"}, Barriers: [4]float64{0, 0.25, 0.15, 0}, Phases: [4]float64{0, 180, 0, 0}, NPaths: 9})
	p.AddImproper(chem.ImproperTorsion{Types: [4]string{"X", "X", "C", "O"}, Barrier: 10.5, Phase: 180, Periodicity: 2})
	return p
}

func compareParameters(Te *testing.T, a, b *chem.Parameters, masses bool) {
	Te.Helper()
	if len(a.Atomic) != len(b.Atomic) || len(a.Stretches) != len(b.Stretches) || len(a.Bends) != len(b.Bends) ||
		len(a.Torsions) != len(b.Torsions) || len(a.Impropers) != len(b.Impropers) {
		Te.Fatalf("different number of parameters")
	}
	for i, v := range a.Atomic {
		w := b.Atomic[i]
		if v.Type != w.Type || !near(v.Radius, w.Radius) || !near(v.WellDepth, w.WellDepth) || (masses && !near(v.Mass, w.Mass)) {
			Te.Errorf("atomic %d: %v vs %v", i, v, w)
		}
	}
	for i, v := range a.Stretches {
		w := b.Stretches[i]
		if v.Types != w.Types || !near(v.Keq, w.Keq) || !near(v.Req, w.Req) {
			Te.Errorf("stretch %d: %+v vs %+v", i, v, w)
		}
	}
	for i, v := range a.Bends {
		w := b.Bends[i]
		if v.Types != w.Types || !near(v.Keq, w.Keq) || !near(v.Aeq, w.Aeq) {
			Te.Errorf("bend %d: %+v vs %+v", i, v, w)
		}
	}
	for i, v := range a.Torsions {
		w := b.Torsions[i]
		if v.Types != w.Types || v.NPaths != w.NPaths {
			Te.Errorf("torsion %d: %+v vs %+v", i, v, w)
		}
		for j := range v.Barriers {
			if !near(v.Barriers[j], w.Barriers[j]) || !near(v.Phases[j], w.Phases[j]) {
				Te.Errorf("torsion %d term %d: %+v vs %+v", i, j, v, w)
			}
		}
	}
	for i, v := range a.Impropers {
		w := b.Impropers[i]
		if v.Types != w.Types || !near(v.Barrier, w.Barrier) || !near(v.Phase, w.Phase) || v.Periodicity != w.Periodicity {
			Te.Errorf("improper %d: %+v vs %+v", i, v, w)
		}
	}
}

func TestPRMRoundTrip(Te *testing.T) {
	p := testParameters()
	var buf bytes.Buffer
	if err := WritePRM(&buf, p); err != nil {
		Te.Fatal(err)
	}
	q := chem.NewParameters()
	if err := ReadPRM(context.Background(), &buf, q, nil); err != nil {
		Te.Fatal(err)
	}
	compareParameters(Te, p, q, false)
	if q.NonBonding != p.NonBonding {
		Te.Errorf("non-bonded settings differ: %+v vs %+v", p.NonBonding, q.NonBonding)
	}
}

func TestFRCMODRoundTrip(Te *testing.T) {
	p := testParameters()
	var buf bytes.Buffer
	if err := WriteFRCMOD(&buf, p, ""); err != nil {
		Te.Fatal(err)
	}
	q := chem.NewParameters()
	var logs bytes.Buffer
	if err := ReadFRCMOD(context.Background(), &buf, q, chem.NewStdLogger(&logs, chem.ErrorLevel)); err != nil {
		Te.Fatal(err)
	}
	if logs.Len() != 0 {
		Te.Errorf("unexpected errors:\n%s", logs.String())
	}
	compareParameters(Te, p, q, true)
}

func TestParsePRMLine(Te *testing.T) {
	p := chem.NewParameters()
	lines := []string{
		"NonBon 3 1 0 0 0.000 0.000 0.500 0.000 0.000 -1.200",
		"HrmStr1 CT HC 340.0 1.09",
		"AmbTrs HC CT CT HC 0 0 0 0 0.0 0.0 0.15 0.0 9.0",
		"! not a parameter",
		"",
	}
	for _, l := range lines {
		if err := ParsePRMLine(nil, l, p); err != nil {
			Te.Errorf("%q: %v", l, err)
		}
	}
	if len(p.Stretches) != 1 || len(p.Torsions) != 1 || p.Torsions[0].NPaths != 9 {
		Te.Errorf("wrong parameters: %+v", p)
	}
	if err := ParsePRMLine(nil, "HrmBnd1 HC CT HC 35.0", p); err == nil {
		Te.Error("a bend without angle should fail")
	}
	if err := ParsePRMLine(nil, "NonBon 3 4 0 0 0 0 0.5 0 0 -1.2", p); err == nil {
		Te.Error("4 is not a coulomb type")
	}
}

func TestZeroNonBonded(Te *testing.T) {
	p := chem.NewParameters()
	p.AddAtomicParameter(chem.AtomicParameter{Type: "HO", Mass: 1.008, Radius: 0.6, WellDepth: 0.01})
	p.AddAtomicParameter(chem.AtomicParameter{Type: "HW", Mass: 1.008, Radius: 0.6, WellDepth: 0.01})
	input := "Zero hydroxyl hydrogen\nNONBON\n  HO          0.0000  0.0000             same as ho\n"
	if err := ReadFRCMOD(context.Background(), strings.NewReader(input), p, nil); err != nil {
		Te.Fatal(err)
	}
	ho, _ := p.AtomicParameter("HO")
	if ho.Radius != 0 || ho.WellDepth != 0 || ho.Mass != 1.008 {
		Te.Errorf("a zero NONBON record should reset only the van der Waals terms: %v", ho)
	}
	if err := ParsePRMLine(nil, "VDW HW 0.0 0.0", p); err != nil {
		Te.Fatal(err)
	}
	if hw, _ := p.AtomicParameter("HW"); hw.Radius != 0 || hw.WellDepth != 0 || hw.Mass != 1.008 {
		Te.Errorf("a zero VDW record should reset the van der Waals terms: %v", hw)
	}
	if err := ReadFRCMOD(context.Background(), strings.NewReader("Zero mass\nMASS\nHO  0.000        0.000\n"), p, nil); err != nil {
		Te.Fatal(err)
	}
	if ho, _ := p.AtomicParameter("HO"); ho.Mass != 0 || len(p.Atomic) != 2 {
		Te.Errorf("a zero MASS record should reset the mass: %v", ho)
	}
}
