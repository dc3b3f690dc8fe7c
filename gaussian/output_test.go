/*
 * output_test.go, part of gochemio.
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
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	chem "github.com/rmera/gochemio"
	"github.com/rmera/gochemio/reader"
)

const waterRoute = ` Entering Gaussian System, Link 0=g16
 ----------------------------------------------------------------------
 #p b3lyp/6-31g(d) opt freq geom=connectivity pop=mk
 ----------------------------------------------------------------------
 Symbolic Z-matrix:
 Charge =  0 Multiplicity = 1
 O-OW--0.834(PDBName=O,ResName=HOH,ResNum=1)  0  0.000  0.000  0.117
 H-HW-0.417(PDBName=H1,ResName=HOH,ResNum=1)  0  0.000  0.757 -0.467
 H-HW-0.417(PDBName=H2,ResName=HOH,ResNum=1)  0  0.000 -0.757 -0.467
 
`

const orientation = `                         Standard orientation:                         
 ---------------------------------------------------------------------
 Center     Atomic      Atomic             Coordinates (Angstroms)
 Number     Number       Type             X           Y           Z
 ---------------------------------------------------------------------
      1          8           0        0.000000    0.000000    0.110000
      2          1           0        0.000000    0.760000   -0.470000
      3          1           0        0.000000   -0.760000   -0.470000
 ---------------------------------------------------------------------
`

const waterResults = ` SCF Done:  E(RB3LYP) =  -76.4089533     A.U. after   10 cycles
 ESP charges:
               1
     1  O   -0.800000
     2  H    0.400000
     3  H    0.400000
 Sum of ESP charges =   0.00000
 -------------------------------------------------------------------
 Center     Atomic                   Forces (Hartrees/Bohr)
 Number     Number              X              Y              Z
 -------------------------------------------------------------------
      1        8           0.000000000    0.000000000    0.005000000
      2        1           0.000000000    0.003000000   -0.002500000
      3        1           0.000000000   -0.003000000   -0.002500000
 -------------------------------------------------------------------
 Harmonic frequencies (cm**-1), IR intensities (KM/Mole), Raman scattering
 activities (A**4/AMU), depolarization ratios for plane and unpolarized
 incident light, reduced masses (AMU), force constants (mDyne/A),
 and normal coordinates:
                      1                      2                      3
                     A1                     A1                     B2
 Frequencies --   1713.0000              3727.0000              3849.0000
 Red. masses --      1.0829                 1.0453                 1.0810
 Frc consts  --      1.8722                 8.5563                 9.4357
 IR Inten    --     75.1000                 1.9400                18.7000
  Atom  AN      X      Y      Z        X      Y      Z        X      Y      Z
     1   8     0.00   0.00   0.07     0.00   0.00  -0.05     0.00  -0.07   0.00
     2   1     0.00  -0.43  -0.56     0.00   0.58   0.40     0.00   0.56  -0.43
     3   1     0.00   0.43  -0.56     0.00  -0.58   0.40     0.00   0.56   0.43
 
`

const secondStep = ` SCF Done:  E(RB3LYP) =  -76.4100000     A.U. after    5 cycles
`

func waterLog() string {
	second := strings.Replace(orientation, "0.110000", "0.120000", 1)
	return waterRoute + orientation + waterResults + second + secondStep
}

func TestReadOutput(Te *testing.T) {
	g := chem.NewGeometry("water")
	out, err := ReadOutput(context.Background(), strings.NewReader(waterLog()), "water.log", g, Options{})
	if err != nil {
		Te.Fatal(err)
	}
	if len(out.Keywords) != 6 || out.Oniom {
		Te.Errorf("wrong keywords %v", out.Keywords)
	}
	if len(out.Layers) != 1 || out.Layers[0].Layer != chem.Real || out.Layers[0].Multiplicity != 1 {
		Te.Errorf("wrong layers %+v", out.Layers)
	}
	if g.Len() != 3 || g.AtomMap.Len() != 3 {
		Te.Fatalf("the atoms were not built from the log: %d", g.Len())
	}
	if len(out.Snapshots) != 2 || len(out.Energies) != 2 {
		Te.Fatalf("got %d snapshots and %d energies", len(out.Snapshots), len(out.Energies))
	}
	first := out.Snapshots[0]
	if first.Energy != -76.4089533 || first.Forces == nil || math.Abs(first.MaxForce()-0.005) > 1e-12 {
		Te.Errorf("wrong first snapshot: %v %v", first.Energy, first.Forces)
	}
	if last := out.Last(); last.Energy != -76.41 || last.Forces != nil || last.MaxForce() != 0 {
		Te.Errorf("wrong last snapshot: %v", last.Energy)
	}
	o, _ := g.AtomMap.Get(0)
	at, _ := g.Atom(o)
	if o.String() != "A1:O" || at.Position.Z != 0.12 || at.Charge != -0.8 || at.Amber != "OW" {
		Te.Errorf("final geometry or ESP charges not applied: %s %v", o, at)
	}
	if len(out.ESP) != 3 || out.ESP[1] != 0.4 {
		Te.Errorf("wrong ESP charges %v", out.ESP)
	}
	if len(out.Modes) != 3 {
		Te.Fatalf("got %d normal modes", len(out.Modes))
	}
	m := out.Modes[2]
	if m.Frequency != 3849 || m.ReducedMass != 1.081 || m.ForceConstant != 9.4357 || m.IRIntensity != 18.7 {
		Te.Errorf("wrong mode %+v", m)
	}
	if out.Modes[1].Displacements.At(1, 1) != 0.58 || out.Modes[0].Displacements.At(0, 2) != 0.07 {
		Te.Error("wrong displacements")
	}
}

func TestOutputMapped(Te *testing.T) {
	//The identity map of the input is used, the atom specifications in the
	//log only need to agree on the elements.
	g := chem.NewGeometry("water")
	first := waterLog()
	if _, err := ReadOutput(context.Background(), strings.NewReader(first), "water.log", g, Options{}); err != nil {
		Te.Fatal(err)
	}
	old := strings.Replace(waterRoute, "O-OW--0.834(PDBName=O,ResName=HOH,ResNum=1)  0  0.000  0.000  0.117", "O,0,0.000,0.000,0.117", 1)
	if _, err := ReadOutput(context.Background(), strings.NewReader(old+orientation), "old.log", g, Options{}); err != nil {
		Te.Fatal(err)
	}
	if g.Len() != 3 {
		Te.Errorf("atoms were added: %d", g.Len())
	}
	_, err := ReadOutput(context.Background(), strings.NewReader(old+orientation), "old.log", chem.NewGeometry("empty"), Options{})
	if !errors.Is(err, chem.ErrNoAtomMap) {
		Te.Errorf("expected ErrNoAtomMap, got %v", err)
	}
	wrong := strings.Replace(orientation, "      2          1  ", "      2          6  ", 1)
	_, err = ReadOutput(context.Background(), strings.NewReader(waterRoute+wrong), "wrong.log", g, Options{})
	var cerr *chem.ConsistencyError
	if !errors.As(err, &cerr) || cerr.Index != 1 {
		Te.Errorf("expected a consistency error for atom 1, got %v", err)
	}
}

const tdLog = ` #p td b3lyp/6-31g(d)
 ----------------------------------------------------------------------
 Charge =  0 Multiplicity = 1
 O-OW--0.834(PDBName=O,ResName=HOH,ResNum=1)  0  0.000  0.000  0.117
 H-HW-0.417(PDBName=H1,ResName=HOH,ResNum=1)  0  0.000  0.757 -0.467
 H-HW-0.417(PDBName=H2,ResName=HOH,ResNum=1)  0  0.000 -0.757 -0.467

` + orientation + ` Ground to excited state transition electric dipole moments (Au):
       state          X           Y           Z        Dip. S.      Osc.
         1         0.0000      0.1000     -0.0622      0.0039      0.0010
         2         0.2000      0.0000      0.0000      0.0400      0.0100
 Ground to excited state transition velocity dipole moments (Au):
 Excitation energies and oscillator strengths:

 Excited State   1:      Singlet-B2     7.0000 eV  177.12 nm  f=0.0010  <S**2>=0.000
       5 ->   6         0.70000
 This state for optimization and/or second-order correction.

 Excited State   2:      Singlet-A1     9.0000 eV  137.76 nm  f=0.0100  <S**2>=0.000
       4 ->   6         0.69000
       5 ->   7        -0.10000

 SCF Done:  E(RB3LYP) =  -76.0000000     A.U. after    1 cycles
`

func TestExcitedStates(Te *testing.T) {
	out, err := ReadOutput(context.Background(), strings.NewReader(tdLog), "td.log", chem.NewGeometry("td"), Options{})
	if err != nil {
		Te.Fatal(err)
	}
	if len(out.ExcitedStates) != 2 {
		Te.Fatalf("got %d excited states", len(out.ExcitedStates))
	}
	es := out.ExcitedStates[0]
	if es.Index != 1 || es.Symmetry != "Singlet-B2" || es.Energy != 7 || es.Oscillator != 0.001 || es.Dipole.Y != 0.1 {
		Te.Errorf("wrong first state %+v", es)
	}
	es = out.ExcitedStates[1]
	if len(es.Transitions) != 2 || es.Transitions[1] != (Transition{From: 5, To: 7, Coefficient: -0.1}) || es.Dipole.X != 0.2 {
		Te.Errorf("wrong second state %+v", es)
	}
	if len(out.Energies) != 1 || out.Last().Energy != -76 {
		Te.Errorf("the energy after the excited states was not read: %v", out.Energies)
	}
}

func TestExcitedStateIndex(Te *testing.T) {
	bad := strings.Replace(tdLog, " Excited State   2:", " Excited State   0:", 1)
	_, err := ReadOutput(context.Background(), strings.NewReader(bad), "td.log", chem.NewGeometry("td"), Options{})
	var perr *reader.ParseError
	if !errors.As(err, &perr) || perr.Line != 28 || !strings.Contains(perr.Text, "Excited State   0:") {
		Te.Errorf("expected a parse error on the state 0 line, got %v", err)
	}
}
