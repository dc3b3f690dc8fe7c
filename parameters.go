/*
 * parameters.go, part of gochemio.
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
	"strings"
)

// WildType matches any force-field type.
const WildType = "*"

// TypeEquivalent returns true if the types are equal or one of them is the wildcard.
func TypeEquivalent(a, b string) bool {
	return a == b || a == WildType || b == WildType
}

// TypesMatch returns true if a and b are type-equivalent in the forward or in the reverse
// direction (A-B-C matches C-B-A).
func TypesMatch(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	forward, reverse := true, true
	n := len(a)
	for i := range a {
		forward = forward && TypeEquivalent(a[i], b[i])
		reverse = reverse && TypeEquivalent(a[i], b[n-1-i])
		if !(forward || reverse) {
			return false
		}
	}
	return true
}

func typesString(t []string) string {
	return strings.Join(t, "-")
}

// ParseTypes splits strings like "CT-CT-OH-HO" into n types.
func ParseTypes(s string, n int) ([]string, error) {
	t := strings.Split(strings.TrimSpace(s), "-")
	if len(t) != n {
		return nil, fmt.Errorf("ParseTypes: '%s' should have %d types", s, n)
	}
	for i, v := range t {
		t[i] = strings.TrimSpace(v)
		if t[i] == "" {
			return nil, fmt.Errorf("ParseTypes: empty type in '%s'", s)
		}
	}
	return t, nil
}

// AtomicParameter holds the non-bonded parameters of one atom type.
type AtomicParameter struct {
	Type      string
	Mass      float64
	Radius    float64
	WellDepth float64
	Penalty   float64
}

func (A AtomicParameter) String() string {
	return fmt.Sprintf("VdW(type=%s, radius=%g, wellDepth=%g, mass=%g)", A.Type, A.Radius, A.WellDepth, A.Mass)
}

// Stretch is a harmonic bond-stretch term.
type Stretch struct {
	Types   [2]string
	Keq     float64
	Req     float64
	Penalty float64
}

func (S Stretch) TypesString() string { return typesString(S.Types[:]) }

// Bend is a harmonic angle-bend term.
type Bend struct {
	Types   [3]string
	Keq     float64
	Aeq     float64
	Penalty float64
}

func (B Bend) TypesString() string { return typesString(B.Types[:]) }

// Torsion is an AMBER proper torsion. Barriers and Phases are indexed by
// periodicity-1.
type Torsion struct {
	Types    [4]string
	Barriers [4]float64
	Phases   [4]float64
	NPaths   int
	Penalty  float64
}

func (T Torsion) TypesString() string { return typesString(T.Types[:]) }

// SetTerm sets the barrier and phase of the term with the given periodicity (1-4).
func (T *Torsion) SetTerm(periodicity int, barrier, phase float64) error {
	if periodicity < 1 || periodicity > 4 {
		return fmt.Errorf("torsion %s: periodicity %d out of range 1-4", T.TypesString(), periodicity)
	}
	T.Barriers[periodicity-1] = barrier
	T.Phases[periodicity-1] = phase
	return nil
}

// ImproperTorsion is an AMBER improper torsion.
type ImproperTorsion struct {
	Types       [4]string
	Barrier     float64
	Phase       float64
	Periodicity float64
	Penalty     float64
}

func (I ImproperTorsion) TypesString() string { return typesString(I.Types[:]) }

// VdwType is the functional form of the van der Waals interaction.
type VdwType int

const (
	VdwNone VdwType = iota
	VdwDreiding
	VdwUFF
	VdwAmber
	VdwMMFF94
	VdwMM2
	VdwOPLS
)

var vdwNames = [...]string{"NONE", "DREIDING", "UFF", "AMBER", "MMFF94", "MM2", "OPLS"}

func (V VdwType) String() string {
	if V < VdwNone || V > VdwOPLS {
		return "NONE"
	}
	return vdwNames[V]
}

// ParseVdwType reads the names returned by VdwType.String.
func ParseVdwType(s string) (VdwType, error) {
	for i, v := range vdwNames {
		if v == strings.ToUpper(strings.TrimSpace(s)) {
			return VdwType(i), nil
		}
	}
	return VdwNone, fmt.Errorf("unknown van der Waals type: '%s'", s)
}

// VdwTypeFromGauss returns the type for the integer Gaussian uses in NonBon lines.
func VdwTypeFromGauss(i int) (VdwType, error) {
	if i < 0 || i > int(VdwOPLS) {
		return VdwNone, fmt.Errorf("unknown van der Waals type: %d", i)
	}
	return VdwType(i), nil
}

// CoulombType is the functional form of the electrostatic interaction.
type CoulombType int

const (
	CoulombNone CoulombType = iota
	CoulombInverse
	CoulombInverseSquared
	CoulombInverseBuffered
	CoulombDipole
)

var coulombNames = [...]string{"NONE", "INVERSE", "INVERSE_SQUARED", "INVERSE_BUFFERED", "DIPOLE"}
var coulombGauss = [...]int{0, 1, 2, 3, 6}

func (C CoulombType) String() string {
	if C < CoulombNone || C > CoulombDipole {
		return "NONE"
	}
	return coulombNames[C]
}

// Gauss returns the integer Gaussian uses for the type in NonBon lines.
func (C CoulombType) Gauss() int {
	if C < CoulombNone || C > CoulombDipole {
		return 0
	}
	return coulombGauss[C]
}

// ParseCoulombType reads the names returned by CoulombType.String.
func ParseCoulombType(s string) (CoulombType, error) {
	for i, v := range coulombNames {
		if v == strings.ToUpper(strings.TrimSpace(s)) {
			return CoulombType(i), nil
		}
	}
	return CoulombNone, fmt.Errorf("unknown coulomb type: '%s'", s)
}

// CoulombTypeFromGauss returns the type for the integer Gaussian uses in NonBon lines.
func CoulombTypeFromGauss(i int) (CoulombType, error) {
	for j, v := range coulombGauss {
		if v == i {
			return CoulombType(j), nil
		}
	}
	return CoulombNone, fmt.Errorf("unknown coulomb type: %d", i)
}

// NonBonding holds the global non-bonded settings. The scale factors are, by index:
// 0 all other interactions, 1, 2 and 3 interactions between atoms 1, 2 and 3 bonds away.
type NonBonding struct {
	VdwType     VdwType
	CoulombType CoulombType
	VCutoff     int
	CCutoff     int
	VScales     [4]float64
	CScales     [4]float64
}

// DefaultNonBonding returns the AMBER defaults.
func DefaultNonBonding() NonBonding {
	return NonBonding{
		VdwType:     VdwAmber,
		CoulombType: CoulombInverse,
		VScales:     [4]float64{1, 0, 0, 0.5},
		CScales:     [4]float64{1, 0, 0, -1.2},
	}
}

// Parameters is a collection of force-field parameters.
type Parameters struct {
	NonBonding NonBonding
	Atomic     []AtomicParameter
	Stretches  []Stretch
	Bends      []Bend
	Torsions   []Torsion
	Impropers  []ImproperTorsion
}

// NewParameters returns an empty collection with the default non-bonded settings.
func NewParameters() *Parameters {
	return &Parameters{NonBonding: DefaultNonBonding()}
}

// AtomicParameter returns the parameter for the given type.
func (P *Parameters) AtomicParameter(t string) (*AtomicParameter, bool) {
	for i := range P.Atomic {
		if P.Atomic[i].Type == t {
			return &P.Atomic[i], true
		}
	}
	return nil, false
}

// AddAtomicParameter merges a into the parameter with the same type, field by field
// (only non-zero fields of a are copied), or inserts it if there is none.
func (P *Parameters) AddAtomicParameter(a AtomicParameter) {
	old, ok := P.AtomicParameter(a.Type)
	if !ok {
		P.Atomic = append(P.Atomic, a)
		return
	}
	if a.Mass != 0 {
		old.Mass = a.Mass
	}
	if a.Radius != 0 {
		old.Radius = a.Radius
	}
	if a.WellDepth != 0 {
		old.WellDepth = a.WellDepth
	}
	if a.Penalty != 0 {
		old.Penalty = a.Penalty
	}
}

//atomic returns the parameter for type t, inserting an empty one if needed.
func (P *Parameters) atomic(t string) *AtomicParameter {
	if old, ok := P.AtomicParameter(t); ok {
		return old
	}
	P.Atomic = append(P.Atomic, AtomicParameter{Type: t})
	return &P.Atomic[len(P.Atomic)-1]
}

// SetMass sets the mass of type t, zero included, inserting the type if
// needed. A non-zero penalty replaces the previous one.
func (P *Parameters) SetMass(t string, mass, penalty float64) {
	a := P.atomic(t)
	a.Mass = mass
	if penalty != 0 {
		a.Penalty = penalty
	}
}

// SetVdw sets the van der Waals radius and well depth of type t, zeros
// included, inserting the type if needed. A non-zero penalty replaces the
// previous one.
func (P *Parameters) SetVdw(t string, radius, depth, penalty float64) {
	a := P.atomic(t)
	a.Radius = radius
	a.WellDepth = depth
	if penalty != 0 {
		a.Penalty = penalty
	}
}

// AddStretch appends s. Bonded terms are never merged.
func (P *Parameters) AddStretch(s Stretch) { P.Stretches = append(P.Stretches, s) }

// AddBend appends b.
func (P *Parameters) AddBend(b Bend) { P.Bends = append(P.Bends, b) }

// AddTorsion appends t.
func (P *Parameters) AddTorsion(t Torsion) { P.Torsions = append(P.Torsions, t) }

// AddImproper appends i.
func (P *Parameters) AddImproper(i ImproperTorsion) { P.Impropers = append(P.Impropers, i) }

// Len returns the total number of parameters.
func (P *Parameters) Len() int {
	return len(P.Atomic) + len(P.Stretches) + len(P.Bends) + len(P.Torsions) + len(P.Impropers)
}

// Update adds all parameters in o to P, with the usual merge rules.
func (P *Parameters) Update(o *Parameters) {
	for _, v := range o.Atomic {
		P.AddAtomicParameter(v)
	}
	P.Stretches = append(P.Stretches, o.Stretches...)
	P.Bends = append(P.Bends, o.Bends...)
	P.Torsions = append(P.Torsions, o.Torsions...)
	P.Impropers = append(P.Impropers, o.Impropers...)
}
