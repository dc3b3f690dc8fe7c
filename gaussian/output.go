/*
 * output.go, part of gochemio.
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
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	chem "github.com/rmera/gochemio"
	"github.com/rmera/gochemio/reader"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Snapshot is one geometry of a Gaussian job, with the forces on it,
// if they were printed. Positions are in Angstrom and forces in
// Hartree/Bohr, one row per atom, in the order of the identity map.
type Snapshot struct {
	Positions *mat.Dense
	Forces    *mat.Dense //nil if not read
	Energy    float64    //NaN if not read
}

// MaxForce returns the norm of the largest force in the snapshot, 0 if
// there are no forces.
func (S *Snapshot) MaxForce() float64 {
	if S.Forces == nil {
		return 0
	}
	r, _ := S.Forces.Dims()
	var max float64
	for i := 0; i < r; i++ {
		max = math.Max(max, floats.Norm(S.Forces.RawRowView(i), 2))
	}
	return max
}

// Transition is one orbital contribution to an excited state.
type Transition struct {
	From, To    int
	Coefficient float64
}

// ExcitedState is a state from a TD calculation. Energies are in eV.
type ExcitedState struct {
	Index             int
	Symmetry          string
	Energy            float64
	Oscillator        float64
	SpinContamination float64
	Dipole            r3.Vec //transition electric dipole moment (au)
	Transitions       []Transition
}

// NormalMode is a vibrational mode. Displacements has one row per atom.
// The percentages are only printed for ONIOM jobs.
type NormalMode struct {
	Frequency     float64 //cm^-1
	ReducedMass   float64
	ForceConstant float64
	IRIntensity   float64 //KM/Mole
	ModelPercent  float64
	RealPercent   float64
	Displacements *mat.Dense
}

// Output contains the results read from a Gaussian output.
type Output struct {
	Keywords      []string
	Oniom         bool
	Layers        []chem.LayerSpec //as given by the "Charge =" lines
	Snapshots     []*Snapshot      //in the order of the file, the last one is the final geometry
	Energies      []float64        //SCF or extrapolated ONIOM energies, in Hartree
	ExcitedStates []ExcitedState   //from the last TD block
	ESP           []float64        //ESP charges from the last block
	Modes         []NormalMode
}

// Last returns the final snapshot, or nil if none was read.
func (O *Output) Last() *Snapshot {
	if len(O.Snapshots) == 0 {
		return nil
	}
	return O.Snapshots[len(O.Snapshots)-1]
}

const (
	keywordsSection    = "KEYWORDS"
	oniomSection       = "ONIOM"
	orientationSection = "STANDARD_ORIENTATION"
	energySection      = "ENERGY"
	forcesSection      = "FORCES"
	dipoleSection      = "E_DIP_MOM"
	excitedSection     = "EXCITED_STATE"
	espSection         = "ESP"
	freqSection        = "FREQ"
)

type outputReader struct {
	D         *reader.Driver
	g         *chem.Geometry
	log       chem.Logger
	chain     string
	out       *Output
	sec       reader.Sections
	normal    reader.State
	haveMap   bool //the identity map existed before the reading
	size      int  //number of atoms
	index     int
	keyLines  []string
	readForce bool
	readFreq  bool
	readTD    bool
	readESP   bool
	current   *mat.Dense
	dipoles   []r3.Vec
	esp       []float64
	group     []int //indexes in out.Modes of the modes being read
}

// ReadOutput reads the Gaussian output in r. The final geometry and,
// if present, the ESP charges, are set on the atoms of g.
// The atoms are identified by their order, using the identity map of g. If g
// has no map, one is built from the atom specifications in the output, which
// then must carry PDB information. name is used in error messages.
func ReadOutput(ctx context.Context, r io.Reader, name string, g *chem.Geometry, opts Options) (*Output, error) {
	return readOutput(ctx, reader.NewSource(r, ""), name, g, opts)
}

// ReadOutputFile reads the Gaussian output file name. See ReadOutput.
func ReadOutputFile(ctx context.Context, name string, g *chem.Geometry, opts Options) (*Output, error) {
	src, err := reader.Open(name, "")
	if err != nil {
		return nil, chem.ErrDecorate(err, "gaussian.ReadOutputFile")
	}
	defer src.Close()
	return readOutput(ctx, src, name, g, opts)
}

func readOutput(ctx context.Context, src reader.Lines, name string, g *chem.Geometry, opts Options) (*Output, error) {
	O := &outputReader{g: g, log: chem.OrNop(opts.Logger), chain: opts.chain(), out: new(Output)}
	O.haveMap = g.AtomMap != nil && g.AtomMap.Len() > 0
	if g.Calc == nil {
		g.Calc = chem.NewCalculation()
	}
	O.normal = reader.State{Name: "ParseNormal", Do: O.parseNormal}
	O.sec.Arm(keywordsSection, O.expectKeywords)
	O.D = reader.NewDriver(name, O.normal)
	O.D.Cadence = opts.Cadence
	if err := O.D.Run(ctx, src); err != nil {
		return nil, err
	}
	return O.out, O.cleanUp()
}

func (O *outputReader) cleanUp() error {
	last := O.out.Last()
	if last == nil {
		O.log.Logf(chem.Warning, "No positional information found in '%s'", O.D.Path)
		return nil
	}
	if err := O.g.SetCoords(last.Positions); err != nil {
		return chem.ErrDecorate(err, "gaussian.ReadOutput")
	}
	if len(O.out.ESP) != O.size {
		return nil
	}
	for i, q := range O.out.ESP {
		id, _ := O.g.AtomMap.Get(i)
		if at, ok := O.g.Atom(id); ok {
			at.Charge = q
		}
	}
	return nil
}

func (O *outputReader) back() {
	O.D.SetState(O.normal)
}

func (O *outputReader) parseNormal(line string) error {
	_, _, err := O.sec.Offer(line)
	return err
}

//atoms returns the number of atoms, taking it from the identity map if
//the atom specifications were not read.
func (O *outputReader) atoms() (int, error) {
	if O.size > 0 {
		return O.size, nil
	}
	if O.g.AtomMap == nil || O.g.AtomMap.Len() == 0 {
		return 0, fmt.Errorf("%s: %w", O.D.Path, chem.ErrNoAtomMap)
	}
	O.size = O.g.AtomMap.Len()
	return O.size, nil
}

//vec reads 3 floats from f, starting at f[start].
func (O *outputReader) vec(f []reader.Field, start int) ([]float64, error) {
	ret := make([]float64, 3)
	for i := range ret {
		var err error
		if ret[i], err = O.D.FieldFloat(f, start+i); err != nil {
			return nil, err
		}
	}
	return ret, nil
}

func (O *outputReader) expectKeywords(line string) (bool, error) {
	if !strings.HasPrefix(line, " #") {
		return false, nil
	}
	O.keyLines = nil
	O.D.SetState(reader.State{Name: "ParseKeywords", Do: O.parseKeywords})
	return true, O.parseKeywords(line)
}

//Gaussian breaks the route section at fixed widths, even in the middle of
//a keyword, so lines are joined before splitting.
func (O *outputReader) parseKeywords(line string) error {
	if !strings.HasPrefix(line, " --") {
		O.keyLines = append(O.keyLines, strings.TrimPrefix(line, " "))
		return nil
	}
	O.out.Keywords = strings.Fields(strings.Join(O.keyLines, ""))
	for _, k := range O.out.Keywords {
		up := strings.ToUpper(k)
		if strings.HasPrefix(up, "ONIOM") {
			O.out.Oniom = true
			if strings.Contains(up, "TD") {
				O.readTD = true
			}
			if parts := strings.Split(up, "="); len(parts) > 1 && strings.HasPrefix(parts[len(parts)-1], "EMBED") {
				O.readESP = true
			}
		}
		if strings.HasPrefix(up, "FREQ") {
			O.readFreq = true
			O.readForce = true
		}
		if strings.HasPrefix(up, "OPT") || strings.HasPrefix(up, "FORCE") {
			O.readForce = true
		}
		if strings.HasPrefix(up, "TD") {
			O.readTD = true
		}
		if strings.Contains(up, "POP") && strings.Contains(up, "MK") {
			O.readESP = true
		}
	}
	kind := "Single Layer"
	if O.out.Oniom {
		kind = "ONIOM"
	}
	O.log.Logf(chem.Verbose, "Reading %s File (readFreq: %t, readTD: %t, readESP: %t, readForce: %t)", kind, O.readFreq, O.readTD, O.readESP, O.readForce)
	O.sec.Disarm(keywordsSection)
	O.sec.Arm(oniomSection, O.expectLayers)
	O.back()
	return nil
}

func (O *outputReader) expectLayers(line string) (bool, error) {
	if !strings.HasPrefix(line, " Charge = ") {
		return false, nil
	}
	O.index = 0
	O.D.SetState(reader.State{Name: "ParseONIOMLayers", Do: O.parseLayers})
	return true, O.addLayer(line)
}

func (O *outputReader) parseLayers(line string) error {
	switch {
	case strings.HasPrefix(line, " Charge = "):
		return O.addLayer(line)
	case strings.HasPrefix(line, " Redundant internal"), strings.HasPrefix(line, " Symbolic Z-Matrix:"):
		return nil
	}
	O.sec.Disarm(oniomSection)
	O.D.SetState(reader.State{Name: "ParseAtomInfo", Do: O.parseAtomInfo})
	return O.parseAtomInfo(line)
}

// Charge =  0 Multiplicity = 1
// Charge =  0 Multiplicity = 1 for low   level calculation on real  system.
func (O *outputReader) addLayer(line string) error {
	f := reader.Fields(line)
	layer := chem.Real
	switch len(f) {
	case 6:
	case 13:
		var err error
		O.D.CharNum = f[11].Col
		if layer, err = chem.LayerFromName(f[11].Text); err != nil {
			return err
		}
		for _, v := range O.out.Layers {
			if v.Layer == layer {
				return nil
			}
		}
	default:
		O.D.CharNum = 1
		return errors.New("unrecognised layer format")
	}
	charge, err := O.D.FieldInt(f, 2)
	if err != nil {
		return err
	}
	mult, err := O.D.FieldInt(f, 5)
	if err != nil {
		return err
	}
	O.log.Logf(chem.Verbose, "Adding Layer: %s (Charge: %d, Multiplicity: %d)", layer, charge, mult)
	O.out.Layers = append(O.out.Layers, chem.LayerSpec{Layer: layer, Charge: charge, Multiplicity: mult})
	if spec, ok := O.g.Calc.Layer(layer); ok {
		spec.Charge, spec.Multiplicity = charge, mult
	} else {
		O.g.Calc.SetLayer(chem.LayerSpec{Layer: layer, Charge: charge, Multiplicity: mult})
	}
	return nil
}

func (O *outputReader) parseAtomInfo(line string) error {
	if strings.TrimSpace(line) == "" {
		O.size = O.index
		if O.g.AtomMap == nil || O.g.AtomMap.Len() == 0 {
			return fmt.Errorf("%s: %w", O.D.Path, chem.ErrNoAtomMap)
		}
		if O.g.AtomMap.Len() != O.size {
			return &chem.ConsistencyError{Path: O.D.Path, Index: -1, Expected: fmt.Sprintf("%d atoms in the atom map", O.g.AtomMap.Len()), Got: fmt.Sprintf("%d atoms", O.size)}
		}
		O.sec.Arm(orientationSection, O.expectOrientation)
		O.back()
		return nil
	}
	al, err := ParseAtomLine(O.D, line, O.chain)
	if errors.Is(err, ErrOldFormat) {
		if !O.haveMap {
			return fmt.Errorf("%s: %w", O.D.Path, chem.ErrNoAtomMap)
		}
		O.log.Logf(chem.Warning, "Using old style Gaussian output (problematic if geometry do not map properly) - don't use 'geom=allcheck' to avoid this.")
		O.size = O.g.AtomMap.Len()
		O.sec.Arm(orientationSection, O.expectOrientation)
		O.D.SetState(reader.State{Name: "SkipAtomInfo", Do: O.skipAtomInfo})
		return nil
	}
	if err != nil {
		return err
	}
	index := O.index
	O.index++
	if O.haveMap {
		id, ok := O.g.AtomMap.Get(index)
		if !ok {
			return &chem.ConsistencyError{Path: O.D.Path, Index: index, Expected: fmt.Sprintf("%d atoms", O.g.AtomMap.Len()), Got: "more atoms"}
		}
		if id.PDB.Element != al.Element {
			return &chem.ConsistencyError{Path: O.D.Path, Index: index, Expected: fmt.Sprintf("element %s (%s)", id.PDB.Element, id), Got: "element " + al.Element}
		}
		return nil
	}
	if O.g.AtomMap == nil {
		O.g.AtomMap = chem.NewAtomMap()
	}
	id, err := al.Add(O.g)
	if err != nil {
		return err
	}
	return O.g.AtomMap.Set(index, id)
}

func (O *outputReader) skipAtomInfo(line string) error {
	if strings.TrimSpace(line) == "" {
		O.back()
	}
	return nil
}

func (O *outputReader) expectOrientation(line string) (bool, error) {
	if !strings.HasPrefix(strings.TrimLeft(line, " "), "Standard orientation:") {
		return false, nil
	}
	n, err := O.atoms()
	if err != nil {
		return true, err
	}
	O.log.Logf(chem.Verbose, "Reading Standard Orientation block")
	O.D.Skip = 4
	O.index = 0
	O.current = mat.NewDense(n, 3, nil)
	O.D.SetState(reader.State{Name: "ParseStandardOrientation", Do: O.parseOrientation})
	return true, nil
}

//      1          6           0        0.000000    0.000000    0.000000
func (O *outputReader) parseOrientation(line string) error {
	if strings.HasPrefix(line, " --") {
		if O.index != O.size {
			return &chem.ConsistencyError{Path: O.D.Path, Index: -1, Expected: fmt.Sprintf("%d atoms", O.size), Got: fmt.Sprintf("%d atoms in the orientation block", O.index)}
		}
		O.out.Snapshots = append(O.out.Snapshots, &Snapshot{Positions: O.current, Energy: math.NaN()})
		switch {
		case O.readTD:
			O.sec.Arm(dipoleSection, O.expectDipoles)
			O.sec.Arm(excitedSection, O.expectExcited)
		case O.readESP:
			O.sec.Arm(espSection, O.expectESP)
			O.sec.Arm(energySection, O.expectEnergy)
		default:
			O.sec.Arm(energySection, O.expectEnergy)
		}
		O.back()
		return nil
	}
	f := reader.Fields(line)
	z, err := O.D.FieldInt(f, 1)
	if err != nil {
		return fmt.Errorf("unrecognised atomic number: %w", err)
	}
	if O.index >= O.size {
		return &chem.ConsistencyError{Path: O.D.Path, Index: O.index, Expected: fmt.Sprintf("%d atoms", O.size), Got: "more atoms"}
	}
	id, _ := O.g.AtomMap.Get(O.index)
	if z != id.PDB.AtomicNumber() {
		return &chem.ConsistencyError{Path: O.D.Path, Index: O.index, Expected: fmt.Sprintf("atomic number %d (%s)", id.PDB.AtomicNumber(), id), Got: fmt.Sprintf("atomic number %d", z)}
	}
	c, err := O.vec(f, 3)
	if err != nil {
		return fmt.Errorf("unrecognised coordinate: %w", err)
	}
	O.current.SetRow(O.index, c)
	O.index++
	return nil
}

// SCF Done:  E(RB3LYP) =  -76.4089  A.U. after   10 cycles
// ONIOM: extrapolated energy =  -5.123456
func (O *outputReader) expectEnergy(line string) (bool, error) {
	prefix, n := " SCF Done:", 9
	if O.out.Oniom {
		prefix, n = " ONIOM: extrapolated", 5
	}
	if !strings.HasPrefix(line, prefix) {
		return false, nil
	}
	f := reader.Fields(line)
	if len(f) != n {
		return true, errors.New("failed to read energy: invalid line specification")
	}
	e, err := O.D.FieldFloat(f, 4)
	if err != nil {
		return true, fmt.Errorf("failed to read energy: %w", err)
	}
	O.out.Energies = append(O.out.Energies, e)
	if last := O.out.Last(); last != nil {
		last.Energy = e
	}
	O.sec.Disarm(energySection)
	switch {
	case O.readFreq:
		O.sec.Arm(forcesSection, O.expectForces)
		O.sec.Arm(freqSection, O.expectFrequencies)
	case O.readForce:
		O.sec.Arm(forcesSection, O.expectForces)
	default:
		O.sec.Arm(orientationSection, O.expectOrientation)
	}
	return true, nil
}

// Center     Atomic                   Forces (Hartrees/Bohr)
func (O *outputReader) expectForces(line string) (bool, error) {
	if !strings.HasPrefix(line, " Center     Atomic") || !strings.Contains(line, "Forces") {
		return false, nil
	}
	n, err := O.atoms()
	if err != nil {
		return true, err
	}
	O.log.Logf(chem.Verbose, "Reading Forces block")
	O.D.Skip = 2
	O.index = 0
	O.current = mat.NewDense(n, 3, nil)
	O.D.SetState(reader.State{Name: "ParseForces", Do: O.parseForces})
	return true, nil
}

//      1        8           0.000000000    0.000000000    0.005237911
func (O *outputReader) parseForces(line string) error {
	if strings.HasPrefix(line, " --") {
		if last := O.out.Last(); last != nil {
			last.Forces = O.current
		} else {
			O.log.Logf(chem.Warning, "Forces found before any geometry in %s, line %d", O.D.Path, O.D.LineNumber)
		}
		O.sec.Disarm(forcesSection)
		O.sec.Arm(orientationSection, O.expectOrientation)
		O.back()
		return nil
	}
	if O.index >= O.size {
		return &chem.ConsistencyError{Path: O.D.Path, Index: O.index, Expected: fmt.Sprintf("%d atoms", O.size), Got: "more forces"}
	}
	c, err := O.vec(reader.Fields(line), 2)
	if err != nil {
		return fmt.Errorf("unrecognised force: %w", err)
	}
	O.current.SetRow(O.index, c)
	O.index++
	return nil
}

func (O *outputReader) expectDipoles(line string) (bool, error) {
	if !strings.HasPrefix(line, " Ground to excited state transition electric dipole moments (Au):") {
		return false, nil
	}
	O.D.Skip = 1
	O.dipoles = nil
	O.D.SetState(reader.State{Name: "ParseElectricDipoleMoments", Do: O.parseDipoles})
	return true, nil
}

//       state          X           Y           Z        Dip. S.      Osc.
//         1         0.0000      0.0000     -0.0622      0.0039      0.0010
func (O *outputReader) parseDipoles(line string) error {
	f := reader.Fields(line)
	if len(f) == 0 {
		O.back()
		return nil
	}
	if _, err := strconv.Atoi(f[0].Text); err != nil {
		O.sec.Disarm(orientationSection)
		O.sec.Arm(excitedSection, O.expectExcited)
		O.back()
		return nil
	}
	c, err := O.vec(f, 1)
	if err != nil {
		return fmt.Errorf("unrecognised electric dipole moment: %w", err)
	}
	O.dipoles = append(O.dipoles, r3.Vec{X: c[0], Y: c[1], Z: c[2]})
	return nil
}

//after splits s=value and reads the value as a float.
func (O *outputReader) after(f []reader.Field, i int) (float64, error) {
	s, err := O.D.Field(f, i)
	if err != nil {
		return 0, err
	}
	j := strings.LastIndex(s, "=")
	if j < 0 {
		return 0, fmt.Errorf("expected a key=value pair, got %s", s)
	}
	return strconv.ParseFloat(s[j+1:], 64)
}

// Excited State   1:      Singlet-A      4.0186 eV  308.53 nm  f=0.0011  <S**2>=0.000
func (O *outputReader) expectExcited(line string) (bool, error) {
	if !strings.HasPrefix(line, " Excited State ") {
		return false, nil
	}
	f := reader.Fields(line)
	idx, err := O.D.Field(f, 2)
	if err != nil {
		return true, err
	}
	var es ExcitedState
	if es.Index, err = strconv.Atoi(strings.TrimSuffix(idx, ":")); err != nil {
		return true, fmt.Errorf("unrecognised excited state: %w", err)
	}
	if es.Index < 1 {
		return true, fmt.Errorf("excited state index %d is not positive", es.Index)
	}
	if es.Symmetry, err = O.D.Field(f, 3); err != nil {
		return true, err
	}
	if es.Energy, err = O.D.FieldFloat(f, 4); err != nil {
		return true, fmt.Errorf("unrecognised excitation energy: %w", err)
	}
	if es.Oscillator, err = O.after(f, 8); err != nil {
		return true, fmt.Errorf("unrecognised oscillator strength: %w", err)
	}
	if es.SpinContamination, err = O.after(f, 9); err != nil {
		return true, fmt.Errorf("unrecognised spin contamination: %w", err)
	}
	if es.Index == 1 {
		O.out.ExcitedStates = nil
	}
	if es.Index <= len(O.dipoles) {
		//states are numbered from 1
		es.Dipole = O.dipoles[es.Index-1]
	}
	O.log.Logf(chem.Debug, "Adding Excited State Index %d (Symmetry: %s, Excitation Energy: %f eV, Oscillator Strength: %f, Spin contamination: %f, Transition Dipole Moment: %v)", es.Index, es.Symmetry, es.Energy, es.Oscillator, es.SpinContamination, es.Dipole)
	O.out.ExcitedStates = append(O.out.ExcitedStates, es)
	if O.readESP {
		O.sec.Arm(espSection, O.expectESP)
	}
	O.sec.Arm(energySection, O.expectEnergy)
	O.D.SetState(reader.State{Name: "ParseExcitedState", Do: O.parseExcited})
	return true, nil
}

//orbital reads orbital numbers, which have a spin letter in open-shell
//calculations, ie 5A.
func orbital(s string) (int, error) {
	return strconv.Atoi(strings.TrimRight(s, "AB"))
}

//       5 ->   6         0.70552
//Lines other than transitions end the state, and are offered to the
//armed sections.
func (O *outputReader) parseExcited(line string) error {
	f := reader.Fields(line)
	if len(f) == 0 {
		O.back()
		return nil
	}
	from, err := orbital(f[0].Text)
	if err != nil {
		O.back()
		return O.parseNormal(line)
	}
	var t Transition
	t.From = from
	s, err := O.D.Field(f, 2)
	if err != nil {
		return err
	}
	if t.To, err = orbital(s); err != nil {
		return fmt.Errorf("unrecognised excited state orbital: %w", err)
	}
	if t.Coefficient, err = O.D.FieldFloat(f, 3); err != nil {
		return fmt.Errorf("unrecognised excited state coefficient: %w", err)
	}
	es := &O.out.ExcitedStates[len(O.out.ExcitedStates)-1]
	es.Transitions = append(es.Transitions, t)
	return nil
}

func (O *outputReader) expectESP(line string) (bool, error) {
	if !strings.HasPrefix(line, " ESP charges:") {
		return false, nil
	}
	n, err := O.atoms()
	if err != nil {
		return true, err
	}
	O.log.Logf(chem.Verbose, "Reading ESPs")
	O.D.Skip = 1
	O.index = 0
	O.esp = make([]float64, n)
	O.D.SetState(reader.State{Name: "ParseESPs", Do: O.parseESP})
	return true, nil
}

//     1  O   -0.834000
func (O *outputReader) parseESP(line string) error {
	f := reader.Fields(line)
	if len(f) != 3 {
		if O.index != O.size {
			return fmt.Errorf("failed to read ESPs: invalid number of ESPs (%d) - should be %d", O.index, O.size)
		}
		O.out.ESP = O.esp
		O.sec.Disarm(espSection)
		O.sec.Arm(orientationSection, O.expectOrientation)
		O.back()
		return nil
	}
	if O.index >= O.size {
		return fmt.Errorf("failed to read ESPs: more than %d", O.size)
	}
	q, err := O.D.FieldFloat(f, 2)
	if err != nil {
		return fmt.Errorf("failed to read ESPs: %w", err)
	}
	O.esp[O.index] = q
	O.index++
	return nil
}

func (O *outputReader) expectFrequencies(line string) (bool, error) {
	if !strings.HasPrefix(line, " Harmonic frequencies ") {
		return false, nil
	}
	if _, err := O.atoms(); err != nil {
		return true, err
	}
	O.D.Skip = 3
	O.out.Modes = nil
	O.D.SetState(reader.State{Name: "ParseFrequencyInfo", Do: O.parseFrequencies})
	return true, nil
}

//modeValues sets the values in f, from f[start], on the modes of the
//current group.
func (O *outputReader) modeValues(f []reader.Field, start int, set func(m *NormalMode, v float64)) error {
	for i, m := range O.group {
		v, err := O.D.FieldFloat(f, start+i)
		if err != nil {
			return err
		}
		set(&O.out.Modes[m], v)
	}
	return nil
}

//                      1                      2                      3
//                     A1                     A1                     B2
// Frequencies --   1600.1234              3800.1234              3900.1234
// Red. masses --      1.0800                 1.0400                 1.0800
// Frc consts  --      1.6300                 8.8100                 9.7000
// IR Inten    --     70.0000                 2.0000                21.0000
//  Atom  AN      X      Y      Z        X      Y      Z        X      Y      Z
func (O *outputReader) parseFrequencies(line string) error {
	f := reader.Fields(line)
	if len(f) == 0 {
		O.sec.Disarm(freqSection)
		O.sec.Arm(forcesSection, O.expectForces)
		O.back()
		return nil
	}
	switch f[0].Text {
	case "Frequencies":
		O.group = O.group[:0]
		for i := 2; i < len(f); i++ {
			O.group = append(O.group, len(O.out.Modes))
			O.out.Modes = append(O.out.Modes, NormalMode{Displacements: mat.NewDense(O.size, 3, nil)})
		}
		return O.modeValues(f, 2, func(m *NormalMode, v float64) { m.Frequency = v })
	case "Red.":
		return O.modeValues(f, 3, func(m *NormalMode, v float64) { m.ReducedMass = v })
	case "Frc":
		return O.modeValues(f, 3, func(m *NormalMode, v float64) { m.ForceConstant = v })
	case "IR":
		return O.modeValues(f, 3, func(m *NormalMode, v float64) { m.IRIntensity = v })
	case "%ModelSys":
		return O.modeValues(f, 2, func(m *NormalMode, v float64) { m.ModelPercent = v })
	case "%RealSys":
		return O.modeValues(f, 2, func(m *NormalMode, v float64) { m.RealPercent = v })
	case "Atom":
		O.index = 0
		O.D.SetState(reader.State{Name: "ParseNormalModes", Do: O.parseModes})
	}
	return nil
}

//     1   8     0.00   0.00   0.07     0.00   0.00  -0.05     0.00  -0.07   0.00
func (O *outputReader) parseModes(line string) error {
	f := reader.Fields(line)
	for i, m := range O.group {
		c, err := O.vec(f, 2+3*i)
		if err != nil {
			return fmt.Errorf("failed to parse normal mode: %w", err)
		}
		O.out.Modes[m].Displacements.SetRow(O.index, c)
	}
	O.index++
	if O.index == O.size {
		O.D.SetState(reader.State{Name: "ParseFrequencyInfo", Do: O.parseFrequencies})
	}
	return nil
}
