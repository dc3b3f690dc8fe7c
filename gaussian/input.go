/*
 * input.go, part of gochemio.
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


//Package gaussian reads Gaussian inputs (.com, .gjf), outputs (.log) and
//formatted checkpoint files (.fchk), and writes inputs.
//
//Gaussian outputs and checkpoints refer to atoms by their position only, so
//they are read on top of a geometry that already has an identity map,
//usually the one built when reading the input that generated them.
package gaussian

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	chem "github.com/rmera/gochemio"
	"github.com/rmera/gochemio/amber"
	"github.com/rmera/gochemio/reader"
	"gonum.org/v1/gonum/spatial/r3"
)

// Options changes the way Gaussian files are read.
type Options struct {
	Chain   string   //chain of the residues named in atom lines. "A" if empty
	Methods []string //DefaultMethods if nil
	Logger  chem.Logger
	Cadence *reader.Cadence
}

func (O Options) chain() string {
	if O.Chain == "" {
		return "A"
	}
	return O.Chain
}

type inputReader struct {
	D        *reader.Driver
	g        *chem.Geometry
	c        *chem.Calculation
	log      chem.Logger
	chain    string
	methods  []string
	keywords []string
	title    []string
	update   bool //the atoms exist, only their data is changed
	index    int
	params   bool
}

// ReadInput reads the Gaussian input in r into g: the Link0 commands,
// keywords, title, charges and multiplicities go to g.Calc, which is replaced.
// Atoms are added to g and the identity map is built, unless g already has
// an identity map, in which case the atoms are matched against it by their
// order and only updated. The connectivity and the force-field parameters
// are read if present. name is used in error messages.
func ReadInput(ctx context.Context, r io.Reader, name string, g *chem.Geometry, opts Options) error {
	return readInput(ctx, reader.NewSource(r, "!"), name, g, opts)
}

// ReadInputFile reads the Gaussian input file name into g. See ReadInput.
func ReadInputFile(ctx context.Context, name string, g *chem.Geometry, opts Options) error {
	src, err := reader.Open(name, "!")
	if err != nil {
		return chem.ErrDecorate(err, "gaussian.ReadInputFile")
	}
	defer src.Close()
	return readInput(ctx, src, name, g, opts)
}

func readInput(ctx context.Context, src reader.Lines, name string, g *chem.Geometry, opts Options) error {
	I := &inputReader{g: g, c: chem.NewCalculation(), log: chem.OrNop(opts.Logger), chain: opts.chain(), methods: opts.Methods}
	if I.methods == nil {
		I.methods = DefaultMethods
	}
	g.Calc = I.c
	if g.AtomMap != nil && g.AtomMap.Len() > 0 {
		I.update = true
	} else {
		g.AtomMap = chem.NewAtomMap()
	}
	I.D = reader.NewDriver(name, reader.State{Name: "ReadLink0", Do: I.link0})
	I.D.Cadence = opts.Cadence
	if err := I.D.Run(ctx, src); err != nil {
		return err
	}
	if I.index == 0 {
		return chem.NewError(fmt.Sprintf("%s: no atoms found in %s", chem.WrongFormat, name), "gaussian.ReadInput", true)
	}
	return nil
}

//%chk=file.chk
//%mem=4GB
//%nprocshared=4
//%kjob L502 2
func (I *inputReader) link0(line string) error {
	line = strings.TrimSpace(line)
	if strings.HasPrefix(line, "#") {
		I.D.SetState(reader.State{Name: "ReadKeywords", Do: I.readKeywords})
		return I.readKeywords(line)
	}
	if !strings.HasPrefix(line, "%") {
		return nil
	}
	I.D.CharNum = 1
	key := strings.ToUpper(line)
	var err error
	switch {
	case strings.HasPrefix(key, "%CHK"):
		I.c.Checkpoint = ValueFromPair(line)
	case strings.HasPrefix(key, "%OLDCHK"):
		I.c.OldCheckpoint = ValueFromPair(line)
	case strings.HasPrefix(key, "%MEM"):
		I.c.MemoryMB, err = MemoryMB(ValueFromPair(line))
	case strings.HasPrefix(key, "%NPROC"):
		I.c.NProc, err = strconv.Atoi(strings.TrimSpace(ValueFromPair(line)))
	case strings.HasPrefix(key, "%KJOB"):
		f := reader.Fields(line)
		var link string
		if link, err = I.D.Field(f, 1); err != nil {
			return err
		}
		if I.c.KillJobLink, err = strconv.Atoi(strings.TrimPrefix(strings.ToUpper(link), "L")); err != nil {
			return err
		}
		I.c.KillJobN = 1
		if len(f) > 2 {
			I.c.KillJobN, err = I.D.FieldInt(f, 2)
		}
	default:
		I.log.Logf(chem.Warning, "Link0 command not recognised: %s", line)
	}
	return err
}

func (I *inputReader) readKeywords(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		if len(I.keywords) == 0 {
			return nil
		}
		if err := I.processKeywords(); err != nil {
			return err
		}
		I.D.SetState(reader.State{Name: "ReadTitle", Do: I.readTitle})
		return nil
	}
	for _, v := range strings.Fields(line) {
		I.keywords = append(I.keywords, strings.ToLower(v))
	}
	return nil
}

func (I *inputReader) addLayer(layer chem.Layer, level string) {
	method, basis, opts := MethodFromString(level)
	I.c.SetLayer(chem.LayerSpec{Layer: layer, Method: method, Basis: basis, Options: opts})
	I.log.Logf(chem.Debug, "Adding Layer %s", layer)
}

func (I *inputReader) processKeywords() error {
	I.c.Keywords = I.keywords
	for _, k := range I.keywords {
		switch {
		case strings.HasPrefix(k, "#"):
			switch level := strings.ToUpper(strings.TrimPrefix(k, "#")); level {
			case "T", "N", "P":
				I.c.PrintLevel = level
			default:
				I.c.PrintLevel = "N"
			}
		case strings.HasPrefix(k, "oniom"):
			I.c.Oniom = true
			I.c.ClearLayers()
			for _, o := range options(k) {
				I.c.OniomOptions = append(I.c.OniomOptions, o)
				I.log.Logf(chem.Debug, "Adding ONIOM option: %s", o)
			}
			var levels []string
			for _, v := range strings.Split(StringInParentheses(k), ":") {
				if v != "" {
					levels = append(levels, v)
				}
			}
			switch len(levels) {
			case 3:
				I.addLayer(chem.Intermediate, levels[1])
				fallthrough
			case 2:
				I.addLayer(chem.Real, levels[len(levels)-1])
				fallthrough
			case 1:
				I.addLayer(chem.Model, levels[0])
			default:
				return fmt.Errorf("%d levels of theory in ONIOM keyword %s, expected 1 to 3", len(levels), k)
			}
		case strings.HasPrefix(k, "guess"):
			I.c.Guess = append(I.c.Guess, options(k)...)
		case strings.HasPrefix(k, "geom"):
			for _, o := range options(k) {
				I.c.GeomOptions = append(I.c.GeomOptions, o)
				if o == "connectivity" {
					I.c.Connectivity = true
					I.log.Logf(chem.Debug, "Switching on connectivity reader")
				}
			}
		case !I.c.Oniom:
			for _, m := range I.methods {
				if strings.HasPrefix(k, m) {
					I.addLayer(chem.Model, k)
					break
				}
			}
		}
	}
	return nil
}

func (I *inputReader) readTitle(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		if len(I.title) == 0 {
			return nil
		}
		I.c.Title = strings.Join(I.title, "\n")
		I.D.SetState(reader.State{Name: "ReadChargeMultiplicity", Do: I.readChargeMultiplicity})
		return nil
	}
	I.title = append(I.title, line)
	return nil
}

//Pairs of charge and multiplicity are given to the layers from the
//Real one up. Each pair also sets the layers above the one it is for,
//which keep it unless a later pair is given.
func (I *inputReader) readChargeMultiplicity(line string) error {
	f := reader.Fields(line)
	if len(f) == 0 {
		return errors.New("missing Charge/Multiplicity section")
	}
	if len(I.c.Layers()) == 0 {
		I.c.SetLayer(chem.LayerSpec{Layer: chem.Model})
	}
	layers := I.c.Layers()
	for i := 0; i < len(f)/2 && i < len(layers); i++ {
		charge, err := I.D.FieldInt(f, 2*i)
		if err != nil {
			return err
		}
		mult, err := I.D.FieldInt(f, 2*i+1)
		if err != nil {
			return err
		}
		for _, l := range layers[i:] {
			spec, _ := I.c.Layer(l)
			spec.Charge = charge
			spec.Multiplicity = mult
			I.log.Logf(chem.Debug, "Setting (%s) Layer Charge: %d, Multiplicity: %d", l, charge, mult)
		}
	}
	I.D.SetState(reader.State{Name: "ReadAtoms", Do: I.readAtom})
	return nil
}

func (I *inputReader) readAtom(line string) error {
	if strings.TrimSpace(line) == "" {
		if I.c.Connectivity {
			I.D.SetState(reader.State{Name: "ReadConnectivity", Do: I.readConnectivity})
		} else {
			I.D.SetState(reader.State{Name: "ReadParameters", Do: I.readParameters})
		}
		return nil
	}
	index := I.index
	I.index++
	al, err := ParseAtomLine(I.D, line, I.chain)
	if errors.Is(err, ErrOldFormat) {
		if !I.update {
			return fmt.Errorf("atom %d: %w", index, chem.ErrNoAtomMap)
		}
		return I.updateOldFormat(line, index)
	}
	if err != nil {
		return err
	}
	if I.update {
		return I.updateAtom(al, index)
	}
	id, err := al.Add(I.g)
	if err != nil {
		return err
	}
	if al.LinkAtom != "" {
		I.log.Logf(chem.Verbose, "Atom %s has link atom %s to atom %d", id, al.LinkAtom, al.LinkIndex)
	}
	I.log.Logf(chem.Verbose, "Adding Atom (ID: %s): %s", id, chem.Lazy(func() string {
		at, _ := I.g.Atom(id)
		return at.String()
	}))
	return I.g.AtomMap.Set(index, id)
}

func (I *inputReader) mapped(index int, element string) (*chem.Atom, error) {
	id, ok := I.g.AtomMap.Get(index)
	if !ok {
		return nil, &chem.ConsistencyError{Path: I.D.Path, Index: index, Expected: fmt.Sprintf("%d atoms", I.g.AtomMap.Len()), Got: "more atoms"}
	}
	if id.PDB.Element != element {
		return nil, &chem.ConsistencyError{Path: I.D.Path, Index: index, Expected: fmt.Sprintf("element %s (%s)", id.PDB.Element, id), Got: "element " + element}
	}
	at, ok := I.g.Atom(id)
	if !ok {
		return nil, fmt.Errorf("atom %s in the atom map but not in the geometry", id)
	}
	return at, nil
}

func (I *inputReader) updateAtom(al *AtomLine, index int) error {
	at, err := I.mapped(index, al.Element)
	if err != nil {
		return err
	}
	at.Position = al.Position
	at.Layer = al.Layer
	at.Mobile = al.Mobile
	at.Charge = al.Charge
	if al.Amber != "" {
		at.Amber = al.Amber
	}
	return nil
}

//C,0,1.0,2.0,3.0 or C 1.0 2.0 3.0
func (I *inputReader) updateOldFormat(line string, index int) error {
	f := reader.Fields(strings.ReplaceAll(line, ",", " "))
	if len(f) < 4 {
		return fmt.Errorf("expected an element and 3 coordinates")
	}
	el, _ := I.D.Field(f, 0)
	if n, err := strconv.Atoi(el); err == nil {
		el = chem.Symbol(n)
	}
	at, err := I.mapped(index, chem.TitleCase(el))
	if err != nil {
		return err
	}
	var c [3]float64
	for i := range c {
		if c[i], err = I.D.FieldFloat(f, len(f)-3+i); err != nil {
			return err
		}
	}
	at.Position = r3.Vec{X: c[0], Y: c[1], Z: c[2]}
	return nil
}

//1 2 1.0 3 1.5
func (I *inputReader) readConnectivity(line string) error {
	f := reader.Fields(line)
	if len(f) == 0 {
		I.D.SetState(reader.State{Name: "ReadParameters", Do: I.readParameters})
		return nil
	}
	id0, err := I.mappedField(f, 0)
	if err != nil {
		return err
	}
	for i := 1; i+1 < len(f); i += 2 {
		id1, err := I.mappedField(f, i)
		if err != nil {
			return err
		}
		order, err := I.D.FieldFloat(f, i+1)
		if err != nil {
			return err
		}
		bt, err := chem.BondTypeFromGauss(order)
		if err != nil {
			return err
		}
		if err := I.g.Connect(id0, id1, bt); err != nil {
			return err
		}
	}
	return nil
}

//mappedField returns the atom with the 1-based index in f[i].
func (I *inputReader) mappedField(f []reader.Field, i int) (chem.AtomID, error) {
	n, err := I.D.FieldInt(f, i)
	if err != nil {
		return chem.AtomID{}, err
	}
	id, ok := I.g.AtomMap.Get(n - 1)
	if !ok {
		return id, fmt.Errorf("atom %d not in the atom map", n)
	}
	return id, nil
}

//The parameter block can be preceded by blank lines, and ends with one.
//Malformed records are logged and skipped.
func (I *inputReader) readParameters(line string) error {
	if strings.TrimSpace(line) == "" {
		if I.params {
			I.D.Stop = true
		}
		return nil
	}
	I.params = true
	if err := amber.ParsePRMLine(I.D, line, I.g.Parameters); err != nil {
		I.log.Logf(chem.ErrorLevel, "%s", I.D.Fail(err))
	}
	return nil
}
