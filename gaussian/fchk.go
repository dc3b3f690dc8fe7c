/*
 * fchk.go, part of gochemio.
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
	"fmt"
	"io"
	"strconv"
	"strings"

	chem "github.com/rmera/gochemio"
	"github.com/rmera/gochemio/reader"
	"gonum.org/v1/gonum/mat"
)

// FChk contains the data read from a formatted checkpoint file.
// Coordinates are in Angstrom, one row per atom.
type FChk struct {
	NBasis        int
	NElectrons    int
	AtomicNumbers []int
	Coordinates   *mat.Dense
	MMCharges     []float64
	Layers        []chem.Layer
}

const (
	fchkAtomicNumbers = "Atomic numbers"
	fchkCoordinates   = "Current cartesian coordinates"
	fchkMMCharges     = "MM Charges"
	fchkLayers        = "Atom Layers"
	fchkNBasis        = "Number of basis functions"
	fchkNElectrons    = "Number of electrons"
)

//The header of a section has the name in the first 43 columns,
//then the type, and either the value or "N=" and the number of values.
const fchkNameWidth = 43

//array accumulates the values of a section, which can span many lines.
type array struct {
	key    string
	values []float64
}

func (A *array) full() bool {
	return len(A.values) == cap(A.values)
}

type fchkReader struct {
	D      *reader.Driver
	log    chem.Logger
	arrays map[string][]float64
	ints   map[string]int
	cur    *array
}

// ReadFChk reads the formatted checkpoint in r. If g is not nil, the atoms,
// matched by their order with the identity map of g, get the positions in
// the file, and the MM charges and layers, if present.
// name is used in error messages.
func ReadFChk(ctx context.Context, r io.Reader, name string, g *chem.Geometry, opts Options) (*FChk, error) {
	return readFChk(ctx, reader.NewSource(r, ""), name, g, opts)
}

// ReadFChkFile reads the formatted checkpoint file name. See ReadFChk.
func ReadFChkFile(ctx context.Context, name string, g *chem.Geometry, opts Options) (*FChk, error) {
	src, err := reader.Open(name, "")
	if err != nil {
		return nil, chem.ErrDecorate(err, "gaussian.ReadFChkFile")
	}
	defer src.Close()
	return readFChk(ctx, src, name, g, opts)
}

func readFChk(ctx context.Context, src reader.Lines, name string, g *chem.Geometry, opts Options) (*FChk, error) {
	if g != nil && g.AtomMap.Len() == 0 {
		return nil, fmt.Errorf("formatted checkpoint %s: %w", name, chem.ErrNoAtomMap)
	}
	F := &fchkReader{log: chem.OrNop(opts.Logger), arrays: make(map[string][]float64), ints: make(map[string]int)}
	F.D = reader.NewDriver(name, reader.State{Name: "ReadHeader", Do: F.readHeader})
	F.D.Cadence = opts.Cadence
	if err := F.D.Run(ctx, src); err != nil {
		return nil, err
	}
	if F.cur != nil {
		return nil, chem.NewError(fmt.Sprintf("%s: %s ends in the middle of '%s'", chem.WrongFormat, name, F.cur.key), "gaussian.ReadFChk", true)
	}
	ret, err := F.data()
	if err != nil {
		return nil, err
	}
	if g == nil {
		return ret, nil
	}
	return ret, ret.apply(name, g, F.log)
}

func (F *fchkReader) done() bool {
	return len(F.arrays) == 4 && len(F.ints) == 2
}

//Atomic numbers                             I   N=           3
//Number of electrons                        I               10
func (F *fchkReader) readHeader(line string) error {
	if line == "" || line[0] == ' ' {
		return nil
	}
	if len(line) <= fchkNameWidth {
		return nil
	}
	key := strings.TrimSpace(line[:fchkNameWidth])
	f := reader.Fields(line)
	switch key {
	case fchkAtomicNumbers, fchkCoordinates, fchkMMCharges, fchkLayers:
		if len(f) < 2 || f[len(f)-2].Text != "N=" {
			F.D.CharNum = fchkNameWidth + 1
			return fmt.Errorf("expected the number of values of '%s'", key)
		}
		n, err := F.D.FieldInt(f, len(f)-1)
		if err != nil {
			return err
		}
		if n < 0 {
			return fmt.Errorf("negative number of values for '%s'", key)
		}
		F.log.Logf(chem.Verbose, "Reading %d values of '%s'", n, key)
		F.cur = &array{key: key, values: make([]float64, 0, n)}
		if n == 0 {
			return F.close()
		}
		F.D.SetState(reader.State{Name: "ReadArray", Do: F.readArray})
	case fchkNBasis, fchkNElectrons:
		n, err := F.D.FieldInt(f, len(f)-1)
		if err != nil {
			return err
		}
		F.ints[key] = n
		F.D.Stop = F.done()
	}
	return nil
}

//  0.00000000E+00  0.00000000E+00  2.21815000E-01  0.00000000E+00  1.43053000E+00
func (F *fchkReader) readArray(line string) error {
	for _, v := range reader.Fields(line) {
		F.D.CharNum = v.Col
		if F.cur.full() {
			return fmt.Errorf("more than %d values in '%s'", cap(F.cur.values), F.cur.key)
		}
		x, err := strconv.ParseFloat(v.Text, 64)
		if err != nil {
			return err
		}
		F.cur.values = append(F.cur.values, x)
	}
	if F.cur.full() {
		return F.close()
	}
	return nil
}

func (F *fchkReader) close() error {
	F.arrays[F.cur.key] = F.cur.values
	F.cur = nil
	F.D.SetState(reader.State{Name: "ReadHeader", Do: F.readHeader})
	F.D.Stop = F.done()
	return nil
}

func (F *fchkReader) data() (*FChk, error) {
	ret := &FChk{NBasis: F.ints[fchkNBasis], NElectrons: F.ints[fchkNElectrons]}
	for _, v := range F.arrays[fchkAtomicNumbers] {
		ret.AtomicNumbers = append(ret.AtomicNumbers, int(v))
	}
	n := len(ret.AtomicNumbers)
	if n == 0 {
		return nil, chem.NewError(fmt.Sprintf("%s: no atoms in %s", chem.WrongFormat, F.D.Path), "gaussian.ReadFChk", true)
	}
	coords := F.arrays[fchkCoordinates]
	if len(coords) != 3*n {
		return nil, &chem.ConsistencyError{Path: F.D.Path, Index: -1, Expected: fmt.Sprintf("%d coordinates", 3*n), Got: fmt.Sprintf("%d coordinates", len(coords))}
	}
	ret.Coordinates = mat.NewDense(n, 3, nil)
	ret.Coordinates.Scale(chem.Bohr2A, mat.NewDense(n, 3, coords))
	ret.MMCharges = F.arrays[fchkMMCharges]
	for _, v := range F.arrays[fchkLayers] {
		ret.Layers = append(ret.Layers, fchkLayer(int(v)))
	}
	return ret, nil
}

//fchkLayer converts the Gaussian layer numbers: 1 is the high layer.
func fchkLayer(n int) chem.Layer {
	switch n {
	case 1:
		return chem.Model
	case 2:
		return chem.Intermediate
	default:
		return chem.Real
	}
}

func (F *FChk) apply(name string, g *chem.Geometry, log chem.Logger) error {
	n := len(F.AtomicNumbers)
	if g.AtomMap.Len() != n {
		return &chem.ConsistencyError{Path: name, Index: -1, Expected: fmt.Sprintf("%d atoms in the atom map", g.AtomMap.Len()), Got: fmt.Sprintf("%d atoms", n)}
	}
	atoms := make([]*chem.Atom, n)
	for i, z := range F.AtomicNumbers {
		id, ok := g.AtomMap.Get(i)
		if !ok {
			return &chem.ConsistencyError{Path: name, Index: i, Expected: "an atom in the atom map", Got: "none"}
		}
		if id.PDB.AtomicNumber() != z {
			return &chem.ConsistencyError{Path: name, Index: i, Expected: fmt.Sprintf("atomic number %d (%s)", id.PDB.AtomicNumber(), id), Got: fmt.Sprintf("atomic number %d", z)}
		}
		if atoms[i], ok = g.Atom(id); !ok {
			return fmt.Errorf("atom %s in the atom map but not in the geometry", id)
		}
	}
	if err := g.SetCoords(F.Coordinates); err != nil {
		return err
	}
	if len(F.MMCharges) == n {
		for i, at := range atoms {
			at.Charge = F.MMCharges[i]
		}
	} else if len(F.MMCharges) > 0 {
		log.Logf(chem.Warning, "%d MM charges in %s, for %d atoms. Ignored", len(F.MMCharges), name, n)
	}
	if len(F.Layers) == n {
		for i, at := range atoms {
			at.Layer = F.Layers[i]
		}
	}
	return nil
}
