/*
 * cube.go, part of gochemio.
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

//Package cube reads Gaussian cube files: the positions of the atoms, which
//must match a geometry loaded before, and the volumetric grid.
package cube

import (
	"context"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	chem "github.com/rmera/gochemio"
	"github.com/rmera/gochemio/reader"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"
)

// Grid is a volumetric grid. Values are stored in the order of the file,
// the last axis running fastest. Origin and Scale are in Angstrom.
type Grid struct {
	Origin r3.Vec
	Scale  r3.Vec //only the axis-aligned spacing is kept
	N      [3]int
	Values []float64
}

// Len returns the number of points in the grid.
func (G *Grid) Len() int {
	return G.N[0] * G.N[1] * G.N[2]
}

// At returns the value at the point i, j, k.
func (G *Grid) At(i, j, k int) float64 {
	if i < 0 || j < 0 || k < 0 || i >= G.N[0] || j >= G.N[1] || k >= G.N[2] {
		panic(fmt.Sprintf("cube: point %d %d %d out of the %v grid", i, j, k, G.N))
	}
	return G.Values[(i*G.N[1]+j)*G.N[2]+k]
}

// Point returns the position of the point i, j, k.
func (G *Grid) Point(i, j, k int) r3.Vec {
	return r3.Add(G.Origin, r3.Vec{X: float64(i) * G.Scale.X, Y: float64(j) * G.Scale.Y, Z: float64(k) * G.Scale.Z})
}

// Range returns the smallest and largest values in the grid.
func (G *Grid) Range() (float64, float64) {
	if len(G.Values) == 0 {
		return 0, 0
	}
	return floats.Min(G.Values), floats.Max(G.Values)
}

// MeanStd returns the mean and the standard deviation of the values.
func (G *Grid) MeanStd() (float64, float64) {
	return stat.MeanStdDev(G.Values, nil)
}

// Histogram distributes the values in n bins of equal width between the
// smallest and largest values. It returns the n+1 bin edges and the counts.
func (G *Grid) Histogram(n int) ([]float64, []float64) {
	if n < 1 || len(G.Values) == 0 {
		return nil, nil
	}
	min, max := G.Range()
	div := floats.Span(make([]float64, n+1), min, max)
	div[n] = math.Nextafter(max, math.Inf(1))
	if div[0] == div[n] {
		div[0] = math.Nextafter(min, math.Inf(-1))
	}
	sorted := append([]float64(nil), G.Values...)
	sort.Float64s(sorted)
	return div, stat.Histogram(nil, div, sorted, nil)
}

// Options changes the way cube files are read.
type Options struct {
	Logger  chem.Logger
	Cadence *reader.Cadence
}

type cubeReader struct {
	D      *reader.Driver
	g      *chem.Geometry
	log    chem.Logger
	grid   *Grid
	natoms int
	axis   int
	atom   int
	bohr   bool
}

// Read reads the cube data in r. The atoms in the file are checked, by their
// atomic numbers, against the identity map of g, and their positions are set.
// name is used in error messages.
func Read(ctx context.Context, r io.Reader, name string, g *chem.Geometry, opts Options) (*Grid, error) {
	return read(ctx, reader.NewSource(r, ""), name, g, opts)
}

// ReadFile reads the cube file name. See Read.
func ReadFile(ctx context.Context, name string, g *chem.Geometry, opts Options) (*Grid, error) {
	src, err := reader.Open(name, "")
	if err != nil {
		return nil, chem.ErrDecorate(err, "cube.ReadFile")
	}
	defer src.Close()
	return read(ctx, src, name, g, opts)
}

func read(ctx context.Context, src reader.Lines, name string, g *chem.Geometry, opts Options) (*Grid, error) {
	if g.AtomMap == nil || g.AtomMap.Len() == 0 {
		return nil, fmt.Errorf("cube file %s: %w", name, chem.ErrNoAtomMap)
	}
	C := &cubeReader{g: g, log: chem.OrNop(opts.Logger), grid: new(Grid)}
	C.D = reader.NewDriver(name, reader.State{Name: "ReadOffset", Do: C.readOffset})
	C.D.Skip = 2 //comments
	C.D.Cadence = opts.Cadence
	if err := C.D.Run(ctx, src); err != nil {
		return nil, err
	}
	if C.axis < 3 || C.atom < C.natoms {
		return nil, chem.NewError(fmt.Sprintf("%s: %s ends before the grid", chem.WrongFormat, name), "cube.Read", true)
	}
	if len(C.grid.Values) != C.grid.Len() {
		return nil, chem.NewError(fmt.Sprintf("%s: %s has %d grid values, expected %d", chem.WrongFormat, name, len(C.grid.Values), C.grid.Len()), "cube.Read", true)
	}
	C.log.Logf(chem.Debug, "Grid: %d Dimensions: %d %d %d", len(C.grid.Values), C.grid.N[0], C.grid.N[1], C.grid.N[2])
	return C.grid, nil
}

func (C *cubeReader) vec(f []reader.Field, start int) (r3.Vec, error) {
	var c [3]float64
	for i := range c {
		var err error
		if c[i], err = C.D.FieldFloat(f, start+i); err != nil {
			return r3.Vec{}, err
		}
	}
	v := r3.Vec{X: c[0], Y: c[1], Z: c[2]}
	if C.bohr {
		v = r3.Scale(chem.Bohr2A, v)
	}
	return v, nil
}

//    3    0.000000    0.000000    0.000000
//A negative number of atoms means an extra line with orbital information
//follows the atoms. It is dropped by the grid state.
func (C *cubeReader) readOffset(line string) error {
	f := reader.Fields(line)
	n, err := C.D.FieldInt(f, 0)
	if err != nil {
		return err
	}
	if n < 0 {
		n = -n
	}
	if n != C.g.AtomMap.Len() {
		return &chem.ConsistencyError{Path: C.D.Path, Index: -1, Expected: fmt.Sprintf("%d atoms", C.g.AtomMap.Len()), Got: fmt.Sprintf("%d atoms", n)}
	}
	C.natoms = n
	//The units are only known in the next line, so the origin is read again there.
	if _, err := C.vec(f, 1); err != nil {
		return err
	}
	C.D.SetState(reader.State{Name: "ReadAxis", Do: C.readAxis(f)})
	return nil
}

//   80    0.150000    0.000000    0.000000
//A positive number of points means Bohr, a negative one Angstrom.
func (C *cubeReader) readAxis(offset []reader.Field) func(string) error {
	return func(line string) error {
		f := reader.Fields(line)
		n, err := C.D.FieldInt(f, 0)
		if err != nil {
			return err
		}
		if C.axis == 0 {
			C.bohr = n > 0
			if C.grid.Origin, err = C.vec(offset, 1); err != nil {
				return err
			}
		}
		if n < 0 {
			n = -n
		}
		s, err := C.D.FieldFloat(f, 1+C.axis)
		if err != nil {
			return err
		}
		if C.bohr {
			s *= chem.Bohr2A
		}
		C.grid.N[C.axis] = n
		switch C.axis {
		case 0:
			C.grid.Scale.X = s
		case 1:
			C.grid.Scale.Y = s
		case 2:
			C.grid.Scale.Z = s
		}
		C.axis++
		if C.axis == 3 {
			C.grid.Values = make([]float64, 0, C.grid.Len())
			C.D.SetState(reader.State{Name: "ReadAtoms", Do: C.readAtom})
		}
		return nil
	}
}

//    6    0.000000   -1.220000    0.000000    0.700000
func (C *cubeReader) readAtom(line string) error {
	id, _ := C.g.AtomMap.Get(C.atom)
	f := reader.Fields(line)
	z, err := C.D.FieldInt(f, 0)
	if err != nil {
		return err
	}
	if z != id.PDB.AtomicNumber() {
		return &chem.ConsistencyError{Path: C.D.Path, Index: C.atom, Expected: fmt.Sprintf("element %s (%s)", id.PDB.Element, id), Got: fmt.Sprintf("atomic number %d", z)}
	}
	pos, err := C.vec(f, 2)
	if err != nil {
		return err
	}
	at, ok := C.g.Atom(id)
	if !ok {
		return fmt.Errorf("atom %s in the atom map but not in the geometry", id)
	}
	at.Position = pos
	C.log.Logf(chem.Verbose, "Adding Atom. ID: %s. Position: %v", id, pos)
	C.atom++
	if C.atom == C.natoms {
		C.D.SetState(reader.State{Name: "ReadGrid", Do: C.readGrid})
	}
	return nil
}

//Only lines whose first value has a decimal point hold grid values.
func (C *cubeReader) readGrid(line string) error {
	f := reader.Fields(line)
	if len(f) == 0 || !strings.Contains(f[0].Text, ".") {
		return nil
	}
	for _, v := range f {
		C.D.CharNum = v.Col
		if len(C.grid.Values) == cap(C.grid.Values) {
			return fmt.Errorf("more values than the %d points of the grid", C.grid.Len())
		}
		x, err := strconv.ParseFloat(v.Text, 64)
		if err != nil {
			return err
		}
		C.grid.Values = append(C.grid.Values, x)
	}
	return nil
}
