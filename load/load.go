/*
 * load.go, part of gochemio.
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


//Package load chooses the reader for a file from its extension, and loads
//it on top of a geometry.
package load

import (
	"context"
	"errors"
	"runtime"
	"strings"

	chem "github.com/rmera/gochemio"
	"github.com/rmera/gochemio/amber"
	"github.com/rmera/gochemio/cube"
	"github.com/rmera/gochemio/gaussian"
	"github.com/rmera/gochemio/mol2"
	"github.com/rmera/gochemio/pdb"
	"github.com/rmera/gochemio/reader"
	"github.com/rmera/gochemio/xat"
)

// Result holds what a load produced besides the changes to the geometry.
// At most one field is set, depending on the type of file.
type Result struct {
	Output *gaussian.Output
	FChk   *gaussian.FChk
	Grid   *cube.Grid
}

// Loader loads files into geometries.
type Loader struct {
	Config Config
	Logger chem.Logger
	Yield  func(lines int) error //called every Config.Every lines or Config.Interval. runtime.Gosched if nil
}

// New returns a loader with the given configuration and logger.
func New(c Config, log chem.Logger) *Loader {
	return &Loader{Config: c, Logger: log}
}

func (L *Loader) logger() chem.Logger {
	return chem.OrNop(L.Logger)
}

func (L *Loader) cadence() *reader.Cadence {
	if L.Config.Every == 0 && L.Config.Interval == 0 {
		return nil
	}
	y := L.Yield
	if y == nil {
		y = func(int) error {
			runtime.Gosched()
			return nil
		}
	}
	return &reader.Cadence{Every: L.Config.Every, Interval: L.Config.Interval, Yield: y}
}

func (L *Loader) gaussianOptions() gaussian.Options {
	return gaussian.Options{Chain: L.Config.Chain, Methods: L.Config.Methods, Logger: L.Logger, Cadence: L.cadence()}
}

// Supported reports whether files with the name given have a reader.
func Supported(name string) bool {
	switch reader.Ext(name) {
	case ".com", ".gjf", ".log", ".fchk", ".pdb", ".pqr", ".mol2", ".xat", ".cub", ".cube":
		return true
	}
	return false
}

// Load reads the file name into g, with the reader chosen by its extension,
// once a compression suffix is removed. Gaussian outputs, formatted
// checkpoints and cube files are read on top of the identity map of g.
// Nothing is read if the extension is not supported, and a *chem.FileTypeError
// is returned.
func (L *Loader) Load(ctx context.Context, name string, g *chem.Geometry) (*Result, error) {
	log := L.logger()
	ret := new(Result)
	var err error
	switch ext := reader.Ext(name); ext {
	case ".com", ".gjf":
		err = gaussian.ReadInputFile(ctx, name, g, L.gaussianOptions())
	case ".log":
		ret.Output, err = gaussian.ReadOutputFile(ctx, name, g, L.gaussianOptions())
	case ".fchk":
		ret.FChk, err = gaussian.ReadFChkFile(ctx, name, g, L.gaussianOptions())
	case ".pdb":
		err = pdb.ReadFile(ctx, name, g, pdb.Options{DefaultChain: L.Config.DefaultChain, Logger: L.Logger, Cadence: L.cadence()})
	case ".pqr":
		err = pdb.ReadPQRFile(ctx, name, g, pdb.Options{DefaultChain: L.Config.DefaultChain, Logger: L.Logger, Cadence: L.cadence()})
	case ".mol2":
		err = mol2.ReadFile(ctx, name, g, mol2.Options{Chain: L.Config.Chain, Logger: L.Logger, Cadence: L.cadence()})
	case ".xat":
		err = xat.ReadFile(ctx, name, g, xat.Options{Logger: L.Logger})
	case ".cub", ".cube":
		ret.Grid, err = cube.ReadFile(ctx, name, g, cube.Options{Logger: L.Logger, Cadence: L.cadence()})
	default:
		return nil, &chem.FileTypeError{Path: name, Ext: ext}
	}
	if err != nil {
		var rerr *chem.ResidueMismatchError
		var cerr chem.CriticalError
		switch {
		case errors.As(err, &rerr):
			log.Logf(chem.ErrorLevel, "Residue mismatch in %s: %s", name, rerr)
		case errors.As(err, &cerr) && !cerr.Critical():
			log.Logf(chem.Warning, "Incomplete load of %s:\n%s", name, err)
		default:
			log.Logf(chem.ErrorLevel, "Failed to load %s:\n%s", name, err)
		}
		return nil, chem.ErrDecorate(err, "load.Load")
	}
	log.Logf(chem.Info, "Geometry loaded from %s", name)
	return ret, nil
}

// Update loads the file name into a temporary geometry, and copies the
// requested fields of its atoms to the atoms of dst with the same ID. If
// chain is not empty, it replaces the chains of the loaded atoms. It returns
// the number of atoms updated.
func (L *Loader) Update(ctx context.Context, name string, dst *chem.Geometry, what Field, chain string) (int, error) {
	src := chem.NewGeometry(name)
	if _, err := L.Load(ctx, name, src); err != nil {
		return 0, err
	}
	n, missing := UpdateGeometry(dst, src, what, chain)
	if len(missing) > 0 {
		L.logger().Logf(chem.Warning, "%d atoms of %s are not in %s: %v", len(missing), name, dst.Name, chem.Lazy(func() string {
			ids := make([]string, len(missing))
			for i, id := range missing {
				ids[i] = id.String()
			}
			return strings.Join(ids, " ")
		}))
	}
	return n, nil
}

// ParametersFile reads the force-field parameters in the FRCMOD or PRM file
// name into p.
func (L *Loader) ParametersFile(ctx context.Context, name string, p *chem.Parameters) error {
	var err error
	switch ext := reader.Ext(name); ext {
	case ".frcmod":
		err = amber.ReadFRCMODFile(ctx, name, p, L.Logger)
	case ".prm":
		err = amber.ReadPRMFile(ctx, name, p, L.Logger)
	default:
		return &chem.FileTypeError{Path: name, Ext: ext}
	}
	if err != nil {
		return chem.ErrDecorate(err, "load.ParametersFile")
	}
	L.logger().Logf(chem.Info, "Parameters loaded from %s", name)
	return nil
}
